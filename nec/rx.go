package nec

import (
	"sync/atomic"
	"time"

	"github.com/sparques/irremote"
)

// Received is the outcome of one decoded frame.
type Received struct {
	Code uint32
	// Valid is set for a complete data frame.
	Valid bool
	// Repeat is set for a repeat frame; Code then holds the last data frame
	// seen.
	Repeat bool
}

// StateMachine decodes NEC mark/space pairs. Pairs are expected the way an
// inverted irremote.EdgeTimer produces them: the mark of a bit followed by
// the space after it. Anything out of tolerance drops the frame in progress.
type StateMachine struct {
	CmdHandler func(Received)
	// Bits is the expected data width; 0 means DefaultBits.
	Bits int

	buf      uint32
	bitcount int
	active   bool
	last     uint32
	seen     bool
}

func NewStateMachine(cmdHandler func(Received)) *StateMachine {
	return &StateMachine{CmdHandler: cmdHandler}
}

func within(d, lo, hi time.Duration) bool {
	return d >= lo && d <= hi
}

func isLeader(mark time.Duration) bool {
	return within(mark, 7*time.Millisecond, 11*time.Millisecond)
}

// HandleTimePair implements irremote.RxStateMachine.
func (sm *StateMachine) HandleTimePair(pair irremote.TimePair) {
	mark, space := pair.Mark(), pair.Space()
	switch {
	case isLeader(mark) && within(space, 3500*time.Microsecond, 5500*time.Microsecond):
		// start of frame
		sm.buf = 0
		sm.bitcount = 0
		sm.active = true
		return
	case isLeader(mark) && within(space, 1750*time.Microsecond, 2800*time.Microsecond):
		sm.active = false
		if sm.seen {
			sm.CmdHandler(Received{Code: sm.last, Repeat: true})
		}
		return
	case !sm.active:
		return
	case !within(mark, 300*time.Microsecond, 900*time.Microsecond):
		sm.active = false
		return
	}

	switch {
	case within(space, 300*time.Microsecond, 900*time.Microsecond):
		sm.buf <<= 1
	case within(space, 1200*time.Microsecond, 2200*time.Microsecond):
		sm.buf = sm.buf<<1 | 1
	default:
		sm.active = false
		return
	}
	sm.bitcount++

	if sm.bitcount < clampBits(sm.Bits) {
		return
	}

	sm.active = false
	sm.last = sm.buf
	sm.seen = true
	sm.CmdHandler(Received{Code: sm.buf, Valid: true})
}

// Reset drops any frame in progress and forgets the last code.
func (sm *StateMachine) Reset() {
	sm.buf = 0
	sm.bitcount = 0
	sm.active = false
	sm.seen = false
}

const (
	stateListening uint32 = iota
	stateReady
	stateHeld
)

const (
	flagValid uint32 = 1 << iota
	flagRepeat
)

// Receiver wraps a StateMachine with a one-frame latch so a polling loop can
// pick decoded frames up. The first frame decoded is held until Resume is
// called; frames arriving in between are dropped. HandleTimePair may run in
// an interrupt handler or another goroutine than Poll and Resume.
type Receiver struct {
	sm    *StateMachine
	state atomic.Uint32
	code  atomic.Uint32
	flags atomic.Uint32
}

// NewReceiver returns a listening Receiver for bits wide frames.
func NewReceiver(bits int) *Receiver {
	r := &Receiver{}
	r.sm = NewStateMachine(r.latch)
	r.sm.Bits = bits
	return r
}

// HandleTimePair implements irremote.RxStateMachine.
func (r *Receiver) HandleTimePair(pair irremote.TimePair) {
	if r.state.Load() != stateListening {
		return
	}
	r.sm.HandleTimePair(pair)
}

func (r *Receiver) latch(rx Received) {
	if r.state.Load() != stateListening {
		return
	}
	var flags uint32
	if rx.Valid {
		flags |= flagValid
	}
	if rx.Repeat {
		flags |= flagRepeat
	}
	r.code.Store(rx.Code)
	r.flags.Store(flags)
	r.state.Store(stateReady)
}

// Poll returns the latched frame once. It never blocks.
func (r *Receiver) Poll() (Received, bool) {
	if !r.state.CompareAndSwap(stateReady, stateHeld) {
		return Received{}, false
	}
	flags := r.flags.Load()
	return Received{
		Code:   r.code.Load(),
		Valid:  flags&flagValid != 0,
		Repeat: flags&flagRepeat != 0,
	}, true
}

// Resume rearms the receiver for the next frame. Without it nothing more is
// ever decoded.
func (r *Receiver) Resume() {
	r.sm.Reset()
	r.state.Store(stateListening)
}
