package remote

import (
	"time"

	"github.com/sparques/irremote/codes"
	"github.com/sparques/irremote/diag"
	"github.com/sparques/irremote/keypad"
	"github.com/sparques/irremote/nec"
)

// DefaultLearnWindow is how long a received code waits for a button.
const DefaultLearnWindow = 5 * time.Second

// Receiver hands out decoded frames one at a time. nec.Receiver implements
// it.
type Receiver interface {
	Poll() (nec.Received, bool)
	Resume()
}

// LearnState is the state of a Learner.
type LearnState uint8

const (
	Idle LearnState = iota
	AwaitingAssignment
)

func (s LearnState) String() string {
	if s == AwaitingAssignment {
		return "awaiting_assignment"
	}
	return "idle"
}

// Learner binds codes captured by the receiver to buttons. It never reads a
// clock itself: callers pass the current time in.
type Learner struct {
	table  *codes.Table
	rx     Receiver
	sink   diag.Sink
	window time.Duration

	state   LearnState
	pending uint32
	started time.Time
}

func NewLearner(table *codes.Table, rx Receiver, window time.Duration, sink diag.Sink) *Learner {
	if sink == nil {
		sink = diag.Nop
	}
	if window <= 0 {
		window = DefaultLearnWindow
	}
	return &Learner{table: table, rx: rx, sink: sink, window: window}
}

func (l *Learner) State() LearnState { return l.state }

// Pending returns the code waiting for a button, if any.
func (l *Learner) Pending() (uint32, bool) {
	return l.pending, l.state == AwaitingAssignment
}

// Offer hands a received frame to the learner. Only complete data frames
// open an assignment window; anything else is dropped and the receiver
// rearmed. Frames offered while a window is open are ignored.
func (l *Learner) Offer(rx nec.Received, now time.Time) {
	if l.state != Idle {
		return
	}
	if !rx.Valid || rx.Repeat {
		l.rx.Resume()
		return
	}
	l.state = AwaitingAssignment
	l.pending = rx.Code
	l.started = now
	l.sink.Emit(diag.Event{Kind: diag.KindReceived, Code: rx.Code})
}

// Press tries to complete the assignment with b. It reports whether the
// press was used.
func (l *Learner) Press(b keypad.Button, now time.Time) bool {
	if l.state != AwaitingAssignment || l.expired(now) {
		return false
	}
	if !l.table.Assign(b, l.pending) {
		return false
	}
	l.sink.Emit(diag.Event{Kind: diag.KindAssigned, Button: b, Code: l.pending})
	l.finish()
	return true
}

// Tick closes an expired window without touching the table.
func (l *Learner) Tick(now time.Time) {
	if l.state != AwaitingAssignment || !l.expired(now) {
		return
	}
	l.sink.Emit(diag.Event{Kind: diag.KindLearnTimeout, Code: l.pending})
	l.finish()
}

func (l *Learner) expired(now time.Time) bool {
	return now.Sub(l.started) >= l.window
}

func (l *Learner) finish() {
	l.state = Idle
	l.pending = 0
	l.rx.Resume()
}
