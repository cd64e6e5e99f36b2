// Package remote is the control loop of the keypad IR remote: it scans the
// keypad, transmits the code bound to each press and, when learning is on,
// binds codes picked up by the IR receiver to the next button pressed.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sparques/irremote/codes"
	"github.com/sparques/irremote/diag"
	"github.com/sparques/irremote/keypad"
	"github.com/sparques/irremote/nec"
)

var (
	ErrNoScanner     = errors.New("no_scanner")
	ErrNoTransmitter = errors.New("no_transmitter")
	ErrNoReceiver    = errors.New("no_receiver")
	ErrUnknownPolicy = errors.New("unknown_learn_policy")
)

// Policy decides what key presses do while a learned code waits for its
// button.
type Policy uint8

const (
	// PolicyExclusive reserves the keypad for the assignment: the first
	// press binds the code and nothing is transmitted until the window
	// closes.
	PolicyExclusive Policy = iota
	// PolicyPassthrough keeps the remote usable: presses are debounced and
	// transmitted as usual, and the first one also takes the code (before
	// it is transmitted).
	PolicyPassthrough
)

func (p Policy) String() string {
	switch p {
	case PolicyExclusive:
		return "exclusive"
	case PolicyPassthrough:
		return "passthrough"
	default:
		return "unknown"
	}
}

// ParsePolicy is the inverse of Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "exclusive":
		return PolicyExclusive, nil
	case "passthrough":
		return PolicyPassthrough, nil
	}
	return 0, ErrUnknownPolicy
}

// DefaultPollInterval is the pause between two loop iterations.
const DefaultPollInterval = time.Millisecond

// Config holds the loop's capability flags and timings. Zero values pick
// the defaults.
type Config struct {
	// Bits is the NEC data width sent; 0 means nec.DefaultBits.
	Bits         int
	Debounce     time.Duration
	Learn        bool
	LearnWindow  time.Duration
	Policy       Policy
	PollInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.Bits <= 0 {
		c.Bits = nec.DefaultBits
	}
	if c.Debounce <= 0 {
		c.Debounce = keypad.DefaultDebounce
	}
	if c.LearnWindow <= 0 {
		c.LearnWindow = DefaultLearnWindow
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Scanner reports at most one pressed button per call. keypad.Scanner
// implements it.
type Scanner interface {
	Scan() (keypad.Button, bool)
}

// Parts are the collaborators a Remote drives. Receiver is only needed
// with Config.Learn; Sink and Clock may be nil.
type Parts struct {
	Scanner     Scanner
	Table       *codes.Table
	Transmitter Transmitter
	Receiver    Receiver
	Sink        diag.Sink
	Clock       clockwork.Clock
}

// Remote is the main loop.
type Remote struct {
	cfg        Config
	scanner    Scanner
	rx         Receiver
	debounce   keypad.Debouncer
	dispatcher *Dispatcher
	learner    *Learner
	sink       diag.Sink
	clock      clockwork.Clock
}

func New(cfg Config, p Parts) (*Remote, error) {
	cfg = cfg.withDefaults()
	if p.Scanner == nil {
		return nil, ErrNoScanner
	}
	if p.Transmitter == nil {
		return nil, ErrNoTransmitter
	}
	if cfg.Learn && p.Receiver == nil {
		return nil, ErrNoReceiver
	}
	if p.Table == nil {
		p.Table = codes.New(codes.Defaults)
	}
	if p.Sink == nil {
		p.Sink = diag.Nop
	}
	if p.Clock == nil {
		p.Clock = clockwork.NewRealClock()
	}

	r := &Remote{
		cfg:        cfg,
		scanner:    p.Scanner,
		debounce:   keypad.Debouncer{Interval: cfg.Debounce},
		dispatcher: NewDispatcher(p.Table, p.Transmitter, cfg.Bits, p.Sink),
		sink:       p.Sink,
		clock:      p.Clock,
	}
	if cfg.Learn {
		r.rx = p.Receiver
		r.learner = NewLearner(p.Table, p.Receiver, cfg.LearnWindow, p.Sink)
	}
	return r, nil
}

// Learner returns the learning controller, nil when learning is off.
func (r *Remote) Learner() *Learner { return r.learner }

// Announce emits the startup notices.
func (r *Remote) Announce() {
	r.sink.Emit(diag.Event{Kind: diag.KindStartup})
	if r.learner != nil {
		r.sink.Emit(diag.Event{Kind: diag.KindLearnEnabled})
	}
}

// Step runs one loop iteration at now.
func (r *Remote) Step(now time.Time) {
	b, pressed := r.scanner.Scan()

	if r.awaiting() {
		r.learner.Tick(now)
	}
	if pressed {
		r.press(b, now)
	}

	if r.learner != nil && r.learner.State() == Idle {
		if rx, ok := r.rx.Poll(); ok {
			r.learner.Offer(rx, now)
		}
	}
}

func (r *Remote) awaiting() bool {
	return r.learner != nil && r.learner.State() == AwaitingAssignment
}

func (r *Remote) press(b keypad.Button, now time.Time) {
	awaiting := r.awaiting()
	if awaiting && r.cfg.Policy == PolicyExclusive {
		if r.learner.Press(b, now) {
			// the key is likely still down; don't send it straight away
			r.debounce.Hold(now)
		}
		return
	}

	if !r.debounce.Accept(now) {
		return
	}
	if awaiting {
		r.learner.Press(b, now)
	}
	r.dispatcher.Dispatch(b)
}

// Run announces the remote and steps it every PollInterval until ctx is
// done.
func (r *Remote) Run(ctx context.Context) error {
	r.Announce()

	ticker := r.clock.NewTicker(r.cfg.PollInterval)
	defer ticker.Stop()

	for {
		r.Step(r.clock.Now())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}
	}
}
