package pi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"

	"github.com/sparques/irremote"
)

// edgePoll bounds how long Run waits for an edge before checking its context.
const edgePoll = 100 * time.Millisecond

// Receiver timestamps the edges of a demodulating IR receiver's output and
// feeds the pairs to a state machine, typically a nec.Receiver.
type Receiver struct {
	pin   gpio.PinIn
	timer *irremote.EdgeTimer
	now   func() time.Time
}

// NewReceiver configures pin for edge detection.
func NewReceiver(pin gpio.PinIn, sm irremote.RxStateMachine, clock clockwork.Clock) (*Receiver, error) {
	if err := pin.In(gpio.PullUp, gpio.BothEdges); err != nil {
		return nil, fmt.Errorf("ir receiver %s: %w", pin, err)
	}
	return &Receiver{
		pin:   pin,
		timer: irremote.NewEdgeTimer(sm, true),
		now:   clock.Now,
	}, nil
}

// Run processes edges until ctx is done.
func (r *Receiver) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.pin.WaitForEdge(edgePoll) {
			continue
		}
		r.timer.Edge(r.pin.Read() == gpio.High, r.now())
	}
}

// PairLogger logs every received pair at debug level. Feed it next to the
// decoder with irremote.MultiRxStateMachine to see what a remote sends.
func PairLogger(logger *slog.Logger) irremote.RxStateMachine {
	return irremote.RxStateMachineFunc(func(p irremote.TimePair) {
		logger.Debug("ir pair", "mark", p.Mark(), "space", p.Space())
	})
}
