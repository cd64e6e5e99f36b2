package pi

import (
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"

	"github.com/sparques/irremote"
)

// Carrier drives an IR LED from a PWM capable pin: 50% duty at the carrier
// frequency during marks, low during spaces. Timing is only as good as the
// kernel's scheduling; use a hardware PWM pin.
type Carrier struct {
	pin    gpio.PinOut
	freq   physic.Frequency
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewCarrier parks pin low and returns a 38kHz Carrier on it.
func NewCarrier(pin gpio.PinOut, clock clockwork.Clock, logger *slog.Logger) (*Carrier, error) {
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("ir led %s: %w", pin, err)
	}
	return &Carrier{
		pin:    pin,
		freq:   irremote.Freq38Khz * physic.Hertz,
		clock:  clock,
		logger: logger,
	}, nil
}

func (c *Carrier) SendPair(pair irremote.TimePair) error {
	if err := c.pin.PWM(gpio.DutyHalf, c.freq); err != nil {
		return err
	}
	c.clock.Sleep(pair.Mark())
	if err := c.pin.Out(gpio.Low); err != nil {
		return err
	}
	if pair.Space() > 0 {
		c.clock.Sleep(pair.Space())
	}
	return nil
}

// SendPairs implements irremote.PairSender. A failing pin aborts the train
// and leaves the LED off; the error is logged.
func (c *Carrier) SendPairs(pairs ...irremote.TimePair) {
	for _, p := range pairs {
		if err := c.SendPair(p); err != nil {
			_ = c.pin.Out(gpio.Low)
			c.logger.Error(
				"ir carrier failed",
				"pin", c.pin.String(),
				"err", err)
			return
		}
	}
}
