// Package pi runs the remote on a Linux board through periph.io: keypad
// lines, the IR LED carrier, the IR receiver and an SSD1306 panel.
package pi

import (
	"errors"
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/sparques/irremote/keypad"
)

var ErrUnknownPin = errors.New("unknown_pin")

// Init loads the periph host drivers. It is safe to call more than once.
func Init() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("periph host init: %w", err)
	}
	return nil
}

// Pin looks a GPIO line up by name, e.g. "GPIO17".
func Pin(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPin, name)
	}
	return p, nil
}

// Line adapts a periph pin to keypad.Input and keypad.Output. Output
// failures are logged; the scan carries on.
type Line struct {
	gpio.PinIO
	Logger *slog.Logger
}

func (l Line) High() { l.drive(gpio.High) }

func (l Line) Low() { l.drive(gpio.Low) }

func (l Line) drive(level gpio.Level) {
	if err := l.Out(level); err != nil {
		l.Logger.Error(
			"keypad line failed",
			"pin", l.String(),
			"level", level.String(),
			"err", err)
	}
}

func (l Line) Get() bool { return l.Read() == gpio.High }

// NewScanner sets up rows as pulled-up inputs and columns as outputs parked
// high, and returns a keypad.Scanner over them.
func NewScanner(rows [keypad.Rows]string, cols [keypad.Cols]string, layout keypad.Layout, logger *slog.Logger) (*keypad.Scanner, error) {
	var in [keypad.Rows]keypad.Input
	var out [keypad.Cols]keypad.Output
	for i, name := range rows {
		p, err := Pin(name)
		if err != nil {
			return nil, err
		}
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("keypad row %s: %w", name, err)
		}
		in[i] = Line{PinIO: p, Logger: logger}
	}
	for i, name := range cols {
		p, err := Pin(name)
		if err != nil {
			return nil, err
		}
		if err := p.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("keypad column %s: %w", name, err)
		}
		out[i] = Line{PinIO: p, Logger: logger}
	}
	return keypad.NewScanner(in, out, layout), nil
}
