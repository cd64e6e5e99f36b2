//go:build tinygo

// Command irremote-pico is the keypad IR remote firmware for an RP2040
// board. Options are the compiled-in defaults from config.Default; the log
// goes to the USB serial console.
package main

import (
	"context"
	"log/slog"
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"

	"github.com/sparques/irremote"
	"github.com/sparques/irremote/config"
	"github.com/sparques/irremote/diag"
	"github.com/sparques/irremote/display"
	"github.com/sparques/irremote/keypad"
	"github.com/sparques/irremote/nec"
	"github.com/sparques/irremote/remote"
)

var (
	rowPins = [keypad.Rows]machine.Pin{machine.GP16, machine.GP17, machine.GP18, machine.GP19}
	colPins = [keypad.Cols]machine.Pin{machine.GP20, machine.GP21, machine.GP22, machine.GP26}

	irLedPin  = machine.GP15
	irRecvPin = machine.GP14
)

func main() {
	// give the USB console a moment to enumerate
	time.Sleep(2 * time.Second)

	logger := slog.New(slog.NewTextHandler(machine.Serial, nil))
	if err := run(config.Default(), logger); err != nil {
		logger.Error("irremote stopped", "err", err)
	}
	for {
		time.Sleep(time.Hour)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	rcfg, err := cfg.Remote()
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}

	var sink diag.Sink = diag.Nop
	if cfg.Debug {
		sink = diag.NewLogSink(logger)
	}

	tx, err := irremote.NewTxDevice(irLedPin)
	if err != nil {
		return err
	}

	parts := remote.Parts{
		Scanner:     keypad.NewMachineScanner(rowPins, colPins, keypad.DefaultLayout),
		Table:       table,
		Transmitter: nec.NewTransmitter(tx),
	}

	if cfg.Learn {
		rx := cfg.Receiver()
		dev := irremote.NewRxDevice(irRecvPin, rx, true)
		if err := dev.StartInverted(); err != nil {
			return err
		}
		// run only comes back when setup failed
		defer dev.Stop()
		parts.Receiver = rx
	}

	if cfg.Display {
		if screen := openDisplay(cfg.Pins.DisplayAddr, sink); screen != nil {
			sink = diag.Multi(sink, screen)
		}
	}
	parts.Sink = sink

	r, err := remote.New(rcfg, parts)
	if err != nil {
		return err
	}
	return r.Run(context.Background())
}

// openDisplay returns the OLED sink, or nil if the panel doesn't answer.
func openDisplay(addr uint16, sink diag.Sink) *display.Sink {
	fail := func(err error) *display.Sink {
		sink.Emit(diag.Event{Kind: diag.KindNotice, Msg: "SSD1306 allocation failed", Err: err})
		return nil
	}

	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.I2C0_SDA_PIN,
		SCL:       machine.I2C0_SCL_PIN,
	})
	if err != nil {
		return fail(err)
	}

	dev := ssd1306.NewI2C(machine.I2C0)
	dev.Configure(ssd1306.Config{
		Width:   128,
		Height:  64,
		Address: addr,
	})

	s := display.New(dev, sink)
	if err := s.Splash(); err != nil {
		return fail(err)
	}
	return s
}
