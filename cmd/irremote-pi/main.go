// Command irremote-pi runs the keypad IR remote on a Linux board such as a
// Raspberry Pi, with the pins and options given by a JSON config file.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/i2c/i2creg"

	"github.com/sparques/irremote"
	"github.com/sparques/irremote/config"
	"github.com/sparques/irremote/diag"
	"github.com/sparques/irremote/display"
	"github.com/sparques/irremote/keypad"
	"github.com/sparques/irremote/nec"
	"github.com/sparques/irremote/pi"
	"github.com/sparques/irremote/remote"
)

// ssd1306Addr is where periph's ssd1306 driver talks to the panel.
const ssd1306Addr = 0x3C

func main() {
	configPath := flag.String("config", "irremote.json", "path to the JSON config file")
	flag.Parse()

	var level slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))

	if err := run(*configPath, logger, &level); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("irremote stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, logger *slog.Logger, level *slog.LevelVar) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Trace {
		level.Set(slog.LevelDebug)
	}
	rcfg, err := cfg.Remote()
	if err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return err
	}

	if err := pi.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()

	var sink diag.Sink = diag.Nop
	if cfg.Debug {
		sink = diag.NewLogSink(logger)
	}

	scanner, err := pi.NewScanner(cfg.Pins.Rows, cfg.Pins.Cols, keypad.DefaultLayout, logger.With("part", "keypad"))
	if err != nil {
		return err
	}

	led, err := pi.Pin(cfg.Pins.IRLed)
	if err != nil {
		return err
	}
	carrier, err := pi.NewCarrier(led, clock, logger.With("part", "carrier"))
	if err != nil {
		return err
	}

	parts := remote.Parts{
		Scanner:     scanner,
		Table:       table,
		Transmitter: nec.NewTransmitter(carrier),
		Clock:       clock,
	}

	if cfg.Learn {
		rx := cfg.Receiver()
		var sm irremote.RxStateMachine = rx
		if cfg.Trace {
			sm = irremote.MultiRxStateMachine(rx, pi.PairLogger(logger.With("part", "receiver")))
		}
		pin, err := pi.Pin(cfg.Pins.IRRecv)
		if err != nil {
			return err
		}
		edges, err := pi.NewReceiver(pin, sm, clock)
		if err != nil {
			return err
		}
		go func() {
			if err := edges.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("ir receiver stopped", "err", err)
			}
		}()
		parts.Receiver = rx
	}

	if cfg.Display {
		if screen := openDisplay(cfg.Pins, sink, logger); screen != nil {
			sink = diag.Multi(sink, screen)
		}
	}
	parts.Sink = sink

	r, err := remote.New(rcfg, parts)
	if err != nil {
		return err
	}
	return r.Run(ctx)
}

// openDisplay returns the OLED sink, or nil if the panel can't be brought
// up; the remote then runs without it.
func openDisplay(pins config.Pins, sink diag.Sink, logger *slog.Logger) *display.Sink {
	fail := func(err error) *display.Sink {
		sink.Emit(diag.Event{Kind: diag.KindNotice, Msg: "SSD1306 allocation failed", Err: err})
		return nil
	}

	if pins.DisplayAddr != 0 && pins.DisplayAddr != ssd1306Addr {
		logger.Warn("display address not supported, using default",
			"display_addr", pins.DisplayAddr,
			"using", ssd1306Addr)
	}

	bus, err := i2creg.Open(pins.I2C)
	if err != nil {
		return fail(err)
	}
	screen, err := pi.OpenSSD1306(bus)
	if err != nil {
		_ = bus.Close()
		return fail(err)
	}
	s := display.New(screen, sink)
	if err := s.Splash(); err != nil {
		_ = bus.Close()
		return fail(err)
	}
	return s
}
