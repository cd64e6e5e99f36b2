// Package diag carries what the remote is doing to whoever is watching: a
// serial console, a log, a screen.
package diag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sparques/irremote/keypad"
	"github.com/sparques/irremote/nec"
)

// Kind is the type of an Event.
type Kind uint8

const (
	KindStartup Kind = iota
	KindLearnEnabled
	KindPressed
	KindReceived
	KindAssigned
	KindLearnTimeout
	KindNotice
)

func (k Kind) String() string {
	switch k {
	case KindStartup:
		return "startup"
	case KindLearnEnabled:
		return "learn_enabled"
	case KindPressed:
		return "pressed"
	case KindReceived:
		return "received"
	case KindAssigned:
		return "assigned"
	case KindLearnTimeout:
		return "learn_timeout"
	case KindNotice:
		return "notice"
	default:
		return "unknown"
	}
}

// Event is one diagnostic record. Button and Code are meaningful for the
// kinds that involve them; Msg is free text for notices.
type Event struct {
	Kind   Kind
	Button keypad.Button
	Code   uint32
	Msg    string
	Err    error
}

// Hex formats a code the way it is printed on screen and in logs.
func Hex(code uint32) string {
	return fmt.Sprintf("0x%X", code)
}

// Sink receives events. Emit must not block for long; it runs on the main
// loop.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// Nop drops everything.
var Nop Sink = SinkFunc(func(Event) {})

type multi []Sink

func (m multi) Emit(ev Event) {
	for _, s := range m {
		s.Emit(ev)
	}
}

// Multi fans events out to every non-nil sink.
func Multi(sinks ...Sink) Sink {
	var m multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	switch len(m) {
	case 0:
		return Nop
	case 1:
		return m[0]
	}
	return m
}

// LogSink writes events as structured log records.
type LogSink struct {
	logger *slog.Logger
}

func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Emit(ev Event) {
	ctx := context.Background()
	switch ev.Kind {
	case KindStartup:
		s.logger.InfoContext(ctx, "DIY IR Remote Initializing...")
	case KindLearnEnabled:
		s.logger.InfoContext(ctx, "IR Learning Mode Enabled")
	case KindPressed:
		s.logger.InfoContext(ctx,
			"button pressed",
			"button", ev.Button.String(),
			"code", Hex(ev.Code))
	case KindReceived:
		f := nec.Frame{Code: ev.Code}
		s.logger.InfoContext(ctx,
			"received IR code, press button to assign",
			"code", Hex(ev.Code),
			"address", Hex(uint32(f.Address())),
			"command", Hex(uint32(f.Command())),
			"checked", f.Checked())
	case KindAssigned:
		s.logger.InfoContext(ctx,
			"assigned code",
			"button", string(ev.Button.Key()),
			"code", Hex(ev.Code))
	case KindLearnTimeout:
		s.logger.WarnContext(ctx,
			"no button pressed, discarding code",
			"code", Hex(ev.Code))
	default:
		if ev.Err != nil {
			s.logger.ErrorContext(ctx, ev.Msg, "err", ev.Err)
			return
		}
		s.logger.InfoContext(ctx, ev.Msg)
	}
}
