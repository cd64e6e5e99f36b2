package diag_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/neilotoole/slogt"
	"github.com/sparques/irremote/diag"
	"github.com/sparques/irremote/keypad"
)

func TestLogSinkRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	s := diag.NewLogSink(logger)

	s.Emit(diag.Event{Kind: diag.KindPressed, Button: keypad.ButtonVolumeUp, Code: 0xFF906F})
	s.Emit(diag.Event{Kind: diag.KindAssigned, Button: keypad.Button5, Code: 0xDEAD0001})
	s.Emit(diag.Event{Kind: diag.KindNotice, Msg: "display init failed", Err: errors.New("nack")})

	out := buf.String()
	assert.Contains(t, out, "button=Vol+")
	assert.Contains(t, out, "code=0xFF906F")
	assert.Contains(t, out, "button=5")
	assert.Contains(t, out, "code=0xDEAD0001")
	assert.Contains(t, out, "err=nack")
	assert.Equal(t, 3, strings.Count(out, "\n"))
}

func TestLogSinkReceivedFields(t *testing.T) {
	var buf bytes.Buffer
	s := diag.NewLogSink(slog.New(slog.NewTextHandler(&buf, nil)))

	s.Emit(diag.Event{Kind: diag.KindReceived, Code: 0x20DF40BF})
	assert.Contains(t, buf.String(), "code=0x20DF40BF address=0x20 command=0x40 checked=true")

	buf.Reset()
	s.Emit(diag.Event{Kind: diag.KindReceived, Code: 0xDEAD0001})
	assert.Contains(t, buf.String(), "address=0xDE command=0x0 checked=false")
}

func TestMulti(t *testing.T) {
	var a, b []diag.Event
	s := diag.Multi(
		diag.SinkFunc(func(ev diag.Event) { a = append(a, ev) }),
		nil,
		diag.SinkFunc(func(ev diag.Event) { b = append(b, ev) }),
		diag.NewLogSink(slogt.New(t)),
	)
	ev := diag.Event{Kind: diag.KindReceived, Code: 1}
	s.Emit(ev)
	assert.Equal(t, []diag.Event{ev}, a)
	assert.Equal(t, []diag.Event{ev}, b)

	diag.Multi().Emit(ev)
	diag.Multi(nil).Emit(ev)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "learn_timeout", diag.KindLearnTimeout.String())
	assert.Equal(t, "unknown", diag.Kind(200).String())
	assert.Equal(t, "0xFF18E7", diag.Hex(0xFF18E7))
}
