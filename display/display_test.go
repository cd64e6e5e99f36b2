package display_test

import (
	"errors"
	"image/color"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sparques/irremote/diag"
	"github.com/sparques/irremote/display"
	"github.com/sparques/irremote/keypad"
)

type fakeScreen struct {
	w, h     int16
	lit      map[[2]int16]bool
	frames   int
	clears   int
	failWith error
}

func newFakeScreen() *fakeScreen {
	return &fakeScreen{w: 128, h: 64, lit: map[[2]int16]bool{}}
}

func (f *fakeScreen) Size() (int16, int16) { return f.w, f.h }

func (f *fakeScreen) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || x >= f.w || y >= f.h {
		return
	}
	f.lit[[2]int16{x, y}] = c.R != 0
}

func (f *fakeScreen) Display() error {
	f.frames++
	return f.failWith
}

func (f *fakeScreen) ClearBuffer() {
	f.clears++
	f.lit = map[[2]int16]bool{}
}

func (f *fakeScreen) maxY() int16 {
	var m int16
	for p, on := range f.lit {
		if on && p[1] > m {
			m = p[1]
		}
	}
	return m
}

func TestSplash(t *testing.T) {
	scr := newFakeScreen()
	s := display.New(scr, nil)
	assert.NoError(t, s.Splash())
	assert.Equal(t, 1, scr.frames)
	assert.NotZero(t, len(scr.lit))
}

func TestSplashFailure(t *testing.T) {
	scr := newFakeScreen()
	scr.failWith = errors.New("i2c nack")
	s := display.New(scr, nil)
	assert.Error(t, s.Splash())
}

func TestUpdateFailureReported(t *testing.T) {
	scr := newFakeScreen()
	var notices []diag.Event
	s := display.New(scr, diag.SinkFunc(func(ev diag.Event) { notices = append(notices, ev) }))

	s.Emit(diag.Event{Kind: diag.KindPressed, Button: keypad.Button1, Code: 0xFF30CF})
	assert.Zero(t, notices)

	scr.failWith = errors.New("i2c nack")
	s.Emit(diag.Event{Kind: diag.KindAssigned, Button: keypad.Button5})
	assert.Equal(t, 1, len(notices))
	assert.Equal(t, diag.KindNotice, notices[0].Kind)
	assert.EqualError(t, notices[0].Err, "i2c nack")

	s.Emit(diag.Event{Kind: diag.KindStartup})
	assert.Equal(t, 1, len(notices), "nothing drawn, nothing to report")
}

func TestEventsRedrawScreen(t *testing.T) {
	scr := newFakeScreen()
	var notices []diag.Event
	s := display.New(scr, diag.SinkFunc(func(ev diag.Event) { notices = append(notices, ev) }))

	s.Emit(diag.Event{Kind: diag.KindPressed, Button: keypad.ButtonMute, Code: 0xFF42BD})
	assert.Equal(t, 1, scr.frames)
	assert.Equal(t, 1, scr.clears)
	twoLines := scr.maxY()

	s.Emit(diag.Event{Kind: diag.KindReceived, Code: 0xDEAD0001})
	assert.Equal(t, 2, scr.frames)
	assert.True(t, scr.maxY() > twoLines, "three lines reach further down")

	s.Emit(diag.Event{Kind: diag.KindAssigned, Button: keypad.Button5})
	s.Emit(diag.Event{Kind: diag.KindLearnTimeout, Code: 1})
	assert.Equal(t, 4, scr.frames)

	s.Emit(diag.Event{Kind: diag.KindStartup})
	assert.Equal(t, 4, scr.frames, "startup is console only")
	assert.Zero(t, notices)
}
