// Package display renders remote activity as a few lines of text on a small
// monochrome panel such as an SSD1306 OLED.
package display

import (
	"image/color"

	"tinygo.org/x/tinyfont"

	"github.com/sparques/irremote/diag"
)

// Screen is a buffered pixel display. tinygo.org/x/drivers/ssd1306.Device
// satisfies it; pi.Screen adapts the periph.io driver.
type Screen interface {
	Size() (x, y int16)
	SetPixel(x, y int16, c color.RGBA)
	Display() error
	ClearBuffer()
}

const (
	lineHeight = 10
	baseline   = 8
)

var white = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

// Sink shows diagnostic events on a Screen. It implements diag.Sink.
type Sink struct {
	screen Screen
	font   *tinyfont.Font
	errs   diag.Sink
}

// New returns a Sink drawing on screen. Frames the panel refuses are
// reported to errs as notices; errs may be nil. Don't pass a sink that
// includes this one.
func New(screen Screen, errs diag.Sink) *Sink {
	if errs == nil {
		errs = diag.Nop
	}
	return &Sink{screen: screen, font: &tinyfont.TomThumb, errs: errs}
}

// Splash draws the start screen. An error means the panel did not take the
// frame and should not be used.
func (s *Sink) Splash() error {
	return s.show("DIY IR Remote")
}

func (s *Sink) Emit(ev diag.Event) {
	var err error
	switch ev.Kind {
	case diag.KindPressed:
		err = s.show("Button: "+ev.Button.String(), "Code: "+diag.Hex(ev.Code))
	case diag.KindReceived:
		err = s.show("IR Code Received:", diag.Hex(ev.Code), "Press button to assign")
	case diag.KindAssigned:
		err = s.show("Assigned to " + string(ev.Button.Key()))
	case diag.KindLearnTimeout:
		err = s.show("Learn timed out")
	}
	if err != nil {
		s.errs.Emit(diag.Event{Kind: diag.KindNotice, Msg: "display update failed", Err: err})
	}
}

func (s *Sink) show(lines ...string) error {
	s.screen.ClearBuffer()
	_, height := s.screen.Size()
	y := int16(baseline)
	for _, line := range lines {
		if y > height {
			break
		}
		tinyfont.WriteLine(s.screen, s.font, 0, y, line, white)
		y += lineHeight
	}
	return s.screen.Display()
}
