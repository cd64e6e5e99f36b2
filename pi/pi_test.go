package pi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/jonboulle/clockwork"
	"github.com/neilotoole/slogt"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/sparques/irremote"
	"github.com/sparques/irremote/keypad"
	"github.com/sparques/irremote/nec"
)

var registered int

// register puts four fresh fake pins into the periph registry, which never
// forgets a name.
func register(t *testing.T, prefix string) ([4]*gpiotest.Pin, [4]string) {
	t.Helper()
	var pins [4]*gpiotest.Pin
	var names [4]string
	for i := range pins {
		registered++
		names[i] = fmt.Sprintf("%s_%d", prefix, registered)
		pins[i] = &gpiotest.Pin{N: names[i], Num: 900 + registered}
		assert.NoError(t, gpioreg.Register(pins[i]))
	}
	return pins, names
}

func TestPinUnknown(t *testing.T) {
	_, err := Pin("NO_SUCH_PIN")
	assert.True(t, errors.Is(err, ErrUnknownPin))
}

func TestNewScanner(t *testing.T) {
	rows, rowNames := register(t, "TEST_ROW")
	cols, colNames := register(t, "TEST_COL")

	s, err := NewScanner(rowNames, colNames, keypad.DefaultLayout, slogt.New(t))
	assert.NoError(t, err)
	for _, r := range rows {
		assert.Equal(t, gpio.PullUp, r.P)
	}
	for _, c := range cols {
		assert.Equal(t, gpio.High, c.L)
	}

	_, ok := s.Scan()
	assert.False(t, ok)

	// a fake row has no column behind it, so it reads low on every column
	// and the first column wins
	rows[2].L = gpio.Low
	b, ok := s.Scan()
	assert.True(t, ok)
	assert.Equal(t, keypad.Button7, b)
	for _, c := range cols {
		assert.Equal(t, gpio.High, c.L, "columns parked high after a scan")
	}

	_, err = NewScanner(rowNames, [4]string{"NO_SUCH_PIN"}, keypad.DefaultLayout, slogt.New(t))
	assert.True(t, errors.Is(err, ErrUnknownPin))
}

func TestCarrier(t *testing.T) {
	led := &gpiotest.Pin{N: "LED", L: gpio.High}
	c, err := NewCarrier(led, clockwork.NewRealClock(), slogt.New(t))
	assert.NoError(t, err)
	assert.Equal(t, gpio.Low, led.L)

	c.SendPairs(
		irremote.TimePair{time.Microsecond, time.Microsecond},
		irremote.TimePair{time.Microsecond, 0},
	)
	assert.Equal(t, gpio.DutyHalf, led.D)
	assert.Equal(t, 38*physic.KiloHertz, led.F)
	assert.Equal(t, gpio.Low, led.L, "led off after the train")
}

type noPWMPin struct {
	gpiotest.Pin
}

func (p *noPWMPin) PWM(gpio.Duty, physic.Frequency) error {
	return errors.New("no pwm")
}

func TestCarrierFailure(t *testing.T) {
	var buf bytes.Buffer
	led := &noPWMPin{Pin: gpiotest.Pin{N: "LED"}}
	c, err := NewCarrier(led, clockwork.NewRealClock(), slog.New(slog.NewTextHandler(&buf, nil)))
	assert.NoError(t, err)

	assert.EqualError(t, c.SendPair(nec.StopPair), "no pwm")

	c.SendPairs((nec.Frame{Code: 1}).MarshalFrame()...)
	assert.Equal(t, gpio.Low, led.L)
	assert.Contains(t, buf.String(), "err=\"no pwm\"")
	assert.Equal(t, 1, strings.Count(buf.String(), "ir carrier failed"), "a failing train is abandoned")
}

type stuckPin struct {
	gpiotest.Pin
}

func (p *stuckPin) Out(gpio.Level) error {
	return errors.New("stuck")
}

func TestLineLogsDriveFailure(t *testing.T) {
	var buf bytes.Buffer
	l := Line{
		PinIO:  &stuckPin{Pin: gpiotest.Pin{N: "COL"}},
		Logger: slog.New(slog.NewTextHandler(&buf, nil)),
	}
	l.Low()
	l.High()
	assert.Equal(t, 2, strings.Count(buf.String(), "keypad line failed"))
	assert.Contains(t, buf.String(), "pin=COL")
	assert.Contains(t, buf.String(), "err=stuck")

	var ok bytes.Buffer
	good := &gpiotest.Pin{N: "COL2"}
	Line{PinIO: good, Logger: slog.New(slog.NewTextHandler(&ok, nil))}.Low()
	assert.Equal(t, gpio.Low, good.L)
	assert.Zero(t, ok.Len())
}

func TestPairLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var decoded []nec.Received
	sm := irremote.MultiRxStateMachine(
		nec.NewStateMachine(func(rx nec.Received) { decoded = append(decoded, rx) }),
		PairLogger(logger),
	)
	for _, p := range (nec.Frame{Code: 0xFF18E7}).MarshalFrame() {
		sm.HandleTimePair(p)
	}
	assert.Equal(t, []nec.Received{{Code: 0xFF18E7, Valid: true}}, decoded)
	assert.Equal(t, 34, strings.Count(buf.String(), "ir pair"))
	assert.Contains(t, buf.String(), "mark=9ms space=4.5ms")
}

func TestReceiver(t *testing.T) {
	pin := &gpiotest.Pin{N: "IR", EdgesChan: make(chan gpio.Level)}
	rx := nec.NewReceiver(nec.DefaultBits)
	r, err := NewReceiver(pin, rx, clockwork.NewRealClock())
	assert.NoError(t, err)
	assert.Equal(t, gpio.PullUp, pin.P)

	// scripted timestamps, one per edge, so goroutine scheduling does not
	// matter
	var stamps []time.Time
	now := time.Unix(0, 0)
	var levels []gpio.Level
	for _, p := range (nec.Frame{Code: 0xFF18E7}).MarshalFrame() {
		levels = append(levels, gpio.Low)
		stamps = append(stamps, now)
		now = now.Add(p.Mark())
		levels = append(levels, gpio.High)
		stamps = append(stamps, now)
		now = now.Add(p.Space())
	}
	// the pair holding the stop mark is closed by the next carrier edge
	levels = append(levels, gpio.Low)
	stamps = append(stamps, now.Add(40*time.Millisecond))

	i := 0
	r.now = func() time.Time {
		s := stamps[i]
		i++
		return s
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()
	for _, l := range levels {
		pin.EdgesChan <- l
	}

	var got nec.Received
	assert.True(t, waitFor(func() bool {
		var ok bool
		got, ok = rx.Poll()
		return ok
	}))
	assert.Equal(t, nec.Received{Code: 0xFF18E7, Valid: true}, got)

	cancel()
	assert.True(t, errors.Is(<-done, context.Canceled))
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

type fakeDrawer struct {
	bounds image.Rectangle
	draws  int
	last   image.Image
}

func (d *fakeDrawer) Bounds() image.Rectangle { return d.bounds }

func (d *fakeDrawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	d.draws++
	d.last = src
	return nil
}

func TestScreen(t *testing.T) {
	dev := &fakeDrawer{bounds: image.Rect(0, 0, 128, 64)}
	s := NewScreen(dev)

	w, h := s.Size()
	assert.Equal(t, int16(128), w)
	assert.Equal(t, int16(64), h)

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	s.SetPixel(3, 9, white)
	s.SetPixel(200, 9, white)
	s.SetPixel(-1, 0, white)
	assert.Equal(t, image1bit.On, s.img.BitAt(3, 9))

	assert.NoError(t, s.Display())
	assert.Equal(t, 1, dev.draws)
	assert.Equal(t, image.Image(s.img), dev.last)

	s.ClearBuffer()
	assert.Equal(t, image1bit.Off, s.img.BitAt(3, 9))
}
