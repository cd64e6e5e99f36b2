package pi

import (
	"fmt"
	"image"
	"image/color"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Drawer is the part of a periph display the Screen needs.
type Drawer interface {
	Bounds() image.Rectangle
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Screen buffers pixels for a periph display and implements display.Screen.
type Screen struct {
	dev Drawer
	img *image1bit.VerticalLSB
}

func NewScreen(dev Drawer) *Screen {
	return &Screen{dev: dev, img: image1bit.NewVerticalLSB(dev.Bounds())}
}

// OpenSSD1306 opens a 128x64 SSD1306 on bus at the driver's default address.
func OpenSSD1306(bus i2c.Bus) (*Screen, error) {
	opts := ssd1306.DefaultOpts
	dev, err := ssd1306.NewI2C(bus, &opts)
	if err != nil {
		return nil, fmt.Errorf("ssd1306: %w", err)
	}
	return NewScreen(dev), nil
}

func (s *Screen) Size() (x, y int16) {
	b := s.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (s *Screen) SetPixel(x, y int16, c color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}).In(s.img.Bounds()) {
		return
	}
	s.img.SetBit(int(x), int(y), image1bit.Bit(c.R != 0 || c.G != 0 || c.B != 0))
}

func (s *Screen) ClearBuffer() {
	for i := range s.img.Pix {
		s.img.Pix[i] = 0
	}
}

func (s *Screen) Display() error {
	return s.dev.Draw(s.img.Bounds(), s.img, image.Point{})
}
