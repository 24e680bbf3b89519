package display

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// rectFiller is the fast path most SPI panel drivers expose.
type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// DriverSurface adapts a tinygo display driver to Surface.
type DriverSurface struct {
	dev  drivers.Displayer
	fast rectFiller
	w, h int
}

// NewDriverSurface wraps dev. Drivers that implement FillRectangle get their
// rectangle fills pushed in one transfer instead of pixel by pixel.
func NewDriverSurface(dev drivers.Displayer) *DriverSurface {
	w, h := dev.Size()
	s := &DriverSurface{dev: dev, w: int(w), h: int(h)}
	if f, ok := dev.(rectFiller); ok {
		s.fast = f
	}
	return s
}

func (s *DriverSurface) Init() error {
	s.FillScreen(color.RGBA{A: 255})
	return s.Flush()
}

func (s *DriverSurface) Size() (int, int) { return s.w, s.h }

func (s *DriverSurface) FillRect(x, y, w, h int, c color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, s.w), min(y+h, s.h)
	if x1 <= x0 || y1 <= y0 {
		return
	}
	if s.fast != nil {
		if err := s.fast.FillRectangle(int16(x0), int16(y0), int16(x1-x0), int16(y1-y0), c); err == nil {
			return
		}
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			s.dev.SetPixel(int16(px), int16(py), c)
		}
	}
}

func (s *DriverSurface) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.dev.SetPixel(int16(x), int16(y), c)
}

func (s *DriverSurface) FillCircle(cx, cy, r int, c color.RGBA) {
	CircleSpans(cx, cy, r, func(x, y, w int) {
		s.FillRect(x, y, w, 1, c)
	})
}

func (s *DriverSurface) FillScreen(c color.RGBA) {
	s.FillRect(0, 0, s.w, s.h, c)
}

// Flush pushes buffered pixels to the panel.
func (s *DriverSurface) Flush() error {
	return s.dev.Display()
}
