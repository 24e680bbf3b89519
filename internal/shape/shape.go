// Package shape maps each eye mode to the pure functions that draw the iris
// and report its true on-screen footprint.
package shape

import (
	"image/color"

	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/geom"
	"nifri2/animatronic-face/internal/palette"
)

// DefaultMargin is the clear margin around circular footprints.
const DefaultMargin = 2

// Shape draws one iris variant. Draw only issues primitives and never erases;
// Bounds must contain every pixel Draw touches for the same center and radius.
type Shape interface {
	Draw(s display.Surface, c geom.Point, r int, cs palette.EyeScheme)
	Bounds(c geom.Point, r int) geom.Rect
}

// Registry resolves modes to shapes and background colors.
type Registry struct {
	shapes map[face.Mode]Shape
	warm   face.Mode
}

// NewRegistry returns the registry of the seven eye variants.
func NewRegistry() *Registry {
	m := DefaultMargin
	return &Registry{
		shapes: map[face.Mode]Shape{
			face.Round:   round{margin: m},
			face.Square:  square{margin: m},
			face.Oval:    oval{margin: m, h: 0.5, v: 1.0},
			face.Diamond: diamond{scale: 1.1},
			face.Dollar:  glyph{cells: dollarGlyph, div: 4, margin: m},
			face.Heart:   glyph{cells: heartGlyph, div: 6, margin: m},
			face.Bat:     glyph{cells: batGlyph, div: 6, margin: m},
		},
		warm: face.Heart,
	}
}

// Lookup returns the shape registered for mode.
func (r *Registry) Lookup(mode face.Mode) (Shape, bool) {
	s, ok := r.shapes[mode]
	return s, ok
}

// Background is the sclera color behind the iris for mode.
func (r *Registry) Background(mode face.Mode) color.RGBA {
	if mode == r.warm {
		return palette.PalePink
	}
	return palette.Black
}

// Warm reports whether mode paints the whole screen with its background
// instead of a sclera disk.
func (r *Registry) Warm(mode face.Mode) bool {
	return mode == r.warm
}

type round struct {
	margin int
}

func (round) Draw(s display.Surface, c geom.Point, r int, cs palette.EyeScheme) {
	s.FillCircle(c.X, c.Y, r, cs.Outer)
	s.FillCircle(c.X, c.Y, int(float64(r)*0.8), cs.Inner)
	pupil := r / 2
	s.FillCircle(c.X, c.Y, pupil, cs.Pupil)
	s.FillCircle(c.X-pupil/2, c.Y-pupil/2, pupil/2, cs.Highlight)
}

func (sh round) Bounds(c geom.Point, r int) geom.Rect {
	return geom.Square(c, r, sh.margin)
}

type square struct {
	margin int
}

func (square) Draw(s display.Surface, c geom.Point, r int, cs palette.EyeScheme) {
	side := 2 * r
	fillCentered(s, c, side, cs.Outer)
	fillCentered(s, c, int(float64(side)*0.8), cs.Inner)
	pupil := side / 2
	fillCentered(s, c, pupil, cs.Pupil)
	fillCentered(s, c, pupil/2, cs.Highlight)
}

func (sh square) Bounds(c geom.Point, r int) geom.Rect {
	return geom.Square(c, r, sh.margin)
}

func fillCentered(s display.Surface, c geom.Point, side int, col color.RGBA) {
	s.FillRect(c.X-side/2, c.Y-side/2, side, side, col)
}

// oval squeezes the iris horizontally by h and vertically by v.
type oval struct {
	margin int
	h, v   float64
}

func (o oval) Draw(s display.Surface, c geom.Point, r int, cs palette.EyeScheme) {
	a := int(float64(r) * o.h)
	b := int(float64(r) * o.v)
	fillEllipse(s, c.X, c.Y, a, b, cs.Outer)
	fillEllipse(s, c.X, c.Y, int(float64(a)*0.8), int(float64(b)*0.8), cs.Inner)
	pa, pb := a/2, b/2
	fillEllipse(s, c.X, c.Y, pa, pb, cs.Pupil)
	fillEllipse(s, c.X-pa/2, c.Y-pb/2, pa/2, pb/2, cs.Highlight)
}

func (o oval) Bounds(c geom.Point, r int) geom.Rect {
	half := max(int(float64(r)*o.h), int(float64(r)*o.v))
	return geom.Square(c, half, o.margin)
}

func fillEllipse(s display.Surface, cx, cy, a, b int, col color.RGBA) {
	display.EllipseSpans(cx, cy, a, b, func(x, y, w int) {
		s.FillRect(x, y, w, 1, col)
	})
}

// diamond is the sharp "evil" iris. Its silhouette is enlarged by scale and
// its clear margin grows with it so the points leave no trail.
type diamond struct {
	scale float64
}

func (d diamond) outer(r int) int {
	return int(float64(r) * d.scale)
}

func (d diamond) Draw(s display.Surface, c geom.Point, r int, cs palette.EyeScheme) {
	outer := d.outer(r)
	inner := int(float64(r) * 0.7 * d.scale)
	fillDiamond(s, c, outer, cs.Outer)
	fillDiamond(s, c, inner, cs.Inner)

	pw := max(1, int(float64(r/6)*d.scale))
	ph := outer
	s.FillRect(c.X-pw/2, c.Y-ph/2, pw, ph, palette.Black)
}

func (d diamond) Bounds(c geom.Point, r int) geom.Rect {
	outer := d.outer(r)
	return geom.Square(c, outer, outer/2)
}

func fillDiamond(s display.Surface, c geom.Point, r int, col color.RGBA) {
	for off := -r; off <= r; off++ {
		w := r - abs(off)
		if w == 0 {
			continue
		}
		s.FillRect(c.X-w, c.Y+off, 2*w, 1, col)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
