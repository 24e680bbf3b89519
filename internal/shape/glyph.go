package shape

import (
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/geom"
	"nifri2/animatronic-face/internal/palette"
)

var dollarGlyph = []string{
	"00100",
	"01111",
	"10000",
	"10000",
	"01110",
	"00001",
	"00001",
	"11110",
	"00100",
}

var heartGlyph = []string{
	"001110011100",
	"011111111110",
	"111111111111",
	"111111111111",
	"111111111111",
	"111111111111",
	"011111111110",
	"001111111100",
	"000111111000",
	"000011110000",
	"000001100000",
}

var batGlyph = []string{
	"1100000000011",
	"0110010100110",
	"0011011101100",
	"0001111111000",
	"0001111111000",
	"0000111110000",
	"0000001000000",
}

// glyph is a 1-bit bitmap scaled by max(1, r/div) and centered on the iris.
type glyph struct {
	cells  []string
	div    int
	margin int
}

func (g glyph) scale(r int) int {
	return max(1, r/g.div)
}

// origin is the top-left pixel of the scaled glyph cell.
func (g glyph) origin(c geom.Point, s int) geom.Point {
	cols, rows := len(g.cells[0]), len(g.cells)
	return geom.Pt(c.X-(cols/2)*s, c.Y-(rows/2)*s)
}

func (g glyph) Draw(surf display.Surface, c geom.Point, r int, cs palette.EyeScheme) {
	s := g.scale(r)
	o := g.origin(c, s)
	for row, line := range g.cells {
		for col := 0; col < len(line); col++ {
			if line[col] == '1' {
				surf.FillRect(o.X+col*s, o.Y+row*s, s, s, cs.Outer)
			}
		}
	}
}

func (g glyph) Bounds(c geom.Point, r int) geom.Rect {
	s := g.scale(r)
	o := g.origin(c, s)
	return geom.Rect{
		X: o.X - g.margin,
		Y: o.Y - g.margin,
		W: len(g.cells[0])*s + 2*g.margin,
		H: len(g.cells)*s + 2*g.margin,
	}
}
