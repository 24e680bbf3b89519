package visualizer

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/face"
)

//go:embed expressions/*.txt
var assets embed.FS

var expressionFiles = map[face.MouthMode]string{
	face.Anger:   "anger",
	face.Disgust: "disgust",
	face.Smile:   "smile",
	face.Dracula: "dracula",
	face.Love:    "love",
}

// transparent marks a cell that shows the background.
const transparent = -1

// Expression is a palette-indexed bitmap. Each row of the source holds one
// hex digit per cell naming a palette entry, or '.' for background.
type Expression struct {
	Name    string
	Width   int
	Height  int
	Palette []color.RGBA
	Cells   []int8
}

// ParseExpression validates the header against the rows before slicing
// them into cells.
func ParseExpression(data []byte, name string) (*Expression, error) {
	e := &Expression{Name: name}
	sc := bufio.NewScanner(bytes.NewReader(data))
	var rows []string
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "" || strings.HasPrefix(line, "#"):
		case strings.HasPrefix(line, "size "):
			if _, err := fmt.Sscanf(line, "size %d %d", &e.Width, &e.Height); err != nil {
				return nil, fmt.Errorf("%s: bad size line %q: %w", name, line, err)
			}
		case strings.HasPrefix(line, "palette "):
			for _, hex := range strings.Fields(line)[1:] {
				c, err := parseHexColor(hex)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", name, err)
				}
				e.Palette = append(e.Palette, c)
			}
		default:
			rows = append(rows, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	if e.Width <= 0 || e.Height <= 0 {
		return nil, fmt.Errorf("%s: missing size", name)
	}
	if len(e.Palette) == 0 || len(e.Palette) > 16 {
		return nil, fmt.Errorf("%s: palette must hold 1 to 16 colors, got %d", name, len(e.Palette))
	}
	if len(rows) != e.Height {
		return nil, fmt.Errorf("invalid row count for %s: expected %d, got %d", name, e.Height, len(rows))
	}

	e.Cells = make([]int8, 0, e.Width*e.Height)
	for y, row := range rows {
		if len(row) != e.Width {
			return nil, fmt.Errorf("invalid row %d width for %s: expected %d, got %d", y, name, e.Width, len(row))
		}
		for x := 0; x < len(row); x++ {
			if row[x] == '.' {
				e.Cells = append(e.Cells, transparent)
				continue
			}
			idx, err := strconv.ParseUint(row[x:x+1], 16, 8)
			if err != nil || int(idx) >= len(e.Palette) {
				return nil, fmt.Errorf("%s: cell (%d,%d) %q is not a palette index", name, x, y, row[x])
			}
			e.Cells = append(e.Cells, int8(idx))
		}
	}
	return e, nil
}

func parseHexColor(s string) (color.RGBA, error) {
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil || len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("bad color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// At returns the palette index at cell (x, y), or -1 for background.
func (e *Expression) At(x, y int) int {
	return int(e.Cells[y*e.Width+x])
}

// Draw fills the screen with bg and paints the bitmap centered, each cell
// scale pixels square. Runs of equal cells become one rectangle.
func (e *Expression) Draw(s display.Surface, bg color.RGBA, scale int) {
	s.FillScreen(bg)
	w, h := s.Size()
	x0 := (w - e.Width*scale) / 2
	y0 := (h - e.Height*scale) / 2
	for y := range e.Height {
		for x := 0; x < e.Width; {
			idx := e.At(x, y)
			run := 1
			for x+run < e.Width && e.At(x+run, y) == idx {
				run++
			}
			if idx != transparent {
				s.FillRect(x0+x*scale, y0+y*scale, run*scale, scale, e.Palette[idx])
			}
			x += run
		}
	}
}

// LoadExpressions parses every embedded bitmap. Broken assets are reported
// together; the ones that parsed are still returned.
func LoadExpressions() (map[face.MouthMode]*Expression, error) {
	out := make(map[face.MouthMode]*Expression, len(expressionFiles))
	var errs []error
	for mode, name := range expressionFiles {
		data, err := assets.ReadFile("expressions/" + name + ".txt")
		if err != nil {
			errs = append(errs, err)
			continue
		}
		e, err := ParseExpression(data, name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[mode] = e
	}
	return out, errors.Join(errs...)
}

// MustLoadExpressions is LoadExpressions for callers that ship the assets.
func MustLoadExpressions() map[face.MouthMode]*Expression {
	out, err := LoadExpressions()
	if err != nil {
		panic(err)
	}
	return out
}
