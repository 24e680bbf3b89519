package display

import (
	"image/color"
	"sync"
	"sync/atomic"
)

// Canvas is an in-memory Surface. The simulator paints it to the terminal and
// tests inspect its pixels and primitive count. Pixel access is guarded so a
// viewer may read while a node task draws.
type Canvas struct {
	mu   sync.RWMutex
	w, h int
	pix  []color.RGBA
	ops  atomic.Int64
	gen  atomic.Uint64
}

// NewCanvas creates a black canvas of w x h pixels.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{w: w, h: h, pix: make([]color.RGBA, w*h)}
	c.clear(color.RGBA{A: 255})
	return c
}

func (c *Canvas) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear(color.RGBA{A: 255})
	return nil
}

func (c *Canvas) Size() (int, int) { return c.w, c.h }

func (c *Canvas) FillRect(x, y, w, h int, col color.RGBA) {
	c.ops.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fill(x, y, w, h, col)
}

func (c *Canvas) SetPixel(x, y int, col color.RGBA) {
	c.ops.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fill(x, y, 1, 1, col)
}

func (c *Canvas) FillCircle(cx, cy, r int, col color.RGBA) {
	c.ops.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	CircleSpans(cx, cy, r, func(x, y, w int) {
		c.fill(x, y, w, 1, col)
	})
}

func (c *Canvas) FillScreen(col color.RGBA) {
	c.ops.Add(1)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear(col)
}

// At returns the pixel at (x, y); out-of-range reads return transparent black.
func (c *Canvas) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return color.RGBA{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pix[y*c.w+x]
}

// Snapshot copies the pixels into dst, growing it when needed, and returns it.
func (c *Canvas) Snapshot(dst []color.RGBA) []color.RGBA {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cap(dst) < len(c.pix) {
		dst = make([]color.RGBA, len(c.pix))
	}
	dst = dst[:len(c.pix)]
	copy(dst, c.pix)
	return dst
}

// Ops returns how many primitives have been issued since creation or ResetOps.
func (c *Canvas) Ops() int64 { return c.ops.Load() }

func (c *Canvas) ResetOps() { c.ops.Store(0) }

// Generation changes every time a pixel may have changed.
func (c *Canvas) Generation() uint64 { return c.gen.Load() }

func (c *Canvas) clear(col color.RGBA) {
	for i := range c.pix {
		c.pix[i] = col
	}
	c.gen.Add(1)
}

func (c *Canvas) fill(x, y, w, h int, col color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, c.w), min(y+h, c.h)
	for py := y0; py < y1; py++ {
		row := c.pix[py*c.w : (py+1)*c.w]
		for px := x0; px < x1; px++ {
			row[px] = col
		}
	}
	c.gen.Add(1)
}
