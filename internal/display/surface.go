// Package display defines the drawing capability the renderers draw through,
// plus the surfaces that implement it.
package display

import (
	"image/color"
	"math"
)

// Surface is the narrow set of primitives the renderers issue. It owns the
// pixels; callers never read them back.
type Surface interface {
	Init() error
	Size() (w, h int)
	FillRect(x, y, w, h int, c color.RGBA)
	SetPixel(x, y int, c color.RGBA)
	FillCircle(cx, cy, r int, c color.RGBA)
	FillScreen(c color.RGBA)
}

// Flusher is implemented by buffered surfaces that need an explicit push.
type Flusher interface {
	Flush() error
}

// Flush pushes s to the panel when it is buffered, otherwise it does nothing.
func Flush(s Surface) error {
	if f, ok := s.(Flusher); ok {
		return f.Flush()
	}
	return nil
}

// CircleSpans calls span once per scanline of a filled circle of radius r.
// The spans cover x in [cx-r, cx+r] and y in [cy-r, cy+r].
func CircleSpans(cx, cy, r int, span func(x, y, w int)) {
	if r < 0 {
		return
	}
	for dy := -r; dy <= r; dy++ {
		dx := int(math.Sqrt(float64(r*r - dy*dy)))
		span(cx-dx, cy+dy, 2*dx+1)
	}
}

// EllipseSpans calls span once per scanline of a filled ellipse with
// horizontal semi-axis a and vertical semi-axis b.
func EllipseSpans(cx, cy, a, b int, span func(x, y, w int)) {
	if a < 0 || b <= 0 {
		return
	}
	for y := -b; y <= b; y++ {
		t := float64(y) / float64(b)
		ext := int(float64(a) * math.Sqrt(max(0, 1-t*t)))
		span(cx-ext, cy+y, 2*ext+1)
	}
}

// AnnulusSpans calls span for every run of pixels whose squared distance
// from the center lies within [inner², outer²]. Rows that cross the hole
// yield two spans.
func AnnulusSpans(cx, cy, inner, outer int, span func(x, y, w int)) {
	if outer < 0 || inner > outer {
		return
	}
	inner = max(0, inner)
	for dy := -outer; dy <= outer; dy++ {
		xo := isqrt(outer*outer - dy*dy)
		rest := inner*inner - dy*dy
		if rest <= 0 {
			span(cx-xo, cy+dy, 2*xo+1)
			continue
		}
		xi := isqrt(rest)
		if xi*xi < rest {
			xi++
		}
		if xi > xo {
			continue
		}
		span(cx-xo, cy+dy, xo-xi+1)
		span(cx+xi, cy+dy, xo-xi+1)
	}
}

// isqrt returns the largest k with k*k <= n.
func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	k := int(math.Sqrt(float64(n)))
	for k*k > n {
		k--
	}
	for (k+1)*(k+1) <= n {
		k++
	}
	return k
}
