// Package render keeps the eye displays up to date with minimal redraws:
// every move clears only the swept union of the old and new footprints.
package render

import (
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/geom"
	"nifri2/animatronic-face/internal/palette"
	"nifri2/animatronic-face/internal/shape"
)

// Renderer draws irises through a shape registry.
type Renderer struct {
	reg          *shape.Registry
	scleraRadius int
}

// New returns a renderer whose sclera disk has radius scleraRadius.
func New(reg *shape.Registry, scleraRadius int) *Renderer {
	return &Renderer{reg: reg, scleraRadius: scleraRadius}
}

// Registry exposes the shapes the renderer draws with.
func (r *Renderer) Registry() *shape.Registry { return r.reg }

// Dirty returns the region UpdateShape would clear for a move from old to next.
func (r *Renderer) Dirty(old, next face.EyeState, mode face.Mode) (geom.Rect, bool) {
	sh, ok := r.reg.Lookup(mode)
	if !ok {
		return geom.Rect{}, false
	}
	return sh.Bounds(old.Center(), old.R).Union(sh.Bounds(next.Center(), next.R)), true
}

// UpdateShape moves the iris from old to next. Identical geometry is a no-op.
// Otherwise the union of both footprints is filled with the mode's background
// and the iris is drawn once at next. The returned state is what is on screen.
func (r *Renderer) UpdateShape(s display.Surface, old, next face.EyeState, mode face.Mode, cs palette.EyeScheme) face.EyeState {
	if old == next {
		return old
	}
	sh, ok := r.reg.Lookup(mode)
	if !ok {
		return old
	}
	dirty := sh.Bounds(old.Center(), old.R).Union(sh.Bounds(next.Center(), next.R))
	s.FillRect(dirty.X, dirty.Y, dirty.W, dirty.H, r.reg.Background(mode))
	sh.Draw(s, next.Center(), next.R, cs)
	return next
}

// Erase clears the iris footprint at e. Used by blinks.
func (r *Renderer) Erase(s display.Surface, e face.EyeState, mode face.Mode) {
	sh, ok := r.reg.Lookup(mode)
	if !ok {
		return
	}
	box := sh.Bounds(e.Center(), e.R)
	s.FillRect(box.X, box.Y, box.W, box.H, r.reg.Background(mode))
}

// Draw paints the iris at e without clearing anything first.
func (r *Renderer) Draw(s display.Surface, e face.EyeState, mode face.Mode, cs palette.EyeScheme) {
	if sh, ok := r.reg.Lookup(mode); ok {
		sh.Draw(s, e.Center(), e.R, cs)
	}
}

// Sclera paints the eye background: the whole screen for the warm mode,
// otherwise black with the sclera disk at the center.
func (r *Renderer) Sclera(s display.Surface, mode face.Mode) {
	bg := r.reg.Background(mode)
	if r.reg.Warm(mode) {
		s.FillScreen(bg)
		return
	}
	s.FillScreen(palette.Black)
	w, h := s.Size()
	s.FillCircle(w/2, h/2, r.scleraRadius, bg)
}

// Repaint redraws one display from scratch.
func (r *Renderer) Repaint(s display.Surface, e face.EyeState, mode face.Mode, cs palette.EyeScheme) {
	r.Sclera(s, mode)
	r.Draw(s, e, mode, cs)
}
