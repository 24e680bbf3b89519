package face

import (
	"sync/atomic"

	"nifri2/animatronic-face/internal/geom"
	"nifri2/animatronic-face/internal/palette"
)

// EyeState is the iris geometry of one eye.
type EyeState struct {
	X, Y int
	R    int
}

func (e EyeState) Center() geom.Point {
	return geom.Pt(e.X, e.Y)
}

// ClampRadius pins R to [lo, hi].
func (e EyeState) ClampRadius(lo, hi int) EyeState {
	e.R = max(lo, min(hi, e.R))
	return e
}

// Shared is the eyes node state crossing task boundaries. Selection and dirty
// flags are atomics so input polling never waits on the render lock; Eyes is
// only touched while holding the render lock.
type Shared struct {
	color atomic.Int32
	mode  atomic.Int32

	colorDirty atomic.Bool
	modeDirty  atomic.Bool
	refresh    atomic.Bool

	Eyes [2]EyeState
}

// NewShared starts with the given scheme index (clamped) and mode.
func NewShared(color int, mode Mode, eye EyeState) *Shared {
	s := &Shared{}
	s.color.Store(int32(palette.Clamp(color)))
	s.mode.Store(int32(mode))
	s.Eyes = [2]EyeState{eye, eye}
	return s
}

func (s *Shared) Color() int { return int(s.color.Load()) }

func (s *Shared) Mode() Mode { return Mode(s.mode.Load()) }

// StepColor moves the scheme index by delta, clamped to the registry, and
// marks the color dirty for transmission and repaint. It returns the new index.
func (s *Shared) StepColor(delta int) int {
	for {
		old := s.color.Load()
		next := int32(palette.Clamp(int(old) + delta))
		if s.color.CompareAndSwap(old, next) {
			s.colorDirty.Store(true)
			s.refresh.Store(true)
			return int(next)
		}
	}
}

// SetMode switches the eye variant and marks it dirty for transmission and repaint.
func (s *Shared) SetMode(m Mode) {
	s.mode.Store(int32(m))
	s.modeDirty.Store(true)
	s.refresh.Store(true)
}

// TakeColorChange clears the color dirty flag and reports the latest index if
// it was set.
func (s *Shared) TakeColorChange() (int, bool) {
	if !s.colorDirty.Swap(false) {
		return 0, false
	}
	return s.Color(), true
}

// TakeModeChange clears the mode dirty flag and reports the latest mode if it
// was set.
func (s *Shared) TakeModeChange() (Mode, bool) {
	if !s.modeDirty.Swap(false) {
		return 0, false
	}
	return s.Mode(), true
}

// TakeRefresh clears and returns the full-repaint request.
func (s *Shared) TakeRefresh() bool {
	return s.refresh.Swap(false)
}

// RequestRefresh asks the refresh task for a full repaint.
func (s *Shared) RequestRefresh() {
	s.refresh.Store(true)
}
