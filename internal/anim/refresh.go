package anim

import (
	"context"

	"nifri2/animatronic-face/internal/palette"
	"nifri2/animatronic-face/internal/scheduler"
)

// Paint draws sclera and iris on both screens from scratch. The caller
// must hold the render lock or own the screens exclusively.
func (e *Engine) Paint() {
	mode := e.Shared.Mode()
	cs := palette.Eye(e.Shared.Color())
	for k, s := range e.Screens {
		e.Renderer.Repaint(s, e.Shared.Eyes[k], mode, cs)
		e.flush(s)
	}
	e.drawn = mode
}

// Refresh blanks both screens, lets them settle, and paints them again.
func (e *Engine) Refresh(ctx context.Context) error {
	return e.Lock.With(ctx, func() error {
		for _, s := range e.Screens {
			s.FillScreen(palette.Black)
			e.flush(s)
		}
		if err := e.Clock.Sleep(ctx, e.Tunables.RefreshSettle); err != nil {
			e.Paint()
			return err
		}
		e.Paint()
		return nil
	})
}

// RefreshLoop repaints whenever a color or mode change asked for it.
func (e *Engine) RefreshLoop(ctx context.Context) error {
	return scheduler.Every(ctx, e.Clock, e.Tunables.RefreshInterval, func(ctx context.Context) error {
		if !e.Shared.TakeRefresh() {
			return nil
		}
		e.Logger.Debug("refreshing displays", "mode", e.Shared.Mode(), "color", e.Shared.Color())
		return e.Refresh(ctx)
	})
}
