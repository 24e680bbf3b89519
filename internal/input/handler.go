package input

import (
	"context"
	"log/slog"

	"nifri2/animatronic-face/internal/effects"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/scheduler"
)

// Restarter re-randomizes the LED fades.
type Restarter interface {
	Restart() []effects.Pattern
}

// Handler applies input to the eyes node: turns step the color scheme and
// a press switches to a different random mode and new LED fades.
type Handler struct {
	shared *face.Shared
	rand   scheduler.Rand
	leds   Restarter
	logger *slog.Logger

	OnEvent func(Event)
}

func NewHandler(shared *face.Shared, rnd scheduler.Rand, leds Restarter, logger *slog.Logger) *Handler {
	return &Handler{shared: shared, rand: rnd, leds: leds, logger: logger}
}

func (h *Handler) Handle(ev Event) {
	switch ev {
	case TurnLeft, TurnLeftFast, TurnRight, TurnRightFast:
		c := h.shared.StepColor(ev.ColorDelta())
		h.logger.Info("color scheme", "input", ev, "color", c)
	case ButtonPress:
		m := h.nextMode()
		h.shared.SetMode(m)
		h.logger.Info("eyes mode", "mode", m)
		if h.leds != nil {
			h.leds.Restart()
		}
	default:
		return
	}
	if h.OnEvent != nil {
		h.OnEvent(ev)
	}
}

func (h *Handler) nextMode() face.Mode {
	cur := h.shared.Mode()
	choices := make([]face.Mode, 0, len(face.EyeModes))
	for _, m := range face.EyeModes {
		if m != cur {
			choices = append(choices, m)
		}
	}
	return choices[h.rand.IntN(len(choices))]
}

// Run handles events from in until ctx ends.
func (h *Handler) Run(ctx context.Context, in <-chan Event) error {
	for {
		select {
		case ev := <-in:
			h.Handle(ev)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
