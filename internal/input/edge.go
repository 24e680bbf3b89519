package input

import (
	"context"
	"time"

	"nifri2/animatronic-face/internal/scheduler"
)

// EdgeDetector reports released-to-pressed transitions of a sampled level.
type EdgeDetector struct {
	last bool
}

func NewEdgeDetector(pressed bool) *EdgeDetector {
	return &EdgeDetector{last: pressed}
}

// Update feeds one sample and reports whether it is a new press.
func (d *EdgeDetector) Update(pressed bool) bool {
	edge := pressed && !d.last
	d.last = pressed
	return edge
}

// PollButton samples pressed every interval and emits ButtonPress on each
// new press. Sampling at a coarse interval doubles as debouncing.
func PollButton(ctx context.Context, pressed func() bool, clk scheduler.Clock, interval time.Duration, out chan<- Event) error {
	det := NewEdgeDetector(pressed())
	return scheduler.Every(ctx, clk, interval, func(ctx context.Context) error {
		if !det.Update(pressed()) {
			return nil
		}
		return Send(ctx, out, ButtonPress)
	})
}

// Send delivers e unless ctx ends first.
func Send(ctx context.Context, out chan<- Event, e Event) error {
	select {
	case out <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
