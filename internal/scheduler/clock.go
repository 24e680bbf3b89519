package scheduler

import (
	"context"
	"time"
)

// Clock is the timed suspension point. Tests swap in a clock that records
// the requested delays instead of waiting.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
	Now() time.Time
}

// RealClock sleeps on the wall clock.
type RealClock struct{}

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (RealClock) Now() time.Time { return time.Now() }

// Every calls fn once per interval until ctx ends or fn returns an error.
func Every(ctx context.Context, clk Clock, interval time.Duration, fn func(ctx context.Context) error) error {
	for {
		if err := fn(ctx); err != nil {
			return err
		}
		if err := clk.Sleep(ctx, interval); err != nil {
			return err
		}
	}
}
