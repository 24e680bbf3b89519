// Package effects runs the eye node's decorative LED fades.
package effects

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/scheduler"
)

// Channel is one dimmable output. Zero duty is off.
type Channel interface {
	SetDuty(duty uint16)
}

// Pattern is a triangle fade: Steps rising steps then Steps falling ones,
// each side lasting Fade.
type Pattern struct {
	Fade  time.Duration
	Steps int
}

func (p Pattern) steps() int { return max(2, p.Steps) }

// Delay is the time spent on one step.
func (p Pattern) Delay() time.Duration {
	return p.Fade / time.Duration(p.steps())
}

// Duty returns the level of rising step i of steps.
func Duty(i, steps int) uint16 {
	return uint16(i * math.MaxUint16 / (steps - 1))
}

// RandomPattern draws a pattern within the configured ranges.
func RandomPattern(rnd scheduler.Rand, cfg config.LEDs) Pattern {
	return Pattern{
		Fade:  scheduler.UniformDuration(rnd, cfg.FadeMin, cfg.FadeMax),
		Steps: scheduler.IntBetween(rnd, cfg.StepsMin, cfg.StepsMax),
	}
}

// Fade cycles ch through p until ctx is cancelled, then switches it off.
func Fade(ctx context.Context, ch Channel, p Pattern, clk scheduler.Clock) error {
	defer ch.SetDuty(0)
	n := p.steps()
	delay := p.Delay()
	for {
		for i := 0; i < n; i++ {
			ch.SetDuty(Duty(i, n))
			if err := clk.Sleep(ctx, delay); err != nil {
				return err
			}
		}
		for i := n - 1; i >= 0; i-- {
			ch.SetDuty(Duty(i, n))
			if err := clk.Sleep(ctx, delay); err != nil {
				return err
			}
		}
	}
}

// Bank owns one fade loop per channel and can restart all of them with a
// fresh random pattern.
type Bank struct {
	mu       sync.Mutex
	channels []Channel
	cfg      config.LEDs
	clock    scheduler.Clock
	rand     scheduler.Rand
	logger   *slog.Logger

	base     context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	patterns []Pattern

	OnRestart func([]Pattern)
}

func NewBank(channels []Channel, cfg config.LEDs, clk scheduler.Clock, rnd scheduler.Rand, logger *slog.Logger) *Bank {
	return &Bank{
		channels: channels,
		cfg:      cfg,
		clock:    clk,
		rand:     rnd,
		logger:   logger,
		base:     context.Background(),
	}
}

// Run starts the loops and keeps them alive until ctx ends; every channel
// is off when Run returns.
func (b *Bank) Run(ctx context.Context) error {
	b.mu.Lock()
	b.base = ctx
	b.mu.Unlock()

	b.Restart()
	<-ctx.Done()
	b.Stop()
	return ctx.Err()
}

// Restart cancels the running loops, waits for them to switch their
// channels off, and starts new ones.
func (b *Bank) Restart() []Pattern {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopLocked()
	if b.base.Err() != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(b.base)
	b.cancel = cancel
	b.patterns = make([]Pattern, len(b.channels))
	for i, ch := range b.channels {
		p := RandomPattern(b.rand, b.cfg)
		b.patterns[i] = p
		b.wg.Go(func() {
			_ = Fade(ctx, ch, p, b.clock)
		})
	}
	b.logger.Debug("led pattern restarted", "patterns", b.patterns)

	out := append([]Pattern(nil), b.patterns...)
	if b.OnRestart != nil {
		b.OnRestart(out)
	}
	return out
}

// Stop cancels every loop and waits until all channels are off.
func (b *Bank) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *Bank) stopLocked() {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	b.wg.Wait()
}

// Patterns returns the patterns currently running.
func (b *Bank) Patterns() []Pattern {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Pattern(nil), b.patterns...)
}
