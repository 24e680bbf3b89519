// Package schedtest provides deterministic clocks and randomness for tests.
package schedtest

import (
	"context"
	"sync"
	"time"
)

// Clock records sleeps and advances virtual time instantly.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration

	// OnSleep, when set, runs after every recorded sleep with the sleep count.
	OnSleep func(n int)
}

func NewClock() *Clock {
	return &Clock{now: time.Unix(0, 0)}
}

func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	n := len(c.sleeps)
	hook := c.OnSleep
	c.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return ctx.Err()
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleeps returns a copy of every recorded delay.
func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.sleeps...)
}

// CancelAfter returns a clock hook that cancels once n sleeps happened.
func CancelAfter(n int, cancel context.CancelFunc) func(int) {
	return func(got int) {
		if got >= n {
			cancel()
		}
	}
}

// Rand replays fixed sequences. Floats and ints cycle independently; an
// int is reduced modulo the requested bound.
type Rand struct {
	mu     sync.Mutex
	Floats []float64
	Ints   []int
	fi, ii int
}

func (r *Rand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Floats) == 0 {
		return 0
	}
	v := r.Floats[r.fi%len(r.Floats)]
	r.fi++
	return v
}

func (r *Rand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Ints) == 0 || n <= 0 {
		return 0
	}
	v := r.Ints[r.ii%len(r.Ints)]
	r.ii++
	return ((v % n) + n) % n
}
