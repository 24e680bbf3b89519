package scheduler

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the randomness the organic timing draws from. *rand.Rand
// satisfies it; tests supply fixed sequences.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Uniform draws from [lo, hi).
func Uniform(r Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// UniformDuration draws from [lo, hi).
func UniformDuration(r Rand, lo, hi time.Duration) time.Duration {
	return lo + time.Duration(float64(hi-lo)*r.Float64())
}

// IntBetween draws from [lo, hi] inclusive.
func IntBetween(r Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.IntN(hi-lo+1)
}

// LockedRand makes a Rand safe for the tasks that share it.
type LockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand seeds a shared source.
func NewRand(seed uint64) *LockedRand {
	return &LockedRand{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (l *LockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *LockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}
