package input

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"nifri2/animatronic-face/internal/effects"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/logging"
	"nifri2/animatronic-face/internal/scheduler"
	"nifri2/animatronic-face/internal/scheduler/schedtest"
)

func TestParseEventRoundTrip(t *testing.T) {
	for _, e := range []Event{TurnLeft, TurnLeftFast, TurnRight, TurnRightFast, ButtonPress} {
		got, err := ParseEvent(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}
	_, err := ParseEvent("none")
	assert.Error(t, err)
}

func TestEdgeDetector(t *testing.T) {
	d := NewEdgeDetector(true)
	var edges []bool
	for _, s := range []bool{true, false, false, true, true, false, true} {
		edges = append(edges, d.Update(s))
	}
	assert.Equal(t, []bool{false, false, false, true, false, false, true}, edges)
}

func TestPollButton(t *testing.T) {
	samples := []bool{false, false, true, true, false, true}
	i := 0
	pressed := func() bool {
		v := samples[min(i, len(samples)-1)]
		i++
		return v
	}
	clk := schedtest.NewClock()
	ctx, cancel := context.WithCancel(context.Background())
	clk.OnSleep = schedtest.CancelAfter(len(samples)-1, cancel)

	out := make(chan Event, 8)
	err := PollButton(ctx, pressed, clk, 50*time.Millisecond, out)
	assert.ErrorIs(t, err, context.Canceled)
	close(out)

	var got []Event
	for e := range out {
		got = append(got, e)
	}
	assert.Equal(t, []Event{ButtonPress, ButtonPress}, got)
}

// turn drives q through one full detent starting and ending at rest.
func turn(q *Quadrature, right bool, now time.Time) []Event {
	seq := [][2]bool{{false, true}, {false, false}, {true, false}, {true, true}}
	if !right {
		seq = [][2]bool{{true, false}, {false, false}, {false, true}, {true, true}}
	}
	var out []Event
	for _, s := range seq {
		if e := q.Update(s[0], s[1], now); e != None {
			out = append(out, e)
		}
	}
	return out
}

func TestQuadratureDetents(t *testing.T) {
	q := &Quadrature{Fast: 100 * time.Millisecond}
	q.Reset(true, true)
	t0 := time.Unix(100, 0)

	assert.Equal(t, []Event{TurnRight}, turn(q, true, t0))
	assert.Equal(t, []Event{TurnRightFast}, turn(q, true, t0.Add(50*time.Millisecond)))
	assert.Equal(t, []Event{TurnLeft}, turn(q, false, t0.Add(time.Second)))
	assert.Equal(t, []Event{TurnLeftFast}, turn(q, false, t0.Add(time.Second+10*time.Millisecond)))

	// Bouncing on one pin without completing a detent emits nothing.
	for range 5 {
		assert.Equal(t, None, q.Update(false, true, t0))
		assert.Equal(t, None, q.Update(true, true, t0))
	}
}

func TestParseScript(t *testing.T) {
	steps, err := ParseScript("right*2 'left-fast' # tweak\nwait 250ms press")
	require.NoError(t, err)
	assert.Equal(t, []Step{
		{Event: TurnRight},
		{Event: TurnRight},
		{Event: TurnLeftFast},
		{Wait: 250 * time.Millisecond},
		{Event: ButtonPress},
	}, steps)

	for _, bad := range []string{"jump", "wait", "wait soon", "right*0", "press*x", `"unterminated`} {
		_, err := ParseScript(bad)
		assert.Error(t, err, bad)
	}
}

func TestPlay(t *testing.T) {
	steps := []Step{{Event: TurnRight}, {Wait: time.Second}, {Event: ButtonPress}}
	clk := schedtest.NewClock()
	out := make(chan Event, 4)

	require.NoError(t, Play(context.Background(), steps, clk, 10*time.Millisecond, out))
	close(out)
	var got []Event
	for e := range out {
		got = append(got, e)
	}
	assert.Equal(t, []Event{TurnRight, ButtonPress}, got)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, time.Second, 10 * time.Millisecond}, clk.Sleeps())
}

type fakeLEDs struct{ restarts int }

func (f *fakeLEDs) Restart() []effects.Pattern {
	f.restarts++
	return nil
}

func TestHandlerTurnsStepColorWithClamp(t *testing.T) {
	shared := face.NewShared(1, face.Round, face.EyeState{X: 120, Y: 120, R: 30})
	h := NewHandler(shared, &schedtest.Rand{}, nil, logging.NewNop())

	h.Handle(TurnLeft)
	assert.Equal(t, 1, shared.Color())
	c, ok := shared.TakeColorChange()
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	for range 30 {
		h.Handle(TurnRightFast)
	}
	assert.Equal(t, 25, shared.Color())
	assert.True(t, shared.TakeRefresh())
}

func TestButtonPressPicksOtherModeAndRestartsLEDs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		start := rapid.SampledFrom(face.EyeModes).Draw(t, "start")
		shared := face.NewShared(1, start, face.EyeState{X: 120, Y: 120, R: 30})
		leds := &fakeLEDs{}
		h := NewHandler(shared, scheduler.NewRand(rapid.Uint64().Draw(t, "seed")), leds, logging.NewNop())

		h.Handle(ButtonPress)
		got := shared.Mode()
		if got == start || !slices.Contains(face.EyeModes, got) {
			t.Fatalf("press from %v gave %v", start, got)
		}
		if m, ok := shared.TakeModeChange(); !ok || m != got {
			t.Fatalf("mode change not flagged")
		}
		if leds.restarts != 1 {
			t.Fatalf("leds restarted %d times", leds.restarts)
		}
	})
}

func TestButtonPressFromRoundCoversOtherSix(t *testing.T) {
	seen := map[face.Mode]bool{}
	for i := range 6 {
		shared := face.NewShared(1, face.Round, face.EyeState{})
		h := NewHandler(shared, &schedtest.Rand{Ints: []int{i}}, nil, logging.NewNop())
		h.Handle(ButtonPress)
		seen[shared.Mode()] = true
	}
	assert.Len(t, seen, 6)
	assert.False(t, seen[face.Round])
}

func TestHandlerRun(t *testing.T) {
	shared := face.NewShared(5, face.Round, face.EyeState{})
	h := NewHandler(shared, &schedtest.Rand{}, nil, logging.NewNop())
	var handled []Event
	h.OnEvent = func(e Event) { handled = append(handled, e) }

	in := make(chan Event, 3)
	in <- TurnRight
	in <- None
	in <- TurnLeftFast
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for len(in) > 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	assert.ErrorIs(t, h.Run(ctx, in), context.Canceled)
	assert.Equal(t, 5, shared.Color())
	assert.Equal(t, []Event{TurnRight, TurnLeftFast}, handled)
}
