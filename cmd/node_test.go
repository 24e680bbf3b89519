package cmd

import (
	"context"
	"errors"
	"image/color"
	"io"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"nifri2/animatronic-face/internal/audio"
	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/effects"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/input"
	"nifri2/animatronic-face/internal/logging"
	"nifri2/animatronic-face/internal/palette"
	"nifri2/animatronic-face/internal/render"
	"nifri2/animatronic-face/internal/scheduler"
	"nifri2/animatronic-face/internal/scheduler/schedtest"
	"nifri2/animatronic-face/internal/shape"
	"nifri2/animatronic-face/internal/visualizer"
)

// fastTunables keeps every loop in the millisecond range.
func fastTunables() config.Tunables {
	t := config.Default()
	t.Eyes.StepDelayMin = 0
	t.Eyes.StepDelayMax = time.Millisecond
	t.Eyes.InterMoveMin = time.Millisecond
	t.Eyes.InterMoveMax = 2 * time.Millisecond
	t.Eyes.BlinkThreshold = time.Hour
	t.Eyes.RefreshInterval = time.Millisecond
	t.Eyes.RefreshSettle = time.Millisecond
	t.Link.TickInterval = time.Millisecond
	t.Mouth.SampleInterval = time.Millisecond
	t.LEDs.FadeMin = 2 * time.Millisecond
	t.LEDs.FadeMax = 4 * time.Millisecond
	return t
}

func settings(role Role, t config.Tunables) Settings {
	return Settings{Role: role, Tunables: t, Logger: logging.NewNop()}
}

type duty struct{ v atomic.Uint32 }

func (d *duty) SetDuty(v uint16) { d.v.Store(uint32(v)) }

func quiet(context.Context) (audio.Levels, error) { return audio.Levels{}, nil }

func TestParseRole(t *testing.T) {
	assert.Equal(t, Mouth, ParseRole("mouth"))
	assert.Equal(t, Eyes, ParseRole("eyes"))
	assert.Equal(t, Eyes, ParseRole(""))
	assert.Equal(t, "mouth", Mouth.String())
}

type pin struct{ highs, lows int }

func (p *pin) High() { p.highs++ }
func (p *pin) Low()  { p.lows++ }

func TestBootBlink(t *testing.T) {
	for _, tc := range []struct {
		role  Role
		n     int
		delay time.Duration
	}{
		{Eyes, 2, 200 * time.Millisecond},
		{Mouth, 5, 40 * time.Millisecond},
	} {
		t.Run(tc.role.String(), func(t *testing.T) {
			clk := schedtest.NewClock()
			led := &pin{}
			require.NoError(t, BootBlink(context.Background(), tc.role, led, clk))
			assert.Equal(t, tc.n, led.highs)
			assert.Equal(t, tc.n, led.lows)
			assert.Len(t, clk.Sleeps(), 2*tc.n)
			for _, d := range clk.Sleeps() {
				assert.Equal(t, tc.delay, d)
			}
		})
	}
}

func TestBootBlinkCancelledLeavesLedOff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clk := schedtest.NewClock()
	clk.OnSleep = schedtest.CancelAfter(1, cancel)
	led := &pin{}
	require.ErrorIs(t, BootBlink(ctx, Eyes, led, clk), context.Canceled)
	assert.Equal(t, led.highs, led.lows)
}

func TestNewEyesRejectsUnknownStartMode(t *testing.T) {
	cfg := fastTunables()
	cfg.Eyes.StartMode = 99
	_, err := NewEyes(settings(Eyes, cfg), EyesHardware{
		Screens: [2]display.Surface{display.NewCanvas(240, 240), display.NewCanvas(240, 240)},
		Clock:   schedtest.NewClock(),
		Rand:    &schedtest.Rand{},
	})
	assert.ErrorIs(t, err, face.ErrUnknownMode)
}

func TestEyesTasks(t *testing.T) {
	n, err := NewEyes(settings(Eyes, fastTunables()), EyesHardware{
		Screens: [2]display.Surface{display.NewCanvas(240, 240), display.NewCanvas(240, 240)},
		LEDs:    []effects.Channel{&duty{}},
		Link:    io.Discard,
		Inputs:  []Producer{func(ctx context.Context, _ chan<- input.Event) error { <-ctx.Done(); return ctx.Err() }},
		Extra:   []scheduler.Task{{Name: "watchdog", Run: func(ctx context.Context) error { return nil }}},
		Clock:   schedtest.NewClock(),
		Rand:    &schedtest.Rand{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"input", "input-0", "animate", "refresh", "transmit", "leds", "watchdog"}, n.Tasks())
}

func TestEyesWithoutLinkOrLEDsSkipsTheirTasks(t *testing.T) {
	n, err := NewEyes(settings(Eyes, fastTunables()), EyesHardware{
		Screens: [2]display.Surface{display.NewCanvas(240, 240), display.NewCanvas(240, 240)},
		Clock:   schedtest.NewClock(),
		Rand:    &schedtest.Rand{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"input", "animate", "refresh"}, n.Tasks())
}

func TestEyesStartupPaintsRestingEyes(t *testing.T) {
	cfg := fastTunables()
	screens := [2]*display.Canvas{display.NewCanvas(240, 240), display.NewCanvas(240, 240)}
	n, err := NewEyes(settings(Eyes, cfg), EyesHardware{
		Screens: [2]display.Surface{screens[0], screens[1]},
		Clock:   schedtest.NewClock(),
		Rand:    &schedtest.Rand{},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, n.Run(ctx))

	want := display.NewCanvas(240, 240)
	render.New(shape.NewRegistry(), cfg.Eyes.ScleraRadius).Repaint(want,
		face.EyeState{X: 120, Y: 120, R: cfg.Eyes.BaseRadius}, face.Round, palette.Eye(1))
	for _, s := range screens {
		assert.Equal(t, want.Snapshot(nil), s.Snapshot(nil))
	}

	st, err := n.State(context.Background())
	require.NoError(t, err)
	rest := face.EyeState{X: 120, Y: 120, R: 30}
	assert.Equal(t, EyesState{Color: 1, Mode: "round", Phase: "idle", Eyes: [2]face.EyeState{rest, rest}}, st)
}

type brokenPanel struct{ *display.Canvas }

func (brokenPanel) Init() error { return errors.New("no ack") }

func TestMouthStartsDegradedAndClearsScreen(t *testing.T) {
	c := display.NewCanvas(240, 240)
	c.FillScreen(color.RGBA{R: 255, A: 255})
	n, err := NewMouth(settings(Mouth, fastTunables()), MouthHardware{
		Screen: brokenPanel{c},
		Audio:  audio.SourceFunc(quiet),
		Clock:  schedtest.NewClock(),
		Rand:   &schedtest.Rand{},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"render"}, n.Tasks())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, n.Run(ctx))
	assert.Equal(t, palette.Black, c.At(0, 0))
	assert.Equal(t, MouthState{Color: 1, Mode: "bars"}, n.State())
}

func TestMouthAudioExhaustionIsNotFatal(t *testing.T) {
	var reads atomic.Int32
	src := audio.SourceFunc(func(context.Context) (audio.Levels, error) {
		if reads.Add(1) > 3 {
			return audio.Levels{}, io.EOF
		}
		return audio.Levels{}, nil
	})
	pr, pw := io.Pipe()
	n, err := NewMouth(settings(Mouth, fastTunables()), MouthHardware{
		Screen: display.NewCanvas(240, 240),
		Link:   pr,
		Audio:  src,
		Clock:  scheduler.RealClock{},
		Rand:   &schedtest.Rand{},
	})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- n.Run(context.Background()) }()

	// The receiver keeps running after rendering stopped.
	_, err = pw.Write([]byte("C9\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool { return n.Visualizer.Color() == 9 }, time.Second, time.Millisecond)

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)
}

func TestEyesDriveMouthOverLink(t *testing.T) {
	cfg := fastTunables()
	pr, pw := io.Pipe()

	var pressed atomic.Bool
	script := func(ctx context.Context, out chan<- input.Event) error {
		for _, ev := range []input.Event{input.TurnRight, input.TurnRightFast, input.ButtonPress} {
			if err := input.Send(ctx, out, ev); err != nil {
				return err
			}
		}
		pressed.Store(true)
		<-ctx.Done()
		return ctx.Err()
	}

	leds := []effects.Channel{&duty{}, &duty{}, &duty{}}
	eyes, err := NewEyes(settings(Eyes, cfg), EyesHardware{
		Screens: [2]display.Surface{display.NewCanvas(240, 240), display.NewCanvas(240, 240)},
		LEDs:    leds,
		Link:    pw,
		Inputs:  []Producer{script},
		Clock:   scheduler.RealClock{},
		Rand:    scheduler.NewRand(7),
	})
	require.NoError(t, err)

	var samples atomic.Int64
	mouth, err := NewMouth(settings(Mouth, cfg), MouthHardware{
		Screen: display.NewCanvas(240, 240),
		Link:   pr,
		Audio: audio.SourceFunc(func(ctx context.Context) (audio.Levels, error) {
			samples.Add(1)
			return quiet(ctx)
		}),
		Clock: scheduler.RealClock{},
		Rand:  scheduler.NewRand(7),
	})
	require.NoError(t, err)
	var mouthModes atomic.Int32
	mouth.Visualizer.OnModeChange = func(m face.MouthMode) { mouthModes.Store(int32(m)) }

	eyesCtx, stopEyes := context.WithCancel(context.Background())
	var g errgroup.Group
	g.Go(func() error { return eyes.Run(eyesCtx) })
	mouthCtx, stopMouth := context.WithCancel(context.Background())
	defer stopMouth()
	mouthDone := make(chan error, 1)
	go func() { mouthDone <- mouth.Run(mouthCtx) }()

	// Both turns step one scheme: 1 becomes 3.
	require.Eventually(t, func() bool {
		return pressed.Load() && mouth.Visualizer.Color() == 3 && mouthModes.Load() != 0
	}, 2*time.Second, time.Millisecond)

	eyesMode := eyes.Shared.Mode()
	assert.NotEqual(t, face.Round, eyesMode)
	got := face.MouthMode(mouthModes.Load())
	if eyesMode == face.Heart {
		assert.Equal(t, face.Love, got)
	} else {
		assert.True(t, slices.Contains([]face.MouthMode{face.Bars, face.Anger, face.Disgust, face.Smile, face.Dracula, face.Ring}, got), got)
	}
	assert.Len(t, eyes.LEDs.Patterns(), 3)

	stopEyes()
	require.NoError(t, g.Wait())
	for _, l := range leds {
		assert.Zero(t, l.(*duty).v.Load())
	}

	// Closing the link ends only the receiver; rendering goes on until the
	// node is cancelled.
	require.NoError(t, pw.Close())
	seen := samples.Load()
	require.Eventually(t, func() bool { return samples.Load() > seen+2 }, time.Second, time.Millisecond)
	select {
	case err := <-mouthDone:
		t.Fatalf("mouth stopped with the link: %v", err)
	default:
	}

	stopMouth()
	select {
	case err := <-mouthDone:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("mouth did not stop")
	}
}

func TestMouthExpressionsLoad(t *testing.T) {
	exprs, err := visualizer.LoadExpressions()
	require.NoError(t, err)
	assert.Len(t, exprs, 5)
}
