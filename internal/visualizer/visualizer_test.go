package visualizer

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"nifri2/animatronic-face/internal/audio"
	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/logging"
	"nifri2/animatronic-face/internal/palette"
	"nifri2/animatronic-face/internal/scheduler"
	"nifri2/animatronic-face/internal/scheduler/schedtest"
	"nifri2/animatronic-face/internal/syncproto"
)

func newMouth(t require.TestingT, mode face.MouthMode, rnd scheduler.Rand) (*Visualizer, *display.Canvas) {
	cfg := config.Default().Mouth
	cfg.StartMode = int(mode)
	exprs, err := LoadExpressions()
	require.NoError(t, err)
	c := display.NewCanvas(240, 240)
	return New(cfg, c, rnd, exprs, logging.NewNop()), c
}

var loud = audio.Levels{35000, 20000, 5000, 65535, 0, 12000, 40000}

func TestBarGeometry(t *testing.T) {
	g := newBarGeometry(240, 240)
	assert.Equal(t, barGeometry{x0: 50, width: 19, spacing: 1, y0: 2, height: 236, cy: 120, maxHalf: 94}, g)
	assert.Equal(t, 50+6*20, g.x(6))
}

func TestHalfHeight(t *testing.T) {
	v, _ := newMouth(t, face.Bars, &schedtest.Rand{})
	assert.Equal(t, 1, v.HalfHeight(0))
	assert.Equal(t, 1, v.HalfHeight(5000))
	assert.Equal(t, 61, v.HalfHeight(35000))
	assert.Equal(t, 94, v.HalfHeight(65535))
}

func TestBarsRedrawOnlyChangedBands(t *testing.T) {
	v, c := newMouth(t, face.Bars, &schedtest.Rand{})

	v.Render(loud)
	assert.Equal(t, int64(1+2*palette.Bands), c.Ops())
	assert.Equal(t, palette.Band(1)[3], c.At(v.geo.x(3)+5, 120-90))
	assert.Equal(t, palette.Black, c.At(v.geo.x(3)+5, 120-95))

	c.ResetOps()
	v.Render(loud)
	assert.Zero(t, c.Ops())

	next := loud
	next[2] = 50000
	v.Render(next)
	assert.Equal(t, int64(2), c.Ops())
}

func TestColorChangeRedrawsEveryBand(t *testing.T) {
	v, c := newMouth(t, face.Bars, &schedtest.Rand{})
	v.Render(loud)
	c.ResetOps()

	v.Apply(syncproto.ColorChanged(25))
	assert.Equal(t, 25, v.Color())
	v.Render(loud)

	assert.Equal(t, int64(2*palette.Bands), c.Ops())
	for i := range palette.Bands {
		assert.Equal(t, palette.Band(25)[i], c.At(v.geo.x(i)+1, 120), "band %d", i)
	}
}

func TestOutOfRangeColorIgnored(t *testing.T) {
	v, _ := newMouth(t, face.Bars, &schedtest.Rand{})
	v.Apply(syncproto.ColorChanged(7))
	for _, bad := range []int{0, 26, 1000} {
		v.Apply(syncproto.ColorChanged(bad))
		assert.Equal(t, 7, v.Color())
	}
}

func TestModePolicy(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v, _ := newMouth(t, face.Bars, scheduler.NewRand(rapid.Uint64().Draw(t, "seed")))
		var lastRandom face.MouthMode
		values := rapid.SliceOfN(rapid.IntRange(99, 109), 1, 40).Draw(t, "values")
		for _, val := range values {
			before := v.Mode()
			v.Apply(syncproto.ModeChanged(val))
			got := v.Mode()
			switch {
			case val == int(face.Love):
				if got != face.Love {
					t.Fatalf("M106 gave %v", got)
				}
			case val >= 101 && val <= 107:
				if !slices.Contains(randomModes, got) {
					t.Fatalf("M%d gave non-random mode %v", val, got)
				}
				if got == lastRandom {
					t.Fatalf("M%d repeated random choice %v", val, got)
				}
				lastRandom = got
			default:
				if got != before {
					t.Fatalf("invalid M%d changed mode %v -> %v", val, before, got)
				}
			}
		}
	})
}

func TestModeChangeHook(t *testing.T) {
	v, _ := newMouth(t, face.Bars, &schedtest.Rand{Ints: []int{5}})
	var seen []face.MouthMode
	v.OnModeChange = func(m face.MouthMode) { seen = append(seen, m) }

	v.Apply(syncproto.ModeChanged(101))
	v.Apply(syncproto.ModeChanged(106))
	v.Apply(syncproto.ModeChanged(200))
	assert.Equal(t, []face.MouthMode{face.Ring, face.Love}, seen)
}

func TestExpressionDrawnOncePerEntry(t *testing.T) {
	v, c := newMouth(t, face.Bars, &schedtest.Rand{})
	v.Apply(syncproto.ModeChanged(106))

	v.Render(loud)
	assert.Equal(t, palette.PalePink, c.At(0, 0))
	e := v.exprs[face.Love]
	// Heart cell (7,11) sits at the bottom tip.
	x0 := (240 - e.Width*v.cfg.ExpressionScale) / 2
	y0 := (240 - e.Height*v.cfg.ExpressionScale) / 2
	assert.Equal(t, e.Palette[0], c.At(x0+7*v.cfg.ExpressionScale, y0+11*v.cfg.ExpressionScale))

	c.ResetOps()
	v.Render(audio.Levels{})
	v.Render(loud)
	assert.Zero(t, c.Ops())
}

func TestRingsRedrawOnColorChange(t *testing.T) {
	v, c := newMouth(t, face.Ring, &schedtest.Rand{})

	v.Render(loud)
	assert.Equal(t, v.RingColor(0, loud[0]), c.At(120+7, 120))
	assert.Equal(t, v.RingColor(6, loud[6]), c.At(120, 120-68))
	assert.Equal(t, palette.Black, c.At(120+12, 120))

	c.ResetOps()
	v.Render(loud)
	assert.Zero(t, c.Ops())

	next := loud
	next[0] = 65535
	v.Render(next)
	ops := c.Ops()
	assert.Positive(t, ops)
	assert.Equal(t, palette.Band(1)[0], c.At(120+7, 120))

	c.ResetOps()
	v.Apply(syncproto.ColorChanged(3))
	v.Render(next)
	assert.Greater(t, c.Ops(), ops)
	assert.Equal(t, palette.Band(3)[0], c.At(120+7, 120))
}

func TestRunRendersEachSample(t *testing.T) {
	v, c := newMouth(t, face.Bars, &schedtest.Rand{})
	clk := schedtest.NewClock()
	ctx, cancel := context.WithCancel(context.Background())
	clk.OnSleep = schedtest.CancelAfter(3, cancel)

	reads := 0
	src := audio.SourceFunc(func(context.Context) (audio.Levels, error) {
		reads++
		return loud, nil
	})
	err := v.Run(ctx, src, clk, 50*time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, reads)
	assert.Equal(t, palette.Band(1)[0], c.At(v.geo.x(0)+1, 120))
}
