// Package visualizer renders the mouth: spectrum bars, concentric rings or
// a fixed expression, switching on modes and colors received from the eyes.
package visualizer

import (
	"context"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"nifri2/animatronic-face/internal/audio"
	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/palette"
	"nifri2/animatronic-face/internal/scheduler"
	"nifri2/animatronic-face/internal/syncproto"
)

// randomModes are the targets of a remote mode change other than Love.
var randomModes = []face.MouthMode{face.Bars, face.Anger, face.Disgust, face.Smile, face.Dracula, face.Ring}

type barGeometry struct {
	x0, width, spacing int
	y0, height         int
	cy, maxHalf        int
}

func newBarGeometry(w, h int) barGeometry {
	const spacing, marginY = 1, 2
	usable := int(float64(w) * 0.8)
	nominal := (usable - spacing*(palette.Bands-1)) / palette.Bands
	width := int(float64(nominal) * 0.75)
	used := width*palette.Bands + spacing*(palette.Bands-1)
	avail := h - 2*marginY
	return barGeometry{
		x0:      (w - used) / 2,
		width:   width,
		spacing: spacing,
		y0:      marginY,
		height:  avail,
		cy:      h / 2,
		maxHalf: int(float64(avail/2) * 0.8),
	}
}

func (g barGeometry) x(band int) int { return g.x0 + band*(g.width+g.spacing) }

// Visualizer owns the mouth screen. Apply and Render may run on different
// goroutines.
type Visualizer struct {
	mu     sync.Mutex
	cfg    config.Mouth
	screen display.Surface
	rand   scheduler.Rand
	logger *slog.Logger
	exprs  map[face.MouthMode]*Expression
	geo    barGeometry
	cx, cy int

	mode       face.MouthMode
	shown      face.MouthMode
	lastRandom face.MouthMode
	color      int
	table      palette.BandTable

	bars       [palette.Bands]int
	rings      [palette.Bands]color.RGBA
	ringsDrawn bool
	exprDrawn  bool

	// OnModeChange is called with the new mode after a remote change.
	OnModeChange func(face.MouthMode)
}

func New(cfg config.Mouth, screen display.Surface, rnd scheduler.Rand, exprs map[face.MouthMode]*Expression, logger *slog.Logger) *Visualizer {
	w, h := screen.Size()
	v := &Visualizer{
		cfg:    cfg,
		screen: screen,
		rand:   rnd,
		logger: logger,
		exprs:  exprs,
		geo:    newBarGeometry(w, h),
		cx:     w / 2,
		cy:     h / 2,
		mode:   face.Bars,
		color:  palette.Clamp(cfg.StartColor),
	}
	if m, err := face.ParseMouthMode(cfg.StartMode); err == nil {
		v.mode = m
	}
	v.table = palette.Band(v.color)
	v.invalidate()
	return v
}

func (v *Visualizer) Mode() face.MouthMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

func (v *Visualizer) Color() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.color
}

// Apply handles one event from the link. Unknown modes and out-of-range
// colors are ignored.
func (v *Visualizer) Apply(e syncproto.Event) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch e.Kind {
	case syncproto.Color:
		if !palette.Valid(e.Value) {
			v.logger.Debug("ignoring color", "value", e.Value)
			return
		}
		v.color = e.Value
		v.table = palette.Band(e.Value)
		v.invalidate()
		v.logger.Info("color scheme set", "color", v.color)

	case syncproto.Mode:
		m, err := face.ParseMouthMode(e.Value)
		if err != nil {
			v.logger.Debug("ignoring mode", "error", err)
			return
		}
		if m != face.Love {
			m = v.pickRandom()
		}
		v.mode = m
		v.logger.Info("mouth mode set", "mode", m, "requested", e.Value)
		if v.OnModeChange != nil {
			v.OnModeChange(m)
		}
	}
}

// pickRandom chooses a mode other than the previous random choice.
func (v *Visualizer) pickRandom() face.MouthMode {
	choices := make([]face.MouthMode, 0, len(randomModes))
	for _, m := range randomModes {
		if m != v.lastRandom {
			choices = append(choices, m)
		}
	}
	m := choices[v.rand.IntN(len(choices))]
	v.lastRandom = m
	return m
}

func (v *Visualizer) invalidate() {
	for i := range v.bars {
		v.bars[i] = -1
	}
	v.ringsDrawn = false
}

// Render draws one sample in the current mode, touching only what changed.
func (v *Visualizer) Render(levels audio.Levels) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode != v.shown {
		v.screen.FillScreen(palette.Black)
		v.invalidate()
		v.exprDrawn = false
		v.shown = v.mode
	}

	switch v.mode {
	case face.Bars:
		v.renderBars(levels)
	case face.Ring:
		v.renderRings(levels)
	default:
		v.renderExpression()
	}
}

func (v *Visualizer) effective(level uint16) float64 {
	e := max(0, int(level)-v.cfg.SilenceThreshold)
	return float64(e) / float64(v.cfg.FullScale)
}

// HalfHeight maps a band level onto a bar half height in [1, maxHalf].
func (v *Visualizer) HalfHeight(level uint16) int {
	half := int(v.effective(level) * float64(v.geo.maxHalf) * v.cfg.Gain)
	return max(1, min(v.geo.maxHalf, half))
}

func (v *Visualizer) renderBars(levels audio.Levels) {
	g := v.geo
	for i, level := range levels {
		half := v.HalfHeight(level)
		if half == v.bars[i] {
			continue
		}
		x := g.x(i)
		v.screen.FillRect(x, g.y0, g.width, g.height, palette.Black)
		v.screen.FillRect(x, g.cy-half, g.width, 2*half, v.table[i])
		v.bars[i] = half
	}
}

// RingColor is the band color faded toward black by the band's level.
func (v *Visualizer) RingColor(band int, level uint16) color.RGBA {
	return palette.Scale(v.table[band], min(1, v.effective(level)))
}

func (v *Visualizer) renderRings(levels audio.Levels) {
	for i, level := range levels {
		c := v.RingColor(i, level)
		if v.ringsDrawn && c == v.rings[i] {
			continue
		}
		outer := v.cfg.RingStep * (i + 1)
		inner := outer - v.cfg.RingThickness
		display.AnnulusSpans(v.cx, v.cy, inner, outer, func(x, y, w int) {
			v.screen.FillRect(x, y, w, 1, c)
		})
		v.rings[i] = c
	}
	v.ringsDrawn = true
}

func (v *Visualizer) renderExpression() {
	if v.exprDrawn {
		return
	}
	v.exprDrawn = true
	e, ok := v.exprs[v.mode]
	if !ok {
		v.logger.Warn("no bitmap for mode", "mode", v.mode)
		return
	}
	bg := palette.Black
	if v.mode == face.Love {
		bg = palette.PalePink
	}
	e.Draw(v.screen, bg, v.cfg.ExpressionScale)
}

// Run samples src every interval and renders each reading.
func (v *Visualizer) Run(ctx context.Context, src audio.Source, clk scheduler.Clock, interval time.Duration) error {
	return scheduler.Every(ctx, clk, interval, func(ctx context.Context) error {
		levels, err := src.Read(ctx)
		if err != nil {
			return err
		}
		v.Render(levels)
		if err := display.Flush(v.screen); err != nil {
			v.logger.Warn("display flush failed", "error", err)
		}
		return nil
	})
}
