// Package anim moves both irises between random targets and blinks them.
package anim

import (
	"context"
	"log/slog"
	"math"
	"sync/atomic"

	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/palette"
	"nifri2/animatronic-face/internal/render"
	"nifri2/animatronic-face/internal/scheduler"
)

type Phase int32

const (
	Idle Phase = iota
	Targeting
	Interpolating
	Blinking
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Targeting:
		return "targeting"
	case Interpolating:
		return "interpolating"
	case Blinking:
		return "blinking"
	default:
		return "unknown"
	}
}

// Move is one planned gaze change for both eyes.
type Move struct {
	Steps   int
	Targets [2]face.EyeState
	Synced  bool
}

// Deps wires an Engine to its node.
type Deps struct {
	Tunables config.Eyes
	Shared   *face.Shared
	Screens  [2]display.Surface
	Renderer *render.Renderer
	Lock     *scheduler.Lock
	Clock    scheduler.Clock
	Rand     scheduler.Rand
	Logger   *slog.Logger
}

type Engine struct {
	Deps

	cx, cy   int
	rLo, rHi int
	phase    atomic.Int32

	// drawn is the mode the irises on screen were drawn with. Guarded by
	// the render lock.
	drawn face.Mode

	// OnMove and OnBlink are optional observers, called outside the lock.
	OnMove  func(Move)
	OnBlink func(reps int)
}

func New(d Deps, width, height int) *Engine {
	lo, hi := d.Tunables.RadiusRange()
	return &Engine{Deps: d, cx: width / 2, cy: height / 2, rLo: lo, rHi: hi, drawn: d.Shared.Mode()}
}

func (e *Engine) Phase() Phase { return Phase(e.phase.Load()) }

func (e *Engine) setPhase(p Phase) { e.phase.Store(int32(p)) }

// Run alternates moves and waits until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	defer e.setPhase(Idle)
	for {
		if err := e.Animate(ctx); err != nil {
			return err
		}
		if err := e.Wait(ctx); err != nil {
			return err
		}
	}
}

// Plan draws the next move for mode without touching any state.
func (e *Engine) Plan(mode face.Mode) Move {
	t := e.Tunables
	m := Move{Steps: scheduler.IntBetween(e.Rand, t.StepsMin, t.StepsMax)}

	common := e.target(mode)
	if e.Rand.Float64() < t.SyncGaze {
		m.Targets = [2]face.EyeState{common, common}
		m.Synced = true
		return m
	}
	// One eye keeps the common target, the other wanders off on its own.
	lone := e.Rand.IntN(2)
	m.Targets[lone] = e.target(mode)
	m.Targets[1-lone] = common
	return m
}

func (e *Engine) target(mode face.Mode) face.EyeState {
	t := e.Tunables
	angle := scheduler.Uniform(e.Rand, 0, 2*math.Pi)
	dist := scheduler.Uniform(e.Rand, 0, float64(t.TargetOffset))

	lo, hi := t.ScaleMin, t.ScaleMax
	if mode == face.Oval {
		lo, hi = t.OvalScaleMin, t.OvalScaleMax
	}
	st := face.EyeState{
		X: e.cx + int(dist*math.Cos(angle)),
		Y: e.cy + int(dist*math.Sin(angle)),
		R: int(float64(t.BaseRadius) * scheduler.Uniform(e.Rand, lo, hi)),
	}
	return st.ClampRadius(e.rLo, e.rHi)
}

// Tween returns step i of steps between start and target. Step 0 is start,
// step steps is target, and every coordinate stays between its endpoints.
func Tween(start, target face.EyeState, i, steps int) face.EyeState {
	if steps <= 0 || i >= steps {
		return target
	}
	if i <= 0 {
		return start
	}
	lerp := func(a, b int) int { return a + (b-a)*i/steps }
	return face.EyeState{
		X: lerp(start.X, target.X),
		Y: lerp(start.Y, target.Y),
		R: lerp(start.R, target.R),
	}
}

// Animate plans a move and tweens both eyes to it while holding the
// render lock for the whole run.
func (e *Engine) Animate(ctx context.Context) error {
	e.setPhase(Targeting)
	move := e.Plan(e.Shared.Mode())

	if err := e.Lock.Acquire(ctx); err != nil {
		return err
	}
	e.setPhase(Interpolating)
	err := e.interpolate(ctx, move)
	e.Lock.Release()
	e.setPhase(Idle)
	if err != nil {
		return err
	}

	e.Logger.Debug("eyes moved", "steps", move.Steps, "synced", move.Synced,
		"left", move.Targets[0], "right", move.Targets[1])
	if e.OnMove != nil {
		e.OnMove(move)
	}
	return nil
}

func (e *Engine) interpolate(ctx context.Context, move Move) error {
	// The mode is fixed for the whole run; a change shows at the next run
	// or refresh.
	mode := e.Shared.Mode()
	e.settle(mode)
	start := e.Shared.Eyes
	for i := 1; i <= move.Steps; i++ {
		cs := palette.Eye(e.Shared.Color())
		for k, s := range e.Screens {
			next := Tween(start[k], move.Targets[k], i, move.Steps)
			e.Shared.Eyes[k] = e.Renderer.UpdateShape(s, e.Shared.Eyes[k], next, mode, cs)
			e.flush(s)
		}
		delay := scheduler.UniformDuration(e.Rand, e.Tunables.StepDelayMin, e.Tunables.StepDelayMax)
		if err := e.Clock.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// Wait idles between moves, blinking once the pause is long enough.
func (e *Engine) Wait(ctx context.Context) error {
	t := e.Tunables
	wait := scheduler.UniformDuration(e.Rand, t.InterMoveMin, t.InterMoveMax)
	if wait < t.BlinkThreshold {
		return e.Clock.Sleep(ctx, wait)
	}
	if err := e.Clock.Sleep(ctx, t.BlinkThreshold); err != nil {
		return err
	}
	if err := e.Blink(ctx); err != nil {
		return err
	}
	return e.Clock.Sleep(ctx, wait-t.BlinkThreshold)
}

// Blink erases and redraws both irises once or twice.
func (e *Engine) Blink(ctx context.Context) error {
	reps := scheduler.IntBetween(e.Rand, 1, 2)
	if err := e.Lock.Acquire(ctx); err != nil {
		return err
	}
	e.setPhase(Blinking)
	err := e.blink(ctx, reps)
	e.Lock.Release()
	e.setPhase(Idle)
	if err != nil {
		return err
	}
	if e.OnBlink != nil {
		e.OnBlink(reps)
	}
	return nil
}

func (e *Engine) blink(ctx context.Context, reps int) error {
	for n := range reps {
		if n > 0 {
			if err := e.Clock.Sleep(ctx, e.Tunables.BlinkDelay); err != nil {
				return err
			}
		}
		mode := e.Shared.Mode()
		e.settle(mode)
		for k, s := range e.Screens {
			e.Renderer.Erase(s, e.Shared.Eyes[k], mode)
			e.flush(s)
		}
		if err := e.Clock.Sleep(ctx, e.Tunables.BlinkDelay); err != nil {
			// Leave the eyes open on the way out.
			e.drawAll(mode)
			return err
		}
		e.drawAll(mode)
	}
	return nil
}

// settle repaints both screens when the irises on them belong to another
// mode, so footprints are never computed with the wrong shape.
func (e *Engine) settle(mode face.Mode) {
	if mode == e.drawn {
		return
	}
	cs := palette.Eye(e.Shared.Color())
	for k, s := range e.Screens {
		e.Renderer.Repaint(s, e.Shared.Eyes[k], mode, cs)
		e.flush(s)
	}
	e.drawn = mode
}

func (e *Engine) drawAll(mode face.Mode) {
	cs := palette.Eye(e.Shared.Color())
	for k, s := range e.Screens {
		e.Renderer.Draw(s, e.Shared.Eyes[k], mode, cs)
		e.flush(s)
	}
}

func (e *Engine) flush(s display.Surface) {
	if err := display.Flush(s); err != nil {
		e.Logger.Warn("display flush failed", "error", err)
	}
}
