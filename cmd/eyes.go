package cmd

import (
	"context"
	"fmt"

	"nifri2/animatronic-face/internal/anim"
	"nifri2/animatronic-face/internal/effects"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/input"
	"nifri2/animatronic-face/internal/render"
	"nifri2/animatronic-face/internal/scheduler"
	"nifri2/animatronic-face/internal/shape"
	"nifri2/animatronic-face/internal/syncproto"
)

// EyesNode is the wired eyes runtime. Its parts are exported so callers can
// attach observers before Run.
type EyesNode struct {
	Shared      *face.Shared
	Engine      *anim.Engine
	Input       *input.Handler
	Transmitter *syncproto.Transmitter
	LEDs        *effects.Bank
	Events      chan input.Event

	config Settings
	hw     EyesHardware
	sched  *scheduler.Scheduler
}

// EyesState is a snapshot for status displays.
type EyesState struct {
	Color int              `json:"color"`
	Mode  string           `json:"mode"`
	Phase string           `json:"phase"`
	Eyes  [2]face.EyeState `json:"eyes"`
}

func NewEyes(config Settings, hw EyesHardware) (*EyesNode, error) {
	t := config.Tunables
	mode, err := face.ParseMode(t.Eyes.StartMode)
	if err != nil {
		return nil, fmt.Errorf("start mode: %w", err)
	}

	w, h := hw.Screens[0].Size()
	start := face.EyeState{X: w / 2, Y: h / 2, R: t.Eyes.BaseRadius}
	shared := face.NewShared(t.Eyes.StartColor, mode, start)

	engine := anim.New(anim.Deps{
		Tunables: t.Eyes,
		Shared:   shared,
		Screens:  hw.Screens,
		Renderer: render.New(shape.NewRegistry(), t.Eyes.ScleraRadius),
		Lock:     scheduler.NewLock(),
		Clock:    hw.Clock,
		Rand:     hw.Rand,
		Logger:   config.Logger.With("task", "animate"),
	}, w, h)

	leds := effects.NewBank(hw.LEDs, t.LEDs, hw.Clock, hw.Rand, config.Logger.With("task", "leds"))

	n := &EyesNode{
		Shared:      shared,
		Engine:      engine,
		Input:       input.NewHandler(shared, hw.Rand, leds, config.Logger.With("task", "input")),
		Transmitter: syncproto.NewTransmitter(shared, hw.Link, hw.Clock, t.Link.TickInterval, config.Logger.With("task", "transmit")),
		LEDs:        leds,
		Events:      make(chan input.Event, inputQueue),
		config:      config,
		hw:          hw,
		sched:       scheduler.New(config.Logger),
	}

	// 1. Input handling
	n.sched.Go("input", func(ctx context.Context) error {
		return n.Input.Run(ctx, n.Events)
	})
	for i, p := range hw.Inputs {
		n.sched.Go(fmt.Sprintf("input-%d", i), func(ctx context.Context) error {
			return p(ctx, n.Events)
		})
	}

	// 2. Gaze and blinks
	n.sched.Go("animate", n.Engine.Run)

	// 3. Full repaint after a selection change
	n.sched.Go("refresh", n.Engine.RefreshLoop)

	// 4. Mirror selections to the mouth
	if hw.Link != nil {
		n.sched.Go("transmit", n.Transmitter.Run)
	}

	// 5. LED fades
	if len(hw.LEDs) > 0 {
		n.sched.Go("leds", n.LEDs.Run)
	}

	for _, task := range hw.Extra {
		n.sched.Go(task.Name, task.Run)
	}
	return n, nil
}

// Tasks lists the scheduled task names.
func (n *EyesNode) Tasks() []string { return n.sched.Tasks() }

// State snapshots selection and geometry. It waits for the render lock so
// the geometry is never read mid-move.
func (n *EyesNode) State(ctx context.Context) (EyesState, error) {
	st := EyesState{
		Color: n.Shared.Color(),
		Mode:  n.Shared.Mode().String(),
		Phase: n.Engine.Phase().String(),
	}
	err := n.Engine.Lock.With(ctx, func() error {
		st.Eyes = n.Shared.Eyes
		return nil
	})
	return st, err
}

// Run initializes both displays, paints the resting eyes and runs every
// task until ctx ends or one of them fails.
func (n *EyesNode) Run(ctx context.Context) error {
	n.config.Logger.Info("starting eyes node",
		"mode", n.Shared.Mode(), "color", n.Shared.Color(), "tasks", n.Tasks())

	initScreens(n.config, n.hw.Screens[0], n.hw.Screens[1])
	n.Engine.Paint()

	return n.sched.Run(ctx)
}

// RunEyes builds and runs the eyes node.
func RunEyes(ctx context.Context, config Settings, hw EyesHardware) error {
	n, err := NewEyes(config, hw)
	if err != nil {
		return err
	}
	return n.Run(ctx)
}
