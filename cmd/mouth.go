package cmd

import (
	"context"
	"errors"
	"io"

	"nifri2/animatronic-face/internal/palette"
	"nifri2/animatronic-face/internal/scheduler"
	"nifri2/animatronic-face/internal/syncproto"
	"nifri2/animatronic-face/internal/visualizer"
)

// MouthNode is the wired mouth runtime.
type MouthNode struct {
	Visualizer *visualizer.Visualizer
	Receiver   *syncproto.Receiver

	config Settings
	hw     MouthHardware
	sched  *scheduler.Scheduler
}

// MouthState is a snapshot for status displays.
type MouthState struct {
	Color int    `json:"color"`
	Mode  string `json:"mode"`
}

func NewMouth(config Settings, hw MouthHardware) (*MouthNode, error) {
	t := config.Tunables

	exprs, err := visualizer.LoadExpressions()
	if err != nil {
		// Missing bitmaps only blank their modes.
		config.Logger.Error("loading expressions", "error", err)
	}

	v := visualizer.New(t.Mouth, hw.Screen, hw.Rand, exprs, config.Logger.With("task", "render"))
	n := &MouthNode{
		Visualizer: v,
		Receiver:   syncproto.NewReceiver(hw.Link, t.Link.MaxLine, v.Apply, config.Logger.With("task", "receive")),
		config:     config,
		hw:         hw,
		sched:      scheduler.New(config.Logger),
	}

	// 1. Selections from the eyes
	if hw.Link != nil {
		n.sched.Go("receive", n.Receiver.Run)
	}

	// 2. Sample and draw
	n.sched.Go("render", func(ctx context.Context) error {
		err := v.Run(ctx, hw.Audio, hw.Clock, t.Mouth.SampleInterval)
		if errors.Is(err, io.EOF) {
			config.Logger.Info("audio source exhausted")
			return nil
		}
		return err
	})

	for _, task := range hw.Extra {
		n.sched.Go(task.Name, task.Run)
	}
	return n, nil
}

func (n *MouthNode) Tasks() []string { return n.sched.Tasks() }

func (n *MouthNode) State() MouthState {
	return MouthState{Color: n.Visualizer.Color(), Mode: n.Visualizer.Mode().String()}
}

// Run clears the display and runs every task until ctx ends or one of them
// fails.
func (n *MouthNode) Run(ctx context.Context) error {
	n.config.Logger.Info("starting mouth node",
		"mode", n.Visualizer.Mode(), "color", n.Visualizer.Color(), "tasks", n.Tasks())

	initScreens(n.config, n.hw.Screen)
	n.hw.Screen.FillScreen(palette.Black)
	flushAll(n.config, n.hw.Screen)

	return n.sched.Run(ctx)
}

// RunMouth builds and runs the mouth node.
func RunMouth(ctx context.Context, config Settings, hw MouthHardware) error {
	n, err := NewMouth(config, hw)
	if err != nil {
		return err
	}
	return n.Run(ctx)
}
