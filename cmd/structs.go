package cmd

import (
	"context"
	"io"
	"log/slog"

	"nifri2/animatronic-face/internal/audio"
	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/effects"
	"nifri2/animatronic-face/internal/input"
	"nifri2/animatronic-face/internal/scheduler"
)

type Role int

const (
	Eyes Role = 0x00 + iota
	Mouth
)

func (r Role) String() string {
	if r == Mouth {
		return "mouth"
	}
	return "eyes"
}

type Settings struct {
	Role     Role
	Tunables config.Tunables
	Logger   *slog.Logger
}

// Producer feeds input events until ctx ends.
type Producer func(ctx context.Context, out chan<- input.Event) error

// EyesHardware is everything the eyes node takes from its board.
type EyesHardware struct {
	Screens [2]display.Surface
	LEDs    []effects.Channel
	Link    io.Writer
	Inputs  []Producer
	Extra   []scheduler.Task

	Clock scheduler.Clock
	Rand  scheduler.Rand
}

// MouthHardware is everything the mouth node takes from its board.
type MouthHardware struct {
	Screen display.Surface
	Link   io.Reader
	Audio  audio.Source
	Extra  []scheduler.Task

	Clock scheduler.Clock
	Rand  scheduler.Rand
}

// Pin is a digital output such as the on-board LED.
type Pin interface {
	High()
	Low()
}

const (
	// Size of the queue between input producers and the handler.
	inputQueue = 16
)
