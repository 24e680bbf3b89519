// Package face holds the vocabulary both nodes share: render modes, eye
// geometry and the eyes node's cross-task state.
package face

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned when a wire value names no mode.
var ErrUnknownMode = errors.New("unknown mode")

// Mode is an eye render variant. Its value is the one sent on the wire.
type Mode int

const (
	Round Mode = 101 + iota
	Square
	Oval
	Diamond
	Dollar
	Heart
	Bat
)

// EyeModes lists every eye variant in wire order.
var EyeModes = []Mode{Round, Square, Oval, Diamond, Dollar, Heart, Bat}

func (m Mode) String() string {
	switch m {
	case Round:
		return "round"
	case Square:
		return "square"
	case Oval:
		return "oval"
	case Diamond:
		return "diamond"
	case Dollar:
		return "dollar"
	case Heart:
		return "heart"
	case Bat:
		return "bat"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Valid reports whether m is one of EyeModes.
func (m Mode) Valid() bool {
	return m >= Round && m <= Bat
}

// ParseMode converts a wire value to an eye mode.
func ParseMode(v int) (Mode, error) {
	m := Mode(v)
	if !m.Valid() {
		return 0, fmt.Errorf("eye %w: %d", ErrUnknownMode, v)
	}
	return m, nil
}

// MouthMode is a mouth visualization. It shares the wire range with Mode.
type MouthMode int

const (
	Bars MouthMode = 101 + iota
	Anger
	Disgust
	Smile
	Dracula
	Love
	Ring
)

// MouthModes lists every mouth visualization in wire order.
var MouthModes = []MouthMode{Bars, Anger, Disgust, Smile, Dracula, Love, Ring}

func (m MouthMode) String() string {
	switch m {
	case Bars:
		return "bars"
	case Anger:
		return "anger"
	case Disgust:
		return "disgust"
	case Smile:
		return "smile"
	case Dracula:
		return "dracula"
	case Love:
		return "love"
	case Ring:
		return "ring"
	default:
		return fmt.Sprintf("mouth(%d)", int(m))
	}
}

func (m MouthMode) Valid() bool {
	return m >= Bars && m <= Ring
}

// Expression reports whether m is drawn as a static bitmap.
func (m MouthMode) Expression() bool {
	return m >= Anger && m <= Love
}

// ParseMouthMode converts a wire value to a mouth mode.
func ParseMouthMode(v int) (MouthMode, error) {
	m := MouthMode(v)
	if !m.Valid() {
		return 0, fmt.Errorf("mouth %w: %d", ErrUnknownMode, v)
	}
	return m, nil
}
