// Package input turns encoder, button and scripted input into events for
// the eyes node.
package input

import "fmt"

type Event int

const (
	None Event = iota
	TurnLeft
	TurnLeftFast
	TurnRight
	TurnRightFast
	ButtonPress
)

var eventNames = map[Event]string{
	None:          "none",
	TurnLeft:      "left",
	TurnLeftFast:  "left-fast",
	TurnRight:     "right",
	TurnRightFast: "right-fast",
	ButtonPress:   "press",
}

func (e Event) String() string {
	if n, ok := eventNames[e]; ok {
		return n
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ParseEvent is the inverse of String for every event except None.
func ParseEvent(s string) (Event, error) {
	for e, n := range eventNames {
		if e != None && n == s {
			return e, nil
		}
	}
	return None, fmt.Errorf("unknown input %q", s)
}

// ColorDelta is the color index step an event asks for.
func (e Event) ColorDelta() int {
	switch e {
	case TurnLeft, TurnLeftFast:
		return -1
	case TurnRight, TurnRightFast:
		return 1
	default:
		return 0
	}
}
