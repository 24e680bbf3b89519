package input

import "time"

// Quadrature decodes a two-pin rotary encoder into detent events. A detent
// that follows the previous one within Fast is reported as a fast turn.
type Quadrature struct {
	Fast time.Duration

	state uint8
	acc   int8
	last  time.Time
}

// transitions maps (previous<<2 | current) pin states to a quarter step.
var transitions = [16]int8{0, -1, 1, 0, 1, 0, 0, -1, -1, 0, 0, 1, 0, 1, -1, 0}

// Update feeds the current pin levels and returns the completed detent,
// or None.
func (q *Quadrature) Update(clk, dt bool, now time.Time) Event {
	var cur uint8
	if clk {
		cur |= 2
	}
	if dt {
		cur |= 1
	}
	q.acc += transitions[q.state<<2|cur]
	q.state = cur

	// A detent is four quarter steps, ending back at rest.
	if cur != 3 || (q.acc > -4 && q.acc < 4) {
		return None
	}
	fast := !q.last.IsZero() && now.Sub(q.last) < q.Fast
	q.last = now
	right := q.acc > 0
	q.acc = 0
	switch {
	case right && fast:
		return TurnRightFast
	case right:
		return TurnRight
	case fast:
		return TurnLeftFast
	default:
		return TurnLeft
	}
}

// Reset forgets a partial detent, for example after a glitch.
func (q *Quadrature) Reset(clk, dt bool) {
	q.state = 0
	if clk {
		q.state |= 2
	}
	if dt {
		q.state |= 1
	}
	q.acc = 0
}
