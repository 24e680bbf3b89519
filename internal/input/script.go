package input

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"nifri2/animatronic-face/internal/scheduler"
)

// Step is one scripted action: an event, or a pause when Event is None.
type Step struct {
	Event Event
	Wait  time.Duration
}

// ParseScript reads a shell-like list of words:
//
//	right right*3 wait 2s press   # comments are allowed
//
// "name*N" repeats an event N times and "wait D" pauses for a Go duration.
func ParseScript(text string) ([]Step, error) {
	words, err := shlex.Split(text)
	if err != nil {
		return nil, fmt.Errorf("split script: %w", err)
	}
	var steps []Step
	for i := 0; i < len(words); i++ {
		w := words[i]
		if w == "wait" {
			if i+1 >= len(words) {
				return nil, fmt.Errorf("wait without duration")
			}
			i++
			d, err := time.ParseDuration(words[i])
			if err != nil || d < 0 {
				return nil, fmt.Errorf("bad wait %q", words[i])
			}
			steps = append(steps, Step{Wait: d})
			continue
		}

		name, count := w, 1
		if base, rep, ok := strings.Cut(w, "*"); ok {
			n, err := strconv.Atoi(rep)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("bad repeat in %q", w)
			}
			name, count = base, n
		}
		ev, err := ParseEvent(name)
		if err != nil {
			return nil, err
		}
		for range count {
			steps = append(steps, Step{Event: ev})
		}
	}
	return steps, nil
}

// Play emits the script's events in order, pausing between steps for gap
// and for every explicit wait.
func Play(ctx context.Context, steps []Step, clk scheduler.Clock, gap time.Duration, out chan<- Event) error {
	for _, s := range steps {
		if s.Event == None {
			if err := clk.Sleep(ctx, s.Wait); err != nil {
				return err
			}
			continue
		}
		if err := Send(ctx, out, s.Event); err != nil {
			return err
		}
		if err := clk.Sleep(ctx, gap); err != nil {
			return err
		}
	}
	return nil
}
