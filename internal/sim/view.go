// Package sim draws the three face displays and the LED levels in a
// terminal and turns key presses into encoder and button input.
package sim

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/input"
)

// LED is an effects channel that only remembers its duty.
type LED struct {
	duty atomic.Uint32
}

func (l *LED) SetDuty(d uint16) { l.duty.Store(uint32(d)) }

func (l *LED) Duty() uint16 { return uint16(l.duty.Load()) }

// Panel is one simulated display.
type Panel struct {
	Title  string
	Canvas *display.Canvas
}

const (
	gap       = 2
	gaugeCols = 10
)

type View struct {
	mu     sync.Mutex
	screen tcell.Screen
	panels []Panel
	leds   []*LED
	status func() string

	// OnQuit is called when the user asks to leave.
	OnQuit func()
}

func NewView(screen tcell.Screen, panels []Panel, leds []*LED, status func() string) *View {
	return &View{screen: screen, panels: panels, leds: leds, status: status}
}

// Step is the number of canvas pixels per terminal column that fits every
// panel side by side on a w by h screen. Each row shows two pixel rows.
func (v *View) Step(w, h int) int {
	pw, ph := v.panelSize()
	n := max(1, len(v.panels))
	for s := 1; s < max(pw, ph); s++ {
		cols := n*(pw/s) + (n-1)*gap
		rows := ph/(2*s) + 3
		if cols <= w && rows <= h {
			return s
		}
	}
	return max(pw, ph)
}

func (v *View) panelSize() (int, int) {
	if len(v.panels) == 0 {
		return 1, 1
	}
	return v.panels[0].Canvas.Size()
}

// Draw renders the current canvases, LED gauges and status line.
func (v *View) Draw() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.screen.Clear()
	w, h := v.screen.Size()
	step := v.Step(w, h)
	pw, ph := v.panelSize()
	cols, rows := pw/step, ph/(2*step)
	label := tcell.StyleDefault.Bold(true)

	for i, p := range v.panels {
		x0 := i * (cols + gap)
		v.text(x0, 0, p.Title, label)
		for cy := range rows {
			for cx := range cols {
				px := cx*step + step/2
				top := p.Canvas.At(px, 2*cy*step+step/2)
				bottom := p.Canvas.At(px, (2*cy+1)*step+step/2)
				style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bottom))
				v.screen.SetContent(x0+cx, 1+cy, '▀', nil, style)
			}
		}
	}

	y := 1 + rows
	x := 0
	for i, l := range v.leds {
		x = v.gauge(x, y, fmt.Sprintf("LED%d", i+1), l.Duty()) + gap
	}
	if v.status != nil {
		v.text(0, y+1, v.status(), tcell.StyleDefault)
	}
	v.screen.Show()
}

func (v *View) gauge(x, y int, name string, duty uint16) int {
	filled := int(math.Round(float64(duty) / math.MaxUint16 * gaugeCols))
	x = v.text(x, y, name+" ", tcell.StyleDefault)
	lit := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for i := range gaugeCols {
		r := '·'
		if i < filled {
			r = '█'
		}
		v.screen.SetContent(x+i, y, r, nil, lit)
	}
	return x + gaugeCols
}

func (v *View) text(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// MapKey translates a key into an input event. quit is true for keys
// that end the simulation.
func MapKey(ev *tcell.EventKey) (e input.Event, quit bool) {
	shift := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyLeft:
		if shift {
			return input.TurnLeftFast, false
		}
		return input.TurnLeft, false
	case tcell.KeyRight:
		if shift {
			return input.TurnRightFast, false
		}
		return input.TurnRight, false
	case tcell.KeyEnter:
		return input.ButtonPress, false
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return input.None, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'a', 'h':
			return input.TurnLeft, false
		case 'A', 'H':
			return input.TurnLeftFast, false
		case 'd', 'l':
			return input.TurnRight, false
		case 'D', 'L':
			return input.TurnRightFast, false
		case ' ':
			return input.ButtonPress, false
		case 'q':
			return input.None, true
		}
	}
	return input.None, false
}

// Run redraws every frame and forwards mapped keys to out until ctx ends
// or the user quits.
func (v *View) Run(ctx context.Context, out chan<- input.Event, frame time.Duration) error {
	keys := make(chan *tcell.EventKey, 16)
	go v.poll(ctx, keys)

	ticker := time.NewTicker(frame)
	defer ticker.Stop()
	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			v.Draw()
		case k := <-keys:
			ev, quit := MapKey(k)
			if quit {
				if v.OnQuit != nil {
					v.OnQuit()
				}
				return nil
			}
			if ev == input.None {
				continue
			}
			if err := input.Send(ctx, out, ev); err != nil {
				return err
			}
		}
	}
}

func (v *View) poll(ctx context.Context, keys chan<- *tcell.EventKey) {
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			select {
			case keys <- e:
			case <-ctx.Done():
				return
			}
		case *tcell.EventResize:
			v.screen.Sync()
		}
	}
}
