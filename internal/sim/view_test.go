package sim

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/input"
	"nifri2/animatronic-face/internal/palette"
)

func newScreen(t *testing.T) tcell.SimulationScreen {
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(100, 40)
	t.Cleanup(s.Fini)
	return s
}

func panels() []Panel {
	return []Panel{
		{Title: "left", Canvas: display.NewCanvas(240, 240)},
		{Title: "right", Canvas: display.NewCanvas(240, 240)},
		{Title: "mouth", Canvas: display.NewCanvas(240, 240)},
	}
}

func TestStepFitsPanels(t *testing.T) {
	v := NewView(nil, panels(), nil, nil)
	assert.Equal(t, 8, v.Step(100, 40))
	assert.Equal(t, 3, v.Step(250, 60))
}

func TestDrawDownsamplesCanvases(t *testing.T) {
	s := newScreen(t)
	ps := panels()
	red := palette.Eye(4).Outer
	ps[0].Canvas.FillScreen(red)
	ps[2].Canvas.FillRect(0, 8, 240, 8, palette.White)

	led := &LED{}
	led.SetDuty(65535)
	v := NewView(s, ps, []*LED{led, {}}, func() string { return "mode round" })
	v.Draw()

	r, _, style, _ := s.GetContent(0, 1)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, '▀', r)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), bg)

	// Mouth panel starts after two panels of 30 columns and their gaps.
	_, _, style, _ = s.GetContent(64, 1)
	fg, bg, _ = style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(255, 255, 255), bg)

	title, _, _, _ := s.GetContent(64, 0)
	assert.Equal(t, 'm', title)

	// First LED gauge is full, the second empty.
	full, _, _, _ := s.GetContent(len("LED1 "), 16)
	empty, _, _, _ := s.GetContent(len("LED1 ")+gaugeCols+gap+len("LED2 "), 16)
	assert.Equal(t, '█', full)
	assert.Equal(t, '·', empty)

	status, _, _, _ := s.GetContent(0, 17)
	assert.Equal(t, 'm', status)
}

func TestMapKey(t *testing.T) {
	for _, tc := range []struct {
		key  *tcell.EventKey
		want input.Event
		quit bool
	}{
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), input.TurnLeft, false},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), input.TurnLeftFast, false},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), input.TurnRight, false},
		{tcell.NewEventKey(tcell.KeyRune, 'D', tcell.ModNone), input.TurnRightFast, false},
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), input.ButtonPress, false},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), input.ButtonPress, false},
		{tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), input.None, true},
		{tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), input.None, false},
	} {
		got, quit := MapKey(tc.key)
		assert.Equal(t, tc.want, got, tc.key.Name())
		assert.Equal(t, tc.quit, quit, tc.key.Name())
	}
}

func TestRunForwardsKeysAndQuits(t *testing.T) {
	s := newScreen(t)
	v := NewView(s, panels(), nil, nil)
	quit := make(chan struct{})
	v.OnQuit = func() { close(quit) }

	out := make(chan input.Event, 4)
	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background(), out, 10*time.Millisecond) }()

	s.InjectKey(tcell.KeyRune, 'd', tcell.ModNone)
	select {
	case e := <-out:
		assert.Equal(t, input.TurnRight, e)
	case <-time.After(time.Second):
		t.Fatal("key not forwarded")
	}

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("view did not quit")
	}
	<-quit
}
