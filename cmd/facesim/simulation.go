package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"nifri2/animatronic-face/cmd"
	"nifri2/animatronic-face/internal/anim"
	"nifri2/animatronic-face/internal/audio"
	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/effects"
	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/input"
	"nifri2/animatronic-face/internal/metrics"
	"nifri2/animatronic-face/internal/scheduler"
	"nifri2/animatronic-face/internal/sim"
	"nifri2/animatronic-face/internal/syncproto"
)

type options struct {
	Tunables    config.Tunables
	Seed        uint64
	Audio       string // WAV path; empty for the synthetic swell
	Script      []input.Step
	ScriptGap   time.Duration
	MetricsAddr string
}

// simulation is both nodes, their virtual hardware, and the metrics wiring.
type simulation struct {
	Eyes     *cmd.EyesNode
	Mouth    *cmd.MouthNode
	Canvases [3]*display.Canvas
	LEDs     []*sim.LED
	Keys     chan input.Event
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry

	opts    options
	logger  *slog.Logger
	link    *io.PipeWriter
	closers []io.Closer
}

func newSimulation(opts options, logger *slog.Logger) (*simulation, error) {
	t := opts.Tunables
	w, h := t.Display.Width, t.Display.Height

	s := &simulation{
		Keys:     make(chan input.Event, 16),
		Registry: prometheus.NewRegistry(),
		opts:     opts,
		logger:   logger,
	}
	for i := range s.Canvases {
		s.Canvases[i] = display.NewCanvas(w, h)
	}
	s.Registry.MustRegister(collectors.NewGoCollector())
	s.Metrics = metrics.New(s.Registry)

	src, err := s.openAudio()
	if err != nil {
		return nil, err
	}

	leds := make([]effects.Channel, t.LEDs.Channels)
	for i := range leds {
		l := &sim.LED{}
		s.LEDs = append(s.LEDs, l)
		leds[i] = l
	}

	pr, pw := io.Pipe()
	s.link = pw

	// Each node gets its own generator so one node's draws never shift the other's.
	seed := opts.Seed
	inputs := []cmd.Producer{s.forwardKeys}
	if len(opts.Script) > 0 {
		inputs = append(inputs, func(ctx context.Context, out chan<- input.Event) error {
			return input.Play(ctx, opts.Script, scheduler.RealClock{}, opts.ScriptGap, out)
		})
	}
	s.Eyes, err = cmd.NewEyes(cmd.Settings{Role: cmd.Eyes, Tunables: t, Logger: logger.With("node", "eyes")}, cmd.EyesHardware{
		Screens: [2]display.Surface{s.Canvases[0], s.Canvases[1]},
		LEDs:    leds,
		Link:    pw,
		Inputs:  inputs,
		Clock:   scheduler.RealClock{},
		Rand:    scheduler.NewRand(seed),
	})
	if err != nil {
		return nil, err
	}

	s.Mouth, err = cmd.NewMouth(cmd.Settings{Role: cmd.Mouth, Tunables: t, Logger: logger.With("node", "mouth")}, cmd.MouthHardware{
		Screen: s.Canvases[2],
		Link:   pr,
		Audio:  src,
		Clock:  scheduler.RealClock{},
		Rand:   scheduler.NewRand(seed + 1),
	})
	if err != nil {
		return nil, err
	}

	s.observe()
	return s, nil
}

func (s *simulation) openAudio() (audio.Source, error) {
	const rate = audio.SampleRate
	window := s.opts.Tunables.Mouth.SampleInterval

	if s.opts.Audio == "" {
		st, err := audio.Synthetic(rate)
		if err != nil {
			return nil, err
		}
		return audio.NewAnalyzer(st, rate, window), nil
	}
	st, c, err := audio.OpenWAV(s.opts.Audio, rate)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, c)
	return audio.NewAnalyzer(st, rate, window), nil
}

func (s *simulation) observe() {
	m := s.Metrics
	s.Eyes.Engine.OnMove = func(mv anim.Move) { m.Move(mv.Steps, mv.Synced) }
	s.Eyes.Engine.OnBlink = func(int) { m.Blinks.Inc() }
	s.Eyes.Input.OnEvent = func(e input.Event) { m.InputEvents.WithLabelValues(e.String()).Inc() }
	s.Eyes.LEDs.OnRestart = func([]effects.Pattern) { m.LEDRestarts.Inc() }
	s.Eyes.Transmitter.OnSend = func(e syncproto.Event) {
		m.LinkEvents.WithLabelValues("tx", e.Kind.String()).Inc()
	}
	s.Mouth.Receiver.OnReceive = func(e syncproto.Event) {
		m.LinkEvents.WithLabelValues("rx", e.Kind.String()).Inc()
	}
	s.Mouth.Receiver.OnDrop = func([]byte) { m.LinkDropped.Inc() }
	s.Mouth.Visualizer.OnModeChange = func(mode face.MouthMode) {
		m.MouthModes.WithLabelValues(mode.String()).Inc()
	}
}

func (s *simulation) forwardKeys(ctx context.Context, out chan<- input.Event) error {
	for {
		select {
		case e := <-s.Keys:
			if err := input.Send(ctx, out, e); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type simState struct {
	Eyes  cmd.EyesState  `json:"eyes"`
	Mouth cmd.MouthState `json:"mouth"`
	LEDs  []uint16       `json:"leds"`
}

func (s *simulation) State(ctx context.Context) (simState, error) {
	eyes, err := s.Eyes.State(ctx)
	st := simState{Eyes: eyes, Mouth: s.Mouth.State()}
	for _, l := range s.LEDs {
		st.LEDs = append(st.LEDs, l.Duty())
	}
	return st, err
}

// Status is the one-line summary under the panels.
func (s *simulation) Status() string {
	m := s.Mouth.State()
	return fmt.Sprintf("eyes %s/%d %s  mouth %s/%d  [←/→ color, space mode, q quit]",
		s.Eyes.Shared.Mode(), s.Eyes.Shared.Color(), s.Eyes.Engine.Phase(), m.Mode, m.Color)
}

func (s *simulation) Router() http.Handler {
	return metrics.NewRouter(s.Registry, func() any {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		st, err := s.State(ctx)
		if err != nil {
			s.logger.Warn("state snapshot without geometry", "error", err)
		}
		return st
	})
}

// Run runs both nodes until ctx ends. The eyes stop first; closing the link
// then lets the mouth drain what was sent and stop.
func (s *simulation) Run(ctx context.Context) error {
	mouthCtx, stopMouth := context.WithCancel(context.WithoutCancel(ctx))
	defer stopMouth()
	mouthDone := make(chan error, 1)
	go func() { mouthDone <- s.Mouth.Run(mouthCtx) }()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Eyes.Run(gctx) })
	if s.opts.MetricsAddr != "" {
		g.Go(func() error { return metrics.Serve(gctx, s.opts.MetricsAddr, s.Router(), s.logger) })
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	s.link.Close()
	stopMouth()
	errs := []error{err, <-mouthDone}
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
