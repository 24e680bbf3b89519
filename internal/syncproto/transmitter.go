package syncproto

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/scheduler"
)

// Source hands out pending changes, clearing each flag as it is taken.
type Source interface {
	TakeColorChange() (int, bool)
	TakeModeChange() (face.Mode, bool)
}

// Transmitter is the only writer of the link. Each tick it sends at most one
// color and one mode event carrying the current value, color first; changes
// made between ticks collapse into the latest one.
type Transmitter struct {
	src      Source
	w        io.Writer
	clock    scheduler.Clock
	interval time.Duration
	logger   *slog.Logger
	buf      []byte

	OnSend func(Event)
}

func NewTransmitter(src Source, w io.Writer, clk scheduler.Clock, interval time.Duration, logger *slog.Logger) *Transmitter {
	return &Transmitter{src: src, w: w, clock: clk, interval: interval, logger: logger}
}

func (t *Transmitter) Run(ctx context.Context) error {
	return scheduler.Every(ctx, t.clock, t.interval, func(context.Context) error {
		return t.Tick()
	})
}

// Tick sends whatever is pending right now.
func (t *Transmitter) Tick() error {
	if c, ok := t.src.TakeColorChange(); ok {
		if err := t.send(ColorChanged(c)); err != nil {
			return err
		}
	}
	if m, ok := t.src.TakeModeChange(); ok {
		if err := t.send(ModeChanged(int(m))); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transmitter) send(e Event) error {
	t.buf = Append(t.buf[:0], e)
	if _, err := t.w.Write(t.buf); err != nil {
		return fmt.Errorf("write link: %w", err)
	}
	t.logger.Debug("sent", "event", e.String())
	if t.OnSend != nil {
		t.OnSend(e)
	}
	return nil
}
