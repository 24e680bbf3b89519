package syncproto

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// minLine is the smallest buffer bufio will allocate.
const minLine = 16

// Receiver reads the link line by line and hands every valid event to the
// sink. Lines longer than the buffer are discarded up to their newline.
type Receiver struct {
	src    io.Reader
	br     *bufio.Reader
	sink   func(Event)
	logger *slog.Logger

	OnDrop    func(tok []byte)
	OnReceive func(Event)
}

func NewReceiver(r io.Reader, maxLine int, sink func(Event), logger *slog.Logger) *Receiver {
	return &Receiver{
		src:    r,
		br:     bufio.NewReaderSize(r, max(minLine, maxLine)),
		sink:   sink,
		logger: logger,
	}
}

// Run blocks until the link ends or ctx is cancelled. A reader that is also
// an io.Closer is closed on cancellation to unblock the pending read.
func (r *Receiver) Run(ctx context.Context) error {
	if c, ok := r.src.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { _ = c.Close() })
		defer stop()
	}

	skipping := false
	for {
		line, err := r.br.ReadSlice('\n')
		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			if !skipping {
				r.logger.Debug("discarding over-long line", "prefix", string(line[:min(len(line), 8)]))
				r.drop(line)
			}
			skipping = true
			continue
		case skipping:
			// Tail of an over-long line.
			skipping = false
		default:
			r.handle(line)
		}

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read link: %w", err)
		}
	}
}

func (r *Receiver) handle(line []byte) {
	for _, e := range Decode(line, r.drop) {
		r.logger.Debug("received", "event", e.String())
		r.sink(e)
		if r.OnReceive != nil {
			r.OnReceive(e)
		}
	}
}

func (r *Receiver) drop(tok []byte) {
	r.logger.Debug("dropped malformed token", "token", string(tok))
	if r.OnDrop != nil {
		r.OnDrop(tok)
	}
}
