package audio

import (
	"context"
	"time"

	"nifri2/animatronic-face/internal/scheduler"
)

// Pin is a digital output line.
type Pin interface {
	High()
	Low()
}

// ADC samples the chip's multiplexed output.
type ADC interface {
	Get() uint16
}

const (
	resetPulse   = time.Millisecond
	strobeSettle = 100 * time.Microsecond
)

// MSGEQ7 drives the seven-band graphic equalizer chip: a reset pulse
// rewinds its multiplexer, then each strobe low edge presents the next band.
type MSGEQ7 struct {
	Strobe Pin
	Reset  Pin
	Out    ADC
	Clock  scheduler.Clock
}

func (m *MSGEQ7) Read(ctx context.Context) (Levels, error) {
	var lv Levels
	if err := m.reset(ctx); err != nil {
		return lv, err
	}
	for i := range lv {
		m.Strobe.Low()
		if err := m.Clock.Sleep(ctx, strobeSettle); err != nil {
			return lv, err
		}
		lv[i] = m.Out.Get()
		m.Strobe.High()
		if err := m.Clock.Sleep(ctx, strobeSettle); err != nil {
			return lv, err
		}
	}
	return lv, nil
}

func (m *MSGEQ7) reset(ctx context.Context) error {
	m.Reset.Low()
	m.Strobe.Low()
	if err := m.Clock.Sleep(ctx, resetPulse); err != nil {
		return err
	}
	m.Reset.High()
	if err := m.Clock.Sleep(ctx, resetPulse); err != nil {
		return err
	}
	m.Reset.Low()
	m.Strobe.High()
	return m.Clock.Sleep(ctx, resetPulse)
}
