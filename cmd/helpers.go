package cmd

import (
	"context"
	"time"

	"nifri2/animatronic-face/internal/display"
	"nifri2/animatronic-face/internal/scheduler"
)

func ParseRole(r string) Role {
	switch r {
	case "mouth":
		return Mouth
	default:
		return Eyes
	}
}

// BootBlink flashes led so the role can be told apart at power on:
// eyes blink twice slowly, the mouth five times quickly.
func BootBlink(ctx context.Context, role Role, led Pin, clk scheduler.Clock) error {
	n, d := 2, 200*time.Millisecond
	if role == Mouth {
		n, d = 5, 40*time.Millisecond
	}
	for i := 0; i < n; i++ {
		led.High()
		if err := clk.Sleep(ctx, d); err != nil {
			led.Low()
			return err
		}
		led.Low()
		if err := clk.Sleep(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// initScreens brings up every surface. A failing panel is logged and left
// in place so the rest of the node keeps running.
func initScreens(config Settings, screens ...display.Surface) {
	for i, s := range screens {
		if err := s.Init(); err != nil {
			config.Logger.Error("display init failed", "role", config.Role, "display", i, "error", err)
		}
	}
}

func flushAll(config Settings, screens ...display.Surface) {
	for i, s := range screens {
		if err := display.Flush(s); err != nil {
			config.Logger.Warn("display flush failed", "display", i, "error", err)
		}
	}
}
