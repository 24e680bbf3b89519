//go:build tinygo

package hw

import (
	"context"
	"machine"
	"time"

	"nifri2/animatronic-face/internal/scheduler"
)

// Watchdog resets the board when the scheduler stops feeding it for 5s.
func Watchdog(clk scheduler.Clock) scheduler.Task {
	return scheduler.Task{Name: "watchdog", Run: func(ctx context.Context) error {
		machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 5000})
		if err := machine.Watchdog.Start(); err != nil {
			return err
		}
		return scheduler.Every(ctx, clk, time.Second, func(context.Context) error {
			machine.Watchdog.Update()
			return nil
		})
	}}
}
