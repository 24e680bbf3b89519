//go:build tinygo

package hw

import (
	"context"
	"machine"
	"time"

	"nifri2/animatronic-face/internal/input"
	"nifri2/animatronic-face/internal/scheduler"
)

// Encoder reports detents from pin-change interrupts. The ISR never blocks:
// detents that find its queue full are dropped.
func Encoder(fast time.Duration) func(ctx context.Context, out chan<- input.Event) error {
	encoderCLK.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	encoderDT.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	detents := make(chan input.Event, 16)
	q := &input.Quadrature{Fast: fast}
	q.Reset(encoderCLK.Get(), encoderDT.Get())
	isr := func(machine.Pin) {
		e := q.Update(encoderCLK.Get(), encoderDT.Get(), time.Now())
		if e == input.None {
			return
		}
		select {
		case detents <- e:
		default:
		}
	}
	encoderCLK.SetInterrupt(machine.PinToggle, isr)
	encoderDT.SetInterrupt(machine.PinToggle, isr)

	return func(ctx context.Context, out chan<- input.Event) error {
		for {
			select {
			case e := <-detents:
				if err := input.Send(ctx, out, e); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Button polls the active-low push button.
func Button(clk scheduler.Clock, interval time.Duration) func(ctx context.Context, out chan<- input.Event) error {
	button.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	pressed := func() bool { return !button.Get() }
	return func(ctx context.Context, out chan<- input.Event) error {
		return input.PollButton(ctx, pressed, clk, interval, out)
	}
}
