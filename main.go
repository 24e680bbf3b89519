//go:build tinygo

package main

import (
	"context"
	"machine"
	"os"
	"time"

	"nifri2/animatronic-face/cmd"
	"nifri2/animatronic-face/internal/config"
	"nifri2/animatronic-face/internal/hw"
	"nifri2/animatronic-face/internal/logging"
	"nifri2/animatronic-face/internal/scheduler"
)

// buildRole and buildLEDs are set at compile time via -ldflags
// e.g. -ldflags="-X main.buildRole=mouth" or "-X main.buildLEDs=ws2812"
var (
	buildRole string
	buildLEDs string
)

var settings = cmd.Settings{
	Role:     cmd.ParseRole(buildRole),
	Tunables: config.Default(),
	Logger:   logging.New(os.Stdout, logging.ParseLevel("info")),
}

func main() {
	ctx := context.Background()
	clk := scheduler.RealClock{}
	rnd := scheduler.NewRand(seed())
	t := settings.Tunables

	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	cmd.BootBlink(ctx, settings.Role, led, clk)

	var err error
	switch settings.Role {
	case cmd.Eyes:
		board := cmd.EyesHardware{
			Link:  hw.LinkTX(t.Link.Baud),
			Extra: []scheduler.Task{hw.Watchdog(clk)},
			Clock: clk,
			Rand:  rnd,
		}
		if board.Screens, err = hw.EyeDisplays(t.Display.Width, t.Display.Height); err != nil {
			settings.Logger.Error("spi setup failed", "error", err)
		}
		if buildLEDs == "ws2812" {
			board.LEDs = hw.NewStrip(8).Channels()
		} else if board.LEDs, err = hw.PWMLEDs(); err != nil {
			settings.Logger.Error("pwm setup failed", "error", err)
		}

		board.Inputs = []cmd.Producer{
			hw.Encoder(80 * time.Millisecond),
			hw.Button(clk, t.Eyes.InputPoll),
		}
		err = cmd.RunEyes(ctx, settings, board)

	case cmd.Mouth:
		board := cmd.MouthHardware{
			Link:  hw.LinkRX(t.Link.Baud),
			Audio: hw.Equalizer(clk),
			Extra: []scheduler.Task{hw.Watchdog(clk)},
			Clock: clk,
			Rand:  rnd,
		}
		if board.Screen, err = hw.MouthDisplay(t.Display.Width, t.Display.Height); err != nil {
			settings.Logger.Error("spi setup failed", "error", err)
		}
		err = cmd.RunMouth(ctx, settings, board)
	}

	// Nothing restarts a stopped node; let the watchdog reset the board.
	settings.Logger.Error("node stopped", "role", settings.Role, "error", err)
	for {
		time.Sleep(time.Hour)
	}
}

func seed() uint64 {
	if r, err := machine.GetRNG(); err == nil {
		return uint64(r)
	}
	return uint64(time.Now().UnixNano())
}
