//go:build tinygo

package hw

import (
	"image/color"
	"machine"
	"sync"

	"tinygo.org/x/drivers/ws2812"

	"nifri2/animatronic-face/internal/effects"
)

// pwmGroup is the part of an RP2040 PWM slice used here.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

type pwmChannel struct {
	pwm pwmGroup
	ch  uint8
}

func (p pwmChannel) SetDuty(d uint16) {
	p.pwm.Set(p.ch, uint32(uint64(d)*uint64(p.pwm.Top())/0xffff))
}

// PWMLEDs configures the three LED pins at 2kHz, all off.
func PWMLEDs() ([]effects.Channel, error) {
	pins := []struct {
		pin machine.Pin
		pwm pwmGroup
	}{
		{led1, machine.PWM5},
		{led2, machine.PWM6},
		{led3, machine.PWM6},
	}
	out := make([]effects.Channel, 0, len(pins))
	for _, p := range pins {
		if err := p.pwm.Configure(machine.PWMConfig{Period: 500_000}); err != nil {
			return nil, err
		}
		ch, err := p.pwm.Channel(p.pin)
		if err != nil {
			return nil, err
		}
		c := pwmChannel{pwm: p.pwm, ch: ch}
		c.SetDuty(0)
		out = append(out, c)
	}
	return out, nil
}

// Strip drives a WS2812 chain where each channel dims one primary.
type Strip struct {
	mu     sync.Mutex
	dev    ws2812.Device
	pixels []color.RGBA
	level  [3]uint8
}

func NewStrip(n int) *Strip {
	stripData.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &Strip{dev: ws2812.New(stripData), pixels: make([]color.RGBA, n)}
}

// Channels returns red, green and blue as three effects channels.
func (s *Strip) Channels() []effects.Channel {
	return []effects.Channel{stripChannel{s, 0}, stripChannel{s, 1}, stripChannel{s, 2}}
}

func (s *Strip) set(i int, d uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level[i] = uint8(d >> 8)
	c := color.RGBA{R: s.level[0], G: s.level[1], B: s.level[2], A: 255}
	for k := range s.pixels {
		s.pixels[k] = c
	}
	s.dev.WriteColors(s.pixels)
}

type stripChannel struct {
	s *Strip
	i int
}

func (c stripChannel) SetDuty(d uint16) { c.s.set(c.i, d) }
