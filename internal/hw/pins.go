//go:build tinygo

// Package hw binds the node runtimes to the RP2040 boards.
package hw

import "machine"

const (
	// Shared SPI bus for the round displays.
	spiSCK = machine.GP14
	spiSDO = machine.GP15
	spiHz  = 40_000_000

	eye1DC  = machine.GP4
	eye1CS  = machine.GP5
	eye1RST = machine.GP6

	eye2DC  = machine.GP8
	eye2CS  = machine.GP9
	eye2RST = machine.GP10

	mouthDC  = machine.GP4
	mouthCS  = machine.GP5
	mouthRST = machine.GP6

	encoderCLK = machine.GP1
	encoderDT  = machine.GP19
	button     = machine.GP2

	led1 = machine.GP11
	led2 = machine.GP12
	led3 = machine.GP13

	// Optional WS2812 strip replacing the three PWM LEDs.
	stripData = machine.GP22

	linkTX = machine.GP16
	linkRX = machine.GP17

	eqStrobe = machine.GP10
	eqReset  = machine.GP11
	eqOut    = machine.ADC0
)
