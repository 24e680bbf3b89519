//go:build tinygo

package hw

import (
	"machine"

	"tinygo.org/x/drivers/gc9a01"

	"nifri2/animatronic-face/internal/display"
)

func configureSPI() error {
	return machine.SPI1.Configure(machine.SPIConfig{
		Frequency: spiHz,
		SCK:       spiSCK,
		SDO:       spiSDO,
		Mode:      0,
	})
}

func newPanel(rst, dc, cs machine.Pin, w, h int16) display.Surface {
	dev := gc9a01.New(machine.SPI1, rst, dc, cs, machine.NoPin)
	dev.Configure(gc9a01.Config{Width: w, Height: h})
	return display.NewDriverSurface(&dev)
}

// EyeDisplays returns the left and right eye panels on the shared bus. The
// panels are returned even when the bus failed to configure.
func EyeDisplays(w, h int) ([2]display.Surface, error) {
	err := configureSPI()
	return [2]display.Surface{
		newPanel(eye1RST, eye1DC, eye1CS, int16(w), int16(h)),
		newPanel(eye2RST, eye2DC, eye2CS, int16(w), int16(h)),
	}, err
}

// MouthDisplay returns the single mouth panel.
func MouthDisplay(w, h int) (display.Surface, error) {
	err := configureSPI()
	return newPanel(mouthRST, mouthDC, mouthCS, int16(w), int16(h)), err
}
