// Package audio produces the seven band energies the mouth node renders,
// either from the MSGEQ7 chip or from a beep stream on the host.
package audio

import (
	"context"

	"nifri2/animatronic-face/internal/palette"
)

// Levels holds one 16-bit energy per band, lowest band first.
type Levels [palette.Bands]uint16

// BandHz are the MSGEQ7 band centers.
var BandHz = [palette.Bands]float64{63, 160, 400, 1000, 2500, 6250, 16000}

// Source yields a fresh set of band energies per call.
type Source interface {
	Read(ctx context.Context) (Levels, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (Levels, error)

func (f SourceFunc) Read(ctx context.Context) (Levels, error) { return f(ctx) }
