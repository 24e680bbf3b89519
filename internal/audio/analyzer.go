package audio

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/wav"
)

// SampleRate is used for every host-side stream.
const SampleRate = beep.SampleRate(44100)

// Analyzer measures the MSGEQ7 bands on a beep stream with one Goertzel
// filter per band over a fixed window.
type Analyzer struct {
	mu     sync.Mutex
	src    beep.Streamer
	rate   beep.SampleRate
	buf    [][2]float64
	window []float64

	// Boost multiplies the measured amplitude before it is mapped onto
	// the 16-bit range.
	Boost float64
}

func NewAnalyzer(src beep.Streamer, rate beep.SampleRate, window time.Duration) *Analyzer {
	n := max(64, rate.N(window))
	return &Analyzer{
		src:    src,
		rate:   rate,
		buf:    make([][2]float64, n),
		window: make([]float64, n),
		Boost:  1,
	}
}

// Read consumes one window. A short final window is zero padded; once the
// stream is exhausted Read returns its error or io.EOF.
func (a *Analyzer) Read(ctx context.Context) (Levels, error) {
	if err := ctx.Err(); err != nil {
		return Levels{}, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	filled := 0
	for filled < len(a.buf) {
		n, ok := a.src.Stream(a.buf[filled:])
		filled += n
		if !ok {
			if filled == 0 {
				if err := a.src.Err(); err != nil {
					return Levels{}, fmt.Errorf("audio stream: %w", err)
				}
				return Levels{}, io.EOF
			}
			break
		}
	}
	for i := range a.window {
		if i < filled {
			a.window[i] = (a.buf[i][0] + a.buf[i][1]) / 2
		} else {
			a.window[i] = 0
		}
	}

	var lv Levels
	for b, hz := range BandHz {
		amp := goertzel(a.window, hz, float64(a.rate)) * a.Boost
		lv[b] = uint16(math.Round(max(0, min(1, amp)) * math.MaxUint16))
	}
	return lv, nil
}

// goertzel returns the amplitude of the freq component in samples.
func goertzel(samples []float64, freq, rate float64) float64 {
	w := 2 * math.Pi * freq / rate
	coeff := 2 * math.Cos(w)
	var s1, s2 float64
	for _, x := range samples {
		s0 := x + coeff*s1 - s2
		s2, s1 = s1, s0
	}
	power := s1*s1 + s2*s2 - coeff*s1*s2
	return 2 * math.Sqrt(max(0, power)) / float64(len(samples))
}

// Tone is a sine at Hz scaled to Amplitude in [0, 1].
type Tone struct {
	Hz        float64
	Amplitude float64
}

// Tones mixes steady sines.
func Tones(rate beep.SampleRate, tones ...Tone) (beep.Streamer, error) {
	streams := make([]beep.Streamer, 0, len(tones))
	for _, t := range tones {
		s, err := generators.SineTone(rate, t.Hz)
		if err != nil {
			return nil, fmt.Errorf("tone %.0fHz: %w", t.Hz, err)
		}
		streams = append(streams, &effects.Gain{Streamer: s, Gain: t.Amplitude - 1})
	}
	return beep.Mix(streams...), nil
}

// Synthetic is an endless test signal: one sine per band, each swelling
// and fading at its own rate so the visualizer always has motion.
func Synthetic(rate beep.SampleRate) (beep.Streamer, error) {
	streams := make([]beep.Streamer, 0, len(BandHz))
	for i, hz := range BandHz {
		s, err := generators.SineTone(rate, hz)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}
		streams = append(streams, &swell{
			Streamer: s,
			rate:     float64(rate),
			hz:       0.3 + 0.17*float64(i),
			peak:     0.9,
		})
	}
	return beep.Mix(streams...), nil
}

// swell multiplies its input by a slow raised-cosine envelope.
type swell struct {
	beep.Streamer
	rate  float64
	hz    float64
	peak  float64
	phase float64
}

func (s *swell) Stream(samples [][2]float64) (int, bool) {
	n, ok := s.Streamer.Stream(samples)
	step := 2 * math.Pi * s.hz / s.rate
	for i := range samples[:n] {
		g := s.peak * (0.5 - 0.5*math.Cos(s.phase))
		samples[i][0] *= g
		samples[i][1] *= g
		s.phase += step
	}
	s.phase = math.Mod(s.phase, 2*math.Pi)
	return n, ok
}

// OpenWAV decodes the file at path, loops it forever and resamples it to
// rate. Closing the returned closer releases the file.
func OpenWAV(path string, rate beep.SampleRate) (beep.Streamer, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open audio: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}
	var out beep.Streamer = beep.Loop(-1, s)
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, out)
	}
	return out, s, nil
}
