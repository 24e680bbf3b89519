package audio

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nifri2/animatronic-face/internal/scheduler/schedtest"
)

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) High() { *r.log = append(*r.log, r.name+"+") }
func (r recorder) Low()  { *r.log = append(*r.log, r.name+"-") }

type rampADC struct {
	next uint16
	log  *[]string
}

func (a *rampADC) Get() uint16 {
	*a.log = append(*a.log, "read")
	a.next += 1000
	return a.next
}

func TestMSGEQ7Handshake(t *testing.T) {
	var log []string
	clk := schedtest.NewClock()
	eq := &MSGEQ7{
		Strobe: recorder{name: "strobe", log: &log},
		Reset:  recorder{name: "reset", log: &log},
		Out:    &rampADC{log: &log},
		Clock:  clk,
	}

	lv, err := eq.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Levels{1000, 2000, 3000, 4000, 5000, 6000, 7000}, lv)

	want := []string{"reset-", "strobe-", "reset+", "reset-", "strobe+"}
	for range 7 {
		want = append(want, "strobe-", "read", "strobe+")
	}
	assert.Equal(t, want, log)

	sleeps := clk.Sleeps()
	require.Len(t, sleeps, 3+14)
	assert.Equal(t, []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}, sleeps[:3])
	for _, d := range sleeps[3:] {
		assert.Equal(t, 100*time.Microsecond, d)
	}
}

func TestMSGEQ7StopsOnCancel(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	eq := &MSGEQ7{
		Strobe: recorder{name: "strobe", log: &log},
		Reset:  recorder{name: "reset", log: &log},
		Out:    &rampADC{log: &log},
		Clock:  schedtest.NewClock(),
	}
	_, err := eq.Read(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotContains(t, log, "read")
}

func TestAnalyzerFindsToneBand(t *testing.T) {
	src, err := Tones(SampleRate, Tone{Hz: 1000, Amplitude: 0.8})
	require.NoError(t, err)
	a := NewAnalyzer(src, SampleRate, 100*time.Millisecond)

	lv, err := a.Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.8*65535, float64(lv[3]), 500)
	for i, v := range lv {
		if i != 3 {
			assert.Less(t, v, uint16(2000), "band %d leaks", i)
		}
	}
}

func TestAnalyzerSeparatesTwoTones(t *testing.T) {
	src, err := Tones(SampleRate, Tone{Hz: 160, Amplitude: 0.5}, Tone{Hz: 6250, Amplitude: 0.25})
	require.NoError(t, err)
	lv, err := NewAnalyzer(src, SampleRate, 100*time.Millisecond).Read(context.Background())
	require.NoError(t, err)

	assert.InDelta(t, 0.5*65535, float64(lv[1]), 500)
	assert.InDelta(t, 0.25*65535, float64(lv[5]), 500)
	assert.Less(t, lv[3], uint16(2000))
}

func TestAnalyzerEndOfStream(t *testing.T) {
	a := NewAnalyzer(beep.Take(1000, beep.Silence(-1)), SampleRate, 100*time.Millisecond)

	lv, err := a.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Levels{}, lv)

	_, err = a.Read(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestSyntheticMoves(t *testing.T) {
	src, err := Synthetic(SampleRate)
	require.NoError(t, err)
	a := NewAnalyzer(src, SampleRate, 50*time.Millisecond)

	seen := map[Levels]bool{}
	for range 20 {
		lv, err := a.Read(context.Background())
		require.NoError(t, err)
		seen[lv] = true
	}
	assert.Greater(t, len(seen), 10)
}

func TestSourceFunc(t *testing.T) {
	var s Source = SourceFunc(func(context.Context) (Levels, error) { return Levels{1}, nil })
	lv, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint16(1), lv[0])
}
