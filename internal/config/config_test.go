package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30, cfg.Eyes.BaseRadius)
	assert.Equal(t, 45, cfg.Eyes.TargetOffset)

	lo, hi := cfg.Eyes.RadiusRange()
	assert.Equal(t, 24, lo)
	assert.Equal(t, 42, hi)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
eyes:
  blink_delay: 200ms
  steps_max: 8
mouth:
  gain: 2
`))
	require.NoError(t, err)
	assert.Equal(t, 200*time.Millisecond, cfg.Eyes.BlinkDelay)
	assert.Equal(t, 8, cfg.Eyes.StepsMax)
	assert.Equal(t, 5, cfg.Eyes.StepsMin)
	assert.Equal(t, 2.0, cfg.Mouth.Gain)
	assert.Equal(t, 115200, cfg.Link.Baud)
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("eyes:\n  blnk_delay: 1s\n"))
	assert.Error(t, err)
}

func TestParseRejectsInvalidRanges(t *testing.T) {
	_, err := Parse([]byte("eyes:\n  steps_min: 12\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "steps_min")
}

func TestParseRejectsZeroIntervalsAndBadStartState(t *testing.T) {
	for _, tc := range []struct {
		yaml string
		key  string
	}{
		{"eyes:\n  refresh_interval: 0s\n", "eyes.refresh_interval"},
		{"eyes:\n  input_poll: 0s\n", "eyes.input_poll"},
		{"eyes:\n  blink_delay: 0s\n", "eyes.blink_delay"},
		{"eyes:\n  blink_threshold: 0s\n", "eyes.blink_threshold"},
		{"eyes:\n  start_color: 26\n", "eyes.start_color"},
		{"eyes:\n  start_mode: 108\n", "eyes.start_mode"},
		{"mouth:\n  start_color: 0\n", "mouth.start_color"},
		{"mouth:\n  start_mode: 100\n", "mouth.start_mode"},
	} {
		t.Run(tc.key, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.key)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.yaml")
	require.NoError(t, os.WriteFile(path, []byte("link:\n  tick_interval: 20ms\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Link.TickInterval)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
