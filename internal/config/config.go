// Package config holds every tunable of both nodes. Firmware builds use
// Default(); the simulator may overlay a YAML file on top of it.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"nifri2/animatronic-face/internal/face"
	"nifri2/animatronic-face/internal/palette"
)

type Tunables struct {
	Display Display `mapstructure:"display"`
	Eyes    Eyes    `mapstructure:"eyes"`
	Link    Link    `mapstructure:"link"`
	Mouth   Mouth   `mapstructure:"mouth"`
	LEDs    LEDs    `mapstructure:"leds"`
}

type Display struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type Eyes struct {
	ScleraRadius int     `mapstructure:"sclera_radius"`
	BaseRadius   int     `mapstructure:"base_radius"`
	TargetOffset int     `mapstructure:"target_offset"`
	ScaleMin     float64 `mapstructure:"scale_min"`
	ScaleMax     float64 `mapstructure:"scale_max"`
	OvalScaleMin float64 `mapstructure:"oval_scale_min"`
	OvalScaleMax float64 `mapstructure:"oval_scale_max"`
	SyncGaze     float64 `mapstructure:"sync_gaze"`

	StepsMin     int           `mapstructure:"steps_min"`
	StepsMax     int           `mapstructure:"steps_max"`
	StepDelayMin time.Duration `mapstructure:"step_delay_min"`
	StepDelayMax time.Duration `mapstructure:"step_delay_max"`
	InterMoveMin time.Duration `mapstructure:"inter_move_min"`
	InterMoveMax time.Duration `mapstructure:"inter_move_max"`

	BlinkThreshold time.Duration `mapstructure:"blink_threshold"`
	BlinkDelay     time.Duration `mapstructure:"blink_delay"`

	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RefreshSettle   time.Duration `mapstructure:"refresh_settle"`
	InputPoll       time.Duration `mapstructure:"input_poll"`

	StartColor int `mapstructure:"start_color"`
	StartMode  int `mapstructure:"start_mode"`
}

type Link struct {
	Baud         int           `mapstructure:"baud"`
	TickInterval time.Duration `mapstructure:"tick_interval"`
	MaxLine      int           `mapstructure:"max_line"`
}

type Mouth struct {
	Gain             float64       `mapstructure:"gain"`
	SilenceThreshold int           `mapstructure:"silence_threshold"`
	FullScale        int           `mapstructure:"full_scale"`
	SampleInterval   time.Duration `mapstructure:"sample_interval"`
	RingThickness    int           `mapstructure:"ring_thickness"`
	RingStep         int           `mapstructure:"ring_step"`
	ExpressionScale  int           `mapstructure:"expression_scale"`
	StartColor       int           `mapstructure:"start_color"`
	StartMode        int           `mapstructure:"start_mode"`
}

type LEDs struct {
	Channels int           `mapstructure:"channels"`
	FadeMin  time.Duration `mapstructure:"fade_min"`
	FadeMax  time.Duration `mapstructure:"fade_max"`
	StepsMin int           `mapstructure:"steps_min"`
	StepsMax int           `mapstructure:"steps_max"`
}

// RadiusRange is the smallest and largest iris radius any target may have.
func (e Eyes) RadiusRange() (int, int) {
	lo := int(float64(e.BaseRadius) * min(e.ScaleMin, e.OvalScaleMin))
	hi := int(float64(e.BaseRadius) * max(e.ScaleMax, e.OvalScaleMax))
	return max(1, lo), max(1, hi)
}

// Default returns the values the boards are built with.
func Default() Tunables {
	const eyeRadius = 60
	return Tunables{
		Display: Display{Width: 240, Height: 240},
		Eyes: Eyes{
			ScleraRadius: eyeRadius,
			BaseRadius:   eyeRadius / 2,
			TargetOffset: eyeRadius * 3 / 4,
			ScaleMin:     0.8,
			ScaleMax:     1.2,
			OvalScaleMin: 1.0,
			OvalScaleMax: 1.4,
			SyncGaze:     0.8,

			StepsMin:     5,
			StepsMax:     10,
			StepDelayMin: time.Millisecond,
			StepDelayMax: 10 * time.Millisecond,
			InterMoveMin: 250 * time.Millisecond,
			InterMoveMax: 5 * time.Second,

			BlinkThreshold: 3 * time.Second,
			BlinkDelay:     120 * time.Millisecond,

			RefreshInterval: 50 * time.Millisecond,
			RefreshSettle:   50 * time.Millisecond,
			InputPoll:       50 * time.Millisecond,

			StartColor: 1,
			StartMode:  101,
		},
		Link: Link{
			Baud:         115200,
			TickInterval: 50 * time.Millisecond,
			MaxLine:      64,
		},
		Mouth: Mouth{
			Gain:             1.3,
			SilenceThreshold: 5000,
			FullScale:        60000,
			SampleInterval:   50 * time.Millisecond,
			RingThickness:    5,
			RingStep:         10,
			ExpressionScale:  7,
			StartColor:       1,
			StartMode:        101,
		},
		LEDs: LEDs{
			Channels: 3,
			FadeMin:  250 * time.Millisecond,
			FadeMax:  10 * time.Second,
			StepsMin: 2,
			StepsMax: 200,
		},
	}
}

// Load overlays the YAML file at path on Default and validates the result.
func Load(path string) (Tunables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tunables{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse overlays YAML data on Default. Durations are written as "120ms",
// "5s" and so on; unknown keys are rejected.
func Parse(data []byte) (Tunables, error) {
	cfg := Default()

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Tunables{}, fmt.Errorf("parse config: %w", err)
	}
	if len(raw) == 0 {
		return cfg, cfg.Validate()
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &cfg,
	})
	if err != nil {
		return Tunables{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Tunables{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges that would otherwise break the random draws.
func (t Tunables) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	e := t.Eyes
	check(t.Display.Width > 0 && t.Display.Height > 0, "display size must be positive")
	check(e.BaseRadius > 0, "eyes.base_radius must be positive")
	check(e.TargetOffset >= 0, "eyes.target_offset must not be negative")
	check(e.ScaleMin <= e.ScaleMax, "eyes.scale_min %.2f > scale_max %.2f", e.ScaleMin, e.ScaleMax)
	check(e.OvalScaleMin <= e.OvalScaleMax, "eyes.oval_scale_min > oval_scale_max")
	check(e.SyncGaze >= 0 && e.SyncGaze <= 1, "eyes.sync_gaze must be within [0,1]")
	check(e.StepsMin >= 1 && e.StepsMin <= e.StepsMax, "eyes.steps_min/steps_max out of order")
	check(e.StepDelayMin <= e.StepDelayMax, "eyes.step_delay_min > step_delay_max")
	check(e.InterMoveMin <= e.InterMoveMax, "eyes.inter_move_min > inter_move_max")
	check(e.BlinkThreshold > 0, "eyes.blink_threshold must be positive")
	check(e.BlinkDelay > 0, "eyes.blink_delay must be positive")
	check(e.RefreshInterval > 0, "eyes.refresh_interval must be positive")
	check(e.RefreshSettle >= 0, "eyes.refresh_settle must not be negative")
	check(e.InputPoll > 0, "eyes.input_poll must be positive")
	check(palette.Valid(e.StartColor), "eyes.start_color %d outside 1..%d", e.StartColor, palette.MaxIndex)
	_, err := face.ParseMode(e.StartMode)
	check(err == nil, "eyes.start_mode: %v", err)
	check(t.Link.TickInterval > 0, "link.tick_interval must be positive")
	check(t.Link.MaxLine >= 8, "link.max_line must be at least 8")
	check(t.Mouth.FullScale > 0, "mouth.full_scale must be positive")
	check(t.Mouth.SampleInterval > 0, "mouth.sample_interval must be positive")
	check(palette.Valid(t.Mouth.StartColor), "mouth.start_color %d outside 1..%d", t.Mouth.StartColor, palette.MaxIndex)
	_, err = face.ParseMouthMode(t.Mouth.StartMode)
	check(err == nil, "mouth.start_mode: %v", err)
	check(t.Mouth.ExpressionScale >= 1, "mouth.expression_scale must be at least 1")
	check(t.LEDs.Channels >= 0, "leds.channels must not be negative")
	check(t.LEDs.FadeMin <= t.LEDs.FadeMax, "leds.fade_min > fade_max")
	check(t.LEDs.StepsMin >= 2 && t.LEDs.StepsMin <= t.LEDs.StepsMax, "leds.steps_min/steps_max out of order")
	return errors.Join(errs...)
}
