// Package config loads the harness configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/diagnostics"
	"github.com/valerio/go-neshost/neshost/input"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete harness configuration.
type Config struct {
	// Keys overrides the default key table: key code to action name, "" unbinds.
	Keys map[string]string `yaml:"keys"`
	// Controllers lists the ports a joypad is attached to.
	Controllers []int `yaml:"controllers"`
	// Upscaled starts presentation in the 512x480 mode.
	Upscaled bool `yaml:"upscaled"`

	Features    Features          `yaml:"features"`
	LightGun    LightGunConfig    `yaml:"light_gun"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
}

// Features switches optional harness behaviour on and off.
type Features struct {
	// LightGun attaches a light gun driven by the pointer.
	LightGun bool `yaml:"light_gun"`
	// Upscale enables the upscale toggle hotkey.
	Upscale bool `yaml:"upscale"`
}

type LightGunConfig struct {
	Slot      int           `yaml:"slot"`
	Dwell     time.Duration `yaml:"dwell"`
	Threshold float64       `yaml:"threshold"`
}

type DiagnosticsConfig struct {
	// Interval between frame-rate measurements.
	Interval time.Duration `yaml:"interval"`
	// Cadence is the number of frames between statistics refreshes.
	Cadence int `yaml:"cadence"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Controllers: []int{0},
		Features: Features{
			LightGun: false,
			Upscale:  true,
		},
		LightGun: LightGunConfig{
			Slot:      1,
			Dwell:     100 * time.Millisecond,
			Threshold: 0.9,
		},
		Diagnostics: DiagnosticsConfig{
			Interval: diagnostics.DefaultInterval,
			Cadence:  diagnostics.DefaultCadence,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field is usable.
func (c Config) Validate() error {
	seen := make(map[int]bool)
	for _, slot := range c.Controllers {
		if slot < 0 || !core.Slot(slot).Valid() {
			return fmt.Errorf("%w: controller slot %d", ErrInvalid, slot)
		}
		if seen[slot] {
			return fmt.Errorf("%w: controller slot %d listed twice", ErrInvalid, slot)
		}
		seen[slot] = true
	}

	if c.Features.LightGun {
		if c.LightGun.Slot < 0 || !core.Slot(c.LightGun.Slot).Valid() {
			return fmt.Errorf("%w: light gun slot %d", ErrInvalid, c.LightGun.Slot)
		}
		if seen[c.LightGun.Slot] {
			return fmt.Errorf("%w: light gun slot %d already has a controller", ErrInvalid, c.LightGun.Slot)
		}
		if c.LightGun.Dwell <= 0 {
			return fmt.Errorf("%w: light gun dwell %s", ErrInvalid, c.LightGun.Dwell)
		}
		if c.LightGun.Threshold <= 0 || c.LightGun.Threshold > 1 {
			return fmt.Errorf("%w: light gun threshold %v not within (0, 1]", ErrInvalid, c.LightGun.Threshold)
		}
	}

	if err := diagnostics.ValidateInterval(c.Diagnostics.Interval); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Diagnostics.Cadence <= 0 {
		return fmt.Errorf("%w: diagnostics cadence %d", ErrInvalid, c.Diagnostics.Cadence)
	}

	if _, err := input.KeyMap(c.Keys); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}
