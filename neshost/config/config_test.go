package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-neshost/neshost/diagnostics"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neshost.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []int{0}, cfg.Controllers)
	assert.False(t, cfg.Features.LightGun)
	assert.True(t, cfg.Features.Upscale)
	assert.Equal(t, 100*time.Millisecond, cfg.LightGun.Dwell)
	assert.Equal(t, 0.9, cfg.LightGun.Threshold)
	assert.Equal(t, diagnostics.DefaultInterval, cfg.Diagnostics.Interval)
	assert.Equal(t, 15, cfg.Diagnostics.Cadence)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
keys:
  KeyA: a
  KeyZ: ""
controllers: [0]
upscaled: true
features:
  light_gun: true
light_gun:
  slot: 1
  dwell: 150ms
diagnostics:
  interval: 3s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"KeyA": "a", "KeyZ": ""}, cfg.Keys)
	assert.True(t, cfg.Upscaled)
	assert.True(t, cfg.Features.LightGun)
	assert.True(t, cfg.Features.Upscale, "unset fields keep their defaults")
	assert.Equal(t, 150*time.Millisecond, cfg.LightGun.Dwell)
	assert.Equal(t, 0.9, cfg.LightGun.Threshold)
	assert.Equal(t, 3*time.Second, cfg.Diagnostics.Interval)
	assert.Equal(t, 15, cfg.Diagnostics.Cadence)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "controllers: [0\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "diagnostics:\n  interval: 10s\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"controller slot out of range", func(c *Config) { c.Controllers = []int{2} }},
		{"negative controller slot", func(c *Config) { c.Controllers = []int{-1} }},
		{"duplicate controller", func(c *Config) { c.Controllers = []int{0, 0} }},
		{"light gun on controller port", func(c *Config) {
			c.Features.LightGun = true
			c.LightGun.Slot = 0
		}},
		{"light gun slot out of range", func(c *Config) {
			c.Features.LightGun = true
			c.LightGun.Slot = 3
		}},
		{"zero dwell", func(c *Config) {
			c.Features.LightGun = true
			c.LightGun.Dwell = 0
		}},
		{"threshold above one", func(c *Config) {
			c.Features.LightGun = true
			c.LightGun.Threshold = 1.5
		}},
		{"interval too short", func(c *Config) { c.Diagnostics.Interval = time.Second }},
		{"interval too long", func(c *Config) { c.Diagnostics.Interval = 6 * time.Second }},
		{"zero cadence", func(c *Config) { c.Diagnostics.Cadence = 0 }},
		{"unknown action", func(c *Config) { c.Keys = map[string]string{"KeyA": "jump"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidate_LightGunIgnoredWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.LightGun.Slot = 0
	cfg.LightGun.Threshold = 7
	assert.NoError(t, cfg.Validate())
}
