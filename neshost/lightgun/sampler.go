// Package lightgun simulates a zapper light gun from pointer input.
//
// The pointer position is mapped into emulator pixel space, a press holds the
// trigger for a short dwell, and once per frame the brightness under the cursor
// decides whether the gun's photodiode sees light.
package lightgun

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/events"
)

const (
	// DefaultDwell is how long the trigger stays held after a press.
	DefaultDwell = 100 * time.Millisecond
	// DefaultThreshold is the brightness above which the sensor reports a hit.
	DefaultThreshold = 0.9
)

// State is the light gun's cursor and trigger, in native frame coordinates.
type State struct {
	X, Y        int
	TriggerHeld bool

	release events.Timer
}

// Timers schedules one-shot callbacks on the host's loop.
type Timers interface {
	AfterFunc(d time.Duration, fn func()) events.Timer
}

// Sampler feeds pointer input to the core's light gun.
type Sampler struct {
	gun       core.LightGun
	timers    Timers
	slot      core.Slot
	dwell     time.Duration
	threshold float64
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithDwell sets how long a press holds the trigger.
func WithDwell(d time.Duration) Option {
	return func(s *Sampler) { s.dwell = d }
}

// WithThreshold sets the brightness a hit has to exceed.
func WithThreshold(t float64) Option {
	return func(s *Sampler) { s.threshold = t }
}

func NewSampler(gun core.LightGun, timers Timers, slot core.Slot, opts ...Option) *Sampler {
	s := &Sampler{
		gun:       gun,
		timers:    timers,
		slot:      slot,
		dwell:     DefaultDwell,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Slot returns the port the gun is plugged into.
func (s *Sampler) Slot() core.Slot {
	return s.slot
}

// PointerMove maps the pointer to a frame pixel, independently of the scale the
// frame is displayed at. Events over a zero-sized surface are ignored.
func (s *Sampler) PointerMove(st *State, evt backend.PointerEvent) {
	if evt.Width <= 0 || evt.Height <= 0 {
		return
	}
	st.X = toPixel(evt.OffsetX, evt.Width, display.Width)
	st.Y = toPixel(evt.OffsetY, evt.Height, display.Height)
}

func toPixel(offset, extent float64, pixels int) int {
	p := int(math.Trunc(offset / extent * float64(pixels)))
	if p < 0 {
		return 0
	}
	if p >= pixels {
		return pixels - 1
	}
	return p
}

// PointerDown pulls the trigger. It stays held for the dwell time after the most
// recent press; a press while held restarts the dwell.
func (s *Sampler) PointerDown(st *State, evt backend.PointerEvent) {
	if st.release != nil {
		st.release.Stop()
	}
	st.TriggerHeld = true
	st.release = s.timers.AfterFunc(s.dwell, func() {
		st.TriggerHeld = false
		st.release = nil
	})
	slog.Debug("Light gun trigger", "x", st.X, "y", st.Y, "slot", s.slot)
}

// SuppressContextMenu keeps the host's context menu closed so right clicks stay on the surface.
func SuppressContextMenu(evt *backend.ContextMenuEvent) {
	evt.PreventDefault()
}

// Sample pushes the gun's state for the coming frame to the core.
func (s *Sampler) Sample(st *State) error {
	brightness, err := s.gun.BrightnessAt(st.X, st.Y)
	if err != nil {
		return fmt.Errorf("brightness at %d,%d: %w", st.X, st.Y, err)
	}
	hit := st.TriggerHeld && brightness > s.threshold
	if err := s.gun.LightGunInput(st.TriggerHeld, hit, s.slot); err != nil {
		return fmt.Errorf("light gun input: %w", err)
	}
	return nil
}
