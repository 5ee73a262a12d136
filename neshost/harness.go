// Package neshost drives an NES emulation core from a host event loop.
//
// The Harness turns asynchronous host input into per-frame controller state,
// pumps the core once per display refresh while timing each frame, and presents
// the core's pixels on the host's surface.
package neshost

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/config"
	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/diagnostics"
	"github.com/valerio/go-neshost/neshost/input"
	"github.com/valerio/go-neshost/neshost/input/action"
	"github.com/valerio/go-neshost/neshost/lightgun"
	"github.com/valerio/go-neshost/neshost/video"
)

var (
	// ErrSurfaceUnavailable is returned by Start when the host has no surface.
	ErrSurfaceUnavailable = errors.New("surface unavailable")
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted     = errors.New("harness already started")
)

// Harness owns the frame loop around a core.
type Harness struct {
	core   core.Core
	host   backend.Host
	config config.Config

	state    *State
	mapper   *input.Mapper
	gun      *lightgun.Sampler
	video    *video.Manager
	reporter *diagnostics.Reporter

	started     bool
	unsubscribe func()
	// inputErr is the first error raised by an input handler since the last frame
	inputErr error

	onQuit      func()
	snapshotDir string
}

// Option configures a Harness.
type Option func(*Harness)

// WithQuit sets the function called when the quit hotkey is pressed.
func WithQuit(fn func()) Option {
	return func(h *Harness) { h.onQuit = fn }
}

// WithSnapshotDir sets where the snapshot hotkey writes PNG files.
func WithSnapshotDir(dir string) Option {
	return func(h *Harness) { h.snapshotDir = dir }
}

// WithPublishers adds diagnostics consumers.
func WithPublishers(publishers ...diagnostics.Publisher) Option {
	return func(h *Harness) {
		for _, p := range publishers {
			h.reporter.AddPublisher(p)
		}
	}
}

// New creates a harness for c running on host. The configuration is validated here.
func New(c core.Core, host backend.Host, cfg config.Config, opts ...Option) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	keys, err := input.KeyMap(cfg.Keys)
	if err != nil {
		return nil, err
	}
	reporter, err := diagnostics.NewReporter(host, cfg.Diagnostics.Interval, cfg.Diagnostics.Cadence)
	if err != nil {
		return nil, err
	}

	mode := video.Normal
	if cfg.Upscaled {
		mode = video.Upscaled
	}

	h := &Harness{
		core:     c,
		host:     host,
		config:   cfg,
		state:    NewState(mode),
		mapper:   input.NewMapper(c, keys),
		reporter: reporter,
	}
	if cfg.Features.LightGun {
		h.gun = lightgun.NewSampler(c, host, core.Slot(cfg.LightGun.Slot),
			lightgun.WithDwell(cfg.LightGun.Dwell),
			lightgun.WithThreshold(cfg.LightGun.Threshold))
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// State exposes the harness state. It must only be used from the host's goroutine.
func (h *Harness) State() *State {
	return h.state
}

// Summary returns the latest diagnostics summary.
func (h *Harness) Summary() diagnostics.Summary {
	return h.reporter.Summary()
}

// LoadROM hands a cartridge image to the core and resets it. The harness keeps no copy.
func (h *Harness) LoadROM(rom []byte) error {
	if err := h.core.LoadCartridge(rom); err != nil {
		return fmt.Errorf("load cartridge: %w", err)
	}
	if err := h.core.Reset(); err != nil {
		return fmt.Errorf("reset after load: %w", err)
	}
	slog.Info("ROM loaded", "bytes", len(rom))
	return nil
}

// Start binds the harness to a surface: it prepares the core's devices, subscribes
// to host input, starts diagnostics and schedules the first frame.
func (h *Harness) Start(surface video.Surface) error {
	if !video.Available(surface) {
		return ErrSurfaceUnavailable
	}
	if h.started {
		return ErrAlreadyStarted
	}

	width, height := h.state.Mode.Size()
	surface.Resize(width, height)
	if err := h.core.SetupSurface(width, height); err != nil {
		return fmt.Errorf("setup surface: %w", err)
	}

	for _, slot := range h.config.Controllers {
		if err := h.core.AttachController(core.Slot(slot)); err != nil {
			return fmt.Errorf("attach controller %d: %w", slot, err)
		}
	}
	if h.gun != nil {
		if err := h.core.AttachLightGun(h.gun.Slot()); err != nil {
			return fmt.Errorf("attach light gun %d: %w", h.gun.Slot(), err)
		}
	}

	for slot := core.Slot0; slot < core.SlotCount; slot++ {
		kind, err := h.core.InputDeviceKind(slot)
		if err != nil {
			return fmt.Errorf("input device %d: %w", slot, err)
		}
		slog.Info("Input device", "slot", slot, "kind", kind)
	}

	h.video = video.NewManager(h.core, surface)
	h.unsubscribe = h.host.Subscribe(h.handlers())
	h.reporter.Start()
	h.host.RequestAnimationFrame(h.frame)
	h.started = true

	slog.Info("Harness started", "mode", h.state.Mode, "light_gun", h.gun != nil)
	return nil
}

func (h *Harness) handlers() backend.Handlers {
	handlers := backend.Handlers{
		KeyDown:     h.keyDown,
		KeyUp:       h.keyUp,
		ContextMenu: lightgun.SuppressContextMenu,
	}
	if h.gun != nil {
		handlers.PointerMove = func(evt backend.PointerEvent) { h.gun.PointerMove(&h.state.LightGun, evt) }
		handlers.PointerDown = func(evt backend.PointerEvent) { h.gun.PointerDown(&h.state.LightGun, evt) }
	}
	return handlers
}

func (h *Harness) fail(err error) {
	if h.inputErr == nil {
		h.inputErr = err
	}
}

func (h *Harness) keyDown(evt backend.KeyEvent) {
	act, hotkey, err := h.mapper.KeyDown(&h.state.Input, evt)
	if err != nil {
		h.fail(err)
		return
	}
	if !hotkey {
		return
	}

	switch act {
	case action.HarnessUpscaleToggle:
		if !h.config.Features.Upscale {
			return
		}
		h.state.Mode = h.state.Mode.Toggle()
		slog.Info("Display mode changed", "mode", h.state.Mode)
	case action.HarnessSnapshot:
		h.snapshot()
	case action.HarnessQuit:
		slog.Info("Quit requested")
		if h.onQuit != nil {
			h.onQuit()
		}
	}
}

func (h *Harness) keyUp(evt backend.KeyEvent) {
	h.mapper.KeyUp(&h.state.Input, h.state.FrameIndex, evt)
}

func (h *Harness) snapshot() {
	fb, ok := h.video.Surface().(*video.FrameBuffer)
	if !ok {
		slog.Warn("Snapshots are not supported by this surface")
		return
	}
	if _, err := video.SaveSnapshot(fb, "neshost_snapshot", h.snapshotDir); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// frame runs one cycle. Releases queued since the last cycle are applied first,
// so a key tapped between two frames is seen by exactly the next one.
func (h *Harness) frame(time.Time) error {
	if err := h.cycle(); err != nil {
		h.reporter.Stop()
		h.unsubscribe()
		slog.Error("Frame cycle failed", "frame", h.state.FrameIndex, "error", err)
		return fmt.Errorf("frame %d: %w", h.state.FrameIndex, err)
	}
	h.host.RequestAnimationFrame(h.frame)
	return nil
}

func (h *Harness) cycle() error {
	st := h.state

	if err := h.inputErr; err != nil {
		h.inputErr = nil
		return err
	}
	if err := h.mapper.DrainReleases(&st.Input, st.FrameIndex); err != nil {
		return err
	}
	if h.gun != nil {
		if err := h.gun.Sample(&st.LightGun); err != nil {
			return err
		}
	}

	t0 := h.host.Now()
	if err := h.core.SimulateFrame(); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	if err := h.video.Present(st.Mode); err != nil {
		return err
	}
	render := h.host.Now().Sub(t0)

	st.FrameTimes.Record(st.FrameIndex, render)
	st.FrameIndex++
	h.reporter.FrameCompleted(render, st.FrameTimes)
	return nil
}
