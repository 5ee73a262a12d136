package headless

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/timing"
	"github.com/valerio/go-neshost/neshost/video"
)

// Epoch is where the headless virtual clock starts.
var Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Backend runs frames on a virtual clock, for automated testing and batch processing.
// Time only moves when a refresh is due or when callers advance it, so runs are
// deterministic regardless of how fast the machine is.
type Backend struct {
	*backend.Loop

	config         backend.BackendConfig
	surface        *video.FrameBuffer
	frameCount     int
	maxFrames      int
	frameInterval  time.Duration
	snapshotConfig SnapshotConfig
	quit           bool
}

// SnapshotConfig holds configuration for frame snapshots
type SnapshotConfig struct {
	Enabled   bool
	Interval  int    // Save snapshot every N frames
	Directory string // Directory to save snapshots
	ROMName   string // ROM name for snapshot filenames
}

var _ backend.Backend = (*Backend)(nil)

// New creates a backend that stops after maxFrames refreshes. Zero or less runs
// until Quit is called or no frame callback is left.
func New(maxFrames int, snapshotConfig SnapshotConfig) *Backend {
	return &Backend{
		Loop:           backend.NewLoop(Epoch, nil),
		surface:        video.NewFrameBuffer(display.Width, display.Height),
		maxFrames:      maxFrames,
		frameInterval:  timing.FrameDuration(),
		snapshotConfig: snapshotConfig,
	}
}

// SetFrameInterval changes the virtual time between refreshes.
func (h *Backend) SetFrameInterval(d time.Duration) {
	h.frameInterval = d
}

func (h *Backend) Init(config backend.BackendConfig) error {
	h.config = config

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.LogLevel,
	})
	slog.SetDefault(slog.New(handler))

	slog.Info("Running headless mode",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshotConfig.Interval,
		"snapshot_dir", h.snapshotConfig.Directory)

	return nil
}

func (h *Backend) Surface() video.Surface {
	return h.surface
}

// FrameBuffer returns the surface with its concrete type.
func (h *Backend) FrameBuffer() *video.FrameBuffer {
	return h.surface
}

// Frames returns the number of refreshes run so far.
func (h *Backend) Frames() int {
	return h.frameCount
}

func (h *Backend) Quit() {
	h.quit = true
}

// Step advances the virtual clock to the next refresh and runs the pending frame
// callbacks. If the previous refresh overran its slot, the next one starts at once.
func (h *Backend) Step() error {
	next := Epoch.Add(time.Duration(h.frameCount+1) * h.frameInterval)
	if next.After(h.Now()) {
		h.AdvanceTo(next)
	}
	if err := h.RunFrames(); err != nil {
		return err
	}
	h.frameCount++

	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval == 0 {
		h.saveSnapshot()
	}

	if h.frameCount%60 == 0 {
		slog.Debug("Frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}
	return nil
}

// Run steps until the frame budget is spent, Quit is called, or a frame fails.
func (h *Backend) Run() error {
	for !h.quit && (h.maxFrames <= 0 || h.frameCount < h.maxFrames) {
		if !h.HasFrames() {
			slog.Warn("No frame callback registered, stopping", "frames", h.frameCount)
			break
		}
		if err := h.Step(); err != nil {
			return fmt.Errorf("headless frame %d: %w", h.frameCount, err)
		}
	}

	// Save final snapshot if enabled and we haven't just saved one
	if h.snapshotConfig.Enabled && h.frameCount%h.snapshotConfig.Interval != 0 {
		h.saveSnapshot()
	}

	if h.snapshotConfig.Enabled {
		slog.Info("Headless execution completed", "frames", h.frameCount, "png_snapshots_saved_to", h.snapshotConfig.Directory)
	} else {
		slog.Info("Headless execution completed", "frames", h.frameCount)
	}

	if h.config.Callbacks.OnQuit != nil {
		h.config.Callbacks.OnQuit()
	}
	return nil
}

func (h *Backend) Cleanup() error {
	return nil
}

// Press delivers a key-down for a browser-style key code.
func (h *Backend) Press(code string) {
	h.DispatchKeyDown(backend.KeyEvent{Code: code})
}

// Release delivers a key-up for a browser-style key code.
func (h *Backend) Release(code string) {
	h.DispatchKeyUp(backend.KeyEvent{Code: code})
}

// PointAt moves the pointer to a pixel of the current surface.
func (h *Backend) PointAt(x, y int) {
	h.DispatchPointerMove(h.pointer(x, y))
}

// Click presses the primary button at a pixel of the current surface.
func (h *Backend) Click(x, y int) {
	h.PointAt(x, y)
	h.DispatchPointerDown(h.pointer(x, y))
}

func (h *Backend) pointer(x, y int) backend.PointerEvent {
	w, ht := h.surface.Size()
	return backend.PointerEvent{
		OffsetX: float64(x),
		OffsetY: float64(y),
		Width:   float64(w),
		Height:  float64(ht),
	}
}

// CreateSnapshotConfig creates a snapshot configuration from CLI parameters
func CreateSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	config := SnapshotConfig{
		Enabled:  interval > 0,
		Interval: interval,
	}

	if !config.Enabled {
		return config, nil
	}

	// Set up snapshot directory
	if directory == "" {
		tempDir, err := os.MkdirTemp("", "neshost-snapshots-*")
		if err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0755); err != nil {
			return config, fmt.Errorf("failed to create snapshot directory: %w", err)
		}
		config.Directory = directory
	}

	config.ROMName = filepath.Base(romPath)
	config.ROMName = strings.TrimSuffix(config.ROMName, filepath.Ext(config.ROMName))
	if config.ROMName == "" || config.ROMName == "." {
		config.ROMName = "neshost"
	}

	return config, nil
}

func (h *Backend) saveSnapshot() {
	baseName := fmt.Sprintf("%s_frame_%d", h.snapshotConfig.ROMName, h.frameCount)

	if _, err := video.SaveSnapshot(h.surface, baseName, h.snapshotConfig.Directory); err != nil {
		slog.Error("Failed to save PNG snapshot", "frame", h.frameCount, "error", err)
	}
}
