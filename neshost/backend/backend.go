package backend

import (
	"log/slog"
	"time"

	"github.com/valerio/go-neshost/neshost/events"
	"github.com/valerio/go-neshost/neshost/video"
)

// FrameFunc is called once per display refresh with the host's clock reading.
// A callback that returns an error is not called again, and the host's Run
// returns that error.
type FrameFunc func(now time.Time) error

// KeyEvent is a keyboard event carrying a browser-style key code, e.g. "KeyZ".
type KeyEvent struct {
	Code string
	// Repeat is set for auto-repeat presses of a key already held down.
	Repeat bool
}

// PointerEvent is a mouse event over the presented surface.
type PointerEvent struct {
	// OffsetX and OffsetY locate the pointer relative to the surface's top-left corner.
	OffsetX, OffsetY float64
	// Width and Height are the surface's displayed size in the same units.
	Width, Height float64
	Button        int
}

// ContextMenuEvent is raised by hosts that would otherwise open a context menu.
type ContextMenuEvent struct {
	prevented bool
}

// PreventDefault stops the host from showing its menu.
func (e *ContextMenuEvent) PreventDefault() {
	e.prevented = true
}

func (e *ContextMenuEvent) DefaultPrevented() bool {
	return e.prevented
}

// Handlers are the input callbacks a harness subscribes. Nil fields are skipped.
type Handlers struct {
	KeyDown     func(KeyEvent)
	KeyUp       func(KeyEvent)
	PointerMove func(PointerEvent)
	PointerDown func(PointerEvent)
	ContextMenu func(*ContextMenuEvent)
}

// Host is the event environment the harness runs in. Every callback it makes,
// input, timer or frame, is delivered on the same goroutine, one at a time.
type Host interface {
	// Subscribe registers input handlers and returns a function removing them.
	Subscribe(h Handlers) (unsubscribe func())
	// RequestAnimationFrame schedules fn for the next display refresh.
	RequestAnimationFrame(fn FrameFunc)
	AfterFunc(d time.Duration, fn func()) events.Timer
	Every(d time.Duration, fn func()) events.Timer
	Now() time.Time
}

// Backend represents a complete host platform (surface + input + event loop)
// Backends are responsible for:
// - Translating platform-specific input into Handlers calls
// - Presenting the committed surface to their specific output
// - Driving frame callbacks at the display rate until quit or error
type Backend interface {
	Host

	// Init configures the backend with the provided configuration.
	// This is a required step before calling Surface or Run.
	Init(config BackendConfig) error

	// Surface returns the surface frames are presented on.
	Surface() video.Surface

	// Run drives the event loop until the user quits, the frame budget runs out,
	// or a frame callback fails.
	Run() error

	// Quit asks Run to return once the current iteration finishes.
	Quit()

	// Cleanup resources when shutting down
	Cleanup() error
}

// StatusDisplay is implemented by backends that can show a one-line status.
type StatusDisplay interface {
	ShowStatus(text string)
}

// BackendConfig holds configuration for backends
type BackendConfig struct {
	Title     string
	Scale     int
	VSync     bool
	ShowDebug bool             // Backends may ignore unsupported features
	LogLevel  slog.Level       // Level for the log handler the backend installs
	Callbacks BackendCallbacks // Callbacks for backend communication
}

// BackendCallbacks allows backends to communicate with the harness
type BackendCallbacks struct {
	// OnQuit is called when the backend requests shutdown (e.g., window close)
	OnQuit func()
}
