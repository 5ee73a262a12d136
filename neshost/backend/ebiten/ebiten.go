//go:build ebiten

// Package ebiten hosts the harness in an Ebiten window (desktop or browser).
// Ebiten calls Update at a fixed tick rate; each tick feeds input, fires due
// timers and runs the frame callbacks, and Draw shows the last committed frame.
package ebiten

import (
	"errors"
	"log/slog"
	"math"
	"os"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/timing"
	"github.com/valerio/go-neshost/neshost/video"
)

const (
	windowWidth  = display.DefaultWindowWidth
	windowHeight = display.DefaultWindowHeight
	border       = display.DefaultBorder
	frameWidth   = display.Width * display.DefaultPixelScale
	frameHeight  = display.Height * display.DefaultPixelScale
)

// Backend implements backend.Backend and ebiten.Game.
type Backend struct {
	*backend.Loop

	config    backend.BackendConfig
	surface   *video.FrameBuffer
	offscreen *ebiten.Image
	drawOpts  ebiten.DrawImageOptions
	status    string

	keys     []ebiten.Key
	gamepads []ebiten.GamepadID

	quit atomic.Bool
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.StatusDisplay = (*Backend)(nil)
	_ ebiten.Game           = (*Backend)(nil)
)

func New() *Backend {
	return &Backend{
		Loop:    backend.NewRealtimeLoop(),
		surface: video.NewFrameBuffer(display.Width, display.Height),
	}
}

func (e *Backend) Init(config backend.BackendConfig) error {
	e.config = config

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.LogLevel})
	slog.SetDefault(slog.New(handler))

	ebiten.SetWindowTitle(config.Title)
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetVsyncEnabled(config.VSync)
	ebiten.SetTPS(int(math.Round(timing.TargetFPS())))

	slog.Info("Ebiten backend initialized", "vsync", config.VSync)
	return nil
}

func (e *Backend) Surface() video.Surface {
	return e.surface
}

func (e *Backend) ShowStatus(text string) {
	e.status = text
}

func (e *Backend) Quit() {
	e.quit.Store(true)
}

func (e *Backend) Run() error {
	defer func() {
		if e.config.Callbacks.OnQuit != nil {
			e.config.Callbacks.OnQuit()
		}
	}()

	err := ebiten.RunGame(e)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (e *Backend) Cleanup() error {
	if e.offscreen != nil {
		e.offscreen.Deallocate()
	}
	return nil
}

// Update implements ebiten.Game.
func (e *Backend) Update() error {
	if e.quit.Load() || ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}

	e.pollKeys()
	e.pollGamepads()
	e.pollMouse()

	return e.Tick()
}

func (e *Backend) pollKeys() {
	e.keys = inpututil.AppendJustPressedKeys(e.keys[:0])
	for _, k := range e.keys {
		if code, ok := KeyCode(k); ok {
			e.DispatchKeyDown(backend.KeyEvent{Code: code})
		}
	}
	e.keys = inpututil.AppendJustReleasedKeys(e.keys[:0])
	for _, k := range e.keys {
		if code, ok := KeyCode(k); ok {
			e.DispatchKeyUp(backend.KeyEvent{Code: code})
		}
	}
}

// pollGamepads forwards standard gamepad buttons as the keys they replace.
func (e *Backend) pollGamepads() {
	e.gamepads = ebiten.AppendGamepadIDs(e.gamepads[:0])
	for _, id := range e.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		for btn, code := range padKeyCodes {
			if inpututil.IsStandardGamepadButtonJustPressed(id, btn) {
				e.DispatchKeyDown(backend.KeyEvent{Code: code})
			}
			if inpututil.IsStandardGamepadButtonJustReleased(id, btn) {
				e.DispatchKeyUp(backend.KeyEvent{Code: code})
			}
		}
	}
}

func (e *Backend) pollMouse() {
	pe, ok := pointer(ebiten.CursorPosition())
	if !ok {
		return
	}
	e.DispatchPointerMove(pe)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		e.DispatchPointerDown(pe)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		e.DispatchContextMenu()
	}
}

// pointer maps layout coordinates to a position over the drawn frame.
func pointer(x, y int) (backend.PointerEvent, bool) {
	if x < border || x >= border+frameWidth || y < border || y >= border+frameHeight {
		return backend.PointerEvent{}, false
	}
	return backend.PointerEvent{
		OffsetX: float64(x - border),
		OffsetY: float64(y - border),
		Width:   frameWidth,
		Height:  frameHeight,
	}, true
}

// Draw implements ebiten.Game.
func (e *Backend) Draw(screen *ebiten.Image) {
	screen.Fill(e.surface.Background())

	w, h := e.surface.Size()
	if e.offscreen == nil || e.offscreen.Bounds().Dx() != w || e.offscreen.Bounds().Dy() != h {
		if e.offscreen != nil {
			e.offscreen.Deallocate()
		}
		e.offscreen = ebiten.NewImage(w, h)
	}
	e.offscreen.WritePixels(e.surface.Pixels())

	e.drawOpts = ebiten.DrawImageOptions{}
	e.drawOpts.GeoM.Scale(float64(frameWidth)/float64(w), float64(frameHeight)/float64(h))
	e.drawOpts.GeoM.Translate(border, border)
	e.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(e.offscreen, &e.drawOpts)

	if e.status != "" {
		ebitenutil.DebugPrint(screen, e.status)
	}
}

// Layout implements ebiten.Game.
func (e *Backend) Layout(outsideWidth, outsideHeight int) (int, int) {
	return windowWidth, windowHeight
}
