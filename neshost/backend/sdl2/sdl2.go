//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/timing"
	"github.com/valerio/go-neshost/neshost/video"
)

const (
	windowWidth  = display.DefaultWindowWidth
	windowHeight = display.DefaultWindowHeight
	border       = display.DefaultBorder
)

// frameRect is where the frame is drawn, whatever the surface resolution
var frameRect = sdl.Rect{
	X: border,
	Y: border,
	W: display.Width * display.DefaultPixelScale,
	H: display.Height * display.DefaultPixelScale,
}

// Backend implements the Backend interface using SDL2 bindings
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stubbed renderer, see build tags (sdl2)
type Backend struct {
	*backend.Loop

	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int32
	texH     int32
	config   backend.BackendConfig
	surface  *video.FrameBuffer
	limiter  timing.Limiter

	quit atomic.Bool
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.StatusDisplay = (*Backend)(nil)
)

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{
		Loop:    backend.NewRealtimeLoop(),
		surface: video.NewFrameBuffer(display.Width, display.Height),
	}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		windowWidth,
		windowHeight,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if config.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
		s.limiter = timing.NewNoOpLimiter()
	} else {
		s.limiter = timing.NewAdaptiveLimiter()
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	slog.Info("SDL2 backend initialized", "vsync", config.VSync)
	return nil
}

func (s *Backend) Surface() video.Surface {
	return s.surface
}

// ShowStatus puts text in the window title.
func (s *Backend) ShowStatus(text string) {
	if s.window != nil {
		s.window.SetTitle(s.config.Title + " - " + text)
	}
}

func (s *Backend) Quit() {
	s.quit.Store(true)
}

func (s *Backend) Run() error {
	defer func() {
		if s.config.Callbacks.OnQuit != nil {
			s.config.Callbacks.OnQuit()
		}
	}()

	s.limiter.Reset()
	for !s.quit.Load() {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			s.handleEvent(event)
		}
		if err := s.Tick(); err != nil {
			return err
		}
		if err := s.present(); err != nil {
			return err
		}
		s.limiter.WaitForNextFrame()
	}
	return nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		s.Quit()

	case *sdl.KeyboardEvent:
		code, ok := KeyCode(e.Keysym.Scancode)
		if !ok {
			return
		}
		switch e.Type {
		case sdl.KEYDOWN:
			s.DispatchKeyDown(backend.KeyEvent{Code: code, Repeat: e.Repeat != 0})
		case sdl.KEYUP:
			s.DispatchKeyUp(backend.KeyEvent{Code: code})
		}

	case *sdl.MouseMotionEvent:
		if pe, ok := pointer(e.X, e.Y); ok {
			s.DispatchPointerMove(pe)
		}

	case *sdl.MouseButtonEvent:
		if e.Type != sdl.MOUSEBUTTONDOWN {
			return
		}
		pe, ok := pointer(e.X, e.Y)
		if !ok {
			return
		}
		switch e.Button {
		case sdl.BUTTON_LEFT:
			pe.Button = 0
			s.DispatchPointerDown(pe)
		case sdl.BUTTON_RIGHT:
			s.DispatchContextMenu()
		}
	}
}

// pointer maps window coordinates to a position over the drawn frame.
func pointer(x, y int32) (backend.PointerEvent, bool) {
	p := sdl.Point{X: x, Y: y}
	if !p.InRect(&frameRect) {
		return backend.PointerEvent{}, false
	}
	return backend.PointerEvent{
		OffsetX: float64(x - frameRect.X),
		OffsetY: float64(y - frameRect.Y),
		Width:   float64(frameRect.W),
		Height:  float64(frameRect.H),
	}, true
}

// present uploads the surface to a streaming texture, recreated whenever the
// surface changes resolution, and draws it over the background colour.
func (s *Backend) present() error {
	w, h := s.surface.Size()
	if s.texture == nil || s.texW != int32(w) || s.texH != int32(h) {
		if s.texture != nil {
			s.texture.Destroy()
		}
		// ABGR8888 is R,G,B,A in memory on little-endian machines
		texture, err := s.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
		if err != nil {
			return fmt.Errorf("failed to create texture: %w", err)
		}
		s.texture, s.texW, s.texH = texture, int32(w), int32(h)
	}

	pix := s.surface.Pixels()
	if err := s.texture.Update(nil, unsafe.Pointer(&pix[0]), w*display.RGBABytesPerPixel); err != nil {
		return fmt.Errorf("failed to update texture: %w", err)
	}

	bg := s.surface.Background()
	s.renderer.SetDrawColor(bg.R, bg.G, bg.B, display.FullAlpha)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, &frameRect)
	s.renderer.Present()
	return nil
}
