//go:build js && wasm

// Package web hosts the harness in a browser page. Input comes from DOM events
// on the canvas and the document, and frames are driven by requestAnimationFrame.
package web

import (
	"errors"
	"log/slog"
	"sync/atomic"
	"syscall/js"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/video"
)

// ErrNoCanvas is returned when the page has no canvas with the configured id.
var ErrNoCanvas = errors.New("canvas element not found")

// preventedKeys scroll the page unless their default is prevented
var preventedKeys = map[string]bool{
	"Space":      true,
	"ArrowUp":    true,
	"ArrowDown":  true,
	"ArrowLeft":  true,
	"ArrowRight": true,
}

type Backend struct {
	*backend.Loop

	canvasID string
	config   backend.BackendConfig
	surface  *video.FrameBuffer
	canvas   js.Value
	ctx      js.Value
	status   js.Value
	pixels   js.Value
	funcs    []js.Func
	lastBG   string

	quit atomic.Bool
	done chan error
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.StatusDisplay = (*Backend)(nil)
)

// New creates a backend drawing into the canvas element with the given id.
func New(canvasID string) *Backend {
	return &Backend{
		Loop:     backend.NewRealtimeLoop(),
		canvasID: canvasID,
		surface:  video.NewFrameBuffer(display.Width, display.Height),
		done:     make(chan error, 1),
	}
}

func (w *Backend) Init(config backend.BackendConfig) error {
	w.config = config
	doc := js.Global().Get("document")

	w.canvas = doc.Call("getElementById", w.canvasID)
	if w.canvas.IsNull() || w.canvas.IsUndefined() {
		return ErrNoCanvas
	}
	w.ctx = w.canvas.Call("getContext", "2d")
	w.status = doc.Call("getElementById", w.canvasID+"-status")
	if config.Title != "" {
		doc.Set("title", config.Title)
	}

	w.surface.OnCommit = w.draw

	w.listen(doc, "keydown", func(e js.Value) {
		code := e.Get("code").String()
		if preventedKeys[code] {
			e.Call("preventDefault")
		}
		w.DispatchKeyDown(backend.KeyEvent{Code: code, Repeat: e.Get("repeat").Bool()})
	})
	w.listen(doc, "keyup", func(e js.Value) {
		w.DispatchKeyUp(backend.KeyEvent{Code: e.Get("code").String()})
	})
	w.listen(w.canvas, "mousemove", func(e js.Value) {
		w.DispatchPointerMove(w.pointer(e))
	})
	w.listen(w.canvas, "mousedown", func(e js.Value) {
		if e.Get("button").Int() == 0 {
			w.DispatchPointerDown(w.pointer(e))
		}
	})
	w.listen(w.canvas, "contextmenu", func(e js.Value) {
		if w.DispatchContextMenu() {
			e.Call("preventDefault")
		}
	})

	slog.Info("Web backend initialized", "canvas", w.canvasID)
	return nil
}

func (w *Backend) listen(target js.Value, event string, fn func(e js.Value)) {
	f := js.FuncOf(func(this js.Value, args []js.Value) any {
		fn(args[0])
		return nil
	})
	w.funcs = append(w.funcs, f)
	target.Call("addEventListener", event, f)
}

func (w *Backend) pointer(e js.Value) backend.PointerEvent {
	return backend.PointerEvent{
		OffsetX: e.Get("offsetX").Float(),
		OffsetY: e.Get("offsetY").Float(),
		Width:   w.canvas.Get("clientWidth").Float(),
		Height:  w.canvas.Get("clientHeight").Float(),
		Button:  e.Get("button").Int(),
	}
}

func (w *Backend) Surface() video.Surface {
	return w.surface
}

func (w *Backend) ShowStatus(text string) {
	if w.status.Truthy() {
		w.status.Set("textContent", text)
	}
}

func (w *Backend) Quit() {
	w.quit.Store(true)
}

// Run drives Tick from requestAnimationFrame and blocks until quit or a frame error.
func (w *Backend) Run() error {
	var frame js.Func
	frame = js.FuncOf(func(this js.Value, args []js.Value) any {
		if w.quit.Load() {
			w.done <- nil
			return nil
		}
		if err := w.Tick(); err != nil {
			w.done <- err
			return nil
		}
		js.Global().Call("requestAnimationFrame", frame)
		return nil
	})
	w.funcs = append(w.funcs, frame)
	js.Global().Call("requestAnimationFrame", frame)

	err := <-w.done
	if w.config.Callbacks.OnQuit != nil {
		w.config.Callbacks.OnQuit()
	}
	return err
}

// draw copies a committed surface onto the canvas, resizing it to match.
func (w *Backend) draw(fb *video.FrameBuffer) error {
	width, height := fb.Size()
	if w.canvas.Get("width").Int() != width || w.canvas.Get("height").Int() != height {
		w.canvas.Set("width", width)
		w.canvas.Set("height", height)
	}

	pix := fb.Pixels()
	if w.pixels.IsUndefined() || w.pixels.Length() != len(pix) {
		w.pixels = js.Global().Get("Uint8ClampedArray").New(len(pix))
	}
	js.CopyBytesToJS(w.pixels, pix)
	img := js.Global().Get("ImageData").New(w.pixels, width, height)
	w.ctx.Call("putImageData", img, 0, 0)

	if bg := video.FormatColor(fb.Background()); bg != w.lastBG {
		w.lastBG = bg
		js.Global().Get("document").Get("body").Get("style").Set("backgroundColor", bg)
	}
	return nil
}

func (w *Backend) Cleanup() error {
	for _, f := range w.funcs {
		f.Release()
	}
	w.funcs = nil
	return nil
}
