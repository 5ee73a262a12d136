//go:build js && wasm

// Command neshost-web runs the harness in a browser. The page provides a canvas
// with id "screen", optionally an element "screen-status", and optionally a
// global nesCore object; without one the built-in test pattern core is used.
// ROM images are handed over with neshostLoadROM(uint8Array), which returns an
// error message or null.
package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/valerio/go-neshost/neshost"
	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/backend/web"
	"github.com/valerio/go-neshost/neshost/config"
	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/core/jscore"
	"github.com/valerio/go-neshost/neshost/core/testpattern"
	"github.com/valerio/go-neshost/neshost/diagnostics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running neshost", "error", err)
		os.Exit(1)
	}
}

func newCore() (core.Core, error) {
	obj := js.Global().Get("nesCore")
	if obj.IsUndefined() || obj.IsNull() {
		slog.Info("No nesCore object on the page, using the test pattern core")
		return testpattern.New(), nil
	}
	return jscore.New(obj)
}

func run() error {
	emu, err := newCore()
	if err != nil {
		return err
	}

	b := web.New("screen")
	err = b.Init(backend.BackendConfig{
		Title:    "neshost",
		VSync:    true,
		LogLevel: slog.LevelInfo,
	})
	if err != nil {
		return err
	}
	defer b.Cleanup()

	cfg := config.Default()
	cfg.Features.LightGun = true
	cfg.Controllers = []int{0}

	h, err := neshost.New(emu, b, cfg,
		neshost.WithQuit(b.Quit),
		neshost.WithPublishers(
			diagnostics.LogPublisher{Level: slog.LevelDebug},
			diagnostics.PublisherFunc(func(s diagnostics.Summary) { b.ShowStatus(s.String()) }),
		))
	if err != nil {
		return err
	}

	loadROM := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 {
			return "missing ROM data"
		}
		rom := make([]byte, args[0].Length())
		js.CopyBytesToGo(rom, args[0])
		if err := h.LoadROM(rom); err != nil {
			slog.Error("Failed to load ROM", "error", err)
			return err.Error()
		}
		return nil
	})
	defer loadROM.Release()
	js.Global().Set("neshostLoadROM", loadROM)

	if err := h.Start(b.Surface()); err != nil {
		return err
	}
	return b.Run()
}
