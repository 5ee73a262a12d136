//go:build js && wasm

// Package jscore wraps an emulation core exposed to the page as a JavaScript
// object, such as a wasm-bindgen build of the core. Method names follow the
// binding's snake_case exports; failures surface as thrown JS errors.
package jscore

import (
	"errors"
	"fmt"
	"syscall/js"

	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/display"
)

// ErrNotACore is returned when the wrapped value is not an object.
var ErrNotACore = errors.New("value is not a core object")

// Core forwards every call to a JS object. It must only be used from the
// goroutine running the browser event loop.
type Core struct {
	obj      js.Value
	native   js.Value
	upscaled js.Value
}

var _ core.Core = (*Core)(nil)

func New(obj js.Value) (*Core, error) {
	if obj.Type() != js.TypeObject {
		return nil, ErrNotACore
	}
	return &Core{
		obj:      obj,
		native:   js.Global().Get("Uint8Array").New(display.Width * display.Height * display.RGBABytesPerPixel),
		upscaled: js.Global().Get("Uint8Array").New(display.UpscaledWidth * display.UpscaledHeight * display.RGBABytesPerPixel),
	}, nil
}

// call invokes a method and converts a thrown exception into an error.
func (c *Core) call(method string, args ...any) (res js.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if jsErr, ok := r.(js.Error); ok {
				err = fmt.Errorf("%s: %w", method, jsErr)
				return
			}
			panic(r)
		}
	}()
	return c.obj.Call(method, args...), nil
}

func (c *Core) callErr(method string, args ...any) error {
	_, err := c.call(method, args...)
	return err
}

func (c *Core) SetupSurface(width, height int) error {
	return c.callErr("setup_surface", width, height)
}

func (c *Core) AttachController(slot core.Slot) error {
	return c.callErr("attach_controller", int(slot))
}

func (c *Core) AttachLightGun(slot core.Slot) error {
	return c.callErr("attach_light_gun", int(slot))
}

func (c *Core) LoadCartridge(rom []byte) error {
	buf := js.Global().Get("Uint8Array").New(len(rom))
	js.CopyBytesToJS(buf, rom)
	return c.callErr("load_cartridge", buf)
}

func (c *Core) Reset() error {
	return c.callErr("reset")
}

func (c *Core) KeyDown(b core.Buttons, slot core.Slot) error {
	return c.callErr("key_down", int(b), int(slot))
}

func (c *Core) KeyUp(b core.Buttons, slot core.Slot) error {
	return c.callErr("key_up", int(b), int(slot))
}

func (c *Core) SimulateFrame() error {
	return c.callErr("simulate_frame")
}

func (c *Core) exportInto(method string, buf js.Value, dst []byte) error {
	if len(dst) < buf.Length() {
		return core.ErrShortBuffer
	}
	if err := c.callErr(method, buf); err != nil {
		return err
	}
	js.CopyBytesToGo(dst, buf)
	return nil
}

func (c *Core) ExportPixels(dst []byte) error {
	return c.exportInto("export_pixels", c.native, dst)
}

func (c *Core) ExportPixelsUpscaled(dst []byte) error {
	return c.exportInto("export_pixels_upscaled", c.upscaled, dst)
}

func (c *Core) BackgroundColor() (string, error) {
	v, err := c.call("get_background_color")
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

func (c *Core) BrightnessAt(x, y int) (float64, error) {
	v, err := c.call("get_pixel_brightness", x, y)
	if err != nil {
		return 0, err
	}
	return v.Float(), nil
}

func (c *Core) LightGunInput(trigger, hit bool, slot core.Slot) error {
	return c.callErr("light_gun_input", trigger, hit, int(slot))
}

func (c *Core) InputDeviceKind(slot core.Slot) (core.DeviceKind, error) {
	v, err := c.call("get_input_type", int(slot))
	if err != nil {
		return core.Disconnected, err
	}
	return core.DeviceKind(v.Int()), nil
}
