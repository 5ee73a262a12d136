// Package wasmcore runs an emulation core compiled to WebAssembly.
//
// The module must export a linear memory and the following functions. Every
// function returning a status uses 0 for success, 1 when no cartridge is
// inserted, 2 for an invalid slot and any other value for a core failure.
//
//	alloc(size i32) i32                       scratch buffer for cartridge data
//	setup_surface(width, height i32) i32
//	attach_controller(slot i32) i32
//	attach_light_gun(slot i32) i32
//	load_cartridge(ptr, len i32) i32
//	reset() i32
//	key_down(buttons, slot i32) i32
//	key_up(buttons, slot i32) i32
//	simulate_frame() i32
//	frame_ptr() i32                           256x240 RGBA of the last frame
//	frame_upscaled_ptr() i32                  512x480 RGBA of the last frame
//	background_color() i32                    0xRRGGBB
//	brightness_at(x, y i32) f64
//	light_gun_input(trigger, hit, slot i32) i32
//	input_device_kind(slot i32) i32           0 none, 1 joypad, 2 zapper
//
// WASI preview1 is provided so cores built with TinyGo or Rust's wasm32-wasi target load unchanged.
package wasmcore

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/video"
)

var (
	// ErrMissingExport is returned when the module lacks a function or memory the host calls
	ErrMissingExport = errors.New("wasm core is missing an export")
	// ErrCoreFailure wraps non-zero statuses with no more specific meaning
	ErrCoreFailure = errors.New("wasm core call failed")
	// ErrMemoryAccess is returned when a pointer returned by the core is out of bounds
	ErrMemoryAccess = errors.New("wasm core memory access out of range")
)

const (
	statusOK = iota
	statusNoCartridge
	statusInvalidSlot
)

var exports = []string{
	"alloc",
	"setup_surface",
	"attach_controller",
	"attach_light_gun",
	"load_cartridge",
	"reset",
	"key_down",
	"key_up",
	"simulate_frame",
	"frame_ptr",
	"frame_upscaled_ptr",
	"background_color",
	"brightness_at",
	"light_gun_input",
	"input_device_kind",
}

const (
	frameBytes         = display.Width * display.Height * display.RGBABytesPerPixel
	upscaledFrameBytes = display.UpscaledWidth * display.UpscaledHeight * display.RGBABytesPerPixel
)

// Core adapts a WebAssembly module to core.Core. It is not safe for concurrent use.
type Core struct {
	ctx     context.Context
	runtime wazero.Runtime
	module  api.Module
	fns     map[string]api.Function
}

var _ core.Core = (*Core)(nil)

// New compiles and instantiates wasm. ctx bounds every later call into the module.
func New(ctx context.Context, wasm []byte) (*Core, error) {
	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	mod, err := r.InstantiateWithConfig(ctx, wasm, wazero.NewModuleConfig().WithStartFunctions("_initialize"))
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("instantiating wasm core: %w", err)
	}

	c := &Core{
		ctx:     ctx,
		runtime: r,
		module:  mod,
		fns:     make(map[string]api.Function, len(exports)),
	}
	for _, name := range exports {
		fn := mod.ExportedFunction(name)
		if fn == nil {
			r.Close(ctx)
			return nil, fmt.Errorf("%w: %s", ErrMissingExport, name)
		}
		c.fns[name] = fn
	}
	if mod.Memory() == nil {
		r.Close(ctx)
		return nil, fmt.Errorf("%w: memory", ErrMissingExport)
	}

	slog.Debug("Loaded wasm core", "memory_bytes", mod.Memory().Size())
	return c, nil
}

// Close releases the module and its runtime.
func (c *Core) Close() error {
	return c.runtime.Close(c.ctx)
}

func (c *Core) call(name string, params ...uint64) (uint64, error) {
	res, err := c.fns[name].Call(c.ctx, params...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if len(res) == 0 {
		return 0, nil
	}
	return res[0], nil
}

// callStatus invokes a function that returns a status code and maps it to an error.
func (c *Core) callStatus(name string, params ...uint64) error {
	res, err := c.call(name, params...)
	if err != nil {
		return err
	}
	switch status := api.DecodeI32(res); status {
	case statusOK:
		return nil
	case statusNoCartridge:
		return fmt.Errorf("%s: %w", name, core.ErrNoCartridge)
	case statusInvalidSlot:
		return fmt.Errorf("%s: %w", name, core.ErrInvalidSlot)
	default:
		return fmt.Errorf("%s: %w (status %d)", name, ErrCoreFailure, status)
	}
}

func slotParam(slot core.Slot) uint64 {
	return api.EncodeU32(uint32(slot))
}

func boolParam(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func (c *Core) SetupSurface(width, height int) error {
	return c.callStatus("setup_surface", api.EncodeI32(int32(width)), api.EncodeI32(int32(height)))
}

func (c *Core) AttachController(slot core.Slot) error {
	return c.callStatus("attach_controller", slotParam(slot))
}

func (c *Core) AttachLightGun(slot core.Slot) error {
	return c.callStatus("attach_light_gun", slotParam(slot))
}

// LoadCartridge copies rom into a buffer allocated by the core and hands it over.
func (c *Core) LoadCartridge(rom []byte) error {
	res, err := c.call("alloc", api.EncodeU32(uint32(len(rom))))
	if err != nil {
		return err
	}
	ptr := api.DecodeU32(res)
	if !c.module.Memory().Write(ptr, rom) {
		return fmt.Errorf("load_cartridge: %w", ErrMemoryAccess)
	}
	return c.callStatus("load_cartridge", api.EncodeU32(ptr), api.EncodeU32(uint32(len(rom))))
}

func (c *Core) Reset() error {
	return c.callStatus("reset")
}

func (c *Core) KeyDown(b core.Buttons, slot core.Slot) error {
	return c.callStatus("key_down", api.EncodeU32(uint32(b)), slotParam(slot))
}

func (c *Core) KeyUp(b core.Buttons, slot core.Slot) error {
	return c.callStatus("key_up", api.EncodeU32(uint32(b)), slotParam(slot))
}

func (c *Core) SimulateFrame() error {
	return c.callStatus("simulate_frame")
}

func (c *Core) exportFrame(name string, dst []byte, size int) error {
	if len(dst) < size {
		return core.ErrShortBuffer
	}
	res, err := c.call(name)
	if err != nil {
		return err
	}
	pix, ok := c.module.Memory().Read(api.DecodeU32(res), uint32(size))
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrMemoryAccess)
	}
	copy(dst, pix)
	return nil
}

func (c *Core) ExportPixels(dst []byte) error {
	return c.exportFrame("frame_ptr", dst, frameBytes)
}

func (c *Core) ExportPixelsUpscaled(dst []byte) error {
	return c.exportFrame("frame_upscaled_ptr", dst, upscaledFrameBytes)
}

func (c *Core) BackgroundColor() (string, error) {
	res, err := c.call("background_color")
	if err != nil {
		return "", err
	}
	rgb := api.DecodeU32(res)
	return video.FormatColor(color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xFF}), nil
}

func (c *Core) BrightnessAt(x, y int) (float64, error) {
	res, err := c.call("brightness_at", api.EncodeI32(int32(x)), api.EncodeI32(int32(y)))
	if err != nil {
		return 0, err
	}
	return api.DecodeF64(res), nil
}

func (c *Core) LightGunInput(trigger, hit bool, slot core.Slot) error {
	return c.callStatus("light_gun_input", boolParam(trigger), boolParam(hit), slotParam(slot))
}

func (c *Core) InputDeviceKind(slot core.Slot) (core.DeviceKind, error) {
	if !slot.Valid() {
		return core.Disconnected, core.ErrInvalidSlot
	}
	res, err := c.call("input_device_kind", slotParam(slot))
	if err != nil {
		return core.Disconnected, err
	}
	return core.DeviceKind(api.DecodeI32(res)), nil
}
