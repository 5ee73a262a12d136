// Package coretest provides a recording core for harness tests.
package coretest

import (
	"fmt"

	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/display"
)

// Call is one recorded invocation on the fake core.
type Call struct {
	Method string
	Args   []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Method, c.Args)
}

// Core records every call made to it. Behaviour is steered through its exported fields.
type Core struct {
	Calls []Call

	// Errors maps a method name to the error it should return.
	Errors map[string]error
	// Brightness is returned by BrightnessAt; nil means 0.
	Brightness func(x, y int) float64
	// Background is returned by BackgroundColor.
	Background string
	// Devices is returned by InputDeviceKind.
	Devices [core.SlotCount]core.DeviceKind
	// OnSimulate runs inside SimulateFrame, e.g. to advance a virtual clock.
	OnSimulate func(frame int)

	// Frames counts successful SimulateFrame calls.
	Frames int
	// Fill is the byte written to every pixel channel on export.
	Fill byte
}

var _ core.Core = (*Core)(nil)

func New() *Core {
	return &Core{
		Errors:     make(map[string]error),
		Background: "#000000",
		Devices:    [core.SlotCount]core.DeviceKind{core.Joypad, core.Disconnected},
	}
}

func (c *Core) record(method string, args ...any) error {
	c.Calls = append(c.Calls, Call{Method: method, Args: args})
	return c.Errors[method]
}

// CallsTo returns the recorded calls to one method, in order.
func (c *Core) CallsTo(method string) []Call {
	var out []Call
	for _, call := range c.Calls {
		if call.Method == method {
			out = append(out, call)
		}
	}
	return out
}

// Methods returns the sequence of method names called so far.
func (c *Core) Methods() []string {
	out := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		out[i] = call.Method
	}
	return out
}

// ClearCalls forgets recorded calls.
func (c *Core) ClearCalls() {
	c.Calls = nil
}

func (c *Core) SetupSurface(width, height int) error {
	return c.record("SetupSurface", width, height)
}

func (c *Core) AttachController(slot core.Slot) error {
	if err := c.record("AttachController", slot); err != nil {
		return err
	}
	c.Devices[slot] = core.Joypad
	return nil
}

func (c *Core) AttachLightGun(slot core.Slot) error {
	if err := c.record("AttachLightGun", slot); err != nil {
		return err
	}
	c.Devices[slot] = core.Zapper
	return nil
}

func (c *Core) LoadCartridge(rom []byte) error {
	return c.record("LoadCartridge", len(rom))
}

func (c *Core) Reset() error {
	return c.record("Reset")
}

func (c *Core) KeyDown(b core.Buttons, slot core.Slot) error {
	return c.record("KeyDown", b, slot)
}

func (c *Core) KeyUp(b core.Buttons, slot core.Slot) error {
	return c.record("KeyUp", b, slot)
}

func (c *Core) SimulateFrame() error {
	if err := c.record("SimulateFrame"); err != nil {
		return err
	}
	if c.OnSimulate != nil {
		c.OnSimulate(c.Frames)
	}
	c.Frames++
	return nil
}

func (c *Core) ExportPixels(dst []byte) error {
	return c.export("ExportPixels", dst, display.Width*display.Height*display.RGBABytesPerPixel)
}

func (c *Core) ExportPixelsUpscaled(dst []byte) error {
	return c.export("ExportPixelsUpscaled", dst, display.UpscaledWidth*display.UpscaledHeight*display.RGBABytesPerPixel)
}

func (c *Core) export(method string, dst []byte, size int) error {
	if err := c.record(method, len(dst)); err != nil {
		return err
	}
	if len(dst) < size {
		return core.ErrShortBuffer
	}
	for i := range dst[:size] {
		dst[i] = c.Fill
	}
	return nil
}

func (c *Core) BackgroundColor() (string, error) {
	if err := c.record("BackgroundColor"); err != nil {
		return "", err
	}
	return c.Background, nil
}

func (c *Core) BrightnessAt(x, y int) (float64, error) {
	if err := c.record("BrightnessAt", x, y); err != nil {
		return 0, err
	}
	if c.Brightness == nil {
		return 0, nil
	}
	return c.Brightness(x, y), nil
}

func (c *Core) LightGunInput(trigger, hit bool, slot core.Slot) error {
	return c.record("LightGunInput", trigger, hit, slot)
}

func (c *Core) InputDeviceKind(slot core.Slot) (core.DeviceKind, error) {
	if err := c.record("InputDeviceKind", slot); err != nil {
		return core.Disconnected, err
	}
	if !slot.Valid() {
		return core.Disconnected, core.ErrInvalidSlot
	}
	return c.Devices[slot], nil
}
