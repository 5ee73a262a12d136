// Package core describes the call surface of the NES emulation core driven by the
// harness. The core itself (CPU, PPU, APU, mappers) lives outside this module; the
// harness only ever talks to it through the Core interface.
package core

import (
	"errors"
	"fmt"
)

// Slot identifies a controller or light gun port.
type Slot uint8

const (
	Slot0 Slot = iota
	Slot1
)

// SlotCount is the number of input ports on the console.
const SlotCount = 2

// Valid reports whether s names one of the console's ports.
func (s Slot) Valid() bool {
	return s < SlotCount
}

// Other returns the opposite port.
func (s Slot) Other() Slot {
	if s == Slot0 {
		return Slot1
	}
	return Slot0
}

// Buttons is a standard controller bitmask, in the order the console shifts them out.
type Buttons uint8

const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

var buttonNames = []struct {
	b    Buttons
	name string
}{
	{ButtonA, "A"},
	{ButtonB, "B"},
	{ButtonSelect, "Select"},
	{ButtonStart, "Start"},
	{ButtonUp, "Up"},
	{ButtonDown, "Down"},
	{ButtonLeft, "Left"},
	{ButtonRight, "Right"},
}

// Has reports whether every bit of b is set in m.
func (m Buttons) Has(b Buttons) bool {
	return m&b == b
}

func (m Buttons) String() string {
	if m == 0 {
		return "none"
	}
	s := ""
	for _, bn := range buttonNames {
		if m&bn.b != 0 {
			if s != "" {
				s += "+"
			}
			s += bn.name
		}
	}
	return s
}

// DeviceKind is the kind of peripheral plugged into a port.
type DeviceKind int

const (
	Disconnected DeviceKind = iota
	Joypad
	Zapper
)

func (k DeviceKind) String() string {
	switch k {
	case Joypad:
		return "joypad"
	case Zapper:
		return "zapper"
	case Disconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

var (
	// ErrNoCartridge is returned by cores asked to run without a cartridge inserted
	ErrNoCartridge = errors.New("no cartridge inserted")
	// ErrInvalidSlot is returned for a port outside 0..1
	ErrInvalidSlot = errors.New("invalid input slot")
	// ErrShortBuffer is returned when a pixel export target is too small
	ErrShortBuffer = errors.New("pixel buffer too small")
)

// Controllers is the joypad part of the core's input surface.
type Controllers interface {
	KeyDown(b Buttons, slot Slot) error
	KeyUp(b Buttons, slot Slot) error
}

// LightGun is the zapper part of the core's input surface.
type LightGun interface {
	// BrightnessAt returns the perceived brightness in [0,1] of the last
	// rendered pixel at (x, y) in native frame coordinates.
	BrightnessAt(x, y int) (float64, error)
	LightGunInput(trigger, hit bool, slot Slot) error
}

// PixelSource is the video part of the core's output surface.
type PixelSource interface {
	// ExportPixels writes the last frame as 256x240 RGBA into dst.
	ExportPixels(dst []byte) error
	// ExportPixelsUpscaled writes the last frame as 512x480 RGBA into dst.
	ExportPixelsUpscaled(dst []byte) error
	// BackgroundColor returns the ambient colour as "#RRGGBB".
	BackgroundColor() (string, error)
}

// Core is the complete call surface of an emulation core.
type Core interface {
	Controllers
	LightGun
	PixelSource

	SetupSurface(width, height int) error
	AttachController(slot Slot) error
	AttachLightGun(slot Slot) error
	LoadCartridge(rom []byte) error
	Reset() error
	// SimulateFrame advances emulation by exactly one rendered frame.
	SimulateFrame() error
	InputDeviceKind(slot Slot) (DeviceKind, error)
}
