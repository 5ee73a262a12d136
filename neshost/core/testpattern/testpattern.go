// Package testpattern is a core that renders animated test patterns instead of
// running a cartridge. It implements the complete core call surface, so hosts,
// input mapping and the light gun can be exercised without an emulator.
//
// Controls: Start on port 0 cycles the pattern, the d-pad scrolls it, and a light
// gun trigger pull flashes a white target on the following frame.
package testpattern

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/image/draw"

	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/romloader"
	"github.com/valerio/go-neshost/neshost/video"
)

var patternNames = []string{"checkerboard", "colour bars", "stripes", "diagonal"}

// targetSize is the side of the square target drawn on light gun flash frames
const targetSize = 32

// Core displays test patterns without actual emulation
type Core struct {
	// output holds one palette index per pixel, like the PPU's output buffer
	output   []uint8
	frame    *image.RGBA
	upscaled *image.RGBA

	patternType      int
	animationCounter int
	scrollX, scrollY int
	flash            bool

	buttons [core.SlotCount]core.Buttons
	devices [core.SlotCount]core.DeviceKind
	trigger [core.SlotCount]bool
	hits    int

	header *romloader.Header
}

var _ core.Core = (*Core)(nil)

func New() *Core {
	c := &Core{
		output:   make([]uint8, display.Width*display.Height),
		frame:    image.NewRGBA(image.Rect(0, 0, display.Width, display.Height)),
		upscaled: image.NewRGBA(image.Rect(0, 0, display.UpscaledWidth, display.UpscaledHeight)),
	}
	c.render()
	return c
}

// Pattern returns the index of the pattern currently displayed.
func (c *Core) Pattern() int {
	return c.patternType
}

// Hits returns how many light gun shots landed on a target.
func (c *Core) Hits() int {
	return c.hits
}

func (c *Core) SetupSurface(width, height int) error {
	slog.Debug("Test pattern surface", "width", width, "height", height)
	return nil
}

func (c *Core) AttachController(slot core.Slot) error {
	if !slot.Valid() {
		return core.ErrInvalidSlot
	}
	c.devices[slot] = core.Joypad
	c.buttons[slot] = 0
	return nil
}

func (c *Core) AttachLightGun(slot core.Slot) error {
	if !slot.Valid() {
		return core.ErrInvalidSlot
	}
	c.devices[slot] = core.Zapper
	c.trigger[slot] = false
	return nil
}

func (c *Core) InputDeviceKind(slot core.Slot) (core.DeviceKind, error) {
	if !slot.Valid() {
		return core.Disconnected, core.ErrInvalidSlot
	}
	return c.devices[slot], nil
}

// LoadCartridge checks the image is an iNES file. The pattern shown after the next
// Reset is picked from the cartridge's mapper number.
func (c *Core) LoadCartridge(rom []byte) error {
	h, err := romloader.ParseHeader(rom)
	if err != nil {
		return fmt.Errorf("test pattern core: %w", err)
	}
	c.header = &h
	slog.Info("Cartridge inserted",
		"mapper", h.Mapper,
		"prg_kb", h.PRGSize()/1024,
		"chr_kb", h.CHRSize()/1024,
		"mirroring", h.Mirroring)
	return nil
}

func (c *Core) Reset() error {
	c.animationCounter = 0
	c.scrollX, c.scrollY = 0, 0
	c.flash = false
	if c.header != nil {
		c.patternType = c.header.Mapper % display.TestPatternCount
	}
	c.render()
	return nil
}

func (c *Core) KeyDown(b core.Buttons, slot core.Slot) error {
	if !slot.Valid() {
		return core.ErrInvalidSlot
	}
	if c.devices[slot] != core.Joypad {
		return nil
	}
	if slot == core.Slot0 && b.Has(core.ButtonStart) && !c.buttons[slot].Has(core.ButtonStart) {
		c.CycleTestPattern()
	}
	c.buttons[slot] |= b
	return nil
}

func (c *Core) KeyUp(b core.Buttons, slot core.Slot) error {
	if !slot.Valid() {
		return core.ErrInvalidSlot
	}
	if c.devices[slot] != core.Joypad {
		return nil
	}
	c.buttons[slot] &^= b
	return nil
}

func (c *Core) LightGunInput(trigger, hit bool, slot core.Slot) error {
	if !slot.Valid() {
		return core.ErrInvalidSlot
	}
	if c.devices[slot] != core.Zapper {
		return nil
	}
	if hit {
		c.hits++
		slog.Info("Light gun hit", "hits", c.hits)
	}
	if trigger && !c.trigger[slot] {
		c.flash = true
	}
	c.trigger[slot] = trigger
	return nil
}

func (c *Core) CycleTestPattern() {
	c.patternType = (c.patternType + 1) % display.TestPatternCount
	slog.Info("Switched to test pattern", "pattern", patternNames[c.patternType])
}

func (c *Core) SimulateFrame() error {
	c.animationCounter++

	b := c.buttons[core.Slot0]
	if b.Has(core.ButtonLeft) {
		c.scrollX--
	}
	if b.Has(core.ButtonRight) {
		c.scrollX++
	}
	if b.Has(core.ButtonUp) {
		c.scrollY--
	}
	if b.Has(core.ButtonDown) {
		c.scrollY++
	}

	c.render()
	return nil
}

func (c *Core) render() {
	if c.flash {
		c.flash = false
		c.renderTarget()
	} else {
		c.renderPattern()
	}

	for i, idx := range c.output {
		p := rgba(idx)
		o := i * display.RGBABytesPerPixel
		c.frame.Pix[o] = p.R
		c.frame.Pix[o+1] = p.G
		c.frame.Pix[o+2] = p.B
		c.frame.Pix[o+3] = p.A
	}
	draw.NearestNeighbor.Scale(c.upscaled, c.upscaled.Bounds(), c.frame, c.frame.Bounds(), draw.Src, nil)
}

func (c *Core) renderPattern() {
	step := c.animationCounter / display.TestPatternAnimationFrames
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			sx, sy := x+c.scrollX, y+c.scrollY
			var idx uint8
			switch c.patternType {
			case 0: // Checkerboard
				if (floorDiv(sx, display.TestPatternTileSize)+floorDiv(sy, display.TestPatternTileSize))%2 == 0 {
					idx = white
				} else {
					idx = black
				}
			case 1: // Colour bars, one hue per column band and one brightness row per quarter
				hue := uint8(mod(sx, display.Width) * 12 / display.Width)
				row := uint8(mod(sy, display.Height) * 4 / display.Height)
				idx = row<<4 | (hue + 1)
			case 2: // Vertical stripes
				if floorDiv(sx+step*display.TestPatternStripeSpeed, display.TestPatternStripeWidth)%2 == 0 {
					idx = white
				} else {
					idx = darkGrey
				}
			default: // Diagonal lines
				if floorDiv(sx+sy+step*display.TestPatternDiagonalSpeed, display.TestPatternTileSize)%2 == 0 {
					idx = lightGrey
				} else {
					idx = blue
				}
			}
			c.output[y*display.Width+x] = idx
		}
	}
}

// renderTarget draws the frame a zapper game shows right after a trigger pull: a
// black screen with a white target in the centre.
func (c *Core) renderTarget() {
	x0 := (display.Width - targetSize) / 2
	y0 := (display.Height - targetSize) / 2
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			idx := uint8(black)
			if x >= x0 && x < x0+targetSize && y >= y0 && y < y0+targetSize {
				idx = white
			}
			c.output[y*display.Width+x] = idx
		}
	}
}

func (c *Core) ExportPixels(dst []byte) error {
	if len(dst) < len(c.frame.Pix) {
		return core.ErrShortBuffer
	}
	copy(dst, c.frame.Pix)
	return nil
}

func (c *Core) ExportPixelsUpscaled(dst []byte) error {
	if len(dst) < len(c.upscaled.Pix) {
		return core.ErrShortBuffer
	}
	copy(dst, c.upscaled.Pix)
	return nil
}

// BackgroundColor returns the colour of the pattern's backdrop entry.
func (c *Core) BackgroundColor() (string, error) {
	backdrop := [...]uint8{black, 0x00, red, blue}
	return video.FormatColor(rgba(backdrop[c.patternType])), nil
}

func (c *Core) BrightnessAt(x, y int) (float64, error) {
	if x < 0 || x >= display.Width || y < 0 || y >= display.Height {
		return 0, fmt.Errorf("pixel %d,%d outside the frame", x, y)
	}
	return luma(c.output[y*display.Width+x]), nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
