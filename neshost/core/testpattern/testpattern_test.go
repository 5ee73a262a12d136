package testpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/romloader"
)

// cartridge builds a minimal iNES image with one PRG and one CHR bank.
func cartridge(mapper int) []byte {
	data := make([]byte, 16+16384+8192)
	copy(data, "NES\x1a")
	data[4] = 1
	data[5] = 1
	data[6] = byte(mapper&0x0F) << 4
	data[7] = byte(mapper & 0xF0)
	return data
}

func pixelAt(buf []byte, width, x, y int) [4]byte {
	o := (y*width + x) * display.RGBABytesPerPixel
	return [4]byte{buf[o], buf[o+1], buf[o+2], buf[o+3]}
}

func TestLoadCartridge(t *testing.T) {
	c := New()
	require.NoError(t, c.LoadCartridge(cartridge(2)))
	require.NoError(t, c.Reset())
	assert.Equal(t, 2, c.Pattern())

	err := c.LoadCartridge([]byte("not a rom"))
	assert.ErrorIs(t, err, romloader.ErrNotINES)
}

func TestBrightnessAt(t *testing.T) {
	c := New()

	tests := []struct {
		name string
		x, y int
		want float64
	}{
		{"white tile", 0, 0, 248.0 / 255},
		{"black tile", display.TestPatternTileSize, 0, 0},
		{"next row of tiles", display.TestPatternTileSize, display.TestPatternTileSize, 248.0 / 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.BrightnessAt(tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	_, err := c.BrightnessAt(display.Width, 0)
	assert.Error(t, err)
	_, err = c.BrightnessAt(0, -1)
	assert.Error(t, err)
}

func TestStartCyclesPattern(t *testing.T) {
	c := New()
	require.NoError(t, c.AttachController(core.Slot0))

	require.NoError(t, c.KeyDown(core.ButtonStart, core.Slot0))
	assert.Equal(t, 1, c.Pattern())

	require.NoError(t, c.KeyDown(core.ButtonStart|core.ButtonA, core.Slot0))
	assert.Equal(t, 1, c.Pattern(), "held start does not cycle again")

	require.NoError(t, c.KeyUp(core.ButtonStart, core.Slot0))
	require.NoError(t, c.KeyDown(core.ButtonStart, core.Slot0))
	assert.Equal(t, 2, c.Pattern())
}

func TestKeyDown_Slots(t *testing.T) {
	c := New()
	assert.NoError(t, c.KeyDown(core.ButtonStart, core.Slot0), "no joypad attached is a no-op")
	assert.Equal(t, 0, c.Pattern())

	assert.ErrorIs(t, c.KeyDown(core.ButtonA, core.Slot(2)), core.ErrInvalidSlot)
	assert.ErrorIs(t, c.KeyUp(core.ButtonA, core.Slot(2)), core.ErrInvalidSlot)
	assert.ErrorIs(t, c.AttachController(core.Slot(5)), core.ErrInvalidSlot)
}

func TestScroll(t *testing.T) {
	c := New()
	require.NoError(t, c.AttachController(core.Slot0))

	x := display.TestPatternTileSize - 1
	before, err := c.BrightnessAt(x, 0)
	require.NoError(t, err)
	assert.Greater(t, before, 0.9)

	require.NoError(t, c.KeyDown(core.ButtonRight, core.Slot0))
	require.NoError(t, c.SimulateFrame())

	after, err := c.BrightnessAt(x, 0)
	require.NoError(t, err)
	assert.Zero(t, after)
}

func TestLightGunFlash(t *testing.T) {
	c := New()
	require.NoError(t, c.AttachLightGun(core.Slot1))
	kind, err := c.InputDeviceKind(core.Slot1)
	require.NoError(t, err)
	assert.Equal(t, core.Zapper, kind)

	require.NoError(t, c.LightGunInput(true, false, core.Slot1))
	require.NoError(t, c.SimulateFrame())

	centre, err := c.BrightnessAt(display.Width/2, display.Height/2)
	require.NoError(t, err)
	corner, err := c.BrightnessAt(0, 0)
	require.NoError(t, err)
	assert.Greater(t, centre, 0.9, "target is lit")
	assert.Zero(t, corner, "rest of the flash frame is black")

	require.NoError(t, c.LightGunInput(true, true, core.Slot1))
	assert.Equal(t, 1, c.Hits())

	require.NoError(t, c.SimulateFrame())
	corner, err = c.BrightnessAt(0, 0)
	require.NoError(t, err)
	assert.Greater(t, corner, 0.9, "held trigger does not flash again")
}

func TestLightGunInput_IgnoredWithoutZapper(t *testing.T) {
	c := New()
	require.NoError(t, c.LightGunInput(true, true, core.Slot1))
	assert.Zero(t, c.Hits())
	assert.ErrorIs(t, c.LightGunInput(true, true, core.Slot(3)), core.ErrInvalidSlot)
}

func TestExportPixels(t *testing.T) {
	c := New()

	native := make([]byte, display.Width*display.Height*display.RGBABytesPerPixel)
	require.NoError(t, c.ExportPixels(native))
	assert.Equal(t, [4]byte{0xF8, 0xF8, 0xF8, 0xFF}, pixelAt(native, display.Width, 0, 0))
	assert.Equal(t, [4]byte{0, 0, 0, 0xFF}, pixelAt(native, display.Width, display.TestPatternTileSize, 0))

	upscaled := make([]byte, display.UpscaledWidth*display.UpscaledHeight*display.RGBABytesPerPixel)
	require.NoError(t, c.ExportPixelsUpscaled(upscaled))
	assert.Equal(t, pixelAt(native, display.Width, 0, 0), pixelAt(upscaled, display.UpscaledWidth, 1, 1))
	assert.Equal(t,
		pixelAt(native, display.Width, display.TestPatternTileSize, 0),
		pixelAt(upscaled, display.UpscaledWidth, 2*display.TestPatternTileSize+1, 1))

	assert.ErrorIs(t, c.ExportPixels(make([]byte, 10)), core.ErrShortBuffer)
	assert.ErrorIs(t, c.ExportPixelsUpscaled(native), core.ErrShortBuffer)
}

func TestBackgroundColor(t *testing.T) {
	c := New()
	bg, err := c.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, "#000000", bg)

	c.CycleTestPattern()
	c.CycleTestPattern()
	bg, err = c.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, "#E40058", bg)
}
