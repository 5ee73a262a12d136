package video

import "github.com/valerio/go-neshost/neshost/display"

// DisplayMode selects the resolution frames are presented at.
type DisplayMode int

const (
	// Normal presents the native 256x240 frame.
	Normal DisplayMode = iota
	// Upscaled presents the core's 512x480 upscaled frame.
	Upscaled
)

// Size returns the surface dimensions for the mode.
func (m DisplayMode) Size() (width, height int) {
	if m == Upscaled {
		return display.UpscaledWidth, display.UpscaledHeight
	}
	return display.Width, display.Height
}

// Toggle returns the other mode.
func (m DisplayMode) Toggle() DisplayMode {
	if m == Upscaled {
		return Normal
	}
	return Upscaled
}

func (m DisplayMode) String() string {
	if m == Upscaled {
		return "upscaled"
	}
	return "normal"
}
