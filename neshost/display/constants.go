package display

// NES frame geometry
const (
	// Width is the native NES frame width in pixels
	Width = 256
	// Height is the native NES frame height in pixels
	Height = 240
	// UpscaleFactor is the scale applied by the core's upscaled pixel export
	UpscaleFactor = 2
	// UpscaledWidth is the width of the upscaled frame (512)
	UpscaledWidth = Width * UpscaleFactor
	// UpscaledHeight is the height of the upscaled frame (480)
	UpscaledHeight = Height * UpscaleFactor
)

// RGBA pixel format constants
const (
	// RGBABytesPerPixel is the number of bytes per pixel in RGBA format
	RGBABytesPerPixel = 4
	// FullAlpha is the alpha value for fully opaque pixels
	FullAlpha = 255
)

// Backend scaling and window constants
const (
	// DefaultPixelScale is the default window scaling factor for NES pixels
	DefaultPixelScale = 2
	// DefaultBorder is the margin around the frame filled with the background colour
	DefaultBorder = 16
	// DefaultWindowWidth is the default window width (NES width * scale + border)
	DefaultWindowWidth = Width*DefaultPixelScale + 2*DefaultBorder // 544
	// DefaultWindowHeight is the default window height (NES height * scale + border)
	DefaultWindowHeight = Height*DefaultPixelScale + 2*DefaultBorder // 512
)

// Test pattern constants
const (
	// TestPatternCount is the number of available test patterns
	TestPatternCount = 4
	// TestPatternTileSize is the size of tiles for checkerboard and diagonal patterns
	TestPatternTileSize = 16
	// TestPatternStripeWidth is the width of stripes in the stripe pattern
	TestPatternStripeWidth = 8
	// TestPatternAnimationFrames is the number of frames between test pattern animations
	TestPatternAnimationFrames = 4
	// TestPatternStripeSpeed is the animation speed for stripe patterns
	TestPatternStripeSpeed = 2
	// TestPatternDiagonalSpeed is the animation speed for diagonal patterns
	TestPatternDiagonalSpeed = 4
)
