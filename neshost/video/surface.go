package video

import "image/color"

// Surface is the drawable area a host hands to the harness.
type Surface interface {
	// Size returns the current pixel dimensions.
	Size() (width, height int)
	// Resize changes the pixel dimensions. Pixel contents are undefined afterwards.
	Resize(width, height int)
	// Pixels returns the RGBA buffer backing the surface, width*height*4 bytes.
	Pixels() []byte
	// Commit publishes the buffer contents to the host.
	Commit() error
	// SetBackground sets the fill shown around the surface.
	SetBackground(c color.RGBA)
}

// Available reports whether s can be drawn on. Surfaces may implement
// Valid() bool to reject typed nil pointers and released resources.
func Available(s Surface) bool {
	if s == nil {
		return false
	}
	if v, ok := s.(interface{ Valid() bool }); ok {
		return v.Valid()
	}
	return true
}
