package video

import (
	"image"
	"image/color"

	"github.com/valerio/go-neshost/neshost/display"
)

// FrameBuffer is an in-memory RGBA surface. Hosts read it back after each Commit.
type FrameBuffer struct {
	width      int
	height     int
	buffer     []byte
	background color.RGBA
	commits    uint64

	// OnCommit, when set, is called from Commit with the committed buffer.
	OnCommit func(fb *FrameBuffer) error
}

var _ Surface = (*FrameBuffer)(nil)

// NewFrameBuffer creates a frame buffer with the specified size.
func NewFrameBuffer(width, height int) *FrameBuffer {
	return &FrameBuffer{
		width:      width,
		height:     height,
		buffer:     make([]byte, width*height*display.RGBABytesPerPixel),
		background: color.RGBA{A: display.FullAlpha},
	}
}

// Valid is false for a nil frame buffer.
func (fb *FrameBuffer) Valid() bool {
	return fb != nil
}

func (fb *FrameBuffer) Size() (int, int) {
	return fb.width, fb.height
}

func (fb *FrameBuffer) Resize(width, height int) {
	if width == fb.width && height == fb.height {
		return
	}
	size := width * height * display.RGBABytesPerPixel
	if cap(fb.buffer) >= size {
		fb.buffer = fb.buffer[:size]
	} else {
		fb.buffer = make([]byte, size)
	}
	fb.width = width
	fb.height = height
}

func (fb *FrameBuffer) Pixels() []byte {
	return fb.buffer
}

func (fb *FrameBuffer) Commit() error {
	fb.commits++
	if fb.OnCommit != nil {
		return fb.OnCommit(fb)
	}
	return nil
}

// Commits returns how many times the buffer has been committed.
func (fb *FrameBuffer) Commits() uint64 {
	return fb.commits
}

func (fb *FrameBuffer) SetBackground(c color.RGBA) {
	fb.background = c
}

// Background returns the last background colour set.
func (fb *FrameBuffer) Background() color.RGBA {
	return fb.background
}

func (fb *FrameBuffer) GetPixel(x, y int) color.RGBA {
	i := (y*fb.width + x) * display.RGBABytesPerPixel
	return color.RGBA{R: fb.buffer[i], G: fb.buffer[i+1], B: fb.buffer[i+2], A: fb.buffer[i+3]}
}

func (fb *FrameBuffer) SetPixel(x, y int, c color.RGBA) {
	i := (y*fb.width + x) * display.RGBABytesPerPixel
	fb.buffer[i] = c.R
	fb.buffer[i+1] = c.G
	fb.buffer[i+2] = c.B
	fb.buffer[i+3] = c.A
}

// Image returns a copy of the buffer as an image.
func (fb *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
	copy(img.Pix, fb.buffer)
	return img
}
