package video

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/valerio/go-neshost/neshost/core"
)

// Manager moves the core's pixels onto a host surface once per frame.
type Manager struct {
	source  core.PixelSource
	surface Surface

	background    color.RGBA
	backgroundSet bool
	lastColor     string
}

func NewManager(source core.PixelSource, surface Surface) *Manager {
	return &Manager{
		source:  source,
		surface: surface,
	}
}

// Surface returns the managed surface.
func (m *Manager) Surface() Surface {
	return m.surface
}

// Present pulls the last rendered frame from the core in the given mode, commits it
// to the surface and refreshes the background colour. The surface is resized
// before the pull, so a committed frame always matches its mode's dimensions.
func (m *Manager) Present(mode DisplayMode) error {
	width, height := mode.Size()
	if w, h := m.surface.Size(); w != width || h != height {
		m.surface.Resize(width, height)
		slog.Debug("Surface resized", "mode", mode, "width", width, "height", height)
	}

	pixels := m.surface.Pixels()
	var err error
	if mode == Upscaled {
		err = m.source.ExportPixelsUpscaled(pixels)
	} else {
		err = m.source.ExportPixels(pixels)
	}
	if err != nil {
		return fmt.Errorf("export %s pixels: %w", mode, err)
	}

	if err := m.surface.Commit(); err != nil {
		return fmt.Errorf("commit surface: %w", err)
	}

	return m.refreshBackground()
}

func (m *Manager) refreshBackground() error {
	s, err := m.source.BackgroundColor()
	if err != nil {
		return fmt.Errorf("background colour: %w", err)
	}
	if m.backgroundSet && s == m.lastColor {
		return nil
	}

	c, err := ParseColor(s)
	if err != nil {
		slog.Warn("Ignoring background colour", "error", err, "kept", FormatColor(m.background))
		return nil
	}

	m.lastColor = s
	m.background = c
	m.backgroundSet = true
	m.surface.SetBackground(c)
	return nil
}

// Background returns the background colour currently applied.
func (m *Manager) Background() color.RGBA {
	return m.background
}
