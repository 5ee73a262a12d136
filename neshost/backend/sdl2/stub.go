//go:build !sdl2

package sdl2

import (
	"errors"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/video"
)

// ErrUnavailable is returned by the stub built without the sdl2 tag
var ErrUnavailable = errors.New("SDL2 backend not available - build with -tags sdl2 to enable")

// Backend stub for when SDL2 is not available
type Backend struct {
	*backend.Loop
}

var _ backend.Backend = (*Backend)(nil)

// New creates a stub SDL2 backend whose Init fails
func New() *Backend {
	return &Backend{Loop: backend.NewRealtimeLoop()}
}

func (s *Backend) Init(config backend.BackendConfig) error {
	return ErrUnavailable
}

func (s *Backend) Surface() video.Surface {
	return nil
}

func (s *Backend) Run() error {
	return ErrUnavailable
}

func (s *Backend) Quit() {}

func (s *Backend) Cleanup() error {
	return nil
}
