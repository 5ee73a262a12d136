//go:build !ebiten

package ebiten

import (
	"errors"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/video"
)

// ErrUnavailable is returned by the stub built without the ebiten tag
var ErrUnavailable = errors.New("Ebiten backend not available - build with -tags ebiten to enable")

// Backend stub for builds without Ebiten
type Backend struct {
	*backend.Loop
}

var _ backend.Backend = (*Backend)(nil)

func New() *Backend {
	return &Backend{Loop: backend.NewRealtimeLoop()}
}

func (e *Backend) Init(config backend.BackendConfig) error {
	return ErrUnavailable
}

func (e *Backend) Surface() video.Surface {
	return nil
}

func (e *Backend) Run() error {
	return ErrUnavailable
}

func (e *Backend) Quit() {}

func (e *Backend) Cleanup() error {
	return nil
}
