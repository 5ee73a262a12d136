package neshost

import (
	"github.com/valerio/go-neshost/neshost/input"
	"github.com/valerio/go-neshost/neshost/lightgun"
	"github.com/valerio/go-neshost/neshost/timing"
	"github.com/valerio/go-neshost/neshost/video"
)

// State is everything the harness carries from one frame cycle to the next.
// Components receive it by pointer; nothing lives in package variables.
type State struct {
	Input      input.State
	LightGun   lightgun.State
	FrameTimes *timing.FrameTimes
	// FrameIndex counts completed frame cycles.
	FrameIndex uint64
	Mode       video.DisplayMode
}

// NewState returns an empty state presenting in mode.
func NewState(mode video.DisplayMode) *State {
	return &State{
		FrameTimes: timing.NewFrameTimes(),
		Mode:       mode,
	}
}
