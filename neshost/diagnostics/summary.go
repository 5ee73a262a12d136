package diagnostics

import (
	"fmt"
	"time"

	"github.com/valerio/go-neshost/neshost/timing"
)

// Summary is the latest diagnostic picture of the frame loop.
type Summary struct {
	// FPS is the frame rate measured over the last reporting interval.
	FPS float64
	// Render is the render time of the most recent frame.
	Render time.Duration
	// Stats covers the rolling window of recent frames.
	Stats timing.Stats
	// Frames is the number of frame cycles completed so far.
	Frames uint64
}

func (s Summary) String() string {
	return fmt.Sprintf("%.1f FPS / Render: %.2fms / Low %.2fms / Avg %.2fms / High %.2fms / Ideal <%.2fms",
		s.FPS,
		timing.Milliseconds(s.Render),
		s.Stats.Low,
		s.Stats.Avg,
		s.Stats.High,
		timing.Milliseconds(timing.IdealFrameBudget()))
}
