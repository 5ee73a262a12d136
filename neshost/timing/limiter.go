package timing

import "time"

// Limiter controls frame pacing for backends that have no vsync-aligned
// animation callback of their own.
type Limiter interface {
	// WaitForNextFrame blocks until it's time for the next frame.
	// Returns immediately if timing is behind schedule.
	WaitForNextFrame()

	// Reset resets the timing state, useful after pauses.
	Reset()
}

// NewNoOpLimiter returns a limiter that doesn't limit (for headless mode).
func NewNoOpLimiter() Limiter {
	return &noOpLimiter{}
}

type noOpLimiter struct{}

func (n *noOpLimiter) WaitForNextFrame() {}
func (n *noOpLimiter) Reset()            {}

// Constants for NTSC NES timing
const (
	CyclesPerFrame = 29780.5
	CPUFrequency   = 1789773
)

// DisplayRefreshRate is the refresh rate the diagnostics budget is measured against.
const DisplayRefreshRate = 60

// TargetFPS calculates the exact NTSC NES frame rate.
func TargetFPS() float64 {
	return float64(CPUFrequency) / CyclesPerFrame
}

// FrameDuration returns the target duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// IdealFrameBudget is the render time that still fits one display refresh.
func IdealFrameBudget() time.Duration {
	return time.Second / DisplayRefreshRate
}
