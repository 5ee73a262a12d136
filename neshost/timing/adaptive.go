package timing

import (
	"log/slog"
	"time"
)

const (
	// spinThreshold is the remaining wait below which the limiter busy-waits
	spinThreshold = 2 * time.Millisecond
	// maxLag is how far behind schedule the limiter gets before giving up on catching up
	maxLag = 5 * time.Millisecond
	// driftCheckFrames is how often accumulated drift is measured
	driftCheckFrames = 60
	// driftTolerance is the drift left uncorrected
	driftTolerance = 10 * time.Millisecond
)

// AdaptiveLimiter uses precise timing with drift compensation.
// Combines sleep for efficiency with busy-waiting for accuracy.
type AdaptiveLimiter struct {
	targetFrameTime time.Duration
	nextFrameTime   time.Time
	frameCounter    int64
	startTime       time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

// NewAdaptiveLimiter paces frames at the NES frame rate on the wall clock.
func NewAdaptiveLimiter() *AdaptiveLimiter {
	return newAdaptiveLimiter(FrameDuration(), time.Now, time.Sleep)
}

func newAdaptiveLimiter(frame time.Duration, now func() time.Time, sleep func(time.Duration)) *AdaptiveLimiter {
	start := now()
	return &AdaptiveLimiter{
		targetFrameTime: frame,
		nextFrameTime:   start,
		startTime:       start,
		now:             now,
		sleep:           sleep,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := a.now()
	wait := a.nextFrameTime.Sub(now)

	switch {
	case wait > 0:
		if wait >= spinThreshold {
			a.sleep(wait - time.Millisecond)
		}
		for a.now().Before(a.nextFrameTime) {
			// busy-wait the last stretch, sleep is too coarse for it
		}
	case wait < -maxLag:
		// too far behind, don't try to catch up with a burst of frames
		a.nextFrameTime = now
	}

	a.nextFrameTime = a.nextFrameTime.Add(a.targetFrameTime)
	a.frameCounter++

	if a.frameCounter%driftCheckFrames == 0 {
		actualTime := a.now()
		drift := actualTime.Sub(a.nextFrameTime)

		if drift.Abs() > driftTolerance {
			a.nextFrameTime = a.nextFrameTime.Add(drift / 10)
			slog.Debug("Frame timing drift correction",
				"drift_ms", drift.Milliseconds(),
				"fps", float64(a.frameCounter)/actualTime.Sub(a.startTime).Seconds())
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	now := a.now()
	a.nextFrameTime = now
	a.startTime = now
	a.frameCounter = 0
}
