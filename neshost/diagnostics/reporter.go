// Package diagnostics aggregates frame timing into human-readable statistics.
//
// Two independent cadences feed it: every few frame cycles the rolling render
// statistics are refreshed, and on a wall-clock interval the frame rate is
// measured. Both push the combined Summary to every registered Publisher.
package diagnostics

import (
	"errors"
	"fmt"
	"time"

	"github.com/valerio/go-neshost/neshost/events"
	"github.com/valerio/go-neshost/neshost/timing"
)

const (
	DefaultInterval = 2 * time.Second
	MinInterval     = 2 * time.Second
	MaxInterval     = 5 * time.Second
	// DefaultCadence is how many frame cycles pass between statistics refreshes.
	DefaultCadence = 15
)

var (
	ErrInvalidInterval = errors.New("diagnostics interval out of range")
	ErrInvalidCadence  = errors.New("diagnostics cadence must be positive")
)

// Clock is the slice of the host the reporter needs.
type Clock interface {
	Every(d time.Duration, fn func()) events.Timer
	Now() time.Time
}

// Reporter counts frame cycles and publishes summaries.
type Reporter struct {
	clock      Clock
	interval   time.Duration
	cadence    int
	publishers []Publisher

	framesSinceTick int
	lastTick        time.Time
	ticker          events.Timer
	summary         Summary
}

// ValidateInterval checks a frame-rate interval is within the supported range.
func ValidateInterval(d time.Duration) error {
	if d < MinInterval || d > MaxInterval {
		return fmt.Errorf("%w: %s not within [%s, %s]", ErrInvalidInterval, d, MinInterval, MaxInterval)
	}
	return nil
}

func NewReporter(clock Clock, interval time.Duration, cadence int, publishers ...Publisher) (*Reporter, error) {
	if err := ValidateInterval(interval); err != nil {
		return nil, err
	}
	if cadence <= 0 {
		return nil, ErrInvalidCadence
	}
	return &Reporter{
		clock:      clock,
		interval:   interval,
		cadence:    cadence,
		publishers: publishers,
	}, nil
}

// AddPublisher registers another summary consumer.
func (r *Reporter) AddPublisher(p Publisher) {
	r.publishers = append(r.publishers, p)
}

// Start begins measuring the frame rate. Calling Start again restarts the measurement.
func (r *Reporter) Start() {
	r.Stop()
	r.lastTick = r.clock.Now()
	r.framesSinceTick = 0
	r.ticker = r.clock.Every(r.interval, r.tick)
}

// Stop halts the frame-rate measurement.
func (r *Reporter) Stop() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *Reporter) tick() {
	now := r.clock.Now()
	elapsed := now.Sub(r.lastTick).Seconds()
	if elapsed > 0 {
		r.summary.FPS = float64(r.framesSinceTick) / elapsed
	}
	r.framesSinceTick = 0
	r.lastTick = now
	r.publish()
}

// FrameCompleted records one finished frame cycle and its render time. Every
// cadence cycles the rolling statistics are recomputed and published.
func (r *Reporter) FrameCompleted(render time.Duration, frameTimes *timing.FrameTimes) {
	r.framesSinceTick++
	r.summary.Frames++
	r.summary.Render = render

	if r.summary.Frames%uint64(r.cadence) == 0 {
		r.summary.Stats = frameTimes.Stats()
		r.publish()
	}
}

func (r *Reporter) publish() {
	for _, p := range r.publishers {
		p.Publish(r.summary)
	}
}

// Summary returns the most recent summary.
func (r *Reporter) Summary() Summary {
	return r.summary
}
