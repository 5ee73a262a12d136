package timing

import (
	"fmt"
	"math"
	"time"
)

// FrameTimesCapacity is the number of frames the rolling statistics cover.
const FrameTimesCapacity = 120

// Stats summarises recorded render durations in milliseconds.
type Stats struct {
	Low  float64
	Avg  float64 // rounded to 2 decimals
	High float64
}

func (s Stats) String() string {
	return fmt.Sprintf("Low %.2fms / Avg %.2fms / High %.2fms", s.Low, s.Avg, s.High)
}

// FrameTimes is a fixed ring of per-frame render durations. Slot i holds the
// most recent frame whose index is congruent to i modulo the capacity.
type FrameTimes struct {
	samples [FrameTimesCapacity]time.Duration
	written [FrameTimesCapacity]bool
}

func NewFrameTimes() *FrameTimes {
	return &FrameTimes{}
}

// Slot returns the ring slot used by a frame index.
func Slot(frameIndex uint64) int {
	return int(frameIndex % FrameTimesCapacity)
}

// Record stores the render duration of the given frame, overwriting whatever
// frame previously occupied its slot.
func (f *FrameTimes) Record(frameIndex uint64, d time.Duration) {
	i := Slot(frameIndex)
	f.samples[i] = d
	f.written[i] = true
}

// At returns the duration stored in a slot and whether the slot was ever written.
func (f *FrameTimes) At(slot int) (time.Duration, bool) {
	if slot < 0 || slot >= FrameTimesCapacity {
		return 0, false
	}
	return f.samples[slot], f.written[slot]
}

// Len returns the number of slots holding a sample.
func (f *FrameTimes) Len() int {
	n := 0
	for _, w := range f.written {
		if w {
			n++
		}
	}
	return n
}

// Stats computes low/avg/high over every written slot. An empty ring yields zero Stats.
func (f *FrameTimes) Stats() Stats {
	var (
		n         int
		sum       float64
		low, high float64
	)
	for i, w := range f.written {
		if !w {
			continue
		}
		ms := Milliseconds(f.samples[i])
		if n == 0 || ms < low {
			low = ms
		}
		if n == 0 || ms > high {
			high = ms
		}
		sum += ms
		n++
	}
	if n == 0 {
		return Stats{}
	}
	return Stats{
		Low:  low,
		Avg:  RoundTo2(sum / float64(n)),
		High: high,
	}
}

// Milliseconds converts a duration to fractional milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// RoundTo2 rounds to two decimal places, halves away from zero.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
