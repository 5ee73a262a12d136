package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimes_Wraps(t *testing.T) {
	ft := NewFrameTimes()

	// 121 frames, frame i takes i+1 microseconds so every frame is distinguishable
	for i := uint64(0); i <= 120; i++ {
		ft.Record(i, time.Duration(i+1)*time.Microsecond)
	}

	d, ok := ft.At(0)
	require.True(t, ok)
	assert.Equal(t, 121*time.Microsecond, d, "slot 0 should hold frame 120, not frame 0")

	d, ok = ft.At(1)
	require.True(t, ok)
	assert.Equal(t, 2*time.Microsecond, d, "slot 1 still holds frame 1")

	assert.Equal(t, FrameTimesCapacity, ft.Len())
}

func TestFrameTimes_StatsOverWrittenSlotsOnly(t *testing.T) {
	ft := NewFrameTimes()
	durations := []time.Duration{2, 3, 2, 4, 3, 2, 5, 2, 3, 2, 4, 2, 3, 2, 2}

	for i, d := range durations {
		ft.Record(uint64(i), d*time.Millisecond)
	}

	stats := ft.Stats()
	assert.Equal(t, 2.0, stats.Low)
	assert.Equal(t, 5.0, stats.High)
	// sum = 41, 41/15 = 2.7333...
	assert.Equal(t, 2.73, stats.Avg)
	assert.Equal(t, len(durations), ft.Len())
}

func TestFrameTimes_Empty(t *testing.T) {
	ft := NewFrameTimes()
	assert.Equal(t, Stats{}, ft.Stats())
	assert.Equal(t, 0, ft.Len())

	_, ok := ft.At(5)
	assert.False(t, ok)
	_, ok = ft.At(-1)
	assert.False(t, ok)
	_, ok = ft.At(FrameTimesCapacity)
	assert.False(t, ok)
}

func TestFrameTimes_OverwriteChangesStats(t *testing.T) {
	ft := NewFrameTimes()
	ft.Record(0, 10*time.Millisecond)
	ft.Record(1, 1*time.Millisecond)
	assert.Equal(t, 10.0, ft.Stats().High)

	// frame 120 lands on slot 0 and evicts the slow frame
	ft.Record(120, 1*time.Millisecond)
	assert.Equal(t, 1.0, ft.Stats().High)
}

func TestRoundTo2(t *testing.T) {
	tests := []struct {
		in, out float64
	}{
		{2.734, 2.73},
		{2.735, 2.74},
		{1.0 / 3.0, 0.33},
		{16.666666, 16.67},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.out, RoundTo2(tt.in), 1e-9)
	}
}

func TestStats_String(t *testing.T) {
	s := Stats{Low: 2, Avg: 2.73, High: 5}
	assert.Equal(t, "Low 2.00ms / Avg 2.73ms / High 5.00ms", s.String())
}

func TestFrameDuration(t *testing.T) {
	assert.InDelta(t, 60.0988, TargetFPS(), 0.001)
	assert.InDelta(t, 16.639, Milliseconds(FrameDuration()), 0.01)
	assert.Equal(t, time.Second/60, IdealFrameBudget())
}

func TestNoOpLimiter(t *testing.T) {
	l := NewNoOpLimiter()
	start := time.Now()
	for i := 0; i < 1000; i++ {
		l.WaitForNextFrame()
	}
	l.Reset()
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
