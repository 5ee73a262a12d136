package lightgun

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/core/coretest"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPointerMove(t *testing.T) {
	tests := []struct {
		name      string
		evt       backend.PointerEvent
		wantX     int
		wantY     int
		unchanged bool
	}{
		{
			name:  "native size",
			evt:   backend.PointerEvent{OffsetX: 100, OffsetY: 50, Width: 256, Height: 240},
			wantX: 100, wantY: 50,
		},
		{
			name:  "upscaled display maps back to native pixels",
			evt:   backend.PointerEvent{OffsetX: 511, OffsetY: 479, Width: 512, Height: 480},
			wantX: 255, wantY: 239,
		},
		{
			name:  "fractional offsets truncate",
			evt:   backend.PointerEvent{OffsetX: 1.99, OffsetY: 0.5, Width: 256, Height: 240},
			wantX: 1, wantY: 0,
		},
		{
			name:  "right edge clamps",
			evt:   backend.PointerEvent{OffsetX: 256, OffsetY: 240, Width: 256, Height: 240},
			wantX: 255, wantY: 239,
		},
		{
			name:  "negative offsets clamp",
			evt:   backend.PointerEvent{OffsetX: -3, OffsetY: -1, Width: 256, Height: 240},
			wantX: 0, wantY: 0,
		},
		{
			name:      "zero-sized surface is ignored",
			evt:       backend.PointerEvent{OffsetX: 10, OffsetY: 10},
			unchanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(coretest.New(), backend.NewLoop(epoch, nil), core.Slot1)
			st := &State{X: 7, Y: 9}
			s.PointerMove(st, tt.evt)
			if tt.unchanged {
				assert.Equal(t, 7, st.X)
				assert.Equal(t, 9, st.Y)
				return
			}
			assert.Equal(t, tt.wantX, st.X)
			assert.Equal(t, tt.wantY, st.Y)
		})
	}
}

func TestTriggerDwell(t *testing.T) {
	loop := backend.NewLoop(epoch, nil)
	s := NewSampler(coretest.New(), loop, core.Slot1)
	st := &State{}

	s.PointerDown(st, backend.PointerEvent{})
	assert.True(t, st.TriggerHeld, "held at t0")

	loop.Advance(99 * time.Millisecond)
	assert.True(t, st.TriggerHeld, "held just before t0+100ms")

	loop.Advance(time.Millisecond)
	assert.False(t, st.TriggerHeld, "released at t0+100ms")
}

func TestTriggerRepressExtendsDwell(t *testing.T) {
	loop := backend.NewLoop(epoch, nil)
	s := NewSampler(coretest.New(), loop, core.Slot1)
	st := &State{}

	s.PointerDown(st, backend.PointerEvent{})
	loop.Advance(60 * time.Millisecond)
	s.PointerDown(st, backend.PointerEvent{})

	loop.Advance(99 * time.Millisecond)
	assert.True(t, st.TriggerHeld, "second press holds until its own dwell ends")

	loop.Advance(time.Millisecond)
	assert.False(t, st.TriggerHeld)
	assert.Equal(t, 0, loop.PendingTimers(), "first press's timer was stopped")
}

func TestSample(t *testing.T) {
	tests := []struct {
		name       string
		trigger    bool
		brightness float64
		wantHit    bool
	}{
		{"trigger on bright pixel", true, 0.95, true},
		{"trigger on threshold is a miss", true, 0.9, false},
		{"trigger on dark pixel", true, 0.2, false},
		{"no trigger on bright pixel", false, 1.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := coretest.New()
			c.Brightness = func(x, y int) float64 { return tt.brightness }
			s := NewSampler(c, backend.NewLoop(epoch, nil), core.Slot1)
			st := &State{X: 12, Y: 34, TriggerHeld: tt.trigger}

			require.NoError(t, s.Sample(st))

			require.Len(t, c.Calls, 2)
			assert.Equal(t, []any{12, 34}, c.Calls[0].Args)
			assert.Equal(t, []any{tt.trigger, tt.wantHit, core.Slot1}, c.Calls[1].Args)
		})
	}
}

func TestSample_Threshold(t *testing.T) {
	c := coretest.New()
	c.Brightness = func(x, y int) float64 { return 0.6 }
	s := NewSampler(c, backend.NewLoop(epoch, nil), core.Slot0, WithThreshold(0.5), WithDwell(time.Second))
	st := &State{TriggerHeld: true}

	require.NoError(t, s.Sample(st))
	assert.Equal(t, []any{true, true, core.Slot0}, c.CallsTo("LightGunInput")[0].Args)
}

func TestSample_BrightnessError(t *testing.T) {
	c := coretest.New()
	boom := errors.New("boom")
	c.Errors["BrightnessAt"] = boom
	s := NewSampler(c, backend.NewLoop(epoch, nil), core.Slot1)

	err := s.Sample(&State{})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, c.CallsTo("LightGunInput"))
}

func TestSuppressContextMenu(t *testing.T) {
	evt := &backend.ContextMenuEvent{}
	SuppressContextMenu(evt)
	assert.True(t, evt.DefaultPrevented())
}
