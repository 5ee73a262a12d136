package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/valerio/go-neshost/neshost/input/event"
)

func TestHandler_Repeat(t *testing.T) {
	tests := []struct {
		name        string
		timeBetween time.Duration
		expect      event.Type
	}{
		{
			name:        "second press while held is a repeat",
			timeBetween: 50 * time.Millisecond,
			expect:      event.Repeat,
		},
		{
			name:        "press after release delay is a fresh press",
			timeBetween: 200 * time.Millisecond,
			expect:      event.Press,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(150 * time.Millisecond)
			start := time.Now()

			assert.Equal(t, event.Press, h.Press("KeyZ", start))

			second := start.Add(tt.timeBetween)
			h.Expire(second)
			assert.Equal(t, tt.expect, h.Press("KeyZ", second))
		})
	}
}

func TestHandler_Expire(t *testing.T) {
	h := NewHandler(150 * time.Millisecond)
	start := time.Now()

	h.Press("KeyZ", start)
	h.Press("KeyX", start.Add(100*time.Millisecond))
	h.Press("ArrowUp", start)

	assert.Empty(t, h.Expire(start.Add(149*time.Millisecond)))
	assert.Equal(t, []string{"ArrowUp", "KeyZ"}, h.Expire(start.Add(150*time.Millisecond)))
	assert.False(t, h.Held("KeyZ"))
	assert.True(t, h.Held("KeyX"))

	assert.Equal(t, []string{"KeyX"}, h.Expire(start.Add(time.Second)))
	assert.Empty(t, h.Expire(start.Add(2*time.Second)))
}

func TestHandler_RepeatKeepsKeyHeld(t *testing.T) {
	h := NewHandler(150 * time.Millisecond)
	start := time.Now()

	// terminals repeat a held key faster than the release delay
	for i := 0; i < 10; i++ {
		now := start.Add(time.Duration(i) * 100 * time.Millisecond)
		assert.Empty(t, h.Expire(now))
		h.Press("Space", now)
	}
	assert.True(t, h.Held("Space"))
}
