package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButtons_String(t *testing.T) {
	tests := []struct {
		name     string
		buttons  Buttons
		expected string
	}{
		{"empty", 0, "none"},
		{"single", ButtonStart, "Start"},
		{"combined in shift order", ButtonRight | ButtonA | ButtonUp, "A+Up+Right"},
		{"all", 0xFF, "A+B+Select+Start+Up+Down+Left+Right"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.buttons.String())
		})
	}
}

func TestButtons_Has(t *testing.T) {
	m := ButtonA | ButtonLeft
	assert.True(t, m.Has(ButtonA))
	assert.True(t, m.Has(ButtonA|ButtonLeft))
	assert.False(t, m.Has(ButtonA|ButtonB))
}

func TestSlot(t *testing.T) {
	assert.True(t, Slot0.Valid())
	assert.True(t, Slot1.Valid())
	assert.False(t, Slot(2).Valid())
	assert.Equal(t, Slot1, Slot0.Other())
	assert.Equal(t, Slot0, Slot1.Other())
}

func TestDeviceKind_String(t *testing.T) {
	assert.Equal(t, "joypad", Joypad.String())
	assert.Equal(t, "zapper", Zapper.String())
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "unknown(7)", DeviceKind(7).String())
}
