package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-neshost/neshost/input/action"
)

func TestDefaultKeyMap(t *testing.T) {
	tests := []struct {
		code   string
		action action.Action
	}{
		{"KeyZ", action.NESButtonA},
		{"KeyX", action.NESButtonB},
		{"Enter", action.NESButtonSelect},
		{"Space", action.NESButtonStart},
		{"ArrowUp", action.NESDPadUp},
		{"ArrowDown", action.NESDPadDown},
		{"ArrowLeft", action.NESDPadLeft},
		{"ArrowRight", action.NESDPadRight},
		{"KeyQ", action.HarnessSlotToggle},
		{"KeyU", action.HarnessUpscaleToggle},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			act, ok := GetDefaultMapping(tt.code)
			require.True(t, ok)
			assert.Equal(t, tt.action, act)
		})
	}

	_, ok := GetDefaultMapping("KeyP")
	assert.False(t, ok)
}

func TestKeyMap_Overrides(t *testing.T) {
	keys, err := KeyMap(map[string]string{
		"KeyA":  "a",
		"KeyZ":  "",
		"Space": "select",
	})
	require.NoError(t, err)

	assert.Equal(t, action.NESButtonA, keys["KeyA"])
	assert.Equal(t, action.NESButtonSelect, keys["Space"])
	_, ok := keys["KeyZ"]
	assert.False(t, ok, "empty action name unbinds the key")

	// defaults are untouched
	assert.Equal(t, action.NESButtonA, DefaultKeyMap["KeyZ"])
}

func TestKeyMap_UnknownAction(t *testing.T) {
	_, err := KeyMap(map[string]string{"KeyA": "jump"})
	assert.ErrorContains(t, err, "KeyA")
}
