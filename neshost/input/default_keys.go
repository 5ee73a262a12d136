package input

import (
	"fmt"

	"github.com/valerio/go-neshost/neshost/input/action"
)

// DefaultKeyMap maps browser-style key codes to actions. Backends translate their
// native key events into these codes before handing them to the harness.
var DefaultKeyMap = map[string]action.Action{
	// NES controls
	"KeyZ":       action.NESButtonA,
	"KeyX":       action.NESButtonB,
	"Enter":      action.NESButtonSelect,
	"Space":      action.NESButtonStart,
	"ArrowUp":    action.NESDPadUp,
	"ArrowDown":  action.NESDPadDown,
	"ArrowLeft":  action.NESDPadLeft,
	"ArrowRight": action.NESDPadRight,

	// Harness controls
	"KeyQ":   action.HarnessSlotToggle,
	"KeyU":   action.HarnessUpscaleToggle,
	"F12":    action.HarnessSnapshot,
	"Escape": action.HarnessQuit,
}

// GetDefaultMapping returns the default action for a key, if one exists
func GetDefaultMapping(code string) (action.Action, bool) {
	act, ok := DefaultKeyMap[code]
	return act, ok
}

// KeyMap returns a copy of DefaultKeyMap with overrides applied. Overrides map key
// codes to action names; an empty name unbinds the key.
func KeyMap(overrides map[string]string) (map[string]action.Action, error) {
	keys := make(map[string]action.Action, len(DefaultKeyMap)+len(overrides))
	for code, act := range DefaultKeyMap {
		keys[code] = act
	}
	for code, name := range overrides {
		if name == "" {
			delete(keys, code)
			continue
		}
		act, err := action.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("key %s: %w", code, err)
		}
		keys[code] = act
	}
	return keys, nil
}
