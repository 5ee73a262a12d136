package action

import (
	"fmt"

	"github.com/valerio/go-neshost/neshost/core"
)

// Action represents input actions that can be performed in the harness
type Action int

const (
	// NES controller buttons
	NESButtonA Action = iota
	NESButtonB
	NESButtonSelect
	NESButtonStart
	NESDPadUp
	NESDPadDown
	NESDPadLeft
	NESDPadRight

	// Harness features
	HarnessSlotToggle
	HarnessUpscaleToggle
	HarnessSnapshot
	HarnessQuit
)

var names = map[Action]string{
	NESButtonA:           "a",
	NESButtonB:           "b",
	NESButtonSelect:      "select",
	NESButtonStart:       "start",
	NESDPadUp:            "up",
	NESDPadDown:          "down",
	NESDPadLeft:          "left",
	NESDPadRight:         "right",
	HarnessSlotToggle:    "slot-toggle",
	HarnessUpscaleToggle: "upscale-toggle",
	HarnessSnapshot:      "snapshot",
	HarnessQuit:          "quit",
}

var buttons = map[Action]core.Buttons{
	NESButtonA:      core.ButtonA,
	NESButtonB:      core.ButtonB,
	NESButtonSelect: core.ButtonSelect,
	NESButtonStart:  core.ButtonStart,
	NESDPadUp:       core.ButtonUp,
	NESDPadDown:     core.ButtonDown,
	NESDPadLeft:     core.ButtonLeft,
	NESDPadRight:    core.ButtonRight,
}

func (a Action) String() string {
	if n, ok := names[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Button returns the controller button an action presses, if it is one.
func (a Action) Button() (core.Buttons, bool) {
	b, ok := buttons[a]
	return b, ok
}

// Parse resolves an action from its configuration name.
func Parse(name string) (Action, error) {
	for a, n := range names {
		if n == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}
