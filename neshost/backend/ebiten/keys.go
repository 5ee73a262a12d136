//go:build ebiten

package ebiten

import "github.com/hajimehoshi/ebiten/v2"

// keyCodes maps ebiten keys to browser key codes.
var keyCodes = map[ebiten.Key]string{
	ebiten.KeyA:          "KeyA",
	ebiten.KeyB:          "KeyB",
	ebiten.KeyC:          "KeyC",
	ebiten.KeyD:          "KeyD",
	ebiten.KeyE:          "KeyE",
	ebiten.KeyF:          "KeyF",
	ebiten.KeyG:          "KeyG",
	ebiten.KeyH:          "KeyH",
	ebiten.KeyI:          "KeyI",
	ebiten.KeyJ:          "KeyJ",
	ebiten.KeyK:          "KeyK",
	ebiten.KeyL:          "KeyL",
	ebiten.KeyM:          "KeyM",
	ebiten.KeyN:          "KeyN",
	ebiten.KeyO:          "KeyO",
	ebiten.KeyP:          "KeyP",
	ebiten.KeyQ:          "KeyQ",
	ebiten.KeyR:          "KeyR",
	ebiten.KeyS:          "KeyS",
	ebiten.KeyT:          "KeyT",
	ebiten.KeyU:          "KeyU",
	ebiten.KeyV:          "KeyV",
	ebiten.KeyW:          "KeyW",
	ebiten.KeyX:          "KeyX",
	ebiten.KeyY:          "KeyY",
	ebiten.KeyZ:          "KeyZ",
	ebiten.KeyDigit0:     "Digit0",
	ebiten.KeyDigit1:     "Digit1",
	ebiten.KeyDigit2:     "Digit2",
	ebiten.KeyDigit3:     "Digit3",
	ebiten.KeyDigit4:     "Digit4",
	ebiten.KeyDigit5:     "Digit5",
	ebiten.KeyDigit6:     "Digit6",
	ebiten.KeyDigit7:     "Digit7",
	ebiten.KeyDigit8:     "Digit8",
	ebiten.KeyDigit9:     "Digit9",
	ebiten.KeyEnter:      "Enter",
	ebiten.KeySpace:      "Space",
	ebiten.KeyEscape:     "Escape",
	ebiten.KeyTab:        "Tab",
	ebiten.KeyShiftLeft:  "ShiftLeft",
	ebiten.KeyShiftRight: "ShiftRight",
	ebiten.KeyArrowUp:    "ArrowUp",
	ebiten.KeyArrowDown:  "ArrowDown",
	ebiten.KeyArrowLeft:  "ArrowLeft",
	ebiten.KeyArrowRight: "ArrowRight",
	ebiten.KeyF1:         "F1",
	ebiten.KeyF2:         "F2",
	ebiten.KeyF3:         "F3",
	ebiten.KeyF4:         "F4",
	ebiten.KeyF5:         "F5",
	ebiten.KeyF6:         "F6",
	ebiten.KeyF7:         "F7",
	ebiten.KeyF8:         "F8",
	ebiten.KeyF9:         "F9",
	ebiten.KeyF10:        "F10",
	ebiten.KeyF11:        "F11",
	ebiten.KeyF12:        "F12",
}

// padKeyCodes maps standard gamepad buttons to the keys bound to the same
// controller buttons by default.
var padKeyCodes = map[ebiten.StandardGamepadButton]string{
	ebiten.StandardGamepadButtonRightBottom: "KeyZ",
	ebiten.StandardGamepadButtonRightRight:  "KeyX",
	ebiten.StandardGamepadButtonCenterLeft:  "Enter",
	ebiten.StandardGamepadButtonCenterRight: "Space",
	ebiten.StandardGamepadButtonLeftTop:     "ArrowUp",
	ebiten.StandardGamepadButtonLeftBottom:  "ArrowDown",
	ebiten.StandardGamepadButtonLeftLeft:    "ArrowLeft",
	ebiten.StandardGamepadButtonLeftRight:   "ArrowRight",
}

// KeyCode returns the browser key code for an ebiten key.
func KeyCode(k ebiten.Key) (string, bool) {
	code, ok := keyCodes[k]
	return code, ok
}
