//go:build sdl2

package sdl2

import "github.com/veandco/go-sdl2/sdl"

var scancodeKeyCodes = map[sdl.Scancode]string{
	sdl.SCANCODE_RETURN: "Enter",
	sdl.SCANCODE_SPACE:  "Space",
	sdl.SCANCODE_ESCAPE: "Escape",
	sdl.SCANCODE_TAB:    "Tab",
	sdl.SCANCODE_UP:     "ArrowUp",
	sdl.SCANCODE_DOWN:   "ArrowDown",
	sdl.SCANCODE_LEFT:   "ArrowLeft",
	sdl.SCANCODE_RIGHT:  "ArrowRight",
	sdl.SCANCODE_LSHIFT: "ShiftLeft",
	sdl.SCANCODE_RSHIFT: "ShiftRight",
	sdl.SCANCODE_F1:     "F1",
	sdl.SCANCODE_F2:     "F2",
	sdl.SCANCODE_F3:     "F3",
	sdl.SCANCODE_F4:     "F4",
	sdl.SCANCODE_F5:     "F5",
	sdl.SCANCODE_F6:     "F6",
	sdl.SCANCODE_F7:     "F7",
	sdl.SCANCODE_F8:     "F8",
	sdl.SCANCODE_F9:     "F9",
	sdl.SCANCODE_F10:    "F10",
	sdl.SCANCODE_F11:    "F11",
	sdl.SCANCODE_F12:    "F12",
}

// KeyCode returns the browser key code for a physical key. Scancodes are layout
// independent, like KeyboardEvent.code.
func KeyCode(sc sdl.Scancode) (string, bool) {
	switch {
	case sc >= sdl.SCANCODE_A && sc <= sdl.SCANCODE_Z:
		return "Key" + string(rune('A'+int(sc-sdl.SCANCODE_A))), true
	case sc >= sdl.SCANCODE_1 && sc <= sdl.SCANCODE_9:
		return "Digit" + string(rune('1'+int(sc-sdl.SCANCODE_1))), true
	case sc == sdl.SCANCODE_0:
		return "Digit0", true
	}
	code, ok := scancodeKeyCodes[sc]
	return code, ok
}
