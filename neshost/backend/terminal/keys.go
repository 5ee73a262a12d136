package terminal

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// tcellKeyCodes converts special tcell keys to browser key codes
var tcellKeyCodes = map[tcell.Key]string{
	tcell.KeyEnter:  "Enter",
	tcell.KeyUp:     "ArrowUp",
	tcell.KeyDown:   "ArrowDown",
	tcell.KeyLeft:   "ArrowLeft",
	tcell.KeyRight:  "ArrowRight",
	tcell.KeyEscape: "Escape",
	tcell.KeyTab:    "Tab",
	tcell.KeyF1:     "F1",
	tcell.KeyF2:     "F2",
	tcell.KeyF3:     "F3",
	tcell.KeyF4:     "F4",
	tcell.KeyF5:     "F5",
	tcell.KeyF6:     "F6",
	tcell.KeyF7:     "F7",
	tcell.KeyF8:     "F8",
	tcell.KeyF9:     "F9",
	tcell.KeyF10:    "F10",
	tcell.KeyF11:    "F11",
	tcell.KeyF12:    "F12",
}

// KeyCode returns the browser key code for a tcell key event, so the harness key
// map applies unchanged. Letters map case-insensitively to "KeyA".."KeyZ".
func KeyCode(ev *tcell.EventKey) (string, bool) {
	if ev.Key() != tcell.KeyRune {
		code, ok := tcellKeyCodes[ev.Key()]
		return code, ok
	}

	r := ev.Rune()
	switch {
	case r == ' ':
		return "Space", true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return "Key" + string(unicode.ToUpper(r)), true
	case r >= '0' && r <= '9':
		return "Digit" + string(r), true
	}
	return "", false
}
