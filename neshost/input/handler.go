package input

import (
	"sort"
	"time"

	"github.com/valerio/go-neshost/neshost/input/event"
)

// Handler reconstructs key-up and repeat information for hosts that only report
// presses, such as terminals: a press of a key already held is a repeat, and a key
// is released once no press has been seen for the release delay.
type Handler struct {
	lastPress    map[string]time.Time
	releaseDelay time.Duration
}

func NewHandler(releaseDelay time.Duration) *Handler {
	return &Handler{
		lastPress:    make(map[string]time.Time),
		releaseDelay: releaseDelay,
	}
}

// Press records a press of code at now. It returns event.Repeat when the key
// was already held and event.Press otherwise.
func (h *Handler) Press(code string, now time.Time) event.Type {
	_, held := h.lastPress[code]
	h.lastPress[code] = now
	if held {
		return event.Repeat
	}
	return event.Press
}

// Expire forgets every key whose last press is at least the release delay old
// and returns their codes in sorted order.
func (h *Handler) Expire(now time.Time) []string {
	var released []string
	for code, last := range h.lastPress {
		if now.Sub(last) >= h.releaseDelay {
			released = append(released, code)
			delete(h.lastPress, code)
		}
	}
	sort.Strings(released)
	return released
}

// Held reports whether code is currently considered held.
func (h *Handler) Held(code string) bool {
	_, ok := h.lastPress[code]
	return ok
}
