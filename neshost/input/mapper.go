package input

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/input/action"
)

// pendingRelease is a key-up waiting for the frame boundary at which it is applied
type pendingRelease struct {
	button core.Buttons
	slot   core.Slot
	due    uint64
}

// State is the controller state owned by the harness between frames.
type State struct {
	// ActiveSlot is the controller port gameplay keys are routed to.
	ActiveSlot core.Slot
	// Buttons holds the intended bitmask per port: a bit is set while its key is
	// held, and stays set until the deferred release is drained.
	Buttons [core.SlotCount]core.Buttons

	// held maps each gameplay key that is down to the slot it was pressed on
	held    map[string]core.Slot
	pending []pendingRelease
}

// Pending returns the number of releases not yet applied to the core.
func (s *State) Pending() int {
	return len(s.pending)
}

func (s *State) cancelRelease(b core.Buttons, slot core.Slot) bool {
	for i, p := range s.pending {
		if p.button == b && p.slot == slot {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// heldOn reports whether a key other than except is down on slot and bound to b.
func (m *Mapper) heldOn(st *State, b core.Buttons, slot core.Slot, except string) bool {
	for code, s := range st.held {
		if code == except || s != slot {
			continue
		}
		if other, _ := m.keys[code].Button(); other == b {
			return true
		}
	}
	return false
}

// Mapper translates host key events into controller state changes on the core.
type Mapper struct {
	keys        map[string]action.Action
	controllers core.Controllers
}

// NewMapper creates a mapper over the given key table. A nil table uses DefaultKeyMap.
func NewMapper(controllers core.Controllers, keys map[string]action.Action) *Mapper {
	if keys == nil {
		keys = DefaultKeyMap
	}
	return &Mapper{
		keys:        keys,
		controllers: controllers,
	}
}

// Lookup returns the action bound to a key code.
func (m *Mapper) Lookup(code string) (action.Action, bool) {
	act, ok := m.keys[code]
	return act, ok
}

// KeyDown applies a key press. Gameplay keys set the button on the active slot and
// reach the core immediately, unless the button is already held. The slot toggle
// flips the active slot. Any other hotkey is returned for the caller to act on;
// the returned bool is false when there is nothing to act on.
func (m *Mapper) KeyDown(st *State, evt backend.KeyEvent) (action.Action, bool, error) {
	act, ok := m.keys[evt.Code]
	if !ok {
		return 0, false, nil
	}

	if b, isButton := act.Button(); isButton {
		slot, down := st.held[evt.Code]
		if !down {
			slot = st.ActiveSlot
			if st.held == nil {
				st.held = make(map[string]core.Slot)
			}
			st.held[evt.Code] = slot
		}
		st.cancelRelease(b, slot)
		if st.Buttons[slot].Has(b) {
			return act, false, nil
		}
		st.Buttons[slot] |= b
		if err := m.controllers.KeyDown(b, slot); err != nil {
			return act, false, fmt.Errorf("key down %s on slot %d: %w", b, slot, err)
		}
		return act, false, nil
	}

	if evt.Repeat {
		return act, false, nil
	}

	if act == action.HarnessSlotToggle {
		st.ActiveSlot = st.ActiveSlot.Other()
		slog.Debug("Active controller slot changed", "slot", st.ActiveSlot)
	}
	return act, true, nil
}

// KeyUp schedules the release of a gameplay key for the frame after frameIndex,
// on the slot the key was pressed on. The button stays set, and the core keeps
// seeing it held, until DrainReleases reaches that frame. Nothing is released
// while another held key is bound to the same button on that slot. Hotkeys act
// on press only and are ignored here.
func (m *Mapper) KeyUp(st *State, frameIndex uint64, evt backend.KeyEvent) {
	act, ok := m.keys[evt.Code]
	if !ok {
		return
	}
	b, isButton := act.Button()
	if !isButton {
		return
	}

	slot, down := st.held[evt.Code]
	if !down {
		// pressed before the harness was listening
		slot = st.ActiveSlot
	}
	delete(st.held, evt.Code)
	if m.heldOn(st, b, slot, evt.Code) {
		return
	}

	for i, p := range st.pending {
		if p.button == b && p.slot == slot {
			st.pending[i].due = frameIndex + 1
			return
		}
	}
	st.pending = append(st.pending, pendingRelease{button: b, slot: slot, due: frameIndex + 1})
}

// DrainReleases applies every pending release due at or before frameIndex, in the
// order the keys went up. On a core error the remaining releases stay queued.
func (m *Mapper) DrainReleases(st *State, frameIndex uint64) error {
	kept := st.pending[:0]
	var err error
	for _, p := range st.pending {
		if err != nil || p.due > frameIndex {
			kept = append(kept, p)
			continue
		}
		st.Buttons[p.slot] &^= p.button
		if e := m.controllers.KeyUp(p.button, p.slot); e != nil {
			err = fmt.Errorf("key up %s on slot %d: %w", p.button, p.slot, e)
		}
	}
	st.pending = kept
	return err
}
