package input

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/core"
	"github.com/valerio/go-neshost/neshost/core/coretest"
	"github.com/valerio/go-neshost/neshost/input/action"
)

func key(code string) backend.KeyEvent {
	return backend.KeyEvent{Code: code}
}

func TestMapper_KeyDownReachesCoreImmediately(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	_, hotkey, err := m.KeyDown(st, key("KeyZ"))
	require.NoError(t, err)
	assert.False(t, hotkey)

	assert.Equal(t, core.ButtonA, st.Buttons[core.Slot0])
	require.Len(t, c.Calls, 1)
	assert.Equal(t, coretest.Call{Method: "KeyDown", Args: []any{core.ButtonA, core.Slot0}}, c.Calls[0])
}

func TestMapper_KeyDownIdempotent(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	for i := 0; i < 3; i++ {
		_, _, err := m.KeyDown(st, key("Space"))
		require.NoError(t, err)
	}
	_, _, err := m.KeyDown(st, backend.KeyEvent{Code: "Space", Repeat: true})
	require.NoError(t, err)

	assert.Len(t, c.CallsTo("KeyDown"), 1)
	assert.Equal(t, core.ButtonStart, st.Buttons[core.Slot0])
}

func TestMapper_KeyUpDeferredToNextFrame(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}
	const frame = 10

	_, _, err := m.KeyDown(st, key("KeyX"))
	require.NoError(t, err)
	m.KeyUp(st, frame, key("KeyX"))

	assert.Equal(t, core.ButtonB, st.Buttons[core.Slot0], "bit stays set until the release is drained")
	assert.Empty(t, c.CallsTo("KeyUp"))
	assert.Equal(t, 1, st.Pending())

	// top of the frame right after the key-up: the simulated frame still sees B held
	require.NoError(t, m.DrainReleases(st, frame))
	assert.Equal(t, core.ButtonB, st.Buttons[core.Slot0])
	assert.Empty(t, c.CallsTo("KeyUp"))

	// following frame boundary: released
	require.NoError(t, m.DrainReleases(st, frame+1))
	assert.Equal(t, core.Buttons(0), st.Buttons[core.Slot0])
	assert.Equal(t, []coretest.Call{{Method: "KeyUp", Args: []any{core.ButtonB, core.Slot0}}}, c.CallsTo("KeyUp"))
	assert.Equal(t, 0, st.Pending())
}

func TestMapper_TapBetweenFramesIsSeen(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	// press and release land between frame 4 and frame 5
	_, _, err := m.KeyDown(st, key("ArrowLeft"))
	require.NoError(t, err)
	m.KeyUp(st, 5, key("ArrowLeft"))

	require.NoError(t, m.DrainReleases(st, 5))
	require.NoError(t, c.SimulateFrame())
	require.NoError(t, m.DrainReleases(st, 6))

	assert.Equal(t, []string{"KeyDown", "SimulateFrame", "KeyUp"}, c.Methods())
}

func TestMapper_RepressCancelsPendingRelease(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	_, _, err := m.KeyDown(st, key("KeyZ"))
	require.NoError(t, err)
	m.KeyUp(st, 3, key("KeyZ"))
	_, _, err = m.KeyDown(st, key("KeyZ"))
	require.NoError(t, err)

	require.NoError(t, m.DrainReleases(st, 10))
	assert.Equal(t, core.ButtonA, st.Buttons[core.Slot0])
	assert.Empty(t, c.CallsTo("KeyUp"))
	assert.Len(t, c.CallsTo("KeyDown"), 1)
}

func TestMapper_DuplicateKeyUpQueuesOnce(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	_, _, err := m.KeyDown(st, key("KeyZ"))
	require.NoError(t, err)
	m.KeyUp(st, 3, key("KeyZ"))
	m.KeyUp(st, 4, key("KeyZ"))
	assert.Equal(t, 1, st.Pending())

	require.NoError(t, m.DrainReleases(st, 4))
	assert.Empty(t, c.CallsTo("KeyUp"), "due frame moved to the later key-up")
	require.NoError(t, m.DrainReleases(st, 5))
	assert.Len(t, c.CallsTo("KeyUp"), 1)
}

func TestMapper_SlotToggleRoutesToOtherSlot(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	act, hotkey, err := m.KeyDown(st, key("KeyQ"))
	require.NoError(t, err)
	assert.True(t, hotkey)
	assert.Equal(t, action.HarnessSlotToggle, act)
	assert.Equal(t, core.Slot1, st.ActiveSlot)

	_, _, err = m.KeyDown(st, key("KeyZ"))
	require.NoError(t, err)
	m.KeyUp(st, 0, key("KeyZ"))
	require.NoError(t, m.DrainReleases(st, 1))

	assert.Equal(t, []coretest.Call{
		{Method: "KeyDown", Args: []any{core.ButtonA, core.Slot1}},
		{Method: "KeyUp", Args: []any{core.ButtonA, core.Slot1}},
	}, c.Calls)
	assert.Equal(t, core.Buttons(0), st.Buttons[core.Slot0])
}

func TestMapper_SlotToggleIgnoresRepeat(t *testing.T) {
	m := NewMapper(coretest.New(), nil)
	st := &State{}

	_, _, err := m.KeyDown(st, key("KeyQ"))
	require.NoError(t, err)
	_, hotkey, err := m.KeyDown(st, backend.KeyEvent{Code: "KeyQ", Repeat: true})
	require.NoError(t, err)
	assert.False(t, hotkey)
	assert.Equal(t, core.Slot1, st.ActiveSlot)

	// key-up of a hotkey does nothing
	m.KeyUp(st, 0, key("KeyQ"))
	assert.Equal(t, core.Slot1, st.ActiveSlot)
	assert.Equal(t, 0, st.Pending())

	_, _, err = m.KeyDown(st, key("KeyQ"))
	require.NoError(t, err)
	assert.Equal(t, core.Slot0, st.ActiveSlot)
}

func TestMapper_ReleaseGoesToSlotOfPress(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	_, _, err := m.KeyDown(st, key("KeyZ"))
	require.NoError(t, err)
	_, _, err = m.KeyDown(st, key("KeyQ"))
	require.NoError(t, err)
	m.KeyUp(st, 4, key("KeyZ"))
	require.NoError(t, m.DrainReleases(st, 5))

	assert.Equal(t, []coretest.Call{
		{Method: "KeyDown", Args: []any{core.ButtonA, core.Slot0}},
		{Method: "KeyUp", Args: []any{core.ButtonA, core.Slot0}},
	}, c.Calls)
	assert.Equal(t, core.Buttons(0), st.Buttons[core.Slot0])
	assert.Equal(t, core.Buttons(0), st.Buttons[core.Slot1])
}

func TestMapper_KeyUpWithoutPressUsesActiveSlot(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{ActiveSlot: core.Slot1}

	m.KeyUp(st, 0, key("KeyX"))
	require.NoError(t, m.DrainReleases(st, 1))
	assert.Equal(t, []coretest.Call{{Method: "KeyUp", Args: []any{core.ButtonB, core.Slot1}}}, c.Calls)
}

func TestMapper_SharedButtonHeldByOtherKey(t *testing.T) {
	c := coretest.New()
	keys, err := KeyMap(map[string]string{"KeyK": "a"})
	require.NoError(t, err)
	m := NewMapper(c, keys)
	st := &State{}

	_, _, err = m.KeyDown(st, key("KeyZ"))
	require.NoError(t, err)
	_, _, err = m.KeyDown(st, key("KeyK"))
	require.NoError(t, err)
	m.KeyUp(st, 0, key("KeyZ"))
	require.NoError(t, m.DrainReleases(st, 1))

	assert.Equal(t, core.ButtonA, st.Buttons[core.Slot0], "KeyK still holds A")
	assert.Empty(t, c.CallsTo("KeyUp"))
	assert.Len(t, c.CallsTo("KeyDown"), 1)

	m.KeyUp(st, 1, key("KeyK"))
	require.NoError(t, m.DrainReleases(st, 2))
	assert.Equal(t, core.Buttons(0), st.Buttons[core.Slot0])
	assert.Equal(t, []coretest.Call{{Method: "KeyUp", Args: []any{core.ButtonA, core.Slot0}}}, c.CallsTo("KeyUp"))
}

func TestMapper_HotkeysReturned(t *testing.T) {
	tests := []struct {
		code string
		want action.Action
	}{
		{"KeyU", action.HarnessUpscaleToggle},
		{"F12", action.HarnessSnapshot},
		{"Escape", action.HarnessQuit},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c := coretest.New()
			m := NewMapper(c, nil)
			act, hotkey, err := m.KeyDown(&State{}, key(tt.code))
			require.NoError(t, err)
			assert.True(t, hotkey)
			assert.Equal(t, tt.want, act)
			assert.Empty(t, c.Calls)
		})
	}
}

func TestMapper_UnmappedKeysIgnored(t *testing.T) {
	c := coretest.New()
	m := NewMapper(c, nil)
	st := &State{}

	_, hotkey, err := m.KeyDown(st, key("KeyP"))
	require.NoError(t, err)
	assert.False(t, hotkey)
	m.KeyUp(st, 0, key("KeyP"))
	require.NoError(t, m.DrainReleases(st, 5))

	assert.Empty(t, c.Calls)
	assert.Equal(t, State{}, *st)
}

func TestMapper_CustomKeyMap(t *testing.T) {
	c := coretest.New()
	keys, err := KeyMap(map[string]string{"KeyJ": "b"})
	require.NoError(t, err)
	m := NewMapper(c, keys)

	_, _, err = m.KeyDown(&State{}, key("KeyJ"))
	require.NoError(t, err)
	assert.Equal(t, []any{core.ButtonB, core.Slot0}, c.Calls[0].Args)

	act, ok := m.Lookup("KeyJ")
	assert.True(t, ok)
	assert.Equal(t, action.NESButtonB, act)
}

func TestMapper_CoreErrors(t *testing.T) {
	c := coretest.New()
	boom := errors.New("boom")
	m := NewMapper(c, nil)
	st := &State{}

	c.Errors["KeyDown"] = boom
	_, _, err := m.KeyDown(st, key("KeyZ"))
	assert.ErrorIs(t, err, boom)

	c.Errors["KeyUp"] = boom
	m.KeyUp(st, 0, key("KeyZ"))
	m.KeyUp(st, 0, key("KeyX"))
	err = m.DrainReleases(st, 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, st.Pending(), "releases after the failing one stay queued")
}
