package headless_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/backend/headless"
)

func TestHeadlessBackend(t *testing.T) {
	t.Run("runs the frame budget", func(t *testing.T) {
		h := headless.New(3, headless.SnapshotConfig{})
		quit := false
		require.NoError(t, h.Init(backend.BackendConfig{
			Title:     "Test",
			Callbacks: backend.BackendCallbacks{OnQuit: func() { quit = true }},
		}))

		var at []time.Duration
		var frame backend.FrameFunc
		frame = func(now time.Time) error {
			at = append(at, now.Sub(headless.Epoch))
			h.RequestAnimationFrame(frame)
			return nil
		}
		h.RequestAnimationFrame(frame)

		require.NoError(t, h.Run())
		assert.Equal(t, 3, h.Frames())
		require.Len(t, at, 3)
		assert.Less(t, at[0], at[1])
		assert.True(t, quit, "OnQuit is called when the run ends")

		require.NoError(t, h.Cleanup())
	})

	t.Run("stops without frame callbacks", func(t *testing.T) {
		h := headless.New(100, headless.SnapshotConfig{})
		require.NoError(t, h.Run())
		assert.Equal(t, 0, h.Frames())
	})

	t.Run("frame error ends the run", func(t *testing.T) {
		h := headless.New(100, headless.SnapshotConfig{})
		boom := errors.New("boom")
		h.RequestAnimationFrame(func(time.Time) error { return boom })
		assert.ErrorIs(t, h.Run(), boom)
	})

	t.Run("quit", func(t *testing.T) {
		h := headless.New(0, headless.SnapshotConfig{})
		var frame backend.FrameFunc
		frame = func(time.Time) error {
			if h.Frames() == 9 {
				h.Quit()
			}
			h.RequestAnimationFrame(frame)
			return nil
		}
		h.RequestAnimationFrame(frame)
		require.NoError(t, h.Run())
		assert.Equal(t, 10, h.Frames())
	})
}

func TestHeadlessFrameInterval(t *testing.T) {
	h := headless.New(0, headless.SnapshotConfig{})
	h.SetFrameInterval(10 * time.Millisecond)

	h.RequestAnimationFrame(func(time.Time) error {
		// overrun the refresh slot
		h.Advance(25 * time.Millisecond)
		return nil
	})
	require.NoError(t, h.Step())
	assert.Equal(t, headless.Epoch.Add(35*time.Millisecond), h.Now())

	var seen time.Time
	h.RequestAnimationFrame(func(now time.Time) error {
		seen = now
		return nil
	})
	require.NoError(t, h.Step())
	assert.Equal(t, headless.Epoch.Add(35*time.Millisecond), seen, "a late refresh runs immediately")
}

func TestHeadlessInput(t *testing.T) {
	h := headless.New(1, headless.SnapshotConfig{})
	var keys []string
	var pointer backend.PointerEvent
	clicks := 0
	h.Subscribe(backend.Handlers{
		KeyDown:     func(e backend.KeyEvent) { keys = append(keys, "down:"+e.Code) },
		KeyUp:       func(e backend.KeyEvent) { keys = append(keys, "up:"+e.Code) },
		PointerMove: func(e backend.PointerEvent) { pointer = e },
		PointerDown: func(e backend.PointerEvent) { clicks++ },
	})

	h.Press("KeyZ")
	h.Release("KeyZ")
	h.Click(100, 50)

	assert.Equal(t, []string{"down:KeyZ", "up:KeyZ"}, keys)
	assert.Equal(t, backend.PointerEvent{OffsetX: 100, OffsetY: 50, Width: 256, Height: 240}, pointer)
	assert.Equal(t, 1, clicks)
}

func TestHeadlessSnapshots(t *testing.T) {
	dir := t.TempDir()
	cfg, err := headless.CreateSnapshotConfig(2, dir, "/roms/game.nes")
	require.NoError(t, err)
	assert.Equal(t, "game", cfg.ROMName)
	assert.True(t, cfg.Enabled)

	h := headless.New(5, cfg)
	var frame backend.FrameFunc
	frame = func(time.Time) error {
		h.RequestAnimationFrame(frame)
		return h.Surface().Commit()
	}
	h.RequestAnimationFrame(frame)
	require.NoError(t, h.Run())

	// frames 2 and 4, plus the final frame 5
	matches, err := filepath.Glob(filepath.Join(dir, "game_frame_*.png"))
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestCreateSnapshotConfig_Disabled(t *testing.T) {
	cfg, err := headless.CreateSnapshotConfig(0, "", "game.nes")
	require.NoError(t, err)
	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.Directory)
}

func TestHeadlessImplementsBackend(t *testing.T) {
	// Compile-time check that headless.Backend implements backend.Backend
	var _ backend.Backend = (*headless.Backend)(nil)
}
