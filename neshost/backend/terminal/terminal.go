package terminal

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/valerio/go-neshost/neshost/backend"
	"github.com/valerio/go-neshost/neshost/backend/terminal/render"
	"github.com/valerio/go-neshost/neshost/display"
	"github.com/valerio/go-neshost/neshost/input"
	"github.com/valerio/go-neshost/neshost/timing"
	"github.com/valerio/go-neshost/neshost/video"
)

const (
	// frame origin, leaving a one cell border in the background colour
	frameX    = 1
	frameY    = 1
	frameRows = display.Height / 2

	dividerX      = frameX + display.Width + 1
	minTermWidth  = dividerX + 1
	minTermHeight = frameY + frameRows + 2

	logBufferSize = 200
)

// Key expiry timeout - slightly longer than typical key repeat interval
const keyTimeout = 100 * time.Millisecond

// Backend runs the harness in a terminal using tcell. Each NES pixel is one
// column wide and half a row tall. Terminals only report presses, so releases
// are synthesized once a key stops repeating; the mouse drives the light gun.
type Backend struct {
	*backend.Loop

	screen    tcell.Screen
	config    backend.BackendConfig
	surface   *video.FrameBuffer
	limiter   timing.Limiter
	keys      *input.Handler
	logBuffer *render.LogBuffer
	logLevel  *slog.LevelVar
	status    string
	buttons   tcell.ButtonMask

	quit atomic.Bool
}

var (
	_ backend.Backend       = (*Backend)(nil)
	_ backend.StatusDisplay = (*Backend)(nil)
)

// New creates a terminal backend drawing to the process's terminal.
func New() *Backend {
	return NewWithScreen(nil)
}

// NewWithScreen creates a backend drawing to screen, e.g. a simulation screen.
// A nil screen opens the terminal during Init.
func NewWithScreen(screen tcell.Screen) *Backend {
	logLevel := new(slog.LevelVar)
	return &Backend{
		Loop:      backend.NewRealtimeLoop(),
		screen:    screen,
		surface:   video.NewFrameBuffer(display.Width, display.Height),
		keys:      input.NewHandler(keyTimeout),
		logBuffer: render.NewLogBuffer(logBufferSize),
		logLevel:  logLevel,
	}
}

// Init initializes the terminal backend
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config
	t.logLevel.Set(config.LogLevel)

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %w", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	t.screen.EnableMouse()

	// the log pane replaces stderr while the screen is up
	slog.SetDefault(slog.New(render.NewLogBufferHandler(t.logBuffer, t.logLevel)))

	if config.VSync {
		t.limiter = timing.NewTickerLimiter(0)
	} else {
		t.limiter = timing.NewAdaptiveLimiter()
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	go t.handleSignals()

	slog.Info("Terminal backend initialized", "vsync", config.VSync)
	return nil
}

func (t *Backend) Surface() video.Surface {
	return t.surface
}

func (t *Backend) ShowStatus(text string) {
	t.status = text
}

func (t *Backend) Quit() {
	t.quit.Store(true)
}

// Run polls input, fires timers and runs frame callbacks at the NES frame rate
// until quit or a frame callback fails.
func (t *Backend) Run() error {
	defer func() {
		if t.config.Callbacks.OnQuit != nil {
			t.config.Callbacks.OnQuit()
		}
	}()

	t.limiter.Reset()
	for !t.quit.Load() {
		if err := t.step(time.Now()); err != nil {
			return err
		}
		t.limiter.WaitForNextFrame()
	}
	return nil
}

// step runs one loop iteration: input, synthesized releases, timers and frames, then draw.
func (t *Backend) step(now time.Time) error {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev, now)
		case *tcell.EventMouse:
			t.processMouseEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	for _, code := range t.keys.Expire(now) {
		slog.Debug("Key release", "code", code)
		t.DispatchKeyUp(backend.KeyEvent{Code: code})
	}

	if err := t.Tick(); err != nil {
		return err
	}

	t.render()
	t.screen.Show()
	return nil
}

func (t *Backend) Cleanup() error {
	if stopper, ok := t.limiter.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	return nil
}

func (t *Backend) handleSignals() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	<-signals
	t.Quit()
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey, now time.Time) {
	if ev.Key() == tcell.KeyCtrlC {
		t.Quit()
		return
	}
	if ev.Key() == tcell.KeyRune {
		switch ev.Rune() {
		case '+', '=':
			t.changeLogLevel(1)
			return
		case '-', '_':
			t.changeLogLevel(-1)
			return
		}
	}

	code, ok := KeyCode(ev)
	if !ok {
		return
	}
	t.DispatchKey(code, t.keys.Press(code, now))
}

// processMouseEvent turns cells over the frame into pointer events in native
// pixel units. Left press pulls the trigger; right press raises a context menu.
func (t *Backend) processMouseEvent(ev *tcell.EventMouse) {
	pressed := ev.Buttons() &^ t.buttons
	t.buttons = ev.Buttons()

	cx, cy := ev.Position()
	if cx < frameX || cx >= frameX+display.Width || cy < frameY || cy >= frameY+frameRows {
		return
	}
	pe := backend.PointerEvent{
		OffsetX: float64(cx - frameX),
		OffsetY: float64((cy - frameY) * 2),
		Width:   display.Width,
		Height:  display.Height,
	}

	t.DispatchPointerMove(pe)
	if pressed&tcell.Button1 != 0 {
		t.DispatchPointerDown(pe)
	}
	if pressed&tcell.Button2 != 0 {
		t.DispatchContextMenu()
	}
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel.Level()
	newLevel := oldLevel
	switch direction {
	case -1:
		switch oldLevel {
		case slog.LevelDebug:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelError
		}
	case 1:
		switch oldLevel {
		case slog.LevelError:
			newLevel = slog.LevelWarn
		case slog.LevelWarn:
			newLevel = slog.LevelInfo
		case slog.LevelInfo:
			newLevel = slog.LevelDebug
		}
	}
	if oldLevel != newLevel {
		t.logLevel.Set(newLevel)
		slog.Info("Log filter changed", "from", oldLevel, "to", newLevel)
	}
}

func (t *Backend) render() {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, style)
		return
	}

	t.drawBorder()
	t.drawFrame()
	t.drawLogs(dividerX+2, 1, termWidth-dividerX-2, termHeight-1)

	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for y := 0; y < termHeight-1; y++ {
		t.screen.SetContent(dividerX, y, '│', nil, borderStyle)
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	t.drawText(dividerX+2, 0, termWidth, fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel.Level()), titleStyle)
	if t.config.Title != "" {
		t.drawText(frameX+1, 0, display.Width, " "+t.config.Title+" ", titleStyle)
	}

	footer := " Z/X=A/B Enter=Select Space=Start Q=slot U=upscale F12=snapshot ESC=exit "
	if t.status != "" {
		footer = " " + t.status + " |" + footer
	}
	t.drawText(0, termHeight-1, termWidth, footer, borderStyle)
}

// drawBorder fills the cells around the frame with the surface background.
func (t *Backend) drawBorder() {
	style := tcell.StyleDefault.Background(render.RGB(t.surface.Background()))
	for y := frameY - 1; y <= frameY+frameRows; y++ {
		for x := frameX - 1; x <= frameX+display.Width; x++ {
			t.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// drawFrame samples the surface down to native resolution when it is upscaled.
func (t *Backend) drawFrame() {
	w, h := t.surface.Size()
	stepX, stepY := max(w/display.Width, 1), max(h/display.Height, 1)

	pixel := func(x, y int) color.RGBA {
		sx, sy := x*stepX, y*stepY
		if sx >= w || sy >= h {
			return t.surface.Background()
		}
		return t.surface.GetPixel(sx, sy)
	}

	for row := 0; row < frameRows; row++ {
		for x := 0; x < display.Width; x++ {
			r, style := render.HalfBlock(pixel(x, 2*row), pixel(x, 2*row+1))
			t.screen.SetContent(frameX+x, frameY+row, r, nil, style)
		}
	}
}

func (t *Backend) drawLogs(startX, startY, width, endY int) {
	if width <= 0 || startY >= endY {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	logs := t.logBuffer.GetRecent(endY-startY, t.logLevel.Level())
	for i, logEntry := range logs {
		style := infoStyle
		switch {
		case logEntry.Level >= slog.LevelError:
			style = errStyle
		case logEntry.Level >= slog.LevelWarn:
			style = warnStyle
		case logEntry.Level < slog.LevelInfo:
			style = debugStyle
		}

		logText := render.FormatLogEntry(logEntry)
		if len(logText) > width && width > 3 {
			logText = logText[:width-3] + "..."
		}
		t.drawText(startX, startY+i, startX+width, logText, style)
	}
}

// drawText writes s from column x, clipped before column limit.
func (t *Backend) drawText(x, y, limit int, s string, style tcell.Style) {
	for _, ch := range s {
		if x >= limit {
			return
		}
		t.screen.SetContent(x, y, ch, nil, style)
		x++
	}
}
