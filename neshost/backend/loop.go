package backend

import (
	"time"

	"github.com/valerio/go-neshost/neshost/events"
	"github.com/valerio/go-neshost/neshost/input/event"
)

// Loop is the single-goroutine event machinery shared by every backend: an input
// subscription registry, the pending animation-frame callbacks, and a timer queue.
// Backends feed it input and call Tick once per refresh.
type Loop struct {
	queue *events.Queue
	clock func() time.Time

	subs    map[int]Handlers
	nextSub int
	order   []int

	frames []FrameFunc
}

var _ Host = (*Loop)(nil)

// NewLoop creates a loop reading time from clock. A nil clock makes the loop run on
// virtual time that only moves through Advance and AdvanceTo.
func NewLoop(start time.Time, clock func() time.Time) *Loop {
	return &Loop{
		queue: events.NewQueue(start),
		clock: clock,
		subs:  make(map[int]Handlers),
	}
}

// NewRealtimeLoop creates a loop on the wall clock.
func NewRealtimeLoop() *Loop {
	return NewLoop(time.Now(), time.Now)
}

func (l *Loop) Now() time.Time {
	if l.clock == nil {
		return l.queue.Now()
	}
	return l.clock()
}

func (l *Loop) Subscribe(h Handlers) func() {
	id := l.nextSub
	l.nextSub++
	l.subs[id] = h
	l.order = append(l.order, id)
	return func() {
		delete(l.subs, id)
		for i, o := range l.order {
			if o == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
}

func (l *Loop) RequestAnimationFrame(fn FrameFunc) {
	l.frames = append(l.frames, fn)
}

// offset converts a delay from now into a delay from the queue's clock, which only
// catches up with real time on the next Tick.
func (l *Loop) offset(d time.Duration) time.Duration {
	if l.clock == nil {
		return d
	}
	return d + l.clock().Sub(l.queue.Now())
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) events.Timer {
	return l.queue.AfterFunc(l.offset(d), fn)
}

func (l *Loop) Every(d time.Duration, fn func()) events.Timer {
	if l.clock == nil {
		return l.queue.Every(d, fn)
	}
	// first tick d from now, then every d
	var periodic events.Timer
	first := l.queue.AfterFunc(l.offset(d), func() {
		fn()
		periodic = l.queue.Every(d, fn)
	})
	return stopBoth{first: first, periodic: &periodic}
}

type stopBoth struct {
	first    events.Timer
	periodic *events.Timer
}

func (s stopBoth) Stop() bool {
	if s.first.Stop() {
		return true
	}
	if *s.periodic != nil {
		return (*s.periodic).Stop()
	}
	return false
}

// Advance moves virtual time forward by d, firing due timers.
func (l *Loop) Advance(d time.Duration) {
	l.queue.Advance(d)
}

// AdvanceTo moves the timer clock to t, firing due timers.
func (l *Loop) AdvanceTo(t time.Time) {
	l.queue.AdvanceTo(t)
}

// HasFrames reports whether a frame callback is waiting for the next refresh.
func (l *Loop) HasFrames() bool {
	return len(l.frames) > 0
}

// PendingTimers returns the number of timers waiting to fire.
func (l *Loop) PendingTimers() int {
	return l.queue.Pending()
}

// RunFrames calls every frame callback registered before the call. Callbacks
// registered while running wait for the next refresh. The first error stops the
// refresh and is returned; the failed callback is dropped.
func (l *Loop) RunFrames() error {
	frames := l.frames
	l.frames = nil
	now := l.Now()
	for i, fn := range frames {
		if err := fn(now); err != nil {
			l.frames = append(frames[i+1:len(frames):len(frames)], l.frames...)
			return err
		}
	}
	return nil
}

// Tick fires timers due by the current clock reading and then runs one refresh.
func (l *Loop) Tick() error {
	l.queue.AdvanceTo(l.Now())
	return l.RunFrames()
}

func (l *Loop) each(fn func(h Handlers)) {
	ids := append([]int(nil), l.order...)
	for _, id := range ids {
		if h, ok := l.subs[id]; ok {
			fn(h)
		}
	}
}

func (l *Loop) DispatchKeyDown(evt KeyEvent) {
	l.each(func(h Handlers) {
		if h.KeyDown != nil {
			h.KeyDown(evt)
		}
	})
}

func (l *Loop) DispatchKeyUp(evt KeyEvent) {
	l.each(func(h Handlers) {
		if h.KeyUp != nil {
			h.KeyUp(evt)
		}
	})
}

func (l *Loop) DispatchPointerMove(evt PointerEvent) {
	l.each(func(h Handlers) {
		if h.PointerMove != nil {
			h.PointerMove(evt)
		}
	})
}

func (l *Loop) DispatchPointerDown(evt PointerEvent) {
	l.each(func(h Handlers) {
		if h.PointerDown != nil {
			h.PointerDown(evt)
		}
	})
}

// DispatchContextMenu reports whether a handler prevented the host's menu.
func (l *Loop) DispatchContextMenu() bool {
	evt := &ContextMenuEvent{}
	l.each(func(h Handlers) {
		if h.ContextMenu != nil {
			h.ContextMenu(evt)
		}
	})
	return evt.DefaultPrevented()
}

// DispatchKey delivers a key event of the given type for code.
func (l *Loop) DispatchKey(code string, t event.Type) {
	switch t {
	case event.Press:
		l.DispatchKeyDown(KeyEvent{Code: code})
	case event.Repeat:
		l.DispatchKeyDown(KeyEvent{Code: code, Repeat: true})
	case event.Release:
		l.DispatchKeyUp(KeyEvent{Code: code})
	}
}
