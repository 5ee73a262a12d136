package events

import (
	"container/heap"
	"time"
)

// Timer is a handle on a scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer, false if it had already fired or been stopped.
	Stop() bool
}

// scheduled is a callback waiting in the queue
type scheduled struct {
	due      time.Time
	seq      uint64 // insertion order, breaks ties between equal due times
	interval time.Duration
	fn       func()
	index    int
	stopped  bool
}

func (s *scheduled) Stop() bool {
	if s.stopped {
		return false
	}
	s.stopped = true
	return true
}

type timerHeap []*scheduled

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	s := x.(*scheduled)
	s.index = len(*h)
	*h = append(*h, s)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	s := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return s
}

// Queue holds callbacks scheduled against a clock that only moves when the
// owner advances it. All callbacks run on the goroutine calling AdvanceTo,
// which keeps timer work on the same thread as input and frame callbacks.
type Queue struct {
	now    time.Time
	timers timerHeap
	seq    uint64
}

// NewQueue creates a queue whose clock starts at start.
func NewQueue(start time.Time) *Queue {
	return &Queue{now: start}
}

// Now returns the queue's current time.
func (q *Queue) Now() time.Time {
	return q.now
}

// AfterFunc schedules fn to run once, d after the current queue time.
func (q *Queue) AfterFunc(d time.Duration, fn func()) Timer {
	return q.schedule(d, 0, fn)
}

// Every schedules fn to run every d, starting d after the current queue time.
// A non-positive interval is treated as one nanosecond.
func (q *Queue) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return q.schedule(d, d, fn)
}

func (q *Queue) schedule(d, interval time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	q.seq++
	s := &scheduled{
		due:      q.now.Add(d),
		seq:      q.seq,
		interval: interval,
		fn:       fn,
	}
	heap.Push(&q.timers, s)
	return s
}

// Advance moves the clock forward by d, firing every callback that falls due.
func (q *Queue) Advance(d time.Duration) {
	q.AdvanceTo(q.now.Add(d))
}

// AdvanceTo moves the clock to t, firing due callbacks in due-time order.
// The clock reads each callback's due time while it runs. Moving backwards is a no-op.
func (q *Queue) AdvanceTo(t time.Time) {
	if t.Before(q.now) {
		return
	}

	for len(q.timers) > 0 {
		next := q.timers[0]
		if next.due.After(t) {
			break
		}
		heap.Pop(&q.timers)
		if next.stopped {
			continue
		}

		q.now = next.due
		if next.interval > 0 {
			q.seq++
			next.due = next.due.Add(next.interval)
			next.seq = q.seq
			heap.Push(&q.timers, next)
		} else {
			next.stopped = true
		}
		next.fn()
	}

	q.now = t
}

// Pending returns the number of callbacks still waiting to fire.
func (q *Queue) Pending() int {
	n := 0
	for _, s := range q.timers {
		if !s.stopped {
			n++
		}
	}
	return n
}
