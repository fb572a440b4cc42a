package life

import (
	"sync"
	"time"
)

// Scheduler runs fn once delay has elapsed. Implementations must not block the
// caller while waiting.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

// ImmediateScheduler runs every callback synchronously and ignores the delay.
// A multi-step chain therefore completes inside the Step call that started it.
type ImmediateScheduler struct{}

// Schedule invokes fn right away.
func (ImmediateScheduler) Schedule(_ time.Duration, fn func()) { fn() }

// TimerScheduler defers callbacks with time.AfterFunc. Callbacks run on timer
// goroutines.
type TimerScheduler struct{}

// Schedule arms a one-shot timer for fn.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(delay time.Duration, fn func())

// Schedule calls f(delay, fn).
func (f SchedulerFunc) Schedule(delay time.Duration, fn func()) { f(delay, fn) }

// Queue collects callbacks without running them. The owner runs them in FIFO
// order with RunNext or Drain, ignoring delays. It suits tests and batch runs
// that want long chains without nested calls.
type Queue struct {
	mu    sync.Mutex
	calls []func()
}

// Schedule appends fn to the queue.
func (q *Queue) Schedule(_ time.Duration, fn func()) {
	q.mu.Lock()
	q.calls = append(q.calls, fn)
	q.mu.Unlock()
}

// Len returns the number of queued callbacks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.calls)
}

// RunNext runs the oldest queued callback and reports whether one ran.
func (q *Queue) RunNext() bool {
	q.mu.Lock()
	if len(q.calls) == 0 {
		q.mu.Unlock()
		return false
	}
	fn := q.calls[0]
	q.calls = q.calls[1:]
	q.mu.Unlock()
	fn()
	return true
}

// Drain runs callbacks until the queue is empty, including ones scheduled
// while draining, and returns how many ran.
func (q *Queue) Drain() int {
	n := 0
	for q.RunNext() {
		n++
	}
	return n
}
