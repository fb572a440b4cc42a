package core

import (
	"sort"
	"time"
)

// Deferred queues callbacks until their delay has elapsed and runs them when
// the owning loop polls RunDue. It never starts goroutines, so callbacks run on
// whichever goroutine drives the loop. It is not safe for concurrent use.
type Deferred struct {
	now   func() time.Time
	seq   uint64
	queue []deferredCall
}

type deferredCall struct {
	at  time.Time
	seq uint64
	fn  func()
}

// NewDeferred constructs a Deferred using the wall clock.
func NewDeferred() *Deferred {
	return NewDeferredWithClock(time.Now)
}

// NewDeferredWithClock constructs a Deferred reading time from now.
func NewDeferredWithClock(now func() time.Time) *Deferred {
	if now == nil {
		now = time.Now
	}
	return &Deferred{now: now}
}

// Schedule queues fn to run on the first RunDue at or after delay from now.
func (d *Deferred) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	d.seq++
	d.queue = append(d.queue, deferredCall{at: d.now().Add(delay), seq: d.seq, fn: fn})
}

// RunDue runs every callback whose deadline has passed, earliest first, and
// returns how many ran. Callbacks scheduled while running wait for the next
// poll even when their delay is zero.
func (d *Deferred) RunDue() int {
	if len(d.queue) == 0 {
		return 0
	}
	now := d.now()
	sort.Slice(d.queue, func(i, j int) bool {
		if d.queue[i].at.Equal(d.queue[j].at) {
			return d.queue[i].seq < d.queue[j].seq
		}
		return d.queue[i].at.Before(d.queue[j].at)
	})
	n := 0
	for n < len(d.queue) && !d.queue[n].at.After(now) {
		n++
	}
	if n == 0 {
		return 0
	}
	due := append([]deferredCall(nil), d.queue[:n]...)
	d.queue = append(d.queue[:0], d.queue[n:]...)
	for _, call := range due {
		call.fn()
	}
	return n
}

// Len returns the number of queued callbacks.
func (d *Deferred) Len() int { return len(d.queue) }

// Clear drops every queued callback.
func (d *Deferred) Clear() { d.queue = d.queue[:0] }
