// Package sched runs recurring callbacks on the goroutine that drives it.
//
// A Queue has no goroutines of its own. Its owner advances virtual time with
// Advance, either from a bubbletea tick message, from Run, or directly in
// tests, and every due callback runs inside that call. Callbacks therefore
// never run concurrently with the owner's other work.
package sched

import (
	"context"
	"time"
)

// Handle identifies a scheduled callback.
type Handle uint64

type entry struct {
	due      time.Duration
	interval time.Duration
	fn       func()
}

// Queue holds recurring callbacks keyed by handle. A Queue is not safe for
// concurrent use.
type Queue struct {
	now     time.Duration
	last    Handle
	entries map[Handle]*entry
}

// NewQueue returns an empty queue at virtual time zero.
func NewQueue() *Queue {
	return &Queue{entries: make(map[Handle]*entry)}
}

// Every schedules fn to run once per interval, first after one interval.
// A non-positive interval is treated as one nanosecond.
func (q *Queue) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		interval = time.Nanosecond
	}
	q.last++
	q.entries[q.last] = &entry{due: q.now + interval, interval: interval, fn: fn}
	return q.last
}

// Cancel removes a callback. It reports whether the handle was scheduled;
// cancelling twice is harmless.
func (q *Queue) Cancel(h Handle) bool {
	if _, ok := q.entries[h]; !ok {
		return false
	}
	delete(q.entries, h)
	return true
}

// Scheduled reports whether the handle is still scheduled.
func (q *Queue) Scheduled(h Handle) bool {
	_, ok := q.entries[h]
	return ok
}

// Len returns the number of scheduled callbacks.
func (q *Queue) Len() int {
	return len(q.entries)
}

// Now returns the queue's virtual time.
func (q *Queue) Now() time.Duration {
	return q.now
}

// Advance moves virtual time forward by d, running every callback that
// comes due, in due order (ties by scheduling order). A recurring callback
// is re-armed before it runs, so it may cancel itself. Returns the number
// of callbacks run.
func (q *Queue) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := q.now + d
	fired := 0
	for {
		e := q.nextDue(target)
		if e == nil {
			break
		}
		q.now = e.due
		e.due += e.interval
		e.fn()
		fired++
	}
	q.now = target
	return fired
}

func (q *Queue) nextDue(target time.Duration) *entry {
	var (
		bestHandle Handle
		best       *entry
	)
	for h, e := range q.entries {
		if e.due > target {
			continue
		}
		if best == nil || e.due < best.due || (e.due == best.due && h < bestHandle) {
			bestHandle, best = h, e
		}
	}
	return best
}

// Run advances the queue by tick on every tick of a wall-clock ticker until
// ctx is done. It blocks the calling goroutine, which is where callbacks
// run. It returns ctx.Err().
func (q *Queue) Run(ctx context.Context, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			q.Advance(tick)
		}
	}
}
