package task

import (
	"sort"
	"time"

	"github.com/amonks/tock/internal/sched"
)

// TickInterval is how often a running timer adds a second of elapsed time.
const TickInterval = time.Second

// Scheduler runs recurring callbacks. *sched.Queue implements it.
type Scheduler interface {
	Every(interval time.Duration, fn func()) sched.Handle
	Cancel(h sched.Handle) bool
}

// Tracker owns one recurring callback per running timer.
type Tracker struct {
	scheduler Scheduler
	handles   map[int]sched.Handle
}

// NewTracker returns a tracker that schedules ticks on scheduler.
func NewTracker(scheduler Scheduler) *Tracker {
	return &Tracker{
		scheduler: scheduler,
		handles:   make(map[int]sched.Handle),
	}
}

// Start begins calling tick once per TickInterval for the task. When tick
// returns false the timer stops itself. Returns false, without scheduling
// anything, if the timer is already running.
func (t *Tracker) Start(id int, tick func() bool) bool {
	if _, ok := t.handles[id]; ok {
		return false
	}
	var handle sched.Handle
	handle = t.scheduler.Every(TickInterval, func() {
		if current, ok := t.handles[id]; !ok || current != handle {
			t.scheduler.Cancel(handle)
			return
		}
		if !tick() {
			t.Stop(id)
		}
	})
	t.handles[id] = handle
	return true
}

// Stop cancels the task's timer. Returns false if it was not running.
func (t *Tracker) Stop(id int) bool {
	handle, ok := t.handles[id]
	if !ok {
		return false
	}
	delete(t.handles, id)
	t.scheduler.Cancel(handle)
	return true
}

// Running reports whether the task's timer is running.
func (t *Tracker) Running(id int) bool {
	_, ok := t.handles[id]
	return ok
}

// RunningIDs returns the IDs with running timers in ascending order.
func (t *Tracker) RunningIDs() []int {
	ids := make([]int, 0, len(t.handles))
	for id := range t.handles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// StopAll cancels every running timer and returns the IDs it stopped.
func (t *Tracker) StopAll() []int {
	ids := t.RunningIDs()
	for _, id := range ids {
		t.Stop(id)
	}
	return ids
}
