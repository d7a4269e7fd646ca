package task

import (
	"strings"
	"time"

	"github.com/amonks/tock/internal/sched"
)

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventChanged follows every operation that changed tasks or timers.
	EventChanged EventKind = iota

	// EventTick reports a running timer adding a second.
	EventTick

	// EventWarning reports a failed save. In-memory state is kept and the
	// file is rewritten by the next successful save.
	EventWarning
)

// Event is delivered to subscribers.
type Event struct {
	Kind EventKind
	// Op names the operation that produced the event ("create", "tick", ...).
	Op     string
	TaskID int
	// Elapsed is the task's elapsed seconds, set for EventTick.
	Elapsed int
	// Err is set for EventWarning.
	Err error
}

// EngineOptions configures an Engine.
type EngineOptions struct {
	// Scheduler runs timer ticks. If nil, a sched.Queue that is never
	// advanced is used, so timers start and stop but never tick.
	Scheduler Scheduler

	// Logger receives one line per lifecycle event. If nil, nothing is logged.
	Logger Logger

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Engine applies lifecycle operations to a Store. It is the only writer of
// the store's collections. An Engine is not safe for concurrent use: every
// call, including scheduler callbacks, must happen on one goroutine.
type Engine struct {
	store       *Store
	tracker     *Tracker
	logger      Logger
	now         func() time.Time
	subscribers []subscriber
	lastSubID   int
}

type subscriber struct {
	id int
	fn func(Event)
}

// NewEngine returns an engine operating on store.
func NewEngine(store *Store, opts EngineOptions) *Engine {
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = sched.NewQueue()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		store:   store,
		tracker: NewTracker(scheduler),
		logger:  loggerOrNoop(opts.Logger),
		now:     now,
	}
}

// Subscribe registers fn for every event and returns a function that
// removes it.
func (e *Engine) Subscribe(fn func(Event)) func() {
	e.lastSubID++
	id := e.lastSubID
	e.subscribers = append(e.subscribers, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range e.subscribers {
			if sub.id == id {
				e.subscribers = append(e.subscribers[:i:i], e.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) notify(event Event) {
	for _, sub := range append([]subscriber(nil), e.subscribers...) {
		sub.fn(event)
	}
}

func (e *Engine) changed(op string, id int) {
	e.notify(Event{Kind: EventChanged, Op: op, TaskID: id})
}

// persist saves each collection. Failures are logged and reported as
// EventWarning rather than returned.
func (e *Engine) persist(op string, collections ...Collection) {
	for _, c := range collections {
		if err := e.store.Save(c); err != nil {
			e.logger.Errorf("Error saving %s: %v", e.store.Files().Path(c), err)
			e.notify(Event{Kind: EventWarning, Op: op, Err: err})
		}
	}
}

// CreateOptions configures a new task.
type CreateOptions struct {
	Title       string
	Description string

	// Priority defaults to PriorityLow.
	Priority Priority

	// DueDate is stored as given (trimmed); nil or blank means no due date.
	DueDate *string
}

// Create adds a pending task to the active collection and starts its timer.
func (e *Engine) Create(opts CreateOptions) (Task, error) {
	title := strings.TrimSpace(opts.Title)
	if err := ValidateTitle(title); err != nil {
		return Task{}, err
	}

	priority := PriorityLow
	if strings.TrimSpace(string(opts.Priority)) != "" {
		parsed, err := ParsePriority(string(opts.Priority))
		if err != nil {
			return Task{}, err
		}
		priority = parsed
	}

	t := &Task{
		ID:          e.store.nextID(),
		Title:       title,
		Description: strings.TrimSpace(opts.Description),
		Status:      StatusPending,
		Priority:    priority,
		CreatedAt:   e.now(),
		DueDate:     normalizeDueDate(opts.DueDate),
	}
	e.store.insert(Active, t)
	e.logger.Infof("Added task %d: %s", t.ID, t.Title)

	e.startTimer(t)
	e.persist("create", Active)
	e.changed("create", t.ID)
	return cloneTask(t), nil
}

// EditOptions configures fields to update on a task.
// Nil pointers mean "don't update this field".
type EditOptions struct {
	Title       *string
	Description *string
	Priority    *Priority
	DueDate     *string

	// ClearDueDate removes the due date. It wins over DueDate.
	ClearDueDate bool
}

// Edit updates a pending or done task in place. Status, ID, creation time
// and elapsed time are never touched, and a running timer keeps running.
// Archived tasks must be restored before they can be edited.
func (e *Engine) Edit(id int, opts EditOptions) (Task, error) {
	var title string
	if opts.Title != nil {
		title = strings.TrimSpace(*opts.Title)
		if err := ValidateTitle(title); err != nil {
			return Task{}, err
		}
	}
	var priority Priority
	if opts.Priority != nil {
		parsed, err := ParsePriority(string(*opts.Priority))
		if err != nil {
			return Task{}, err
		}
		priority = parsed
	}

	c, _, t := e.store.find(id)
	if t == nil {
		return Task{}, missingTaskError(id)
	}
	if c == Archived {
		return Task{}, &TransitionError{Op: "edit", ID: id, Status: t.Status}
	}

	if opts.Title != nil {
		t.Title = title
	}
	if opts.Description != nil {
		t.Description = strings.TrimSpace(*opts.Description)
	}
	if opts.Priority != nil {
		t.Priority = priority
	}
	if opts.ClearDueDate {
		t.DueDate = nil
	} else if opts.DueDate != nil {
		t.DueDate = normalizeDueDate(opts.DueDate)
	}
	e.logger.Infof("Updated task %d", t.ID)

	e.persist("edit", c)
	e.changed("edit", t.ID)
	return cloneTask(t), nil
}

// Complete moves a pending task to the finished collection, stopping its
// timer and recording when it was completed.
func (e *Engine) Complete(id int) (Task, error) {
	index, t, err := e.findIn(id, Active, "complete")
	if err != nil {
		return Task{}, err
	}

	e.stopTimer(id)
	e.store.move(Active, index, Finished)
	t.RemainingSeconds = clampSeconds(t.RemainingSeconds)
	completedAt := e.now()
	t.CompletedAt = &completedAt
	e.logger.Infof("Marked done task %d: %s", t.ID, t.Title)

	e.persist("complete", Active, Finished)
	e.changed("complete", t.ID)
	return cloneTask(t), nil
}

// Reopen moves a done task back to the active collection and restarts its
// timer. Elapsed time is kept; if it is zero it is reset to the planned
// duration.
func (e *Engine) Reopen(id int) (Task, error) {
	index, t, err := e.findIn(id, Finished, "reopen")
	if err != nil {
		return Task{}, err
	}

	e.store.move(Finished, index, Active)
	if t.RemainingSeconds == 0 {
		t.RemainingSeconds = t.DurationSeconds
	}
	t.CompletedAt = nil
	e.logger.Infof("Reopened finished task %d: %s", t.ID, t.Title)

	e.startTimer(t)
	e.persist("reopen", Active, Finished)
	e.changed("reopen", t.ID)
	return cloneTask(t), nil
}

// Archive moves a pending task to the archived collection, stopping its
// timer.
func (e *Engine) Archive(id int) (Task, error) {
	index, t, err := e.findIn(id, Active, "archive")
	if err != nil {
		return Task{}, err
	}

	e.stopTimer(id)
	e.store.move(Active, index, Archived)
	e.logger.Infof("Archived task %d: %s", t.ID, t.Title)

	e.persist("archive", Active, Archived)
	e.changed("archive", t.ID)
	return cloneTask(t), nil
}

// Restore moves an archived task back to the active collection with its
// elapsed time intact. Its timer is not started.
func (e *Engine) Restore(id int) (Task, error) {
	index, t, err := e.findIn(id, Archived, "restore")
	if err != nil {
		return Task{}, err
	}

	e.store.move(Archived, index, Active)
	e.logger.Infof("Restored task %d: %s. Remaining archived: %d", t.ID, t.Title, e.store.Len(Archived))

	e.persist("restore", Active, Archived)
	e.changed("restore", t.ID)
	return cloneTask(t), nil
}

// PermanentlyDelete removes a task from the archived or finished
// collection. Active tasks must be archived or completed first.
func (e *Engine) PermanentlyDelete(id int, from Collection) error {
	if !from.IsValid() {
		return invalidValueError(ErrInvalidCollection, string(from), []Collection{Archived, Finished})
	}

	c, index, t := e.store.find(id)
	if t == nil {
		return missingTaskError(id)
	}
	if c == Active {
		return &TransitionError{Op: "permanently delete", ID: id, Status: t.Status}
	}
	if c != from {
		return notInCollectionError(id, from, c)
	}

	e.store.remove(c, index)
	if c == Finished {
		e.logger.Infof("Permanently deleted finished task %d: %s. Remaining finished: %d", t.ID, t.Title, e.store.Len(c))
	} else {
		e.logger.Infof("Permanently deleted task %d: %s. Remaining archived: %d", t.ID, t.Title, e.store.Len(c))
	}

	e.persist("delete", c)
	e.changed("delete", id)
	return nil
}

// StartTimer starts the timer of a pending task. Starting a running timer
// is a no-op.
func (e *Engine) StartTimer(id int) error {
	_, t, err := e.findIn(id, Active, "start timer for")
	if err != nil {
		return err
	}
	if e.tracker.Running(id) {
		return nil
	}
	if t.RemainingSeconds <= 0 {
		t.RemainingSeconds = t.DurationSeconds
	}
	e.startTimer(t)
	e.changed("start", id)
	return nil
}

// StopTimer stops a task's timer and saves the active collection so the
// elapsed time is on disk. Stopping a stopped timer is a no-op.
func (e *Engine) StopTimer(id int) error {
	if _, _, t := e.store.find(id); t == nil {
		return missingTaskError(id)
	}
	if !e.stopTimer(id) {
		return nil
	}
	e.persist("stop", Active)
	e.changed("stop", id)
	return nil
}

// ResetTimer stops a pending task's timer and sets its elapsed time back to
// the planned duration.
func (e *Engine) ResetTimer(id int) (Task, error) {
	_, t, err := e.findIn(id, Active, "reset timer for")
	if err != nil {
		return Task{}, err
	}

	e.stopTimer(id)
	t.RemainingSeconds = t.DurationSeconds
	e.logger.Infof("Reset timer for task %d", id)

	e.persist("reset", Active)
	e.changed("reset", id)
	return cloneTask(t), nil
}

// AutoStart starts a timer for every pending task that has none and
// returns how many it started.
func (e *Engine) AutoStart() int {
	started := 0
	for _, t := range e.store.collections[Active] {
		if e.tracker.Running(t.ID) {
			continue
		}
		e.startTimer(t)
		started++
	}
	if started > 0 {
		e.changed("start", 0)
	}
	return started
}

// TimerRunning reports whether the task's timer is running.
func (e *Engine) TimerRunning(id int) bool {
	return e.tracker.Running(id)
}

// RunningTimers returns the IDs of tasks with running timers.
func (e *Engine) RunningTimers() []int {
	return e.tracker.RunningIDs()
}

// Get returns a copy of a task and the collection holding it.
func (e *Engine) Get(id int) (Task, Collection, error) {
	t, c, ok := e.store.Get(id)
	if !ok {
		return Task{}, "", missingTaskError(id)
	}
	return t, c, nil
}

// Tasks returns a copy of one collection in insertion order.
func (e *Engine) Tasks(c Collection) []Task {
	return e.store.Tasks(c)
}

// Recovered reports collections that could not be loaded.
func (e *Engine) Recovered() []Recovery {
	return e.store.Recovered()
}

// CheckInvariants verifies the store's collection invariants.
func (e *Engine) CheckInvariants() error {
	return e.store.CheckInvariants()
}

// Shutdown stops every running timer and saves all three collections.
// Save failures are logged and returned together; the engine stays usable.
func (e *Engine) Shutdown() error {
	for _, id := range e.tracker.StopAll() {
		e.logger.Infof("Stopped timer for task %d", id)
	}
	if err := e.store.SaveAll(); err != nil {
		e.logger.Errorf("Error saving on shutdown: %v", err)
		return err
	}
	return nil
}

func (e *Engine) findIn(id int, want Collection, op string) (int, *Task, error) {
	c, index, t := e.store.find(id)
	if t == nil {
		return -1, nil, missingTaskError(id)
	}
	if c != want {
		return -1, nil, &TransitionError{Op: op, ID: id, Status: t.Status}
	}
	return index, t, nil
}

func (e *Engine) startTimer(t *Task) {
	id := t.ID
	if e.tracker.Start(id, func() bool { return e.tick(id) }) {
		e.logger.Infof("Started timer for task %d", id)
	}
}

func (e *Engine) stopTimer(id int) bool {
	if !e.tracker.Stop(id) {
		return false
	}
	e.logger.Infof("Stopped timer for task %d", id)
	return true
}

func (e *Engine) tick(id int) bool {
	t := e.store.active(id)
	if t == nil || t.Status != StatusPending {
		e.logger.Infof("Stopped timer for task %d", id)
		return false
	}
	t.RemainingSeconds++
	e.notify(Event{Kind: EventTick, Op: "tick", TaskID: id, Elapsed: t.RemainingSeconds})
	return true
}

func normalizeDueDate(due *string) *string {
	if due == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*due)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
