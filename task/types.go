// Package task implements a single-user task tracker with elapsed-time
// tracking.
//
// Tasks live in exactly one of three collections, each persisted to its own
// JSON file: active (pending tasks), archived, and finished (done tasks).
// All mutations go through the Engine, which moves tasks between
// collections, drives the per-task timers and writes the affected files.
//
// The public API mirrors the CLI commands:
//   - Create, Edit, Complete, Reopen, Archive, Restore, PermanentlyDelete
//     for the task lifecycle
//   - StartTimer, StopTimer, ResetTimer for elapsed time
//   - Get, Query, Stats for reading
package task

import "strings"

// Status represents the state of a task.
type Status string

const (
	// StatusPending indicates the task is in the active collection.
	StatusPending Status = "pending"

	// StatusDone indicates the task has been completed.
	StatusDone Status = "done"

	// StatusArchived indicates the task has been set aside.
	StatusArchived Status = "archived"
)

// ValidStatuses returns all valid status values.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusDone, StatusArchived}
}

// IsValid returns true if the status is a known valid value.
func (s Status) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// Collection returns the collection a task with this status belongs to.
func (s Status) Collection() Collection {
	switch s {
	case StatusDone:
		return Finished
	case StatusArchived:
		return Archived
	default:
		return Active
	}
}

// Priority represents the importance of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low" // default
)

// ValidPriorities returns all valid priority values, most important first.
func ValidPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// IsValid returns true if the priority is a known valid value.
func (p Priority) IsValid() bool {
	for _, valid := range ValidPriorities() {
		if p == valid {
			return true
		}
	}
	return false
}

// Collection names one of the three task collections.
type Collection string

const (
	Active   Collection = "active"
	Archived Collection = "archived"
	Finished Collection = "finished"
)

// Collections returns the collections in load order.
func Collections() []Collection {
	return []Collection{Archived, Finished, Active}
}

// Status returns the status every task in the collection must have.
func (c Collection) Status() Status {
	switch c {
	case Finished:
		return StatusDone
	case Archived:
		return StatusArchived
	default:
		return StatusPending
	}
}

// IsValid returns true if the collection is a known value.
func (c Collection) IsValid() bool {
	switch c {
	case Active, Archived, Finished:
		return true
	default:
		return false
	}
}

// ParseStatus normalizes user input into a Status.
func ParseStatus(value string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	if !status.IsValid() {
		return "", invalidValueError(ErrInvalidStatus, string(status), ValidStatuses())
	}
	return status, nil
}

// ParsePriority normalizes user input into a Priority.
func ParsePriority(value string) (Priority, error) {
	priority := Priority(strings.ToLower(strings.TrimSpace(value)))
	if !priority.IsValid() {
		return "", invalidValueError(ErrInvalidPriority, string(priority), ValidPriorities())
	}
	return priority, nil
}

// ParseCollection normalizes user input into a Collection.
func ParseCollection(value string) (Collection, error) {
	collection := Collection(strings.ToLower(strings.TrimSpace(value)))
	switch collection {
	case "archive":
		collection = Archived
	case "finish", "done":
		collection = Finished
	}
	if !collection.IsValid() {
		return "", invalidValueError(ErrInvalidCollection, string(collection), []Collection{Active, Archived, Finished})
	}
	return collection, nil
}

// MaxTitleLength is the maximum allowed length for a task title.
const MaxTitleLength = 500
