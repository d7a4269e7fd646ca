package task

import "time"

// Task is a single tracked item.
type Task struct {
	// ID is unique across all three collections and never changes.
	ID int `json:"id" yaml:"id"`

	// Title is the short summary of the task (max 500 chars).
	Title string `json:"title" yaml:"title"`

	// Description provides additional context about the task.
	Description string `json:"description" yaml:"description"`

	// Status is the current state of the task. It always matches the
	// collection holding the task.
	Status Status `json:"status" yaml:"status"`

	// Priority is the importance level.
	Priority Priority `json:"priority" yaml:"priority"`

	// CreatedAt is when the task was created.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// DueDate is a free-form date hint supplied by the user (nil if unset).
	DueDate *string `json:"due_date" yaml:"due_date"`

	// DurationSeconds is the planned duration. New tasks start at 0; it is
	// only read when resetting elapsed time.
	DurationSeconds int `json:"duration_seconds" yaml:"duration_seconds"`

	// RemainingSeconds is the elapsed time accumulated while the task's
	// timer ran. Despite the name it counts up.
	RemainingSeconds int `json:"remaining_seconds" yaml:"remaining_seconds"`

	// CompletedAt is when the task was last completed (nil unless done).
	CompletedAt *time.Time `json:"completed_at" yaml:"completed_at"`
}

// Elapsed returns the accumulated elapsed time.
func (t Task) Elapsed() time.Duration {
	return time.Duration(t.RemainingSeconds) * time.Second
}

// StringPtr returns a pointer to the provided string.
func StringPtr(value string) *string {
	return &value
}

func cloneTask(t *Task) Task {
	clone := *t
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		clone.CompletedAt = &completedAt
	}
	return clone
}
