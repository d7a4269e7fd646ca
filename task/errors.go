package task

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/tock/internal/validation"
)

var (
	// ErrEmptyTitle is returned when a task title is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrTitleTooLong is returned when a task title exceeds MaxTitleLength.
	ErrTitleTooLong = errors.New("title exceeds maximum length")

	// ErrInvalidStatus is returned when an invalid status is provided.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidPriority is returned when an invalid priority is provided.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidCollection is returned when an invalid collection is provided.
	ErrInvalidCollection = errors.New("invalid collection")

	// ErrTaskNotFound is returned when no collection holds the given ID.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidTransition is returned when an operation is not allowed
	// from the task's current status.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrStoreCorrupt is returned when a store file cannot be parsed.
	ErrStoreCorrupt = errors.New("store is corrupt")
)

// TransitionError describes a rejected lifecycle operation.
type TransitionError struct {
	Op     string
	ID     int
	Status Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s task %d: task is %s", e.Op, e.ID, e.Status)
}

// Unwrap makes errors.Is(err, ErrInvalidTransition) hold.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ValidateTitle checks if the title is valid.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("%w: %d > %d", ErrTitleTooLong, len(title), MaxTitleLength)
	}
	return nil
}

func invalidValueError[T ~string](sentinel error, got string, valid []T) error {
	return fmt.Errorf("%w %q: must be %s", sentinel, got, validation.FormatValidValues(valid))
}

func missingTaskError(id int) error {
	return fmt.Errorf("%w: %d", ErrTaskNotFound, id)
}

func notInCollectionError(id int, want, got Collection) error {
	return fmt.Errorf("%w in %s: %d is %s", ErrTaskNotFound, want, id, got)
}
