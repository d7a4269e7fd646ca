package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// wireTask mirrors the stored JSON object. Every field is a pointer so that
// an absent (or null) key can be told apart from a zero value.
type wireTask struct {
	ID               *flexInt `json:"id"`
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	Status           *string  `json:"status"`
	Priority         *string  `json:"priority"`
	CreatedAt        *string  `json:"created_at"`
	DueDate          *string  `json:"due_date"`
	DurationSeconds  *flexInt `json:"duration_seconds"`
	RemainingSeconds *flexInt `json:"remaining_seconds"`
	CompletedAt      *string  `json:"completed_at"`
}

// DecodeTask decodes one stored task object, filling a default for every
// absent field:
//
//	id                 0
//	title, description ""
//	status             pending (also for unknown values)
//	priority           low (also for unknown values)
//	created_at         now
//	due_date           nil (an empty string is nil too)
//	duration_seconds   0
//	remaining_seconds  duration_seconds
//	completed_at       nil
//
// Negative second counts are clamped to 0. Timestamps may be RFC 3339 or
// offset-less ISO 8601 (date and time, or date only), which is read in the
// local time zone. A timestamp in any other form is treated as absent.
func DecodeTask(data []byte, now time.Time) (Task, error) {
	return decodeTask(data, now, nil)
}

// decodeTask is DecodeTask, reporting each field it had to replace with a
// default to warn.
func decodeTask(data []byte, now time.Time, warn func(note string)) (Task, error) {
	if warn == nil {
		warn = func(string) {}
	}

	var wire wireTask
	if err := json.Unmarshal(data, &wire); err != nil {
		return Task{}, err
	}

	decoded := Task{
		Status:    StatusPending,
		Priority:  PriorityLow,
		CreatedAt: now,
	}

	if wire.ID != nil {
		decoded.ID = int(*wire.ID)
	}
	if wire.Title != nil {
		decoded.Title = *wire.Title
	}
	if wire.Description != nil {
		decoded.Description = *wire.Description
	}
	if wire.Status != nil {
		if status := Status(strings.ToLower(strings.TrimSpace(*wire.Status))); status.IsValid() {
			decoded.Status = status
		}
	}
	if wire.Priority != nil {
		if priority := Priority(strings.ToLower(strings.TrimSpace(*wire.Priority))); priority.IsValid() {
			decoded.Priority = priority
		}
	}
	if wire.CreatedAt != nil {
		if createdAt, err := parseTimestamp(*wire.CreatedAt); err != nil {
			warn(fmt.Sprintf("created_at: %v; using load time", err))
		} else {
			decoded.CreatedAt = createdAt
		}
	}
	if wire.DueDate != nil && strings.TrimSpace(*wire.DueDate) != "" {
		due := *wire.DueDate
		decoded.DueDate = &due
	}
	if wire.DurationSeconds != nil {
		decoded.DurationSeconds = clampSeconds(int(*wire.DurationSeconds))
	}
	if wire.RemainingSeconds != nil {
		decoded.RemainingSeconds = clampSeconds(int(*wire.RemainingSeconds))
	} else {
		decoded.RemainingSeconds = decoded.DurationSeconds
	}
	if wire.CompletedAt != nil && strings.TrimSpace(*wire.CompletedAt) != "" {
		if completedAt, err := parseTimestamp(*wire.CompletedAt); err != nil {
			warn(fmt.Sprintf("completed_at: %v; leaving it unset", err))
		} else {
			decoded.CompletedAt = &completedAt
		}
	}

	return decoded, nil
}

var offsetLessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return parsed, nil
	}
	for _, layout := range offsetLessLayouts {
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func clampSeconds(seconds int) int {
	if seconds < 0 {
		return 0
	}
	return seconds
}

// flexInt accepts a JSON number or a string holding an integer.
type flexInt int

func (v *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		text = strings.TrimSpace(s)
	}

	if n, err := strconv.Atoi(text); err == nil {
		*v = flexInt(n)
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("not an integer: %s", text)
	}
	*v = flexInt(int(f))
	return nil
}
