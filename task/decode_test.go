package task

import (
	"strings"
	"testing"
	"time"
)

func TestDecodeTask_MinimalRecordGetsDefaults(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	got, err := DecodeTask([]byte(`{"id":3,"title":"X"}`), now)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.ID != 3 || got.Title != "X" {
		t.Errorf("expected id 3 title X, got %d %q", got.ID, got.Title)
	}
	if got.Status != StatusPending {
		t.Errorf("expected status pending, got %q", got.Status)
	}
	if got.Priority != PriorityLow {
		t.Errorf("expected priority low, got %q", got.Priority)
	}
	if got.DurationSeconds != 0 || got.RemainingSeconds != 0 {
		t.Errorf("expected zero durations, got %d/%d", got.DurationSeconds, got.RemainingSeconds)
	}
	if got.DueDate != nil {
		t.Errorf("expected nil due date, got %q", *got.DueDate)
	}
	if got.CompletedAt != nil {
		t.Errorf("expected nil completed_at, got %v", got.CompletedAt)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at to default to load time, got %v", got.CreatedAt)
	}
	if got.Description != "" {
		t.Errorf("expected empty description, got %q", got.Description)
	}
}

func TestDecodeTask_RemainingInheritsDuration(t *testing.T) {
	got, err := DecodeTask([]byte(`{"id":1,"title":"a","duration_seconds":90}`), time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RemainingSeconds != 90 {
		t.Fatalf("expected remaining to inherit 90, got %d", got.RemainingSeconds)
	}

	got, err = DecodeTask([]byte(`{"id":1,"title":"a","duration_seconds":90,"remaining_seconds":12}`), time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RemainingSeconds != 12 {
		t.Fatalf("expected stored remaining 12, got %d", got.RemainingSeconds)
	}
}

func TestDecodeTask_NullsAreAbsent(t *testing.T) {
	data := `{"id":2,"title":"a","status":null,"priority":null,"due_date":null,"completed_at":null,"remaining_seconds":null,"duration_seconds":4}`
	got, err := DecodeTask([]byte(data), time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusPending || got.Priority != PriorityLow {
		t.Errorf("expected defaults for null status/priority, got %q/%q", got.Status, got.Priority)
	}
	if got.RemainingSeconds != 4 {
		t.Errorf("expected null remaining to inherit duration, got %d", got.RemainingSeconds)
	}
}

func TestDecodeTask_LegacyValues(t *testing.T) {
	data := `{
		"id": "12",
		"title": "legacy",
		"status": " DONE ",
		"priority": "High",
		"created_at": "2025-06-01T14:30:15.123456",
		"due_date": "",
		"duration_seconds": 30.0,
		"remaining_seconds": -5,
		"completed_at": "2025-06-02T08:00:00"
	}`
	got, err := DecodeTask([]byte(data), time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.ID != 12 {
		t.Errorf("expected numeric string id to decode, got %d", got.ID)
	}
	if got.Status != StatusDone {
		t.Errorf("expected status done, got %q", got.Status)
	}
	if got.Priority != PriorityHigh {
		t.Errorf("expected priority high, got %q", got.Priority)
	}
	wantCreated := time.Date(2025, 6, 1, 14, 30, 15, 123456000, time.Local)
	if !got.CreatedAt.Equal(wantCreated) {
		t.Errorf("expected created_at %v, got %v", wantCreated, got.CreatedAt)
	}
	if got.DueDate != nil {
		t.Errorf("expected blank due date to be nil, got %q", *got.DueDate)
	}
	if got.DurationSeconds != 30 {
		t.Errorf("expected duration 30, got %d", got.DurationSeconds)
	}
	if got.RemainingSeconds != 0 {
		t.Errorf("expected negative remaining to clamp to 0, got %d", got.RemainingSeconds)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(time.Date(2025, 6, 2, 8, 0, 0, 0, time.Local)) {
		t.Errorf("expected completed_at to parse, got %v", got.CompletedAt)
	}
}

func TestDecodeTask_DateOnlyTimestamps(t *testing.T) {
	got, err := DecodeTask([]byte(`{"id":2,"title":"legacy","created_at":"2025-06-01","completed_at":"2025-06-03"}`), time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if want := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local); !got.CreatedAt.Equal(want) {
		t.Errorf("expected created_at %v, got %v", want, got.CreatedAt)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(time.Date(2025, 6, 3, 0, 0, 0, 0, time.Local)) {
		t.Errorf("expected completed_at to parse, got %v", got.CompletedAt)
	}
}

func TestDecodeTask_UnrecognizedTimestampsFallBack(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	var notes []string
	got, err := decodeTask([]byte(`{"id":1,"title":"a","created_at":"yesterday","completed_at":"soon"}`), now, func(note string) {
		notes = append(notes, note)
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("expected created_at to default to now, got %v", got.CreatedAt)
	}
	if got.CompletedAt != nil {
		t.Errorf("expected completed_at to be unset, got %v", *got.CompletedAt)
	}
	if got.ID != 1 || got.Title != "a" {
		t.Errorf("expected the rest of the record intact, got %+v", got)
	}
	if len(notes) != 2 || !strings.HasPrefix(notes[0], "created_at:") || !strings.HasPrefix(notes[1], "completed_at:") {
		t.Fatalf("expected a note per defaulted timestamp, got %q", notes)
	}

	if _, err := DecodeTask([]byte(`{"id":1,"created_at":"yesterday"}`), now); err != nil {
		t.Fatalf("expected DecodeTask to accept the record, got %v", err)
	}
}

func TestDecodeTask_UnknownEnumsFallBack(t *testing.T) {
	got, err := DecodeTask([]byte(`{"id":1,"title":"a","status":"in_progress","priority":"urgent"}`), time.Now())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Status != StatusPending {
		t.Errorf("expected unknown status to become pending, got %q", got.Status)
	}
	if got.Priority != PriorityLow {
		t.Errorf("expected unknown priority to become low, got %q", got.Priority)
	}
}

func TestDecodeTask_Rejects(t *testing.T) {
	cases := map[string]string{
		"not an object": `[1,2]`,
		"fractional id": `{"id":1.5}`,
		"word id":       `{"id":"seven"}`,
		"title number":  `{"id":1,"title":5}`,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeTask([]byte(data), time.Now()); err == nil {
				t.Fatalf("expected error for %s", data)
			}
		})
	}
}
