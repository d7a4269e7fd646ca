package main

import (
	"strings"
	"testing"
	"time"

	"github.com/amonks/tock/task"
)

func resetListFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		listStatus, listPriority, listSearch = "", "", ""
		listOldest, listNewest, listArchived, listFinished, listAll = false, false, false, false, false
	})
}

func TestListQueryOptions(t *testing.T) {
	resetListFlags(t)

	opts, err := listQueryOptions(true)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if !opts.Newest || opts.Status != nil || opts.Priority != nil || opts.IncludeArchived {
		t.Fatalf("unexpected defaults %+v", opts)
	}

	listOldest = true
	listFinished = true
	listPriority = "HIGH"
	listAll = true
	opts, err = listQueryOptions(true)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Newest {
		t.Fatal("expected --oldest to win over the configured sort")
	}
	if opts.Status == nil || *opts.Status != task.StatusDone {
		t.Fatalf("expected done status, got %v", opts.Status)
	}
	if opts.Priority == nil || *opts.Priority != task.PriorityHigh {
		t.Fatalf("expected high priority, got %v", opts.Priority)
	}
	if !opts.IncludeArchived {
		t.Fatal("expected --all to include archived")
	}
}

func TestListQueryOptions_Invalid(t *testing.T) {
	resetListFlags(t)

	listStatus = "someday"
	if _, err := listQueryOptions(false); err == nil {
		t.Fatal("expected invalid status to be rejected")
	}
	listStatus = ""
	listPriority = "urgent"
	if _, err := listQueryOptions(false); err == nil {
		t.Fatal("expected invalid priority to be rejected")
	}
}

func TestTaskEmptyListMessage(t *testing.T) {
	done := task.StatusDone
	high := task.PriorityHigh
	cases := []struct {
		name  string
		stats task.Stats
		opts  task.QueryOptions
		want  string
	}{
		{name: "nothing stored", want: "No tasks found."},
		{name: "status filter", stats: task.Stats{Total: 1}, opts: task.QueryOptions{Status: &done}, want: "No done tasks found."},
		{name: "search", stats: task.Stats{Total: 1}, opts: task.QueryOptions{Search: "x"}, want: "No matching tasks found."},
		{name: "priority", stats: task.Stats{Total: 1}, opts: task.QueryOptions{Priority: &high}, want: "No matching tasks found."},
		{name: "only archived", stats: task.Stats{Archived: 2}, want: "No tasks found. Use --all to include archived tasks."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := taskEmptyListMessage(tc.stats, tc.opts); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestFormatTaskTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tasks := []task.Task{
		{ID: 1, Title: "Buy milk", Status: task.StatusPending, Priority: task.PriorityLow, CreatedAt: now.Add(-2 * time.Hour), RemainingSeconds: 65},
		{ID: 12, Title: "Fix bike", Status: task.StatusDone, Priority: task.PriorityHigh, CreatedAt: now.Add(-time.Minute), DueDate: task.StringPtr("friday")},
	}

	got := formatTaskTable(tasks, now)
	want := strings.Join([]string{
		"ID  PRIORITY  ELAPSED   DUE     CREATED  TITLE",
		"1   low       00:01:05  -       2h ago   Buy milk",
		"12  done      00:00:00  friday  1m ago   Fix bike",
		"",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected table:\n%s\nwant:\n%s", got, want)
	}
}
