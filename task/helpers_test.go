package task

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/tock/internal/sched"
)

type testClock struct {
	now time.Time
}

// Now returns a time one minute after the previous call, so creation order
// and creation time agree.
func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.lines = append(l.lines, "INFO "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Warnf(format string, args ...any) {
	l.lines = append(l.lines, "WARN "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.lines = append(l.lines, "ERROR "+fmt.Sprintf(format, args...))
}

func testFiles(dir string) Files {
	return Files{
		Active:   filepath.Join(dir, "tasks.json"),
		Archived: filepath.Join(dir, "archive.json"),
		Finished: filepath.Join(dir, "finished.json"),
	}
}

type testEnv struct {
	engine *Engine
	queue  *sched.Queue
	files  Files
	logger *recordingLogger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return openTestEnv(t, testFiles(t.TempDir()))
}

func openTestEnv(t *testing.T, files Files) *testEnv {
	t.Helper()
	logger := &recordingLogger{}
	queue := sched.NewQueue()
	clock := &testClock{now: time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)}
	engine := NewEngine(OpenStore(files, logger), EngineOptions{
		Scheduler: queue,
		Logger:    logger,
		Now:       clock.Now,
	})
	return &testEnv{engine: engine, queue: queue, files: files, logger: logger}
}

func (env *testEnv) create(t *testing.T, title string) Task {
	t.Helper()
	created, err := env.engine.Create(CreateOptions{Title: title})
	if err != nil {
		t.Fatalf("create %q: %v", title, err)
	}
	return created
}

func (env *testEnv) checkInvariants(t *testing.T) {
	t.Helper()
	if err := env.engine.CheckInvariants(); err != nil {
		t.Fatalf("invariant violated: %v", err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readStored(t *testing.T, path string) []Task {
	t.Helper()
	tasks, err := ReadTasks(path, time.Now())
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return tasks
}

func ids(tasks []Task) []int {
	result := make([]int, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, t.ID)
	}
	return result
}

func equalIDs(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameTask(a, b Task) bool {
	if a.ID != b.ID || a.Title != b.Title || a.Description != b.Description ||
		a.Status != b.Status || a.Priority != b.Priority ||
		a.DurationSeconds != b.DurationSeconds || a.RemainingSeconds != b.RemainingSeconds {
		return false
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return false
	}
	if (a.DueDate == nil) != (b.DueDate == nil) || (a.DueDate != nil && *a.DueDate != *b.DueDate) {
		return false
	}
	if (a.CompletedAt == nil) != (b.CompletedAt == nil) || (a.CompletedAt != nil && !a.CompletedAt.Equal(*b.CompletedAt)) {
		return false
	}
	return true
}
