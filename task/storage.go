package task

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/amonks/tock/internal/jsonfile"
)

// ReadTasks reads a collection file. A missing file yields no tasks and no
// error. Content that cannot be decoded yields an error wrapping
// ErrStoreCorrupt; missing fields inside records are defaulted by DecodeTask,
// with now standing in for an absent created_at.
func ReadTasks(path string, now time.Time) ([]Task, error) {
	return readTasks(path, now, nil)
}

// readTasks is ReadTasks, passing each defaulted field to warn along with the
// record it came from.
func readTasks(path string, now time.Time, warn func(record int, note string)) ([]Task, error) {
	data, ok, err := jsonfile.Read(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStoreCorrupt, path, err)
	}

	tasks := make([]Task, 0, len(records))
	for i, record := range records {
		var recordWarn func(string)
		if warn != nil {
			recordWarn = func(note string) { warn(i, note) }
		}
		decoded, err := decodeTask(record, now, recordWarn)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: record %d: %v", ErrStoreCorrupt, path, i, err)
		}
		tasks = append(tasks, decoded)
	}
	return tasks, nil
}

// WriteTasks replaces the collection file at path with tasks.
func WriteTasks(path string, tasks []Task) error {
	if tasks == nil {
		tasks = []Task{}
	}
	if err := jsonfile.Write(path, tasks); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// NextID returns the ID for a new task: 1 when every collection is empty,
// otherwise one more than the largest ID in any of them.
func NextID(collections ...[]Task) int {
	maxID := 0
	for _, tasks := range collections {
		for _, t := range tasks {
			if t.ID > maxID {
				maxID = t.ID
			}
		}
	}
	return maxID + 1
}
