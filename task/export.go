package task

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Snapshot holds a copy of all three collections.
type Snapshot struct {
	Active   []Task `json:"active" yaml:"active"`
	Archived []Task `json:"archived" yaml:"archived"`
	Finished []Task `json:"finished" yaml:"finished"`
}

// Snapshot copies all three collections.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Active:   nonNil(e.store.Tasks(Active)),
		Archived: nonNil(e.store.Tasks(Archived)),
		Finished: nonNil(e.store.Tasks(Finished)),
	}
}

// ExportFormat names a snapshot encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatYAML ExportFormat = "yaml"
)

// ParseExportFormat normalizes user input into an ExportFormat.
func ParseExportFormat(value string) (ExportFormat, error) {
	switch format := ExportFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case FormatJSON, FormatYAML:
		return format, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q: must be json or yaml", value)
	}
}

// WriteSnapshot encodes snapshot to w.
func WriteSnapshot(w io.Writer, snapshot Snapshot, format ExportFormat) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snapshot); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func nonNil(tasks []Task) []Task {
	if tasks == nil {
		return []Task{}
	}
	return tasks
}
