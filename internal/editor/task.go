package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"

	internalstrings "github.com/amonks/tock/internal/strings"
	"github.com/amonks/tock/task"
)

// TaskData represents the data used to render the TOML template.
type TaskData struct {
	// IsUpdate is true when editing an existing task.
	IsUpdate bool
	// ID is the task ID (only for updates).
	ID int
	// Status is shown as a comment for updates; it cannot be edited here.
	Status      string
	Title       string
	Priority    string
	Due         string
	Description string
}

// DefaultCreateData returns TaskData with default values for creating a new task.
func DefaultCreateData() TaskData {
	return TaskData{
		Priority: string(task.PriorityLow),
	}
}

// DataFromTask creates TaskData from an existing task for editing.
func DataFromTask(t task.Task) TaskData {
	data := TaskData{
		IsUpdate:    true,
		ID:          t.ID,
		Status:      string(t.Status),
		Title:       t.Title,
		Priority:    string(t.Priority),
		Description: t.Description,
	}
	if t.DueDate != nil {
		data.Due = *t.DueDate
	}
	return data
}

var taskTemplate = template.Must(template.New("task").Parse(`
{{- if .IsUpdate }}# task {{ .ID }} ({{ .Status }})
{{ end -}}
title = {{ printf "%q" .Title }}
priority = {{ printf "%q" .Priority }} # high, medium, low
due = {{ printf "%q" .Due }} # free-form, empty for none
---
{{ .Description }}
`))

// RenderTaskTOML renders the task data as a TOML string for editing.
func RenderTaskTOML(data TaskData) (string, error) {
	var buf bytes.Buffer
	if err := taskTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTask represents the parsed result from the TOML editor output.
type ParsedTask struct {
	Title       string        `toml:"title"`
	Priority    task.Priority `toml:"priority"`
	Due         string        `toml:"due"`
	Description string        `toml:"-"`
}

// ParseTaskTOML parses the TOML content from the editor.
func ParseTaskTOML(content string) (*ParsedTask, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var parsed ParsedTask
	meta, err := toml.Decode(frontmatter, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse TOML: unknown key %s", undecoded[0])
	}

	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Due = strings.TrimSpace(parsed.Due)
	parsed.Description = internalstrings.TrimTrailingNewlines(strings.TrimLeft(body, "\n"))

	if err := task.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	if !meta.IsDefined("priority") || strings.TrimSpace(string(parsed.Priority)) == "" {
		parsed.Priority = task.PriorityLow
	} else {
		priority, err := task.ParsePriority(string(parsed.Priority))
		if err != nil {
			return nil, err
		}
		parsed.Priority = priority
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

// EditTask opens the editor for a task and returns the parsed result.
// For create: pass nil for existing.
func EditTask(existing *task.Task) (*ParsedTask, error) {
	data := DefaultCreateData()
	if existing != nil {
		data = DataFromTask(*existing)
	}
	return EditTaskWithData(data)
}

// EditTaskWithData opens the editor with pre-populated data and returns the parsed result.
func EditTaskWithData(data TaskData) (*ParsedTask, error) {
	content, err := RenderTaskTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "tock-task-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}

	return ParseTaskTOML(string(edited))
}

// ToCreateOptions converts a ParsedTask to task.CreateOptions.
func (p *ParsedTask) ToCreateOptions() task.CreateOptions {
	return task.CreateOptions{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		DueDate:     task.StringPtr(p.Due),
	}
}

// ToEditOptions converts a ParsedTask to task.EditOptions. Every field is
// set; an empty due clears the due date.
func (p *ParsedTask) ToEditOptions() task.EditOptions {
	priority := p.Priority
	return task.EditOptions{
		Title:        &p.Title,
		Description:  &p.Description,
		Priority:     &priority,
		DueDate:      task.StringPtr(p.Due),
		ClearDueDate: p.Due == "",
	}
}
