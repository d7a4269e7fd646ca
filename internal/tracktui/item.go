package tracktui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	internalstrings "github.com/amonks/tock/internal/strings"
	"github.com/amonks/tock/internal/ui"
	"github.com/amonks/tock/task"
)

type taskItem struct {
	task    task.Task
	running bool
}

func (i taskItem) FilterValue() string {
	return i.task.Title + " " + i.task.Description
}

type itemDelegate struct {
	normalStyle   lipgloss.Style
	selectedStyle lipgloss.Style
}

func newItemDelegate() itemDelegate {
	return itemDelegate{
		normalStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")),
	}
}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(taskItem)
	if !ok {
		return
	}

	marker := " "
	if item.running {
		marker = ">"
	}
	badge := lipgloss.NewStyle().Foreground(ui.PriorityColor(item.task)).Render(priorityInitial(item.task))
	prefix := fmt.Sprintf("%s %s %s ", marker, ui.FormatElapsed(item.task.RemainingSeconds), badge)

	style := d.normalStyle
	if index == m.Index() {
		style = d.selectedStyle
	}
	width := m.Width() - lipgloss.Width(prefix)
	fmt.Fprint(w, prefix+style.Render(formatItemText(item.task, width)))
}

func priorityInitial(t task.Task) string {
	switch t.Status {
	case task.StatusDone:
		return "✓"
	case task.StatusArchived:
		return "-"
	}
	if t.Priority == "" {
		return "?"
	}
	return strings.ToUpper(string(t.Priority)[:1])
}

// formatItemText is the title, followed by the first line of the
// description when it fits.
func formatItemText(t task.Task, width int) string {
	if width <= 0 {
		return ""
	}
	title := internalstrings.NormalizeWhitespace(t.Title)
	if desc := internalstrings.FirstLine(t.Description); desc != "" {
		full := title + " - " + desc
		if lipgloss.Width(full) <= width {
			return full
		}
	}
	return ui.TruncateCell(title, width)
}
