package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/amonks/tock/task"
)

var (
	priorityColors = map[task.Priority]lipgloss.Color{
		task.PriorityHigh:   lipgloss.Color("#f43f5e"),
		task.PriorityMedium: lipgloss.Color("#6366f1"),
		task.PriorityLow:    lipgloss.Color("#10b981"),
	}
	statusColors = map[task.Status]lipgloss.Color{
		task.StatusDone:     lipgloss.Color("#64748b"),
		task.StatusArchived: lipgloss.Color("#94a3b8"),
	}

	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f59e0b"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ef4444"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981"))
)

// PriorityColor returns the badge color for a task: its status color once
// it is done or archived, else its priority color.
func PriorityColor(t task.Task) lipgloss.Color {
	if color, ok := statusColors[t.Status]; ok {
		return color
	}
	if color, ok := priorityColors[t.Priority]; ok {
		return color
	}
	return lipgloss.Color("#999999")
}

// Badge returns the colored priority or status label shown in lists.
func Badge(t task.Task) string {
	label := string(t.Priority)
	if t.Status != task.StatusPending {
		label = string(t.Status)
	}
	if !ansiEnabled() {
		return label
	}
	return lipgloss.NewStyle().Foreground(PriorityColor(t)).Bold(true).Render(label)
}

// Warning styles a non-fatal message for stderr.
func Warning(msg string) string {
	return render(warningStyle, "warning: "+msg)
}

// Error styles a fatal message for stderr.
func Error(msg string) string {
	return render(errorStyle, "error: "+msg)
}

// Muted renders secondary text.
func Muted(text string) string {
	return render(mutedStyle, text)
}

// Header renders a section heading.
func Header(text string) string {
	return render(headerStyle, text)
}

// Running marks a live timer.
func Running(text string) string {
	return render(runningStyle, text)
}

func render(style lipgloss.Style, text string) string {
	if !ansiEnabled() {
		return text
	}
	return style.Render(text)
}

// ansiEnabled reports whether stdout should get color codes.
var ansiEnabled = func() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
