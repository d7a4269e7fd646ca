// Package tracktui is the live tracker view behind "tock track".
//
// The view owns the scheduler queue: every tick message advances it by one
// tick interval inside Update, so timer callbacks, key handling and
// rendering all happen on the bubbletea goroutine.
package tracktui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/amonks/tock/internal/sched"
	"github.com/amonks/tock/internal/ui"
	"github.com/amonks/tock/task"
)

type view int

const (
	viewActive view = iota
	viewFinished
	viewArchived
	viewCount
)

func (v view) status() task.Status {
	switch v {
	case viewFinished:
		return task.StatusDone
	case viewArchived:
		return task.StatusArchived
	default:
		return task.StatusPending
	}
}

func (v view) title() string {
	switch v {
	case viewFinished:
		return "Finished"
	case viewArchived:
		return "Archived"
	default:
		return "Active"
	}
}

type statusLevel int

const (
	statusNone statusLevel = iota
	statusInfo
	statusError
)

// Options configures the tracker view.
type Options struct {
	// AutoStart starts a timer for every pending task when the view opens.
	AutoStart bool

	// NewestFirst sorts tasks by creation time, newest first.
	NewestFirst bool
}

type tickMsg time.Time

// warnings collects save failures reported by the engine between updates.
type warnings struct {
	messages []string
}

func (w *warnings) record(event task.Event) {
	if event.Kind == task.EventWarning && event.Err != nil {
		w.messages = append(w.messages, event.Err.Error())
	}
}

type model struct {
	engine       *task.Engine
	queue        *sched.Queue
	warnings     *warnings
	unsubscribe  func()
	view         view
	newest       bool
	list         list.Model
	width        int
	height       int
	status       string
	statusLevel  statusLevel
	confirmPurge int
}

// Run shows the tracker view until the user quits or ctx ends. The caller
// owns the engine and should shut it down afterwards.
func Run(ctx context.Context, engine *task.Engine, queue *sched.Queue, opts Options) error {
	if engine == nil || queue == nil {
		return fmt.Errorf("engine and queue are required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	m := newModel(engine, queue, opts)
	defer m.unsubscribe()

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func newModel(engine *task.Engine, queue *sched.Queue, opts Options) model {
	taskList := list.New(nil, newItemDelegate(), 0, 0)
	taskList.SetShowTitle(false)
	taskList.SetShowStatusBar(false)
	taskList.SetShowHelp(false)
	taskList.SetShowPagination(false)
	taskList.SetFilteringEnabled(true)

	sink := &warnings{}
	m := model{
		engine:   engine,
		queue:    queue,
		warnings: sink,
		view:     viewActive,
		newest:   opts.NewestFirst,
		list:     taskList,
	}
	m.unsubscribe = engine.Subscribe(sink.record)
	if opts.AutoStart {
		engine.AutoStart()
	}
	m.refresh()
	m.flushWarnings()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(task.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil
	case tickMsg:
		m.queue.Advance(task.TickInterval)
		cmd := m.refresh()
		m.flushWarnings()
		return m, tea.Batch(cmd, tick())
	case tea.KeyMsg:
		if m.confirmPurge != 0 {
			updated, cmd := m.handleConfirm(msg)
			updated.flushWarnings()
			return updated, cmd
		}
		if m.list.FilterState() != list.Filtering {
			if updated, cmd, handled := m.handleKey(msg); handled {
				updated.flushWarnings()
				return updated, cmd
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit, true
	case "tab":
		return m.switchView((m.view + 1) % viewCount)
	case "shift+tab":
		return m.switchView((m.view + viewCount - 1) % viewCount)
	case "1":
		return m.switchView(viewActive)
	case "2":
		return m.switchView(viewFinished)
	case "3":
		return m.switchView(viewArchived)
	case "o":
		m.newest = !m.newest
		if m.newest {
			m.setStatus("Sorted newest first", statusInfo)
		} else {
			m.setStatus("Sorted oldest first", statusInfo)
		}
		return m, m.refresh(), true
	case "d":
		updated, cmd := m.act("Completed", m.engine.Complete)
		return updated, cmd, true
	case "a":
		updated, cmd := m.act("Archived", m.engine.Archive)
		return updated, cmd, true
	case "r":
		op, verb := m.engine.Reopen, "Reopened"
		if m.view == viewArchived {
			op, verb = m.engine.Restore, "Restored"
		}
		updated, cmd := m.act(verb, op)
		return updated, cmd, true
	case "z":
		updated, cmd := m.act("Reset timer for", m.engine.ResetTimer)
		return updated, cmd, true
	case "s", " ":
		updated, cmd := m.toggleTimer()
		return updated, cmd, true
	case "x":
		updated, cmd := m.promptPurge()
		return updated, cmd, true
	}
	return m, nil, false
}

func (m model) switchView(target view) (model, tea.Cmd, bool) {
	if target == m.view {
		return m, nil, true
	}
	m.view = target
	m.list.ResetFilter()
	m.list.Select(0)
	m.confirmPurge = 0
	return m, m.refresh(), true
}

// act applies a lifecycle operation to the selected task.
func (m model) act(verb string, op func(int) (task.Task, error)) (model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		m.setStatus("No task selected", statusError)
		return m, nil
	}
	updated, err := op(item.task.ID)
	if err != nil {
		m.setStatus(err.Error(), statusError)
		return m, nil
	}
	m.setStatus(fmt.Sprintf("%s task %d: %s", verb, updated.ID, updated.Title), statusInfo)
	return m, m.refresh()
}

func (m model) toggleTimer() (model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		m.setStatus("No task selected", statusError)
		return m, nil
	}
	id := item.task.ID
	if m.engine.TimerRunning(id) {
		if err := m.engine.StopTimer(id); err != nil {
			m.setStatus(err.Error(), statusError)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Stopped timer for task %d", id), statusInfo)
	} else {
		if err := m.engine.StartTimer(id); err != nil {
			m.setStatus(err.Error(), statusError)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Started timer for task %d", id), statusInfo)
	}
	return m, m.refresh()
}

func (m model) promptPurge() (model, tea.Cmd) {
	item, ok := m.selectedItem()
	if !ok {
		m.setStatus("No task selected", statusError)
		return m, nil
	}
	if m.view == viewActive {
		err := &task.TransitionError{Op: "permanently delete", ID: item.task.ID, Status: item.task.Status}
		m.setStatus(err.Error()+"; archive or complete it first", statusError)
		return m, nil
	}
	m.confirmPurge = item.task.ID
	return m, nil
}

func (m model) handleConfirm(msg tea.KeyMsg) (model, tea.Cmd) {
	id := m.confirmPurge
	m.confirmPurge = 0
	switch msg.String() {
	case "y", "Y":
		if err := m.engine.PermanentlyDelete(id, m.view.status().Collection()); err != nil {
			m.setStatus(err.Error(), statusError)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Permanently deleted task %d", id), statusInfo)
		return m, m.refresh()
	case "ctrl+c":
		return m, tea.Quit
	}
	m.setStatus("Delete cancelled", statusNone)
	return m, nil
}

// refresh reloads the list from the engine, keeping the selection on the
// same task when it is still shown.
func (m *model) refresh() tea.Cmd {
	selectedID := 0
	if item, ok := m.selectedItem(); ok {
		selectedID = item.task.ID
	}

	status := m.view.status()
	tasks := m.engine.Query(task.QueryOptions{Status: &status, Newest: m.newest})
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskItem{task: t, running: m.engine.TimerRunning(t.ID)})
	}
	cmd := m.list.SetItems(items)

	visible := m.list.VisibleItems()
	for i, listItem := range visible {
		if item, ok := listItem.(taskItem); ok && item.task.ID == selectedID {
			m.list.Select(i)
			return cmd
		}
	}
	if len(visible) > 0 && m.list.Index() >= len(visible) {
		m.list.Select(len(visible) - 1)
	}
	return cmd
}

func (m model) selectedItem() (taskItem, bool) {
	item, ok := m.list.SelectedItem().(taskItem)
	return item, ok
}

func (m *model) setStatus(text string, level statusLevel) {
	m.status = text
	m.statusLevel = level
}

func (m *model) flushWarnings() {
	if len(m.warnings.messages) == 0 {
		return
	}
	last := m.warnings.messages[len(m.warnings.messages)-1]
	m.warnings.messages = m.warnings.messages[:0]
	m.setStatus("Save failed: "+last, statusError)
}

func (m *model) resize() {
	left, _ := splitWidths(m.width)
	m.list.SetSize(max(left-4, 1), max(m.contentHeight()-2, 1))
}

func (m model) contentHeight() int {
	return max(m.height-3, 1)
}

func splitWidths(width int) (int, int) {
	left := width / 2
	if left < 30 {
		left = 30
	}
	if left > width-20 {
		left = width / 2
	}
	right := width - left
	if right < 20 {
		right = 20
		left = width - right
	}
	return left, right
}

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading tasks..."
	}
	left, right := splitWidths(m.width)
	height := m.contentHeight()

	listPane := renderPane(m.list.View(), left, height)
	detailPane := renderPane(m.renderDetail(right-4), right, height)
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)

	return strings.Join([]string{m.renderTabs(), content, m.renderHelpLine(), m.renderStatusLine()}, "\n")
}

func renderPane(content string, width, height int) string {
	return paneStyle.Width(max(width-2, 0)).Height(max(height-2, 0)).Render(content)
}

func (m model) renderTabs() string {
	stats := m.engine.Stats()
	counts := map[view]int{
		viewActive:   stats.Total,
		viewFinished: stats.Done,
		viewArchived: stats.Archived,
	}
	tabs := make([]string, 0, viewCount)
	for v := viewActive; v < viewCount; v++ {
		label := fmt.Sprintf("%d %s (%d)", v+1, v.title(), counts[v])
		if v == m.view {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabInactiveStyle.Render(label))
		}
	}
	summary := fmt.Sprintf(" %d pending, %d high priority, %d running", stats.Pending, stats.HighPriorityPending, len(m.engine.RunningTimers()))
	return tabBarStyle.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + summary)
}

func (m model) renderDetail(width int) string {
	item, ok := m.selectedItem()
	if !ok {
		return valueMuted.Render("No " + strings.ToLower(m.view.title()) + " tasks")
	}
	width = max(width, 10)
	t := item.task

	var b strings.Builder
	b.WriteString(titleStyle.Render(wordwrap.String(t.Title, width)))
	b.WriteString("\n\n")

	badge := lipgloss.NewStyle().Foreground(ui.PriorityColor(t)).Bold(true)
	b.WriteString(field("Status", badge.Render(string(t.Status))))
	b.WriteString(field("Priority", badge.Render(string(t.Priority))))

	timer := valueMuted.Render("paused")
	if item.running {
		timer = runningStyle.Render("running")
	} else if t.Status == task.StatusDone {
		timer = valueMuted.Render("completed")
	}
	b.WriteString(field("Timer", timer))
	b.WriteString(field("Elapsed", ui.FormatElapsed(t.RemainingSeconds)))
	b.WriteString(field("Created", ui.FormatTimestamp(t.CreatedAt)))
	if t.DueDate != nil {
		b.WriteString(field("Due", *t.DueDate))
	}
	if t.CompletedAt != nil {
		b.WriteString(field("Completed", ui.FormatTimestamp(*t.CompletedAt)))
	}

	if t.Description != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(t.Description, width))
	}

	if m.confirmPurge == t.ID {
		b.WriteString("\n\n")
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Permanently delete task %d? (y/n)", t.ID)))
	}
	return b.String()
}

func field(label, value string) string {
	return labelStyle.Render(label+":") + " " + value + "\n"
}

func (m model) helpSummary() string {
	common := "tab views  / search  o sort  q quit"
	switch m.view {
	case viewFinished:
		return "r reopen  x delete  " + common
	case viewArchived:
		return "r restore  x delete  " + common
	default:
		return "s start/stop  z reset  d done  a archive  " + common
	}
}

func (m model) renderHelpLine() string {
	return helpBarStyle.Width(m.width).Render(ui.TruncateCell(m.helpSummary(), m.width))
}

func (m model) renderStatusLine() string {
	if strings.TrimSpace(m.status) == "" {
		return ""
	}
	style := valueMuted
	switch m.statusLevel {
	case statusError:
		style = statusErrorStyle
	case statusInfo:
		style = statusSuccessStyle
	}
	return style.Render(m.status)
}
