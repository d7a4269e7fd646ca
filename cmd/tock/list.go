package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/amonks/tock/internal/listflags"
	"github.com/amonks/tock/internal/ui"
	"github.com/amonks/tock/task"
)

// list
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks.

By default pending and done tasks are shown, sorted by the display.sort
setting. Use --archived or --finished to show one collection, or --all
to include archived tasks.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listStatus   string
	listPriority string
	listSearch   string
	listOldest   bool
	listNewest   bool
	listArchived bool
	listFinished bool
	listAll      bool
	listJSON     bool
)

// show
var showCmd = &cobra.Command{
	Use:   "show <id>...",
	Short: "Show detailed information about tasks",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runShow,
}

var showJSON bool

// stats
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count tasks by status",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var statsJSON bool

func init() {
	rootCmd.AddCommand(listCmd, showCmd, statsCmd)

	listCmd.Flags().StringVar(&listStatus, "status", "", "Filter by status (pending, done, archived)")
	listCmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority (high, medium, low)")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter by title or description substring")
	listflags.AddSortFlags(listCmd, &listOldest, &listNewest)
	listCmd.Flags().BoolVar(&listArchived, "archived", false, "Show archived tasks only")
	listCmd.Flags().BoolVar(&listFinished, "finished", false, "Show finished tasks only")
	listflags.AddAllFlag(listCmd, &listAll)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.MarkFlagsMutuallyExclusive("status", "archived", "finished")
	addFlagAliases(filterFlagAliases, listCmd)

	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}

func listQueryOptions(newestByDefault bool) (task.QueryOptions, error) {
	opts := task.QueryOptions{
		Search:          listSearch,
		Newest:          newestByDefault,
		IncludeArchived: listAll,
	}
	if listOldest {
		opts.Newest = false
	}
	if listNewest {
		opts.Newest = true
	}

	switch {
	case listArchived:
		status := task.StatusArchived
		opts.Status = &status
	case listFinished:
		status := task.StatusDone
		opts.Status = &status
	case listStatus != "":
		status, err := task.ParseStatus(listStatus)
		if err != nil {
			return opts, err
		}
		opts.Status = &status
	}

	if listPriority != "" {
		priority, err := task.ParsePriority(listPriority)
		if err != nil {
			return opts, err
		}
		opts.Priority = &priority
	}
	return opts, nil
}

func runList(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		opts, err := listQueryOptions(a.cfg.NewestFirst())
		if err != nil {
			return err
		}
		tasks := a.engine.Query(opts)

		if listJSON {
			if tasks == nil {
				tasks = []task.Task{}
			}
			return encodeJSONToStdout(tasks)
		}

		if len(tasks) == 0 {
			fmt.Println(ui.Muted(taskEmptyListMessage(a.engine.Stats(), opts)))
			return nil
		}
		fmt.Print(formatTaskTable(tasks, time.Now()))
		return nil
	})
}

func taskEmptyListMessage(stats task.Stats, opts task.QueryOptions) string {
	if stats.Total+stats.Done+stats.Archived == 0 {
		return "No tasks found."
	}
	if opts.Status != nil {
		return fmt.Sprintf("No %s tasks found.", *opts.Status)
	}
	if opts.Search != "" || opts.Priority != nil {
		return "No matching tasks found."
	}
	if !opts.IncludeArchived && stats.Archived > 0 {
		return "No tasks found. Use --all to include archived tasks."
	}
	return "No tasks found."
}

func formatTaskTable(tasks []task.Task, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PRIORITY", "ELAPSED", "DUE", "CREATED", "TITLE"}, len(tasks))
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = *t.DueDate
		}
		builder.AddRow([]string{
			strconv.Itoa(t.ID),
			ui.Badge(t),
			ui.FormatElapsed(t.RemainingSeconds),
			ui.TruncateTableCell(due),
			ui.FormatTimeAgo(t.CreatedAt, now),
			ui.TruncateTableCell(t.Title),
		})
	}
	return builder.String()
}

func runShow(cmd *cobra.Command, args []string) error {
	ids, err := parseTaskIDs(args)
	if err != nil {
		return err
	}

	return withApp(func(a *app) error {
		tasks := make([]task.Task, 0, len(ids))
		for _, id := range ids {
			t, _, err := a.engine.Get(id)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}

		if showJSON {
			if len(tasks) == 1 {
				return encodeJSONToStdout(tasks[0])
			}
			return encodeJSONToStdout(tasks)
		}

		for i, t := range tasks {
			if i > 0 {
				fmt.Println()
			}
			printTaskDetail(t)
		}
		return nil
	})
}

// printTaskDetail prints detailed information about a task.
func printTaskDetail(t task.Task) {
	fmt.Printf("ID:        %d\n", t.ID)
	fmt.Printf("Title:     %s\n", t.Title)
	fmt.Printf("Status:    %s\n", t.Status)
	fmt.Printf("Priority:  %s\n", t.Priority)
	fmt.Printf("Elapsed:   %s\n", ui.FormatElapsed(t.RemainingSeconds))
	fmt.Printf("Created:   %s\n", ui.FormatTimestamp(t.CreatedAt))

	if t.DueDate != nil {
		fmt.Printf("Due:       %s\n", *t.DueDate)
	}

	if t.CompletedAt != nil {
		fmt.Printf("Completed: %s\n", ui.FormatTimestamp(*t.CompletedAt))
	}

	if t.Description != "" {
		fmt.Printf("\n%s\n%s\n", ui.Header("Description:"), renderMarkdownOrDash(t.Description, detailLineWidth))
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	return withApp(func(a *app) error {
		stats := a.engine.Stats()
		if statsJSON {
			return encodeJSONToStdout(stats)
		}
		fmt.Printf("Total: %d | Pending: %d | Done: %d | High Priority: %d | Archived: %d\n",
			stats.Total, stats.Pending, stats.Done, stats.HighPriorityPending, stats.Archived)
		return nil
	})
}
