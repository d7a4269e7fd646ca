package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amonks/tock/internal/editor"
	"github.com/amonks/tock/task"
)

// add
var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a task and start its timer",
	Long: `Add a task.

The title is taken from the argument. Without a title, $EDITOR opens on a
TOML template when running interactively. Use --edit to open the editor
even when a title is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAdd,
}

var (
	addDescription string
	addPriority    string
	addDue         string
	addEdit        bool
)

// edit
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a pending or finished task",
	Long: `Edit a pending or finished task.

Without update flags, $EDITOR opens on the task when running
interactively. Archived tasks must be restored first.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

var (
	editTitle       string
	editDescription string
	editPriority    string
	editDue         string
	editClearDue    bool
	editEdit        bool
)

var doneCmd = &cobra.Command{
	Use:   "done <id>...",
	Short: "Mark one or more tasks as done",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLifecycle("Completed", (*task.Engine).Complete),
}

var reopenCmd = &cobra.Command{
	Use:   "reopen <id>...",
	Short: "Move finished tasks back to the active list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLifecycle("Reopened", (*task.Engine).Reopen),
}

var archiveCmd = &cobra.Command{
	Use:     "archive <id>...",
	Aliases: []string{"delete"},
	Short:   "Archive one or more pending tasks",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runLifecycle("Archived", (*task.Engine).Archive),
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>...",
	Short: "Move archived tasks back to the active list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLifecycle("Restored", (*task.Engine).Restore),
}

// purge
var purgeCmd = &cobra.Command{
	Use:   "purge <id>",
	Short: "Permanently delete an archived or finished task",
	Args:  cobra.ExactArgs(1),
	RunE:  runPurge,
}

var (
	purgeYes  bool
	purgeFrom string
)

func init() {
	rootCmd.AddCommand(addCmd, editCmd, doneCmd, reopenCmd, archiveCmd, restoreCmd, purgeCmd)

	addCmd.Flags().StringVarP(&addDescription, "description", "d", "", "Description (use '-' to read from stdin)")
	addCmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (high, medium, low; default low)")
	addCmd.Flags().StringVar(&addDue, "due", "", "Due date (free-form)")
	addCmd.Flags().BoolVarP(&addEdit, "edit", "e", false, "Open $EDITOR")

	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description (use '-' to read from stdin)")
	editCmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority (high, medium, low)")
	editCmd.Flags().StringVar(&editDue, "due", "", "New due date (free-form)")
	editCmd.Flags().BoolVar(&editClearDue, "clear-due", false, "Remove the due date")
	editCmd.Flags().BoolVarP(&editEdit, "edit", "e", false, "Open $EDITOR")

	purgeCmd.Flags().BoolVarP(&purgeYes, "yes", "y", false, "Do not ask for confirmation")
	purgeCmd.Flags().StringVar(&purgeFrom, "from", "", "Only delete if the task is in this collection (archived, finished)")

	addFlagAliases(fieldFlagAliases, addCmd, editCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(addDescription, os.Stdin)
		if err != nil {
			return err
		}
		addDescription = desc
	}

	opts := task.CreateOptions{
		Description: addDescription,
		Priority:    task.Priority(addPriority),
	}
	if len(args) > 0 {
		opts.Title = args[0]
	}
	if cmd.Flags().Changed("due") {
		opts.DueDate = &addDue
	}

	useEditor := addEdit || (len(args) == 0 && editor.IsInteractive())
	if useEditor {
		data := editor.DefaultCreateData()
		data.Title = opts.Title
		data.Description = opts.Description
		data.Due = addDue
		if addPriority != "" {
			data.Priority = addPriority
		}
		parsed, err := editor.EditTaskWithData(data)
		if err != nil {
			return err
		}
		opts = parsed.ToCreateOptions()
	} else if len(args) == 0 {
		return fmt.Errorf("title is required (use --edit to open editor)")
	}

	return withApp(func(a *app) error {
		created, err := a.engine.Create(opts)
		if err != nil {
			return err
		}
		fmt.Printf("Added task %d: %s\n", created.ID, created.Title)
		return nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("description") {
		desc, err := resolveDescriptionFromStdin(editDescription, os.Stdin)
		if err != nil {
			return err
		}
		editDescription = desc
	}

	hasFlags := hasChangedFlags(cmd, "title", "description", "priority", "due", "clear-due")
	useEditor := shouldUseEditor(hasFlags, editEdit, editor.IsInteractive())
	if !useEditor && !hasFlags {
		return fmt.Errorf("at least one update flag is required (use --edit to open editor)")
	}

	return withApp(func(a *app) error {
		var opts task.EditOptions
		if useEditor {
			existing, _, err := a.engine.Get(id)
			if err != nil {
				return err
			}
			data := editor.DataFromTask(existing)
			if cmd.Flags().Changed("title") {
				data.Title = editTitle
			}
			if cmd.Flags().Changed("description") {
				data.Description = editDescription
			}
			if cmd.Flags().Changed("priority") {
				data.Priority = editPriority
			}
			if cmd.Flags().Changed("due") {
				data.Due = editDue
			}
			if editClearDue {
				data.Due = ""
			}
			parsed, err := editor.EditTaskWithData(data)
			if err != nil {
				return err
			}
			opts = parsed.ToEditOptions()
		} else {
			opts = editOptionsFromFlags(cmd)
		}

		updated, err := a.engine.Edit(id, opts)
		if err != nil {
			return err
		}
		fmt.Printf("Updated task %d: %s\n", updated.ID, updated.Title)
		return nil
	})
}

func editOptionsFromFlags(cmd *cobra.Command) task.EditOptions {
	var opts task.EditOptions
	if cmd.Flags().Changed("title") {
		opts.Title = &editTitle
	}
	if cmd.Flags().Changed("description") {
		opts.Description = &editDescription
	}
	if cmd.Flags().Changed("priority") {
		priority := task.Priority(editPriority)
		opts.Priority = &priority
	}
	if cmd.Flags().Changed("due") {
		opts.DueDate = &editDue
	}
	opts.ClearDueDate = editClearDue
	return opts
}

func shouldUseEditor(hasUpdateFlags bool, editFlag bool, interactive bool) bool {
	if editFlag {
		return true
	}
	if hasUpdateFlags {
		return false
	}
	return interactive
}

func hasChangedFlags(cmd *cobra.Command, flags ...string) bool {
	for _, flag := range flags {
		if cmd.Flags().Changed(flag) {
			return true
		}
	}
	return false
}

// runLifecycle applies op to each id in order, stopping at the first
// failure. Earlier ids stay applied.
func runLifecycle(verb string, op func(*task.Engine, int) (task.Task, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ids, err := parseTaskIDs(args)
		if err != nil {
			return err
		}
		return withApp(func(a *app) error {
			for _, id := range ids {
				t, err := op(a.engine, id)
				if err != nil {
					return err
				}
				fmt.Printf("%s task %d: %s\n", verb, t.ID, t.Title)
			}
			return nil
		})
	}
}

func runPurge(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}
	var from task.Collection
	if purgeFrom != "" {
		from, err = task.ParseCollection(purgeFrom)
		if err != nil {
			return err
		}
	}

	return withApp(func(a *app) error {
		t, collection, err := a.engine.Get(id)
		if err != nil {
			return err
		}
		if from != "" && from != collection {
			return a.engine.PermanentlyDelete(id, from)
		}
		if collection == task.Active {
			err := a.engine.PermanentlyDelete(id, collection)
			return fmt.Errorf("%w (archive or complete it first)", err)
		}

		if !purgeYes {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("refusing to delete task %d without confirmation (use --yes)", id)
			}
			prompt := fmt.Sprintf("Permanently delete %s task %d: %s? [y/N] ", t.Status, t.ID, t.Title)
			ok, err := confirm(os.Stdin, os.Stdout, prompt)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		if err := a.engine.PermanentlyDelete(id, collection); err != nil {
			return err
		}
		fmt.Printf("Permanently deleted task %d: %s\n", t.ID, t.Title)
		return nil
	})
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
