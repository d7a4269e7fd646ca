package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amonks/tock/internal/ui"
	"github.com/amonks/tock/task"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Run or reset task timers",
}

// timer run
var timerRunCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Run a task's timer in the foreground until interrupted",
	Long: `Run a task's timer in the foreground.

Elapsed time is added once per second until Ctrl-C, or until --for has
passed. The timer is stopped and the task saved on exit.`,
	Args: cobra.ExactArgs(1),
	RunE: runTimerRun,
}

var timerRunFor time.Duration

// timer reset
var timerResetCmd = &cobra.Command{
	Use:   "reset <id>",
	Short: "Stop a task's timer and clear its elapsed time",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimerReset,
}

func init() {
	rootCmd.AddCommand(timerCmd)
	timerCmd.AddCommand(timerRunCmd, timerResetCmd)

	timerRunCmd.Flags().DurationVar(&timerRunFor, "for", 0, "Stop after this long (e.g. 25m)")
}

func runTimerRun(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if timerRunFor > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timerRunFor)
		defer cancel()
	}

	return withApp(func(a *app) error {
		t, _, err := a.engine.Get(id)
		if err != nil {
			return err
		}
		if err := a.engine.StartTimer(id); err != nil {
			return err
		}
		fmt.Printf("Started timer for task %d: %s\n", t.ID, t.Title)

		live := term.IsTerminal(int(os.Stdout.Fd()))
		unsubscribe := a.engine.Subscribe(func(event task.Event) {
			if live && event.Kind == task.EventTick && event.TaskID == id {
				fmt.Printf("\r%s", ui.Running(ui.FormatElapsed(event.Elapsed)))
			}
		})
		defer unsubscribe()

		a.queue.Run(ctx, task.TickInterval)
		if live {
			fmt.Println()
		}

		if err := a.engine.StopTimer(id); err != nil {
			return err
		}
		stopped, _, err := a.engine.Get(id)
		if err != nil {
			return err
		}
		fmt.Printf("Stopped timer for task %d at %s\n", stopped.ID, ui.FormatElapsed(stopped.RemainingSeconds))
		return nil
	})
}

func runTimerReset(cmd *cobra.Command, args []string) error {
	id, err := parseTaskID(args[0])
	if err != nil {
		return err
	}

	return withApp(func(a *app) error {
		t, err := a.engine.ResetTimer(id)
		if err != nil {
			return err
		}
		fmt.Printf("Reset timer for task %d: %s\n", t.ID, ui.FormatElapsed(t.RemainingSeconds))
		return nil
	})
}
