package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/amonks/tock/internal/tracktui"
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Open the live tracker view",
	Long: `Open the live tracker view.

Tasks are shown in three tabs (active, finished, archived) with their
timers ticking. Pending tasks get a running timer on open unless
timer.auto-start is false.`,
	Args: cobra.NoArgs,
	RunE: runTrack,
}

var trackNoAutoStart bool

func init() {
	rootCmd.AddCommand(trackCmd)

	trackCmd.Flags().BoolVar(&trackNoAutoStart, "no-auto-start", false, "Do not start timers on open")
}

func runTrack(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("track needs an interactive terminal")
	}

	return withApp(func(a *app) error {
		return tracktui.Run(cmd.Context(), a.engine, a.queue, tracktui.Options{
			AutoStart:   a.cfg.Timer.AutoStart && !trackNoAutoStart,
			NewestFirst: a.cfg.NewestFirst(),
		})
	})
}
