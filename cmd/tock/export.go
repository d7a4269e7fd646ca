package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amonks/tock/task"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every task, grouped by collection",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format (json, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := task.ParseExportFormat(exportFormat)
	if err != nil {
		return err
	}

	return withApp(func(a *app) error {
		snapshot := a.engine.Snapshot()
		if exportOutput == "" {
			return task.WriteSnapshot(os.Stdout, snapshot, format)
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		if err := task.WriteSnapshot(f, snapshot, format); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close export file: %w", err)
		}
		total := len(snapshot.Active) + len(snapshot.Finished) + len(snapshot.Archived)
		fmt.Printf("Exported %d tasks to %s\n", total, exportOutput)
		return nil
	})
}
