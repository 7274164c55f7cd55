package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/services"
)

var (
	exportTasks  bool
	exportStates bool
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chores and history as JSON",
	Long: `Write a JSON backup of chore definitions and daily history. Both are
exported unless --tasks or --states narrows the selection. Writes to stdout
unless --output is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := services.ExportOptions{Tasks: exportTasks, States: exportStates}
		if !exportTasks && !exportStates {
			opts = services.ExportOptions{Tasks: true, States: true}
		}

		data, err := app.data.Export(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("failed to export: %w", err)
		}
		raw, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}

		if exportOutput == "" || exportOutput == "-" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		}
		if err := os.WriteFile(exportOutput, append(raw, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "📦 Exported %d chore(s) and %d day record(s) to %s\n",
			len(data.Tasks), len(data.DailyStates), exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().BoolVar(&exportTasks, "tasks", false, "Export chore definitions")
	exportCmd.Flags().BoolVar(&exportStates, "states", false, "Export daily history")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "File to write (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}
