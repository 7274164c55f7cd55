package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var importDryRun bool

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import chores and history from a JSON export",
	Long: `Merge a JSON export into the current data. Records that already exist
are kept; invalid records are skipped. Use "-" to read stdin and --dry-run
to only preview what would be imported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		var (
			raw []byte
			err error
		)
		if args[0] == "-" {
			raw, err = io.ReadAll(cmd.InOrStdin())
		} else {
			raw, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to read import: %w", err)
		}

		preview, err := app.data.Preview(raw)
		if err != nil {
			return err
		}

		if importDryRun {
			if jsonOutput {
				return printJSON(out, preview)
			}
			fmt.Fprintf(out, "Would import %d chore(s) and %d day record(s)", preview.TasksCount, preview.StatesCount)
			if skipped := preview.SkippedTasks + preview.SkippedStates; skipped > 0 {
				fmt.Fprintf(out, " (%d invalid record(s) skipped)", skipped)
			}
			fmt.Fprintln(out)
			return nil
		}

		result, err := app.data.Import(cmd.Context(), preview.Data)
		if err != nil {
			return fmt.Errorf("failed to import: %w", err)
		}
		if jsonOutput {
			return printJSON(out, result)
		}
		fmt.Fprintf(out, "📥 Imported %d new chore(s) and %d new day record(s)\n", result.TasksImported, result.StatesImported)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Preview without writing")
	rootCmd.AddCommand(importCmd)
}
