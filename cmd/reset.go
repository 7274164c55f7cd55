package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all chores, history and achievements",
	Long: `Permanently clears every chore, daily record, achievement and pending
reminder from the configured storage. This cannot be undone; export first
if in doubt. Use --force to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		if !resetForce {
			fmt.Fprintf(out, "This will permanently delete all chorebook data (%s storage).\n", app.config.Storage.Backend)
			fmt.Fprint(out, "Are you sure? Type 'yes' to confirm: ")
			reader := bufio.NewReader(cmd.InOrStdin())
			input, _ := reader.ReadString('\n')
			input = strings.TrimSpace(strings.ToLower(input))
			if input != "yes" {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		if err := app.data.ClearAppData(cmd.Context()); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}

		fmt.Fprintln(out, "All data deleted. Fresh start.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}
