package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var streakCmd = &cobra.Command{
	Use:   "streak",
	Short: "Show the current streak of perfect days",
	RunE: func(cmd *cobra.Command, args []string) error {
		streak, err := app.stats.Streak(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to compute streak: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]int{"streak": streak})
		}
		if streak == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No streak yet. Finish every chore today to start one.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "🔥 %s in a row\n", formatDaysCount(streak))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(streakCmd)
}
