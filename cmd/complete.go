package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
)

var completeDate string

// completeCmd represents the complete command
var completeCmd = &cobra.Command{
	Use:   "complete [task]",
	Short: "Mark a chore as done",
	Long:  `Mark today's occurrence of a chore (by id or name) as done.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		date, err := parseDateFlag(completeDate)
		if err != nil {
			return err
		}
		task, err := app.tasks.FindTask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		before, err := app.achievements.List(ctx)
		if err != nil {
			return err
		}
		done, err := app.tracker.CompleteTask(ctx, task.ID, date)
		if err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}
		unlocked, err := newlyUnlocked(cmd, before)
		if err != nil {
			return err
		}

		if jsonOutput {
			ids := make([]domain.AchievementID, 0, len(unlocked))
			for _, a := range unlocked {
				ids = append(ids, a.ID)
			}
			return printJSON(out, map[string]interface{}{
				"completed":    done,
				"task_id":      task.ID,
				"date":         date,
				"achievements": ids,
			})
		}

		if !done {
			if task.IsCompletable() {
				fmt.Fprintf(out, "'%s' is already done for %s.\n", task.Name, date)
			} else {
				fmt.Fprintf(out, "'%s' can't be checked off.\n", task.Name)
			}
			return nil
		}
		fmt.Fprintf(out, "✅ Done: %s\n", task.Name)
		for _, a := range unlocked {
			fmt.Fprintf(out, "🏆 Achievement unlocked: %s - %s\n", a.Name, a.Description)
		}
		return nil
	},
}

func init() {
	completeCmd.Flags().StringVar(&completeDate, "date", "", "Day of the occurrence: YYYY-MM-DD or yesterday")
	rootCmd.AddCommand(completeCmd)
}

// newlyUnlocked returns achievements unlocked now but locked in before.
func newlyUnlocked(cmd *cobra.Command, before []domain.Achievement) ([]domain.Achievement, error) {
	after, err := app.achievements.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	locked := make(map[domain.AchievementID]bool, len(before))
	for _, a := range before {
		locked[a.ID] = a.UnlockedAt == nil
	}
	var out []domain.Achievement
	for _, a := range after {
		if a.UnlockedAt != nil && locked[a.ID] {
			out = append(out, a)
		}
	}
	return out, nil
}
