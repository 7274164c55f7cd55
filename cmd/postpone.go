package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
)

var (
	postponeMinutes int
	postponeTo      string
	postponeDate    string
)

// postponeCmd pushes a chore's reminder later in the day.
var postponeCmd = &cobra.Command{
	Use:   "postpone [task]",
	Short: "Push a chore's reminder later",
	Long: fmt.Sprintf(`Push today's reminder of a timed chore later by --minutes, or to an
exact --to time. A chore can be postponed at most %d times a day and never
past midnight.`, domain.MaxPostponesPerDay),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		date, err := parseDateFlag(postponeDate)
		if err != nil {
			return err
		}
		task, err := app.tasks.FindTask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		var (
			ok      bool
			newTime string
		)
		if cmd.Flags().Changed("to") {
			newTime = postponeTo
			ok, err = app.tracker.PostponeTask(ctx, task.ID, date, postponeTo)
		} else {
			ok, newTime, err = app.tracker.PostponeBy(ctx, task.ID, date, postponeMinutes)
		}
		if err != nil {
			return fmt.Errorf("failed to postpone task: %w", err)
		}

		if jsonOutput {
			data := map[string]interface{}{
				"postponed": ok,
				"task_id":   task.ID,
				"date":      date,
			}
			if ok {
				data["time"] = newTime
			}
			return printJSON(out, data)
		}

		if !ok {
			fmt.Fprintf(out, "Can't postpone '%s': %s\n", task.Name, postponeRefusal(cmd, task, date))
			return nil
		}
		fmt.Fprintf(out, "⏰ '%s' moved to %s\n", task.Name, newTime)
		return nil
	},
}

func init() {
	postponeCmd.Flags().IntVarP(&postponeMinutes, "minutes", "m", domain.PostponeSteps[0], "Minutes to push the reminder by")
	postponeCmd.Flags().StringVar(&postponeTo, "to", "", "Exact new reminder time (HH:mm)")
	postponeCmd.Flags().StringVar(&postponeDate, "date", "", "Day of the occurrence: YYYY-MM-DD")
	rootCmd.AddCommand(postponeCmd)
}

// postponeRefusal explains why a postpone was refused.
func postponeRefusal(cmd *cobra.Command, task *domain.Task, date domain.Date) string {
	if !task.HasTime() {
		return "all-day chores have no reminder to move"
	}
	day, err := app.tracker.DailyTasks(cmd.Context(), date)
	if err == nil {
		for _, v := range day.Tasks {
			if v.Task.ID != task.ID {
				continue
			}
			if v.IsCompleted() {
				return "it is already done"
			}
			if v.State != nil && !v.State.CanPostpone() {
				return fmt.Sprintf("already postponed %d times today", v.PostponeCount())
			}
		}
	}
	return "the new time would pass midnight"
}
