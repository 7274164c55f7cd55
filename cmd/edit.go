package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/services"
)

var (
	editName        string
	editDays        string
	editAt          string
	editDesc        string
	editCompletable bool
)

// editCmd changes the definition of an existing chore.
var editCmd = &cobra.Command{
	Use:   "edit [task]",
	Short: "Edit a chore",
	Long: `Edit a chore by id or name. Only the flags you pass are changed.
Pass --at "" to turn a timed chore into an all-day warning.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		task, err := app.tasks.FindTask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		spec := task.Spec()
		flags := cmd.Flags()
		if flags.Changed("name") {
			spec.Name = editName
		}
		if flags.Changed("days") {
			if spec.DaysOfWeek, err = domain.ParseDays(editDays); err != nil {
				return err
			}
		}
		if flags.Changed("at") {
			spec.NotificationTime = editAt
		}
		if flags.Changed("desc") {
			spec.Description = editDesc
		}
		if flags.Changed("completable") {
			spec.CanBeCompleted = editCompletable
		}

		updated, err := app.tasks.UpdateTask(ctx, task.ID, services.UpdateTaskRequest{
			Name:             spec.Name,
			Description:      spec.Description,
			DaysOfWeek:       spec.DaysOfWeek,
			NotificationTime: spec.NotificationTime,
			CanBeCompleted:   spec.CanBeCompleted,
		})
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(updated))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✏️  Updated: %s (%s)\n", updated.Name, formatDays(updated.DaysOfWeek))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "New name")
	editCmd.Flags().StringVarP(&editDays, "days", "d", "", "Days it recurs: daily, weekdays, weekend or a list like mon,wed,fri")
	editCmd.Flags().StringVarP(&editAt, "at", "a", "", "Reminder time (HH:mm), empty for an all-day warning")
	editCmd.Flags().StringVar(&editDesc, "desc", "", "Description")
	editCmd.Flags().BoolVarP(&editCompletable, "completable", "c", false, "Let an all-day warning be checked off")
	rootCmd.AddCommand(editCmd)
}
