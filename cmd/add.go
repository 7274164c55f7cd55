package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/services"
)

var (
	addDays        string
	addAt          string
	addDesc        string
	addCompletable bool
	addTemplate    string
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new chore",
	Long: `Add a recurring chore. Chores with --at get a reminder at that time;
chores without one show as warnings for the whole day.

Start from a template with --template; flags then override its values.`,
	Example: `  chorebook add Take out the bins --days mon,thu --at 19:00
  chorebook add Check the mailbox --days weekdays --completable
  chorebook add --template "Walk the dog" --at 08:30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		req := services.AddTaskRequest{}
		if addTemplate != "" {
			tmpl, err := app.templates.Find(addTemplate)
			if err != nil {
				return fmt.Errorf("%w: %s", err, addTemplate)
			}
			spec := tmpl.Spec()
			req = services.AddTaskRequest{
				Name:             spec.Name,
				Description:      spec.Description,
				DaysOfWeek:       spec.DaysOfWeek,
				NotificationTime: spec.NotificationTime,
				CanBeCompleted:   spec.CanBeCompleted,
			}
		} else if len(args) == 0 {
			return fmt.Errorf("a name or --template is required")
		}

		// Combine all arguments as the name
		if len(args) > 0 {
			req.Name = strings.Join(args, " ")
		}
		if cmd.Flags().Changed("days") || addTemplate == "" {
			days, err := domain.ParseDays(addDays)
			if err != nil {
				return err
			}
			req.DaysOfWeek = days
		}
		if cmd.Flags().Changed("at") {
			req.NotificationTime = addAt
		}
		if cmd.Flags().Changed("desc") {
			req.Description = addDesc
		}
		if cmd.Flags().Changed("completable") {
			req.CanBeCompleted = addCompletable
		}

		task, err := app.tasks.AddTask(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), taskJSON(task))
		}

		when := "all day"
		if task.HasTime() {
			when = "at " + task.NotificationTime
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Added: %s (%s, %s) [%s]\n", task.Name, formatDays(task.DaysOfWeek), when, shortID(task.ID))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDays, "days", "d", "daily", "Days it recurs: daily, weekdays, weekend or a list like mon,wed,fri")
	addCmd.Flags().StringVarP(&addAt, "at", "a", "", "Reminder time (HH:mm); omit for an all-day warning")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Description")
	addCmd.Flags().BoolVarP(&addCompletable, "completable", "c", false, "Let an all-day warning be checked off")
	addCmd.Flags().StringVarP(&addTemplate, "template", "t", "", "Start from a named template")
	rootCmd.AddCommand(addCmd)
}
