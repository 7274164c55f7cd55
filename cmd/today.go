package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/schedule"
)

var todayDate string

// todayCmd shows the chores due on a day.
var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's chores",
	Long: `Show the chores due today (or on --date): all-day warnings first, then
timed chores in reminder order, with completion and postpone status.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToday(cmd, todayDate)
	},
}

func init() {
	todayCmd.Flags().StringVar(&todayDate, "date", "", "Day to show: YYYY-MM-DD, yesterday or tomorrow")
	rootCmd.AddCommand(todayCmd)
}

func runToday(cmd *cobra.Command, dateFlag string) error {
	date, err := parseDateFlag(dateFlag)
	if err != nil {
		return err
	}

	day, err := app.tracker.DailyTasks(cmd.Context(), date)
	if err != nil {
		return fmt.Errorf("failed to load day: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), dayJSON(day))
	}
	renderDay(cmd, day)
	return nil
}

func dayJSON(day schedule.Day) map[string]interface{} {
	tasks := make([]map[string]interface{}, 0, len(day.Tasks))
	for _, v := range day.Tasks {
		postponesLeft := domain.MaxPostponesPerDay
		if v.State != nil {
			postponesLeft = v.State.PostponesLeft()
		}
		tasks = append(tasks, map[string]interface{}{
			"id":             v.Task.ID,
			"name":           v.Task.Name,
			"time":           v.EffectiveTime(),
			"warning":        v.Task.IsWarning(),
			"completable":    v.IsCompletable(),
			"completed":      v.IsCompleted(),
			"postpone_count": v.PostponeCount(),
			"postpones_left": postponesLeft,
		})
	}
	return map[string]interface{}{
		"date":      day.Date,
		"tasks":     tasks,
		"completed": day.CompletedCount,
		"total":     day.TotalCount,
	}
}

func renderDay(cmd *cobra.Command, day schedule.Day) {
	out := cmd.OutOrStdout()
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Strikethrough(true)
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	weekday := domain.DayOfWeek(day.Date)
	fmt.Fprintf(out, "  %s\n", titleStyle.Render(fmt.Sprintf("%s %s", weekday.Short(), day.Date)))

	if len(day.Tasks) == 0 {
		fmt.Fprintf(out, "  %s\n", dimStyle.Render("Nothing due. Enjoy the day."))
		return
	}

	for _, v := range day.Tasks {
		mark := "○"
		name := v.Task.Name
		switch {
		case v.IsCompleted():
			mark = "✓"
			name = doneStyle.Render(name)
		case !v.IsCompletable():
			mark = "!"
			name = warnStyle.Render(name)
		}

		when := "all day"
		if t := v.EffectiveTime(); t != "" {
			when = t
		}
		line := fmt.Sprintf("  %s %-7s %s", mark, when, name)
		if n := v.PostponeCount(); n > 0 {
			line += dimStyle.Render(fmt.Sprintf("  (postponed %d/%d)", n, domain.MaxPostponesPerDay))
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintf(out, "\n  %s\n", dimStyle.Render(fmt.Sprintf("%d/%d done (%d%%)",
		day.CompletedCount, day.TotalCount, schedule.Rate(day.CompletedCount, day.TotalCount))))
}
