package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
	"github.com/xvierd/chorebook/internal/services"
)

var (
	statsPeriod string
	statsFrom   string
	statsTo     string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of completion statistics",
	Long: `Display a terminal dashboard with the completion rate of a period, one
bar per day, and the current streak of perfect days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		start, end, err := app.stats.PeriodRange(statsPeriod)
		if err != nil {
			return err
		}
		if statsFrom != "" {
			if start, err = parseDateFlag(statsFrom); err != nil {
				return err
			}
		}
		if statsTo != "" {
			if end, err = parseDateFlag(statsTo); err != nil {
				return err
			}
		}

		report, err := app.stats.Report(ctx, start, end)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), report)
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", services.PeriodWeek, "Time period: week or month")
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "First day of a custom range (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "Last day of a custom range (YYYY-MM-DD)")
	rootCmd.AddCommand(statsCmd)
}

func renderDashboard(w io.Writer, report *services.Report) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C6FE0"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color("#7C6FE0"))

	// Header
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(fmt.Sprintf("%s → %s", report.Start, report.End)))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	// Summary line
	fmt.Fprintf(w, "  Done: %s of %s (%s)   Streak: %s\n\n",
		valueStyle.Render(fmt.Sprintf("%d", report.Totals.Completed)),
		valueStyle.Render(fmt.Sprintf("%d", report.Totals.Total)),
		valueStyle.Render(fmt.Sprintf("%d%%", report.Totals.CompletionRate)),
		valueStyle.Render(formatDaysCount(report.Streak)),
	)

	if report.Totals.Total == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No chores were due in this period."))
		return
	}

	// Bar chart: completion rate per day
	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Completion by day"))
	maxBarWidth := 30
	for _, d := range report.Days {
		barWidth := int(math.Round(float64(d.Rate) / 100 * float64(maxBarWidth)))
		if barWidth < 1 && d.Completed > 0 {
			barWidth = 1
		}
		dayLabel := fmt.Sprintf("%s %s", domain.DayOfWeek(d.Date).Short(), string(d.Date)[5:])
		detail := dimStyle.Render("-")
		if d.Total > 0 {
			detail = fmt.Sprintf("%d/%d", d.Completed, d.Total)
		}
		fmt.Fprintf(w, "  %s %-30s %s\n",
			dimStyle.Render(dayLabel),
			barColor.Render(buildBar(barWidth)),
			detail,
		)
	}
	fmt.Fprintln(w)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatDaysCount formats a day count as "1 day" or "N days".
func formatDaysCount(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
