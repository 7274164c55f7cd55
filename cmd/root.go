// Package cmd provides the CLI commands for chorebook.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
)

var (
	// Version info (set at build time via ldflags)
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"

	// Global flags
	dbPath     string
	jsonOutput bool
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chorebook",
	Short: "chorebook - recurring chores with reminders and streaks",
	Long: `chorebook tracks recurring household chores. Each chore runs on chosen
weekdays, optionally at a reminder time. Mark chores done, postpone a
reminder up to twice a day, and keep your streak of perfect days going.

Run "chorebook" with no arguments to see today's chores.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeServices(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return cleanupServices()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToday(cmd, "")
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Path to the SQLite database file (default: ~/.chorebook/chorebook.db)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	// Set version - cobra handles --version automatically
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("chorebook\nVersion: {{.Version}}\n")
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// parseDateFlag resolves "", "today", "yesterday", "tomorrow" or a
// YYYY-MM-DD value against the configured timezone.
func parseDateFlag(s string) (domain.Date, error) {
	today := domain.DateOf(app.clock.Now())
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	case "tomorrow":
		return today.AddDays(1), nil
	}
	return domain.ParseDate(s)
}

// formatDays renders weekdays as "Mo We Fr", or a shorthand.
func formatDays(days []domain.Weekday) string {
	switch len(days) {
	case 7:
		return "daily"
	case 5:
		if days[0] == domain.Monday && days[4] == domain.Friday {
			return "weekdays"
		}
	case 2:
		if days[0] == domain.Saturday && days[1] == domain.Sunday {
			return "weekend"
		}
	}
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Short()
	}
	return strings.Join(labels, " ")
}

// shortID trims a task id for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// taskJSON is the shape of a task in --json output.
func taskJSON(task *domain.Task) map[string]interface{} {
	return map[string]interface{}{
		"id":                task.ID,
		"name":              task.Name,
		"description":       task.Description,
		"days":              task.DaysOfWeek,
		"notification_time": task.NotificationTime,
		"can_be_completed":  task.CanBeCompleted,
		"created_at":        task.CreatedAt,
		"is_active":         task.IsActive,
	}
}
