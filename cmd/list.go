package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/services"
)

var listAll bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List chores",
	Long:  `List every active chore definition. Use --all to include deleted ones.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		tasks, err := app.tasks.ListTasks(ctx, services.ListTasksRequest{IncludeInactive: listAll})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if jsonOutput {
			taskList := make([]map[string]interface{}, 0, len(tasks))
			for _, task := range tasks {
				taskList = append(taskList, taskJSON(task))
			}
			return printJSON(out, map[string]interface{}{
				"tasks": taskList,
				"count": len(taskList),
			})
		}

		if len(tasks) == 0 {
			fmt.Fprintln(out, "No chores yet. Add one with: chorebook add <name> --days mon,wed --at 18:00")
			return nil
		}

		fmt.Fprintf(out, "%-10s %-28s %-20s %-6s\n", "ID", "NAME", "DAYS", "TIME")
		fmt.Fprintf(out, "%-10s %-28s %-20s %-6s\n", "----------", "----------------------------", "--------------------", "------")
		for _, task := range tasks {
			when := "-"
			if task.HasTime() {
				when = task.NotificationTime
			}
			name := task.Name
			if !task.IsActive {
				name += " (deleted)"
			}
			fmt.Fprintf(out, "%-10s %-28s %-20s %-6s\n", shortID(task.ID), truncateString(name, 28), formatDays(task.DaysOfWeek), when)
		}
		fmt.Fprintf(out, "\nTotal: %d chore(s)\n", len(tasks))
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include deleted chores")
	rootCmd.AddCommand(listCmd)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
