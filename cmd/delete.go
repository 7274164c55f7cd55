package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xvierd/chorebook/internal/domain"
)

var (
	deletePurge bool
	deleteForce bool
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete [task]",
	Short: "Delete a chore",
	Long: `Delete a chore by id or name. The chore is deactivated and stays
listed under "list --all". Use --purge to remove the definition for good;
its daily history still counts in statistics.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		// Get task info first for confirmation
		task, err := app.tasks.FindTask(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		// Confirm deletion
		if !jsonOutput && !deleteForce {
			verb := "delete"
			if deletePurge {
				verb = "permanently remove"
			}
			fmt.Fprintf(out, "Are you sure you want to %s '%s' (%s)? [y/N]: ", verb, task.Name, shortID(task.ID))
			confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			confirm = strings.TrimSpace(confirm)
			if confirm != "y" && confirm != "Y" {
				fmt.Fprintln(out, "Deletion cancelled.")
				return nil
			}
		}

		var deleted bool
		if deletePurge {
			deleted, err = app.tasks.PurgeTask(ctx, task.ID)
		} else {
			deleted, err = app.tasks.DeleteTask(ctx, task.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		if jsonOutput {
			return printJSON(out, map[string]interface{}{
				"deleted": deleted,
				"purged":  deletePurge && deleted,
				"task_id": task.ID,
			})
		}
		if !deleted {
			return fmt.Errorf("%w: %s", domain.ErrTaskNotFound, task.ID)
		}
		fmt.Fprintf(out, "🗑️  '%s' deleted.\n", task.Name)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deletePurge, "purge", false, "Remove the chore for good instead of deactivating it")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Skip the confirmation prompt")
	rootCmd.AddCommand(deleteCmd)
}
