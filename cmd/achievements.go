package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"badges"},
	Short:   "List achievements and which ones you have unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		list, err := app.achievements.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load achievements: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"achievements": list})
		}

		dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))

		unlocked := 0
		for _, a := range list {
			if a.UnlockedAt == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "  🔒 %s\n", dimStyle.Render(fmt.Sprintf("%-18s %s", a.Name, a.Description)))
				continue
			}
			unlocked++
			fmt.Fprintf(cmd.OutOrStdout(), "  🏆 %s %s %s\n",
				valueStyle.Render(fmt.Sprintf("%-18s", a.Name)),
				a.Description,
				dimStyle.Render(a.UnlockedAt.In(app.location).Format("2006-01-02")),
			)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n  %d/%d unlocked\n", unlocked, len(list))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(achievementsCmd)
}
