package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var templatesCategory string

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List chore templates",
	Long: `List the built-in chore templates, grouped by category. Add your own in
templates.yaml next to the config file; a template with the same name
replaces the built-in one.

Use one with: chorebook add --template "<name>"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		catalog := app.templates

		if jsonOutput {
			if templatesCategory != "" {
				return printJSON(out, map[string]interface{}{"templates": catalog.InCategory(templatesCategory)})
			}
			return printJSON(out, catalog)
		}

		shown := 0
		for _, cat := range catalog.Categories {
			if templatesCategory != "" && cat.ID != templatesCategory {
				continue
			}
			list := catalog.InCategory(cat.ID)
			if len(list) == 0 {
				continue
			}
			fmt.Fprintf(out, "%s\n", cat.Label)
			for _, t := range list {
				when := "all day"
				if t.Time != "" {
					when = t.Time
				}
				fmt.Fprintf(out, "  %-24s %-7s %s\n", t.Name, when, formatDays(t.Days))
				shown++
			}
			fmt.Fprintln(out)
		}
		if shown == 0 {
			return fmt.Errorf("no templates in category %q", templatesCategory)
		}
		return nil
	},
}

func init() {
	templatesCmd.Flags().StringVar(&templatesCategory, "category", "", "Only show one category")
	rootCmd.AddCommand(templatesCmd)
}
