package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/brianraines/nightowl/internal/domain/category"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the known data categories",
	Long:  `categories shows each supported collection, how its records are deduplicated and where they land on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := make([][]string, 0, len(category.All()))
		for _, cat := range category.All() {
			rows = append(rows, []string{cat.String(), cat.Profile().MergeKey, cat.FileName()})
		}

		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			Headers("CATEGORY", "MERGE KEY", "FILE").
			Rows(rows...)

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Categories"))
		fmt.Fprintln(out, tbl)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}
