package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	csvstore "github.com/brianraines/nightowl/internal/adapters/csvstore"
	report "github.com/brianraines/nightowl/internal/adapters/report"
	service "github.com/brianraines/nightowl/internal/app"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render HTML dashboards from the persisted datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := csvstore.New(cfg.OutputDir)
		if err != nil {
			return err
		}
		renderer, err := report.New(store, cfg.ReportDir)
		if err != nil {
			return err
		}
		svc := service.New(service.WithRenderer(renderer))

		paths, err := svc.Report(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(paths) == 0 {
			fmt.Fprintln(out, mutedStyle.Render("No dashboards generated; sync some data first."))
			return nil
		}
		for _, p := range paths {
			fmt.Fprintln(out, successStyle.Render("wrote ")+p)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
