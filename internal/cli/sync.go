package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	csvstore "github.com/brianraines/nightowl/internal/adapters/csvstore"
	"github.com/brianraines/nightowl/internal/adapters/oura"
	report "github.com/brianraines/nightowl/internal/adapters/report"
	service "github.com/brianraines/nightowl/internal/app"
	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/pkg/logger"
)

const dateLayout = "2006-01-02"

var (
	syncCategories []string
	syncStartDate  string
	syncEndDate    string
	syncDays       int
	syncOverwrite  bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new records from the API and persist them to CSV",
	Long: `sync pulls every category (or the ones given with --category) for the
requested window, appends the new records to the per-category CSV files, and
refreshes the dashboards. --overwrite rebuilds the files from this window
alone instead of appending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cats, err := parseCategories(syncCategories)
		if err != nil {
			return err
		}
		if err := validateDate(syncStartDate); err != nil {
			return err
		}
		if err := validateDate(syncEndDate); err != nil {
			return err
		}

		client, err := oura.New(cfg.BaseURL, cfg.AccessToken, oura.WithTimeout(cfg.RequestTimeout))
		if err != nil {
			return err
		}
		store, err := csvstore.New(cfg.OutputDir)
		if err != nil {
			return err
		}
		renderer, err := report.New(store, cfg.ReportDir)
		if err != nil {
			return err
		}

		days := cfg.Days
		if syncDays > 0 {
			days = syncDays
		}
		svc := service.New(
			service.WithFetcher(client),
			service.WithStore(store),
			service.WithRenderer(renderer),
			service.WithDays(days),
		)

		sum, err := svc.Sync(ctx, cats, syncStartDate, syncEndDate, !syncOverwrite)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printSummary(out, sum)

		if sum.TotalFetched() == 0 {
			logger.Get().Warn(ctx, "no data returned from API")
			return nil
		}

		paths, err := svc.Report(ctx)
		if err != nil {
			logger.Get().Warn(ctx, "dashboard generation failed", logger.Error(err))
			return nil
		}
		for _, p := range paths {
			fmt.Fprintln(out, mutedStyle.Render("dashboard: ")+p)
		}
		return nil
	},
}

// parseCategories resolves the --category flags, nil meaning all of them.
func parseCategories(names []string) ([]category.Category, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]category.Category, 0, len(names))
	for _, name := range names {
		cat, err := category.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, cat)
	}
	return out, nil
}

func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("invalid date format: %q, expected YYYY-MM-DD", s)
	}
	return nil
}

func printSummary(w io.Writer, sum service.Summary) {
	rows := make([][]string, 0, len(sum.Categories))
	for _, c := range sum.Categories {
		status := "ok"
		if c.Err != nil {
			status = "failed"
		}
		rows = append(rows, []string{
			c.Category.String(),
			strconv.Itoa(c.Fetched),
			strconv.Itoa(c.Written),
			strconv.Itoa(c.Skipped),
			status,
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("CATEGORY", "FETCHED", "NEW", "SKIPPED", "STATUS").
		Rows(rows...)

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Sync %s to %s", sum.StartDate, sum.EndDate)))
	fmt.Fprintln(w, tbl)
	fmt.Fprintln(w, successStyle.Render(fmt.Sprintf(
		"Saved %d new records in %s", sum.TotalWritten(), sum.Duration.Round(time.Millisecond))))
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().StringSliceVarP(&syncCategories, "category", "c", nil, "category to sync, repeatable (default: all)")
	syncCmd.Flags().StringVarP(&syncStartDate, "start-date", "s", "", "start date in YYYY-MM-DD format (defaults to --days days ago)")
	syncCmd.Flags().StringVarP(&syncEndDate, "end-date", "e", "", "end date in YYYY-MM-DD format (defaults to today)")
	syncCmd.Flags().IntVarP(&syncDays, "days", "d", 0, "number of days to fetch if dates not specified (default: from config)")
	syncCmd.Flags().BoolVar(&syncOverwrite, "overwrite", false, "overwrite existing CSV files instead of appending")
}
