package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	csvstore "github.com/brianraines/nightowl/internal/adapters/csvstore"
	"github.com/brianraines/nightowl/internal/adapters/http/ops"
	"github.com/brianraines/nightowl/internal/adapters/http/site"
	"github.com/brianraines/nightowl/internal/adapters/oura"
	report "github.com/brianraines/nightowl/internal/adapters/report"
	service "github.com/brianraines/nightowl/internal/app"
	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

var daemonEvery time.Duration

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Sync on a schedule and serve dashboards",
	Long: `daemon runs a sync immediately and then on every tick. Between runs it
serves the generated dashboards at /, Prometheus metrics at /metrics and a
liveness probe at /healthz on the configured metrics address.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logger.Get().Named("daemon")

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
		svc := service.New(
			service.WithFetcher(client),
			service.WithStore(store),
			service.WithRenderer(renderer),
			service.WithDays(cfg.Days),
		)

		// HTTP mux and routes.
		mux := http.NewServeMux()
		ops.Register(ctx, mux)
		site.Register(ctx, mux, cfg.ReportDir)

		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		}

		go func() {
			log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error(ctx, "HTTP server failed", logger.Error(err))
			}
		}()

		log.Info(ctx, "daemon started", logger.Duration("every", daemonEvery))
		syncPass(ctx, svc, true, log)

		ticker := time.NewTicker(daemonEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info(ctx, "shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				err := srv.Shutdown(shutdownCtx)
				cancel()
				if err != nil {
					log.Error(ctx, "server shutdown failed", logger.Error(err))
				}

				log.Info(ctx, "daemon stopped")
				return nil
			case <-ticker.C:
				syncPass(ctx, svc, false, log)
			}
		}
	},
}

// syncRunner is the slice of the service the daemon loop drives.
type syncRunner interface {
	Sync(ctx context.Context, cats []category.Category, startDate, endDate string, appendMode bool) (service.Summary, error)
	Report(ctx context.Context) ([]string, error)
}

// syncPass runs one sync and refreshes the dashboards when rows were
// written. The initial pass renders regardless of outcome, so a restarted
// daemon serves dashboards for data persisted before the restart instead of
// answering 404 until something new arrives.
func syncPass(ctx context.Context, r syncRunner, initial bool, log logger.Logger) {
	sum, err := r.Sync(ctx, nil, "", "", true)
	if err != nil {
		log.Error(ctx, "sync run failed", logger.Error(err))
	}
	if !initial && (err != nil || sum.TotalWritten() == 0) {
		return
	}
	if _, err := r.Report(ctx); err != nil {
		log.Warn(ctx, "dashboard generation failed", logger.Error(err))
	}
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().DurationVar(&daemonEvery, "every", 6*time.Hour, "interval between sync runs")
}
