// Package report renders static HTML dashboards from persisted datasets.
//
// Dashboards are built with go-echarts and written into the configured
// report directory. A dashboard is only produced for a category whose
// dataset exists and holds at least one row; rendering reads datasets back
// through the same tolerant reader the store exposes, so rows written by
// older schema versions chart fine with gaps where values are missing.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/pkg/logger"
	"github.com/brianraines/nightowl/pkg/metrics"
)

const (
	// SleepDashboardFile is the sleep dashboard file name.
	SleepDashboardFile = "nightowl_dashboard.html"

	// HeartrateDashboardFile is the heart rate dashboard file name.
	HeartrateDashboardFile = "heartrate_dashboard.html"
)

// DatasetReader supplies persisted rows for rendering.
type DatasetReader interface {
	Exists(c category.Category) bool
	ReadAll(ctx context.Context, c category.Category) ([]string, []map[string]string, error)
}

// Renderer writes HTML dashboards for persisted categories.
type Renderer struct {
	reader    DatasetReader
	reportDir string
	logger    logger.Logger
}

// New creates a Renderer rooted at reportDir, creating the directory when
// missing.
func New(reader DatasetReader, reportDir string, opts ...Option) (*Renderer, error) {
	r := &Renderer{
		reader:    reader,
		reportDir: reportDir,
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.Get().Named("report")
	}

	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateDir, err)
	}
	return r, nil
}

// RenderAll renders every dashboard whose dataset is present. A failing
// dashboard is logged and skipped so one bad dataset never blocks the rest.
// The returned slice holds the paths of the dashboards actually written.
func (r *Renderer) RenderAll(ctx context.Context) []string {
	jobs := []struct {
		cat    category.Category
		render func(context.Context) (string, error)
	}{
		{category.Sleep, r.RenderSleep},
		{category.Heartrate, r.RenderHeartrate},
	}

	var paths []string
	for _, j := range jobs {
		if !r.reader.Exists(j.cat) {
			r.logger.Debug(ctx, "dataset not present, skipping dashboard",
				logger.String("category", j.cat.String()))
			continue
		}

		path, err := j.render(ctx)
		if err != nil {
			if errors.Is(err, ErrNoData) {
				r.logger.Warn(ctx, "no data to visualize",
					logger.String("category", j.cat.String()))
			} else {
				r.logger.Warn(ctx, "dashboard generation failed",
					logger.String("category", j.cat.String()),
					logger.Error(err))
			}
			continue
		}
		paths = append(paths, path)
	}
	return paths
}

// RenderSleep renders the sleep dashboard and returns its path.
func (r *Renderer) RenderSleep(ctx context.Context) (string, error) {
	header, rows, err := r.reader.ReadAll(ctx, category.Sleep)
	if err != nil {
		metrics.RecordReportError()
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoData, category.Sleep)
	}

	sortRowsBy(rows, "date")
	r.logger.Info(ctx, "creating sleep dashboard", logger.Int("records", len(rows)))

	return r.write(ctx, SleepDashboardFile, "NightOwl Sleep Dashboard", sleepCharts(header, rows))
}

// RenderHeartrate renders the heart rate dashboard and returns its path.
func (r *Renderer) RenderHeartrate(ctx context.Context) (string, error) {
	header, rows, err := r.reader.ReadAll(ctx, category.Heartrate)
	if err != nil {
		metrics.RecordReportError()
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoData, category.Heartrate)
	}

	sortRowsBy(rows, "timestamp")
	r.logger.Info(ctx, "creating heart rate dashboard", logger.Int("records", len(rows)))

	return r.write(ctx, HeartrateDashboardFile, "NightOwl Heart Rate Dashboard", heartrateCharts(header, rows))
}

func (r *Renderer) write(ctx context.Context, name, title string, charts []charter) (string, error) {
	if len(charts) == 0 {
		return "", fmt.Errorf("%w: no chartable columns", ErrNoData)
	}

	path := filepath.Join(r.reportDir, name)
	f, err := os.Create(path)
	if err != nil {
		metrics.RecordReportError()
		return "", fmt.Errorf("%w: %v", ErrRenderReport, err)
	}
	defer func() { _ = f.Close() }()

	if err := renderPage(f, title, charts); err != nil {
		metrics.RecordReportError()
		return "", fmt.Errorf("%w: %v", ErrRenderReport, err)
	}

	metrics.RecordReportRendered()
	r.logger.Info(ctx, "dashboard rendered", logger.String("path", path))
	return path, nil
}
