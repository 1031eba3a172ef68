// Package service orchestrates sync runs: it pulls categories from the API,
// hands them to the store, and drives report rendering.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/brianraines/nightowl/internal/adapters/oura"
	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/internal/domain/record"
	"github.com/brianraines/nightowl/pkg/logger"
	"github.com/brianraines/nightowl/pkg/metrics"
)

const dateLayout = "2006-01-02"

// Fetcher pulls raw records for one category inside a date window.
type Fetcher interface {
	FetchCategory(ctx context.Context, cat category.Category, startDate, endDate string) ([]record.Raw, error)
}

// Store persists raw records and reports how many were new.
type Store interface {
	Save(ctx context.Context, data []record.Raw, cat category.Category, appendMode bool) (int, error)
}

// Renderer writes dashboards for the persisted datasets.
type Renderer interface {
	RenderAll(ctx context.Context) []string
}

// Service implements the sync and report operations.
type Service struct {
	fetcher  Fetcher
	store    Store
	renderer Renderer

	// Configuration
	days int
	now  func() time.Time

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the API client used to pull records.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithStore sets the dataset store.
func WithStore(st Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithRenderer sets the dashboard renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithDays sets the default sync window length.
func WithDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.days = days
		}
	}
}

// WithClock replaces the wall clock used to resolve date windows.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		days: 7,
		now:  time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	return s
}

// Sync fetches the given categories for the window and persists them,
// accumulating a per-category Summary. A failing category is recorded and
// skipped so the rest of the run proceeds. Passing no categories syncs all
// of them; empty dates resolve to the configured window ending today.
func (s *Service) Sync(ctx context.Context, cats []category.Category, startDate, endDate string, appendMode bool) (Summary, error) {
	if s.fetcher == nil || s.store == nil {
		return Summary{}, ErrNotConfigured
	}
	if len(cats) == 0 {
		cats = category.All()
	}

	start, end := s.window(startDate, endDate)
	sum := Summary{
		RunID:     uuid.NewString(),
		StartDate: start,
		EndDate:   end,
		Append:    appendMode,
	}

	s.logger.Info(ctx, "starting sync run",
		logger.String("run_id", sum.RunID),
		logger.String("start_date", start),
		logger.String("end_date", end),
		logger.Bool("append", appendMode),
	)

	began := time.Now()
	for _, cat := range cats {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Categories = append(sum.Categories, s.syncCategory(ctx, cat, start, end, appendMode))
	}
	sum.Duration = time.Since(began)

	metrics.RecordSyncRun()
	metrics.ObserveSyncDuration(sum.Duration)
	metrics.SetLastSyncTime(time.Now())

	s.logger.Info(ctx, "sync run finished",
		logger.String("run_id", sum.RunID),
		logger.Int("fetched", sum.TotalFetched()),
		logger.Int("written", sum.TotalWritten()),
		logger.Int("failed", len(sum.FailedCategories())),
		logger.Duration("duration", sum.Duration),
	)

	return sum, nil
}

func (s *Service) syncCategory(ctx context.Context, cat category.Category, start, end string, appendMode bool) CategoryResult {
	res := CategoryResult{Category: cat}

	s.logger.Info(ctx, "fetching data", logger.String("category", cat.String()))

	data, err := s.fetcher.FetchCategory(ctx, cat, start, end)
	if err != nil {
		if errors.Is(err, oura.ErrNotFound) {
			s.logger.Warn(ctx, "endpoint returned 404, skipping",
				logger.String("category", cat.String()),
				logger.Error(err))
		} else {
			s.logger.Warn(ctx, "failed to fetch data",
				logger.String("category", cat.String()),
				logger.Error(err))
		}
		metrics.RecordFetchError(cat.String())
		res.Err = err
		return res
	}

	res.Fetched = len(data)
	metrics.RecordFetched(cat.String(), len(data))

	if len(data) == 0 {
		s.logger.Info(ctx, "no records returned", logger.String("category", cat.String()))
		return res
	}

	written, err := s.store.Save(ctx, data, cat, appendMode)
	if err != nil {
		s.logger.Error(ctx, "failed to save records",
			logger.String("category", cat.String()),
			logger.Error(err))
		res.Err = err
		return res
	}

	res.Written = written
	res.Skipped = res.Fetched - written
	s.logger.Info(ctx, "category synced",
		logger.String("category", cat.String()),
		logger.Int("fetched", res.Fetched),
		logger.Int("written", res.Written),
		logger.Int("skipped", res.Skipped),
	)
	return res
}

// Report renders dashboards for every persisted dataset and returns the
// paths written.
func (s *Service) Report(ctx context.Context) ([]string, error) {
	if s.renderer == nil {
		return nil, ErrNotConfigured
	}

	paths := s.renderer.RenderAll(ctx)
	s.logger.Info(ctx, "dashboards generated", logger.Int("count", len(paths)))
	return paths, nil
}

// window resolves the sync date range. Explicit dates win; missing ones
// default to a window of the configured length ending today.
func (s *Service) window(startDate, endDate string) (string, string) {
	today := s.now()
	if endDate == "" {
		endDate = today.Format(dateLayout)
	}
	if startDate == "" {
		startDate = today.AddDate(0, 0, -s.days).Format(dateLayout)
	}
	return startDate, endDate
}
