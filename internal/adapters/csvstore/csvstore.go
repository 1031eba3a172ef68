// Package csvstore persists flattened records to per-category CSV datasets
// with duplicate suppression and a header that grows across runs.
package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/internal/domain/dedupe"
	"github.com/brianraines/nightowl/internal/domain/record"
	"github.com/brianraines/nightowl/internal/domain/schema"
	"github.com/brianraines/nightowl/pkg/logger"
	"github.com/brianraines/nightowl/pkg/metrics"
)

// Store manages the CSV datasets under one base directory. Concurrent
// writers against the same dataset are not supported; callers serialize
// saves per category.
type Store struct {
	baseDir string
	logger  logger.Logger
}

// New creates a Store rooted at baseDir, creating the directory when needed.
func New(baseDir string, opts ...Option) (*Store, error) {
	s := &Store{baseDir: baseDir}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCreateDir, err)
	}
	return s, nil
}

// Path returns the dataset file path for category c.
func (s *Store) Path(c category.Category) string {
	return filepath.Join(s.baseDir, c.FileName())
}

// Exists reports whether a dataset file exists for category c.
func (s *Store) Exists(c category.Category) bool {
	_, err := os.Stat(s.Path(c))
	return err == nil
}

// Save flattens data, drops records whose merge key is already on disk or
// repeated within the batch, reconciles the header, and persists the rest.
// It returns the number of rows written. An empty batch, or a batch with
// nothing new, leaves the file untouched.
func (s *Store) Save(ctx context.Context, data []record.Raw, c category.Category, appendMode bool) (int, error) {
	name := c.String()
	if len(data) == 0 {
		s.logger.Info(ctx, "no data to save", logger.String("category", name))
		return 0, nil
	}

	path := s.Path(c)
	profile := c.Profile()

	// In overwrite mode the prior file contents are irrelevant.
	seed := map[string]struct{}{}
	if appendMode {
		seed = s.ExistingKeys(ctx, path, profile.MergeKey)
	}
	keys := dedupe.NewKeySet(dedupe.WithSeed(seed))

	flattened := make([]record.Flat, 0, len(data))
	for _, raw := range data {
		flattened = append(flattened, record.Normalize(raw, c))
	}

	fresh := dedupe.Filter(ctx, flattened, profile.MergeKey, keys)
	metrics.RecordDuplicatesSkipped(name, len(flattened)-len(fresh))
	if len(fresh) == 0 {
		s.logger.Info(ctx, "no new records to save", logger.String("category", name))
		return 0, nil
	}

	existing := map[string]struct{}{}
	if appendMode {
		existing = s.existingColumns(path)
	}
	header := schema.Reconcile(existing, record.Columns(fresh), profile.Priority)

	appendExisting := false
	if appendMode {
		if _, err := os.Stat(path); err == nil {
			appendExisting = true
		}
	}

	n, err := s.persist(path, header, fresh, appendExisting)
	if err != nil {
		metrics.RecordWriteError(name)
		s.logger.Error(ctx, "failed to save records",
			logger.String("category", name),
			logger.String("path", path),
			logger.Error(err),
		)
		return 0, err
	}

	metrics.RecordWritten(name, n)
	metrics.SetDatasetColumns(name, len(header))
	s.logger.Info(ctx, "saved new records",
		logger.String("category", name),
		logger.Int("count", n),
		logger.String("path", path),
	)
	return n, nil
}
