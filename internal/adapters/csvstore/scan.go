package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/pkg/logger"
	"github.com/brianraines/nightowl/pkg/metrics"
)

// ExistingKeys scans the dataset at path and returns the merge key of every
// row: the keyField cell when it is present and non-empty, else the date
// cell. The fallback mirrors how batch records are keyed, so rows persisted
// without a key value stay addressable on later runs. A missing file, a
// header with neither column, or a read failure degrade to whatever was
// collected so far, possibly nothing, so one bad file cannot block
// ingestion; failures are logged for follow-up.
func (s *Store) ExistingKeys(ctx context.Context, path, keyField string) map[string]struct{} {
	keys := make(map[string]struct{})

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn(ctx, "cannot open dataset for key scan",
				logger.String("path", path),
				logger.Error(err),
			)
		}
		return keys
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.logger.Warn(ctx, "cannot read dataset header",
				logger.String("path", path),
				logger.Error(err),
			)
		}
		return keys
	}

	idx := columnIndex(header, keyField)
	dateIdx := columnIndex(header, "date")
	if idx < 0 && dateIdx < 0 {
		return keys
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warn(ctx, "dataset key scan stopped early",
				logger.String("path", path),
				logger.Error(err),
			)
			break
		}
		key := cellAt(row, idx)
		if key == "" {
			key = cellAt(row, dateIdx)
		}
		if key != "" {
			keys[key] = struct{}{}
		}
	}
	return keys
}

// cellAt returns the cell at idx, or empty when idx is out of range.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ReadAll loads the dataset for category c. Rows come back as column name
// to cell maps; rows shorter than the header fill the missing columns with
// empty strings, and cells beyond the header are dropped.
func (s *Store) ReadAll(ctx context.Context, c category.Category) ([]string, []map[string]string, error) {
	path := s.Path(c)

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrOpenDataset, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrReadDataset, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrReadDataset, err)
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	metrics.SetDatasetRows(c.String(), len(rows))
	return header, rows, nil
}

// existingColumns returns the header columns of the dataset at path. Any
// failure reads as an empty set.
func (s *Store) existingColumns(path string) map[string]struct{} {
	cols := make(map[string]struct{})

	f, err := os.Open(path)
	if err != nil {
		return cols
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return cols
	}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		cols[h] = struct{}{}
	}
	return cols
}

// columnIndex finds col in header, tolerating a UTF-8 BOM on the first cell.
func columnIndex(header []string, col string) int {
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == col {
			return i
		}
	}
	return -1
}
