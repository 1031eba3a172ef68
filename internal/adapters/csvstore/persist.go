package csvstore

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/brianraines/nightowl/internal/domain/record"
)

// persist writes records to path using header as the column order. A new or
// truncated file gets the header row first; an append never rewrites it. A
// record missing a header column writes an empty cell.
func (s *Store) persist(path string, header []string, records []record.Flat, appendExisting bool) (int, error) {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if appendExisting {
		flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOpenDataset, err)
	}
	defer func() { _ = f.Close() }()

	bw := bufio.NewWriter(f)
	w := csv.NewWriter(bw)

	if !appendExisting {
		if err := w.Write(header); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrWriteDataset, err)
		}
	}

	row := make([]string, len(header))
	for _, rec := range records {
		for i, col := range header {
			row[i] = record.Render(rec[col])
		}
		if err := w.Write(row); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrWriteDataset, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}
	if err := f.Sync(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWriteDataset, err)
	}
	return len(records), nil
}
