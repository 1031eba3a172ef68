// Package dedupe tracks merge keys so repeated fetches of overlapping date
// ranges do not persist duplicate rows.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/brianraines/nightowl/internal/domain/record"
)

// KeySet records the merge keys seen so far for one dataset.
type KeySet interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// inMemoryKeySet implements KeySet with a plain map. Merge-key tracking has
// to cover the full history of a dataset, so entries are never evicted.
type inMemoryKeySet struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewKeySet creates an in-memory KeySet with configuration options.
func NewKeySet(opts ...Option) KeySet {
	s := &inMemoryKeySet{
		seen: make(map[string]struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	s.size.Store(int64(len(s.seen)))
	return s
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (s *inMemoryKeySet) SeenAndRecord(ctx context.Context, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return true
	}
	s.seen[key] = struct{}{}
	s.size.Add(1)
	return false
}

// Size returns the current number of keys in the set.
func (s *inMemoryKeySet) Size() int64 {
	return s.size.Load()
}

// Filter returns the subsequence of records whose merge key is non-empty
// and not yet in keys. Each accepted key is recorded, so duplicates within
// the same batch collapse to their first occurrence.
func Filter(ctx context.Context, records []record.Flat, keyField string, keys KeySet) []record.Flat {
	kept := make([]record.Flat, 0, len(records))
	for _, r := range records {
		key := r.MergeKey(keyField)
		if key == "" {
			continue
		}
		if keys.SeenAndRecord(ctx, key) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}
