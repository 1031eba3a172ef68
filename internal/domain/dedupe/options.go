// Package dedupe tracks merge keys so repeated fetches of overlapping date
// ranges do not persist duplicate rows.
package dedupe

// Option applies a configuration option to the in-memory KeySet.
type Option func(*inMemoryKeySet)

// WithSeed preloads keys already persisted on disk.
func WithSeed(keys map[string]struct{}) Option {
	return func(s *inMemoryKeySet) {
		for k := range keys {
			s.seen[k] = struct{}{}
		}
	}
}
