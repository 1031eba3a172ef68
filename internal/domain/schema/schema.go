// Package schema computes the persisted column layout for a dataset.
package schema

import (
	"sort"
)

// Reconcile merges the columns already on disk with the columns of the
// incoming batch. Priority columns occupy the leading positions in their
// given order even when absent from both sets; every remaining column
// follows in lexicographic order. The same inputs always produce the same
// layout, so headers only ever grow.
func Reconcile(existing, incoming map[string]struct{}, priority []string) []string {
	pinned := make(map[string]struct{}, len(priority))
	for _, col := range priority {
		pinned[col] = struct{}{}
	}

	union := make(map[string]struct{}, len(existing)+len(incoming))
	for col := range existing {
		union[col] = struct{}{}
	}
	for col := range incoming {
		union[col] = struct{}{}
	}

	rest := make([]string, 0, len(union))
	for col := range union {
		if _, ok := pinned[col]; ok {
			continue
		}
		rest = append(rest, col)
	}
	sort.Strings(rest)

	header := make([]string, 0, len(priority)+len(rest))
	header = append(header, priority...)
	return append(header, rest...)
}
