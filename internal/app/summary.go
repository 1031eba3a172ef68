package service

import (
	"time"

	"github.com/brianraines/nightowl/internal/domain/category"
)

// Summary reports the outcome of one sync run.
type Summary struct {
	// RunID identifies the run in logs.
	RunID string

	// StartDate and EndDate are the resolved window, YYYY-MM-DD.
	StartDate string
	EndDate   string

	// Append records whether the run appended to existing datasets.
	Append bool

	// Categories holds one result per synced category, in sync order.
	Categories []CategoryResult

	// Duration is the wall time of the whole run.
	Duration time.Duration
}

// CategoryResult is the per-category outcome of a sync run.
type CategoryResult struct {
	Category category.Category

	// Fetched counts records returned by the API.
	Fetched int

	// Written counts records newly persisted.
	Written int

	// Skipped counts fetched records suppressed as duplicates or unkeyable.
	Skipped int

	// Err is set when the fetch or the save failed.
	Err error
}

// TotalFetched sums fetched records across categories.
func (s Summary) TotalFetched() int {
	var n int
	for _, c := range s.Categories {
		n += c.Fetched
	}
	return n
}

// TotalWritten sums newly persisted records across categories.
func (s Summary) TotalWritten() int {
	var n int
	for _, c := range s.Categories {
		n += c.Written
	}
	return n
}

// TotalSkipped sums suppressed records across categories.
func (s Summary) TotalSkipped() int {
	var n int
	for _, c := range s.Categories {
		n += c.Skipped
	}
	return n
}

// FailedCategories lists the categories whose fetch or save failed.
func (s Summary) FailedCategories() []category.Category {
	var out []category.Category
	for _, c := range s.Categories {
		if c.Err != nil {
			out = append(out, c.Category)
		}
	}
	return out
}
