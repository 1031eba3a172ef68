// Package category enumerates the metric collections exported from the
// remote API and the per-category rules for keying and persisting them.
package category

import (
	"fmt"
	"strings"
)

// Category identifies one remote collection of health metrics.
type Category string

// Known categories.
const (
	Sleep     Category = "sleep"
	Heartrate Category = "heartrate"
	Session   Category = "session"
	Workout   Category = "workout"
	Tag       Category = "tag"
	SpO2      Category = "spo2"
)

// All returns the known categories in fetch order.
func All() []Category {
	return []Category{Sleep, Heartrate, Session, Workout, Tag, SpO2}
}

// Parse maps a user-supplied name onto a known Category.
func Parse(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range All() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

func (c Category) String() string { return string(c) }

// FileName returns the name of the category's dataset file.
func (c Category) FileName() string { return string(c) + "_data.csv" }

// Profile describes how records of one category are dated, deduplicated
// and laid out on disk.
type Profile struct {
	// DateField is the source field holding the record's calendar day.
	DateField string

	// MergeKey is the column whose value identifies a record for
	// duplicate detection.
	MergeKey string

	// Priority lists the columns pinned, in order, to the front of the
	// persisted header.
	Priority []string
}

// Daily summary categories key on the derived date; finer-grained series
// key on their own timestamps so several records per day survive dedup.
var profiles = map[Category]Profile{
	Sleep:     {DateField: "day", MergeKey: "bedtime_start", Priority: []string{"date", "is_nap"}},
	Heartrate: {DateField: "day", MergeKey: "timestamp", Priority: []string{"date"}},
}

var defaultProfile = Profile{DateField: "day", MergeKey: "date", Priority: []string{"date"}}

// Profile returns the dispatch profile for c. Categories without a special
// profile get the daily summary defaults.
func (c Category) Profile() Profile {
	if p, ok := profiles[c]; ok {
		return p
	}
	return defaultProfile
}
