// Package record converts raw API records into flat rows ready for CSV
// storage.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/brianraines/nightowl/internal/domain/category"
)

// napThresholdSeconds separates naps from main sleep periods. Sessions
// shorter than three hours count as naps.
const napThresholdSeconds = 10800

// Raw is one untyped record as decoded from an API response. Numbers are
// json.Number so their text survives the round trip to CSV unchanged.
type Raw map[string]any

// Flat maps column names to scalar values for one CSV row.
type Flat map[string]any

// Normalize flattens one raw record for category c.
//
// The derived "date" column comes from the category's date field, falling
// back to the date part of a "timestamp" field; the date field itself is
// consumed and does not become a column of its own. Sleep records
// additionally carry "bedtime_start" verbatim and an "is_nap" flag. One
// level of nested maps is flattened to {key}_{nestedKey}; lists collapse to
// {key}_count plus, when the first element is scalar, {key}_first. Values
// that fit none of these shapes are dropped. Normalize never fails.
func Normalize(raw Raw, c category.Category) Flat {
	p := c.Profile()
	flat := Flat{}

	flat["date"] = deriveDate(raw, p.DateField)

	if c == category.Sleep {
		// The bedtime start timestamp doubles as the sleep merge key.
		if bs, ok := raw["bedtime_start"]; ok {
			flat["bedtime_start"] = bs
		}
		flat["is_nap"] = napFlag(raw)
	}

	for key, value := range raw {
		if key == p.DateField {
			continue
		}
		switch v := value.(type) {
		case map[string]any:
			for nestedKey, nestedValue := range v {
				if nestedValue == nil || isScalar(nestedValue) {
					flat[key+"_"+nestedKey] = nestedValue
				}
			}
		case []any:
			if len(v) == 0 {
				continue
			}
			flat[key+"_count"] = len(v)
			if isScalar(v[0]) {
				flat[key+"_first"] = v[0]
			}
		default:
			if value == nil || isScalar(value) {
				flat[key] = value
			}
		}
	}

	return flat
}

// MergeKey returns the record's value for the dedup key column rendered as
// text. A record without that column falls back to its derived date, so a
// sleep period reported without a bedtime still dedupes against refetches.
// Empty means the record cannot be keyed.
func (f Flat) MergeKey(field string) string {
	if key := Render(f[field]); key != "" {
		return key
	}
	return Render(f["date"])
}

// Columns returns the union of column names across records.
func Columns(records []Flat) map[string]struct{} {
	cols := make(map[string]struct{})
	for _, r := range records {
		for key := range r {
			cols[key] = struct{}{}
		}
	}
	return cols
}

// Render formats a flat value as its CSV cell text. Nil renders empty.
func Render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// deriveDate prefers the category's own date field and falls back to the
// date part of a timestamp.
func deriveDate(raw Raw, dateField string) string {
	if d := Render(raw[dateField]); d != "" {
		return d
	}
	day, _, _ := strings.Cut(Render(raw["timestamp"]), "T")
	return day
}

// napFlag reports 1 for short sleep sessions. A zero or missing duration is
// not a nap.
func napFlag(raw Raw) int {
	total := toFloat(raw["total_sleep_duration"])
	if total > 0 && total < napThresholdSeconds {
		return 1
	}
	return 0
}

// toFloat coerces numeric scalars; anything else is zero.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// isScalar reports whether v is a plain value that can live in a CSV cell.
func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number, int, int64, float64:
		return true
	}
	return false
}
