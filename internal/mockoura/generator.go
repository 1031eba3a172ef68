package mockoura

import (
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/brianraines/nightowl/internal/domain/category"
)

const dateLayout = "2006-01-02"

// Value pools for categorical fields.
var (
	sessionTypes = []string{"meditation", "breathing", "rest", "nap"}
	moods        = []string{"bad", "worse", "same", "good", "great"}
	activities   = []string{"running", "cycling", "walking", "strength_training"}
	intensities  = []string{"easy", "moderate", "hard"}
	tagPool      = []string{
		"tag_generic_caffeine",
		"tag_generic_alcohol",
		"tag_generic_stress",
		"tag_generic_nap",
		"tag_generic_late_meal",
	}
)

// Generator produces synthetic records shaped like the real API's payloads.
type Generator struct {
	seed int64
}

// NewGenerator creates a generator. The same seed always yields the same
// records for a given category and day.
func NewGenerator(seed int64) *Generator {
	return &Generator{seed: seed}
}

// Records returns the synthetic records of one category across the inclusive
// [start, end] window, oldest day first. Output is stable per seed, category
// and day, so refetching an overlapping window dedupes cleanly downstream.
func (g *Generator) Records(cat category.Category, start, end time.Time) []map[string]any {
	var out []map[string]any
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		rng := g.dayRand(cat, day)
		switch cat {
		case category.Sleep:
			out = append(out, sleepRecords(rng, day)...)
		case category.Heartrate:
			out = append(out, heartrateRecords(rng, day)...)
		case category.Session:
			out = append(out, sessionRecords(rng, day)...)
		case category.Workout:
			out = append(out, workoutRecords(rng, day)...)
		case category.Tag:
			out = append(out, tagRecords(rng, day)...)
		case category.SpO2:
			out = append(out, spo2Records(rng, day)...)
		}
	}
	return out
}

// dayRand derives a per-day random source so a day's records do not depend
// on the window they were requested through.
func (g *Generator) dayRand(cat category.Category, day time.Time) *rand.Rand {
	h := fnv.New64a()
	_, _ = h.Write([]byte(cat.String()))
	_, _ = h.Write([]byte{'/'})
	_, _ = h.Write([]byte(day.Format(dateLayout)))
	return rand.New(rand.NewSource(g.seed ^ int64(h.Sum64())))
}

func newID(rng *rand.Rand) string {
	return uuid.Must(uuid.NewRandomFromReader(rng)).String()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// sleepRecords returns one night record and, on some days, an afternoon nap.
// Naps stay under three hours and carry fewer fields than the night record.
func sleepRecords(rng *rand.Rand, day time.Time) []map[string]any {
	total := 21600 + rng.Intn(9000)
	deep := total * (13 + rng.Intn(9)) / 100
	rem := total * (18 + rng.Intn(8)) / 100
	light := total - deep - rem
	awake := 600 + rng.Intn(3000)
	inBed := total + awake
	latency := 300 + rng.Intn(900)
	avgHR := round1(52 + rng.Float64()*12)
	lowestHR := int(avgHR) - 4 - rng.Intn(6)
	breath := round1(13 + rng.Float64()*4)
	bedStart := day.AddDate(0, 0, -1).Add(22*time.Hour + time.Duration(rng.Intn(150))*time.Minute)

	night := map[string]any{
		"id":                   newID(rng),
		"day":                  day.Format(dateLayout),
		"type":                 "long_sleep",
		"bedtime_start":        bedStart.Format(time.RFC3339),
		"bedtime_end":          bedStart.Add(time.Duration(inBed) * time.Second).Format(time.RFC3339),
		"total_sleep_duration": total,
		"deep_sleep_duration":  deep,
		"rem_sleep_duration":   rem,
		"light_sleep_duration": light,
		"awake_time":           awake,
		"time_in_bed":          inBed,
		"efficiency":           total * 100 / inBed,
		"latency":              latency,
		"average_heart_rate":   avgHR,
		"lowest_heart_rate":    lowestHR,
		"average_breath":       breath,
		"restless_periods":     rng.Intn(6),
	}
	if rng.Intn(8) != 0 {
		night["average_hrv"] = 28 + rng.Intn(40)
	}
	if rng.Intn(10) != 0 {
		night["score"] = 62 + rng.Intn(35)
		night["contributors"] = map[string]any{
			"deep_sleep":  50 + rng.Intn(50),
			"efficiency":  50 + rng.Intn(50),
			"latency":     50 + rng.Intn(50),
			"rem_sleep":   50 + rng.Intn(50),
			"restfulness": 50 + rng.Intn(50),
			"timing":      50 + rng.Intn(50),
			"total":       50 + rng.Intn(50),
		}
	}

	out := []map[string]any{night}
	if rng.Intn(4) == 0 {
		napStart := day.Add(13*time.Hour + time.Duration(rng.Intn(150))*time.Minute)
		napTotal := 1200 + rng.Intn(4200)
		napAwake := rng.Intn(600)
		out = append(out, map[string]any{
			"id":                   newID(rng),
			"day":                  day.Format(dateLayout),
			"type":                 "sleep",
			"bedtime_start":        napStart.Format(time.RFC3339),
			"bedtime_end":          napStart.Add(time.Duration(napTotal+napAwake) * time.Second).Format(time.RFC3339),
			"total_sleep_duration": napTotal,
			"awake_time":           napAwake,
			"time_in_bed":          napTotal + napAwake,
		})
	}
	return out
}

// heartrateRecords returns one sample every two hours, lower and tagged as
// sleep during night hours.
func heartrateRecords(rng *rand.Rand, day time.Time) []map[string]any {
	out := make([]map[string]any, 0, 12)
	for hour := 0; hour < 24; hour += 2 {
		base := 64
		source := "awake"
		if hour < 7 || hour >= 22 {
			base = 50
			source = "sleep"
		}
		ts := day.Add(time.Duration(hour)*time.Hour + time.Duration(rng.Intn(60))*time.Minute)
		out = append(out, map[string]any{
			"bpm":       base + rng.Intn(14),
			"source":    source,
			"timestamp": ts.Format(time.RFC3339),
		})
	}
	return out
}

func sessionRecords(rng *rand.Rand, day time.Time) []map[string]any {
	if rng.Intn(3) != 0 {
		return nil
	}
	start := day.Add(17*time.Hour + time.Duration(rng.Intn(240))*time.Minute)
	length := time.Duration(600+rng.Intn(2400)) * time.Second
	rec := map[string]any{
		"id":             newID(rng),
		"day":            day.Format(dateLayout),
		"type":           sessionTypes[rng.Intn(len(sessionTypes))],
		"start_datetime": start.Format(time.RFC3339),
		"end_datetime":   start.Add(length).Format(time.RFC3339),
	}
	if rng.Intn(2) == 0 {
		rec["mood"] = moods[rng.Intn(len(moods))]
	}
	return []map[string]any{rec}
}

func workoutRecords(rng *rand.Rand, day time.Time) []map[string]any {
	if rng.Intn(2) != 0 {
		return nil
	}
	activity := activities[rng.Intn(len(activities))]
	start := day.Add(7*time.Hour + time.Duration(rng.Intn(600))*time.Minute)
	length := time.Duration(1200+rng.Intn(3600)) * time.Second
	rec := map[string]any{
		"id":             newID(rng),
		"day":            day.Format(dateLayout),
		"activity":       activity,
		"calories":       150 + rng.Intn(550),
		"intensity":      intensities[rng.Intn(len(intensities))],
		"source":         "autodetected",
		"start_datetime": start.Format(time.RFC3339),
		"end_datetime":   start.Add(length).Format(time.RFC3339),
	}
	if activity != "strength_training" {
		rec["distance"] = round1(2000 + rng.Float64()*8000)
	}
	return []map[string]any{rec}
}

// tagRecords carries a list-valued field so downstream flattening of lists
// gets exercised by mock data.
func tagRecords(rng *rand.Rand, day time.Time) []map[string]any {
	if rng.Intn(4) != 0 {
		return nil
	}
	count := 1 + rng.Intn(2)
	tags := make([]string, 0, count)
	for i := 0; i < count; i++ {
		tags = append(tags, tagPool[rng.Intn(len(tagPool))])
	}
	rec := map[string]any{
		"id":        newID(rng),
		"day":       day.Format(dateLayout),
		"timestamp": day.Add(time.Duration(8+rng.Intn(14)) * time.Hour).Format(time.RFC3339),
		"tags":      tags,
	}
	if rng.Intn(3) == 0 {
		rec["text"] = "felt " + moods[rng.Intn(len(moods))]
	}
	return []map[string]any{rec}
}

func spo2Records(rng *rand.Rand, day time.Time) []map[string]any {
	if rng.Intn(8) == 0 {
		return nil
	}
	return []map[string]any{{
		"id":  newID(rng),
		"day": day.Format(dateLayout),
		"spo2_percentage": map[string]any{
			"average": round1(94 + rng.Float64()*4),
		},
	}}
}
