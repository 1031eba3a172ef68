package report

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const secondsToHours = 1.0 / 3600.0

type charter = components.Charter

// renderPage lays the charts out on a single flex page.
func renderPage(w io.Writer, title string, cs []charter) error {
	page := components.NewPage()
	page.PageTitle = title
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(cs...)
	return page.Render(w)
}

// sleepCharts mirrors the panels of the sleep dashboard: duration, stage
// breakdown, heart rate, HRV, breathing, and time in bed, each present only
// when the dataset carries its columns.
func sleepCharts(header []string, rows []map[string]string) []charter {
	dates := columnText(rows, "date")
	var out []charter

	if hasColumns(header, "total_sleep_duration") {
		line := newTimeline("Total Sleep Duration", "Hours")
		line.SetXAxis(dates).
			AddSeries("Sleep Duration", numericSeries(rows, "total_sleep_duration", secondsToHours))
		out = append(out, line)
	}

	if hasColumns(header, "deep_sleep_duration", "rem_sleep_duration", "light_sleep_duration") {
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Sleep Stages Breakdown", Subtitle: "Average hours per night"}),
			charts.WithYAxisOpts(opts.YAxis{Name: "Hours"}),
		)
		bar.SetXAxis([]string{"Average"}).
			AddSeries("Deep Sleep", []opts.BarData{{Value: meanColumn(rows, "deep_sleep_duration") * secondsToHours}}).
			AddSeries("REM Sleep", []opts.BarData{{Value: meanColumn(rows, "rem_sleep_duration") * secondsToHours}}).
			AddSeries("Light Sleep", []opts.BarData{{Value: meanColumn(rows, "light_sleep_duration") * secondsToHours}})
		out = append(out, bar)
	}

	if hasColumns(header, "average_heart_rate") {
		line := newTimeline("Heart Rate Trends", "BPM")
		line.SetXAxis(dates).
			AddSeries("Avg Heart Rate", numericSeries(rows, "average_heart_rate", 1))
		if hasColumns(header, "lowest_heart_rate") {
			line.AddSeries("Lowest HR", numericSeries(rows, "lowest_heart_rate", 1))
		}
		out = append(out, line)
	}

	if hasColumns(header, "average_hrv") {
		line := newTimeline("Heart Rate Variability", "ms")
		line.SetXAxis(dates).
			AddSeries("HRV", numericSeries(rows, "average_hrv", 1))
		out = append(out, line)
	}

	if hasColumns(header, "average_breath") {
		line := newTimeline("Breathing Rate", "Breaths/min")
		line.SetXAxis(dates).
			AddSeries("Breathing Rate", numericSeries(rows, "average_breath", 1))
		out = append(out, line)
	}

	if hasColumns(header, "time_in_bed", "total_sleep_duration") {
		line := newTimeline("Time in Bed vs Sleep", "Hours")
		line.SetXAxis(dates).
			AddSeries("Time in Bed", numericSeries(rows, "time_in_bed", secondsToHours)).
			AddSeries("Sleep Duration", numericSeries(rows, "total_sleep_duration", secondsToHours))
		out = append(out, line)
	}

	return out
}

// heartrateCharts builds the raw sample timeline plus a per-day average.
func heartrateCharts(header []string, rows []map[string]string) []charter {
	if !hasColumns(header, "bpm") {
		return nil
	}

	var out []charter

	line := newTimeline("Heart Rate Samples", "BPM")
	line.SetGlobalOptions(charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}))
	line.SetXAxis(columnText(rows, "timestamp")).
		AddSeries("BPM", numericSeries(rows, "bpm", 1))
	out = append(out, line)

	days, avgs := dailyAverages(rows, "bpm")
	if len(days) > 0 {
		data := make([]opts.BarData, 0, len(avgs))
		for _, a := range avgs {
			data = append(data, opts.BarData{Value: a})
		}
		bar := charts.NewBar()
		bar.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Daily Average Heart Rate"}),
			charts.WithYAxisOpts(opts.YAxis{Name: "BPM"}),
		)
		bar.SetXAxis(days).AddSeries("Average BPM", data)
		out = append(out, bar)
	}

	return out
}

func newTimeline(title, yAxis string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxis}),
	)
	return line
}

// sortRowsBy orders rows by a column's text. ISO dates and timestamps sort
// chronologically under the plain string order.
func sortRowsBy(rows []map[string]string, col string) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i][col] < rows[j][col]
	})
}

func hasColumns(header []string, cols ...string) bool {
	for _, col := range cols {
		found := false
		for _, h := range header {
			if h == col {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func columnText(rows []map[string]string, col string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row[col])
	}
	return out
}

// numericSeries extracts one column as line points in row order. Cells that
// do not parse chart as gaps.
func numericSeries(rows []map[string]string, col string, scale float64) []opts.LineData {
	out := make([]opts.LineData, 0, len(rows))
	for _, row := range rows {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			out = append(out, opts.LineData{Value: nil})
			continue
		}
		out = append(out, opts.LineData{Value: v * scale})
	}
	return out
}

// meanColumn averages the parsable values of one column, 0 when none parse.
func meanColumn(rows []map[string]string, col string) float64 {
	var sum float64
	var n int
	for _, row := range rows {
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// dailyAverages groups samples by calendar day and averages the column.
// The day comes from the date column, falling back to the timestamp's date
// part. Days come back sorted.
func dailyAverages(rows []map[string]string, col string) ([]string, []float64) {
	sums := make(map[string]float64)
	counts := make(map[string]int)

	for _, row := range rows {
		day := row["date"]
		if day == "" {
			day, _, _ = strings.Cut(row["timestamp"], "T")
		}
		if day == "" {
			continue
		}
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			continue
		}
		sums[day] += v
		counts[day]++
	}

	days := make([]string, 0, len(sums))
	for day := range sums {
		days = append(days, day)
	}
	sort.Strings(days)

	avgs := make([]float64, 0, len(days))
	for _, day := range days {
		avgs = append(avgs, sums[day]/float64(counts[day]))
	}
	return days, avgs
}
