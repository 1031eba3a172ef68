package report_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	report "github.com/brianraines/nightowl/internal/adapters/report"
	category "github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

type fakeReader struct {
	header map[category.Category][]string
	rows   map[category.Category][]map[string]string
	err    error
}

func (f *fakeReader) Exists(c category.Category) bool {
	_, ok := f.rows[c]
	return ok
}

func (f *fakeReader) ReadAll(_ context.Context, c category.Category) ([]string, []map[string]string, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	rows, ok := f.rows[c]
	if !ok {
		return nil, nil, errors.New("dataset missing")
	}
	return f.header[c], rows, nil
}

func sleepFixture() *fakeReader {
	return &fakeReader{
		header: map[category.Category][]string{
			category.Sleep: {
				"date", "is_nap", "average_breath", "average_heart_rate", "average_hrv",
				"deep_sleep_duration", "light_sleep_duration", "lowest_heart_rate",
				"rem_sleep_duration", "time_in_bed", "total_sleep_duration",
			},
		},
		rows: map[category.Category][]map[string]string{
			category.Sleep: {
				{
					"date": "2024-01-02", "is_nap": "0", "average_breath": "13.5",
					"average_heart_rate": "58.1", "average_hrv": "52",
					"deep_sleep_duration": "5400", "light_sleep_duration": "14400",
					"lowest_heart_rate": "49", "rem_sleep_duration": "7200",
					"time_in_bed": "30600", "total_sleep_duration": "27000",
				},
				{
					"date": "2024-01-01", "is_nap": "0", "average_breath": "14",
					"average_heart_rate": "60.4", "average_hrv": "48",
					"deep_sleep_duration": "6000", "light_sleep_duration": "15000",
					"lowest_heart_rate": "51", "rem_sleep_duration": "6600",
					"time_in_bed": "31200", "total_sleep_duration": "28800",
				},
			},
		},
	}
}

func TestRenderSleep(t *testing.T) {
	Convey("Given a sleep dashboard render", t, func() {
		ctx := context.Background()

		Convey("When the dataset has rows for every panel", func() {
			dir := t.TempDir()
			r, err := report.New(sleepFixture(), dir)
			So(err, ShouldBeNil)

			path, err := r.RenderSleep(ctx)

			Convey("Then a dashboard file is written", func() {
				So(err, ShouldBeNil)
				So(path, ShouldEqual, filepath.Join(dir, report.SleepDashboardFile))

				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				html := string(raw)
				So(html, ShouldContainSubstring, "echarts")
				So(html, ShouldContainSubstring, "Total Sleep Duration")
				So(html, ShouldContainSubstring, "Sleep Stages Breakdown")
				So(html, ShouldContainSubstring, "Heart Rate Trends")
				So(html, ShouldContainSubstring, "Time in Bed vs Sleep")
			})

			Convey("And the timeline is in chronological order", func() {
				raw, _ := os.ReadFile(path)
				html := string(raw)
				So(strings.Index(html, "2024-01-01"), ShouldBeLessThan, strings.Index(html, "2024-01-02"))
			})
		})

		Convey("When the dataset misses optional columns", func() {
			reader := &fakeReader{
				header: map[category.Category][]string{
					category.Sleep: {"date", "is_nap", "total_sleep_duration"},
				},
				rows: map[category.Category][]map[string]string{
					category.Sleep: {
						{"date": "2024-01-01", "is_nap": "0", "total_sleep_duration": "28800"},
					},
				},
			}
			r, err := report.New(reader, t.TempDir())
			So(err, ShouldBeNil)

			path, err := r.RenderSleep(ctx)

			Convey("Then only the panels with data are rendered", func() {
				So(err, ShouldBeNil)

				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				html := string(raw)
				So(html, ShouldContainSubstring, "Total Sleep Duration")
				So(html, ShouldNotContainSubstring, "Sleep Stages Breakdown")
				So(html, ShouldNotContainSubstring, "Heart Rate Trends")
			})
		})

		Convey("When the dataset is empty", func() {
			reader := &fakeReader{
				header: map[category.Category][]string{category.Sleep: {"date", "is_nap"}},
				rows:   map[category.Category][]map[string]string{category.Sleep: {}},
			}
			dir := t.TempDir()
			r, err := report.New(reader, dir)
			So(err, ShouldBeNil)

			path, err := r.RenderSleep(ctx)

			Convey("Then no file is written", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, report.ErrNoData)
				So(path, ShouldEqual, "")

				_, statErr := os.Stat(filepath.Join(dir, report.SleepDashboardFile))
				So(os.IsNotExist(statErr), ShouldBeTrue)
			})
		})

		Convey("When no column can be charted", func() {
			reader := &fakeReader{
				header: map[category.Category][]string{category.Sleep: {"date", "is_nap", "note"}},
				rows: map[category.Category][]map[string]string{
					category.Sleep: {{"date": "2024-01-01", "is_nap": "0", "note": "fine"}},
				},
			}
			r, err := report.New(reader, t.TempDir())
			So(err, ShouldBeNil)

			_, err = r.RenderSleep(ctx)

			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, report.ErrNoData)
		})
	})
}

func TestRenderHeartrate(t *testing.T) {
	Convey("Given a heart rate dashboard render", t, func() {
		ctx := context.Background()

		reader := &fakeReader{
			header: map[category.Category][]string{
				category.Heartrate: {"date", "bpm", "source", "timestamp"},
			},
			rows: map[category.Category][]map[string]string{
				category.Heartrate: {
					{"date": "2024-01-01", "bpm": "58", "source": "sleep", "timestamp": "2024-01-01T08:00:00+00:00"},
					{"date": "2024-01-01", "bpm": "62", "source": "sleep", "timestamp": "2024-01-01T08:05:00+00:00"},
					{"date": "2024-01-02", "bpm": "71", "source": "awake", "timestamp": "2024-01-02T09:00:00+00:00"},
				},
			},
		}

		Convey("When rendering", func() {
			dir := t.TempDir()
			r, err := report.New(reader, dir)
			So(err, ShouldBeNil)

			path, err := r.RenderHeartrate(ctx)

			Convey("Then samples and daily averages are charted", func() {
				So(err, ShouldBeNil)
				So(path, ShouldEqual, filepath.Join(dir, report.HeartrateDashboardFile))

				raw, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				html := string(raw)
				So(html, ShouldContainSubstring, "Heart Rate Samples")
				So(html, ShouldContainSubstring, "Daily Average Heart Rate")
			})
		})
	})
}

func TestRenderAll(t *testing.T) {
	Convey("Given a render of every dashboard", t, func() {
		ctx := context.Background()

		Convey("When only the sleep dataset exists", func() {
			r, err := report.New(sleepFixture(), t.TempDir())
			So(err, ShouldBeNil)

			paths := r.RenderAll(ctx)

			Convey("Then only the sleep dashboard is produced", func() {
				So(len(paths), ShouldEqual, 1)
				So(paths[0], ShouldEndWith, report.SleepDashboardFile)
			})
		})

		Convey("When a dataset exists but is empty", func() {
			reader := sleepFixture()
			reader.rows[category.Heartrate] = []map[string]string{}
			reader.header[category.Heartrate] = []string{"date", "bpm", "timestamp"}

			r, err := report.New(reader, t.TempDir())
			So(err, ShouldBeNil)

			paths := r.RenderAll(ctx)

			Convey("Then the empty dataset is skipped without failing the rest", func() {
				So(len(paths), ShouldEqual, 1)
				So(paths[0], ShouldEndWith, report.SleepDashboardFile)
			})
		})

		Convey("When no dataset exists", func() {
			r, err := report.New(&fakeReader{}, t.TempDir())
			So(err, ShouldBeNil)

			paths := r.RenderAll(ctx)

			So(paths, ShouldBeEmpty)
		})
	})
}

func TestNew(t *testing.T) {
	Convey("Given renderer construction", t, func() {
		Convey("When the report directory cannot be created", func() {
			blocked := filepath.Join(t.TempDir(), "blocked")
			So(os.WriteFile(blocked, []byte("file"), 0o644), ShouldBeNil)

			_, err := report.New(&fakeReader{}, filepath.Join(blocked, "reports"))

			So(err, ShouldNotBeNil)
			So(err, ShouldWrap, report.ErrCreateDir)
		})
	})
}
