package service_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	csvstore "github.com/brianraines/nightowl/internal/adapters/csvstore"
	"github.com/brianraines/nightowl/internal/adapters/oura"
	report "github.com/brianraines/nightowl/internal/adapters/report"
	service "github.com/brianraines/nightowl/internal/app"
	category "github.com/brianraines/nightowl/internal/domain/category"
	"github.com/brianraines/nightowl/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const sleepPayload = `{"data":[
  {"day":"2024-01-01","bedtime_start":"2024-01-01T23:10:00+00:00","total_sleep_duration":28800,
   "time_in_bed":30600,"average_heart_rate":58.5,"average_hrv":52,"average_breath":13.5,
   "deep_sleep_duration":5400,"rem_sleep_duration":7200,"light_sleep_duration":16200,
   "lowest_heart_rate":49,"contributors":{"total":90,"efficiency":88}},
  {"day":"2024-01-02","bedtime_start":"2024-01-02T22:55:00+00:00","total_sleep_duration":27000,
   "time_in_bed":30000,"average_heart_rate":60.2,"average_hrv":48,"average_breath":14.1,
   "deep_sleep_duration":6000,"rem_sleep_duration":6600,"light_sleep_duration":14400,
   "lowest_heart_rate":51,"contributors":{"total":84,"efficiency":86}}
],"next_token":null}`

const heartratePayload = `{"data":[
  {"timestamp":"2024-01-01T08:00:00+00:00","bpm":58,"source":"sleep"},
  {"timestamp":"2024-01-01T08:05:00+00:00","bpm":61,"source":"sleep"},
  {"timestamp":"2024-01-02T09:00:00+00:00","bpm":72,"source":"awake"}
],"next_token":null}`

func newOuraStub() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/usercollection/sleep":
			fmt.Fprint(w, sleepPayload)
		case "/usercollection/heartrate":
			fmt.Fprint(w, heartratePayload)
		case "/usercollection/session":
			http.NotFound(w, r)
		default:
			fmt.Fprint(w, `{"data":[],"next_token":null}`)
		}
	}))
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a fully wired service", t, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		srv := newOuraStub()
		defer srv.Close()

		client, err := oura.New(srv.URL, "integration-token")
		So(err, ShouldBeNil)

		baseDir := t.TempDir()
		store, err := csvstore.New(filepath.Join(baseDir, "data"))
		So(err, ShouldBeNil)
		renderer, err := report.New(store, filepath.Join(baseDir, "reports"))
		So(err, ShouldBeNil)

		svc := service.New(
			service.WithFetcher(client),
			service.WithStore(store),
			service.WithRenderer(renderer),
		)

		Convey("When running a first sync", func() {
			sum, err := svc.Sync(ctx, nil, "2024-01-01", "2024-01-07", true)
			So(err, ShouldBeNil)

			Convey("Then records land in per-category CSV files", func() {
				So(sum.TotalFetched(), ShouldEqual, 5)
				So(sum.TotalWritten(), ShouldEqual, 5)
				So(store.Exists(category.Sleep), ShouldBeTrue)
				So(store.Exists(category.Heartrate), ShouldBeTrue)
				So(store.Exists(category.Tag), ShouldBeFalse)

				header, rows, readErr := store.ReadAll(ctx, category.Sleep)
				So(readErr, ShouldBeNil)
				So(header[0], ShouldEqual, "date")
				So(header[1], ShouldEqual, "is_nap")
				So(header, ShouldContain, "contributors_total")
				So(len(rows), ShouldEqual, 2)
				So(rows[0]["date"], ShouldEqual, "2024-01-01")
				So(rows[0]["is_nap"], ShouldEqual, "0")
				So(rows[0]["contributors_total"], ShouldEqual, "90")
				So(rows[0]["average_heart_rate"], ShouldEqual, "58.5")
			})

			Convey("And the heartrate dataset keeps its sample timestamps", func() {
				_, rows, readErr := store.ReadAll(ctx, category.Heartrate)
				So(readErr, ShouldBeNil)
				So(len(rows), ShouldEqual, 3)
				So(rows[0]["timestamp"], ShouldEqual, "2024-01-01T08:00:00+00:00")
				So(rows[0]["date"], ShouldEqual, "2024-01-01")
				So(rows[0]["bpm"], ShouldEqual, "58")
			})

			Convey("And a failed endpoint does not abort the run", func() {
				failed := sum.FailedCategories()
				So(len(failed), ShouldEqual, 1)
				So(failed[0], ShouldEqual, category.Session)
			})

			Convey("And a second sync of the same window writes nothing new", func() {
				again, againErr := svc.Sync(ctx, nil, "2024-01-01", "2024-01-07", true)

				So(againErr, ShouldBeNil)
				So(again.TotalFetched(), ShouldEqual, 5)
				So(again.TotalWritten(), ShouldEqual, 0)
				So(again.TotalSkipped(), ShouldEqual, 5)

				_, rows, readErr := store.ReadAll(ctx, category.Sleep)
				So(readErr, ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
			})

			Convey("And dashboards render from the persisted data", func() {
				paths, reportErr := svc.Report(ctx)

				So(reportErr, ShouldBeNil)
				So(len(paths), ShouldEqual, 2)
				for _, p := range paths {
					info, statErr := os.Stat(p)
					So(statErr, ShouldBeNil)
					So(info.Size(), ShouldBeGreaterThan, 0)
				}
			})
		})

		Convey("When running an overwrite sync after an append", func() {
			_, err := svc.Sync(ctx, []category.Category{category.Sleep}, "2024-01-01", "2024-01-07", true)
			So(err, ShouldBeNil)

			sum, err := svc.Sync(ctx, []category.Category{category.Sleep}, "2024-01-01", "2024-01-07", false)

			Convey("Then the dataset is rebuilt from the fetched batch", func() {
				So(err, ShouldBeNil)
				So(sum.TotalWritten(), ShouldEqual, 2)

				_, rows, readErr := store.ReadAll(ctx, category.Sleep)
				So(readErr, ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
			})
		})
	})
}
