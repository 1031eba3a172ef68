package ops

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRegister(t *testing.T) {
	Convey("Given the operational routes on a mux", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()
		Register(ctx, mux)

		Convey("When probing /healthz", func() {
			req := httptest.NewRequest("GET", "/healthz", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the probe reports ok as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})
		})

		Convey("When scraping /metrics", func() {
			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then exporter metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "nightowl_exporter_sync_runs_total")
			})
		})

		Convey("When the probe has been hit and metrics are scraped", func() {
			probe := httptest.NewRequest("GET", "/healthz", nil)
			mux.ServeHTTP(httptest.NewRecorder(), probe)

			req := httptest.NewRequest("GET", "/metrics", nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then the middleware counted the probe request", func() {
				So(w.Body.String(), ShouldContainSubstring,
					`nightowl_exporter_http_requests_total{endpoint="healthz",method="GET",status_code="200"}`)
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a handler that fails", t, func() {
		handler := MetricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}, "failing")

		Convey("When the wrapped handler runs", func() {
			req := httptest.NewRequest("GET", "/failing", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			Convey("Then the original status passes through", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})

			Convey("And the failure status is recorded", func() {
				mux := http.NewServeMux()
				Register(context.Background(), mux)

				scrape := httptest.NewRequest("GET", "/metrics", nil)
				sw := httptest.NewRecorder()
				mux.ServeHTTP(sw, scrape)

				So(sw.Body.String(), ShouldContainSubstring,
					`nightowl_exporter_http_requests_total{endpoint="failing",method="GET",status_code="500"}`)
			})
		})
	})
}
