package config_test

import (
	"testing"
	"time"

	"github.com/brianraines/nightowl/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.BaseURL, convey.ShouldEqual, "https://api.ouraring.com/v2")
			convey.So(cfg.AccessToken, convey.ShouldEqual, "")
			convey.So(cfg.OutputDir, convey.ShouldEqual, "exports/data")
			convey.So(cfg.ReportDir, convey.ShouldEqual, "exports/reports")
			convey.So(cfg.Days, convey.ShouldEqual, 7)
			convey.So(cfg.RequestTimeout, convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.MetricsAddr, convey.ShouldEqual, ":9090")
		})
	})
}
