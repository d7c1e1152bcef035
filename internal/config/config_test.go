package config_test

import (
	"testing"

	"github.com/okian/rollcall/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Table, convey.ShouldEqual, "detections")
			convey.So(cfg.Channel, convey.ShouldEqual, "detections_insert")
			convey.So(cfg.SnapshotLimit, convey.ShouldEqual, 500)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 4096)
			convey.So(cfg.MaxEventsLimit, convey.ShouldEqual, 1000)
		})
	})
}
