package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/rollcall/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		err := logger.Init()
		So(err, ShouldBeNil)

		Convey("When getting the global instance", func() {
			l := logger.Get()

			Convey("Then it should not be nil", func() {
				So(l, ShouldNotBeNil)
			})

			Convey("And logging at all levels should not panic", func() {
				ctx := context.Background()
				So(func() {
					l.Debug(ctx, "debug message", logger.String("k", "v"))
					l.Info(ctx, "info message", logger.Int("n", 1))
					l.Warn(ctx, "warn message", logger.Bool("known", true))
					l.Error(ctx, "error message", logger.Error(errors.New("boom")))
				}, ShouldNotPanic)
			})
		})

		Convey("When creating a named logger", func() {
			l := logger.Named("sync")

			Convey("Then it should be usable", func() {
				So(l, ShouldNotBeNil)
				So(func() { l.Info(context.Background(), "named") }, ShouldNotPanic)
			})
		})

		Convey("When setting levels from strings", func() {
			Convey("Then known levels should be accepted", func() {
				So(logger.SetLevelString("debug"), ShouldBeNil)
				So(logger.SetLevelString("info"), ShouldBeNil)
				So(logger.SetLevelString("WARN"), ShouldBeNil)
				So(logger.SetLevelString("warning"), ShouldBeNil)
				So(logger.SetLevelString("error"), ShouldBeNil)
				So(logger.SetLevelString(""), ShouldBeNil)
			})

			Convey("And unknown levels should be rejected", func() {
				So(logger.SetLevelString("verbose"), ShouldNotBeNil)
			})
		})

		Convey("When syncing", func() {
			So(logger.Sync(), ShouldBeNil)
		})
	})
}
