package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/okian/rollcall/internal/adapters/http/swagger"
	app "github.com/okian/rollcall/internal/app"
	"github.com/okian/rollcall/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("ROLLCALL_ADDR", ":8080")
			_ = os.Setenv("ROLLCALL_SNAPSHOT_LIMIT", "250")
			_ = os.Setenv("ROLLCALL_QUEUE_SIZE", "1024")
			defer func() {
				_ = os.Unsetenv("ROLLCALL_ADDR")
				_ = os.Unsetenv("ROLLCALL_SNAPSHOT_LIMIT")
				_ = os.Unsetenv("ROLLCALL_QUEUE_SIZE")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				ctx := context.Background()
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SnapshotLimit, convey.ShouldEqual, 250)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When testing service creation", func() {
			convey.Convey("Then the synchronizer should be creatable with default options", func() {
				svc := app.New()
				convey.So(svc, convey.ShouldNotBeNil)
			})

			convey.Convey("And starting without a store should fail fast", func() {
				svc := app.New(
					app.WithSnapshotLimit(100),
					app.WithQueueSize(256),
				)
				convey.So(svc.Start(context.Background()), convey.ShouldEqual, app.ErrNoStore)
			})
		})

		convey.Convey("When testing HTTP server creation", func() {
			mux := http.NewServeMux()
			swagger.Register(context.Background(), mux)

			srv := &http.Server{
				Addr:              ":0",
				Handler:           mux,
				ReadTimeout:       readTimeout,
				WriteTimeout:      writeTimeout,
				IdleTimeout:       idleTimeout,
				ReadHeaderTimeout: readHeaderTimeout,
			}

			convey.Convey("Then the server should carry the hardening timeouts", func() {
				convey.So(srv.ReadTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.WriteTimeout, convey.ShouldEqual, 10*time.Second)
				convey.So(srv.IdleTimeout, convey.ShouldEqual, 60*time.Second)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, 5*time.Second)
			})
		})
	})
}
