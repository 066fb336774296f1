package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/okian/cricscore/internal/adapters/repository"
	app "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/config"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func setEnv(vars map[string]string) func() {
	for k, v := range vars {
		_ = os.Setenv(k, v)
	}
	return func() {
		for k := range vars {
			_ = os.Unsetenv(k)
		}
	}
}

func TestMainConfiguration(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			defer setEnv(map[string]string{
				"CRICSCORE_ADDR":         ":8080",
				"CRICSCORE_QUEUE_SIZE":   "1000",
				"CRICSCORE_WORKER_COUNT": "4",
			})()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 4)
			})
		})

		convey.Convey("When the address is empty", func() {
			defer setEnv(map[string]string{"CRICSCORE_ADDR": ""})()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the redis store is selected without an address", func() {
			defer setEnv(map[string]string{"CRICSCORE_STORE_BACKEND": "redis"})()

			convey.Convey("Then run fails before serving", func() {
				err := run(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "failed to load config")
			})
		})
	})
}

func TestBuildStore(t *testing.T) {
	convey.Convey("Given a configuration", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)

		convey.Convey("When the memory backend is selected", func() {
			store, err := buildStore(ctx, cfg)

			convey.Convey("Then the service default is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(store, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the redis backend is selected", func() {
			mr := miniredis.RunT(t)
			cfg.StoreBackend = config.StoreRedis
			cfg.RedisAddr = mr.Addr()

			store, err := buildStore(ctx, cfg)

			convey.Convey("Then a redis store is opened", func() {
				convey.So(err, convey.ShouldBeNil)
				_, ok := store.(*repository.RedisStore)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(store.Close(), convey.ShouldBeNil)
			})
		})

		convey.Convey("When redis is unreachable", func() {
			mr := miniredis.RunT(t)
			cfg.StoreBackend = config.StoreRedis
			cfg.RedisAddr = mr.Addr()
			mr.Close()

			_, err := buildStore(ctx, cfg)

			convey.Convey("Then opening the store fails", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMainRoutes(t *testing.T) {
	convey.Convey("Given a started service behind the full mux", t, func() {
		ctx := context.Background()
		cfg := config.New(ctx)
		cfg.WorkerCount = 2

		svc := newService(cfg, logger.Nop(), nil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, cfg, svc)

		for _, path := range []string{"/healthz", "/stats", "/api-docs", "/openapi.yaml"} {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		}

		convey.Convey("Then the HTTP server carries the timeouts", func() {
			srv := newHTTPServer(cfg.Addr, mux)
			convey.So(srv.Addr, convey.ShouldEqual, ":9080")
			convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	convey.Convey("Given the metrics updaters", t, func() {
		convey.Convey("Then the system updater returns when the context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx, 10*time.Millisecond) }, convey.ShouldNotPanic)
		})

		convey.Convey("Then the service updater returns when the context ends", func() {
			svc := app.New(app.WithLogger(logger.Nop()))
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startServiceMetricsUpdater(ctx, svc, 10*time.Millisecond) }, convey.ShouldNotPanic)
		})
	})
}
