package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/cricscore/internal/adapters/http/api"
	service "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/client"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func startServer(opts ...service.Option) (*httptest.Server, func()) {
	opts = append(opts, service.WithLogger(logger.Nop()))
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc, api.WithLogger(logger.Nop())).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	return srv, func() {
		srv.Close()
		svc.Stop()
	}
}

func fixture() []byte {
	raw, err := os.ReadFile("testdata/scorecard.json")
	if err != nil {
		panic(err)
	}
	return raw
}

func TestClient(t *testing.T) {
	convey.Convey("Given a running rating server", t, func() {
		srv, stop := startServer(service.WithWorkerCount(2))
		defer stop()
		c := client.New(srv.URL+"/", client.WithTimeout(5*time.Second))
		ctx := context.Background()

		convey.Convey("Then the health check passes", func() {
			convey.So(c.Health(ctx), convey.ShouldBeNil)
		})

		convey.Convey("When a scorecard is rated synchronously", func() {
			res, err := c.Rate(ctx, fixture())

			convey.Convey("Then the ratings come back with a handle", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Success, convey.ShouldBeTrue)
				convey.So(res.ResultID, convey.ShouldNotBeEmpty)
				convey.So(res.Team1.Name, convey.ShouldEqual, "Lions")
				convey.So(len(res.Anomalies), convey.ShouldEqual, 1)
				convey.So(res.MVP, convey.ShouldNotBeNil)
			})

			convey.Convey("Then the stored result matches", func() {
				stored, done, err := c.Result(ctx, res.ResultID)
				convey.So(err, convey.ShouldBeNil)
				convey.So(done, convey.ShouldBeTrue)
				convey.So(stored.MVP.Name, convey.ShouldEqual, res.MVP.Name)
			})
		})

		convey.Convey("When a scorecard is submitted", func() {
			job, err := c.Submit(ctx, fixture())
			convey.So(err, convey.ShouldBeNil)
			convey.So(job.Status, convey.ShouldEqual, "accepted")

			var done bool
			deadline := time.Now().Add(2 * time.Second)
			for !done && time.Now().Before(deadline) {
				_, done, err = c.Result(ctx, job.ResultID)
				time.Sleep(5 * time.Millisecond)
			}

			convey.Convey("Then the job finishes", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(done, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the scorecard is invalid", func() {
			_, err := c.Rate(ctx, []byte(`{"second_innings":{}}`))

			convey.Convey("Then the API error is typed", func() {
				var apiErr *client.APIError
				convey.So(errors.As(err, &apiErr), convey.ShouldBeTrue)
				convey.So(apiErr.Status, convey.ShouldEqual, http.StatusBadRequest)
				convey.So(len(apiErr.Details), convey.ShouldBeGreaterThan, 0)
				convey.So(errors.Is(err, client.ErrInvalidScorecard), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an unknown result is fetched", func() {
			_, _, err := c.Result(ctx, "nope")

			convey.Convey("Then it is not found", func() {
				convey.So(errors.Is(err, client.ErrNotFound), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a load run is made", func() {
			stats, err := c.Load(ctx, fixture(), client.LoadConfig{Jobs: 20, Workers: 4, PollInterval: 5 * time.Millisecond})

			convey.Convey("Then every job is accepted and completed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Submitted, convey.ShouldEqual, 20)
				convey.So(stats.Accepted, convey.ShouldEqual, 20)
				convey.So(stats.Completed, convey.ShouldEqual, 20)
				convey.So(stats.Failed, convey.ShouldEqual, 0)
				convey.So(stats.JobsPerSecond(), convey.ShouldBeGreaterThan, 0)
			})
		})
	})

	convey.Convey("Given a server that is down", t, func() {
		srv, stop := startServer()
		url := srv.URL
		stop()
		c := client.New(url, client.WithTimeout(time.Second))

		convey.Convey("Then calls fail", func() {
			convey.So(c.Health(context.Background()), convey.ShouldNotBeNil)
			_, err := c.Load(context.Background(), fixture(), client.LoadConfig{Jobs: 1})
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestAPIError(t *testing.T) {
	convey.Convey("Given API errors by status", t, func() {
		busy := &client.APIError{Status: http.StatusTooManyRequests, Code: "backpressure"}
		missing := &client.APIError{Status: http.StatusNotFound, Code: "not_found"}

		convey.Convey("Then they match the sentinels", func() {
			convey.So(errors.Is(busy, client.ErrBackpressure), convey.ShouldBeTrue)
			convey.So(errors.Is(busy, client.ErrNotFound), convey.ShouldBeFalse)
			convey.So(errors.Is(missing, client.ErrNotFound), convey.ShouldBeTrue)
			convey.So(busy.Error(), convey.ShouldEqual, "429 backpressure: ")
		})
	})
}
