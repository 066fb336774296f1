package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/cricscore/internal/adapters/http/api"
	service "github.com/okian/cricscore/internal/app"
	"github.com/okian/cricscore/internal/client"
	"github.com/okian/cricscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const fixturePath = "testdata/scorecard.json"

func run(stdin string, args ...string) (string, error) {
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func startServer() (*httptest.Server, func()) {
	svc := service.New(service.WithLogger(logger.Nop()), service.WithWorkerCount(2))
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

func TestScoreCommand(t *testing.T) {
	Convey("Given the score command", t, func() {
		Convey("When a scorecard is rated as a table", func() {
			out, err := run("", "score", fixturePath)

			Convey("Then both teams, the MVP and the anomalies are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Lions 160/5")
				So(out, ShouldContainSubstring, "Winner: Tigers")
				So(out, ShouldContainSubstring, "Venue: Eden Park")
				So(out, ShouldContainSubstring, "PLAYER")
				So(out, ShouldContainSubstring, "Ari Opener")
				So(out, ShouldContainSubstring, "Dev Bowler")
				So(out, ShouldContainSubstring, "MVP: ")
				So(out, ShouldContainSubstring, "Anomalies (1):")
				So(out, ShouldContainSubstring, "blank_name at first_innings.batting[2]")
				So(out, ShouldNotContainSubstring, "Runs")
			})
		})

		Convey("When details are requested", func() {
			out, err := run("", "score", "--details", fixturePath)

			Convey("Then the breakdown rows are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "  Batting")
				So(out, ShouldContainSubstring, "Runs")
				So(out, ShouldContainSubstring, "  Bowling")
				So(out, ShouldContainSubstring, "Wickets")
			})
		})

		Convey("When JSON output is requested from stdin", func() {
			raw, err := os.ReadFile(fixturePath)
			So(err, ShouldBeNil)
			out, err := run(string(raw), "score", "--format", "json", "-")
			So(err, ShouldBeNil)

			var res client.Rating
			So(json.Unmarshal([]byte(out), &res), ShouldBeNil)

			Convey("Then the full result is encoded", func() {
				So(res.Success, ShouldBeTrue)
				So(len(res.Players()), ShouldEqual, 7)
				So(len(res.Anomalies), ShouldEqual, 1)
				So(out, ShouldContainSubstring, `"rating_color"`)
			})
		})

		Convey("When the format is unknown", func() {
			_, err := run("", "score", "--format", "xml", fixturePath)

			Convey("Then it fails before reading input", func() {
				So(err, ShouldNotBeNil)
				So(err.Error(), ShouldContainSubstring, "unsupported format")
			})
		})

		Convey("When the scorecard is invalid", func() {
			path := filepath.Join(t.TempDir(), "bad.json")
			So(os.WriteFile(path, []byte(`[]`), 0o600), ShouldBeNil)
			_, err := run("", "score", path)

			Convey("Then the error is an invalid input error", func() {
				So(errors.Is(err, errInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When the file does not exist", func() {
			_, err := run("", "score", "missing.json")

			Convey("Then it is a load error", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, errInvalidInput), ShouldBeFalse)
			})
		})

		Convey("When no file is given", func() {
			_, err := run("", "score")
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a running rating server", t, func() {
		srv, stop := startServer()
		defer stop()

		Convey("When a scorecard is rated remotely", func() {
			out, err := run("", "score", "--server", srv.URL, fixturePath)

			Convey("Then the stored result handle is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Result: ")
				So(out, ShouldContainSubstring, "Ari Opener")
			})
		})

		Convey("When an invalid scorecard is rated remotely", func() {
			_, err := run(`{}`, "score", "--server", srv.URL, "-")

			Convey("Then the error is an invalid input error", func() {
				So(errors.Is(err, errInvalidInput), ShouldBeTrue)
			})
		})
	})
}

func TestLoadCommand(t *testing.T) {
	Convey("Given a running rating server", t, func() {
		srv, stop := startServer()
		defer stop()

		Convey("When a small load run is made", func() {
			out, err := run("", "load", "--server", srv.URL, "--jobs", "6", "--workers", "2", fixturePath)

			Convey("Then every job is accepted and completed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "submitted: 6")
				So(out, ShouldContainSubstring, "accepted:  6")
				So(out, ShouldContainSubstring, "completed: 6")
			})
		})
	})

	Convey("Given no server", t, func() {
		Convey("When a load run is made", func() {
			_, err := run("", "load", "--server", "http://127.0.0.1:1", "--timeout", "2s", fixturePath)

			Convey("Then it fails the health check", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRootCommand(t *testing.T) {
	Convey("Given the root command", t, func() {
		Convey("Then both subcommands are registered", func() {
			cmd := newRootCommand()
			names := []string{}
			for _, c := range cmd.Commands() {
				names = append(names, c.Name())
			}
			So(names, ShouldContain, "score")
			So(names, ShouldContain, "load")
		})

		Convey("Then an unknown log format is rejected", func() {
			_, err := run("", "--log-format", "xml", "score", fixturePath)
			So(err, ShouldNotBeNil)
		})
	})
}
