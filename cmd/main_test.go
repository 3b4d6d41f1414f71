package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/cricscore/internal/config"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

const scorecard = `{
  "match_id": "cmd-1", "team1_name": "Alpha", "team2_name": "Beta", "winner": "Alpha",
  "first_innings": {
    "total_runs": 160, "total_wickets": 7,
    "batting": [{"name": "a1", "runs": 64, "balls": 41, "fours": 5, "sixes": 3}],
    "bowling": [{"name": "b1", "overs": 4, "runs_conceded": 31, "wickets": 3}]
  },
  "second_innings": {
    "total_runs": 140, "total_wickets": 10, "total_overs": 19.3,
    "batting": [{"name": "b1", "runs": 12, "balls": 15}],
    "bowling": [{"name": "a2", "overs": 4, "maidens": 1, "runs_conceded": 18, "wickets": 4}]
  }
}`

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application wiring", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)

		t.Setenv("CRICSCORE_ADDR", ":8080")
		t.Setenv("CRICSCORE_QUEUE_SIZE", "1000")
		t.Setenv("CRICSCORE_WORKER_COUNT", "2")

		cfg, err := config.Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then environment overrides are applied", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 1000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, 2)
		})

		convey.Convey("When the service and routes are built", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			svc := newService(cfg, logger.Get())
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer func() { _ = svc.Stop(ctx) }()

			handler, err := newHandler(ctx, cfg, svc)
			convey.So(err, convey.ShouldBeNil)

			serve := func(method, target, body string) *httptest.ResponseRecorder {
				req := httptest.NewRequest(method, target, strings.NewReader(body))
				w := httptest.NewRecorder()
				handler.ServeHTTP(w, req)
				return w
			}

			convey.Convey("Then the API docs are served", func() {
				convey.So(serve(http.MethodGet, "/openapi.yaml", "").Code, convey.ShouldEqual, http.StatusOK)
				convey.So(serve(http.MethodGet, "/api-docs", "").Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("Then a submitted match reaches the leaderboard", func() {
				convey.So(serve(http.MethodPost, "/matches", scorecard).Code, convey.ShouldEqual, http.StatusAccepted)

				var w *httptest.ResponseRecorder
				deadline := time.Now().Add(5 * time.Second)
				for time.Now().Before(deadline) {
					w = serve(http.MethodGet, "/matches/cmd-1", "")
					if w.Code == http.StatusOK {
						break
					}
					time.Sleep(10 * time.Millisecond)
				}
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

				lb := serve(http.MethodGet, "/leaderboard?limit=10", "")
				convey.So(lb.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(lb.Body.String(), convey.ShouldContainSubstring, `"player":"a2"`)

				list := serve(http.MethodGet, "/matches", "")
				convey.So(list.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(list.Body.String(), convey.ShouldContainSubstring, `"match_id":"cmd-1"`)

				convey.So(serve(http.MethodPost, "/matches", scorecard).Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("Then the configured leaderboard cap is enforced", func() {
				w := serve(http.MethodGet, "/leaderboard?limit=101", "")
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config listening on a free port", t, func() {
		convey.So(logger.Init(), convey.ShouldBeNil)
		cfg := config.New()
		cfg.Addr = "127.0.0.1:0"
		cfg.WorkerCount = 1

		convey.Convey("When the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg, logger.Get()) }()
			time.Sleep(50 * time.Millisecond)
			cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(10 * time.Second):
					t.Fatal("run did not return")
				}
			})
		})
	})
}
