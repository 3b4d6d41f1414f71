package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/okian/cricscore/internal/adapters/http/api"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/rating"
	"github.com/okian/cricscore/internal/domain/types"
	"github.com/okian/cricscore/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const scorecard = `{
  "team1_name": "Alpha", "team2_name": "Beta", "winner": "Beta",
  "first_innings": {
    "total_runs": 150, "total_wickets": 6, "total_overs": 20,
    "batting": [{"name": "a1", "runs": 60, "balls": 40, "fours": 6, "sixes": 2, "dismissal": "caught"}],
    "bowling": [{"name": "b1", "overs": 4, "runs_conceded": 28, "wickets": 2, "dismissed_batsmen_runs": "60"}],
    "fielding_events": [{"player_name": "b2", "event_type": "catch"}]
  },
  "second_innings": {
    "total_runs": 151, "total_wickets": 3, "total_overs": 18.4,
    "batting": [{"name": "b2", "runs": 80, "balls": 50, "dismissal": "not_out"}],
    "bowling": [{"name": "a1", "overs": 3.4, "runs_conceded": 40, "role": "batting_all_rounder"}]
  }
}`

// mockDependencies satisfies api.Dependencies with a real rating engine and
// in-memory fakes for everything stateful.
type mockDependencies struct {
	*rating.Engine

	mu         sync.Mutex
	seen       map[string]bool
	enqueued   []model.Submission
	enqueueErr error
	matches    map[string]model.MatchRatings
	players    map[string]types.PlayerProfile
	standings  []types.Standing
	topNErr    error
	leaders    map[types.Discipline][]types.Leader
	teams      map[string]types.TeamSummary
	summaries  []types.MatchSummary
	listLimit  int
}

func newDeps() *mockDependencies {
	return &mockDependencies{
		Engine:  rating.NewEngine(),
		seen:    make(map[string]bool),
		matches: make(map[string]model.MatchRatings),
		players: make(map[string]types.PlayerProfile),
		leaders: make(map[types.Discipline][]types.Leader),
		teams:   make(map[string]types.TeamSummary),
	}
}

func (m *mockDependencies) SeenAndRecord(_ context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[id] {
		return true
	}
	m.seen[id] = true
	return false
}

func (m *mockDependencies) Unrecord(_ context.Context, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, id)
}

func (m *mockDependencies) Size() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.seen))
}

func (m *mockDependencies) Enqueue(_ context.Context, s model.Submission) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.enqueued = append(m.enqueued, s)
	return nil
}

func (m *mockDependencies) Match(_ context.Context, id string) (model.MatchRatings, error) {
	r, ok := m.matches[id]
	if !ok {
		return model.MatchRatings{}, repository.ErrNotFound
	}
	return r, nil
}

func (m *mockDependencies) Player(_ context.Context, name string) (types.PlayerProfile, error) {
	p, ok := m.players[name]
	if !ok {
		return types.PlayerProfile{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *mockDependencies) Search(_ context.Context, query string, n int) ([]types.Standing, error) {
	var out []types.Standing
	for _, st := range m.standings {
		if len(out) < n && strings.Contains(strings.ToLower(st.Player), strings.ToLower(query)) {
			out = append(out, st)
		}
	}
	return out, nil
}

func (m *mockDependencies) TopN(_ context.Context, n int) ([]types.Standing, error) {
	if m.topNErr != nil {
		return nil, m.topNErr
	}
	if n > len(m.standings) {
		return m.standings, nil
	}
	return m.standings[:n], nil
}

func (m *mockDependencies) Leaders(_ context.Context, d types.Discipline, n int) ([]types.Leader, error) {
	rows := m.leaders[d]
	if n < len(rows) {
		rows = rows[:n]
	}
	return rows, nil
}

func (m *mockDependencies) Team(_ context.Context, name string) (types.TeamSummary, error) {
	t, ok := m.teams[name]
	if !ok {
		return types.TeamSummary{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *mockDependencies) Teams(context.Context) ([]types.TeamSummary, error) {
	out := make([]types.TeamSummary, 0, len(m.teams))
	for _, t := range m.teams {
		t.Results = nil
		out = append(out, t)
	}
	return out, nil
}

func (m *mockDependencies) Matches(_ context.Context, n int) ([]types.MatchSummary, error) {
	m.listLimit = n
	if n < len(m.summaries) {
		return m.summaries[:n], nil
	}
	return m.summaries, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestRouter(deps *mockDependencies) http.Handler {
	router := api.NewRouter()
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"queue_len": 0}}, 50)
	server.Register(context.Background(), router)
	return router
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		_ = logger.Init()
		h := newTestRouter(newDeps())

		Convey("Then the health endpoint serves metrics", func() {
			w := do(h, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "cricscore_")
		})

		Convey("Then the stats endpoint serves JSON", func() {
			w := do(h, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
			So(w.Body.String(), ShouldContainSubstring, "queue_len")
		})

		Convey("Then unknown paths are a JSON 404", func() {
			w := do(h, http.MethodGet, "/nope", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, "not_found")
		})

		Convey("Then a wrong method is rejected", func() {
			w := do(h, http.MethodGet, "/ratings", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestRatingsHandler(t *testing.T) {
	Convey("Given the ratings endpoint", t, func() {
		_ = logger.Init()
		h := newTestRouter(newDeps())

		Convey("When a valid scorecard is posted", func() {
			w := do(h, http.MethodPost, "/ratings", scorecard)

			Convey("Then both teams are rated", func() {
				So(w.Code, ShouldEqual, http.StatusOK)

				var out model.MatchRatings
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(out.Team1.Name, ShouldEqual, "Alpha")
				So(out.Team2.Name, ShouldEqual, "Beta")
				So(out.Team1.Players[0].Name, ShouldEqual, "a1")
				So(out.MVP, ShouldNotBeNil)
				for _, p := range out.Players() {
					So(p.Overall, ShouldBeBetweenOrEqual, 0.0, 10.0)
				}
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(h, http.MethodPost, "/ratings", "{")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "bad_request")
		})

		Convey("When the scorecard is invalid", func() {
			w := do(h, http.MethodPost, "/ratings", `{"first_innings": {"total_overs": 4.6}}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "api.post_rating")
		})
	})
}

func TestMatchesHandler(t *testing.T) {
	Convey("Given the matches endpoints", t, func() {
		_ = logger.Init()
		deps := newDeps()
		h := newTestRouter(deps)

		Convey("When a scorecard without an id is submitted", func() {
			w := do(h, http.MethodPost, "/matches", scorecard)

			Convey("Then it is accepted under a generated id", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				var ack map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "accepted")
				So(len(ack["match_id"].(string)), ShouldEqual, 36)
				So(len(deps.enqueued), ShouldEqual, 1)
				So(deps.enqueued[0].Match.ID, ShouldEqual, ack["match_id"])
			})
		})

		Convey("When the same match id is submitted twice", func() {
			body := strings.Replace(scorecard, `"team1_name"`, `"match_id": "m-1", "team1_name"`, 1)
			first := do(h, http.MethodPost, "/matches", body)
			second := do(h, http.MethodPost, "/matches", body)

			Convey("Then the repeat is acknowledged as a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusAccepted)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Body.String(), ShouldContainSubstring, `"duplicate":true`)
				So(len(deps.enqueued), ShouldEqual, 1)
			})
		})

		Convey("When the queue is full", func() {
			deps.enqueueErr = errors.New("submission queue full")
			body := strings.Replace(scorecard, `"team1_name"`, `"match_id": "m-2", "team1_name"`, 1)
			w := do(h, http.MethodPost, "/matches", body)

			Convey("Then backpressure is reported and the id can be retried", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(w.Body.String(), ShouldContainSubstring, "backpressure")
				So(deps.Size(), ShouldEqual, 0)
			})
		})

		Convey("When an invalid scorecard is submitted", func() {
			w := do(h, http.MethodPost, "/matches", `{"team1_name": "A", "team2_name": "A"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.Size(), ShouldEqual, 0)
		})

		Convey("When a rated match is fetched", func() {
			deps.matches["m-9"] = model.MatchRatings{MatchID: "m-9", Team1: model.TeamRatings{Name: "Alpha"}}
			w := do(h, http.MethodGet, "/matches/m-9", "")

			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"match_id":"m-9"`)
		})

		Convey("When an unknown match is fetched", func() {
			w := do(h, http.MethodGet, "/matches/missing", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When recent matches are listed", func() {
			deps.summaries = []types.MatchSummary{{MatchID: "m-2"}, {MatchID: "m-1"}}

			Convey("Then the default limit applies", func() {
				w := do(h, http.MethodGet, "/matches", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.listLimit, ShouldEqual, 20)
				var rows []types.MatchSummary
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[0].MatchID, ShouldEqual, "m-2")
			})

			Convey("Then an explicit limit is honored", func() {
				w := do(h, http.MethodGet, "/matches?limit=1", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.listLimit, ShouldEqual, 1)
			})

			Convey("Then a limit past the maximum is rejected", func() {
				w := do(h, http.MethodGet, "/matches?limit=51", "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(w.Body.String(), ShouldContainSubstring, "api.list_matches")
			})
		})
	})
}

func TestLeaderboardHandler(t *testing.T) {
	Convey("Given the leaderboard endpoint", t, func() {
		_ = logger.Init()
		deps := newDeps()
		deps.standings = []types.Standing{
			{Rank: 1, Player: "a", Average: 7.5},
			{Rank: 1, Player: "b", Average: 7.5},
			{Rank: 3, Player: "c", Average: 6.0},
		}
		h := newTestRouter(deps)

		Convey("When a valid limit is given", func() {
			w := do(h, http.MethodGet, "/leaderboard?limit=2", "")

			Convey("Then that many rows are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []types.Standing
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 2)
				So(rows[1].Rank, ShouldEqual, 1)
			})
		})

		Convey("When the limit is missing, zero, or too large", func() {
			for _, q := range []string{"", "?limit=0", "?limit=abc", "?limit=51"} {
				w := do(h, http.MethodGet, "/leaderboard"+q, "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			}
		})

		Convey("When a discipline leaderboard is requested", func() {
			deps.leaders[types.DisciplineBatting] = []types.Leader{
				{Rank: 1, Player: "opener", Runs: 150, Average: 8.0},
				{Rank: 2, Player: "slogger", Runs: 130, Average: 7.0},
			}
			w := do(h, http.MethodGet, "/leaderboard?limit=1&sort_by=batting", "")

			Convey("Then the discipline rows are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rows []types.Leader
				So(json.Unmarshal(w.Body.Bytes(), &rows), ShouldBeNil)
				So(len(rows), ShouldEqual, 1)
				So(rows[0].Player, ShouldEqual, "opener")
				So(rows[0].Runs, ShouldEqual, 150)
			})
		})

		Convey("When sort_by is overall", func() {
			w := do(h, http.MethodGet, "/leaderboard?limit=3&sort_by=overall", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"player":"c"`)
		})

		Convey("When sort_by is unknown", func() {
			w := do(h, http.MethodGet, "/leaderboard?limit=3&sort_by=keeping", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(w.Body.String(), ShouldContainSubstring, "sort_by")
		})

		Convey("When the store fails", func() {
			deps.topNErr = errors.New("boom")
			w := do(h, http.MethodGet, "/leaderboard?limit=1", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldNotContainSubstring, "boom")
		})
	})
}

func TestPlayersHandler(t *testing.T) {
	Convey("Given the players endpoint", t, func() {
		_ = logger.Init()
		deps := newDeps()
		deps.players["V Kohli"] = types.PlayerProfile{
			Standing: types.Standing{Rank: 1, Player: "V Kohli", Matches: 2, Average: 7.1},
			Form:     []types.FormPoint{{MatchID: "m2", Overall: 7.4, Band: "great"}},
		}
		h := newTestRouter(deps)

		Convey("When a known player is requested with an escaped name", func() {
			w := do(h, http.MethodGet, "/players/V%20Kohli", "")

			Convey("Then the profile is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var p types.PlayerProfile
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.Player, ShouldEqual, "V Kohli")
				So(len(p.Form), ShouldEqual, 1)
			})
		})

		Convey("When an unknown player is requested", func() {
			w := do(h, http.MethodGet, "/players/nobody", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When players are searched by name", func() {
			deps.standings = []types.Standing{
				{Rank: 1, Player: "V Kohli", Average: 7.1},
				{Rank: 2, Player: "R Sharma", Average: 6.4},
				{Rank: 3, Player: "Kohli Jr", Average: 5.0},
			}

			Convey("Then matching standings come back in order", func() {
				w := do(h, http.MethodGet, "/players?q=kohli", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				var out []types.Standing
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(len(out), ShouldEqual, 2)
				So(out[0].Player, ShouldEqual, "V Kohli")
				So(out[1].Player, ShouldEqual, "Kohli Jr")
			})

			Convey("Then no match is an empty list", func() {
				w := do(h, http.MethodGet, "/players?q=nobody", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})

			Convey("Then the limit is validated", func() {
				w := do(h, http.MethodGet, "/players?q=k&limit=0", "")
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("cause")
		err := api.WrapKind("api.op", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause are reachable", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: cause")
		})

		Convey("Then NewKind and Wrap carry the operation", func() {
			So(api.NewKind("api.op", api.ErrNotFound).Error(), ShouldEqual, "api.op: not found")
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: cause")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	Convey("Given a handler that panics", t, func() {
		_ = logger.Init()
		h := api.RecoveryMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		Convey("Then the panic becomes a 500", func() {
			w := do(h, http.MethodGet, "/", "")
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(w.Body.String(), ShouldContainSubstring, "internal_error")
		})
	})
}

func TestTeamsHandler(t *testing.T) {
	Convey("Given the teams endpoints", t, func() {
		_ = logger.Init()
		deps := newDeps()
		deps.teams["Royal Strikers"] = types.TeamSummary{
			Team: "Royal Strikers", Matches: 2, Wins: 1, Losses: 1, WinPercentage: 50,
			Results: []types.TeamResult{{MatchID: "m-2", Opponent: "Beta", Result: types.ResultWon}},
		}
		h := newTestRouter(deps)

		Convey("When every team is listed", func() {
			w := do(h, http.MethodGet, "/teams", "")

			Convey("Then summaries come without results", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"team":"Royal Strikers"`)
				So(w.Body.String(), ShouldNotContainSubstring, `"results"`)
			})
		})

		Convey("When one team is requested with an escaped name", func() {
			w := do(h, http.MethodGet, "/teams/Royal%20Strikers", "")

			Convey("Then its results are included", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var team types.TeamSummary
				So(json.Unmarshal(w.Body.Bytes(), &team), ShouldBeNil)
				So(team.Wins, ShouldEqual, 1)
				So(len(team.Results), ShouldEqual, 1)
				So(team.Results[0].Result, ShouldEqual, "won")
			})
		})

		Convey("When an unknown team is requested", func() {
			w := do(h, http.MethodGet, "/teams/nobody", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestCompareHandler(t *testing.T) {
	Convey("Given the compare endpoint", t, func() {
		_ = logger.Init()
		deps := newDeps()
		deps.players["bat"] = types.PlayerProfile{
			Standing: types.Standing{Player: "bat", Role: model.RoleBatter, Matches: 4, MVPs: 1},
			Career:   types.Career{BattingInnings: 4, Runs: 200, Balls: 160, Fours: 20, Sixes: 5},
		}
		deps.players["ball"] = types.PlayerProfile{
			Standing: types.Standing{Player: "ball", Role: model.RoleBowler, Matches: 2},
			Career:   types.Career{BowlingInnings: 2, Wickets: 5, BallsBowled: 48, RunsConceded: 60},
		}
		h := newTestRouter(deps)

		Convey("When two known players are compared", func() {
			w := do(h, http.MethodGet, "/compare?p1=bat&p2=ball", "")

			Convey("Then both sides are derived in request order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var out struct {
					Players []types.Comparison `json:"players"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
				So(len(out.Players), ShouldEqual, 2)

				bat, ball := out.Players[0], out.Players[1]
				So(bat.Type, ShouldEqual, types.PlayerTypeBatter)
				So(bat.RunsPerInnings, ShouldEqual, 50.0)
				So(bat.StrikeRate, ShouldEqual, 125.0)
				So(bat.MVPRate, ShouldEqual, 25.0)
				So(ball.Type, ShouldEqual, types.PlayerTypeBowler)
				So(ball.Economy, ShouldEqual, 7.5)
				So(ball.BowlingAverage, ShouldEqual, 12.0)
				So(ball.WicketsPerInnings, ShouldEqual, 2.5)
			})
		})

		Convey("When a player is missing from the query", func() {
			w := do(h, http.MethodGet, "/compare?p1=bat", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a player is unknown", func() {
			w := do(h, http.MethodGet, "/compare?p1=bat&p2=ghost", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
			So(w.Body.String(), ShouldContainSubstring, "ghost")
		})
	})
}
