// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RatingDependencies
	MatchDependencies
	LeaderboardDependencies
	PlayerDependencies
	TeamDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	ratingsHandler     *RatingsHandler
	matchesHandler     *MatchesHandler
	leaderboardHandler *LeaderboardHandler
	playersHandler     *PlayersHandler
	compareHandler     *CompareHandler
	teamsHandler       *TeamsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		ratingsHandler:     NewRatingsHandler(deps),
		matchesHandler:     NewMatchesHandler(deps, maxLeaderboardLimit),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		playersHandler:     NewPlayersHandler(deps, maxLeaderboardLimit),
		compareHandler:     NewCompareHandler(deps),
		teamsHandler:       NewTeamsHandler(deps),
	}
}

// Register attaches all business routes to router.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	router.HandleFunc("/healthz", s.healthHandler.HandleHealth).Methods(http.MethodGet)
	router.HandleFunc("/stats", s.statsHandler.HandleStats).Methods(http.MethodGet)
	router.HandleFunc("/ratings", s.ratingsHandler.HandlePostRating).Methods(http.MethodPost)
	router.HandleFunc("/matches", s.matchesHandler.HandlePostMatch).Methods(http.MethodPost)
	router.HandleFunc("/matches", s.matchesHandler.HandleListMatches).Methods(http.MethodGet)
	router.HandleFunc("/matches/{id}", s.matchesHandler.HandleGetMatch).Methods(http.MethodGet)
	router.HandleFunc("/leaderboard", s.leaderboardHandler.HandleGetLeaderboard).Methods(http.MethodGet)
	router.HandleFunc("/players", s.playersHandler.HandleSearchPlayers).Methods(http.MethodGet)
	router.HandleFunc("/players/{name}", s.playersHandler.HandleGetPlayer).Methods(http.MethodGet)
	router.HandleFunc("/compare", s.compareHandler.HandleCompare).Methods(http.MethodGet)
	router.HandleFunc("/teams", s.teamsHandler.HandleListTeams).Methods(http.MethodGet)
	router.HandleFunc("/teams/{name}", s.teamsHandler.HandleGetTeam).Methods(http.MethodGet)
}

// NewRouter returns a router with the service middleware installed.
func NewRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, MetricsMiddleware)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, NewKind("api.route", ErrNotFound))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Code: "method_not_allowed", Message: http.StatusText(http.StatusMethodNotAllowed)})
	})
	return router
}

// decodeScorecard reads a scorecard body and converts it to a match.
func decodeScorecard(op string, w http.ResponseWriter, r *http.Request) (*scorecardRequest, error) {
	var req scorecardRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, WrapKind(op, ErrBadRequest, fmt.Errorf("decode scorecard: %w", err))
	}
	return &req, nil
}

type ackResponse struct {
	Status    string `json:"status"`
	MatchID   string `json:"match_id"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := http.StatusText(status)
	if err != nil && status != http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
