package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/types"
)

// LeaderboardDependencies defines the interface for leaderboard operations
type LeaderboardDependencies interface {
	TopN(ctx context.Context, n int) ([]types.Standing, error)
	Leaders(ctx context.Context, d types.Discipline, n int) ([]types.Leader, error)
}

// LeaderboardHandler handles leaderboard requests
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N&sort_by=D requests.
// D is overall (default), batting, bowling or all_rounder.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	q := r.URL.Query()
	n, err := parseLimit(op, q.Get("limit"), 0, h.maxLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	d := types.Discipline(q.Get("sort_by"))
	if d == "" {
		d = types.DisciplineOverall
	}
	if !d.Valid() {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("sort_by must be overall, batting, bowling or all_rounder")))
		return
	}

	if d == types.DisciplineOverall {
		entries, err := h.deps.TopN(r.Context(), n)
		if err != nil {
			writeError(w, Wrap(op, err))
			return
		}
		writeJSON(w, http.StatusOK, entries)
		return
	}

	leaders, err := h.deps.Leaders(r.Context(), d, n)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidDiscipline) {
			writeError(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, leaders)
}

// parseLimit reads a 1..maxLimit limit. An empty value yields def, or an
// error when def is 0.
func parseLimit(op, raw string, def, maxLimit int) (int, error) {
	if raw == "" && def > 0 {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, WrapKind(op, ErrBadRequest, errors.New("limit must be a positive integer"))
	}
	if n > maxLimit {
		return 0, WrapKind(op, ErrBadRequest, errors.New("limit exceeds "+strconv.Itoa(maxLimit)))
	}
	return n, nil
}
