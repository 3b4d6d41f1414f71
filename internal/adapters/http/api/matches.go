package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/dedupe"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/types"
)

// MatchDependencies defines what asynchronous match submission needs.
type MatchDependencies interface {
	dedupe.Deduper
	// Enqueue queues a submission for rating. Any error means backpressure.
	Enqueue(ctx context.Context, s model.Submission) error
	Match(ctx context.Context, id string) (model.MatchRatings, error)
	Matches(ctx context.Context, n int) ([]types.MatchSummary, error)
}

// defaultMatchListLimit is used when GET /matches has no limit.
const defaultMatchListLimit = 20

// MatchesHandler handles match submission and lookup.
type MatchesHandler struct {
	deps     MatchDependencies
	maxLimit int
}

// NewMatchesHandler creates a new matches handler. maxLimit bounds the list size.
func NewMatchesHandler(deps MatchDependencies, maxLimit int) *MatchesHandler {
	return &MatchesHandler{deps: deps, maxLimit: maxLimit}
}

// HandlePostMatch handles POST /matches requests.
func (h *MatchesHandler) HandlePostMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_match"
	req, err := decodeScorecard(op, w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := req.toMatch()
	if err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}

	// Idempotency check - mark as seen first
	if h.deps.SeenAndRecord(r.Context(), m.ID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", MatchID: m.ID, Duplicate: true})
		return
	}

	sub := model.Submission{MatchID: m.ID, Match: m, ReceivedAt: time.Now()}
	if err := h.deps.Enqueue(r.Context(), sub); err != nil {
		// Rollback the "seen" status since enqueue failed
		h.deps.Unrecord(r.Context(), m.ID)
		writeError(w, WrapKind(op, ErrBackpressure, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", MatchID: m.ID})
}

// HandleGetMatch handles GET /matches/{id}. A match that is still queued is not found.
func (h *MatchesHandler) HandleGetMatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_match"
	id := mux.Vars(r)["id"]

	ratings, err := h.deps.Match(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

// HandleListMatches handles GET /matches?limit=N, most recently rated first.
func (h *MatchesHandler) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	n, err := parseLimit(op, r.URL.Query().Get("limit"), min(defaultMatchListLimit, h.maxLimit), h.maxLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	matches, err := h.deps.Matches(r.Context(), n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
