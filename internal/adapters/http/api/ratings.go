package api

import (
	"context"
	"net/http"

	"github.com/okian/cricscore/internal/domain/model"
)

// RatingDependencies rates a match synchronously.
type RatingDependencies interface {
	Rate(ctx context.Context, m model.Match) (model.MatchRatings, error)
}

// RatingsHandler handles inline rating requests.
type RatingsHandler struct {
	deps RatingDependencies
}

// NewRatingsHandler creates a new ratings handler.
func NewRatingsHandler(deps RatingDependencies) *RatingsHandler {
	return &RatingsHandler{deps: deps}
}

// HandlePostRating handles POST /ratings: the scorecard is rated on the
// request goroutine and nothing is stored.
func (h *RatingsHandler) HandlePostRating(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rating"
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

	ratings, err := h.deps.Rate(r.Context(), m)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	ratings.MatchID = m.ID
	writeJSON(w, http.StatusOK, ratings)
}
