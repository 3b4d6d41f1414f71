package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/types"
)

// CompareHandler handles head-to-head player comparisons.
type CompareHandler struct {
	deps PlayerDependencies
}

// NewCompareHandler creates a new compare handler.
func NewCompareHandler(deps PlayerDependencies) *CompareHandler {
	return &CompareHandler{deps: deps}
}

type compareResponse struct {
	Players []types.Comparison `json:"players"`
}

// HandleCompare handles GET /compare?p1=A&p2=B.
func (h *CompareHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.compare"
	q := r.URL.Query()
	names := []string{strings.TrimSpace(q.Get("p1")), strings.TrimSpace(q.Get("p2"))}
	if names[0] == "" || names[1] == "" {
		writeError(w, WrapKind(op, ErrBadRequest, errors.New("p1 and p2 are required")))
		return
	}

	out := compareResponse{Players: make([]types.Comparison, 0, len(names))}
	for _, name := range names {
		profile, err := h.deps.Player(r.Context(), name)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, WrapKind(op, ErrNotFound, fmt.Errorf("player %q", name)))
				return
			}
			writeError(w, Wrap(op, err))
			return
		}
		out.Players = append(out.Players, types.Compare(profile))
	}
	writeJSON(w, http.StatusOK, out)
}
