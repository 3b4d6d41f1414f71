package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/types"
)

// PlayerDependencies defines the interface for player lookups.
type PlayerDependencies interface {
	Player(ctx context.Context, name string) (types.PlayerProfile, error)
	Search(ctx context.Context, query string, n int) ([]types.Standing, error)
}

// PlayersHandler handles player requests.
type PlayersHandler struct {
	deps     PlayerDependencies
	maxLimit int
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies, maxLimit int) *PlayersHandler {
	return &PlayersHandler{deps: deps, maxLimit: maxLimit}
}

// HandleSearchPlayers handles GET /players?q=name&limit=N requests. An empty
// query lists every player.
func (h *PlayersHandler) HandleSearchPlayers(w http.ResponseWriter, r *http.Request) {
	const op = "api.search_players"
	q := r.URL.Query()
	n, err := parseLimit(op, q.Get("limit"), h.maxLimit, h.maxLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	players, err := h.deps.Search(r.Context(), q.Get("q"), n)
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	if players == nil {
		players = []types.Standing{}
	}
	writeJSON(w, http.StatusOK, players)
}

// HandleGetPlayer handles GET /players/{name} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	profile, err := h.deps.Player(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
