package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/types"
)

// TeamDependencies defines the interface for team reports.
type TeamDependencies interface {
	Team(ctx context.Context, name string) (types.TeamSummary, error)
	Teams(ctx context.Context) ([]types.TeamSummary, error)
}

// TeamsHandler handles team requests.
type TeamsHandler struct {
	deps TeamDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleListTeams handles GET /teams.
func (h *TeamsHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_teams"
	teams, err := h.deps.Teams(r.Context())
	if err != nil {
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, teams)
}

// HandleGetTeam handles GET /teams/{name}.
func (h *TeamsHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team"
	team, err := h.deps.Team(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, team)
}
