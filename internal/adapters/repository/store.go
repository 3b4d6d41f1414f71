// Package repository keeps rated matches and player standings in memory.
package repository

import (
	"context"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/types"
)

// Store provides read/write access to rated matches and standings.
type Store interface {
	// Record stores a rated match and folds every player's rating into their
	// standing. Returns ErrDuplicateMatch if the match id is already stored.
	Record(ctx context.Context, r model.MatchRatings) error

	// Match returns a stored result or ErrNotFound.
	Match(ctx context.Context, id string) (model.MatchRatings, error)

	// Player returns a player's standing and recent form or ErrNotFound.
	Player(ctx context.Context, name string) (types.PlayerProfile, error)

	// TopN returns the top-N standings by average rating, ties sharing a rank.
	TopN(ctx context.Context, n int) ([]types.Standing, error)

	// Search returns up to n standings whose name contains query, ignoring
	// case, in leaderboard order.
	Search(ctx context.Context, query string, n int) ([]types.Standing, error)

	// Leaders returns the top-N qualified players for a batting, bowling or
	// all-rounder leaderboard. Returns ErrInvalidDiscipline for anything else.
	Leaders(ctx context.Context, d types.Discipline, n int) ([]types.Leader, error)

	// Team returns a team's summary and results or ErrNotFound.
	Team(ctx context.Context, name string) (types.TeamSummary, error)

	// Teams returns every team's summary by average rating.
	Teams(ctx context.Context) []types.TeamSummary

	// Matches returns up to n rated matches, most recent first.
	Matches(ctx context.Context, n int) ([]types.MatchSummary, error)

	// Count returns the number of players with a standing.
	Count(ctx context.Context) int

	// MatchCount returns the number of stored matches.
	MatchCount(ctx context.Context) int
}
