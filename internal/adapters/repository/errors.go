package repository

import "errors"

// Sentinel kinds for standings errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidLimit   = errors.New("invalid leaderboard limit")
	ErrDuplicateMatch = errors.New("match already recorded")
	ErrMissingMatchID = errors.New("match id is required")

	ErrInvalidDiscipline = errors.New("unknown leaderboard discipline")
)
