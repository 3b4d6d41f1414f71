// Package rating computes context-adjusted 0-10 player ratings for a T20 match.
//
// The pipeline is pure: AnalyzeContext derives the match environment once,
// the batting, bowling and fielding raters score each participant against it,
// and RateMatch merges the three sub-ratings with role-dependent weights.
package rating

import "github.com/okian/cricscore/internal/domain/model"

// Rating bounds and the neutral starting point of every discipline.
const (
	minRating     = 0.0
	maxRating     = 10.0
	neutralRating = 5.0
)

// Partial-participation thresholds, in legal balls.
const (
	secondarySkillBalls = 6 // balls in the other discipline before it earns weight
)

// Weights splits an overall rating between the three disciplines.
type Weights struct {
	Batting  float64
	Bowling  float64
	Fielding float64
}

// roleWeights is the base split for each role.
var roleWeights = map[model.Role]Weights{ //nolint:gochecknoglobals // read-only lookup table
	model.RoleBatter:            {Batting: 0.80, Bowling: 0.05, Fielding: 0.15},
	model.RoleBowler:            {Batting: 0.05, Bowling: 0.80, Fielding: 0.15},
	model.RoleBattingAllRounder: {Batting: 0.55, Bowling: 0.30, Fielding: 0.15},
	model.RoleBowlingAllRounder: {Batting: 0.30, Bowling: 0.55, Fielding: 0.15},
	model.RoleWicketKeeper:      {Batting: 0.75, Bowling: 0.00, Fielding: 0.25},
}

// Dual-skill overrides keep the primary discipline dominant.
var (
	batterWhoBowled = Weights{Batting: 0.75, Bowling: 0.15, Fielding: 0.10} //nolint:gochecknoglobals // constant table
	bowlerWhoBatted = Weights{Batting: 0.20, Bowling: 0.65, Fielding: 0.15} //nolint:gochecknoglobals // constant table
)

// RoleWeights returns the base weights for role, defaulting to batter.
func RoleWeights(role model.Role) Weights {
	if w, ok := roleWeights[role]; ok {
		return w
	}
	return roleWeights[model.RoleBatter]
}

// participation captures what a player actually did in the match.
type participation struct {
	role        model.Role
	didBat      bool
	didBowl     bool
	ballsFaced  int
	ballsBowled int
}

// weightsFor applies the decision table: dual-skill override first, then the
// negligible-batting redistribution for bowling roles.
func weightsFor(p participation) Weights {
	w := RoleWeights(p.role)
	if !p.role.IsAllRounder() {
		switch {
		case p.didBat && p.ballsBowled >= secondarySkillBalls && !p.role.IsBowling():
			w = batterWhoBowled
		case p.didBowl && p.ballsFaced >= secondarySkillBalls && p.role.IsBowling():
			w = bowlerWhoBatted
		}
	}

	if p.role.IsBowling() && p.didBat && p.ballsFaced < secondarySkillBalls {
		rest := w.Bowling + w.Fielding
		if rest > 0 {
			w.Bowling += w.Batting * w.Bowling / rest
			w.Fielding += w.Batting * w.Fielding / rest
		}
		w.Batting = 0
	}
	return w
}

// combine merges sub-ratings into an overall rating, dropping disciplines the
// player took no part in and renormalising the remaining weights.
func combine(p participation, w Weights, batting, bowling, fielding float64) float64 {
	var overall float64
	switch {
	case !p.didBat && !p.didBowl:
		overall = fielding
	case !p.didBat:
		overall = weightedAverage(neutralRating, bowling, w.Bowling, fielding, w.Fielding)
	case !p.didBowl:
		overall = weightedAverage(neutralRating, batting, w.Batting, fielding, w.Fielding)
	default:
		overall = batting*w.Batting + bowling*w.Bowling + fielding*w.Fielding
	}
	return clampRating(overall)
}

func weightedAverage(fallback, a, wa, b, wb float64) float64 {
	total := wa + wb
	if total <= 0 {
		return fallback
	}
	return (a*wa + b*wb) / total
}
