package rating

import (
	"math"

	"github.com/okian/cricscore/internal/domain/model"
)

// Fallback strike rate used when a match or chase has no scoring rate to compare against.
const defaultMatchStrikeRate = 130.0

// AnalyzeContext derives the scoring environment shared by every rater.
func AnalyzeContext(m model.Match) model.MatchContext {
	return model.MatchContext{
		MatchEconomy:         m.Economy(),
		MatchRunRate:         m.RunRate(),
		FirstInningsRunRate:  m.First.RunRate(),
		SecondInningsRunRate: m.Second.RunRate(),
		Target:               m.Target(),
		RequiredRunRate:      m.RequiredRunRate(),
		ChaseSuccessful:      m.Second.TotalRuns >= m.Target(),
		HighScoring:          m.IsHighScoring(),
		LowScoring:           m.IsLowScoring(),
		FirstBattingTeamWon:  m.Winner == m.First.Team,
		Winner:               m.Winner,
	}
}

// ChasePressure maps a required run rate to a 0..1 pressure factor.
func ChasePressure(requiredRR float64) float64 {
	switch {
	case requiredRR <= 6:
		return 0
	case requiredRR <= 8:
		return 0.1 + (requiredRR-6)*0.05
	case requiredRR <= 10:
		return 0.2 + (requiredRR-8)*0.15
	case requiredRR <= 12:
		return 0.5 + (requiredRR-10)*0.1
	default:
		return math.Min(1.0, 0.7+(requiredRR-12)*0.1)
	}
}

// EconomyAdjustment compares a bowler's economy with the match economy.
// The result lies in [-2.0, +2.5]; positive means cheaper than the match.
func EconomyAdjustment(bowlerEconomy, matchEconomy float64) float64 {
	if matchEconomy == 0 {
		return 0
	}
	diff := matchEconomy - bowlerEconomy
	switch {
	case diff >= 5:
		return 2.5
	case diff >= 3:
		return 2.0
	case diff >= 2:
		return 1.5
	case diff >= 1:
		return 1.0
	case diff >= 0:
		return diff * 0.8
	case diff >= -1:
		return diff * 0.5
	case diff >= -2:
		return -0.5 + (diff+1)*0.5
	case diff >= -4:
		return -1.0 + (diff+2)*0.25
	default:
		return math.Max(-2.0, -1.5+(diff+4)*0.1)
	}
}

// StrikeRateAdjustment compares a batter's strike rate with the match
// strike rate. The result lies in [-1.5, +2.0].
func StrikeRateAdjustment(batterSR, matchSR float64) float64 {
	if matchSR == 0 {
		return 0
	}
	ratio := batterSR / matchSR
	switch {
	case ratio >= 1.6:
		return 2.0
	case ratio >= 1.4:
		return 1.5
	case ratio >= 1.2:
		return 1.0
	case ratio >= 1.0:
		return (ratio - 1.0) * 5.0
	case ratio >= 0.8:
		return (ratio - 1.0) * 2.5
	case ratio >= 0.6:
		return -0.5 + (ratio-0.8)*2.5
	default:
		return math.Max(-1.5, -1.0+(ratio-0.6)*2.5)
	}
}

// rateAsStrikeRate expresses runs per over as runs per hundred balls,
// falling back to a typical T20 rate when the input is zero.
func rateAsStrikeRate(runsPerOver float64) float64 {
	if runsPerOver <= 0 {
		return defaultMatchStrikeRate
	}
	return runsPerOver * 100 / model.BallsPerOver
}

// clampRating forces v into [0,10] and rounds to one decimal.
func clampRating(v float64) float64 {
	return round1(math.Max(minRating, math.Min(maxRating, v)))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
