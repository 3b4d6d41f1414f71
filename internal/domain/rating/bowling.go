package rating

import (
	"math"

	"github.com/okian/cricscore/internal/domain/model"
)

// wicketScores maps a wicket haul to its score; five or more share the top value.
var wicketScores = [...]float64{0, 1.0, 1.8, 2.5, 2.8, 3.0} //nolint:gochecknoglobals // read-only lookup table

// RateBowling scores one bowling spell on a 0-10 scale.
func RateBowling(e model.BowlingEntry, mc model.MatchContext, bowlingTeamWon bool) (float64, model.BowlingBreakdown) {
	if !e.DidBowl() {
		return neutralRating, model.BowlingBreakdown{Note: "did not bowl", Total: neutralRating}
	}

	overs := float64(e.TotalBalls()) / model.BallsPerOver

	wickets := wicketsScore(e.Wickets)
	economy := EconomyAdjustment(e.Economy(), mc.MatchEconomy)
	switch {
	case overs < 2:
		economy *= 0.5
	case overs < 3:
		economy *= 0.75
	}
	maidens := math.Min(float64(e.Maidens)*1.5, 3.0)
	quota := quotaScore(overs)
	quality := wicketQualityScore(e.DismissedRuns)
	extras := -(float64(e.Wides)*0.05 + float64(e.NoBalls)*0.2)

	won := 0.0
	if bowlingTeamWon {
		won = 1
	}

	total := clampRating(neutralRating + wickets + economy + maidens + quota + quality + extras)

	return total, model.BowlingBreakdown{
		Wickets:       model.Component{Value: float64(e.Wickets), Score: round2(wickets)},
		Economy:       model.Component{Value: round2(e.Economy()), Score: round2(economy)},
		MatchEconomy:  round2(mc.MatchEconomy),
		Maidens:       model.Component{Value: float64(e.Maidens), Score: round2(maidens)},
		Quota:         model.Component{Value: round1(overs), Score: round2(quota)},
		WicketQuality: model.Component{Value: float64(len(e.DismissedRuns)), Score: round2(quality)},
		DismissedRuns: e.DismissedRuns,
		MatchResult:   model.Component{Value: won},
		Wides:         e.Wides,
		NoBalls:       e.NoBalls,
		Extras:        model.Component{Value: float64(e.Wides + e.NoBalls), Score: round2(extras)},
		Total:         total,
	}
}

func wicketsScore(wickets int) float64 {
	if wickets <= 0 {
		return 0
	}
	if wickets >= len(wicketScores) {
		return wicketScores[len(wicketScores)-1]
	}
	return wicketScores[wickets]
}

func quotaScore(overs float64) float64 {
	switch {
	case overs >= 4:
		return 0.1
	case overs >= 3:
		return 0.05
	}
	return 0
}

// wicketQualityScore rewards removing set batters, capped at 1.0.
func wicketQualityScore(dismissedRuns []int) float64 {
	var score float64
	for _, runs := range dismissedRuns {
		switch {
		case runs >= 50:
			score += 0.4
		case runs >= 30:
			score += 0.3
		case runs >= 15:
			score += 0.15
		default:
			score += 0.05
		}
	}
	return math.Min(score, 1.0)
}
