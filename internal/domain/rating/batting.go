package rating

import (
	"math"

	"github.com/okian/cricscore/internal/domain/model"
)

// runsPoint is a control point of the runs curve.
type runsPoint struct {
	runs  int
	score float64
}

// runsCurve maps runs to a 0..3.0 score; values in between are interpolated.
var runsCurve = []runsPoint{ //nolint:gochecknoglobals // read-only lookup table
	{0, 0},
	{5, 0.2},
	{10, 0.4},
	{15, 0.7},
	{20, 1.0},
	{30, 1.5},
	{40, 2.0},
	{50, 2.5},
	{75, 2.8},
	{100, 3.0},
}

// anchorThreshold is the number of balls an innings must last to count as
// anchored (full) or partially anchored, by batting position.
type anchorThreshold struct {
	full    int
	partial int
}

func anchorThresholds(position int) anchorThreshold {
	switch {
	case position <= 2:
		return anchorThreshold{full: 30, partial: 25}
	case position <= 4:
		return anchorThreshold{full: 25, partial: 20}
	case position <= 6:
		return anchorThreshold{full: 20, partial: 15}
	default:
		return anchorThreshold{full: 15, partial: 12}
	}
}

// RateBatting scores one batting innings on a 0-10 scale.
func RateBatting(e model.BattingEntry, mc model.MatchContext, battingTeamWon, chasing bool) (float64, model.BattingBreakdown) {
	if !e.DidBat() {
		return neutralRating, model.BattingBreakdown{Note: "did not bat", Total: neutralRating}
	}

	sr := e.StrikeRate()
	runs := runsScore(e.Runs)
	strike := strikeRateScore(e, mc)
	boundary := boundaryScore(e)
	anchor := anchorScore(e)
	position := positionScore(e)
	notOut := notOutChaseScore(e, battingTeamWon, chasing)
	chase := chasePressureScore(e, mc, chasing)
	cameo := cameoScore(e)
	duck := duckScore(e)

	won := 0.0
	if battingTeamWon {
		won = 1
	}

	total := neutralRating + runs + strike + boundary + anchor + position + notOut + chase + cameo + duck
	total = clampRating(total)

	return total, model.BattingBreakdown{
		Runs:          model.Component{Value: float64(e.Runs), Score: round2(runs)},
		StrikeRate:    model.Component{Value: round1(sr), Score: round2(strike)},
		BoundaryPct:   model.Component{Value: round1(e.BoundaryPercentage()), Score: round2(boundary)},
		Anchor:        model.Component{Value: float64(e.Balls), Score: round2(anchor)},
		Position:      model.Component{Value: float64(e.Position), Score: round2(position)},
		NotOutChase:   model.Component{Score: round2(notOut)},
		MatchResult:   model.Component{Value: won},
		ChasePressure: model.Component{Value: round2(mc.RequiredRunRate), Score: round2(chase)},
		Cameo:         model.Component{Score: round2(cameo)},
		Duck:          model.Component{Score: round2(duck)},
		Total:         total,
	}
}

// runsScore interpolates linearly between the runs curve control points.
func runsScore(runs int) float64 {
	if runs <= 0 {
		return 0
	}
	prev := runsCurve[0]
	for _, p := range runsCurve[1:] {
		if runs <= p.runs {
			frac := float64(runs-prev.runs) / float64(p.runs-prev.runs)
			return prev.score + frac*(p.score-prev.score)
		}
		prev = p
	}
	return prev.score
}

// sampleScale discounts components judged on very few balls.
func sampleScale(balls int) float64 {
	switch {
	case balls < 5:
		return 0.35
	case balls < 10:
		return 0.5
	case balls < 15:
		return 0.75
	default:
		return 1
	}
}

// softenPenalty reduces negative rate-based components: very short innings
// carry no penalty, and bowling roles are not expected to score quickly.
func softenPenalty(score float64, e model.BattingEntry) float64 {
	if score >= 0 {
		return score
	}
	if e.Balls < 4 {
		return 0
	}
	if e.Role.IsBowling() {
		score *= 0.5
	}
	if e.Role == model.RoleBowler {
		score *= 0.5
	}
	return score
}

func strikeRateScore(e model.BattingEntry, mc model.MatchContext) float64 {
	if e.Balls < 2 {
		return 0
	}
	score := StrikeRateAdjustment(e.StrikeRate(), rateAsStrikeRate(mc.MatchRunRate))
	score *= sampleScale(e.Balls)
	return softenPenalty(score, e)
}

func boundaryScore(e model.BattingEntry) float64 {
	if e.Balls < 2 || e.Runs <= 0 {
		return 0
	}
	var score float64
	switch bp := e.BoundaryPercentage(); {
	case bp >= 70:
		score = 1.0
	case bp >= 60:
		score = 0.75
	case bp >= 50:
		score = 0.5
	case bp >= 35:
		score = 0.2
	case bp >= 20:
		score = 0
	default:
		score = -0.3
	}
	score *= sampleScale(e.Balls)
	return softenPenalty(score, e)
}

func anchorScore(e model.BattingEntry) float64 {
	t := anchorThresholds(e.Position)
	sr := e.StrikeRate()
	switch {
	case e.Balls >= t.full:
		switch {
		case sr >= 120:
			return 0.5
		case sr >= 100:
			return 0.2
		default:
			return -0.3
		}
	case e.Balls >= t.partial:
		switch {
		case sr >= 130:
			return 0.3
		case sr < 90:
			return -0.2
		}
	}
	return 0
}

func positionScore(e model.BattingEntry) float64 {
	switch {
	case e.Position >= 7 && e.Runs >= 15:
		return math.Min(0.5, float64(e.Runs)*0.02)
	case e.Position >= 5 && e.Runs >= 20:
		return math.Min(0.3, float64(e.Runs)*0.01)
	}
	return 0
}

func notOutChaseScore(e model.BattingEntry, won, chasing bool) float64 {
	if !chasing || e.Dismissal != model.DismissalNotOut || e.Runs <= 0 {
		return 0
	}
	if won {
		return 0.5
	}
	return 0.15
}

func chasePressureScore(e model.BattingEntry, mc model.MatchContext, chasing bool) float64 {
	if !chasing || e.Balls < 2 {
		return 0
	}
	pressure := ChasePressure(mc.RequiredRunRate)
	required := rateAsStrikeRate(mc.RequiredRunRate)

	var score float64
	switch sr := e.StrikeRate(); {
	case sr >= required:
		score = pressure
	case sr >= required*0.7:
		score = pressure * 0.3
	default:
		score = -pressure * 0.5
	}

	if score < 0 && e.Balls < 4 {
		return 0
	}
	if e.Balls < 5 {
		score *= 0.5
	}
	if score < 0 && e.Role.IsBowling() {
		score *= 0.5
	}
	return score
}

func cameoScore(e model.BattingEntry) float64 {
	if e.Balls < 2 || e.Balls > 10 || e.StrikeRate() < 180 {
		return 0
	}
	var score float64
	switch perBall := float64(e.Runs) / float64(e.Balls); {
	case perBall >= 3.0:
		score = 0.8
	case perBall >= 2.5:
		score = 0.6
	case perBall >= 2.0:
		score = 0.4
	case perBall >= 1.5:
		score = 0.2
	}
	if e.Sixes >= 1 && e.Balls <= 5 {
		score += 0.2
	}
	return score
}

func duckScore(e model.BattingEntry) float64 {
	switch {
	case e.IsGoldenDuck():
		return -2.0
	case e.IsDuck():
		return -1.0
	}
	return 0
}
