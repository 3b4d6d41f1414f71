package types

import (
	"math"

	"github.com/okian/cricscore/internal/domain/model"
)

// Milestone thresholds.
const (
	fiftyRuns         = 50
	hundredRuns       = 100
	threeWicketHaul   = 3
	fiveWicketHaul    = 5
	highRating        = 7.0
	sixMachineSixes   = 10
	percentMultiplier = 100
)

// Career totals a player's scorecard figures across rated matches.
type Career struct {
	BattingInnings int `json:"batting_innings"`
	Runs           int `json:"runs"`
	Balls          int `json:"balls"`
	Fours          int `json:"fours"`
	Sixes          int `json:"sixes"`
	Fifties        int `json:"fifties"`
	Hundreds       int `json:"hundreds"`
	Ducks          int `json:"ducks"`
	BowlingInnings int `json:"bowling_innings"`
	Wickets        int `json:"wickets"`
	BallsBowled    int `json:"balls_bowled"`
	RunsConceded   int `json:"runs_conceded"`
	ThreeWickets   int `json:"three_wicket_hauls"`
	FiveWickets    int `json:"five_wicket_hauls"`
	HighRatings    int `json:"high_ratings"` // matches rated 7.0 or better
}

// Add folds one match rating into the totals.
func (c *Career) Add(p model.PlayerRating) { //nolint:gocritic // hugeParam: read-only
	f := p.Figures
	if p.DidBat {
		c.BattingInnings++
		c.Runs += f.Runs
		c.Balls += f.Balls
		c.Fours += f.Fours
		c.Sixes += f.Sixes
		switch {
		case f.Runs >= hundredRuns:
			c.Hundreds++
		case f.Runs >= fiftyRuns:
			c.Fifties++
		}
		if f.IsDuck() {
			c.Ducks++
		}
	}
	if p.DidBowl {
		c.BowlingInnings++
		c.Wickets += f.Wickets
		c.BallsBowled += f.BallsBowled
		c.RunsConceded += f.RunsConceded
		switch {
		case f.Wickets >= fiveWicketHaul:
			c.FiveWickets++
		case f.Wickets >= threeWicketHaul:
			c.ThreeWickets++
		}
	}
	if p.Overall >= highRating {
		c.HighRatings++
	}
}

// StrikeRate returns runs per hundred balls faced.
func (c Career) StrikeRate() float64 {
	return ratio(c.Runs*percentMultiplier, c.Balls)
}

// BoundaryPercentage returns the share of runs scored in fours and sixes.
func (c Career) BoundaryPercentage() float64 {
	return ratio((c.Fours*4+c.Sixes*6)*percentMultiplier, c.Runs)
}

// Overs returns the balls bowled in overs notation.
func (c Career) Overs() model.Overs {
	return model.OversFromBalls(c.BallsBowled)
}

// Economy returns runs conceded per six legal balls.
func (c Career) Economy() float64 {
	return ratio(c.RunsConceded*model.BallsPerOver, c.BallsBowled)
}

// BowlingAverage returns runs conceded per wicket.
func (c Career) BowlingAverage() float64 {
	return ratio(c.RunsConceded, c.Wickets)
}

// BowlingStrikeRate returns balls bowled per wicket.
func (c Career) BowlingStrikeRate() float64 {
	return ratio(c.BallsBowled, c.Wickets)
}

// ratio divides and rounds to two decimals, 0 when den is 0.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round2(float64(num) / float64(den))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// Award is a badge earned across a player's rated matches.
type Award struct {
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	Count       int    `json:"count"`
	Description string `json:"description"`
}

// Award kinds.
const (
	AwardMVP          = "mvp"
	AwardHundreds     = "hundreds"
	AwardFifties      = "fifties"
	AwardFiveWickets  = "five_wicket_hauls"
	AwardThreeWickets = "three_wicket_hauls"
	AwardSixMachine   = "six_machine"
	AwardConsistent   = "mr_consistent"
	AwardDucks        = "ducks"
)

// Awards lists the badges earned across the given number of rated matches.
// Badges with a zero count are omitted.
func Awards(c Career, matches, mvps int) []Award {
	var out []Award
	add := func(ok bool, kind, label string, count int, desc string) {
		if ok {
			out = append(out, Award{Kind: kind, Label: label, Count: count, Description: desc})
		}
	}

	add(mvps > 0, AwardMVP, "MVP Awards", mvps, "Player of the match")
	add(c.Hundreds > 0, AwardHundreds, "Centuries", c.Hundreds, "100+ runs in an innings")
	add(c.Fifties > 0, AwardFifties, "Half-Centuries", c.Fifties, "50-99 runs in an innings")
	add(c.FiveWickets > 0, AwardFiveWickets, "5-Wicket Hauls", c.FiveWickets, "5+ wickets in a match")
	add(c.ThreeWickets > 0, AwardThreeWickets, "3-Wicket Hauls", c.ThreeWickets, "3-4 wickets in a match")
	add(c.Sixes >= sixMachineSixes, AwardSixMachine, "Six Machine", c.Sixes, "Total sixes hit")
	add(matches > 0 && c.HighRatings*2 >= matches, AwardConsistent, "Mr. Consistent", c.HighRatings,
		"7.0+ rating in at least half of matches")
	add(c.Ducks > 0, AwardDucks, "Ducks", c.Ducks, "Out for 0 runs")
	return out
}
