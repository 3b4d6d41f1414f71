// Package model contains domain models passed between layers.
package model

import "math"

// Match-level classification constants.
const (
	// T20Overs is the scheduled length of an innings.
	T20Overs = 20
	// BallsPerOver counts legal deliveries in an over.
	BallsPerOver = 6

	highScoringThreshold = 350
	lowScoringThreshold  = 280
)

// Winner values that do not name a team.
const (
	ResultTie      = "tie"
	ResultNoResult = "no_result"
)

// Role is a player's primary role in the side.
type Role string

// Player roles.
const (
	RoleBatter            Role = "batter"
	RoleBowler            Role = "bowler"
	RoleBattingAllRounder Role = "batting_all_rounder"
	RoleBowlingAllRounder Role = "bowling_all_rounder"
	RoleWicketKeeper      Role = "wicket_keeper"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleBatter, RoleBowler, RoleBattingAllRounder, RoleBowlingAllRounder, RoleWicketKeeper:
		return true
	}
	return false
}

// IsAllRounder reports whether r is either all-rounder variant.
func (r Role) IsAllRounder() bool {
	return r == RoleBattingAllRounder || r == RoleBowlingAllRounder
}

// IsBowling reports whether r is a bowler or a bowling all-rounder.
func (r Role) IsBowling() bool {
	return r == RoleBowler || r == RoleBowlingAllRounder
}

// Dismissal describes how a batting innings ended.
type Dismissal string

// Dismissal kinds.
const (
	DismissalNotOut      Dismissal = "not_out"
	DismissalBowled      Dismissal = "bowled"
	DismissalCaught      Dismissal = "caught"
	DismissalLBW         Dismissal = "lbw"
	DismissalRunOut      Dismissal = "run_out"
	DismissalStumped     Dismissal = "stumped"
	DismissalHitWicket   Dismissal = "hit_wicket"
	DismissalRetiredHurt Dismissal = "retired_hurt"
	DismissalDidNotBat   Dismissal = "did_not_bat"
)

// Valid reports whether d is one of the known dismissal kinds.
func (d Dismissal) Valid() bool {
	switch d {
	case DismissalNotOut, DismissalBowled, DismissalCaught, DismissalLBW, DismissalRunOut,
		DismissalStumped, DismissalHitWicket, DismissalRetiredHurt, DismissalDidNotBat:
		return true
	}
	return false
}

// IsOut reports whether the batter lost their wicket.
func (d Dismissal) IsOut() bool {
	switch d {
	case DismissalNotOut, DismissalRetiredHurt, DismissalDidNotBat:
		return false
	}
	return true
}

// FieldingEventKind enumerates fielding contributions.
type FieldingEventKind string

// Fielding event kinds.
const (
	EventCatch          FieldingEventKind = "catch"
	EventDirectRunOut   FieldingEventKind = "direct_run_out"
	EventAssistedRunOut FieldingEventKind = "assisted_run_out"
	EventStumping       FieldingEventKind = "stumping"
	EventDroppedCatch   FieldingEventKind = "dropped_catch"
	EventMisfield       FieldingEventKind = "misfield"
)

// Valid reports whether k is one of the known fielding event kinds.
func (k FieldingEventKind) Valid() bool {
	switch k {
	case EventCatch, EventDirectRunOut, EventAssistedRunOut, EventStumping, EventDroppedCatch, EventMisfield:
		return true
	}
	return false
}

// Overs is a count in legal-ball notation: 3.4 is three overs and four balls.
// The fractional digit is a ball count (0-5), not a decimal fraction.
type Overs float64

// Balls converts o to legal deliveries.
func (o Overs) Balls() int {
	full := math.Floor(float64(o))
	part := math.Round((float64(o) - full) * 10)
	return int(full)*BallsPerOver + int(part)
}

// OversFromBalls converts legal deliveries to overs notation.
func OversFromBalls(balls int) Overs {
	return Overs(float64(balls/BallsPerOver) + float64(balls%BallsPerOver)/10)
}

// BattingEntry is one batter's innings.
type BattingEntry struct {
	Name      string
	Runs      int
	Balls     int
	Fours     int
	Sixes     int
	Dismissal Dismissal
	Position  int // 1-11
	Role      Role
}

// StrikeRate returns runs per hundred balls, 0 when no balls were faced.
func (b BattingEntry) StrikeRate() float64 {
	if b.Balls == 0 {
		return 0
	}
	return float64(b.Runs) / float64(b.Balls) * 100
}

// BoundaryRuns returns runs scored in fours and sixes.
func (b BattingEntry) BoundaryRuns() int {
	return b.Fours*4 + b.Sixes*6
}

// BoundaryPercentage returns the share of runs from boundaries, capped at 100.
func (b BattingEntry) BoundaryPercentage() float64 {
	if b.Runs == 0 {
		return 0
	}
	return math.Min(float64(b.BoundaryRuns())/float64(b.Runs)*100, 100)
}

// IsDuck reports a dismissal for zero.
func (b BattingEntry) IsDuck() bool {
	return b.Runs == 0 && b.Dismissal.IsOut()
}

// IsGoldenDuck reports a duck on the first ball faced.
func (b BattingEntry) IsGoldenDuck() bool {
	return b.IsDuck() && b.Balls <= 1
}

// DidBat is false only for did-not-bat entries.
func (b BattingEntry) DidBat() bool {
	return b.Dismissal != DismissalDidNotBat
}

// BowlingEntry is one bowler's spell.
type BowlingEntry struct {
	Name         string
	Overs        Overs
	Maidens      int
	RunsConceded int
	Wickets      int
	Wides        int
	NoBalls      int
	Role         Role
	// DismissedRuns holds the score of each batter this bowler dismissed.
	DismissedRuns []int
}

// TotalBalls returns legal deliveries bowled.
func (b BowlingEntry) TotalBalls() int {
	return b.Overs.Balls()
}

// Economy returns runs conceded per six legal balls.
func (b BowlingEntry) Economy() float64 {
	balls := b.TotalBalls()
	if balls == 0 {
		return 0
	}
	return float64(b.RunsConceded) / (float64(balls) / BallsPerOver)
}

// DidBowl reports whether at least one legal ball was bowled.
func (b BowlingEntry) DidBowl() bool {
	return b.TotalBalls() > 0
}

// FieldingEvent attributes a fielding contribution to a player.
type FieldingEvent struct {
	PlayerName string
	Kind       FieldingEventKind
}

// Innings is one side's batting effort. Bowling entries and fielding events
// belong to the side that bowled in this innings.
type Innings struct {
	Team       string
	TotalRuns  int
	Wickets    int
	TotalOvers Overs
	Batting    []BattingEntry
	Bowling    []BowlingEntry
	Fielding   []FieldingEvent
	Chasing    bool
}

// RunRate returns runs per six legal balls, 0 for an innings with no balls.
func (in Innings) RunRate() float64 {
	balls := in.TotalOvers.Balls()
	if balls == 0 {
		return 0
	}
	return float64(in.TotalRuns) / float64(balls) * BallsPerOver
}

// Match is a complete two-innings T20 game.
type Match struct {
	ID     string
	First  Innings
	Second Innings
	Winner string
	Venue  string
}

// Economy returns combined runs per combined legal over across both innings.
func (m Match) Economy() float64 {
	balls := m.First.TotalOvers.Balls() + m.Second.TotalOvers.Balls()
	if balls == 0 {
		return 0
	}
	runs := m.First.TotalRuns + m.Second.TotalRuns
	return float64(runs) / (float64(balls) / BallsPerOver)
}

// RunRate is the match scoring rate; identical to Economy.
func (m Match) RunRate() float64 {
	return m.Economy()
}

// Target returns the runs the chasing side needs.
func (m Match) Target() int {
	return m.First.TotalRuns + 1
}

// RequiredRunRate returns the target spread over a full twenty overs. A
// first innings of zero leaves nothing to chase and yields 0.
func (m Match) RequiredRunRate() float64 {
	if m.First.TotalRuns <= 0 {
		return 0
	}
	return float64(m.Target()) / T20Overs
}

// CombinedRuns returns runs scored across both innings.
func (m Match) CombinedRuns() int {
	return m.First.TotalRuns + m.Second.TotalRuns
}

// IsHighScoring reports a combined total of at least 350.
func (m Match) IsHighScoring() bool {
	return m.CombinedRuns() >= highScoringThreshold
}

// IsLowScoring reports a combined total under 280.
func (m Match) IsLowScoring() bool {
	return m.CombinedRuns() < lowScoringThreshold
}
