package model

// MatchContext is the scoring environment of one match. It is computed once
// and handed by value to every rater.
type MatchContext struct {
	MatchEconomy         float64 `json:"match_economy"`
	MatchRunRate         float64 `json:"match_run_rate"`
	FirstInningsRunRate  float64 `json:"first_innings_rr"`
	SecondInningsRunRate float64 `json:"second_innings_rr"`
	Target               int     `json:"target"`
	RequiredRunRate      float64 `json:"required_run_rate"`
	ChaseSuccessful      bool    `json:"chase_successful"`
	HighScoring          bool    `json:"is_high_scoring"`
	LowScoring           bool    `json:"is_low_scoring"`
	FirstBattingTeamWon  bool    `json:"first_batting_team_won"`
	Winner               string  `json:"winner"`
}

// Component is one attributable part of a discipline rating.
type Component struct {
	Value float64 `json:"value"`
	Score float64 `json:"score"`
}

// BattingBreakdown explains a batting rating component by component.
type BattingBreakdown struct {
	Note          string    `json:"note,omitempty"`
	Runs          Component `json:"runs"`
	StrikeRate    Component `json:"strike_rate"`
	BoundaryPct   Component `json:"boundary_pct"`
	Anchor        Component `json:"anchor"`   // value: balls faced
	Position      Component `json:"position"` // value: batting position
	NotOutChase   Component `json:"not_out_chase"`
	MatchResult   Component `json:"match_result"`   // value: 1 when the batting side won
	ChasePressure Component `json:"chase_pressure"` // value: required run rate
	Cameo         Component `json:"cameo_impact"`
	Duck          Component `json:"duck"`
	Total         float64   `json:"total"`
}

// BowlingBreakdown explains a bowling rating component by component.
type BowlingBreakdown struct {
	Note          string    `json:"note,omitempty"`
	Wickets       Component `json:"wickets"`
	Economy       Component `json:"economy"`
	MatchEconomy  float64   `json:"match_economy"`
	Maidens       Component `json:"maidens"`
	Quota         Component `json:"overs_bowled"` // value: overs as a decimal
	WicketQuality Component `json:"wicket_quality"`
	DismissedRuns []int     `json:"dismissed_runs,omitempty"`
	MatchResult   Component `json:"match_result"`
	Wides         int       `json:"wides"`
	NoBalls       int       `json:"no_balls"`
	Extras        Component `json:"extras"`
	Total         float64   `json:"total"`
}

// FieldingBreakdown counts fielding events by kind.
type FieldingBreakdown struct {
	Catches         int     `json:"catches"`
	DirectRunOuts   int     `json:"direct_run_outs"`
	AssistedRunOuts int     `json:"assisted_run_outs"`
	Stumpings       int     `json:"stumpings"`
	DroppedCatches  int     `json:"dropped_catches"`
	Misfields       int     `json:"misfields"`
	Adjustment      float64 `json:"adjustment"`
	Total           float64 `json:"total"`
}

// HasEvents reports whether any fielding event was attributed.
func (f FieldingBreakdown) HasEvents() bool {
	return f.Catches+f.DirectRunOuts+f.AssistedRunOuts+f.Stumpings+f.DroppedCatches+f.Misfields > 0
}

// Figures are the scorecard numbers a rating was computed from.
type Figures struct {
	Runs         int       `json:"runs"`
	Balls        int       `json:"balls"`
	Fours        int       `json:"fours"`
	Sixes        int       `json:"sixes"`
	Dismissal    Dismissal `json:"dismissal,omitempty"`
	Wickets      int       `json:"wickets"`
	BallsBowled  int       `json:"balls_bowled"`
	RunsConceded int       `json:"runs_conceded"`
	Maidens      int       `json:"maidens"`
}

// IsDuck reports a dismissal for zero after facing at least one ball.
func (f Figures) IsDuck() bool {
	return f.Runs == 0 && f.Balls > 0 && f.Dismissal.IsOut()
}

// PlayerRating is the final per-player output for one match.
type PlayerRating struct {
	Name           string            `json:"name"`
	Team           string            `json:"team"`
	Role           Role              `json:"role"`
	Overall        float64           `json:"overall_rating"`
	Batting        float64           `json:"batting_rating"`
	Bowling        float64           `json:"bowling_rating"`
	Fielding       float64           `json:"fielding_rating"`
	BattingDetail  BattingBreakdown  `json:"batting_details"`
	BowlingDetail  BowlingBreakdown  `json:"bowling_details"`
	FieldingDetail FieldingBreakdown `json:"fielding_details"`
	Figures        Figures           `json:"figures"`
	DidBat         bool              `json:"did_bat"`
	DidBowl        bool              `json:"did_bowl"`
}

// Band labels the overall rating for display.
func (p PlayerRating) Band() string {
	switch r := p.Overall; {
	case r >= 8.0:
		return "exceptional"
	case r >= 7.0:
		return "great"
	case r >= 6.0:
		return "good"
	case r >= 5.0:
		return "average"
	case r >= 4.0:
		return "below_average"
	default:
		return "poor"
	}
}

// Score is an innings total.
type Score struct {
	Runs    int   `json:"runs"`
	Wickets int   `json:"wickets"`
	Overs   Overs `json:"overs"`
}

// TeamRatings groups one side's player ratings in output order.
type TeamRatings struct {
	Name    string         `json:"name"`
	Score   Score          `json:"score"`
	Players []PlayerRating `json:"players"`
}

// MatchRatings is the full result of rating one match.
type MatchRatings struct {
	MatchID string        `json:"match_id,omitempty"`
	Venue   string        `json:"venue,omitempty"`
	Context MatchContext  `json:"context"`
	Team1   TeamRatings   `json:"team1"`
	Team2   TeamRatings   `json:"team2"`
	MVP     *PlayerRating `json:"mvp,omitempty"`
}

// Players returns both teams' ratings, team 1 first.
func (r MatchRatings) Players() []PlayerRating {
	out := make([]PlayerRating, 0, len(r.Team1.Players)+len(r.Team2.Players))
	out = append(out, r.Team1.Players...)
	return append(out, r.Team2.Players...)
}

// Opponent returns the other side's block and true when team played in r.
func (r MatchRatings) Opponent(team string) (own, opp TeamRatings, ok bool) {
	switch team {
	case r.Team1.Name:
		return r.Team1, r.Team2, true
	case r.Team2.Name:
		return r.Team2, r.Team1, true
	}
	return TeamRatings{}, TeamRatings{}, false
}

// IsMVP reports whether p is the match's most valuable player.
func (r MatchRatings) IsMVP(p PlayerRating) bool {
	return r.MVP != nil && r.MVP.Name == p.Name && r.MVP.Team == p.Team
}
