// Package types contains the read models shared by the standings store and the API.
package types

import "github.com/okian/cricscore/internal/domain/model"

// Standing is one leaderboard row: a player's average overall rating across
// every rated match they appeared in.
type Standing struct {
	Rank    int        `json:"rank"`
	Player  string     `json:"player"`
	Team    string     `json:"team"`
	Role    model.Role `json:"role"`
	Matches int        `json:"matches"`
	Average float64    `json:"average_rating"`
	Best    float64    `json:"best_rating"`
	MVPs    int        `json:"mvp_awards"`
}

// FormPoint is a single match in a player's recent form.
type FormPoint struct {
	MatchID string  `json:"match_id"`
	Team    string  `json:"team"`
	Overall float64 `json:"overall_rating"`
	Band    string  `json:"band"`
}

// PlayerProfile is a standing plus recent form, most recent match first.
type PlayerProfile struct {
	Standing
	AverageBatting  float64     `json:"average_batting"`
	AverageBowling  float64     `json:"average_bowling"`
	AverageFielding float64     `json:"average_fielding"`
	Teams           []string    `json:"teams"`
	Career          Career      `json:"career"`
	Awards          []Award     `json:"awards"`
	Form            []FormPoint `json:"form"`
}

// FormAverage returns the mean overall rating over the form guide, 0 when empty.
func (p PlayerProfile) FormAverage() float64 {
	if len(p.Form) == 0 {
		return 0
	}
	var sum float64
	for _, f := range p.Form {
		sum += f.Overall
	}
	return sum / float64(len(p.Form))
}

// Discipline selects what a leaderboard ranks by.
type Discipline string

// Leaderboard disciplines.
const (
	DisciplineOverall    Discipline = "overall"
	DisciplineBatting    Discipline = "batting"
	DisciplineBowling    Discipline = "bowling"
	DisciplineAllRounder Discipline = "all_rounder"
)

// Valid reports whether d is a known discipline.
func (d Discipline) Valid() bool {
	switch d {
	case DisciplineOverall, DisciplineBatting, DisciplineBowling, DisciplineAllRounder:
		return true
	}
	return false
}

// Leader is one row of a batting, bowling or all-rounder leaderboard. Totals
// cover only the matches that count for the discipline.
type Leader struct {
	Rank              int         `json:"rank"`
	Player            string      `json:"player"`
	Teams             []string    `json:"teams"`
	Role              model.Role  `json:"role"`
	Matches           int         `json:"matches"`
	Average           float64     `json:"average_rating"`
	AverageBatting    float64     `json:"average_batting"`
	AverageBowling    float64     `json:"average_bowling"`
	Best              float64     `json:"best_rating"`
	Runs              int         `json:"runs"`
	Balls             int         `json:"balls"`
	Fours             int         `json:"fours"`
	Sixes             int         `json:"sixes"`
	StrikeRate        float64     `json:"strike_rate"`
	Wickets           int         `json:"wickets"`
	Overs             model.Overs `json:"overs"`
	RunsConceded      int         `json:"runs_conceded"`
	Economy           float64     `json:"economy"`
	BowlingStrikeRate float64     `json:"bowling_strike_rate"`
}

// Comparison is one side of a head-to-head between two players.
type Comparison struct {
	Player             string     `json:"player"`
	Role               model.Role `json:"role"`
	Type               string     `json:"player_type"`
	Matches            int        `json:"matches"`
	AverageOverall     float64    `json:"average_rating"`
	AverageBatting     float64    `json:"average_batting"`
	AverageBowling     float64    `json:"average_bowling"`
	AverageFielding    float64    `json:"average_fielding"`
	Best               float64    `json:"best_rating"`
	MVPs               int        `json:"mvp_awards"`
	MVPRate            float64    `json:"mvp_rate"`
	RunsPerInnings     float64    `json:"runs_per_innings"`
	StrikeRate         float64    `json:"strike_rate"`
	BoundaryPercentage float64    `json:"boundary_pct"`
	FoursPerInnings    float64    `json:"fours_per_innings"`
	SixesPerInnings    float64    `json:"sixes_per_innings"`
	WicketsPerInnings  float64    `json:"wickets_per_innings"`
	Economy            float64    `json:"economy"`
	BowlingAverage     float64    `json:"bowling_average"`
	Career             Career     `json:"career"`
}

// Player types used to pick comparison columns.
const (
	PlayerTypeBatter     = "batter"
	PlayerTypeBowler     = "bowler"
	PlayerTypeAllRounder = "all_rounder"
)

// Compare derives head-to-head figures from a profile.
func Compare(p PlayerProfile) Comparison { //nolint:gocritic // hugeParam: read-only
	c := p.Career
	typ := PlayerTypeBatter
	switch {
	case p.Role == model.RoleBowler:
		typ = PlayerTypeBowler
	case p.Role.IsAllRounder():
		typ = PlayerTypeAllRounder
	}
	return Comparison{
		Player:             p.Player,
		Role:               p.Role,
		Type:               typ,
		Matches:            p.Matches,
		AverageOverall:     p.Average,
		AverageBatting:     p.AverageBatting,
		AverageBowling:     p.AverageBowling,
		AverageFielding:    p.AverageFielding,
		Best:               p.Best,
		MVPs:               p.MVPs,
		MVPRate:            ratio(p.MVPs*percentMultiplier, p.Matches),
		RunsPerInnings:     ratio(c.Runs, c.BattingInnings),
		StrikeRate:         c.StrikeRate(),
		BoundaryPercentage: c.BoundaryPercentage(),
		FoursPerInnings:    ratio(c.Fours, c.BattingInnings),
		SixesPerInnings:    ratio(c.Sixes, c.BattingInnings),
		WicketsPerInnings:  ratio(c.Wickets, c.BowlingInnings),
		Economy:            c.Economy(),
		BowlingAverage:     c.BowlingAverage(),
		Career:             c,
	}
}

// Match results from one team's point of view.
const (
	ResultWon      = "won"
	ResultLost     = "lost"
	ResultTie      = model.ResultTie
	ResultNoResult = model.ResultNoResult
)

// TeamResult is one match from a team's point of view.
type TeamResult struct {
	MatchID         string      `json:"match_id"`
	Opponent        string      `json:"opponent"`
	Result          string      `json:"result"`
	Score           model.Score `json:"score"`
	OpponentScore   model.Score `json:"opponent_score"`
	Venue           string      `json:"venue,omitempty"`
	MVP             string      `json:"mvp,omitempty"`
	TeamAverage     float64     `json:"team_average"`
	OpponentAverage float64     `json:"opponent_average"`
}

// TeamSummary aggregates a team's rated matches. Results are most recent first
// and only filled for a single-team lookup.
type TeamSummary struct {
	Team             string       `json:"team"`
	Matches          int          `json:"matches"`
	Wins             int          `json:"wins"`
	Losses           int          `json:"losses"`
	Ties             int          `json:"ties"`
	NoResults        int          `json:"no_results"`
	WinPercentage    float64      `json:"win_pct"`
	AverageOverall   float64      `json:"average_rating"`
	AverageBatting   float64      `json:"average_batting"`
	AverageBowling   float64      `json:"average_bowling"`
	AverageFielding  float64      `json:"average_fielding"`
	BestPlayerRating float64      `json:"best_player_rating"`
	Results          []TeamResult `json:"results,omitempty"`
}

// MatchSummary is one row of the recent matches list.
type MatchSummary struct {
	MatchID    string      `json:"match_id"`
	Team1      string      `json:"team1"`
	Team2      string      `json:"team2"`
	Team1Score model.Score `json:"team1_score"`
	Team2Score model.Score `json:"team2_score"`
	Winner     string      `json:"winner,omitempty"`
	Venue      string      `json:"venue,omitempty"`
	MVP        string      `json:"mvp,omitempty"`
	MVPRating  float64     `json:"mvp_rating,omitempty"`
}
