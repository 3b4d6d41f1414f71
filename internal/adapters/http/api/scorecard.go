package api

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/cricscore/internal/domain/model"
)

const (
	defaultTeam1 = "Team 1"
	defaultTeam2 = "Team 2"
	maxPlayers   = 11
)

// scorecardRequest mirrors the OpenAPI schema for POST /ratings and POST /matches.
type scorecardRequest struct {
	MatchID       string         `json:"match_id"`
	Team1Name     string         `json:"team1_name"`
	Team2Name     string         `json:"team2_name"`
	Winner        string         `json:"winner"`
	Venue         string         `json:"venue"`
	FirstInnings  inningsRequest `json:"first_innings"`
	SecondInnings inningsRequest `json:"second_innings"`
}

type inningsRequest struct {
	TotalRuns      int           `json:"total_runs"`
	TotalWickets   int           `json:"total_wickets"`
	TotalOvers     *float64      `json:"total_overs"`
	Batting        []battingRow  `json:"batting"`
	Bowling        []bowlingRow  `json:"bowling"`
	FieldingEvents []fieldingRow `json:"fielding_events"`
}

type battingRow struct {
	Name      string `json:"name"`
	Runs      int    `json:"runs"`
	Balls     int    `json:"balls"`
	Fours     int    `json:"fours"`
	Sixes     int    `json:"sixes"`
	Dismissal string `json:"dismissal"`
	Role      string `json:"role"`
}

type bowlingRow struct {
	Name                 string  `json:"name"`
	Overs                float64 `json:"overs"`
	Maidens              int     `json:"maidens"`
	RunsConceded         int     `json:"runs_conceded"`
	Wickets              int     `json:"wickets"`
	Wides                int     `json:"wides"`
	NoBalls              int     `json:"no_balls"`
	Role                 string  `json:"role"`
	DismissedBatsmenRuns string  `json:"dismissed_batsmen_runs"`
}

type fieldingRow struct {
	PlayerName string `json:"player_name"`
	EventType  string `json:"event_type"`
}

// toMatch validates the request and builds the domain match.
func (req *scorecardRequest) toMatch() (model.Match, error) {
	team1 := orDefault(req.Team1Name, defaultTeam1)
	team2 := orDefault(req.Team2Name, defaultTeam2)
	if team1 == team2 {
		return model.Match{}, errors.New("team names must differ")
	}

	first, err := req.FirstInnings.toInnings(team1)
	if err != nil {
		return model.Match{}, fmt.Errorf("first_innings: %w", err)
	}
	second, err := req.SecondInnings.toInnings(team2)
	if err != nil {
		return model.Match{}, fmt.Errorf("second_innings: %w", err)
	}
	second.Chasing = true

	winner := strings.TrimSpace(req.Winner)
	switch winner {
	case "", team1, team2, model.ResultTie, model.ResultNoResult:
	default:
		return model.Match{}, fmt.Errorf("winner %q is neither team, %q nor %q", winner, model.ResultTie, model.ResultNoResult)
	}

	return model.Match{
		ID:     strings.TrimSpace(req.MatchID),
		First:  first,
		Second: second,
		Winner: winner,
		Venue:  strings.TrimSpace(req.Venue),
	}, nil
}

func (in *inningsRequest) toInnings(team string) (model.Innings, error) {
	overs := float64(model.T20Overs)
	if in.TotalOvers != nil {
		overs = *in.TotalOvers
	}
	if err := validOvers("total_overs", overs); err != nil {
		return model.Innings{}, err
	}
	if err := nonNegative(map[string]int{"total_runs": in.TotalRuns, "total_wickets": in.TotalWickets}); err != nil {
		return model.Innings{}, err
	}
	if in.TotalWickets > maxPlayers-1 {
		return model.Innings{}, fmt.Errorf("total_wickets %d exceeds %d", in.TotalWickets, maxPlayers-1)
	}

	out := model.Innings{
		Team:       team,
		TotalRuns:  in.TotalRuns,
		Wickets:    in.TotalWickets,
		TotalOvers: model.Overs(overs),
	}

	for i, row := range in.Batting {
		if strings.TrimSpace(row.Name) == "" {
			continue
		}
		e, err := row.toEntry(i + 1)
		if err != nil {
			return model.Innings{}, fmt.Errorf("batting[%d]: %w", i, err)
		}
		out.Batting = append(out.Batting, e)
	}
	if len(out.Batting) > maxPlayers {
		return model.Innings{}, fmt.Errorf("batting has %d players, at most %d allowed", len(out.Batting), maxPlayers)
	}

	for i, row := range in.Bowling {
		if strings.TrimSpace(row.Name) == "" {
			continue
		}
		e, err := row.toEntry()
		if err != nil {
			return model.Innings{}, fmt.Errorf("bowling[%d]: %w", i, err)
		}
		out.Bowling = append(out.Bowling, e)
	}

	for i, row := range in.FieldingEvents {
		if strings.TrimSpace(row.PlayerName) == "" {
			continue
		}
		kind := model.FieldingEventKind(orDefault(row.EventType, string(model.EventCatch)))
		if !kind.Valid() {
			return model.Innings{}, fmt.Errorf("fielding_events[%d]: unknown event_type %q", i, row.EventType)
		}
		out.Fielding = append(out.Fielding, model.FieldingEvent{PlayerName: strings.TrimSpace(row.PlayerName), Kind: kind})
	}

	return out, nil
}

func (row *battingRow) toEntry(position int) (model.BattingEntry, error) {
	if err := nonNegative(map[string]int{"runs": row.Runs, "balls": row.Balls, "fours": row.Fours, "sixes": row.Sixes}); err != nil {
		return model.BattingEntry{}, err
	}
	dismissal := model.Dismissal(orDefault(row.Dismissal, string(model.DismissalCaught)))
	if !dismissal.Valid() {
		return model.BattingEntry{}, fmt.Errorf("unknown dismissal %q", row.Dismissal)
	}
	role := model.Role(orDefault(row.Role, string(model.RoleBatter)))
	if !role.Valid() {
		return model.BattingEntry{}, fmt.Errorf("unknown role %q", row.Role)
	}
	return model.BattingEntry{
		Name:      strings.TrimSpace(row.Name),
		Runs:      row.Runs,
		Balls:     row.Balls,
		Fours:     row.Fours,
		Sixes:     row.Sixes,
		Dismissal: dismissal,
		Position:  position,
		Role:      role,
	}, nil
}

func (row *bowlingRow) toEntry() (model.BowlingEntry, error) {
	if err := validOvers("overs", row.Overs); err != nil {
		return model.BowlingEntry{}, err
	}
	if err := nonNegative(map[string]int{
		"maidens": row.Maidens, "runs_conceded": row.RunsConceded, "wickets": row.Wickets,
		"wides": row.Wides, "no_balls": row.NoBalls,
	}); err != nil {
		return model.BowlingEntry{}, err
	}
	role := model.Role(orDefault(row.Role, string(model.RoleBowler)))
	if !role.Valid() {
		return model.BowlingEntry{}, fmt.Errorf("unknown role %q", row.Role)
	}
	dismissed, err := parseDismissedRuns(row.DismissedBatsmenRuns)
	if err != nil {
		return model.BowlingEntry{}, err
	}
	return model.BowlingEntry{
		Name:          strings.TrimSpace(row.Name),
		Overs:         model.Overs(row.Overs),
		Maidens:       row.Maidens,
		RunsConceded:  row.RunsConceded,
		Wickets:       row.Wickets,
		Wides:         row.Wides,
		NoBalls:       row.NoBalls,
		Role:          role,
		DismissedRuns: dismissed,
	}, nil
}

// parseDismissedRuns reads a comma-separated list such as "45, 12,0".
func parseDismissedRuns(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("dismissed_batsmen_runs: %q is not a run total", part)
		}
		out = append(out, n)
	}
	return out, nil
}

// validOvers accepts legal-ball notation: whole overs plus a ball digit 0-5.
func validOvers(field string, o float64) error {
	if math.IsNaN(o) || o < 0 || o > model.T20Overs {
		return fmt.Errorf("%s %v out of range", field, o)
	}
	whole := math.Floor(o)
	if balls := math.Round((o - whole) * 10); balls > model.BallsPerOver-1 {
		return fmt.Errorf("%s %v has more than %d balls in the over", field, o, model.BallsPerOver-1)
	}
	return nil
}

func nonNegative(fields map[string]int) error {
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}
