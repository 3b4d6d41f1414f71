package testmatches

import "time"

// Config holds configuration for the match test.
type Config struct {
	BaseURL    string        // Base URL of the service
	NumMatches int           // Number of matches to generate
	NumTeams   int           // Size of the team pool matches are drawn from
	Duplicates int           // Matches resubmitted to exercise idempotency
	TopN       int           // Number of leaderboard rows to fetch and verify
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Wait       time.Duration // How long to wait for the workers to catch up
	Seed       uint64        // Generator seed; equal seeds give equal scorecards
	OutputFile string        // Output file for generated matches
	Verbose    bool          // Enable verbose logging
}

// Scorecard is the request body of POST /matches.
type Scorecard struct {
	MatchID       string  `json:"match_id"`
	Team1Name     string  `json:"team1_name"`
	Team2Name     string  `json:"team2_name"`
	Winner        string  `json:"winner"`
	Venue         string  `json:"venue,omitempty"`
	FirstInnings  Innings `json:"first_innings"`
	SecondInnings Innings `json:"second_innings"`
}

// Innings is one side's batting effort plus the opposition's bowling and fielding.
type Innings struct {
	TotalRuns      int           `json:"total_runs"`
	TotalWickets   int           `json:"total_wickets"`
	TotalOvers     float64       `json:"total_overs"`
	Batting        []BattingRow  `json:"batting"`
	Bowling        []BowlingRow  `json:"bowling"`
	FieldingEvents []FieldingRow `json:"fielding_events,omitempty"`
}

// BattingRow is one batter's line.
type BattingRow struct {
	Name      string `json:"name"`
	Runs      int    `json:"runs"`
	Balls     int    `json:"balls"`
	Fours     int    `json:"fours"`
	Sixes     int    `json:"sixes"`
	Dismissal string `json:"dismissal"`
	Role      string `json:"role"`
}

// BowlingRow is one bowler's line.
type BowlingRow struct {
	Name                 string  `json:"name"`
	Overs                float64 `json:"overs"`
	Maidens              int     `json:"maidens"`
	RunsConceded         int     `json:"runs_conceded"`
	Wickets              int     `json:"wickets"`
	Role                 string  `json:"role"`
	DismissedBatsmenRuns string  `json:"dismissed_batsmen_runs,omitempty"`
}

// FieldingRow credits a fielding event.
type FieldingRow struct {
	PlayerName string `json:"player_name"`
	EventType  string `json:"event_type"`
}

// Standing is a leaderboard row.
type Standing struct {
	Rank    int     `json:"rank"`
	Player  string  `json:"player"`
	Team    string  `json:"team"`
	Matches int     `json:"matches"`
	Average float64 `json:"average_rating"`
	Best    float64 `json:"best_rating"`
	MVPs    int     `json:"mvp_awards"`
}

// AckResponse represents the response from match submission.
type AckResponse struct {
	Status    string `json:"status"`
	MatchID   string `json:"match_id"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds test statistics.
type Stats struct {
	MatchesGenerated   int
	MatchesSubmitted   int
	MatchesAccepted    int
	MatchesDuplicate   int
	MatchesFailed      int
	MatchesRated       int
	LeaderboardEntries int
	ProfilesVerified   int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
