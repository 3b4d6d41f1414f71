package testmatches

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/cricscore/pkg/logger"
)

var teamNames = []string{
	"Lions", "Falcons", "Sharks", "Rhinos", "Cobras", "Hawks", "Tigers", "Wolves",
	"Eagles", "Panthers", "Bulls", "Stallions",
}

var venues = []string{"Eden Gardens", "Wankhede", "Chepauk", "The Oval", "MCG", "Newlands"}

// roleAt gives the squad role for a 1-based batting position.
func roleAt(pos int) string {
	switch {
	case pos == keeperPosition:
		return "wicket_keeper"
	case pos <= 4:
		return "batter"
	case pos == 6:
		return "batting_all_rounder"
	case pos == 7:
		return "bowling_all_rounder"
	default:
		return "bowler"
	}
}

type squad struct {
	name    string
	players [squadSize]string
}

// generator builds plausible T20 scorecards from a seeded stream so a run
// can be replayed.
type generator struct {
	src    *rand.ChaCha8
	r      *rand.Rand
	squads []squad
}

func newGenerator(seed uint64, numTeams int) *generator {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	src := rand.NewChaCha8(key)

	g := &generator{src: src, r: rand.New(src)} //nolint:gosec // test data, not secrets
	for i := 0; i < numTeams; i++ {
		name := teamNames[i%len(teamNames)]
		if i >= len(teamNames) {
			name += " " + strconv.Itoa(i/len(teamNames)+1)
		}
		s := squad{name: name}
		for p := range s.players {
			s.players[p] = fmt.Sprintf("%s %02d", name, p+1)
		}
		g.squads = append(g.squads, s)
	}
	return g
}

// generateMatches creates config.NumMatches scorecards between random pairs of squads.
func generateMatches(ctx context.Context, config *Config, stats *Stats) ([]Scorecard, error) {
	logger.Get().Info(ctx, "generating matches",
		logger.Int("matches", config.NumMatches),
		logger.Int("teams", config.NumTeams),
		logger.Any("seed", config.Seed))

	g := newGenerator(config.Seed, config.NumTeams)
	matches := make([]Scorecard, config.NumMatches)
	for i := range matches {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during match generation: %w", err)
		}
		m, err := g.match()
		if err != nil {
			return nil, fmt.Errorf("failed to generate match %d: %w", i, err)
		}
		matches[i] = m
	}

	stats.MatchesGenerated = len(matches)
	logger.Get().Info(ctx, "generated matches successfully", logger.Int("count", len(matches)))
	return matches, nil
}

// match plays one game between two distinct squads.
func (g *generator) match() (Scorecard, error) {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return Scorecard{}, fmt.Errorf("match id: %w", err)
	}

	i := g.r.IntN(len(g.squads))
	j := g.r.IntN(len(g.squads) - 1)
	if j >= i {
		j++
	}
	home, away := g.squads[i], g.squads[j]

	first := g.innings(home, away, 0)
	second := g.innings(away, home, first.TotalRuns+1)

	winner := "tie"
	switch {
	case first.TotalRuns > second.TotalRuns:
		winner = home.name
	case second.TotalRuns > first.TotalRuns:
		winner = away.name
	}

	return Scorecard{
		MatchID:       id.String(),
		Team1Name:     home.name,
		Team2Name:     away.name,
		Winner:        winner,
		Venue:         venues[g.r.IntN(len(venues))],
		FirstInnings:  first,
		SecondInnings: second,
	}, nil
}

// innings bats bat against bowl. A positive target marks the chase, which
// ends early once it is reached.
func (g *generator) innings(bat, bowl squad, target int) Innings {
	wickets := g.r.IntN(squadSize)
	batted := min(wickets+2, squadSize)

	in := Innings{Batting: make([]BattingRow, squadSize)}
	for p := range bat.players {
		row := BattingRow{Name: bat.players[p], Role: roleAt(p + 1), Dismissal: "did_not_bat"}
		if p < batted {
			g.bat(&row, p)
			row.Dismissal = "not_out"
			if p < wickets {
				row.Dismissal = "out"
			}
			in.TotalRuns += row.Runs
		}
		in.Batting[p] = row
	}
	in.TotalRuns += g.r.IntN(15) // extras
	in.TotalWickets = wickets

	balls := maxOversBalls
	if wickets == squadSize-1 || (target > 0 && in.TotalRuns >= target) {
		balls = 90 + g.r.IntN(maxOversBalls-90)
	}
	in.TotalOvers = overs(balls)

	g.bowl(&in, bowl, balls)
	return in
}

// bat fills a batter's line; the top order scores more.
func (g *generator) bat(row *BattingRow, p int) {
	ceiling := 20
	switch {
	case p < 4:
		ceiling = 80
	case p < 7:
		ceiling = 45
	}
	row.Runs = g.r.IntN(ceiling)
	strikeRate := 80 + g.r.IntN(100)
	row.Balls = max(1, row.Runs*100/strikeRate)
	row.Fours = g.r.IntN(row.Runs/8 + 1)
	row.Sixes = g.r.IntN((row.Runs-4*row.Fours)/12 + 1)
}

// bowl spreads balls and runs over the fielding side's five specialist
// bowlers, then credits each dismissal to a bowler or fielder.
func (g *generator) bowl(in *Innings, side squad, balls int) {
	remaining := balls
	for p := squadSize - 1; p >= 6 && remaining > 0; p-- {
		b := min(remaining, maxBowlerBalls)
		remaining -= b
		in.Bowling = append(in.Bowling, BowlingRow{Name: side.players[p], Role: roleAt(p + 1), Overs: overs(b)})
	}

	conceded := 0
	for k := range in.Bowling {
		row := &in.Bowling[k]
		b := legalBalls(row.Overs)
		row.RunsConceded = in.TotalRuns * b / balls
		if k == len(in.Bowling)-1 {
			row.RunsConceded = in.TotalRuns - conceded
		}
		conceded += row.RunsConceded
		if b >= ballsPerOver && row.RunsConceded < 6*(b/ballsPerOver) {
			row.Maidens = g.r.IntN(2)
		}
	}

	dismissed := make([][]string, len(in.Bowling))
	for k := range in.Batting {
		batter := &in.Batting[k]
		if batter.Dismissal != "out" {
			continue
		}
		fielder := side.players[g.r.IntN(squadSize)]
		switch g.r.IntN(6) {
		case 0, 1:
			batter.Dismissal = "caught"
			in.FieldingEvents = append(in.FieldingEvents, FieldingRow{PlayerName: fielder, EventType: "catch"})
		case 2:
			batter.Dismissal = "bowled"
		case 3:
			batter.Dismissal = "lbw"
		case 4:
			batter.Dismissal = "run_out"
			in.FieldingEvents = append(in.FieldingEvents, FieldingRow{PlayerName: fielder, EventType: "direct_run_out"})
			continue
		default:
			batter.Dismissal = "stumped"
			in.FieldingEvents = append(in.FieldingEvents, FieldingRow{PlayerName: side.players[keeperPosition-1], EventType: "stumping"})
		}
		k := g.r.IntN(len(in.Bowling))
		in.Bowling[k].Wickets++
		dismissed[k] = append(dismissed[k], strconv.Itoa(batter.Runs))
	}
	for k, runs := range dismissed {
		in.Bowling[k].DismissedBatsmenRuns = strings.Join(runs, ",")
	}

	if g.r.IntN(4) == 0 {
		in.FieldingEvents = append(in.FieldingEvents, FieldingRow{PlayerName: side.players[g.r.IntN(squadSize)], EventType: "dropped_catch"})
	}
	if g.r.IntN(4) == 0 {
		in.FieldingEvents = append(in.FieldingEvents, FieldingRow{PlayerName: side.players[g.r.IntN(squadSize)], EventType: "misfield"})
	}
}

// overs converts legal balls to cricket notation, e.g. 22 balls is 3.4.
func overs(balls int) float64 {
	return float64(balls/ballsPerOver) + float64(balls%ballsPerOver)/10
}

func legalBalls(o float64) int {
	whole := int(o)
	return whole*ballsPerOver + int((o-float64(whole))*10+0.5)
}

// appearances counts the matches each player was named in.
func appearances(matches []Scorecard) map[string]int {
	out := make(map[string]int)
	for _, m := range matches {
		for _, in := range []Innings{m.FirstInnings, m.SecondInnings} {
			for _, b := range in.Batting {
				out[b.Name]++
			}
		}
	}
	return out
}
