package repository

import (
	"context"
	"math"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/types"
	"github.com/okian/cricscore/pkg/metrics"
)

// Leaderboard qualification. All-rounders need either pair of totals.
const (
	minBattingRuns     = 125
	minBowlingWickets  = 5
	minAllRounderRunsA = 50
	minAllRounderWktsA = 3
	minAllRounderRunsB = 75
	minAllRounderWktsB = 2
)

// teamRecord accumulates a team's results and its players' ratings.
type teamRecord struct {
	matches    []string // oldest first
	wins       int
	losses     int
	ties       int
	noResults  int
	ratings    int
	overallSum float64
	batSum     float64
	bowlSum    float64
	fieldSum   float64
	best       float64
}

// foldTeam adds one side of r to its team record. Must be called with the
// write lock held.
func (s *TreapStore) foldTeam(r model.MatchRatings, own, opp model.TeamRatings) { //nolint:gocritic // hugeParam: read-only
	if own.Name == "" {
		return
	}
	t, ok := s.teams[own.Name]
	if !ok {
		t = &teamRecord{}
		s.teams[own.Name] = t
	}
	t.matches = append(t.matches, r.MatchID)

	switch resultFor(own.Name, opp.Name, r.Context.Winner) {
	case types.ResultWon:
		t.wins++
	case types.ResultLost:
		t.losses++
	case types.ResultTie:
		t.ties++
	default:
		t.noResults++
	}

	for _, p := range own.Players {
		if t.ratings == 0 || p.Overall > t.best {
			t.best = p.Overall
		}
		t.ratings++
		t.overallSum += p.Overall
		t.batSum += p.Batting
		t.bowlSum += p.Bowling
		t.fieldSum += p.Fielding
	}
}

// resultFor reads winner from team's point of view. An unset winner counts as
// no result.
func resultFor(team, opponent, winner string) string {
	switch winner {
	case team:
		return types.ResultWon
	case opponent:
		return types.ResultLost
	case model.ResultTie:
		return types.ResultTie
	}
	return types.ResultNoResult
}

// leaderCandidate is a qualified player with the split that qualified them.
type leaderCandidate struct {
	name string
	st   *standing
	sp   *split
	avg  ratingFP
}

// Leaders returns the top n qualified players for a batting, bowling or
// all-rounder leaderboard, ranked like TopN.
func (s *TreapStore) Leaders(_ context.Context, d types.Discipline, n int) ([]types.Leader, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	var pick func(st *standing) (*split, float64, bool)
	switch d {
	case types.DisciplineBatting:
		pick = func(st *standing) (*split, float64, bool) {
			sp := &st.batting
			return sp, sp.batSum / float64(sp.matches), sp.career.Runs >= minBattingRuns
		}
	case types.DisciplineBowling:
		pick = func(st *standing) (*split, float64, bool) {
			sp := &st.bowling
			return sp, sp.bowlSum / float64(sp.matches), sp.career.Wickets >= minBowlingWickets
		}
	case types.DisciplineAllRounder:
		pick = func(st *standing) (*split, float64, bool) {
			sp := &st.allRound
			c := sp.career
			ok := (c.Runs >= minAllRounderRunsA && c.Wickets >= minAllRounderWktsA) ||
				(c.Runs >= minAllRounderRunsB && c.Wickets >= minAllRounderWktsB)
			return sp, (sp.batSum + sp.bowlSum) / float64(2*sp.matches), ok
		}
	default:
		metrics.RecordErrorByComponent("repository", "invalid_discipline")
		return nil, ErrInvalidDiscipline
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var cands []leaderCandidate
	for name, st := range s.players {
		sp, avg, ok := pick(st)
		if !ok || sp.matches == 0 {
			continue
		}
		cands = append(cands, leaderCandidate{name: name, st: st, sp: sp, avg: toFixedPoint(avg)})
	}
	sort.Slice(cands, func(i, j int) bool {
		return less(cands[i].avg, cands[i].name, cands[j].avg, cands[j].name)
	})
	if len(cands) > n {
		cands = cands[:n]
	}

	out := make([]types.Leader, len(cands))
	for i, c := range cands {
		rank := i + 1
		if i > 0 && c.avg == cands[i-1].avg {
			rank = out[i-1].Rank
		}
		out[i] = leaderRow(c, rank, toFloat(c.avg))
	}
	return out, nil
}

func leaderRow(c leaderCandidate, rank int, avg float64) types.Leader {
	sp, career := c.sp, c.sp.career
	return types.Leader{
		Rank:              rank,
		Player:            c.name,
		Teams:             slices.Clone(c.st.teams),
		Role:              c.st.role,
		Matches:           sp.matches,
		Average:           round2(avg),
		AverageBatting:    mean(sp.batSum, sp.matches),
		AverageBowling:    mean(sp.bowlSum, sp.matches),
		Best:              sp.best,
		Runs:              career.Runs,
		Balls:             career.Balls,
		Fours:             career.Fours,
		Sixes:             career.Sixes,
		StrikeRate:        career.StrikeRate(),
		Wickets:           career.Wickets,
		Overs:             career.Overs(),
		RunsConceded:      career.RunsConceded,
		Economy:           career.Economy(),
		BowlingStrikeRate: career.BowlingStrikeRate(),
	}
}

// Team returns a team's summary with every result, most recent first.
func (s *TreapStore) Team(_ context.Context, name string) (types.TeamSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.teams[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.TeamSummary{}, ErrNotFound
	}

	sum := teamSummary(name, t)
	sum.Results = make([]types.TeamResult, 0, len(t.matches))
	for i := len(t.matches) - 1; i >= 0; i-- {
		r := s.matches[t.matches[i]]
		own, opp, _ := r.Opponent(name)
		res := types.TeamResult{
			MatchID:         r.MatchID,
			Opponent:        opp.Name,
			Result:          resultFor(name, opp.Name, r.Context.Winner),
			Score:           own.Score,
			OpponentScore:   opp.Score,
			Venue:           r.Venue,
			TeamAverage:     sideAverage(own.Players),
			OpponentAverage: sideAverage(opp.Players),
		}
		if r.MVP != nil {
			res.MVP = r.MVP.Name
		}
		sum.Results = append(sum.Results, res)
	}
	return sum, nil
}

// Teams returns every team's summary without results, by average rating.
func (s *TreapStore) Teams(_ context.Context) []types.TeamSummary {
	s.mu.RLock()
	out := make([]types.TeamSummary, 0, len(s.teams))
	for name, t := range s.teams {
		out = append(out, teamSummary(name, t))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].AverageOverall != out[j].AverageOverall {
			return out[i].AverageOverall > out[j].AverageOverall
		}
		return out[i].Team < out[j].Team
	})
	return out
}

func teamSummary(name string, t *teamRecord) types.TeamSummary {
	played := len(t.matches)
	var winPct float64
	if played > 0 {
		winPct = round1(float64(t.wins) / float64(played) * 100)
	}
	return types.TeamSummary{
		Team:             name,
		Matches:          played,
		Wins:             t.wins,
		Losses:           t.losses,
		Ties:             t.ties,
		NoResults:        t.noResults,
		WinPercentage:    winPct,
		AverageOverall:   mean(t.overallSum, t.ratings),
		AverageBatting:   mean(t.batSum, t.ratings),
		AverageBowling:   mean(t.bowlSum, t.ratings),
		AverageFielding:  mean(t.fieldSum, t.ratings),
		BestPlayerRating: t.best,
	}
}

func sideAverage(players []model.PlayerRating) float64 {
	var sum float64
	for _, p := range players {
		sum += p.Overall
	}
	return mean(sum, len(players))
}

// Matches returns up to n rated matches, most recently recorded first.
func (s *TreapStore) Matches(_ context.Context, n int) ([]types.MatchSummary, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.MatchSummary, 0, min(n, len(s.order)))
	for i := len(s.order) - 1; i >= 0 && len(out) < n; i-- {
		r := s.matches[s.order[i]]
		row := types.MatchSummary{
			MatchID:    r.MatchID,
			Team1:      r.Team1.Name,
			Team2:      r.Team2.Name,
			Team1Score: r.Team1.Score,
			Team2Score: r.Team2.Score,
			Winner:     r.Context.Winner,
			Venue:      r.Venue,
		}
		if r.MVP != nil {
			row.MVP = r.MVP.Name
			row.MVPRating = r.MVP.Overall
		}
		out = append(out, row)
	}
	return out, nil
}

// Search returns up to n standings whose name contains query, ignoring case,
// in leaderboard order. Ranks are positions on the full leaderboard.
func (s *TreapStore) Search(_ context.Context, query string, n int) ([]types.Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*node, 0, len(s.players))
	collectTopN(s.root, len(s.players), &nodes)

	var out []types.Standing
	for _, nd := range nodes {
		if len(out) == n {
			break
		}
		if !strings.Contains(strings.ToLower(nd.name), query) {
			continue
		}
		out = append(out, s.row(nd.name, s.players[nd.name], countAbove(s.root, nd.avg)+1))
	}
	return out, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
