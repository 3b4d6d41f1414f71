package rating

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/cricscore/internal/domain/model"
)

// Rater rates a complete match.
type Rater interface {
	// Rate computes ratings for every participant, honoring ctx for cancellation.
	Rate(ctx context.Context, m model.Match) (model.MatchRatings, error)
}

// Engine is the stateless Rater used by the service.
type Engine struct{}

// NewEngine returns a ready Engine.
func NewEngine() *Engine { return &Engine{} }

// Rate implements Rater.
func (e *Engine) Rate(ctx context.Context, m model.Match) (model.MatchRatings, error) {
	if err := ctx.Err(); err != nil {
		return model.MatchRatings{}, fmt.Errorf("rate match %q: %w", m.ID, err)
	}
	return RateMatch(m), nil
}

type battingResult struct {
	entry  model.BattingEntry
	rating float64
	detail model.BattingBreakdown
}

type bowlingResult struct {
	entry  model.BowlingEntry
	rating float64
	detail model.BowlingBreakdown
}

type fieldingResult struct {
	rating float64
	detail model.FieldingBreakdown
}

// sideRatings holds one team's sub-ratings, collected across both innings.
type sideRatings struct {
	team     string
	batters  []battingResult
	bowlers  []bowlingResult
	fielders map[string]fieldingResult
}

// RateMatch runs the full pipeline over m. The context is analysed once and
// shared by every rater call.
func RateMatch(m model.Match) model.MatchRatings {
	mc := AnalyzeContext(m)

	team1Won := m.Winner == m.First.Team
	team2Won := m.Winner == m.Second.Team

	team1 := sideRatings{
		team:     m.First.Team,
		batters:  rateBatters(m.First.Batting, mc, team1Won, false),
		bowlers:  rateBowlers(m.Second.Bowling, mc, team1Won),
		fielders: rateFielders(m.Second, m.First.Batting),
	}
	team2 := sideRatings{
		team:     m.Second.Team,
		batters:  rateBatters(m.Second.Batting, mc, team2Won, true),
		bowlers:  rateBowlers(m.First.Bowling, mc, team2Won),
		fielders: rateFielders(m.First, m.Second.Batting),
	}

	out := model.MatchRatings{
		MatchID: m.ID,
		Venue:   m.Venue,
		Context: mc,
		Team1:   model.TeamRatings{Name: team1.team, Score: scoreOf(m.First), Players: team1.merge()},
		Team2:   model.TeamRatings{Name: team2.team, Score: scoreOf(m.Second), Players: team2.merge()},
	}
	out.MVP = mostValuable(out.Players())
	return out
}

func scoreOf(in model.Innings) model.Score {
	return model.Score{Runs: in.TotalRuns, Wickets: in.Wickets, Overs: in.TotalOvers}
}

func rateBatters(entries []model.BattingEntry, mc model.MatchContext, won, chasing bool) []battingResult {
	out := make([]battingResult, 0, len(entries))
	for _, e := range entries {
		r, d := RateBatting(e, mc, won, chasing)
		out = append(out, battingResult{entry: e, rating: r, detail: d})
	}
	return out
}

func rateBowlers(entries []model.BowlingEntry, mc model.MatchContext, won bool) []bowlingResult {
	out := make([]bowlingResult, 0, len(entries))
	for _, e := range entries {
		r, d := RateBowling(e, mc, won)
		out = append(out, bowlingResult{entry: e, rating: r, detail: d})
	}
	return out
}

// rateFielders rates everyone on the side that fielded during in: its bowlers,
// its batters from the other innings and any fielding-event subject.
func rateFielders(in model.Innings, ownBatting []model.BattingEntry) map[string]fieldingResult {
	names := make(map[string]struct{}, len(in.Bowling)+len(ownBatting)+len(in.Fielding))
	for _, e := range in.Bowling {
		names[e.Name] = struct{}{}
	}
	for _, e := range ownBatting {
		names[e.Name] = struct{}{}
	}
	for _, ev := range in.Fielding {
		names[ev.PlayerName] = struct{}{}
	}

	out := make(map[string]fieldingResult, len(names))
	for name := range names {
		r, d := RateFielding(name, in.Fielding)
		out[name] = fieldingResult{rating: r, detail: d}
	}
	return out
}

// merge combines the side's sub-ratings into one PlayerRating per player, in
// batting order, then bowling order, then fielding-only players by name.
func (s sideRatings) merge() []model.PlayerRating {
	batIdx := make(map[string]int, len(s.batters))
	bowlIdx := make(map[string]int, len(s.bowlers))
	var order []string

	for i, b := range s.batters {
		if _, seen := batIdx[b.entry.Name]; seen {
			continue
		}
		batIdx[b.entry.Name] = i
		order = append(order, b.entry.Name)
	}
	for i, b := range s.bowlers {
		if _, seen := bowlIdx[b.entry.Name]; seen {
			continue
		}
		bowlIdx[b.entry.Name] = i
		if _, batted := batIdx[b.entry.Name]; !batted {
			order = append(order, b.entry.Name)
		}
	}

	var fieldOnly []string
	for name := range s.fielders {
		_, batted := batIdx[name]
		_, bowled := bowlIdx[name]
		if !batted && !bowled {
			fieldOnly = append(fieldOnly, name)
		}
	}
	sort.Strings(fieldOnly)
	order = append(order, fieldOnly...)

	out := make([]model.PlayerRating, 0, len(order))
	for _, name := range order {
		var bat *battingResult
		if i, ok := batIdx[name]; ok {
			bat = &s.batters[i]
		}
		var bowl *bowlingResult
		if i, ok := bowlIdx[name]; ok {
			bowl = &s.bowlers[i]
		}
		field, ok := s.fielders[name]
		if !ok {
			field.rating, field.detail = RateFielding(name, nil)
		}
		out = append(out, s.player(name, bat, bowl, field))
	}
	return out
}

func (s sideRatings) player(name string, bat *battingResult, bowl *bowlingResult, field fieldingResult) model.PlayerRating {
	pr := model.PlayerRating{
		Name:           name,
		Team:           s.team,
		Role:           model.RoleBatter,
		Batting:        neutralRating,
		Bowling:        neutralRating,
		Fielding:       field.rating,
		FieldingDetail: field.detail,
	}
	p := participation{}

	if bowl != nil {
		pr.Role = bowl.entry.Role
		pr.Bowling = bowl.rating
		pr.BowlingDetail = bowl.detail
		pr.DidBowl = bowl.entry.DidBowl()
		p.ballsBowled = bowl.entry.TotalBalls()
		pr.Figures.Wickets = bowl.entry.Wickets
		pr.Figures.BallsBowled = p.ballsBowled
		pr.Figures.RunsConceded = bowl.entry.RunsConceded
		pr.Figures.Maidens = bowl.entry.Maidens
	}
	if bat != nil {
		pr.Role = bat.entry.Role
		pr.Batting = bat.rating
		pr.BattingDetail = bat.detail
		pr.DidBat = bat.entry.DidBat()
		p.ballsFaced = bat.entry.Balls
		pr.Figures.Runs = bat.entry.Runs
		pr.Figures.Balls = bat.entry.Balls
		pr.Figures.Fours = bat.entry.Fours
		pr.Figures.Sixes = bat.entry.Sixes
		pr.Figures.Dismissal = bat.entry.Dismissal
	}
	if !pr.Role.Valid() {
		pr.Role = model.RoleBatter
	}

	p.role = pr.Role
	p.didBat = pr.DidBat
	p.didBowl = pr.DidBowl
	pr.Overall = combine(p, weightsFor(p), pr.Batting, pr.Bowling, pr.Fielding)
	return pr
}

// mostValuable returns the highest overall rating, the earliest on ties.
func mostValuable(players []model.PlayerRating) *model.PlayerRating {
	if len(players) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(players); i++ {
		if players[i].Overall > players[best].Overall {
			best = i
		}
	}
	mvp := players[best]
	return &mvp
}
