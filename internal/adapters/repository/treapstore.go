package repository

import (
	"context"
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/types"
	"github.com/okian/cricscore/pkg/metrics"
)

// Treap-based, in-memory Store implementation.
//
// Ordering: average rating DESC, then player name ASC. In-order traversal
// yields the leaderboard from best to worst.

// ratingScale fixes averages to nine decimals so equal averages compare equal.
const ratingScale = 1_000_000_000

const (
	defaultFormLength            = 5
	defaultMetricsUpdateInterval = 5 * time.Second
)

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	if math.IsNaN(x) {
		return 0
	}
	return ratingFP(math.Round(x * ratingScale))
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

// standing accumulates a player's ratings across matches.
type standing struct {
	team     string
	teams    []string
	role     model.Role
	matches  int
	sum      float64
	best     float64
	mvps     int
	avg      ratingFP
	form     []types.FormPoint // most recent first
	batSum   float64
	bowlSum  float64
	fieldSum float64
	career   types.Career

	batting  split // matches the player batted in
	bowling  split // matches the player bowled in
	allRound split // matches the player both batted and bowled in
}

// split accumulates the matches that count towards one discipline leaderboard.
type split struct {
	matches int
	batSum  float64
	bowlSum float64
	best    float64
	career  types.Career
}

func (sp *split) add(p model.PlayerRating) { //nolint:gocritic // hugeParam: read-only
	sp.matches++
	sp.batSum += p.Batting
	sp.bowlSum += p.Bowling
	if sp.matches == 1 || p.Overall > sp.best {
		sp.best = p.Overall
	}
	sp.career.Add(p)
}

func (s *standing) average() float64 {
	if s.matches == 0 {
		return 0
	}
	return s.sum / float64(s.matches)
}

// mean returns sum/n rounded to two decimals for display, 0 when n is 0.
func mean(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*100) / 100
}

// treap node
type node struct {
	name  string
	avg   ratingFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aAvg, aName) should appear before (bAvg, bName).
func less(aAvg ratingFP, aName string, bAvg ratingFP, bName string) bool {
	if aAvg != bAvg {
		return aAvg > bAvg
	}
	return aName < bName
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, name string, avg ratingFP) *node {
	if n == nil {
		return &node{name: name, avg: avg, prio: rand.Uint64(), size: 1} //nolint:gosec // treap priorities need no crypto
	}
	if less(avg, name, n.avg, n.name) {
		n.left = insert(n.left, name, avg)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, name, avg)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, name string, avg ratingFP) *node {
	if n == nil {
		return nil
	}
	if avg == n.avg && name == n.name {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, name, avg)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, name, avg)
		}
	} else if less(avg, name, n.avg, n.name) {
		n.left = deleteNode(n.left, name, avg)
	} else {
		n.right = deleteNode(n.right, name, avg)
	}
	fix(n)
	return n
}

// countAbove returns how many players have a strictly higher average.
func countAbove(n *node, avg ratingFP) int {
	count := 0
	for n != nil {
		if n.avg > avg {
			count += nsize(n.left) + 1
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit names in leaderboard order.
func collectTopN(n *node, limit int, out *[]*node) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n)
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, out)
	}
}

// TreapStore implements Store with an order-statistics treap over averages.
type TreapStore struct {
	mu      sync.RWMutex
	root    *node
	players map[string]*standing
	matches map[string]model.MatchRatings
	order   []string // match ids, oldest first
	teams   map[string]*teamRecord

	formLength            int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewTreapStore constructs a treap store and starts its metrics updater.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		players:               make(map[string]*standing),
		matches:               make(map[string]model.MatchRatings),
		teams:                 make(map[string]*teamRecord),
		formLength:            defaultFormLength,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stopChan:              make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Record implements Store.Record in O(p log n) for p players in the match.
func (s *TreapStore) Record(_ context.Context, r model.MatchRatings) error { //nolint:gocritic // hugeParam: stored by value
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryUpdateLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if r.MatchID == "" {
		metrics.RecordErrorByComponent("repository", "missing_match_id")
		return ErrMissingMatchID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[r.MatchID]; ok {
		metrics.RecordErrorByComponent("repository", "duplicate_match")
		return ErrDuplicateMatch
	}
	s.matches[r.MatchID] = r
	s.order = append(s.order, r.MatchID)

	for _, p := range r.Players() {
		s.fold(r, p)
		metrics.RecordStandingUpdate()
	}
	s.foldTeam(r, r.Team1, r.Team2)
	s.foldTeam(r, r.Team2, r.Team1)
	return nil
}

// fold adds one player's match rating to their standing. Must be called with
// the write lock held.
func (s *TreapStore) fold(r model.MatchRatings, p model.PlayerRating) { //nolint:gocritic // hugeParam: read-only
	st, ok := s.players[p.Name]
	if ok {
		s.root = deleteNode(s.root, p.Name, st.avg)
	} else {
		st = &standing{}
		s.players[p.Name] = st
	}

	st.team = p.Team
	if !slices.Contains(st.teams, p.Team) {
		st.teams = append(st.teams, p.Team)
	}
	st.role = p.Role
	st.matches++
	st.sum += p.Overall
	st.batSum += p.Batting
	st.bowlSum += p.Bowling
	st.fieldSum += p.Fielding
	if st.matches == 1 || p.Overall > st.best {
		st.best = p.Overall
	}
	if r.IsMVP(p) {
		st.mvps++
	}
	st.career.Add(p)
	if p.DidBat {
		st.batting.add(p)
	}
	if p.DidBowl {
		st.bowling.add(p)
	}
	if p.DidBat && p.DidBowl {
		st.allRound.add(p)
	}

	point := types.FormPoint{MatchID: r.MatchID, Team: p.Team, Overall: p.Overall, Band: p.Band()}
	st.form = append([]types.FormPoint{point}, st.form...)
	if len(st.form) > s.formLength {
		st.form = st.form[:s.formLength]
	}

	st.avg = toFixedPoint(st.average())
	s.root = insert(s.root, p.Name, st.avg)
}

// Match returns a stored rated match.
func (s *TreapStore) Match(_ context.Context, id string) (model.MatchRatings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.matches[id]
	if !ok {
		return model.MatchRatings{}, ErrNotFound
	}
	return r, nil
}

// Player returns a player's standing and form in O(log n).
func (s *TreapStore) Player(_ context.Context, name string) (types.PlayerProfile, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.players[name]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.PlayerProfile{}, ErrNotFound
	}

	return types.PlayerProfile{
		Standing:        s.row(name, st, countAbove(s.root, st.avg)+1),
		AverageBatting:  mean(st.batSum, st.matches),
		AverageBowling:  mean(st.bowlSum, st.matches),
		AverageFielding: mean(st.fieldSum, st.matches),
		Teams:           slices.Clone(st.teams),
		Career:          st.career,
		Awards:          types.Awards(st.career, st.matches, st.mvps),
		Form:            slices.Clone(st.form),
	}, nil
}

// TopN returns the top n standings. Equal averages share a rank and the next
// distinct average takes its position in the list (1, 1, 3).
func (s *TreapStore) TopN(_ context.Context, n int) ([]types.Standing, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*node, 0, min(n, len(s.players)))
	collectTopN(s.root, n, &nodes)

	out := make([]types.Standing, len(nodes))
	for i, nd := range nodes {
		rank := i + 1
		if i > 0 && nd.avg == nodes[i-1].avg {
			rank = out[i-1].Rank
		}
		out[i] = s.row(nd.name, s.players[nd.name], rank)
	}
	return out, nil
}

func (s *TreapStore) row(name string, st *standing, rank int) types.Standing {
	return types.Standing{
		Rank:    rank,
		Player:  name,
		Team:    st.team,
		Role:    st.role,
		Matches: st.matches,
		Average: mean(st.sum, st.matches),
		Best:    st.best,
		MVPs:    st.mvps,
	}
}

// Count returns the number of players with a standing.
func (s *TreapStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// MatchCount returns the number of stored matches.
func (s *TreapStore) MatchCount(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.matches)
}

// startMetricsUpdater periodically publishes store sizes.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	players, matches := len(s.players), len(s.matches)
	s.mu.RUnlock()

	metrics.UpdateTotalPlayers(players)
	metrics.UpdateTotalMatches(matches)
}
