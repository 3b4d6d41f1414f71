package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
)

// floatEqual compares two float64 values with a small tolerance for floating-point precision
func floatEqual(a, b float64) bool {
	const tolerance = 1e-10
	return math.Abs(a-b) < tolerance
}

func player(name string, overall float64) model.PlayerRating {
	return model.PlayerRating{Name: name, Team: "Alpha", Role: model.RoleBatter, Overall: overall}
}

func ratedMatch(id string, players ...model.PlayerRating) model.MatchRatings {
	return model.MatchRatings{
		MatchID: id,
		Team1:   model.TeamRatings{Name: "Alpha", Players: players},
		Team2:   model.TeamRatings{Name: "Beta"},
	}
}

func newStore(t *testing.T, opts ...Option) *TreapStore {
	t.Helper()
	s := NewTreapStore(context.Background(), opts...)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTreapStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if count := store.Count(ctx); count != 0 {
		t.Errorf("expected count 0, got %d", count)
	}

	if err := store.Record(ctx, ratedMatch("m1", player("a", 7.0), player("b", 6.0))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if count := store.Count(ctx); count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	if count := store.MatchCount(ctx); count != 1 {
		t.Errorf("expected 1 match, got %d", count)
	}

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Player != "a" || entries[0].Rank != 1 || !floatEqual(entries[0].Average, 7.0) {
		t.Errorf("unexpected leader: %+v", entries[0])
	}
	if entries[1].Player != "b" || entries[1].Rank != 2 {
		t.Errorf("unexpected second: %+v", entries[1])
	}

	r, err := store.Match(ctx, "m1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Team1.Players) != 2 {
		t.Errorf("expected stored match with 2 players, got %d", len(r.Team1.Players))
	}
}

func TestTreapStore_Averages(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_ = store.Record(ctx, ratedMatch("m1", player("a", 7.0), player("b", 6.5)))
	_ = store.Record(ctx, ratedMatch("m2", player("a", 5.0)))

	p, err := store.Player(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Matches != 2 || !floatEqual(p.Average, 6.0) || !floatEqual(p.Best, 7.0) {
		t.Errorf("unexpected standing: %+v", p.Standing)
	}
	if p.Rank != 2 {
		t.Errorf("expected a to drop to rank 2, got %d", p.Rank)
	}
	if len(p.Form) != 2 || p.Form[0].MatchID != "m2" || p.Form[1].MatchID != "m1" {
		t.Errorf("expected form most recent first, got %+v", p.Form)
	}
	if p.Form[0].Band != "average" {
		t.Errorf("expected band average, got %s", p.Form[0].Band)
	}

	leader, _ := store.TopN(ctx, 1)
	if len(leader) != 1 || leader[0].Player != "b" {
		t.Errorf("expected b to lead, got %+v", leader)
	}
}

func TestTreapStore_TieBreaking(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	_ = store.Record(ctx, ratedMatch("m1", player("carol", 6.5), player("alice", 6.5), player("bob", 6.0), player("dave", 6.0)))

	entries, err := store.TopN(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct {
		name string
		rank int
	}{{"alice", 1}, {"carol", 1}, {"bob", 3}, {"dave", 3}}
	for i, w := range want {
		if entries[i].Player != w.name || entries[i].Rank != w.rank {
			t.Errorf("position %d: expected %s rank %d, got %s rank %d", i, w.name, w.rank, entries[i].Player, entries[i].Rank)
		}
	}

	for _, w := range want {
		p, err := store.Player(ctx, w.name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Rank != w.rank {
			t.Errorf("%s: expected rank %d, got %d", w.name, w.rank, p.Rank)
		}
	}

	// Averages that only differ in float noise still tie.
	_ = store.Record(ctx, ratedMatch("m2", player("erin", 0.1), player("frank", 0.3)))
	_ = store.Record(ctx, ratedMatch("m3", player("erin", 0.2)))
	_ = store.Record(ctx, ratedMatch("m4", player("frank", 0.0)))
	erin, _ := store.Player(ctx, "erin")
	frank, _ := store.Player(ctx, "frank")
	if erin.Rank != frank.Rank {
		t.Errorf("expected equal averages to share a rank, got %d and %d", erin.Rank, frank.Rank)
	}
}

func TestTreapStore_FormAndMVP(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, WithFormLength(2))

	for i := 1; i <= 3; i++ {
		r := ratedMatch(fmt.Sprintf("m%d", i), player("a", float64(i)+5))
		if i != 2 {
			mvp := r.Team1.Players[0]
			r.MVP = &mvp
		}
		if err := store.Record(ctx, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	p, err := store.Player(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Form) != 2 || p.Form[0].MatchID != "m3" || p.Form[1].MatchID != "m2" {
		t.Errorf("expected the last two matches, got %+v", p.Form)
	}
	if p.MVPs != 2 {
		t.Errorf("expected 2 MVP awards, got %d", p.MVPs)
	}
	if !floatEqual(p.Best, 8.0) {
		t.Errorf("expected best 8.0, got %f", p.Best)
	}
}

func TestTreapStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	if err := store.Record(ctx, ratedMatch("m1", player("a", 6.0))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Record(ctx, ratedMatch("m1", player("a", 9.0))); !errors.Is(err, ErrDuplicateMatch) {
		t.Errorf("expected ErrDuplicateMatch, got %v", err)
	}
	if err := store.Record(ctx, ratedMatch("", player("a", 9.0))); !errors.Is(err, ErrMissingMatchID) {
		t.Errorf("expected ErrMissingMatchID, got %v", err)
	}
	if p, _ := store.Player(ctx, "a"); p.Matches != 1 {
		t.Errorf("rejected records must not change standings, got %d matches", p.Matches)
	}

	if _, err := store.Match(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.Player(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	for _, n := range []int{0, -1} {
		if _, err := store.TopN(ctx, n); !errors.Is(err, ErrInvalidLimit) {
			t.Errorf("limit %d: expected ErrInvalidLimit, got %v", n, err)
		}
	}
}

func TestTreapStore_EmptyAndSingleElement(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	entries, err := store.TopN(ctx, 5)
	if err != nil || len(entries) != 0 {
		t.Errorf("expected empty leaderboard, got %v (%v)", entries, err)
	}

	_ = store.Record(ctx, ratedMatch("m1", player("solo", 4.2)))
	entries, _ = store.TopN(ctx, 5)
	if len(entries) != 1 || entries[0].Rank != 1 || entries[0].Player != "solo" {
		t.Errorf("unexpected single entry: %+v", entries)
	}
}

func TestTreapStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	const writers = 8
	const perWriter = 50
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				id := fmt.Sprintf("m-%d-%d", w, i)
				r := ratedMatch(id, player(fmt.Sprintf("p%d", i%20), float64(i%10)), player("shared", 5.0))
				if err := store.Record(ctx, r); err != nil {
					t.Errorf("record %s: %v", id, err)
				}
				_, _ = store.TopN(ctx, 10)
				_, _ = store.Player(ctx, "shared")
			}
		}(w)
	}
	wg.Wait()

	if got := store.MatchCount(ctx); got != writers*perWriter {
		t.Errorf("expected %d matches, got %d", writers*perWriter, got)
	}
	if got := store.Count(ctx); got != 21 {
		t.Errorf("expected 21 players, got %d", got)
	}
	shared, _ := store.Player(ctx, "shared")
	if shared.Matches != writers*perWriter || !floatEqual(shared.Average, 5.0) {
		t.Errorf("unexpected shared standing: %+v", shared.Standing)
	}

	// The leaderboard must agree with per-player ranks.
	entries, _ := store.TopN(ctx, store.Count(ctx))
	for i := 1; i < len(entries); i++ {
		if entries[i].Average > entries[i-1].Average {
			t.Errorf("leaderboard out of order at %d: %+v", i, entries[i])
		}
	}
	for _, e := range entries {
		p, _ := store.Player(ctx, e.Player)
		if p.Rank != e.Rank {
			t.Errorf("%s: TopN rank %d, Player rank %d", e.Player, e.Rank, p.Rank)
		}
	}
}

func TestTreapStore_CloseBehavior(t *testing.T) {
	store := NewTreapStore(context.Background(), WithMetricsUpdateInterval(time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		_ = store.Close()
		_ = store.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("close did not return")
	}
}

func BenchmarkTreapStore_Record(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	players := make([]model.PlayerRating, 22)
	for i := range players {
		players[i] = player(fmt.Sprintf("p%d", i), float64(i%11))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Record(ctx, ratedMatch(fmt.Sprintf("m%d", i), players...))
	}
}

func BenchmarkTreapStore_TopN(b *testing.B) {
	ctx := context.Background()
	store := NewTreapStore(ctx)
	defer func() { _ = store.Close() }()

	for i := 0; i < 10_000; i++ {
		_ = store.Record(ctx, ratedMatch(fmt.Sprintf("m%d", i), player(fmt.Sprintf("p%d", i), float64(i%100)/10)))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = store.TopN(ctx, 100)
	}
}
