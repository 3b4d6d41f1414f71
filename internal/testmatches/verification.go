package testmatches

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/cricscore/pkg/logger"
)

// ErrVerification marks a leaderboard that disagrees with what was submitted.
var ErrVerification = errors.New("verification failed")

// profile mirrors GET /players/{name}.
type profile struct {
	Standing
	Form []struct {
		MatchID string  `json:"match_id"`
		Overall float64 `json:"overall_rating"`
	} `json:"form"`
}

// waitForRatings polls /stats until the service has stored want matches.
func waitForRatings(ctx context.Context, config *Config, client *HTTPClient, want int, stats *Stats) error {
	log := logger.Get().Named("verify")
	log.Info(ctx, "waiting for matches to be rated", logger.Int("expected", want))

	ctx, cancel := context.WithTimeout(ctx, config.Wait)
	defer cancel()

	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	for {
		var s map[string]any
		if _, err := client.getJSON(ctx, "/stats", &s); err == nil {
			if n, ok := s["totalMatches"].(float64); ok {
				stats.MatchesRated = int(n)
				if stats.MatchesRated >= want {
					log.Info(ctx, "all matches rated", logger.Int("rated", stats.MatchesRated))
					return nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%d of %d matches rated: %w", stats.MatchesRated, want, ctx.Err())
		case <-ticker.C:
		}
	}
}

// getLeaderboard fetches the top config.TopN standings.
func getLeaderboard(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) ([]Standing, error) {
	var rows []Standing
	status, err := client.getJSON(ctx, "/leaderboard?limit="+strconv.Itoa(config.TopN), &rows)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("leaderboard returned status %d", status)
	}
	stats.LeaderboardEntries = len(rows)
	return rows, nil
}

// verifyLeaderboard checks ordering, competition ranking and that every
// listed player was rated once per submitted match they played.
func verifyLeaderboard(rows []Standing, expected map[string]int) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: empty leaderboard", ErrVerification)
	}

	for i, row := range rows {
		if i == 0 {
			if row.Rank != 1 {
				return fmt.Errorf("%w: first row has rank %d", ErrVerification, row.Rank)
			}
		} else {
			prev := rows[i-1]
			switch {
			case row.Average > prev.Average:
				return fmt.Errorf("%w: row %d (%s %.2f) outranks row %d (%s %.2f)",
					ErrVerification, i, row.Player, row.Average, i-1, prev.Player, prev.Average)
			// Averages are rounded to two places, so equal values may still rank apart.
			case row.Average == prev.Average && row.Rank != prev.Rank && row.Rank != i+1:
				return fmt.Errorf("%w: %s and %s share %.2f but rank %d and %d",
					ErrVerification, prev.Player, row.Player, row.Average, prev.Rank, row.Rank)
			case row.Average < prev.Average && row.Rank != i+1:
				return fmt.Errorf("%w: %s at position %d has rank %d", ErrVerification, row.Player, i+1, row.Rank)
			}
		}

		if want := expected[row.Player]; row.Matches != want {
			return fmt.Errorf("%w: %s rated in %d matches, played %d", ErrVerification, row.Player, row.Matches, want)
		}
		if row.Average < 0 || row.Average > 10 || row.Best < row.Average-0.01 {
			return fmt.Errorf("%w: %s has average %.2f and best %.2f", ErrVerification, row.Player, row.Average, row.Best)
		}
	}
	return nil
}

// verifyProfiles cross-checks the first few leaderboard rows against
// GET /players/{name}.
func verifyProfiles(ctx context.Context, client *HTTPClient, rows []Standing, stats *Stats) error {
	for _, row := range rows[:min(profileSample, len(rows))] {
		var p profile
		status, err := client.getJSON(ctx, playerPath(row.Player), &p)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return fmt.Errorf("%w: profile of %s returned status %d", ErrVerification, row.Player, status)
		}
		if p.Rank != row.Rank || p.Matches != row.Matches || math.Abs(p.Average-row.Average) > 1e-9 {
			return fmt.Errorf("%w: profile of %s disagrees with the leaderboard", ErrVerification, row.Player)
		}
		if len(p.Form) == 0 || len(p.Form) > p.Matches {
			return fmt.Errorf("%w: %s has %d form entries for %d matches", ErrVerification, row.Player, len(p.Form), p.Matches)
		}
		stats.ProfilesVerified++
	}

	var missing profile
	status, err := client.getJSON(ctx, playerPath("no such player"), &missing)
	if err != nil {
		return err
	}
	if status != http.StatusNotFound {
		return fmt.Errorf("%w: unknown player returned status %d", ErrVerification, status)
	}
	return nil
}
