package testmatches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/cricscore/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// ErrInvalidConfig is returned for a run that cannot be carried out.
var ErrInvalidConfig = errors.New("invalid test config")

// Run executes the complete match test.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := validate(config); err != nil {
		return nil, err
	}

	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("testmatches")
	log.Info(ctx, "starting cricscore match test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.NumMatches),
		logger.Int("duplicates", config.Duplicates),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Int("topN", config.TopN))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate matches
	matches, err := generateMatches(ctx, config, stats)
	if err != nil {
		return stats, fmt.Errorf("match generation failed: %w", err)
	}

	// Step 3: Submit matches concurrently
	submitMatches(ctx, config, client, matches, stats)
	if stats.MatchesFailed > 0 {
		return stats, fmt.Errorf("%d submissions failed", stats.MatchesFailed)
	}

	// Step 4: Wait for processing
	if err := waitForRatings(ctx, config, client, stats.MatchesAccepted, stats); err != nil {
		return stats, fmt.Errorf("rating did not finish: %w", err)
	}

	// Step 5: Verify the leaderboard and player profiles
	rows, err := getLeaderboard(ctx, config, client, stats)
	if err != nil {
		return stats, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	if err := verifyLeaderboard(rows, appearances(matches)); err != nil {
		return stats, err
	}
	if err := verifyProfiles(ctx, client, rows, stats); err != nil {
		return stats, err
	}

	// Step 6: Save matches to file
	if config.OutputFile != "" {
		if err := saveMatchesToFile(ctx, config.OutputFile, matches); err != nil {
			log.Warn(ctx, "failed to save matches to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats, rows)

	log.Info(ctx, "test completed successfully")
	return stats, nil
}

func validate(config *Config) error {
	switch {
	case config.NumMatches < 1:
		return fmt.Errorf("%w: matches must be positive", ErrInvalidConfig)
	case config.NumTeams < 2:
		return fmt.Errorf("%w: at least two teams are needed", ErrInvalidConfig)
	case config.Workers < 1:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case config.TopN < 1:
		return fmt.Errorf("%w: top must be positive", ErrInvalidConfig)
	case config.Duplicates < 0:
		return fmt.Errorf("%w: duplicates must not be negative", ErrInvalidConfig)
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, err := client.getJSON(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	// Any 200 is healthy; the body is Prometheus text
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}
	return nil
}

// saveMatchesToFile writes the generated scorecards as a JSON array.
func saveMatchesToFile(ctx context.Context, filename string, matches []Scorecard) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal matches: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "matches saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final test statistics and the top of the table.
func displayFinalStats(ctx context.Context, stats *Stats, rows []Standing) {
	var acceptRate, matchesPerSecond float64
	if stats.MatchesSubmitted > 0 {
		acceptRate = float64(stats.MatchesAccepted) / float64(stats.MatchesSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		matchesPerSecond = float64(stats.MatchesSubmitted) / stats.Duration.Seconds()
	}

	log := logger.Get()
	log.Info(ctx, "final statistics",
		logger.Int("matchesGenerated", stats.MatchesGenerated),
		logger.Int("matchesSubmitted", stats.MatchesSubmitted),
		logger.Int("matchesAccepted", stats.MatchesAccepted),
		logger.Int("matchesDuplicate", stats.MatchesDuplicate),
		logger.Int("matchesRated", stats.MatchesRated),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.Int("profilesVerified", stats.ProfilesVerified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("matchesPerSecond", matchesPerSecond))

	for _, row := range rows[:min(profileSample, len(rows))] {
		log.Info(ctx, "leaderboard",
			logger.Int("rank", row.Rank),
			logger.String("player", row.Player),
			logger.Float64("average", row.Average),
			logger.Int("matches", row.Matches))
	}
}
