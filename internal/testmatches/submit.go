package testmatches

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cricscore/pkg/logger"
)

type submitResult int

const (
	resultAccepted submitResult = iota
	resultDuplicate
	resultFailed
)

// submitMatches posts matches concurrently, followed by config.Duplicates
// resubmissions of already sent matches.
func submitMatches(ctx context.Context, config *Config, client *HTTPClient, matches []Scorecard, stats *Stats) {
	log := logger.Get().Named("submit")
	log.Info(ctx, "submitting matches", logger.Int("matches", len(matches)), logger.Int("workers", config.Workers))

	batch := make([]Scorecard, 0, len(matches)+config.Duplicates)
	batch = append(batch, matches...)
	for i := 0; i < config.Duplicates && len(matches) > 0; i++ {
		batch = append(batch, matches[i%len(matches)])
	}

	var (
		accepted  int64
		duplicate int64
		failed    int64
		submitted int64
	)

	// Originals first, so every resubmission sees its original already recorded.
	send := func(items []Scorecard) {
		matchChan := make(chan Scorecard, config.Workers*WorkerChannelMultiplier)
		var wg sync.WaitGroup
		for i := 0; i < config.Workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for m := range matchChan {
					switch submitSingleMatch(ctx, client, m) {
					case resultAccepted:
						atomic.AddInt64(&accepted, 1)
					case resultDuplicate:
						atomic.AddInt64(&duplicate, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}
					if n := atomic.AddInt64(&submitted, 1); config.Verbose && n%100 == 0 {
						log.Info(ctx, "progress", logger.Int("submitted", int(n)), logger.Int("total", len(batch)))
					}
				}
			}()
		}

	feed:
		for _, m := range items {
			select {
			case <-ctx.Done():
				break feed
			case matchChan <- m:
			}
		}
		close(matchChan)
		wg.Wait()
	}

	start := time.Now()
	send(batch[:len(matches)])
	send(batch[len(matches):])

	stats.MatchesSubmitted = int(atomic.LoadInt64(&submitted))
	stats.MatchesAccepted = int(atomic.LoadInt64(&accepted))
	stats.MatchesDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.MatchesFailed = int(atomic.LoadInt64(&failed))

	log.Info(ctx, "match submission completed",
		logger.Int("accepted", stats.MatchesAccepted),
		logger.Int("duplicate", stats.MatchesDuplicate),
		logger.Int("failed", stats.MatchesFailed),
		logger.Duration("took", time.Since(start)))
}

// submitSingleMatch posts one scorecard and classifies the response.
func submitSingleMatch(ctx context.Context, client *HTTPClient, m Scorecard) submitResult { //nolint:gocritic // hugeParam: encoded once
	var ack AckResponse
	status, err := client.postJSON(ctx, "/matches", m, &ack)
	if err != nil {
		return resultFailed
	}

	switch status {
	case http.StatusAccepted:
		return resultAccepted
	case http.StatusOK:
		if ack.Duplicate {
			return resultDuplicate
		}
		return resultFailed
	default:
		return resultFailed
	}
}
