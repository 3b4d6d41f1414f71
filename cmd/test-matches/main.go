package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/cricscore/internal/testmatches"
)

// Default configuration constants.
const (
	defaultNumMatches  = 500
	defaultNumTeams    = 8
	defaultDuplicates  = 25
	defaultTopN        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultWait        = 2 * time.Minute
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numMatches = flag.Int("matches", defaultNumMatches, "Number of matches to generate and submit")
		numTeams   = flag.Int("teams", defaultNumTeams, "Size of the team pool")
		duplicates = flag.Int("duplicates", defaultDuplicates, "Matches to resubmit to exercise idempotency")
		topN       = flag.Int("top", defaultTopN, "Leaderboard rows to fetch and verify")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait       = flag.Duration("wait", defaultWait, "How long to wait for rating to finish")
		seed       = flag.Uint64("seed", 1, "Generator seed")
		outputFile = flag.String("output", "", "Write the generated scorecards to this file")
		logFile    = flag.String("log", "", "Also write the log to this file")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testmatches.ShowHelp()
		return
	}

	closer, err := testmatches.SetupLogging(*logFile, *verbose)
	if err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	config := &testmatches.Config{
		BaseURL:    *baseURL,
		NumMatches: *numMatches,
		NumTeams:   *numTeams,
		Duplicates: *duplicates,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		Wait:       *wait,
		Seed:       *seed,
		OutputFile: *outputFile,
		Verbose:    *verbose,
	}

	if _, err := testmatches.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: cancel and closer are best effort
	}
}
