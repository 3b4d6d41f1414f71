package testmatches

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/cricscore/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging initializes the logger to write to stdout and, when logFile
// is set, to that file as well.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	var out io.Writer = os.Stdout
	var closer io.Closer = io.NopCloser(nil)

	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return closer, nil
}

// ShowHelp prints usage information for the match test tool.
func ShowHelp() {
	os.Stdout.WriteString(`cricscore Match Test Tool
=========================

Generates T20 scorecards, submits them concurrently to POST /matches and
verifies the resulting leaderboard and player profiles.

Usage:
  go run ./cmd/test-matches [options]

Options:
  -url string         Base URL of the service (default "http://localhost:9080")
  -matches int        Number of matches to generate and submit (default 500)
  -teams int          Size of the team pool (default 8)
  -duplicates int     Matches to resubmit to exercise idempotency (default 25)
  -top int            Leaderboard rows to fetch and verify (default 50)
  -workers int        Number of concurrent submitters (default CPU cores * 2)
  -timeout duration   HTTP request timeout (default 30s)
  -wait duration      How long to wait for rating to finish (default 2m)
  -seed uint          Generator seed (default 1)
  -output string      Write the generated scorecards to this file
  -log string         Also write the log to this file
  -verbose            Enable verbose logging
  -help               Show this help message

Examples:
  go run ./cmd/test-matches -matches 5000 -workers 16 -url http://localhost:8080
  go run ./cmd/test-matches -seed 42 -output matches.json
`)
}
