package model

import "time"

// Submission is a match queued for asynchronous rating.
type Submission struct {
	MatchID    string    // idempotency key
	Match      Match     // fully validated scorecard
	ReceivedAt time.Time // time the API accepted the submission
}
