package testmatches

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PollInterval         = 200 * time.Millisecond
	PercentageMultiplier = 100
	profileSample        = 10
)

// Squad layout: positions are 1-based batting order.
const (
	squadSize      = 11
	keeperPosition = 5
	ballsPerOver   = 6
	maxOversBalls  = 20 * ballsPerOver
	maxBowlerBalls = 4 * ballsPerOver
)
