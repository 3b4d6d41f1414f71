// Package config defines service configuration structures and loading hooks.
//
// Configuration is layered: defaults from New, then an optional YAML file,
// then CRICSCORE_ environment variables. See Load.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory submission queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of rating workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many match ids are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// FormLength is how many recent ratings the player form guide keeps.
	FormLength int `koanf:"form_length"`

	// RedisURL enables the rating stream publisher when set,
	// e.g. "redis://localhost:6379/0".
	RedisURL string `koanf:"redis_url"`

	// RedisStream names the stream rated matches are appended to.
	RedisStream string `koanf:"redis_stream"`

	// PublishTimeoutMS bounds a single publish call.
	PublishTimeoutMS int `koanf:"publish_timeout_ms"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          100_000,
		MaxLeaderboardLimit: 100,
		FormLength:          5,
		RedisStream:         "cricscore:ratings",
		PublishTimeoutMS:    500,
	}
}
