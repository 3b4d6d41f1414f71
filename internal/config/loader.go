package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment names read by Load.
const (
	EnvPrefix     = "CRICSCORE_"
	EnvConfigPath = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if CRICSCORE_CONFIG is set
//  3. env (prefix CRICSCORE_)
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrLoadConfig, path, err)
		}
	}

	// CRICSCORE_QUEUE_SIZE -> queue_size; keys are flat so underscores stay.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first setting the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative, got %d", ErrInvalidConfig, c.DedupeSize)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive, got %d", ErrInvalidConfig, c.MaxLeaderboardLimit)
	case c.FormLength <= 0:
		return fmt.Errorf("%w: form_length must be positive, got %d", ErrInvalidConfig, c.FormLength)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.RedisURL != "" && c.RedisStream == "":
		return fmt.Errorf("%w: redis_stream is required with redis_url", ErrInvalidConfig)
	}
	return nil
}
