// Package publisher pushes rated matches onto a Redis stream for downstream consumers.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

const (
	defaultTimeout        = 500 * time.Millisecond
	defaultBreakerTimeout = 30 * time.Second

	minBreakerRequests  = 3
	breakerFailureRatio = 0.6
)

// Publisher announces rated matches.
type Publisher interface {
	Publish(ctx context.Context, r model.MatchRatings) error
	Close() error
}

// Nop discards every rating. It is used when no stream is configured.
type Nop struct{}

// Publish drops r.
func (Nop) Publish(context.Context, model.MatchRatings) error { return nil }

// Close is a no-op.
func (Nop) Close() error { return nil }

// streamClient is the part of *redis.Client the publisher needs.
type streamClient interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisStream publishes each rated match as one stream entry with fields
// match_id, data (JSON) and timestamp (unix seconds).
type RedisStream struct {
	client         streamClient
	stream         string
	timeout        time.Duration
	breakerTimeout time.Duration
	breaker        *gobreaker.CircuitBreaker
	logger         logger.Logger
}

// NewRedisStream connects lazily to the Redis server at url.
func NewRedisStream(url, stream string, opts ...Option) (*RedisStream, error) {
	o, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	return newRedisStream(redis.NewClient(o), stream, opts...)
}

func newRedisStream(client streamClient, stream string, opts ...Option) (*RedisStream, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}

	p := &RedisStream{
		client:         client,
		stream:         stream,
		timeout:        defaultTimeout,
		breakerTimeout: defaultBreakerTimeout,
		logger:         logger.Get().Named("publisher"),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "rating-stream",
		Timeout: p.breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= minBreakerRequests && failureRatio >= breakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(int(to))
			p.logger.Warn(context.Background(), "circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	metrics.UpdateBreakerState(int(gobreaker.StateClosed))

	return p, nil
}

// Publish appends r to the stream. While the breaker is open the call fails
// fast without touching Redis.
func (p *RedisStream) Publish(ctx context.Context, r model.MatchRatings) error { //nolint:gocritic // hugeParam: encoded once
	start := time.Now()

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMarshalMatch, err)
	}

	_, err = p.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.client.XAdd(ctx, &redis.XAddArgs{
			Stream: p.stream,
			Values: map[string]interface{}{
				"match_id":  r.MatchID,
				"data":      string(data),
				"timestamp": time.Now().Unix(),
			},
		}).Result()
	})

	latency := float64(time.Since(start).Microseconds()) / 1000
	switch {
	case err == nil:
		metrics.RecordPublish(metrics.PublishOK, latency)
		return nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordPublish(metrics.PublishBlocked, latency)
	default:
		metrics.RecordPublish(metrics.PublishError, latency)
	}
	metrics.RecordErrorByComponent("publisher", "publish")
	return fmt.Errorf("%w %s: %w", ErrPublish, r.MatchID, err)
}

// State returns the breaker state.
func (p *RedisStream) State() gobreaker.State {
	return p.breaker.State()
}

// Close releases the Redis connection pool.
func (p *RedisStream) Close() error {
	return p.client.Close()
}
