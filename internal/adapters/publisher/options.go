package publisher

import (
	"time"

	"github.com/okian/cricscore/pkg/logger"
)

// Option configures a RedisStream.
type Option func(*RedisStream)

// WithTimeout bounds a single XADD.
func WithTimeout(d time.Duration) Option {
	return func(p *RedisStream) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithBreakerTimeout sets how long the breaker stays open before probing again.
func WithBreakerTimeout(d time.Duration) Option {
	return func(p *RedisStream) {
		if d > 0 {
			p.breakerTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(p *RedisStream) {
		if l != nil {
			p.logger = l
		}
	}
}
