package repository

import "time"

// Option applies a configuration option to the TreapStore.
type Option func(*TreapStore)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *TreapStore) {
		if interval > 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithFormLength sets how many recent matches are kept per player.
func WithFormLength(n int) Option {
	return func(s *TreapStore) {
		if n > 0 {
			s.formLength = n
		}
	}
}
