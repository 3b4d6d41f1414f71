// Package worker rates queued match submissions in the background.
package worker

import (
	"github.com/okian/cricscore/pkg/logger"
)

// Option applies a configuration option to the InMemoryWorker.
type Option func(*InMemoryWorker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithPublisher sets where rated matches are announced.
func WithPublisher(p Publisher) Option {
	return func(w *InMemoryWorker) {
		if p != nil {
			w.publisher = p
		}
	}
}
