// Package queue holds match submissions waiting to be rated.
package queue

import (
	"context"
	"sync"

	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/pkg/metrics"
)

const defaultCapacity = 10_000

// Queue is a bounded FIFO of submissions. Enqueue never blocks.
type Queue interface {
	// Enqueue adds s or returns ErrFull / ErrClosed.
	Enqueue(ctx context.Context, s model.Submission) error

	// Next blocks until a submission is available. It returns false once the
	// queue is closed and drained, or when ctx is done.
	Next(ctx context.Context) (model.Submission, bool)

	Len() int
	Close() error
	IsClosed() bool
}

// InMemoryQueue implements Queue on a buffered channel.
type InMemoryQueue struct {
	items    chan model.Submission
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with the given options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.items = make(chan model.Submission, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	q.observe()

	return q
}

// Enqueue adds a submission without blocking.
func (q *InMemoryQueue) Enqueue(ctx context.Context, s model.Submission) error { //nolint:gocritic // hugeParam: submissions travel by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "closed")
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return err
	}

	select {
	case q.items <- s:
		metrics.RecordQueueEnqueue()
		q.observe()
		return nil
	default:
		metrics.RecordQueueEnqueueError()
		metrics.RecordErrorByComponent("queue", "queue_full")
		return ErrFull
	}
}

// Next waits for the next submission.
func (q *InMemoryQueue) Next(ctx context.Context) (model.Submission, bool) {
	select {
	case s, ok := <-q.items:
		if !ok {
			return model.Submission{}, false
		}
		metrics.RecordQueueDequeue()
		q.observe()
		return s, true
	case <-ctx.Done():
		return model.Submission{}, false
	}
}

// Len returns the number of waiting submissions.
func (q *InMemoryQueue) Len() int {
	return len(q.items)
}

// Close stops accepting work. Queued submissions can still be drained with Next.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.items)
	q.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

func (q *InMemoryQueue) observe() {
	size := len(q.items)
	metrics.UpdateQueueSize(size)
	metrics.UpdateQueueUtilization(float64(size) / float64(q.capacity))
}
