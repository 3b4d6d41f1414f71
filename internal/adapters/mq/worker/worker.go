package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2 // multiplier for runtime.NumCPU()
	poolShutdownTimeout     = 30 * time.Second
)

// Rater produces ratings for a match.
type Rater interface {
	Rate(ctx context.Context, m model.Match) (model.MatchRatings, error)
}

// Recorder stores a rated match. A repeated match id yields
// repository.ErrDuplicateMatch, which workers count and otherwise ignore.
type Recorder interface {
	Record(ctx context.Context, r model.MatchRatings) error
}

// Publisher announces a rated match. Failures never fail the submission.
type Publisher interface {
	Publish(ctx context.Context, r model.MatchRatings) error
}

// Queue is where workers take submissions from.
type Queue interface {
	Next(ctx context.Context) (model.Submission, bool)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, model.MatchRatings) error { return nil }

// InMemoryWorker takes submissions off the queue, rates them, records the
// result and publishes it.
type InMemoryWorker struct {
	queue     Queue
	rater     Rater
	recorder  Recorder
	publisher Publisher
	name      string
	active    *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, rater Rater, recorder Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		rater:     rater,
		recorder:  recorder,
		publisher: nopPublisher{},
		name:      "worker",
		active:    &atomic.Int64{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}

	return w
}

// Run processes submissions until the queue drains, ctx is cancelled or
// Shutdown is called.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		s, ok := w.queue.Next(ctx)
		if !ok {
			return
		}
		if err := w.process(ctx, s); err != nil {
			w.logger.Error(ctx, "error processing submission", logger.String("match_id", s.MatchID), logger.Error(err))
		}
	}
}

// Shutdown stops the worker after its current submission.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process rates, records and publishes one submission.
func (w *InMemoryWorker) process(ctx context.Context, s model.Submission) error { //nolint:gocritic // hugeParam: submissions travel by value
	metrics.UpdateWorkerActiveCount(int(w.active.Add(1)))
	start := time.Now()
	defer func() {
		metrics.UpdateWorkerActiveCount(int(w.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	rateStart := time.Now()
	r, err := w.rater.Rate(ctx, s.Match)
	metrics.RecordRatingLatency(float64(time.Since(rateStart).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordMatchFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "rating_error")
		return fmt.Errorf("rate match %s: %w", s.MatchID, err)
	}
	r.MatchID = s.MatchID

	if err := w.recorder.Record(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicateMatch) {
			metrics.RecordMatchDuplicate()
			w.logger.Debug(ctx, "match already recorded", logger.String("match_id", s.MatchID))
			return nil
		}
		metrics.RecordMatchFailed()
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "record_error")
		return fmt.Errorf("record match %s: %w", s.MatchID, err)
	}

	ObserveRatings(r)
	metrics.RecordMatchRated()

	if err := w.publisher.Publish(ctx, r); err != nil {
		w.logger.Warn(ctx, "publish failed", logger.String("match_id", s.MatchID), logger.Error(err))
	}

	w.logger.Debug(ctx, "match rated",
		logger.String("match_id", s.MatchID),
		logger.Int("players", len(r.Team1.Players)+len(r.Team2.Players)),
		logger.Duration("queued_for", start.Sub(s.ReceivedAt)),
	)
	return nil
}

// ObserveRatings feeds every player's ratings into the rating histograms.
func ObserveRatings(r model.MatchRatings) { //nolint:gocritic // hugeParam: read-only
	for _, p := range r.Players() {
		_ = metrics.RecordPlayerRating(metrics.DisciplineOverall, p.Overall)
		_ = metrics.RecordPlayerRating(metrics.DisciplineFielding, p.Fielding)
		if p.DidBat {
			_ = metrics.RecordPlayerRating(metrics.DisciplineBatting, p.Batting)
		}
		if p.DidBowl {
			_ = metrics.RecordPlayerRating(metrics.DisciplineBowling, p.Bowling)
		}
	}
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	logger  logger.Logger
}

// NewPool creates count workers. A count below one uses twice the CPU count.
func NewPool(count int, q Queue, rater Rater, recorder Recorder, opts ...Option) *Pool {
	if count < 1 {
		count = runtime.NumCPU() * defaultWorkerMultiplier
	}

	active := &atomic.Int64{}
	p := &Pool{
		workers: make([]*InMemoryWorker, count),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		w := NewInMemoryWorker(q, rater, recorder, append(opts, WithName("worker-"+strconv.Itoa(i)))...)
		w.active = active
		p.workers[i] = w
	}

	metrics.UpdateWorkerCount(count)
	metrics.UpdateWorkerActiveCount(0)

	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start runs every worker in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has returned, for example after the queue
// was closed and drained.
func (p *Pool) Wait(ctx context.Context) error {
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return fmt.Errorf("wait for workers: %w", ctx.Err())
		}
	}
	return nil
}

// Shutdown stops every worker, giving up after ctx or poolShutdownTimeout.
func (p *Pool) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var errs []error
	for i, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			errs = append(errs, err)
		}
	}
	metrics.UpdateWorkerCount(0)
	return errors.Join(errs...)
}
