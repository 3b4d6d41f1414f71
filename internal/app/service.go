// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/cricscore/internal/adapters/mq/queue"
	"github.com/okian/cricscore/internal/adapters/mq/worker"
	"github.com/okian/cricscore/internal/adapters/publisher"
	"github.com/okian/cricscore/internal/adapters/repository"
	"github.com/okian/cricscore/internal/domain/dedupe"
	"github.com/okian/cricscore/internal/domain/model"
	"github.com/okian/cricscore/internal/domain/rating"
	"github.com/okian/cricscore/internal/domain/types"
	"github.com/okian/cricscore/pkg/logger"
	"github.com/okian/cricscore/pkg/metrics"
)

const (
	defaultQueueSize      = 10_000
	defaultDedupeSize     = 100_000
	defaultFormLength     = 5
	defaultPublishTimeout = 500 * time.Millisecond
)

// Service implements the API dependencies for the rating service.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *repository.TreapStore
	deduper   dedupe.Deduper
	queue     *queue.InMemoryQueue
	engine    *rating.Engine
	pool      *worker.Pool
	publisher publisher.Publisher

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	formLength     int
	redisURL       string
	redisStream    string
	publishTimeout time.Duration

	// State
	started   bool
	cancelRun context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of rating workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many match ids are remembered. Zero keeps every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithFormLength sets how many recent ratings a player profile keeps.
func WithFormLength(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.formLength = n
		}
	}
}

// WithRedisStream publishes rated matches to stream on the Redis server at url.
// An empty url leaves publishing disabled.
func WithRedisStream(url, stream string) Option {
	return func(s *Service) {
		s.redisURL = url
		s.redisStream = stream
	}
}

// WithPublishTimeout bounds a single publish call.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.publishTimeout = d
		}
	}
}

// WithPublisher overrides the publisher built from the Redis settings.
func WithPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:         rating.NewEngine(),
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		formLength:     defaultFormLength,
		publishTimeout: defaultPublishTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the components and starts the worker pool. Workers keep
// running until Stop, independent of ctx cancellation.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting rating service...")

	if s.publisher == nil {
		p, err := s.newPublisher()
		if err != nil {
			return err
		}
		s.publisher = p
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancelRun = cancel

	s.store = repository.NewTreapStore(runCtx, repository.WithFormLength(s.formLength))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.engine, s.store, worker.WithPublisher(s.publisher))
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "rating service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Bool("publishing", s.redisURL != ""),
	)

	return nil
}

func (s *Service) newPublisher() (publisher.Publisher, error) {
	if s.redisURL == "" {
		return publisher.Nop{}, nil
	}
	p, err := publisher.NewRedisStream(s.redisURL, s.redisStream,
		publisher.WithTimeout(s.publishTimeout),
		publisher.WithLogger(s.logger.Named("publisher")),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStartPublisher, err)
	}
	return p, nil
}

// Stop closes the queue, lets the workers drain what was already accepted,
// then releases the store and publisher. If ctx expires first the workers are
// stopped and the remaining submissions are dropped.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping rating service...", logger.Int("queued", s.queue.Len()))

	var errs []error
	_ = s.queue.Close()
	if err := s.pool.Wait(ctx); err != nil {
		s.logger.Warn(ctx, "queue not drained before deadline", logger.Int("dropped", s.queue.Len()))
		errs = append(errs, err)
		if err := s.pool.Shutdown(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	s.cancelRun()

	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.publisher.Close(); err != nil {
		errs = append(errs, err)
	}

	s.started = false
	s.logger.Info(ctx, "rating service stopped")
	return errors.Join(errs...)
}

// ready returns ErrNotStarted until Start has completed.
func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// SeenAndRecord atomically checks if a match id was seen and records it if not.
// Returns true if the match was already seen, false if it was newly recorded.
// Before Start nothing is recorded and every id reads as unseen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	d := s.currentDeduper()
	if d == nil {
		return false
	}
	seen := d.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordMatchDuplicate()
	}
	return seen
}

// Unrecord removes a match id from the seen list, allowing it to be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	if d := s.currentDeduper(); d != nil {
		d.Unrecord(ctx, id)
	}
}

// Size returns the current number of match ids in the deduper.
func (s *Service) Size() int64 {
	d := s.currentDeduper()
	if d == nil {
		return 0
	}
	return d.Size()
}

func (s *Service) currentDeduper() dedupe.Deduper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deduper
}

// Enqueue queues a validated match for the worker pool.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) error { //nolint:gocritic // hugeParam: submissions travel by value
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.queue.Enqueue(ctx, sub); err != nil {
		s.logger.Warn(ctx, "submission rejected", logger.String("match_id", sub.MatchID), logger.Error(err))
		return fmt.Errorf("enqueue %s: %w", sub.MatchID, err)
	}
	s.logger.Debug(ctx, "submission queued", logger.String("match_id", sub.MatchID), logger.Int("queued", s.queue.Len()))
	return nil
}

// Rate rates a match synchronously. The result is not recorded.
func (s *Service) Rate(ctx context.Context, m model.Match) (model.MatchRatings, error) { //nolint:gocritic // hugeParam: matches travel by value
	start := time.Now()
	r, err := s.engine.Rate(ctx, m)
	metrics.RecordRatingLatency(float64(time.Since(start).Microseconds()) / 1000)
	if err != nil {
		metrics.RecordErrorByComponent("service", "rating_error")
		return model.MatchRatings{}, err
	}
	worker.ObserveRatings(r)
	return r, nil
}

// Match returns the stored ratings of a rated match.
func (s *Service) Match(ctx context.Context, id string) (model.MatchRatings, error) {
	if err := s.ready(); err != nil {
		return model.MatchRatings{}, err
	}
	return s.store.Match(ctx, id)
}

// Player returns a player's standing and recent form.
func (s *Service) Player(ctx context.Context, name string) (types.PlayerProfile, error) {
	if err := s.ready(); err != nil {
		return types.PlayerProfile{}, err
	}
	return s.store.Player(ctx, name)
}

// TopN returns the top n leaderboard standings.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Standing, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.TopN(ctx, n)
}

// Leaders returns a batting, bowling or all-rounder leaderboard.
func (s *Service) Leaders(ctx context.Context, d types.Discipline, n int) ([]types.Leader, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Leaders(ctx, d, n)
}

// Search returns up to n standings whose name contains query.
func (s *Service) Search(ctx context.Context, query string, n int) ([]types.Standing, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Search(ctx, query, n)
}

// Team returns a team's summary and results.
func (s *Service) Team(ctx context.Context, name string) (types.TeamSummary, error) {
	if err := s.ready(); err != nil {
		return types.TeamSummary{}, err
	}
	return s.store.Team(ctx, name)
}

// Teams returns every team's summary.
func (s *Service) Teams(ctx context.Context) ([]types.TeamSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Teams(ctx), nil
}

// Matches returns up to n recently rated matches.
func (s *Service) Matches(ctx context.Context, n int) ([]types.MatchSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.store.Matches(ctx, n)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"formLength":  s.formLength,
		"publishing":  s.redisURL != "",
	}

	if s.started {
		queueLen := s.queue.Len()
		players := s.store.Count(ctx)
		matches := s.store.MatchCount(ctx)

		stats["queueLength"] = queueLen
		stats["totalPlayers"] = players
		stats["totalMatches"] = matches
		stats["seenMatches"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateTotalPlayers(players)
		metrics.UpdateTotalMatches(matches)
	}

	return stats
}
