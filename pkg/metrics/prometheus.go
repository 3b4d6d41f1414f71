package metrics

import (
	"fmt"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rating disciplines accepted by RecordPlayerRating.
const (
	DisciplineOverall  = "overall"
	DisciplineBatting  = "batting"
	DisciplineBowling  = "bowling"
	DisciplineFielding = "fielding"
)

// Publish outcomes accepted by RecordPublish.
const (
	PublishOK      = "ok"
	PublishError   = "error"
	PublishBlocked = "blocked"
)

// ratingBuckets cover the 0-10 rating scale in half-point steps.
var ratingBuckets = prometheus.LinearBuckets(0.5, 0.5, 20) //nolint:gochecknoglobals // constant bucket layout

// Manager manages all Prometheus metrics for the rating service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Rating pipeline
	matchesRated    prometheus.Counter
	matchesDup      prometheus.Counter
	matchesFailed   prometheus.Counter
	ratingLatency   prometheus.Histogram
	playerRatings   *prometheus.HistogramVec
	standingUpdates prometheus.Counter

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Standings store
	totalPlayers            prometheus.Gauge
	totalMatches            prometheus.Gauge
	repositoryUpdateLatency prometheus.Histogram
	repositoryQueryLatency  prometheus.Histogram

	// Rating stream publisher
	publishTotal   *prometheus.CounterVec
	publishLatency prometheus.Histogram
	breakerState   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	errorsByComponent *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cricscore",
		subsystem:        "ratings",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place to see every metric
	auto := promauto.With(m.registry)

	m.matchesRated = m.counter("matches_rated_total", "Total number of matches rated")
	m.matchesDup = m.counter("matches_duplicate_total", "Total number of duplicate match submissions")
	m.matchesFailed = m.counter("matches_failed_total", "Total number of matches that could not be rated")
	m.ratingLatency = m.histogram("rating_latency_milliseconds", "Time to rate one match in milliseconds")
	m.playerRatings = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "player_rating",
		Help:      "Distribution of player ratings by discipline",
		Buckets:   ratingBuckets,
	}, []string{"discipline"})
	m.standingUpdates = m.counter("standing_updates_total", "Total number of player standing updates")

	m.queueSize = m.gauge("queue_size", "Current number of queued submissions")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum queue capacity")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (size / capacity)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of submissions enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of submissions dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueues")

	m.workerCount = m.gauge("worker_count", "Number of running rating workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers currently rating a match")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "End-to-end submission processing latency in milliseconds")
	m.workerErrors = m.counter("worker_errors_total", "Total number of worker errors")

	m.totalPlayers = m.gauge("total_players", "Number of players with a standing")
	m.totalMatches = m.gauge("total_matches", "Number of rated matches held in memory")
	m.repositoryUpdateLatency = m.histogram("repository_update_latency_milliseconds", "Standings update latency in milliseconds")
	m.repositoryQueryLatency = m.histogram("repository_query_latency_milliseconds", "Standings query latency in milliseconds")

	m.publishTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "publish_total",
		Help:      "Rating stream publish attempts by outcome",
	}, []string{"outcome"})
	m.publishLatency = m.histogram("publish_latency_milliseconds", "Rating stream publish latency in milliseconds")
	m.breakerState = m.gauge("publish_breaker_state", "Publisher circuit breaker state (0 closed, 1 half-open, 2 open)")

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_component_total",
		Help:      "Total number of errors by component",
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap memory in use in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordMatchRated increments the rated matches counter.
func RecordMatchRated() {
	globalManager.matchesRated.Inc()
}

// RecordMatchDuplicate increments the duplicate submissions counter.
func RecordMatchDuplicate() {
	globalManager.matchesDup.Inc()
}

// RecordMatchFailed increments the failed matches counter.
func RecordMatchFailed() {
	globalManager.matchesFailed.Inc()
}

// RecordRatingLatency records the time to rate one match.
func RecordRatingLatency(latencyMs float64) {
	globalManager.ratingLatency.Observe(latencyMs)
}

// RecordPlayerRating observes one player's rating for a discipline.
func RecordPlayerRating(discipline string, rating float64) error {
	switch discipline {
	case DisciplineOverall, DisciplineBatting, DisciplineBowling, DisciplineFielding:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDiscipline, discipline)
	}
	globalManager.playerRatings.WithLabelValues(discipline).Observe(rating)
	return nil
}

// RecordStandingUpdate increments the standing updates counter.
func RecordStandingUpdate() {
	globalManager.standingUpdates.Inc()
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of running workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of busy workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// UpdateTotalPlayers sets the number of players with a standing.
func UpdateTotalPlayers(count int) {
	globalManager.totalPlayers.Set(float64(count))
}

// UpdateTotalMatches sets the number of stored match results.
func UpdateTotalMatches(count int) {
	globalManager.totalMatches.Set(float64(count))
}

// RecordRepositoryUpdateLatency records standings update latency.
func RecordRepositoryUpdateLatency(latencyMs float64) {
	globalManager.repositoryUpdateLatency.Observe(latencyMs)
}

// RecordRepositoryQueryLatency records standings query latency.
func RecordRepositoryQueryLatency(latencyMs float64) {
	globalManager.repositoryQueryLatency.Observe(latencyMs)
}

// RecordPublish counts one publish attempt by outcome and its latency.
func RecordPublish(outcome string, latencyMs float64) {
	globalManager.publishTotal.WithLabelValues(outcome).Inc()
	globalManager.publishLatency.Observe(latencyMs)
}

// UpdateBreakerState records the publisher circuit breaker state.
func UpdateBreakerState(state int) {
	globalManager.breakerState.Set(float64(state))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemStats samples heap usage and goroutine count.
func UpdateSystemStats() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	globalManager.systemMemoryUsage.Set(float64(ms.HeapAlloc))
	globalManager.systemGoroutineCount.Set(float64(runtime.NumGoroutine()))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
