// Package metrics provides Prometheus metrics for the CricScore rating service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const defaultRefreshInterval = 10 * time.Second

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Rating
	matchesRated   *prometheus.CounterVec
	ratingLatency  prometheus.Histogram
	playersRated   prometheus.Counter
	overallRating  prometheus.Histogram
	softAnomalies  *prometheus.CounterVec
	mvpRating      prometheus.Histogram
	validationFail prometheus.Counter

	// Jobs
	jobsEnqueued  prometheus.Counter
	jobsRejected  prometheus.Counter
	queueSize     prometheus.Gauge
	queueCapacity prometheus.Gauge

	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Result store
	storedResults prometheus.Gauge
	storeOps      *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "cricscore",
		subsystem:        "rating",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often runtime gauges should be sampled.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat list of collectors
	auto := promauto.With(m.registry)
	ratingBuckets := []float64{1, 2, 3, 4, 4.5, 5, 5.5, 6, 6.5, 7, 7.5, 8, 9, 10}

	m.matchesRated = auto.NewCounterVec(
		m.counterOpts("matches_rated_total", "Total number of scorecards processed, by outcome"),
		[]string{"outcome"},
	)
	m.ratingLatency = auto.NewHistogram(
		m.histogramOpts("rating_latency_milliseconds", "Time spent rating a single match", m.histogramBuckets),
	)
	m.playersRated = auto.NewCounter(
		m.counterOpts("players_rated_total", "Total number of player ratings produced"),
	)
	m.overallRating = auto.NewHistogram(
		m.histogramOpts("player_overall_rating", "Distribution of overall player ratings", ratingBuckets),
	)
	m.mvpRating = auto.NewHistogram(
		m.histogramOpts("mvp_overall_rating", "Distribution of the MVP's overall rating", ratingBuckets),
	)
	m.softAnomalies = auto.NewCounterVec(
		m.counterOpts("scorecard_anomalies_total", "Recovered scorecard anomalies, by kind"),
		[]string{"kind"},
	)
	m.validationFail = auto.NewCounter(
		m.counterOpts("scorecard_validation_failures_total", "Scorecards rejected by structural validation"),
	)

	m.jobsEnqueued = auto.NewCounter(
		m.counterOpts("jobs_enqueued_total", "Asynchronous rating jobs accepted"),
	)
	m.jobsRejected = auto.NewCounter(
		m.counterOpts("jobs_rejected_total", "Asynchronous rating jobs rejected because the queue was full"),
	)
	m.queueSize = auto.NewGauge(
		m.gaugeOpts("queue_size", "Current number of queued rating jobs"),
	)
	m.queueCapacity = auto.NewGauge(
		m.gaugeOpts("queue_capacity", "Maximum number of queued rating jobs"),
	)
	m.workerCount = auto.NewGauge(
		m.gaugeOpts("worker_count", "Number of rating workers"),
	)
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Time from dequeue to stored result", m.histogramBuckets),
	)
	m.workerErrors = auto.NewCounter(
		m.counterOpts("worker_errors_total", "Rating jobs that failed inside a worker"),
	)

	m.storedResults = auto.NewGauge(
		m.gaugeOpts("stored_results", "Rating results currently held by the in-memory store"),
	)
	m.storeOps = auto.NewCounterVec(
		m.counterOpts("store_operations_total", "Result store operations by backend, operation and status"),
		[]string{"backend", "op", "status"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Heap memory in use, in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }

func on() bool { return globalManager != nil && globalManager.enabled }

// RecordMatchRated counts a processed scorecard; outcome is "ok" or "invalid".
func RecordMatchRated(outcome string) {
	if on() {
		globalManager.matchesRated.WithLabelValues(outcome).Inc()
	}
}

// RecordRatingLatency records the engine latency in milliseconds.
func RecordRatingLatency(latencyMs float64) {
	if on() {
		globalManager.ratingLatency.Observe(latencyMs)
	}
}

// RecordPlayerRating counts a player rating and observes its overall value.
func RecordPlayerRating(overall float64) {
	if on() {
		globalManager.playersRated.Inc()
		globalManager.overallRating.Observe(overall)
	}
}

// RecordMVPRating observes the MVP's overall rating.
func RecordMVPRating(overall float64) {
	if on() {
		globalManager.mvpRating.Observe(overall)
	}
}

// RecordAnomaly counts a recovered scorecard anomaly.
func RecordAnomaly(kind string) {
	if on() {
		globalManager.softAnomalies.WithLabelValues(kind).Inc()
	}
}

// RecordValidationFailure counts a structurally invalid scorecard.
func RecordValidationFailure() {
	if on() {
		globalManager.validationFail.Inc()
	}
}

// RecordJobEnqueued counts an accepted asynchronous job.
func RecordJobEnqueued() {
	if on() {
		globalManager.jobsEnqueued.Inc()
	}
}

// RecordJobRejected counts a job refused for backpressure.
func RecordJobRejected() {
	if on() {
		globalManager.jobsRejected.Inc()
	}
}

// UpdateQueueSize sets the current queue depth.
func UpdateQueueSize(size int) {
	if on() {
		globalManager.queueSize.Set(float64(size))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	if on() {
		globalManager.queueCapacity.Set(float64(capacity))
	}
}

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	if on() {
		globalManager.workerCount.Set(float64(count))
	}
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	if on() {
		globalManager.workerProcessingLatency.Observe(latencyMs)
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if on() {
		globalManager.workerErrors.Inc()
	}
}

// UpdateStoredResults sets the number of results held in memory.
func UpdateStoredResults(count int) {
	if on() {
		globalManager.storedResults.Set(float64(count))
	}
}

// RecordStoreOperation counts a result store call.
func RecordStoreOperation(backend, op, status string) {
	if on() {
		globalManager.storeOps.WithLabelValues(backend, op, status).Inc()
	}
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if on() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if on() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if on() {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// UpdateSystemMemoryUsage sets the heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if on() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if on() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if on() {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
