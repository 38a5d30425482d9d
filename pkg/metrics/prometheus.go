// Package metrics provides Prometheus metrics for the possession service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the possession service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Analysis metrics
	framesScanned     prometheus.Counter
	detectionsIgnored *prometheus.CounterVec
	analyses          *prometheus.CounterVec
	analysisLatency   prometheus.Histogram
	secondsAnalysed   prometheus.Counter
	possessionSeconds *prometheus.CounterVec
	intervalsEmitted  *prometheus.CounterVec
	containmentEvents *prometheus.CounterVec
	reportsStored     prometheus.Gauge
	reportsEvicted    prometheus.Counter

	// Job queue and worker metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec
	workerActive       prometheus.Gauge
	workerLatency      prometheus.Histogram
	workerErrors       prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemResidentMemory prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "possession",
		subsystem:        "analysis",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
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
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: m.histogramBuckets,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.framesScanned = m.counter("frames_scanned_total", "Total number of frame records scanned for possession")
	m.detectionsIgnored = m.counterVec("detections_ignored_total", "Detections dropped while loading, by reason", "reason")
	m.analyses = m.counterVec("analyses_total", "Completed analyses by status", "status")
	m.analysisLatency = m.histogram("analysis_latency_milliseconds", "Histogram of end-to-end analysis latency in milliseconds")
	m.secondsAnalysed = m.counter("seconds_analysed_total", "Total number of seconds covered by verdict timelines")
	m.possessionSeconds = m.counterVec("possession_seconds_total", "Seconds of possession attributed to each party", "party")
	m.intervalsEmitted = m.counterVec("intervals_emitted_total", "Possession intervals emitted per party", "party")
	m.containmentEvents = m.counterVec("containment_events_total", "Per-frame containment events per party", "party")
	m.reportsStored = m.gauge("reports_stored", "Number of reports currently held in the store")
	m.reportsEvicted = m.counter("reports_evicted_total", "Reports evicted from the bounded store")

	m.queueSize = m.gauge("queue_size", "Current number of queued analysis jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued analysis jobs")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Analysis jobs accepted by the queue")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Analysis jobs rejected by the queue, by reason", "reason")
	m.workerActive = m.gauge("worker_active_count", "Number of running analysis workers")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Histogram of job processing latency in milliseconds")
	m.workerErrors = m.counter("worker_errors_total", "Jobs that failed in a worker")

	auto := promauto.With(m.registry)
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = m.counterVec("http_errors_total", "HTTP error responses by endpoint and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "Heap bytes allocated by the process")
	m.systemResidentMemory = m.gauge("system_resident_memory_bytes", "Resident set size of the process")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// Analysis metrics.

func (m *Manager) RecordFramesScanned(n int) {
	if m.enabled {
		m.framesScanned.Add(float64(n))
	}
}

func (m *Manager) RecordDetectionIgnored(reason string) {
	if m.enabled {
		m.detectionsIgnored.WithLabelValues(reason).Inc()
	}
}

func (m *Manager) RecordAnalysis(status string, latencyMs float64) {
	if m.enabled {
		m.analyses.WithLabelValues(status).Inc()
		m.analysisLatency.Observe(latencyMs)
	}
}

func (m *Manager) RecordSecondsAnalysed(n int) {
	if m.enabled {
		m.secondsAnalysed.Add(float64(n))
	}
}

func (m *Manager) RecordPossession(party string, seconds, intervals, events int) {
	if m.enabled {
		m.possessionSeconds.WithLabelValues(party).Add(float64(seconds))
		m.intervalsEmitted.WithLabelValues(party).Add(float64(intervals))
		m.containmentEvents.WithLabelValues(party).Add(float64(events))
	}
}

func (m *Manager) UpdateReportsStored(n int) {
	if m.enabled {
		m.reportsStored.Set(float64(n))
	}
}

func (m *Manager) RecordReportEvicted() {
	if m.enabled {
		m.reportsEvicted.Inc()
	}
}

// Queue and worker metrics.

func (m *Manager) UpdateQueueSize(n int) {
	if m.enabled {
		m.queueSize.Set(float64(n))
	}
}

func (m *Manager) UpdateQueueCapacity(n int) {
	if m.enabled {
		m.queueCapacity.Set(float64(n))
	}
}

func (m *Manager) RecordQueueEnqueue() {
	if m.enabled {
		m.queueEnqueued.Inc()
	}
}

func (m *Manager) RecordQueueEnqueueError(reason string) {
	if m.enabled {
		m.queueEnqueueErrors.WithLabelValues(reason).Inc()
	}
}

func (m *Manager) UpdateWorkerActiveCount(n int) {
	if m.enabled {
		m.workerActive.Set(float64(n))
	}
}

func (m *Manager) RecordWorkerProcessingLatency(latencyMs float64) {
	if m.enabled {
		m.workerLatency.Observe(latencyMs)
	}
}

func (m *Manager) RecordWorkerError() {
	if m.enabled {
		m.workerErrors.Inc()
	}
}

// HTTP metrics.

func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

func (m *Manager) RecordHTTPError(endpoint, method, errorType string) {
	if m.enabled {
		m.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// System metrics.

func (m *Manager) UpdateSystemMemoryUsage(bytes uint64) {
	if m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

func (m *Manager) UpdateSystemResidentMemory(bytes uint64) {
	if m.enabled {
		m.systemResidentMemory.Set(float64(bytes))
	}
}

func (m *Manager) UpdateSystemGoroutineCount(n int) {
	if m.enabled {
		m.systemGoroutineCount.Set(float64(n))
	}
}

// Package-level helpers record on the global manager.

// RecordFramesScanned adds n scanned frames.
func RecordFramesScanned(n int) { globalManager.RecordFramesScanned(n) }

// RecordDetectionIgnored counts a detection dropped for reason.
func RecordDetectionIgnored(reason string) { globalManager.RecordDetectionIgnored(reason) }

// RecordAnalysis counts a finished analysis and its latency.
func RecordAnalysis(status string, latencyMs float64) {
	globalManager.RecordAnalysis(status, latencyMs)
}

// RecordSecondsAnalysed adds the length of a verdict timeline.
func RecordSecondsAnalysed(n int) { globalManager.RecordSecondsAnalysed(n) }

// RecordPossession adds one party's totals from a report.
func RecordPossession(party string, seconds, intervals, events int) {
	globalManager.RecordPossession(party, seconds, intervals, events)
}

// UpdateReportsStored sets the number of stored reports.
func UpdateReportsStored(n int) { globalManager.UpdateReportsStored(n) }

// RecordReportEvicted counts an evicted report.
func RecordReportEvicted() { globalManager.RecordReportEvicted() }

// UpdateQueueSize sets the current queue length.
func UpdateQueueSize(n int) { globalManager.UpdateQueueSize(n) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(n int) { globalManager.UpdateQueueCapacity(n) }

// RecordQueueEnqueue counts an accepted job.
func RecordQueueEnqueue() { globalManager.RecordQueueEnqueue() }

// RecordQueueEnqueueError counts a rejected job.
func RecordQueueEnqueueError(reason string) { globalManager.RecordQueueEnqueueError(reason) }

// UpdateWorkerActiveCount sets the number of running workers.
func UpdateWorkerActiveCount(n int) { globalManager.UpdateWorkerActiveCount(n) }

// RecordWorkerProcessingLatency observes one job's processing time.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.RecordWorkerProcessingLatency(latencyMs)
}

// RecordWorkerError counts a failed job.
func RecordWorkerError() { globalManager.RecordWorkerError() }

// RecordHTTPRequest counts a request and observes its duration.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, method, errorType string) {
	globalManager.RecordHTTPError(endpoint, method, errorType)
}

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.UpdateSystemMemoryUsage(bytes) }

// UpdateSystemResidentMemory sets the process RSS.
func UpdateSystemResidentMemory(bytes uint64) { globalManager.UpdateSystemResidentMemory(bytes) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(n int) { globalManager.UpdateSystemGoroutineCount(n) }

// GetRegistry returns the registry backing the package-level helpers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
