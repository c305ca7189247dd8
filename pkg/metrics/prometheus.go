package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager manages all Prometheus metrics for the gradebook service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	gradeBuckets     []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Import metrics
	imports         *prometheus.CounterVec
	recordsImported *prometheus.CounterVec

	// Scoring metrics
	scoresRecorded prometheus.Counter
	scoresRejected prometheus.Counter
	grades         prometheus.Histogram

	// Export metrics
	exports     *prometheus.CounterVec
	exportBytes prometheus.Counter

	// Session metrics
	activeSessions  prometheus.Gauge
	sessionsCreated prometheus.Counter
	sessionsEvicted prometheus.Counter

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorRateByComponent *prometheus.CounterVec
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
		namespace:        "gradebook",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		gradeBuckets:     prometheus.LinearBuckets(2, 2, 10),
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

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

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.imports = auto.NewCounterVec(
		m.counterOpts("imports_total", "Total number of CSV imports by kind and outcome"),
		[]string{"kind", "outcome"},
	)
	m.recordsImported = auto.NewCounterVec(
		m.counterOpts("records_imported_total", "Total number of records accepted from CSV imports"),
		[]string{"kind"},
	)

	m.scoresRecorded = auto.NewCounter(
		m.counterOpts("scores_recorded_total", "Total number of scores recorded"))
	m.scoresRejected = auto.NewCounter(
		m.counterOpts("scores_rejected_total", "Total number of scores rejected as out of range"))
	m.grades = auto.NewHistogram(
		m.histogramOpts("grade", "Distribution of computed grades out of 20", m.gradeBuckets))

	m.exports = auto.NewCounterVec(
		m.counterOpts("exports_total", "Total number of CSV exports by outcome"),
		[]string{"outcome"},
	)
	m.exportBytes = auto.NewCounter(
		m.counterOpts("export_bytes_total", "Total number of bytes produced by CSV exports"))

	m.activeSessions = auto.NewGauge(
		m.gaugeOpts("active_sessions", "Current number of grading sessions held in memory"))
	m.sessionsCreated = auto.NewCounter(
		m.counterOpts("sessions_created_total", "Total number of grading sessions created"))
	m.sessionsEvicted = auto.NewCounter(
		m.counterOpts("sessions_evicted_total", "Total number of sessions evicted to respect the session cap"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component and error type"),
		[]string{"component", "error_type"},
	)
}

func outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}

// RecordImport records one import attempt. records is ignored on failure.
func RecordImport(kind string, records int, ok bool) {
	globalManager.imports.WithLabelValues(kind, outcome(ok)).Inc()
	if ok {
		globalManager.recordsImported.WithLabelValues(kind).Add(float64(records))
	}
}

// RecordScore increments the recorded scores counter.
func RecordScore() {
	globalManager.scoresRecorded.Inc()
}

// RecordScoreRejected increments the rejected scores counter.
func RecordScoreRejected() {
	globalManager.scoresRejected.Inc()
}

// ObserveGrade adds a computed grade to the distribution.
func ObserveGrade(grade float64) {
	globalManager.grades.Observe(grade)
}

// RecordExport records one export attempt and its size.
func RecordExport(bytes int, ok bool) {
	globalManager.exports.WithLabelValues(outcome(ok)).Inc()
	if ok {
		globalManager.exportBytes.Add(float64(bytes))
	}
}

// UpdateActiveSessions sets the current session count.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordSessionCreated increments the created sessions counter.
func RecordSessionCreated() {
	globalManager.sessionsCreated.Inc()
}

// RecordSessionEvicted increments the evicted sessions counter.
func RecordSessionEvicted() {
	globalManager.sessionsEvicted.Inc()
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
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
