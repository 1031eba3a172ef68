// Package metrics provides Prometheus metrics for the nightowl exporter.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the exporter.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Sync Pipeline Metrics - per category counters for the fetch/save loop
	recordsFetched    *prometheus.CounterVec
	recordsWritten    *prometheus.CounterVec
	duplicatesSkipped *prometheus.CounterVec
	fetchErrors       *prometheus.CounterVec
	writeErrors       *prometheus.CounterVec

	// Run Metrics - whole sync invocations
	syncRuns     prometheus.Counter
	syncDuration prometheus.Histogram
	lastSyncUnix prometheus.Gauge

	// Remote API Metrics - outbound request accounting
	apiRequests        *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec

	// Dataset Metrics - on-disk state after each save
	datasetRows    *prometheus.GaugeVec
	datasetColumns *prometheus.GaugeVec

	// Report Metrics
	reportsRendered prometheus.Counter
	reportErrors    prometheus.Counter

	// HTTP Server Metrics - daemon endpoint accounting
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "nightowl",
		subsystem:        "exporter",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Sync Pipeline Metrics
	m.recordsFetched = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_fetched_total",
			Help:      "Total number of records fetched from the remote API per category",
		},
		[]string{"category"},
	)

	m.recordsWritten = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "records_written_total",
			Help:      "Total number of new records written to disk per category",
		},
		[]string{"category"},
	)

	m.duplicatesSkipped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "duplicates_skipped_total",
			Help:      "Total number of fetched records dropped by duplicate filtering per category",
		},
		[]string{"category"},
	)

	m.fetchErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "fetch_errors_total",
			Help:      "Total number of remote fetch failures per category",
		},
		[]string{"category"},
	)

	m.writeErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "write_errors_total",
			Help:      "Total number of persistence failures per category",
		},
		[]string{"category"},
	)

	// Run Metrics
	m.syncRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_runs_total",
		Help:      "Total number of sync invocations",
	})

	m.syncDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "sync_duration_seconds",
		Help:      "Histogram of full sync run duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.lastSyncUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "last_sync_timestamp_seconds",
		Help:      "Unix timestamp of the last completed sync run",
	})

	// Remote API Metrics
	m.apiRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "api_requests_total",
			Help:      "Total number of outbound API requests by category and status code",
		},
		[]string{"category", "status_code"},
	)

	m.apiRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "api_request_duration_seconds",
			Help:      "Outbound API request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"category"},
	)

	// Dataset Metrics
	m.datasetRows = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_rows",
			Help:      "Number of data rows on disk per category as of the last read",
		},
		[]string{"category"},
	)

	m.datasetColumns = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "dataset_columns",
			Help:      "Width of the persisted header per category (tracks schema growth)",
		},
		[]string{"category"},
	)

	// Report Metrics
	m.reportsRendered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "reports_rendered_total",
		Help:      "Total number of dashboard pages rendered",
	})

	m.reportErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_errors_total",
		Help:      "Total number of dashboard rendering failures",
	})

	// HTTP Server Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of daemon HTTP requests by endpoint, method and status code",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Daemon HTTP request duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method"},
	)
}

// RecordFetched adds to the fetched counter for a category.
func RecordFetched(category string, n int) {
	globalManager.recordsFetched.WithLabelValues(category).Add(float64(n))
}

// RecordWritten adds to the written counter for a category.
func RecordWritten(category string, n int) {
	globalManager.recordsWritten.WithLabelValues(category).Add(float64(n))
}

// RecordDuplicatesSkipped adds to the duplicates counter for a category.
func RecordDuplicatesSkipped(category string, n int) {
	globalManager.duplicatesSkipped.WithLabelValues(category).Add(float64(n))
}

// RecordFetchError increments the fetch error counter for a category.
func RecordFetchError(category string) {
	globalManager.fetchErrors.WithLabelValues(category).Inc()
}

// RecordWriteError increments the write error counter for a category.
func RecordWriteError(category string) {
	globalManager.writeErrors.WithLabelValues(category).Inc()
}

// RecordSyncRun increments the sync run counter.
func RecordSyncRun() {
	globalManager.syncRuns.Inc()
}

// ObserveSyncDuration records the duration of a full sync run.
func ObserveSyncDuration(d time.Duration) {
	globalManager.syncDuration.Observe(d.Seconds())
}

// SetLastSyncTime records the completion time of the last sync run.
func SetLastSyncTime(t time.Time) {
	globalManager.lastSyncUnix.Set(float64(t.Unix()))
}

// RecordAPIRequest records one outbound API request.
func RecordAPIRequest(category, statusCode string) {
	globalManager.apiRequests.WithLabelValues(category, statusCode).Inc()
}

// ObserveAPIRequestDuration records the duration of one outbound API request.
func ObserveAPIRequestDuration(category string, d time.Duration) {
	globalManager.apiRequestDuration.WithLabelValues(category).Observe(d.Seconds())
}

// SetDatasetRows sets the on-disk row count for a category.
func SetDatasetRows(category string, rows int) {
	globalManager.datasetRows.WithLabelValues(category).Set(float64(rows))
}

// SetDatasetColumns sets the persisted header width for a category.
func SetDatasetColumns(category string, cols int) {
	globalManager.datasetColumns.WithLabelValues(category).Set(float64(cols))
}

// RecordReportRendered increments the rendered report counter.
func RecordReportRendered() {
	globalManager.reportsRendered.Inc()
}

// RecordReportError increments the report failure counter.
func RecordReportError() {
	globalManager.reportErrors.Inc()
}

// RecordHTTPRequest records one handled daemon HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// ObserveHTTPRequestDuration records the duration of one daemon HTTP request.
func ObserveHTTPRequestDuration(endpoint, method string, d time.Duration) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
