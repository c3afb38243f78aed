// Package metrics provides Prometheus metrics for the file organizer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileorg_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fileorg_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Ingestion metrics
	filesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileorg_files_processed_total",
			Help: "Files processed by ingestion, by result status",
		},
		[]string{"status"},
	)

	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fileorg_extraction_duration_seconds",
			Help:    "Text extraction call duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 120},
		},
		[]string{"backend"},
	)

	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileorg_extractions_total",
			Help: "Total text extraction calls",
		},
		[]string{"backend", "status"},
	)

	// Object store metrics
	storageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fileorg_storage_operation_duration_seconds",
			Help:    "Object store operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	// Queue metrics
	tasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileorg_tasks_total",
			Help: "Async organize tasks by final state",
		},
		[]string{"type", "state"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordFile counts one ingestion result.
func RecordFile(status string) {
	filesProcessedTotal.WithLabelValues(status).Inc()
}

// ObserveExtraction records one extraction call.
func ObserveExtraction(backend string, duration time.Duration, err error) {
	extractionDuration.WithLabelValues(backend).Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "error"
	}
	extractionsTotal.WithLabelValues(backend, status).Inc()
}

func RecordStorageOperation(backend, operation string, duration time.Duration) {
	storageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

func RecordTask(taskType, state string) {
	tasksTotal.WithLabelValues(taskType, state).Inc()
}
