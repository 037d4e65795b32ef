// Package metrics provides Prometheus metrics for file generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	generatedFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fakefile_generated_files_total",
			Help: "Total number of generated files",
		},
		[]string{"provider", "status"},
	)

	generatedBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fakefile_generated_bytes_total",
			Help: "Total bytes of generated file payloads",
		},
		[]string{"provider"},
	)

	generationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fakefile_generation_duration_seconds",
			Help:    "File generation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	registryFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fakefile_registry_files",
			Help: "Number of files tracked by the file registry",
		},
	)

	registryUnlinkFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fakefile_registry_unlink_failures_total",
			Help: "Total number of failed unlinks during registry removal or clean up",
		},
	)

	storageOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fakefile_storage_operations_total",
			Help: "Total number of storage backend operations",
		},
		[]string{"backend", "operation", "status"},
	)

	storageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fakefile_storage_operation_duration_seconds",
			Help:    "Storage backend operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)
)

func status(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordGeneration records one provider call.
func RecordGeneration(provider string, bytes int, duration time.Duration, success bool) {
	generatedFilesTotal.WithLabelValues(provider, status(success)).Inc()
	if success {
		generatedBytesTotal.WithLabelValues(provider).Add(float64(bytes))
	}
	generationDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// SetRegistrySize sets the number of tracked files.
func SetRegistrySize(n int) {
	registryFiles.Set(float64(n))
}

// RecordUnlinkFailure records a failed unlink during registry cleanup.
func RecordUnlinkFailure() {
	registryUnlinkFailures.Inc()
}

// RecordStorageOperation records a storage backend operation.
func RecordStorageOperation(backend, operation string, duration time.Duration, success bool) {
	storageOperations.WithLabelValues(backend, operation, status(success)).Inc()
	storageDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// Handler returns the HTTP handler for the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
