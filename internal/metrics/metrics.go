package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskvault_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskvault_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskvault_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Record store metrics
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskvault_store_operations_total",
			Help: "Total number of record store operations",
		},
		[]string{"operation", "status"},
	)

	StoreRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskvault_store_records",
			Help: "Number of records in the last committed snapshot",
		},
	)

	StoreLockWaitSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskvault_store_lock_wait_seconds",
			Help:    "Time spent waiting for the store lock",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2.5, 5},
		},
	)

	StoreSnapshotBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "taskvault_store_snapshot_bytes",
			Help:    "Size of committed snapshots in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		},
	)

	// Build info
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "taskvault_build_info",
			Help: "Build information",
		},
		[]string{"version", "go_version"},
	)
)
