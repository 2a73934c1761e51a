// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omara_operations_total",
		Help: "Total number of domain operations that completed successfully.",
	},
		[]string{"operation"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omara_operation_errors_total",
		Help: "Total number of domain operations that returned an error.",
	},
		[]string{"operation"},
	)

	PiecesChangedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omara_pieces_changed_total",
		Help: "Total number of piece state changes, by kind of change.",
	},
		[]string{"change"},
	)

	ImagesStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omara_images_stored_total",
		Help: "Total number of uploaded images stored in the blob store.",
	})

	BlobCleanupFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "omara_blob_cleanup_failures_total",
		Help: "Total number of best-effort blob deletions that failed.",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "omara_http_requests_total",
		Help: "Total number of HTTP requests, by method and status code.",
	},
		[]string{"method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "omara_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	},
		[]string{"method"},
	)
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler { return promhttp.Handler() }
