// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal counts finished requests by route pattern and status.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// APIRequestDuration observes request latency by route pattern.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	// CollectionScanSize observes how many documents each full-collection
	// read returned. Every list, calendar, stats and create call scans the
	// whole collection, so this is the number to watch as data grows.
	CollectionScanSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pilgrimage_collection_scan_documents",
			Help:    "Number of documents returned by a full collection scan",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)

	// SlotConflicts counts create requests rejected because the slot was taken.
	SlotConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pilgrimage_slot_conflicts_total",
			Help: "Total number of creates rejected for an occupied date/time slot",
		},
	)
)
