package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_queries_total",
		Help: "Total number of catalog queries",
	}, []string{"sort", "empty"})

	CatalogQueryLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_query_latency_seconds",
		Help:    "Latency of catalog filter and sort",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
	})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart mutations",
	}, []string{"operation"})

	CartItemCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cart_item_count",
		Help: "Units currently in the cart",
	})

	CartPersistFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_persist_failures_total",
		Help: "Total number of failed cart writes",
	})

	CartRestoreResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cart_restore_resets_total",
		Help: "Total number of stored carts discarded as unreadable",
	})

	AdvisoryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisory_requests_total",
		Help: "Total number of advisory requests",
	}, []string{"kind", "outcome"})

	AdvisoryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advisory_latency_seconds",
		Help:    "Latency of advisory model calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	CartEventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_events_published_total",
		Help: "Total number of cart events published",
	}, []string{"status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
