// Package observability provides Prometheus metrics and OpenTelemetry tracing
// for the application.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewhub_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reviewhub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ConfirmationMailsTotal counts confirmation-code dispatches by outcome.
	ConfirmationMailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reviewhub_confirmation_mails_total",
		Help: "Total number of confirmation-code mail dispatches by outcome",
	}, []string{"outcome"})

	// ReviewsCreatedTotal counts successfully created reviews.
	ReviewsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reviewhub_reviews_created_total",
		Help: "Total number of reviews created",
	})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
