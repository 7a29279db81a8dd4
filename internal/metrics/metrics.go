// Package metrics provides Prometheus metrics for the site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GraphQLRequestsTotal counts Execute calls by operation and outcome.
	GraphQLRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodiefusion",
			Name:      "graphql_requests_total",
			Help:      "Total number of GraphQL round trips to the CMS",
		},
		[]string{"operation", "outcome"},
	)

	// GraphQLDuration measures round trip latency.
	GraphQLDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodiefusion",
			Name:      "graphql_duration_seconds",
			Help:      "Duration of GraphQL round trips in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// CacheLookupsTotal counts read-through cache lookups (hit, miss) and
	// skipped stores (stale, full).
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodiefusion",
			Name:      "cache_lookups_total",
			Help:      "Read-through cache lookups",
		},
		[]string{"result"},
	)

	// ListLoadsTotal counts incremental list page loads by outcome.
	ListLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodiefusion",
			Name:      "list_loads_total",
			Help:      "Incremental list load-more attempts",
		},
		[]string{"outcome"},
	)

	// CommentsTotal counts comment submissions by status.
	CommentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodiefusion",
			Name:      "comments_total",
			Help:      "Comment submissions",
		},
		[]string{"status"},
	)
)

// RecordGraphQL records one round trip.
func RecordGraphQL(operation, outcome string, seconds float64) {
	GraphQLRequestsTotal.WithLabelValues(operation, outcome).Inc()
	GraphQLDuration.WithLabelValues(operation).Observe(seconds)
}

// RecordCache records a cache hit or miss.
func RecordCache(result string) {
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordListLoad records a load-more outcome.
func RecordListLoad(outcome string) {
	ListLoadsTotal.WithLabelValues(outcome).Inc()
}

// RecordComment records a comment submission outcome.
func RecordComment(status string) {
	CommentsTotal.WithLabelValues(status).Inc()
}
