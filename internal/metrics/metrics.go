// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const prefix = "pub_inventory"

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Ledger metrics
	PurchasesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_purchases_recorded_total",
		Help: "Total number of purchases written to the ledger",
	})

	SalesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: prefix + "_sales_recorded_total",
		Help: "Total number of sales written to the ledger",
	})

	SalesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sales_rejected_total",
			Help: "Total number of sales refused by a business rule",
		},
		[]string{"reason"},
	)

	// Insight metrics
	InsightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_insight_requests_total",
			Help: "Total number of narrative insight requests by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	AIProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_ai_provider_failures_total",
			Help: "Failed insight provider calls by reason (timeout, error)",
		},
		[]string{"provider", "reason"},
	)

	AIBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_ai_breaker_state",
			Help: "Insight provider breaker state: 0 closed, 1 open, 2 half-open",
		},
		[]string{"provider"},
	)
)

// RecordSaleRejected increments the rejection counter for reason.
func RecordSaleRejected(reason string) {
	SalesRejected.WithLabelValues(reason).Inc()
}

// RecordInsight counts one insight request.
func RecordInsight(provider, outcome string) {
	InsightRequests.WithLabelValues(provider, outcome).Inc()
}

// RecordAIProviderFailure counts one failed provider call.
func RecordAIProviderFailure(provider, reason string) {
	AIProviderFailures.WithLabelValues(provider, reason).Inc()
}

// SetAIBreakerState publishes the breaker state for provider.
func SetAIBreakerState(provider string, state int) {
	AIBreakerState.WithLabelValues(provider).Set(float64(state))
}
