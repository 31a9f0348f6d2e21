package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GatewayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_calls_total",
			Help: "Total number of language-model gateway calls",
		},
		[]string{"status"},
	)

	GatewayCallDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "gateway_call_duration_seconds",
			Help: "Duration of language-model gateway calls in seconds",
		},
	)

	RoundsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_rounds_processed_total",
			Help: "Total number of categorization rounds processed, by outcome state",
		},
		[]string{"state"},
	)

	RoundFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_round_failures_total",
			Help: "Total number of failed round submissions by error code",
		},
		[]string{"error_code"},
	)

	MatchComputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "match_computations_total",
			Help: "Total number of package ranking computations",
		},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "match_computation_duration_seconds",
			Help: "Duration of package ranking computations in seconds",
		},
	)

	OutstandingTopics = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "assessment_outstanding_topics",
			Help:    "Outstanding topic count after each categorization round",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)
)
