// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RankingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ranking_runs_total",
			Help: "Total number of ranking runs by outcome",
		},
		[]string{"status"},
	)

	RankingRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "ranking_run_duration_seconds",
			Help: "Duration of a full ranking run in seconds",
		},
	)

	CascadeResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalization_resolutions_total",
			Help: "Normalization results by resolving cascade tier",
		},
		[]string{"tier"},
	)

	CacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalization_cache_hits_total",
			Help: "Normalization cache hits by backend",
		},
		[]string{"backend"},
	)

	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "external_call_duration_seconds",
			Help: "Duration of external service calls in seconds",
		},
		[]string{"service"},
	)

	ExternalCallFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_call_failures_total",
			Help: "Failed external service calls by service",
		},
		[]string{"service"},
	)

	TieGroupsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tie_groups_detected_total",
			Help: "Tie groups detected across ranking runs",
		},
	)

	TieBreakFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tie_break_fallbacks_total",
			Help: "Tie groups resolved by the deterministic fallback",
		},
	)
)
