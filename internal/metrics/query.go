package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Query Prometheus metrics.
var (
	EquivalenceRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bioquery",
			Name:      "equivalence_runs_total",
			Help:      "Total number of equivalence searches by outcome",
		},
		[]string{"variant", "status"},
	)

	EquivalenceLevelDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bioquery",
			Name:      "equivalence_level_duration_seconds",
			Help:      "Duration of one widening level of an equivalence search",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"variant"},
	)

	EquivalenceLevelMatches = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bioquery",
			Name:      "equivalence_level_matches",
			Help:      "Documents placed in a bucket by one widening level",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"variant"},
	)

	LineageCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bioquery",
			Name:      "lineage_cache_total",
			Help:      "Lineage cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers Prometheus query metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(EquivalenceRunsTotal)
	prometheus.MustRegister(EquivalenceLevelDuration)
	prometheus.MustRegister(EquivalenceLevelMatches)
	prometheus.MustRegister(LineageCacheTotal)
	queryMetricsRegistered = true
}

// LevelObserver records per-level equivalence metrics.
type LevelObserver struct{}

// ObserveLevel records the duration and yield of one level.
func (LevelObserver) ObserveLevel(variant string, matches int, d time.Duration) {
	EquivalenceLevelDuration.WithLabelValues(variant).Observe(d.Seconds())
	EquivalenceLevelMatches.WithLabelValues(variant).Observe(float64(matches))
}

// ObserveRun counts a finished search.
func (LevelObserver) ObserveRun(variant, status string) {
	EquivalenceRunsTotal.WithLabelValues(variant, status).Inc()
}
