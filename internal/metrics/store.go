package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Store Prometheus metrics.
var (
	StoreCommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bioquery",
			Name:      "store_commands_total",
			Help:      "Total number of document store commands by outcome",
		},
		[]string{"command", "status"}, // status: "ok" / "error"
	)

	StoreCommandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bioquery",
			Name:      "store_command_duration_seconds",
			Help:      "Document store command round-trip time",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"command"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers the store metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreCommandsTotal, StoreCommandDuration)
	storeMetricsRegistered = true
}

// StoreObserver records store round trips.
type StoreObserver struct{}

// ObserveCommand records one command.
func (StoreObserver) ObserveCommand(command string, d time.Duration, ok bool) {
	command = strings.ToUpper(command)
	status := "ok"
	if !ok {
		status = "error"
	}
	StoreCommandsTotal.WithLabelValues(command, status).Inc()
	StoreCommandDuration.WithLabelValues(command).Observe(d.Seconds())
}
