package bioquery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/bioquery/internal/domain"
)

// Operation outcomes, used as the status label and in log records.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// outcome classifies err. Misses and rejected arguments are the caller's
// outcome; only the rest counts as a failure.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrUnknownNamespace),
		errors.Is(err, domain.ErrNoGroupKey):
		return outcomeRejected
	default:
		return outcomeError
	}
}

// observer records SDK operations. A nil observer records nothing.
type observer struct {
	log     *slog.Logger
	ops     *prometheus.CounterVec
	latency *prometheus.HistogramVec
}

func newObserver(log *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{log: log}
	if reg == nil {
		return o, nil
	}

	ops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "bioquery",
		Subsystem: "sdk",
		Name:      "operations_total",
		Help:      "SDK operations by name and outcome.",
	}, []string{"operation", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "bioquery",
		Subsystem: "sdk",
		Name:      "operation_duration_seconds",
		Help:      "SDK operation latency.",
		Buckets:   prometheus.ExponentialBucketsRange(0.001, 30, 12),
	}, []string{"operation"})

	var err error
	if o.ops, err = shared(reg, ops); err != nil {
		return nil, err
	}
	if o.latency, err = shared(reg, latency); err != nil {
		return nil, err
	}
	return o, nil
}

// shared registers c, or returns the collector of the same kind a previous
// client already registered on reg.
func shared[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}
	var dup prometheus.AlreadyRegisteredError
	if !errors.As(err, &dup) {
		return c, fmt.Errorf("bioquery: register metric: %w", err)
	}
	existing, ok := dup.ExistingCollector.(C)
	if !ok {
		return c, fmt.Errorf("bioquery: metric registered as %T", dup.ExistingCollector)
	}
	return existing, nil
}

func (o *observer) observe(op string, start time.Time, err error, attrs ...slog.Attr) {
	if o == nil {
		return
	}
	elapsed := time.Since(start)
	status := outcome(err)

	if o.ops != nil {
		o.ops.WithLabelValues(op, status).Inc()
		o.latency.WithLabelValues(op).Observe(elapsed.Seconds())
	}
	if o.log == nil {
		return
	}

	attrs = append(attrs, slog.String("op", op), slog.Duration("duration", elapsed))
	level, msg := slog.LevelDebug, "operation completed"
	if err != nil {
		attrs = append(attrs, slog.String("status", status), slog.Any("error", err))
		msg = "operation rejected"
		if status == outcomeError {
			level, msg = slog.LevelWarn, "operation failed"
		}
	}
	o.log.LogAttrs(context.Background(), level, msg, attrs...)
}
