package bioquery

import (
	"context"

	healthuc "github.com/kailas-cloud/bioquery/internal/usecase/health"
)

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// HealthStatus is the result of Client.Health.
//
// Status is "ok", "degraded" when search indexes are missing, or "error" when
// the database does not answer. Checks maps "database" and "indexes" to "ok"
// or "error".
type HealthStatus struct {
	Status         string
	Checks         map[string]string
	MissingIndexes []string
}

// Healthy reports whether every component passed.
func (h HealthStatus) Healthy() bool { return h.Status == string(healthuc.Healthy) }

// Health probes the database and the search indexes. It never fails; problems
// are reported in the status.
func (c *Client) Health(ctx context.Context) HealthStatus {
	r := c.healthSvc.Check(ctx)
	h := HealthStatus{
		Status:         string(r.Status),
		Checks:         make(map[string]string, len(r.Checks)),
		MissingIndexes: r.MissingIndexes,
	}
	for component, result := range r.Checks {
		h.Checks[component] = string(result)
	}
	return h
}
