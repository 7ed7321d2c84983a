package health

import (
	"context"
	"fmt"
)

// Status is the aggregated health of the query layer.
type Status string

// Aggregated statuses, from best to worst.
const (
	Healthy   Status = "ok"
	Degraded  Status = "degraded" // queries work, some may fail
	Unhealthy Status = "error"    // the store is unreachable
)

var severity = map[Status]int{Healthy: 0, Degraded: 1, Unhealthy: 2}

// CheckResult is the outcome of one component probe.
type CheckResult string

// Probe outcomes.
const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
)

// Report aggregates the component probes.
type Report struct {
	Status Status
	Checks map[string]CheckResult
	// MissingIndexes lists the search indexes a degraded report lacks.
	MissingIndexes []string
}

// record stores a probe outcome; a failure lowers the status to at most onFailure.
func (r *Report) record(component string, err error, onFailure Status) {
	if err == nil {
		r.Checks[component] = CheckOK
		return
	}
	r.Checks[component] = CheckError
	if severity[onFailure] > severity[r.Status] {
		r.Status = onFailure
	}
}

// Service probes the store and the search indexes.
type Service struct {
	db      DBPinger
	indexes IndexChecker
}

// New creates a Service. indexes may be nil to skip the index probe.
func New(db DBPinger, indexes IndexChecker) *Service {
	return &Service{db: db, indexes: indexes}
}

// Check runs every probe. A missing index degrades the report; an
// unreachable store makes it unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	r := Report{Status: Healthy, Checks: make(map[string]CheckResult, 2)}

	r.record("database", s.db.Ping(ctx), Unhealthy)

	if s.indexes != nil {
		missing, err := s.indexes.Missing(ctx)
		if err == nil && len(missing) > 0 {
			r.MissingIndexes = missing
			err = fmt.Errorf("%d search indexes missing", len(missing))
		}
		r.record("indexes", err, Degraded)
	}
	return r
}
