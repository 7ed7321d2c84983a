package equivalence

import (
	"context"
	"time"

	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
)

// Source executes level queries against the store, streaming candidates to fn
// in retrieval order. An error returned by fn stops the scan and is returned.
type Source[T any] interface {
	EachAtLevel(ctx context.Context, q equivalence.LevelQuery, fn func(T) error) error
}

// Observer receives per-level and per-run measurements.
type Observer interface {
	ObserveLevel(variant string, matches int, d time.Duration)
	ObserveRun(variant, status string)
}

// Variant configures the engine for one entity kind.
type Variant[T any] struct {
	Name               string
	Grouped            bool
	RequireObservation bool
	// Ancestors returns a candidate's ancestor chain, root first.
	Ancestors func(T) []int
}

// Reference is the entity equivalents are searched for.
type Reference[T any] struct {
	Item      T
	TaxonID   int
	Ancestors []int
	GroupKey  string
	Observed  bool
}
