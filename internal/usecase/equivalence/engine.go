package equivalence

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
)

// Engine runs the taxonomic widening search for one entity kind.
//
// Level L relaxes the reference's ancestor chain by L nodes and asks the
// source for everything below the remaining prefix, excluding every taxon
// claimed by a closer level. Levels are sequential because each level's
// exclusion set depends on the previous one.
type Engine[T any] struct {
	source   Source[T]
	variant  Variant[T]
	observer Observer
	logger   *zap.Logger
}

// New creates an engine. observer may be nil.
func New[T any](source Source[T], variant Variant[T], observer Observer, logger *zap.Logger) *Engine[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine[T]{
		source:   source,
		variant:  variant,
		observer: observer,
		logger:   logger,
	}
}

// Run computes the distance buckets of ref.
//
// Without IncludeSelf the buckets hold distances 1..MaxDistance. With it they
// hold 0..MaxDistance-1: bucket 0 holds the reference itself when it qualifies,
// and level L fills distance L+1.
func (e *Engine[T]) Run(ctx context.Context, ref Reference[T], opts equivalence.Options) (equivalence.Result[T], error) {
	if err := opts.Validate(); err != nil {
		return equivalence.Result[T]{}, err
	}

	if e.variant.Grouped && ref.GroupKey == "" {
		e.observeRun(equivalence.StatusNoGroupKey)
		return equivalence.Result[T]{Status: equivalence.StatusNoGroupKey}, nil
	}

	buckets := make([]equivalence.Bucket[T], opts.MaxDistance)
	first, levels := 1, opts.MaxDistance
	if opts.IncludeSelf {
		first, levels = 0, opts.MaxDistance-1
	}
	for i := range buckets {
		buckets[i] = equivalence.Bucket[T]{Distance: first + i, Documents: []equivalence.Match[T]{}}
	}

	offset := 0
	if opts.IncludeSelf {
		offset = 1
		if ref.Observed || !e.variant.RequireObservation {
			buckets[0].Documents = append(buckets[0].Documents, equivalence.Match[T]{Item: ref.Item})
		}
	}

	chain := ref.Ancestors
	checked := []int{ref.TaxonID}
	levels = min(len(chain), levels)

	for level := range levels {
		cur := chain[len(chain)-1-level]
		prefix := chain[:len(chain)-level]
		bucket := &buckets[offset+level]

		q := equivalence.LevelQuery{
			CommonPrefix:       prefix,
			Excluded:           slices.Clone(checked),
			RequireObservation: e.variant.RequireObservation,
		}
		if e.variant.Grouped {
			q.GroupKey = ref.GroupKey
		}

		start := time.Now()
		err := e.source.EachAtLevel(ctx, q, func(item T) error {
			depth := len(e.variant.Ancestors(item)) - len(prefix)
			if depth < 0 || depth >= opts.MaxDepth {
				return nil
			}
			bucket.Documents = append(bucket.Documents, equivalence.Match[T]{Item: item, Depth: depth + 1})
			return nil
		})
		if err != nil {
			return equivalence.Result[T]{}, fmt.Errorf("%s equivalence level %d: %w", e.variant.Name, level, err)
		}

		elapsed := time.Since(start)
		if e.observer != nil {
			e.observer.ObserveLevel(e.variant.Name, len(bucket.Documents), elapsed)
		}
		e.logger.Debug("Equivalence level scanned",
			zap.String("variant", e.variant.Name),
			zap.Int("level", level),
			zap.Int("distance", bucket.Distance),
			zap.Int("common_ancestor", prefix[len(prefix)-1]),
			zap.Int("matches", len(bucket.Documents)),
			zap.Duration("duration", elapsed),
		)

		checked = append(checked, cur)
	}

	e.observeRun(equivalence.StatusOK)
	return equivalence.Result[T]{Status: equivalence.StatusOK, Buckets: buckets}, nil
}

// NotFound reports a missing reference.
func (e *Engine[T]) NotFound() equivalence.Result[T] {
	e.observeRun(equivalence.StatusReferenceNotFound)
	return equivalence.Result[T]{Status: equivalence.StatusReferenceNotFound}
}

func (e *Engine[T]) observeRun(s equivalence.Status) {
	if e.observer != nil {
		e.observer.ObserveRun(e.variant.Name, s.String())
	}
}
