package bioquery

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// taxonUseCase is the internal interface for taxonomy queries.
type taxonUseCase interface {
	Node(ctx context.Context, id int) (Taxon, error)
	NodeByName(ctx context.Context, name string) (Taxon, error)
	IDsByName(ctx context.Context, name string) ([]int, error)
	NamesByIDs(ctx context.Context, ids []int) ([]string, error)
	Ranks(ctx context.Context, ids []int) ([]string, error)
	CommonAncestorByName(ctx context.Context, a, b string) (Kinship, error)
	CommonAncestorByID(ctx context.Context, a, b int) (Kinship, error)
	Equivalents(ctx context.Context, id int, opts Options) (TaxonResult, error)
	EquivalenceSet(ctx context.Context, id, maxDistance, maxDepth int) ([]int, []string, error)
	Count(ctx context.Context) (int, error)
}

// TaxonService queries the taxonomy.
type TaxonService struct {
	svc taxonUseCase
	obs *observer
}

// Get returns a taxon by id. A missing taxon yields a *NotFoundError.
func (s *TaxonService) Get(ctx context.Context, id int) (_ Taxon, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.get", start, err, slog.Int("tax_id", id)) }()

	n, err := s.svc.Node(ctx, id)
	if err != nil {
		return Taxon{}, fmt.Errorf("get taxon: %w", err)
	}
	return n, nil
}

// GetByName returns a taxon by its exact scientific name.
func (s *TaxonService) GetByName(ctx context.Context, name string) (_ Taxon, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.get_by_name", start, err) }()

	n, err := s.svc.NodeByName(ctx, name)
	if err != nil {
		return Taxon{}, fmt.Errorf("get taxon by name: %w", err)
	}
	return n, nil
}

// Search returns the ids of taxa whose name matches text as a phrase.
func (s *TaxonService) Search(ctx context.Context, text string) (_ []int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.search", start, err) }()

	ids, err := s.svc.IDsByName(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search taxa: %w", err)
	}
	return ids, nil
}

// Names resolves ids to scientific names, in input order.
func (s *TaxonService) Names(ctx context.Context, ids []int) (_ []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.names", start, err) }()

	names, err := s.svc.NamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("taxon names: %w", err)
	}
	return names, nil
}

// Ranks resolves ids to ranks, in input order.
func (s *TaxonService) Ranks(ctx context.Context, ids []int) (_ []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.ranks", start, err) }()

	ranks, err := s.svc.Ranks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("taxon ranks: %w", err)
	}
	return ranks, nil
}

// CommonAncestor returns the kinship of two organisms given by name.
func (s *TaxonService) CommonAncestor(ctx context.Context, a, b string) (_ Kinship, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.common_ancestor", start, err) }()

	k, err := s.svc.CommonAncestorByName(ctx, a, b)
	if err != nil {
		return Kinship{}, fmt.Errorf("common ancestor: %w", err)
	}
	return k, nil
}

// CommonAncestorByID is CommonAncestor for taxon ids.
func (s *TaxonService) CommonAncestorByID(ctx context.Context, a, b int) (_ Kinship, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.common_ancestor", start, err) }()

	k, err := s.svc.CommonAncestorByID(ctx, a, b)
	if err != nil {
		return Kinship{}, fmt.Errorf("common ancestor: %w", err)
	}
	return k, nil
}

// Equivalents buckets the taxa related to id by taxonomic distance.
// A missing reference is reported through the result status.
func (s *TaxonService) Equivalents(ctx context.Context, id int, opts Options) (_ TaxonResult, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("taxon.equivalents", start, err,
			slog.Int("tax_id", id), slog.Int("max_distance", opts.MaxDistance))
	}()

	res, err := s.svc.Equivalents(ctx, id, opts)
	if err != nil {
		return TaxonResult{}, fmt.Errorf("taxon equivalents: %w", err)
	}
	return res, nil
}

// EquivalenceSet flattens Equivalents into the ids and names of every match.
func (s *TaxonService) EquivalenceSet(
	ctx context.Context, id, maxDistance, maxDepth int,
) (_ []int, _ []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.equivalence_set", start, err) }()

	ids, names, err := s.svc.EquivalenceSet(ctx, id, maxDistance, maxDepth)
	if err != nil {
		return nil, nil, fmt.Errorf("taxon equivalence set: %w", err)
	}
	return ids, names, nil
}

// Count returns the number of stored taxa.
func (s *TaxonService) Count(ctx context.Context) (_ int, err error) {
	start := time.Now()
	defer func() { s.obs.observe("taxon.count", start, err) }()

	n, err := s.svc.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count taxa: %w", err)
	}
	return n, nil
}
