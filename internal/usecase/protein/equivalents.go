package protein

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	equsecase "github.com/kailas-cloud/bioquery/internal/usecase/equivalence"
	"github.com/kailas-cloud/bioquery/internal/usecase/taxon"
)

// levelSource runs equivalence level queries against one group namespace.
type levelSource struct {
	repo Repository
	ns   domprotein.Namespace
}

func (l levelSource) EachAtLevel(ctx context.Context, q equivalence.LevelQuery, fn func(domprotein.Protein) error) error {
	return l.repo.Each(ctx, domprotein.Query{
		Namespace:      l.ns,
		GroupKey:       q.GroupKey,
		WithinLineage:  q.CommonPrefix,
		OutsideLineage: q.Excluded,
		Observed:       q.RequireObservation,
	}, fn)
}

// Equivalents returns the observed proteins of the same orthology group as
// id, bucketed by taxonomic distance 1..MaxDistance.
func (s *Service) Equivalents(
	ctx context.Context, ns domprotein.Namespace, id string, opts equivalence.Options,
) (equivalence.Result[domprotein.Protein], error) {
	opts.IncludeSelf = false
	return s.equivalents(ctx, ns, id, opts)
}

// EquivalentsWithAnchor is Equivalents with the reference itself at
// distance 0 and every other distance shifted by one.
func (s *Service) EquivalentsWithAnchor(
	ctx context.Context, ns domprotein.Namespace, id string, opts equivalence.Options,
) (equivalence.Result[domprotein.Protein], error) {
	opts.IncludeSelf = true
	return s.equivalents(ctx, ns, id, opts)
}

func (s *Service) equivalents(
	ctx context.Context, ns domprotein.Namespace, id string, opts equivalence.Options,
) (equivalence.Result[domprotein.Protein], error) {
	var zero equivalence.Result[domprotein.Protein]
	ns, err := namespace(ns)
	if err != nil {
		return zero, err
	}
	if err := opts.Validate(); err != nil {
		return zero, err
	}
	engine := s.engines[ns]

	ref, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return engine.NotFound(), nil
	}
	if err != nil {
		return zero, fmt.Errorf("get reference protein: %w", err)
	}

	res, err := engine.Run(ctx, equsecase.Reference[domprotein.Protein]{
		Item:      ref,
		TaxonID:   ref.TaxonID,
		Ancestors: ref.AncestorIDs,
		GroupKey:  ref.GroupKey(ns),
		Observed:  ref.HasAbundances(),
	}, opts)
	if err != nil {
		return zero, fmt.Errorf("protein equivalents: %w", err)
	}
	return res, nil
}

// EquivalentsMany runs Equivalents for every id with at most concurrency
// searches in flight. Results are in input order. The first failure
// cancels the remaining searches.
func (s *Service) EquivalentsMany(
	ctx context.Context, ns domprotein.Namespace, ids []string, opts equivalence.Options, concurrency int,
) ([]equivalence.Result[domprotein.Protein], error) {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]equivalence.Result[domprotein.Protein], len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, id := range ids {
		g.Go(func() error {
			res, err := s.Equivalents(gctx, ns, id, opts)
			if err != nil {
				return fmt.Errorf("equivalents of %s: %w", id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CanonicalDistances buckets every observed member of a group by the
// canonical-lineage distance of its species from the anchor species.
// Buckets span distances 0..maxDistance. Members whose species share no
// canonical ancestor with the anchor are left out.
func (s *Service) CanonicalDistances(
	ctx context.Context, ns domprotein.Namespace, key, anchor string, maxDistance int,
) ([]CanonicalBucket, error) {
	if maxDistance < 1 {
		return nil, domain.InvalidArgument("max distance must be at least 1, got %d", maxDistance)
	}
	q, err := groupQuery(ns, key)
	if err != nil {
		return nil, err
	}
	q.Observed = true

	anchorNode, err := s.taxa.NodeByName(ctx, anchor)
	if err != nil {
		return nil, fmt.Errorf("resolve anchor: %w", err)
	}

	buckets := make([]CanonicalBucket, maxDistance+1)
	for i := range buckets {
		buckets[i] = CanonicalBucket{Distance: i, Documents: []CanonicalMatch{}}
	}

	type placement struct {
		kinship taxon.Kinship
		canon   []string
	}
	placed := make(map[int]placement)

	err = s.repo.Each(ctx, q, func(p domprotein.Protein) error {
		pl, ok := placed[p.TaxonID]
		if !ok {
			species, canon, err := s.canonicalLineage(ctx, p)
			if err != nil {
				return err
			}
			pl = placement{
				kinship: taxon.CanonicalKinship(anchorNode.Name(), species,
					anchorNode.CanonicalAncestorNames(), canon),
				canon: canon,
			}
			placed[p.TaxonID] = pl
		}
		d := pl.kinship.Distances[0]
		if !pl.kinship.Related() || d > maxDistance {
			return nil
		}
		buckets[d].Documents = append(buckets[d].Documents, CanonicalMatch{Protein: p, CanonicalAncestors: pl.canon})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan group %s: %w", q.GroupKey, err)
	}

	s.logger.Debug("Canonical distances computed",
		zap.String("group", q.GroupKey),
		zap.String("anchor", anchorNode.Name()),
		zap.Int("species", len(placed)),
	)
	return buckets, nil
}

// canonicalLineage returns the species name and canonical ancestor names of
// p, falling back to the taxonomy when the protein document lacks them.
func (s *Service) canonicalLineage(ctx context.Context, p domprotein.Protein) (string, []string, error) {
	if p.SpeciesName != "" && p.CanonAncestors != nil {
		return p.SpeciesName, p.CanonAncestors, nil
	}
	n, err := s.taxa.Node(ctx, p.TaxonID)
	if err != nil {
		return "", nil, fmt.Errorf("resolve taxon of %s: %w", p.UniprotID, err)
	}
	species := p.SpeciesName
	if species == "" {
		species = n.Name()
	}
	canon := p.CanonAncestors
	if canon == nil {
		canon = n.CanonicalAncestorNames()
	}
	return species, canon, nil
}

// Proximity returns the proteins sharing the KEGG group of id whose own
// taxon is one of id's nearest maxDistance ancestors. Distance 1 is the
// immediate parent.
func (s *Service) Proximity(ctx context.Context, id string, maxDistance int) ([]ProximityBucket, error) {
	if maxDistance < 1 {
		return nil, domain.InvalidArgument("max distance must be at least 1, got %d", maxDistance)
	}
	ref, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ref.KONumber == "" {
		return nil, fmt.Errorf("protein %s: %w", ref.UniprotID, domain.ErrNoGroupKey)
	}

	ids, names := closest(ref, maxDistance)
	buckets := make([]ProximityBucket, maxDistance)
	for i := range buckets {
		buckets[i] = ProximityBucket{Distance: i + 1, AncestorNames: names, Documents: []domprotein.Protein{}}
	}
	if len(ids) == 0 {
		return buckets, nil
	}

	err = s.repo.Each(ctx, domprotein.Query{
		Namespace: domprotein.NamespaceKEGG,
		GroupKey:  ref.KONumber,
		TaxonIDs:  ids,
	}, func(p domprotein.Protein) error {
		idx := slices.Index(ids, p.TaxonID)
		if idx < 0 {
			return nil
		}
		d := len(ids) - idx
		buckets[d-1].Documents = append(buckets[d-1].Documents, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan proximity of %s: %w", ref.UniprotID, err)
	}
	return buckets, nil
}

// closest returns the last n ancestors of p, root first.
func closest(p domprotein.Protein, n int) ([]int, []string) {
	ids := p.AncestorIDs
	names := p.AncestorNames
	if len(ids) > n {
		ids = ids[len(ids)-n:]
	}
	if len(names) > n {
		names = names[len(names)-n:]
	}
	if names == nil {
		names = []string{}
	}
	return ids, names
}
