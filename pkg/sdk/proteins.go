package bioquery

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// proteinUseCase is the internal interface for protein queries.
type proteinUseCase interface {
	ByID(ctx context.Context, id string) (Protein, error)
	Meta(ctx context.Context, ids []string) ([]Protein, error)
	SearchByNameInTaxon(ctx context.Context, name string, taxonID int) ([]Protein, error)
	IDsByName(ctx context.Context, name string) ([]NameHit, error)
	Group(ctx context.Context, ns Namespace, key string, shape Shape) (Group, error)
	GroupsByTaxon(ctx context.Context, taxonID int, shape Shape) ([]Group, error)
	Kinetics(ctx context.Context, ids []string) ([]Kinetics, error)
	AbundancesLikeProtein(ctx context.Context, id string) ([]Protein, error)
	Equivalents(ctx context.Context, ns Namespace, id string, opts Options) (ProteinResult, error)
	EquivalentsWithAnchor(ctx context.Context, ns Namespace, id string, opts Options) (ProteinResult, error)
	EquivalentsMany(ctx context.Context, ns Namespace, ids []string, opts Options, concurrency int) ([]ProteinResult, error)
	CanonicalDistances(ctx context.Context, ns Namespace, key, anchor string, maxDistance int) ([]CanonicalBucket, error)
	Proximity(ctx context.Context, id string, maxDistance int) ([]ProximityBucket, error)
}

// ProteinService queries proteins, orthology groups and their equivalents.
type ProteinService struct {
	svc         proteinUseCase
	concurrency int
	obs         *observer
}

// Get returns a protein by UniProt id.
func (s *ProteinService) Get(ctx context.Context, id string) (_ Protein, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.get", start, err, slog.String("uniprot_id", id)) }()

	p, err := s.svc.ByID(ctx, id)
	if err != nil {
		return Protein{}, fmt.Errorf("get protein: %w", err)
	}
	return p, nil
}

// Meta returns the stored proteins among ids. Unknown ids are skipped.
func (s *ProteinService) Meta(ctx context.Context, ids []string) (_ []Protein, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.meta", start, err) }()

	ps, err := s.svc.Meta(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("protein meta: %w", err)
	}
	return ps, nil
}

// SearchInTaxon finds proteins by name within one taxon.
func (s *ProteinService) SearchInTaxon(ctx context.Context, name string, taxonID int) (_ []Protein, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.search_in_taxon", start, err) }()

	ps, err := s.svc.SearchByNameInTaxon(ctx, name, taxonID)
	if err != nil {
		return nil, fmt.Errorf("search proteins: %w", err)
	}
	return ps, nil
}

// Search finds proteins whose name matches text.
func (s *ProteinService) Search(ctx context.Context, text string) (_ []NameHit, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.search", start, err) }()

	hits, err := s.svc.IDsByName(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search proteins: %w", err)
	}
	return hits, nil
}

// Group returns the members of one orthology group.
func (s *ProteinService) Group(ctx context.Context, ns Namespace, key string, shape Shape) (_ Group, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.group", start, err, slog.String("namespace", string(ns))) }()

	g, err := s.svc.Group(ctx, ns, key, shape)
	if err != nil {
		return Group{}, fmt.Errorf("protein group: %w", err)
	}
	return g, nil
}

// GroupsInTaxon returns the KEGG groups with members in a taxon.
func (s *ProteinService) GroupsInTaxon(ctx context.Context, taxonID int, shape Shape) (_ []Group, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.groups_in_taxon", start, err) }()

	gs, err := s.svc.GroupsByTaxon(ctx, taxonID, shape)
	if err != nil {
		return nil, fmt.Errorf("protein groups: %w", err)
	}
	return gs, nil
}

// Kinetics returns the turnover fields of the stored proteins among ids.
func (s *ProteinService) Kinetics(ctx context.Context, ids []string) (_ []Kinetics, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.kinetics", start, err) }()

	ks, err := s.svc.Kinetics(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("protein kinetics: %w", err)
	}
	return ks, nil
}

// AbundanceLike returns observed proteins of the same KEGG group as id.
func (s *ProteinService) AbundanceLike(ctx context.Context, id string) (_ []Protein, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.abundance_like", start, err) }()

	ps, err := s.svc.AbundancesLikeProtein(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("abundance-like proteins: %w", err)
	}
	return ps, nil
}

// Equivalents buckets the observed orthologs of id by taxonomic distance.
// A missing reference or group key is reported through the result status.
func (s *ProteinService) Equivalents(
	ctx context.Context, ns Namespace, id string, opts Options,
) (_ ProteinResult, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("protein.equivalents", start, err,
			slog.String("uniprot_id", id), slog.String("namespace", string(ns)))
	}()

	res, err := s.svc.Equivalents(ctx, ns, id, opts)
	if err != nil {
		return ProteinResult{}, fmt.Errorf("protein equivalents: %w", err)
	}
	return res, nil
}

// EquivalentsWithAnchor is Equivalents with id itself at distance 0.
func (s *ProteinService) EquivalentsWithAnchor(
	ctx context.Context, ns Namespace, id string, opts Options,
) (_ ProteinResult, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("protein.equivalents", start, err,
			slog.String("uniprot_id", id), slog.Bool("anchor", true))
	}()

	res, err := s.svc.EquivalentsWithAnchor(ctx, ns, id, opts)
	if err != nil {
		return ProteinResult{}, fmt.Errorf("protein equivalents: %w", err)
	}
	return res, nil
}

// EquivalentsMany runs Equivalents for every id, bounded by the client's
// concurrency. Results are in input order.
func (s *ProteinService) EquivalentsMany(
	ctx context.Context, ns Namespace, ids []string, opts Options,
) (_ []ProteinResult, err error) {
	start := time.Now()
	defer func() {
		s.obs.observe("protein.equivalents_many", start, err, slog.Int("count", len(ids)))
	}()

	res, err := s.svc.EquivalentsMany(ctx, ns, ids, opts, s.concurrency)
	if err != nil {
		return nil, fmt.Errorf("protein equivalents: %w", err)
	}
	return res, nil
}

// CanonicalDistances buckets a group's observed members by canonical
// lineage distance from the anchor species.
func (s *ProteinService) CanonicalDistances(
	ctx context.Context, ns Namespace, key, anchor string, maxDistance int,
) (_ []CanonicalBucket, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.canonical_distances", start, err) }()

	bs, err := s.svc.CanonicalDistances(ctx, ns, key, anchor, maxDistance)
	if err != nil {
		return nil, fmt.Errorf("canonical distances: %w", err)
	}
	return bs, nil
}

// Proximity returns same-group proteins of id's nearest ancestors.
func (s *ProteinService) Proximity(ctx context.Context, id string, maxDistance int) (_ []ProximityBucket, err error) {
	start := time.Now()
	defer func() { s.obs.observe("protein.proximity", start, err) }()

	bs, err := s.svc.Proximity(ctx, id, maxDistance)
	if err != nil {
		return nil, fmt.Errorf("protein proximity: %w", err)
	}
	return bs, nil
}
