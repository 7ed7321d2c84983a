package bioquery

import (
	"context"

	healthuc "github.com/kailas-cloud/bioquery/internal/usecase/health"
)

// --- taxonUseCase mock ---

type mockTaxonUC struct {
	nodeFn           func(ctx context.Context, id int) (Taxon, error)
	nodeByNameFn     func(ctx context.Context, name string) (Taxon, error)
	idsByNameFn      func(ctx context.Context, name string) ([]int, error)
	namesFn          func(ctx context.Context, ids []int) ([]string, error)
	ranksFn          func(ctx context.Context, ids []int) ([]string, error)
	commonByNameFn   func(ctx context.Context, a, b string) (Kinship, error)
	commonByIDFn     func(ctx context.Context, a, b int) (Kinship, error)
	equivalentsFn    func(ctx context.Context, id int, opts Options) (TaxonResult, error)
	equivalenceSetFn func(ctx context.Context, id, maxDistance, maxDepth int) ([]int, []string, error)
	countFn          func(ctx context.Context) (int, error)
}

func (m *mockTaxonUC) Node(ctx context.Context, id int) (Taxon, error) { return m.nodeFn(ctx, id) }

func (m *mockTaxonUC) NodeByName(ctx context.Context, name string) (Taxon, error) {
	return m.nodeByNameFn(ctx, name)
}

func (m *mockTaxonUC) IDsByName(ctx context.Context, name string) ([]int, error) {
	return m.idsByNameFn(ctx, name)
}

func (m *mockTaxonUC) NamesByIDs(ctx context.Context, ids []int) ([]string, error) {
	return m.namesFn(ctx, ids)
}

func (m *mockTaxonUC) Ranks(ctx context.Context, ids []int) ([]string, error) {
	return m.ranksFn(ctx, ids)
}

func (m *mockTaxonUC) CommonAncestorByName(ctx context.Context, a, b string) (Kinship, error) {
	return m.commonByNameFn(ctx, a, b)
}

func (m *mockTaxonUC) CommonAncestorByID(ctx context.Context, a, b int) (Kinship, error) {
	return m.commonByIDFn(ctx, a, b)
}

func (m *mockTaxonUC) Equivalents(ctx context.Context, id int, opts Options) (TaxonResult, error) {
	return m.equivalentsFn(ctx, id, opts)
}

func (m *mockTaxonUC) EquivalenceSet(ctx context.Context, id, maxDistance, maxDepth int) ([]int, []string, error) {
	return m.equivalenceSetFn(ctx, id, maxDistance, maxDepth)
}

func (m *mockTaxonUC) Count(ctx context.Context) (int, error) { return m.countFn(ctx) }

// --- proteinUseCase mock ---

type mockProteinUC struct {
	byIDFn        func(ctx context.Context, id string) (Protein, error)
	metaFn        func(ctx context.Context, ids []string) ([]Protein, error)
	searchTaxonFn func(ctx context.Context, name string, taxonID int) ([]Protein, error)
	idsByNameFn   func(ctx context.Context, name string) ([]NameHit, error)
	groupFn       func(ctx context.Context, ns Namespace, key string, shape Shape) (Group, error)
	groupsTaxonFn func(ctx context.Context, taxonID int, shape Shape) ([]Group, error)
	kineticsFn    func(ctx context.Context, ids []string) ([]Kinetics, error)
	likeFn        func(ctx context.Context, id string) ([]Protein, error)
	equivFn       func(ctx context.Context, ns Namespace, id string, opts Options) (ProteinResult, error)
	anchorFn      func(ctx context.Context, ns Namespace, id string, opts Options) (ProteinResult, error)
	manyFn        func(ctx context.Context, ns Namespace, ids []string, opts Options, concurrency int) ([]ProteinResult, error)
	canonicalFn   func(ctx context.Context, ns Namespace, key, anchor string, maxDistance int) ([]CanonicalBucket, error)
	proximityFn   func(ctx context.Context, id string, maxDistance int) ([]ProximityBucket, error)
}

func (m *mockProteinUC) ByID(ctx context.Context, id string) (Protein, error) { return m.byIDFn(ctx, id) }

func (m *mockProteinUC) Meta(ctx context.Context, ids []string) ([]Protein, error) {
	return m.metaFn(ctx, ids)
}

func (m *mockProteinUC) SearchByNameInTaxon(ctx context.Context, name string, taxonID int) ([]Protein, error) {
	return m.searchTaxonFn(ctx, name, taxonID)
}

func (m *mockProteinUC) IDsByName(ctx context.Context, name string) ([]NameHit, error) {
	return m.idsByNameFn(ctx, name)
}

func (m *mockProteinUC) Group(ctx context.Context, ns Namespace, key string, shape Shape) (Group, error) {
	return m.groupFn(ctx, ns, key, shape)
}

func (m *mockProteinUC) GroupsByTaxon(ctx context.Context, taxonID int, shape Shape) ([]Group, error) {
	return m.groupsTaxonFn(ctx, taxonID, shape)
}

func (m *mockProteinUC) Kinetics(ctx context.Context, ids []string) ([]Kinetics, error) {
	return m.kineticsFn(ctx, ids)
}

func (m *mockProteinUC) AbundancesLikeProtein(ctx context.Context, id string) ([]Protein, error) {
	return m.likeFn(ctx, id)
}

func (m *mockProteinUC) Equivalents(ctx context.Context, ns Namespace, id string, opts Options) (ProteinResult, error) {
	return m.equivFn(ctx, ns, id, opts)
}

func (m *mockProteinUC) EquivalentsWithAnchor(
	ctx context.Context, ns Namespace, id string, opts Options,
) (ProteinResult, error) {
	return m.anchorFn(ctx, ns, id, opts)
}

func (m *mockProteinUC) EquivalentsMany(
	ctx context.Context, ns Namespace, ids []string, opts Options, concurrency int,
) ([]ProteinResult, error) {
	return m.manyFn(ctx, ns, ids, opts, concurrency)
}

func (m *mockProteinUC) CanonicalDistances(
	ctx context.Context, ns Namespace, key, anchor string, maxDistance int,
) ([]CanonicalBucket, error) {
	return m.canonicalFn(ctx, ns, key, anchor, maxDistance)
}

func (m *mockProteinUC) Proximity(ctx context.Context, id string, maxDistance int) ([]ProximityBucket, error) {
	return m.proximityFn(ctx, id, maxDistance)
}

// --- rnaUseCase mock ---

type mockRNAUC struct {
	locusFn   func(ctx context.Context, name string, from, size int) (RNAPage, error)
	proteinFn func(ctx context.Context, name string, from, size int) (RNAPage, error)
	groupFn   func(ctx context.Context, ns Namespace, key string, from, size int) (RNAPage, error)
}

func (m *mockRNAUC) ByOrderedLocusName(ctx context.Context, name string, from, size int) (RNAPage, error) {
	return m.locusFn(ctx, name, from, size)
}

func (m *mockRNAUC) ByProteinName(ctx context.Context, name string, from, size int) (RNAPage, error) {
	return m.proteinFn(ctx, name, from, size)
}

func (m *mockRNAUC) ByGroup(ctx context.Context, ns Namespace, key string, from, size int) (RNAPage, error) {
	return m.groupFn(ctx, ns, key, from, size)
}

// --- observationUseCase mock ---

type mockObservationUC struct {
	fn func(ctx context.Context, id Identifier, limit, skip int) ([]Observation, error)
}

func (m *mockObservationUC) ProteinHalfLives(ctx context.Context, id Identifier, limit, skip int) ([]Observation, error) {
	return m.fn(ctx, id, limit, skip)
}

// --- infrastructure mocks ---

type mockStore struct {
	pingErr error
	closed  bool
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }
func (m *mockStore) Close()                     { m.closed = true }

type mockSchemaUC struct {
	created []string
	err     error
}

func (m *mockSchemaUC) Ensure(context.Context) ([]string, error) { return m.created, m.err }

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

func testClient(taxa *mockTaxonUC, proteins *mockProteinUC) *Client {
	return &Client{
		store:       &mockStore{},
		taxa:        taxa,
		proteins:    proteins,
		rna:         &mockRNAUC{},
		obsSvc:      &mockObservationUC{},
		schema:      &mockSchemaUC{},
		healthSvc:   &mockHealthUC{},
		concurrency: 4,
	}
}
