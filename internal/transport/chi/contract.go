package chi

import (
	"context"

	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	"github.com/kailas-cloud/bioquery/internal/domain/grouping"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domrna "github.com/kailas-cloud/bioquery/internal/domain/rna"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
	healthuc "github.com/kailas-cloud/bioquery/internal/usecase/health"
	proteinuc "github.com/kailas-cloud/bioquery/internal/usecase/protein"
	taxonuc "github.com/kailas-cloud/bioquery/internal/usecase/taxon"
)

// TaxonQueries is the taxonomy surface served over HTTP.
type TaxonQueries interface {
	IDsByName(ctx context.Context, name string) ([]int, error)
	NamesByIDs(ctx context.Context, ids []int) ([]string, error)
	AncestorsByID(ctx context.Context, ids []int) ([][]int, [][]string, error)
	AncestorsByName(ctx context.Context, names []string) ([][]int, [][]string, error)
	Ranks(ctx context.Context, ids []int) ([]string, error)
	CommonAncestorByName(ctx context.Context, a, b string) (taxonuc.Kinship, error)
	CommonAncestorByID(ctx context.Context, a, b int) (taxonuc.Kinship, error)
	Equivalents(ctx context.Context, id int, opts equivalence.Options) (equivalence.Result[domtaxon.Node], error)
	Count(ctx context.Context) (int, error)
}

// ProteinQueries is the protein surface served over HTTP.
type ProteinQueries interface {
	Meta(ctx context.Context, ids []string) ([]domprotein.Protein, error)
	ByID(ctx context.Context, id string) (domprotein.Protein, error)
	GroupsByText(ctx context.Context, text string, shape grouping.Shape) ([]grouping.Group, error)
	GroupsByTaxon(ctx context.Context, taxonID int, shape grouping.Shape) ([]grouping.Group, error)
	Group(ctx context.Context, ns domprotein.Namespace, key string, shape grouping.Shape) (grouping.Group, error)
	Kinetics(ctx context.Context, ids []string) ([]domprotein.Kinetics, error)
	AbundancesLikeProtein(ctx context.Context, id string) ([]domprotein.Protein, error)
	Equivalents(
		ctx context.Context, ns domprotein.Namespace, id string, opts equivalence.Options,
	) (equivalence.Result[domprotein.Protein], error)
	EquivalentsWithAnchor(
		ctx context.Context, ns domprotein.Namespace, id string, opts equivalence.Options,
	) (equivalence.Result[domprotein.Protein], error)
	CanonicalDistances(
		ctx context.Context, ns domprotein.Namespace, key, anchor string, maxDistance int,
	) ([]proteinuc.CanonicalBucket, error)
	Proximity(ctx context.Context, id string, maxDistance int) ([]proteinuc.ProximityBucket, error)
	UniqueProteins(ctx context.Context) (int, error)
	UniqueOrganisms(ctx context.Context) (int, error)
}

// RNAQueries is the RNA half-life surface served over HTTP.
type RNAQueries interface {
	ByOrderedLocusName(ctx context.Context, name string, from, size int) (domrna.Page, error)
	ByGroup(ctx context.Context, ns domprotein.Namespace, key string, from, size int) (domrna.Page, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
