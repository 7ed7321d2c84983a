package protein

import (
	"context"

	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

// Repository defines the storage contract for proteins.
type Repository interface {
	Get(ctx context.Context, uniprotID string) (domprotein.Protein, error)
	Each(ctx context.Context, q domprotein.Query, fn func(domprotein.Protein) error) error
	List(ctx context.Context, q domprotein.Query) ([]domprotein.Protein, error)
	Count(ctx context.Context, q domprotein.Query) (int, error)
	UniqueProteins(ctx context.Context) (int, error)
	UniqueOrganisms(ctx context.Context) (int, error)
}

// Taxonomy resolves organisms referenced by proteins.
type Taxonomy interface {
	IDsByName(ctx context.Context, name string) ([]int, error)
	Node(ctx context.Context, id int) (domtaxon.Node, error)
	NodeByName(ctx context.Context, name string) (domtaxon.Node, error)
}
