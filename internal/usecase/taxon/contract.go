package taxon

import (
	"context"

	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

// Repository defines the storage contract for taxonomic nodes.
type Repository interface {
	NodeLookup
	GetMany(ctx context.Context, ids []int) ([]domtaxon.Node, error)
	GetByName(ctx context.Context, name string) (domtaxon.Node, error)
	SearchIDs(ctx context.Context, text string) ([]int, error)
	EachAtLevel(ctx context.Context, q equivalence.LevelQuery, fn func(domtaxon.Node) error) error
	EachSpeciesName(ctx context.Context, fn func(string) error) error
	Count(ctx context.Context) (int, error)
}

// NodeLookup resolves a single node by id. The lineage cache implements it.
type NodeLookup interface {
	Get(ctx context.Context, id int) (domtaxon.Node, error)
}
