package rna

import (
	"context"

	domrna "github.com/kailas-cloud/bioquery/internal/domain/rna"
)

// Repository defines the storage contract for RNA half-life records.
type Repository interface {
	Page(ctx context.Context, l domrna.Lookup) (domrna.Page, error)
}
