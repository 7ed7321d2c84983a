package taxon

import (
	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
)

// Query names of the indexed taxon fields.
const (
	fieldID       = "tax_id"
	fieldName     = "tax_name"
	fieldNameTag  = "name"
	fieldRank     = "rank"
	fieldAncestor = "anc_id"
)

// Index returns the search schema of the taxon collection.
// The name is indexed twice: TEXT for phrase search and TAG for exact,
// case-insensitive lookups.
func Index() *db.IndexDefinition {
	return db.NewIndex(domain.CollectionTaxon).
		Numeric("$.tax_id", fieldID).Sortable().
		Text("$.tax_name", fieldName).
		Tag("$.tax_name", fieldNameTag).
		Tag("$.rank", fieldRank).Missing().
		Numeric("$.anc_id[*]", fieldAncestor).
		MustBuild()
}
