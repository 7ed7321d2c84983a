package protein

import (
	"github.com/kailas-cloud/bioquery/internal/db"
	"github.com/kailas-cloud/bioquery/internal/domain"
)

// Query names of the indexed protein fields.
const (
	fieldUniprotID  = "uniprot_id"
	fieldKO         = "ko_number"
	fieldOrthoDB    = "orthodb_id"
	fieldTaxon      = "taxon"
	fieldAncestor   = "anc_id"
	fieldObserved   = "abu_exist"
)

// textFields are searched by free-text queries.
var textFields = []string{"protein_name", "gene_name", "entry_name", "ko_name"}

// Index returns the search schema of the protein collection.
// Observational data is filtered on the boolean abu_exist marker, indexed
// as a tag ("true"/"false").
func Index() *db.IndexDefinition {
	return db.NewIndex(domain.CollectionProtein).
		Tag("$.uniprot_id", fieldUniprotID).Sortable().
		Tag("$.ko_number", fieldKO).
		Tag("$.orthodb_id", fieldOrthoDB).
		Numeric("$.ncbi_taxonomy_id", fieldTaxon).Sortable().
		Numeric("$.ancestor_taxon_id[*]", fieldAncestor).
		Tag("$.abu_exist", fieldObserved).
		Text("$.protein_name", "protein_name").
		Text("$.gene_name", "gene_name").
		Text("$.entry_name", "entry_name").
		Text("$.ko_name[*]", "ko_name").
		MustBuild()
}
