package bioquery

import (
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	"github.com/kailas-cloud/bioquery/internal/domain/grouping"
	domobs "github.com/kailas-cloud/bioquery/internal/domain/observation"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
	domrna "github.com/kailas-cloud/bioquery/internal/domain/rna"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
	proteinuc "github.com/kailas-cloud/bioquery/internal/usecase/protein"
	taxonuc "github.com/kailas-cloud/bioquery/internal/usecase/taxon"
)

// Taxonomy types.
type (
	Taxon      = domtaxon.Node
	Rank       = domtaxon.Rank
	Kinship    = taxonuc.Kinship
	TaxonMatch = equivalence.Match[domtaxon.Node]
)

// Protein types.
type (
	Protein         = domprotein.Protein
	Kinetics        = domprotein.Kinetics
	NameHit         = domprotein.NameHit
	Namespace       = domprotein.Namespace
	Group           = grouping.Group
	Shape           = grouping.Shape
	CanonicalBucket = proteinuc.CanonicalBucket
	ProximityBucket = proteinuc.ProximityBucket
)

// RNA and observation types.
type (
	RNARecord   = domrna.Record
	RNAPage     = domrna.Page
	Observation = domobs.Observation
	Identifier  = domobs.Identifier
)

// Equivalence search types.
type (
	Options       = equivalence.Options
	Status        = equivalence.Status
	TaxonResult   = equivalence.Result[domtaxon.Node]
	ProteinResult = equivalence.Result[domprotein.Protein]
)

// Group namespaces.
const (
	NamespaceKEGG    = domprotein.NamespaceKEGG
	NamespaceOrthoDB = domprotein.NamespaceOrthoDB
)

// Group member shapes.
const (
	Members  = grouping.Members
	Presence = grouping.Presence
)

// Search outcomes.
const (
	StatusOK                = equivalence.StatusOK
	StatusReferenceNotFound = equivalence.StatusReferenceNotFound
	StatusNoGroupKey        = equivalence.StatusNoGroupKey
)

// Unbounded disables the depth limit of an equivalence search.
const Unbounded = equivalence.Unbounded

// Kinship ancestor names for identical and unrelated organisms.
const (
	SelfAncestor     = taxonuc.SelfAncestor
	NoCommonAncestor = taxonuc.NoCommonAncestor
)

// NewOptions returns search options with the given distance and no depth limit.
func NewOptions(maxDistance int) Options {
	return equivalence.NewOptions(maxDistance)
}
