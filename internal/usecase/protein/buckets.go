package protein

import domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"

// CanonicalMatch is a group member with the canonical ancestry used to place it.
type CanonicalMatch struct {
	domprotein.Protein
	CanonicalAncestors []string `json:"canon_ancestors"`
}

// CanonicalBucket holds the group members at one canonical distance from
// the anchor species.
type CanonicalBucket struct {
	Distance  int              `json:"distance"`
	Documents []CanonicalMatch `json:"documents"`
}

// ProximityBucket holds proteins whose own taxon is the reference's ancestor
// at Distance.
type ProximityBucket struct {
	Distance      int                  `json:"distance"`
	AncestorNames []string             `json:"ancestor_names"`
	Documents     []domprotein.Protein `json:"documents"`
}
