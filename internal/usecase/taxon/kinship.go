package taxon

import (
	"github.com/kailas-cloud/bioquery/internal/domain/lineage"
	domtaxon "github.com/kailas-cloud/bioquery/internal/domain/taxon"
)

// Sentinel ancestor names.
const (
	SelfAncestor     = "self"
	NoCommonAncestor = "No common ancestor"
)

// Kinship is the nearest common ancestor of two organisms and the number of
// edges from each organism up to it.
type Kinship struct {
	Ancestor   string `json:"ancestor"`
	AncestorID int    `json:"ancestor_id,omitempty"`
	Distances  [2]int `json:"distances"`
}

// Related reports whether the organisms share an ancestor.
func (k Kinship) Related() bool { return k.Distances[0] >= 0 }

func unrelated() Kinship {
	return Kinship{Ancestor: NoCommonAncestor, Distances: [2]int{-1, -1}}
}

func kinshipOf(a, b domtaxon.Node) Kinship {
	if a.ID() == b.ID() {
		return Kinship{Ancestor: SelfAncestor, AncestorID: a.ID()}
	}
	rel, ok := lineage.Between(a.Path(), b.Path())
	if !ok {
		return unrelated()
	}
	name, _ := a.NameOf(rel.Common)
	return Kinship{Ancestor: name, AncestorID: rel.Common, Distances: rel.Distances}
}

// CanonicalKinship relates two species through their canonical (ranked)
// ancestor names. The chains exclude the species themselves.
func CanonicalKinship(anchor, other string, anchorCanon, otherCanon []string) Kinship {
	if anchor == other {
		return Kinship{Ancestor: SelfAncestor}
	}
	rel, ok := lineage.Between(lineage.Extend(anchorCanon, anchor), lineage.Extend(otherCanon, other))
	if !ok {
		return unrelated()
	}
	return Kinship{Ancestor: rel.Common, Distances: rel.Distances}
}
