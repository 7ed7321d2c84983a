package chi

import (
	"net/http"

	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
)

// ProteinMeta handles GET /v1/proteins?uniprot_id=.
func (s *Server) ProteinMeta(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := queryParam(r, "uniprot_id", true, &ids); err != nil {
		handleError(w, r, err)
		return
	}
	docs, err := s.proteins.Meta(r.Context(), ids)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// Protein handles GET /v1/proteins/{id}.
func (s *Server) Protein(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		handleError(w, r, err)
		return
	}
	p, err := s.proteins.ByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ProteinEquivalents handles GET /v1/proteins/{id}/equivalents.
func (s *Server) ProteinEquivalents(w http.ResponseWriter, r *http.Request) {
	var id string
	var anchor *bool
	if err := pathParam(r, "id", &id); err != nil {
		handleError(w, r, err)
		return
	}
	ns, err := namespaceParam(r, false)
	if err != nil {
		handleError(w, r, err)
		return
	}
	opts, err := s.equivalenceOptions(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := queryParam(r, "anchor", false, &anchor); err != nil {
		handleError(w, r, err)
		return
	}

	var res equivalence.Result[domprotein.Protein]
	if anchor != nil && *anchor {
		res, err = s.proteins.EquivalentsWithAnchor(r.Context(), ns, id, opts)
	} else {
		res, err = s.proteins.Equivalents(r.Context(), ns, id, opts)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, equivalenceToResponse(res, proteinToResponse))
}

// ProteinGroupsByText handles GET /v1/proteins/search?text=.
func (s *Server) ProteinGroupsByText(w http.ResponseWriter, r *http.Request) {
	var text string
	if err := queryParam(r, "text", true, &text); err != nil {
		handleError(w, r, err)
		return
	}
	shape, err := shapeParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	groups, err := s.proteins.GroupsByText(r.Context(), text, shape)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(groups))
}

// ProteinGroupsByTaxon handles GET /v1/proteins/taxon/{taxon_id}.
func (s *Server) ProteinGroupsByTaxon(w http.ResponseWriter, r *http.Request) {
	var taxonID int
	if err := pathParam(r, "taxon_id", &taxonID); err != nil {
		handleError(w, r, err)
		return
	}
	shape, err := shapeParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	groups, err := s.proteins.GroupsByTaxon(r.Context(), taxonID, shape)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(groups))
}

// ProteinKinetics handles GET /v1/proteins/{id}/kinetics.
func (s *Server) ProteinKinetics(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		handleError(w, r, err)
		return
	}
	k, err := s.proteins.Kinetics(r.Context(), []string{id})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(k))
}

// AbundanceLike handles GET /v1/proteins/{id}/abundance-like.
func (s *Server) AbundanceLike(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		handleError(w, r, err)
		return
	}
	docs, err := s.proteins.AbundancesLikeProtein(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(docs))
}

// ProteinProximity handles GET /v1/proteins/{id}/proximity.
func (s *Server) ProteinProximity(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := pathParam(r, "id", &id); err != nil {
		handleError(w, r, err)
		return
	}
	d, err := s.distance(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	buckets, err := s.proteins.Proximity(r.Context(), id, d)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(buckets))
}

// Group handles GET /v1/groups/{namespace}/{key}.
func (s *Server) Group(w http.ResponseWriter, r *http.Request) {
	ns, key, err := groupPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	shape, err := shapeParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	g, err := s.proteins.Group(r.Context(), ns, key, shape)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GroupDistances handles GET /v1/groups/{namespace}/{key}/distances?anchor=.
func (s *Server) GroupDistances(w http.ResponseWriter, r *http.Request) {
	ns, key, err := groupPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var anchor string
	if err := queryParam(r, "anchor", true, &anchor); err != nil {
		handleError(w, r, err)
		return
	}
	d, err := s.distance(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	buckets, err := s.proteins.CanonicalDistances(r.Context(), ns, key, anchor, d)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(buckets))
}

func groupPath(r *http.Request) (domprotein.Namespace, string, error) {
	ns, err := namespaceParam(r, true)
	if err != nil {
		return "", "", err
	}
	var key string
	if err := pathParam(r, "key", &key); err != nil {
		return "", "", err
	}
	return ns, key, nil
}
