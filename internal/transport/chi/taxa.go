package chi

import (
	"net/http"
	"strconv"

	"github.com/kailas-cloud/bioquery/internal/domain"
)

// TaxonIDs handles GET /v1/taxa/ids?name=.
func (s *Server) TaxonIDs(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := queryParam(r, "name", true, &name); err != nil {
		handleError(w, r, err)
		return
	}
	ids, err := s.taxa.IDsByName(r.Context(), name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "ids": nonNil(ids)})
}

// TaxonNames handles GET /v1/taxa/names?id=&id=.
func (s *Server) TaxonNames(w http.ResponseWriter, r *http.Request) {
	var ids []int
	if err := queryParam(r, "id", true, &ids); err != nil {
		handleError(w, r, err)
		return
	}
	names, err := s.taxa.NamesByIDs(r.Context(), ids)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids, "names": names})
}

// AncestorsResponse lists ancestor chains, root first, one per input.
type AncestorsResponse struct {
	IDs   [][]int    `json:"ancestor_ids"`
	Names [][]string `json:"ancestor_names"`
}

// TaxonAncestors handles GET /v1/taxa/ancestors?id= or ?name=.
func (s *Server) TaxonAncestors(w http.ResponseWriter, r *http.Request) {
	var ids *[]int
	var names *[]string
	if err := queryParam(r, "id", false, &ids); err != nil {
		handleError(w, r, err)
		return
	}
	if err := queryParam(r, "name", false, &names); err != nil {
		handleError(w, r, err)
		return
	}

	var (
		resp AncestorsResponse
		err  error
	)
	switch {
	case ids != nil && names != nil:
		err = domain.InvalidArgument("pass either id or name, not both")
	case ids != nil:
		resp.IDs, resp.Names, err = s.taxa.AncestorsByID(r.Context(), *ids)
	case names != nil:
		resp.IDs, resp.Names, err = s.taxa.AncestorsByName(r.Context(), *names)
	default:
		err = domain.InvalidArgument("id or name is required")
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TaxonRanks handles GET /v1/taxa/ranks?id=.
func (s *Server) TaxonRanks(w http.ResponseWriter, r *http.Request) {
	var ids []int
	if err := queryParam(r, "id", true, &ids); err != nil {
		handleError(w, r, err)
		return
	}
	ranks, err := s.taxa.Ranks(r.Context(), ids)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ids": ids, "ranks": ranks})
}

// CommonAncestor handles GET /v1/taxa/common-ancestor?org1=&org2=&by=name|id.
func (s *Server) CommonAncestor(w http.ResponseWriter, r *http.Request) {
	var org1, org2 string
	var by *string
	for _, p := range []struct {
		name string
		dest *string
	}{{"org1", &org1}, {"org2", &org2}} {
		if err := queryParam(r, p.name, true, p.dest); err != nil {
			handleError(w, r, err)
			return
		}
	}
	if err := queryParam(r, "by", false, &by); err != nil {
		handleError(w, r, err)
		return
	}

	mode := "name"
	if by != nil {
		mode = *by
	}

	switch mode {
	case "name":
		k, err := s.taxa.CommonAncestorByName(r.Context(), org1, org2)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, k)
	case "id":
		a, errA := strconv.Atoi(org1)
		b, errB := strconv.Atoi(org2)
		if errA != nil || errB != nil {
			handleError(w, r, domain.InvalidArgument("org1 and org2 must be taxon ids when by=id"))
			return
		}
		k, err := s.taxa.CommonAncestorByID(r.Context(), a, b)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, k)
	default:
		handleError(w, r, domain.InvalidArgument("by must be name or id, got %q", mode))
	}
}

// TaxonEquivalents handles GET /v1/taxa/{id}/equivalents.
func (s *Server) TaxonEquivalents(w http.ResponseWriter, r *http.Request) {
	var id int
	if err := pathParam(r, "id", &id); err != nil {
		handleError(w, r, err)
		return
	}
	opts, err := s.equivalenceOptions(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	res, err := s.taxa.Equivalents(r.Context(), id, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, equivalenceToResponse(res, taxonToResponse))
}
