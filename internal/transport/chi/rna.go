package chi

import "net/http"

// RNAByLocus handles GET /v1/rna/locus/{name}.
func (s *Server) RNAByLocus(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := pathParam(r, "name", &name); err != nil {
		handleError(w, r, err)
		return
	}
	from, size, err := s.page(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	page, err := s.rna.ByOrderedLocusName(r.Context(), name, from, size)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// RNAByGroup handles GET /v1/rna/groups/{namespace}/{key}.
func (s *Server) RNAByGroup(w http.ResponseWriter, r *http.Request) {
	ns, key, err := groupPath(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	from, size, err := s.page(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	page, err := s.rna.ByGroup(r.Context(), ns, key, from, size)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
