package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	healthuc "github.com/kailas-cloud/bioquery/internal/usecase/health"
)

// Limits bound request parameters.
type Limits struct {
	DefaultMaxDistance int
	MaxDistance        int // 0 disables the cap
	DefaultPageSize    int
	MaxPageSize        int // 0 disables the cap
}

// Server serves the read-only query API.
type Server struct {
	taxa     TaxonQueries
	proteins ProteinQueries
	rna      RNAQueries
	health   HealthChecker
	limits   Limits
}

// NewServer creates an HTTP API server.
func NewServer(
	taxa TaxonQueries,
	proteins ProteinQueries,
	rna RNAQueries,
	health HealthChecker,
	limits Limits,
) *Server {
	if limits.DefaultMaxDistance <= 0 {
		limits.DefaultMaxDistance = 3
	}
	if limits.DefaultPageSize <= 0 {
		limits.DefaultPageSize = 10
	}
	return &Server{
		taxa:     taxa,
		proteins: proteins,
		rna:      rna,
		health:   health,
		limits:   limits,
	}
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.Stats)

		r.Route("/taxa", func(r chi.Router) {
			r.Get("/ids", s.TaxonIDs)
			r.Get("/names", s.TaxonNames)
			r.Get("/ancestors", s.TaxonAncestors)
			r.Get("/ranks", s.TaxonRanks)
			r.Get("/common-ancestor", s.CommonAncestor)
			r.Get("/{id}/equivalents", s.TaxonEquivalents)
		})

		r.Route("/proteins", func(r chi.Router) {
			r.Get("/", s.ProteinMeta)
			r.Get("/search", s.ProteinGroupsByText)
			r.Get("/taxon/{taxon_id}", s.ProteinGroupsByTaxon)
			r.Get("/{id}", s.Protein)
			r.Get("/{id}/equivalents", s.ProteinEquivalents)
			r.Get("/{id}/kinetics", s.ProteinKinetics)
			r.Get("/{id}/abundance-like", s.AbundanceLike)
			r.Get("/{id}/proximity", s.ProteinProximity)
		})

		r.Route("/groups/{namespace}/{key}", func(r chi.Router) {
			r.Get("/", s.Group)
			r.Get("/distances", s.GroupDistances)
		})

		r.Route("/rna", func(r chi.Router) {
			r.Get("/locus/{name}", s.RNAByLocus)
			r.Get("/groups/{namespace}/{key}", s.RNAByGroup)
		})
	})
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                  `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`

	MissingIndexes []string `json:"missing_indexes,omitempty"`
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status:         report.Status,
		Checks:         report.Checks,
		MissingIndexes: report.MissingIndexes,
	})
}

// StatsResponse is the body of GET /v1/stats.
type StatsResponse struct {
	Taxa            int `json:"taxa"`
	UniqueProteins  int `json:"unique_proteins"`
	UniqueOrganisms int `json:"unique_organisms"`
}

// Stats handles GET /v1/stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	var resp StatsResponse
	var err error
	if resp.Taxa, err = s.taxa.Count(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	if resp.UniqueProteins, err = s.proteins.UniqueProteins(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	if resp.UniqueOrganisms, err = s.proteins.UniqueOrganisms(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
