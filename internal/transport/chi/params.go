package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/bioquery/internal/domain"
	"github.com/kailas-cloud/bioquery/internal/domain/equivalence"
	"github.com/kailas-cloud/bioquery/internal/domain/grouping"
	domprotein "github.com/kailas-cloud/bioquery/internal/domain/protein"
)

// pathParam binds a simple-style path parameter into dest.
func pathParam(r *http.Request, name string, dest any) error {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dest,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return paramError(name, err)
	}
	return nil
}

// queryParam binds a form-style, exploded query parameter into dest.
// Optional parameters bind into a pointer and stay nil when absent.
func queryParam(r *http.Request, name string, required bool, dest any) error {
	if err := runtime.BindQueryParameter("form", true, required, name, r.URL.Query(), dest); err != nil {
		return paramError(name, err)
	}
	return nil
}

func paramError(name string, err error) error {
	return fmt.Errorf("%w: parameter %q: %s", domain.ErrInvalidArgument, name, err.Error())
}

// distance resolves max_distance against the configured default and cap.
func (s *Server) distance(r *http.Request) (int, error) {
	var d *int
	if err := queryParam(r, "max_distance", false, &d); err != nil {
		return 0, err
	}
	if d == nil {
		return s.limits.DefaultMaxDistance, nil
	}
	if s.limits.MaxDistance > 0 && *d > s.limits.MaxDistance {
		return 0, domain.InvalidArgument("max_distance %d exceeds the limit of %d", *d, s.limits.MaxDistance)
	}
	return *d, nil
}

// equivalenceOptions reads max_distance and max_depth. An absent max_depth
// means no depth limit; an explicit value is validated by the engine.
func (s *Server) equivalenceOptions(r *http.Request) (equivalence.Options, error) {
	d, err := s.distance(r)
	if err != nil {
		return equivalence.Options{}, err
	}
	opts := equivalence.NewOptions(d)

	var depth *int
	if err := queryParam(r, "max_depth", false, &depth); err != nil {
		return equivalence.Options{}, err
	}
	if depth != nil {
		opts.MaxDepth = *depth
	}
	return opts, nil
}

func shapeParam(r *http.Request) (grouping.Shape, error) {
	var presence *bool
	if err := queryParam(r, "presence", false, &presence); err != nil {
		return grouping.Members, err
	}
	if presence != nil && *presence {
		return grouping.Presence, nil
	}
	return grouping.Members, nil
}

// namespaceParam reads a namespace from the path, or from the query with
// KEGG as default.
func namespaceParam(r *http.Request, fromPath bool) (domprotein.Namespace, error) {
	var raw string
	if fromPath {
		if err := pathParam(r, "namespace", &raw); err != nil {
			return "", err
		}
	} else {
		var q *string
		if err := queryParam(r, "namespace", false, &q); err != nil {
			return "", err
		}
		if q == nil {
			return domprotein.NamespaceKEGG, nil
		}
		raw = *q
	}
	ns, err := domprotein.ParseNamespace(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownNamespace, err.Error())
	}
	return ns, nil
}

// page reads from/size with the configured default and cap.
func (s *Server) page(r *http.Request) (from, size int, err error) {
	var f, sz *int
	if err := queryParam(r, "from", false, &f); err != nil {
		return 0, 0, err
	}
	if err := queryParam(r, "size", false, &sz); err != nil {
		return 0, 0, err
	}
	size = s.limits.DefaultPageSize
	if sz != nil {
		size = *sz
	}
	if f != nil {
		from = *f
	}
	if from < 0 || size < 1 {
		return 0, 0, domain.InvalidArgument("from must be >= 0 and size >= 1, got from=%d size=%d", from, size)
	}
	if s.limits.MaxPageSize > 0 && size > s.limits.MaxPageSize {
		return 0, 0, domain.InvalidArgument("size %d exceeds the limit of %d", size, s.limits.MaxPageSize)
	}
	return from, size, nil
}
