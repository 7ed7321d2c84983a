package chi

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"slices"
	"strings"
)

// Probes and scrapers reach these without a key.
var publicPaths = []string{"/health", "/metrics"}

var (
	errNoCredentials = errors.New("missing authorization header")
	errNotBearer     = errors.New("authorization header must use Bearer scheme")
	errBadKey        = errors.New("invalid api key")
)

// apiKeys is the set of accepted bearer tokens.
type apiKeys [][]byte

func newAPIKeys(keys []string) apiKeys {
	var out apiKeys
	for _, k := range keys {
		if k != "" {
			out = append(out, []byte(k))
		}
	}
	return out
}

// verify checks r's bearer token. Every key is compared in constant time.
func (k apiKeys) verify(r *http.Request) error {
	header := r.Header.Get("Authorization")
	if header == "" {
		return errNoCredentials
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return errNotBearer
	}
	match := 0
	for _, key := range k {
		match |= subtle.ConstantTimeCompare(key, []byte(token))
	}
	if match != 1 {
		return errBadKey
	}
	return nil
}

// BearerAuthMiddleware requires one of apiKeys as a Bearer token outside the
// public paths. Blank keys are ignored; with none left it is a no-op.
func BearerAuthMiddleware(keys []string) func(http.Handler) http.Handler {
	accepted := newAPIKeys(keys)
	return func(next http.Handler) http.Handler {
		if len(accepted) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if slices.Contains(publicPaths, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if err := accepted.verify(r); err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="bioquery"`)
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
