package api

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"
)

// Wildcard grants a token every tenant
const Wildcard = "*"

// Tokens maps a bearer token to the tenants it may act on. An empty map
// disables authentication.
type Tokens map[string][]string

// Allows reports whether token may act on tenant
func (t Tokens) Allows(token, tenant string) bool {
	if len(t) == 0 {
		return true
	}
	tenants, ok := t[token]
	if !ok {
		return false
	}
	return slices.Contains(tenants, Wildcard) || slices.Contains(tenants, tenant)
}

// known reports whether the token is accepted at all
func (t Tokens) known(token string) bool {
	if len(t) == 0 {
		return true
	}
	_, ok := t[token]
	return ok
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// authorize answers 401 for an unknown token and 403 for a tenant the token
// does not cover. It reports whether the request may proceed.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, tenant string) bool {
	token := bearerToken(r)
	if !s.tokens.known(token) {
		writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing or unknown bearer token")
		return false
	}
	if !s.tokens.Allows(token, tenant) {
		s.logger.Warn("tenant access denied", "tenant", tenant, "path", r.URL.Path)
		writeError(w, http.StatusForbidden, CodeUnauthorized, "token has no rights over tenant "+tenant)
		return false
	}
	return true
}

func (s *Server) requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.authorize(w, r, mux.Vars(r)["tenant"]) {
			next.ServeHTTP(w, r)
		}
	})
}

// requireOwner resolves the tenant owning the {id} in the path before
// authorizing. Unknown ids answer 404 only to callers with a valid token.
func (s *Server) requireOwner(tenantOf func(ctx context.Context, id string) (string, error)) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !s.tokens.known(bearerToken(r)) {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing or unknown bearer token")
				return
			}
			tenant, err := tenantOf(r.Context(), mux.Vars(r)["id"])
			if err != nil {
				s.writeFailure(w, r, err)
				return
			}
			if s.authorize(w, r, tenant) {
				next.ServeHTTP(w, r)
			}
		})
	}
}
