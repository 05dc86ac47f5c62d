package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"simas/respond"
)

// BearerWrites guards only the mutating methods of a handler that
// multiplexes reads and writes on one route: GET/HEAD/OPTIONS pass through,
// everything else requires the token.
func BearerWrites(token string, next http.HandlerFunc) http.HandlerFunc {
	guarded := Bearer(token, next)
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next(w, r)
		default:
			guarded(w, r)
		}
	}
}

// Bearer guards a handler with a static bearer token. An empty configured
// token disables the check so a fresh install works without setup.
func Bearer(token string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		presented, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			respond.Error(w, http.StatusUnauthorized, "Token tidak valid.")
			return
		}
		next(w, r)
	}
}
