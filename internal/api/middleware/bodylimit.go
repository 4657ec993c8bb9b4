package middleware

import (
	"net/http"

	"github.com/roleatlas/roleatlas/internal/pkg/httputil"
)

// DefaultMaxBodySize is the default maximum request body size (1MB).
// Requirement payloads are short lists of permission strings; anything
// near this limit is malformed or abusive.
const DefaultMaxBodySize = 1 << 20

// BodyLimit returns a middleware that limits the request body size.
// If maxBytes is not positive, the default of 1MB is used.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				httputil.RequestTooLarge(w, r, maxBytes)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
