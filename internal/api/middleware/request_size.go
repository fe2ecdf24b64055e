package middleware

import (
	"net/http"
)

// DefaultMaxBodySize bounds incoming request bodies. Event payloads and
// roster mutations are small; anything past 1MB is malformed or hostile.
const DefaultMaxBodySize int64 = 1 << 20

// RequestSize limits the size of incoming request bodies.
//
// It wraps the request body with http.MaxBytesReader to enforce the
// limit. If the body exceeds maxBytes, reads fail and the handler's
// JSON decode reports a client error.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
