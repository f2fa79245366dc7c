package middleware

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader carries the service-to-service key
const APIKeyHeader = "X-API-Key"

// APIKeyMiddleware guards internal routes called by other services
//
// An empty configured key rejects every request, so internal routes stay closed
// until API_KEY is set.
func APIKeyMiddleware(apiKey string) func(http.Handler) http.Handler {
	expected := []byte(apiKey)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if len(expected) == 0 || provided == "" {
				writeAuthError(w, http.StatusUnauthorized, "invalid or missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
				writeAuthError(w, http.StatusUnauthorized, "invalid or missing API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
