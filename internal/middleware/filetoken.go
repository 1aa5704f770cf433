package middleware

import (
	"context"
	"net/http"

	"github.com/supan/storage-service/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// FilePathKey is the context key for the storage path a verified token grants.
const FilePathKey contextKey = "filePath"

// TokenVerifier resolves a capability token to the storage path it grants.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireFileToken returns middleware that validates the capability token in
// the "token" query parameter and injects the granted storage path into the
// request context. The visible route is never consulted for authorization —
// only the token's bound path matters. Every failure mode (absent, malformed,
// forged, expired) yields the same 401 so callers learn nothing about why.
func RequireFileToken(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.URL.Query().Get("token")
			if token == "" {
				response.Unauthorized(w, "access denied")
				return
			}

			path, err := tokens.Verify(token)
			if err != nil {
				response.Unauthorized(w, "access denied")
				return
			}

			ctx := context.WithValue(r.Context(), FilePathKey, path)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
