package middleware

import (
	"net/http"
	"strings"

	"papermorph/internal/httputil"
)

// SessionVerifier resolves a bearer token to a user ID. The editor ships with
// a single shared-secret verifier; a real identity provider slots in behind
// the same interface.
type SessionVerifier interface {
	Verify(token string) (userID string, err error)
}

// Auth middleware extracts the bearer token, verifies it, and stores the
// resulting user ID in the request context. Requests without a token proceed
// as the anonymous user so the editor works without sign-in.
func Auth(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, httputil.WithUserID(r, ""))
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid session token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
