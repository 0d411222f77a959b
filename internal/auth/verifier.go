// Package auth provides session verification for the API surface.
//
// The editor is a single-user tool by default, so the shipped verifier checks
// one shared secret from the environment and maps it to a stable user ID.
// Anything smarter (OIDC, JWKS) implements middleware.SessionVerifier and
// replaces it in the composition root.
package auth

import (
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidToken is returned when the presented token does not match.
var ErrInvalidToken = errors.New("invalid session token")

// StaticVerifier accepts exactly one shared-secret token. The user ID is
// derived from the token so it stays stable across restarts.
type StaticVerifier struct {
	token  string
	userID string
}

// NewStaticVerifier creates a verifier for the given token. An empty token
// disables verification: every presented token is rejected, and only
// anonymous access works.
func NewStaticVerifier(token string) *StaticVerifier {
	v := &StaticVerifier{token: token}
	if token != "" {
		v.userID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(token)).String()
	}
	return v
}

// Verify implements middleware.SessionVerifier.
func (v *StaticVerifier) Verify(token string) (string, error) {
	if v.token == "" {
		return "", ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(v.token)) != 1 {
		return "", ErrInvalidToken
	}
	return v.userID, nil
}
