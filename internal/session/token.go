package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired reports whether the stored token is a JWT whose exp claim is
// already in the past. Signature verification is deliberately skipped: the
// backend is the authority, this is only a cheap pre-check so startup can skip
// a round trip that is guaranteed to 401. Tokens that do not parse as JWTs are
// treated as live and left for the backend to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(now)
}

// tokenSubject extracts the subject claim from a JWT without verifying it.
// Used as a last-resort owner id when neither the live session nor the
// persisted account projection carries one. Returns "" for opaque tokens.
func tokenSubject(token string) string {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
