package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired peeks at a bearer token without verifying it. The token is
// treated as opaque everywhere else; this is only used to refine a 401
// into "session expired" when the server happens to issue JWTs with an exp
// claim. A token that is not a JWT, or carries no expiry, reports false.
func tokenExpired(token string, now time.Time) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
