// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides BearerAuth, an opportunistic authentication middleware.
// The API serves both anonymous and authenticated traffic on the same routes:
// uploads work without an account, but a valid token attaches the caller's
// identity so results land in their history. Verification is therefore soft:
// a missing or invalid token never rejects the request, it just leaves the
// request anonymous.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenVerifier checks a bearer token and returns the account ID it was
// issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth extracts a bearer token from the Authorization header and, when
// it verifies, stores the account ID in the Gin context under "userID".
//
// Invalid tokens are logged at debug level via the request-scoped logger and
// otherwise ignored. Handlers that require an identity enforce that
// themselves; this middleware only establishes who the caller is when it can.
func BearerAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		if raw == "" || v == nil {
			c.Next()
			return
		}

		token := raw
		if len(raw) > 7 && strings.EqualFold(raw[:7], "Bearer ") {
			token = strings.TrimSpace(raw[7:])
		}

		uid, err := v.Verify(token)
		if err != nil {
			LoggerFrom(c).Debug().Err(err).Msg("ignoring unverifiable bearer token")
			c.Next()
			return
		}
		c.Set("userID", uid)
		c.Next()
	}
}
