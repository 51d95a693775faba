// Package services – TokenIssuer
//
// Signed bearer tokens for API clients. Tokens are HMAC-SHA256 JWTs whose
// only custom claim is the account ID; everything else a handler needs is
// loaded from the database per request.
package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a presented token fails verification.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenIssuer mints and verifies account tokens.
type TokenIssuer struct {
	Secret []byte
	TTL    time.Duration
}

type accountClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Issue returns a signed token for the account.
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now().UTC()
	claims := accountClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
}

// Verify parses the token and returns the account ID it was issued for.
func (t *TokenIssuer) Verify(token string) (string, error) {
	var claims accountClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return t.Secret, nil
	})
	if err != nil || !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
