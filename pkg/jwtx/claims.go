package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the default lifetime for access tokens.
// Short-lived for security; the refresh path exists so callers never need a
// long-lived credential.
const DefaultAccessTokenTTL = 15 * time.Minute

// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
const DefaultRefreshTokenTTL = 30 * 24 * time.Hour

// Claims are the access-token claims for the whole service. Keep changes
// additive so older tokens stay parseable for their remaining lifetime.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`

	// DisplayName for the user.
	DisplayName string `json:"name,omitempty"`

	// UserType is a numeric account-class tag (0 is reserved for unknown).
	UserType int `json:"utype,omitempty"`

	// Roles the user held when the token was minted. These are informational
	// for clients; authorization always re-checks the store, so a stale list
	// here never widens access.
	Roles []string `json:"roles,omitempty"`
}

// NewAccessClaims builds minimally-correct claims.
func NewAccessClaims(
	subject string,
	email, displayName string,
	userType int,
	roles []string,
	ttl time.Duration,
	issuer, audience string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       email,
		DisplayName: displayName,
		UserType:    userType,
		Roles:       roles,
	}
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used before
// it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
