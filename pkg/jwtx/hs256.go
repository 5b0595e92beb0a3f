package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the smallest signing secret we accept. HMAC-SHA-256
// keys shorter than the hash output weaken the MAC.
const MinSecretLength = 32

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrShortSecret = errors.New("jwtx: signing secret too short")
)

// Verifier validates a JWT and gives you back the claims if it's legit.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// HS256 signs and verifies tokens with a single shared HMAC-SHA-256 secret.
// The secret is loaded once at startup and never changes for the life of the
// process, so the type is safe for concurrent use without locking.
type HS256 struct {
	secret   []byte
	issuer   string
	audience string
}

// NewHS256 wraps a symmetric signing secret. It rejects short secrets so a
// misconfigured deployment fails at startup rather than shipping weak tokens.
func NewHS256(secret []byte, issuer, audience string) (*HS256, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrShortSecret
	}
	return &HS256{secret: secret, issuer: issuer, audience: audience}, nil
}

// Sign takes your claims and turns them into a signed JWT string.
func (h *HS256) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(h.secret)
}

// Verify validates the JWT string and returns its parsed Claims. Issuer and
// audience are enforced when the HS256 instance was configured with them.
func (h *HS256) Verify(tokenStr string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if h.issuer != "" {
		opts = append(opts, jwt.WithIssuer(h.issuer))
	}
	if h.audience != "" {
		opts = append(opts, jwt.WithAudience(h.audience))
	}

	parser := jwt.NewParser(opts...)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return h.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	return *claims, nil
}
