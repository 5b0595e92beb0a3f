package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// RefreshSecretSize is the byte length of refresh secrets before encoding.
// 64 bytes gives 512 bits of entropy, which is deliberately oversized; the
// secret is long-lived and never derived from anything else.
const RefreshSecretSize = 64

// GenerateSecret creates a random secret of the given byte length from the
// operating system CSPRNG, returned as standard base64. Anything other than
// crypto/rand here is a security bug, not an optimisation opportunity.
func GenerateSecret(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: secret size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: read random: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}

// GenerateRefreshSecret mints an opaque refresh secret at the standard size.
func GenerateRefreshSecret() (string, error) {
	return GenerateSecret(RefreshSecretSize)
}

// Fingerprint returns a deterministic SHA-256 fingerprint of a secret,
// base64url encoded. We store fingerprints in the database so a leaked table
// never yields usable secrets, while lookups stay a single indexed query.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
