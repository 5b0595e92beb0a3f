package domain

import "time"

// TokenPair is what the login and refresh endpoints return: the short-lived
// access token (JWT), the opaque refresh secret, and the access token expiry
// as Unix seconds so the caller can schedule its refresh.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Expires      int64  `json:"expires"`
}

// RefreshToken models the stored refresh secret record. Only the SHA-256
// fingerprint of the opaque secret is persisted.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
