package domain

import "time"

// Account-class tags carried in the token's utype claim. Zero is reserved so
// the zero value never passes for a real tag.
const (
	UserTypeUnknown  = 0
	UserTypeStandard = 1
	UserTypeService  = 2
)

type User struct {
	ID             string
	Username       string
	DisplayName    string
	Email          string
	PasswordHash   string // argon2id encoded
	UserType       int
	LockoutEnabled bool
	LockoutEnd     *time.Time // nil means indefinite while LockoutEnabled is set
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsLockedOut reports whether the account is locked at the given instant.
// Lockout must be enabled and either have no expiry or one still in the
// future.
func (u User) IsLockedOut(now time.Time) bool {
	if !u.LockoutEnabled {
		return false
	}
	return u.LockoutEnd == nil || now.Before(*u.LockoutEnd)
}
