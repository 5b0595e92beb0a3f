package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/pkg/idx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

// Guard outcomes. The HTTP layer maps these to status codes and the exact
// caller-facing messages; anything else coming out of Authorize is an
// internal fault and must be downgraded to ErrGuardInternal before it
// reaches a response body.
var (
	ErrInvalidSubject = errors.New("guard: invalid subject")
	ErrUserNotFound   = errors.New("guard: user not found")
	ErrUserLocked     = errors.New("guard: user locked")
	ErrForbidden      = errors.New("guard: role mismatch")
	ErrGuardInternal  = errors.New("guard: internal fault")
)

// GuardService re-derives a caller's authorization from live store state on
// every protected request. The access credential only tells us who the
// caller claimed to be when it was minted; existence, lockout and role
// membership are re-checked here so deletion, lockout or a role change takes
// effect immediately, not at token expiry.
type GuardService struct {
	Store store.Store
}

// Authorize runs the per-request authorization state machine, terminal on
// the first matching exit. The required set comes from endpoint
// configuration, semicolon-delimited; matching is case-insensitive.
func (s *GuardService) Authorize(ctx context.Context, subject string, required []string) error {
	l := slogx.FromContext(ctx)

	// 1. The subject must be a well-formed identifier.
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return ErrInvalidSubject
	}
	if _, err := idx.Parse(subject); err != nil {
		return ErrInvalidSubject
	}

	// 2. The account must still exist. This specifically covers deletion
	// after the token was issued.
	u, err := s.Store.Users().GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		l.Error("guard identity lookup failed",
			"subject", subject,
			"required_roles", required,
			"err", err,
		)
		return ErrGuardInternal
	}

	// 3. Lockout beats everything, including token claims that would pass.
	if u.IsLockedOut(time.Now().UTC()) {
		return ErrUserLocked
	}

	// 4. Roles come from the store, never from the token.
	live, err := s.Store.Roles().ListForUser(ctx, u.ID)
	if err != nil {
		l.Error("guard role lookup failed",
			"subject", subject,
			"required_roles", required,
			"live_roles", live,
			"err", err,
		)
		return ErrGuardInternal
	}

	// 5. Admit on any intersection with the required set.
	if domain.RolesIntersect(live, required) {
		return nil
	}

	l.Warn("guard role mismatch",
		"subject", subject,
		"required_roles", required,
		"live_roles", live,
	)
	return ErrForbidden
}
