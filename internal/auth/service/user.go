package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/pkg/cryptox"
	"github.com/campfirehq/campfire/pkg/idx"
)

// Baseline role labels seeded at startup.
const (
	RoleAdmin     = "Admin"
	RoleModerator = "Moderator"
	RoleUser      = "User"
)

var (
	ErrUsernameTaken   = errors.New("username_taken")
	ErrInvalidRegister = errors.New("invalid_registration")
)

type UserService struct {
	Store store.Store
}

// Register creates a standard user with the baseline "User" role.
func (s *UserService) Register(ctx context.Context, username, password, displayName, email string) (domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return domain.User{}, ErrInvalidRegister
	}
	if displayName == "" {
		displayName = username
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Username:     username,
		DisplayName:  displayName,
		Email:        strings.TrimSpace(email),
		PasswordHash: hash,
		UserType:     domain.UserTypeStandard,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		role, err := tx.Roles().GetRoleByName(ctx, RoleUser)
		if err != nil {
			return err
		}
		return tx.Roles().AssignRole(ctx, u.ID, role.ID)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrUsernameTaken
		}
		return domain.User{}, err
	}

	return u, nil
}

// List returns all users for the admin surface.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// SetLockout locks or unlocks an account. Locking also revokes the user's
// refresh secrets so the account can't mint new credentials while locked;
// outstanding access tokens die at the guard's re-check.
func (s *UserService) SetLockout(ctx context.Context, userID string, locked bool, until *time.Time) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().SetLockout(ctx, userID, locked, until); err != nil {
			return err
		}
		if locked {
			return tx.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
		}
		return nil
	})
}

// EnsureBaseline seeds the baseline roles and, when the store is empty and
// admin credentials are configured, an initial administrator account.
func (s *UserService) EnsureBaseline(ctx context.Context, adminUsername, adminPassword string) error {
	for _, name := range []string{RoleAdmin, RoleModerator, RoleUser} {
		_, err := s.Store.Roles().GetRoleByName(ctx, name)
		if errors.Is(err, store.ErrNotFound) {
			err = s.Store.Roles().CreateRole(ctx, domain.Role{
				ID:   idx.New().String(),
				Name: name,
			})
		}
		if err != nil {
			return err
		}
	}

	if adminUsername == "" || adminPassword == "" {
		return nil
	}

	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil || !empty {
		return err
	}

	hash, err := cryptox.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := domain.User{
		ID:           idx.New().String(),
		Username:     adminUsername,
		DisplayName:  adminUsername,
		PasswordHash: hash,
		UserType:     domain.UserTypeStandard,
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, admin); err != nil {
			return err
		}
		role, err := tx.Roles().GetRoleByName(ctx, RoleAdmin)
		if err != nil {
			return err
		}
		return tx.Roles().AssignRole(ctx, admin.ID, role.ID)
	})
}
