package service

import (
	"context"
	"errors"
	"time"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/pkg/cryptox"
	"github.com/campfirehq/campfire/pkg/idx"
	"github.com/campfirehq/campfire/pkg/jwtx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrAccountLocked      = errors.New("account_locked")
)

// TokenService mints access credentials and manages the refresh path. The
// signer is constructed once at startup from the configured secret; Issue
// itself has no side effects.
type TokenService struct {
	Signer     *jwtx.HS256
	Store      store.Store
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issue builds and signs an access credential for the identity plus a fresh
// opaque refresh secret. It is a pure function of its inputs; persisting the
// refresh secret's fingerprint is the caller's job.
func (s *TokenService) Issue(u domain.User, roles []string) (domain.TokenPair, error) {
	now := time.Now().UTC()

	claims := jwtx.NewAccessClaims(
		u.ID,
		u.Email,
		u.DisplayName,
		u.UserType,
		roles,
		s.AccessTTL,
		s.Issuer,
		s.Audience,
		now,
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := cryptox.GenerateRefreshSecret()
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		Token:        token,
		RefreshToken: refresh,
		Expires:      now.Add(s.AccessTTL).Unix(),
	}, nil
}

// Login verifies the credentials and issues a token pair, persisting the
// refresh secret's fingerprint. Unknown users and wrong passwords are
// indistinguishable to the caller.
func (s *TokenService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("login password verification failed", "user_id", u.ID)
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	if u.IsLockedOut(now) {
		l.Info("login rejected for locked account", "user_id", u.ID)
		return domain.TokenPair{}, ErrAccountLocked
	}

	roles, err := s.Store.Roles().ListForUser(ctx, u.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.Issue(u, roles)
	if err != nil {
		return domain.TokenPair{}, err
	}

	if err := s.persistRefresh(ctx, u.ID, pair.RefreshToken, now); err != nil {
		return domain.TokenPair{}, err
	}

	return pair, nil
}

// Refresh exchanges a valid refresh secret for a new token pair, rotating
// the secret. The user's existence and lockout state are re-checked so a
// locked or deleted account cannot keep refreshing.
func (s *TokenService) Refresh(ctx context.Context, refreshSecret string) (domain.TokenPair, error) {
	now := time.Now().UTC()

	fp := cryptox.Fingerprint(refreshSecret)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}

	if rt.Revoked || now.After(rt.ExpiresAt) {
		return domain.TokenPair{}, ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.TokenPair{}, ErrInvalidRefresh
		}
		return domain.TokenPair{}, err
	}

	if u.IsLockedOut(now) {
		return domain.TokenPair{}, ErrAccountLocked
	}

	roles, err := s.Store.Roles().ListForUser(ctx, u.ID)
	if err != nil {
		return domain.TokenPair{}, err
	}

	pair, err := s.Issue(u, roles)
	if err != nil {
		return domain.TokenPair{}, err
	}

	// Rotate: revoke the presented secret and persist the new fingerprint in
	// one transaction so a crash can't leave both live.
	newRow := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.Fingerprint(pair.RefreshToken),
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, newRow)
	})
	if err != nil {
		return domain.TokenPair{}, err
	}

	return pair, nil
}

// Revoke invalidates a single refresh secret (logout).
func (s *TokenService) Revoke(ctx context.Context, refreshSecret string) error {
	err := s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.Fingerprint(refreshSecret))
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidRefresh
	}
	return err
}

func (s *TokenService) persistRefresh(ctx context.Context, userID, refreshSecret string, now time.Time) error {
	return s.Store.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.Fingerprint(refreshSecret),
		ExpiresAt: now.Add(s.RefreshTTL),
	})
}
