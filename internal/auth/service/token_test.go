package service_test

import (
	"context"
	"testing"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := seedUser(t, st, "alice", "password123")

	t.Run("pair carries a verifiable token", func(t *testing.T) {
		pair, err := svc.Issue(u, []string{"User"})
		require.NoError(t, err)
		require.NotEmpty(t, pair.Token)
		require.NotEmpty(t, pair.RefreshToken)
		require.Positive(t, pair.Expires)

		claims, err := svc.Signer.Verify(pair.Token)
		require.NoError(t, err)
		require.Equal(t, u.ID, claims.Subject)
		require.Equal(t, []string{"User"}, claims.Roles)
		require.Equal(t, domain.UserTypeStandard, claims.UserType)
		require.Equal(t, pair.Expires, claims.ExpiresAt.Unix())
	})

	t.Run("refresh secrets never repeat", func(t *testing.T) {
		// Same identity, same instant: the secret is pure CSPRNG output and
		// must differ anyway.
		a, err := svc.Issue(u, nil)
		require.NoError(t, err)
		b, err := svc.Issue(u, nil)
		require.NoError(t, err)

		require.NotEqual(t, a.RefreshToken, b.RefreshToken)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	seedUser(t, st, "alice", "password123")

	t.Run("valid credentials", func(t *testing.T) {
		pair, err := svc.Login(ctx, "alice", "password123")
		require.NoError(t, err)
		require.NotEmpty(t, pair.Token)
		require.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "alice", "password124")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user is indistinguishable", func(t *testing.T) {
		_, err := svc.Login(ctx, "mallory", "password123")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestLoginLockedAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := seedUser(t, st, "alice", "password123")
	lockUser(t, st, u.ID)

	_, err := svc.Login(ctx, "alice", "password123")
	require.ErrorIs(t, err, service.ErrAccountLocked)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	seedUser(t, st, "alice", "password123")

	pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	t.Run("rotates the secret", func(t *testing.T) {
		next, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.NotEqual(t, pair.RefreshToken, next.RefreshToken)

		// The presented secret died in the rotation.
		_, err = svc.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidRefresh)

		// The replacement is live.
		_, err = svc.Refresh(ctx, next.RefreshToken)
		require.NoError(t, err)
	})

	t.Run("unknown secret", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "no-such-secret")
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})
}

func TestRefreshLockedAccount(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	u := seedUser(t, st, "alice", "password123")

	pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	// Lockout revokes outstanding refresh secrets, so the presented secret is
	// already dead before the lockout check is reached.
	lockUser(t, st, u.ID)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newTokenService(t, st)
	seedUser(t, st, "alice", "password123")

	pair, err := svc.Login(ctx, "alice", "password123")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, pair.RefreshToken))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)

	t.Run("revoking an unknown secret", func(t *testing.T) {
		err := svc.Revoke(ctx, "no-such-secret")
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})
}
