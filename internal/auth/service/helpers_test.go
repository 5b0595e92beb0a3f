package service_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/internal/auth/store/drivers/sqlite"
	"github.com/campfirehq/campfire/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSigningSecret = "0123456789abcdef0123456789abcdef"

// newTestStore spins up a throwaway sqlite store with migrations applied.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "auth.db"))

	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	return st
}

func newTokenService(t *testing.T, st store.Store) *service.TokenService {
	t.Helper()

	signer, err := jwtx.NewHS256([]byte(testSigningSecret), "auth-service", "campfire")
	require.NoError(t, err)

	return &service.TokenService{
		Signer:     signer,
		Store:      st,
		Issuer:     "auth-service",
		Audience:   "campfire",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

// seedUser registers a user through the normal path and swaps its baseline
// "User" role for the given ones when any are named.
func seedUser(t *testing.T, st store.Store, username, password string, roles ...string) domain.User {
	t.Helper()
	ctx := context.Background()

	users := &service.UserService{Store: st}
	require.NoError(t, users.EnsureBaseline(ctx, "", ""))

	u, err := users.Register(ctx, username, password, username, username+"@example.com")
	require.NoError(t, err)

	for _, name := range roles {
		role, err := st.Roles().GetRoleByName(ctx, name)
		require.NoError(t, err)
		require.NoError(t, st.Roles().AssignRole(ctx, u.ID, role.ID))
	}

	return u
}

func lockUser(t *testing.T, st store.Store, userID string) {
	t.Helper()

	users := &service.UserService{Store: st}
	require.NoError(t, users.SetLockout(context.Background(), userID, true, nil))
}
