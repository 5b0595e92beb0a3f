package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/campfirehq/campfire/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestSigner(t *testing.T) *jwtx.HS256 {
	t.Helper()

	h, err := jwtx.NewHS256([]byte(testSecret), "auth-service", "campfire")
	require.NoError(t, err)
	return h
}

func TestNewHS256(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		_, err := jwtx.NewHS256([]byte("too-short"), "auth-service", "campfire")
		require.ErrorIs(t, err, jwtx.ErrShortSecret)
	})

	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := jwtx.NewHS256(nil, "auth-service", "campfire")
		require.ErrorIs(t, err, jwtx.ErrShortSecret)
	})

	t.Run("accepts 32-byte secret", func(t *testing.T) {
		_, err := jwtx.NewHS256([]byte(testSecret), "auth-service", "campfire")
		require.NoError(t, err)
	})
}

func TestHS256SignVerify(t *testing.T) {
	h := newTestSigner(t)
	now := time.Now().UTC()

	claims := jwtx.NewAccessClaims(
		"01ARZ3NDEKTSV4RRFFQ69G5FAV",
		"alice@example.com", "Alice",
		1,
		[]string{"User", "Admin"},
		15*time.Minute,
		"auth-service", "campfire",
		now,
	)

	token, err := h.Sign(claims)
	require.NoError(t, err)
	require.Equal(t, 3, len(strings.Split(token, ".")))

	t.Run("round trip preserves claims", func(t *testing.T) {
		got, err := h.Verify(token)
		require.NoError(t, err)

		require.Equal(t, "01ARZ3NDEKTSV4RRFFQ69G5FAV", got.Subject)
		require.Equal(t, "alice@example.com", got.Email)
		require.Equal(t, "Alice", got.DisplayName)
		require.Equal(t, 1, got.UserType)
		require.Equal(t, []string{"User", "Admin"}, got.Roles)
		require.NoError(t, got.ValidateExpiry())
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		_, err := h.Verify(token + "x")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := h.Verify("not-a-token")
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		other, err := jwtx.NewHS256([]byte("ffffffffffffffffffffffffffffffff"), "auth-service", "campfire")
		require.NoError(t, err)

		_, err = other.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := jwtx.NewAccessClaims(
			"01ARZ3NDEKTSV4RRFFQ69G5FAV",
			"", "", 1, nil,
			-time.Minute,
			"auth-service", "campfire",
			now.Add(-time.Hour),
		)

		signed, err := h.Sign(expired)
		require.NoError(t, err)

		_, err = h.Verify(signed)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other := jwtx.NewAccessClaims(
			"01ARZ3NDEKTSV4RRFFQ69G5FAV",
			"", "", 1, nil,
			15*time.Minute,
			"chat-service", "campfire",
			now,
		)

		signed, err := h.Sign(other)
		require.NoError(t, err)

		_, err = h.Verify(signed)
		require.ErrorIs(t, err, jwtx.ErrMalformed)
	})
}
