package domain_test

import (
	"testing"

	"github.com/campfirehq/campfire/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestParseRoleList(t *testing.T) {
	t.Run("splits on semicolons", func(t *testing.T) {
		require.Equal(t, []string{"Admin", "Moderator"}, domain.ParseRoleList("Admin;Moderator"))
	})

	t.Run("trims whitespace and drops empties", func(t *testing.T) {
		require.Equal(t, []string{"Admin", "User"}, domain.ParseRoleList(" Admin ;; User ;"))
	})

	t.Run("empty string yields no roles", func(t *testing.T) {
		require.Empty(t, domain.ParseRoleList(""))
		require.Empty(t, domain.ParseRoleList(" ; ; "))
	})
}

func TestRolesIntersect(t *testing.T) {
	t.Run("direct match", func(t *testing.T) {
		require.True(t, domain.RolesIntersect([]string{"User", "Admin"}, []string{"Admin"}))
	})

	t.Run("case-insensitive match", func(t *testing.T) {
		require.True(t, domain.RolesIntersect([]string{"admin"}, []string{"Admin"}))
		require.True(t, domain.RolesIntersect([]string{"ADMIN"}, []string{"admin"}))
	})

	t.Run("no overlap", func(t *testing.T) {
		require.False(t, domain.RolesIntersect([]string{"User"}, []string{"Admin", "Moderator"}))
	})

	t.Run("empty sets never intersect", func(t *testing.T) {
		require.False(t, domain.RolesIntersect(nil, []string{"Admin"}))
		require.False(t, domain.RolesIntersect([]string{"Admin"}, nil))
		require.False(t, domain.RolesIntersect(nil, nil))
	})
}
