package auth_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	env := setupDefaultEnv(t)

	t.Run("livez", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/livez", "", nil,
			map[string]string{"X-ClientId": ""})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		require.Equal(t, "ok", body["status"])
		require.NotEmpty(t, body["uptime"])
		require.Equal(t, "e2e", body["version"])
	})

	t.Run("readyz", func(t *testing.T) {
		resp := env.request(t, http.MethodGet, "/readyz", "", nil,
			map[string]string{"X-ClientId": ""})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		require.Equal(t, "ok", body["status"])
	})
}
