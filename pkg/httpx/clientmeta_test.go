package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestResolvedAddress(t *testing.T) {
	t.Run("extracts host from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, "192.168.1.1", httpx.ResolvedAddress(req))
	})

	t.Run("prefers first X-Forwarded-For entry", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

		require.Equal(t, "203.0.113.5", httpx.ResolvedAddress(req))
	})

	t.Run("falls back past a whitespace-only header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		req.Header.Set("X-Forwarded-For", "   ")

		require.Equal(t, "10.0.0.1", httpx.ResolvedAddress(req))
	})
}

func TestPathExemptions(t *testing.T) {
	exempt := httpx.NewPathExemptions("/swagger", "/livez", "/ws/signal")

	t.Run("prefix match", func(t *testing.T) {
		require.True(t, exempt.Match("/swagger/index.html"))
		require.True(t, exempt.Match("/ws/signal/room-7"))
	})

	t.Run("case-insensitive", func(t *testing.T) {
		require.True(t, exempt.Match("/Swagger/index.html"))
		require.True(t, exempt.Match("/LIVEZ"))
	})

	t.Run("non-exempt path", func(t *testing.T) {
		require.False(t, exempt.Match("/v1/userinfo"))
	})
}

func TestClientContextMiddleware(t *testing.T) {
	exempt := httpx.NewPathExemptions("/livez")

	var captured httpx.Fingerprint
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = httpx.FingerprintFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := httpx.ClientContextMiddleware(exempt)(next)

	t.Run("resolves and stores the fingerprint", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/userinfo", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-ClientId", "web")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, httpx.Fingerprint{ClientID: "web", Address: "192.168.1.1"}, captured)
		require.Equal(t, "192.168.1.1:web", captured.CompositeKey())
	})

	t.Run("rejects missing client id before anything else", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/userinfo", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t,
			`{"status":false,"message":"Unable to verify request sender."}`,
			rec.Body.String())
	})

	t.Run("rejects unresolvable origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/userinfo", nil)
		req.RemoteAddr = ""
		req.Header.Set("X-ClientId", "web")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t,
			`{"status":false,"message":"Unable to verify request origin."}`,
			rec.Body.String())
	})

	t.Run("exempt path skips attribution", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/livez", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})
}
