package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	httpapi "github.com/campfirehq/campfire/internal/auth/http"
	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/internal/auth/store"
	"github.com/campfirehq/campfire/internal/auth/store/drivers/sqlite"
	"github.com/campfirehq/campfire/pkg/httpx"
	"github.com/campfirehq/campfire/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * Common constants and helper functions for auth service end-to-end tests.
 * The whole pipeline runs in-process against a throwaway sqlite database:
 * request logging, fingerprint resolution, rate limiting, authentication
 * and the role guard, exactly as wired in production.
 */

const (
	signingSecret = "e2e-signing-secret-0123456789abcdef"

	adminUsername = "admin"
	adminPassword = "Admin123!"

	testClientID = "e2e-client"
)

// loosePolicy keeps rate limiting out of the way for tests that exercise
// other behaviour. Rate limit tests pass their own policies.
var loosePolicy = httpx.RateLimitPolicy{Limit: 10000, Window: time.Minute}

type testEnv struct {
	Server *httptest.Server
	Store  store.Store
	Signer *jwtx.HS256
}

// setupEnv builds the full service with the given rate limit policies and
// returns the running test server.
func setupEnv(t *testing.T, addrPolicy, clientPolicy httpx.RateLimitPolicy) *testEnv {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL",
		filepath.Join(t.TempDir(), "auth.db"))
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })

	signer, err := jwtx.NewHS256([]byte(signingSecret), "auth-service", "campfire")
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router, err := httpapi.NewRouter(httpapi.Config{
		Verifier:      signer,
		BuildVersion:  "e2e",
		ExemptPaths: []string{
			"/swagger", "/livez", "/readyz",
			"/v1/auth/login", "/v1/auth/register", "/v1/auth/refresh",
			"/ws/signal",
		},
		AddressPolicy: addrPolicy,
		ClientPolicy:  clientPolicy,
		MemberRoles:   "User;Admin;Moderator",
		AdminRoles:    "Admin;Moderator",
	}, st, logger)
	require.NoError(t, err)

	router.TokenService = &service.TokenService{
		Signer:     signer,
		Store:      st,
		Issuer:     "auth-service",
		Audience:   "campfire",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
	router.UserService = &service.UserService{Store: st}
	router.GuardService = &service.GuardService{Store: st}
	router.ApplyRoutes()

	require.NoError(t, router.UserService.EnsureBaseline(ctx, adminUsername, adminPassword))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{Server: srv, Store: st, Signer: signer}
}

func setupDefaultEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupEnv(t, loosePolicy, loosePolicy)
}

// request performs an HTTP call against the test server. A non-empty token
// is attached as a bearer credential; the standard client id header is
// always set unless headers overrides it.
func (e *testEnv) request(t *testing.T, method, path, token string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, e.Server.URL+path, reader)
	require.NoError(t, err)

	req.Header.Set("X-ClientId", testClientID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		if v == "" {
			req.Header.Del(k)
		} else {
			req.Header.Set(k, v)
		}
	}

	resp, err := e.Server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

type tokenPair struct {
	Token        string
	RefreshToken string
	Expires      int64
}

// register creates a user through the public endpoint and returns its id.
func (e *testEnv) register(t *testing.T, username, password string) string {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/v1/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["status"])
	require.NotEmpty(t, body["id"])
	return body["id"].(string)
}

// login exchanges credentials for a token pair, asserting success.
func (e *testEnv) login(t *testing.T, username, password string) tokenPair {
	t.Helper()

	resp := e.request(t, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	require.Equal(t, true, body["status"])
	require.NotEmpty(t, body["token"])
	require.NotEmpty(t, body["refreshToken"])
	require.Greater(t, body["expires"].(float64), float64(time.Now().Unix()))

	return tokenPair{
		Token:        body["token"].(string),
		RefreshToken: body["refreshToken"].(string),
		Expires:      int64(body["expires"].(float64)),
	}
}

// assertStatusMessage checks the standard status envelope.
func assertStatusMessage(t *testing.T, resp *http.Response, code int, message string) {
	t.Helper()

	require.Equal(t, code, resp.StatusCode)
	body := decodeBody(t, resp)
	require.Equal(t, false, body["status"])
	require.Equal(t, message, body["message"])
}
