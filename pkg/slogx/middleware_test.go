package slogx_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campfirehq/campfire/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Downstream handlers get the request-scoped logger.
		slogx.FromContext(r.Context()).Info("inner")

		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("0123456789"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/userinfo", nil)
	req.Header.Set("X-ClientId", "web")
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, "0123456789", rec.Body.String())

	logged := buf.String()
	require.Contains(t, logged, `"msg":"inner"`)
	require.Contains(t, logged, `"msg":"http_request"`)
	require.Contains(t, logged, `"req_id":"req-42"`)
	require.Contains(t, logged, `"client_id":"web"`)
	require.Contains(t, logged, `"status":418`)
	require.Contains(t, logged, `"bytes":10`)
}

func TestHTTPMiddlewareGeneratesRequestID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/livez", nil))

	require.Contains(t, buf.String(), `"req_id":"`)
}
