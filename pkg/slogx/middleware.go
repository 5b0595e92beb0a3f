package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/campfirehq/campfire/pkg/idx"
)

// accessRecorder captures the status code and body size for the access log
// entry without changing handler behaviour.
type accessRecorder struct {
	http.ResponseWriter

	status int
	bytes  int
}

func (a *accessRecorder) WriteHeader(code int) {
	a.status = code
	a.ResponseWriter.WriteHeader(code)
}

func (a *accessRecorder) Write(p []byte) (int, error) {
	n, err := a.ResponseWriter.Write(p)
	a.bytes += n
	return n, err
}

// HTTPMiddleware attaches a request-scoped logger to the context and emits one
// access log line per request once the handler returns.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Honour an upstream request ID if the proxy set one.
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = idx.New().String()
			}

			logger := base.With(
				"req_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			// Spelled out here because importing httpx for its header
			// constant would cycle.
			if clientID := r.Header.Get("X-ClientId"); clientID != "" {
				logger = logger.With("client_id", clientID)
			}

			rec := &accessRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(WithContext(r.Context(), logger)))

			logger.Info("http_request",
				"status", rec.status,
				"bytes", rec.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
