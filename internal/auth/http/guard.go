package http

import (
	"errors"
	"net/http"

	"github.com/campfirehq/campfire/internal/auth/service"
	"github.com/campfirehq/campfire/pkg/httpx"
)

// Caller-facing authorization failure messages. These are deliberately
// generic; operators get the detail from logs, callers don't.
const (
	msgInvalidToken  = "Invalid or missing authentication token"
	msgUserNotFound  = "User account not found. Please login again."
	msgUserLocked    = "User account is locked. Please contact support."
	msgAuthzInternal = "An error occurred during authorization"
)

// RequireRoles guards an endpoint with a live role re-check. It must be
// mounted after AuthnMiddleware so the verified claims are in context; a
// missing subject maps to the same 401 as a bad token.
func RequireRoles(guard *service.GuardService, required []string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var subject string
			if claims, ok := httpx.ClaimsFromContext(r.Context()); ok {
				subject = claims.Subject
			}

			err := guard.Authorize(r.Context(), subject, required)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, service.ErrInvalidSubject):
				httpx.WriteStatus(w, http.StatusUnauthorized, msgInvalidToken)
			case errors.Is(err, service.ErrUserNotFound):
				httpx.WriteStatus(w, http.StatusUnauthorized, msgUserNotFound)
			case errors.Is(err, service.ErrUserLocked):
				httpx.WriteStatus(w, http.StatusUnauthorized, msgUserLocked)
			case errors.Is(err, service.ErrForbidden):
				// No body: don't leak which roles exist or were required.
				w.WriteHeader(http.StatusForbidden)
			default:
				// Already logged by the guard with full context.
				httpx.WriteStatus(w, http.StatusUnauthorized, msgAuthzInternal)
			}
		})
	}
}
