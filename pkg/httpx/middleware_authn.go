package httpx

import (
	"net/http"
	"strings"

	"github.com/campfirehq/campfire/pkg/jwtx"
	"github.com/campfirehq/campfire/pkg/slogx"
)

const msgInvalidToken = "Invalid or missing authentication token"

// AuthnMiddleware verifies the bearer credential and injects the claims into
// the request context. Verification only proves the token is authentic and
// unexpired; whether the subject is still allowed anything is the guard's
// job downstream.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				WriteStatus(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				log.Warn("jwt verify failed", "err", err)
				WriteStatus(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			if err := claims.ValidateExpiry(); err != nil {
				WriteStatus(w, http.StatusUnauthorized, msgInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithAuth(r.Context(), claims)))
		})
	}
}
