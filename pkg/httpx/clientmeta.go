package httpx

import (
	"net"
	"net/http"
	"strings"

	"github.com/campfirehq/campfire/pkg/slogx"
)

// Request headers carrying caller identity.
const (
	HeaderClientID     = "X-ClientId"
	HeaderForwardedFor = "X-Forwarded-For"
)

// Rejection messages for requests we cannot attribute to a caller. These are
// part of the API contract; clients match on them.
const (
	msgUnverifiableSender = "Unable to verify request sender."
	msgUnverifiableOrigin = "Unable to verify request origin."
)

// PathExemptions is a case-insensitive prefix allow-list for paths that skip
// client attribution and rate limiting: health probes, docs, the login and
// registration endpoints themselves, and realtime-signaling upgrades.
// Infrastructure traffic should not be gated on client headers.
type PathExemptions struct {
	prefixes []string
}

// NewPathExemptions builds an exemption list. Prefixes are matched
// case-insensitively against the request path.
func NewPathExemptions(prefixes ...string) *PathExemptions {
	lowered := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &PathExemptions{prefixes: lowered}
}

// Match reports whether the path is exempt.
func (e *PathExemptions) Match(path string) bool {
	p := strings.ToLower(path)
	for _, prefix := range e.prefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// DeclaredClientID returns the caller's self-declared client identifier.
func DeclaredClientID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(HeaderClientID))
}

// ResolvedAddress returns the best-effort network address for the request:
// the first entry of X-Forwarded-For when a proxy set it, otherwise the
// transport-level peer address.
func ResolvedAddress(r *http.Request) string {
	if xff := r.Header.Get(HeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

// ClientContextMiddleware resolves the caller fingerprint and stores it in
// the request context. Requests that cannot be attributed are rejected with
// 400 before they reach rate limiting or business logic; exempt paths bypass
// the check entirely.
func ClientContextMiddleware(exempt *PathExemptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt.Match(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			log := slogx.FromContext(r.Context())

			clientID := DeclaredClientID(r)
			if clientID == "" {
				log.Warn("request missing client id header", "path", r.URL.Path)
				WriteStatus(w, http.StatusBadRequest, msgUnverifiableSender)
				return
			}

			addr := ResolvedAddress(r)
			if addr == "" {
				log.Warn("request missing resolvable address", "path", r.URL.Path)
				WriteStatus(w, http.StatusBadRequest, msgUnverifiableOrigin)
				return
			}

			fp := Fingerprint{ClientID: clientID, Address: addr}
			next.ServeHTTP(w, r.WithContext(WithFingerprint(r.Context(), fp)))
		})
	}
}
