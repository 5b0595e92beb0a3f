package httpx

import (
	"context"

	"github.com/campfirehq/campfire/pkg/jwtx"
)

type ctxKey string

const (
	ctxKeyFingerprint ctxKey = "fingerprint"
	ctxKeyUserID      ctxKey = "user_id"
	ctxKeyClaims      ctxKey = "claims"
)

// Fingerprint identifies a logical caller for the life of one request: the
// client-declared identifier plus the best-effort network address. It is
// never persisted.
type Fingerprint struct {
	ClientID string
	Address  string
}

// CompositeKey is the rate-limit bucket key for a logical caller on an
// address, "address:clientId".
func (f Fingerprint) CompositeKey() string {
	return f.Address + ":" + f.ClientID
}

// WithFingerprint attaches the resolved caller fingerprint to the context.
func WithFingerprint(ctx context.Context, fp Fingerprint) context.Context {
	return context.WithValue(ctx, ctxKeyFingerprint, fp)
}

// FingerprintFromContext returns the request's fingerprint, if resolved.
func FingerprintFromContext(ctx context.Context) (Fingerprint, bool) {
	fp, ok := ctx.Value(ctxKeyFingerprint).(Fingerprint)
	return fp, ok
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, ctxKeyUserID, c.Subject)
	return context.WithValue(ctx, ctxKeyClaims, c)
}

// UserIDFromContext returns the verified token subject, if authenticated.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKeyUserID).(string)
	return id, ok
}

// ClaimsFromContext returns the verified token claims, if authenticated.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(ctxKeyClaims).(jwtx.Claims)
	return c, ok
}
