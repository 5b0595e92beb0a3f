package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/campfirehq/campfire/pkg/slogx"
)

// InvalidClientKey is the sentinel composite key used when a request reaches
// the limiter without both fingerprint halves. Its bucket always rejects.
const InvalidClientKey = "invalid-client"

const msgTooManyRequests = "Too many requests. Please try again later."

// RateLimitPolicy configures one fixed-window counter policy.
type RateLimitPolicy struct {
	// Limit is the number of requests admitted per window per key.
	Limit int
	// Window is the fixed window duration. Counters reset at multiples of
	// this duration, not on a rolling interval.
	Window time.Duration
}

type windowBucket struct {
	window int64 // floor(now / windowDuration)
	count  int
}

// FixedWindowLimiter maintains one counter table for a policy. The
// increment-and-compare in Admit is atomic per table, so two concurrent
// requests sharing a key can never both observe a stale pre-increment count.
type FixedWindowLimiter struct {
	policy RateLimitPolicy
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*windowBucket
}

// Validate rejects policies the limiter cannot enforce. A zero window would
// divide by zero in the window arithmetic; a zero limit would reject
// everything.
func (p RateLimitPolicy) Validate() error {
	if p.Limit <= 0 {
		return fmt.Errorf("rate limit policy: limit must be positive, got %d", p.Limit)
	}
	if p.Window <= 0 {
		return fmt.Errorf("rate limit policy: window must be positive, got %s", p.Window)
	}
	return nil
}

// NewFixedWindowLimiter builds a limiter for the policy, rejecting one that
// cannot be enforced. A nil clock uses time.Now; tests inject their own to
// cross window boundaries.
func NewFixedWindowLimiter(policy RateLimitPolicy, clock func() time.Time) (*FixedWindowLimiter, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = time.Now
	}
	return &FixedWindowLimiter{
		policy:  policy,
		now:     clock,
		buckets: map[string]*windowBucket{},
	}, nil
}

// Admit increments the counter for key in the current window and reports
// whether the request is within quota. Entries for expired windows are reset
// lazily on access. Once a bucket is over quota the count is not incremented
// further for the remainder of the window.
func (l *FixedWindowLimiter) Admit(key string) bool {
	window := l.now().UnixNano() / int64(l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &windowBucket{window: window}
		l.buckets[key] = b
	}
	if b.window != window {
		b.window = window
		b.count = 0
	}

	if b.count >= l.policy.Limit {
		return false
	}
	b.count++
	return true
}

// Sweep drops buckets whose window has passed and returns how many were
// removed. Correctness never depends on it (expired windows reset lazily);
// it only bounds table growth from ephemeral keys.
func (l *FixedWindowLimiter) Sweep() int {
	window := l.now().UnixNano() / int64(l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.window < window {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// compositeKey re-derives "address:clientId" for the fine-grained policy.
// It prefers the fingerprint resolved upstream but falls back to the raw
// headers, so the limiter stays safe even if it is ever mounted without the
// resolver in front. A missing half yields the always-rejected sentinel.
func compositeKey(r *http.Request) string {
	if fp, ok := FingerprintFromContext(r.Context()); ok {
		return fp.CompositeKey()
	}

	clientID := DeclaredClientID(r)
	addr := ResolvedAddress(r)
	if clientID == "" || addr == "" {
		return InvalidClientKey
	}
	return addr + ":" + clientID
}

// RateLimitMiddleware enforces both counter policies on every non-exempt
// request: the coarse per-address policy first, then the per-caller composite
// policy. Both must admit.
func RateLimitMiddleware(addr, composite *FixedWindowLimiter, exempt *PathExemptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if exempt.Match(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			log := slogx.FromContext(r.Context())

			address := ResolvedAddress(r)
			if address == "" || !addr.Admit(address) {
				log.Warn("rate limit exceeded", "policy", "address", "key", address, "path", r.URL.Path)
				writeThrottled(w, addr.policy)
				return
			}

			key := compositeKey(r)
			if key == InvalidClientKey || !composite.Admit(key) {
				log.Warn("rate limit exceeded", "policy", "client", "key", key, "path", r.URL.Path)
				writeThrottled(w, composite.policy)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeThrottled(w http.ResponseWriter, policy RateLimitPolicy) {
	w.Header().Set("Retry-After", strconv.Itoa(int(policy.Window.Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(policy.Limit))
	WriteStatus(w, http.StatusTooManyRequests, msgTooManyRequests)
}
