package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/taskforge/taskforge-api/internal/api/shared"
	"golang.org/x/time/rate"
)

// visitorIdleTimeout is how long a client may stay silent before its
// bucket is evicted; the next request starts a fresh one.
const visitorIdleTimeout = 3 * time.Minute

// visitor pairs a client's token bucket with its last activity, so idle
// entries can be evicted.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-client token bucket limiter keyed on remote IP.
// It is mounted on the auth endpoints to slow down credential stuffing;
// authenticated routes are not limited. Idle clients are evicted
// periodically so the map does not grow for the process lifetime.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	visitors map[string]*visitor
	mu       sync.Mutex
}

// NewRateLimiter creates a RateLimiter allowing limit events per second
// with the given burst per client IP, and starts its eviction loop.
func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	rl := &RateLimiter{
		limit:    limit,
		burst:    burst,
		visitors: make(map[string]*visitor),
	}

	go rl.evictLoop()

	return rl
}

// visitor returns the limiter for the given IP, creating it on first use
// and refreshing its last-seen time.
func (rl *RateLimiter) visitor(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// evictLoop sweeps idle visitors for the lifetime of the process.
func (rl *RateLimiter) evictLoop() {
	for range time.Tick(time.Minute) {
		rl.evictIdle(visitorIdleTimeout)
	}
}

// evictIdle removes every visitor whose last request is older than maxIdle.
func (rl *RateLimiter) evictIdle(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-maxIdle)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// Limit rejects requests exceeding the caller's bucket with 429.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			// RemoteAddr without a port, e.g. behind some proxies
			ip = r.RemoteAddr
		}

		if !rl.visitor(ip).Allow() {
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
