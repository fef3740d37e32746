package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter applies a token-bucket limit per tenant. Requests before tenant
// resolution fall back to the client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter allowing rpm requests per minute per key.
func NewRateLimiter(rpm int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(float64(rpm) / 60.0),
		burst:   rpm / 10,
	}
}

// Middleware enforces the limit, keyed by tenant id when resolved.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := TenantID(c)
			if key == "" {
				key = c.RealIP()
			}
			if !rl.allow(key) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[key]
	if !ok {
		burst := rl.burst
		if burst < 1 {
			burst = 1
		}
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rps, burst)}
		rl.clients[key] = cl
	}
	cl.lastSeen = time.Now()

	if len(rl.clients) > 1000 {
		rl.cleanupLocked()
	}
	return cl.limiter.Allow()
}

// cleanupLocked drops limiters idle for more than 10 minutes. Caller holds mu.
func (rl *RateLimiter) cleanupLocked() {
	cutoff := time.Now().Add(-10 * time.Minute)
	for key, cl := range rl.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}
