// ratelimit.go throttles admin login attempts per client IP using a token
// bucket algorithm.
//
// How token bucket works:
// - Each client IP gets a "bucket" with N tokens (= LOGIN_RATE_LIMIT)
// - Each login POST consumes 1 token
// - Tokens refill at a steady rate (N tokens per hour)
// - If the bucket is empty, the attempt is rejected with 429 Too Many Requests
//
// This is more forgiving than a fixed window because a burst of typos is
// absorbed and the allowance comes back gradually.
package middleware

import (
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter tracks request rates per key.
type RateLimiter struct {
	// Go Pattern: sync.Mutex guards the map; every allow() both reads and
	// writes a bucket, so there is no read-only path worth an RWMutex.
	mu       sync.Mutex
	buckets  map[string]*bucket
	perHour  int
	now      func() time.Time
	stop     chan struct{}
	stopOnce sync.Once
}

// bucket tracks the token state for a single key.
type bucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// allowResult contains the result of a rate limit check,
// including header information for the response.
type allowResult struct {
	allowed   bool
	remaining float64
	limit     float64
}

// NewRateLimiter creates a limiter allowing perHour requests per key per hour
// and starts the stale-bucket sweeper. Call Close to stop it.
func NewRateLimiter(perHour int) *RateLimiter {
	if perHour < 1 {
		perHour = 1
	}
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		perHour: perHour,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	// Start background cleanup goroutine
	go rl.cleanup()

	return rl
}

// Throttle returns Gin middleware that spends one token per request from
// the caller's bucket (keyed by client IP). When the bucket is empty it calls
// reject, which must write the response; the chain is then aborted.
func (rl *RateLimiter) Throttle(reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check rate limit; this returns all info atomically to avoid race conditions
		result := rl.allow(c.ClientIP())

		// Add rate limit headers so clients know their limits
		c.Header("X-RateLimit-Limit", formatFloat(result.limit))
		c.Header("X-RateLimit-Remaining", formatFloat(result.remaining))

		if !result.allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", rl.retryAfterSeconds()))
			if reject != nil {
				reject(c)
			} else {
				c.String(http.StatusTooManyRequests, "Too many attempts. Try again later.")
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// allow checks if a request should be allowed, consuming a token if so.
// Returns the result atomically to avoid race conditions between checking
// the limit and reading the bucket for headers.
func (rl *RateLimiter) allow(key string) allowResult {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, exists := rl.buckets[key]
	if !exists {
		// Create a new bucket for this key
		b = &bucket{
			tokens:     float64(rl.perHour),
			maxTokens:  float64(rl.perHour),
			refillRate: float64(rl.perHour) / 3600.0, // tokens per second (rate per hour)
			lastRefill: now,
		}
		rl.buckets[key] = b
	}

	// Refill tokens based on elapsed time
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens += elapsed * b.refillRate
	if b.tokens > b.maxTokens {
		b.tokens = b.maxTokens
	}
	b.lastRefill = now

	// Check if we have a token available
	if b.tokens < 1.0 {
		return allowResult{
			allowed:   false,
			remaining: 0,
			limit:     b.maxTokens,
		}
	}

	// Consume a token
	b.tokens--
	return allowResult{
		allowed:   true,
		remaining: b.tokens,
		limit:     b.maxTokens,
	}
}

// retryAfterSeconds is how long one token takes to refill.
func (rl *RateLimiter) retryAfterSeconds() int {
	return (3600 + rl.perHour - 1) / rl.perHour
}

// Close stops the sweeper. Safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// cleanup periodically removes stale buckets to prevent memory leaks.
func (rl *RateLimiter) cleanup() {
	// Go Pattern: time.Ticker sends values at regular intervals.
	// Always defer ticker.Stop() to release resources.
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// sweep drops buckets that haven't been used in over an hour. By then they
// would have refilled completely anyway.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for key, b := range rl.buckets {
		if now.Sub(b.lastRefill) > time.Hour {
			delete(rl.buckets, key)
		}
	}
}

// formatFloat converts a float to a string for headers.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.0f", math.Floor(f))
}
