package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(perHour int) (*RateLimiter, *time.Time) {
	rl := NewRateLimiter(perHour)
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }
	return rl, &clock
}

func TestRateLimiterAllow(t *testing.T) {
	rl, clock := newTestLimiter(3)
	defer rl.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.allow("1.2.3.4").allowed, "attempt %d", i+1)
	}
	res := rl.allow("1.2.3.4")
	assert.False(t, res.allowed)
	assert.Equal(t, 3.0, res.limit)

	// Another key has its own bucket.
	assert.True(t, rl.allow("5.6.7.8").allowed)

	// 3 per hour refills one token every 20 minutes.
	*clock = clock.Add(20 * time.Minute)
	assert.True(t, rl.allow("1.2.3.4").allowed)
	assert.False(t, rl.allow("1.2.3.4").allowed)
}

func TestRateLimiterSweep(t *testing.T) {
	rl, clock := newTestLimiter(5)
	defer rl.Close()

	rl.allow("a")
	*clock = clock.Add(2 * time.Hour)
	rl.allow("b")
	rl.sweep()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.buckets, "a")
	assert.Contains(t, rl.buckets, "b")
}

func TestThrottle(t *testing.T) {
	rl, _ := newTestLimiter(1)
	defer rl.Close()

	r := gin.New()
	r.POST("/admin/login", rl.Throttle(func(c *gin.Context) {
		c.String(http.StatusTooManyRequests, "slow down")
	}), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "slow down", w.Body.String())
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
}

func TestNewRateLimiterFloorsLimit(t *testing.T) {
	rl := NewRateLimiter(0)
	defer rl.Close()
	assert.Equal(t, 1, rl.perHour)
}
