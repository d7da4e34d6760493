package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a sliding-window limiter keyed by client IP, meant for the
// login endpoint. State is in-process: each replica enforces its own window,
// which is enough to blunt brute force on a single-branch deployment.
type rateLimiter struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
	limit    int
	window   time.Duration
}

// RateLimit allows at most limit requests per window per client IP.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		attempts: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
	go rl.purge()

	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("demasiados intentos, espere un momento"))
			return
		}
		c.Next()
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.window)
	recent := rl.attempts[key][:0]
	for _, t := range rl.attempts[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	if len(recent) >= rl.limit {
		rl.attempts[key] = recent
		return false
	}
	rl.attempts[key] = append(recent, time.Now())
	return true
}

// purge drops idle entries so the map does not grow with every IP ever seen.
func (rl *rateLimiter) purge() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for key, times := range rl.attempts {
			idle := true
			for _, t := range times {
				if t.After(cutoff) {
					idle = false
					break
				}
			}
			if idle {
				delete(rl.attempts, key)
			}
		}
		rl.mu.Unlock()
	}
}
