package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP. The configured limit is
// requests per minute.
type RateLimiter struct {
	perMinute int
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
}

func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 100
	}

	return &RateLimiter{
		perMinute: perMinute,
		limiters:  make(map[string]*rate.Limiter),
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute)
		rl.limiters[ip] = limiter
	}

	return limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
