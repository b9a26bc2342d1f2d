package middleware

import (
	"net/http"

	"github.com/alimgiray/phonebook/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	defaultRateLimitRPS   = 100
	defaultRateLimitBurst = 20
)

// RateLimit rejects requests above rps requests per second, allowing bursts of burst.
// Non-positive values fall back to the defaults.
func RateLimit(rps, burst int) gin.HandlerFunc {
	if rps <= 0 {
		rps = defaultRateLimitRPS
	}
	if burst <= 0 {
		burst = defaultRateLimitBurst
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			logger.WithField("path", c.Request.URL.Path).Warnf("Rate limit exceeded for %s", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
