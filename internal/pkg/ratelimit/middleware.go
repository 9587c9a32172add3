package ratelimit

import (
	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/pkg/response"
)

// Middleware limits requests per client IP. Used on the credential endpoints
// to slow down brute forcing.
func Middleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.TooManyRequests(c, "Too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
