package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs one line per request with method, path, status and latency.
// Health checks are skipped to keep the output readable.
func Logger() gin.HandlerFunc {
	skip := map[string]bool{
		"/health": true,
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skip[path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		username := c.GetString("username")
		if username != "" {
			log.Printf("%s %s %d %v user=%s", c.Request.Method, path, status, latency, username)
		} else {
			log.Printf("%s %s %d %v", c.Request.Method, path, status, latency)
		}

		for _, e := range c.Errors {
			log.Printf("  error: %v", e.Err)
		}
	}
}
