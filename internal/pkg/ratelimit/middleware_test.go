package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareLimitsPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := New(2, time.Minute)
	r := gin.New()
	r.Use(Middleware(rl))
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/ping", nil)
		r.ServeHTTP(w, req)
		require.Equal(t, 200, w.Code)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, 429, w.Code)
}

func TestAllowResets(t *testing.T) {
	rl := New(1, time.Minute)
	require.True(t, rl.Allow("1.2.3.4"))
	require.False(t, rl.Allow("1.2.3.4"))

	rl.Reset("1.2.3.4")
	require.True(t, rl.Allow("1.2.3.4"))
}
