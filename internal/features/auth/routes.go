package auth

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/pkg/ratelimit"
	"github.com/flashreport/api/internal/pkg/token"
)

// RegisterRoutes mounts the credential endpoints. Both are rate limited per
// client IP to slow down enumeration and brute forcing.
func RegisterRoutes(router *gin.RouterGroup, store CredentialStore, tokens *token.Service) {
	handler := NewHandler(store, tokens)
	limiter := ratelimit.New(10, time.Minute)

	group := router.Group("/auth")
	group.Use(ratelimit.Middleware(limiter))
	{
		group.POST("/signup", handler.Signup)
		group.POST("/signin", handler.Signin)
	}
}
