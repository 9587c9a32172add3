package auth

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/pkg/response"
	"github.com/flashreport/api/internal/pkg/token"
)

const principalKey = "principal"

// Authenticate resolves the request principal from a bearer token. It never
// aborts: an absent, invalid, expired or authority-drifted token leaves the
// request anonymous, and protected routes reject it downstream.
func Authenticate(tokens *token.Service, store CredentialStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := token.ParseBearer(c.GetHeader("Authorization"))
		if !ok {
			c.Next()
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			c.Next()
			return
		}

		// Re-fetch the user so a role change invalidates unexpired tokens.
		user, err := store.FindByUsername(c.Request.Context(), claims.Username)
		if err != nil || user == nil {
			c.Next()
			return
		}

		// Authority drift: a token minted with authorities the user no longer
		// holds must not grant them. Treat as anonymous.
		if !subset(claims.Authorities, user.Authorities()) {
			log.Printf("auth: token authorities %v exceed current %v for user %s, rejecting",
				claims.Authorities, user.Authorities(), user.Username)
			c.Next()
			return
		}

		c.Set(principalKey, &Principal{
			ID:       user.ID.Hex(),
			Username: user.Username,
			Role:     user.Role,
		})
		c.Set("username", user.Username)
		c.Next()
	}
}

// RequireAuth aborts with 401 when no principal was bound.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentPrincipal(c); !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 for anonymous requests and 403 for
// authenticated non-admins.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if p.Role != RoleAdmin {
			response.Forbidden(c, "Admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the principal bound by Authenticate, if any.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}

func subset(claimed, current []string) bool {
	have := make(map[string]bool, len(current))
	for _, a := range current {
		have[a] = true
	}
	for _, a := range claimed {
		if !have[a] {
			return false
		}
	}
	return true
}
