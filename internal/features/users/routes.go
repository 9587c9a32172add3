package users

import (
	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/features/auth"
)

func RegisterRoutes(router *gin.RouterGroup, store auth.CredentialStore) {
	service := NewService(store)
	handler := NewHandler(service)

	group := router.Group("/users")

	// Self-service profile, any authenticated user.
	group.GET("/profile", auth.RequireAuth(), handler.Profile)
	group.PATCH("/profile", auth.RequireAuth(), handler.UpdateProfile)

	// Administration.
	admin := group.Group("")
	admin.Use(auth.RequireAdmin())
	{
		admin.GET("", handler.List)
		admin.GET("/:id", handler.Get)
		admin.DELETE("/:id", handler.Delete)
		admin.PATCH("/:id/manage", handler.Manage)
		admin.PATCH("/:id/promote", handler.Promote)
		admin.PATCH("/:id/demote", handler.Demote)
		admin.GET("/role/:role", handler.ListByRole)
		admin.GET("/admins/count", handler.AdminCount)
	}
}
