package reports

import (
	"github.com/gin-gonic/gin"

	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/features/notifications"
	"github.com/flashreport/api/internal/pkg/cloudinary"
)

func RegisterRoutes(router *gin.RouterGroup, store Store, users UserLookup, media *cloudinary.Service, events notifications.Publisher) {
	var cleaner MediaCleaner
	if media != nil {
		cleaner = media
	}
	service := NewService(store, users, cleaner, events)
	handler := NewHandler(service, media)

	group := router.Group("/reports")
	group.Use(auth.RequireAuth())
	{
		group.POST("", handler.Create)
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.PATCH("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
		group.PATCH("/:id/status", auth.RequireAdmin(), handler.UpdateStatus)
	}
}
