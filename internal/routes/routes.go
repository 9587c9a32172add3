package routes

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/flashreport/api/internal/config"
	"github.com/flashreport/api/internal/features/auth"
	"github.com/flashreport/api/internal/features/notifications"
	"github.com/flashreport/api/internal/features/reports"
	"github.com/flashreport/api/internal/features/users"
	"github.com/flashreport/api/internal/pkg/cloudinary"
	"github.com/flashreport/api/internal/pkg/mailer"
	"github.com/flashreport/api/internal/pkg/push"
	"github.com/flashreport/api/internal/pkg/token"
)

// SetupRoutes wires every feature under /api/v1 and returns the notification
// dispatcher so main can drain it on shutdown. Cloudinary, SMTP and Firebase
// are all optional; missing configuration degrades those paths instead of
// failing startup.
func SetupRoutes(router *gin.Engine, db *mongo.Database, cfg *config.Config) *notifications.Dispatcher {
	api := router.Group("/api/v1")

	credentials := auth.NewRepository(db)
	reportStore := reports.NewRepository(db)

	tokens := token.NewService(cfg.JWTSecret, time.Duration(cfg.JWTExpireHours)*time.Hour)

	var cld *cloudinary.Service
	if cfg.CloudinaryCloudName != "" {
		var err error
		cld, err = cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryUploadFolder)
		if err != nil {
			log.Printf("routes: cloudinary disabled: %v", err)
			cld = nil
		}
	}

	var mail notifications.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	}

	var pusher notifications.Pusher
	if cfg.FirebaseServiceAccountPath != "" {
		client, err := push.NewClient(context.Background(), cfg.FirebaseServiceAccountPath)
		if err != nil {
			log.Printf("routes: push notifications disabled: %v", err)
		} else {
			pusher = client
		}
	}

	dispatcher := notifications.NewDispatcher(mail, pusher, cfg.PushTopic)

	// Every request resolves its principal up front; route groups decide
	// whether anonymous callers get through.
	api.Use(auth.Authenticate(tokens, credentials))

	auth.RegisterRoutes(api, credentials, tokens)
	users.RegisterRoutes(api, credentials)
	reports.RegisterRoutes(api, reportStore, credentials, cld, dispatcher)

	return dispatcher
}
