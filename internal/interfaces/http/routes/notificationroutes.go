package routes

import (
	"github.com/gin-gonic/gin"

	"lucerna/internal/interfaces/http/handlers"
	"lucerna/internal/interfaces/http/middleware"
)

type NotificationRouteConfig struct {
	EmailNotificationHandler *handlers.EmailNotificationHandler
	AuthMiddleware           *middleware.AuthMiddleware
}

// SetupNotificationRoutes configures the admin notification settings API.
func SetupNotificationRoutes(engine *gin.Engine, cfg *NotificationRouteConfig) {
	notifications := engine.Group("/api/email/notifications")
	notifications.Use(cfg.AuthMiddleware.RequireAuth(), cfg.AuthMiddleware.RequireAdmin())
	{
		notifications.GET("", cfg.EmailNotificationHandler.GetConfig)
		notifications.PUT("", cfg.EmailNotificationHandler.UpdateConfig)
	}
}
