package routes

import (
	"github.com/gin-gonic/gin"

	"lucerna/internal/interfaces/http/handlers"
	"lucerna/internal/interfaces/http/middleware"
)

// PortalRouteConfig holds dependencies for the portal routes.
type PortalRouteConfig struct {
	PortalHandler      *handlers.PortalHandler
	AuthMiddleware     *middleware.AuthMiddleware
	MagicLinkRateLimit gin.HandlerFunc
}

// SetupPortalRoutes configures the magic-link sign-in flow and the
// authenticated portal API.
func SetupPortalRoutes(engine *gin.Engine, cfg *PortalRouteConfig) {
	// The verification link lands here from the user's mail client, so it
	// stays outside the /api group and answers with redirects.
	engine.GET("/auth/magic", cfg.PortalHandler.VerifyMagicLink)

	api := engine.Group("/api")
	{
		api.POST("/auth/magic-link", cfg.MagicLinkRateLimit, cfg.PortalHandler.RequestMagicLink)
		api.POST("/auth/logout", cfg.AuthMiddleware.RequireAuth(), cfg.PortalHandler.Logout)
		api.GET("/me", cfg.AuthMiddleware.RequireAuth(), cfg.PortalHandler.Me)
	}
}
