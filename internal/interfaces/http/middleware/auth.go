package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lucerna/internal/domain/user"
	"lucerna/internal/infrastructure/auth"
	"lucerna/internal/shared/constants"
	"lucerna/internal/shared/logger"
	"lucerna/internal/shared/utils"
)

type AuthMiddleware struct {
	sessionService *auth.SessionTokenService
	userRepo       user.Repository
	logger         logger.Interface
}

func NewAuthMiddleware(sessionService *auth.SessionTokenService, userRepo user.Repository, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		sessionService: sessionService,
		userRepo:       userRepo,
		logger:         logger,
	}
}

// RequireAuth verifies the portal session cookie and loads the account
// behind it into the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.GetSessionCookie(c)
		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing session")
			c.Abort()
			return
		}

		claims, err := m.sessionService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify session token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		currentUser, err := m.userRepo.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			m.logger.Errorw("failed to load session user", "error", err, "user_id", claims.UserID)
			utils.ErrorResponse(c, http.StatusInternalServerError, "failed to load account")
			c.Abort()
			return
		}
		if currentUser == nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, currentUser.ID())
		c.Set(constants.ContextKeyUser, currentUser)

		c.Next()
	}
}

// RequireAdmin gates admin-only routes. It assumes RequireAuth ran first.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		currentUser := CurrentUser(c)
		if currentUser == nil || !currentUser.IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, "admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the account RequireAuth stored on the context.
func CurrentUser(c *gin.Context) *user.User {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil
	}
	currentUser, ok := value.(*user.User)
	if !ok {
		return nil
	}
	return currentUser
}
