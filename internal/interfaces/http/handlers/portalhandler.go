package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	portalUsecases "lucerna/internal/application/portal/usecases"
	"lucerna/internal/application/report"
	domainAuth "lucerna/internal/domain/auth"
	infraAuth "lucerna/internal/infrastructure/auth"
	sharedConfig "lucerna/internal/shared/config"
	"lucerna/internal/shared/constants"
	"lucerna/internal/shared/errors"
	"lucerna/internal/shared/logger"
	"lucerna/internal/shared/utils"
)

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required"`
}

// PortalHandler serves the magic-link login flow and the signed-in
// portal endpoints.
type PortalHandler struct {
	requestMagicLink *portalUsecases.RequestMagicLinkUseCase
	verifyMagicLink  *portalUsecases.VerifyMagicLinkUseCase
	getProfile       *portalUsecases.GetProfileUseCase
	sessionService   *infraAuth.SessionTokenService
	reportRouter     *report.Router
	cookieConfig     sharedConfig.CookieConfig
	logger           logger.Interface
}

func NewPortalHandler(
	requestMagicLink *portalUsecases.RequestMagicLinkUseCase,
	verifyMagicLink *portalUsecases.VerifyMagicLinkUseCase,
	getProfile *portalUsecases.GetProfileUseCase,
	sessionService *infraAuth.SessionTokenService,
	reportRouter *report.Router,
	cookieConfig sharedConfig.CookieConfig,
	logger logger.Interface,
) *PortalHandler {
	return &PortalHandler{
		requestMagicLink: requestMagicLink,
		verifyMagicLink:  verifyMagicLink,
		getProfile:       getProfile,
		sessionService:   sessionService,
		reportRouter:     reportRouter,
		cookieConfig:     cookieConfig,
		logger:           logger,
	}
}

// RequestMagicLink accepts a sign-in request. The response is the same
// whether or not the identifier matched an account.
func (h *PortalHandler) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "email is required")
		return
	}

	ip := utils.ClientIP(c)
	userAgent := c.GetHeader("User-Agent")

	cmd := portalUsecases.RequestMagicLinkCommand{
		Identifier: req.Email,
		IP:         optional(ip),
		UserAgent:  optional(userAgent),
	}
	if err := h.requestMagicLink.Execute(c.Request.Context(), cmd); err != nil {
		h.logger.Errorw("magic link request failed", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"detail": constants.GenericMagicLinkMessage})
}

// VerifyMagicLink redeems the token from the link and redirects to the
// portal with a session cookie on success. Failures redirect with a coarse
// reason: expired keeps its name, everything else is "invalid".
func (h *PortalHandler) VerifyMagicLink(c *gin.Context) {
	token := c.Query("token")
	ip := utils.ClientIP(c)
	userAgent := c.GetHeader("User-Agent")

	cmd := portalUsecases.VerifyMagicLinkCommand{
		Token:     token,
		IP:        optional(ip),
		UserAgent: optional(userAgent),
	}
	verifiedUser, err := h.verifyMagicLink.Execute(c.Request.Context(), cmd)
	if err != nil {
		switch {
		case stderrors.Is(err, domainAuth.ErrTokenExpired):
			c.Redirect(http.StatusSeeOther, "/?login=expired")
		case stderrors.Is(err, domainAuth.ErrTokenNotFound), stderrors.Is(err, domainAuth.ErrTokenAlreadyUsed):
			c.Redirect(http.StatusSeeOther, "/?login=invalid")
		default:
			h.logger.Errorw("magic link verification failed", "error", err)
			utils.ErrorResponseWithError(c, err)
		}
		return
	}

	sessionToken, err := h.sessionService.Generate(verifiedUser.ID(), string(verifiedUser.Role()))
	if err != nil {
		h.logger.Errorw("failed to issue session token", "error", err, "user_id", verifiedUser.ID())
		utils.ErrorResponseWithError(c, errors.NewInternalError("failed to create session"))
		return
	}

	maxAge := h.sessionService.ExpMinutes() * 60
	utils.SetSessionCookie(c, h.cookieConfig, sessionToken, maxAge)

	h.reportRouter.LoginAttempt(verifiedUser.Identifier(), ip, true)
	h.logger.Infow("user authenticated via magic link", "user_id", verifiedUser.ID())
	c.Redirect(http.StatusSeeOther, "/?login=success")
}

// Logout clears the session cookie.
func (h *PortalHandler) Logout(c *gin.Context) {
	utils.ClearSessionCookie(c, h.cookieConfig)
	c.Status(http.StatusNoContent)
}

// Me returns the signed-in account's portal profile.
func (h *PortalHandler) Me(c *gin.Context) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "missing session")
		return
	}

	profile, err := h.getProfile.Execute(c.Request.Context(), userID.(uint))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
