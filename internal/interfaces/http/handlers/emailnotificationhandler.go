package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	notificationUsecases "lucerna/internal/application/notification/usecases"
	"lucerna/internal/shared/logger"
	"lucerna/internal/shared/utils"
)

// EmailNotificationHandler serves the admin notification configuration
// surface.
type EmailNotificationHandler struct {
	getConfig    *notificationUsecases.GetConfigUseCase
	updateConfig *notificationUsecases.UpdateConfigUseCase
	logger       logger.Interface
}

func NewEmailNotificationHandler(
	getConfig *notificationUsecases.GetConfigUseCase,
	updateConfig *notificationUsecases.UpdateConfigUseCase,
	logger logger.Interface,
) *EmailNotificationHandler {
	return &EmailNotificationHandler{
		getConfig:    getConfig,
		updateConfig: updateConfig,
		logger:       logger,
	}
}

func (h *EmailNotificationHandler) GetConfig(c *gin.Context) {
	result, err := h.getConfig.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to load notification config", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *EmailNotificationHandler) UpdateConfig(c *gin.Context) {
	var cmd notificationUsecases.UpdateConfigCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.updateConfig.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
