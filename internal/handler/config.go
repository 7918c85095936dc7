package handler

import (
	"clipforge/config"
	"clipforge/internal/response"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) GetConfig(c *gin.Context) {
	response.Success(c, config.Conf)
}

// UpdateConfig replaces the whole config, persists it and flags the service
// for re-initialization on the next request.
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req config.Config
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("UpdateConfig ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	previous := config.Conf
	config.Conf = req
	if err := config.CheckConfig(); err != nil {
		config.Conf = previous
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid config", err))
		return
	}
	if err := config.SaveConfig(); err != nil {
		config.Conf = previous
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileWriteError, "Failed to save config", err))
		return
	}

	configUpdated = true
	log.GetLogger().Info("config saved")
	response.Success(c, config.Conf)
}
