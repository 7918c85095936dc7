package handler

import (
	"clipforge/internal/dto"
	"clipforge/internal/response"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreviewEdit compiles one operation to a preview URL without rendering.
func (h *Handler) PreviewEdit(c *gin.Context) {
	var req dto.PreviewEditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("PreviewEdit ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	h.refreshService()

	data, err := h.Service.PreviewEdit(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

// ResolveEdit runs one operation through the strategy chain and returns
// whichever backend produced a result.
func (h *Handler) ResolveEdit(c *gin.Context) {
	var req dto.ResolveEditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("ResolveEdit ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	h.refreshService()

	data, err := h.Service.ResolveEdit(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}
