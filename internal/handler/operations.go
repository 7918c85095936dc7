package handler

import (
	"clipforge/internal/dto"
	"clipforge/internal/response"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListOperations returns the operation catalog so the UI can build edit forms.
func (h *Handler) ListOperations(c *gin.Context) {
	response.Success(c, gin.H{"operations": h.Service.Engine.Catalog.Specs()})
}

func (h *Handler) ListTemplates(c *gin.Context) {
	var req dto.ListTemplatesReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	response.Success(c, h.Service.ListTemplates(req))
}

func (h *Handler) ApplyTemplate(c *gin.Context) {
	var req dto.ApplyTemplateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("ApplyTemplate ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	log.GetLogger().Info("ApplyTemplate received request",
		zap.String("template", req.TemplateId),
		zap.String("input", req.InputPath),
		zap.Bool("async", req.Async))

	h.refreshService()

	data, err := h.Service.ApplyTemplate(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}
