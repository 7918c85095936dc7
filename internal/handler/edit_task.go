package handler

import (
	"os"
	"strconv"

	"clipforge/internal/dto"
	"clipforge/internal/response"
	"clipforge/internal/storage"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) SubmitEdit(c *gin.Context) {
	var req dto.SubmitEditReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("SubmitEdit ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}
	log.GetLogger().Info("SubmitEdit received request",
		zap.String("kind", req.Kind),
		zap.String("input", req.InputPath))

	h.refreshService()

	data, err := h.Service.SubmitEdit(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

func (h *Handler) GetEditJob(c *gin.Context) {
	var req dto.GetEditJobReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	data, err := h.Service.GetEditJob(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

func (h *Handler) GetJobHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "200"))
	if err != nil || limit <= 0 {
		limit = 200
	}

	jobs, err := storage.GetJobHistory(limit)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Failed to load job history", err))
		return
	}
	response.Success(c, jobs)
}

func (h *Handler) DeleteEditJob(c *gin.Context) {
	jobId := c.Param("jobId")
	if jobId == "" {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "jobId must not be empty"))
		return
	}

	job, err := storage.GetJob(jobId)
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeNotFound, "Job not found", err))
		return
	}

	// Remove the rendered output, never the source the job read from.
	if job.OutputPath != "" && job.OutputPath != job.InputPath && isPathWithinRoot(h.Service.OutputDir, job.OutputPath) {
		if err = os.Remove(job.OutputPath); err != nil && !os.IsNotExist(err) {
			log.GetLogger().Error("DeleteEditJob remove output err",
				zap.String("path", job.OutputPath), zap.Error(err))
			// Continue to delete the row even if file removal fails.
		}
	}

	if err = storage.DeleteJob(jobId); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeDBError, "Failed to delete job", err))
		return
	}
	response.Success(c, nil)
}
