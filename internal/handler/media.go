package handler

import (
	"os"
	"path/filepath"

	"clipforge/internal/dto"
	"clipforge/internal/response"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func (h *Handler) GenerateCaptions(c *gin.Context) {
	var req dto.GenerateCaptionsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		log.GetLogger().Error("GenerateCaptions ShouldBindJSON err", zap.Error(err))
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	h.refreshService()

	data, err := h.Service.GenerateCaptions(c.Request.Context(), req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

func (h *Handler) Waveform(c *gin.Context) {
	var req dto.WaveformReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err))
		return
	}

	data, err := h.Service.Waveform(req)
	if err != nil {
		response.ErrorResponse(c, err)
		return
	}
	response.Success(c, data)
}

func (h *Handler) UploadFile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeInvalidParams, "Failed to read upload", err))
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		response.ErrorResponse(c, apperrors.New(apperrors.CodeInvalidParams, "No file uploaded"))
		return
	}

	uploadRoot := preferredUploadRoot()
	if err = os.MkdirAll(uploadRoot, 0o755); err != nil {
		response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileWriteError, "Failed to create upload directory", err))
		return
	}

	var savedFiles []string
	for _, file := range files {
		// Client-sent names may carry directory components; keep the base only.
		name := filepath.Base(file.Filename)
		savePath := filepath.Join(uploadRoot, name)
		if err = c.SaveUploadedFile(file, savePath); err != nil {
			log.GetLogger().Error("UploadFile save err", zap.String("file", name), zap.Error(err))
			response.ErrorResponse(c, apperrors.Wrap(apperrors.CodeFileWriteError, "Failed to save file: "+name, err))
			return
		}
		savedFiles = append(savedFiles, savePath)
	}

	response.Success(c, gin.H{"file_path": savedFiles})
}

func (h *Handler) DownloadFile(c *gin.Context) {
	requestedFile := c.Param("filepath")

	localFilePath, ok := resolveDownloadPath(requestedFile)
	if !ok {
		c.JSON(403, response.Response{
			Error: int32(apperrors.CodeInvalidParams),
			Msg:   "Illegal file path",
		})
		return
	}

	info, err := os.Stat(localFilePath)
	if err != nil || info.IsDir() {
		c.JSON(404, response.Response{
			Error: int32(apperrors.CodeFileNotFound),
			Msg:   "File not found",
		})
		return
	}
	c.FileAttachment(localFilePath, filepath.Base(localFilePath))
}
