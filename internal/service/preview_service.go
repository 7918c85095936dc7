package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"clipforge/internal/dto"
	"clipforge/internal/engine"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/cloudinary"
)

const warmTimeout = 30 * time.Second

// PreviewEdit compiles one operation to a preview URL. It is synchronous
// and writes nothing: the preview backend derives the asset on first
// request, optionally warmed up in the background.
func (s Service) PreviewEdit(req dto.PreviewEditReq) (*dto.PreviewEditResData, error) {
	kind, err := engine.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	if !s.Preview.Configured() {
		return nil, apperrors.WrapWithDetail(apperrors.CodePreviewUnsupported,
			"Operation not supported on preview path",
			"preview backend not configured, set the preview cloud name", nil)
	}

	publicId := req.PublicId
	if publicId == "" && req.InputPath != "" {
		publicId = cloudinary.PublicIDFromPath(req.InputPath)
	}
	if publicId == "" {
		return nil, apperrors.WrapWithDetail(apperrors.CodeInvalidParams,
			"Invalid parameters", "either public_id or input_path is required", nil)
	}

	params := mergeWindowParams(req.Params, req.Window)
	transformation, err := s.Engine.CompileTransformation(engine.Operation{Kind: kind, Params: params})
	if err != nil {
		return nil, err
	}

	url := s.Preview.VideoURL(transformation.String(), publicId)
	if s.WarmOnPreview {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), warmTimeout)
			defer cancel()
			if err := s.Preview.Warm(ctx, []string{url}); err != nil {
				log.GetLogger().Debug("preview warm-up failed",
					zap.String("url", url), zap.Error(err))
			}
		}()
	}

	return &dto.PreviewEditResData{
		Url:            url,
		Transformation: transformation.String(),
		Warnings:       transformation.Warnings,
	}, nil
}
