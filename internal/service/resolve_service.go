package service

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clipforge/internal/dto"
	"clipforge/internal/engine"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/cloudinary"
)

// Attempt carries one validated operation through the strategy chain.
type Attempt struct {
	RunId      string
	Operation  engine.Operation
	InputPath  string
	OutputPath string
	PublicId   string
}

// Outcome is a successful strategy result: a preview URL, a rendered file,
// or the untouched source for passthrough.
type Outcome struct {
	PreviewUrl string
	OutputPath string
}

// RenderStrategy is one rung of the fallback chain. Strategies are tried in
// order; the first success wins.
type RenderStrategy interface {
	Name() string
	Attempt(ctx context.Context, attempt *Attempt) (*Outcome, error)
}

type previewStrategy struct {
	engine  *engine.Engine
	preview *cloudinary.Client
}

func (previewStrategy) Name() string { return "preview" }

func (p previewStrategy) Attempt(_ context.Context, attempt *Attempt) (*Outcome, error) {
	if !p.preview.Configured() {
		return nil, apperrors.WrapWithDetail(apperrors.CodePreviewUnsupported,
			"Operation not supported on preview path",
			"preview backend not configured", nil)
	}
	transformation, err := p.engine.CompileTransformation(attempt.Operation)
	if err != nil {
		return nil, err
	}
	publicId := attempt.PublicId
	if publicId == "" {
		publicId = cloudinary.PublicIDFromPath(attempt.InputPath)
	}
	return &Outcome{PreviewUrl: p.preview.VideoURL(transformation.String(), publicId)}, nil
}

type ffmpegStrategy struct {
	engine   *engine.Engine
	renderer types.RenderExecutor
	progress *ProgressHub
}

func (ffmpegStrategy) Name() string { return "ffmpeg" }

func (f ffmpegStrategy) Attempt(ctx context.Context, attempt *Attempt) (*Outcome, error) {
	info, err := f.renderer.Probe(ctx, attempt.InputPath)
	if err != nil {
		return nil, err
	}

	op := attempt.Operation
	var args []string
	duration := estimatedOutputDuration(op.Kind, op.Params, info.Duration)

	if op.Kind == engine.KindRemoveClip {
		plan, ok := f.engine.PlanRemoval(op, info.Duration)
		if !ok {
			// invalid bounds never fail an edit, the source passes through
			return &Outcome{OutputPath: attempt.InputPath}, nil
		}
		duration = plan.OutputDuration()
		args = f.engine.BuildSegmentGraph(plan).Args(attempt.InputPath, attempt.OutputPath)
	} else {
		expr, err := f.engine.CompileFilter(op)
		if err != nil {
			return nil, err
		}
		args = expr.Args(attempt.InputPath, attempt.OutputPath)
	}

	req := types.RenderRequest{JobId: attempt.RunId, Args: args, Duration: duration}
	if err := f.renderer.Render(ctx, req, f.progress.Publish); err != nil {
		return nil, err
	}
	return &Outcome{OutputPath: attempt.OutputPath}, nil
}

// passthroughStrategy serves the source unchanged. It is the chain's floor:
// an edit that cannot be applied still yields playable media.
type passthroughStrategy struct{}

func (passthroughStrategy) Name() string { return "passthrough" }

func (passthroughStrategy) Attempt(_ context.Context, attempt *Attempt) (*Outcome, error) {
	if _, err := os.Stat(attempt.InputPath); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeFileNotFound, "File not found",
			fmt.Sprintf("input file %q does not exist", attempt.InputPath), err)
	}
	return &Outcome{OutputPath: attempt.InputPath}, nil
}

// strategies returns the resolve chain in priority order.
func (s Service) strategies() []RenderStrategy {
	return []RenderStrategy{
		previewStrategy{engine: s.Engine, preview: s.Preview},
		ffmpegStrategy{engine: s.Engine, renderer: s.Renderer, progress: s.Progress},
		passthroughStrategy{},
	}
}

// ResolveEdit runs one operation through the fallback chain and returns the
// first successful outcome together with the failures that preceded it.
func (s Service) ResolveEdit(ctx context.Context, req dto.ResolveEditReq) (*dto.ResolveEditResData, error) {
	kind, err := engine.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}
	params := mergeWindowParams(req.Params, req.Window)
	op := engine.Operation{Kind: kind, Params: params}
	if result := s.Engine.Validate(op); !result.Valid {
		return nil, apperrors.WrapWithDetail(apperrors.CodeValidationFailed,
			"Operation validation failed",
			strings.Join(result.Errors, "; "), nil)
	}

	runId := uuid.NewString()
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = s.defaultOutputPath(req.InputPath, runId)
	}
	attempt := &Attempt{
		RunId:      runId,
		Operation:  op,
		InputPath:  req.InputPath,
		OutputPath: outputPath,
		PublicId:   req.PublicId,
	}

	var failures []dto.StrategyAttempt
	for _, strategy := range s.strategies() {
		outcome, err := strategy.Attempt(ctx, attempt)
		if err != nil {
			log.GetLogger().Warn("render strategy failed",
				zap.String("strategy", strategy.Name()),
				zap.String("kind", string(kind)),
				zap.Error(err))
			failures = append(failures, dto.StrategyAttempt{
				Strategy: strategy.Name(),
				Detail:   err.Error(),
			})
			continue
		}
		log.GetLogger().Info("render strategy succeeded",
			zap.String("strategy", strategy.Name()),
			zap.String("kind", string(kind)))
		return &dto.ResolveEditResData{
			Strategy:   strategy.Name(),
			PreviewUrl: outcome.PreviewUrl,
			OutputPath: outcome.OutputPath,
			Attempts:   failures,
		}, nil
	}

	detail := make([]string, len(failures))
	for i, f := range failures {
		detail[i] = f.Strategy + ": " + f.Detail
	}
	return nil, apperrors.WrapWithDetail(apperrors.CodeAllStrategies,
		"All render strategies failed", strings.Join(detail, "; "), nil)
}
