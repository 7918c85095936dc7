package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"clipforge/internal/dto"
	"clipforge/internal/engine"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
)

// SubmitEdit validates one operation, persists it as a queued job and hands
// it to the worker backend. The render itself is asynchronous; clients poll
// the job row or subscribe to its progress stream.
func (s Service) SubmitEdit(req dto.SubmitEditReq) (*dto.SubmitEditResData, error) {
	kind, err := engine.ParseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	params := mergeWindowParams(req.Params, req.Window)
	if result := s.Engine.Validate(engine.Operation{Kind: kind, Params: params}); !result.Valid {
		return nil, apperrors.WrapWithDetail(apperrors.CodeValidationFailed,
			"Operation validation failed",
			strings.Join(result.Errors, "; "), nil)
	}

	if _, err := os.Stat(req.InputPath); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeFileNotFound,
			"File not found",
			fmt.Sprintf("input file %q does not exist", req.InputPath), err)
	}

	paramsJson, err := json.Marshal(params)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidParams, "Invalid parameters", err)
	}

	jobId := uuid.NewString()
	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = s.defaultOutputPath(req.InputPath, jobId)
	}

	job := &types.EditJob{
		JobId:      jobId,
		Kind:       string(kind),
		Params:     string(paramsJson),
		Status:     types.EditJobStatusQueued,
		StatusMsg:  "Queued",
		InputPath:  req.InputPath,
		OutputPath: outputPath,
	}
	if err := storage.SaveJob(job); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDBError, "Database error", err)
	}
	log.GetLogger().Info("edit job submitted",
		zap.String("job_id", jobId),
		zap.String("kind", string(kind)),
		zap.String("input", req.InputPath))

	s.dispatch(jobId, string(kind), s.DispatchRender)
	return &dto.SubmitEditResData{JobId: jobId}, nil
}

// GetEditJob returns one job row shaped for clients.
func (s Service) GetEditJob(req dto.GetEditJobReq) (*dto.GetEditJobResData, error) {
	job, err := storage.GetJob(req.JobId)
	if err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeNotFound, "Resource not found",
			fmt.Sprintf("no job with id %q", req.JobId), err)
	}
	return &dto.GetEditJobResData{
		JobId:          job.JobId,
		Kind:           job.Kind,
		Status:         job.Status.String(),
		StatusMsg:      job.StatusMsg,
		ProcessPercent: job.ProcessPct,
		InputPath:      job.InputPath,
		OutputPath:     job.OutputPath,
		FilterExpr:     job.FilterExpr,
		FailReason:     job.FailReason,
		CreateTime:     job.CreateTime,
	}, nil
}

// ExecuteRenderJob runs one queued edit job end to end. It is invoked by the
// queue worker or the in-process runner, never by handlers.
func (s Service) ExecuteRenderJob(ctx context.Context, jobId string) error {
	job, err := storage.GetJob(jobId)
	if err != nil {
		return apperrors.WrapWithDetail(apperrors.CodeNotFound, "Resource not found",
			fmt.Sprintf("no job with id %q", jobId), err)
	}
	if job.Status.IsTerminal() {
		log.GetLogger().Info("job already terminal, skipping",
			zap.String("job_id", jobId),
			zap.String("status", job.Status.String()))
		return nil
	}

	job.Status = types.EditJobStatusRunning
	job.StatusMsg = "Rendering"
	_ = storage.SaveJob(job)

	note, err := s.renderJob(ctx, job)
	if err != nil {
		job.Status = types.EditJobStatusFailed
		job.StatusMsg = "Failed"
		job.FailReason = err.Error()
		_ = storage.SaveJob(job)
		return err
	}

	job.Status = types.EditJobStatusSucceeded
	job.StatusMsg = "Completed"
	if note != "" {
		job.StatusMsg = note
	}
	job.ProcessPct = 100
	_ = storage.SaveJob(job)
	log.GetLogger().Info("edit job finished",
		zap.String("job_id", jobId),
		zap.String("output", job.OutputPath))
	return nil
}

// renderJob compiles and renders one job. The returned note, when not
// empty, becomes the terminal status message.
func (s Service) renderJob(ctx context.Context, job *types.EditJob) (string, error) {
	kind, err := engine.ParseKind(job.Kind)
	if err != nil {
		return "", err
	}
	var params map[string]any
	if job.Params != "" {
		if err := json.Unmarshal([]byte(job.Params), &params); err != nil {
			return "", apperrors.WrapWithDetail(apperrors.CodeInvalidParams,
				"Invalid parameters", "job params are not valid JSON", err)
		}
	}

	info, err := s.Renderer.Probe(ctx, job.InputPath)
	if err != nil {
		return "", err
	}

	op := engine.Operation{Kind: kind, Params: params}
	var args []string
	duration := estimatedOutputDuration(kind, params, info.Duration)

	if kind == engine.KindRemoveClip {
		plan, ok := s.Engine.PlanRemoval(op, info.Duration)
		if !ok {
			job.OutputPath = job.InputPath
			job.FilterExpr = ""
			return "removeClip skipped: invalid bounds, source unchanged", nil
		}
		duration = plan.OutputDuration()
		args = s.Engine.BuildSegmentGraph(plan).Args(job.InputPath, job.OutputPath)
	} else {
		expr, err := s.Engine.CompileFilter(op)
		if err != nil {
			return "", err
		}
		args = expr.Args(job.InputPath, job.OutputPath)
	}

	job.FilterExpr = strings.Join(args, " ")
	_ = storage.SaveJob(job)

	req := types.RenderRequest{JobId: job.JobId, Args: args, Duration: duration}
	err = s.Renderer.Render(ctx, req, func(event types.RenderEvent) {
		s.Progress.Publish(event)
		if event.Kind == types.RenderEventProgress {
			job.ProcessPct = uint8(event.Percent)
			_ = storage.UpdateJobProgress(job.JobId, uint8(event.Percent))
		}
	})
	if err != nil {
		return "", err
	}
	return "", nil
}

// dispatch hands a persisted job to the worker backend. Dispatch failures
// mark the job failed immediately so clients are not left polling a row
// that will never run.
func (s Service) dispatch(jobId, kind string, fn func(string) error) {
	if fn == nil {
		log.GetLogger().Warn("no worker backend wired, job stays queued",
			zap.String("job_id", jobId),
			zap.String("kind", kind))
		return
	}
	if err := fn(jobId); err != nil {
		log.GetLogger().Error("job dispatch failed",
			zap.String("job_id", jobId),
			zap.String("kind", kind),
			zap.Error(err))
		if job, _ := storage.GetJob(jobId); job != nil && !job.Status.IsTerminal() {
			job.Status = types.EditJobStatusFailed
			job.FailReason = err.Error()
			_ = storage.SaveJob(job)
		}
	}
}

// defaultOutputPath derives the rendered file location: the input's base
// name tagged with the short job id, under the configured output dir.
func (s Service) defaultOutputPath(inputPath, jobId string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)
	if ext == "" {
		ext = ".mp4"
	}
	return filepath.Join(s.OutputDir, fmt.Sprintf("%s_%s%s", base, shortId(jobId), ext))
}

func shortId(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// mergeWindowParams folds an explicit window into the raw params, overriding
// any startTime/endTime already present. Window bounds then ride the normal
// parameter checks.
func mergeWindowParams(params map[string]any, w *dto.TimeWindow) map[string]any {
	if w == nil {
		return params
	}
	merged := make(map[string]any, len(params)+2)
	for k, v := range params {
		merged[k] = v
	}
	delete(merged, "endTime")
	merged["startTime"] = w.Start
	if w.End != nil {
		merged["endTime"] = *w.End
	}
	return merged
}

// estimatedOutputDuration approximates the rendered duration so stderr
// timestamps map onto percent. ffmpeg reports output time, which trim,
// removal and speed changes shrink or stretch relative to the source.
func estimatedOutputDuration(kind engine.OperationKind, params map[string]any, source float64) float64 {
	get := func(key string) (float64, bool) {
		v, ok := params[key].(float64)
		return v, ok
	}
	switch kind {
	case engine.KindTrim:
		start, _ := get("start")
		if end, ok := get("end"); ok && end > start {
			return end - start
		}
		if source > start {
			return source - start
		}
	case engine.KindAdjustSpeed:
		if speed, ok := get("speed"); ok && speed > 0 {
			return source / speed
		}
	}
	return source
}
