package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"clipforge/internal/dto"
	"clipforge/internal/engine"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
)

// templateJobKind marks job rows that run a whole template instead of a
// single operation.
const templateJobKind = "template"

// templateRunParams is the params JSON persisted on async template rows.
type templateRunParams struct {
	TemplateId string `json:"template_id"`
}

// ListTemplates returns the template catalog, optionally filtered by
// category.
func (s Service) ListTemplates(req dto.ListTemplatesReq) *dto.ListTemplatesResData {
	templates := s.Engine.Templates.List()
	if req.Category != "" {
		templates = s.Engine.Templates.ByCategory(req.Category)
	}
	return &dto.ListTemplatesResData{
		Templates: lo.Map(templates, func(tpl engine.Template, _ int) dto.TemplateSummary {
			return dto.TemplateSummary{
				Id:             tpl.ID,
				Name:           tpl.Name,
				Category:       tpl.Category,
				Description:    tpl.Description,
				OperationCount: len(tpl.Operations),
			}
		}),
	}
}

// ApplyTemplate runs a template against an input. Sync runs return the step
// results directly; async runs persist a job row and report through it.
func (s Service) ApplyTemplate(ctx context.Context, req dto.ApplyTemplateReq) (*dto.ApplyTemplateResData, error) {
	if _, ok := s.Engine.Templates.Get(req.TemplateId); !ok {
		return nil, apperrors.WrapWithDetail(apperrors.CodeTemplateNotFound,
			"Template not found", "no template with id "+req.TemplateId, nil)
	}
	if _, err := os.Stat(req.InputPath); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeFileNotFound, "File not found",
			fmt.Sprintf("input file %q does not exist", req.InputPath), err)
	}

	if req.Async {
		paramsJson, _ := json.Marshal(templateRunParams{TemplateId: req.TemplateId})
		jobId := uuid.NewString()
		job := &types.EditJob{
			JobId:     jobId,
			Kind:      templateJobKind,
			Params:    string(paramsJson),
			Status:    types.EditJobStatusQueued,
			StatusMsg: "Queued",
			InputPath: req.InputPath,
		}
		if err := storage.SaveJob(job); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDBError, "Database error", err)
		}
		log.GetLogger().Info("template run submitted",
			zap.String("job_id", jobId),
			zap.String("template", req.TemplateId))
		s.dispatch(jobId, templateJobKind, s.DispatchTemplate)
		return &dto.ApplyTemplateResData{JobId: jobId, TemplateId: req.TemplateId}, nil
	}

	results, outputPath, err := s.runTemplate(ctx, req.TemplateId, req.InputPath, uuid.NewString(), false)
	if err != nil {
		return nil, err
	}
	return &dto.ApplyTemplateResData{
		TemplateId: req.TemplateId,
		OutputPath: outputPath,
		Results:    results,
	}, nil
}

// ExecuteTemplateRun runs a persisted async template job. Like render jobs
// it is only ever invoked from a worker.
func (s Service) ExecuteTemplateRun(ctx context.Context, jobId string) error {
	job, err := storage.GetJob(jobId)
	if err != nil {
		return apperrors.WrapWithDetail(apperrors.CodeNotFound, "Resource not found",
			fmt.Sprintf("no job with id %q", jobId), err)
	}
	if job.Status.IsTerminal() {
		return nil
	}

	var params templateRunParams
	if err := json.Unmarshal([]byte(job.Params), &params); err != nil || params.TemplateId == "" {
		job.Status = types.EditJobStatusFailed
		job.FailReason = "job params carry no template id"
		_ = storage.SaveJob(job)
		return apperrors.WrapWithDetail(apperrors.CodeInvalidParams, "Invalid parameters",
			"job params carry no template id", err)
	}

	job.Status = types.EditJobStatusRunning
	job.StatusMsg = "Applying template " + params.TemplateId
	_ = storage.SaveJob(job)

	results, outputPath, err := s.runTemplate(ctx, params.TemplateId, job.InputPath, job.JobId, true)
	if err != nil {
		job.Status = types.EditJobStatusFailed
		job.StatusMsg = "Failed"
		job.FailReason = err.Error()
		_ = storage.SaveJob(job)
		return err
	}

	succeeded := lo.CountBy(results, func(r dto.TemplateStepResult) bool {
		return r.Status == engine.StatusSucceeded
	})
	job.Status = types.EditJobStatusSucceeded
	job.StatusMsg = fmt.Sprintf("%d/%d steps succeeded", succeeded, len(results))
	job.OutputPath = outputPath
	job.ProcessPct = 100
	_ = storage.SaveJob(job)
	return nil
}

// runTemplate drives the sequencer with the authoritative executor. Steps
// render into the temp dir; the last produced output is promoted into the
// output dir. persistProgress routes step percents onto the job row.
func (s Service) runTemplate(ctx context.Context, templateId, inputPath, runId string, persistProgress bool) ([]dto.TemplateStepResult, string, error) {
	tpl, ok := s.Engine.Templates.Get(templateId)
	if !ok {
		return nil, "", apperrors.WrapWithDetail(apperrors.CodeTemplateNotFound,
			"Template not found", "no template with id "+templateId, nil)
	}
	total := len(tpl.Operations)
	short := shortId(runId)

	step := 0
	exec := func(ctx context.Context, op engine.Operation, input string) (string, error) {
		step++
		info, err := s.Renderer.Probe(ctx, input)
		if err != nil {
			return "", err
		}

		ext := filepath.Ext(input)
		if ext == "" {
			ext = ".mp4"
		}
		output := filepath.Join(s.TempDir, fmt.Sprintf("%s_step%d%s", short, step, ext))

		var args []string
		duration := estimatedOutputDuration(op.Kind, op.Params, info.Duration)
		if op.Kind == engine.KindRemoveClip {
			plan, planned := s.Engine.PlanRemoval(op, info.Duration)
			if !planned {
				return "", engine.ErrStepSkipped
			}
			duration = plan.OutputDuration()
			args = s.Engine.BuildSegmentGraph(plan).Args(input, output)
		} else {
			expr, err := s.Engine.CompileFilter(op)
			if err != nil {
				return "", err
			}
			args = expr.Args(input, output)
		}

		req := types.RenderRequest{JobId: runId, Args: args, Duration: duration}
		onEvent := func(event types.RenderEvent) {
			if event.Kind == types.RenderEventProgress && total > 0 {
				overall := (float64(step-1) + event.Percent/100) / float64(total) * 100
				event.Percent = overall
				if persistProgress {
					_ = storage.UpdateJobProgress(runId, uint8(overall))
				}
			}
			s.Progress.Publish(event)
		}
		if err := s.Renderer.Render(ctx, req, onEvent); err != nil {
			return "", err
		}
		return output, nil
	}

	results, err := s.Engine.ApplyTemplate(ctx, templateId, inputPath, exec)
	if err != nil {
		return nil, "", err
	}

	outputPath := lastOutput(results)
	if outputPath != "" && outputPath != inputPath {
		final := filepath.Join(s.OutputDir, fmt.Sprintf("%s_%s%s", short, templateId, filepath.Ext(outputPath)))
		if err := os.Rename(outputPath, final); err != nil {
			log.GetLogger().Warn("could not promote template output",
				zap.String("from", outputPath),
				zap.String("to", final),
				zap.Error(err))
		} else {
			for i := len(results) - 1; i >= 0; i-- {
				if results[i].Output == outputPath {
					results[i].Output = final
					break
				}
			}
			outputPath = final
		}
	}

	stepResults := lo.Map(results, func(r engine.OperationResult, _ int) dto.TemplateStepResult {
		return dto.TemplateStepResult{
			Index:  r.Index,
			Kind:   string(r.Kind),
			Status: r.Status,
			Output: r.Output,
			Detail: r.Detail,
		}
	})
	return stepResults, outputPath, nil
}

// lastOutput returns the newest step output, or empty when no step produced
// one.
func lastOutput(results []engine.OperationResult) string {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].Output != "" {
			return results[i].Output
		}
	}
	return ""
}
