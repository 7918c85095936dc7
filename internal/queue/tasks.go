// Package queue provides task handlers for Asynq background processing.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"clipforge/internal/service"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
)

// TaskHandlers provides handlers for different task types
type TaskHandlers struct {
	service *service.Service
}

// NewTaskHandlers creates a new TaskHandlers instance
func NewTaskHandlers(svc *service.Service) *TaskHandlers {
	return &TaskHandlers{service: svc}
}

// HandleRenderJob processes queued render jobs
func (h *TaskHandlers) HandleRenderJob(ctx context.Context, t *asynq.Task) error {
	var payload RenderJobPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.GetLogger().Info("[Queue] Processing render job",
		zap.String("job_id", payload.JobID))

	if err := h.service.ExecuteRenderJob(ctx, payload.JobID); err != nil {
		markJobFailed(payload.JobID, err)
		return err
	}

	log.GetLogger().Info("[Queue] Render job completed",
		zap.String("job_id", payload.JobID))

	return nil
}

// HandleTemplateRun processes queued template runs
func (h *TaskHandlers) HandleTemplateRun(ctx context.Context, t *asynq.Task) error {
	var payload TemplateRunPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	log.GetLogger().Info("[Queue] Processing template run",
		zap.String("job_id", payload.JobID))

	if err := h.service.ExecuteTemplateRun(ctx, payload.JobID); err != nil {
		markJobFailed(payload.JobID, err)
		return err
	}

	log.GetLogger().Info("[Queue] Template run completed",
		zap.String("job_id", payload.JobID))

	return nil
}

// markJobFailed records the failure on the job row so clients polling the
// job see the terminal state even when the service bailed out early.
func markJobFailed(jobId string, cause error) {
	job, _ := storage.GetJob(jobId)
	if job == nil || job.Status.IsTerminal() {
		return
	}
	job.Status = types.EditJobStatusFailed
	job.FailReason = cause.Error()
	_ = storage.SaveJob(job)
}

// RegisterHandlers registers all task handlers with the Asynq server mux
func (h *TaskHandlers) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeRenderJob, h.HandleRenderJob)
	mux.HandleFunc(TypeTemplateRun, h.HandleTemplateRun)
}

// StartWorker starts the Asynq worker with registered handlers
func StartWorker(q *Queue, svc *service.Service) error {
	handlers := NewTaskHandlers(svc)

	mux := asynq.NewServeMux()
	handlers.RegisterHandlers(mux)

	log.GetLogger().Info("[Queue] Starting worker",
		zap.String("redis_addr", q.config.RedisAddr),
		zap.Int("concurrency", q.config.Concurrency))

	return q.server.Run(mux)
}
