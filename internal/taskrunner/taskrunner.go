// Package taskrunner executes render jobs with in-memory workers. It is the
// fallback path when no Redis queue is configured.
package taskrunner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"clipforge/internal/service"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
)

const (
	defaultQueueSize   = 128
	defaultConcurrency = 2
)

var (
	ErrRunnerStopped = errors.New("task runner stopped")
	ErrQueueFull     = errors.New("task queue is full")
)

// Config controls in-process task runner behavior.
type Config struct {
	QueueSize   int
	Concurrency int
}

// DefaultConfig returns a single-host friendly default config.
func DefaultConfig() Config {
	return Config{
		QueueSize:   defaultQueueSize,
		Concurrency: defaultConcurrency,
	}
}

// RenderJobPayload contains render job enqueue data.
type RenderJobPayload struct {
	JobID string `json:"job_id"`
}

// TemplateRunPayload contains template run enqueue data.
type TemplateRunPayload struct {
	JobID string `json:"job_id"`
}

type queuedTaskType uint8

const (
	queuedTaskRender queuedTaskType = iota + 1
	queuedTaskTemplate
)

type queuedTask struct {
	taskType queuedTaskType
	render   RenderJobPayload
	template TemplateRunPayload
}

// Runner executes queued tasks with in-memory workers.
type Runner struct {
	service *service.Service
	config  Config

	queue  chan queuedTask
	ctx    context.Context
	cancel context.CancelFunc

	workerWg sync.WaitGroup
	closed   atomic.Bool
}

// New creates and starts a task runner.
func New(svc *service.Service, cfg Config) *Runner {
	if svc == nil {
		svc = service.NewService()
	}

	cfg = normalizeConfig(cfg)
	ctx, cancel := context.WithCancel(context.Background())

	runner := &Runner{
		service: svc,
		config:  cfg,
		queue:   make(chan queuedTask, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
	}

	for i := 0; i < cfg.Concurrency; i++ {
		runner.workerWg.Add(1)
		go runner.worker(i + 1)
	}

	return runner
}

func normalizeConfig(cfg Config) Config {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return cfg
}

// SubmitRenderJob queues a render job.
func (r *Runner) SubmitRenderJob(payload RenderJobPayload) error {
	if payload.JobID == "" {
		return errors.New("render job id is required")
	}

	return r.submit(queuedTask{
		taskType: queuedTaskRender,
		render:   payload,
	}, payload.JobID, "render")
}

// SubmitTemplateRun queues a template run.
func (r *Runner) SubmitTemplateRun(payload TemplateRunPayload) error {
	if payload.JobID == "" {
		return errors.New("template run job id is required")
	}

	return r.submit(queuedTask{
		taskType: queuedTaskTemplate,
		template: payload,
	}, payload.JobID, "template")
}

func (r *Runner) submit(task queuedTask, jobID, taskType string) error {
	if r.closed.Load() {
		return ErrRunnerStopped
	}

	select {
	case <-r.ctx.Done():
		return ErrRunnerStopped
	case r.queue <- task:
		log.GetLogger().Info("[TaskRunner] task submitted",
			zap.String("job_id", jobID),
			zap.String("task_type", taskType))
		return nil
	default:
		return ErrQueueFull
	}
}

func (r *Runner) worker(workerID int) {
	defer r.workerWg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		default:
		}

		select {
		case <-r.ctx.Done():
			return
		case task := <-r.queue:
			r.processTask(workerID, task)
		}
	}
}

func (r *Runner) processTask(workerID int, task queuedTask) {
	var err error
	var jobID string
	var taskType string

	switch task.taskType {
	case queuedTaskRender:
		jobID = task.render.JobID
		taskType = "render"
		err = r.processRenderJob(task.render)
	case queuedTaskTemplate:
		jobID = task.template.JobID
		taskType = "template"
		err = r.processTemplateRun(task.template)
	default:
		err = fmt.Errorf("unsupported task type: %d", task.taskType)
	}

	if err != nil {
		log.GetLogger().Error("[TaskRunner] task failed",
			zap.Int("worker_id", workerID),
			zap.String("job_id", jobID),
			zap.String("task_type", taskType),
			zap.Error(err))
		return
	}

	log.GetLogger().Info("[TaskRunner] task completed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", jobID),
		zap.String("task_type", taskType))
}

func (r *Runner) processRenderJob(payload RenderJobPayload) error {
	if r.service == nil {
		return errors.New("service not initialized")
	}

	if err := r.service.ExecuteRenderJob(r.ctx, payload.JobID); err != nil {
		r.markJobFailed(payload.JobID, err)
		return err
	}
	return nil
}

func (r *Runner) processTemplateRun(payload TemplateRunPayload) error {
	if r.service == nil {
		return errors.New("service not initialized")
	}

	if err := r.service.ExecuteTemplateRun(r.ctx, payload.JobID); err != nil {
		r.markJobFailed(payload.JobID, err)
		return err
	}
	return nil
}

func (r *Runner) markJobFailed(jobID string, taskErr error) {
	if jobID == "" {
		return
	}

	job, err := storage.GetJob(jobID)
	if err != nil || job == nil || job.Status.IsTerminal() {
		return
	}

	job.Status = types.EditJobStatusFailed
	job.FailReason = taskErr.Error()
	_ = storage.SaveJob(job)
}

// Close stops workers and rejects new tasks.
func (r *Runner) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}

	r.cancel()
	r.workerWg.Wait()
}

// Pending returns the number of queued tasks waiting for workers.
func (r *Runner) Pending() int {
	return len(r.queue)
}
