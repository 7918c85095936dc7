package server

import (
	"fmt"

	"clipforge/config"
	"clipforge/internal/handler"
	"clipforge/internal/queue"
	"clipforge/internal/router"
	"clipforge/internal/service"
	"clipforge/internal/taskrunner"
	"clipforge/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartBackend builds the service, starts the job workers and serves the
// HTTP API. It blocks until the listener fails.
func StartBackend() error {
	svc := service.NewService()
	dispatchRender, dispatchTemplate := startWorkers(svc)
	svc.DispatchRender = dispatchRender
	svc.DispatchTemplate = dispatchTemplate

	hdl := &handler.Handler{
		Service: svc,
		// Workers keep their boot-time service; rebuilt services reuse the
		// running dispatchers so submitted jobs still reach them.
		Rebuild: func() *service.Service {
			rebuilt := service.NewService()
			rebuilt.DispatchRender = dispatchRender
			rebuilt.DispatchTemplate = dispatchTemplate
			return rebuilt
		},
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	router.SetupRouter(r, hdl)

	addr := fmt.Sprintf("%s:%d", config.Conf.Server.Host, config.Conf.Server.Port)
	log.GetLogger().Info("server starting", zap.String("addr", addr))
	return r.Run(addr)
}

// startWorkers picks the execution backend: asynq against Redis when
// configured, otherwise the in-process runner. Returns the dispatch funcs
// the service hands persisted jobs to.
func startWorkers(svc *service.Service) (func(string) error, func(string) error) {
	if config.Conf.Queue.RedisAddr != "" {
		q := queue.NewQueue(queue.QueueConfig{
			RedisAddr:     config.Conf.Queue.RedisAddr,
			RedisPassword: config.Conf.Queue.RedisPassword,
			RedisDB:       config.Conf.Queue.RedisDB,
			Concurrency:   config.Conf.Queue.Concurrency,
		})
		go func() {
			if err := queue.StartWorker(q, svc); err != nil {
				log.GetLogger().Error("queue worker stopped", zap.Error(err))
			}
		}()
		log.GetLogger().Info("job backend: redis queue",
			zap.String("addr", config.Conf.Queue.RedisAddr),
			zap.Int("concurrency", config.Conf.Queue.Concurrency))

		dispatchRender := func(jobId string) error {
			return q.EnqueueRenderJob(queue.RenderJobPayload{JobID: jobId})
		}
		dispatchTemplate := func(jobId string) error {
			return q.EnqueueTemplateRun(queue.TemplateRunPayload{JobID: jobId})
		}
		return dispatchRender, dispatchTemplate
	}

	runner := taskrunner.New(svc, taskrunner.Config{Concurrency: config.Conf.Queue.Concurrency})
	log.GetLogger().Info("job backend: in-process runner",
		zap.Int("concurrency", config.Conf.Queue.Concurrency))

	dispatchRender := func(jobId string) error {
		return runner.SubmitRenderJob(taskrunner.RenderJobPayload{JobID: jobId})
	}
	dispatchTemplate := func(jobId string) error {
		return runner.SubmitTemplateRun(taskrunner.TemplateRunPayload{JobID: jobId})
	}
	return dispatchRender, dispatchTemplate
}
