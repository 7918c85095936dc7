package service

import (
	"clipforge/config"
	"clipforge/internal/engine"
	"clipforge/internal/render"
	"clipforge/internal/storage"
	"clipforge/internal/types"
	"clipforge/log"
	"clipforge/pkg/cloudinary"
	"clipforge/pkg/openai"

	"go.uber.org/zap"
)

// Service ties the engine to its backends. NewService reads config.Conf
// once; everything below works off the snapshot, so a config change only
// takes effect through re-initialization.
type Service struct {
	Engine    *engine.Engine
	Renderer  types.RenderExecutor
	Preview   *cloudinary.Client
	Captioner types.CaptionGenerator
	Progress  *ProgressHub

	OutputDir     string
	TempDir       string
	WarmOnPreview bool

	// DispatchRender and DispatchTemplate hand persisted jobs to the
	// active worker backend (asynq or the in-process runner). The server
	// wires them at boot; with neither wired, submitted jobs stay queued.
	DispatchRender   func(jobId string) error
	DispatchTemplate func(jobId string) error
}

func NewService() *Service {
	var captioner types.CaptionGenerator
	if config.Conf.Captions.ApiKey != "" {
		captioner = openai.NewClient(
			config.Conf.Captions.BaseUrl,
			config.Conf.Captions.ApiKey,
			config.Conf.Captions.Model,
			config.Conf.App.Proxy,
		)
	} else {
		log.GetLogger().Info("captions api key not set, caption generation disabled")
	}

	preview := cloudinary.New(cloudinary.Config{
		CloudName: config.Conf.Preview.CloudName,
		BaseURL:   config.Conf.Preview.BaseURL,
		Secure:    config.Conf.Preview.Secure,
	})
	if !preview.Configured() {
		log.GetLogger().Info("preview cloud name not set, preview path disabled")
	} else {
		log.GetLogger().Info("preview backend configured",
			zap.String("cloud_name", config.Conf.Preview.CloudName),
			zap.Bool("warm_on_preview", config.Conf.Preview.WarmOnPreview))
	}

	return &Service{
		Engine: engine.New(engine.Options{}),
		Renderer: render.New(render.Config{
			FfmpegPath:  storage.FfmpegPath,
			FfprobePath: storage.FfprobePath,
		}),
		Preview:       preview,
		Captioner:     captioner,
		Progress:      NewProgressHub(),
		OutputDir:     resolveOutputDir(config.Conf.App.OutputDir),
		TempDir:       resolveTempDir(config.Conf.App.TempDir),
		WarmOnPreview: config.Conf.Preview.WarmOnPreview,
	}
}
