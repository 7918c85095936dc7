package main

import (
	"os"
	"runtime"

	"clipforge/config"
	"clipforge/internal/appdirs"
	"clipforge/internal/deps"
	"clipforge/internal/server"
	"clipforge/internal/storage"
	"clipforge/log"

	"go.uber.org/zap"
)

func main() {
	if handled, exitCode := handleCLIFlags(); handled {
		os.Exit(exitCode)
	}

	if paths, err := appdirs.Resolve(); err == nil {
		log.LogDir = paths.LogDir
	}
	log.InitLogger()
	defer log.GetLogger().Sync()

	var err error
	if !config.LoadConfig() {
		return
	}

	if err = config.CheckConfig(); err != nil {
		log.GetLogger().Error("invalid config", zap.Error(err))
		return
	}

	storage.InitDB(config.Conf.App.DataDir)

	// Jobs left "running" by a previous process can never finish.
	if count, markErr := storage.MarkStaleJobs(); markErr != nil {
		log.GetLogger().Warn("failed to mark stale jobs", zap.Error(markErr))
	} else if count > 0 {
		log.GetLogger().Info("marked stale jobs as failed", zap.Int64("count", count))
	}

	if err = deps.CheckDependency(); err != nil {
		if !tryAutoInstall() {
			log.GetLogger().Error("dependency check failed", zap.Error(err))
			return
		}
		if err = deps.CheckDependency(); err != nil {
			log.GetLogger().Error("dependency check failed after install", zap.Error(err))
			return
		}
	}

	if err = server.StartBackend(); err != nil {
		log.GetLogger().Error("backend failed to start", zap.Error(err))
		os.Exit(1)
	}
}

// tryAutoInstall fetches a managed ffmpeg build on platforms that support it.
func tryAutoInstall() bool {
	if runtime.GOOS != "windows" || !deps.CanAutoInstallDependency(deps.DependencyIDFFmpeg) {
		return false
	}
	log.GetLogger().Info("attempting automatic ffmpeg install")
	err := deps.InstallDependency(deps.DependencyIDFFmpeg, func(progress deps.InstallProgress) {
		log.GetLogger().Info("dependency install",
			zap.String("stage", progress.Stage),
			zap.String("message", progress.Message),
			zap.Float64("percent", progress.Percent))
	})
	if err != nil {
		log.GetLogger().Error("automatic ffmpeg install failed", zap.Error(err))
		return false
	}
	return true
}
