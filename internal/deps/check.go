package deps

import (
	"fmt"
	"strings"

	"clipforge/config"
	"clipforge/internal/storage"
	"clipforge/log"

	"go.uber.org/zap"
)

// CheckDependency resolves the external binaries the render pipeline shells
// out to and adopts the resolved paths into storage. Call it after the config
// is loaded and again whenever the config changes.
func CheckDependency() error {
	if path := strings.TrimSpace(config.Conf.Ffmpeg.FfmpegPath); path != "" {
		storage.FfmpegPath = path
	}
	if path := strings.TrimSpace(config.Conf.Ffmpeg.FfprobePath); path != "" {
		storage.FfprobePath = path
	}
	EnsureManagedDependencyPaths()

	states := ResolveDependencyInventory()
	log.GetLogger().Info(FormatDependencyReport(states))

	var missing []string
	for _, state := range states {
		if state.Status == DependencyStatusOK {
			adoptResolvedPath(state)
			continue
		}
		log.GetLogger().Warn("dependency unavailable",
			zap.String("name", state.Name),
			zap.String("status", string(state.Status)),
			zap.String("error", state.Error))
		if state.Tier == DependencyTierMust {
			missing = append(missing, state.Name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("required dependencies unavailable: %s", strings.Join(missing, ", "))
	}
	return nil
}

func adoptResolvedPath(state DependencyState) {
	switch state.ID {
	case DependencyIDFFmpeg:
		storage.FfmpegPath = state.ResolvedPath
	case DependencyIDFFprobe:
		storage.FfprobePath = state.ResolvedPath
	}
}
