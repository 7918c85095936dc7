package service

import (
	"path/filepath"
	"strings"

	"clipforge/internal/appdirs"
)

var appDirsResolver = appdirs.Resolve

// resolveOutputDir returns the directory rendered files land in: the
// configured one when set, otherwise the platform default.
func resolveOutputDir(configured string) string {
	if dir := strings.TrimSpace(configured); dir != "" {
		return dir
	}
	if dirs, err := appDirsResolver(); err == nil && strings.TrimSpace(dirs.OutputDir) != "" {
		return dirs.OutputDir
	}
	return filepath.Join("data", "output")
}

// resolveTempDir returns the scratch directory for intermediate artifacts
// such as extracted audio.
func resolveTempDir(configured string) string {
	if dir := strings.TrimSpace(configured); dir != "" {
		return dir
	}
	if dirs, err := appDirsResolver(); err == nil && strings.TrimSpace(dirs.DataDir) != "" {
		return filepath.Join(dirs.DataDir, "temp")
	}
	return filepath.Join("data", "temp")
}
