package appdirs

import (
	"path/filepath"
	"strings"
)

const UploadRootName = "uploads"

func UploadRootFor(paths Paths) string {
	return filepath.Join(normalizeDataDir(paths.DataDir), UploadRootName)
}

func OutputRootFor(paths Paths) string {
	cleaned := strings.TrimSpace(paths.OutputDir)
	if cleaned == "" {
		return filepath.Join("data", "output")
	}
	return filepath.Clean(cleaned)
}

func ResolveUploadRoot() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return UploadRootFor(paths), nil
}

func ResolveOutputRoot() (string, error) {
	paths, err := Resolve()
	if err != nil {
		return "", err
	}
	return OutputRootFor(paths), nil
}

func normalizeDataDir(dataDir string) string {
	cleaned := strings.TrimSpace(dataDir)
	if cleaned == "" {
		return "data"
	}
	return filepath.Clean(cleaned)
}
