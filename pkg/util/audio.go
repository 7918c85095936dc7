package util

import (
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"clipforge/internal/storage"
	"clipforge/log"
)

// ProcessAudio extracts a mono 16k audio track, the shape the transcription
// API expects.
func ProcessAudio(filePath string) (string, error) {
	dest := strings.ReplaceAll(filePath, filepath.Ext(filePath), "_mono_16K.mp3")
	cmdArgs := []string{"-y", "-i", filePath, "-ac", "1", "-ar", "16000", "-b:a", "192k", dest}
	cmd := exec.Command(storage.FfmpegPath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("audio extraction failed", zap.Error(err), zap.String("audio file", filePath), zap.String("output", string(output)))
		return "", err
	}
	return dest, nil
}

// ExtractWavAudio decodes the input into a 16-bit mono PCM WAV at the given
// sample rate so waveform peaks can be computed from raw samples.
func ExtractWavAudio(filePath, destPath string, sampleRate int) error {
	if sampleRate <= 0 {
		sampleRate = 8000
	}
	cmdArgs := []string{
		"-y",
		"-i", filePath,
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		destPath,
	}
	cmd := exec.Command(storage.FfmpegPath, cmdArgs...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.GetLogger().Error("wav extraction failed", zap.Error(err), zap.String("audio file", filePath), zap.String("output", string(output)))
		return err
	}
	return nil
}
