package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"clipforge/internal/dto"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"
	"clipforge/pkg/util"
)

// GenerateCaptions transcribes a media file and writes the result as an SRT
// in the output dir. The returned path plugs straight into an addCaptions
// operation.
func (s Service) GenerateCaptions(ctx context.Context, req dto.GenerateCaptionsReq) (*dto.GenerateCaptionsResData, error) {
	if s.Captioner == nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeTranscribeFailed,
			"Transcription failed",
			"caption generation is not configured, set the captions api key", nil)
	}
	if _, err := os.Stat(req.MediaPath); err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeFileNotFound, "File not found",
			fmt.Sprintf("media file %q does not exist", req.MediaPath), err)
	}

	audioPath, err := util.ProcessAudio(req.MediaPath)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeAudioExtract, "Audio extraction failed", err)
	}
	defer os.Remove(audioPath)

	segments, err := s.Captioner.Transcribe(ctx, audioPath, req.Language)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, apperrors.WrapWithDetail(apperrors.CodeTranscribeFailed,
			"Transcription failed", "no speech detected in "+req.MediaPath, nil)
	}

	base := strings.TrimSuffix(filepath.Base(req.MediaPath), filepath.Ext(req.MediaPath))
	srtPath := filepath.Join(s.OutputDir, base+".srt")
	if err := util.WriteSrtFile(segments, srtPath); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCaptionWrite, "Could not write subtitle file", err)
	}

	log.GetLogger().Info("captions generated",
		zap.String("media", req.MediaPath),
		zap.String("subtitle", srtPath),
		zap.Int("segments", len(segments)))

	return &dto.GenerateCaptionsResData{
		SubtitlePath: srtPath,
		SegmentCount: len(segments),
	}, nil
}
