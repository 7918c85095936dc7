package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clipforge/internal/dto"
	"clipforge/internal/mocks"
	"clipforge/internal/types"
	apperrors "clipforge/pkg/errors"
)

func TestGenerateCaptionsNotConfigured(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.GenerateCaptions(context.Background(), dto.GenerateCaptionsReq{MediaPath: "in.mp4"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeTranscribeFailed))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Detail, "not configured")
}

func TestGenerateCaptionsMissingFile(t *testing.T) {
	svc := newTestService(t, nil)
	svc.Captioner = &mocks.MockCaptionGenerator{}

	_, err := svc.GenerateCaptions(context.Background(), dto.GenerateCaptionsReq{
		MediaPath: filepath.Join(t.TempDir(), "missing.mp4"),
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeFileNotFound))
}

func TestGenerateCaptionsWritesSrt(t *testing.T) {
	stubFfmpeg(t, "#!/bin/sh\nexit 0\n")
	captioner := &mocks.MockCaptionGenerator{}
	svc := newTestService(t, nil)
	svc.Captioner = captioner
	input := writeTempMedia(t, "talk.mp4")

	captioner.On("Transcribe", mock.Anything, mock.Anything, "en").Return([]types.CaptionSegment{
		{Start: 0, End: 1.5, Text: "hello there"},
		{Start: 1.5, End: 3, Text: "welcome back"},
	}, nil)

	resp, err := svc.GenerateCaptions(context.Background(), dto.GenerateCaptionsReq{
		MediaPath: input,
		Language:  "en",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.SegmentCount)
	assert.Equal(t, filepath.Join(svc.OutputDir, "talk.srt"), resp.SubtitlePath)

	content, err := os.ReadFile(resp.SubtitlePath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "hello there")
	assert.Contains(t, string(content), "00:00:01,500 --> 00:00:03,000")
}

func TestGenerateCaptionsEmptyTranscript(t *testing.T) {
	stubFfmpeg(t, "#!/bin/sh\nexit 0\n")
	captioner := &mocks.MockCaptionGenerator{}
	svc := newTestService(t, nil)
	svc.Captioner = captioner
	input := writeTempMedia(t, "silence.mp4")

	captioner.On("Transcribe", mock.Anything, mock.Anything, "").Return([]types.CaptionSegment{}, nil)

	_, err := svc.GenerateCaptions(context.Background(), dto.GenerateCaptionsReq{MediaPath: input})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeTranscribeFailed))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Detail, "no speech detected")
}

func TestGenerateCaptionsExtractionFailure(t *testing.T) {
	stubFfmpeg(t, "#!/bin/sh\nexit 1\n")
	svc := newTestService(t, nil)
	svc.Captioner = &mocks.MockCaptionGenerator{}
	input := writeTempMedia(t, "talk.mp4")

	_, err := svc.GenerateCaptions(context.Background(), dto.GenerateCaptionsReq{MediaPath: input})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeAudioExtract))
}
