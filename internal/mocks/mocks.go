// Package mocks provides mock implementations of core interfaces for testing.
package mocks

import (
	"context"

	"clipforge/internal/types"

	"github.com/stretchr/testify/mock"
)

// MockRenderExecutor is a mock implementation of types.RenderExecutor
type MockRenderExecutor struct {
	mock.Mock
}

func (m *MockRenderExecutor) Render(ctx context.Context, req types.RenderRequest, onProgress types.RenderProgressFunc) error {
	args := m.Called(ctx, req, onProgress)
	return args.Error(0)
}

func (m *MockRenderExecutor) Probe(ctx context.Context, mediaPath string) (*types.MediaInfo, error) {
	args := m.Called(ctx, mediaPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MediaInfo), args.Error(1)
}

// MockCaptionGenerator is a mock implementation of types.CaptionGenerator
type MockCaptionGenerator struct {
	mock.Mock
}

func (m *MockCaptionGenerator) Transcribe(ctx context.Context, audioPath string, language string) ([]types.CaptionSegment, error) {
	args := m.Called(ctx, audioPath, language)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.CaptionSegment), args.Error(1)
}
