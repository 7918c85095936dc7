package openai

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"

	"clipforge/internal/types"
	apperrors "clipforge/pkg/errors"
)

var _ types.CaptionGenerator = (*Client)(nil)

// Transcribe converts an audio file into timed caption segments.
func (c *Client) Transcribe(ctx context.Context, audioPath string, language string) ([]types.CaptionSegment, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTranscribeFailed, "transcription request failed", err)
	}

	segments := make([]types.CaptionSegment, 0, len(resp.Segments))
	for _, segment := range resp.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		segments = append(segments, types.CaptionSegment{
			Start: segment.Start,
			End:   segment.End,
			Text:  text,
		})
	}
	return segments, nil
}
