package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	apperrors "clipforge/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFakeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "speech.mp3")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0o644))
	return path
}

func TestTranscribeParsesSegments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"task": "transcribe",
			"language": "en",
			"duration": 4.0,
			"text": "hello there welcome back",
			"segments": [
				{"id": 0, "start": 0.0, "end": 1.5, "text": " hello there"},
				{"id": 1, "start": 1.5, "end": 4.0, "text": " welcome back"},
				{"id": 2, "start": 4.0, "end": 4.2, "text": "   "}
			]
		}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "test-key", "whisper-1", "")
	segments, err := client.Transcribe(context.Background(), writeFakeAudio(t), "en")
	require.NoError(t, err)

	require.Len(t, segments, 2)
	assert.Equal(t, "hello there", segments[0].Text)
	assert.InDelta(t, 0.0, segments[0].Start, 0.001)
	assert.InDelta(t, 1.5, segments[0].End, 0.001)
	assert.Equal(t, "welcome back", segments[1].Text)
	assert.InDelta(t, 4.0, segments[1].End, 0.001)
}

func TestTranscribeWrapsApiErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "invalid_request_error"}}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "wrong-key", "", "")
	segments, err := client.Transcribe(context.Background(), writeFakeAudio(t), "")
	require.Error(t, err)
	assert.Nil(t, segments)
	assert.True(t, apperrors.Is(err, apperrors.CodeTranscribeFailed))
}

func TestNewClientDefaultModel(t *testing.T) {
	client := NewClient("", "key", "", "")
	assert.Equal(t, "whisper-1", client.model)

	client = NewClient("", "key", "custom-model", "")
	assert.Equal(t, "custom-model", client.model)
}
