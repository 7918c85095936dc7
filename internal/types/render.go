package types

import (
	"context"
	"time"
)

// MediaInfo is the probed shape of an input file.
type MediaInfo struct {
	Duration float64 `json:"duration"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

type RenderEventKind uint8

const (
	RenderEventStart RenderEventKind = iota + 1
	RenderEventProgress
	RenderEventDone
	RenderEventError
)

func (k RenderEventKind) String() string {
	switch k {
	case RenderEventStart:
		return "start"
	case RenderEventProgress:
		return "progress"
	case RenderEventDone:
		return "done"
	case RenderEventError:
		return "error"
	default:
		return "unknown"
	}
}

// RenderEvent is emitted while a render runs. Exactly one terminal event
// (done or error) follows the start event; progress percents never decrease.
type RenderEvent struct {
	JobId      string          `json:"job_id"`
	Kind       RenderEventKind `json:"kind"`
	Percent    float64         `json:"percent"`
	Message    string          `json:"message"`
	OutputPath string          `json:"output_path,omitempty"`
	Err        error           `json:"-"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func (e RenderEvent) IsTerminal() bool {
	return e.Kind == RenderEventDone || e.Kind == RenderEventError
}

// RenderProgressFunc receives render events as they occur. Implementations
// must not block; slow consumers drop events rather than stall the render.
type RenderProgressFunc func(event RenderEvent)

// RenderRequest is one compiled ffmpeg invocation. Duration is the probed
// input duration used to turn stderr timestamps into percent progress; zero
// disables progress events.
type RenderRequest struct {
	JobId    string
	Args     []string
	Duration float64
}

// RenderExecutor runs compiled ffmpeg invocations and probes media files.
type RenderExecutor interface {
	Render(ctx context.Context, req RenderRequest, onProgress RenderProgressFunc) error
	Probe(ctx context.Context, mediaPath string) (*MediaInfo, error)
}

// CaptionGenerator turns an audio file into subtitle segments.
type CaptionGenerator interface {
	Transcribe(ctx context.Context, audioPath string, language string) ([]CaptionSegment, error)
}

// CaptionSegment is one transcribed utterance with its source timing.
type CaptionSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}
