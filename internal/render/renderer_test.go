package render

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.LogDir = filepath.Join(os.TempDir(), "clipforge-test-logs")
	log.InitLogger()
	os.Exit(m.Run())
}

func TestNewDefaults(t *testing.T) {
	r := New(Config{})
	assert.Equal(t, "ffmpeg", r.cfg.FfmpegPath)
	assert.Equal(t, "ffprobe", r.cfg.FfprobePath)

	r = New(Config{FfmpegPath: "/opt/bin/ffmpeg", FfprobePath: "/opt/bin/ffprobe"})
	assert.Equal(t, "/opt/bin/ffmpeg", r.cfg.FfmpegPath)
	assert.Equal(t, "/opt/bin/ffprobe", r.cfg.FfprobePath)
}

func TestParseProgressClock(t *testing.T) {
	testCases := []struct {
		line    string
		want    float64
		matched bool
	}{
		{
			line:    "frame=  120 fps= 30 q=28.0 size=     512kB time=00:01:23.45 bitrate=  50.2kbits/s speed=1.2x",
			want:    83.45,
			matched: true,
		},
		{line: "time=01:00:00.500", want: 3600.5, matched: true},
		{line: "time=00:00:00.00", want: 0, matched: true},
		{line: "size=N/A time=N/A bitrate=N/A", matched: false},
		{line: "Press [q] to stop, [?] for help", matched: false},
	}

	for _, tc := range testCases {
		got, ok := parseProgressClock(tc.line)
		assert.Equal(t, tc.matched, ok, tc.line)
		if tc.matched {
			assert.InDelta(t, tc.want, got, 0.001, tc.line)
		}
	}
}

func TestScanStatusLinesSplitsCarriageReturns(t *testing.T) {
	scanner := bufio.NewScanner(strings.NewReader("first\rsecond\nthird"))
	scanner.Split(scanStatusLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	assert.Equal(t, []string{"first", "second", "third"}, lines)
}

func TestConsumeStderrEmitsMonotonicProgress(t *testing.T) {
	input := strings.Join([]string{
		"frame=1 time=00:00:25.00 speed=1x",
		"frame=2 time=00:00:50.00 speed=1x",
		"frame=3 time=00:00:50.00 speed=1x",
		"frame=4 time=00:00:40.00 speed=1x",
		"frame=5 time=00:02:00.00 speed=1x",
	}, "\r")

	r := New(Config{})
	var events []types.RenderEvent
	r.consumeStderr(strings.NewReader(input), types.RenderRequest{JobId: "job-1", Duration: 100}, func(event types.RenderEvent) {
		events = append(events, event)
	})

	require.Len(t, events, 3)
	assert.InDelta(t, 25, events[0].Percent, 0.001)
	assert.InDelta(t, 50, events[1].Percent, 0.001)
	assert.InDelta(t, 99.9, events[2].Percent, 0.001)
	for _, event := range events {
		assert.Equal(t, types.RenderEventProgress, event.Kind)
		assert.Equal(t, "job-1", event.JobId)
	}
}

func TestConsumeStderrZeroDurationEmitsNothing(t *testing.T) {
	r := New(Config{})
	called := false
	tail := r.consumeStderr(strings.NewReader("time=00:00:10.00\r"), types.RenderRequest{JobId: "job-1"}, func(types.RenderEvent) {
		called = true
	})
	assert.False(t, called)
	assert.Equal(t, []string{"time=00:00:10.00"}, tail)
}

func TestConsumeStderrKeepsBoundedTail(t *testing.T) {
	var lines []string
	for i := 0; i < 30; i++ {
		lines = append(lines, fmt.Sprintf("line %d", i))
	}

	r := New(Config{})
	tail := r.consumeStderr(strings.NewReader(strings.Join(lines, "\n")), types.RenderRequest{JobId: "job-1"}, nil)

	require.Len(t, tail, stderrTailLines)
	assert.Equal(t, "line 29", tail[len(tail)-1])
	assert.Equal(t, "line 18", tail[0])
}

func TestRenderMissingBinary(t *testing.T) {
	r := New(Config{FfmpegPath: filepath.Join(t.TempDir(), "no-such-ffmpeg")})

	var events []types.RenderEvent
	err := r.Render(context.Background(), types.RenderRequest{
		JobId:    "job-missing",
		Args:     []string{"-i", "in.mp4", "out.mp4"},
		Duration: 10,
	}, func(event types.RenderEvent) {
		events = append(events, event)
	})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeRenderFailed))

	require.NotEmpty(t, events)
	assert.Equal(t, types.RenderEventStart, events[0].Kind)
	last := events[len(events)-1]
	assert.Equal(t, types.RenderEventError, last.Kind)

	terminal := 0
	for _, event := range events {
		if event.IsTerminal() {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal)
}

func TestProbeMissingBinary(t *testing.T) {
	r := New(Config{FfprobePath: filepath.Join(t.TempDir(), "no-such-ffprobe")})

	info, err := r.Probe(context.Background(), "in.mp4")
	require.Error(t, err)
	assert.Nil(t, info)
	assert.True(t, apperrors.Is(err, apperrors.CodeProbeFailed))
}

func TestRedactArgsStripsFilterPayloads(t *testing.T) {
	args := []string{
		"-i", "in.mp4",
		"-vf", "drawtext=text='call me at 555-0123':fontsize=36,eq=brightness=0.06",
		"-af", "atempo=1.5",
		"-y", "out.mp4",
	}

	redacted := redactArgs(args)
	assert.Equal(t, []string{"-i", "in.mp4", "-vf", "drawtext,eq", "-af", "atempo", "-y", "out.mp4"}, redacted)

	// input untouched
	assert.Contains(t, args[3], "555-0123")

	// escaped payload commas never leak fragments
	redacted = redactArgs([]string{"-vf", `drawtext=text='reach me\, anytime':fontsize=36`})
	assert.Equal(t, "drawtext", redacted[1])
}

func TestRedactArgsFilterComplexGraph(t *testing.T) {
	graph := "[0:v]trim=start=0:end=2,setpts=PTS-STARTPTS[v0];" +
		"[0:a]atrim=start=0:end=2,asetpts=PTS-STARTPTS[a0];" +
		"[v0][a0]concat=n=1:v=1:a=1[outv][outa]"

	redacted := redactArgs([]string{"-i", "in.mp4", "-filter_complex", graph, "out.mp4"})
	assert.Equal(t, "trim,setpts,atrim,asetpts,concat", redacted[3])
}

func TestStartEventCarriesRedactedCommand(t *testing.T) {
	r := New(Config{FfmpegPath: filepath.Join(t.TempDir(), "no-such-ffmpeg")})

	var start types.RenderEvent
	_ = r.Render(context.Background(), types.RenderRequest{
		JobId:    "job-redact",
		Args:     []string{"-i", "in.mp4", "-vf", "drawtext=text='secret words':fontsize=36", "-y", "out.mp4"},
		Duration: 10,
	}, func(event types.RenderEvent) {
		if event.Kind == types.RenderEventStart {
			start = event
		}
	})

	require.Equal(t, types.RenderEventStart, start.Kind)
	assert.Contains(t, start.Message, "drawtext")
	assert.NotContains(t, start.Message, "secret words")
}
