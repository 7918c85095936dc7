// Package render executes compiled ffmpeg invocations and probes media
// files with ffprobe. It is the only package that shells out to the media
// binaries; everything above it works with argv slices and events.
package render

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"clipforge/internal/types"
	"clipforge/log"
	apperrors "clipforge/pkg/errors"

	"go.uber.org/zap"
)

// progressRegexp matches ffmpeg status lines, e.g. "time=00:01:23.45".
var progressRegexp = regexp.MustCompile(`time=(\d+):(\d+):(\d+)\.(\d+)`)

var resolutionRegexp = regexp.MustCompile(`^(\d+)x(\d+)$`)

// stderrTailLines bounds how much subprocess output is kept for error
// reporting.
const stderrTailLines = 12

type Config struct {
	FfmpegPath  string
	FfprobePath string
}

type Renderer struct {
	cfg Config
}

func New(cfg Config) *Renderer {
	if cfg.FfmpegPath == "" {
		cfg.FfmpegPath = "ffmpeg"
	}
	if cfg.FfprobePath == "" {
		cfg.FfprobePath = "ffprobe"
	}
	return &Renderer{cfg: cfg}
}

// Render runs one compiled ffmpeg argv. It emits a start event, progress
// events parsed from stderr, and exactly one terminal done or error event.
func (r *Renderer) Render(ctx context.Context, req types.RenderRequest, onProgress types.RenderProgressFunc) error {
	log.GetLogger().Info("starting render",
		zap.String("jobId", req.JobId),
		zap.Strings("args", req.Args))

	cmd := exec.CommandContext(ctx, r.cfg.FfmpegPath, req.Args...)
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRenderFailed, "failed to create stderr pipe", err)
	}

	emit(onProgress, types.RenderEvent{
		JobId:      req.JobId,
		Kind:       types.RenderEventStart,
		Message:    r.cfg.FfmpegPath + " " + strings.Join(redactArgs(req.Args), " "),
		OccurredAt: time.Now(),
	})

	if err := cmd.Start(); err != nil {
		wrapped := apperrors.Wrap(apperrors.CodeRenderFailed, "failed to start ffmpeg", err)
		emit(onProgress, types.RenderEvent{
			JobId:      req.JobId,
			Kind:       types.RenderEventError,
			Message:    wrapped.Message,
			Err:        wrapped,
			OccurredAt: time.Now(),
		})
		return wrapped
	}

	// The pipe must be drained before Wait.
	tail := r.consumeStderr(stderr, req, onProgress)

	if err := cmd.Wait(); err != nil {
		detail := strings.Join(tail, "\n")
		wrapped := apperrors.WrapWithDetail(apperrors.CodeRenderFailed, "ffmpeg exited with error", detail, err)
		log.GetLogger().Error("render failed",
			zap.String("jobId", req.JobId),
			zap.String("stderrTail", detail),
			zap.Error(err))
		emit(onProgress, types.RenderEvent{
			JobId:      req.JobId,
			Kind:       types.RenderEventError,
			Message:    wrapped.Message,
			Err:        wrapped,
			OccurredAt: time.Now(),
		})
		return wrapped
	}

	outputPath := ""
	if len(req.Args) > 0 {
		// Compiled argv always ends with the output path.
		outputPath = req.Args[len(req.Args)-1]
	}
	emit(onProgress, types.RenderEvent{
		JobId:      req.JobId,
		Kind:       types.RenderEventDone,
		Percent:    100,
		OutputPath: outputPath,
		OccurredAt: time.Now(),
	})
	log.GetLogger().Info("render finished", zap.String("jobId", req.JobId), zap.String("output", outputPath))
	return nil
}

// consumeStderr scans the subprocess output for progress clocks and keeps a
// bounded tail for error reporting. Progress percents are monotonic and stay
// below 100; the done event owns 100.
func (r *Renderer) consumeStderr(reader io.Reader, req types.RenderRequest, onProgress types.RenderProgressFunc) []string {
	scanner := bufio.NewScanner(reader)
	scanner.Split(scanStatusLines)

	var tail []string
	lastPct := 0.0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}

		seconds, ok := parseProgressClock(line)
		if !ok || req.Duration <= 0 {
			continue
		}
		pct := seconds / req.Duration * 100
		if pct > 99.9 {
			pct = 99.9
		}
		if pct <= lastPct {
			continue
		}
		lastPct = pct
		emit(onProgress, types.RenderEvent{
			JobId:      req.JobId,
			Kind:       types.RenderEventProgress,
			Percent:    pct,
			OccurredAt: time.Now(),
		})
	}
	return tail
}

// Probe reads the input duration, and resolution when a video stream exists.
// Audio-only inputs come back with zero width and height.
func (r *Renderer) Probe(ctx context.Context, mediaPath string) (*types.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, r.cfg.FfprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, apperrors.WrapWithDetail(apperrors.CodeProbeFailed, "ffprobe failed", strings.TrimSpace(string(out)), err)
	}

	durationText := strings.TrimSpace(string(out))
	duration, err := strconv.ParseFloat(durationText, 64)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeProbeFailed, fmt.Sprintf("unparseable duration %q", durationText), err)
	}

	info := &types.MediaInfo{Duration: duration}
	width, height, err := r.probeResolution(ctx, mediaPath)
	if err != nil {
		log.GetLogger().Debug("no video stream resolution", zap.String("path", mediaPath), zap.Error(err))
		return info, nil
	}
	info.Width = width
	info.Height = height
	return info, nil
}

func (r *Renderer) probeResolution(ctx context.Context, mediaPath string) (int, int, error) {
	cmd := exec.CommandContext(ctx, r.cfg.FfprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		mediaPath,
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return 0, 0, err
	}

	text := strings.TrimSpace(out.String())
	text = strings.TrimSuffix(text, "x")
	matches := resolutionRegexp.FindStringSubmatch(text)
	if len(matches) != 3 {
		return 0, 0, fmt.Errorf("invalid resolution format: %s", text)
	}
	width, _ := strconv.Atoi(matches[1])
	height, _ := strconv.Atoi(matches[2])
	return width, height, nil
}

func emit(onProgress types.RenderProgressFunc, event types.RenderEvent) {
	if onProgress != nil {
		onProgress(event)
	}
}

// filterValueFlags marks the argv flags whose values embed user input, such
// as drawtext payloads and subtitle filenames.
var filterValueFlags = map[string]bool{
	"-vf":             true,
	"-af":             true,
	"-filter_complex": true,
}

// redactArgs rewrites a compiled argv for event payloads: filter values are
// reduced to their bare stage names. Subscribers see what runs, not the
// user text inside it. The full command only goes to the server log.
func redactArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 0; i < len(out)-1; i++ {
		if filterValueFlags[out[i]] {
			out[i+1] = filterStageNames(out[i+1])
			i++
		}
	}
	return out
}

// stageNameRegexp matches a bare filter name. Split fragments that carry
// anything else, like pieces of an escaped drawtext payload, are dropped.
var stageNameRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// filterStageNames reduces a filter value like "eq=b=0.1:s=1.3,vignette=a=0.6"
// to "eq,vignette". Graph labels and per-stage parameters are dropped.
func filterStageNames(value string) string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ';'
	})
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := part
		if idx := strings.Index(name, "="); idx >= 0 {
			name = name[:idx]
		}
		if idx := strings.LastIndex(name, "]"); idx >= 0 {
			name = name[idx+1:]
		}
		if !stageNameRegexp.MatchString(name) {
			continue
		}
		names = append(names, name)
	}
	return strings.Join(names, ",")
}

// parseProgressClock extracts the seconds value from an ffmpeg status line.
func parseProgressClock(line string) (float64, bool) {
	matches := progressRegexp.FindStringSubmatch(line)
	if len(matches) != 5 {
		return 0, false
	}
	hours, _ := strconv.Atoi(matches[1])
	minutes, _ := strconv.Atoi(matches[2])
	seconds, _ := strconv.Atoi(matches[3])
	fraction, _ := strconv.Atoi(matches[4])
	total := float64(hours*3600+minutes*60+seconds) + float64(fraction)/math.Pow10(len(matches[4]))
	return total, true
}

// scanStatusLines splits on \r as well as \n; ffmpeg rewrites its status
// line with carriage returns.
func scanStatusLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
