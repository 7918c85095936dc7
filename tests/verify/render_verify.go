//go:build verify
// +build verify

// Manual smoke check for the compile-render path against a real ffmpeg.
// Run with: go run -tags verify ./tests/verify
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"clipforge/internal/engine"
	"clipforge/internal/render"
	"clipforge/internal/types"
	"clipforge/log"
)

func main() {
	log.InitConsoleLogger()

	if _, err := exec.LookPath("ffmpeg"); err != nil {
		fmt.Println("ffmpeg not found on PATH, nothing to verify")
		os.Exit(1)
	}

	workDir, err := os.MkdirTemp("", "clipforge-verify-*")
	if err != nil {
		fmt.Printf("temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(workDir)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	source := filepath.Join(workDir, "source.mp4")
	fmt.Printf("Generating 6s test clip at %s\n", source)
	generate := exec.CommandContext(ctx, "ffmpeg",
		"-f", "lavfi", "-i", "testsrc=duration=6:size=640x360:rate=24",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=6",
		"-c:v", "libx264", "-c:a", "aac", "-shortest", "-y", source)
	if out, err := generate.CombinedOutput(); err != nil {
		fmt.Printf("test clip generation failed: %v\n%s\n", err, out)
		os.Exit(1)
	}

	eng := engine.New(engine.Options{})
	renderer := render.New(render.Config{})

	info, err := renderer.Probe(ctx, source)
	if err != nil {
		fmt.Printf("probe failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Probe: duration=%.2fs resolution=%dx%d\n", info.Duration, info.Width, info.Height)

	operations := []engine.Operation{
		{Kind: engine.KindTrim, Params: map[string]any{"start": 1.0, "end": 4.0}},
		{Kind: engine.KindColorGrade, Params: map[string]any{"preset": "vintage"}},
		{Kind: engine.KindAddText, Params: map[string]any{"text": "verify run", "position": "bottom"}},
	}

	for i, op := range operations {
		expr, err := eng.CompileFilter(op)
		if err != nil {
			fmt.Printf("compile %s failed: %v\n", op.Kind, err)
			os.Exit(1)
		}

		output := filepath.Join(workDir, fmt.Sprintf("out_%d.mp4", i))
		req := types.RenderRequest{
			JobId:    fmt.Sprintf("verify-%d", i),
			Args:     expr.Args(source, output),
			Duration: info.Duration,
		}
		if err := renderer.Render(ctx, req, reportProgress); err != nil {
			fmt.Printf("render %s failed: %v\n", op.Kind, err)
			os.Exit(1)
		}
		fmt.Printf("render %s ok -> %s\n", op.Kind, output)
	}

	// removeClip goes through the segment graph instead of a filter chain.
	removal := engine.Operation{
		Kind:   engine.KindRemoveClip,
		Params: map[string]any{"startTime": 2.0, "endTime": 4.0},
	}
	plan, ok := eng.PlanRemoval(removal, info.Duration)
	if !ok {
		fmt.Println("removal plan unexpectedly skipped")
		os.Exit(1)
	}
	graph := eng.BuildSegmentGraph(plan)
	output := filepath.Join(workDir, "out_removal.mp4")
	req := types.RenderRequest{
		JobId:    "verify-removal",
		Args:     graph.Args(source, output),
		Duration: info.Duration,
	}
	if err := renderer.Render(ctx, req, reportProgress); err != nil {
		fmt.Printf("segment render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("render removeClip ok -> %s (%d spans)\n", output, len(plan.Spans))

	fmt.Println("\nAll render paths verified.")
}

func reportProgress(event types.RenderEvent) {
	if event.Kind == types.RenderEventProgress {
		fmt.Printf("  progress %.0f%%\n", event.Percent)
	}
}
