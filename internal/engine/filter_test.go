package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipforge/pkg/errors"
)

func newTestFilterCompiler() *FilterCompiler {
	return NewFilterCompiler(NewPresetMapping())
}

func TestCompileTrimUsesInputSeek(t *testing.T) {
	c := newTestFilterCompiler()

	end := 9.5
	expr, err := c.Compile(TrimParams{Start: 5, End: &end}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-ss", "5.000", "-to", "9.500"}, expr.InputArgs)
	assert.Empty(t, expr.VideoStages)

	args := expr.Args("in.mp4", "out.mp4")
	assert.Contains(t, args, "-c")
	assert.Contains(t, args, "copy")
}

func TestCompileTrimOpenEnded(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(TrimParams{Start: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"-ss", "3.000"}, expr.InputArgs)
}

func TestGateExactlyOnceOnMultiStageChain(t *testing.T) {
	c := newTestFilterCompiler()

	end := 10.0
	// cinematic renders eq plus vignette, two stages
	expr, err := c.Compile(ColorGradeParams{Preset: "cinematic"}, &TimeWindow{Start: 5, End: &end})
	require.NoError(t, err)
	require.Greater(t, len(expr.VideoStages), 1)

	vf := expr.VideoFilter()
	assert.Equal(t, 1, expr.GateCount())
	assert.Contains(t, vf, "enable='between(t,5.000,10.000)'")
	assert.True(t, strings.HasSuffix(vf, "enable='between(t,5.000,10.000)'"))
}

func TestGateLowerBoundOnly(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(ColorGradeParams{Preset: "warm"}, &TimeWindow{Start: 2.5})
	require.NoError(t, err)

	vf := expr.VideoFilter()
	assert.Equal(t, 1, expr.GateCount())
	assert.Contains(t, vf, "enable='gte(t,2.500)'")
	assert.NotContains(t, vf, "between")
}

func TestNoGateWithoutWindow(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(ColorGradeParams{Preset: "vibrant"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, expr.GateCount())
}

func TestUnknownPresetCompilesNeutral(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(ColorGradeParams{Preset: "ultra-mega-pop"}, nil)
	require.NoError(t, err, "unknown preset must never fail compilation")
	require.Len(t, expr.VideoStages, 1)
	assert.Equal(t, "eq=contrast=1.00:brightness=0.00:saturation=1.00:gamma=1.00", expr.VideoFilter())
}

func TestUnknownEffectCompilesNeutral(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(EffectParams{Effect: "swirl"}, nil)
	require.NoError(t, err)
	assert.Contains(t, expr.VideoFilter(), "eq=contrast=1.00")
}

func TestDrawtextEscapesDelimiters(t *testing.T) {
	c := newTestFilterCompiler()

	raw := "5:30 pm, it's 'go' time"
	expr, err := c.Compile(TextParams{Text: raw, FontSize: 36, FontColor: "white", Position: "bottom", Background: true}, nil)
	require.NoError(t, err)

	stage := expr.VideoStages[0]
	require.Equal(t, "drawtext", stage.Name)
	require.Equal(t, "text", stage.Args[0].Key)

	escaped := stage.Args[0].Value
	assert.NotEqual(t, raw, escaped)
	assert.Contains(t, escaped, `\:`)
	assert.Contains(t, escaped, `\'`)
	assert.Contains(t, escaped, `\,`)
	assert.Equal(t, raw, UnescapeFilterValue(escaped))
}

func TestDrawtextPositionTable(t *testing.T) {
	c := newTestFilterCompiler()

	tests := []struct {
		position string
		x, y     string
	}{
		{"bottom", "(w-text_w)/2", "h-text_h-40"},
		{"top", "(w-text_w)/2", "40"},
		{"center", "(w-text_w)/2", "(h-text_h)/2"},
		{"bottom-right", "w-text_w-40", "h-text_h-40"},
	}
	for _, tt := range tests {
		t.Run(tt.position, func(t *testing.T) {
			expr, err := c.Compile(TextParams{Text: "hi", FontSize: 36, Position: tt.position}, nil)
			require.NoError(t, err)
			vf := expr.VideoFilter()
			assert.Contains(t, vf, "x="+tt.x)
			assert.Contains(t, vf, "y="+tt.y)
		})
	}
}

func TestDrawtextBackgroundBox(t *testing.T) {
	c := newTestFilterCompiler()

	boxed, err := c.Compile(TextParams{Text: "hi", FontSize: 36, Background: true}, nil)
	require.NoError(t, err)
	assert.Contains(t, boxed.VideoFilter(), "box=1")
	assert.Contains(t, boxed.VideoFilter(), "boxcolor=black@0.5")

	plain, err := c.Compile(TextParams{Text: "hi", FontSize: 36, Background: false}, nil)
	require.NoError(t, err)
	assert.NotContains(t, plain.VideoFilter(), "box=1")
}

func TestCaptionsMissingFileFails(t *testing.T) {
	c := newTestFilterCompiler()

	_, err := c.Compile(CaptionParams{
		Path:  filepath.Join(t.TempDir(), "missing.srt"),
		Style: CaptionStyle{Color: "white", Size: "medium", Position: "bottom", Background: true},
	}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeSubtitleNotFound))
}

func TestCaptionsCompileWithStyle(t *testing.T) {
	c := newTestFilterCompiler()

	srt := filepath.Join(t.TempDir(), "subs.srt")
	require.NoError(t, os.WriteFile(srt, []byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n"), 0o644))

	expr, err := c.Compile(CaptionParams{
		Path:  srt,
		Style: CaptionStyle{Color: "yellow", Size: "large", Position: "top", Background: true},
	}, nil)
	require.NoError(t, err)

	vf := expr.VideoFilter()
	assert.Contains(t, vf, "subtitles=filename=")
	assert.Contains(t, vf, "FontSize=32")
	assert.Contains(t, vf, "PrimaryColour=&H0000FFFF")
	assert.Contains(t, vf, "Alignment=8")
	assert.Contains(t, vf, "BorderStyle=4")
}

func TestCaptionsNoBackgroundUsesOutline(t *testing.T) {
	c := newTestFilterCompiler()

	srt := filepath.Join(t.TempDir(), "subs.srt")
	require.NoError(t, os.WriteFile(srt, []byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n"), 0o644))

	expr, err := c.Compile(CaptionParams{
		Path:  srt,
		Style: CaptionStyle{Color: "white", Size: "medium", Position: "bottom", Background: false},
	}, nil)
	require.NoError(t, err)
	assert.Contains(t, expr.VideoFilter(), "BorderStyle=1")
	assert.NotContains(t, expr.VideoFilter(), "BackColour")
}

func TestCaptionsUnknownStyleFallsBack(t *testing.T) {
	c := newTestFilterCompiler()

	srt := filepath.Join(t.TempDir(), "subs.srt")
	require.NoError(t, os.WriteFile(srt, []byte("1\n00:00:00,000 --> 00:00:01,000\nhello\n"), 0o644))

	expr, err := c.Compile(CaptionParams{
		Path:  srt,
		Style: CaptionStyle{Color: "chartreuse", Size: "gigantic", Position: "sideways", Background: true},
	}, nil)
	require.NoError(t, err)

	// white, medium, bottom
	vf := expr.VideoFilter()
	assert.Contains(t, vf, "FontSize=24")
	assert.Contains(t, vf, "PrimaryColour=&H00FFFFFF")
	assert.Contains(t, vf, "Alignment=2")
}

func TestDrawtextUnknownPositionFallsBack(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(TextParams{Text: "hi", FontSize: 36, Position: "underneath"}, nil)
	require.NoError(t, err)

	vf := expr.VideoFilter()
	assert.Contains(t, vf, "y=h-text_h-40")
}

func TestSpeedPairsVideoAndAudio(t *testing.T) {
	c := newTestFilterCompiler()

	tests := []struct {
		speed  float64
		setpts string
		atempo string
	}{
		{0.5, "setpts=2*PTS", "atempo=0.5"},
		{1.5, "setpts=0.6667*PTS", "atempo=1.5"},
		{2.0, "setpts=0.5*PTS", "atempo=2"},
	}
	for _, tt := range tests {
		expr, err := c.Compile(SpeedParams{Speed: tt.speed}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.setpts, expr.VideoFilter())
		assert.Equal(t, tt.atempo, expr.AudioFilter())
	}
}

func TestRotateAndCrop(t *testing.T) {
	c := newTestFilterCompiler()

	rot, err := c.Compile(RotateParams{Degrees: -45}, nil)
	require.NoError(t, err)
	assert.Equal(t, "rotate=a=-45.00*PI/180:fillcolor=black", rot.VideoFilter())

	crop, err := c.Compile(CropParams{Width: 640, Height: 360, X: 100, Y: 20}, nil)
	require.NoError(t, err)
	assert.Equal(t, "crop=w=640:h=360:x=100:y=20", crop.VideoFilter())
}

func TestZoomCropsAndScalesBack(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(ZoomParams{Zoom: 1.5}, nil)
	require.NoError(t, err)

	vf := expr.VideoFilter()
	assert.Contains(t, vf, "crop=w=trunc(iw/1.50/2)*2")
	assert.Contains(t, vf, "scale=w=trunc(iw*1.50/2)*2")
}

func TestIntensityMidpointIsNeutral(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(IntensityParams{Intensity: 0.5}, nil)
	require.NoError(t, err)
	assert.Equal(t, "eq=contrast=1.00:saturation=1.00", expr.VideoFilter())
}

func TestRemoveClipRejectedByFilterCompiler(t *testing.T) {
	c := newTestFilterCompiler()

	_, err := c.Compile(RemoveClipParams{StartTime: 1, EndTime: 2}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeCompileFailed))
}

func TestFilterArgsAssembly(t *testing.T) {
	c := newTestFilterCompiler()

	expr, err := c.Compile(ColorGradeParams{Preset: "noir"}, nil)
	require.NoError(t, err)

	args := expr.Args("in.mp4", "out.mp4")
	require.GreaterOrEqual(t, len(args), 6)
	assert.Equal(t, "-i", args[0])
	assert.Equal(t, "in.mp4", args[1])
	assert.Equal(t, "-vf", args[2])
	assert.Equal(t, "out.mp4", args[len(args)-1])
	assert.Equal(t, "-y", args[len(args)-2])
	assert.NotContains(t, args, "-c")
}
