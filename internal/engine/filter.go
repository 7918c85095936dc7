package engine

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"clipforge/log"
	"clipforge/pkg/errors"
)

// drawtext anchor table: position name to x/y expressions, 40px inset from
// the anchored edges, centered otherwise.
var textPositions = map[string]struct{ x, y string }{
	"top":          {"(w-text_w)/2", "40"},
	"bottom":       {"(w-text_w)/2", "h-text_h-40"},
	"center":       {"(w-text_w)/2", "(h-text_h)/2"},
	"top-left":     {"40", "40"},
	"top-right":    {"w-text_w-40", "40"},
	"bottom-left":  {"40", "h-text_h-40"},
	"bottom-right": {"w-text_w-40", "h-text_h-40"},
}

var statSubtitleFile = func(path string) error {
	_, err := os.Stat(path)
	return err
}

// FilterCompiler turns typed operation params into FFmpeg filter expressions
// for the authoritative render path.
type FilterCompiler struct {
	presets *PresetMapping
}

func NewFilterCompiler(presets *PresetMapping) *FilterCompiler {
	return &FilterCompiler{presets: presets}
}

// Compile builds the filter expression for one operation. The window, when
// non-nil, becomes the expression's single temporal gate; kinds without
// stages (trim) ignore it because their parameters already carry the bounds.
func (c *FilterCompiler) Compile(params Params, window *TimeWindow) (*FilterExpression, error) {
	expr := &FilterExpression{Kind: params.kind()}

	switch p := params.(type) {
	case TrimParams:
		expr.InputArgs = []string{"-ss", fmtSeconds(p.Start)}
		if p.End != nil {
			expr.InputArgs = append(expr.InputArgs, "-to", fmtSeconds(*p.End))
		}
		return expr, nil

	case RemoveClipParams:
		return nil, errors.WrapWithDetail(errors.CodeCompileFailed,
			"Filter compilation failed",
			"removeClip compiles to a segment graph, not a filter chain", nil)

	case ColorGradeParams:
		adj := c.lookupPreset(p.Preset)
		if p.Intensity != nil {
			adj = adj.scaled(*p.Intensity)
		}
		expr.VideoStages = gradeStages(adj)

	case EffectParams:
		intensity := 1.0
		if p.Intensity != nil {
			intensity = *p.Intensity
		}
		stage, ok := effectStage(p.Effect, intensity)
		if !ok {
			log.GetLogger().Warn("unknown effect, using neutral default",
				zap.String("effect", p.Effect))
			stage = eqStage(neutralAdjustment())
		}
		expr.VideoStages = []FilterStage{stage}

	case TextParams:
		expr.VideoStages = []FilterStage{drawtextStage(p)}

	case CaptionParams:
		if err := statSubtitleFile(p.Path); err != nil {
			return nil, errors.WrapWithDetail(errors.CodeSubtitleNotFound,
				"Subtitle file not found",
				fmt.Sprintf("subtitle file %q does not exist", p.Path), err)
		}
		expr.VideoStages = []FilterStage{subtitlesStage(p)}

	case IntensityParams:
		expr.VideoStages = []FilterStage{intensityStage(p.Intensity)}

	case ZoomParams:
		expr.VideoStages = zoomStages(p.Zoom)

	case SpeedParams:
		expr.VideoStages = []FilterStage{{
			Name: "setpts",
			Args: []FilterArg{{Value: fmt.Sprintf("%.4g*PTS", 1/p.Speed)}},
		}}
		expr.AudioStages = []FilterStage{{
			Name:   "atempo",
			Args:   []FilterArg{{Value: fmt.Sprintf("%.4g", p.Speed)}},
			Stream: StreamAudio,
		}}
		return expr, nil

	case RotateParams:
		expr.VideoStages = []FilterStage{{
			Name: "rotate",
			Args: []FilterArg{
				argf("a", "%.2f*PI/180", p.Degrees),
				arg("fillcolor", "black"),
			},
		}}

	case CropParams:
		expr.VideoStages = []FilterStage{{
			Name: "crop",
			Args: []FilterArg{
				argf("w", "%d", int(p.Width)),
				argf("h", "%d", int(p.Height)),
				argf("x", "%d", int(p.X)),
				argf("y", "%d", int(p.Y)),
			},
		}}

	default:
		return nil, errors.WrapWithDetail(errors.CodeCompileFailed,
			"Filter compilation failed",
			fmt.Sprintf("no filter mapping for kind %q", params.kind()), nil)
	}

	if window != nil && len(expr.VideoStages) > 0 {
		expr.Gate = &TemporalGate{Start: window.Start, End: window.End}
	}
	return expr, nil
}

func (c *FilterCompiler) lookupPreset(name string) PresetAdjustment {
	adj, known := c.presets.Lookup(name)
	if !known {
		log.GetLogger().Warn("unknown preset, using neutral default",
			zap.String("preset", name))
	}
	return adj
}

// gradeStages renders a preset adjustment as its stage chain. The eq stage
// is always first so every grade expression has a uniform shape.
func gradeStages(adj PresetAdjustment) []FilterStage {
	stages := []FilterStage{eqStage(adj)}
	if adj.Balance != nil {
		stages = append(stages, FilterStage{Name: "colorbalance", Args: []FilterArg{
			argf("rs", "%.2f", adj.Balance.Red),
			argf("bs", "%.2f", adj.Balance.Blue),
		}})
	}
	if adj.Curve != "" {
		stages = append(stages, FilterStage{Name: "curves", Args: []FilterArg{
			arg("preset", adj.Curve),
		}})
	}
	if adj.Vignette {
		stages = append(stages, vignetteStage(1))
	}
	return stages
}

func eqStage(adj PresetAdjustment) FilterStage {
	return FilterStage{Name: "eq", Args: []FilterArg{
		argf("contrast", "%.2f", adj.Contrast),
		argf("brightness", "%.2f", adj.Brightness),
		argf("saturation", "%.2f", adj.Saturation),
		argf("gamma", "%.2f", adj.Gamma),
	}}
}

// intensityStage maps the 0..1 intensity onto eq strength, 0.5 being the
// neutral midpoint.
func intensityStage(intensity float64) FilterStage {
	return FilterStage{Name: "eq", Args: []FilterArg{
		argf("contrast", "%.2f", 0.8+0.4*intensity),
		argf("saturation", "%.2f", 0.7+0.6*intensity),
	}}
}

// zoomStages crops the centered 1/Z region and scales it back up. Dimensions
// are forced even for yuv420 output.
func zoomStages(zoom float64) []FilterStage {
	return []FilterStage{
		{Name: "crop", Args: []FilterArg{
			argf("w", "trunc(iw/%.2f/2)*2", zoom),
			argf("h", "trunc(ih/%.2f/2)*2", zoom),
		}},
		{Name: "scale", Args: []FilterArg{
			argf("w", "trunc(iw*%.2f/2)*2", zoom),
			argf("h", "trunc(ih*%.2f/2)*2", zoom),
		}},
	}
}

func drawtextStage(p TextParams) FilterStage {
	pos, ok := textPositions[p.Position]
	if !ok {
		pos = textPositions["bottom"]
	}
	args := []FilterArg{
		textArg("text", p.Text),
		argf("fontsize", "%d", int(p.FontSize)),
		arg("fontcolor", p.FontColor),
		arg("x", pos.x),
		arg("y", pos.y),
	}
	if p.Background {
		args = append(args,
			arg("box", "1"),
			arg("boxcolor", "black@0.5"),
			arg("boxborderw", "8"),
		)
	}
	return FilterStage{Name: "drawtext", Args: args}
}
