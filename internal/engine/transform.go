package engine

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"clipforge/log"
	"clipforge/pkg/errors"
)

// TransformationComponent is one slash-delimited URL segment of a chained
// transformation, e.g. ["c_crop", "w_640", "h_360"].
type TransformationComponent []string

// Transformation is the preview-path output: an ordered component chain plus
// any fidelity warnings accumulated while compiling.
type Transformation struct {
	Kind       OperationKind             `json:"kind"`
	Components []TransformationComponent `json:"components"`
	Warnings   []string                  `json:"warnings,omitempty"`
}

// String renders the chain: params joined by commas, components by slashes.
func (t *Transformation) String() string {
	parts := make([]string, len(t.Components))
	for i, c := range t.Components {
		parts[i] = strings.Join(c, ",")
	}
	return strings.Join(parts, "/")
}

func (t *Transformation) add(params ...string) {
	t.Components = append(t.Components, params)
}

func (t *Transformation) warn(format string, a ...any) {
	t.Warnings = append(t.Warnings, fmt.Sprintf(format, a...))
}

// gravity anchors for text overlays, with a 20-unit inset away from the
// anchored edges.
var overlayGravity = map[string]struct {
	gravity string
	x, y    int
}{
	"top":          {"north", 0, 20},
	"bottom":       {"south", 0, 20},
	"center":       {"center", 0, 0},
	"top-left":     {"north_west", 20, 20},
	"top-right":    {"north_east", 20, 20},
	"bottom-left":  {"south_west", 20, 20},
	"bottom-right": {"south_east", 20, 20},
}

// TransformCompiler maps typed operation params onto transformation-service
// URL descriptors. Fidelity is best-effort: the authoritative result always
// comes from the filter path.
type TransformCompiler struct {
	presets *PresetMapping
}

func NewTransformCompiler(presets *PresetMapping) *TransformCompiler {
	return &TransformCompiler{presets: presets}
}

// Compile builds the preview descriptor for one operation. Kinds the
// descriptor grammar cannot scope in time apply globally when a window is
// supplied; the caller gets a warning, never an error. Kinds with no preview
// mapping at all return CodePreviewUnsupported.
func (c *TransformCompiler) Compile(params Params, window *TimeWindow) (*Transformation, error) {
	t := &Transformation{Kind: params.kind()}

	switch p := params.(type) {
	case TrimParams:
		component := []string{"so_" + fmtSeconds(p.Start)}
		if p.End != nil {
			component = append(component, "eo_"+fmtSeconds(*p.End))
		}
		t.Components = append(t.Components, component)
		return t, nil

	case RemoveClipParams:
		return nil, errors.ErrPreviewUnsupported

	case CaptionParams:
		return nil, errors.ErrPreviewUnsupported

	case ColorGradeParams:
		adj, known := c.presets.Lookup(p.Preset)
		if !known {
			log.GetLogger().Warn("unknown preset on preview path, using neutral default",
				zap.String("preset", p.Preset))
		}
		if p.Intensity != nil {
			adj = adj.scaled(*p.Intensity)
		}
		c.addGradeComponents(t, adj)

	case EffectParams:
		intensity := 1.0
		if p.Intensity != nil {
			intensity = *p.Intensity
		}
		if !addEffectComponent(t, p.Effect, intensity) {
			log.GetLogger().Warn("unknown effect on preview path, skipping",
				zap.String("effect", p.Effect))
		}

	case TextParams:
		g, ok := overlayGravity[p.Position]
		if !ok {
			g = overlayGravity["bottom"]
		}
		component := []string{
			fmt.Sprintf("l_text:Arial_%d:%s", int(p.FontSize), encodeOverlayText(p.Text)),
			"co_" + overlayColor(p.FontColor),
			"g_" + g.gravity,
		}
		if g.x != 0 {
			component = append(component, fmt.Sprintf("x_%d", g.x))
		}
		if g.y != 0 {
			component = append(component, fmt.Sprintf("y_%d", g.y))
		}
		t.Components = append(t.Components, component)

	case IntensityParams:
		// 0.5 is the neutral midpoint
		delta := int(math.Round((p.Intensity - 0.5) * 80))
		if delta != 0 {
			t.add(fmt.Sprintf("e_contrast:%d", delta))
		}

	case ZoomParams:
		rel := 1 / p.Zoom
		t.add("c_crop", fmt.Sprintf("w_%.2f", rel), fmt.Sprintf("h_%.2f", rel), "g_center")

	case SpeedParams:
		rate := int(math.Round((p.Speed - 1) * 100))
		if rate != 0 {
			t.add(fmt.Sprintf("e_accelerate:%d", rate))
		}
		return t, nil

	case RotateParams:
		t.add(fmt.Sprintf("a_%d", int(p.Degrees)))

	case CropParams:
		t.add("c_crop",
			fmt.Sprintf("w_%d", int(p.Width)),
			fmt.Sprintf("h_%d", int(p.Height)),
			fmt.Sprintf("x_%d", int(p.X)),
			fmt.Sprintf("y_%d", int(p.Y)))

	default:
		return nil, errors.WrapWithDetail(errors.CodePreviewUnsupported,
			"Operation not supported on preview path",
			fmt.Sprintf("no preview mapping for kind %q", params.kind()), nil)
	}

	if window != nil {
		t.warn("time window not supported on preview path for %s, applied globally", params.kind())
		log.GetLogger().Warn("preview window applied globally",
			zap.String("kind", string(params.kind())),
			zap.Float64("start", window.Start))
	}
	return t, nil
}

// addGradeComponents translates an eq-style adjustment into percent-delta
// effect components. Identity deltas emit nothing.
func (c *TransformCompiler) addGradeComponents(t *Transformation, adj PresetAdjustment) {
	if d := int(math.Round(adj.Brightness * 100)); d != 0 {
		t.add(fmt.Sprintf("e_brightness:%d", d))
	}
	if d := int(math.Round((adj.Contrast - 1) * 100)); d != 0 {
		t.add(fmt.Sprintf("e_contrast:%d", d))
	}
	if d := int(math.Round((adj.Saturation - 1) * 100)); d != 0 {
		t.add(fmt.Sprintf("e_saturation:%d", d))
	}
	if d := int(math.Round((adj.Gamma - 1) * 100)); d != 0 {
		t.add(fmt.Sprintf("e_gamma:%d", d))
	}
	if adj.Balance != nil {
		color := "blue"
		amount := adj.Balance.Blue
		if adj.Balance.Red > adj.Balance.Blue {
			color = "orange"
			amount = adj.Balance.Red
		}
		t.add(fmt.Sprintf("e_tint:%d:%s", int(math.Round(math.Abs(amount)*250)), color))
	}
	if adj.Curve == "vintage" {
		t.add("e_sepia:35")
	}
	if adj.Vignette {
		t.add("e_vignette:30")
	}
}

func addEffectComponent(t *Transformation, name string, intensity float64) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "blur":
		t.add(fmt.Sprintf("e_blur:%d", 100+int(1900*intensity)))
	case "sharpen":
		t.add(fmt.Sprintf("e_sharpen:%d", 100+int(300*intensity)))
	case "grayscale":
		t.add("e_grayscale")
	case "sepia":
		t.add(fmt.Sprintf("e_sepia:%d", 30+int(70*intensity)))
	case "vignette":
		t.add(fmt.Sprintf("e_vignette:%d", 20+int(60*intensity)))
	case "invert":
		t.add("e_negate")
	case "mirror":
		t.add("a_hflip")
	case "pixelate":
		t.add(fmt.Sprintf("e_pixelate:%d", 5+int(15*intensity)))
	default:
		return false
	}
	return true
}

// encodeOverlayText percent-encodes overlay text for the URL path, including
// the comma and slash the descriptor grammar reserves.
func encodeOverlayText(text string) string {
	escaped := url.PathEscape(text)
	escaped = strings.ReplaceAll(escaped, ",", "%2C")
	escaped = strings.ReplaceAll(escaped, "/", "%2F")
	return escaped
}

// overlayColor renders a color for the co_ param: hex values become
// rgb:RRGGBB, names pass through.
func overlayColor(color string) string {
	color = strings.TrimSpace(color)
	if hex, ok := strings.CutPrefix(color, "#"); ok {
		return "rgb:" + hex
	}
	return strings.ToLower(color)
}
