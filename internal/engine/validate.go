package engine

import (
	"fmt"
	"strings"
)

// ValidationResult reports the outcome of validating one operation.
// It is always returned, never raised: callers branch on Valid.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func validResult() ValidationResult {
	return ValidationResult{Valid: true}
}

func invalidResult(errs []string) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// Validator checks raw operation parameters against the catalog rules and
// decodes them into their typed form. All violations are collected, not just
// the first.
type Validator struct {
	catalog *Catalog
}

func NewValidator(catalog *Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate reports every rule violation for the given kind and raw params.
func (v *Validator) Validate(kind OperationKind, raw map[string]any) ValidationResult {
	_, result := v.Decode(kind, raw)
	return result
}

// Decode validates and decodes raw params into the kind's typed struct.
// On failure the returned Params is nil and the result lists every violation.
// Unknown extra params are ignored.
func (v *Validator) Decode(kind OperationKind, raw map[string]any) (Params, ValidationResult) {
	spec, ok := v.catalog.Describe(kind)
	if !ok {
		return nil, invalidResult([]string{fmt.Sprintf("unsupported operation kind %q", kind)})
	}

	p := rawParams(raw)
	errs := v.checkRules(spec, p)

	params, structErrs := decodeTyped(kind, p)
	errs = append(errs, structErrs...)

	if len(errs) > 0 {
		return nil, invalidResult(errs)
	}
	return params, validResult()
}

// checkRules runs the generic catalog rules: presence, type, bounds, enums.
func (v *Validator) checkRules(spec OperationSpec, p rawParams) []string {
	var errs []string
	for _, rule := range spec.Params {
		keys := append([]string{rule.Name}, rule.Aliases...)

		switch rule.Type {
		case TypeFloat:
			val, ok := p.floatAny(keys...)
			if !ok {
				if rule.Required {
					errs = append(errs, fmt.Sprintf("missing required parameter %q", rule.Name))
				}
				continue
			}
			if rule.Min != nil && val < *rule.Min {
				errs = append(errs, fmt.Sprintf("parameter %q must be >= %g, got %g", rule.Name, *rule.Min, val))
			}
			if rule.Max != nil && val > *rule.Max {
				errs = append(errs, fmt.Sprintf("parameter %q must be <= %g, got %g", rule.Name, *rule.Max, val))
			}
			if len(rule.Enum) > 0 && !containsFloat(rule.Enum, val) {
				errs = append(errs, fmt.Sprintf("parameter %q must be one of %s, got %g", rule.Name, formatEnum(rule.Enum), val))
			}
		case TypeString:
			val, ok := firstString(p, keys)
			if !ok || strings.TrimSpace(val) == "" {
				if rule.Required {
					errs = append(errs, fmt.Sprintf("missing required parameter %q", rule.Name))
				}
			}
		case TypeBool:
			// optional everywhere; presence is enough
		}
	}
	return errs
}

// decodeTyped builds the typed struct and applies the cross-field rules the
// flat catalog cannot express (end after start, window shape).
func decodeTyped(kind OperationKind, p rawParams) (Params, []string) {
	var errs []string

	switch kind {
	case KindTrim:
		params := TrimParams{}
		params.Start, _ = p.float("start")
		if end, ok := p.float("end"); ok {
			if end <= params.Start {
				errs = append(errs, fmt.Sprintf("trim end (%g) must be greater than start (%g)", end, params.Start))
			}
			params.End = &end
		}
		return orNil(params, errs)

	case KindRemoveClip:
		params := RemoveClipParams{}
		params.StartTime, _ = p.float("startTime")
		params.EndTime, _ = p.float("endTime")
		if params.EndTime <= params.StartTime {
			errs = append(errs, fmt.Sprintf("removeClip endTime (%g) must be greater than startTime (%g)", params.EndTime, params.StartTime))
		}
		return orNil(params, errs)

	case KindColorGrade, KindFilter:
		params := ColorGradeParams{OpKind: kind}
		params.Preset, _ = firstString(p, []string{"preset", "filter", "name"})
		if intensity, ok := p.float("intensity"); ok {
			params.Intensity = &intensity
		}
		w, werrs := p.window()
		params.Window = w
		errs = append(errs, werrs...)
		return orNil(params, errs)

	case KindApplyEffect:
		params := EffectParams{}
		params.Effect, _ = p.str("effect")
		if intensity, ok := p.float("intensity"); ok {
			params.Intensity = &intensity
		}
		w, werrs := p.window()
		params.Window = w
		errs = append(errs, werrs...)
		return orNil(params, errs)

	case KindAddText:
		params := TextParams{
			FontSize:   36,
			FontColor:  "white",
			Position:   "bottom",
			Background: true,
		}
		params.Text, _ = p.str("text")
		if size, ok := p.float("fontSize"); ok {
			params.FontSize = size
		}
		if color, ok := p.str("fontColor"); ok {
			params.FontColor = color
		}
		if pos, ok := p.str("position"); ok {
			// unknown positions pass through; the drawtext table falls
			// back to bottom placement at compile time
			params.Position = strings.ToLower(pos)
		}
		if bg, ok := p.boolean("background"); ok {
			params.Background = bg
		}
		w, werrs := p.window()
		params.Window = w
		errs = append(errs, werrs...)
		return orNil(params, errs)

	case KindAddCaptions:
		params := CaptionParams{
			Style: CaptionStyle{Color: "white", Size: "medium", Position: "bottom", Background: true},
		}
		params.Path, _ = firstString(p, []string{"path", "subtitlePath"})
		// style values outside the lookup tables are not errors; forceStyle
		// falls back to white, medium and bottom at compile time
		if color, ok := p.str("color"); ok {
			params.Style.Color = strings.ToLower(color)
		}
		if size, ok := p.str("size"); ok {
			params.Style.Size = strings.ToLower(size)
		}
		if pos, ok := p.str("position"); ok {
			params.Style.Position = strings.ToLower(pos)
		}
		if bg, ok := p.boolean("background"); ok {
			params.Style.Background = bg
		}
		return orNil(params, errs)

	case KindAdjustIntensity:
		params := IntensityParams{}
		params.Intensity, _ = p.float("intensity")
		w, werrs := p.window()
		params.Window = w
		errs = append(errs, werrs...)
		return orNil(params, errs)

	case KindAdjustZoom:
		params := ZoomParams{}
		params.Zoom, _ = p.float("zoom")
		w, werrs := p.window()
		params.Window = w
		errs = append(errs, werrs...)
		return orNil(params, errs)

	case KindAdjustSpeed:
		params := SpeedParams{}
		params.Speed, _ = p.float("speed")
		return orNil(params, errs)

	case KindRotate:
		params := RotateParams{}
		params.Degrees, _ = p.floatAny("degrees", "rotation")
		return orNil(params, errs)

	case KindCrop:
		params := CropParams{}
		params.Width, _ = p.float("width")
		params.Height, _ = p.float("height")
		params.X, _ = p.float("x")
		params.Y, _ = p.float("y")
		return orNil(params, errs)
	}

	return nil, append(errs, fmt.Sprintf("unsupported operation kind %q", kind))
}

func orNil(params Params, errs []string) (Params, []string) {
	if len(errs) > 0 {
		return nil, errs
	}
	return params, nil
}

func containsFloat(set []float64, v float64) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func formatEnum(set []float64) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = fmt.Sprintf("%g", s)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func firstString(p rawParams, keys []string) (string, bool) {
	for _, key := range keys {
		if s, ok := p.str(key); ok {
			return s, true
		}
	}
	return "", false
}
