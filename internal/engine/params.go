package engine

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Params is the decoded, typed form of an operation's raw parameter map.
// Each kind owns one concrete struct; compilers never touch raw maps.
type Params interface {
	kind() OperationKind
}

// TimeWindow scopes an operation to a slice of the source timeline.
// End == nil means "from Start to the end of the source".
type TimeWindow struct {
	Start float64
	End   *float64
}

func (w *TimeWindow) validate() []string {
	if w == nil {
		return nil
	}
	var errs []string
	if w.Start < 0 {
		errs = append(errs, fmt.Sprintf("time window start must be >= 0, got %g", w.Start))
	}
	if w.End != nil && *w.End <= w.Start {
		errs = append(errs, fmt.Sprintf("time window end (%g) must be greater than start (%g)", *w.End, w.Start))
	}
	return errs
}

type TrimParams struct {
	Start float64
	End   *float64
}

func (TrimParams) kind() OperationKind { return KindTrim }

type RemoveClipParams struct {
	StartTime float64
	EndTime   float64
}

func (RemoveClipParams) kind() OperationKind { return KindRemoveClip }

// ColorGradeParams also serves the filter kind, which shares the preset
// table. OpKind records which of the two the client sent.
type ColorGradeParams struct {
	OpKind    OperationKind
	Preset    string
	Intensity *float64
	Window    *TimeWindow
}

func (p ColorGradeParams) kind() OperationKind {
	if p.OpKind != "" {
		return p.OpKind
	}
	return KindColorGrade
}

type EffectParams struct {
	Effect    string
	Intensity *float64
	Window    *TimeWindow
}

func (EffectParams) kind() OperationKind { return KindApplyEffect }

type TextParams struct {
	Text       string
	FontSize   float64
	FontColor  string
	Position   string
	Background bool
	Window     *TimeWindow
}

func (TextParams) kind() OperationKind { return KindAddText }

type CaptionStyle struct {
	Color      string
	Size       string
	Position   string
	Background bool
}

type CaptionParams struct {
	Path  string
	Style CaptionStyle
}

func (CaptionParams) kind() OperationKind { return KindAddCaptions }

type IntensityParams struct {
	Intensity float64
	Window    *TimeWindow
}

func (IntensityParams) kind() OperationKind { return KindAdjustIntensity }

type ZoomParams struct {
	Zoom   float64
	Window *TimeWindow
}

func (ZoomParams) kind() OperationKind { return KindAdjustZoom }

type SpeedParams struct {
	Speed float64
}

func (SpeedParams) kind() OperationKind { return KindAdjustSpeed }

type RotateParams struct {
	Degrees float64
}

func (RotateParams) kind() OperationKind { return KindRotate }

type CropParams struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (CropParams) kind() OperationKind { return KindCrop }

// rawParams wraps the incoming map with tolerant typed getters. JSON numbers
// arrive as float64 but clients also send quoted numbers; coercion is
// lenient, range checks are not.
type rawParams map[string]any

func (p rawParams) float(key string) (float64, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

// floatAny returns the first present key, supporting renamed params
// (rotate's degrees arrives as rotation from some call sites).
func (p rawParams) floatAny(keys ...string) (float64, bool) {
	for _, key := range keys {
		if f, ok := p.float(key); ok {
			return f, true
		}
	}
	return 0, false
}

func (p rawParams) str(key string) (string, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

func (p rawParams) boolean(key string) (bool, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return false, false
	}
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		return parsed, err == nil
	}
	return false, false
}

// window extracts an optional startTime/endTime pair. A bare endTime without
// startTime anchors the window at 0.
func (p rawParams) window() (*TimeWindow, []string) {
	start, hasStart := p.float("startTime")
	end, hasEnd := p.float("endTime")
	if !hasStart && !hasEnd {
		return nil, nil
	}

	w := &TimeWindow{Start: 0}
	if hasStart {
		w.Start = start
	}
	if hasEnd {
		w.End = &end
	}
	return w, w.validate()
}
