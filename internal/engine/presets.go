package engine

import (
	"math"
	"sort"
	"strings"
)

// ColorShift tints shadows toward red (warm) or blue (cool) via colorbalance.
type ColorShift struct {
	Red  float64
	Blue float64
}

// PresetAdjustment is the primitive adjustment set behind one named look.
// Identity values: Brightness 0, Contrast 1, Saturation 1, Gamma 1.
type PresetAdjustment struct {
	Name       string
	Brightness float64
	Contrast   float64
	Saturation float64
	Gamma      float64
	Balance    *ColorShift
	Curve      string // curves filter preset name
	Vignette   bool
}

func neutralAdjustment() PresetAdjustment {
	return PresetAdjustment{
		Name:       "neutral",
		Brightness: 0,
		Contrast:   1,
		Saturation: 1,
		Gamma:      1,
	}
}

// scaled interpolates the adjustment toward identity: 0 is a no-op, 1 the
// full look. Curve and vignette stages are kept as-is, they have no linear
// strength parameter.
func (a PresetAdjustment) scaled(intensity float64) PresetAdjustment {
	if intensity >= 1 {
		return a
	}
	out := a
	out.Brightness = a.Brightness * intensity
	out.Contrast = 1 + (a.Contrast-1)*intensity
	out.Saturation = 1 + (a.Saturation-1)*intensity
	out.Gamma = 1 + (a.Gamma-1)*intensity
	if a.Balance != nil {
		out.Balance = &ColorShift{Red: a.Balance.Red * intensity, Blue: a.Balance.Blue * intensity}
	}
	return out
}

func (a PresetAdjustment) isNeutral() bool {
	return a.Brightness == 0 && a.Contrast == 1 && a.Saturation == 1 && a.Gamma == 1 &&
		a.Balance == nil && a.Curve == "" && !a.Vignette
}

// PresetMapping resolves named looks case-insensitively. Unknown names fall
// back to the neutral default so a stale preset in a saved project never
// breaks an edit.
type PresetMapping struct {
	presets map[string]PresetAdjustment
}

func NewPresetMapping() *PresetMapping {
	presets := []PresetAdjustment{
		{Name: "cinematic", Brightness: -0.02, Contrast: 1.15, Saturation: 1.08, Gamma: 0.95, Vignette: true},
		{Name: "vintage", Contrast: 0.95, Saturation: 0.82, Gamma: 1.05, Curve: "vintage"},
		{Name: "noir", Contrast: 1.25, Saturation: 0, Gamma: 0.92},
		{Name: "vibrant", Contrast: 1.1, Saturation: 1.45, Gamma: 1},
		{Name: "warm", Contrast: 1.02, Saturation: 1.1, Gamma: 1, Balance: &ColorShift{Red: 0.12, Blue: -0.12}},
		{Name: "cool", Contrast: 1.02, Saturation: 1.05, Gamma: 1, Balance: &ColorShift{Red: -0.1, Blue: 0.14}},
		{Name: "faded", Brightness: 0.06, Contrast: 0.9, Saturation: 0.78, Gamma: 1.08},
		{Name: "dramatic", Brightness: -0.04, Contrast: 1.3, Saturation: 1.05, Gamma: 0.9, Vignette: true},
		{Name: "sunset", Brightness: 0.02, Contrast: 1.08, Saturation: 1.2, Gamma: 0.98, Balance: &ColorShift{Red: 0.18, Blue: -0.08}},
		neutralAdjustment(),
	}

	m := make(map[string]PresetAdjustment, len(presets))
	for _, p := range presets {
		m[strings.ToLower(p.Name)] = p
	}
	return &PresetMapping{presets: m}
}

// Lookup resolves a preset by name. The second return reports whether the
// name was known; the adjustment is usable either way.
func (m *PresetMapping) Lookup(name string) (PresetAdjustment, bool) {
	p, ok := m.presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return neutralAdjustment(), false
	}
	return p, true
}

// Names lists the known presets sorted.
func (m *PresetMapping) Names() []string {
	names := make([]string, 0, len(m.presets))
	for name := range m.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// effectStage builds the filter stage for a named visual effect, its strength
// scaled by intensity in [0,1]. Unknown effects return ok=false and the
// caller falls back to the neutral default.
func effectStage(name string, intensity float64) (FilterStage, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "blur":
		return FilterStage{Name: "gblur", Args: []FilterArg{
			argf("sigma", "%.2f", 2+8*intensity),
		}}, true
	case "sharpen":
		return FilterStage{Name: "unsharp", Args: []FilterArg{
			argf("luma_msize_x", "%d", 5),
			argf("luma_msize_y", "%d", 5),
			argf("luma_amount", "%.2f", 0.5+1.0*intensity),
		}}, true
	case "grayscale":
		return FilterStage{Name: "hue", Args: []FilterArg{arg("s", "0")}}, true
	case "sepia":
		return sepiaStage(), true
	case "vignette":
		return vignetteStage(intensity), true
	case "invert":
		return FilterStage{Name: "negate"}, true
	case "mirror":
		return FilterStage{Name: "hflip"}, true
	case "pixelate":
		block := 8 + int(24*intensity)
		return FilterStage{Name: "pixelize", Args: []FilterArg{
			argf("width", "%d", block),
			argf("height", "%d", block),
		}}, true
	}
	return FilterStage{}, false
}

func sepiaStage() FilterStage {
	return FilterStage{Name: "colorchannelmixer", Args: []FilterArg{
		{Value: ".393"}, {Value: ".769"}, {Value: ".189"}, {Value: "0"},
		{Value: ".349"}, {Value: ".686"}, {Value: ".168"}, {Value: "0"},
		{Value: ".272"}, {Value: ".534"}, {Value: ".131"}, {Value: "0"},
	}}
}

func vignetteStage(intensity float64) FilterStage {
	angle := (math.Pi / 5) * (0.5 + 0.5*intensity)
	return FilterStage{Name: "vignette", Args: []FilterArg{
		argf("angle", "%.4f", angle),
	}}
}
