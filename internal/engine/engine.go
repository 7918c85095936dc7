// Package engine validates declarative edit operations and compiles them
// into executable backend instructions: FFmpeg filter expressions for the
// authoritative render path and transformation-service URL descriptors for
// the preview path.
package engine

import (
	"strings"

	"clipforge/pkg/errors"
)

// Operation is one declarative edit instruction as submitted by a client.
// Window, when set, overrides any startTime/endTime found in Params.
type Operation struct {
	Kind   OperationKind  `json:"kind"`
	Params map[string]any `json:"params"`
	Window *TimeWindow    `json:"window,omitempty"`
}

// Options carries the engine's explicit configuration. Zero value uses the
// built-in preset table and template catalog.
type Options struct {
	Presets   *PresetMapping
	Templates *TemplateCatalog
}

// Engine ties the catalog, validator and compilers together. Construct it
// once and share it; all methods are safe for concurrent use.
type Engine struct {
	Catalog   *Catalog
	Presets   *PresetMapping
	Templates *TemplateCatalog
	Validator *Validator

	filters    *FilterCompiler
	transforms *TransformCompiler
	segments   *SegmentEditor
}

func New(opts Options) *Engine {
	presets := opts.Presets
	if presets == nil {
		presets = NewPresetMapping()
	}
	templates := opts.Templates
	if templates == nil {
		templates = NewTemplateCatalog()
	}

	catalog := NewCatalog()
	return &Engine{
		Catalog:    catalog,
		Presets:    presets,
		Templates:  templates,
		Validator:  NewValidator(catalog),
		filters:    NewFilterCompiler(presets),
		transforms: NewTransformCompiler(presets),
		segments:   NewSegmentEditor(),
	}
}

// Validate checks one operation against the catalog rules. An explicit
// window is held to the same invariants as startTime/endTime params.
func (e *Engine) Validate(op Operation) ValidationResult {
	result := e.Validator.Validate(op.Kind, op.Params)
	if werrs := op.Window.validate(); len(werrs) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, werrs...)
	}
	return result
}

// decode validates and resolves the effective time window.
func (e *Engine) decode(op Operation) (Params, *TimeWindow, error) {
	params, result := e.Validator.Decode(op.Kind, op.Params)
	if werrs := op.Window.validate(); len(werrs) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, werrs...)
	}
	if !result.Valid {
		return nil, nil, errors.WrapWithDetail(errors.CodeValidationFailed,
			"Operation validation failed",
			strings.Join(result.Errors, "; "), nil)
	}
	return params, e.resolveWindow(op, params), nil
}

// CompileFilter compiles an operation for the authoritative FFmpeg path.
func (e *Engine) CompileFilter(op Operation) (*FilterExpression, error) {
	params, window, err := e.decode(op)
	if err != nil {
		return nil, err
	}
	return e.filters.Compile(params, window)
}

// CompileTransformation compiles an operation for the preview path.
func (e *Engine) CompileTransformation(op Operation) (*Transformation, error) {
	params, window, err := e.decode(op)
	if err != nil {
		return nil, err
	}
	return e.transforms.Compile(params, window)
}

// PlanRemoval plans a removeClip against a known source duration. Bounds are
// read leniently: invalid ones skip the operation rather than failing it, so
// a bad range in a saved project cannot break a render batch.
func (e *Engine) PlanRemoval(op Operation, sourceDuration float64) (*SegmentPlan, bool) {
	p := rawParams(op.Params)
	start, _ := p.float("startTime")
	end, _ := p.float("endTime")
	return e.segments.Plan(start, end, sourceDuration)
}

// BuildSegmentGraph renders a removal plan as a filter_complex graph.
func (e *Engine) BuildSegmentGraph(plan *SegmentPlan) *SegmentGraph {
	return e.segments.BuildGraph(plan)
}

// resolveWindow picks the operation's effective time window: an explicit
// window wins, otherwise the startTime/endTime decoded from params. Kinds
// whose parameters are themselves a time range never get a gate window.
func (e *Engine) resolveWindow(op Operation, params Params) *TimeWindow {
	spec, ok := e.Catalog.Describe(op.Kind)
	if !ok || !spec.Windowable {
		return nil
	}
	if op.Window != nil {
		return op.Window
	}

	switch p := params.(type) {
	case ColorGradeParams:
		return p.Window
	case EffectParams:
		return p.Window
	case TextParams:
		return p.Window
	case IntensityParams:
		return p.Window
	case ZoomParams:
		return p.Window
	}
	return nil
}
