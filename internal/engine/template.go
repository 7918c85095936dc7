package engine

import (
	"context"
	stderrors "errors"
	"strings"

	"go.uber.org/zap"

	"clipforge/log"
	"clipforge/pkg/errors"
)

// TemplateOperation is one step of a template: a kind plus its raw params,
// exactly as an ad-hoc operation would arrive from a client.
type TemplateOperation struct {
	Kind   OperationKind  `json:"kind"`
	Params map[string]any `json:"params"`
}

// Template is a named, ordered batch of operations.
type Template struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    string              `json:"category"`
	Description string              `json:"description"`
	Operations  []TemplateOperation `json:"operations"`
}

// TemplateCatalog holds the built-in templates. IDs are case-sensitive.
type TemplateCatalog struct {
	templates map[string]Template
	order     []string
}

func NewTemplateCatalog() *TemplateCatalog {
	builtin := []Template{
		{
			ID:          "social-media-pack",
			Name:        "Social Media Pack",
			Category:    "social",
			Description: "Punchy colors and a follow prompt for feed clips",
			Operations: []TemplateOperation{
				{Kind: KindColorGrade, Params: map[string]any{"preset": "vibrant", "intensity": 0.7}},
				{Kind: KindAddText, Params: map[string]any{"text": "Follow for more", "position": "bottom", "fontSize": 42.0}},
			},
		},
		{
			ID:          "cinematic-look",
			Name:        "Cinematic Look",
			Category:    "film",
			Description: "Film-style grade with a subtle push-in",
			Operations: []TemplateOperation{
				{Kind: KindColorGrade, Params: map[string]any{"preset": "cinematic"}},
				{Kind: KindAdjustZoom, Params: map[string]any{"zoom": 1.1}},
			},
		},
		{
			ID:          "vintage-film",
			Name:        "Vintage Film",
			Category:    "retro",
			Description: "Faded curve and heavy vignette",
			Operations: []TemplateOperation{
				{Kind: KindColorGrade, Params: map[string]any{"preset": "vintage"}},
				{Kind: KindApplyEffect, Params: map[string]any{"effect": "vignette", "intensity": 0.6}},
			},
		},
		{
			ID:          "quick-promo",
			Name:        "Quick Promo",
			Category:    "promo",
			Description: "Sped-up cut with a warm grade and call to action",
			Operations: []TemplateOperation{
				{Kind: KindAdjustSpeed, Params: map[string]any{"speed": 1.5}},
				{Kind: KindColorGrade, Params: map[string]any{"preset": "warm", "intensity": 0.6}},
				{Kind: KindAddText, Params: map[string]any{"text": "Limited time", "position": "top", "fontSize": 48.0}},
			},
		},
		{
			ID:          "podcast-clip",
			Name:        "Podcast Clip",
			Category:    "social",
			Description: "Balanced grade with a centered title card",
			Operations: []TemplateOperation{
				{Kind: KindAdjustIntensity, Params: map[string]any{"intensity": 0.6}},
				{Kind: KindAddText, Params: map[string]any{"text": "New episode", "position": "top", "fontSize": 40.0}},
			},
		},
	}

	m := make(map[string]Template, len(builtin))
	order := make([]string, 0, len(builtin))
	for _, tpl := range builtin {
		m[tpl.ID] = tpl
		order = append(order, tpl.ID)
	}
	return &TemplateCatalog{templates: m, order: order}
}

// Get resolves a template by exact ID.
func (c *TemplateCatalog) Get(id string) (Template, bool) {
	tpl, ok := c.templates[id]
	return tpl, ok
}

// List returns every template in catalog order.
func (c *TemplateCatalog) List() []Template {
	out := make([]Template, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.templates[id])
	}
	return out
}

// ByCategory filters templates by exact category match.
func (c *TemplateCatalog) ByCategory(category string) []Template {
	var out []Template
	for _, tpl := range c.List() {
		if tpl.Category == category {
			out = append(out, tpl)
		}
	}
	return out
}

// Operation result statuses.
const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// OperationResult reports the outcome of one template step.
type OperationResult struct {
	Index  int           `json:"index"`
	Kind   OperationKind `json:"kind"`
	Status string        `json:"status"`
	Output string        `json:"output,omitempty"`
	Detail string        `json:"detail,omitempty"`
}

// ErrStepSkipped tells the sequencer an operation chose not to run. The
// step is reported as skipped and its input passes through unchanged.
var ErrStepSkipped = stderrors.New("step skipped")

// ExecuteFunc runs one validated operation against an input file and returns
// the produced output path. The sequencer stays execution-agnostic so it can
// be driven by the renderer in production and a stub in tests.
type ExecuteFunc func(ctx context.Context, op Operation, input string) (string, error)

// Sequencer applies a template's operations strictly in declared order,
// threading each successful output into the next step. A failed step is
// reported in its result and the chain continues from the last good output.
type Sequencer struct {
	validator *Validator
	exec      ExecuteFunc
}

func NewSequencer(validator *Validator, exec ExecuteFunc) *Sequencer {
	return &Sequencer{validator: validator, exec: exec}
}

func (s *Sequencer) Apply(ctx context.Context, tpl Template, source string) []OperationResult {
	results := make([]OperationResult, 0, len(tpl.Operations))
	current := source

	for i, step := range tpl.Operations {
		result := OperationResult{Index: i, Kind: step.Kind}

		if validation := s.validator.Validate(step.Kind, step.Params); !validation.Valid {
			result.Status = StatusFailed
			result.Detail = strings.Join(validation.Errors, "; ")
			results = append(results, result)
			log.GetLogger().Warn("template step failed validation",
				zap.String("template", tpl.ID),
				zap.Int("step", i),
				zap.String("kind", string(step.Kind)),
				zap.Strings("errors", validation.Errors))
			continue
		}

		output, err := s.exec(ctx, Operation{Kind: step.Kind, Params: step.Params}, current)
		if stderrors.Is(err, ErrStepSkipped) {
			result.Status = StatusSkipped
			result.Detail = "operation skipped, input passed through"
			results = append(results, result)
			log.GetLogger().Info("template step skipped",
				zap.String("template", tpl.ID),
				zap.Int("step", i),
				zap.String("kind", string(step.Kind)))
			continue
		}
		if err != nil {
			result.Status = StatusFailed
			result.Detail = err.Error()
			results = append(results, result)
			log.GetLogger().Warn("template step failed",
				zap.String("template", tpl.ID),
				zap.Int("step", i),
				zap.String("kind", string(step.Kind)),
				zap.Error(err))
			continue
		}

		result.Status = StatusSucceeded
		result.Output = output
		results = append(results, result)
		current = output
	}
	return results
}

// ApplyTemplate looks up a template and runs it. Unknown IDs are a hard
// error; step failures are soft and live in the per-step results.
func (e *Engine) ApplyTemplate(ctx context.Context, id, source string, exec ExecuteFunc) ([]OperationResult, error) {
	tpl, ok := e.Templates.Get(id)
	if !ok {
		return nil, errors.WrapWithDetail(errors.CodeTemplateNotFound,
			"Template not found", "no template with id "+id, nil)
	}
	return NewSequencer(e.Validator, exec).Apply(ctx, tpl, source), nil
}
