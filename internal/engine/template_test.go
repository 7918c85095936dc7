package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipforge/pkg/errors"
)

func TestTemplateCatalogLookup(t *testing.T) {
	c := NewTemplateCatalog()

	tpl, ok := c.Get("cinematic-look")
	require.True(t, ok)
	assert.Equal(t, "Cinematic Look", tpl.Name)
	assert.NotEmpty(t, tpl.Operations)

	// IDs are case-sensitive
	_, ok = c.Get("Cinematic-Look")
	assert.False(t, ok)
}

func TestTemplateCatalogByCategory(t *testing.T) {
	c := NewTemplateCatalog()

	social := c.ByCategory("social")
	require.NotEmpty(t, social)
	for _, tpl := range social {
		assert.Equal(t, "social", tpl.Category)
	}

	assert.Empty(t, c.ByCategory("Social"))
}

func TestApplyTemplateUnknownID(t *testing.T) {
	e := newTestEngine()

	_, err := e.ApplyTemplate(context.Background(), "no-such-template", "in.mp4", func(ctx context.Context, op Operation, input string) (string, error) {
		t.Fatal("executor must not run for unknown template")
		return "", nil
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeTemplateNotFound))
}

func TestApplyTemplateRunsEveryStepInOrder(t *testing.T) {
	e := newTestEngine()

	var kinds []OperationKind
	var inputs []string
	results, err := e.ApplyTemplate(context.Background(), "quick-promo", "source.mp4", func(ctx context.Context, op Operation, input string) (string, error) {
		kinds = append(kinds, op.Kind)
		inputs = append(inputs, input)
		return fmt.Sprintf("step-%d.mp4", len(kinds)), nil
	})
	require.NoError(t, err)

	tpl, _ := e.Templates.Get("quick-promo")
	require.Len(t, results, len(tpl.Operations))

	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, tpl.Operations[i].Kind, r.Kind)
		assert.Equal(t, StatusSucceeded, r.Status)
	}
	// each step consumes the previous step's output
	assert.Equal(t, "source.mp4", inputs[0])
	assert.Equal(t, "step-1.mp4", inputs[1])
	assert.Equal(t, "step-2.mp4", inputs[2])
}

func TestApplyTemplateStepFailureIsIndependent(t *testing.T) {
	e := newTestEngine()

	calls := 0
	results, err := e.ApplyTemplate(context.Background(), "vintage-film", "source.mp4", func(ctx context.Context, op Operation, input string) (string, error) {
		calls++
		if calls == 1 {
			return "", fmt.Errorf("renderer crashed")
		}
		// the failed step's input is passed through
		assert.Equal(t, "source.mp4", input)
		return "ok.mp4", nil
	})
	require.NoError(t, err, "step failures are soft")
	require.Len(t, results, 2)

	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Detail, "renderer crashed")
	assert.Equal(t, StatusSucceeded, results[1].Status)
	assert.Equal(t, "ok.mp4", results[1].Output)
}

func TestSequencerValidationFailureSkipsExecutor(t *testing.T) {
	v := newTestValidator()

	tpl := Template{
		ID: "bad-step",
		Operations: []TemplateOperation{
			{Kind: KindAdjustSpeed, Params: map[string]any{"speed": 1.7}},
			{Kind: KindAdjustSpeed, Params: map[string]any{"speed": 2.0}},
		},
	}

	executed := 0
	s := NewSequencer(v, func(ctx context.Context, op Operation, input string) (string, error) {
		executed++
		return "out.mp4", nil
	})

	results := s.Apply(context.Background(), tpl, "in.mp4")
	require.Len(t, results, 2)
	assert.Equal(t, StatusFailed, results[0].Status)
	assert.Contains(t, results[0].Detail, "one of")
	assert.Equal(t, StatusSucceeded, results[1].Status)
	assert.Equal(t, 1, executed, "invalid steps must not reach the executor")
}

func TestSequencerSkippedStepPassesInputThrough(t *testing.T) {
	v := newTestValidator()

	tpl := Template{
		ID: "with-skip",
		Operations: []TemplateOperation{
			{Kind: KindRemoveClip, Params: map[string]any{"startTime": 1.0, "endTime": 2.0}},
			{Kind: KindAdjustSpeed, Params: map[string]any{"speed": 2.0}},
		},
	}

	var inputs []string
	s := NewSequencer(v, func(ctx context.Context, op Operation, input string) (string, error) {
		inputs = append(inputs, input)
		if op.Kind == KindRemoveClip {
			return "", ErrStepSkipped
		}
		return "out.mp4", nil
	})

	results := s.Apply(context.Background(), tpl, "in.mp4")
	require.Len(t, results, 2)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Empty(t, results[0].Output)
	assert.Equal(t, StatusSucceeded, results[1].Status)
	// the skipped step's input flows into the next step
	assert.Equal(t, []string{"in.mp4", "in.mp4"}, inputs)
}

func TestBuiltinTemplatesValidate(t *testing.T) {
	v := newTestValidator()
	c := NewTemplateCatalog()

	for _, tpl := range c.List() {
		for i, step := range tpl.Operations {
			result := v.Validate(step.Kind, step.Params)
			assert.True(t, result.Valid, "template %s step %d: %v", tpl.ID, i, result.Errors)
		}
	}
}
