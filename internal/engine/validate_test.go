package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *Validator {
	return NewValidator(NewCatalog())
}

func TestValidateCollectsAllViolations(t *testing.T) {
	v := newTestValidator()

	result := v.Validate(KindCrop, map[string]any{
		"width": -10.0,
		"x":     -5.0,
	})
	require.False(t, result.Valid)
	// width out of range, height missing, x out of range, y missing
	assert.Len(t, result.Errors, 4)
}

func TestValidatePerKind(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name   string
		kind   OperationKind
		params map[string]any
		valid  bool
	}{
		{"trim ok", KindTrim, map[string]any{"start": 0.0, "end": 5.0}, true},
		{"trim open ended", KindTrim, map[string]any{"start": 3.0}, true},
		{"trim end before start", KindTrim, map[string]any{"start": 5.0, "end": 2.0}, false},
		{"trim negative start", KindTrim, map[string]any{"start": -1.0}, false},
		{"trim missing start", KindTrim, map[string]any{}, false},

		{"removeClip ok", KindRemoveClip, map[string]any{"startTime": 1.0, "endTime": 2.0}, true},
		{"removeClip inverted", KindRemoveClip, map[string]any{"startTime": 3.0, "endTime": 1.0}, false},
		{"removeClip missing end", KindRemoveClip, map[string]any{"startTime": 1.0}, false},

		{"colorGrade ok", KindColorGrade, map[string]any{"preset": "cinematic"}, true},
		{"colorGrade with window", KindColorGrade, map[string]any{"preset": "warm", "startTime": 1.0, "endTime": 4.0}, true},
		{"colorGrade inverted window", KindColorGrade, map[string]any{"preset": "warm", "startTime": 4.0, "endTime": 1.0}, false},
		{"colorGrade intensity high", KindColorGrade, map[string]any{"preset": "warm", "intensity": 1.5}, false},
		{"colorGrade missing preset", KindColorGrade, map[string]any{}, false},

		{"applyEffect ok", KindApplyEffect, map[string]any{"effect": "blur", "intensity": 0.4}, true},
		{"applyEffect missing name", KindApplyEffect, map[string]any{"intensity": 0.4}, false},

		{"addText ok", KindAddText, map[string]any{"text": "hello"}, true},
		{"addText empty text", KindAddText, map[string]any{"text": "  "}, false},
		{"addText font at floor", KindAddText, map[string]any{"text": "hi", "fontSize": 12.0}, true},
		{"addText font at ceiling", KindAddText, map[string]any{"text": "hi", "fontSize": 120.0}, true},
		{"addText font below floor", KindAddText, map[string]any{"text": "hi", "fontSize": 10.0}, false},
		{"addText font above ceiling", KindAddText, map[string]any{"text": "hi", "fontSize": 150.0}, false},
		{"addText unknown position tolerated", KindAddText, map[string]any{"text": "hi", "position": "underneath"}, true},

		{"addCaptions missing path", KindAddCaptions, map[string]any{}, false},
		{"addCaptions unknown style tolerated", KindAddCaptions, map[string]any{"path": "subs.srt", "color": "chartreuse", "position": "sideways"}, true},
		{"addCaptions ok", KindAddCaptions, map[string]any{"path": "subs.srt", "color": "yellow", "size": "large"}, true},

		{"adjustIntensity ok", KindAdjustIntensity, map[string]any{"intensity": 0.5}, true},
		{"adjustIntensity out of range", KindAdjustIntensity, map[string]any{"intensity": 2.0}, false},

		{"adjustZoom ok", KindAdjustZoom, map[string]any{"zoom": 2.0}, true},
		{"adjustZoom below one", KindAdjustZoom, map[string]any{"zoom": 0.5}, false},

		{"rotate ok", KindRotate, map[string]any{"degrees": 90.0}, true},
		{"rotate via rotation alias", KindRotate, map[string]any{"rotation": -45.0}, true},
		{"rotate out of range", KindRotate, map[string]any{"degrees": 270.0}, false},

		{"crop ok", KindCrop, map[string]any{"width": 640.0, "height": 360.0, "x": 0.0, "y": 0.0}, true},
		{"crop zero width", KindCrop, map[string]any{"width": 0.0, "height": 360.0, "x": 0.0, "y": 0.0}, false},
		{"crop missing x and y", KindCrop, map[string]any{"width": 640.0, "height": 360.0}, false},

		{"extra params ignored", KindTrim, map[string]any{"start": 1.0, "uiHint": "whatever"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.kind, tt.params)
			if tt.valid {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				assert.Empty(t, result.Errors)
			} else {
				assert.False(t, result.Valid)
				assert.NotEmpty(t, result.Errors)
			}
		})
	}
}

func TestValidateSpeedDiscreteSet(t *testing.T) {
	v := newTestValidator()

	for _, speed := range []float64{0.5, 1.0, 1.5, 2.0} {
		t.Run(fmt.Sprintf("speed %g", speed), func(t *testing.T) {
			result := v.Validate(KindAdjustSpeed, map[string]any{"speed": speed})
			assert.True(t, result.Valid, "errors: %v", result.Errors)
		})
	}

	result := v.Validate(KindAdjustSpeed, map[string]any{"speed": 1.7})
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "one of")
}

func TestDecodeProducesTypedParams(t *testing.T) {
	v := newTestValidator()

	params, result := v.Decode(KindAddText, map[string]any{
		"text":     "Watch this",
		"fontSize": 48.0,
		"position": "TOP",
	})
	require.True(t, result.Valid)

	text, ok := params.(TextParams)
	require.True(t, ok)
	assert.Equal(t, "Watch this", text.Text)
	assert.Equal(t, 48.0, text.FontSize)
	assert.Equal(t, "top", text.Position)
	assert.True(t, text.Background)
}

func TestDecodeCoercesStringNumbers(t *testing.T) {
	v := newTestValidator()

	params, result := v.Decode(KindAdjustZoom, map[string]any{"zoom": "1.5"})
	require.True(t, result.Valid, "errors: %v", result.Errors)

	zoom, ok := params.(ZoomParams)
	require.True(t, ok)
	assert.Equal(t, 1.5, zoom.Zoom)
}

func TestDecodeInvalidReturnsNilParams(t *testing.T) {
	v := newTestValidator()

	params, result := v.Decode(KindTrim, map[string]any{"start": 5.0, "end": 1.0})
	assert.False(t, result.Valid)
	assert.Nil(t, params)
}
