package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetLookupCaseInsensitive(t *testing.T) {
	m := NewPresetMapping()

	lower, ok := m.Lookup("vintage")
	require.True(t, ok)

	for _, name := range []string{"VINTAGE", "Vintage", " vintage ", "vInTaGe"} {
		adj, ok := m.Lookup(name)
		assert.True(t, ok, "casing %q", name)
		assert.Equal(t, lower, adj)
	}
}

func TestPresetLookupUnknownFallsBackToNeutral(t *testing.T) {
	m := NewPresetMapping()

	adj, ok := m.Lookup("does-not-exist")
	assert.False(t, ok)
	assert.True(t, adj.isNeutral())
	assert.Equal(t, "neutral", adj.Name)
}

func TestPresetScaling(t *testing.T) {
	m := NewPresetMapping()

	full, ok := m.Lookup("dramatic")
	require.True(t, ok)

	half := full.scaled(0.5)
	assert.InDelta(t, full.Brightness/2, half.Brightness, 1e-9)
	assert.InDelta(t, 1+(full.Contrast-1)/2, half.Contrast, 1e-9)
	assert.InDelta(t, 1+(full.Saturation-1)/2, half.Saturation, 1e-9)

	zero := full.scaled(0)
	assert.Equal(t, 0.0, zero.Brightness)
	assert.Equal(t, 1.0, zero.Contrast)
	assert.Equal(t, 1.0, zero.Saturation)
	assert.Equal(t, 1.0, zero.Gamma)
}

func TestPresetScalingKeepsBalanceDirection(t *testing.T) {
	m := NewPresetMapping()

	warm, ok := m.Lookup("warm")
	require.True(t, ok)
	require.NotNil(t, warm.Balance)

	half := warm.scaled(0.5)
	require.NotNil(t, half.Balance)
	assert.InDelta(t, warm.Balance.Red/2, half.Balance.Red, 1e-9)
	assert.InDelta(t, warm.Balance.Blue/2, half.Balance.Blue, 1e-9)
}

func TestPresetNamesSorted(t *testing.T) {
	m := NewPresetMapping()

	names := m.Names()
	require.NotEmpty(t, names)
	assert.Contains(t, names, "cinematic")
	assert.Contains(t, names, "neutral")
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
}

func TestEffectStageUnknown(t *testing.T) {
	_, ok := effectStage("swirl", 1)
	assert.False(t, ok)
}

func TestEffectStageIntensityScalesBlur(t *testing.T) {
	soft, ok := effectStage("blur", 0)
	require.True(t, ok)
	hard, ok := effectStage("blur", 1)
	require.True(t, ok)

	assert.Equal(t, "gblur", soft.Name)
	assert.Equal(t, "sigma=2.00", soft.Args[0].Key+"="+soft.Args[0].Value)
	assert.Equal(t, "sigma=10.00", hard.Args[0].Key+"="+hard.Args[0].Value)
}
