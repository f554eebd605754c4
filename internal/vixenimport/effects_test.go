package vixenimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibelights/internal/model"
)

func TestMapVixenEffectPulseUsesConstantIntensityWhenNoCurve(t *testing.T) {
	level := 0.75
	kind, params := mapVixenEffect(&vixenEffect{typeName: "Pulse", level: &level})
	assert.Equal(t, model.EffectKindFade, kind.Builtin)

	v, ok := params.Get("intensity_curve")
	require.True(t, ok)
	require.NotNil(t, v.Curve)
	assert.InDelta(t, 0.75, v.Curve.Eval(0.5), 1e-9)
}

func TestMapVixenEffectChaseFamily(t *testing.T) {
	for _, typeName := range []string{"Chase", "Alternating", "Garlands", "PinWheel", "Butterfly", "Shockwave", "Spin"} {
		kind, _ := mapVixenEffect(&vixenEffect{typeName: typeName})
		assert.Equal(t, model.EffectKindChase, kind.Builtin, typeName)
	}
}

func TestMapVixenEffectUnknownDegradesToGraySolid(t *testing.T) {
	kind, params := mapVixenEffect(&vixenEffect{typeName: "SomeUnknownFutureEffect"})
	assert.Equal(t, model.EffectKindSolid, kind.Builtin)
	v, ok := params.Get("color")
	require.True(t, ok)
	require.NotNil(t, v.Color)
	assert.Equal(t, model.RGB(128, 128, 128), *v.Color)
}

func TestSkippedVixenEffectTypes(t *testing.T) {
	for _, t2 := range []string{"Audio", "Video", "LipSync", "CountDown", "Mask"} {
		assert.True(t, skippedVixenEffectType(t2), t2)
	}
	assert.False(t, skippedVixenEffectType("Chase"))
}

func TestMapColorHandling(t *testing.T) {
	assert.Equal(t, "gradient_through_effect", mapColorHandling("GradientThroughWholeEffect"))
	assert.Equal(t, "gradient_across_items", mapColorHandling("ColorAcrossItems"))
	assert.Equal(t, "gradient_per_pulse", mapColorHandling("GradientPerPulse"))
	assert.Equal(t, "static", mapColorHandling("StaticColor"))
	assert.Equal(t, "static", mapColorHandling(""))
}
