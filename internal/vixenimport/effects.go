package vixenimport

import (
	"vibelights/internal/model"
)

// curvePoint and gradientStop are the 0-100-scaled intermediate shapes a
// .tim data model entry parses into, before normalization to [0,1].
type curvePoint struct{ x, y float64 }
type gradientStop struct {
	pos   float64
	color model.Color
}

// buildCurveParam normalizes Vixen curve points (0-100 scale) into a
// model.Curve param, or reports false if fewer than two points survive.
func buildCurveParam(points []curvePoint) (model.ParamValue, bool) {
	if len(points) < 2 {
		return model.ParamValue{}, false
	}
	pts := make([]model.CurvePoint, len(points))
	for i, p := range points {
		pts[i] = model.CurvePoint{X: p.x / 100.0, Y: p.y / 100.0}
	}
	curve, ok := model.NewCurve(pts)
	if !ok {
		return model.ParamValue{}, false
	}
	return model.CurveValue(curve), true
}

// buildGradientParam converts Vixen gradient stops (already position
// 0-1) into a model.ColorGradient param.
func buildGradientParam(stops []gradientStop) (model.ParamValue, bool) {
	if len(stops) == 0 {
		return model.ParamValue{}, false
	}
	cs := make([]model.ColorStop, len(stops))
	for i, s := range stops {
		cs[i] = model.ColorStop{Position: s.pos, Color: s.color}
	}
	grad, ok := model.NewColorGradient(cs)
	if !ok {
		return model.ParamValue{}, false
	}
	return model.GradientValue(grad), true
}

// mapColorHandling translates a Vixen ColorHandling string to one of our
// color_mode param values.
func mapColorHandling(handling string) string {
	switch handling {
	case "GradientThroughWholeEffect":
		return "gradient_through_effect"
	case "GradientAcrossItems", "ColorAcrossItems":
		return "gradient_across_items"
	case "GradientForEachPulse", "GradientOverEachPulse", "GradientPerPulse":
		return "gradient_per_pulse"
	default:
		return "static"
	}
}

// vixenEffect is the cross-resolved, per-effect-node view assembled from
// the data-model lookup chain before mapping to a target EffectKind.
type vixenEffect struct {
	typeName        string
	color           *model.Color
	movementCurve   []curvePoint
	pulseCurve      []curvePoint
	intensityCurve  []curvePoint
	gradientColors  []gradientStop
	colorHandling   string
	level           *float64
	revolutionCount *float64
	pulsePercentage *float64
	reverseSpin     *bool
}

// mapVixenEffect implements the closed Vixen-type-name → (EffectKind,
// EffectParams) mapping table. Unrecognized type names degrade to a gray
// Solid effect; the caller is responsible for emitting the warning.
func mapVixenEffect(e *vixenEffect) (model.EffectKind, model.EffectParams) {
	baseColor := model.White
	if e.color != nil {
		baseColor = *e.color
	}

	switch e.typeName {
	case "Pulse", "SetLevel":
		params := model.NewEffectParams()
		if curveVal, ok := buildCurveParam(e.intensityCurve); ok {
			params = params.Set("intensity_curve", curveVal)
		} else {
			level := 1.0
			if e.level != nil {
				level = clamp01(*e.level)
			}
			params = params.Set("intensity_curve", model.CurveValue(model.Constant(level)))
		}
		if gradVal, ok := buildGradientParam(e.gradientColors); ok {
			params = params.Set("gradient", gradVal)
		} else {
			params = params.Set("gradient", model.GradientValue(model.Solid(baseColor)))
		}
		params = params.Set("color_mode", model.TextValue(mapColorHandling(e.colorHandling)))
		return model.Builtin(model.EffectKindFade), params

	case "Chase":
		params := model.NewEffectParams()
		if gradVal, ok := buildGradientParam(e.gradientColors); ok {
			params = params.Set("gradient", gradVal)
		} else {
			params = params.Set("gradient", model.GradientValue(model.Solid(baseColor)))
		}
		if curveVal, ok := buildCurveParam(e.movementCurve); ok {
			params = params.Set("movement_curve", curveVal)
		}
		if curveVal, ok := buildCurveParam(e.pulseCurve); ok {
			params = params.Set("pulse_curve", curveVal)
		}
		params = params.
			Set("color_mode", model.TextValue(mapColorHandling(e.colorHandling))).
			Set("speed", model.FloatValue(1.0)).
			Set("pulse_width", model.FloatValue(0.3))
		return model.Builtin(model.EffectKindChase), params

	case "ColorWash", "Fire", "Candle":
		params := model.NewEffectParams().Set("gradient", model.GradientValue(warmGradient(baseColor)))
		return model.Builtin(model.EffectKindFade), params

	case "Twinkle", "Dissolve", "Fireworks", "Snowflakes", "Meteor":
		return model.Builtin(model.EffectKindTwinkle), model.NewEffectParams().
			Set("color", model.ColorValue(baseColor)).
			Set("density", model.FloatValue(0.4)).
			Set("speed", model.FloatValue(6.0))

	case "Strobe":
		return model.Builtin(model.EffectKindStrobe), model.NewEffectParams().
			Set("color", model.ColorValue(baseColor)).
			Set("rate", model.FloatValue(10.0)).
			Set("duty_cycle", model.FloatValue(0.5))

	case "Alternating", "Garlands", "PinWheel", "Butterfly", "Shockwave":
		params := model.NewEffectParams()
		if gradVal, ok := buildGradientParam(e.gradientColors); ok {
			params = params.Set("gradient", gradVal)
		} else {
			params = params.Set("gradient", model.GradientValue(model.Solid(baseColor)))
		}
		params = params.Set("speed", model.FloatValue(1.0)).Set("pulse_width", model.FloatValue(0.5))
		return model.Builtin(model.EffectKindChase), params

	case "Spin":
		params := model.NewEffectParams()
		if gradVal, ok := buildGradientParam(e.gradientColors); ok {
			params = params.Set("gradient", gradVal)
		} else {
			params = params.Set("gradient", model.GradientValue(model.Solid(baseColor)))
		}
		if curveVal, ok := buildCurveParam(e.pulseCurve); ok {
			params = params.Set("pulse_curve", curveVal)
		}
		speed := 4.0
		if e.revolutionCount != nil {
			speed = *e.revolutionCount
		}
		pulseWidth := 0.1
		if e.pulsePercentage != nil {
			pulseWidth = clampRange(*e.pulsePercentage/100.0, 0.01, 1.0)
		}
		reverse := false
		if e.reverseSpin != nil {
			reverse = *e.reverseSpin
		}
		params = params.
			Set("color_mode", model.TextValue(mapColorHandling(e.colorHandling))).
			Set("speed", model.FloatValue(speed)).
			Set("pulse_width", model.FloatValue(pulseWidth)).
			Set("reverse", model.BoolValue(reverse))
		return model.Builtin(model.EffectKindChase), params

	case "Wipe":
		params := model.NewEffectParams().
			Set("gradient", model.GradientValue(model.Solid(baseColor))).
			Set("speed", model.FloatValue(2.0)).
			Set("pulse_width", model.FloatValue(0.6))
		return model.Builtin(model.EffectKindWipe), params

	case "Rainbow":
		return model.Builtin(model.EffectKindRainbow), model.NewEffectParams().
			Set("speed", model.FloatValue(1.0)).
			Set("spread", model.FloatValue(2.0))

	default:
		return model.Builtin(model.EffectKindSolid), model.NewEffectParams().
			Set("color", model.ColorValue(model.RGB(128, 128, 128)))
	}
}

// skippedVixenEffectType reports whether a Vixen type has no light
// equivalent and should be silently dropped (no warning).
func skippedVixenEffectType(typeName string) bool {
	switch typeName {
	case "Audio", "Video", "LipSync", "CountDown", "Mask":
		return true
	default:
		return false
	}
}

func warmGradient(base model.Color) model.ColorGradient {
	g, _ := model.NewColorGradient([]model.ColorStop{
		{Position: 0, Color: model.RGB(40, 10, 0)},
		{Position: 1, Color: base},
	})
	return g
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
