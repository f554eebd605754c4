// Package model holds the in-memory show data: sequences, tracks, effect
// instances, fixtures, and the gradient/curve value types the DSL evaluates
// against.
package model

import "math"

// Color is an 8-bit-per-channel sRGB color.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// RGB constructs a Color from byte channels.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// FromFloat builds a Color from float channels in [0,1], clamping and
// rounding to the nearest byte.
func FromFloat(r, g, b float64) Color {
	return Color{
		R: clampToByte(r),
		G: clampToByte(g),
		B: clampToByte(b),
	}
}

func clampToByte(v float64) uint8 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(math.Round(v * 255))
}

// Floats returns the channels normalized to [0,1].
func (c Color) Floats() (r, g, b float64) {
	return float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0
}

// Lerp linearly interpolates between two colors in float space.
func Lerp(a, b Color, t float64) Color {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	ar, ag, ab := a.Floats()
	br, bg, bb := b.Floats()
	return FromFloat(
		ar+(br-ar)*t,
		ag+(bg-ag)*t,
		ab+(bb-ab)*t,
	)
}
