package vixenimport

import (
	"math"

	"vibelights/internal/model"
)

// XYZToSRGB converts CIE XYZ (D65 reference white, 0-100 scale) to an
// 8-bit sRGB model.Color, applying the standard sRGB gamma curve.
func XYZToSRGB(x, y, z float64) model.Color {
	x /= 100.0
	y /= 100.0
	z /= 100.0

	rLin := x*3.2404542 + y*-1.5371385 + z*-0.4985314
	gLin := x*-0.9692660 + y*1.8760108 + z*0.0415560
	bLin := x*0.0556434 + y*-0.2040259 + z*1.0572252

	return model.FromFloat(srgbGamma(rLin), srgbGamma(gLin), srgbGamma(bLin))
}

func srgbGamma(c float64) float64 {
	c = clamp01(c)
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
