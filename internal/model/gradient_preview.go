package model

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"
)

// RasterizeGradient renders a ColorGradient as a width x height swatch.
// The gradient is first sampled into a single-pixel-tall strip, then
// scaled up with a nearest-neighbor resampler so editors that only need
// a quick thumbnail don't pay for a full per-pixel Eval at display size.
func RasterizeGradient(g ColorGradient, width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	strip := image.NewRGBA(image.Rect(0, 0, width, 1))
	for x := 0; x < width; x++ {
		t := float64(x) / float64(max(width-1, 1))
		c := g.Eval(t)
		strip.Set(x, 0, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
	}
	if height == 1 {
		return strip
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(out, out.Bounds(), strip, strip.Bounds(), draw.Over, nil)
	return out
}

// RasterizeCurve plots a Curve as a width x height line graph, y=0 at the
// bottom and y=1 at the top, for a quick visual sanity check in an editor
// panel.
func RasterizeCurve(c Curve, width, height int) image.Image {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.RGBA{R: 24, G: 24, B: 24, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, bg)
		}
	}
	line := color.RGBA{R: 64, G: 200, B: 255, A: 255}
	lastY := -1
	for x := 0; x < width; x++ {
		t := float64(x) / float64(max(width-1, 1))
		v := clampUnit(c.Eval(t))
		py := height - 1 - int(v*float64(height-1))
		if lastY >= 0 {
			plotVerticalRun(img, x, lastY, py, line)
		} else {
			img.Set(x, py, line)
		}
		lastY = py
	}
	return img
}

// EncodePNG encodes an image as PNG bytes, for callers (e.g. a CLI flag
// or an editor thumbnail cache) that want a portable byte representation
// rather than an in-memory image.Image.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func plotVerticalRun(img *image.RGBA, x, fromY, toY int, c color.RGBA) {
	if fromY > toY {
		fromY, toY = toY, fromY
	}
	for y := fromY; y <= toY; y++ {
		img.Set(x, y, c)
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
