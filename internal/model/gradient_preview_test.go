package model

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterizeGradientEndpointsMatchStops(t *testing.T) {
	g := ColorGradient{Stops: []ColorStop{
		{Position: 0, Color: RGB(255, 0, 0)},
		{Position: 1, Color: RGB(0, 0, 255)},
	}}
	img := RasterizeGradient(g, 16, 4)
	left := img.At(0, 0).(color.RGBA)
	right := img.At(15, 0).(color.RGBA)
	assert.Equal(t, uint8(255), left.R)
	assert.Equal(t, uint8(255), right.B)
}

func TestRasterizeGradientSinglePixelWide(t *testing.T) {
	g := Solid(RGB(10, 20, 30))
	img := RasterizeGradient(g, 1, 1)
	assert.Equal(t, 1, img.Bounds().Dx())
}

func TestRasterizeCurveStaysWithinBounds(t *testing.T) {
	c, ok := NewCurve([]CurvePoint{{X: 0, Y: 0}, {X: 1, Y: 1}})
	require.True(t, ok)
	img := RasterizeCurve(c, 32, 16)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestEncodePNGProducesValidHeader(t *testing.T) {
	g := Solid(RGB(1, 2, 3))
	img := RasterizeGradient(g, 4, 4)
	data, err := EncodePNG(img)
	require.NoError(t, err)
	pngMagic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	assert.Equal(t, pngMagic, data[:8])
}
