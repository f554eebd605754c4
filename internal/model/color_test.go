package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFloatClampsOutOfRangeChannels(t *testing.T) {
	c := FromFloat(-0.5, 0.5, 1.5)
	assert.Equal(t, Color{R: 0, G: 128, B: 255}, c)
}

func TestFromFloatRoundsToNearestByte(t *testing.T) {
	c := FromFloat(1.0/3.0, 0, 0)
	assert.Equal(t, uint8(85), c.R)
}

func TestFloatsRoundTripsThroughFromFloat(t *testing.T) {
	orig := RGB(255, 128, 0)
	r, g, b := orig.Floats()
	assert.Equal(t, orig, FromFloat(r, g, b))
}

func TestLerpAtEndpointsReturnsExactEndpoints(t *testing.T) {
	a, b := Black, White
	assert.Equal(t, a, Lerp(a, b, -1))
	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	assert.Equal(t, b, Lerp(a, b, 2))
}

func TestLerpMidpointIsHalfway(t *testing.T) {
	mid := Lerp(Black, White, 0.5)
	assert.InDelta(t, 128, int(mid.R), 1)
	assert.Equal(t, mid.R, mid.G)
	assert.Equal(t, mid.G, mid.B)
}
