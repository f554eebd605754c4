package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewColorGradientRejectsEmptyStops(t *testing.T) {
	_, ok := NewColorGradient(nil)
	assert.False(t, ok)
}

func TestNewColorGradientSortsStopsByPosition(t *testing.T) {
	g, ok := NewColorGradient([]ColorStop{
		{Position: 1, Color: White},
		{Position: 0, Color: Black},
	})
	require.True(t, ok)
	assert.Equal(t, 0.0, g.Stops[0].Position)
	assert.Equal(t, 1.0, g.Stops[1].Position)
}

func TestColorGradientEvalClampsOutsideDomain(t *testing.T) {
	g, _ := NewColorGradient([]ColorStop{{Position: 0.25, Color: Black}, {Position: 0.75, Color: White}})
	assert.Equal(t, Black, g.Eval(-1))
	assert.Equal(t, White, g.Eval(2))
}

func TestColorGradientEvalInterpolatesBetweenStops(t *testing.T) {
	g, _ := NewColorGradient([]ColorStop{{Position: 0, Color: Black}, {Position: 1, Color: White}})
	mid := g.Eval(0.5)
	assert.InDelta(t, 128, int(mid.R), 1)
}

func TestSolidGradientIsConstant(t *testing.T) {
	g := Solid(RGB(10, 20, 30))
	assert.Equal(t, RGB(10, 20, 30), g.Eval(0))
	assert.Equal(t, RGB(10, 20, 30), g.Eval(0.5))
	assert.Equal(t, RGB(10, 20, 30), g.Eval(1))
}

func TestColorGradientEvalOnEmptyGradientReturnsBlack(t *testing.T) {
	var g ColorGradient
	assert.Equal(t, Black, g.Eval(0.5))
}

func TestNewCurveRequiresAtLeastTwoPoints(t *testing.T) {
	_, ok := NewCurve([]CurvePoint{{X: 0, Y: 0}})
	assert.False(t, ok)
}

func TestNewCurveSortsPointsByX(t *testing.T) {
	c, ok := NewCurve([]CurvePoint{{X: 1, Y: 10}, {X: 0, Y: 5}})
	require.True(t, ok)
	assert.Equal(t, 0.0, c.Points[0].X)
	assert.Equal(t, 1.0, c.Points[1].X)
}

func TestCurveEvalClampsOutsideDomain(t *testing.T) {
	c, _ := NewCurve([]CurvePoint{{X: 0, Y: 1}, {X: 1, Y: 5}})
	assert.Equal(t, 1.0, c.Eval(-10))
	assert.Equal(t, 5.0, c.Eval(10))
}

func TestCurveEvalInterpolatesLinearly(t *testing.T) {
	c, _ := NewCurve([]CurvePoint{{X: 0, Y: 0}, {X: 10, Y: 100}})
	assert.InDelta(t, 50.0, c.Eval(5), 1e-9)
}

func TestConstantCurveIsFlat(t *testing.T) {
	c := Constant(0.75)
	assert.Equal(t, 0.75, c.Eval(0))
	assert.Equal(t, 0.75, c.Eval(0.5))
	assert.Equal(t, 0.75, c.Eval(1))
}

func TestMotionPathEvalClampsOutsideDomain(t *testing.T) {
	p := MotionPath{Points: []Vec2Point{{T: 0, X: 0, Y: 0}, {T: 1, X: 10, Y: 10}}}
	x, y := p.Eval(-1)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
	x, y = p.Eval(2)
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 10.0, y)
}

func TestMotionPathEvalInterpolates(t *testing.T) {
	p := MotionPath{Points: []Vec2Point{{T: 0, X: 0, Y: 0}, {T: 2, X: 4, Y: 8}}}
	x, y := p.Eval(1)
	assert.InDelta(t, 2.0, x, 1e-9)
	assert.InDelta(t, 4.0, y, 1e-9)
}

func TestMotionPathEvalOnEmptyPathReturnsZero(t *testing.T) {
	var p MotionPath
	x, y := p.Eval(0.5)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}
