package model

import "sort"

// ColorStop is one stop in a ColorGradient.
type ColorStop struct {
	Position float64 // in [0,1]
	Color    Color
}

// ColorGradient is an ordered list of color stops; evaluation clamps and
// linearly interpolates between the two stops bracketing a query position.
type ColorGradient struct {
	Stops []ColorStop
}

// NewColorGradient validates and sorts stops by position. Returns false if
// the gradient has no stops.
func NewColorGradient(stops []ColorStop) (ColorGradient, bool) {
	if len(stops) == 0 {
		return ColorGradient{}, false
	}
	sorted := make([]ColorStop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })
	return ColorGradient{Stops: sorted}, true
}

// Solid builds a single-stop gradient of one constant color.
func Solid(c Color) ColorGradient {
	return ColorGradient{Stops: []ColorStop{{Position: 0, Color: c}}}
}

// Eval samples the gradient at position t, clamped to [0,1].
func (g ColorGradient) Eval(t float64) Color {
	if len(g.Stops) == 0 {
		return Black
	}
	if t <= g.Stops[0].Position {
		return g.Stops[0].Color
	}
	last := g.Stops[len(g.Stops)-1]
	if t >= last.Position {
		return last.Color
	}
	for i := 1; i < len(g.Stops); i++ {
		prev, cur := g.Stops[i-1], g.Stops[i]
		if t <= cur.Position {
			span := cur.Position - prev.Position
			if span <= 0 {
				return cur.Color
			}
			local := (t - prev.Position) / span
			return Lerp(prev.Color, cur.Color, local)
		}
	}
	return last.Color
}

// CurvePoint is one control point of a Curve.
type CurvePoint struct {
	X, Y float64
}

// Curve is an ordered list of (x,y) points; evaluation linearly
// interpolates and clamps to the endpoint values outside the domain.
type Curve struct {
	Points []CurvePoint
}

// NewCurve validates and sorts points by X. Requires at least two points.
func NewCurve(points []CurvePoint) (Curve, bool) {
	if len(points) < 2 {
		return Curve{}, false
	}
	sorted := make([]CurvePoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })
	return Curve{Points: sorted}, true
}

// Constant builds a flat two-point curve at value v.
func Constant(v float64) Curve {
	return Curve{Points: []CurvePoint{{X: 0, Y: v}, {X: 1, Y: v}}}
}

// Eval samples the curve at x, clamping outside the domain.
func (c Curve) Eval(x float64) float64 {
	if len(c.Points) == 0 {
		return 0
	}
	if x <= c.Points[0].X {
		return c.Points[0].Y
	}
	last := c.Points[len(c.Points)-1]
	if x >= last.X {
		return last.Y
	}
	for i := 1; i < len(c.Points); i++ {
		prev, cur := c.Points[i-1], c.Points[i]
		if x <= cur.X {
			span := cur.X - prev.X
			if span <= 0 {
				return cur.Y
			}
			local := (x - prev.X) / span
			return prev.Y + (cur.Y-prev.Y)*local
		}
	}
	return last.Y
}

// MotionPath is a 2-D trajectory evaluated at absolute time.
type MotionPath struct {
	Points []Vec2Point
}

// Vec2Point is one control point of a MotionPath, keyed by time.
type Vec2Point struct {
	T    float64
	X, Y float64
}

// Eval returns the interpolated (x,y) position at absolute time t.
func (p MotionPath) Eval(t float64) (x, y float64) {
	if len(p.Points) == 0 {
		return 0, 0
	}
	if t <= p.Points[0].T {
		return p.Points[0].X, p.Points[0].Y
	}
	last := p.Points[len(p.Points)-1]
	if t >= last.T {
		return last.X, last.Y
	}
	for i := 1; i < len(p.Points); i++ {
		prev, cur := p.Points[i-1], p.Points[i]
		if t <= cur.T {
			span := cur.T - prev.T
			if span <= 0 {
				return cur.X, cur.Y
			}
			local := (t - prev.T) / span
			return prev.X + (cur.X-prev.X)*local, prev.Y + (cur.Y-prev.Y)*local
		}
	}
	return last.X, last.Y
}
