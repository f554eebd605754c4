package dsl

import (
	"math"

	"vibelights/internal/config"
	"vibelights/internal/model"
)

// valueKind tags a VM stack Value.
type valueKind int

const (
	kindFloat valueKind = iota
	kindColor
	kindVec2
)

// Value is the VM's tagged runtime value. Only one of the fields is
// meaningful, selected by Kind.
type Value struct {
	Kind       valueKind
	Float      float64
	R, G, B, A float64
	X, Y       float64
}

func floatVal(f float64) Value { return Value{Kind: kindFloat, Float: f} }
func colorVal(r, g, b, a float64) Value {
	return Value{Kind: kindColor, R: r, G: g, B: b, A: a}
}
func vec2Val(x, y float64) Value { return Value{Kind: kindVec2, X: x, Y: y} }

func (v Value) asFloat() float64 {
	if v.Kind == kindFloat {
		return v.Float
	}
	return 0
}

// GradientSampler evaluates a named gradient parameter at position t in
// [0, 1], returning an RGBA color.
type GradientSampler func(paramIndex int, t float64) (r, g, b, a float64)

// CurveSampler evaluates a named curve parameter at position t in [0, 1].
type CurveSampler func(paramIndex int, t float64) float64

// PathSampler evaluates a named path parameter at position t in [0, 1],
// returning a 2D position.
type PathSampler func(paramIndex int, t float64) (x, y float64)

// RandomSource supplies deterministic or seeded randomness to Random /
// RandomRange opcodes. The VM never reaches for math/rand directly so
// callers can substitute a seeded PRNG for reproducible previews.
type RandomSource func() float64

// Context carries the per-evaluation inputs a compiled script's special
// identifiers (t, index, pixelCount, x, y) resolve to, plus the sampler
// callbacks for gradient/curve/path-typed parameters and colors.
type Context struct {
	T          float64
	Pixel      float64
	PixelCount float64
	Pos2D      Value // kindVec2

	Params []Value // indexed like CompiledScript.Params; color params carry kindColor

	Gradient GradientSampler
	Curve    CurveSampler
	Path     PathSampler
	Random   RandomSource
}

// Buffers holds reusable scratch storage so repeated Execute calls for
// consecutive pixels in a frame allocate nothing on the hot path.
type Buffers struct {
	stack    []Value
	locals   []Value
	maxStack int
}

// NewBuffers allocates a Buffers sized for a compiled script, with the
// stack bounded to config.Default().MaxStackDepth.
func NewBuffers(script *CompiledScript) *Buffers {
	return NewBuffersWithLimit(script, config.Default().MaxStackDepth)
}

// NewBuffersWithLimit allocates a Buffers sized for a compiled script
// whose stack is bounded to maxStack values, matching
// config.Config.MaxStackDepth for callers running a non-default config.
func NewBuffersWithLimit(script *CompiledScript, maxStack int) *Buffers {
	return &Buffers{
		stack:    make([]Value, 0, 32),
		locals:   make([]Value, script.LocalCount),
		maxStack: maxStack,
	}
}

// vmError is a runtime fault (stack underflow, unknown opcode) raised
// during Execute; it is recovered and surfaced as a regular error. An
// out-of-range parameter index pushes 0; other out-of-range operands in
// hand-built bytecode (constant or local indices) are not recovered.
type vmError struct{ msg string }

func (e *vmError) Error() string { return e.msg }

// stackOverflowSignal is panicked by push once the VM stack would grow
// past its bound. Unlike vmError it is recovered into an opaque black
// result rather than an error: a runaway script degrades visually
// instead of faulting the render loop.
type stackOverflowSignal struct{}

// Execute runs a compiled script to completion against ctx, returning the
// final value left on the stack (the script's result, typically a color).
// It allocates its own scratch buffers; callers evaluating many pixels per
// frame should use ExecuteReuse instead.
func Execute(script *CompiledScript, ctx *Context) (v Value, err error) {
	return ExecuteReuse(script, ctx, NewBuffers(script))
}

// ExecuteReuse runs script against ctx using caller-owned scratch buffers,
// avoiding per-pixel allocation.
func ExecuteReuse(script *CompiledScript, ctx *Context, buf *Buffers) (result Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(stackOverflowSignal); ok {
				result, err = colorVal(0, 0, 0, 1), nil
				return
			}
			if ve, ok := r.(*vmError); ok {
				err = ve
				return
			}
			panic(r)
		}
	}()

	buf.stack = buf.stack[:0]
	for i := range buf.locals {
		buf.locals[i] = Value{}
	}

	maxStack := buf.maxStack
	if maxStack <= 0 {
		maxStack = config.Default().MaxStackDepth
	}

	push := func(v Value) {
		if len(buf.stack) >= maxStack {
			panic(stackOverflowSignal{})
		}
		buf.stack = append(buf.stack, v)
	}
	pop := func() Value {
		n := len(buf.stack)
		if n == 0 {
			panic(&vmError{"stack underflow"})
		}
		v := buf.stack[n-1]
		buf.stack = buf.stack[:n-1]
		return v
	}
	popFloat := func() float64 { return pop().asFloat() }

	pc := 0
	for pc < len(script.Ops) {
		op := script.Ops[pc]
		pc++

		switch op.Code {
		case CodePushConst:
			push(floatVal(script.Constants[op.Operand]))
		case CodePushParam, CodeLoadColor:
			if int(op.Operand) >= len(ctx.Params) {
				push(floatVal(0))
			} else {
				push(ctx.Params[op.Operand])
			}
		case CodeLoadLocal:
			push(buf.locals[op.Operand])
		case CodeStoreLocal:
			buf.locals[op.Operand] = pop()
		case CodePop:
			pop()

		case CodeAdd:
			b, a := popFloat(), popFloat()
			push(floatVal(a + b))
		case CodeSub:
			b, a := popFloat(), popFloat()
			push(floatVal(a - b))
		case CodeMul:
			b, a := popFloat(), popFloat()
			push(floatVal(a * b))
		case CodeDiv:
			b, a := popFloat(), popFloat()
			if b == 0 {
				push(floatVal(0))
			} else {
				push(floatVal(a / b))
			}
		case CodeMod:
			b, a := popFloat(), popFloat()
			if b == 0 {
				push(floatVal(0))
			} else {
				push(floatVal(math.Mod(a, b)))
			}
		case CodeNeg:
			push(floatVal(-popFloat()))

		case CodeLt:
			b, a := popFloat(), popFloat()
			push(boolVal(a < b))
		case CodeGt:
			b, a := popFloat(), popFloat()
			push(boolVal(a > b))
		case CodeLe:
			b, a := popFloat(), popFloat()
			push(boolVal(a <= b))
		case CodeGe:
			b, a := popFloat(), popFloat()
			push(boolVal(a >= b))
		case CodeEq:
			b, a := popFloat(), popFloat()
			push(boolVal(a == b))
		case CodeNe:
			b, a := popFloat(), popFloat()
			push(boolVal(a != b))

		case CodeAnd:
			b, a := popFloat(), popFloat()
			push(boolVal(a != 0 && b != 0))
		case CodeOr:
			b, a := popFloat(), popFloat()
			push(boolVal(a != 0 || b != 0))
		case CodeNot:
			push(boolVal(popFloat() == 0))

		case CodeBitAnd:
			b, a := popFloat(), popFloat()
			push(floatVal(float64(int64(a) & int64(b))))
		case CodeBitOr:
			b, a := popFloat(), popFloat()
			push(floatVal(float64(int64(a) | int64(b))))
		case CodeBitXor:
			b, a := popFloat(), popFloat()
			push(floatVal(float64(int64(a) ^ int64(b))))
		case CodeShl:
			b, a := popFloat(), popFloat()
			push(floatVal(float64(int64(a) << uint(int64(b)&63))))
		case CodeShr:
			b, a := popFloat(), popFloat()
			push(floatVal(float64(int64(a) >> uint(int64(b)&63))))

		case CodeSin:
			push(floatVal(math.Sin(popFloat())))
		case CodeCos:
			push(floatVal(math.Cos(popFloat())))
		case CodeTan:
			push(floatVal(math.Tan(popFloat())))
		case CodeAbs:
			push(floatVal(math.Abs(popFloat())))
		case CodeFloor:
			push(floatVal(math.Floor(popFloat())))
		case CodeCeil:
			push(floatVal(math.Ceil(popFloat())))
		case CodeRound:
			push(floatVal(math.Round(popFloat())))
		case CodeFract:
			push(floatVal(fractOf(popFloat())))
		case CodeSqrt:
			push(floatVal(math.Sqrt(popFloat())))
		case CodeSign:
			x := popFloat()
			switch {
			case x > 0:
				push(floatVal(1))
			case x < 0:
				push(floatVal(-1))
			default:
				push(floatVal(0))
			}
		case CodeExp:
			push(floatVal(math.Exp(popFloat())))
		case CodeLog:
			push(floatVal(math.Log(popFloat())))

		case CodePow:
			b, a := popFloat(), popFloat()
			push(floatVal(math.Pow(a, b)))
		case CodeMin:
			b, a := popFloat(), popFloat()
			push(floatVal(math.Min(a, b)))
		case CodeMax:
			b, a := popFloat(), popFloat()
			push(floatVal(math.Max(a, b)))
		case CodeStep:
			x, edge := popFloat(), popFloat()
			if x < edge {
				push(floatVal(0))
			} else {
				push(floatVal(1))
			}
		case CodeAtan2:
			x, y := popFloat(), popFloat()
			push(floatVal(math.Atan2(y, x)))

		case CodeClamp:
			hi, lo, x := popFloat(), popFloat(), popFloat()
			push(floatVal(clampF(x, lo, hi)))
		case CodeMix:
			t, b, a := popFloat(), popFloat(), popFloat()
			push(floatVal(a + t*(b-a)))
		case CodeSmoothstep:
			x, edge1, edge0 := popFloat(), popFloat(), popFloat()
			t := clampF((x-edge0)/(edge1-edge0), 0, 1)
			push(floatVal(t * t * (3 - 2*t)))

		case CodeRgb:
			b, g, r := popFloat(), popFloat(), popFloat()
			push(colorVal(quantizeColor(r, g, b, 1)))
		case CodeHsv:
			v, s, h := popFloat(), popFloat(), popFloat()
			r, g, b := hsvToRGB(h, s, v)
			push(colorVal(quantizeColor(r, g, b, 1)))
		case CodeRgba:
			a, b, g, r := popFloat(), popFloat(), popFloat(), popFloat()
			push(colorVal(quantizeColor(r, g, b, a)))
		case CodeColorScale:
			s := popFloat()
			c := pop()
			push(colorVal(quantizeColor(c.R*s, c.G*s, c.B*s, c.A)))
		case CodeColorR:
			push(floatVal(pop().R))
		case CodeColorG:
			push(floatVal(pop().G))
		case CodeColorB:
			push(floatVal(pop().B))
		case CodeColorA:
			push(floatVal(pop().A))

		case CodeMakeVec2:
			y, x := popFloat(), popFloat()
			push(vec2Val(x, y))
		case CodeVec2X:
			push(floatVal(pop().X))
		case CodeVec2Y:
			push(floatVal(pop().Y))
		case CodeDistance:
			b, a := pop(), pop()
			dx, dy := a.X-b.X, a.Y-b.Y
			push(floatVal(math.Sqrt(dx*dx + dy*dy)))
		case CodeLength:
			a := pop()
			push(floatVal(math.Sqrt(a.X*a.X + a.Y*a.Y)))

		case CodeEvalGradient:
			t := popFloat()
			r, g, b, a := ctx.Gradient(int(op.Operand), t)
			push(colorVal(r, g, b, a))
		case CodeEvalCurve:
			t := popFloat()
			push(floatVal(ctx.Curve(int(op.Operand), t)))
		case CodeEvalPathAtT:
			t := popFloat()
			x, y := ctx.Path(int(op.Operand), t)
			push(vec2Val(x, y))

		case CodeHash:
			b, a := popFloat(), popFloat()
			push(floatVal(hashF64(a, b)))
		case CodeHash3:
			c, b, a := popFloat(), popFloat(), popFloat()
			push(floatVal(hash3F64(a, b, c)))
		case CodeRandom:
			push(floatVal(ctx.Random()))
		case CodeRandomRange:
			hi, lo := popFloat(), popFloat()
			push(floatVal(lo + ctx.Random()*(hi-lo)))

		case CodeEaseIn:
			push(floatVal(easeIn(popFloat())))
		case CodeEaseOut:
			push(floatVal(easeOut(popFloat())))
		case CodeEaseInOut:
			push(floatVal(easeInOut(popFloat())))
		case CodeEaseInCubic:
			push(floatVal(easeInCubic(popFloat())))
		case CodeEaseOutCubic:
			push(floatVal(easeOutCubic(popFloat())))
		case CodeEaseInOutCubic:
			push(floatVal(easeInOutCubic(popFloat())))

		case CodeNoise1:
			push(floatVal(perlin1(popFloat())))
		case CodeNoise2:
			y, x := popFloat(), popFloat()
			push(floatVal(perlin2(x, y)))
		case CodeNoise3:
			z, y, x := popFloat(), popFloat(), popFloat()
			push(floatVal(perlin3(x, y, z)))
		case CodeFbm:
			octaves, y, x := popFloat(), popFloat(), popFloat()
			push(floatVal(fbm(x, y, uint32(octaves))))
		case CodeWorley2:
			y, x := popFloat(), popFloat()
			push(floatVal(worley2(x, y)))

		case CodeEnumEq:
			push(boolVal(uint32(popFloat()) == op.Operand))
		case CodeFlagTest:
			push(boolVal(uint32(popFloat())&op.Operand != 0))

		case CodeJumpIfFalse:
			if popFloat() == 0 {
				pc = int(op.Operand)
			}
		case CodeJump:
			pc = int(op.Operand)

		case CodeIntToFloat:
			// Values are already float64-backed; a no-op marker kept for
			// bytecode fidelity with the source IR.

		case CodePushT:
			push(floatVal(ctx.T))
		case CodePushPixel:
			push(floatVal(ctx.Pixel))
		case CodePushPixels:
			push(floatVal(ctx.PixelCount))
		case CodePushPos:
			push(ctx.Pos2D)
		case CodePushPos2d:
			push(ctx.Pos2D)

		case CodeReturn:
			if len(buf.stack) > 0 {
				return buf.stack[len(buf.stack)-1], nil
			}
			return Value{}, nil

		default:
			panic(&vmError{"unknown opcode"})
		}
	}

	if len(buf.stack) > 0 {
		return buf.stack[len(buf.stack)-1], nil
	}
	return Value{}, nil
}

func boolVal(b bool) Value {
	if b {
		return floatVal(1)
	}
	return floatVal(0)
}

// quantizeColor clamps r/g/b to [0,1] and rounds them to the nearest byte
// (via model.FromFloat) before they're stored back as floats, so every
// Value a color constructor opcode produces already reflects the actual
// [0,255] precision the VM's output is specified to have. Alpha clamps to
// [0,1] but is not byte-quantized; model.Color carries no alpha channel.
func quantizeColor(r, g, b, a float64) (qr, qg, qb, qa float64) {
	qr, qg, qb = model.FromFloat(r, g, b).Floats()
	qa = clampF(a, 0, 1)
	return
}

// Color converts a kindColor Value to an 8-bit-per-channel model.Color.
// Since color-constructor opcodes already quantize their channels, this
// is a plain byte conversion rather than a second rounding pass.
func (v Value) Color() model.Color {
	return model.FromFloat(v.R, v.G, v.B)
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// hsvToRGB converts hue (degrees, any range, wrapped), saturation and
// value (both 0-1) to RGB in 0-1.
func hsvToRGB(h, s, v float64) (r, g, b float64) {
	h = math.Mod(math.Mod(h, 360)+360, 360)
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r1, g1, b1 float64
	switch {
	case h < 60:
		r1, g1, b1 = c, x, 0
	case h < 120:
		r1, g1, b1 = x, c, 0
	case h < 180:
		r1, g1, b1 = 0, c, x
	case h < 240:
		r1, g1, b1 = 0, x, c
	case h < 300:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}
	return r1 + m, g1 + m, b1 + m
}
