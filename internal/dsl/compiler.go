package dsl

import (
	"fmt"
	"math"
)

// OpCode is the bytecode instruction set for the per-pixel stack VM. Its
// constants are prefixed Code* (rather than Op*) because the parser's
// BinOp/UnaryOp constants already occupy the Op* namespace in this
// package.
type OpCode int

const (
	CodePushConst OpCode = iota
	CodePushParam
	CodeLoadLocal
	CodeStoreLocal
	CodePop

	CodeAdd
	CodeSub
	CodeMul
	CodeDiv
	CodeMod
	CodeNeg

	CodeLt
	CodeGt
	CodeLe
	CodeGe
	CodeEq
	CodeNe

	CodeAnd
	CodeOr
	CodeNot

	// Bitwise/shift opcodes operate by truncating float operands to int64.
	// The original VM has no runtime bitwise ops (only its constant
	// folder evaluates them); this DSL's |, ^, &, << and >> operators
	// work on non-constant operands too, so dedicated opcodes are added
	// here.
	CodeBitAnd
	CodeBitOr
	CodeBitXor
	CodeShl
	CodeShr

	CodeSin
	CodeCos
	CodeTan
	CodeAbs
	CodeFloor
	CodeCeil
	CodeRound
	CodeFract
	CodeSqrt
	CodeSign
	CodeExp
	CodeLog

	CodePow
	CodeMin
	CodeMax
	CodeStep
	CodeAtan2

	CodeClamp
	CodeMix
	CodeSmoothstep

	CodeRgb
	CodeHsv
	CodeRgba
	CodeColorScale
	CodeColorR
	CodeColorG
	CodeColorB
	CodeColorA

	CodeMakeVec2
	CodeVec2X
	CodeVec2Y
	CodeDistance
	CodeLength

	CodeEvalGradient // operand: param index
	CodeEvalCurve    // operand: param index
	CodeLoadColor    // operand: param index
	CodeEvalPathAtT  // operand: param index

	CodeHash
	CodeHash3
	CodeRandom
	CodeRandomRange

	CodeEaseIn
	CodeEaseOut
	CodeEaseInOut
	CodeEaseInCubic
	CodeEaseOutCubic
	CodeEaseInOutCubic

	CodeNoise1
	CodeNoise2
	CodeNoise3
	CodeFbm
	CodeWorley2

	CodeEnumEq   // operand: variant index
	CodeFlagTest // operand: bitmask

	CodeJumpIfFalse // operand: target instruction index
	CodeJump        // operand: target instruction index

	CodeIntToFloat

	CodePushT
	CodePushPixel
	CodePushPixels
	CodePushPos
	CodePushPos2d

	CodeReturn
)

// Op is one bytecode instruction. Operand holds a constant-pool index,
// param index, local slot, jump target, enum/flag index, or bitmask
// depending on Code; it is unused for zero-operand instructions.
type Op struct {
	Code    OpCode
	Operand uint32
}

// CompiledParam is a compiled script's parameter metadata.
type CompiledParam struct {
	Name string
	Type ValueType
}

// CompiledScript is a fully compiled, optimized effect script ready for
// VM execution.
type CompiledScript struct {
	Name       string
	Ops        []Op
	Constants  []float64
	Params     []CompiledParam
	LocalCount int
}

// compiler emits bytecode for a single script body.
type compiler struct {
	ops        []Op
	constants  []float64
	params     []CompiledParam
	paramIndex map[string]int
	locals     map[string]int
	diags      []Diagnostic
}

// compile lowers a type-checked, desugared Script into bytecode. It must
// run after TypeChecker.Check. The public entry point is Compile in
// service.go, which drives the full lex/parse/typecheck/compile/optimize
// pipeline from source text.
func compile(name string, script *Script) (*CompiledScript, error) {
	c := &compiler{
		paramIndex: make(map[string]int),
		locals:     make(map[string]int),
	}
	for _, p := range script.Params {
		c.paramIndex[p.Name] = len(c.params)
		c.params = append(c.params, CompiledParam{Name: p.Name, Type: typeOfSpec(p.Type)})
	}

	for _, stmt := range script.Body {
		c.compileStmt(stmt)
	}
	c.emit(CodeReturn, 0)

	if HasErrors(c.diags) {
		return nil, &DiagnosticsError{Diagnostics: c.diags}
	}

	return &CompiledScript{
		Name:       name,
		Ops:        c.ops,
		Constants:  c.constants,
		Params:     c.params,
		LocalCount: len(c.locals),
	}, nil
}

func (c *compiler) compileStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *LetStmt:
		c.compileExpr(s.Value)
		slot, ok := c.locals[s.Name]
		if !ok {
			slot = len(c.locals)
			c.locals[s.Name] = slot
		}
		c.emit(CodeStoreLocal, uint32(slot))
	case *IfStmt:
		c.compileExpr(s.Condition)
		jumpToElse := c.emitPlaceholder(CodeJumpIfFalse)
		for _, st := range s.Then {
			c.compileStmt(st)
		}
		jumpToEnd := c.emitPlaceholder(CodeJump)
		c.patch(jumpToElse, len(c.ops))

		if len(s.ElseIfs) > 0 {
			c.compileStmt(&IfStmt{
				Position:  s.ElseIfs[0].Position,
				Condition: s.ElseIfs[0].Condition,
				Then:      s.ElseIfs[0].Body,
				ElseIfs:   s.ElseIfs[1:],
				Else:      s.Else,
			})
		} else {
			for _, st := range s.Else {
				c.compileStmt(st)
			}
		}
		c.patch(jumpToEnd, len(c.ops))
	case *ReturnStmt:
		if s.Value != nil {
			c.compileExpr(s.Value)
		}
		c.emit(CodeReturn, 0)
	case *ExprStmt:
		c.compileExpr(s.Expr)
	default:
		c.errorf(Position{}, "internal: unhandled statement type %T", stmt)
	}
}

func (c *compiler) compileExpr(expr Expr) {
	switch e := expr.(type) {
	case *NumberExpr:
		c.emitConst(e.Value)
	case *BoolExpr:
		if e.Value {
			c.emitConst(1.0)
		} else {
			c.emitConst(0.0)
		}
	case *HexColorExpr:
		c.emitConst(float64(e.R) / 255.0)
		c.emitConst(float64(e.G) / 255.0)
		c.emitConst(float64(e.B) / 255.0)
		c.emit(CodeRgb, 0)
	case *IdentExpr:
		c.compileIdent(e)
	case *UnaryExpr:
		c.compileExpr(e.Operand)
		switch e.Op {
		case OpNeg:
			c.emit(CodeNeg, 0)
		case OpNot:
			c.emit(CodeNot, 0)
		}
	case *BinaryExpr:
		c.compileExpr(e.Left)
		c.compileExpr(e.Right)
		c.emit(binOpcode(e.Op), 0)
	case *TernaryExpr:
		c.compileExpr(e.Cond)
		jumpToElse := c.emitPlaceholder(CodeJumpIfFalse)
		c.compileExpr(e.Then)
		jumpToEnd := c.emitPlaceholder(CodeJump)
		c.patch(jumpToElse, len(c.ops))
		c.compileExpr(e.Else)
		c.patch(jumpToEnd, len(c.ops))
	case *MemberExpr:
		c.compileExpr(e.Object)
		switch e.Member {
		case "r":
			c.emit(CodeColorR, 0)
		case "g":
			c.emit(CodeColorG, 0)
		case "b":
			c.emit(CodeColorB, 0)
		case "a":
			c.emit(CodeColorA, 0)
		case "x":
			c.emit(CodeVec2X, 0)
		case "y":
			c.emit(CodeVec2Y, 0)
		default:
			c.errorf(e.Position, "unknown member %q", e.Member)
		}
	case *CallExpr:
		c.compileCall(e)
	default:
		c.errorf(Position{}, "internal: unhandled expression type %T", expr)
	}
}

func (c *compiler) compileIdent(e *IdentExpr) {
	switch e.Name {
	case "t":
		c.emit(CodePushT, 0)
		return
	case "index":
		c.emit(CodePushPixel, 0)
		return
	case "pixelCount":
		c.emit(CodePushPixels, 0)
		return
	case "x":
		c.emit(CodePushPos2d, 0)
		c.emit(CodeVec2X, 0)
		return
	case "y":
		c.emit(CodePushPos2d, 0)
		c.emit(CodeVec2Y, 0)
		return
	}
	if slot, ok := c.locals[e.Name]; ok {
		c.emit(CodeLoadLocal, uint32(slot))
		return
	}
	if idx, ok := c.paramIndex[e.Name]; ok {
		paramType := c.params[idx].Type
		if paramType == TypeColor {
			c.emit(CodeLoadColor, uint32(idx))
		} else {
			c.emit(CodePushParam, uint32(idx))
		}
		return
	}
	c.errorf(e.Position, "internal: unresolved identifier %q reached compiler", e.Name)
}

func (c *compiler) compileCall(e *CallExpr) {
	for _, a := range e.Args {
		c.compileExpr(a)
	}
	switch e.Name {
	case "sin":
		c.emit(CodeSin, 0)
	case "cos":
		c.emit(CodeCos, 0)
	case "tan":
		c.emit(CodeTan, 0)
	case "abs":
		c.emit(CodeAbs, 0)
	case "floor":
		c.emit(CodeFloor, 0)
	case "ceil":
		c.emit(CodeCeil, 0)
	case "round":
		c.emit(CodeRound, 0)
	case "fract":
		c.emit(CodeFract, 0)
	case "sqrt":
		c.emit(CodeSqrt, 0)
	case "sign":
		c.emit(CodeSign, 0)
	case "exp":
		c.emit(CodeExp, 0)
	case "log":
		c.emit(CodeLog, 0)
	case "pow":
		c.emit(CodePow, 0)
	case "min":
		c.emit(CodeMin, 0)
	case "max":
		c.emit(CodeMax, 0)
	case "mod":
		c.emit(CodeMod, 0)
	case "clamp":
		c.emit(CodeClamp, 0)
	case "lerp", "mix":
		c.emit(CodeMix, 0)
	case "smoothstep":
		c.emit(CodeSmoothstep, 0)
	case "hash", "hash2":
		c.emit(CodeHash, 0)
	case "hash3":
		c.emit(CodeHash3, 0)
	case "noise1d":
		c.emit(CodeNoise1, 0)
	case "noise2d":
		c.emit(CodeNoise2, 0)
	case "noise3d":
		c.emit(CodeNoise3, 0)
	case "fbm2d":
		c.emitConst(4.0)
		c.emit(CodeFbm, 0)
	case "fbm3d":
		c.emit(CodeFbm, 0)
	case "worley2d":
		c.emit(CodeWorley2, 0)
	case "easeInQuad":
		c.emit(CodeEaseIn, 0)
	case "easeOutQuad":
		c.emit(CodeEaseOut, 0)
	case "easeInOutQuad":
		c.emit(CodeEaseInOut, 0)
	case "easeInCubic":
		c.emit(CodeEaseInCubic, 0)
	case "easeOutCubic":
		c.emit(CodeEaseOutCubic, 0)
	case "easeInOutCubic":
		c.emit(CodeEaseInOutCubic, 0)
	case "rgb":
		c.emit(CodeRgb, 0)
	case "hsv":
		c.emit(CodeHsv, 0)
	case "vec2":
		c.emit(CodeMakeVec2, 0)
	case "evalGradient":
		c.emit(CodeEvalGradient, 0)
	case "evalCurve":
		c.emit(CodeEvalCurve, 0)
	case "evalPath":
		c.emit(CodeEvalPathAtT, 0)
	default:
		c.errorf(e.Position, "internal: unresolved builtin %q reached compiler", e.Name)
	}
}

// binOpcode maps a parsed BinOp to its VM opcode.
func binOpcode(op BinOp) OpCode {
	switch op {
	case OpOr:
		return CodeOr
	case OpAnd:
		return CodeAnd
	case OpBitOr:
		return CodeBitOr
	case OpBitXor:
		return CodeBitXor
	case OpBitAnd:
		return CodeBitAnd
	case OpShl:
		return CodeShl
	case OpShr:
		return CodeShr
	case OpEq:
		return CodeEq
	case OpNe:
		return CodeNe
	case OpLt:
		return CodeLt
	case OpLe:
		return CodeLe
	case OpGt:
		return CodeGt
	case OpGe:
		return CodeGe
	case OpAdd:
		return CodeAdd
	case OpSub:
		return CodeSub
	case OpMul:
		return CodeMul
	case OpDiv:
		return CodeDiv
	case OpMod:
		return CodeMod
	case OpPow:
		return CodePow
	default:
		return CodeAdd
	}
}

func (c *compiler) emit(code OpCode, operand uint32) {
	c.ops = append(c.ops, Op{Code: code, Operand: operand})
}

func (c *compiler) emitPlaceholder(code OpCode) int {
	idx := len(c.ops)
	c.ops = append(c.ops, Op{Code: code})
	return idx
}

func (c *compiler) patch(idx, target int) {
	c.ops[idx].Operand = uint32(target)
}

// emitConst pushes a constant, deduplicating by exact IEEE-754 bit
// pattern so structurally identical literals share a pool slot.
func (c *compiler) emitConst(v float64) {
	bits := math.Float64bits(v)
	for i, existing := range c.constants {
		if math.Float64bits(existing) == bits {
			c.emit(CodePushConst, uint32(i))
			return
		}
	}
	idx := len(c.constants)
	c.constants = append(c.constants, v)
	c.emit(CodePushConst, uint32(idx))
}

func (c *compiler) errorf(pos Position, format string, args ...interface{}) {
	c.diags = append(c.diags, Diagnostic{
		Category: CategoryInternal,
		Message:  fmt.Sprintf(format, args...),
		Line:     pos.Line,
		Column:   pos.Column,
		Severity: SeverityError,
		Stage:    StageCompiler,
	})
}
