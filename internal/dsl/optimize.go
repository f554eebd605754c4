package dsl

import "math"

// Optimize runs peephole passes over compiled bytecode until a fixed point,
// folding constant arithmetic and removing identity operations. Grounded on
// the original compiler's optimize pass.
func Optimize(script *CompiledScript) {
	for {
		before := script.Ops
		changed := peepholePass(script)
		if !changed {
			break
		}
		fixupJumps(script, before)
	}
}

// peepholePass scans for one round of local patterns and builds a new op
// slice with each matched span replaced by its rewrite, then stores it in
// script.Ops. It returns whether anything changed.
func peepholePass(script *CompiledScript) bool {
	ops := script.Ops
	changed := false

	out := make([]Op, 0, len(ops))
	i := 0
	for i < len(ops) {
		// PushConst(a), PushConst(b), binop -> PushConst(fold)
		if i+2 < len(ops) &&
			ops[i].Code == CodePushConst && ops[i+1].Code == CodePushConst &&
			isFoldableBinOp(ops[i+2].Code) {
			a := script.Constants[ops[i].Operand]
			b := script.Constants[ops[i+1].Operand]
			if folded, ok := tryFoldOp(ops[i+2].Code, a, b); ok {
				out = append(out, Op{Code: CodePushConst, Operand: addOrReuseConstant(script, folded)})
				i += 3
				changed = true
				continue
			}
		}

		// PushConst(0), Add/Sub -> remove (additive identity)
		if i+1 < len(ops) && ops[i].Code == CodePushConst &&
			script.Constants[ops[i].Operand] == 0 &&
			(ops[i+1].Code == CodeAdd || ops[i+1].Code == CodeSub) {
			i += 2
			changed = true
			continue
		}

		// PushConst(1), Mul/Div -> remove (multiplicative identity)
		if i+1 < len(ops) && ops[i].Code == CodePushConst &&
			script.Constants[ops[i].Operand] == 1 &&
			(ops[i+1].Code == CodeMul || ops[i+1].Code == CodeDiv) {
			i += 2
			changed = true
			continue
		}

		// PushConst(0), Mul -> Pop, PushConst(0) (absorption)
		if i+1 < len(ops) && ops[i].Code == CodePushConst &&
			script.Constants[ops[i].Operand] == 0 &&
			ops[i+1].Code == CodeMul {
			out = append(out, Op{Code: CodePop}, Op{Code: CodePushConst, Operand: addOrReuseConstant(script, 0)})
			i += 2
			changed = true
			continue
		}

		// Not, Not -> remove
		if i+1 < len(ops) && ops[i].Code == CodeNot && ops[i+1].Code == CodeNot {
			i += 2
			changed = true
			continue
		}

		// Neg, Neg -> remove
		if i+1 < len(ops) && ops[i].Code == CodeNeg && ops[i+1].Code == CodeNeg {
			i += 2
			changed = true
			continue
		}

		out = append(out, ops[i])
		i++
	}

	script.Ops = out
	return changed
}

func isFoldableBinOp(c OpCode) bool {
	switch c {
	case CodeAdd, CodeSub, CodeMul, CodeDiv, CodeMod, CodePow,
		CodeLt, CodeGt, CodeLe, CodeGe, CodeMin, CodeMax,
		CodeBitAnd, CodeBitOr, CodeBitXor:
		return true
	default:
		return false
	}
}

func tryFoldOp(c OpCode, a, b float64) (float64, bool) {
	switch c {
	case CodeAdd:
		return a + b, true
	case CodeSub:
		return a - b, true
	case CodeMul:
		return a * b, true
	case CodeDiv:
		if b == 0 {
			return 0, true
		}
		return a / b, true
	case CodeMod:
		if b == 0 {
			return 0, true
		}
		return math.Mod(a, b), true
	case CodePow:
		return math.Pow(a, b), true
	case CodeLt:
		return boolF(a < b), true
	case CodeGt:
		return boolF(a > b), true
	case CodeLe:
		return boolF(a <= b), true
	case CodeGe:
		return boolF(a >= b), true
	case CodeMin:
		return math.Min(a, b), true
	case CodeMax:
		return math.Max(a, b), true
	case CodeBitAnd:
		return float64(int64(a) & int64(b)), true
	case CodeBitOr:
		return float64(int64(a) | int64(b)), true
	case CodeBitXor:
		return float64(int64(a) ^ int64(b)), true
	default:
		return 0, false
	}
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func addOrReuseConstant(script *CompiledScript, v float64) uint32 {
	bits := math.Float64bits(v)
	for i, existing := range script.Constants {
		if math.Float64bits(existing) == bits {
			return uint32(i)
		}
	}
	idx := len(script.Constants)
	script.Constants = append(script.Constants, v)
	return uint32(idx)
}

// fixupJumps rewrites Jump/JumpIfFalse targets after peepholePass has
// removed or folded spans of ops. It replays the same patterns over the
// op list as it was before that pass (original) to build an
// old-index -> new-index table; a target inside a rewritten span maps to
// the first op of its rewrite.
func fixupJumps(script *CompiledScript, original []Op) {
	oldToNew := make([]int, len(original)+1)
	newIdx := 0
	i := 0
	for i < len(original) {
		length, newCount := patternLength(script.Constants, original, i)
		for k := 0; k < length; k++ {
			oldToNew[i+k] = newIdx
		}
		newIdx += newCount
		i += length
	}
	oldToNew[len(original)] = newIdx

	for idx := range script.Ops {
		op := &script.Ops[idx]
		if op.Code == CodeJump || op.Code == CodeJumpIfFalse {
			target := int(op.Operand)
			if target >= 0 && target < len(oldToNew) {
				op.Operand = uint32(oldToNew[target])
			}
		}
	}
}

// patternLength reports how many ops at position i make up one replay
// unit, and how many ops that unit maps to in the optimized stream. It
// checks the patterns in the same order as peepholePass.
func patternLength(constants []float64, ops []Op, i int) (length, newCount int) {
	if i+2 < len(ops) && ops[i].Code == CodePushConst && ops[i+1].Code == CodePushConst && isFoldableBinOp(ops[i+2].Code) {
		return 3, 1
	}
	if i+1 < len(ops) && ops[i].Code == CodePushConst {
		v, next := constants[ops[i].Operand], ops[i+1].Code
		if (v == 0 && (next == CodeAdd || next == CodeSub)) || (v == 1 && (next == CodeMul || next == CodeDiv)) {
			return 2, 0
		}
		if v == 0 && next == CodeMul {
			return 2, 2
		}
	}
	if i+1 < len(ops) && ops[i].Code == CodeNot && ops[i+1].Code == CodeNot {
		return 2, 0
	}
	if i+1 < len(ops) && ops[i].Code == CodeNeg && ops[i+1].Code == CodeNeg {
		return 2, 0
	}
	return 1, 1
}
