package dsl

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibelights/internal/config"
)

func typecheck(t *testing.T, source string) (*Script, error) {
	t.Helper()
	toks, err := NewLexer(source).Tokenize()
	require.NoError(t, err)
	script, err := NewParser(toks).Parse()
	require.NoError(t, err)
	return NewTypeChecker().Check(script)
}

func TestCheckUndefinedIdentifierReportsDiagnostic(t *testing.T) {
	_, err := typecheck(t, `mysteryVar;`)
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Equal(t, CategoryTypeError, diagErr.Diagnostics[0].Category)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "mysteryVar")
}

func TestCheckContextVarsAreResolvable(t *testing.T) {
	_, err := typecheck(t, `t + x + y + index + pixelCount;`)
	assert.NoError(t, err)
}

func TestCheckUndefinedFunctionReportsDiagnostic(t *testing.T) {
	_, err := typecheck(t, `notARealFunction(1);`)
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "notARealFunction")
}

func TestCheckBuiltinFunctionCallIsAccepted(t *testing.T) {
	_, err := typecheck(t, `sin(t) * 0.5 + 0.5;`)
	assert.NoError(t, err)
}

func TestDesugarSwitchStmtBecomesIfElseChain(t *testing.T) {
	script, err := typecheck(t, `switch t { case 0 { x; } default { y; } } x; y;`)
	require.NoError(t, err)
	ifStmt, ok := script.Body[0].(*IfStmt)
	require.True(t, ok)
	cond, ok := ifStmt.Condition.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpEq, cond.Op)
}

func TestDesugarSwitchStmtWithoutDefaultReportsDiagnostic(t *testing.T) {
	_, err := typecheck(t, `switch t { case 0 { x; } } x;`)
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "no default arm")
}

func TestDesugarSwitchExprBecomesTernaryChain(t *testing.T) {
	script, err := typecheck(t, `switch t { case 0 => 1.0, default => 0.0, };`)
	require.NoError(t, err)
	exprStmt := script.Body[0].(*ExprStmt)
	ternary, ok := exprStmt.Expr.(*TernaryExpr)
	require.True(t, ok)
	assert.NotNil(t, ternary.Cond)
}

func TestInlineSimpleFunctionCall(t *testing.T) {
	script, err := typecheck(t, `fn double(v) { return v * 2; } double(t);`)
	require.NoError(t, err)
	exprStmt := script.Body[0].(*ExprStmt)
	bin, ok := exprStmt.Expr.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, OpMul, bin.Op)
	ident, ok := bin.Left.(*IdentExpr)
	require.True(t, ok)
	assert.Equal(t, "t", ident.Name)
}

func TestInlineFunctionWithIfElseBranches(t *testing.T) {
	script, err := typecheck(t, `
fn pick(v) {
  if v > 0 {
    return 1.0;
  } else {
    return -1.0;
  }
}
pick(t);
`)
	require.NoError(t, err)
	exprStmt := script.Body[0].(*ExprStmt)
	_, ok := exprStmt.Expr.(*TernaryExpr)
	assert.True(t, ok)
}

func TestInlineFunctionNotReturningOnEveryPathFails(t *testing.T) {
	_, err := typecheck(t, `
fn broken(v) {
  if v > 0 {
    return 1.0;
  }
}
broken(t);
`)
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "does not return on every path")
}

func TestInlineWrongArgCountFails(t *testing.T) {
	_, err := typecheck(t, `fn two(a, b) { return a + b; } two(1);`)
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "expects 2 arguments")
}

func TestInlineExceedsMaxDepthFails(t *testing.T) {
	maxDepth := config.Default().MaxInlineDepth

	var src strings.Builder
	src.WriteString("fn f0(v) { return v; }\n")
	for i := 1; i <= maxDepth+1; i++ {
		src.WriteString("fn f" + strconv.Itoa(i) + "(v) { return f" + strconv.Itoa(i-1) + "(v); }\n")
	}
	src.WriteString("f" + strconv.Itoa(maxDepth+1) + "(t);")

	_, err := typecheck(t, src.String())
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	found := false
	for _, d := range diagErr.Diagnostics {
		if strings.Contains(d.Message, "exceeds maximum depth") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestNewTypeCheckerWithConfigHonorsCustomInlineDepth(t *testing.T) {
	src := "fn f0(v) { return v; }\nfn f1(v) { return f0(v); }\nf1(t);"

	toks, err := NewLexer(src).Tokenize()
	require.NoError(t, err)
	script, err := NewParser(toks).Parse()
	require.NoError(t, err)

	cfg := config.Default()
	cfg.MaxInlineDepth = 1
	_, err = NewTypeCheckerWithConfig(cfg).Check(script)
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "exceeds maximum depth 1")
}

func TestDuplicateFunctionDeclarationFails(t *testing.T) {
	_, err := typecheck(t, `fn f(v) { return v; } fn f(v) { return v; } f(t);`)
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "duplicate function declaration")
}
