package dsl

import "fmt"

// Severity is how serious a diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Stage names which pipeline stage produced a diagnostic.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageTypeck   Stage = "typeck"
	StageCompiler Stage = "compiler"
)

// Category is a coarse classification of the diagnostic's cause.
type Category string

const (
	CategoryLexError     Category = "LexError"
	CategorySyntaxError  Category = "SyntaxError"
	CategorySymbolError  Category = "SymbolError"
	CategoryTypeError    Category = "TypeError"
	CategoryOverflow     Category = "OverflowError"
	CategoryInternal     Category = "InternalCompilerError"
)

// Diagnostic is a single compiler message with a line/column span; it
// carries no byte offsets.
type Diagnostic struct {
	Category  Category
	Code      string
	Message   string
	Line      int
	Column    int
	EndLine   int
	EndColumn int
	Severity  Severity
	Stage     Stage
	Notes     []string
}

func (d Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("line %d:%d: %s", d.Line, d.Column, d.Message)
	}
	return d.Message
}

// DiagnosticsError aggregates the diagnostics of the pipeline stage that
// failed a compile attempt. The lexer and the type checker report every
// error they find; the parser stops at its first syntax error and reports
// only that one.
type DiagnosticsError struct {
	Diagnostics []Diagnostic
}

func (e *DiagnosticsError) Error() string {
	if e == nil || len(e.Diagnostics) == 0 {
		return ""
	}
	return e.Diagnostics[0].Error()
}

// HasErrors reports whether any diagnostic in the slice is error-severity.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}
