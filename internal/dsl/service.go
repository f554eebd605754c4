package dsl

// Compile runs the full pipeline — lex, parse, type-check/desugar/inline,
// compile, optimize — over source text and returns bytecode ready for
// Execute/ExecuteReuse. The returned error is always a *DiagnosticsError
// when non-nil, carrying every diagnostic collected at the failing stage.
func Compile(name, source string) (*CompiledScript, error) {
	lexer := NewLexer(source)
	tokens, err := lexer.Tokenize()
	if err != nil {
		return nil, err
	}

	parser := NewParser(tokens)
	script, err := parser.Parse()
	if err != nil {
		return nil, err
	}

	tc := NewTypeChecker()
	script, err = tc.Check(script)
	if err != nil {
		return nil, err
	}

	compiled, err := compile(name, script)
	if err != nil {
		return nil, err
	}

	Optimize(compiled)
	return compiled, nil
}
