package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenTypes(toks []Token) []TokenType {
	out := make([]TokenType, len(toks))
	for i, t := range toks {
		out[i] = t.Type
	}
	return out
}

func TestTokenizeOperatorsAndDelimiters(t *testing.T) {
	toks, err := NewLexer(`a && b || !c == d != e <= f >= g << h >> i ** j`).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []TokenType{
		TokIdentifier, TokAndAnd, TokIdentifier, TokOrOr, TokBang, TokIdentifier,
		TokEqEq, TokIdentifier, TokNotEq, TokIdentifier, TokLtEq, TokIdentifier,
		TokGtEq, TokIdentifier, TokShl, TokIdentifier, TokShr, TokIdentifier,
		TokPow, TokIdentifier, TokEOF,
	}, tokenTypes(toks))
}

func TestTokenizeKeywordsNotConfusedWithIdentifiers(t *testing.T) {
	toks, err := NewLexer(`fn param let if else switch case default return enum flags true false x`).Tokenize()
	require.NoError(t, err)
	want := []TokenType{
		TokFn, TokParam, TokLet, TokIf, TokElse, TokSwitch, TokCase, TokDefault,
		TokReturn, TokEnum, TokFlags, TokTrue, TokFalse, TokIdentifier, TokEOF,
	}
	assert.Equal(t, want, tokenTypes(toks))
}

func TestTokenizeHexColor(t *testing.T) {
	toks, err := NewLexer(`#ff00aa`).Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, TokHexColor, toks[0].Type)
	assert.Equal(t, "ff00aa", toks[0].Literal)
}

func TestTokenizeInvalidHexColorReportsDiagnostic(t *testing.T) {
	_, err := NewLexer(`#zz00aa`).Tokenize()
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	require.Len(t, diagErr.Diagnostics, 1)
	assert.Equal(t, CategoryLexError, diagErr.Diagnostics[0].Category)
}

func TestTokenizeUnterminatedStringReportsDiagnostic(t *testing.T) {
	_, err := NewLexer(`"never closed`).Tokenize()
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "unterminated string")
}

func TestTokenizeStringLiteralStripsQuotes(t *testing.T) {
	toks, err := NewLexer(`"hello world"`).Tokenize()
	require.NoError(t, err)
	assert.Equal(t, "hello world", toks[0].Literal)
}

func TestTokenizeNumberWithFractionAndExponent(t *testing.T) {
	toks, err := NewLexer(`3.14 2e10 1.5e-3`).Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 4)
	assert.Equal(t, "3.14", toks[0].Literal)
	assert.Equal(t, "2e10", toks[1].Literal)
	assert.Equal(t, "1.5e-3", toks[2].Literal)
}

func TestTokenizeLineCommentIsSkipped(t *testing.T) {
	toks, err := NewLexer("let x = 1; // a comment\nlet y = 2;").Tokenize()
	require.NoError(t, err)
	var idents []string
	for _, tok := range toks {
		if tok.Type == TokIdentifier {
			idents = append(idents, tok.Literal)
		}
	}
	assert.Equal(t, []string{"x", "y"}, idents)
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks, err := NewLexer("let x = 1;\nlet y = 2;").Tokenize()
	require.NoError(t, err)
	var yTok Token
	for _, tok := range toks {
		if tok.Type == TokIdentifier && tok.Literal == "y" {
			yTok = tok
		}
	}
	assert.Equal(t, 2, yTok.Line)
}

func TestUnexpectedCharacterReportsDiagnostic(t *testing.T) {
	_, err := NewLexer(`~`).Tokenize()
	require.Error(t, err)
	var diagErr *DiagnosticsError
	require.ErrorAs(t, err, &diagErr)
	assert.Contains(t, diagErr.Diagnostics[0].Message, "unexpected character")
}
