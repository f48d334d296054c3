package tokenizer

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestLexerBasicTokens(t *testing.T) {
	src := "let x = 1 in x"

	expectedTypes := []TokenType{
		KW_LET, WHITESPACE, IDENTIFIER, WHITESPACE, EQUAL, WHITESPACE, NUMBER,
		WHITESPACE, KW_IN, WHITESPACE, IDENTIFIER, EOF,
	}

	var actualTypes []TokenType
	for tok, err := range New(src).Tokens() {
		assert.NoError(t, err)
		actualTypes = append(actualTypes, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestLexerEachExpression(t *testing.T) {
	src := "each _ + 1"

	expectedTypes := []TokenType{
		KW_EACH, WHITESPACE, IDENTIFIER, WHITESPACE, PLUS, WHITESPACE, NUMBER, EOF,
	}

	var actualTypes []TokenType
	for tok, err := range New(src).Tokens() {
		assert.NoError(t, err)
		actualTypes = append(actualTypes, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	assert.Equal(t, expectedTypes, actualTypes)
}

func TestLexerFunctionExpressionArrow(t *testing.T) {
	src := "(a, b) => a + b"

	var actualTypes []TokenType
	for tok, err := range New(src).Tokens() {
		assert.NoError(t, err)
		actualTypes = append(actualTypes, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	assert.Equal(t, []TokenType{
		OPENED_PARENS, IDENTIFIER, COMMA, WHITESPACE, IDENTIFIER, CLOSED_PARENS,
		WHITESPACE, ARROW, WHITESPACE, IDENTIFIER, WHITESPACE, PLUS, WHITESPACE, IDENTIFIER, EOF,
	}, actualTypes)
}

func TestLexerQuotedIdentifierAndAt(t *testing.T) {
	src := `#"my value" & @Foo`

	var actualTypes []TokenType
	for tok, err := range New(src).Tokens() {
		assert.NoError(t, err)
		actualTypes = append(actualTypes, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	assert.Equal(t, []TokenType{
		QUOTED_IDENT, WHITESPACE, AMPERSAND, WHITESPACE, AT, IDENTIFIER, EOF,
	}, actualTypes)
}

func TestLexerStringWithDoubledQuoteEscape(t *testing.T) {
	src := `"a""b"`

	tokens, err := New(src).AllTokens()
	assert.NoError(t, err)

	var strings_ []Token
	for _, tok := range tokens {
		if tok.Type == STRING {
			strings_ = append(strings_, tok)
		}
	}

	assert.Equal(t, 1, len(strings_))
	assert.Equal(t, `"a""b"`, strings_[0].Value)
}

func TestLexerUnterminatedStringReported(t *testing.T) {
	src := `"unterminated`

	sawError := false
	for _, err := range New(src).Tokens() {
		if err != nil {
			sawError = true
			assert.ErrorIs(t, err, ErrUnterminatedString)
			break
		}
	}
	assert.True(t, sawError)
}

func TestLexerPositionsTrackLineAndColumn(t *testing.T) {
	src := "let\nx = 1"

	tokens, err := New(src).AllTokens()
	assert.NoError(t, err)

	var xTok Token
	for _, tok := range tokens {
		if tok.Type == IDENTIFIER && tok.Value == "x" {
			xTok = tok
			break
		}
	}

	assert.Equal(t, 1, xTok.Range.Start.Line)
	assert.Equal(t, 0, xTok.Range.Start.Column)
}
