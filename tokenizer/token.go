// Package tokenizer lexes Power Query / M formula language source text into
// a flat token stream carrying line/column/code-unit coordinates.
package tokenizer

import (
	"errors"

	"github.com/shibukawa/mfx/ast"
)

// Sentinel errors.
var (
	ErrUnterminatedString  = errors.New("tokenizer: unterminated string literal")
	ErrUnterminatedComment = errors.New("tokenizer: unterminated block comment")
	ErrInvalidNumber       = errors.New("tokenizer: invalid number literal")
	ErrUnexpectedCharacter = errors.New("tokenizer: unexpected character")
)

// TokenType is the type of a lexical token.
type TokenType int

const (
	EOF TokenType = iota
	WHITESPACE
	LINE_COMMENT
	BLOCK_COMMENT

	IDENTIFIER   // plain identifier: x, Table.Column
	QUOTED_IDENT // #"quoted identifier"
	NUMBER       // 1, 1.5, 0x1F, 1e10
	STRING       // "text"
	AT           // @ (recursive self-reference marker)

	OPENED_PARENS  // (
	CLOSED_PARENS  // )
	OPENED_BRACKET // [
	CLOSED_BRACKET // ]
	OPENED_BRACE   // {
	CLOSED_BRACE   // }
	COMMA          // ,
	SEMICOLON      // ;
	DOT            // .
	EQUAL          // =
	ARROW          // =>
	DOUBLE_ARROW   // <= keyword-lookalike, unused; reserved
	QUESTION       // ?
	COMMENT_HASH   // # prefix for #shared, #binary, etc.

	PLUS
	MINUS
	MULTIPLY
	DIVIDE
	AMPERSAND

	LESS_THAN
	GREATER_THAN
	LESS_EQUAL
	GREATER_EQUAL
	NOT_EQUAL

	// Keywords
	KW_LET
	KW_IN
	KW_EACH
	KW_IF
	KW_THEN
	KW_ELSE
	KW_TYPE
	KW_TRY
	KW_OTHERWISE
	KW_ERROR
	KW_META
	KW_AS
	KW_SECTION
	KW_SHARED
	KW_AND
	KW_OR
	KW_NOT
	KW_IS
	KW_TRUE
	KW_FALSE
	KW_NULL

	OTHER
)

// String returns TokenType's name, used in diagnostics and tests.
func (t TokenType) String() string {
	names := map[TokenType]string{
		EOF: "EOF", WHITESPACE: "WHITESPACE", LINE_COMMENT: "LINE_COMMENT",
		BLOCK_COMMENT: "BLOCK_COMMENT", IDENTIFIER: "IDENTIFIER",
		QUOTED_IDENT: "QUOTED_IDENT", NUMBER: "NUMBER", STRING: "STRING",
		AT: "AT", OPENED_PARENS: "OPENED_PARENS", CLOSED_PARENS: "CLOSED_PARENS",
		OPENED_BRACKET: "OPENED_BRACKET", CLOSED_BRACKET: "CLOSED_BRACKET",
		OPENED_BRACE: "OPENED_BRACE", CLOSED_BRACE: "CLOSED_BRACE",
		COMMA: "COMMA", SEMICOLON: "SEMICOLON", DOT: "DOT", EQUAL: "EQUAL",
		ARROW: "ARROW", DOUBLE_ARROW: "DOUBLE_ARROW", QUESTION: "QUESTION", COMMENT_HASH: "COMMENT_HASH",
		PLUS: "PLUS", MINUS: "MINUS", MULTIPLY: "MULTIPLY", DIVIDE: "DIVIDE",
		AMPERSAND: "AMPERSAND", LESS_THAN: "LESS_THAN", GREATER_THAN: "GREATER_THAN",
		LESS_EQUAL: "LESS_EQUAL", GREATER_EQUAL: "GREATER_EQUAL", NOT_EQUAL: "NOT_EQUAL",
		KW_LET: "KW_LET", KW_IN: "KW_IN", KW_EACH: "KW_EACH", KW_IF: "KW_IF",
		KW_THEN: "KW_THEN", KW_ELSE: "KW_ELSE", KW_TYPE: "KW_TYPE", KW_TRY: "KW_TRY",
		KW_OTHERWISE: "KW_OTHERWISE", KW_ERROR: "KW_ERROR", KW_META: "KW_META",
		KW_AS: "KW_AS", KW_SECTION: "KW_SECTION", KW_SHARED: "KW_SHARED",
		KW_AND: "KW_AND", KW_OR: "KW_OR", KW_NOT: "KW_NOT", KW_IS: "KW_IS",
		KW_TRUE: "KW_TRUE", KW_FALSE: "KW_FALSE", KW_NULL: "KW_NULL", OTHER: "OTHER",
	}
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

var keywords = map[string]TokenType{
	"let": KW_LET, "in": KW_IN, "each": KW_EACH, "if": KW_IF, "then": KW_THEN,
	"else": KW_ELSE, "type": KW_TYPE, "try": KW_TRY, "otherwise": KW_OTHERWISE,
	"error": KW_ERROR, "meta": KW_META, "as": KW_AS, "section": KW_SECTION,
	"shared": KW_SHARED, "and": KW_AND, "or": KW_OR, "not": KW_NOT, "is": KW_IS,
	"true": KW_TRUE, "false": KW_FALSE, "null": KW_NULL,
}

// Token is a single lexical token.
type Token struct {
	Type  TokenType
	Value string
	Range ast.TokenRange
}

func (t Token) String() string {
	return t.Type.String() + ": " + t.Value
}

// IsIdentifierLike reports whether the token's type can act as a name for
// scope-injection purposes: plain and quoted identifiers.
func (t Token) IsIdentifierLike() bool {
	return t.Type == IDENTIFIER || t.Type == QUOTED_IDENT
}
