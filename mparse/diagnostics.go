// Package mparse is a small recursive-descent parser for the Power Query /
// M formula language subset this toolkit's inspection engine needs: let,
// each, function, if, record, and section-document constructs, plus the
// arithmetic/logical operators and access chains that connect them.
//
// The parser never aborts on malformed input. Where a production can't be
// closed (an unterminated record, a let missing its in), it emits a
// Context node of the intended kind holding whatever children it managed to
// attach and records a Diagnostic; the rest of the document is still parsed
// on a best-effort basis.
package mparse

import "github.com/shibukawa/mfx/ast"

// Diagnostic is a non-fatal parse note: partial parses and lex errors are
// reported this way rather than aborting the parse.
type Diagnostic struct {
	Message string
	At      ast.Position
}
