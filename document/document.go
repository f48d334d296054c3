// Package document bundles a parsed M source file into the single object
// the rest of the toolkit (hover, outline, the CLI) is handed: the raw
// text, the token stream, the node-id map, the leaf id list, and the
// non-fatal diagnostics a partial parse left behind.
package document

import (
	"github.com/google/uuid"

	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/mparse"
	"github.com/shibukawa/mfx/tokenizer"
)

// Document is the immutable result of lexing and parsing one source text.
type Document struct {
	id          uuid.UUID
	text        string
	tokens      []tokenizer.Token
	idMap       *ast.NodeIdMap
	leafIds     []ast.NodeId
	rootId      ast.NodeId
	diagnostics []mparse.Diagnostic
}

// New lexes and parses text, producing a Document. Lex and parse failures
// never abort this call — they are recorded as diagnostics, per the
// toolkit's posture that a degraded parse is not itself an error. Text is
// lexed once; the same token slice backs both Tokens() and the parse.
// Lexing stops at the first lex error, so only the tokens before it are
// parsed.
func New(text string) (*Document, error) {
	tokens, tokErr := tokenizer.New(text).AllTokens()

	result := mparse.ParseTokens(tokens)
	if tokErr != nil {
		result.Diagnostics = append([]mparse.Diagnostic{{Message: tokErr.Error()}}, result.Diagnostics...)
	}

	return &Document{
		id:          uuid.New(),
		text:        text,
		tokens:      tokens,
		idMap:       result.IdMap,
		leafIds:     result.LeafIds,
		rootId:      result.RootId,
		diagnostics: result.Diagnostics,
	}, nil
}

// ID returns a process-lifetime-unique identifier for this parse, useful
// for correlating log lines and batch-mode diagnostics across a run that
// touches many documents.
func (d *Document) ID() uuid.UUID { return d.id }

// Text returns the original source text.
func (d *Document) Text() string { return d.text }

// Tokens returns every token the lexer produced, including trivia.
func (d *Document) Tokens() []tokenizer.Token { return d.tokens }

// NodeIdMap returns the document's structural index.
func (d *Document) NodeIdMap() *ast.NodeIdMap { return d.idMap }

// LeafIds returns every leaf id in source order.
func (d *Document) LeafIds() []ast.NodeId { return d.leafIds }

// RootId returns the id of the document's top-level node.
func (d *Document) RootId() ast.NodeId { return d.rootId }

// Diagnostics returns the non-fatal notes a partial parse left behind.
func (d *Document) Diagnostics() []mparse.Diagnostic { return d.diagnostics }

// Root returns the XorNode for RootId.
func (d *Document) Root() (ast.XorNode, error) {
	return d.idMap.XorNodeById(d.rootId)
}

// Snippet returns the source text spanned by r, using the absolute
// code-unit offsets every token range carries.
func (d *Document) Snippet(r ast.TokenRange) string {
	start, end := r.Start.CodeUnit, r.End.CodeUnit
	if start < 0 || end > len(d.text) || start > end {
		return ""
	}
	return d.text[start:end]
}
