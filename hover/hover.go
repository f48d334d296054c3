// Package hover renders the identifier under a caret into a short piece of
// Markdown suitable for a language-server hover popup, on top of package
// inspect's position resolution.
package hover

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/document"
	"github.com/shibukawa/mfx/inspect"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

var titleCaser = cases.Title(language.English)

// humanizeKind turns a NodeKind's PascalCase name ("FunctionExpression")
// into a title-cased, space-separated label ("Function Expression") for
// the hover card's kind line.
func humanizeKind(k ast.NodeKind) string {
	var words strings.Builder
	name := k.String()
	for i, r := range name {
		if i > 0 && unicode.IsUpper(r) {
			words.WriteByte(' ')
		}
		words.WriteRune(r)
	}
	return titleCaser.String(words.String())
}

// Render resolves position against doc and returns a Markdown-formatted
// description of what's there: the identifier's name, the kind of node it
// is bound to, and — for a binding pair — the source snippet of its value.
// An unresolved or absent identifier renders a one-line notice, never an
// error.
func Render(doc *document.Document, position ast.Position) (string, error) {
	result, err := inspect.TryFrom(doc.NodeIdMap(), doc.LeafIds(), position)
	if err != nil {
		return "", fmt.Errorf("hover: %w", err)
	}

	switch id := result.MaybePositionIdentifier.(type) {
	case inspect.Local:
		return renderLocal(doc, id), nil
	case inspect.Undefined:
		return fmt.Sprintf("`%s` is not defined in any enclosing scope.", id.Identifier), nil
	default:
		return "No identifier under the caret.", nil
	}
}

func renderLocal(doc *document.Document, local inspect.Local) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s\n\n", local.Identifier)
	fmt.Fprintf(&b, "kind: `%s`\n", humanizeKind(local.Definition.Kind()))

	switch local.Definition.Kind() {
	case ast.IdentifierPairedExpression, ast.GeneralizedIdentifierPairedExpression,
		ast.FunctionExpression, ast.RecordExpression, ast.RecordLiteral:
		snippet := doc.Snippet(local.Definition.Range())
		if snippet != "" {
			fmt.Fprintf(&b, "\n```powerquery\n%s\n```\n", snippet)
		}
	case ast.FieldSelector, ast.ItemAccessExpression:
		snippet := doc.Snippet(local.Definition.Range())
		if snippet != "" {
			fmt.Fprintf(&b, "\n```powerquery\n%s\n```\n", snippet)
		}
		if name, ok := chainFieldName(doc, local.Definition); ok {
			fmt.Fprintf(&b, "\nresolves to field `%s`\n", name)
		}
	default:
		if leaf, ok := local.Definition.AsLeaf(); ok {
			fmt.Fprintf(&b, "\n```powerquery\n%s\n```\n", leafSnippet(leaf))
		} else if snippet := doc.Snippet(local.Definition.Range()); snippet != "" {
			fmt.Fprintf(&b, "\n```powerquery\n%s\n```\n", snippet)
		}
	}

	return b.String()
}

// chainFieldName finds the final field name a possibly-nested
// a[b][c] access chain ends on: the rightmost GeneralizedIdentifier leaf
// under def, per NodeIdMap.MaybeRightMostLeafWhere. The parser caches this
// for a plain FieldSelector, so a long chain resolves in O(1) rather than
// re-descending on every hover request.
func chainFieldName(doc *document.Document, def ast.XorNode) (string, bool) {
	leaf, ok := doc.NodeIdMap().MaybeRightMostLeafWhere(def.Id(), func(l *ast.Leaf) bool {
		return l.Kind() == ast.GeneralizedIdentifier
	})
	if !ok {
		return "", false
	}
	return leaf.Text, true
}

// leafSnippet renders a leaf's value for the hover card. Numeric constants
// are normalized through decimal.Decimal so "1.50" and "1.5" hover
// identically regardless of how the source spelled the literal; anything
// that doesn't parse as a plain decimal (hex numbers, booleans, strings,
// the @ marker) falls back to its literal source text.
func leafSnippet(leaf *ast.Leaf) string {
	if leaf.Kind() != ast.Constant {
		return leaf.Text
	}
	if d, err := decimal.NewFromString(leaf.Text); err == nil {
		return d.String()
	}
	return leaf.Text
}

// RenderHTML is Render followed by a Markdown-to-HTML pass, for consumers
// (e.g. a browser-based preview) that can't display raw Markdown.
func RenderHTML(doc *document.Document, position ast.Position) (string, error) {
	md, err := Render(doc, position)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("hover: rendering markdown: %w", err)
	}
	return buf.String(), nil
}
