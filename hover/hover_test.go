package hover_test

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/document"
	"github.com/shibukawa/mfx/hover"
)

func TestRenderLocalBinding(t *testing.T) {
	doc, err := document.New("let x = 1 in x")
	assert.NoError(t, err)

	out, err := hover.Render(doc, ast.Position{Line: 0, Column: 14})
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "x"))
	assert.True(t, strings.Contains(out, "```powerquery"))
}

func TestRenderUndefinedIdentifier(t *testing.T) {
	doc, err := document.New("let x = 1 in z")
	assert.NoError(t, err)

	out, err := hover.Render(doc, ast.Position{Line: 0, Column: 14})
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "not defined"))
}

func TestRenderNoCaretContext(t *testing.T) {
	doc, err := document.New("let x = 1 in x")
	assert.NoError(t, err)

	out, err := hover.Render(doc, ast.Position{Line: 0, Column: 0})
	assert.NoError(t, err)
	assert.Equal(t, "No identifier under the caret.", out)
}

func TestRenderLocalFieldAccessChainResolvesFinalName(t *testing.T) {
	doc, err := document.New("let x = a[b][c] in x")
	assert.NoError(t, err)

	out, err := hover.Render(doc, ast.Position{Line: 0, Column: 20})
	assert.NoError(t, err)
	assert.True(t, strings.Contains(out, "```powerquery"))
	assert.True(t, strings.Contains(out, "resolves to field `c`"))
}

func TestRenderHTMLWrapsMarkdown(t *testing.T) {
	doc, err := document.New("let x = 1 in x")
	assert.NoError(t, err)

	html, err := hover.RenderHTML(doc, ast.Position{Line: 0, Column: 14})
	assert.NoError(t, err)
	assert.True(t, strings.Contains(html, "<h3"))
}
