package document_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/mfx/document"
)

func TestNewBuildsDocument(t *testing.T) {
	doc, err := document.New("let x = 1 in x")
	assert.NoError(t, err)
	assert.Equal(t, "let x = 1 in x", doc.Text())
	assert.True(t, len(doc.Tokens()) > 0)
	assert.True(t, len(doc.LeafIds()) > 0)
	assert.Equal(t, 0, len(doc.Diagnostics()))
}

func TestNewRecordsDiagnosticsOnPartialParse(t *testing.T) {
	doc, err := document.New("let x = 1")
	assert.NoError(t, err)
	assert.True(t, len(doc.Diagnostics()) > 0)
}

func TestSnippetRecoversSourceRange(t *testing.T) {
	doc, err := document.New("let x = 1 in x")
	assert.NoError(t, err)
	root, err := doc.Root()
	assert.NoError(t, err)
	assert.Equal(t, doc.Text(), doc.Snippet(root.Range()))
}
