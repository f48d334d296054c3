package inspect_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/inspect"
	"github.com/shibukawa/mfx/mparse"
)

func inspectAt(t *testing.T, source string, line, col int) *inspect.Inspected {
	t.Helper()
	res := mparse.Parse(source)
	out, err := inspect.TryFrom(res.IdMap, res.LeafIds, ast.Position{Line: line, Column: col})
	assert.NoError(t, err)
	return out
}

func localOf(t *testing.T, id inspect.PositionIdentifier) inspect.Local {
	t.Helper()
	local, ok := id.(inspect.Local)
	assert.True(t, ok)
	return local
}

func TestLetBodyScopeIncludesAllBindings(t *testing.T) {
	out := inspectAt(t, "let x = 1, y = x in y", 0, 21)

	assert.Equal(t, 2, len(out.Scope))
	_, hasX := out.Scope["x"]
	_, hasY := out.Scope["y"]
	assert.True(t, hasX)
	assert.True(t, hasY)

	local := localOf(t, out.MaybePositionIdentifier)
	assert.Equal(t, "y", local.Identifier)
	assert.Equal(t, out.Scope["y"], local.Definition)
}

func TestLetUndefinedIdentifierInBody(t *testing.T) {
	out := inspectAt(t, "let x = 1 in z", 0, 14)

	_, hasX := out.Scope["x"]
	assert.True(t, hasX)

	undefined, ok := out.MaybePositionIdentifier.(inspect.Undefined)
	assert.True(t, ok)
	assert.Equal(t, "z", undefined.Identifier)
}

func TestFunctionParameterScope(t *testing.T) {
	out := inspectAt(t, "(a, b) => a + b", 0, 11)

	_, hasA := out.Scope["a"]
	_, hasB := out.Scope["b"]
	assert.True(t, hasA)
	assert.True(t, hasB)

	local := localOf(t, out.MaybePositionIdentifier)
	assert.Equal(t, "a", local.Identifier)
}

func TestEachExpressionImplicitParameterScope(t *testing.T) {
	// Caret placed immediately after `_` (col 6): the leaf-selector's
	// exact-start exclusion means a caret sitting exactly on `_`'s own
	// start (col 5) would select whatever precedes `each` instead.
	out := inspectAt(t, "each _ + 1", 0, 6)

	_, hasUnderscore := out.Scope["_"]
	assert.True(t, hasUnderscore)

	local := localOf(t, out.MaybePositionIdentifier)
	assert.Equal(t, "_", local.Identifier)
}

func TestRecordFieldSeesEarlierSibling(t *testing.T) {
	out := inspectAt(t, "[f = 1, g = f]", 0, 13)

	assert.Equal(t, 2, len(out.Scope))
	local := localOf(t, out.MaybePositionIdentifier)
	assert.Equal(t, "f", local.Identifier)

	valueLeaf, ok := local.Definition.AsLeaf()
	assert.True(t, ok)
	assert.Equal(t, "1", valueLeaf.Text)
}

func TestDefaultInspectionWhenNoLeafPrecedesCaret(t *testing.T) {
	out := inspectAt(t, "let x = 1 in x", 0, 0)

	assert.Equal(t, 0, len(out.Scope))
	assert.Equal(t, 0, len(out.Nodes))
	assert.Zero(t, out.MaybePositionIdentifier)
}

func TestSelfReferenceResolvesInsideOwnBinding(t *testing.T) {
	source := "let Fact = (n) => if n = 0 then 1 else n * @Fact(n - 1) in Fact"
	col := 46 // inside "@Fact", between the "a" and the "c" of Fact
	out := inspectAt(t, source, 0, col)

	local := localOf(t, out.MaybePositionIdentifier)
	assert.Equal(t, "Fact", local.Identifier)
	assert.Equal(t, ast.FunctionExpression, local.Definition.Kind())
}

func TestSectionMemberScope(t *testing.T) {
	out := inspectAt(t, "section S; A = 1; B = A + 1;", 0, 24)

	_, hasA := out.Scope["A"]
	_, hasB := out.Scope["B"]
	assert.True(t, hasA)
	assert.True(t, hasB)

	local := localOf(t, out.MaybePositionIdentifier)
	assert.Equal(t, "A", local.Identifier)
}

func TestNodesOrderedNearestFirst(t *testing.T) {
	out := inspectAt(t, "let x = 1 in x", 0, 14)
	assert.True(t, len(out.Nodes) >= 2)
	// The selected leaf itself is nodes[0]; each following entry is its
	// NodeIdMap parent.
	assert.Equal(t, "selected leaf", out.Nodes[0].Role)
}
