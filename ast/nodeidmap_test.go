package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func rng(startCol, endCol int) TokenRange {
	return TokenRange{
		Start: TokenPosition{Position: Position{Line: 0, Column: startCol}, CodeUnit: startCol},
		End:   TokenPosition{Position: Position{Line: 0, Column: endCol}, CodeUnit: endCol},
	}
}

func TestNodeIdMapAstAndContext(t *testing.T) {
	m := New()

	root := NewInterior(1, LetExpression, rng(0, 20), -1, "let")
	m.AddAst(root)

	x := NewLeaf(2, Identifier, rng(4, 5), 0, "x")
	m.AddAst(x)
	m.SetParent(root.Id(), x.Id())

	ctx := NewContextNode(3, RecordExpression, rng(6, 6), 1, "record")
	m.AddContext(ctx)
	m.SetParent(root.Id(), ctx.Id())

	got, err := m.ExpectAst(root.Id())
	assert.NoError(t, err)
	assert.Equal[AstNode](t, root, got)

	_, err = m.ExpectContext(root.Id())
	assert.Error(t, err)

	gotCtx, err := m.ExpectContext(ctx.Id())
	assert.NoError(t, err)
	assert.Equal(t, ctx, gotCtx)

	_, err = m.ExpectAst(999)
	assert.Error(t, err)

	parentXor := m.MaybeParentXor(x.Id())
	assert.False(t, parentXor.IsZero())
	assert.Equal(t, root.Id(), parentXor.Id())

	rootXor := FromAst(root)
	assert.True(t, m.MaybeParentXor(rootXor.Id()).IsZero())

	kids, err := m.ChildIdsOfKind(root.Id(), Identifier)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(kids))
	assert.Equal(t, x.Id(), kids[0].Id())
}

func TestMaybeRightMostLeafWhere(t *testing.T) {
	m := New()

	root := NewInterior(1, IdentifierExpression, rng(0, 10), -1, "chain")
	m.AddAst(root)

	a := NewLeaf(2, Identifier, rng(0, 1), 0, "a")
	m.AddAst(a)
	m.SetParent(root.Id(), a.Id())

	b := NewLeaf(3, Identifier, rng(2, 3), 1, "b")
	m.AddAst(b)
	m.SetParent(root.Id(), b.Id())

	leaf, ok := m.MaybeRightMostLeafWhere(root.Id(), func(l *Leaf) bool { return l.Kind() == Identifier })
	assert.True(t, ok)
	assert.Equal(t, "b", leaf.Text)
}

func TestCachedRightMostLeafShortCircuitsTheWalk(t *testing.T) {
	m := New()

	root := NewInterior(1, FieldSelector, rng(0, 10), -1, "field-selector")
	m.AddAst(root)

	target := NewLeaf(2, Identifier, rng(0, 1), 0, "a")
	m.AddAst(target)
	m.SetParent(root.Id(), target.Id())

	field := NewLeaf(3, GeneralizedIdentifier, rng(2, 3), 1, "b")
	m.AddAst(field)
	m.SetParent(root.Id(), field.Id())

	_, ok := m.CachedRightMostLeaf(root.Id())
	assert.False(t, ok)

	m.CacheRightMostLeaf(root.Id(), field.Id())

	cachedId, ok := m.CachedRightMostLeaf(root.Id())
	assert.True(t, ok)
	assert.Equal(t, field.Id(), cachedId)

	leaf, ok := m.MaybeRightMostLeafWhere(root.Id(), func(l *Leaf) bool { return l.Kind() == GeneralizedIdentifier })
	assert.True(t, ok)
	assert.Equal(t, "b", leaf.Text)
}

func TestXorNodeVariants(t *testing.T) {
	leaf := NewLeaf(1, Identifier, rng(0, 1), 0, "x")
	astXor := FromAst(leaf)
	assert.True(t, astXor.IsAst())
	assert.False(t, astXor.IsContext())

	n, err := astXor.AsAst()
	assert.NoError(t, err)
	assert.Equal[AstNode](t, leaf, n)

	_, err = astXor.AsContext()
	assert.Error(t, err)

	ctx := NewContextNode(2, LetExpression, rng(0, 1), 0, "let")
	ctxXor := FromContext(ctx)
	assert.True(t, ctxXor.IsContext())

	_, err = ctxXor.AsAst()
	assert.Error(t, err)
}
