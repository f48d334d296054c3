package mparse

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/mfx/ast"
)

func TestParseLetExpression(t *testing.T) {
	res := Parse("let x = 1, y = x in y")
	assert.Equal(t, 0, len(res.Diagnostics))

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.LetExpression, root.Kind())
	assert.True(t, root.IsAst())

	children := res.IdMap.ChildIds(root.Id())
	assert.Equal(t, 3, len(children)) // x binding, y binding, body
}

func TestParseEachExpressionImplicitParameter(t *testing.T) {
	res := Parse("each _ + 1")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.EachExpression, root.Kind())

	children := res.IdMap.ChildIds(root.Id())
	assert.Equal(t, 2, len(children))
	paramXor, err := res.IdMap.XorNodeById(children[0])
	assert.NoError(t, err)
	assert.Equal(t, ast.Parameter, paramXor.Kind())
}

func TestParseFunctionExpression(t *testing.T) {
	res := Parse("(a, b) => a + b")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.FunctionExpression, root.Kind())

	children := res.IdMap.ChildIds(root.Id())
	assert.Equal(t, 2, len(children))
	paramListXor, err := res.IdMap.XorNodeById(children[0])
	assert.NoError(t, err)
	assert.Equal(t, ast.ParameterList, paramListXor.Kind())
	assert.Equal(t, 2, len(res.IdMap.ChildIds(paramListXor.Id())))
}

func TestParseIfExpression(t *testing.T) {
	res := Parse("if true then 1 else 2")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.IfExpression, root.Kind())
	assert.True(t, root.IsAst())
	assert.Equal(t, 3, len(res.IdMap.ChildIds(root.Id())))
}

func TestParseRecordExpression(t *testing.T) {
	res := Parse("[f = 1, g = f]")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.RecordExpression, root.Kind())

	fields := res.IdMap.ChildIds(root.Id())
	assert.Equal(t, 2, len(fields))
	first, err := res.IdMap.XorNodeById(fields[0])
	assert.NoError(t, err)
	assert.Equal(t, ast.GeneralizedIdentifierPairedExpression, first.Kind())
}

func TestParseSectionDocument(t *testing.T) {
	res := Parse("section MySection; shared A = 1; B = A + 1;")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.Section, root.Kind())

	members := res.IdMap.ChildIds(root.Id())
	assert.Equal(t, 2, len(members))
	for _, m := range members {
		x, err := res.IdMap.XorNodeById(m)
		assert.NoError(t, err)
		assert.Equal(t, ast.SectionMember, x.Kind())
	}
}

func TestParseAtSelfReference(t *testing.T) {
	res := Parse("let Fact = (n) => if n = 0 then 1 else n * @Fact(n - 1) in Fact")
	assert.Equal(t, 0, len(res.Diagnostics))

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.LetExpression, root.Kind())
}

func TestParseMissingInProducesContextNode(t *testing.T) {
	res := Parse("let x = 1")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.LetExpression, root.Kind())
	assert.True(t, root.IsContext())
	assert.Equal(t, 1, len(res.Diagnostics))
}

func TestParseItemAccessAndFieldSelector(t *testing.T) {
	res := Parse("Source{0}[[Name]]")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.FieldSelector, root.Kind())

	children := res.IdMap.ChildIds(root.Id())
	assert.Equal(t, 2, len(children))
	target, err := res.IdMap.XorNodeById(children[0])
	assert.NoError(t, err)
	assert.Equal(t, ast.ItemAccessExpression, target.Kind())
}

func TestParseInvokeExpression(t *testing.T) {
	res := Parse(`Table.AddColumn(Source, "New", each [A] + 1)`)

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.InvokeExpression, root.Kind())

	children := res.IdMap.ChildIds(root.Id())
	assert.Equal(t, 2, len(children))
	args, err := res.IdMap.XorNodeById(children[1])
	assert.NoError(t, err)
	assert.Equal(t, ast.ArgumentList, args.Kind())
	assert.Equal(t, 3, len(res.IdMap.ChildIds(args.Id())))
}

func TestParseLeafIdsAreSortedByPosition(t *testing.T) {
	res := Parse("let x = 1 in x")
	assert.True(t, len(res.LeafIds) >= 2)

	var lastCodeUnit int
	for i, id := range res.LeafIds {
		x, err := res.IdMap.XorNodeById(id)
		assert.NoError(t, err)
		if i > 0 {
			assert.True(t, x.Range().Start.CodeUnit >= lastCodeUnit)
		}
		lastCodeUnit = x.Range().Start.CodeUnit
	}
}

func TestParseNotImplementedFallsBackGracefully(t *testing.T) {
	res := Parse("try 1 / 0 otherwise -1")

	root, err := res.IdMap.XorNodeById(res.RootId)
	assert.NoError(t, err)
	assert.Equal(t, ast.NotImplementedExpression, root.Kind())
}
