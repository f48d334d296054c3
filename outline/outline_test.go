package outline_test

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/document"
	"github.com/shibukawa/mfx/outline"
	"github.com/shibukawa/mfx/testhelper"
)

func childNames(sym *outline.Symbol) []string {
	names := make([]string, len(sym.Children))
	for i, c := range sym.Children {
		names[i] = c.Name
	}
	return names
}

func TestExtractLetBindings(t *testing.T) {
	doc, err := document.New("let x = 1, y = x in y")
	assert.NoError(t, err)

	root, err := outline.Extract(doc)
	assert.NoError(t, err)
	assert.Equal(t, ast.LetExpression, root.Kind)
	assert.Equal(t, []string{"x", "y"}, childNames(root))
}

func TestExtractSectionMembers(t *testing.T) {
	doc, err := document.New("section S; A = 1; B = A + 1;")
	assert.NoError(t, err)

	root, err := outline.Extract(doc)
	assert.NoError(t, err)
	assert.Equal(t, ast.Section, root.Kind)
	assert.Equal(t, []string{"A", "B"}, childNames(root))
}

func TestExtractNestedFunctionBody(t *testing.T) {
	doc, err := document.New("section S; F = (n) => let r = n * 2 in r;")
	assert.NoError(t, err)

	root, err := outline.Extract(doc)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(root.Children))

	fnMember := root.Children[0]
	assert.Equal(t, "F", fnMember.Name)
	assert.Equal(t, ast.SectionMember, fnMember.Kind)
	assert.Equal(t, 1, len(fnMember.Children))

	fn := fnMember.Children[0]
	assert.Equal(t, ast.FunctionExpression, fn.Kind)
	assert.Equal(t, 1, len(fn.Children))
	assert.Equal(t, "r", fn.Children[0].Name)
}

func TestExtractMultiMemberSectionFromIndentedFixture(t *testing.T) {
	source := testhelper.TrimIndent(t, `
		section Report;
		Total = let a = 1, b = 2 in a + b;
		Label = "total";
	`)
	doc, err := document.New(source)
	assert.NoError(t, err)

	root, err := outline.Extract(doc)
	assert.NoError(t, err)
	assert.Equal(t, ast.Section, root.Kind)
	assert.Equal(t, []string{"Total", "Label"}, childNames(root))
}
