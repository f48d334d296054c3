// Package outline extracts the document symbol tree — every named binding
// reachable from the top level — for consumers like an editor's outline
// view. It walks the same NodeIdMap the inspection engine reads, using the
// same generic traversal driver and the same name/value pairing rule, so
// an outline entry and an inspection scope entry can never disagree about
// what counts as a binding.
package outline

import (
	"fmt"

	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/document"
	"github.com/shibukawa/mfx/inspect"
	"github.com/shibukawa/mfx/traverse"
)

// Symbol is one entry in the document's outline tree.
type Symbol struct {
	Name     string
	Kind     ast.NodeKind
	Range    ast.TokenRange
	Children []*Symbol
}

var containerKinds = []ast.NodeKind{
	ast.RecordExpression,
	ast.RecordLiteral,
	ast.Section,
	ast.SectionMember,
	ast.FunctionExpression,
}

var pairKinds = []ast.NodeKind{
	ast.IdentifierPairedExpression,
	ast.GeneralizedIdentifierPairedExpression,
}

// Extract builds the symbol tree rooted at doc's top-level node.
func Extract(doc *document.Document) (*Symbol, error) {
	root, err := doc.Root()
	if err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}

	idMap := doc.NodeIdMap()
	byId := map[ast.NodeId]*Symbol{
		root.Id(): {Name: nameOf(idMap, root), Kind: root.Kind(), Range: root.Range()},
	}

	state := &walkState{idMap: idMap, byId: byId}
	if err := traverse.Walk(state, root, containerExpand(idMap), collectSymbol, nil); err != nil {
		return nil, fmt.Errorf("outline: %w", err)
	}

	for _, id := range state.order {
		sym := byId[id]
		parentId, ok := nearestContainerAncestor(idMap, id, byId)
		if !ok {
			continue
		}
		parent := byId[parentId]
		parent.Children = append(parent.Children, sym)
	}

	return byId[root.Id()], nil
}

type walkState struct {
	idMap *ast.NodeIdMap
	byId  map[ast.NodeId]*Symbol
	order []ast.NodeId
}

func collectSymbol(s *walkState, node ast.XorNode) error {
	if _, exists := s.byId[node.Id()]; exists {
		return nil
	}
	s.byId[node.Id()] = &Symbol{Name: nameOf(s.idMap, node), Kind: node.Kind(), Range: node.Range()}
	s.order = append(s.order, node.Id())
	return nil
}

// containerExpand finds the nearest descendant nodes worth surfacing as
// their own outline entry: either a container kind (a scope boundary with
// its own identity) or a binding pair (a let-binding or record field). It
// skips transparently through everything else in between — a LetExpression
// used as a function or let body, argument lists, parameter lists — rather
// than requiring a direct parent/child edge, so a plain kind-filtered
// ChildIds wouldn't stop dead at, say, a SectionMember's own
// IdentifierPairedExpression child, or fail to see past an intervening
// LetExpression down to the bindings it actually introduces.
//
// A SectionMember's own wrapping pair is the one binding pair that is
// itself skipped rather than collected: SectionMember already recovers
// that pair's name directly in nameOf, so collecting the pair too would
// just duplicate the member under its own name.
func containerExpand(idMap *ast.NodeIdMap) traverse.Expand {
	containerSet := make(map[ast.NodeKind]struct{}, len(containerKinds))
	for _, k := range containerKinds {
		containerSet[k] = struct{}{}
	}
	isContainer := func(k ast.NodeKind) bool {
		_, ok := containerSet[k]
		return ok
	}

	pairSet := make(map[ast.NodeKind]struct{}, len(pairKinds))
	for _, k := range pairKinds {
		pairSet[k] = struct{}{}
	}
	isPair := func(k ast.NodeKind) bool {
		_, ok := pairSet[k]
		return ok
	}

	return func(node ast.XorNode) ([]ast.XorNode, error) {
		var out []ast.XorNode
		var descend func(ast.XorNode)
		descend = func(n ast.XorNode) {
			for _, childId := range idMap.ChildIds(n.Id()) {
				child, err := idMap.XorNodeById(childId)
				if err != nil {
					continue
				}
				switch {
				case isContainer(child.Kind()):
					out = append(out, child)
				case isPair(child.Kind()) && n.Kind() != ast.SectionMember:
					out = append(out, child)
				default:
					descend(child)
				}
			}
		}
		descend(node)
		return out, nil
	}
}

// nearestContainerAncestor walks up from id until it finds an ancestor
// already present in byId (i.e. itself a collected symbol: a container or
// a binding pair), skipping
// through the same wrapper nodes containerExpand skips through on the way
// down.
func nearestContainerAncestor(idMap *ast.NodeIdMap, id ast.NodeId, byId map[ast.NodeId]*Symbol) (ast.NodeId, bool) {
	cur := id
	for {
		parentId, ok := idMap.ParentId(cur)
		if !ok {
			return 0, false
		}
		if _, ok := byId[parentId]; ok {
			return parentId, true
		}
		cur = parentId
	}
}

// nameOf recovers a node's binding name, reusing the exact pairing rule the
// inspection scope-injection table uses. A binding pair names itself; a
// SectionMember recovers its name from the pair it wraps (see
// containerExpand). Every other node — records, sections, functions, and
// the document root when it isn't a pair — is anonymous.
func nameOf(idMap *ast.NodeIdMap, node ast.XorNode) string {
	switch node.Kind() {
	case ast.IdentifierPairedExpression, ast.GeneralizedIdentifierPairedExpression:
		if name, _, ok := inspect.PairNameAndValue(idMap, node); ok {
			return name
		}
	case ast.SectionMember:
		children := idMap.ChildIds(node.Id())
		if len(children) > 0 {
			if pairXor, err := idMap.XorNodeById(children[0]); err == nil {
				if name, _, ok := inspect.PairNameAndValue(idMap, pairXor); ok {
					return name
				}
			}
		}
	}
	return ""
}
