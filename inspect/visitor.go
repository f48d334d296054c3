package inspect

import (
	"fmt"

	"github.com/shibukawa/mfx/ast"
)

// walkState is the mutable accumulator threaded through the ancestor walk.
// scope and assignmentKeyNodeIdMap only ever grow; positionIdentifier is
// write-once (the first ancestor whose contribution names the caret's
// identifier wins).
type walkState struct {
	idMap *ast.NodeIdMap

	prev    ast.XorNode
	hasPrev bool

	nodes                  []AncestorDescriptor
	scope                  map[string]ast.XorNode
	assignmentKeyNodeIdMap map[ast.NodeId]ast.XorNode

	selectedLeaf          ast.XorNode
	identifierText        string
	isIdentifierCandidate bool
	positionIdentifier    PositionIdentifier
}

// childIndexOnPath returns the position, in node's NodeIdMap child list,
// of the child the walk arrived from, or -1 for the very first node visited
// (the selected leaf itself, which has no "child we came from"). The child
// list order is used rather than AttributeIndex, which the parser leaves at
// 0 for nodes built through its operator and postfix chains.
func (s *walkState) childIndexOnPath(node ast.XorNode) int {
	if !s.hasPrev {
		return -1
	}
	for i, childId := range s.idMap.ChildIds(node.Id()) {
		if childId == s.prev.Id() {
			return i
		}
	}
	return -1
}

// addScope records name -> def unless a nearer ancestor already claimed
// it: the collision rule is first-write-wins, and ancestors are visited
// nearest-first, so "already present" always means "shadowed by something
// closer to the caret."
func (s *walkState) addScope(name string, def ast.XorNode) {
	if _, exists := s.scope[name]; exists {
		return
	}
	s.scope[name] = def
}

func (s *walkState) recordAssignmentKey(pair ast.XorNode, value ast.XorNode) {
	children := s.idMap.ChildIds(pair.Id())
	if len(children) == 0 {
		return
	}
	s.assignmentKeyNodeIdMap[children[0]] = value
}

// resolvePositionIdentifier checks the accumulated scope (and the
// assignment-key side table) for the caret's identifier text. It runs
// after every ancestor's scope contribution and is a no-op once
// positionIdentifier is set, which is what makes "first ancestor whose
// contribution includes it" fall out of visiting nearest-first.
func (s *walkState) resolvePositionIdentifier() {
	if !s.isIdentifierCandidate || s.positionIdentifier != nil {
		return
	}
	if def, ok := s.assignmentKeyNodeIdMap[s.selectedLeaf.Id()]; ok {
		s.positionIdentifier = Local{Identifier: s.identifierText, Definition: def}
		return
	}
	if def, ok := s.scope[s.identifierText]; ok {
		s.positionIdentifier = Local{Identifier: s.identifierText, Definition: def}
	}
}

func visitAncestor(s *walkState, node ast.XorNode) error {
	childIdx := s.childIndexOnPath(node)
	role := "selected leaf"
	if s.hasPrev {
		role = describeRole(s.idMap, node, childIdx)
	}
	s.nodes = append(s.nodes, AncestorDescriptor{Node: node, Role: role})

	switch node.Kind() {
	case ast.EachExpression:
		s.injectEachParameter(node)
	case ast.FunctionExpression:
		s.injectFunctionParameters(node)
	case ast.LetExpression:
		s.injectLetBindings(node, childIdx)
	case ast.RecordExpression, ast.RecordLiteral:
		s.injectPairs(node)
	case ast.Section:
		s.injectSectionMembers(node)
	case ast.IdentifierExpression:
		s.injectSelfReference(node)
	}

	s.resolvePositionIdentifier()

	s.prev = node
	s.hasPrev = true
	return nil
}

func (s *walkState) injectEachParameter(node ast.XorNode) {
	children := s.idMap.ChildIds(node.Id())
	if len(children) == 0 {
		return
	}
	paramXor, err := s.idMap.XorNodeById(children[0])
	if err != nil {
		return
	}
	s.addScope("_", paramXor)
}

func (s *walkState) injectFunctionParameters(node ast.XorNode) {
	children := s.idMap.ChildIds(node.Id())
	if len(children) == 0 {
		return
	}
	paramListXor, err := s.idMap.XorNodeById(children[0])
	if err != nil {
		return
	}
	for _, paramId := range s.idMap.ChildIds(paramListXor.Id()) {
		paramXor, err := s.idMap.XorNodeById(paramId)
		if err != nil {
			continue
		}
		leaf, ok := paramXor.AsLeaf()
		if !ok {
			continue
		}
		s.addScope(leaf.Text, paramXor)
	}
}

// injectLetBindings implements the let visibility rule: from inside the
// body, every binding is visible; from inside one binding's own RHS, only
// the bindings that precede it are. Assignment-key bookkeeping runs for
// every binding regardless of visibility, since a caret sitting directly
// on a binding's own name isn't "inside" its RHS or the body at all.
func (s *walkState) injectLetBindings(node ast.XorNode, comingFromIdx int) {
	children := s.idMap.ChildIds(node.Id())
	bindingCount := len(children) - 1 // last child is the body
	if bindingCount <= 0 {
		return
	}

	visibleUpTo := bindingCount
	if comingFromIdx >= 0 && comingFromIdx < bindingCount {
		visibleUpTo = comingFromIdx
	}

	for i := 0; i < bindingCount; i++ {
		pairXor, err := s.idMap.XorNodeById(children[i])
		if err != nil {
			continue
		}
		name, valueXor, ok := PairNameAndValue(s.idMap, pairXor)
		if !ok {
			continue
		}
		s.recordAssignmentKey(pairXor, valueXor)
		if i < visibleUpTo {
			s.addScope(name, valueXor)
		}
	}
}

// injectPairs handles record expressions and record literals: unlike let,
// every field is visible everywhere in the record, matching the concrete
// case of a field referencing an earlier sibling field by name.
func (s *walkState) injectPairs(node ast.XorNode) {
	for _, childId := range s.idMap.ChildIds(node.Id()) {
		pairXor, err := s.idMap.XorNodeById(childId)
		if err != nil {
			continue
		}
		name, valueXor, ok := PairNameAndValue(s.idMap, pairXor)
		if !ok {
			continue
		}
		s.recordAssignmentKey(pairXor, valueXor)
		s.addScope(name, valueXor)
	}
}

func (s *walkState) injectSectionMembers(node ast.XorNode) {
	for _, memberId := range s.idMap.ChildIds(node.Id()) {
		memberXor, err := s.idMap.XorNodeById(memberId)
		if err != nil {
			continue
		}
		pairChildren := s.idMap.ChildIds(memberXor.Id())
		if len(pairChildren) == 0 {
			continue
		}
		pairXor, err := s.idMap.XorNodeById(pairChildren[0])
		if err != nil {
			continue
		}
		name, valueXor, ok := PairNameAndValue(s.idMap, pairXor)
		if !ok {
			continue
		}
		s.recordAssignmentKey(pairXor, valueXor)
		s.addScope(name, valueXor)
	}
}

// injectSelfReference implements the `@name` sugar: when this
// IdentifierExpression's first child is the `@` marker, the nearest
// enclosing binding's own name becomes visible bound to that binding's
// value, letting the binding refer to itself.
func (s *walkState) injectSelfReference(node ast.XorNode) {
	children := s.idMap.ChildIds(node.Id())
	if len(children) == 0 {
		return
	}
	markerXor, err := s.idMap.XorNodeById(children[0])
	if err != nil {
		return
	}
	marker, ok := markerXor.AsLeaf()
	if !ok || marker.Text != "@" {
		return
	}

	cur := node.Id()
	for {
		parentId, ok := s.idMap.ParentId(cur)
		if !ok {
			return
		}
		parentXor, err := s.idMap.XorNodeById(parentId)
		if err != nil {
			return
		}
		if parentXor.Kind() == ast.IdentifierPairedExpression || parentXor.Kind() == ast.GeneralizedIdentifierPairedExpression {
			if name, valueXor, ok := PairNameAndValue(s.idMap, parentXor); ok {
				s.addScope(name, valueXor)
			}
			return
		}
		cur = parentId
	}
}

// PairNameAndValue extracts the name text and value node from an
// IdentifierPairedExpression / GeneralizedIdentifierPairedExpression. It
// returns false for a Context node (an unclosed binding has nothing
// reliable to bind) or for anything with fewer than two children.
func PairNameAndValue(idMap *ast.NodeIdMap, pair ast.XorNode) (string, ast.XorNode, bool) {
	if !pair.IsAst() {
		return "", ast.XorNode{}, false
	}
	children := idMap.ChildIds(pair.Id())
	if len(children) < 2 {
		return "", ast.XorNode{}, false
	}
	nameXor, err := idMap.XorNodeById(children[0])
	if err != nil {
		return "", ast.XorNode{}, false
	}
	nameLeaf, ok := nameXor.AsLeaf()
	if !ok {
		return "", ast.XorNode{}, false
	}
	valueXor, err := idMap.XorNodeById(children[1])
	if err != nil {
		return "", ast.XorNode{}, false
	}
	return nameLeaf.Text, valueXor, true
}

// describeRole names a node's role relative to the child slot the walk
// ascended through, for consumers reasoning about autocompletion context.
func describeRole(idMap *ast.NodeIdMap, node ast.XorNode, childIdx int) string {
	switch node.Kind() {
	case ast.LetExpression:
		children := idMap.ChildIds(node.Id())
		if childIdx == len(children)-1 {
			return "inside let body"
		}
		return "inside let binding"
	case ast.IdentifierPairedExpression, ast.GeneralizedIdentifierPairedExpression:
		if childIdx == 0 {
			return "inside binding name"
		}
		return "inside binding value"
	case ast.FunctionExpression:
		if childIdx == 0 {
			return "inside function parameter list"
		}
		return "inside function body"
	case ast.ParameterList:
		return fmt.Sprintf("inside function argument #%d", childIdx)
	case ast.EachExpression:
		if childIdx == 0 {
			return "inside each-expression parameter"
		}
		return "inside each-expression body"
	case ast.RecordExpression, ast.RecordLiteral:
		return "inside record expression"
	case ast.Section:
		return "inside section document"
	case ast.SectionMember:
		return "inside section member"
	case ast.IfExpression:
		switch childIdx {
		case 0:
			return "inside if-condition"
		case 1:
			return "inside if-then-branch"
		default:
			return "inside if-else-branch"
		}
	case ast.InvokeExpression:
		if childIdx == 0 {
			return "inside invocation target"
		}
		return "inside invocation arguments"
	case ast.ArgumentList:
		return fmt.Sprintf("inside invocation argument #%d", childIdx)
	case ast.ItemAccessExpression:
		if childIdx == 0 {
			return "inside item-access target"
		}
		return "inside item-access key"
	case ast.FieldSelector:
		if childIdx == 0 {
			return "inside field-selector target"
		}
		return "inside field-selector name"
	case ast.IdentifierExpression:
		return "inside identifier expression"
	default:
		return "inside " + node.Kind().String()
	}
}
