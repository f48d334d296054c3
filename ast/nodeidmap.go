package ast

import "fmt"

// ErrNodeNotFound is a fatal invariant violation: the caller asked for a
// node id that does not exist in either index.
var ErrNodeNotFound = fmt.Errorf("ast: node not found")

// ErrWrongVariant is a fatal invariant violation: the caller asked for an
// Ast node but the id names a Context node, or vice versa.
var ErrWrongVariant = fmt.Errorf("ast: node exists but is the wrong variant")

// NodeIdMap is the document-wide, id-indexed structural index a parser
// builds and the inspection engine reads. Every operation except
// MaybeRightMostLeafWhere is O(1) or O(children); MaybeRightMostLeafWhere
// is O(1) when the parser cached the node's rightmost leaf and otherwise
// walks the subtree.
type NodeIdMap struct {
	astNodeById     map[NodeId]AstNode
	contextNodeById map[NodeId]*ContextNode
	parentIdById    map[NodeId]NodeId
	childIdsById    map[NodeId][]NodeId
	rightMostLeaf   map[NodeId]NodeId
}

// New returns an empty NodeIdMap ready for a parser to populate via AddAst /
// AddContext / SetParent.
func New() *NodeIdMap {
	return &NodeIdMap{
		astNodeById:     make(map[NodeId]AstNode),
		contextNodeById: make(map[NodeId]*ContextNode),
		parentIdById:    make(map[NodeId]NodeId),
		childIdsById:    make(map[NodeId][]NodeId),
		rightMostLeaf:   make(map[NodeId]NodeId),
	}
}

// AddAst registers a fully parsed AstNode under its own id.
func (m *NodeIdMap) AddAst(n AstNode) {
	m.astNodeById[n.Id()] = n
}

// AddContext registers a parser-context node under its own id.
func (m *NodeIdMap) AddContext(n *ContextNode) {
	m.contextNodeById[n.Id()] = n
}

// SetParent records that child is the next ordered child of parent. Child
// order matches the order SetParent is called in, which the parser
// guarantees is source order.
func (m *NodeIdMap) SetParent(parent, child NodeId) {
	m.parentIdById[child] = parent
	m.childIdsById[parent] = append(m.childIdsById[parent], child)
}

// ContainsId reports whether id is registered as either variant.
func (m *NodeIdMap) ContainsId(id NodeId) bool {
	if _, ok := m.astNodeById[id]; ok {
		return true
	}
	_, ok := m.contextNodeById[id]
	return ok
}

// ExpectAst returns the AstNode for id, or ErrNodeNotFound / ErrWrongVariant
// if the invariant that id names a registered Ast node doesn't hold. Callers
// use this when the presence and variant of id is a precondition, not a
// possibility to branch on.
func (m *NodeIdMap) ExpectAst(id NodeId) (AstNode, error) {
	if n, ok := m.astNodeById[id]; ok {
		return n, nil
	}
	if _, ok := m.contextNodeById[id]; ok {
		return nil, fmt.Errorf("%w: id %d is a Context node", ErrWrongVariant, id)
	}
	return nil, fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
}

// ExpectContext returns the ContextNode for id, or ErrNodeNotFound /
// ErrWrongVariant if the invariant doesn't hold.
func (m *NodeIdMap) ExpectContext(id NodeId) (*ContextNode, error) {
	if n, ok := m.contextNodeById[id]; ok {
		return n, nil
	}
	if _, ok := m.astNodeById[id]; ok {
		return nil, fmt.Errorf("%w: id %d is an Ast node", ErrWrongVariant, id)
	}
	return nil, fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
}

// XorNodeById returns the XorNode for id in whichever variant it was
// registered as.
func (m *NodeIdMap) XorNodeById(id NodeId) (XorNode, error) {
	if n, ok := m.astNodeById[id]; ok {
		return FromAst(n), nil
	}
	if n, ok := m.contextNodeById[id]; ok {
		return FromContext(n), nil
	}
	return XorNode{}, fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
}

// ParentId returns the parent of id and true, or false at the root.
func (m *NodeIdMap) ParentId(id NodeId) (NodeId, bool) {
	p, ok := m.parentIdById[id]
	return p, ok
}

// MaybeParentXor returns the XorNode for id's parent, preferring the Ast
// form when both indexes happen to contain an entry for that id (they never
// should, by the NodeIdMap invariant, but preferring Ast keeps this
// defensive rather than panicking on a corrupt map). Returns the zero
// XorNode at the root.
func (m *NodeIdMap) MaybeParentXor(id NodeId) XorNode {
	parentId, ok := m.parentIdById[id]
	if !ok {
		return XorNode{}
	}
	if n, ok := m.astNodeById[parentId]; ok {
		return FromAst(n)
	}
	if n, ok := m.contextNodeById[parentId]; ok {
		return FromContext(n)
	}
	return XorNode{}
}

// ChildIds returns the ordered child ids of id, or nil if id has none.
func (m *NodeIdMap) ChildIds(id NodeId) []NodeId {
	return m.childIdsById[id]
}

// ChildXorNodes returns the ordered XorNode children of id.
func (m *NodeIdMap) ChildXorNodes(id NodeId) ([]XorNode, error) {
	ids := m.childIdsById[id]
	result := make([]XorNode, 0, len(ids))
	for _, childId := range ids {
		x, err := m.XorNodeById(childId)
		if err != nil {
			return nil, err
		}
		result = append(result, x)
	}
	return result, nil
}

// ChildIdsOfKind returns the children of id whose kind is in kinds,
// preserving child order.
func (m *NodeIdMap) ChildIdsOfKind(id NodeId, kinds ...NodeKind) ([]XorNode, error) {
	set := make(map[NodeKind]struct{}, len(kinds))
	for _, k := range kinds {
		set[k] = struct{}{}
	}

	var result []XorNode
	for _, childId := range m.childIdsById[id] {
		x, err := m.XorNodeById(childId)
		if err != nil {
			return nil, err
		}
		if _, ok := set[x.Kind()]; ok {
			result = append(result, x)
		}
	}
	return result, nil
}

// MaybeRightMostLeafWhere returns the deepest-right Ast leaf under id for
// which predicate holds, or false if none does. This is how a field-access
// chain like a[b][c] locates the final name in the chain: the rightmost
// leaf of the subtree rooted at the outermost access expression.
func (m *NodeIdMap) MaybeRightMostLeafWhere(id NodeId, predicate func(*Leaf) bool) (*Leaf, bool) {
	if cachedId, ok := m.rightMostLeaf[id]; ok {
		if n, ok := m.astNodeById[cachedId]; ok {
			if leaf, ok := n.(*Leaf); ok && predicate(leaf) {
				return leaf, true
			}
		}
	}

	var rightmost func(NodeId) *Leaf
	rightmost = func(cur NodeId) *Leaf {
		children := m.childIdsById[cur]
		for i := len(children) - 1; i >= 0; i-- {
			if leaf := rightmost(children[i]); leaf != nil {
				return leaf
			}
		}
		if n, ok := m.astNodeById[cur]; ok {
			if leaf, ok := n.(*Leaf); ok && predicate(leaf) {
				return leaf
			}
		}
		return nil
	}

	if leaf := rightmost(id); leaf != nil {
		return leaf, true
	}
	return nil, false
}

// CacheRightMostLeaf records the precomputed rightmost leaf id of the
// subtree rooted at id, letting callers that already know the answer (e.g.
// the parser, right after closing a production) avoid a second walk.
func (m *NodeIdMap) CacheRightMostLeaf(id, leafId NodeId) {
	m.rightMostLeaf[id] = leafId
}

// CachedRightMostLeaf returns a previously cached rightmost leaf id for id,
// if any.
func (m *NodeIdMap) CachedRightMostLeaf(id NodeId) (NodeId, bool) {
	leafId, ok := m.rightMostLeaf[id]
	return leafId, ok
}
