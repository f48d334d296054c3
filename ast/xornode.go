package ast

import "errors"

// ErrNotAst is returned by AsAst when the XorNode holds a Context node.
var ErrNotAst = errors.New("ast: node is a Context node, not an Ast node")

// ErrNotContext is returned by AsContext when the XorNode holds an Ast node.
var ErrNotContext = errors.New("ast: node is an Ast node, not a Context node")

// XorNode is a uniform handle over either a completely parsed AstNode or an
// in-progress ContextNode. At most one of the two fields is non-nil; the
// zero XorNode holds neither and stands for "no node".
type XorNode struct {
	astNode     AstNode
	contextNode *ContextNode
}

// FromAst wraps a fully parsed AstNode.
func FromAst(n AstNode) XorNode {
	return XorNode{astNode: n}
}

// FromContext wraps a parser-context node.
func FromContext(n *ContextNode) XorNode {
	return XorNode{contextNode: n}
}

// IsAst reports whether the node is the fully parsed variant.
func (x XorNode) IsAst() bool { return x.astNode != nil }

// IsContext reports whether the node is the parser-context variant.
func (x XorNode) IsContext() bool { return x.contextNode != nil }

// IsZero reports whether x holds neither variant.
func (x XorNode) IsZero() bool { return x.astNode == nil && x.contextNode == nil }

// Id returns the node's identifier regardless of variant.
func (x XorNode) Id() NodeId {
	if x.IsAst() {
		return x.astNode.Id()
	}
	return x.contextNode.Id()
}

// Kind returns the node's kind regardless of variant.
func (x XorNode) Kind() NodeKind {
	if x.IsAst() {
		return x.astNode.Kind()
	}
	return x.contextNode.Kind()
}

// AttributeIndex returns the node's position within its parent's child
// list, regardless of variant.
func (x XorNode) AttributeIndex() int {
	if x.IsAst() {
		return x.astNode.AttributeIndex()
	}
	return x.contextNode.AttributeIndex()
}

// Range returns the node's token range regardless of variant.
func (x XorNode) Range() TokenRange {
	if x.IsAst() {
		return x.astNode.Range()
	}
	return x.contextNode.Range()
}

// AsAst returns the underlying AstNode, or ErrNotAst if x wraps a Context
// node.
func (x XorNode) AsAst() (AstNode, error) {
	if !x.IsAst() {
		return nil, ErrNotAst
	}
	return x.astNode, nil
}

// AsContext returns the underlying ContextNode, or ErrNotContext if x wraps
// an Ast node.
func (x XorNode) AsContext() (*ContextNode, error) {
	if !x.IsContext() {
		return nil, ErrNotContext
	}
	return x.contextNode, nil
}

// AsLeaf returns the underlying Leaf if x wraps an Ast leaf node.
func (x XorNode) AsLeaf() (*Leaf, bool) {
	if !x.IsAst() {
		return nil, false
	}
	leaf, ok := x.astNode.(*Leaf)
	return leaf, ok
}
