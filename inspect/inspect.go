// Package inspect answers "what is in scope, and what does the caret
// resolve to" for a single position in a parsed document. It is the
// engine the hover renderer and the CLI's inspect subcommand both sit on
// top of: it never touches source text directly, only the NodeIdMap a
// parser produced.
package inspect

import (
	"fmt"

	"github.com/shibukawa/mfx/ast"
	"github.com/shibukawa/mfx/traverse"
)

// PositionIdentifier is the outcome of resolving the identifier under the
// caret, if any. It is either Local (bound by some enclosing scope) or
// Undefined (looks like an identifier but nothing binds it).
type PositionIdentifier interface {
	positionIdentifier()
}

// Local is a caret identifier that resolved to a binding somewhere on the
// ancestor chain.
type Local struct {
	Identifier string
	Definition ast.XorNode
}

func (Local) positionIdentifier() {}

// Undefined is a caret identifier that never matched any scope
// contribution while walking to the document root.
type Undefined struct {
	Identifier string
}

func (Undefined) positionIdentifier() {}

// AncestorDescriptor records one step of the walk from the caret's leaf to
// the document root: the node itself and a human-readable description of
// its role relative to the child the walk arrived from.
type AncestorDescriptor struct {
	Node ast.XorNode
	Role string
}

// Inspected is the immutable result of a successful inspection.
type Inspected struct {
	Nodes                   []AncestorDescriptor
	Scope                   map[string]ast.XorNode
	MaybePositionIdentifier PositionIdentifier
}

// DefaultInspection is returned when no leaf precedes the caret: an empty
// walk, an empty scope, no resolved identifier.
func DefaultInspection() *Inspected {
	return &Inspected{Scope: make(map[string]ast.XorNode)}
}

// TryFrom selects the leaf immediately before position and walks its
// ancestor chain to the document root, accumulating scope and resolving
// the caret's identifier (if it is on one) along the way.
func TryFrom(idMap *ast.NodeIdMap, leafIds []ast.NodeId, position ast.Position) (*Inspected, error) {
	leaf, ok := selectLeaf(idMap, leafIds, position)
	if !ok {
		return DefaultInspection(), nil
	}

	s := &walkState{
		idMap:                  idMap,
		scope:                  make(map[string]ast.XorNode),
		assignmentKeyNodeIdMap: make(map[ast.NodeId]ast.XorNode),
		selectedLeaf:           leaf,
	}
	s.identifierText, s.isIdentifierCandidate = effectiveIdentifier(idMap, leaf)

	if err := traverse.Walk(s, leaf, traverse.ParentExpand(idMap), visitAncestor, nil); err != nil {
		return nil, fmt.Errorf("inspect: %w", err)
	}

	if s.isIdentifierCandidate && s.positionIdentifier == nil {
		s.positionIdentifier = Undefined{Identifier: s.identifierText}
	}

	return &Inspected{Nodes: s.nodes, Scope: s.scope, MaybePositionIdentifier: s.positionIdentifier}, nil
}

// selectLeaf implements the leaf selector: the rightmost leaf whose start
// strictly precedes position. A leaf starting exactly at position is not a
// candidate — the caret sits to that leaf's immediate left.
func selectLeaf(idMap *ast.NodeIdMap, leafIds []ast.NodeId, position ast.Position) (ast.XorNode, bool) {
	var best ast.XorNode
	found := false
	for _, id := range leafIds {
		x, err := idMap.XorNodeById(id)
		if err != nil {
			continue
		}
		start := x.Range().Start.Position
		if !start.Before(position) {
			continue
		}
		if !found || x.Range().Start.CodeUnit > best.Range().Start.CodeUnit {
			best = x
			found = true
		}
	}
	return best, found
}

// effectiveIdentifier returns the text a caret leaf should be resolved
// against, and whether the leaf is identifier-like at all. An `@` marker
// resolves through its IdentifierExpression parent to the name beside it.
func effectiveIdentifier(idMap *ast.NodeIdMap, leaf ast.XorNode) (string, bool) {
	l, ok := leaf.AsLeaf()
	if !ok {
		return "", false
	}
	switch l.Kind() {
	case ast.Identifier, ast.GeneralizedIdentifier:
		return l.Text, true
	case ast.Constant:
		if l.Text != "@" {
			return "", false
		}
		parent := idMap.MaybeParentXor(leaf.Id())
		if parent.IsZero() || parent.Kind() != ast.IdentifierExpression {
			return "", false
		}
		children := idMap.ChildIds(parent.Id())
		if len(children) < 2 {
			return "", false
		}
		nameXor, err := idMap.XorNodeById(children[1])
		if err != nil {
			return "", false
		}
		nameLeaf, ok := nameXor.AsLeaf()
		if !ok {
			return "", false
		}
		return nameLeaf.Text, true
	default:
		return "", false
	}
}
