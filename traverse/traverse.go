// Package traverse implements a single generic breadth-first walk over a
// node-id map. The inspection engine (package inspect) instantiates it to
// climb the ancestor chain from a caret leaf to the document root; the
// outline extractor (package outline) instantiates the very same driver to
// walk downward from the root to every binding-bearing descendant. Neither
// caller re-implements BFS bookkeeping — the frontier/visit/expand loop
// lives here exactly once and is shared by both.
package traverse

import "github.com/shibukawa/mfx/ast"

// Expand returns the next frontier reachable from node: the parent for an
// upward walk, or matching children for a downward one.
type Expand func(node ast.XorNode) ([]ast.XorNode, error)

// Visit mutates state in response to a newly reached node. Returning an
// error aborts the walk.
type Visit[S any] func(state *S, node ast.XorNode) error

// EarlyExit reports whether the walk can stop before exhausting the
// frontier, e.g. once an inspection has already resolved its target.
type EarlyExit[S any] func(state *S) bool

// Walk visits root, then repeatedly expands and visits each node in the
// current frontier in FIFO order, until the frontier is empty, earlyExit
// reports true, or a visit fails. earlyExit may be nil to always walk to
// exhaustion.
func Walk[S any](state *S, root ast.XorNode, expand Expand, visit Visit[S], earlyExit EarlyExit[S]) error {
	if err := visit(state, root); err != nil {
		return err
	}
	if earlyExit != nil && earlyExit(state) {
		return nil
	}

	frontier := []ast.XorNode{root}
	for len(frontier) > 0 {
		var next []ast.XorNode
		for _, node := range frontier {
			children, err := expand(node)
			if err != nil {
				return err
			}
			next = append(next, children...)
		}
		for _, node := range next {
			if err := visit(state, node); err != nil {
				return err
			}
			if earlyExit != nil && earlyExit(state) {
				return nil
			}
		}
		frontier = next
	}
	return nil
}

// ParentExpand returns an Expand function that climbs one step toward the
// root via idMap, yielding zero nodes once the root itself has no parent.
func ParentExpand(idMap *ast.NodeIdMap) Expand {
	return func(node ast.XorNode) ([]ast.XorNode, error) {
		parent := idMap.MaybeParentXor(node.Id())
		if parent.IsZero() {
			return nil, nil
		}
		return []ast.XorNode{parent}, nil
	}
}

// ChildExpand returns an Expand function that descends to node's children
// whose kind is in kinds, via idMap. Passing no kinds matches every child.
func ChildExpand(idMap *ast.NodeIdMap, kinds ...ast.NodeKind) Expand {
	return func(node ast.XorNode) ([]ast.XorNode, error) {
		if len(kinds) == 0 {
			return idMap.ChildXorNodes(node.Id())
		}
		return idMap.ChildIdsOfKind(node.Id(), kinds...)
	}
}
