package ast

import "iter"

// Preorder yields root and all its attached descendants in pre-order.
// The sequence is restartable; each range walks the tree afresh.
func (t *Tree) Preorder(root NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if t.Node(root) == nil {
			return
		}
		stack := []NodeID{root}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(id) {
				return
			}
			kids := t.Node(id).Children
			for i := len(kids) - 1; i >= 0; i-- {
				stack = append(stack, kids[i])
			}
		}
	}
}

// Ancestors yields the parent chain of id, nearest first.
func (t *Tree) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		n := t.Node(id)
		for n != nil && n.Parent.IsValid() {
			if !yield(n.Parent) {
				return
			}
			n = t.Node(n.Parent)
		}
	}
}

// Reachable reports whether id is attached to the tree root.
func (t *Tree) Reachable(id NodeID) bool {
	if t.Node(id) == nil {
		return false
	}
	if id == t.Root {
		return true
	}
	for a := range t.Ancestors(id) {
		if a == t.Root {
			return true
		}
	}
	return false
}

// Enclosing returns the nearest ancestor of id with the given kind.
func (t *Tree) Enclosing(id NodeID, kind Kind) (NodeID, bool) {
	for a := range t.Ancestors(id) {
		if t.Node(a).Kind == kind {
			return a, true
		}
	}
	return NoNodeID, false
}
