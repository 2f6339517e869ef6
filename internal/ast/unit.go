package ast

import (
	"rewrite/internal/source"
	"rewrite/internal/types"
)

// Import is one import declaration of a unit.
type Import struct {
	Path     string // "a.A", or "a" for "a.*"
	Static   bool
	Wildcard bool
	Node     NodeID
}

// Unit is one parsed and attributed compilation unit. It is not modified
// after parsing; edits happen on a clone of Tree.
type Unit struct {
	File    *source.File
	Tree    *Tree
	Root    NodeID
	Package string
	Imports []Import
	// Types lists the top-level class declarations in source order.
	Types []NodeID
	// Catalog holds every declaration visible to this unit. Shared, read-only.
	Catalog *types.Catalog
}

// Source returns the complete original text.
func (u *Unit) Source() string {
	if u.File == nil {
		return ""
	}
	return string(u.File.Content)
}

// Invocations lists every method invocation in pre-order.
func (u *Unit) Invocations() []NodeID {
	var out []NodeID
	for id := range u.Tree.Preorder(u.Root) {
		if u.Tree.Node(id).Kind == KindInvocation {
			out = append(out, id)
		}
	}
	return out
}
