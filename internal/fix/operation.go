package fix

import (
	"rewrite/internal/ast"
	"rewrite/internal/types"
)

// Operation is one queued tree edit.
//
// validate checks the operation against the unmodified unit; apply performs
// it on the session's working tree, which already holds the effects of every
// earlier operation.
type Operation interface {
	String() string
	// Target is the node the operation edits.
	Target() ast.NodeID
	validate(u *ast.Unit) error
	apply(t *ast.Tree) error
}

// attached returns the node for id when it is still reachable from the root.
func attached(t *ast.Tree, id ast.NodeID) (*ast.Node, error) {
	if !t.Reachable(id) {
		return nil, &StaleNodeReferenceError{Node: id}
	}
	return t.Node(id), nil
}

// callSite extracts the argument list and resolved declaration of an
// invocation or instance creation.
func callSite(t *ast.Tree, id ast.NodeID) (args ast.NodeID, name string, m *types.Method, err error) {
	n, err := attached(t, id)
	if err != nil {
		return ast.NoNodeID, "", nil, err
	}
	switch n.Kind {
	case ast.KindInvocation:
		inv := t.Invocation(id)
		return inv.Args, inv.Name, inv.Method, nil
	case ast.KindNewClass:
		nc := t.NewClass(id)
		return nc.Args, "new " + nc.Class.SimpleName(), nc.Ctor, nil
	default:
		return ast.NoNodeID, "", nil, &WrongNodeKindError{Node: id, Kind: n.Kind, Want: "a method invocation"}
	}
}
