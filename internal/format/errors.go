package format

import (
	"fmt"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
)

// PrintInvariantViolation reports a dirty or synthesized node the printer
// cannot reassemble. Documented edit operations never produce one.
type PrintInvariantViolation struct {
	Node   ast.NodeID
	Kind   ast.Kind
	Reason string
}

func (e *PrintInvariantViolation) Error() string {
	return fmt.Sprintf("print invariant violated at node %d (%s): %s", e.Node, e.Kind, e.Reason)
}

// Code returns the diagnostic code of the failure.
func (e *PrintInvariantViolation) Code() diag.Code { return diag.PrnInvariantViolation }

func violation(id ast.NodeID, n *ast.Node, reason string) error {
	v := &PrintInvariantViolation{Node: id, Reason: reason}
	if n != nil {
		v.Kind = n.Kind
	}
	return v
}
