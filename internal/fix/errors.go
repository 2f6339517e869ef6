package fix

import (
	"errors"
	"fmt"
	"strings"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
)

// ErrAlreadyFixed is returned by a second call to Session.Fix.
var ErrAlreadyFixed = errors.New("session already fixed")

// Error reports the operation that aborted a session. Index is the
// position of the operation in the queue, Node its target.
type Error struct {
	Index int
	Op    string
	Node  ast.NodeID
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("operation #%d (%s): %v", e.Index, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Code returns the diagnostic code of the underlying failure.
func (e *Error) Code() diag.Code {
	var c interface{ Code() diag.Code }
	if errors.As(e.Err, &c) {
		return c.Code()
	}
	return diag.UnknownCode
}

// UnknownParameterNameError is a reorder request naming a parameter that the
// call's declaration (or the override names) does not have, or naming one twice.
type UnknownParameterNameError struct {
	Name     string
	Known    []string
	Method   string
	Repeated bool
}

func (e *UnknownParameterNameError) Error() string {
	if e.Repeated {
		return fmt.Sprintf("parameter %q requested more than once for %s", e.Name, e.Method)
	}
	return fmt.Sprintf("%s has no parameter %q (known: %s)", e.Method, e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownParameterNameError) Code() diag.Code { return diag.RwrUnknownParameterName }

// StaleNodeReferenceError is an operation targeting a node that is no longer
// attached to the tree, typically because an earlier operation dropped it.
type StaleNodeReferenceError struct {
	Node ast.NodeID
}

func (e *StaleNodeReferenceError) Error() string {
	return fmt.Sprintf("node %d is not part of the tree", e.Node)
}

func (e *StaleNodeReferenceError) Code() diag.Code { return diag.RwrStaleNodeReference }

// UnresolvedCallError is a reorder request on a call site whose declaration
// could not be determined.
type UnresolvedCallError struct {
	Node ast.NodeID
	Name string
}

func (e *UnresolvedCallError) Error() string {
	return fmt.Sprintf("call %s (node %d) has no resolved declaration", e.Name, e.Node)
}

func (e *UnresolvedCallError) Code() diag.Code { return diag.RwrUnresolvedCall }

// LiteralTypeError is a literal transform whose result does not fit the
// literal's type.
type LiteralTypeError struct {
	Node ast.NodeID
	Tag  ast.Tag
	Got  string
	Err  error
}

func (e *LiteralTypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s literal (node %d): %v", e.Tag, e.Node, e.Err)
	}
	return fmt.Sprintf("%s literal (node %d) needs a %s value, transform produced %s", e.Tag, e.Node, e.Tag.GoType(), e.Got)
}

func (e *LiteralTypeError) Unwrap() error { return e.Err }

func (e *LiteralTypeError) Code() diag.Code { return diag.RwrLiteralType }

// WrongNodeKindError is an operation aimed at a node of an unexpected kind.
type WrongNodeKindError struct {
	Node ast.NodeID
	Kind ast.Kind
	Want string
}

func (e *WrongNodeKindError) Error() string {
	return fmt.Sprintf("node %d is %s, want %s", e.Node, e.Kind, e.Want)
}

func (e *WrongNodeKindError) Code() diag.Code { return diag.RwrWrongNodeKind }
