package driver

import (
	"errors"
	"fmt"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/fix"
	"rewrite/internal/source"
)

// BindError is a recipe rule that could not be turned into an operation
// for a particular call site.
type BindError struct {
	Section string
	Rule    int // 1-based
	Node    ast.NodeID
	Err     error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("[[%s]] #%d: %v", e.Section, e.Rule, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

func (e *BindError) Code() diag.Code { return diag.RwrLiteralType }

// Diagnostics turns the failed results of Apply into diagnostics located at
// the node the failing operation targeted. results must be in batch order.
func Diagnostics(b *Batch, results []FileResult) *diag.Bag {
	bag := diag.NewBag(0)
	for i := range results {
		r := &results[i]
		if r.Err == nil || i >= len(b.Units) {
			continue
		}
		u := b.Units[i]
		code := diag.UnknownCode
		var coded interface{ Code() diag.Code }
		if errors.As(r.Err, &coded) {
			code = coded.Code()
		}
		d := diag.NewError(code, errorSpan(u, r.Err), rootMessage(r.Err))
		var stale *fix.StaleNodeReferenceError
		if errors.As(r.Err, &stale) {
			d = d.WithNote(nodeSpan(u, stale.Node), "node was detached by an earlier operation")
		}
		bag.Add(d)
	}
	bag.Sort()
	return bag
}

func errorSpan(u *ast.Unit, err error) source.Span {
	var fe *fix.Error
	if errors.As(err, &fe) {
		return nodeSpan(u, fe.Node)
	}
	var be *BindError
	if errors.As(err, &be) {
		return nodeSpan(u, be.Node)
	}
	return fileSpan(u)
}

func nodeSpan(u *ast.Unit, id ast.NodeID) source.Span {
	n := u.Tree.Node(id)
	if n == nil || !n.HasSource() {
		return fileSpan(u)
	}
	return n.Span
}

func fileSpan(u *ast.Unit) source.Span {
	if u.File == nil {
		return source.Span{}
	}
	return source.Span{File: u.File.ID}
}

// rootMessage drops the file and operation prefixes added on the way up;
// the diagnostic location already carries them.
func rootMessage(err error) string {
	var fe *fix.Error
	if errors.As(err, &fe) && fe.Err != nil {
		return fe.Op + ": " + fe.Err.Error()
	}
	var be *BindError
	if errors.As(err, &be) {
		return be.Error()
	}
	return err.Error()
}
