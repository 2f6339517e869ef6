package fix

import (
	"fmt"
	"slices"
	"strings"

	"rewrite/internal/ast"
	"rewrite/internal/types"
)

// Reorder rearranges the arguments of one call site by formal parameter
// name. A trailing variadic parameter names the whole group of arguments it
// received. Arguments whose parameter is not listed are dropped.
type Reorder struct {
	CallSite ast.NodeID
	Order    []string
	// OriginalNames replace the declaration's parameter names positionally,
	// for declarations whose names are missing or unhelpful.
	OriginalNames []string
}

// ReorderArguments builds a reorder of call into the given parameter order.
func ReorderArguments(call ast.NodeID, names ...string) *Reorder {
	return &Reorder{CallSite: call, Order: slices.Clone(names)}
}

// WithOriginalNames sets the names used instead of the resolved ones.
func (r *Reorder) WithOriginalNames(names ...string) *Reorder {
	r.OriginalNames = slices.Clone(names)
	return r
}

func (r *Reorder) Target() ast.NodeID { return r.CallSite }

func (r *Reorder) String() string {
	return fmt.Sprintf("reorder node %d to (%s)", r.CallSite, strings.Join(r.Order, ", "))
}

// formalNames applies the override names over the declaration's own.
func (r *Reorder) formalNames(m *types.Method) []string {
	names := m.ParamNames()
	for i := range min(len(names), len(r.OriginalNames)) {
		names[i] = r.OriginalNames[i]
	}
	return names
}

func (r *Reorder) validate(u *ast.Unit) error {
	_, name, m, err := callSite(u.Tree, r.CallSite)
	if err != nil {
		return err
	}
	if m == nil {
		return &UnresolvedCallError{Node: r.CallSite, Name: name}
	}
	known := r.formalNames(m)
	seen := make(map[string]struct{}, len(r.Order))
	for _, want := range r.Order {
		if !slices.Contains(known, want) {
			return &UnknownParameterNameError{Name: want, Known: known, Method: m.Signature()}
		}
		if _, dup := seen[want]; dup {
			return &UnknownParameterNameError{Name: want, Known: known, Method: m.Signature(), Repeated: true}
		}
		seen[want] = struct{}{}
	}
	return nil
}

func (r *Reorder) apply(t *ast.Tree) error {
	args, name, m, err := callSite(t, r.CallSite)
	if err != nil {
		return err
	}
	if m == nil {
		return &UnresolvedCallError{Node: r.CallSite, Name: name}
	}
	if _, err := attached(t, args); err != nil {
		return err
	}
	current := t.Node(args).Children
	byName := groupArguments(r.formalNames(m), m.IsVariadic(), current)

	next := make([]ast.NodeID, 0, len(current))
	for _, want := range r.Order {
		next = append(next, byName[want]...)
	}
	if slices.Equal(next, current) {
		return nil
	}
	t.SetChildren(args, next)
	t.MarkDirty(args)
	return nil
}

// groupArguments zips formal names with the call's arguments. When the last
// formal is variadic it takes every remaining argument, possibly none.
func groupArguments(formals []string, variadic bool, args []ast.NodeID) map[string][]ast.NodeID {
	out := make(map[string][]ast.NodeID, len(formals))
	for i, name := range formals {
		if i >= len(args) {
			break
		}
		if variadic && i == len(formals)-1 {
			out[name] = args[i:]
			break
		}
		out[name] = args[i : i+1]
	}
	return out
}
