package match

import (
	"iter"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"rewrite/internal/ast"
	"rewrite/internal/types"
)

// Matches reports whether the resolved declaration m satisfies the pattern.
func (p *Pattern) Matches(m *types.Method) bool {
	if m == nil {
		return false
	}
	if !p.matchOwner(nfc(m.Owner)) {
		return false
	}
	if ok, _ := path.Match(p.name, nfc(m.Name)); !ok {
		return false
	}
	if p.anyTail {
		if len(m.Params) < len(p.params) {
			return false
		}
	} else if len(m.Params) != len(p.params) {
		return false
	}
	for i, pm := range p.params {
		if !pm.matches(m.Params[i]) {
			return false
		}
	}
	return true
}

func (p *Pattern) matchOwner(owner string) bool {
	switch p.owner {
	case ownerAny:
		return true
	case ownerExact:
		return owner == p.ownerID
	case ownerSimple:
		return types.SimpleName(owner) == p.ownerID
	case ownerPackage:
		return types.PackageOf(owner) == p.ownerID
	case ownerSubpackages:
		return strings.HasPrefix(owner, p.ownerID+".")
	default:
		return false
	}
}

func (pm paramMatcher) matches(formal types.Param) bool {
	if pm.any {
		return true
	}
	t := formal.Type
	dims := pm.dims
	if pm.variadic {
		dims++
	}
	for range dims {
		if !t.IsArray() {
			return false
		}
		t = *t.Elem
	}
	if t.IsArray() || !t.IsValid() {
		return false
	}
	want := logicalName(pm.name)
	got := logicalName(t.Name)
	if want == got {
		return true
	}
	// простое имя в шаблоне совпадает с любым пакетом
	return !strings.Contains(pm.name, ".") && types.SimpleName(got) == pm.name
}

// logicalName folds primitives into their boxes and java.lang simple names
// into qualified ones, so int, Integer and java.lang.Integer compare equal.
func logicalName(name string) string {
	name = nfc(name)
	if box, ok := types.Box(name); ok {
		return box
	}
	if !strings.Contains(name, ".") {
		if fqn, ok := types.JavaLang(name); ok {
			return fqn
		}
	}
	return name
}

func nfc(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Find lazily yields the call sites of u, in pre-order, whose resolved
// declaration matches p. Method invocations and instance creations are call
// sites; unresolved ones never match. The sequence is restartable.
func Find(u *ast.Unit, p *Pattern) iter.Seq[ast.NodeID] {
	return func(yield func(ast.NodeID) bool) {
		for id := range u.Tree.Preorder(u.Root) {
			if p.Matches(Resolved(u.Tree, id)) && !yield(id) {
				return
			}
		}
	}
}

// FindAll collects Find into a slice.
func FindAll(u *ast.Unit, p *Pattern) []ast.NodeID {
	return slices.Collect(Find(u, p))
}

// Resolved returns the declaration a call site node was resolved to, or nil
// for anything else.
func Resolved(tree *ast.Tree, id ast.NodeID) *types.Method {
	if inv := tree.Invocation(id); inv != nil {
		return inv.Method
	}
	if nc := tree.NewClass(id); nc != nil {
		return nc.Ctor
	}
	return nil
}
