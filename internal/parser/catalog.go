package parser

import (
	"slices"
	"strings"

	"rewrite/internal/types"
)

// buildCatalog turns the declarations of every parsed file, plus the
// dependency index, into one catalog. Source declarations win over index
// entries with the same name.
func buildCatalog(all []*fileSyntax, index []*types.ClassInfo) (*types.Catalog, error) {
	known := make(map[string]struct{}, len(index)+len(all)*2)
	for _, syn := range all {
		for _, cd := range syn.classes {
			known[cd.fqn] = struct{}{}
		}
	}
	for _, ci := range index {
		known[ci.FQN] = struct{}{}
	}
	isKnown := func(fqn string) bool {
		_, ok := known[fqn]
		return ok
	}

	b := types.NewCatalogBuilder()
	for _, syn := range all {
		r := newTypeResolver(syn, isKnown)
		for _, cd := range syn.classes {
			if err := b.Add(r.classInfo(cd)); err != nil {
				return nil, err
			}
		}
	}
	for _, ci := range index {
		if b.Has(ci.FQN) {
			continue
		}
		if err := b.Add(ci); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

// typeResolver maps type names as written in one file to qualified names,
// following the Java lookup order: type parameters, enclosing classes,
// single-type imports, the file's package, on-demand imports, java.lang.
type typeResolver struct {
	pkg      string
	single   map[string]string
	onDemand []string
	known    func(fqn string) bool

	// static imports, used for unqualified calls
	staticSingle map[string][]string
	staticAll    []string
}

func newTypeResolver(syn *fileSyntax, known func(string) bool) *typeResolver {
	r := &typeResolver{
		pkg:          syn.pkg,
		single:       make(map[string]string, len(syn.imports)),
		staticSingle: make(map[string][]string),
		known:        known,
	}
	for _, imp := range syn.imports {
		switch {
		case imp.Static && imp.Wildcard:
			r.staticAll = append(r.staticAll, imp.Path)
		case imp.Static:
			owner, member := splitLast(imp.Path)
			r.staticSingle[member] = append(r.staticSingle[member], owner)
		case imp.Wildcard:
			r.onDemand = append(r.onDemand, imp.Path)
		default:
			r.single[simpleName(imp.Path)] = imp.Path
		}
	}
	return r
}

func splitLast(path string) (string, string) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// lookup resolves name in the context of scope. The bool is false when the
// name refers to nothing known; the returned string is then the best guess.
func (r *typeResolver) lookup(name string, scope *classDecl, typeParams []string) (string, bool) {
	head, rest, dotted := strings.Cut(name, ".")
	if !dotted && slices.Contains(typeParams, name) {
		return types.ObjectFQN, true
	}
	if dotted && r.known(name) {
		return name, true
	}
	base, ok := r.lookupSimple(head, scope)
	switch {
	case !ok:
		return name, false
	case dotted:
		return base + "." + rest, true
	default:
		return base, true
	}
}

func (r *typeResolver) lookupSimple(s string, scope *classDecl) (string, bool) {
	for c := scope; c != nil; c = c.outer {
		if simpleName(c.fqn) == s {
			return c.fqn, true
		}
		if nested := c.fqn + "." + s; r.known(nested) {
			return nested, true
		}
	}
	if fqn, ok := r.single[s]; ok {
		return fqn, true
	}
	if r.pkg != "" {
		if fqn := r.pkg + "." + s; r.known(fqn) {
			return fqn, true
		}
	} else if r.known(s) {
		return s, true
	}
	for _, od := range r.onDemand {
		if fqn := od + "." + s; r.known(fqn) {
			return fqn, true
		}
	}
	if fqn, ok := types.JavaLang(s); ok {
		return fqn, true
	}
	return "", false
}

// typeOf converts written syntax to a type. Unresolved class names keep
// their written spelling and report false.
func (r *typeResolver) typeOf(ts typeSyntax, scope *classDecl, typeParams []string) (types.Type, bool) {
	var (
		t  types.Type
		ok = true
	)
	switch {
	case ts.name == "":
		return types.Invalid, false
	case ts.name == "void":
		return types.Void, true
	case ts.name == "var":
		return types.Invalid, false
	case types.IsPrimitiveName(ts.name):
		t = types.Primitive(ts.name)
	default:
		var fqn string
		fqn, ok = r.lookup(ts.name, scope, typeParams)
		t = types.Class(fqn)
	}
	for range ts.dims {
		t = types.ArrayOf(t)
	}
	return t, ok
}

// typeParamsOf collects the type variables visible inside md (or inside the
// class body when md is nil).
func typeParamsOf(cd *classDecl, md *methodDecl) []string {
	var out []string
	if md != nil {
		out = append(out, md.typeParams...)
	}
	for c := cd; c != nil; c = c.outer {
		out = append(out, c.typeParams...)
	}
	return out
}

func (r *typeResolver) classInfo(cd *classDecl) *types.ClassInfo {
	ci := &types.ClassInfo{
		FQN:       cd.fqn,
		Interface: cd.iface,
		Origin:    types.OriginSource,
	}
	classParams := typeParamsOf(cd, nil)
	switch {
	case cd.super.valid():
		ci.Super, _ = r.lookup(cd.super.name, cd.outer, classParams)
	case !cd.iface && cd.fqn != types.ObjectFQN:
		ci.Super = types.ObjectFQN
	}
	for _, it := range cd.ifaces {
		fqn, _ := r.lookup(it.name, cd.outer, classParams)
		ci.Interfaces = append(ci.Interfaces, fqn)
	}
	for _, f := range cd.fields {
		t, _ := r.typeOf(f.typ, cd, classParams)
		ci.Fields = append(ci.Fields, types.Field{Name: f.name, Type: t, Static: f.static})
	}

	hasCtor := false
	for _, md := range cd.methods {
		tps := typeParamsOf(cd, md)
		m := &types.Method{
			Name:        md.name,
			Static:      md.static,
			Constructor: md.ctor,
			Return:      types.Void,
		}
		if md.ret.valid() {
			m.Return, _ = r.typeOf(md.ret, cd, tps)
		}
		for _, pd := range md.params {
			t, _ := r.typeOf(pd.typ, cd, tps)
			if pd.variadic {
				t = types.ArrayOf(t)
			}
			m.Params = append(m.Params, types.Param{Name: pd.name, Type: t, Variadic: pd.variadic})
		}
		md.resolved = m
		hasCtor = hasCtor || md.ctor
		ci.Methods = append(ci.Methods, m)
	}
	if !hasCtor && !cd.iface {
		ci.Methods = append(ci.Methods, &types.Method{Name: "<init>", Constructor: true, Return: types.Void})
	}
	return ci
}
