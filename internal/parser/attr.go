package parser

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/source"
	"rewrite/internal/token"
	"rewrite/internal/types"
)

// attributor walks one primary file after the catalog is complete and
// records static types and selected overloads on the tree payloads.
type attributor struct {
	syn  *fileSyntax
	tree *ast.Tree
	cat  *types.Catalog
	res  *typeResolver
	rep  diag.Reporter
	log  *zap.Logger

	class  *classDecl
	method *methodDecl
	scopes []map[string]types.Type

	resolved   int
	unresolved int
}

func newAttributor(syn *fileSyntax, cat *types.Catalog, rep diag.Reporter, log *zap.Logger) *attributor {
	known := func(fqn string) bool {
		_, ok := cat.Lookup(fqn)
		return ok
	}
	return &attributor{
		syn:  syn,
		tree: syn.tree,
		cat:  cat,
		res:  newTypeResolver(syn, known),
		rep:  rep,
		log:  log,
	}
}

func (a *attributor) run() {
	a.visit(a.syn.root)
	a.log.Debug("attributed file",
		zap.String("path", a.syn.file.Path),
		zap.Int("resolved", a.resolved),
		zap.Int("unresolved", a.unresolved))
}

func (a *attributor) push() { a.scopes = append(a.scopes, make(map[string]types.Type, 4)) }
func (a *attributor) pop()  { a.scopes = a.scopes[:len(a.scopes)-1] }

func (a *attributor) declare(name string, t types.Type) {
	if len(a.scopes) == 0 {
		a.push()
	}
	a.scopes[len(a.scopes)-1][name] = t
}

func (a *attributor) local(name string) (types.Type, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if t, ok := a.scopes[i][name]; ok {
			return t, true
		}
	}
	return types.Invalid, false
}

// visit handles declarations and statements; expressions go through expr.
func (a *attributor) visit(id ast.NodeID) {
	n := a.tree.Node(id)
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindClass:
		prevClass, prevMethod := a.class, a.method
		a.class, a.method = a.syn.classByNode[id], nil
		if nd := a.tree.Name(id); nd != nil {
			nd.Type = types.Class(nd.Name)
		}
		a.push()
		a.visitKids(n)
		a.pop()
		a.class, a.method = prevClass, prevMethod

	case ast.KindMethod:
		prev := a.method
		a.method = a.syn.methodByNode[id]
		a.push()
		a.visitKids(n)
		a.pop()
		a.method = prev

	case ast.KindParam:
		if len(n.Children) == 0 {
			return
		}
		nd := a.tree.Name(id)
		t := a.refType(n.Children[0])
		if nd.Has(ast.NameVariadic) && t.IsValid() {
			t = types.ArrayOf(t)
		}
		nd.Type = t
		a.declare(nd.Name, t)

	case ast.KindField, ast.KindLocalVar:
		if len(n.Children) == 0 {
			return
		}
		declared := a.refType(n.Children[0])
		for _, v := range n.Children[1:] {
			a.variable(v, declared, n.Kind == ast.KindLocalVar)
		}

	case ast.KindBlock, ast.KindVerbatim:
		a.push()
		a.visitKids(n)
		a.pop()

	case ast.KindTypeRef:
		a.refType(id)

	default:
		if n.Kind.IsExpr() {
			a.expr(id)
			return
		}
		a.visitKids(n)
	}
}

func (a *attributor) visitKids(n *ast.Node) {
	for _, k := range n.Children {
		a.visit(k)
	}
}

func (a *attributor) variable(v ast.NodeID, declared types.Type, local bool) {
	nd := a.tree.Name(v)
	vn := a.tree.Node(v)
	t := declared
	if dims := a.syn.extraDims[v]; dims > 0 && t.IsValid() {
		for range dims {
			t = types.ArrayOf(t)
		}
	}
	if len(vn.Children) > 0 {
		init := a.expr(vn.Children[0])
		if !t.IsValid() {
			t = init // var
		}
	}
	nd.Type = t
	if local {
		a.declare(nd.Name, t)
	}
}

// refType resolves a TypeRef node. Names the resolver cannot place yield
// Invalid, which later converts leniently during overload selection.
func (a *attributor) refType(id ast.NodeID) types.Type {
	nd := a.tree.Name(id)
	ts, ok := a.syn.typeRefs[id]
	if nd == nil || !ok {
		return types.Invalid
	}
	t, resolved := a.res.typeOf(ts, a.class, typeParamsOf(a.class, a.method))
	if !resolved {
		t = types.Invalid
	}
	nd.Type = t
	return t
}

func (a *attributor) expr(id ast.NodeID) types.Type {
	n := a.tree.Node(id)
	if n == nil {
		return types.Invalid
	}
	switch n.Kind {
	case ast.KindLiteral:
		return a.tree.Literal(id).Tag.Type()

	case ast.KindIdent:
		nd := a.tree.Name(id)
		nd.Type = a.ident(nd.Name)
		return nd.Type

	case ast.KindThis:
		if a.class == nil {
			return types.Invalid
		}
		return types.Class(a.class.fqn)

	case ast.KindFieldAccess:
		nd := a.tree.Name(id)
		nd.Type = a.fieldAccess(id, nd.Name, n.Children[0])
		return nd.Type

	case ast.KindInvocation:
		return a.invocation(id)

	case ast.KindNewClass:
		return a.newClass(id, n)

	case ast.KindBinary:
		lt := a.expr(n.Children[0])
		rt := a.expr(n.Children[1])
		return binaryType(a.tree.Op(id).Op, lt, rt)

	case ast.KindUnary:
		t := a.expr(n.Children[0])
		switch op := a.tree.Op(id); op.Op {
		case token.Bang:
			return types.Primitive("boolean")
		case token.PlusPlus, token.MinusMinus:
			return t
		default:
			return promote(t, types.Primitive("int"))
		}

	case ast.KindParens:
		return a.expr(n.Children[0])

	case ast.KindAssign:
		lt := a.expr(n.Children[0])
		a.expr(n.Children[1])
		return lt

	case ast.KindTernary:
		a.expr(n.Children[0])
		return ternaryType(a.expr(n.Children[1]), a.expr(n.Children[2]))

	case ast.KindArrayAccess:
		arr := a.expr(n.Children[0])
		a.expr(n.Children[1])
		if arr.IsArray() {
			return *arr.Elem
		}
		return types.Invalid

	case ast.KindCast:
		t := a.refType(n.Children[0])
		a.expr(n.Children[1])
		return t

	case ast.KindTypeRef:
		return a.refType(id)

	default:
		// lambdas, method references, array creation, switch expressions
		a.visit(id)
		return types.Invalid
	}
}

func (a *attributor) ident(name string) types.Type {
	if name == "super" {
		if ci, ok := a.currentInfo(); ok && ci.Super != "" {
			return types.Class(ci.Super)
		}
		return types.Class(types.ObjectFQN)
	}
	if t, ok := a.local(name); ok {
		return t
	}
	for c := a.class; c != nil; c = c.outer {
		if f, ok := a.cat.FieldOf(c.fqn, name); ok {
			return f.Type
		}
	}
	// имя класса как квалификатор статического вызова
	if fqn, ok := a.res.lookup(name, a.class, typeParamsOf(a.class, a.method)); ok {
		return types.Class(fqn)
	}
	return types.Invalid
}

func (a *attributor) currentInfo() (*types.ClassInfo, bool) {
	if a.class == nil {
		return nil, false
	}
	return a.cat.Lookup(a.class.fqn)
}

func (a *attributor) fieldAccess(id ast.NodeID, name string, qual ast.NodeID) types.Type {
	qt := a.expr(qual)
	switch {
	case name == "class":
		return types.Class("java.lang.Class")
	case name == "this":
		return qt
	case name == "length" && qt.IsArray():
		return types.Primitive("int")
	}
	if qt.Kind == types.KindClass {
		if f, ok := a.cat.FieldOf(qt.Name, name); ok {
			return f.Type
		}
		if nested := qt.Name + "." + name; a.known(nested) {
			return types.Class(nested)
		}
		return types.Invalid
	}
	// a.b.C: квалификатор: пакет
	if dotted, ok := a.dottedName(id); ok && a.known(dotted) {
		return types.Class(dotted)
	}
	return types.Invalid
}

func (a *attributor) known(fqn string) bool {
	_, ok := a.cat.Lookup(fqn)
	return ok
}

// dottedName rebuilds `a.b.c` from an Ident/FieldAccess chain.
func (a *attributor) dottedName(id ast.NodeID) (string, bool) {
	n := a.tree.Node(id)
	switch n.Kind {
	case ast.KindIdent:
		return a.tree.Name(id).Name, true
	case ast.KindFieldAccess:
		head, ok := a.dottedName(n.Children[0])
		if !ok {
			return "", false
		}
		return head + "." + a.tree.Name(id).Name, true
	default:
		return "", false
	}
}

func (a *attributor) argTypes(args ast.NodeID) []types.Type {
	n := a.tree.Node(args)
	if n == nil {
		return nil
	}
	out := make([]types.Type, len(n.Children))
	for i, k := range n.Children {
		out[i] = a.expr(k)
	}
	return out
}

func (a *attributor) invocation(id ast.NodeID) types.Type {
	inv := a.tree.Invocation(id)
	var recv types.Type
	if inv.Select.IsValid() {
		recv = a.expr(inv.Select)
	}
	args := a.argTypes(inv.Args)

	var (
		owner string
		cands []*types.Method
	)
	switch {
	case !inv.Select.IsValid() && (inv.Name == "this" || inv.Name == "super"):
		if ci, ok := a.currentInfo(); ok {
			owner = ci.FQN
			if inv.Name == "super" {
				owner = ci.Super
			}
			cands = a.cat.Constructors(owner)
		}
	case inv.Select.IsValid():
		if recv.Kind != types.KindClass {
			if dotted, ok := a.dottedName(inv.Select); ok && a.known(dotted) {
				recv = types.Class(dotted)
			}
		}
		if recv.Kind == types.KindClass {
			owner = recv.Name
			cands = a.cat.Methods(owner, inv.Name)
		}
	default:
		for c := a.class; c != nil && len(cands) == 0; c = c.outer {
			owner = c.fqn
			cands = a.cat.Methods(c.fqn, inv.Name)
		}
		if len(cands) == 0 {
			owner, cands = a.staticImport(inv.Name)
		}
	}

	m, ambiguous := a.cat.SelectOverload(cands, args)
	inv.Method = m
	if m == nil {
		a.unresolved++
		if len(cands) > 0 {
			a.warn(diag.SynUnresolvedMethod, inv.NameSpan, fmt.Sprintf(
				"no overload of %s.%s applicable to (%s)", types.SimpleName(owner), inv.Name, typeList(args)))
		}
		return types.Invalid
	}
	a.resolved++
	if ambiguous {
		a.warn(diag.SynAmbiguousCall, inv.NameSpan, "ambiguous call, picked "+m.ShortSignature())
	}
	inv.Type = m.Return
	return inv.Type
}

func (a *attributor) staticImport(name string) (string, []*types.Method) {
	for _, owner := range a.res.staticSingle[name] {
		if ms := a.cat.Methods(owner, name); len(ms) > 0 {
			return owner, ms
		}
	}
	for _, owner := range a.res.staticAll {
		if ms := a.cat.Methods(owner, name); len(ms) > 0 {
			return owner, ms
		}
	}
	return "", nil
}

func (a *attributor) newClass(id ast.NodeID, n *ast.Node) types.Type {
	nc := a.tree.NewClass(id)
	for _, k := range n.Children {
		if k != nc.Ref && k != nc.Args {
			a.expr(k) // outer instance
		}
	}
	t := a.refType(nc.Ref)
	args := a.argTypes(nc.Args)
	if ts, ok := a.syn.typeRefs[nc.Ref]; ok && !t.IsValid() {
		// неизвестный класс: тип всё равно нужен для цепочек вызовов
		t = types.Class(ts.name)
	}
	nc.Class = t
	if ctors := a.cat.Constructors(t.Name); len(ctors) > 0 {
		m, ambiguous := a.cat.SelectOverload(ctors, args)
		nc.Ctor = m
		switch {
		case m == nil:
			a.warn(diag.SynUnresolvedMethod, n.Span, fmt.Sprintf(
				"no constructor of %s applicable to (%s)", t.SimpleName(), typeList(args)))
		case ambiguous:
			a.warn(diag.SynAmbiguousCall, n.Span, "ambiguous constructor call, picked "+m.ShortSignature())
		}
	}
	return t
}

func (a *attributor) warn(code diag.Code, sp source.Span, msg string) {
	if a.rep != nil {
		a.rep.Report(code, diag.SevWarning, sp, msg, nil)
	}
}

func typeList(ts []types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		if t.IsValid() {
			parts[i] = t.SimpleName()
		} else {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, ", ")
}

var numericRank = map[string]int{
	"byte": 1, "short": 2, "char": 2, "int": 3, "long": 4, "float": 5, "double": 6,
}

var rankName = [...]string{3: "int", 4: "long", 5: "float", 6: "double"}

func primitiveOf(t types.Type) (string, bool) {
	switch t.Kind {
	case types.KindPrimitive:
		return t.Name, true
	case types.KindClass:
		return types.Unbox(t.Name)
	default:
		return "", false
	}
}

// promote applies binary numeric promotion; Invalid when either side is
// not numeric.
func promote(x, y types.Type) types.Type {
	px, okx := primitiveOf(x)
	py, oky := primitiveOf(y)
	rx, numx := numericRank[px]
	ry, numy := numericRank[py]
	if !okx || !oky || !numx || !numy {
		return types.Invalid
	}
	return types.Primitive(rankName[max(rx, ry, 3)])
}

func binaryType(op token.Kind, lt, rt types.Type) types.Type {
	boolean := types.Primitive("boolean")
	switch op {
	case token.OrOr, token.AndAnd, token.EqEq, token.BangEq,
		token.Lt, token.Gt, token.LtEq, token.GtEq, token.KwInstanceof:
		return boolean
	case token.Plus:
		if isString(lt) || isString(rt) {
			return types.Class("java.lang.String")
		}
	case token.Amp, token.Pipe, token.Caret:
		if pl, _ := primitiveOf(lt); pl == "boolean" {
			return boolean
		}
	case token.Shl, token.Shr, token.UShr:
		return promote(lt, types.Primitive("int"))
	}
	return promote(lt, rt)
}

func isString(t types.Type) bool {
	return t.Kind == types.KindClass && t.Name == "java.lang.String"
}

func ternaryType(x, y types.Type) types.Type {
	switch {
	case x.Equal(y):
		return x
	case x.Kind == types.KindNull:
		return y
	case y.Kind == types.KindNull:
		return x
	}
	if t := promote(x, y); t.IsValid() {
		return t
	}
	return types.Invalid
}
