package parser

import (
	"strings"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/lexer"
	"rewrite/internal/source"
	"rewrite/internal/token"
)

// parseSyntax runs the lexer and the syntax pass over one file.
func parseSyntax(f *source.File, rep diag.Reporter, maxErrors uint) *fileSyntax {
	lx := lexer.New(f, lexer.Options{Reporter: rep})
	p := &fileParser{
		toks:      lx.All(),
		syn:       newFileSyntax(f),
		rep:       rep,
		maxErrors: maxErrors,
	}
	p.tree = p.syn.tree
	p.parseCompilationUnit()
	assignPrefixes(p.tree, p.toks)
	return p.syn
}

// parseCompilationUnit: основной цикл верхнего уровня. Корень покрывает
// весь файл, включая ведущие и хвостовые trivia.
func (p *fileParser) parseCompilationUnit() {
	var kids []ast.NodeID

	if p.at(token.KwPackage) || (p.at(token.At) && p.annotatedPackage()) {
		kids = append(kids, p.parsePackage())
	}
	for p.at(token.KwImport) {
		kids = append(kids, p.parseImport())
	}
	for !p.at(token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		before := p.pos
		id, ok := p.parseTypeDecl(nil)
		if ok {
			kids = append(kids, id)
			p.syn.topTypes = append(p.syn.topTypes, id)
			continue
		}
		if id.IsValid() {
			kids = append(kids, id)
			continue
		}
		p.resyncTop(before)
	}

	f := p.syn.file
	root := p.tree.NewNode(ast.KindUnit, source.Span{File: f.ID, Start: 0, End: uint32(len(f.Content))}, ast.NoPayloadID) //nolint:gosec // file size fits in uint32
	for _, k := range kids {
		p.tree.AddChild(root, k)
	}
	p.tree.Root = root
	p.syn.root = root
}

func (p *fileParser) annotatedPackage() bool {
	for i := p.pos; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.KwPackage:
			return true
		case token.KwClass, token.KwInterface, token.KwEnum, token.KwImport, token.EOF:
			return false
		}
	}
	return false
}

// resyncTop: восстановление после ошибки на верхнем уровне: прокручиваем
// до стартового токена следующей декларации.
func (p *fileParser) resyncTop(before int) {
	if p.pos == before {
		p.advance()
	}
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if k == token.KwClass || k == token.KwInterface || k == token.KwEnum || k.IsModifier() {
			return
		}
		p.advance()
	}
}

func (p *fileParser) parsePackage() ast.NodeID {
	start := p.startOff()
	for p.at(token.At) {
		p.skipAnnotation()
	}
	p.advance() // package
	name := p.parseQualifiedName()
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after package declaration")
	p.syn.pkg = name
	return p.name(ast.KindPackage, start, ast.NameData{Name: name})
}

func (p *fileParser) parseImport() ast.NodeID {
	start := p.startOff()
	p.advance() // import
	var flags ast.NameFlags
	if p.at(token.KwStatic) {
		p.advance()
		flags |= ast.NameStatic
	}
	path := p.parseQualifiedName()
	if p.at(token.Dot) && p.peekAt(1).Kind == token.Star {
		p.advance()
		p.advance()
		flags |= ast.NameWildcard
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after import")
	id := p.name(ast.KindImport, start, ast.NameData{Name: path, Flags: flags})
	p.syn.imports = append(p.syn.imports, ast.Import{
		Path:     path,
		Static:   flags&ast.NameStatic != 0,
		Wildcard: flags&ast.NameWildcard != 0,
		Node:     id,
	})
	return id
}

// parseQualifiedName: Ident {'.' Ident}; останавливается перед ".*".
func (p *fileParser) parseQualifiedName() string {
	tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier")
	if !ok {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(tok.Text)
	for p.at(token.Dot) && p.peekAt(1).Kind == token.Ident {
		p.advance()
		sb.WriteByte('.')
		sb.WriteString(p.advance().Text)
	}
	return sb.String()
}

type modifiers struct {
	static bool
}

// parseModifiers съедает аннотации и ключевые слова-модификаторы.
func (p *fileParser) parseModifiers() modifiers {
	var m modifiers
	for {
		switch {
		case p.at(token.At) && p.peekAt(1).Kind != token.KwInterface:
			p.skipAnnotation()
		case p.peek().Kind.IsModifier():
			// `default:` внутри switch сюда не доходит: switch непрозрачен
			if p.at(token.KwStatic) {
				m.static = true
			}
			p.advance()
		default:
			return m
		}
	}
}

func (p *fileParser) skipAnnotation() {
	p.advance() // @
	p.parseQualifiedName()
	if p.at(token.LParen) {
		p.skipBalanced(token.LParen, token.RParen)
	}
}

// parseTypeDecl parses class, interface and enum declarations. The bool
// reports a real type declaration; an opaque construct (annotation type)
// returns a Verbatim node with false.
func (p *fileParser) parseTypeDecl(outer *classDecl) (ast.NodeID, bool) {
	start := p.startOff()
	p.parseModifiers()

	switch {
	case p.at(token.At) && p.peekAt(1).Kind == token.KwInterface:
		p.advance()
		p.advance()
		p.expect(token.Ident, diag.SynExpectIdentifier, "expected annotation type name")
		p.skipBalanced(token.LBrace, token.RBrace)
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID), false
	case p.atOr(token.KwClass, token.KwInterface, token.KwEnum):
	default:
		p.err(diag.SynUnexpectedTopLevel, "expected class, interface or enum declaration, got "+describe(p.peek()))
		return ast.NoNodeID, false
	}

	kw := p.advance()
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected type name")
	if !ok {
		return ast.NoNodeID, false
	}
	cd := &classDecl{
		outer: outer,
		iface: kw.Kind == token.KwInterface,
		enum:  kw.Kind == token.KwEnum,
	}
	switch {
	case outer != nil:
		cd.fqn = outer.fqn + "." + nameTok.Text
	case p.syn.pkg != "":
		cd.fqn = p.syn.pkg + "." + nameTok.Text
	default:
		cd.fqn = nameTok.Text
	}
	if p.at(token.Lt) {
		cd.typeParams = p.parseTypeParams()
	}
	for {
		switch {
		case p.at(token.KwExtends):
			p.advance()
			for {
				t := p.parseTypeSyntax(false)
				if cd.iface {
					cd.ifaces = append(cd.ifaces, t)
				} else {
					cd.super = t
				}
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			continue
		case p.at(token.KwImplements):
			p.advance()
			for {
				cd.ifaces = append(cd.ifaces, p.parseTypeSyntax(false))
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			continue
		}
		break
	}

	p.syn.classes = append(p.syn.classes, cd)
	p.classStack = append(p.classStack, cd)
	members := p.parseClassBody(cd)
	p.classStack = p.classStack[:len(p.classStack)-1]

	id := p.name(ast.KindClass, start, ast.NameData{Name: cd.fqn, Flags: classFlags(cd)}, members...)
	cd.node = id
	p.syn.classByNode[id] = cd
	for _, md := range cd.methods {
		p.syn.methodByNode[md.node] = md
	}
	return id, true
}

func classFlags(cd *classDecl) ast.NameFlags {
	if cd.iface {
		return ast.NameInterface
	}
	return 0
}

// parseTypeParams съедает <T, U extends X> и возвращает имена параметров.
func (p *fileParser) parseTypeParams() []string {
	var names []string
	depth := 0
	expectName := true
	for !p.at(token.EOF) {
		tok := p.advance()
		switch tok.Kind {
		case token.Lt:
			depth++
			expectName = depth == 1
			continue
		case token.Gt:
			depth--
			if depth == 0 {
				return names
			}
		case token.Comma:
			expectName = depth == 1
			continue
		case token.Ident:
			if expectName && depth == 1 {
				names = append(names, tok.Text)
			}
		}
		expectName = false
	}
	return names
}

func (p *fileParser) parseClassBody(cd *classDecl) []ast.NodeID {
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to open class body"); !ok {
		return nil
	}
	if cd.enum {
		p.skipEnumConstants()
	}
	var members []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		if p.at(token.Semicolon) {
			p.advance()
			continue
		}
		before := p.pos
		if id := p.parseMember(cd); id.IsValid() {
			members = append(members, id)
		}
		if p.pos == before {
			p.err(diag.SynUnexpectedToken, "unexpected "+describe(p.peek())+" in class body")
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close class body")
	return members
}

// skipEnumConstants пропускает список констант до ';' или '}'.
func (p *fileParser) skipEnumConstants() {
	for !p.atOr(token.Semicolon, token.RBrace, token.EOF) {
		switch p.peek().Kind {
		case token.LParen:
			p.skipBalanced(token.LParen, token.RParen)
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
		default:
			p.advance()
		}
	}
	if p.at(token.Semicolon) {
		p.advance()
	}
}

func (p *fileParser) parseMember(cd *classDecl) ast.NodeID {
	start := p.startOff()
	save := p.pos
	mods := p.parseModifiers()

	switch {
	case p.at(token.LBrace):
		// инициализатор: `{ ... }` или `static { ... }`
		body := p.parseBlock()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, body)
	case p.atOr(token.KwClass, token.KwInterface, token.KwEnum) || (p.at(token.At) && p.peekAt(1).Kind == token.KwInterface):
		p.pos = save
		id, _ := p.parseTypeDecl(cd)
		return id
	}

	var typeParams []string
	if p.at(token.Lt) {
		typeParams = p.parseTypeParams()
	}

	// конструктор: Name '('
	if p.at(token.Ident) && p.peek().Text == simpleName(cd.fqn) && p.peekAt(1).Kind == token.LParen {
		p.advance()
		md := &methodDecl{name: "<init>", ctor: true, typeParams: typeParams, owner: cd}
		return p.parseMethodRest(cd, md, start, ast.NoNodeID)
	}

	var ret typeSyntax
	if p.at(token.KwVoid) {
		p.advance()
	} else {
		ret = p.parseTypeSyntax(true)
		if !ret.valid() {
			return ast.NoNodeID
		}
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name")
	if !ok {
		p.skipStatementTail()
		return ast.NoNodeID
	}
	if p.at(token.LParen) {
		md := &methodDecl{name: nameTok.Text, ret: ret, static: mods.static, typeParams: typeParams, owner: cd}
		return p.parseMethodRest(cd, md, start, ret.ref)
	}

	// поле: первый декларатор уже начат
	p.pos--
	vars := p.parseDeclarators(ret, func(v ast.NodeID, name string, dims int) {
		t := ret
		t.dims += dims
		cd.fields = append(cd.fields, fieldDecl{node: v, name: name, typ: t, static: mods.static})
	})
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after field declaration")
	kids := append([]ast.NodeID{ret.ref}, vars...)
	return p.finish(ast.KindField, start, ast.PayloadID(p.tree.Names.Allocate(ast.NameData{Flags: staticFlag(mods.static)})), kids...)
}

func staticFlag(static bool) ast.NameFlags {
	if static {
		return ast.NameStatic
	}
	return 0
}

// parseMethodRest parses `(params) [dims] [throws ...] (block | ;)` after the name.
func (p *fileParser) parseMethodRest(cd *classDecl, md *methodDecl, start uint32, retRef ast.NodeID) ast.NodeID {
	kids := make([]ast.NodeID, 0, 4)
	if retRef.IsValid() {
		kids = append(kids, retRef)
	}
	p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	for !p.atOr(token.RParen, token.EOF) {
		param, ok := p.parseParam()
		if !ok {
			break
		}
		md.params = append(md.params, param)
		kids = append(kids, param.node)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters")
	for p.at(token.LBracket) && p.peekAt(1).Kind == token.RBracket {
		p.advance()
		p.advance()
		md.ret.dims++
	}
	if p.at(token.KwThrows) {
		p.advance()
		for {
			p.parseTypeSyntax(false)
			if !p.at(token.Comma) {
				break
			}
			p.advance()
		}
	}
	switch {
	case p.at(token.LBrace):
		kids = append(kids, p.parseBlock())
	case p.at(token.KwDefault):
		// annotation element default value
		p.skipStatementTail()
	default:
		p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected method body or ';'")
	}

	id := p.name(ast.KindMethod, start, ast.NameData{Name: md.name, Flags: staticFlag(md.static)}, kids...)
	md.node = id
	cd.methods = append(cd.methods, md)
	return id
}

func (p *fileParser) parseParam() (paramDecl, bool) {
	start := p.startOff()
	p.parseModifiers() // final, annotations
	t := p.parseTypeSyntax(true)
	if !t.valid() {
		return paramDecl{}, false
	}
	var pd paramDecl
	var flags ast.NameFlags
	if p.at(token.Ellipsis) {
		p.advance()
		pd.variadic = true
		flags |= ast.NameVariadic
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
	if !ok {
		return paramDecl{}, false
	}
	for p.at(token.LBracket) && p.peekAt(1).Kind == token.RBracket {
		p.advance()
		p.advance()
		t.dims++
	}
	pd.name = nameTok.Text
	pd.typ = t
	pd.node = p.name(ast.KindParam, start, ast.NameData{Name: nameTok.Text, Flags: flags}, t.ref)
	return pd, true
}

// parseDeclarators parses `name [dims] [= init] {, name [dims] [= init]}`.
func (p *fileParser) parseDeclarators(t typeSyntax, each func(v ast.NodeID, name string, dims int)) []ast.NodeID {
	var vars []ast.NodeID
	for {
		start := p.startOff()
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
		if !ok {
			return vars
		}
		dims := 0
		for p.at(token.LBracket) && p.peekAt(1).Kind == token.RBracket {
			p.advance()
			p.advance()
			dims++
		}
		var init ast.NodeID
		if p.at(token.Assign) {
			p.advance()
			if p.at(token.LBrace) {
				init = p.parseArrayInit()
			} else {
				init = p.parseExpr()
			}
		}
		v := p.name(ast.KindVariable, start, ast.NameData{Name: nameTok.Text}, init)
		if dims > 0 {
			p.syn.extraDims[v] = dims
		}
		if each != nil {
			each(v, nameTok.Text, dims)
		}
		vars = append(vars, v)
		if !p.at(token.Comma) {
			return vars
		}
		p.advance()
	}
}

// parseArrayInit: `{ ... }` хранится как непрозрачный текст, вложенные
// выражения разбираются как дети.
func (p *fileParser) parseArrayInit() ast.NodeID {
	start := p.startOff()
	p.advance() // {
	var kids []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		var e ast.NodeID
		if p.at(token.LBrace) {
			e = p.parseArrayInit()
		} else {
			e = p.parseExpr()
		}
		if !e.IsValid() {
			break
		}
		kids = append(kids, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close array initializer")
	return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, kids...)
}

func simpleName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// assignPrefixes отдаёт ведущие trivia токена самому внешнему узлу,
// который с этого токена начинается.
func assignPrefixes(tree *ast.Tree, toks []token.Token) {
	lead := make(map[uint32]string, len(toks)/2)
	for _, t := range toks {
		if len(t.Leading) > 0 && t.Kind != token.EOF {
			lead[t.Span.Start] = t.LeadingText()
		}
	}
	for id := range tree.Preorder(tree.Root) {
		n := tree.Node(id)
		if n.Kind == ast.KindUnit || !n.HasSource() {
			continue
		}
		if parent := tree.Node(n.Parent); parent != nil && parent.Span.Start == n.Span.Start {
			continue
		}
		n.Prefix = lead[n.Span.Start]
	}
}
