package parser

import (
	"rewrite/internal/ast"
	"rewrite/internal/source"
	"rewrite/internal/types"
)

// typeSyntax is a type as written: a dotted or primitive name plus array
// dimensions. Type arguments are kept only as source text.
type typeSyntax struct {
	name string
	dims int
	ref  ast.NodeID // KindTypeRef
}

func (t typeSyntax) valid() bool { return t.name != "" }

type fieldDecl struct {
	node   ast.NodeID // KindVariable
	name   string
	typ    typeSyntax
	static bool
}

type paramDecl struct {
	node     ast.NodeID
	name     string
	typ      typeSyntax
	variadic bool
}

type methodDecl struct {
	node       ast.NodeID
	name       string
	ret        typeSyntax // invalid for void and constructors
	ctor       bool
	static     bool
	params     []paramDecl
	typeParams []string
	owner      *classDecl
	resolved   *types.Method
}

type classDecl struct {
	node       ast.NodeID
	fqn        string
	outer      *classDecl
	iface      bool
	enum       bool
	super      typeSyntax
	ifaces     []typeSyntax
	typeParams []string
	fields     []fieldDecl
	methods    []*methodDecl
}

// fileSyntax is the result of the syntax pass over one file.
type fileSyntax struct {
	file     *source.File
	tree     *ast.Tree
	root     ast.NodeID
	pkg      string
	imports  []ast.Import
	topTypes []ast.NodeID
	classes  []*classDecl

	classByNode  map[ast.NodeID]*classDecl
	methodByNode map[ast.NodeID]*methodDecl
	typeRefs     map[ast.NodeID]typeSyntax
	// extraDims records C-style array brackets after a variable name.
	extraDims map[ast.NodeID]int
}

func newFileSyntax(f *source.File) *fileSyntax {
	return &fileSyntax{
		file:         f,
		tree:         ast.NewTree(f, uint(len(f.Content)/4+16)),
		classByNode:  make(map[ast.NodeID]*classDecl),
		methodByNode: make(map[ast.NodeID]*methodDecl),
		typeRefs:     make(map[ast.NodeID]typeSyntax),
		extraDims:    make(map[ast.NodeID]int),
	}
}

func (s *fileSyntax) unit(cat *types.Catalog) *ast.Unit {
	return &ast.Unit{
		File:    s.file,
		Tree:    s.tree,
		Root:    s.root,
		Package: s.pkg,
		Imports: s.imports,
		Types:   s.topTypes,
		Catalog: cat,
	}
}
