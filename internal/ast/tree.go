package ast

import (
	"slices"

	"rewrite/internal/source"
)

// Node is one tree element. Span covers the node's own text without its
// prefix. Prefix is the verbatim trivia before the node when the node is
// the outermost one starting at its first token; Suffix is the trivia
// between an argument and the separator that follows it.
type Node struct {
	Kind     Kind
	Span     source.Span
	Prefix   string
	Suffix   string
	Parent   NodeID
	Children []NodeID
	Payload  PayloadID
}

// LeadStart returns the offset where the node's prefix begins.
func (n *Node) LeadStart() uint32 {
	return n.Span.Start - uint32(len(n.Prefix)) //nolint:gosec // prefix always lies inside the file
}

// HasSource reports whether the node is attached to original text.
func (n *Node) HasSource() bool { return n.Span.IsValid() }

// Tree is the node arena of one parsed file plus the per-kind payloads and
// the dirty set. Node identities are arena indices and are never reused.
type Tree struct {
	File *source.File
	Root NodeID

	Nodes       *Arena[Node]
	Invocations *Arena[InvocationData]
	NewClasses  *Arena[NewClassData]
	Literals    *Arena[LiteralData]
	ArgLists    *Arena[ArgsData]
	Names       *Arena[NameData]
	Ops         *Arena[OpData]

	dirty bitset
}

// NewTree creates an empty tree over file. capHint sizes the node arena;
// zero picks a default.
func NewTree(file *source.File, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/4 + 1
	return &Tree{
		File:        file,
		Nodes:       NewArena[Node](capHint),
		Invocations: NewArena[InvocationData](small),
		NewClasses:  NewArena[NewClassData](small),
		Literals:    NewArena[LiteralData](small),
		ArgLists:    NewArena[ArgsData](small),
		Names:       NewArena[NameData](capHint / 2),
		Ops:         NewArena[OpData](small),
	}
}

// NewNode allocates a detached node.
func (t *Tree) NewNode(kind Kind, span source.Span, payload PayloadID) NodeID {
	return NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: span, Payload: payload}))
}

// Node returns the node for id, or nil for an unknown identity.
func (t *Tree) Node(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Len returns the number of allocated nodes, attached or not.
func (t *Tree) Len() int { return int(t.Nodes.Len()) }

// AddChild appends child to parent's children and links it back.
func (t *Tree) AddChild(parent, child NodeID) {
	if !child.IsValid() {
		return
	}
	p := t.Node(parent)
	c := t.Node(child)
	if p == nil || c == nil {
		return
	}
	p.Children = append(p.Children, child)
	c.Parent = parent
}

// SetChildren replaces parent's children. Previous children absent from
// kids are detached (their Parent is cleared).
func (t *Tree) SetChildren(parent NodeID, kids []NodeID) {
	p := t.Node(parent)
	if p == nil {
		return
	}
	for _, old := range p.Children {
		if !slices.Contains(kids, old) {
			if n := t.Node(old); n != nil && n.Parent == parent {
				n.Parent = NoNodeID
			}
		}
	}
	p.Children = slices.Clone(kids)
	for _, k := range kids {
		if n := t.Node(k); n != nil {
			n.Parent = parent
		}
	}
}

// Text returns the original source text of the node's own span.
func (t *Tree) Text(id NodeID) string {
	n := t.Node(id)
	if n == nil || !n.Span.IsValid() || t.File == nil {
		return ""
	}
	return t.File.Text(n.Span)
}

// Invocation returns the payload of an invocation node.
func (t *Tree) Invocation(id NodeID) *InvocationData {
	n := t.Node(id)
	if n == nil || n.Kind != KindInvocation {
		return nil
	}
	return t.Invocations.Get(uint32(n.Payload))
}

// NewClass returns the payload of an instance creation node.
func (t *Tree) NewClass(id NodeID) *NewClassData {
	n := t.Node(id)
	if n == nil || n.Kind != KindNewClass {
		return nil
	}
	return t.NewClasses.Get(uint32(n.Payload))
}

// Literal returns the payload of a literal node.
func (t *Tree) Literal(id NodeID) *LiteralData {
	n := t.Node(id)
	if n == nil || n.Kind != KindLiteral {
		return nil
	}
	return t.Literals.Get(uint32(n.Payload))
}

// Args returns the payload of an argument list node.
func (t *Tree) Args(id NodeID) *ArgsData {
	n := t.Node(id)
	if n == nil || n.Kind != KindArgs {
		return nil
	}
	return t.ArgLists.Get(uint32(n.Payload))
}

// Name returns the name payload of declarations, identifiers and field accesses.
func (t *Tree) Name(id NodeID) *NameData {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindPackage, KindImport, KindClass, KindField, KindVariable, KindMethod,
		KindParam, KindTypeRef, KindIdent, KindFieldAccess, KindLocalVar:
		return t.Names.Get(uint32(n.Payload))
	default:
		return nil
	}
}

// Op returns the operator payload of binary, unary and assignment nodes.
func (t *Tree) Op(id NodeID) *OpData {
	n := t.Node(id)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindBinary, KindUnary, KindAssign:
		return t.Ops.Get(uint32(n.Payload))
	default:
		return nil
	}
}

// Clone deep-copies the tree. Node identities are preserved; resolved
// declarations are shared because the catalog is read-only.
func (t *Tree) Clone() *Tree {
	return &Tree{
		File: t.File,
		Root: t.Root,
		Nodes: t.Nodes.Clone(func(n Node) Node {
			n.Children = slices.Clone(n.Children)
			return n
		}),
		Invocations: t.Invocations.Clone(nil),
		NewClasses:  t.NewClasses.Clone(nil),
		Literals:    t.Literals.Clone(nil),
		ArgLists: t.ArgLists.Clone(func(a ArgsData) ArgsData {
			a.SlotPrefixes = slices.Clone(a.SlotPrefixes)
			a.SlotSuffixes = slices.Clone(a.SlotSuffixes)
			return a
		}),
		Names: t.Names.Clone(nil),
		Ops:   t.Ops.Clone(nil),
		dirty: t.dirty.clone(),
	}
}
