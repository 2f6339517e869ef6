package ast

import (
	"rewrite/internal/source"
	"rewrite/internal/token"
	"rewrite/internal/types"
)

// InvocationData is the payload of KindInvocation: `select.name(args)`.
type InvocationData struct {
	// Select is the receiver expression; NoNodeID for an unqualified call.
	Select   NodeID
	Name     string
	NameSpan source.Span
	Args     NodeID
	// Method is the overload selected for this call site; nil when unresolved.
	Method *types.Method
	// Type is the static type of the call expression.
	Type types.Type
}

// NewClassData is the payload of KindNewClass: `new T(args)`.
type NewClassData struct {
	Class types.Type
	Ref   NodeID // KindTypeRef
	Args  NodeID
	Ctor  *types.Method
}

// ArgsData captures the positional layout of an argument list as it was parsed.
// Slot i owns the text between the opening paren (or comma i-1) and argument i,
// and the text between argument i and comma i. Close is the text before ')'.
type ArgsData struct {
	SlotPrefixes []string
	SlotSuffixes []string
	Close        string
}

// Slots returns how many argument positions the original layout described.
func (a *ArgsData) Slots() int { return len(a.SlotPrefixes) }

// NameFlags qualify a NameData payload.
type NameFlags uint8

const (
	NameStatic NameFlags = 1 << iota
	NameWildcard
	NameVariadic
	NameInterface
)

// NameData is the payload of every named node: package, import, class,
// field, variable, method, param, type reference, identifier, field access.
// Type holds the resolved type where one applies.
type NameData struct {
	Name  string
	Type  types.Type
	Flags NameFlags
}

func (n *NameData) Has(f NameFlags) bool { return n.Flags&f != 0 }

// OpData is the payload of binary, unary and assignment expressions.
type OpData struct {
	Op      token.Kind
	Postfix bool
}
