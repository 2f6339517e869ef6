package types

import (
	"fmt"
	"strings"
)

// Kind enumerates the shapes of resolved Java types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindPrimitive
	KindClass
	KindArray
	KindNull
	KindVoid
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindPrimitive:
		return "primitive"
	case KindClass:
		return "class"
	case KindArray:
		return "array"
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a resolved type descriptor. Name holds the primitive keyword
// ("int") or the fully-qualified class name ("java.lang.String"); arrays
// carry their element in Elem.
type Type struct {
	Kind Kind   `msgpack:"k"`
	Name string `msgpack:"n,omitempty"`
	Elem *Type  `msgpack:"e,omitempty"`
}

var (
	Invalid = Type{Kind: KindInvalid}
	Null    = Type{Kind: KindNull, Name: "null"}
	Void    = Type{Kind: KindVoid, Name: "void"}
)

// Primitive returns the primitive type named by keyword.
func Primitive(name string) Type { return Type{Kind: KindPrimitive, Name: name} }

// Class returns a reference type with the given fully-qualified name.
func Class(fqn string) Type { return Type{Kind: KindClass, Name: fqn} }

// ArrayOf wraps elem into a one-dimensional array type.
func ArrayOf(elem Type) Type {
	e := elem
	return Type{Kind: KindArray, Elem: &e}
}

func (t Type) IsValid() bool     { return t.Kind != KindInvalid }
func (t Type) IsPrimitive() bool { return t.Kind == KindPrimitive }
func (t Type) IsArray() bool     { return t.Kind == KindArray && t.Elem != nil }

// IsReference reports whether values of t are object references (null included).
func (t Type) IsReference() bool {
	return t.Kind == KindClass || t.Kind == KindArray || t.Kind == KindNull
}

// Equal compares two descriptors structurally.
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Name != o.Name {
		return false
	}
	if t.Kind != KindArray {
		return true
	}
	if t.Elem == nil || o.Elem == nil {
		return t.Elem == o.Elem
	}
	return t.Elem.Equal(*o.Elem)
}

// String renders the type the way Java spells it: "int", "java.lang.String", "int[]".
func (t Type) String() string {
	switch t.Kind {
	case KindArray:
		if t.Elem == nil {
			return "<invalid>[]"
		}
		return t.Elem.String() + "[]"
	case KindInvalid:
		return "<invalid>"
	default:
		return t.Name
	}
}

// SimpleName drops the package qualifier: "java.lang.String" -> "String".
func (t Type) SimpleName() string {
	if t.Kind == KindArray && t.Elem != nil {
		return t.Elem.SimpleName() + "[]"
	}
	return SimpleName(t.Name)
}

// SimpleName returns the last dotted segment of a qualified name.
func SimpleName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// PackageOf returns everything before the last dot, or "" for the default package.
func PackageOf(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[:i]
	}
	return ""
}

// Logical folds primitives into their wrapper classes so that int, Integer
// and java.lang.Integer compare equal. Arrays are folded element-wise.
func Logical(t Type) Type {
	switch t.Kind {
	case KindPrimitive:
		if box, ok := Box(t.Name); ok {
			return Class(box)
		}
		return t
	case KindArray:
		if t.Elem == nil {
			return t
		}
		return ArrayOf(Logical(*t.Elem))
	default:
		return t
	}
}
