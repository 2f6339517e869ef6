package types

import (
	"fmt"
	"strings"
)

// Param is one formal parameter of a resolved declaration.
type Param struct {
	Name     string `msgpack:"name,omitempty"`
	Type     Type   `msgpack:"type"`
	Variadic bool   `msgpack:"variadic,omitempty"`
}

// Method is a method or constructor declaration as seen by call-site resolution.
// Owner is the fully-qualified name of the declaring class.
type Method struct {
	Owner       string  `msgpack:"-"`
	Name        string  `msgpack:"name"`
	Params      []Param `msgpack:"params"`
	Return      Type    `msgpack:"ret"`
	Static      bool    `msgpack:"static,omitempty"`
	Constructor bool    `msgpack:"ctor,omitempty"`
}

// IsVariadic reports whether the last formal parameter accepts zero or more arguments.
func (m *Method) IsVariadic() bool {
	return len(m.Params) > 0 && m.Params[len(m.Params)-1].Variadic
}

// ParamNames lists formal names in declaration order.
func (m *Method) ParamNames() []string {
	out := make([]string, len(m.Params))
	for i, p := range m.Params {
		out[i] = p.Name
	}
	return out
}

// AcceptsArity reports whether a call with n arguments fits the declaration's shape.
func (m *Method) AcceptsArity(n int) bool {
	if m.IsVariadic() {
		return n >= len(m.Params)-1
	}
	return n == len(m.Params)
}

// Signature renders "a.A.foo(java.lang.String, java.lang.Integer...)".
func (m *Method) Signature() string {
	var sb strings.Builder
	if m.Owner != "" {
		sb.WriteString(m.Owner)
		sb.WriteByte('.')
	}
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(paramTypeString(p))
	}
	sb.WriteByte(')')
	return sb.String()
}

// ShortSignature renders "A.foo(String, Integer...)" for listings.
func (m *Method) ShortSignature() string {
	var sb strings.Builder
	if m.Owner != "" {
		sb.WriteString(SimpleName(m.Owner))
		sb.WriteByte('.')
	}
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		t := p.Type
		if p.Variadic && t.IsArray() {
			sb.WriteString(t.Elem.SimpleName() + "...")
			continue
		}
		sb.WriteString(t.SimpleName())
	}
	sb.WriteByte(')')
	return sb.String()
}

func paramTypeString(p Param) string {
	if p.Variadic && p.Type.IsArray() {
		return p.Type.Elem.String() + "..."
	}
	return p.Type.String()
}

func (m *Method) String() string { return m.Signature() }

// fillPlaceholderNames gives unnamed parameters positional names arg0, arg1, ...
func (m *Method) fillPlaceholderNames() {
	for i := range m.Params {
		if m.Params[i].Name == "" {
			m.Params[i].Name = fmt.Sprintf("arg%d", i)
		}
	}
}
