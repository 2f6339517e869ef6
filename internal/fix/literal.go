package fix

import (
	"fmt"
	"strings"

	"rewrite/internal/ast"
)

// LiteralChange replaces the value of one literal. The new value is printed
// in its canonical form even when it equals the old one.
type LiteralChange struct {
	Literal   ast.NodeID
	Transform func(ast.Value) ast.Value
}

// ChangeLiteral builds a literal change of lit through fn.
func ChangeLiteral(lit ast.NodeID, fn func(ast.Value) ast.Value) *LiteralChange {
	return &LiteralChange{Literal: lit, Transform: fn}
}

// typeMismatch is what Transform yields for a value of the wrong Go type.
type typeMismatch struct {
	want, got string
}

// Transform adapts a typed function to a literal transform. Applied to a
// literal holding anything but a T, the change fails with LiteralTypeError.
func Transform[T any](fn func(T) T) func(ast.Value) ast.Value {
	return func(v ast.Value) ast.Value {
		cur, ok := v.(T)
		if !ok {
			var zero T
			return typeMismatch{want: fmt.Sprintf("%T", zero), got: fmt.Sprintf("%T", v)}
		}
		return fn(cur)
	}
}

func (c *LiteralChange) Target() ast.NodeID { return c.Literal }

func (c *LiteralChange) String() string {
	return fmt.Sprintf("change literal node %d", c.Literal)
}

func (c *LiteralChange) validate(u *ast.Unit) error {
	n, err := attached(u.Tree, c.Literal)
	if err != nil {
		return err
	}
	if n.Kind != ast.KindLiteral {
		return &WrongNodeKindError{Node: c.Literal, Kind: n.Kind, Want: "a literal"}
	}
	if c.Transform == nil {
		return fmt.Errorf("literal node %d: nil transform", c.Literal)
	}
	return nil
}

func (c *LiteralChange) apply(t *ast.Tree) error {
	n, err := attached(t, c.Literal)
	if err != nil {
		return err
	}
	if n.Kind != ast.KindLiteral {
		return &WrongNodeKindError{Node: c.Literal, Kind: n.Kind, Want: "a literal"}
	}
	lit := t.Literal(c.Literal)
	next := c.Transform(lit.Value)
	if tm, ok := next.(typeMismatch); ok {
		return &LiteralTypeError{
			Node: c.Literal,
			Tag:  lit.Tag,
			Got:  tm.got,
			Err:  fmt.Errorf("transform expects %s, literal holds %s", tm.want, tm.got),
		}
	}
	if !lit.Tag.Accepts(next) {
		return &LiteralTypeError{Node: c.Literal, Tag: lit.Tag, Got: fmt.Sprintf("%T", next)}
	}
	text, err := ast.Format(lit.Tag, next, lit.Suffix)
	if err != nil {
		return &LiteralTypeError{Node: c.Literal, Tag: lit.Tag, Got: fmt.Sprintf("%T", next), Err: err}
	}
	if strings.HasPrefix(text, "-") && followsMinus(t, n) {
		text = "(" + text + ")"
	}
	lit.Value = next
	lit.Text = text
	t.MarkDirty(c.Literal)
	return nil
}

// followsMinus reports whether the source has a '-' right before n, as in
// `-1.5` or `a-1`. Printing a negative value there would read as `--`.
func followsMinus(t *ast.Tree, n *ast.Node) bool {
	if n.Prefix != "" || !n.HasSource() || t.File == nil || n.Span.Start == 0 {
		return false
	}
	return t.File.Content[n.Span.Start-1] == '-'
}
