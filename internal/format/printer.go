package format

import (
	"fmt"
	"strings"

	"rewrite/internal/ast"
)

type printer struct {
	tree *ast.Tree
	w    *Writer
}

// Render returns the text of the subtree rooted at id, without the node's
// own prefix. A subtree with no dirty node comes back as its original bytes.
func Render(tree *ast.Tree, id ast.NodeID) (string, error) {
	hint := 64
	if tree.File != nil {
		hint = len(tree.File.Content)
	}
	p := &printer{tree: tree, w: NewWriter(tree.File, hint)}
	if err := p.node(id); err != nil {
		return "", err
	}
	return p.w.String(), nil
}

// Unit renders a whole compilation unit.
func Unit(u *ast.Unit) (string, error) {
	return Render(u.Tree, u.Root)
}

func (p *printer) node(id ast.NodeID) error {
	n := p.tree.Node(id)
	if n == nil {
		return violation(id, nil, "unknown node")
	}
	if !n.HasSource() {
		return p.synth(id, n)
	}
	if !p.tree.Dirty(id) {
		p.w.CopySpan(n.Span)
		return nil
	}
	switch n.Kind {
	case ast.KindArgs:
		return p.args(id, n)
	case ast.KindLiteral:
		return p.literal(id)
	default:
		return p.glue(id, n)
	}
}

// glue reassembles a dirty node: the node's own text between children is
// copied from the original, each child is printed with its prefix.
func (p *printer) glue(id ast.NodeID, n *ast.Node) error {
	pos := n.Span.Start
	for _, k := range n.Children {
		c := p.tree.Node(k)
		if c == nil {
			return violation(id, n, fmt.Sprintf("missing child %d", k))
		}
		if !c.HasSource() {
			return violation(id, n, "synthesized child outside an argument list")
		}
		lead := c.LeadStart()
		if lead < pos || c.Span.End > n.Span.End {
			return violation(id, n, fmt.Sprintf("child %d lies outside the remaining glue", k))
		}
		p.w.CopyRange(pos, lead)
		p.w.WriteString(c.Prefix)
		if err := p.node(k); err != nil {
			return err
		}
		pos = c.Span.End
	}
	p.w.CopyRange(pos, n.Span.End)
	return nil
}

// args rebuilds an argument list slot by slot. Whitespace comes from the
// original slot layout; comments travel with the argument that owned them.
func (p *printer) args(id ast.NodeID, n *ast.Node) error {
	ad := p.tree.Args(id)
	if ad == nil {
		return violation(id, n, "argument list without slot layout")
	}
	_ = p.w.WriteByte('(')
	count := len(n.Children)
	for i, k := range n.Children {
		c := p.tree.Node(k)
		if c == nil {
			return violation(id, n, fmt.Sprintf("missing argument %d", k))
		}
		if i > 0 {
			_ = p.w.WriteByte(',')
		}
		p.w.WriteString(slotPrefix(ad, i, c))
		if err := p.node(k); err != nil {
			return err
		}
		p.w.WriteString(slotSuffix(ad, i, count, c))
	}
	switch {
	case count == 0 && ad.Slots() == 0:
		p.w.WriteString(ad.Close)
	case count == 0:
		p.w.WriteString(stripComments(ad.Close))
	}
	_ = p.w.WriteByte(')')
	return nil
}

func slotPrefix(ad *ast.ArgsData, i int, c *ast.Node) string {
	layout := " "
	switch {
	case i < len(ad.SlotPrefixes):
		layout = ad.SlotPrefixes[i]
	case i == 0:
		layout = ""
	}
	if i == 0 && layout != c.Prefix && !hasComment(c.Prefix) && hasComment(layout) {
		// после '(' остаётся только отступ перед комментарием
		return leadingSpace(layout)
	}
	return pick(layout, c.Prefix)
}

func leadingSpace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t\r\n\f"))]
}

func slotSuffix(ad *ast.ArgsData, i, count int, c *ast.Node) string {
	layout := ""
	switch {
	case i == count-1:
		layout = ad.Close
	case i < len(ad.SlotSuffixes):
		layout = ad.SlotSuffixes[i]
	}
	return pick(layout, c.Suffix)
}

// pick: исходный владелец слота печатается как был; чужой аргумент
// приносит свои комментарии или получает пробелы слота без комментариев.
func pick(layout, own string) string {
	switch {
	case own == layout:
		return layout
	case hasComment(own):
		return own
	default:
		return stripComments(layout)
	}
}

// Trivia text holds only whitespace and comments, so any slash starts a comment.
func hasComment(s string) bool { return strings.IndexByte(s, '/') >= 0 }

// stripComments keeps the whitespace after the last comment in s.
func stripComments(s string) string {
	if !hasComment(s) {
		return s
	}
	end := 0
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], "//"):
			j := strings.IndexAny(s[i:], "\r\n")
			if j < 0 {
				return ""
			}
			i += j
			end = i
		case strings.HasPrefix(s[i:], "/*"):
			j := strings.Index(s[i+2:], "*/")
			if j < 0 {
				return ""
			}
			i += j + 4
			end = i
		default:
			i++
		}
	}
	return s[end:]
}

func (p *printer) literal(id ast.NodeID) error {
	lit := p.tree.Literal(id)
	if lit == nil {
		return violation(id, p.tree.Node(id), "literal without payload")
	}
	if lit.Text != "" {
		p.w.WriteString(lit.Text)
		return nil
	}
	text, err := lit.Canonical()
	if err != nil {
		return violation(id, p.tree.Node(id), err.Error())
	}
	p.w.WriteString(text)
	return nil
}

// synth prints a node that has no source attachment in canonical form:
// no line breaks, single spaces around binary operators and after commas.
func (p *printer) synth(id ast.NodeID, n *ast.Node) error {
	switch n.Kind {
	case ast.KindIdent, ast.KindTypeRef:
		nd := p.tree.Name(id)
		if nd == nil || nd.Name == "" {
			return violation(id, n, "name without payload")
		}
		p.w.WriteString(nd.Name)
		return nil

	case ast.KindLiteral:
		return p.literal(id)

	case ast.KindThis:
		p.w.WriteString("this")
		return nil

	case ast.KindFieldAccess:
		nd := p.tree.Name(id)
		if nd == nil || len(n.Children) != 1 {
			return violation(id, n, "field access needs a qualifier and a name")
		}
		if err := p.node(n.Children[0]); err != nil {
			return err
		}
		p.w.WriteString("." + nd.Name)
		return nil

	case ast.KindInvocation:
		inv := p.tree.Invocation(id)
		if inv == nil || !inv.Args.IsValid() {
			return violation(id, n, "invocation without payload")
		}
		if inv.Select.IsValid() {
			if err := p.node(inv.Select); err != nil {
				return err
			}
			_ = p.w.WriteByte('.')
		}
		p.w.WriteString(inv.Name)
		return p.node(inv.Args)

	case ast.KindArgs:
		_ = p.w.WriteByte('(')
		for i, k := range n.Children {
			if i > 0 {
				p.w.WriteString(", ")
			}
			if err := p.node(k); err != nil {
				return err
			}
		}
		_ = p.w.WriteByte(')')
		return nil

	case ast.KindParens:
		if len(n.Children) != 1 {
			return violation(id, n, "parenthesized expression needs one child")
		}
		_ = p.w.WriteByte('(')
		if err := p.node(n.Children[0]); err != nil {
			return err
		}
		_ = p.w.WriteByte(')')
		return nil

	case ast.KindNewClass:
		nc := p.tree.NewClass(id)
		if nc == nil || !nc.Ref.IsValid() || !nc.Args.IsValid() {
			return violation(id, n, "instance creation without payload")
		}
		p.w.WriteString("new ")
		if err := p.node(nc.Ref); err != nil {
			return err
		}
		return p.node(nc.Args)

	case ast.KindBinary:
		op := p.tree.Op(id)
		if op == nil || len(n.Children) != 2 {
			return violation(id, n, "binary expression needs an operator and two operands")
		}
		if err := p.node(n.Children[0]); err != nil {
			return err
		}
		p.w.WriteString(" " + op.Op.String() + " ")
		return p.node(n.Children[1])

	case ast.KindUnary:
		op := p.tree.Op(id)
		if op == nil || len(n.Children) != 1 {
			return violation(id, n, "unary expression needs an operator and an operand")
		}
		if !op.Postfix {
			p.w.WriteString(op.Op.String())
		}
		if err := p.node(n.Children[0]); err != nil {
			return err
		}
		if op.Postfix {
			p.w.WriteString(op.Op.String())
		}
		return nil

	default:
		return violation(id, n, "no canonical form for synthesized node")
	}
}
