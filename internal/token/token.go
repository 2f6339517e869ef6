package token

import (
	"strings"

	"rewrite/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, character, string, boolean or null literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, LongLit, FloatLit, DoubleLit, CharLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// LeadStart returns the offset where the token's leading trivia begins.
func (t Token) LeadStart() uint32 {
	if len(t.Leading) == 0 {
		return t.Span.Start
	}
	return t.Leading[0].Span.Start
}

// LeadingText concatenates the leading trivia verbatim.
func (t Token) LeadingText() string {
	if len(t.Leading) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, tv := range t.Leading {
		sb.WriteString(tv.Text)
	}
	return sb.String()
}
