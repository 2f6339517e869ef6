package token_test

import (
	"testing"

	"rewrite/internal/source"
	"rewrite/internal/token"
)

func TestLeadingTextConcatenatesTrivia(t *testing.T) {
	tok := token.Token{
		Kind: token.Ident,
		Span: source.Span{Start: 12, End: 15},
		Text: "foo",
		Leading: []token.Trivia{
			{Kind: token.TriviaNewline, Span: source.Span{Start: 0, End: 1}, Text: "\n"},
			{Kind: token.TriviaBlockComment, Span: source.Span{Start: 1, End: 8}, Text: "/* x */"},
			{Kind: token.TriviaSpace, Span: source.Span{Start: 8, End: 12}, Text: "    "},
		},
	}
	if got := tok.LeadingText(); got != "\n/* x */    " {
		t.Fatalf("LeadingText() = %q", got)
	}
	if tok.LeadStart() != 0 {
		t.Fatalf("LeadStart() = %d, want 0", tok.LeadStart())
	}
	if !tok.Leading[1].IsComment() || tok.Leading[2].IsComment() {
		t.Fatal("comment classification is off")
	}
}
