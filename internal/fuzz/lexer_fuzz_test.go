package fuzztests

import (
	"testing"

	"rewrite/internal/diag"
	"rewrite/internal/lexer"
	"rewrite/internal/source"
	"rewrite/internal/token"
)

// FuzzLexerTerminates checks that lexing ends with EOF and that token
// spans never run backwards or past the input.
func FuzzLexerTerminates(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("Fuzz.java", input))

		bag := diag.NewBag(128)
		lx := lexer.New(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		toks := lx.All()
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("token stream does not end with EOF")
		}

		var prev uint32
		for _, tok := range toks {
			for _, tr := range tok.Leading {
				if tr.Span.Start < prev || tr.Span.End < tr.Span.Start {
					t.Fatalf("trivia span %v out of order (prev end %d)", tr.Span, prev)
				}
				prev = tr.Span.End
			}
			if tok.Span.Start < prev || tok.Span.End < tok.Span.Start {
				t.Fatalf("token span %v out of order (prev end %d)", tok.Span, prev)
			}
			prev = tok.Span.End
		}
		if int(prev) > len(input) {
			t.Fatalf("spans end at %d past input length %d", prev, len(input))
		}
	})
}
