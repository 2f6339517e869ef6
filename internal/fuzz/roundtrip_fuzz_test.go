package fuzztests

import (
	"testing"

	"rewrite/internal/format"
	"rewrite/internal/parser"
)

// FuzzRoundTrip parses input and prints the untouched tree back; any file
// that parses must come out byte for byte.
func FuzzRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		src := string(clip(input))
		u, err := parser.Parse(src)
		if err != nil {
			return
		}
		out, err := format.Unit(u)
		if err != nil {
			t.Fatalf("print failed: %v", err)
		}
		if out != src {
			t.Fatalf("round trip changed the source\n got: %q\nwant: %q", out, src)
		}
	})
}
