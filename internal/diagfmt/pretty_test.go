package diagfmt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"rewrite/internal/diag"
	"rewrite/internal/source"
)

func sampleBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	content := "class A {\n\tvoid m() { foo(1, 2); }\n}\n"
	id := fs.Add("/work/src/A.java", []byte(content), 0)
	start := uint32(strings.Index(content, "foo")) //nolint:gosec // small fixture
	call := source.Span{File: id, Start: start, End: start + uint32(len("foo(1, 2)"))}
	arg := source.Span{File: id, Start: start + 4, End: start + 5}

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.RwrUnknownParameterName, call, "unknown parameter name \"z\"").
		WithNote(arg, "argument bound here"))
	return bag, fs
}

func TestPretty_Excerpt(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})

	want := "A.java:2:13: ERROR RWR3002: unknown parameter name \"z\"\n" +
		"2 |     void m() { foo(1, 2); }\n" +
		"  |" + strings.Repeat(" ", 16) + "^~~~~~~~~\n" +
		"  note: A.java:2:17: argument bound here\n" +
		"2 |     void m() { foo(1, 2); }\n" +
		"  |" + strings.Repeat(" ", 20) + "^\n"
	if got := buf.String(); got != want {
		t.Fatalf("pretty output mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPretty_HidesNotes(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	if strings.Contains(buf.String(), "note:") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}
}

func TestPathModes(t *testing.T) {
	p := filepath.FromSlash("/work/src/A.java")
	tests := []struct {
		mode PathMode
		base string
		want string
	}{
		{PathModeBasename, "", "A.java"},
		{PathModeRelative, filepath.FromSlash("/work"), "src/A.java"},
		{PathModeAuto, filepath.FromSlash("/elsewhere"), p},
		{PathModeAuto, "", p},
	}
	for _, tt := range tests {
		if got := formatPath(p, tt.mode, tt.base); got != tt.want {
			t.Errorf("formatPath(%d, %q) = %q, want %q", tt.mode, tt.base, got, tt.want)
		}
	}
}

func TestJSON(t *testing.T) {
	bag, fs := sampleBag(t)
	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, IncludeNotes: true, PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("count = %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "RWR3002" || d.Severity != diag.SevError {
		t.Fatalf("unexpected header %+v", d)
	}
	if d.Location.File != "A.java" || d.Location.StartLine != 2 || d.Location.StartCol != 13 {
		t.Fatalf("unexpected location %+v", d.Location)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.StartCol != 17 {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
}

func TestJSON_Max(t *testing.T) {
	bag, fs := sampleBag(t)
	bag.Add(diag.NewError(diag.RwrStaleNodeReference, source.Span{}, "stale"))
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Truncated != 1 {
		t.Fatalf("Max not applied: count=%d truncated=%d", out.Count, out.Truncated)
	}
}
