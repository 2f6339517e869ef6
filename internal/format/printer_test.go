package format_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/format"
	"rewrite/internal/parser"
	"rewrite/internal/source"
)

func parse(t *testing.T, src string) *ast.Unit {
	t.Helper()
	u, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return u
}

func firstCall(t *testing.T, tree *ast.Tree) *ast.InvocationData {
	t.Helper()
	for id := range tree.Preorder(tree.Root) {
		if inv := tree.Invocation(id); inv != nil {
			return inv
		}
	}
	t.Fatal("no invocation in tree")
	return nil
}

func render(t *testing.T, tree *ast.Tree) string {
	t.Helper()
	out, err := format.Render(tree, tree.Root)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return out
}

const sample = "// leading\r\nclass C {\r\n  void f() {\r\n    g(1, /* two */ 2);\r\n  }\r\n  void g(int a, int b) {}\r\n}\r\n"

func TestUnit_RoundTrip(t *testing.T) {
	for _, src := range []string{
		sample,
		"\uFEFFclass C { String s = \"a\\tb\"; long l = 0x1FL; }",
		"class C {\n\tint f(int x) { return x >>> 2; } // tail\n}\n\n/* eof */",
	} {
		u := parse(t, src)
		got, err := format.Unit(u)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(src, got); diff != "" {
			t.Errorf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestRender_DirtyWithoutChangesIsIdentity(t *testing.T) {
	u := parse(t, sample)
	tree := u.Tree.Clone()
	for id := range tree.Preorder(tree.Root) {
		if n := tree.Node(id); n.Kind == ast.KindArgs || n.Kind == ast.KindLiteral {
			tree.MarkDirty(id)
		}
	}
	if diff := cmp.Diff(sample, render(t, tree)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if u.Tree.DirtyCount() != 0 {
		t.Errorf("original tree was dirtied")
	}
}

func TestRender_SubtreeOmitsOwnPrefix(t *testing.T) {
	u := parse(t, sample)
	inv := firstCall(t, u.Tree)
	got, err := format.Render(u.Tree, inv.Args)
	if err != nil {
		t.Fatal(err)
	}
	if got != "(1, /* two */ 2)" {
		t.Errorf("got %q", got)
	}
}

func TestRender_ReversedMultilineArgsKeepSlotLayout(t *testing.T) {
	src := `class B {
   void test() {
       foo(
           "mystring",
           1,
           2
       );
   }
   void foo(String s, int m, int n) {}
}
`
	want := `class B {
   void test() {
       foo(
           2,
           1,
           "mystring"
       );
   }
   void foo(String s, int m, int n) {}
}
`
	tree := parse(t, src).Tree.Clone()
	inv := firstCall(t, tree)
	kids := slices.Clone(tree.Node(inv.Args).Children)
	slices.Reverse(kids)
	tree.SetChildren(inv.Args, kids)
	tree.MarkDirty(inv.Args)
	if diff := cmp.Diff(want, render(t, tree)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_CommentsTravelWithArgument(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"suffix", "class C { void t() { f(a /* A */, b); } }", "class C { void t() { f(b, a /* A */); } }"},
		{"prefix", "class C { void t() { f(a, /* B */ b); } }", "class C { void t() { f( /* B */ b, a); } }"},
		{"leading", "class C { void t() { f(/* A */ a, b); } }", "class C { void t() { f(b,/* A */ a); } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := parse(t, tt.src).Tree.Clone()
			inv := firstCall(t, tree)
			kids := slices.Clone(tree.Node(inv.Args).Children)
			slices.Reverse(kids)
			tree.SetChildren(inv.Args, kids)
			tree.MarkDirty(inv.Args)
			if diff := cmp.Diff(tt.want, render(t, tree)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_DirtyLiteralPrintsItsText(t *testing.T) {
	tree := parse(t, sample).Tree.Clone()
	inv := firstCall(t, tree)
	lit := tree.Node(inv.Args).Children[0]
	tree.Literal(lit).Text = "42"
	tree.MarkDirty(lit)
	want := "// leading\r\nclass C {\r\n  void f() {\r\n    g(42, /* two */ 2);\r\n  }\r\n  void g(int a, int b) {}\r\n}\r\n"
	if diff := cmp.Diff(want, render(t, tree)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_SynthesizedArgumentIsCanonical(t *testing.T) {
	tree := parse(t, "class C { void t() { g(1, 2); } }").Tree.Clone()
	inv := firstCall(t, tree)
	extra := tree.NewNode(ast.KindIdent, source.NoSpan, ast.PayloadID(tree.Names.Allocate(ast.NameData{Name: "extra"})))
	tree.SetChildren(inv.Args, append(slices.Clone(tree.Node(inv.Args).Children), extra))
	tree.MarkDirty(inv.Args)
	if got, want := render(t, tree), "class C { void t() { g(1, 2, extra); } }"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_InvariantViolation(t *testing.T) {
	tree := parse(t, "class C { void t() { g(1); } }").Tree.Clone()
	inv := firstCall(t, tree)
	bad := tree.NewNode(ast.KindBlock, source.NoSpan, ast.NoPayloadID)
	tree.SetChildren(inv.Args, []ast.NodeID{bad})
	tree.MarkDirty(inv.Args)

	_, err := format.Render(tree, tree.Root)
	var v *format.PrintInvariantViolation
	if !errors.As(err, &v) {
		t.Fatalf("expected PrintInvariantViolation, got %v", err)
	}
	if v.Node != bad || v.Code() != diag.PrnInvariantViolation {
		t.Errorf("unexpected violation %+v", v)
	}
}
