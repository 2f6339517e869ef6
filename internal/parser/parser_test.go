package parser_test

import (
	"errors"
	"strings"
	"testing"

	"rewrite/internal/ast"
	"rewrite/internal/parser"
	"rewrite/internal/types"
)

const overloadsA = `package a;
public class A {
   public void foo(String s, Integer m, Integer n) {}
   public void foo(Integer n, Integer m, String s) {}
}
`

const varargsA = `package a;
public class A {
   public void foo(String s, Integer n, Object... o) {}
   public void bar(String s, Object... o) {}
}
`

func mustParse(t *testing.T, primary string, aux ...string) *ast.Unit {
	t.Helper()
	u, err := parser.Parse(primary, aux...)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return u
}

// calls collects the resolved invocations in source order.
func calls(u *ast.Unit) []*ast.InvocationData {
	var out []*ast.InvocationData
	for _, id := range u.Invocations() {
		out = append(out, u.Tree.Invocation(id))
	}
	return out
}

func TestParse_RootCoversWholeFile(t *testing.T) {
	srcs := []string{
		overloadsA,
		"\uFEFF// header\r\npackage p;\r\n\r\nclass C { int x = 1; }\r\n\r\n",
		"/** doc */ class C {\n\tvoid f() { g(1, /* two */ 2); }\n\tvoid g(int a, int b) {}\n}\n// eof",
	}
	for _, src := range srcs {
		u := mustParse(t, src)
		if got := u.Tree.Text(u.Root); got != src {
			t.Errorf("root text mismatch:\n got %q\nwant %q", got, src)
		}
		if u.Source() != src {
			t.Errorf("Source() mismatch for %q", src)
		}
	}
}

func TestParse_UnitHeader(t *testing.T) {
	u := mustParse(t, `package p.q;
import a.A;
import static a.A.foo;
import b.*;
public class C {}
interface D {}
`)
	if u.Package != "p.q" {
		t.Errorf("package = %q", u.Package)
	}
	if len(u.Imports) != 3 {
		t.Fatalf("imports = %d, want 3", len(u.Imports))
	}
	if !u.Imports[1].Static || u.Imports[1].Path != "a.A.foo" {
		t.Errorf("static import = %+v", u.Imports[1])
	}
	if !u.Imports[2].Wildcard || u.Imports[2].Path != "b" {
		t.Errorf("wildcard import = %+v", u.Imports[2])
	}
	if len(u.Types) != 2 {
		t.Fatalf("types = %d, want 2", len(u.Types))
	}
	if name := u.Tree.Name(u.Types[0]).Name; name != "p.q.C" {
		t.Errorf("first type = %q", name)
	}
	if _, ok := u.Catalog.Lookup("p.q.D"); !ok {
		t.Errorf("interface D missing from catalog")
	}
}

func TestParse_ResolvesOverloadBySwappedTypes(t *testing.T) {
	u := mustParse(t, `import a.*;
public class B {
   A a;
   public void test() {
       a.foo("mystring", 1, 2);
       a.foo(1, 2, "mystring");
   }
}
`, overloadsA)
	cs := calls(u)
	if len(cs) != 2 {
		t.Fatalf("calls = %d, want 2", len(cs))
	}
	want := []string{
		"a.A.foo(java.lang.String, java.lang.Integer, java.lang.Integer)",
		"a.A.foo(java.lang.Integer, java.lang.Integer, java.lang.String)",
	}
	for i, c := range cs {
		if c.Method == nil {
			t.Fatalf("call %d unresolved", i)
		}
		if got := c.Method.Signature(); got != want[i] {
			t.Errorf("call %d: got %s, want %s", i, got, want[i])
		}
	}
}

func TestParse_ResolvesVarargsAndReceivers(t *testing.T) {
	u := mustParse(t, `import a.*;
public class B {
   public void test() {
       A local = new A();
       local.foo("mystring", 0, "a", "b");
       new A().bar("mystring");
       this.helper(local);
   }
   private void helper(A x) {}
}
`, varargsA)
	cs := calls(u)
	if len(cs) != 3 {
		t.Fatalf("calls = %d, want 3", len(cs))
	}
	if cs[0].Method == nil || cs[0].Method.Name != "foo" || !cs[0].Method.IsVariadic() {
		t.Errorf("foo: got %v", cs[0].Method)
	}
	if cs[1].Method == nil || cs[1].Method.Name != "bar" {
		t.Errorf("bar: got %v", cs[1].Method)
	}
	if cs[2].Method == nil || cs[2].Method.Owner != "B" {
		t.Errorf("helper: got %v", cs[2].Method)
	}
}

func TestParse_UnknownReceiverStaysUnresolved(t *testing.T) {
	u := mustParse(t, `class C {
    void f(java.util.List<String> xs) {
        xs.add("x");
        System.out.println(xs.size());
    }
}
`)
	for _, c := range calls(u) {
		if c.Method != nil {
			t.Errorf("%s: expected no resolution, got %s", c.Name, c.Method)
		}
	}
}

func TestParse_ArgumentLayout(t *testing.T) {
	u := mustParse(t, `import a.*;
public class B {
   A a;
   public void test() {
       a.foo(
           "mystring", // first
           1,
           2
       );
   }
}
`, overloadsA)
	cs := calls(u)
	if len(cs) != 1 {
		t.Fatalf("calls = %d", len(cs))
	}
	args := u.Tree.Args(cs[0].Args)
	if args.Slots() != 3 {
		t.Fatalf("slots = %d", args.Slots())
	}
	if args.SlotPrefixes[0] != "\n           " {
		t.Errorf("slot 0 prefix = %q", args.SlotPrefixes[0])
	}
	if args.SlotSuffixes[0] != "" {
		t.Errorf("slot 0 suffix = %q", args.SlotSuffixes[0])
	}
	if args.Close != "\n       " {
		t.Errorf("close = %q", args.Close)
	}
	kids := u.Tree.Node(cs[0].Args).Children
	first := u.Tree.Node(kids[0])
	if first.Prefix != "\n           " {
		t.Errorf("first arg prefix = %q", first.Prefix)
	}
	second := u.Tree.Node(kids[1])
	if second.Prefix != " // first\n           " {
		t.Errorf("second arg prefix = %q", second.Prefix)
	}
}

func TestParse_PrefixBelongsToOutermostNode(t *testing.T) {
	u := mustParse(t, "class C {\n  int f() { return  a + b; }\n  int a, b;\n}\n")
	for id := range u.Tree.Preorder(u.Root) {
		n := u.Tree.Node(id)
		if n.Kind != ast.KindBinary {
			continue
		}
		if n.Prefix != "  " {
			t.Errorf("binary prefix = %q", n.Prefix)
		}
		lhs := u.Tree.Node(n.Children[0])
		if lhs.Prefix != "" {
			t.Errorf("lhs shares the binary start, prefix = %q", lhs.Prefix)
		}
		return
	}
	t.Fatal("no binary expression found")
}

func TestParse_Literals(t *testing.T) {
	u := mustParse(t, `public class A {
    int n = 0;
    String s = "foo ''";
    Long l = 2L;
    char c = '\n';
    double d = 1e3;
    float f = 1.5f;
    Object o = null;
}
`)
	want := []struct {
		tag   ast.Tag
		value ast.Value
	}{
		{ast.TagInt, int32(0)},
		{ast.TagString, "foo ''"},
		{ast.TagLong, int64(2)},
		{ast.TagChar, '\n'},
		{ast.TagDouble, 1000.0},
		{ast.TagFloat, float32(1.5)},
		{ast.TagNull, nil},
	}
	var got []*ast.LiteralData
	for id := range u.Tree.Preorder(u.Root) {
		if lit := u.Tree.Literal(id); lit != nil {
			got = append(got, lit)
		}
	}
	if len(got) != len(want) {
		t.Fatalf("literals = %d, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Tag != w.tag || got[i].Value != w.value {
			t.Errorf("literal %d = %s %v, want %s %v", i, got[i].Tag, got[i].Value, w.tag, w.value)
		}
	}
}

func TestParse_OpaqueStatementsKeepInnerCalls(t *testing.T) {
	u := mustParse(t, `import a.*;
class B {
    A a;
    void test(int[] xs) {
        for (int i = 0; i < xs.length; i++) {
            a.foo("s", i, 2);
        }
        try {
            Runnable r = () -> a.foo("t", 1, 2);
        } catch (RuntimeException e) {
            throw e;
        }
        switch (xs.length) {
        case 1 -> a.foo(1, 2, "u");
        default -> { }
        }
        int y = xs.length >> 1;
        y >>>= 2;
    }
}
`, overloadsA)
	cs := calls(u)
	if len(cs) != 3 {
		t.Fatalf("calls = %d, want 3", len(cs))
	}
	for _, c := range cs {
		if c.Method == nil {
			t.Errorf("call %s unresolved", c.Name)
		}
	}
}

func TestParse_StripNamesIndexUsesPlaceholders(t *testing.T) {
	idx, err := parser.Parse(overloadsA)
	if err != nil {
		t.Fatal(err)
	}
	ci, _ := idx.Catalog.Lookup("a.A")
	stripped := types.NewIndex([]*types.ClassInfo{ci}, types.IndexOptions{StripNames: true}).Classes

	u, err := parser.ParseWith(parser.Options{Index: stripped}, `import a.A;
class B { void t(A a) { a.foo("x", 1, 2); } }
`)
	if err != nil {
		t.Fatal(err)
	}
	cs := calls(u)
	if len(cs) != 1 || cs[0].Method == nil {
		t.Fatalf("expected one resolved call, got %v", cs)
	}
	if got := strings.Join(cs[0].Method.ParamNames(), ","); got != "arg0,arg1,arg2" {
		t.Errorf("param names = %s", got)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	_, err := parser.Parse("class C { void f() { g(1, ; } }")
	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *parser.Error, got %v", err)
	}
	if !perr.Bag.HasErrors() {
		t.Errorf("bag carries no errors")
	}
	if !strings.Contains(err.Error(), "C.java:1:") {
		t.Errorf("error text lacks position: %v", err)
	}
}

func TestParse_DuplicateClassAcrossSources(t *testing.T) {
	if _, err := parser.Parse("package a; class X {}", "package a; class X {}"); err == nil {
		t.Fatal("expected duplicate class error")
	}
}
