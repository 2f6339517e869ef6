package fix_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/fix"
	"rewrite/internal/format"
	"rewrite/internal/match"
	"rewrite/internal/parser"
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

func newSession(t *testing.T, u *ast.Unit) *fix.Session {
	return fix.NewSession(u, fix.WithLogger(zaptest.NewLogger(t)))
}

func findCalls(t *testing.T, u *ast.Unit, pattern string) []ast.NodeID {
	t.Helper()
	calls := match.FindAll(u, match.MustCompile(pattern))
	if len(calls) == 0 {
		t.Fatalf("no calls match %q", pattern)
	}
	return calls
}

func argsOf(u *ast.Unit, call ast.NodeID) []ast.NodeID {
	return u.Tree.Node(u.Tree.Invocation(call).Args).Children
}

func mustFix(t *testing.T, s *fix.Session) string {
	t.Helper()
	out, err := s.Fix()
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	return out
}

func assertText(t *testing.T, want, got string) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSession_ReorderMultilineAfterLiteralChange(t *testing.T) {
	b := `import a.*;
public class B {
   A a;
   public void test() {
       a.foo(
           "mystring",
           1,
           2
       );
   }
}
`
	u := mustParse(t, b, overloadsA)
	s := newSession(t, u)
	for _, call := range findCalls(t, u, "a.A foo(..)") {
		s.ChangeLiteral(argsOf(u, call)[0], func(ast.Value) ast.Value { return "anotherstring" })
		s.ReorderArguments(call, "n", "m", "s")
	}
	assertText(t, `import a.*;
public class B {
   A a;
   public void test() {
       a.foo(
           2,
           1,
           "anotherstring"
       );
   }
}
`, mustFix(t, s))
}

func TestSession_ReorderWithOriginalNames(t *testing.T) {
	a := `package a;
public class A {
   public void foo(String arg0, Integer... arg1) {}
   public void foo(Integer arg0, Integer arg1, String arg2) {}
}
`
	b := `import a.*;
public class B {
   A a;
   public void test() {
       a.foo("s", 0, 1);
   }
}
`
	u := mustParse(t, b, a)
	s := newSession(t, u)
	for _, call := range findCalls(t, u, "a.A foo(..)") {
		s.ReorderArguments(call, "n", "s").WithOriginalNames("s", "n")
	}
	assertText(t, strings.Replace(b, `a.foo("s", 0, 1)`, `a.foo(0, 1, "s")`, 1), mustFix(t, s))
}

func TestSession_ReorderVariadicGroup(t *testing.T) {
	b := `import a.*;
public class B {
   A a;
   public void test() {
       a.foo("mystring", 0, "a", "b");
   }
}
`
	u := mustParse(t, b, varargsA)
	s := newSession(t, u)
	for _, call := range findCalls(t, u, "a.A foo(..)") {
		s.ReorderArguments(call, "s", "o", "n")
	}
	assertText(t, strings.Replace(b, `a.foo("mystring", 0, "a", "b")`, `a.foo("mystring", "a", "b", 0)`, 1), mustFix(t, s))
}

func TestSession_ReorderMissingVariadicIsNoop(t *testing.T) {
	a := `package a;
public class A {
   public void foo(String s, Object... o) {}
}
`
	b := `import a.*;
public class B {
   public void test() {
       new A().foo("mystring");
   }
}
`
	u := mustParse(t, b, a)
	s := newSession(t, u)
	for _, call := range findCalls(t, u, "a.A foo(..)") {
		s.ReorderArguments(call, "o", "s")
	}
	assertText(t, b, mustFix(t, s))
}

func TestSession_ReorderDropsUnlistedArguments(t *testing.T) {
	b := `import a.*;
public class B {
   A a;
   public void test() {
       a.foo("mystring", 0, "a", "b");
   }
}
`
	u := mustParse(t, b, varargsA)
	s := newSession(t, u)
	s.ReorderArguments(findCalls(t, u, "a.A foo(..)")[0], "n", "s")
	assertText(t, strings.Replace(b, `a.foo("mystring", 0, "a", "b")`, `a.foo(0, "mystring")`, 1), mustFix(t, s))
}

func TestSession_CommentsTravelAndCRLFSurvives(t *testing.T) {
	b := "import a.*;\r\n// keep me\r\npublic class B {\r\n   A a;\r\n   public void test() {\r\n" +
		"       a.foo(\"mystring\" /* s */, 1, 2);\r\n   }\r\n}\r\n"
	u := mustParse(t, b, overloadsA)
	s := newSession(t, u)
	s.ReorderArguments(findCalls(t, u, "a.A foo(..)")[0], "n", "m", "s")
	want := strings.Replace(b, `a.foo("mystring" /* s */, 1, 2)`, `a.foo(2, 1, "mystring" /* s */)`, 1)
	assertText(t, want, mustFix(t, s))
}

func TestSession_LeadingCommentLeavesFirstSlot(t *testing.T) {
	b := "import a.*;\npublic class B {\n   A a;\n   public void test() {\n" +
		"       a.foo(/*first*/ \"x\", 1, 2);\n   }\n}\n"
	u := mustParse(t, b, overloadsA)
	s := newSession(t, u)
	s.ReorderArguments(findCalls(t, u, "a.A foo(..)")[0], "n", "m", "s")
	want := strings.Replace(b, `a.foo(/*first*/ "x", 1, 2)`, `a.foo(2, 1,/*first*/ "x")`, 1)
	assertText(t, want, mustFix(t, s))
}

func TestSession_NoopIsIdentity(t *testing.T) {
	b := `import a.*;
public class B {
   A a;
   public void test() {
       a.foo( "mystring" ,1,
       2 ); // trailing
   }
}
`
	u := mustParse(t, b, overloadsA)
	assertText(t, b, mustFix(t, newSession(t, u)))

	s := newSession(t, u)
	s.ReorderArguments(findCalls(t, u, "a.A foo(..)")[0], "s", "m", "n")
	assertText(t, b, mustFix(t, s))
}

func TestSession_ChangeLiteral(t *testing.T) {
	src := `public class A {
    int n = 0;
    String s = "foo ''";
    Long l = 2L;
    double d = 1.5;
    char c = 'x';
}
`
	u := mustParse(t, src)
	lits := map[ast.Tag]ast.NodeID{}
	for id := range u.Tree.Preorder(u.Root) {
		if lit := u.Tree.Literal(id); lit != nil {
			lits[lit.Tag] = id
		}
	}
	s := newSession(t, u)
	s.ChangeLiteral(lits[ast.TagInt], fix.Transform(func(v int32) int32 { return v }))
	s.ChangeLiteral(lits[ast.TagString], fix.Transform(func(v string) string {
		before, _, _ := strings.Cut(v, " ")
		return before
	}))
	s.ChangeLiteral(lits[ast.TagLong], fix.Transform(func(v int64) int64 { return v * 2 }))
	s.ChangeLiteral(lits[ast.TagDouble], fix.Transform(func(v float64) float64 { return v * 2 }))
	s.ChangeLiteral(lits[ast.TagChar], fix.Transform(func(v rune) rune { return '\n' }))
	assertText(t, `public class A {
    int n = 0;
    String s = "foo";
    Long l = 4L;
    double d = 3.0;
    char c = '\n';
}
`, mustFix(t, s))
}

func TestSession_ChangeNegativeLiteral(t *testing.T) {
	a := `package a;
public class A {
   public void i(int x) {}
   public void d(double x) {}
}
`
	b := `import a.*;
public class B {
   A a;
   int min = -2147483648;
   long lmin = -9223372036854775808L;
   public void test() {
       a.i(-1);
       a.d(-1.5);
       a.i(2-1);
   }
}
`
	u := mustParse(t, b, a)
	s := newSession(t, u)
	var folded []string
	for id := range u.Tree.Preorder(u.Root) {
		lit := u.Tree.Literal(id)
		if lit == nil {
			continue
		}
		switch lit.Tag {
		case ast.TagInt:
			if v := lit.Value.(int32); v < 0 {
				folded = append(folded, u.Tree.Text(id))
			}
			s.ChangeLiteral(id, fix.Transform(func(v int32) int32 {
				if v == 1 || v == -1 {
					return -5
				}
				return v
			}))
		case ast.TagLong:
			s.ChangeLiteral(id, fix.Transform(func(v int64) int64 { return v }))
		case ast.TagDouble:
			s.ChangeLiteral(id, fix.Transform(func(v float64) float64 { return v - 1 }))
		}
	}
	if diff := cmp.Diff([]string{"-2147483648", "-1"}, folded); diff != "" {
		t.Errorf("negative int literals (-want +got):\n%s", diff)
	}
	want := strings.NewReplacer(
		"a.i(-1)", "a.i(-5)",
		"a.d(-1.5)", "a.d(-(-2.5))",
		"a.i(2-1)", "a.i(2-(-5))",
	).Replace(b)
	assertText(t, want, mustFix(t, s))
}

func TestSession_LiteralTypeErrors(t *testing.T) {
	src := "class A { int n = 7; }\n"
	u := mustParse(t, src)
	var lit ast.NodeID
	for id := range u.Tree.Preorder(u.Root) {
		if u.Tree.Node(id).Kind == ast.KindLiteral {
			lit = id
		}
	}
	transforms := map[string]func(ast.Value) ast.Value{
		"typed":   fix.Transform(func(s string) string { return s }),
		"untyped": func(v ast.Value) ast.Value { return int(v.(int32)) },
	}
	for name, fn := range transforms {
		t.Run(name, func(t *testing.T) {
			s := newSession(t, u)
			s.ChangeLiteral(lit, fn)
			out, err := s.Fix()
			if out != "" {
				t.Errorf("partial output %q", out)
			}
			var lte *fix.LiteralTypeError
			if !errors.As(err, &lte) {
				t.Fatalf("err = %v, want LiteralTypeError", err)
			}
			var fe *fix.Error
			if !errors.As(err, &fe) || fe.Code() != diag.RwrLiteralType {
				t.Errorf("err = %#v", err)
			}
		})
	}
}

func TestSession_UnknownNameFailsAtomically(t *testing.T) {
	b := `import a.*;
public class B {
   A a;
   public void test() {
       a.foo("mystring", 1, 2);
   }
}
`
	u := mustParse(t, b, overloadsA)
	call := findCalls(t, u, "a.A foo(..)")[0]

	s := newSession(t, u)
	s.ChangeLiteral(argsOf(u, call)[0], fix.Transform(func(string) string { return "x" }))
	s.ReorderArguments(call, "n", "q", "s")
	out, err := s.Fix()
	if out != "" {
		t.Errorf("partial output %q", out)
	}
	var fe *fix.Error
	if !errors.As(err, &fe) || fe.Index != 1 {
		t.Fatalf("err = %v, want *fix.Error at index 1", err)
	}
	var une *fix.UnknownParameterNameError
	if !errors.As(err, &une) || une.Name != "q" {
		t.Fatalf("err = %v, want UnknownParameterNameError for q", err)
	}
	if fe.Code() != diag.RwrUnknownParameterName {
		t.Errorf("code = %v", fe.Code())
	}
	if _, err := s.Fix(); !errors.Is(err, fix.ErrAlreadyFixed) {
		t.Errorf("second Fix: %v", err)
	}

	orig, err := format.Unit(u)
	if err != nil || orig != b {
		t.Fatalf("unit changed: %q, %v", orig, err)
	}
	again := newSession(t, u)
	again.ReorderArguments(call, "n", "m", "s")
	assertText(t, strings.Replace(b, `"mystring", 1, 2`, `2, 1, "mystring"`, 1), mustFix(t, again))
}

func TestSession_RepeatedNameRejected(t *testing.T) {
	u := mustParse(t, `import a.*;
class B { A a; void f() { a.foo("x", 1, 2); } }
`, overloadsA)
	s := newSession(t, u)
	s.ReorderArguments(findCalls(t, u, "a.A foo(..)")[0], "s", "s")
	_, err := s.Fix()
	var une *fix.UnknownParameterNameError
	if !errors.As(err, &une) || !une.Repeated {
		t.Fatalf("err = %v", err)
	}
}

func TestSession_StaleReferenceAfterDrop(t *testing.T) {
	u := mustParse(t, `import a.*;
class B { A a; void f() { a.foo("x", 1, 2); } }
`, overloadsA)
	call := findCalls(t, u, "a.A foo(..)")[0]
	dropped := argsOf(u, call)[1]

	s := newSession(t, u)
	s.ReorderArguments(call, "s", "n")
	s.ChangeLiteral(dropped, fix.Transform(func(v int32) int32 { return v + 1 }))
	_, err := s.Fix()
	var stale *fix.StaleNodeReferenceError
	if !errors.As(err, &stale) || stale.Node != dropped {
		t.Fatalf("err = %v, want StaleNodeReferenceError", err)
	}
	var fe *fix.Error
	if errors.As(err, &fe) && fe.Index != 1 {
		t.Errorf("index = %d", fe.Index)
	}
}

func TestSession_WrongTargets(t *testing.T) {
	u := mustParse(t, `class B { void f() { unknown.foo(1); } }
`)
	var call, lit ast.NodeID
	for id := range u.Tree.Preorder(u.Root) {
		switch u.Tree.Node(id).Kind {
		case ast.KindInvocation:
			call = id
		case ast.KindLiteral:
			lit = id
		}
	}

	s := newSession(t, u)
	s.ReorderArguments(call, "x")
	_, err := s.Fix()
	var unresolved *fix.UnresolvedCallError
	if !errors.As(err, &unresolved) {
		t.Errorf("unresolved call: %v", err)
	}

	s = newSession(t, u)
	s.ReorderArguments(lit)
	_, err = s.Fix()
	var wrong *fix.WrongNodeKindError
	if !errors.As(err, &wrong) || wrong.Kind != ast.KindLiteral {
		t.Errorf("wrong kind: %v", err)
	}

	s = newSession(t, u)
	s.ChangeLiteral(ast.NodeID(u.Tree.Len()+10), fix.Transform(func(v int32) int32 { return v }))
	_, err = s.Fix()
	var stale *fix.StaleNodeReferenceError
	if !errors.As(err, &stale) {
		t.Errorf("unknown node: %v", err)
	}
}
