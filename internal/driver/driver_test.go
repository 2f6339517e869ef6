package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"rewrite/internal/diag"
	"rewrite/internal/match"
	"rewrite/internal/observ"
	"rewrite/internal/parser"
	"rewrite/internal/project"
)

const libA = `package a;
public class A {
   public void foo(String s, Integer m, Integer n) {}
   public void foo(Integer n, Integer m, String s) {}
   public void bar(String s, Object... o) {}
}
`

const callerB = `import a.*;
public class B {
   A a;
   public void test() {
       a.foo("mystring", 1, 2);
       a.bar("x", 1, 2);
   }
}
`

const callerC = `import a.*;
class C {
   void run(A a) { a.foo(1, 2, "other"); }
}
`

const recipeSrc = `
[[reorder]]
pattern = "a.A foo(String, ..)"
order = ["n", "m", "s"]

[[literal]]
pattern = "a.A foo(String, ..)"
arg = 0
set = "anotherstring"
`

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testOptions(t *testing.T, dir string) Options {
	return Options{
		Jobs:   2,
		Deps:   []string{filepath.Join(dir, "a", "A.java")},
		Logger: zaptest.NewLogger(t),
		Timer:  observ.NewTimer(),
	}
}

func TestApplyRecipe(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a/A.java": libA, "B.java": callerB, "C.java": callerC})
	opts := testOptions(t, dir)
	recipe, err := project.ParseRecipe(recipeSrc)
	if err != nil {
		t.Fatal(err)
	}

	b, err := Load(context.Background(), []string{filepath.Join(dir, "B.java"), filepath.Join(dir, "C.java")}, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	results, err := Apply(context.Background(), b, recipe, opts)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}

	wantB := strings.Replace(callerB, `a.foo("mystring", 1, 2)`, `a.foo(2, 1, "anotherstring")`, 1)
	if results[0].Err != nil || results[0].Output != wantB {
		t.Errorf("B: err=%v\n%s", results[0].Err, results[0].Output)
	}
	if results[0].Ops != 2 || !results[0].Changed() {
		t.Errorf("B: ops=%d changed=%v", results[0].Ops, results[0].Changed())
	}
	if results[1].Err != nil || results[1].Changed() || results[1].Ops != 0 {
		t.Errorf("C should be untouched: %+v", results[1])
	}
	if !strings.HasSuffix(results[1].Path, "C.java") {
		t.Errorf("result order: %s", results[1].Path)
	}
	if len(opts.Timer.Report().Phases) < 4 {
		t.Errorf("phases = %+v", opts.Timer.Report().Phases)
	}
}

func TestApplyReportsPerFileErrors(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a/A.java": libA, "B.java": callerB, "C.java": callerC})
	opts := testOptions(t, dir)
	recipe, err := project.ParseRecipe(`
[[reorder]]
pattern = "a.A foo(..)"
order = ["n", "nope"]
`)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Load(context.Background(), []string{filepath.Join(dir, "B.java"), filepath.Join(dir, "C.java")}, opts)
	if err != nil {
		t.Fatal(err)
	}
	results, err := Apply(context.Background(), b, recipe, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range results {
		if r.Err == nil || r.Output != r.Original {
			t.Errorf("%s: expected failure with original text, got err=%v", r.Path, r.Err)
		}
	}

	bag := Diagnostics(b, results)
	if bag.Len() != len(results) {
		t.Fatalf("diagnostics = %d, want %d", bag.Len(), len(results))
	}
	for _, d := range bag.Items() {
		if d.Code != diag.RwrUnknownParameterName {
			t.Errorf("code = %s, want %s", d.Code.ID(), diag.RwrUnknownParameterName.ID())
		}
		if d.Primary.Empty() {
			t.Errorf("diagnostic %q has no location", d.Message)
		}
	}
}

func TestApplyCancelled(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a/A.java": libA, "B.java": callerB})
	opts := testOptions(t, dir)
	recipe, _ := project.ParseRecipe(recipeSrc)
	b, err := Load(context.Background(), []string{filepath.Join(dir, "B.java")}, opts)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Apply(ctx, b, recipe, opts); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if _, err := Load(ctx, []string{filepath.Join(dir, "B.java")}, opts); !errors.Is(err, context.Canceled) {
		t.Errorf("Load err = %v, want context.Canceled", err)
	}
}

func TestLoadSyntaxError(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a/A.java": libA, "B.java": "class B { void f( }\n"})
	b, err := Load(context.Background(), []string{filepath.Join(dir, "B.java")}, testOptions(t, dir))
	var perr *parser.Error
	if !errors.As(err, &perr) {
		t.Fatalf("err = %v, want *parser.Error", err)
	}
	if !b.Diagnostics.HasErrors() {
		t.Errorf("batch diagnostics empty")
	}
}

func TestFind(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a/A.java": libA, "B.java": callerB, "C.java": callerC})
	b, err := Load(context.Background(), []string{filepath.Join(dir, "B.java"), filepath.Join(dir, "C.java")}, testOptions(t, dir))
	if err != nil {
		t.Fatal(err)
	}
	got := Find(b, match.MustCompile("a.A foo(..)"))
	if len(got) != 2 {
		t.Fatalf("matches = %+v", got)
	}
	if got[0].Line != 5 || got[0].Col != 10 {
		t.Errorf("first match at %d:%d, want 5:10", got[0].Line, got[0].Col)
	}
	if got[1].Signature != "a.A.foo(java.lang.Integer, java.lang.Integer, java.lang.String)" {
		t.Errorf("second signature = %s", got[1].Signature)
	}
}

func TestDependencyCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a/A.java": libA, "B.java": callerB})
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := testOptions(t, dir)
	opts.Cache = cache
	recipe, _ := project.ParseRecipe(recipeSrc)

	var outputs []string
	for range 2 {
		b, err := Load(context.Background(), []string{filepath.Join(dir, "B.java")}, opts)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		res, err := Apply(context.Background(), b, recipe, opts)
		if err != nil || res[0].Err != nil {
			t.Fatalf("Apply: %v %v", err, res[0].Err)
		}
		outputs = append(outputs, res[0].Output)
	}
	if outputs[0] != outputs[1] || !strings.Contains(outputs[0], `a.foo(2, 1, "anotherstring")`) {
		t.Errorf("outputs differ:\n%s\n%s", outputs[0], outputs[1])
	}
	entries, err := os.ReadDir(filepath.Join(cache.dir, "deps"))
	if err != nil || len(entries) != 1 {
		t.Fatalf("cache entries = %v, %v", entries, err)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	var payload DiskPayload
	key := [32]byte{}
	if hit, err := cache.Get(key, &payload); hit || err != nil {
		t.Errorf("Get after DropAll = %v, %v", hit, err)
	}
}

func TestBuildIndexWithoutNames(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a/A.java": `package a;
public class A {
   public void foo(String s, Integer... n) {}
}
`,
		"B.java": `import a.*;
public class B {
   A a;
   void test() { a.foo("s", 0, 1); }
}
`,
	})
	idx := filepath.Join(dir, "deps.idx")
	n, err := BuildIndex([]string{filepath.Join(dir, "a", "A.java")}, idx, true, Options{})
	if err != nil || n != 1 {
		t.Fatalf("BuildIndex = %d, %v", n, err)
	}

	opts := Options{IndexPath: idx, Logger: zaptest.NewLogger(t)}
	b, err := Load(context.Background(), []string{filepath.Join(dir, "B.java")}, opts)
	if err != nil {
		t.Fatal(err)
	}
	recipe, err := project.ParseRecipe(`
[[reorder]]
pattern = "a.A foo(..)"
order = ["n", "s"]
original_names = ["s", "n"]
`)
	if err != nil {
		t.Fatal(err)
	}
	res, err := Apply(context.Background(), b, recipe, opts)
	if err != nil || res[0].Err != nil {
		t.Fatalf("Apply: %v %v", err, res[0].Err)
	}
	if !strings.Contains(res[0].Output, `a.foo(0, 1, "s")`) {
		t.Errorf("output:\n%s", res[0].Output)
	}
}

func TestWriteResultKeepsMode(t *testing.T) {
	dir := writeFiles(t, map[string]string{"B.java": "old"})
	path := filepath.Join(dir, "B.java")
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatal(err)
	}
	if err := WriteResult(path, "new"); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	info, _ := os.Stat(path)
	if string(data) != "new" || info.Mode().Perm() != 0o640 {
		t.Errorf("content %q mode %v", data, info.Mode())
	}
}
