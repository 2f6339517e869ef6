package fuzztests

import "testing"

const maxFuzzInput = 16 << 10 // 16 KiB

var javaSeeds = []string{
	"",
	"class A {}\n",
	"package a;\npublic class A {\n   public void foo(String s, Integer m, Integer n) {}\n}\n",
	"import a.*;\nclass B {\n  A a;\n  void m() { a.foo(\"s\", 1, 2); }\n}\n",
	"class C {\r\n\tvoid m() {\r\n\t\tfoo(/* a */ 1,\r\n\t\t    2 // b\r\n\t\t);\r\n\t}\r\n}\r\n",
	"class D { void m() { new D().m(); bar(1L, 2.0f, 'x', \"\\n\", true, null); } }",
	"class E { void m(Object... o) { m(); m(1); m(1, 2, 3); } }",
	"class F { int[] xs = new int[0]; long y = 0x1FL; double z = 1e10; }",
	"/** doc */ class G { static { int i = 0; i++; } }",
	"class H { void m() { if (x) { a.b().c(d(e, f)); } else { return; } } }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range javaSeeds {
		f.Add([]byte(s))
	}
}

func clip(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
