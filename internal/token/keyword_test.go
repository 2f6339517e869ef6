package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"package": KwPackage,
		"class":   KwClass,
		"return":  KwReturn,
		"new":     KwNew,
		"int":     KwInt,
		"long":    KwLong,
		"null":    KwNull,
		"true":    KwTrue,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// Заведомо НЕ ключевые слова: boxed типы и обычные имена
	notKw := []string{"Integer", "String", "Class", "NULL", "foo", "var"}
	for _, s := range notKw {
		if k, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) = %v, want !ok", s, k)
		}
	}
}

func TestKindClassification(t *testing.T) {
	if !KwInt.IsPrimitive() || KwVoid.IsPrimitive() {
		t.Fatal("primitive classification is off")
	}
	if !KwFinal.IsModifier() || KwClass.IsModifier() {
		t.Fatal("modifier classification is off")
	}
	if KwClass.String() != "class" || Ellipsis.String() != "..." {
		t.Fatalf("unexpected names %q %q", KwClass.String(), Ellipsis.String())
	}
}
