package diag_test

import (
	"testing"

	"rewrite/internal/diag"
	"rewrite/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := diag.NewBag(3)
	r := diag.BagReporter{Bag: bag}
	r.Report(diag.SynUnexpectedToken, diag.SevError, source.Span{File: 0, Start: 10, End: 11}, "b", nil)
	r.Report(diag.LexBadNumber, diag.SevWarning, source.Span{File: 0, Start: 2, End: 4}, "a", nil)
	r.Report(diag.SynExpectSemicolon, diag.SevError, source.Span{File: 0, Start: 2, End: 4}, "c", nil)
	if bag.Add(diag.NewError(diag.UnknownCode, source.Span{}, "overflow")) {
		t.Fatal("expected bag limit to reject a fourth diagnostic")
	}
	if !bag.HasErrors() || bag.Len() != 3 {
		t.Fatalf("unexpected bag state: len=%d", bag.Len())
	}

	bag.Sort()
	got := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		got = append(got, d.Message)
	}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted order = %v, want %v", got, want)
		}
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[diag.Code]string{
		diag.LexBadNumber:            "LEX1004",
		diag.SynUnexpectedToken:      "SYN2001",
		diag.RwrUnknownParameterName: "RWR3002",
		diag.PrnInvariantViolation:   "PRN4001",
		diag.UnknownCode:             "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if diag.RwrPatternSyntax.Title() != "Malformed method pattern" {
		t.Errorf("unexpected title %q", diag.RwrPatternSyntax.Title())
	}
}

func TestBagCountAndMerge(t *testing.T) {
	a := diag.NewBag(1)
	a.Add(diag.NewError(diag.RwrStaleNodeReference, source.Span{}, "stale"))
	if !a.Full() {
		t.Fatal("bag with limit 1 should be full")
	}

	b := diag.NewBag(0)
	b.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.LexBadNumber, Message: "w"})
	b.Add(diag.Diagnostic{Severity: diag.SevInfo, Code: diag.LexInfo, Message: "i"})
	a.Merge(b)

	if a.Len() != 3 || a.Full() != true {
		t.Fatalf("merged len=%d full=%v", a.Len(), a.Full())
	}
	if got := a.Count(diag.SevWarning); got != 2 {
		t.Errorf("Count(WARNING) = %d, want 2", got)
	}
	if got := a.Count(diag.SevInfo); got != 3 {
		t.Errorf("Count(INFO) = %d, want 3", got)
	}
}

func TestSeverityText(t *testing.T) {
	text, err := diag.SevWarning.MarshalText()
	if err != nil || string(text) != "WARNING" {
		t.Fatalf("MarshalText = %q, %v", text, err)
	}
	if got := diag.Severity(9).String(); got != "UNKNOWN" {
		t.Errorf("String() = %q", got)
	}
}

func TestSeverityUnmarshalText(t *testing.T) {
	var s diag.Severity
	if err := s.UnmarshalText([]byte("ERROR")); err != nil || s != diag.SevError {
		t.Fatalf("UnmarshalText = %v, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("FATAL")); err == nil {
		t.Fatal("expected error for unknown name")
	}
}
