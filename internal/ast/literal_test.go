package ast_test

import (
	"errors"
	"math"
	"testing"

	"rewrite/internal/ast"
	"rewrite/internal/token"
)

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		kind  token.Kind
		text  string
		tag   ast.Tag
		value ast.Value
	}{
		{token.IntLit, "0", ast.TagInt, int32(0)},
		{token.IntLit, "1_000", ast.TagInt, int32(1000)},
		{token.IntLit, "0x1F", ast.TagInt, int32(31)},
		{token.IntLit, "0b101", ast.TagInt, int32(5)},
		{token.IntLit, "017", ast.TagInt, int32(15)},
		{token.IntLit, "0xFFFFFFFF", ast.TagInt, int32(-1)},
		{token.IntLit, "-2147483648", ast.TagInt, int32(math.MinInt32)},
		{token.IntLit, "-0x1", ast.TagInt, int32(-1)},
		{token.LongLit, "2L", ast.TagLong, int64(2)},
		{token.LongLit, "-9223372036854775808L", ast.TagLong, int64(math.MinInt64)},
		{token.LongLit, "0xFFFFFFFFFFFFFFFFL", ast.TagLong, int64(-1)},
		{token.FloatLit, "1.5f", ast.TagFloat, float32(1.5)},
		{token.DoubleLit, "2.5", ast.TagDouble, 2.5},
		{token.DoubleLit, "1e3", ast.TagDouble, 1000.0},
		{token.KwTrue, "true", ast.TagBoolean, true},
		{token.KwNull, "null", ast.TagNull, nil},
		{token.StringLit, `"foo ''"`, ast.TagString, "foo ''"},
		{token.StringLit, `"a\tbA\\"`, ast.TagString, "a\tbA\\"},
		{token.StringLit, `"😀"`, ast.TagString, "\U0001F600"},
		{token.StringLit, `"\101"`, ast.TagString, "A"},
		{token.CharLit, `'x'`, ast.TagChar, 'x'},
		{token.CharLit, `'\n'`, ast.TagChar, '\n'},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			lit, err := ast.ParseLiteral(tt.kind, tt.text)
			if err != nil {
				t.Fatalf("ParseLiteral: %v", err)
			}
			if lit.Tag != tt.tag {
				t.Errorf("tag = %s, want %s", lit.Tag, tt.tag)
			}
			if lit.Value != tt.value {
				t.Errorf("value = %#v, want %#v", lit.Value, tt.value)
			}
			if lit.Text != tt.text {
				t.Errorf("text = %q", lit.Text)
			}
		})
	}
}

func TestParseLiteral_Errors(t *testing.T) {
	for _, tc := range []struct {
		kind token.Kind
		text string
	}{
		{token.IntLit, "2147483649"},
		{token.IntLit, "2147483648"},
		{token.IntLit, "-2147483649"},
		{token.LongLit, "9223372036854775808L"},
		{token.StringLit, `"\q"`},
		{token.CharLit, `'ab'`},
		{token.Ident, "x"},
	} {
		if _, err := ast.ParseLiteral(tc.kind, tc.text); !errors.Is(err, ast.ErrLiteralSyntax) {
			t.Errorf("ParseLiteral(%q): expected ErrLiteralSyntax, got %v", tc.text, err)
		}
	}
}

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		tag    ast.Tag
		value  ast.Value
		suffix byte
		want   string
	}{
		{ast.TagInt, int32(0), 0, "0"},
		{ast.TagInt, int32(-42), 0, "-42"},
		{ast.TagLong, int64(4), 'L', "4L"},
		{ast.TagLong, int64(4), 'l', "4l"},
		{ast.TagLong, int64(7), 0, "7L"},
		{ast.TagFloat, float32(2), 'f', "2.0f"},
		{ast.TagFloat, float32(0.1), 'F', "0.1f"},
		{ast.TagDouble, 3.0, 0, "3.0"},
		{ast.TagDouble, 0.25, 'd', "0.25"},
		{ast.TagDouble, 1e21, 0, "1.0E21"},
		{ast.TagDouble, 1.5e-5, 0, "1.5E-5"},
		{ast.TagDouble, 1234567.0, 0, "1234567.0"},
		{ast.TagBoolean, false, 0, "false"},
		{ast.TagString, "foo", 0, `"foo"`},
		{ast.TagString, "a\"b\\c\n\x01", 0, `"a\"b\\c\n\u0001"`},
		{ast.TagString, "it's", 0, `"it's"`},
		{ast.TagChar, '\'', 0, `'\''`},
		{ast.TagChar, 'é', 0, `'é'`},
		{ast.TagNull, nil, 0, "null"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got, err := ast.Format(tt.tag, tt.value, tt.suffix)
			if err != nil {
				t.Fatalf("Format: %v", err)
			}
			if got != tt.want {
				t.Errorf("Format = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_RejectsWrongGoType(t *testing.T) {
	if _, err := ast.Format(ast.TagInt, int64(1), 0); err == nil {
		t.Errorf("int64 must not be accepted for Int")
	}
	if _, err := ast.Format(ast.TagString, 1, 0); err == nil {
		t.Errorf("int must not be accepted for String")
	}
	if !ast.TagChar.Accepts('c') || ast.TagNull.Accepts(0) {
		t.Errorf("Accepts mismatch")
	}
}

func TestFormat_NonCanonicalOriginalIsNormalised(t *testing.T) {
	lit, err := ast.ParseLiteral(token.IntLit, "0x10")
	if err != nil {
		t.Fatal(err)
	}
	got, err := lit.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if got != "16" {
		t.Errorf("Canonical = %q, want 16", got)
	}
}
