package ast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"rewrite/internal/token"
	"rewrite/internal/types"
)

// Tag is the closed set of literal kinds.
type Tag uint8

const (
	TagInt Tag = iota
	TagLong
	TagFloat
	TagDouble
	TagBoolean
	TagString
	TagChar
	TagNull
)

func (t Tag) String() string {
	switch t {
	case TagInt:
		return "Int"
	case TagLong:
		return "Long"
	case TagFloat:
		return "Float"
	case TagDouble:
		return "Double"
	case TagBoolean:
		return "Boolean"
	case TagString:
		return "String"
	case TagChar:
		return "Char"
	case TagNull:
		return "Null"
	default:
		return fmt.Sprintf("Tag(%d)", t)
	}
}

// Type returns the static Java type of literals with this tag.
func (t Tag) Type() types.Type {
	switch t {
	case TagInt:
		return types.Primitive("int")
	case TagLong:
		return types.Primitive("long")
	case TagFloat:
		return types.Primitive("float")
	case TagDouble:
		return types.Primitive("double")
	case TagBoolean:
		return types.Primitive("boolean")
	case TagString:
		return types.Class("java.lang.String")
	case TagChar:
		return types.Primitive("char")
	case TagNull:
		return types.Null
	default:
		return types.Invalid
	}
}

// GoType names the Go type a Value must hold for this tag.
func (t Tag) GoType() string {
	switch t {
	case TagInt:
		return "int32"
	case TagLong:
		return "int64"
	case TagFloat:
		return "float32"
	case TagDouble:
		return "float64"
	case TagBoolean:
		return "bool"
	case TagString:
		return "string"
	case TagChar:
		return "rune"
	case TagNull:
		return "nil"
	default:
		return "invalid"
	}
}

// Value is a typed literal value: int32, int64, float32, float64, bool,
// string, rune (int32 for Char) or nil for Null.
type Value any

// Accepts reports whether v has the Go type required by the tag. Int and
// Char both use int32; the tag decides the interpretation.
func (t Tag) Accepts(v Value) bool {
	switch t {
	case TagInt, TagChar:
		_, ok := v.(int32)
		return ok
	case TagLong:
		_, ok := v.(int64)
		return ok
	case TagFloat:
		_, ok := v.(float32)
		return ok
	case TagDouble:
		_, ok := v.(float64)
		return ok
	case TagBoolean:
		_, ok := v.(bool)
		return ok
	case TagString:
		_, ok := v.(string)
		return ok
	case TagNull:
		return v == nil
	default:
		return false
	}
}

// LiteralData is the payload of KindLiteral. Text is the token as it
// appears in the source until an edit replaces it with the canonical form.
type LiteralData struct {
	Tag    Tag
	Value  Value
	Suffix byte // 'L'/'l', 'f'/'F', 'd'/'D', or 0
	Radix  int  // 2, 8, 10 or 16 for integral literals
	Text   string
}

var (
	// ErrLiteralSyntax is wrapped by ParseLiteral failures.
	ErrLiteralSyntax = errors.New("malformed literal")
	// ErrUnrepresentable is returned for values with no Java literal spelling.
	ErrUnrepresentable = errors.New("value has no literal form")
)

// ParseLiteral decodes a literal token into its typed value.
func ParseLiteral(kind token.Kind, text string) (LiteralData, error) {
	lit := LiteralData{Text: text, Radix: 10}
	var err error
	switch kind {
	case token.IntLit:
		lit.Tag = TagInt
		var v int64
		v, lit.Radix, err = parseIntegral(text, 32)
		lit.Value = int32(v) //nolint:gosec // parseIntegral keeps v within 32 bits
	case token.LongLit:
		lit.Tag = TagLong
		lit.Suffix = text[len(text)-1]
		lit.Value, lit.Radix, err = parseIntegral(text[:len(text)-1], 64)
	case token.FloatLit:
		lit.Tag = TagFloat
		lit.Suffix = text[len(text)-1]
		var f float64
		f, err = strconv.ParseFloat(strings.ReplaceAll(text[:len(text)-1], "_", ""), 32)
		lit.Value = float32(f)
	case token.DoubleLit:
		lit.Tag = TagDouble
		body := text
		if c := text[len(text)-1]; c == 'd' || c == 'D' {
			lit.Suffix = c
			body = text[:len(text)-1]
		}
		var f float64
		f, err = strconv.ParseFloat(strings.ReplaceAll(body, "_", ""), 64)
		lit.Value = f
	case token.KwTrue, token.KwFalse:
		lit.Tag = TagBoolean
		lit.Value = kind == token.KwTrue
	case token.KwNull:
		lit.Tag = TagNull
		lit.Value = nil
	case token.StringLit:
		lit.Tag = TagString
		var s string
		s, err = unquoteJava(text, '"')
		lit.Value = s
	case token.CharLit:
		lit.Tag = TagChar
		var s string
		s, err = unquoteJava(text, '\'')
		r := []rune(s)
		if err == nil && len(r) != 1 {
			err = fmt.Errorf("%w: character literal must hold exactly one character", ErrLiteralSyntax)
		}
		if err == nil {
			lit.Value = r[0]
		}
	default:
		return LiteralData{}, fmt.Errorf("%w: token %s is not a literal", ErrLiteralSyntax, kind)
	}
	if err != nil {
		if !errors.Is(err, ErrLiteralSyntax) {
			err = fmt.Errorf("%w %q: %w", ErrLiteralSyntax, text, err)
		}
		return LiteralData{}, err
	}
	return lit, nil
}

// parseIntegral handles radix prefixes, underscores and a leading minus.
// Decimal literals must fit the signed range; hex, octal and binary ones
// may use all bits and wrap to two's complement, as in Java.
func parseIntegral(text string, bits int) (int64, int, error) {
	s := strings.ReplaceAll(text, "_", "")
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	radix := 10
	switch {
	case len(s) > 2 && (s[1] == 'x' || s[1] == 'X') && s[0] == '0':
		radix, s = 16, s[2:]
	case len(s) > 2 && (s[1] == 'b' || s[1] == 'B') && s[0] == '0':
		radix, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		radix, s = 8, s[1:]
	}
	if radix == 10 {
		if neg {
			s = "-" + s
		}
		v, err := strconv.ParseInt(s, 10, bits)
		if errors.Is(err, strconv.ErrRange) {
			return 0, radix, fmt.Errorf("%w: %s out of range", ErrLiteralSyntax, text)
		}
		if err != nil {
			return 0, radix, err
		}
		return v, radix, nil
	}
	u, err := strconv.ParseUint(s, radix, bits)
	if err != nil {
		return 0, radix, err
	}
	v := int64(u) //nolint:gosec // wraps to two's complement
	if bits == 32 {
		v = int64(int32(uint32(u))) //nolint:gosec // same, at int width
	}
	if neg {
		v = -v
	}
	return v, radix, nil
}

// Format renders v in the canonical lexical form of tag. suffix is the
// original suffix letter, kept for Long; zero means the default.
func Format(tag Tag, v Value, suffix byte) (string, error) {
	if !tag.Accepts(v) {
		return "", fmt.Errorf("%s literal cannot hold %T", tag, v)
	}
	switch tag {
	case TagInt:
		return strconv.FormatInt(int64(v.(int32)), 10), nil
	case TagLong:
		if suffix != 'l' {
			suffix = 'L'
		}
		return strconv.FormatInt(v.(int64), 10) + string(suffix), nil
	case TagFloat:
		s, err := formatFloat(float64(v.(float32)), 32)
		if err != nil {
			return "", err
		}
		return s + "f", nil
	case TagDouble:
		return formatFloat(v.(float64), 64)
	case TagBoolean:
		return strconv.FormatBool(v.(bool)), nil
	case TagString:
		return quoteJava(v.(string), '"'), nil
	case TagChar:
		return quoteJava(string(rune(v.(int32))), '\''), nil
	case TagNull:
		return "null", nil
	default:
		return "", fmt.Errorf("unknown literal tag %s", tag)
	}
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", fmt.Errorf("%w: %v", ErrUnrepresentable, f)
	}
	// Plain notation in [1e-3, 1e7), scientific outside, as Java prints doubles.
	if abs := math.Abs(f); abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(f, 'f', -1, bits)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s, nil
	}
	s := strconv.FormatFloat(f, 'E', -1, bits)
	mant, exp, _ := strings.Cut(s, "E")
	if !strings.Contains(mant, ".") {
		mant += ".0"
	}
	neg := strings.HasPrefix(exp, "-")
	exp = strings.TrimLeft(exp, "+-0")
	if neg {
		exp = "-" + exp
	}
	return mant + "E" + exp, nil
}

// Canonical renders the payload's current value.
func (l *LiteralData) Canonical() (string, error) {
	return Format(l.Tag, l.Value, l.Suffix)
}
