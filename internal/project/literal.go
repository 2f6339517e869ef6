package project

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"rewrite/internal/ast"
	"rewrite/internal/fix"
	"rewrite/internal/match"
)

// LiteralRule changes one literal argument of every matching call site.
// Exactly one of Set, Append, Prefix or Add is given.
type LiteralRule struct {
	Pattern string `toml:"pattern"`
	Arg     int    `toml:"arg"`
	// Set replaces the value; a TOML string, integer, float or boolean.
	Set any `toml:"set"`
	// Append and Prefix extend string literals.
	Append *string `toml:"append"`
	Prefix *string `toml:"prefix"`
	// Add shifts numeric literals; an integer or a float.
	Add any `toml:"add"`

	matcher *match.Pattern
}

// ErrValueType is a recipe value that cannot become the literal's type.
var ErrValueType = errors.New("value does not fit the literal")

// Matcher returns the compiled pattern.
func (r *LiteralRule) Matcher() *match.Pattern { return r.matcher }

func (r *LiteralRule) compile() error {
	p, err := compilePattern(r.Pattern)
	if err != nil {
		return err
	}
	if r.Arg < 0 {
		return fmt.Errorf("arg must be >= 0, got %d", r.Arg)
	}
	actions := 0
	for _, set := range []bool{r.Set != nil, r.Append != nil, r.Prefix != nil, r.Add != nil} {
		if set {
			actions++
		}
	}
	if actions != 1 {
		return errors.New("exactly one of set, append, prefix, add is required")
	}
	if r.Add != nil {
		switch r.Add.(type) {
		case int64, float64:
		default:
			return fmt.Errorf("add must be a number, got %T", r.Add)
		}
	}
	r.matcher = p
	return nil
}

// Transform builds the value transform for a literal with the given tag.
func (r *LiteralRule) Transform(tag ast.Tag) (func(ast.Value) ast.Value, error) {
	switch {
	case r.Set != nil:
		v, err := coerce(tag, r.Set)
		if err != nil {
			return nil, err
		}
		return func(ast.Value) ast.Value { return v }, nil
	case r.Append != nil || r.Prefix != nil:
		if tag != ast.TagString {
			return nil, fmt.Errorf("%w: append/prefix need a String literal, found %s", ErrValueType, tag)
		}
		pre, post := deref(r.Prefix), deref(r.Append)
		return fix.Transform(func(s string) string { return pre + s + post }), nil
	case r.Add != nil:
		return addTransform(tag, r.Add)
	default:
		return nil, errors.New("literal rule has no action")
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// coerce converts a decoded TOML value to the Go type of tag.
func coerce(tag ast.Tag, v any) (ast.Value, error) {
	bad := func() (ast.Value, error) {
		return nil, fmt.Errorf("%w: %v (%T) for a %s literal", ErrValueType, v, v, tag)
	}
	switch tag {
	case ast.TagInt:
		n, ok := v.(int64)
		if !ok || n < math.MinInt32 || n > math.MaxInt32 {
			return bad()
		}
		return int32(n), nil
	case ast.TagLong:
		n, ok := v.(int64)
		if !ok {
			return bad()
		}
		return n, nil
	case ast.TagFloat, ast.TagDouble:
		var f float64
		switch x := v.(type) {
		case int64:
			f = float64(x)
		case float64:
			f = x
		default:
			return bad()
		}
		if tag == ast.TagFloat {
			return float32(f), nil
		}
		return f, nil
	case ast.TagBoolean:
		b, ok := v.(bool)
		if !ok {
			return bad()
		}
		return b, nil
	case ast.TagString:
		s, ok := v.(string)
		if !ok {
			return bad()
		}
		return s, nil
	case ast.TagChar:
		s, ok := v.(string)
		if !ok || utf8.RuneCountInString(s) != 1 {
			return bad()
		}
		r, _ := utf8.DecodeRuneInString(s)
		return r, nil
	default:
		return bad()
	}
}

func addTransform(tag ast.Tag, delta any) (func(ast.Value) ast.Value, error) {
	switch tag {
	case ast.TagInt:
		d, err := coerce(ast.TagInt, delta)
		if err != nil {
			return nil, err
		}
		return fix.Transform(func(v int32) int32 { return v + d.(int32) }), nil
	case ast.TagLong:
		d, err := coerce(ast.TagLong, delta)
		if err != nil {
			return nil, err
		}
		return fix.Transform(func(v int64) int64 { return v + d.(int64) }), nil
	case ast.TagFloat:
		d, _ := coerce(ast.TagFloat, delta)
		return fix.Transform(func(v float32) float32 { return v + d.(float32) }), nil
	case ast.TagDouble:
		d, _ := coerce(ast.TagDouble, delta)
		return fix.Transform(func(v float64) float64 { return v + d.(float64) }), nil
	default:
		return nil, fmt.Errorf("%w: add needs a numeric literal, found %s", ErrValueType, tag)
	}
}
