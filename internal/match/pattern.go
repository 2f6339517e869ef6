// Package match selects call sites by method pattern.
//
// A pattern has the form "<declaring-type> <method>(<params>)":
//
//	a.A foo(String, int)     exact owner, fixed parameters
//	A foo(..)                simple owner name, any parameters
//	a.* get*(*, ..)          classes of package a, at least one parameter
//	a..* *(String...)        package a and its subpackages, one variadic String
//
// Matching runs against the overload each call site was resolved to, so
// formatting and argument expressions never matter. Primitive and boxed
// spellings of a type are interchangeable.
package match

import (
	"path"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

)

type ownerKind uint8

const (
	ownerAny ownerKind = iota
	ownerExact
	ownerSimple
	ownerPackage     // pkg.*
	ownerSubpackages // pkg..*
)

type paramMatcher struct {
	any      bool
	name     string
	dims     int
	variadic bool
}

// Pattern is a compiled method pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	src     string
	owner   ownerKind
	ownerID string
	name    string
	params  []paramMatcher
	anyTail bool
}

// String returns the pattern as it was compiled (NFC-normalized).
func (p *Pattern) String() string { return p.src }

type patternParser struct {
	src string
	pos int
}

func (pp *patternParser) fail(reason string) error {
	return &PatternSyntaxError{Pattern: pp.src, Offset: pp.pos, Reason: reason}
}

func (pp *patternParser) skipSpaces() {
	for pp.pos < len(pp.src) && (pp.src[pp.pos] == ' ' || pp.src[pp.pos] == '\t') {
		pp.pos++
	}
}

// word reads until one of the stop bytes or whitespace.
func (pp *patternParser) word(stops string) string {
	start := pp.pos
	for pp.pos < len(pp.src) {
		c := pp.src[pp.pos]
		if c == ' ' || c == '\t' || strings.IndexByte(stops, c) >= 0 {
			break
		}
		pp.pos++
	}
	return pp.src[start:pp.pos]
}

// Compile parses a pattern. Identifiers are normalized to NFC so that
// composed and decomposed spellings of the same name match.
func Compile(pattern string) (*Pattern, error) {
	src := norm.NFC.String(strings.TrimSpace(pattern))
	pp := &patternParser{src: src}
	p := &Pattern{src: src}

	owner := pp.word("(")
	if owner == "" {
		return nil, pp.fail("missing declaring type")
	}
	if err := p.setOwner(owner, pp); err != nil {
		return nil, err
	}
	pp.skipSpaces()

	nameStart := pp.pos
	p.name = pp.word("(")
	if p.name == "" {
		return nil, pp.fail("missing method name")
	}
	if _, err := path.Match(p.name, ""); err != nil {
		pp.pos = nameStart
		return nil, pp.fail("bad method name glob: " + err.Error())
	}
	pp.skipSpaces()
	if pp.pos >= len(src) || src[pp.pos] != '(' {
		return nil, pp.fail("expected '(' after method name")
	}
	pp.pos++
	closeAt := strings.IndexByte(src[pp.pos:], ')')
	if closeAt < 0 {
		return nil, pp.fail("missing ')'")
	}
	if rest := strings.TrimSpace(src[pp.pos+closeAt+1:]); rest != "" {
		pp.pos += closeAt + 1
		return nil, pp.fail("unexpected text after ')'")
	}
	if err := p.setParams(src[pp.pos:pp.pos+closeAt], pp); err != nil {
		return nil, err
	}
	return p, nil
}

// MustCompile is Compile for patterns known to be valid; it panics otherwise.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Pattern) setOwner(owner string, pp *patternParser) error {
	switch {
	case owner == "*":
		p.owner = ownerAny
		return nil
	case strings.HasSuffix(owner, "..*"):
		p.owner, p.ownerID = ownerSubpackages, strings.TrimSuffix(owner, "..*")
	case strings.HasSuffix(owner, ".*"):
		p.owner, p.ownerID = ownerPackage, strings.TrimSuffix(owner, ".*")
	case strings.Contains(owner, "."):
		p.owner, p.ownerID = ownerExact, owner
	default:
		p.owner, p.ownerID = ownerSimple, owner
	}
	if !qualifiedIdent(p.ownerID) {
		return pp.fail("bad declaring type " + owner)
	}
	return nil
}

func (p *Pattern) setParams(list string, pp *patternParser) error {
	base := pp.pos
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	offset := 0
	for i, raw := range parts {
		pp.pos = base + offset
		offset += len(raw) + 1
		item := strings.TrimSpace(raw)
		switch {
		case item == "..":
			if i != len(parts)-1 {
				return pp.fail("'..' must be the last parameter")
			}
			p.anyTail = true
		case item == "*":
			p.params = append(p.params, paramMatcher{any: true})
		case item == "":
			return pp.fail("empty parameter")
		default:
			pm, ok := parseParamType(item)
			if !ok {
				return pp.fail("bad parameter type " + item)
			}
			if pm.variadic && i != len(parts)-1 {
				return pp.fail("only the last parameter may be variadic")
			}
			p.params = append(p.params, pm)
		}
	}
	return nil
}

func parseParamType(item string) (paramMatcher, bool) {
	var pm paramMatcher
	if rest, ok := strings.CutSuffix(item, "..."); ok {
		pm.variadic = true
		item = strings.TrimSpace(rest)
	}
	for {
		rest, ok := strings.CutSuffix(item, "[]")
		if !ok {
			break
		}
		pm.dims++
		item = strings.TrimSpace(rest)
	}
	pm.name = item
	return pm, qualifiedIdent(item)
}

// qualifiedIdent reports a dotted Java identifier ('$' and Unicode letters allowed).
func qualifiedIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return false
		}
		for i, r := range seg {
			switch {
			case r == '_' || r == '$' || unicode.IsLetter(r):
			case i > 0 && unicode.IsDigit(r):
			default:
				return false
			}
		}
	}
	return true
}
