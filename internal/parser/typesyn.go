package parser

import (
	"strings"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/token"
)

// parseTypeSyntax parses a primitive or (qualified, possibly generic) class
// type. Type arguments are skipped; with arrays set trailing `[]` pairs count
// as dimensions. The TypeRef node is recorded in typeRefs.
func (p *fileParser) parseTypeSyntax(arrays bool) typeSyntax {
	start := p.startOff()
	for p.at(token.At) {
		p.skipAnnotation()
	}
	var ts typeSyntax
	switch {
	case p.peek().Kind.IsPrimitive():
		ts.name = p.advance().Text
	case p.at(token.Ident):
		var sb strings.Builder
		sb.WriteString(p.advance().Text)
		for {
			if p.at(token.Lt) {
				p.skipTypeArgs()
			}
			if p.at(token.Dot) && p.peekAt(1).Kind == token.Ident {
				p.advance()
				sb.WriteByte('.')
				sb.WriteString(p.advance().Text)
				continue
			}
			break
		}
		ts.name = sb.String()
	default:
		p.err(diag.SynExpectType, "expected type, got "+describe(p.peek()))
		return typeSyntax{}
	}
	if arrays {
		for p.at(token.LBracket) && p.peekAt(1).Kind == token.RBracket {
			p.advance()
			p.advance()
			ts.dims++
		}
	}
	ts.ref = p.name(ast.KindTypeRef, start, ast.NameData{Name: ts.name})
	p.syn.typeRefs[ts.ref] = ts
	return ts
}

// skipTypeArgs съедает <...>; '>' всегда отдельный токен, поэтому хватает счётчика.
func (p *fileParser) skipTypeArgs() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
			if depth == 0 {
				return
			}
		case token.Semicolon, token.LBrace, token.RBrace:
			p.err(diag.SynUnexpectedToken, "unterminated type arguments")
			return
		}
	}
}

// scanTypeAt is the non-consuming twin of parseTypeSyntax: it reports the
// index just past a type starting at token i.
func (p *fileParser) scanTypeAt(i int) (int, bool) {
	if p.tok(i).Kind == token.At {
		// аннотации на типах в lookahead не поддерживаем
		return 0, false
	}
	j := i
	switch k := p.tok(j).Kind; {
	case k.IsPrimitive():
		j++
	case k == token.Ident:
		j++
		for {
			if p.tok(j).Kind == token.Lt {
				end, ok := p.scanTypeArgsAt(j)
				if !ok {
					return 0, false
				}
				j = end
			}
			if p.tok(j).Kind == token.Dot && p.tok(j+1).Kind == token.Ident {
				j += 2
				continue
			}
			break
		}
	default:
		return 0, false
	}
	for p.tok(j).Kind == token.LBracket && p.tok(j+1).Kind == token.RBracket {
		j += 2
	}
	return j, true
}

// scanTypeArgsAt accepts only tokens that may appear inside type arguments,
// so `a < b` in an expression is rejected.
func (p *fileParser) scanTypeArgsAt(i int) (int, bool) {
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch k := p.tok(j).Kind; {
		case k == token.Lt:
			depth++
		case k == token.Gt:
			depth--
			if depth == 0 {
				return j + 1, true
			}
		case k == token.Ident, k == token.Dot, k == token.Comma, k == token.Question,
			k == token.KwExtends, k == token.KwSuper, k == token.Amp,
			k == token.LBracket, k == token.RBracket, k.IsPrimitive():
		default:
			return 0, false
		}
	}
	return 0, false
}
