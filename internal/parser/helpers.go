package parser

import (
	"slices"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/source"
	"rewrite/internal/token"
)

// fileParser: состояние синтаксического прохода на один файл.
// Токены лексируются заранее: Java требует произвольного lookahead,
// чтобы отличить объявление переменной или cast от выражения.
type fileParser struct {
	toks []token.Token
	pos  int
	syn  *fileSyntax
	tree *ast.Tree

	rep       diag.Reporter
	maxErrors uint
	errors    uint

	classStack []*classDecl
	// caseLabel запрещает лямбды: в `case A -> x` стрелка принадлежит switch.
	caseLabel bool
}

func (p *fileParser) peek() token.Token { return p.toks[p.pos] }

// peekAt смотрит на n токенов вперёд, EOF за концом.
func (p *fileParser) peekAt(n int) token.Token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *fileParser) tok(i int) token.Token {
	if i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *fileParser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *fileParser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance: съедает следующий токен; EOF никогда не съедается.
func (p *fileParser) advance() token.Token {
	tok := p.toks[p.pos]
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

// expect: ожидаем конкретный токен. Если нет: репортим и возвращаем (invalid,false).
func (p *fileParser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg+", got "+describe(p.peek()))
	return token.Token{Kind: token.Invalid, Span: p.peek().Span}, false
}

func describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of file"
	}
	return "\"" + tok.Text + "\""
}

func (p *fileParser) err(code diag.Code, msg string) {
	p.report(code, diag.SevError, p.peek().Span, msg)
}

func (p *fileParser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) {
	if sev == diag.SevError {
		p.errors++
	}
	if p.maxErrors != 0 && p.errors > p.maxErrors {
		return
	}
	p.rep.Report(code, sev, sp, msg, nil)
}

// startOff: начало span'а узла, который начнётся со следующего токена.
func (p *fileParser) startOff() uint32 { return p.peek().Span.Start }

// endOff: конец последнего съеденного токена.
func (p *fileParser) endOff(start uint32) uint32 {
	if p.pos == 0 {
		return start
	}
	end := p.toks[p.pos-1].Span.End
	if end < start {
		return start
	}
	return end
}

// finish создаёт узел от start до последнего съеденного токена и
// привязывает детей в заданном порядке.
func (p *fileParser) finish(kind ast.Kind, start uint32, payload ast.PayloadID, kids ...ast.NodeID) ast.NodeID {
	sp := source.Span{File: p.syn.file.ID, Start: start, End: p.endOff(start)}
	id := p.tree.NewNode(kind, sp, payload)
	for _, k := range kids {
		p.tree.AddChild(id, k)
	}
	return id
}

func (p *fileParser) name(kind ast.Kind, start uint32, nd ast.NameData, kids ...ast.NodeID) ast.NodeID {
	payload := ast.PayloadID(p.tree.Names.Allocate(nd))
	return p.finish(kind, start, payload, kids...)
}

// skipBalanced съедает открывающую скобку open и всё до парной close.
func (p *fileParser) skipBalanced(open, closeKind token.Kind) bool {
	if !p.at(open) {
		return false
	}
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	p.report(unclosedCode(open), diag.SevError, p.peek().Span, "unbalanced "+open.String())
	return false
}

func unclosedCode(open token.Kind) diag.Code {
	if open == token.LBrace {
		return diag.SynUnclosedBrace
	}
	return diag.SynUnclosedParen
}

// matching возвращает индекс токена, закрывающего скобку в позиции i, или -1.
func (p *fileParser) matching(i int) int {
	open := p.tok(i).Kind
	var closeKind token.Kind
	switch open {
	case token.LParen:
		closeKind = token.RParen
	case token.LBrace:
		closeKind = token.RBrace
	case token.LBracket:
		closeKind = token.RBracket
	default:
		return -1
	}
	depth := 0
	for j := i; j < len(p.toks); j++ {
		switch p.toks[j].Kind {
		case open:
			depth++
		case closeKind:
			depth--
			if depth == 0 {
				return j
			}
		case token.EOF:
			return -1
		}
	}
	return -1
}

// skipStatementTail прокручивает до ';' (съедая его) или до '}' (не съедая)
// на нулевой глубине. Используется для непрозрачных операторов и восстановления.
func (p *fileParser) skipStatementTail() {
	for !p.at(token.EOF) {
		switch p.peek().Kind {
		case token.Semicolon:
			p.advance()
			return
		case token.RBrace:
			return
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
		case token.LParen:
			p.skipBalanced(token.LParen, token.RParen)
		default:
			p.advance()
		}
	}
}

// adjacent сообщает, что токены i и i+1 идут вплотную, без trivia.
func (p *fileParser) adjacent(i int) bool {
	a, b := p.tok(i), p.tok(i+1)
	return a.Span.End == b.Span.Start && len(b.Leading) == 0
}
