package parser

import (
	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/token"
)

func (p *fileParser) parseBlock() ast.NodeID {
	start := p.startOff()
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'"); !ok {
		return ast.NoNodeID
	}
	var stmts []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		before := p.pos
		if s := p.parseStatement(); s.IsValid() {
			stmts = append(stmts, s)
		}
		if p.pos == before {
			p.err(diag.SynUnexpectedToken, "unexpected "+describe(p.peek()))
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	return p.finish(ast.KindBlock, start, ast.NoPayloadID, stmts...)
}

// parseStatement разбирает один оператор. Формы, которые переписыванию не
// нужны, становятся KindVerbatim: их текст остаётся клеем, а вложенные
// выражения и операторы всё равно разбираются детьми.
func (p *fileParser) parseStatement() ast.NodeID {
	start := p.startOff()
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID)
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		p.advance()
		cond := p.parseCondition()
		body := p.parseStatement()
		return p.finish(ast.KindWhile, start, ast.NoPayloadID, cond, body)
	case token.KwReturn:
		p.advance()
		var value ast.NodeID
		if !p.at(token.Semicolon) {
			value = p.parseExpr()
		}
		p.endStatement()
		return p.finish(ast.KindReturn, start, ast.NoPayloadID, value)
	case token.KwFor:
		return p.parseFor()
	case token.KwDo:
		p.advance()
		body := p.parseStatement()
		p.expect(token.KwWhile, diag.SynUnexpectedToken, "expected 'while' after do body")
		cond := p.parseCondition()
		p.endStatement()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, body, cond)
	case token.KwTry:
		return p.parseTry()
	case token.KwSwitch:
		id := p.parseSwitch()
		if p.at(token.Semicolon) {
			p.advance()
		}
		return id
	case token.KwThrow:
		p.advance()
		value := p.parseExpr()
		p.endStatement()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, value)
	case token.KwBreak, token.KwContinue:
		p.advance()
		if p.at(token.Ident) {
			p.advance()
		}
		p.endStatement()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID)
	case token.KwSynchronized:
		p.advance()
		lock := p.parseCondition()
		body := p.parseBlock()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, lock, body)
	case token.KwAssert:
		p.advance()
		cond := p.parseExpr()
		var detail ast.NodeID
		if p.at(token.Colon) {
			p.advance()
			detail = p.parseExpr()
		}
		p.endStatement()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, cond, detail)
	case token.KwClass, token.KwInterface, token.KwEnum, token.KwAbstract, token.KwStatic:
		id, _ := p.parseTypeDecl(p.currentClass())
		return id
	case token.Ident:
		if p.peekAt(1).Kind == token.Colon {
			// метка
			p.advance()
			p.advance()
			body := p.parseStatement()
			return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, body)
		}
		if p.peek().Text == "yield" && p.yieldStatement() {
			p.advance()
			value := p.parseExpr()
			p.endStatement()
			return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, value)
		}
	}

	if p.localVarAhead() {
		id := p.parseLocalVar()
		p.endStatement()
		p.tree.Node(id).Span.End = p.endOff(start)
		return id
	}

	expr := p.parseExpr()
	if !expr.IsValid() {
		p.skipStatementTail()
		return ast.NoNodeID
	}
	p.endStatement()
	return p.finish(ast.KindExprStmt, start, ast.NoPayloadID, expr)
}

func (p *fileParser) currentClass() *classDecl {
	if len(p.classStack) == 0 {
		return nil
	}
	return p.classStack[len(p.classStack)-1]
}

// yieldStatement отличает `yield x;` от обращения к переменной yield.
func (p *fileParser) yieldStatement() bool {
	switch p.peekAt(1).Kind {
	case token.Assign, token.Dot, token.LParen, token.LBracket, token.Semicolon,
		token.PlusPlus, token.MinusMinus:
		return false
	}
	return !p.peekAt(1).Kind.IsAssignOp()
}

func (p *fileParser) endStatement() {
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';'"); !ok {
		p.skipStatementTail()
	}
}

func (p *fileParser) parseCondition() ast.NodeID {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoNodeID
	}
	cond := p.parseExpr()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
	return cond
}

func (p *fileParser) parseIf() ast.NodeID {
	start := p.startOff()
	p.advance()
	cond := p.parseCondition()
	then := p.parseStatement()
	var els ast.NodeID
	if p.at(token.KwElse) {
		p.advance()
		els = p.parseStatement()
	}
	return p.finish(ast.KindIf, start, ast.NoPayloadID, cond, then, els)
}

// localVarAhead: `[final] Type name (= | ; | , | [ | :)`.
func (p *fileParser) localVarAhead() bool {
	i := p.pos
	for {
		switch p.tok(i).Kind {
		case token.KwFinal:
			i++
			continue
		case token.At:
			// аннотация на локальной переменной: @Name или @Name(...)
			i += 2
			for p.tok(i).Kind == token.Dot && p.tok(i+1).Kind == token.Ident {
				i += 2
			}
			if p.tok(i).Kind == token.LParen {
				end := p.matching(i)
				if end < 0 {
					return false
				}
				i = end + 1
			}
			continue
		}
		break
	}
	end, ok := p.scanTypeAt(i)
	if !ok || p.tok(end).Kind != token.Ident {
		return false
	}
	switch p.tok(end + 1).Kind {
	case token.Assign, token.Semicolon, token.Comma, token.LBracket, token.Colon:
		return true
	}
	return false
}

// parseLocalVar parses `[mods] Type declarators` without the terminator.
func (p *fileParser) parseLocalVar() ast.NodeID {
	start := p.startOff()
	p.parseModifiers()
	t := p.parseTypeSyntax(true)
	vars := p.parseDeclarators(t, nil)
	kids := append([]ast.NodeID{t.ref}, vars...)
	return p.finish(ast.KindLocalVar, start, ast.NoPayloadID, kids...)
}

// parseFor handles both the classic and the enhanced for loop.
func (p *fileParser) parseFor() ast.NodeID {
	start := p.startOff()
	p.advance()
	var kids []ast.NodeID
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for"); !ok {
		p.skipStatementTail()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID)
	}
	if p.localVarAhead() {
		declStart := p.startOff()
		p.parseModifiers()
		t := p.parseTypeSyntax(true)
		if p.at(token.Ident) && p.peekAt(1).Kind == token.Colon {
			vs := p.startOff()
			name := p.advance()
			v := p.name(ast.KindVariable, vs, ast.NameData{Name: name.Text})
			decl := p.finish(ast.KindLocalVar, declStart, ast.NoPayloadID, t.ref, v)
			p.advance() // :
			kids = append(kids, decl, p.parseExpr())
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' in for")
			kids = append(kids, p.parseStatement())
			return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, kids...)
		}
		vars := p.parseDeclarators(t, nil)
		kids = append(kids, p.finish(ast.KindLocalVar, declStart, ast.NoPayloadID, append([]ast.NodeID{t.ref}, vars...)...))
	} else {
		kids = append(kids, p.parseExprList(token.Semicolon)...)
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for")
	if !p.at(token.Semicolon) {
		kids = append(kids, p.parseExpr())
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in for")
	kids = append(kids, p.parseExprList(token.RParen)...)
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' in for")
	kids = append(kids, p.parseStatement())
	return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, kids...)
}

func (p *fileParser) parseExprList(stop token.Kind) []ast.NodeID {
	var out []ast.NodeID
	for !p.atOr(stop, token.EOF) {
		e := p.parseExpr()
		if !e.IsValid() {
			break
		}
		out = append(out, e)
		if !p.at(token.Comma) {
			break
		}
		p.advance()
	}
	return out
}

func (p *fileParser) parseTry() ast.NodeID {
	start := p.startOff()
	p.advance()
	var kids []ast.NodeID
	if p.at(token.LParen) {
		p.advance()
		for !p.atOr(token.RParen, token.EOF) {
			if p.localVarAhead() {
				kids = append(kids, p.parseLocalVar())
			} else if e := p.parseExpr(); e.IsValid() {
				kids = append(kids, e)
			} else {
				break
			}
			if !p.at(token.Semicolon) {
				break
			}
			p.advance()
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after resources")
	}
	kids = append(kids, p.parseBlock())
	for p.at(token.KwCatch) {
		p.advance()
		p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after catch")
		declStart := p.startOff()
		p.parseModifiers()
		t := p.parseTypeSyntax(false)
		for p.at(token.Pipe) {
			p.advance()
			p.parseTypeSyntax(false)
		}
		if nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected exception name"); ok {
			v := p.name(ast.KindVariable, nameTok.Span.Start, ast.NameData{Name: nameTok.Text})
			kids = append(kids, p.finish(ast.KindLocalVar, declStart, ast.NoPayloadID, t.ref, v))
		}
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after catch parameter")
		kids = append(kids, p.parseBlock())
	}
	if p.at(token.KwFinally) {
		p.advance()
		kids = append(kids, p.parseBlock())
	}
	return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, kids...)
}

// parseSwitch serves both the statement and the expression form.
func (p *fileParser) parseSwitch() ast.NodeID {
	start := p.startOff()
	p.advance()
	kids := []ast.NodeID{p.parseCondition()}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch"); !ok {
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, kids...)
	}
	for !p.atOr(token.RBrace, token.EOF) {
		before := p.pos
		switch p.peek().Kind {
		case token.KwCase:
			p.advance()
			p.caseLabel = true
			for {
				if e := p.parseTernary(); e.IsValid() {
					kids = append(kids, e)
				}
				if !p.at(token.Comma) {
					break
				}
				p.advance()
			}
			p.caseLabel = false
			p.switchLabelEnd()
		case token.KwDefault:
			p.advance()
			p.switchLabelEnd()
		default:
			if s := p.parseStatement(); s.IsValid() {
				kids = append(kids, s)
			}
		}
		if p.pos == before {
			p.err(diag.SynUnexpectedToken, "unexpected "+describe(p.peek())+" in switch")
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close switch")
	return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, kids...)
}

func (p *fileParser) switchLabelEnd() {
	if p.atOr(token.Colon, token.Arrow) {
		p.advance()
		return
	}
	p.err(diag.SynUnexpectedToken, "expected ':' or '->' after case label, got "+describe(p.peek()))
}
