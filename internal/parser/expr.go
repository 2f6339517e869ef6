package parser

import (
	"strings"

	"rewrite/internal/ast"
	"rewrite/internal/diag"
	"rewrite/internal/source"
	"rewrite/internal/token"
	"rewrite/internal/types"
)

func (p *fileParser) parseExpr() ast.NodeID { return p.parseAssign() }

func (p *fileParser) op(k token.Kind, postfix bool) ast.PayloadID {
	return ast.PayloadID(p.tree.Ops.Allocate(ast.OpData{Op: k, Postfix: postfix}))
}

func (p *fileParser) startOf(id ast.NodeID) uint32 { return p.tree.Node(id).Span.Start }

func (p *fileParser) parseAssign() ast.NodeID {
	lhs := p.parseTernary()
	if !lhs.IsValid() {
		return lhs
	}
	op, n := p.assignOp()
	if n == 0 {
		return lhs
	}
	for range n {
		p.advance()
	}
	rhs := p.parseAssign()
	return p.finish(ast.KindAssign, p.startOf(lhs), p.op(op, false), lhs, rhs)
}

// assignOp распознаёт '=' и составные присваивания. Сдвиговые варианты
// лексер отдаёт по частям: `>>=` приходит как '>' '>='.
func (p *fileParser) assignOp() (token.Kind, int) {
	k := p.peek().Kind
	if k.IsAssignOp() {
		return k, 1
	}
	if !p.adjacent(p.pos) {
		return token.Invalid, 0
	}
	switch {
	case k == token.Lt && p.peekAt(1).Kind == token.LtEq:
		return token.Shl, 2
	case k == token.Gt && p.peekAt(1).Kind == token.GtEq:
		return token.Shr, 2
	case k == token.Gt && p.peekAt(1).Kind == token.Gt && p.adjacent(p.pos+1) && p.peekAt(2).Kind == token.GtEq:
		return token.UShr, 3
	}
	return token.Invalid, 0
}

func (p *fileParser) parseTernary() ast.NodeID {
	cond := p.parseBinary(1)
	if !cond.IsValid() || !p.at(token.Question) {
		return cond
	}
	p.advance()
	then := p.parseTernary()
	p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	els := p.parseTernary()
	return p.finish(ast.KindTernary, p.startOf(cond), ast.NoPayloadID, cond, then, els)
}

// binaryOp returns the operator at the cursor, its precedence (0 when the
// cursor is not at a binary operator) and how many tokens it spans.
func (p *fileParser) binaryOp() (token.Kind, int, int) {
	k := p.peek().Kind
	switch k {
	case token.OrOr:
		return k, 1, 1
	case token.AndAnd:
		return k, 2, 1
	case token.Pipe:
		return k, 3, 1
	case token.Caret:
		return k, 4, 1
	case token.Amp:
		return k, 5, 1
	case token.EqEq, token.BangEq:
		return k, 6, 1
	case token.LtEq, token.GtEq, token.KwInstanceof:
		return k, 7, 1
	case token.Lt:
		if p.adjacent(p.pos) {
			switch p.peekAt(1).Kind {
			case token.Lt:
				return token.Shl, 8, 2
			case token.LtEq:
				return token.Invalid, 0, 0
			}
		}
		return k, 7, 1
	case token.Gt:
		if p.adjacent(p.pos) {
			switch p.peekAt(1).Kind {
			case token.GtEq:
				return token.Invalid, 0, 0
			case token.Gt:
				if p.adjacent(p.pos + 1) {
					switch p.peekAt(2).Kind {
					case token.Gt:
						return token.UShr, 8, 3
					case token.GtEq:
						return token.Invalid, 0, 0
					}
				}
				return token.Shr, 8, 2
			}
		}
		return k, 7, 1
	case token.Plus, token.Minus:
		return k, 9, 1
	case token.Star, token.Slash, token.Percent:
		return k, 10, 1
	}
	return token.Invalid, 0, 0
}

func (p *fileParser) parseBinary(minPrec int) ast.NodeID {
	lhs := p.parseUnary()
	for lhs.IsValid() {
		op, prec, n := p.binaryOp()
		if prec == 0 || prec < minPrec {
			break
		}
		start := p.startOf(lhs)
		for range n {
			p.advance()
		}
		var rhs ast.NodeID
		if op == token.KwInstanceof {
			p.parseModifiers()
			rhs = p.parseTypeSyntax(true).ref
			if p.at(token.Ident) {
				p.advance() // pattern binding
			}
		} else {
			rhs = p.parseBinary(prec + 1)
		}
		lhs = p.finish(ast.KindBinary, start, p.op(op, false), lhs, rhs)
	}
	return lhs
}

func (p *fileParser) parseUnary() ast.NodeID {
	start := p.startOff()
	switch k := p.peek().Kind; k {
	case token.Minus:
		if next := p.peekAt(1); (next.Kind == token.IntLit || next.Kind == token.LongLit) && isDecimal(next.Text) {
			return p.parsePostfix(p.parseNegativeLiteral())
		}
		fallthrough
	case token.Plus, token.Bang, token.Tilde, token.PlusPlus, token.MinusMinus:
		p.advance()
		operand := p.parseUnary()
		if !operand.IsValid() {
			return ast.NoNodeID
		}
		return p.finish(ast.KindUnary, start, p.op(k, false), operand)
	case token.LParen:
		if p.castAhead() {
			p.advance()
			t := p.parseTypeSyntax(true)
			p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after cast type")
			operand := p.parseUnary()
			return p.finish(ast.KindCast, start, ast.NoPayloadID, t.ref, operand)
		}
	}
	return p.parsePostfix(p.parsePrimary())
}

// castAhead: `(Type)` followed by something that can only be an operand.
func (p *fileParser) castAhead() bool {
	if p.lambdaAhead() {
		return false
	}
	end, ok := p.scanTypeAt(p.pos + 1)
	if !ok || p.tok(end).Kind != token.RParen {
		return false
	}
	if p.tok(p.pos + 1).Kind.IsPrimitive() {
		return true
	}
	next := p.tok(end + 1)
	if next.IsLiteral() {
		return true
	}
	switch next.Kind {
	case token.Ident, token.KwThis, token.KwSuper, token.KwNew, token.LParen, token.Bang, token.Tilde, token.KwSwitch:
		return true
	}
	return false
}

func (p *fileParser) lambdaAhead() bool {
	if p.caseLabel {
		return false
	}
	switch p.peek().Kind {
	case token.Ident:
		return p.peekAt(1).Kind == token.Arrow
	case token.LParen:
		end := p.matching(p.pos)
		return end > 0 && p.tok(end+1).Kind == token.Arrow
	}
	return false
}

// parseLambda: параметры остаются клеем, тело: ребёнок Verbatim.
func (p *fileParser) parseLambda() ast.NodeID {
	start := p.startOff()
	if p.at(token.Ident) {
		p.advance()
	} else {
		p.skipBalanced(token.LParen, token.RParen)
	}
	p.expect(token.Arrow, diag.SynUnexpectedToken, "expected '->'")
	var body ast.NodeID
	if p.at(token.LBrace) {
		body = p.parseBlock()
	} else {
		body = p.parseExpr()
	}
	return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, body)
}

func (p *fileParser) parsePostfix(expr ast.NodeID) ast.NodeID {
	for expr.IsValid() {
		start := p.startOf(expr)
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			if p.at(token.Lt) {
				p.skipTypeArgs()
			}
			switch {
			case p.at(token.Ident):
				nameTok := p.advance()
				if p.at(token.LParen) {
					expr = p.parseInvocation(start, expr, nameTok)
				} else {
					expr = p.name(ast.KindFieldAccess, start, ast.NameData{Name: nameTok.Text}, expr)
				}
			case p.at(token.KwNew):
				expr = p.parseNew(start, expr)
			case p.atOr(token.KwThis, token.KwClass, token.KwSuper):
				kw := p.advance()
				expr = p.name(ast.KindFieldAccess, start, ast.NameData{Name: kw.Text}, expr)
			default:
				p.err(diag.SynExpectIdentifier, "expected member name after '.', got "+describe(p.peek()))
				return expr
			}
		case token.LBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']'")
			expr = p.finish(ast.KindArrayAccess, start, ast.NoPayloadID, expr, idx)
		case token.PlusPlus, token.MinusMinus:
			k := p.advance().Kind
			expr = p.finish(ast.KindUnary, start, p.op(k, true), expr)
		case token.ColonColon:
			p.advance()
			if p.at(token.Lt) {
				p.skipTypeArgs()
			}
			if p.atOr(token.Ident, token.KwNew) {
				p.advance()
			} else {
				p.err(diag.SynExpectIdentifier, "expected method name after '::', got "+describe(p.peek()))
			}
			expr = p.finish(ast.KindVerbatim, start, ast.NoPayloadID, expr)
		default:
			return expr
		}
	}
	return expr
}

func (p *fileParser) parseInvocation(start uint32, sel ast.NodeID, nameTok token.Token) ast.NodeID {
	args := p.parseArgs()
	payload := p.tree.Invocations.Allocate(ast.InvocationData{
		Select:   sel,
		Name:     nameTok.Text,
		NameSpan: nameTok.Span,
		Args:     args,
		Type:     types.Invalid,
	})
	return p.finish(ast.KindInvocation, start, ast.PayloadID(payload), sel, args)
}

// parseArgs records, per slot, the trivia before each argument and before
// each separator, so the list can be re-emitted in a different order.
func (p *fileParser) parseArgs() ast.NodeID {
	start := p.startOff()
	var ad ast.ArgsData
	var kids []ast.NodeID
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return p.finish(ast.KindArgs, start, ast.PayloadID(p.tree.ArgLists.Allocate(ad)))
	}
	if !p.at(token.RParen) {
		for {
			lead := p.peek().LeadingText()
			arg := p.parseExpr()
			if !arg.IsValid() {
				p.skipArgsTail()
				break
			}
			kids = append(kids, arg)
			ad.SlotPrefixes = append(ad.SlotPrefixes, lead)
			sep := p.peek()
			p.tree.Node(arg).Suffix = sep.LeadingText()
			if sep.Kind != token.Comma {
				break
			}
			ad.SlotSuffixes = append(ad.SlotSuffixes, sep.LeadingText())
			p.advance()
		}
	}
	if len(ad.SlotSuffixes) >= len(kids) && len(kids) > 0 {
		// висящая запятая после ошибки
		ad.SlotSuffixes = ad.SlotSuffixes[:len(kids)-1]
	}
	ad.Close = p.peek().LeadingText()
	p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close argument list")
	return p.finish(ast.KindArgs, start, ast.PayloadID(p.tree.ArgLists.Allocate(ad)), kids...)
}

// skipArgsTail прокручивает до ')' текущего списка аргументов.
func (p *fileParser) skipArgsTail() {
	for !p.atOr(token.RParen, token.Semicolon, token.RBrace, token.EOF) {
		switch p.peek().Kind {
		case token.LParen:
			p.skipBalanced(token.LParen, token.RParen)
		case token.LBrace:
			p.skipBalanced(token.LBrace, token.RBrace)
		default:
			p.advance()
		}
	}
}

func (p *fileParser) parsePrimary() ast.NodeID {
	start := p.startOff()
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit, token.LongLit, token.FloatLit, token.DoubleLit,
		token.CharLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNull:
		return p.parseLiteral()
	case token.Ident:
		if p.lambdaAhead() {
			return p.parseLambda()
		}
		p.advance()
		if p.at(token.LParen) {
			return p.parseInvocation(start, ast.NoNodeID, tok)
		}
		return p.name(ast.KindIdent, start, ast.NameData{Name: tok.Text})
	case token.KwThis:
		p.advance()
		if p.at(token.LParen) {
			return p.parseInvocation(start, ast.NoNodeID, tok)
		}
		return p.finish(ast.KindThis, start, ast.NoPayloadID)
	case token.KwSuper:
		p.advance()
		if p.at(token.LParen) {
			return p.parseInvocation(start, ast.NoNodeID, tok)
		}
		return p.name(ast.KindIdent, start, ast.NameData{Name: "super"})
	case token.LParen:
		if p.lambdaAhead() {
			return p.parseLambda()
		}
		p.advance()
		inner := p.parseExpr()
		p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'")
		return p.finish(ast.KindParens, start, ast.NoPayloadID, inner)
	case token.KwNew:
		return p.parseNew(start, ast.NoNodeID)
	case token.KwSwitch:
		return p.parseSwitch()
	case token.Invalid:
		// лексер уже сообщил об ошибке
		p.advance()
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID)
	case token.KwVoid:
		p.advance()
		ref := p.name(ast.KindTypeRef, start, ast.NameData{Name: "void"})
		p.syn.typeRefs[ref] = typeSyntax{name: "void", ref: ref}
		return p.classLiteral(start, ref)
	}
	if tok.Kind.IsPrimitive() {
		return p.classLiteral(start, p.parseTypeSyntax(true).ref)
	}
	p.err(diag.SynExpectExpression, "expected expression, got "+describe(tok))
	return ast.NoNodeID
}

// classLiteral finishes `int.class` and friends; `int[]::new` is left to the
// postfix loop.
func (p *fileParser) classLiteral(start uint32, ref ast.NodeID) ast.NodeID {
	if p.at(token.Dot) && p.peekAt(1).Kind == token.KwClass {
		p.advance()
		p.advance()
		return p.name(ast.KindFieldAccess, start, ast.NameData{Name: "class"}, ref)
	}
	if !p.at(token.ColonColon) {
		p.err(diag.SynExpectExpression, "expected '.class' after primitive type, got "+describe(p.peek()))
	}
	return ref
}

func (p *fileParser) parseLiteral() ast.NodeID {
	start := p.startOff()
	tok := p.advance()
	lit, err := ast.ParseLiteral(tok.Kind, tok.Text)
	if err != nil {
		p.report(diag.SynBadLiteral, diag.SevError, tok.Span, err.Error())
		lit = ast.LiteralData{Tag: literalTag(tok.Kind), Text: tok.Text, Radix: 10}
	}
	return p.finish(ast.KindLiteral, start, ast.PayloadID(p.tree.Literals.Allocate(lit)))
}

// parseNegativeLiteral folds '-' and a decimal int or long literal into one
// literal node, so -2147483648 and -9223372036854775808L stay representable.
func (p *fileParser) parseNegativeLiteral() ast.NodeID {
	start := p.startOff()
	p.advance()
	tok := p.advance()
	text := string(p.syn.file.Content[start:tok.Span.End])
	lit, err := ast.ParseLiteral(tok.Kind, "-"+tok.Text)
	if err != nil {
		p.report(diag.SynBadLiteral, diag.SevError, source.Span{File: tok.Span.File, Start: start, End: tok.Span.End}, err.Error())
		lit = ast.LiteralData{Tag: literalTag(tok.Kind), Radix: 10}
	}
	lit.Text = text
	return p.finish(ast.KindLiteral, start, ast.PayloadID(p.tree.Literals.Allocate(lit)))
}

// isDecimal: без префикса 0x/0b и без ведущего нуля (восьмеричные).
func isDecimal(text string) bool {
	return text != "" && (text[0] != '0' || text == "0" || strings.EqualFold(text, "0l"))
}

func literalTag(k token.Kind) ast.Tag {
	switch k {
	case token.IntLit:
		return ast.TagInt
	case token.LongLit:
		return ast.TagLong
	case token.FloatLit:
		return ast.TagFloat
	case token.DoubleLit:
		return ast.TagDouble
	case token.CharLit:
		return ast.TagChar
	case token.StringLit:
		return ast.TagString
	case token.KwTrue, token.KwFalse:
		return ast.TagBoolean
	default:
		return ast.TagNull
	}
}

// parseNew parses `new T(args) [body]` and array creation. outer is the
// qualifying instance of `outer.new T()`.
func (p *fileParser) parseNew(start uint32, outer ast.NodeID) ast.NodeID {
	p.advance() // new
	if p.at(token.Lt) {
		p.skipTypeArgs()
	}
	t := p.parseTypeSyntax(false)
	if !t.valid() {
		return ast.NoNodeID
	}
	if p.at(token.LBracket) {
		kids := []ast.NodeID{outer, t.ref}
		for p.at(token.LBracket) {
			p.advance()
			if !p.at(token.RBracket) {
				kids = append(kids, p.parseExpr())
			}
			p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' in array creation")
		}
		if p.at(token.LBrace) {
			kids = append(kids, p.parseArrayInit())
		}
		return p.finish(ast.KindVerbatim, start, ast.NoPayloadID, kids...)
	}
	args := p.parseArgs()
	if p.at(token.LBrace) {
		// тело анонимного класса не разбирается
		p.skipBalanced(token.LBrace, token.RBrace)
	}
	payload := p.tree.NewClasses.Allocate(ast.NewClassData{Class: types.Invalid, Ref: t.ref, Args: args})
	return p.finish(ast.KindNewClass, start, ast.PayloadID(payload), outer, t.ref, args)
}
