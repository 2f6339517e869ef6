package lexer

import (
	"rewrite/internal/diag"
	"rewrite/internal/token"
)

// Java: 0, 123, 1_000, 0x1F, 0b101, 017, 1.0, .5, 1e-3, 2f, 3d, 4L.
// Text всегда сохраняется как есть; значение разбирает ast.ParseLiteral.
// Неверные формы: репорт в opts.Reporter, токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}

	floating := false

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X' || b1 == 'b' || b1 == 'B') {
		lx.cursor.Bump()
		lx.cursor.Bump()
		digits := 0
		for {
			b := lx.cursor.Peek()
			valid := b == '_' || ((b1 == 'x' || b1 == 'X') && isHex(b)) || ((b1 == 'b' || b1 == 'B') && (b == '0' || b == '1'))
			if !valid {
				break
			}
			if b != '_' {
				digits++
			}
			lx.cursor.Bump()
		}
		if digits == 0 {
			return lx.invalid(start, diag.LexBadNumber, "expected digits after radix prefix")
		}
		return lx.integerSuffix(emit)
	}

	// целая часть (может отсутствовать для ".5")
	lx.eatDecimalDigits()

	// дробная часть
	if lx.cursor.Peek() == '.' {
		_, b1, ok := lx.cursor.Peek2()
		if !ok || !isIdentStartByte(b1) || isExpOrSuffix(b1) {
			lx.cursor.Bump()
			floating = true
			lx.eatDecimalDigits()
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			lx.cursor.Reset(mark)
			return lx.invalid(start, diag.LexBadNumber, "malformed exponent")
		}
		lx.eatDecimalDigits()
		floating = true
	}

	switch lx.cursor.Peek() {
	case 'f', 'F':
		lx.cursor.Bump()
		return emit(token.FloatLit)
	case 'd', 'D':
		lx.cursor.Bump()
		return emit(token.DoubleLit)
	}
	if floating {
		return emit(token.DoubleLit)
	}
	return lx.integerSuffix(emit)
}

func (lx *Lexer) integerSuffix(emit func(token.Kind) token.Token) token.Token {
	if b := lx.cursor.Peek(); b == 'l' || b == 'L' {
		lx.cursor.Bump()
		return emit(token.LongLit)
	}
	return emit(token.IntLit)
}

func (lx *Lexer) eatDecimalDigits() {
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}
}

func isExpOrSuffix(b byte) bool {
	switch b {
	case 'e', 'E', 'f', 'F', 'd', 'D':
		return true
	}
	return false
}
