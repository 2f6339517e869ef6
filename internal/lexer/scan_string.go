package lexer

import (
	"rewrite/internal/diag"
	"rewrite/internal/token"
)

// "...": escape-последовательности не валидируем здесь, только пропускаем.
// Перевод строки внутри литерала: ошибка (text blocks не поддерживаются).
func (lx *Lexer) scanString() token.Token {
	return lx.scanQuoted('"', token.StringLit, diag.LexUnterminatedString, "string")
}

// '...': символьный литерал.
func (lx *Lexer) scanChar() token.Token {
	return lx.scanQuoted('\'', token.CharLit, diag.LexUnterminatedChar, "character")
}

func (lx *Lexer) scanQuoted(quote byte, kind token.Kind, code diag.Code, what string) token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening quote
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				return lx.invalid(start, code, "unterminated "+what+" literal")
			}
			lx.cursor.Bump()
			continue
		case '\n':
			return lx.invalid(start, code, "newline in "+what+" literal")
		}
		lx.cursor.Bump()
	}
	return lx.invalid(start, code, "unterminated "+what+" literal")
}
