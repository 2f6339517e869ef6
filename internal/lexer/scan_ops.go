package lexer

import (
	"rewrite/internal/diag"
	"rewrite/internal/token"
)

// Жадность: сначала 3-символьные, затем 2-символьные, затем 1-символьные.
// '>>' намеренно не склеивается: закрытие вложенных generic-аргументов
// разбирается парсером по одному '>'.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.tryOp("..."):
		return emit(token.Ellipsis)
	case lx.tryOp("&&"):
		return emit(token.AndAnd)
	case lx.tryOp("||"):
		return emit(token.OrOr)
	case lx.tryOp("=="):
		return emit(token.EqEq)
	case lx.tryOp("!="):
		return emit(token.BangEq)
	case lx.tryOp("<="):
		return emit(token.LtEq)
	case lx.tryOp(">="):
		return emit(token.GtEq)
	case lx.tryOp("->"):
		return emit(token.Arrow)
	case lx.tryOp("::"):
		return emit(token.ColonColon)
	case lx.tryOp("%="):
		return emit(token.PercentAssign)
	case lx.tryOp("&="):
		return emit(token.AmpAssign)
	case lx.tryOp("|="):
		return emit(token.PipeAssign)
	case lx.tryOp("^="):
		return emit(token.CaretAssign)
	case lx.tryOp("++"):
		return emit(token.PlusPlus)
	case lx.tryOp("--"):
		return emit(token.MinusMinus)
	case lx.tryOp("+="):
		return emit(token.PlusAssign)
	case lx.tryOp("-="):
		return emit(token.MinusAssign)
	case lx.tryOp("*="):
		return emit(token.StarAssign)
	case lx.tryOp("/="):
		return emit(token.SlashAssign)
	}

	b := lx.cursor.Bump()
	switch b {
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '.':
		return emit(token.Dot)
	case '@':
		return emit(token.At)
	case '=':
		return emit(token.Assign)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '!':
		return emit(token.Bang)
	case '~':
		return emit(token.Tilde)
	case '&':
		return emit(token.Amp)
	case '|':
		return emit(token.Pipe)
	case '^':
		return emit(token.Caret)
	case '?':
		return emit(token.Question)
	case ':':
		return emit(token.Colon)
	}
	return lx.invalid(start, diag.LexUnknownChar, "unknown character")
}
