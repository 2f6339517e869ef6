package lexer

import (
	"rewrite/internal/diag"
	"rewrite/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ', '\t', '\f', '\r' и BOM коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... до \n -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment (без вложенности, как в Java)
//   - /** ... */ -> TriviaDocBlock
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if isSpaceByte(b) || lx.atBOM() {
			for !lx.cursor.EOF() {
				if lx.atBOM() {
					lx.cursor.Advance(3)
					continue
				}
				if !isSpaceByte(lx.cursor.Peek()) {
					break
				}
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		}

		if b == '/' && lx.scanCommentIntoHold() {
			continue
		}

		// нет больше trivia
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
}

// //... , /*...*/ , /**...*/
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		kind := token.TriviaBlockComment
		// "/**/": обычный пустой комментарий, не doc
		if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 != '/' {
			kind = token.TriviaDocBlock
		}
		closed := false
		for !lx.cursor.EOF() {
			if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		}
		lx.pushTrivia(kind, start)
		return true
	default:
		// это не комментарий: пусть сканируется как оператор '/'
		return false
	}
}

func (lx *Lexer) atBOM() bool {
	b0, b1, b2, ok := lx.cursor.Peek3()
	return ok && b0 == 0xEF && b1 == 0xBB && b2 == 0xBF
}
