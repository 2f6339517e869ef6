package lexer

import (
	"bytes"
	"unicode"
	"unicode/utf8"
)

// peekRune decodes the rune under the cursor; size is 0 at EOF.
func (lx *Lexer) peekRune() (r rune, size int) {
	rest := lx.cursor.Rest()
	switch {
	case len(rest) == 0:
		return utf8.RuneError, 0
	case rest[0] < utf8.RuneSelf:
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	lx.cursor.Advance(uint32(sz)) //nolint:gosec // rune size is at most 4
}

// ASCII fast-path для идентификаторов; Unicode: через isIdentStartRune/Continue.
func isIdentStartByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
func isIdentStartRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}
func isIdentContinueRune(r rune) bool {
	return isIdentStartRune(r) || unicode.IsDigit(r)
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\f' || b == '\r'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// ".5" is a number, "." alone is not.
func (lx *Lexer) isNumberAfterDot() bool {
	return lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1))
}

// tryOp consumes op when the input continues with it.
func (lx *Lexer) tryOp(op string) bool {
	if !bytes.HasPrefix(lx.cursor.Rest(), []byte(op)) {
		return false
	}
	lx.cursor.Advance(uint32(len(op))) //nolint:gosec // operators are short
	return true
}
