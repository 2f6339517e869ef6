package ast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// quoteJava wraps s in q using Java escapes: the named ones, and \uXXXX
// for any other control character.
func quoteJava(s string, q byte) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte(q)
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '"':
			if q == '"' {
				sb.WriteString(`\"`)
			} else {
				sb.WriteRune(r)
			}
		case '\'':
			if q == '\'' {
				sb.WriteString(`\'`)
			} else {
				sb.WriteRune(r)
			}
		default:
			if r < 0x20 || r == 0x7f || r == utf8.RuneError {
				fmt.Fprintf(&sb, `\u%04x`, r)
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte(q)
	return sb.String()
}

// unquoteJava decodes a quoted Java string or char token. Escaped UTF-16
// surrogate pairs are combined into one rune.
func unquoteJava(tok string, q byte) (string, error) {
	if len(tok) < 2 || tok[0] != q || tok[len(tok)-1] != q {
		return "", fmt.Errorf("%w: missing quotes", ErrLiteralSyntax)
	}
	body := tok[1 : len(tok)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, nil
	}
	var (
		sb      strings.Builder
		pending rune = -1 // high surrogate waiting for its pair
	)
	flush := func() {
		if pending >= 0 {
			sb.WriteRune(utf8.RuneError)
			pending = -1
		}
	}
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			flush()
			r, sz := utf8.DecodeRuneInString(body[i:])
			sb.WriteRune(r)
			i += sz
			continue
		}
		if i+1 >= len(body) {
			return "", fmt.Errorf("%w: dangling backslash", ErrLiteralSyntax)
		}
		e := body[i+1]
		i += 2
		var r rune
		switch e {
		case 'n':
			r = '\n'
		case 't':
			r = '\t'
		case 'r':
			r = '\r'
		case 'b':
			r = '\b'
		case 'f':
			r = '\f'
		case 's':
			r = ' '
		case '"', '\'', '\\':
			r = rune(e)
		case 'u':
			for i < len(body) && body[i] == 'u' {
				i++
			}
			if i+4 > len(body) {
				return "", fmt.Errorf("%w: short unicode escape", ErrLiteralSyntax)
			}
			v, err := strconv.ParseUint(body[i:i+4], 16, 16)
			if err != nil {
				return "", fmt.Errorf("%w: bad unicode escape", ErrLiteralSyntax)
			}
			i += 4
			r = rune(v)
			if utf16.IsSurrogate(r) {
				if pending >= 0 {
					combined := utf16.DecodeRune(pending, r)
					pending = -1
					sb.WriteRune(combined)
					continue
				}
				if r < 0xDC00 {
					pending = r
					continue
				}
			}
		default:
			if e < '0' || e > '7' {
				return "", fmt.Errorf("%w: unknown escape \\%c", ErrLiteralSyntax, e)
			}
			// octal: up to three digits, at most \377
			v := rune(e - '0')
			limit := 2
			if e > '3' {
				limit = 1
			}
			for k := 0; k < limit && i < len(body) && body[i] >= '0' && body[i] <= '7'; k++ {
				v = v*8 + rune(body[i]-'0')
				i++
			}
			r = v
		}
		flush()
		sb.WriteRune(r)
	}
	flush()
	return sb.String(), nil
}
