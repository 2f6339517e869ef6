package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"rewrite/internal/source"
)

// Cursor is a byte position in one file. Reads past the end yield 0.
type Cursor struct {
	File *source.File
	Off  uint32
	src  []byte
	end  uint32
}

// NewCursor creates a cursor at the start of f.
func NewCursor(f *source.File) Cursor {
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s too large: %w", f.Path, err))
	}
	return Cursor{File: f, src: f.Content, end: end}
}

// EOF reports whether the whole file has been consumed.
func (c *Cursor) EOF() bool { return c.Off >= c.end }

// Peek returns the current byte.
func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt returns the byte n positions ahead of the cursor.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.end {
		return 0
	}
	return c.src[c.Off+n]
}

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.end {
		return 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], true
}

// Peek3 is Peek2 for three bytes.
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.end {
		return 0, 0, 0, false
	}
	return c.src[c.Off], c.src[c.Off+1], c.src[c.Off+2], true
}

// Rest returns the unread bytes.
func (c *Cursor) Rest() []byte {
	if c.EOF() {
		return nil
	}
	return c.src[c.Off:c.end]
}

// Bump consumes and returns one byte.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.src[c.Off]
	c.Off++
	return b
}

// Advance skips n bytes, stopping at the end of the file.
func (c *Cursor) Advance(n uint32) {
	c.Off = min(c.Off+n, c.end)
}

// Eat consumes the next byte if it is b.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.src[c.Off] != b {
		return false
	}
	c.Off++
	return true
}

// Mark это метка начала читаемого фрагмента
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span from m to the cursor.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }
