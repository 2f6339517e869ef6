package format

import (
	"fortio.org/safecast"

	"rewrite/internal/source"
)

// Writer accumulates output and copies source fragments verbatim.
type Writer struct {
	sf  *source.File
	buf []byte
}

// NewWriter creates a writer over sf; sizeHint presizes the buffer.
func NewWriter(sf *source.File, sizeHint int) *Writer {
	return &Writer{
		sf:  sf,
		buf: make([]byte, 0, max(sizeHint, 0)),
	}
}

// Bytes returns the accumulated output.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) String() string { return string(w.buf) }

func (w *Writer) Len() int { return len(w.buf) }

// WriteString writes s as is.
func (w *Writer) WriteString(s string) {
	w.buf = append(w.buf, s...)
}

// WriteByte writes a single byte.
func (w *Writer) WriteByte(b byte) error {
	w.buf = append(w.buf, b)
	return nil
}

// CopySpan copies a span of the source file to the output.
func (w *Writer) CopySpan(sp source.Span) {
	if !sp.IsValid() || w.sf == nil || sp.File != w.sf.ID {
		return
	}
	w.CopyRange(sp.Start, sp.End)
}

// CopyRange copies bytes [start, end) of the source file, clamped to its size.
func (w *Writer) CopyRange(start, end uint32) {
	if w.sf == nil {
		return
	}
	size, err := safecast.Conv[uint32](len(w.sf.Content))
	if err != nil {
		size = ^uint32(0)
	}
	end = min(end, size)
	if start >= end {
		return
	}
	w.buf = append(w.buf, w.sf.Content[start:end]...)
}
