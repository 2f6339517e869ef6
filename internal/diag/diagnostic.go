package diag

import (
	"rewrite/internal/source"
)

// Note is secondary context attached to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is one finding with a primary location.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// NewError builds an error-level diagnostic.
func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Primary: primary, Message: msg}
}

// WithNote returns a copy of d with one more note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
