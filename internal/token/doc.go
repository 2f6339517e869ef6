// Package token defines lexical token kinds and trivia for the Java front-end.
// Invariants:
//   - Token.Text is a slice of the original source (no copies, no normalisation).
//   - Token.Span matches Text exactly (Start..End).
//   - Whitespace, line breaks and comments are never tokens: they are kept as
//     Leading trivia of the next significant token (or of EOF).
//   - Primitive type names (int, long, ...) are keywords; boxed names are identifiers.
package token
