// Package diag defines the diagnostic model shared by the front-end and the
// rewrite engine.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced by the lexer,
//     the parser and the rewrite session (unknown parameter names, stale node
//     references, pattern syntax errors).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt; error values that carry a Code live next to the component
// that raises them (internal/match, internal/fix, internal/format).
//
// Codes are grouped by phase: LEX1xxx for lexing, SYN2xxx for parsing and
// attribution, RWR3xxx for rewrite operations, PRN4xxx for printer defects.
package diag
