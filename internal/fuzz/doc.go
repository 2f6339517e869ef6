// Package fuzztests holds fuzz targets for the lexer, parser and printer.
// Seeds run as plain tests under go test; use -fuzz to explore further.
package fuzztests
