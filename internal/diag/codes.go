package diag

import (
	"fmt"
)

// Code is a compact numeric identifier of a diagnostic kind.
type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// Парсерные
	SynInfo               Code = 2000
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynUnclosedParen      Code = 2004
	SynUnclosedBrace      Code = 2005
	SynExpectType         Code = 2006
	SynExpectExpression   Code = 2007
	SynUnexpectedTopLevel Code = 2008
	SynBadLiteral         Code = 2009
	SynUnresolvedMethod   Code = 2100
	SynUnresolvedType     Code = 2101
	SynAmbiguousCall      Code = 2102

	// Операции переписывания
	RwrInfo                 Code = 3000
	RwrPatternSyntax        Code = 3001
	RwrUnknownParameterName Code = 3002
	RwrStaleNodeReference   Code = 3003
	RwrUnresolvedCall       Code = 3004
	RwrLiteralType          Code = 3005
	RwrWrongNodeKind        Code = 3006

	// Печать (всегда дефект)
	PrnInvariantViolation Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Invalid number literal",
	LexUnterminatedChar:         "Unterminated character literal",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Missing semicolon",
	SynExpectIdentifier:         "Expected identifier",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynExpectType:               "Expected type",
	SynExpectExpression:         "Expected expression",
	SynUnexpectedTopLevel:       "Unexpected top-level construct",
	SynUnresolvedMethod:         "Method invocation could not be resolved",
	SynUnresolvedType:           "Type could not be resolved",
	SynBadLiteral:               "Invalid literal",
	SynAmbiguousCall:            "Ambiguous method invocation",
	RwrInfo:                     "Rewrite information",
	RwrPatternSyntax:            "Malformed method pattern",
	RwrUnknownParameterName:     "Unknown parameter name",
	RwrStaleNodeReference:       "Stale node reference",
	RwrUnresolvedCall:           "Call site is not resolved",
	RwrLiteralType:              "Literal transform changed the value type",
	RwrWrongNodeKind:            "Operation targets a node of the wrong kind",
	PrnInvariantViolation:       "Printer invariant violation",
}

// ID returns the stable string form, e.g. "SYN2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RWR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("PRN%04d", ic)
	}
	return "E0000"
}

// Title returns a short human description of the code.
func (c Code) Title() string {
	if d, ok := codeDescription[c]; ok {
		return d
	}
	return codeDescription[UnknownCode]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
