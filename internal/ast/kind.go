package ast

import "fmt"

// Kind is the closed set of node shapes. Consumers switch over it exhaustively.
type Kind uint8

const (
	KindInvalid Kind = iota
	// Declarations
	KindUnit
	KindPackage
	KindImport
	KindClass
	KindField
	KindVariable
	KindMethod
	KindParam
	KindTypeRef
	// Statements
	KindBlock
	KindLocalVar
	KindExprStmt
	KindReturn
	KindIf
	KindWhile
	// KindVerbatim covers statements and members kept as opaque source text.
	KindVerbatim
	// Expressions
	KindInvocation
	KindNewClass
	KindFieldAccess
	KindIdent
	KindLiteral
	KindArgs
	KindBinary
	KindUnary
	KindParens
	KindAssign
	KindTernary
	KindArrayAccess
	KindThis
	KindCast
)

var kindNames = [...]string{
	KindInvalid:     "Invalid",
	KindUnit:        "Unit",
	KindPackage:     "Package",
	KindImport:      "Import",
	KindClass:       "Class",
	KindField:       "Field",
	KindVariable:    "Variable",
	KindMethod:      "Method",
	KindParam:       "Param",
	KindTypeRef:     "TypeRef",
	KindBlock:       "Block",
	KindLocalVar:    "LocalVar",
	KindExprStmt:    "ExprStmt",
	KindReturn:      "Return",
	KindIf:          "If",
	KindWhile:       "While",
	KindVerbatim:    "Verbatim",
	KindInvocation:  "Invocation",
	KindNewClass:    "NewClass",
	KindFieldAccess: "FieldAccess",
	KindIdent:       "Ident",
	KindLiteral:     "Literal",
	KindArgs:        "Args",
	KindBinary:      "Binary",
	KindUnary:       "Unary",
	KindParens:      "Parens",
	KindAssign:      "Assign",
	KindTernary:     "Ternary",
	KindArrayAccess: "ArrayAccess",
	KindThis:        "This",
	KindCast:        "Cast",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsExpr reports whether nodes of this kind are expressions.
func (k Kind) IsExpr() bool {
	switch k {
	case KindInvocation, KindNewClass, KindFieldAccess, KindIdent, KindLiteral,
		KindBinary, KindUnary, KindParens, KindAssign, KindTernary, KindArrayAccess, KindThis, KindCast:
		return true
	case KindInvalid, KindUnit, KindPackage, KindImport, KindClass, KindField, KindVariable,
		KindMethod, KindParam, KindTypeRef, KindBlock, KindLocalVar, KindExprStmt, KindReturn,
		KindIf, KindWhile, KindVerbatim, KindArgs:
		return false
	default:
		return false
	}
}
