package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// Literals
	IntLit    // 42, 0x2A, 0b101, 1_000
	LongLit   // 42L
	FloatLit  // 1.5f
	DoubleLit // 1.5, 1e3, 2d
	CharLit   // 'c'
	StringLit // "text"

	// Keywords
	KwPackage
	KwImport
	KwStatic
	KwClass
	KwInterface
	KwEnum
	KwExtends
	KwImplements
	KwPublic
	KwProtected
	KwPrivate
	KwAbstract
	KwFinal
	KwNative
	KwSynchronized
	KwTransient
	KwVolatile
	KwStrictfp
	KwDefault
	KwThrows
	KwVoid
	KwReturn
	KwNew
	KwIf
	KwElse
	KwWhile
	KwThis
	KwSuper
	KwTrue
	KwFalse
	KwNull
	KwBoolean
	KwByte
	KwChar
	KwShort
	KwInt
	KwLong
	KwFloat
	KwDouble
	KwFor
	KwDo
	KwTry
	KwCatch
	KwFinally
	KwSwitch
	KwCase
	KwThrow
	KwBreak
	KwContinue
	KwInstanceof
	KwAssert

	// Punctuation and operators
	LParen    // (
	RParen    // )
	LBrace    // {
	RBrace    // }
	LBracket  // [
	RBracket  // ]
	Semicolon // ;
	Comma     // ,
	Dot       // .
	Ellipsis  // ...
	At        // @
	Assign    // =
	EqEq      // ==
	BangEq    // !=
	Lt        // <
	Gt        // >
	LtEq      // <=
	GtEq      // >=
	Plus      // +
	Minus     // -
	Star      // *
	Slash     // /
	Percent   // %
	Bang      // !
	Tilde     // ~
	AndAnd    // &&
	OrOr      // ||
	Amp       // &
	Pipe      // |
	Caret     // ^
	Question  // ?
	Colon     // :
	PlusPlus  // ++
	MinusMinus
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpAssign
	PipeAssign
	CaretAssign
	Arrow      // ->
	ColonColon // ::

	// Shift operators are assembled by the parser from adjacent angle
	// brackets; the lexer never emits them.
	Shl  // <<
	Shr  // >>
	UShr // >>>
)

var kindNames = map[Kind]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	IntLit: "IntLit", LongLit: "LongLit", FloatLit: "FloatLit", DoubleLit: "DoubleLit",
	CharLit: "CharLit", StringLit: "StringLit",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Semicolon: ";", Comma: ",", Dot: ".", Ellipsis: "...", At: "@",
	Assign: "=", EqEq: "==", BangEq: "!=", Lt: "<", Gt: ">", LtEq: "<=", GtEq: ">=",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Bang: "!", Tilde: "~",
	AndAnd: "&&", OrOr: "||", Amp: "&", Pipe: "|", Caret: "^", Question: "?", Colon: ":",
	PlusPlus: "++", MinusMinus: "--", PlusAssign: "+=", MinusAssign: "-=",
	StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=", AmpAssign: "&=",
	PipeAssign: "|=", CaretAssign: "^=", Arrow: "->", ColonColon: "::",
	Shl: "<<", Shr: ">>", UShr: ">>>",
}

// String returns the lexeme for punctuators and keywords, the kind name otherwise.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	for lexeme, kw := range keywords {
		if kw == k {
			return lexeme
		}
	}
	return "Kind(?)"
}
