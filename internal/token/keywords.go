package token

var keywords = map[string]Kind{
	"package":      KwPackage,
	"import":       KwImport,
	"static":       KwStatic,
	"class":        KwClass,
	"interface":    KwInterface,
	"enum":         KwEnum,
	"extends":      KwExtends,
	"implements":   KwImplements,
	"public":       KwPublic,
	"protected":    KwProtected,
	"private":      KwPrivate,
	"abstract":     KwAbstract,
	"final":        KwFinal,
	"native":       KwNative,
	"synchronized": KwSynchronized,
	"transient":    KwTransient,
	"volatile":     KwVolatile,
	"strictfp":     KwStrictfp,
	"default":      KwDefault,
	"throws":       KwThrows,
	"void":         KwVoid,
	"return":       KwReturn,
	"new":          KwNew,
	"if":           KwIf,
	"else":         KwElse,
	"while":        KwWhile,
	"this":         KwThis,
	"super":        KwSuper,
	"true":         KwTrue,
	"false":        KwFalse,
	"null":         KwNull,
	"boolean":      KwBoolean,
	"byte":         KwByte,
	"char":         KwChar,
	"short":        KwShort,
	"int":          KwInt,
	"long":         KwLong,
	"float":        KwFloat,
	"double":       KwDouble,
	"for":          KwFor,
	"do":           KwDo,
	"try":          KwTry,
	"catch":        KwCatch,
	"finally":      KwFinally,
	"switch":       KwSwitch,
	"case":         KwCase,
	"throw":        KwThrow,
	"break":        KwBreak,
	"continue":     KwContinue,
	"instanceof":   KwInstanceof,
	"assert":       KwAssert,
}

// LookupKeyword возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые, как и в Java.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsPrimitive reports whether k names a primitive type.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KwBoolean, KwByte, KwChar, KwShort, KwInt, KwLong, KwFloat, KwDouble:
		return true
	default:
		return false
	}
}

// IsModifier reports whether k is a declaration modifier keyword.
func (k Kind) IsModifier() bool {
	switch k {
	case KwPublic, KwProtected, KwPrivate, KwStatic, KwAbstract, KwFinal, KwNative,
		KwSynchronized, KwTransient, KwVolatile, KwStrictfp, KwDefault:
		return true
	default:
		return false
	}
}

// IsAssignOp reports whether k is '=' or a compound assignment.
func (k Kind) IsAssignOp() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign,
		PercentAssign, AmpAssign, PipeAssign, CaretAssign:
		return true
	default:
		return false
	}
}
