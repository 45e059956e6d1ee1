package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident

	// Literals.
	IntLit
	RealLit
	StringLit
	// InterpolatedStringLit covers $"..." and raw string forms; kept opaque.
	InterpolatedStringLit
	CharLit

	// Punctuation and operators.
	LBrace
	RBrace
	LParen
	RParen
	LBracket
	RBracket
	Semicolon
	Comma
	Dot
	Colon
	ColonColon
	Question
	QuestionQuestion
	QuestionDot
	Assign
	EqEq
	FatArrow
	Lt
	Gt
	LtEq
	GtEq
	Bang
	BangEq
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Tilde
	AndAnd
	OrOr
	PlusPlus
	MinusMinus
	// CompoundAssign covers +=, -=, *=, /=, %=, &=, |=, ^=, <<=, ??= and friends.
	CompoundAssign
	Shl
	Arrow
	DotDot
	Hash

	kwFirst
	KwAbstract
	KwAs
	KwBase
	KwBool
	KwBreak
	KwByte
	KwCase
	KwCatch
	KwChar
	KwChecked
	KwClass
	KwConst
	KwContinue
	KwDecimal
	KwDefault
	KwDelegate
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwEvent
	KwExplicit
	KwExtern
	KwFalse
	KwFinally
	KwFixed
	KwFloat
	KwFor
	KwForeach
	KwGoto
	KwIf
	KwImplicit
	KwIn
	KwInt
	KwInterface
	KwInternal
	KwIs
	KwLock
	KwLong
	KwNamespace
	KwNew
	KwNull
	KwObject
	KwOperator
	KwOut
	KwOverride
	KwParams
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwRef
	KwReturn
	KwSbyte
	KwSealed
	KwShort
	KwSizeof
	KwStackalloc
	KwStatic
	KwString
	KwStruct
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTry
	KwTypeof
	KwUint
	KwUlong
	KwUnchecked
	KwUnsafe
	KwUshort
	KwUsing
	KwVirtual
	KwVoid
	KwVolatile
	KwWhile
	kwLast
)

var kindNames = [...]string{
	Invalid:               "Invalid",
	EOF:                   "EOF",
	Ident:                 "Ident",
	IntLit:                "IntLit",
	RealLit:               "RealLit",
	StringLit:             "StringLit",
	InterpolatedStringLit: "InterpolatedStringLit",
	CharLit:               "CharLit",
	LBrace:                "{",
	RBrace:                "}",
	LParen:                "(",
	RParen:                ")",
	LBracket:              "[",
	RBracket:              "]",
	Semicolon:             ";",
	Comma:                 ",",
	Dot:                   ".",
	Colon:                 ":",
	ColonColon:            "::",
	Question:              "?",
	QuestionQuestion:      "??",
	QuestionDot:           "?.",
	Assign:                "=",
	EqEq:                  "==",
	FatArrow:              "=>",
	Lt:                    "<",
	Gt:                    ">",
	LtEq:                  "<=",
	GtEq:                  ">=",
	Bang:                  "!",
	BangEq:                "!=",
	Plus:                  "+",
	Minus:                 "-",
	Star:                  "*",
	Slash:                 "/",
	Percent:               "%",
	Amp:                   "&",
	Pipe:                  "|",
	Caret:                 "^",
	Tilde:                 "~",
	AndAnd:                "&&",
	OrOr:                  "||",
	PlusPlus:              "++",
	MinusMinus:            "--",
	CompoundAssign:        "op=",
	Shl:                   "<<",
	Arrow:                 "->",
	DotDot:                "..",
	Hash:                  "#",
}

func (k Kind) String() string {
	if k.IsKeyword() {
		return keywordText[k]
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsKeyword reports whether k is a reserved keyword.
func (k Kind) IsKeyword() bool { return k > kwFirst && k < kwLast }

// IsLiteral reports whether k is a literal token kind.
func (k Kind) IsLiteral() bool {
	switch k {
	case IntLit, RealLit, StringLit, InterpolatedStringLit, CharLit, KwTrue, KwFalse, KwNull:
		return true
	}
	return false
}

// IsPredefinedType reports whether k names a built-in type alias (int, string, ...).
func (k Kind) IsPredefinedType() bool {
	switch k {
	case KwBool, KwByte, KwChar, KwDecimal, KwDouble, KwFloat, KwInt, KwLong, KwObject,
		KwSbyte, KwShort, KwString, KwUint, KwUlong, KwUshort, KwVoid:
		return true
	}
	return false
}

// IsModifier reports whether k is a reserved declaration modifier.
func (k Kind) IsModifier() bool {
	switch k {
	case KwPublic, KwPrivate, KwProtected, KwInternal, KwStatic, KwReadonly, KwConst,
		KwAbstract, KwSealed, KwVirtual, KwOverride, KwNew, KwExtern, KwUnsafe, KwVolatile,
		KwFixed, KwRef:
		return true
	}
	return false
}
