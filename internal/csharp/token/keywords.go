package token

var keywords = map[string]Kind{
	"abstract": KwAbstract, "as": KwAs, "base": KwBase, "bool": KwBool, "break": KwBreak,
	"byte": KwByte, "case": KwCase, "catch": KwCatch, "char": KwChar, "checked": KwChecked,
	"class": KwClass, "const": KwConst, "continue": KwContinue, "decimal": KwDecimal,
	"default": KwDefault, "delegate": KwDelegate, "do": KwDo, "double": KwDouble,
	"else": KwElse, "enum": KwEnum, "event": KwEvent, "explicit": KwExplicit,
	"extern": KwExtern, "false": KwFalse, "finally": KwFinally, "fixed": KwFixed,
	"float": KwFloat, "for": KwFor, "foreach": KwForeach, "goto": KwGoto, "if": KwIf,
	"implicit": KwImplicit, "in": KwIn, "int": KwInt, "interface": KwInterface,
	"internal": KwInternal, "is": KwIs, "lock": KwLock, "long": KwLong,
	"namespace": KwNamespace, "new": KwNew, "null": KwNull, "object": KwObject,
	"operator": KwOperator, "out": KwOut, "override": KwOverride, "params": KwParams,
	"private": KwPrivate, "protected": KwProtected, "public": KwPublic,
	"readonly": KwReadonly, "ref": KwRef, "return": KwReturn, "sbyte": KwSbyte,
	"sealed": KwSealed, "short": KwShort, "sizeof": KwSizeof, "stackalloc": KwStackalloc,
	"static": KwStatic, "string": KwString, "struct": KwStruct, "switch": KwSwitch,
	"this": KwThis, "throw": KwThrow, "true": KwTrue, "try": KwTry, "typeof": KwTypeof,
	"uint": KwUint, "ulong": KwUlong, "unchecked": KwUnchecked, "unsafe": KwUnsafe,
	"ushort": KwUshort, "using": KwUsing, "virtual": KwVirtual, "void": KwVoid,
	"volatile": KwVolatile, "while": KwWhile,
}

var keywordText = func() map[Kind]string {
	m := make(map[Kind]string, len(keywords))
	for text, k := range keywords {
		m[k] = text
	}
	return m
}()

// LookupKeyword reports the reserved keyword kind of ident. Keywords are
// case-sensitive; '@'-prefixed identifiers never reach this lookup.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// predefinedTypes maps built-in aliases to their metadata names.
var predefinedTypes = map[Kind]string{
	KwBool: "System.Boolean", KwByte: "System.Byte", KwChar: "System.Char",
	KwDecimal: "System.Decimal", KwDouble: "System.Double", KwFloat: "System.Single",
	KwInt: "System.Int32", KwLong: "System.Int64", KwObject: "System.Object",
	KwSbyte: "System.SByte", KwShort: "System.Int16", KwString: "System.String",
	KwUint: "System.UInt32", KwUlong: "System.UInt64", KwUshort: "System.UInt16",
	KwVoid: "System.Void",
}

// PredefinedTypeName returns the metadata name behind a built-in alias keyword.
func PredefinedTypeName(k Kind) (string, bool) {
	name, ok := predefinedTypes[k]
	return name, ok
}

var predefinedAliases = func() map[string]string {
	m := make(map[string]string, len(predefinedTypes))
	for k, name := range predefinedTypes {
		m[name] = keywordText[k]
	}
	return m
}()

// PredefinedAlias returns the keyword spelling for a special type metadata
// name (System.Boolean -> bool).
func PredefinedAlias(metadataName string) (string, bool) {
	alias, ok := predefinedAliases[metadataName]
	return alias, ok
}
