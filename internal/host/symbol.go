package host

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/source"
)

// SymbolID addresses a symbol in the compilation arena.
type SymbolID uint32

// NoSymbol is the zero SymbolID; it never names a real symbol.
const NoSymbol SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbol }

// SymbolKind classifies symbols.
type SymbolKind uint8

const (
	KindNamespace SymbolKind = iota + 1
	KindType
	KindField
	KindProperty
	KindMethod
	KindParameter
	KindEvent
	KindTypeParameter
)

func (k SymbolKind) String() string {
	switch k {
	case KindNamespace:
		return "namespace"
	case KindType:
		return "type"
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindMethod:
		return "method"
	case KindParameter:
		return "parameter"
	case KindEvent:
		return "event"
	case KindTypeParameter:
		return "type parameter"
	}
	return "unknown"
}

// TypeKind classifies type symbols.
type TypeKind uint8

const (
	TypeClass TypeKind = iota
	TypeStruct
	TypeInterface
	TypeEnum
	TypeDelegate
)

func (k TypeKind) String() string {
	switch k {
	case TypeClass:
		return "class"
	case TypeStruct:
		return "struct"
	case TypeInterface:
		return "interface"
	case TypeEnum:
		return "enum"
	case TypeDelegate:
		return "delegate"
	}
	return "unknown"
}

// Accessibility of a declared symbol.
type Accessibility uint8

const (
	AccessNotApplicable Accessibility = iota
	AccessPrivate
	AccessProtected
	AccessInternal
	AccessProtectedInternal
	AccessPrivateProtected
	AccessPublic
)

func (a Accessibility) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessProtected:
		return "protected"
	case AccessInternal:
		return "internal"
	case AccessProtectedInternal:
		return "protected internal"
	case AccessPrivateProtected:
		return "private protected"
	case AccessPublic:
		return "public"
	}
	return ""
}

// RefKind is the passing mode of a parameter.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefRef
	RefOut
	RefIn
)

// SyntaxRef points at one declaring syntax node.
type SyntaxRef struct {
	File source.FileID
	Span source.Span
	Node syntax.Decl
	// Declarator is set for fields declared in a multi-name declaration.
	Declarator *syntax.VariableDeclarator
	// Unit is the compilation unit containing Node.
	Unit *syntax.CompilationUnit
}

// Symbol is the read-only view of an arena entry. Fields not relevant to a
// kind are zero.
type Symbol struct {
	ID   SymbolID
	Kind SymbolKind
	Name string
	// MetadataName includes generic arity (`Task`1`).
	MetadataName string
	// Namespace is the dotted containing namespace of a top-level type.
	Namespace     string
	Containing    SymbolID
	Accessibility Accessibility
	Modifiers     syntax.Modifiers
	FromSource    bool

	// Types.
	TypeKind    TypeKind
	IsRecord    bool
	IsRefLike   bool
	TypeParams  []SymbolID
	Base        TypeRef
	Interfaces  []TypeRef
	Members     []SymbolID
	EnumValues  map[string]int64
	DeclKeyword string

	// Fields, properties, parameters and methods.
	Type       TypeRef
	Params     []SymbolID
	IsIndexer  bool
	HasGetter  bool
	HasSetter  bool
	HasInit    bool
	IsAsync    bool
	IsPartial  bool
	IsCtor     bool
	RefKind    RefKind
	IsParams   bool
	HasDefault bool
	// DefinitionPart indexes Decls for the bodiless part of a partial member.
	DefinitionPart    int
	HasImplementation bool

	Decls []SyntaxRef
}

// IsStatic reports the static modifier (const fields count as static).
func (s *Symbol) IsStatic() bool {
	return s.Modifiers.Has(syntax.ModStatic) || s.Modifiers.Has(syntax.ModConst)
}

// IsType reports whether the symbol is a named type.
func (s *Symbol) IsType() bool { return s.Kind == KindType }
