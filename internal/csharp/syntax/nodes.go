package syntax

import (
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/source"
)

// Ident is a name with its location. Name is NFC-normalized.
type Ident struct {
	Name string
	Span source.Span
}

// CompilationUnit is the root of one parsed file.
type CompilationUnit struct {
	File       source.FileID
	Usings     []*UsingDirective
	Attributes []*AttributeList // assembly:/module: lists
	Members    []Decl
	Span       source.Span
}

// UsingDirective is `[global] using [static] [Alias =] Name;`.
type UsingDirective struct {
	Global bool
	Static bool
	Alias  string
	Name   *TypeRef
	Span   source.Span
}

// Decl is implemented by namespace, type and member declarations.
type Decl interface {
	DeclSpan() source.Span
	decl()
}

// DeclBase carries the location data shared by all declarations.
type DeclBase struct {
	Span source.Span
	// FullStart is where the leading trivia of the first token begins.
	FullStart uint32
	// Leading is the trivia in front of the declaration's first token.
	Leading []token.Trivia
}

func (d *DeclBase) DeclSpan() source.Span { return d.Span }
func (*DeclBase) decl()                   {}

// NamespaceDecl is a block or file-scoped namespace.
type NamespaceDecl struct {
	DeclBase
	Name       string
	NameSpan   source.Span
	FileScoped bool
	Usings     []*UsingDirective
	Members    []Decl
}

// TypeKind distinguishes type declarations.
type TypeKind uint8

const (
	KindClass TypeKind = iota
	KindStruct
	KindInterface
	KindEnum
	KindRecordClass
	KindRecordStruct
	KindDelegate
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindRecordClass:
		return "record"
	case KindRecordStruct:
		return "record struct"
	case KindDelegate:
		return "delegate"
	}
	return "unknown"
}

// TypeDecl is a class, struct, interface, record, enum or delegate declaration.
type TypeDecl struct {
	DeclBase
	Attributes []*AttributeList
	Modifiers  Modifiers
	Kind       TypeKind
	Name       Ident
	TypeParams []Ident
	// PrimaryParams is set for records and classes with a primary constructor.
	PrimaryParams []*Parameter
	Bases         []*TypeRef
	Members       []Decl
	// EnumMembers is used only for KindEnum.
	EnumMembers []*EnumMember
	// Delegate signature, used only for KindDelegate.
	ReturnType *TypeRef
	Params     []*Parameter
	OpenBrace  source.Span
	CloseBrace source.Span
}

// EnumMember is one enum constant with its optional value expression.
type EnumMember struct {
	Attributes []*AttributeList
	Name       Ident
	Value      Expr
}

// VariableDeclarator is one name in a field declaration.
type VariableDeclarator struct {
	Name        Ident
	Initializer Expr
	Span        source.Span
}

// FieldDecl declares one or more fields sharing type, modifiers and attributes.
type FieldDecl struct {
	DeclBase
	Attributes  []*AttributeList
	Modifiers   Modifiers
	Type        *TypeRef
	Declarators []*VariableDeclarator
	Refs        []IdentRef
	Semicolon   source.Span
}

// AccessorKind identifies get/set/init/add/remove accessors.
type AccessorKind uint8

const (
	AccessorGet AccessorKind = iota
	AccessorSet
	AccessorInit
	AccessorAdd
	AccessorRemove
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorGet:
		return "get"
	case AccessorSet:
		return "set"
	case AccessorInit:
		return "init"
	case AccessorAdd:
		return "add"
	case AccessorRemove:
		return "remove"
	}
	return "unknown"
}

// Accessor is one property accessor. HasBody is true for block or expression bodies.
type Accessor struct {
	Attributes []*AttributeList
	Modifiers  Modifiers
	Kind       AccessorKind
	HasBody    bool
	Span       source.Span
}

// PropertyDecl is a property or an indexer.
type PropertyDecl struct {
	DeclBase
	Attributes []*AttributeList
	Modifiers  Modifiers
	Type       *TypeRef
	Name       Ident
	// ExplicitInterface is set for `T IFoo.Name { ... }`.
	ExplicitInterface *TypeRef
	IsIndexer         bool
	Params            []*Parameter
	Accessors         []*Accessor
	ExpressionBody    bool
	Initializer       Expr
	Refs              []IdentRef
}

// Accessor returns the accessor of kind k, or nil.
func (p *PropertyDecl) Accessor(k AccessorKind) *Accessor {
	for _, a := range p.Accessors {
		if a.Kind == k {
			return a
		}
	}
	return nil
}

// MethodDecl is a method, constructor or operator. Bodies are skipped.
type MethodDecl struct {
	DeclBase
	Attributes        []*AttributeList
	Modifiers         Modifiers
	ReturnType        *TypeRef // nil for constructors
	Name              Ident
	ExplicitInterface *TypeRef
	TypeParams        []Ident
	Params            []*Parameter
	IsConstructor     bool
	HasBody           bool
	Refs              []IdentRef
}

// EventDecl is kept only so member spans stay complete.
type EventDecl struct {
	DeclBase
	Attributes []*AttributeList
	Modifiers  Modifiers
	Type       *TypeRef
	Names      []Ident
}

// ParamModifiers are the by-ref and binding modifiers of a parameter.
type ParamModifiers uint8

const (
	ParamRef ParamModifiers = 1 << iota
	ParamOut
	ParamIn
	ParamParams
	ParamThis
	ParamScoped
	ParamReadonly
)

// Parameter is one method, delegate or indexer parameter.
type Parameter struct {
	Attributes []*AttributeList
	Modifiers  ParamModifiers
	Type       *TypeRef
	Name       Ident
	Default    Expr
	Span       source.Span
}

// IsByRef reports whether the parameter is passed by reference.
func (p *Parameter) IsByRef() bool {
	return p.Modifiers&(ParamRef|ParamOut|ParamIn) != 0
}

// AttributeList is `[target: A, B(...)]`.
type AttributeList struct {
	Target     string
	TargetSpan source.Span
	Attributes []*Attribute
	Span       source.Span
	// FullStart is where the leading trivia of '[' begins.
	FullStart uint32
}

// Attribute is one attribute usage inside a list.
type Attribute struct {
	Name *TypeRef
	Args []*AttributeArg
	// ArgsSpan covers the parenthesized argument list when present.
	ArgsSpan source.Span
	Span     source.Span
}

// AttributeArg is a positional or named attribute argument. NameEquals is set
// for `Prop = value`, NameColon for `param: value`.
type AttributeArg struct {
	NameEquals string
	NameColon  string
	Value      Expr
	Span       source.Span
}

// RefFlags describe how an identifier reference was written.
type RefFlags uint8

const (
	// RefInNameof marks identifiers inside a nameof(...) argument.
	RefInNameof RefFlags = 1 << iota
	// RefThisQualified marks `this.X`.
	RefThisQualified
	// RefMemberAccess marks `expr.X` where expr is not `this`.
	RefMemberAccess
	// RefInvocation marks identifiers followed by '('.
	RefInvocation
	// RefAssignTarget marks identifiers followed by an assignment operator.
	RefAssignTarget
)

// IdentRef is one identifier occurrence in a body, initializer or expression.
type IdentRef struct {
	Name  string
	Span  source.Span
	Flags RefFlags
}
