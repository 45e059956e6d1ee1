package host

import "mvvmgen/internal/source"

// DeclKind selects declarations by syntactic shape.
type DeclKind uint8

const (
	DeclField DeclKind = iota
	DeclProperty
	DeclMethod
	DeclType
)

// Reference is one identifier occurrence that binds to a member.
type Reference struct {
	Span source.Span
	// Container is the member whose body holds the reference.
	Container SymbolID
	InNameof  bool
	// AssignTarget marks writes such as `_name = value`.
	AssignTarget bool
}

// LanguageVersion is the C# language version of the compilation.
type LanguageVersion string

const (
	LangPreview LanguageVersion = "preview"
	LangLatest  LanguageVersion = "latest"
	LangDefault LanguageVersion = "default"
)

// IsPreview reports whether preview features are enabled.
func (v LanguageVersion) IsPreview() bool { return v == LangPreview }

// Compilation is the host input contract. Implementations are immutable once
// built and safe for concurrent readers.
type Compilation interface {
	// Files returns the documents of the compilation.
	Files() *source.FileSet
	LanguageVersion() LanguageVersion
	// DeclarationsOf lists source symbols of a shape in declaration order.
	// Merged partial symbols appear once.
	DeclarationsOf(kind DeclKind) []SymbolID
	Symbol(id SymbolID) *Symbol
	// Attributes returns every attribute applied to the symbol across parts.
	Attributes(id SymbolID) []AttributeData
	SameSymbol(a, b SymbolID) bool
	// BaseChain returns the base types of t, nearest first, excluding t.
	BaseChain(t SymbolID) []SymbolID
	// AllInterfaces returns the transitive interface closure of t.
	AllInterfaces(t SymbolID) []TypeRef
	// InheritsFrom reports whether t or a base of t has the metadata name.
	InheritsFrom(t SymbolID, metadataName string) bool
	// Implements reports whether t implements the interface metadata name.
	Implements(t SymbolID, metadataName string) bool
	FirstDeclaration(id SymbolID) (SyntaxRef, bool)
	// WellKnownType resolves a fully qualified metadata name.
	WellKnownType(metadataName string) (SymbolID, bool)
	// MembersNamed returns members called name in t and then its base chain.
	MembersNamed(t SymbolID, name string) []SymbolID
	// ReferencesTo returns identifier references bound to the member.
	ReferencesTo(member SymbolID) []Reference
	// FullyQualifiedName renders a symbol as global::Namespace.Outer.Name.
	FullyQualifiedName(id SymbolID) string
	// MetadataName renders the fully qualified metadata name (Outer+Inner`1).
	FullMetadataName(id SymbolID) string
	// TypeDisplay renders a type; fullyQualified adds global:: prefixes.
	TypeDisplay(t TypeRef, fullyQualified bool) string
	// IsDerivedFrom reports whether type t equals or derives from the symbol base.
	IsDerivedFrom(t TypeRef, base SymbolID) bool
}
