package syntax

import (
	"strings"

	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/source"
)

// NameSegment is one dotted component of a type name, with type arguments.
type NameSegment struct {
	Name     string
	TypeArgs []*TypeRef
	Span     source.Span
}

// TypeRef is a type as written in source.
type TypeRef struct {
	// Keyword is set for predefined aliases (int, string, void, ...).
	Keyword token.Kind
	// Global is set for `global::` qualified names.
	Global   bool
	Segments []NameSegment
	// Tuple elements for (T1 a, T2 b) syntax.
	Tuple     []*TypeRef
	Nullable  bool
	ArrayRank []int
	Pointer   int
	// Text is the source spelling.
	Text string
	Span source.Span
}

// IsKeyword reports whether the type is a predefined alias such as `bool`.
func (t *TypeRef) IsKeyword(k token.Kind) bool { return t != nil && t.Keyword == k }

// IsVoid reports whether the type is `void`.
func (t *TypeRef) IsVoid() bool { return t.IsKeyword(token.KwVoid) && t.Pointer == 0 }

// SimpleName returns the last segment name, or the keyword spelling.
func (t *TypeRef) SimpleName() string {
	if t == nil {
		return ""
	}
	if t.Keyword != token.Invalid {
		return t.Keyword.String()
	}
	if len(t.Segments) == 0 {
		return ""
	}
	return t.Segments[len(t.Segments)-1].Name
}

// QualifiedName joins the segment names with '.' ignoring type arguments.
func (t *TypeRef) QualifiedName() string {
	if t == nil {
		return ""
	}
	if t.Keyword != token.Invalid {
		return t.Keyword.String()
	}
	parts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		parts[i] = s.Name
	}
	return strings.Join(parts, ".")
}
