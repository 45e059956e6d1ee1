package host

// TypeRef is a possibly constructed type. The zero value is the error type.
type TypeRef struct {
	// Def is the named type or type parameter; NoSymbol for unresolved types.
	Def  SymbolID
	Args []TypeRef
	// Nullable marks `T?`.
	Nullable  bool
	ArrayRank []int
	Pointer   int
	// Written is the source spelling, used when Def is unresolved.
	Written string
	// Tuple holds element types for (T1, T2) syntax.
	Tuple []TypeRef
}

// IsError reports whether the type could not be resolved.
func (t TypeRef) IsError() bool { return t.Def == NoSymbol && len(t.Tuple) == 0 }

// HasDef reports whether the type resolved to a declared type or type parameter.
func (t TypeRef) HasDef() bool { return t.Def != NoSymbol }

// IsArray reports an array type.
func (t TypeRef) IsArray() bool { return len(t.ArrayRank) > 0 }

// IsPointer reports a pointer type.
func (t TypeRef) IsPointer() bool { return t.Pointer > 0 }

// Same compares two type references structurally.
func (t TypeRef) Same(o TypeRef) bool {
	if t.Def != o.Def || t.Nullable != o.Nullable || t.Pointer != o.Pointer ||
		len(t.Args) != len(o.Args) || len(t.ArrayRank) != len(o.ArrayRank) || len(t.Tuple) != len(o.Tuple) {
		return false
	}
	if t.Def == NoSymbol && len(t.Tuple) == 0 && t.Written != o.Written {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Same(o.Args[i]) {
			return false
		}
	}
	for i := range t.ArrayRank {
		if t.ArrayRank[i] != o.ArrayRank[i] {
			return false
		}
	}
	for i := range t.Tuple {
		if !t.Tuple[i].Same(o.Tuple[i]) {
			return false
		}
	}
	return true
}

// WithoutNullable strips the top-level nullable annotation.
func (t TypeRef) WithoutNullable() TypeRef {
	t.Nullable = false
	return t
}
