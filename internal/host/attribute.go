package host

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/source"
)

// ConstantKind classifies typed constants.
type ConstantKind uint8

const (
	ConstError ConstantKind = iota
	ConstNull
	ConstBool
	ConstInt
	ConstReal
	ConstString
	ConstChar
	ConstEnum
	ConstType
	ConstArray
)

// TypedConstant is a bound attribute argument value.
type TypedConstant struct {
	Kind ConstantKind
	// Type is the constant's type when known (the enum type for ConstEnum).
	Type   TypeRef
	Bool   bool
	Int    int64
	String string
	// TypeValue is the operand of typeof.
	TypeValue TypeRef
	Elems     []TypedConstant
	// Text is the source spelling of the argument expression.
	Text string
	// Nameof is set when the value came from nameof(...).
	Nameof bool
}

// NamedArgument is `Name = value` in an attribute usage.
type NamedArgument struct {
	Name  string
	Value TypedConstant
}

// AttributeData is one bound attribute usage.
type AttributeData struct {
	// Class is the attribute type; NoSymbol when it could not be resolved.
	Class SymbolID
	// Name is the attribute name as written.
	Name string
	// Target is the explicit list target (field, property, ...) or "".
	Target      string
	Args        []TypedConstant
	NamedArgs   []NamedArgument
	Span        source.Span
	ListSpan    source.Span
	ListTarget  source.Span
	Syntax      *syntax.Attribute
	List        *syntax.AttributeList
	// Part is the index into the owner's Decls the attribute was written on.
	Part int
	// ArgsMismatch is set when no constructor of Class accepts Args.
	ArgsMismatch bool
}

// Named returns the named argument called name.
func (a *AttributeData) Named(name string) (TypedConstant, bool) {
	for _, n := range a.NamedArgs {
		if n.Name == name {
			return n.Value, true
		}
	}
	return TypedConstant{}, false
}

// HasErrors reports whether the class or any argument failed to bind.
func (a *AttributeData) HasErrors() bool {
	if a.Class == NoSymbol || a.ArgsMismatch {
		return true
	}
	for _, c := range a.Args {
		if c.hasErrors() {
			return true
		}
	}
	for _, n := range a.NamedArgs {
		if n.Value.hasErrors() {
			return true
		}
	}
	return false
}

func (c TypedConstant) hasErrors() bool {
	if c.Kind == ConstError {
		return true
	}
	if c.Kind == ConstType && c.TypeValue.IsError() {
		return true
	}
	for _, e := range c.Elems {
		if e.hasErrors() {
			return true
		}
	}
	return false
}
