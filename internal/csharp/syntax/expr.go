package syntax

import "mvvmgen/internal/source"

// Expr is an attribute argument or initializer expression. Only constant forms
// are structured; everything else is kept as OpaqueExpr.
type Expr interface {
	ExprSpan() source.Span
	expr()
}

// ExprBase carries the span shared by all expressions.
type ExprBase struct{ Span source.Span }

func (e *ExprBase) ExprSpan() source.Span { return e.Span }
func (*ExprBase) expr()                   {}

// LiteralKind classifies literal expressions.
type LiteralKind uint8

const (
	LitString LiteralKind = iota
	LitChar
	LitInt
	LitReal
	LitTrue
	LitFalse
	LitNull
	LitDefault
)

// LiteralExpr is a literal; Value holds the decoded string or the source text
// of numbers.
type LiteralExpr struct {
	ExprBase
	Kind  LiteralKind
	Value string
	Text  string
}

// NameofExpr is nameof(a.b.c); Name is the last component.
type NameofExpr struct {
	ExprBase
	Target string
	Name   string
}

// TypeofExpr is typeof(T).
type TypeofExpr struct {
	ExprBase
	Type *TypeRef
}

// NameExpr is a simple or dotted name such as AsyncRelayCommandOptions.None.
type NameExpr struct {
	ExprBase
	Parts []string
}

// BinaryExpr is a constant binary combination, typically A | B.
type BinaryExpr struct {
	ExprBase
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is a prefix operator applied to a constant (-1, ~Flags.A).
type UnaryExpr struct {
	ExprBase
	Op      string
	Operand Expr
}

// ArrayExpr is `new[] { ... }`, `new T[] { ... }` or a collection expression `[...]`.
type ArrayExpr struct {
	ExprBase
	ElemType *TypeRef
	Elements []Expr
}

// OpaqueExpr keeps expressions outside the constant subset as raw text.
type OpaqueExpr struct {
	ExprBase
	Text string
}
