// Package fuzztests holds Go fuzz harnesses for the C# front-end
// (source -> lexer -> parser -> binder). They guard against panics, hangs
// and out-of-range spans on arbitrary input.
package fuzztests
