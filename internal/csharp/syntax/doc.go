// Package syntax holds the immutable declaration tree produced by the C#
// parser. The tree covers declarations only: method and accessor bodies are
// not represented, except for the identifier references they contain.
//
// Every node records its byte span. Declaration nodes also record FullStart,
// the offset where their leading trivia begins, so that rewrites can replace a
// declaration while keeping the comments in front of it.
package syntax
