// Package token defines lexical token kinds and trivia for the C# front-end.
// Invariants:
//   - Token.Text is the exact source slice; Token.Span matches it.
//   - Identifier tokens carry Value: the NFC-normalized name without a leading '@'.
//   - Contextual keywords (partial, record, get, set, init, required, async,
//     global, nameof, where, scoped, file, field, value) lex as Ident; the
//     parser recognizes them by Value.
//   - Comments, whitespace and preprocessor lines are leading Trivia and never
//     appear in the token stream.
//   - '>' is never combined into '>>' so generic argument lists close cleanly.
package token
