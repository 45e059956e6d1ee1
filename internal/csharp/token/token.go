package token

import "mvvmgen/internal/source"

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Value   string
	Leading []Trivia
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Is reports whether the token is an identifier whose value is word. It is used
// for contextual keywords.
func (t Token) Is(word string) bool { return t.Kind == Ident && t.Value == word && t.Text[0] != '@' }

// LeadingStart returns the offset where the token's leading trivia begins.
func (t Token) LeadingStart() uint32 {
	if len(t.Leading) > 0 {
		return t.Leading[0].Span.Start
	}
	return t.Span.Start
}
