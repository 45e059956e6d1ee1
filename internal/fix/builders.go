package fix

import (
	"fmt"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

// TextEdit replaces Span with NewText. OldText, when set, must match the
// current document text for the edit to apply.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// Fix is one proposed repair: an immutable list of edits that apply together.
type Fix struct {
	ID             string
	Title          string
	EquivalenceKey string
	Code           diag.Code
	Edits          []TextEdit
}

// Option customises a Fix under construction.
type Option func(*Fix)

// WithID overrides the generated fix identifier.
func WithID(id string) Option {
	return func(f *Fix) {
		f.ID = id
	}
}

// WithEquivalenceKey groups the fix with others for fix-all batches.
func WithEquivalenceKey(key string) Option {
	return func(f *Fix) {
		f.EquivalenceKey = key
	}
}

// WithCode records the diagnostic code the fix repairs.
func WithCode(code diag.Code) Option {
	return func(f *Fix) {
		f.Code = code
	}
}

// New assembles a fix from edits. The default ID is derived from the code and
// the first edit's location.
func New(title string, edits []TextEdit, opts ...Option) Fix {
	f := Fix{Title: title, Edits: append([]TextEdit(nil), edits...)}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	if f.ID == "" && len(f.Edits) > 0 {
		first := f.Edits[0].Span
		f.ID = fmt.Sprintf("%s@%d:%d", f.Code.ID(), first.File, first.Start)
	}
	return f
}

// Replace swaps the text at span for newText.
func Replace(span source.Span, newText, expect string) TextEdit {
	return TextEdit{Span: span, NewText: newText, OldText: expect}
}

// Insert adds text at the start of span.
func Insert(at source.Span, text string) TextEdit {
	return TextEdit{Span: at.At(), NewText: text}
}

// Delete removes the text at span.
func Delete(span source.Span, expect string) TextEdit {
	return TextEdit{Span: span, OldText: expect}
}
