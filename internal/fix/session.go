package fix

import (
	"errors"
	"fmt"
	"slices"

	"mvvmgen/internal/source"
)

// State is the lifecycle position of an EditSession.
type State uint8

const (
	StateIdle State = iota
	StateProposing
	StateRewriting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProposing:
		return "proposing"
	case StateRewriting:
		return "rewriting"
	}
	return "unknown"
}

var (
	// ErrConflict reports edits that overlap each other or already accepted edits.
	ErrConflict = errors.New("overlapping edits")
	// ErrStale reports an edit whose expected text no longer matches the document.
	ErrStale = errors.New("document text changed")
	// ErrState reports a call made in the wrong session state.
	ErrState = errors.New("invalid edit session state")
)

// EditSession collects the edits of one document. Fixes are proposed one at a
// time and either committed whole or aborted; the document is rewritten once
// at the end. A session is not safe for concurrent use.
type EditSession struct {
	file     *source.File
	state    State
	staged   []TextEdit
	accepted []TextEdit
}

// NewEditSession starts an idle session over file.
func NewEditSession(file *source.File) *EditSession {
	return &EditSession{file: file}
}

// File returns the document the session edits.
func (s *EditSession) File() *source.File { return s.file }

// State returns the current lifecycle state.
func (s *EditSession) State() State { return s.state }

// Pending reports how many committed edits await Rewrite.
func (s *EditSession) Pending() int { return len(s.accepted) }

// Propose stages the edits of one fix that target this document. On failure
// the staged edits are dropped and the session returns to idle.
func (s *EditSession) Propose(edits []TextEdit) error {
	if s.state != StateIdle {
		return fmt.Errorf("%w: propose while %s", ErrState, s.state)
	}
	s.state = StateProposing
	for _, e := range edits {
		if err := s.check(e); err != nil {
			s.Abort()
			return err
		}
		s.staged = append(s.staged, e)
	}
	return nil
}

// Commit accepts the staged edits.
func (s *EditSession) Commit() error {
	if s.state != StateProposing {
		return fmt.Errorf("%w: commit while %s", ErrState, s.state)
	}
	s.accepted = append(s.accepted, s.staged...)
	s.staged = nil
	s.state = StateIdle
	return nil
}

// Abort drops the staged edits. It is a no-op on an idle session.
func (s *EditSession) Abort() {
	if s.state == StateProposing {
		s.staged = nil
		s.state = StateIdle
	}
}

// Rewrite applies every committed edit and returns the new document text.
// The committed edits are consumed.
func (s *EditSession) Rewrite() ([]byte, error) {
	if s.state != StateIdle {
		return nil, fmt.Errorf("%w: rewrite while %s", ErrState, s.state)
	}
	s.state = StateRewriting
	defer func() { s.state = StateIdle }()

	edits := s.accepted
	s.accepted = nil
	slices.SortFunc(edits, func(a, b TextEdit) int {
		return int(a.Span.Start) - int(b.Span.Start)
	})

	content := s.file.Content
	size := len(content)
	for _, e := range edits {
		size += len(e.NewText) - int(e.Span.Len())
	}
	out := make([]byte, 0, max(size, 0))
	var pos uint32
	for _, e := range edits {
		out = append(out, content[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	out = append(out, content[pos:]...)
	return out, nil
}

func (s *EditSession) check(e TextEdit) error {
	if e.Span.File != s.file.ID {
		return fmt.Errorf("edit targets file %d, session edits %d", e.Span.File, s.file.ID)
	}
	if e.Span.Start > e.Span.End || int(e.Span.End) > len(s.file.Content) {
		return fmt.Errorf("edit span %s out of range", e.Span)
	}
	if e.OldText != "" && string(s.file.Content[e.Span.Start:e.Span.End]) != e.OldText {
		return fmt.Errorf("%w at %s", ErrStale, e.Span)
	}
	for _, other := range s.staged {
		if spansConflict(e.Span, other.Span) {
			return fmt.Errorf("%w: %s and %s", ErrConflict, e.Span, other.Span)
		}
	}
	for _, other := range s.accepted {
		if spansConflict(e.Span, other.Span) {
			return fmt.Errorf("%w: %s and %s", ErrConflict, e.Span, other.Span)
		}
	}
	return nil
}

// spansConflict treats edits sharing a start position as conflicting, since
// their relative order would be ambiguous.
func spansConflict(a, b source.Span) bool {
	if a.Start == b.Start {
		return true
	}
	return a.Overlaps(b)
}
