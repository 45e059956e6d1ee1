package fix

import (
	"errors"
	"testing"

	"mvvmgen/internal/source"
)

func newSession(t *testing.T, text string) (*EditSession, source.FileID) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("doc.cs", []byte(text))
	return NewEditSession(fs.Get(id)), id
}

func TestSessionLifecycle(t *testing.T) {
	s, id := newSession(t, "int _a; int _b;")
	if s.State() != StateIdle {
		t.Fatalf("new session state = %s", s.State())
	}

	if err := s.Propose([]TextEdit{Replace(source.Span{File: id, Start: 4, End: 6}, "A", "_a")}); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateProposing {
		t.Fatalf("state after propose = %s", s.State())
	}
	if err := s.Propose(nil); !errors.Is(err, ErrState) {
		t.Fatalf("nested propose: %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := s.Propose([]TextEdit{Replace(source.Span{File: id, Start: 12, End: 14}, "B", "_b")}); err != nil {
		t.Fatal(err)
	}
	s.Abort()
	if s.State() != StateIdle || s.Pending() != 1 {
		t.Fatalf("abort must keep committed edits: state=%s pending=%d", s.State(), s.Pending())
	}

	out, err := s.Rewrite()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "int A; int _b;" {
		t.Fatalf("rewrite = %q", out)
	}
	if s.State() != StateIdle || s.Pending() != 0 {
		t.Fatal("rewrite must consume the committed edits")
	}
}

func TestSessionRejectsOverlaps(t *testing.T) {
	s, id := newSession(t, "abcdefgh")
	if err := s.Propose([]TextEdit{Replace(source.Span{File: id, Start: 2, End: 5}, "X", "")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name  string
		edits []TextEdit
	}{
		{"overlaps accepted", []TextEdit{Replace(source.Span{File: id, Start: 4, End: 6}, "Y", "")}},
		{"same start as accepted", []TextEdit{Insert(source.Span{File: id, Start: 2, End: 2}, "Y")}},
		{"overlap within fix", []TextEdit{
			Replace(source.Span{File: id, Start: 5, End: 7}, "Y", ""),
			Replace(source.Span{File: id, Start: 6, End: 8}, "Z", ""),
		}},
	}
	for _, tc := range cases {
		err := s.Propose(tc.edits)
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("%s: expected conflict, got %v", tc.name, err)
		}
		if s.State() != StateIdle {
			t.Fatalf("%s: failed propose must return to idle", tc.name)
		}
	}

	// Touching spans do not overlap.
	if err := s.Propose([]TextEdit{Insert(source.Span{File: id, Start: 5, End: 5}, "!")}); err != nil {
		t.Fatal(err)
	}
	if err := s.Commit(); err != nil {
		t.Fatal(err)
	}
	out, err := s.Rewrite()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "abX!fgh" {
		t.Fatalf("rewrite = %q", out)
	}
}

func TestSessionRejectsStaleText(t *testing.T) {
	s, id := newSession(t, "int _a;")
	err := s.Propose([]TextEdit{Replace(source.Span{File: id, Start: 4, End: 6}, "A", "_b")})
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected stale error, got %v", err)
	}
	if err := s.Propose([]TextEdit{Replace(source.Span{File: id + 1, Start: 0, End: 1}, "A", "")}); err == nil {
		t.Fatal("edits for another document must be rejected")
	}
	if err := s.Commit(); !errors.Is(err, ErrState) {
		t.Fatalf("commit while idle: %v", err)
	}
}
