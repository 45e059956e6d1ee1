package fix

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
	"mvvmgen/internal/source"
)

// ErrNoFixes indicates that no fix could be applied.
var ErrNoFixes = errors.New("no applicable fixes")

// Mode selects which diagnostics a batch repairs.
type Mode uint8

const (
	// ModeSite repairs the first fixable diagnostic at Options.Site.
	ModeSite Mode = iota
	// ModeDocument repairs every matching diagnostic in Options.Document.
	ModeDocument
	// ModeSolution repairs every matching diagnostic in the compilation.
	ModeSolution
)

func (m Mode) String() string {
	switch m {
	case ModeSite:
		return "site"
	case ModeDocument:
		return "document"
	case ModeSolution:
		return "solution"
	}
	return "unknown"
}

// Options configures a repair batch.
type Options struct {
	Mode     Mode
	Site     source.Span
	Document source.FileID
	// EquivalenceKey restricts batches to one fixer; empty accepts all.
	EquivalenceKey string
}

// AppliedFix records a fix that was committed.
type AppliedFix struct {
	ID    string
	Title string
	Code  diag.Code
	Edits int
}

// SkippedFix records a fix that could not be committed.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange is the rewritten content of one document.
type FileChange struct {
	File    source.FileID
	Path    string
	Content []byte
	Edits   int
}

// Result summarises a repair batch.
type Result struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

// Apply computes fixes for diags and applies the ones selected by opts. Fixes
// are applied in source order; a fix whose edits overlap an earlier one is
// skipped, so the batch output equals applying the fixes one after another.
// Nothing is written to disk; see WriteChanges.
func Apply(ctx context.Context, c host.Compilation, diags []diag.Diagnostic, opts Options) (*Result, error) {
	selected := selectDiagnostics(diags, opts)
	fixes, err := computeFixes(ctx, c, selected, opts.EquivalenceKey)
	if err != nil {
		return nil, err
	}
	if opts.Mode == ModeSite && len(fixes) > 1 {
		fixes = fixes[:1]
	}

	res := &Result{}
	sessions := make(map[source.FileID]*EditSession)
	for _, f := range fixes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if reason := stage(c.Files(), sessions, f); reason != "" {
			res.Skipped = append(res.Skipped, SkippedFix{ID: f.ID, Title: f.Title, Reason: reason})
			continue
		}
		res.Applied = append(res.Applied, AppliedFix{ID: f.ID, Title: f.Title, Code: f.Code, Edits: len(f.Edits)})
	}

	ids := make([]source.FileID, 0, len(sessions))
	for id, s := range sessions {
		if s.Pending() > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	for _, id := range ids {
		s := sessions[id]
		n := s.Pending()
		content, err := s.Rewrite()
		if err != nil {
			return nil, fmt.Errorf("rewrite %s: %w", s.File().Path, err)
		}
		res.FileChanges = append(res.FileChanges, FileChange{File: id, Path: s.File().Path, Content: content, Edits: n})
	}

	if len(res.Applied) == 0 {
		return res, ErrNoFixes
	}
	return res, nil
}

func selectDiagnostics(diags []diag.Diagnostic, opts Options) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		switch opts.Mode {
		case ModeSite:
			if d.Primary.File != opts.Site.File {
				continue
			}
			if !d.Primary.Contains(opts.Site) && !opts.Site.Contains(d.Primary) && !d.Primary.Overlaps(opts.Site) {
				continue
			}
		case ModeDocument:
			if d.Primary.File != opts.Document {
				continue
			}
		}
		out = append(out, d)
	}
	diag.SortDiagnostics(out)
	return out
}

func computeFixes(ctx context.Context, c host.Compilation, diags []diag.Diagnostic, key string) ([]Fix, error) {
	seen := make(map[string]bool)
	var fixes []Fix
	for i := range diags {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		d := &diags[i]
		fixer, ok := Lookup(d.Code)
		if !ok || (key != "" && fixer.EquivalenceKey() != key) {
			continue
		}
		f, ok := fixer.Compute(ctx, c, d)
		if !ok || len(f.Edits) == 0 || seen[f.ID] {
			continue
		}
		seen[f.ID] = true
		fixes = append(fixes, f)
	}
	slices.SortStableFunc(fixes, func(a, b Fix) int {
		if a.Edits[0].Span.File != b.Edits[0].Span.File {
			return int(a.Edits[0].Span.File) - int(b.Edits[0].Span.File)
		}
		if a.Edits[0].Span.Start != b.Edits[0].Span.Start {
			return int(a.Edits[0].Span.Start) - int(b.Edits[0].Span.Start)
		}
		return strings.Compare(a.ID, b.ID)
	})
	return fixes, nil
}

// stage proposes the edits of f to every document it touches and commits
// them only when all documents accept. It returns a skip reason on failure.
func stage(files *source.FileSet, sessions map[source.FileID]*EditSession, f Fix) string {
	byFile := groupEditsByFile(f.Edits)
	ids := make([]source.FileID, 0, len(byFile))
	for id := range byFile {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	proposed := make([]*EditSession, 0, len(ids))
	abort := func() {
		for _, s := range proposed {
			s.Abort()
		}
	}
	for _, id := range ids {
		s, ok := sessions[id]
		if !ok {
			file := files.Get(id)
			if file == nil {
				abort()
				return fmt.Sprintf("unknown file %d", id)
			}
			s = NewEditSession(file)
			sessions[id] = s
		}
		if err := s.Propose(byFile[id]); err != nil {
			abort()
			return err.Error()
		}
		proposed = append(proposed, s)
	}
	for _, s := range proposed {
		if err := s.Commit(); err != nil {
			return err.Error()
		}
	}
	return ""
}

func groupEditsByFile(edits []TextEdit) map[source.FileID][]TextEdit {
	out := make(map[source.FileID][]TextEdit)
	for _, e := range edits {
		out[e.Span.File] = append(out[e.Span.File], e)
	}
	return out
}

// WriteChanges writes each change back to its path, keeping the file mode.
// Virtual documents are skipped.
func WriteChanges(files *source.FileSet, changes []FileChange) error {
	for _, ch := range changes {
		if f := files.Get(ch.File); f != nil && f.Flags&source.FileVirtual != 0 {
			continue
		}
		mode := fs.FileMode(0o644)
		if info, err := os.Stat(ch.Path); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(ch.Path, ch.Content, mode); err != nil {
			return fmt.Errorf("write %s: %w", ch.Path, err)
		}
	}
	return nil
}
