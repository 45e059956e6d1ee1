// Package diagfmt renders diagnostics for terminals and tools.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

// Format selects an output renderer.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatShort  Format = "short"
	FormatJSON   Format = "json"
)

// ParseFormat accepts pretty|short|json.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPretty, FormatShort, FormatJSON:
		return f, nil
	case "":
		return FormatPretty, nil
	}
	return "", fmt.Errorf("invalid format %q (expected pretty|short|json)", s)
}

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeRelative prints paths relative to the file set base when possible.
	PathModeRelative PathMode = iota
	PathModeAbsolute
	PathModeBasename
)

// Options configures rendering.
type Options struct {
	Format   Format
	Color    bool
	PathMode PathMode
	// Context is the number of source lines shown before the primary line.
	Context int
	// HelpLinks appends the documentation URL in pretty output.
	HelpLinks bool
}

// Write renders ds in opts.Format.
func Write(w io.Writer, ds []diag.Diagnostic, fs *source.FileSet, opts Options) error {
	switch opts.Format {
	case FormatShort:
		return Short(w, ds, fs, opts)
	case FormatJSON:
		return JSON(w, ds, fs, opts)
	default:
		return Pretty(w, ds, fs, opts)
	}
}

func displayPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	f := fs.Get(id)
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return abs
		}
		return f.Path
	case PathModeBasename:
		return filepath.Base(f.Path)
	default:
		return f.RelPath(fs.BaseDir())
	}
}

// Counts tallies diagnostics by severity.
func Counts(ds []diag.Diagnostic) (errors, warnings, infos int) {
	for i := range ds {
		switch ds[i].Severity {
		case diag.SevError:
			errors++
		case diag.SevWarning:
			warnings++
		default:
			infos++
		}
	}
	return errors, warnings, infos
}

// Summary renders "2 errors, 1 warning"; empty when ds is empty.
func Summary(ds []diag.Diagnostic) string {
	e, w, i := Counts(ds)
	var parts []string
	for _, c := range []struct {
		n    int
		noun string
	}{{e, "error"}, {w, "warning"}, {i, "message"}} {
		switch {
		case c.n == 1:
			parts = append(parts, "1 "+c.noun)
		case c.n > 1:
			parts = append(parts, fmt.Sprintf("%d %ss", c.n, c.noun))
		}
	}
	return strings.Join(parts, ", ")
}
