package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	code, gutter    *color.Color
	caret, note     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty prints each diagnostic with its source line and a caret underline
// under the primary span:
//
//	warning[MVVMTK0034]: message
//	  --> path:line:col
//	   |
//	12 |         _name = value;
//	   |         ^~~~~
//
// Caret columns follow display width, so wide runes and tabs line up.
func Pretty(w io.Writer, ds []diag.Diagnostic, fs *source.FileSet, opts Options) error {
	bw := bufio.NewWriter(w)
	p := newPalette(opts.Color)
	for i := range ds {
		if i > 0 {
			bw.WriteByte('\n')
		}
		writePretty(bw, &ds[i], fs, opts, p)
	}
	return bw.Flush()
}

func writePretty(w *bufio.Writer, d *diag.Diagnostic, fs *source.FileSet, opts Options, p palette) {
	fmt.Fprintf(w, "%s%s\n",
		p.severity(d.Severity).Sprintf("%s[%s]", d.Severity, d.ID()),
		p.code.Sprint(": "+d.Message))

	f := fs.Get(d.Primary.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(d.Primary)
	gw := len(strconv.FormatUint(uint64(start.Line), 10))
	pad := strings.Repeat(" ", gw)
	bar := p.gutter.Sprint("|")

	fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, p.gutter.Sprint("-->"),
		displayPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col)
	fmt.Fprintf(w, "%s %s\n", pad, bar)

	first := uint32(1)
	if back, err := safecast.Conv[uint32](opts.Context); err == nil && back < start.Line {
		first = start.Line - back
	}
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprintf("%*d", gw, ln), bar, f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	to := int(end.Col) - 1
	if end.Line != start.Line {
		to = len(line)
	}
	indent, marker := underline(line, int(start.Col)-1, to)
	fmt.Fprintf(w, "%s %s %s%s\n", pad, bar, indent, p.caret.Sprint(marker))

	for _, n := range d.Notes {
		loc := ""
		if fs.Get(n.Span.File) != nil {
			loc = " (" + position(fs, n.Span, opts.PathMode) + ")"
		}
		fmt.Fprintf(w, "%s %s %s%s\n", pad, p.note.Sprint("= note:"), n.Msg, loc)
	}
	if opts.HelpLinks {
		if link := d.Descriptor().HelpLink(); link != "" {
			fmt.Fprintf(w, "%s %s %s\n", pad, p.note.Sprint("= help:"), link)
		}
	}
}

// underline returns the whitespace that reaches byte offset from in line,
// and a caret marker as wide as line[from:to]. Tabs in the prefix are kept
// so the terminal expands them like the source line above.
func underline(line string, from, to int) (indent, marker string) {
	from = max(0, min(from, len(line)))
	to = max(from, min(to, len(line)))
	var sb strings.Builder
	for _, r := range line[:from] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	width := max(1, runewidth.StringWidth(line[from:to]))
	return sb.String(), "^" + strings.Repeat("~", width-1)
}
