package diagfmt

import (
	"bufio"
	"fmt"
	"io"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

// Short prints one line per diagnostic:
// path:line:col: severity ID: message
func Short(w io.Writer, ds []diag.Diagnostic, fs *source.FileSet, opts Options) error {
	bw := bufio.NewWriter(w)
	for i := range ds {
		d := &ds[i]
		if _, err := fmt.Fprintf(bw, "%s: %s %s: %s\n", position(fs, d.Primary, opts.PathMode), d.Severity, d.ID(), d.Message); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func position(fs *source.FileSet, sp source.Span, mode PathMode) string {
	if fs.Get(sp.File) == nil {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", displayPath(fs, sp.File, mode), start.Line, start.Col)
}
