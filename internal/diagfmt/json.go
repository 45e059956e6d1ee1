package diagfmt

import (
	"encoding/json"
	"io"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

// LocationJSON is a resolved span.
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line"`
	StartCol  uint32 `json:"start_col"`
	EndLine   uint32 `json:"end_line"`
	EndCol    uint32 `json:"end_col"`
}

// NoteJSON is a secondary message.
type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

// DiagnosticJSON is one diagnostic.
type DiagnosticJSON struct {
	ID         string            `json:"id"`
	Severity   string            `json:"severity"`
	Category   string            `json:"category,omitempty"`
	Title      string            `json:"title,omitempty"`
	Message    string            `json:"message"`
	HelpLink   string            `json:"help_link,omitempty"`
	Location   *LocationJSON     `json:"location,omitempty"`
	Notes      []NoteJSON        `json:"notes,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// DiagnosticsOutput is the root of the JSON document.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

func makeLocation(sp source.Span, fs *source.FileSet, mode PathMode) *LocationJSON {
	if fs.Get(sp.File) == nil {
		return nil
	}
	start, end := fs.Resolve(sp)
	return &LocationJSON{
		File:      displayPath(fs, sp.File, mode),
		StartByte: sp.Start,
		EndByte:   sp.End,
		StartLine: start.Line,
		StartCol:  start.Col,
		EndLine:   end.Line,
		EndCol:    end.Col,
	}
}

// BuildDiagnosticsOutput converts ds without serializing.
func BuildDiagnosticsOutput(ds []diag.Diagnostic, fs *source.FileSet, opts Options) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(ds)), Count: len(ds)}
	out.Errors, out.Warnings, _ = Counts(ds)
	for i := range ds {
		d := &ds[i]
		desc := d.Descriptor()
		dj := DiagnosticJSON{
			ID:       d.ID(),
			Severity: d.Severity.String(),
			Category: string(desc.Family),
			Title:    desc.Title,
			Message:  d.Message,
			HelpLink: desc.HelpLink(),
			Location: makeLocation(d.Primary, fs, opts.PathMode),
		}
		for _, n := range d.Notes {
			dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, fs, opts.PathMode)})
		}
		if len(d.Properties) > 0 {
			dj.Properties = make(map[string]string, len(d.Properties))
			for _, p := range d.Properties {
				dj.Properties[p.Key] = p.Value
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON writes ds as one indented JSON document.
func JSON(w io.Writer, ds []diag.Diagnostic, fs *source.FileSet, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(ds, fs, opts))
}
