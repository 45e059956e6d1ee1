package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

const vmSource = "class Vm\n{\n\tvoid M() { _title = 1; }\n}\n"

func fixture(t *testing.T) (*source.FileSet, []diag.Diagnostic) {
	t.Helper()
	fs := source.NewFileSetWithBase("/proj")
	id := fs.AddVirtual("/proj/src/Vm.cs", []byte(vmSource))
	sp := source.Span{File: id, Start: 23, End: 29}
	if got := fs.Text(sp); got != "_title" {
		t.Fatalf("fixture span covers %q", got)
	}
	d := diag.New(diag.FieldReferenceForObservablePropertyField, sp, "App.Vm._title", "Title").
		WithProperty("FieldName", "_title")
	return fs, []diag.Diagnostic{d}
}

func TestPrettyUnderlinesPrimarySpan(t *testing.T) {
	fs, ds := fixture(t)
	var buf bytes.Buffer
	if err := Pretty(&buf, ds, fs, Options{HelpLinks: true}); err != nil {
		t.Fatal(err)
	}
	want := "warning[MVVMTK0034]: " + ds[0].Message + "\n" +
		" --> src/Vm.cs:3:13\n" +
		"  |\n" +
		"3 | \tvoid M() { _title = 1; }\n" +
		"  | \t           ^~~~~~\n" +
		"  = help: https://aka.ms/mvvmtoolkit/errors/mvvmtk0034\n"
	if got := buf.String(); got != want {
		t.Errorf("pretty output mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyContextAndColor(t *testing.T) {
	fs, ds := fixture(t)
	var plain, colored bytes.Buffer
	if err := Pretty(&plain, ds, fs, Options{Context: 2}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(plain.String(), "1 | class Vm\n2 | {\n3 | ") {
		t.Errorf("expected two context lines, got:\n%s", plain.String())
	}
	if strings.Contains(plain.String(), "\x1b[") {
		t.Error("color disabled but escape codes present")
	}
	if err := Pretty(&colored, ds, fs, Options{Color: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Error("color enabled but no escape codes")
	}
}

func TestUnderlineUsesDisplayWidth(t *testing.T) {
	tests := []struct {
		line     string
		from, to int
		indent   string
		marker   string
	}{
		{"abc", 1, 2, " ", "^"},
		{"a日b", 4, 5, "   ", "^"},
		{"\tx = 日本;", 5, 11, "\t    ", "^~~~"},
		{"abc", 3, 3, "   ", "^"},
		{"abc", 1, 99, " ", "^~"},
	}
	for _, tt := range tests {
		indent, marker := underline(tt.line, tt.from, tt.to)
		if indent != tt.indent || marker != tt.marker {
			t.Errorf("underline(%q, %d, %d) = %q, %q; want %q, %q",
				tt.line, tt.from, tt.to, indent, marker, tt.indent, tt.marker)
		}
	}
}

func TestShortPathModes(t *testing.T) {
	fs, ds := fixture(t)
	tests := []struct {
		mode PathMode
		want string
	}{
		{PathModeRelative, "src/Vm.cs:3:13: warning MVVMTK0034: "},
		{PathModeAbsolute, "/proj/src/Vm.cs:3:13: warning MVVMTK0034: "},
		{PathModeBasename, "Vm.cs:3:13: warning MVVMTK0034: "},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := Write(&buf, ds, fs, Options{Format: FormatShort, PathMode: tt.mode}); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), tt.want) {
			t.Errorf("mode %d: got %q", tt.mode, buf.String())
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("mode %d: expected a single line", tt.mode)
		}
	}
}

func TestJSONOutput(t *testing.T) {
	fs, ds := fixture(t)
	ds = append(ds, diag.New(diag.InvalidCanExecuteMemberName, ds[0].Primary, "Missing", "App.Vm.Save"))

	var buf bytes.Buffer
	if err := Write(&buf, ds, fs, Options{Format: FormatJSON}); err != nil {
		t.Fatal(err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 2 || out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("counts = %d/%d/%d", out.Count, out.Errors, out.Warnings)
	}
	got := out.Diagnostics[0]
	if got.ID != "MVVMTK0034" || got.Severity != "warning" || got.Category != string(diag.FamilyAnalyzer) {
		t.Errorf("unexpected header fields: %+v", got)
	}
	if got.Location == nil || got.Location.File != "src/Vm.cs" || got.Location.StartLine != 3 || got.Location.StartCol != 13 {
		t.Errorf("unexpected location: %+v", got.Location)
	}
	if got.Properties["FieldName"] != "_title" {
		t.Errorf("properties = %v", got.Properties)
	}
	if out.Diagnostics[1].Severity != "error" {
		t.Errorf("second diagnostic = %+v", out.Diagnostics[1])
	}
}

func TestParseFormatAndSummary(t *testing.T) {
	for in, want := range map[string]Format{"": FormatPretty, "JSON": FormatJSON, " short ": FormatShort} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("sarif"); err == nil {
		t.Error("sarif is not supported")
	}

	_, ds := fixture(t)
	e := diag.New(diag.InvalidCanExecuteMemberName, source.Span{}, "a", "b")
	ds = append(ds, e, e)
	if got := Summary(ds); got != "2 errors, 1 warning" {
		t.Errorf("Summary = %q", got)
	}
	if Summary(nil) != "" {
		t.Error("empty summary expected")
	}
}
