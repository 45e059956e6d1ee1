package diag

import (
	"testing"

	"mvvmgen/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")
	file := fs.Add("/workspace/ViewModels/Main.cs", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		New(AsyncVoidReturningRelayCommandMethod, source.Span{File: file, Start: 2, End: 3}, "MainViewModel", "Load"),
		New(InvalidRelayCommandMethodSignature, source.Span{File: file, Start: 0, End: 1}, "MainViewModel", "Save").
			WithNote(source.Span{File: file, Start: 2, End: 2}, "declared\nhere"),
	}

	want := "error MVVMTK0007 ViewModels/Main.cs:1:1 The method MainViewModel.Save cannot be used to generate a command property, as its signature isn't compatible with any of the existing relay command types\n" +
		"note MVVMTK0007 ViewModels/Main.cs:2:1 declared here\n" +
		"warning MVVMTK0039 ViewModels/Main.cs:2:1 The method MainViewModel.Load annotated with [RelayCommand] is async void (make sure to return a Task type instead)"
	if got := FormatShort(diags, fs, true); got != want {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestFormatShortEmpty(t *testing.T) {
	if got := FormatShort(nil, source.NewFileSet(), true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
