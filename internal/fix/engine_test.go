package fix

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mvvmgen/internal/analyzers"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
	"mvvmgen/internal/host/binder"
	"mvvmgen/internal/source"
)

const header = `using System;
using System.ComponentModel.DataAnnotations;
using CommunityToolkit.Mvvm.ComponentModel;

namespace App;

`

const nameVm = header + `public partial class Vm : ObservableValidator
{
    /// <summary>The name.</summary>
    [ObservableProperty]
    [NotifyPropertyChangedFor(nameof(Greeting))]
    [property: Display(Name = "n")]
    [field: NonSerialized]
    [Required, Obsolete("old")]
    [set: Obsolete("setter")]
    private string? _name;

    public string Greeting => "hi";

    public void Reset()
    {
        _name = null;
    }
}
`

type workspace struct {
	fs    *source.FileSet
	doc   source.FileID
	c     host.Compilation
	diags []diag.Diagnostic
}

func load(t *testing.T, refs []string, text string) *workspace {
	t.Helper()
	fs := source.NewFileSetWithBase("/src")
	id := fs.AddVirtual("/src/vm.cs", []byte(text))
	c, err := binder.Compile(context.Background(), fs, []source.FileID{id}, binder.Options{
		LangVersion: host.LangPreview,
		References:  refs,
	})
	if err != nil {
		t.Fatal(err)
	}
	var rep diag.SliceReporter
	if err := analyzers.Run(context.Background(), c, &rep); err != nil {
		t.Fatal(err)
	}
	return &workspace{fs: fs, doc: id, c: c, diags: rep.Items}
}

func (w *workspace) count(code diag.Code) int {
	n := 0
	for _, d := range w.diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

func (w *workspace) first(t *testing.T, code diag.Code) diag.Diagnostic {
	t.Helper()
	for _, d := range w.diags {
		if d.Code == code {
			return d
		}
	}
	t.Fatalf("no %s diagnostic", code)
	return diag.Diagnostic{}
}

func applyOne(t *testing.T, res *Result, err error) string {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
	if len(res.FileChanges) != 1 {
		t.Fatalf("expected one changed file, got %d", len(res.FileChanges))
	}
	return string(res.FileChanges[0].Content)
}

func TestUsePartialPropertyRedistributesAttributes(t *testing.T) {
	w := load(t, binder.DefaultReferences(), nameVm)
	res, err := Apply(context.Background(), w.c, w.diags, Options{Mode: ModeSolution, EquivalenceKey: "UsePartialProperty"})
	got := applyOne(t, res, err)

	want := header + `public partial class Vm : ObservableValidator
{
    /// <summary>The name.</summary>
    [ObservableProperty]
    [NotifyPropertyChangedFor(nameof(Greeting))]
    [Display(Name = "n")]
    [field: NonSerialized]
    [Required]
    [field: Obsolete("old")]
    public partial string? Name { get; [Obsolete("setter")] set; }

    public string Greeting => "hi";

    public void Reset()
    {
        Name = null;
    }
}
`
	if got != want {
		t.Fatalf("rewrite mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
	if len(res.Applied) != 1 || res.Applied[0].Code != diag.UseObservablePropertyOnPartialProperty {
		t.Fatalf("unexpected applied fixes %+v", res.Applied)
	}
}

func TestUsePartialPropertyKeepsAttributeOrder(t *testing.T) {
	src := header + `public partial class Vm : ObservableObject
{
    [ObservableProperty]
    [Forwarded][field: Forwarded2][property: Forwarded3]
    private string? _name;
}
`
	w := load(t, binder.DefaultReferences(), src)
	res, err := Apply(context.Background(), w.c, w.diags, Options{Mode: ModeSolution, EquivalenceKey: "UsePartialProperty"})
	got := applyOne(t, res, err)

	want := header + `public partial class Vm : ObservableObject
{
    [ObservableProperty]
    [field: Forwarded]
    [field: Forwarded2]
    [Forwarded3]
    public partial string? Name { get; set; }
}
`
	if got != want {
		t.Fatalf("rewrite mismatch\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestUsePartialPropertyIsIdempotent(t *testing.T) {
	w := load(t, binder.DefaultReferences(), nameVm)
	res, err := Apply(context.Background(), w.c, w.diags, Options{Mode: ModeSolution, EquivalenceKey: "UsePartialProperty"})
	fixed := applyOne(t, res, err)

	again := load(t, binder.DefaultReferences(), fixed)
	if n := again.count(diag.UseObservablePropertyOnPartialProperty); n != 0 {
		t.Fatalf("fixed source still reports %d suggestions", n)
	}
	if n := again.count(diag.FieldReferenceForObservablePropertyField); n != 0 {
		t.Fatalf("fixed source still references the field %d times", n)
	}
	if _, err := Apply(context.Background(), again.c, again.diags, Options{Mode: ModeSolution}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("second pass: %v", err)
	}
}

func TestOverlappingFixesAreRejected(t *testing.T) {
	w := load(t, binder.DefaultReferences(), nameVm)
	if w.count(diag.FieldReferenceForObservablePropertyField) != 1 {
		t.Fatal("expected the Reset write to be reported")
	}
	res, err := Apply(context.Background(), w.c, w.diags, Options{Mode: ModeSolution})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%+v skipped=%+v", res.Applied, res.Skipped)
	}
	if !strings.Contains(res.Skipped[0].Reason, ErrConflict.Error()) {
		t.Fatalf("skip reason %q", res.Skipped[0].Reason)
	}
}

func TestUseGeneratedPropertyAtSite(t *testing.T) {
	src := header + `public partial class Vm : ObservableObject
{
    [ObservableProperty] private int _count;

    public void Bump()
    {
        _count++;
        this._count = _count + 1;
    }
}
`
	w := load(t, binder.DefaultReferences(), src)
	if n := w.count(diag.FieldReferenceForObservablePropertyField); n != 3 {
		t.Fatalf("expected 3 references, got %d", n)
	}
	d := w.first(t, diag.FieldReferenceForObservablePropertyField)

	res, err := Apply(context.Background(), w.c, w.diags, Options{Mode: ModeSite, Site: d.Primary.At(), EquivalenceKey: "UseGeneratedProperty"})
	got := applyOne(t, res, err)
	if !strings.Contains(got, "        Count++;\n        this._count = _count + 1;\n") {
		t.Fatalf("site fix touched more than its site:\n%s", got)
	}

	doc := d.Primary.File
	res, err = Apply(context.Background(), w.c, w.diags, Options{Mode: ModeDocument, Document: doc, EquivalenceKey: "UseGeneratedProperty"})
	got = applyOne(t, res, err)
	if !strings.Contains(got, "        Count++;\n        this.Count = Count + 1;\n") {
		t.Fatalf("document fix-all missed a reference:\n%s", got)
	}
	if len(res.Applied) != 3 {
		t.Fatalf("applied %d fixes", len(res.Applied))
	}
}

func TestBatchEqualsSequentialApplication(t *testing.T) {
	src := header + `public partial class Person : ObservableObject
{
    [ObservableProperty]
    private string _first = "";

    [ObservableProperty]
    private string? _middle;

    [ObservableProperty]
    [Required]
    private string? _last;

    public string Full() => _middle + " " + _last;
}
`
	w := load(t, binder.DefaultReferences(), src)
	if n := w.count(diag.UseObservablePropertyOnPartialProperty); n != 3 {
		t.Fatalf("expected 3 suggestions, got %d", n)
	}
	opts := Options{Mode: ModeSolution, EquivalenceKey: "UsePartialProperty"}
	res, err := Apply(context.Background(), w.c, w.diags, opts)
	batch := applyOne(t, res, err)

	// _first has an initializer, so its fixer declines without reporting.
	if len(res.Applied) != 2 || len(res.Skipped) != 0 {
		t.Fatalf("applied=%+v skipped=%+v", res.Applied, res.Skipped)
	}
	if !strings.Contains(batch, `private string _first = "";`) {
		t.Fatal("declined site must be left untouched")
	}

	seq := src
	for range 2 {
		step := load(t, binder.DefaultReferences(), seq)
		var site source.Span
		for _, d := range step.diags {
			if d.Code != diag.UseObservablePropertyOnPartialProperty {
				continue
			}
			if name, _ := d.Property(analyzers.PropFieldName); name != "_first" {
				site = d.Primary
				break
			}
		}
		r, err := Apply(context.Background(), step.c, step.diags, Options{Mode: ModeSite, Site: site, EquivalenceKey: "UsePartialProperty"})
		seq = applyOne(t, r, err)
	}
	if batch != seq {
		t.Fatalf("batch and sequential output differ\n--- batch ---\n%s\n--- sequential ---\n%s", batch, seq)
	}
	if !strings.Contains(batch, "    public string Full() => Middle + \" \" + Last;\n") {
		t.Fatalf("references not rewritten:\n%s", batch)
	}
}

func TestFixerDeclinesWithoutToolkit(t *testing.T) {
	src := header + `public partial class Vm
{
    private int _count;
}
`
	w := load(t, []string{binder.RefSystem}, src)
	file := w.fs.Get(w.doc)
	start := uint32(strings.Index(string(file.Content), "_count"))
	d := diag.New(diag.UseObservablePropertyOnPartialProperty,
		source.Span{File: file.ID, Start: start, End: start + uint32(len("_count"))}, "App.Vm", "_count").
		WithProperty(analyzers.PropFieldName, "_count").
		WithProperty(analyzers.PropPropertyName, "Count")

	fixer, ok := Lookup(diag.UseObservablePropertyOnPartialProperty)
	if !ok {
		t.Fatal("fixer not registered")
	}
	if _, ok := fixer.Compute(context.Background(), w.c, &d); ok {
		t.Fatal("fixer must decline when ObservablePropertyAttribute is missing")
	}
	res, err := Apply(context.Background(), w.c, []diag.Diagnostic{d}, Options{Mode: ModeSolution})
	if !errors.Is(err, ErrNoFixes) || len(res.FileChanges) != 0 {
		t.Fatalf("expected no fixes, got %v %+v", err, res)
	}
}

func TestFixersHaveStableKeys(t *testing.T) {
	want := map[diag.Code][2]string{
		diag.UseObservablePropertyOnPartialProperty:   {"Use a partial property", "UsePartialProperty"},
		diag.FieldReferenceForObservablePropertyField: {"Reference the generated property", "UseGeneratedProperty"},
	}
	for _, f := range Fixers() {
		w, ok := want[f.Code()]
		if !ok {
			t.Fatalf("unexpected fixer for %s", f.Code())
		}
		if f.Title() != w[0] || f.EquivalenceKey() != w[1] {
			t.Fatalf("%s: %q / %q", f.Code(), f.Title(), f.EquivalenceKey())
		}
	}
}

func TestWriteChangesKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vm.cs")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	virtual := fs.AddVirtual(filepath.Join(dir, "virtual.cs"), []byte("v"))

	err = WriteChanges(fs, []FileChange{
		{File: id, Path: path, Content: []byte("new")},
		{File: virtual, Path: filepath.Join(dir, "virtual.cs"), Content: []byte("x")},
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "new" {
		t.Fatalf("content = %q, err = %v", data, err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v, err = %v", info.Mode(), err)
	}
	if _, err := os.Stat(filepath.Join(dir, "virtual.cs")); !os.IsNotExist(err) {
		t.Fatal("virtual documents must not be written")
	}
}
