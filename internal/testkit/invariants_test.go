package testkit

import (
	"strings"
	"testing"

	"mvvmgen/internal/csharp/parser"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/source"
)

const sample = `using System;

namespace App
{
    [Serializable]
    public partial class Vm
    {
        [field: NonSerialized]
        private int _count, _total = 1;

        public int Count { get => _count; private set => _count = value; }

        public void Add(int n) { _count += n; this._total = nameof(_count).Length; }
    }
}
`

func parse(t *testing.T, src string) (*syntax.CompilationUnit, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	f := fs.Get(fs.AddVirtual("Vm.cs", []byte(src)))
	return parser.ParseFile(f, parser.Options{}), f
}

func TestParsedTreeSatisfiesInvariants(t *testing.T) {
	unit, f := parse(t, sample)
	if err := CheckSpanInvariants(unit, f); err != nil {
		t.Fatal(err)
	}
	// Truncated input recovers without breaking spans.
	unit, f = parse(t, sample[:len(sample)/2])
	if err := CheckSpanInvariants(unit, f); err != nil {
		t.Fatal(err)
	}
}

func TestCheckSpanInvariantsRejectsBadSpans(t *testing.T) {
	unit, f := parse(t, sample)
	other := *f
	other.ID = f.ID + 1
	if err := CheckSpanInvariants(unit, &other); err == nil {
		t.Fatal("expected a file mismatch")
	}

	short := *f
	short.Content = short.Content[:10]
	err := CheckSpanInvariants(unit, &short)
	if err == nil || !strings.Contains(err.Error(), "ends past the file") {
		t.Fatalf("expected an out of range span, got %v", err)
	}
	if CheckSpanInvariants(nil, f) == nil {
		t.Fatal("nil unit must be rejected")
	}
}
