package fix

import (
	"testing"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
)

func TestNewDerivesIDFromFirstEdit(t *testing.T) {
	span := source.Span{File: 2, Start: 10, End: 15}
	f := New("rename", []TextEdit{Replace(span, "Name", "_name")}, WithCode(diag.FieldReferenceForObservablePropertyField))

	if f.ID != "MVVMTK0034@2:10" {
		t.Fatalf("unexpected id %q", f.ID)
	}
	if f.Code != diag.FieldReferenceForObservablePropertyField {
		t.Fatalf("unexpected code %v", f.Code)
	}
}

func TestNewKeepsExplicitOptions(t *testing.T) {
	edits := []TextEdit{Insert(source.Span{Start: 4, End: 9}, "x")}
	f := New("insert", edits, WithID("custom"), WithEquivalenceKey("Key"), nil)

	if f.ID != "custom" || f.EquivalenceKey != "Key" {
		t.Fatalf("options not applied: %+v", f)
	}
	edits[0].NewText = "changed"
	if f.Edits[0].NewText != "x" {
		t.Fatal("fix must not share the caller's edit slice")
	}
	if !f.Edits[0].Span.Empty() || f.Edits[0].Span.Start != 4 {
		t.Fatalf("insert must be an empty span at the start, got %s", f.Edits[0].Span)
	}
}

func TestDeleteExpectsText(t *testing.T) {
	e := Delete(source.Span{Start: 1, End: 3}, "ab")
	if e.NewText != "" || e.OldText != "ab" {
		t.Fatalf("unexpected delete edit %+v", e)
	}
}
