package source

import "testing"

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{Start: 0, End: 4}, Span{Start: 4, End: 8}, false},
		{"nested", Span{Start: 0, End: 10}, Span{Start: 2, End: 3}, true},
		{"partial", Span{Start: 0, End: 5}, Span{Start: 3, End: 8}, true},
		{"two empty", Span{Start: 3, End: 3}, Span{Start: 3, End: 3}, false},
		{"empty at boundary", Span{Start: 4, End: 4}, Span{Start: 0, End: 4}, false},
		{"empty inside", Span{Start: 2, End: 2}, Span{Start: 0, End: 4}, true},
		{"other file", Span{File: 1, Start: 0, End: 4}, Span{File: 2, Start: 0, End: 4}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestSpanCoverAndContains(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	got := a.Cover(b)
	if got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover() = %v", got)
	}
	if !got.Contains(a) || !got.Contains(b) {
		t.Fatalf("cover %v must contain both inputs", got)
	}
	if a.Cover(Span{File: 2, Start: 0, End: 100}) != a {
		t.Fatalf("cover across files must be a no-op")
	}
}
