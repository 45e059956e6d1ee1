package model

import "testing"

func TestEncodeOptionsMatchesFlagUnion(t *testing.T) {
	for _, allow := range []bool{false, true} {
		for _, flow := range []bool{false, true} {
			want := OptionsNone
			if allow {
				want |= OptionsAllowConcurrentExecutions
			}
			if flow {
				want |= OptionsFlowExceptionsToTaskScheduler
			}
			if got := EncodeOptions(allow, flow); got != want {
				t.Errorf("EncodeOptions(%v, %v) = %d, want %d", allow, flow, got, want)
			}
		}
	}
}

func TestHintBase(t *testing.T) {
	cases := map[string]string{
		"App.MainViewModel":      "App.MainViewModel",
		"App.Outer+Inner`1":      "App.Outer.Inner_1",
		"Shell`2+Page+Section`1": "Shell_2.Page.Section_1",
	}
	for in, want := range cases {
		if got := (Hierarchy{MetadataName: in}).HintBase(); got != want {
			t.Errorf("HintBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAttributeInfoString(t *testing.T) {
	a := AttributeInfo{Type: "global::System.ObsoleteAttribute"}
	if got := a.String(); got != "global::System.ObsoleteAttribute" {
		t.Fatalf("bare = %q", got)
	}
	a.Args = []string{`"old"`, "true"}
	a.Named = []NamedArg{{Name: "DiagnosticId", Value: `"X1"`}}
	if got, want := a.String(), `global::System.ObsoleteAttribute("old", true, DiagnosticId = "X1")`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInnermost(t *testing.T) {
	if (Hierarchy{}).Innermost().Name != "" {
		t.Fatal("empty hierarchy has no innermost type")
	}
	h := Hierarchy{Types: []TypeInfo{{Keyword: "class", Name: "Outer"}, {Keyword: "record", Name: "Inner"}}}
	if got := h.Innermost(); got.Name != "Inner" || got.Keyword != "record" {
		t.Fatalf("innermost = %+v", got)
	}
}
