package naming_test

import (
	"errors"
	"testing"

	"mvvmgen/internal/guard"
	"mvvmgen/internal/naming"
)

func TestCommandNames(t *testing.T) {
	tests := []struct {
		method      string
		task        bool
		style       naming.FieldStyle
		field, prop string
	}{
		{"OnSave", false, naming.StyleUnderscore, "_saveCommand", "SaveCommand"},
		{"Save", false, naming.StyleUnderscore, "_saveCommand", "SaveCommand"},
		{"FetchDataAsync", true, naming.StyleUnderscore, "_fetchDataCommand", "FetchDataCommand"},
		{"FetchDataAsync", false, naming.StyleUnderscore, "_fetchDataAsyncCommand", "FetchDataAsyncCommand"},
		{"OnSaveAsync", true, naming.StyleCamel, "saveCommand", "SaveCommand"},
		{"Once", false, naming.StyleUnderscore, "_onceCommand", "OnceCommand"},
		{"On", false, naming.StyleUnderscore, "_onCommand", "OnCommand"},
		{"Async", true, naming.StyleUnderscore, "_asyncCommand", "AsyncCommand"},
		{"URLLoad", false, naming.StyleUnderscore, "_urlLoadCommand", "URLLoadCommand"},
		{"On_Click", false, naming.StyleUnderscore, "__ClickCommand", "_ClickCommand"},
		{"Ölçü", false, naming.StyleCamel, "ölçüCommand", "ÖlçüCommand"},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			got, err := naming.Command(tt.method, tt.task, tt.style)
			if err != nil {
				t.Fatal(err)
			}
			if got.Field != tt.field || got.Member != tt.prop {
				t.Fatalf("got %+v, want {%s %s}", got, tt.field, tt.prop)
			}
		})
	}
}

func TestCancelCommand(t *testing.T) {
	got, err := naming.CancelCommand("DownloadAsync", true, naming.StyleUnderscore)
	if err != nil {
		t.Fatal(err)
	}
	if got.Member != "DownloadCancelCommand" || got.Field != "_downloadCancelCommand" {
		t.Fatalf("got %+v", got)
	}
}

func TestLowerFirst(t *testing.T) {
	for in, want := range map[string]string{
		"SaveCommand":    "saveCommand",
		"URLLoadCommand": "urlLoadCommand",
		"IOCommand":      "ioCommand",
		"ABC":            "abc",
		"already":        "already",
		"X":              "x",
		"":               "",
	} {
		if got := naming.LowerFirst(in); got != want {
			t.Errorf("LowerFirst(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestObservableNames(t *testing.T) {
	for in, want := range map[string]string{
		"_name":   "Name",
		"m_name":  "Name",
		"name":    "Name",
		"__count": "Count",
		"m_":      "m_",
		"_":       "_",
		"Name":    "Name",
	} {
		got, err := naming.Observable(in)
		if err != nil {
			t.Fatal(err)
		}
		if got.Member != want || got.Field != in {
			t.Errorf("Observable(%q) = %+v, want member %q", in, got, want)
		}
	}
	p, err := naming.PartialProperty("Title")
	if err != nil || p.Field != "field" || p.Member != "Title" {
		t.Fatalf("partial property pair %+v %v", p, err)
	}
}

func TestNamingGuards(t *testing.T) {
	_, err := naming.Command("", false, naming.StyleUnderscore)
	var argErr *guard.ArgumentError
	if !errors.As(err, &argErr) || argErr.Kind != guard.ArgumentEmpty {
		t.Fatalf("expected ArgumentEmpty, got %v", err)
	}
	if _, err := naming.ParseFieldStyle("pascal"); !errors.As(err, &argErr) || argErr.Kind != guard.ArgumentInvalid {
		t.Fatalf("expected ArgumentInvalid, got %v", err)
	}
	if s, err := naming.ParseFieldStyle("Camel"); err != nil || s != naming.StyleCamel {
		t.Fatalf("camel: %v %v", s, err)
	}
}
