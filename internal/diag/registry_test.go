package diag

import (
	"strings"
	"testing"

	"mvvmgen/internal/source"
)

func TestRegistryMatchesShippedManifest(t *testing.T) {
	m, err := LoadManifest()
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if err := m.Verify(Descriptors()); err != nil {
		t.Fatalf("registry out of sync with shipped.toml:\n%v", err)
	}
}

func TestManifestVerifyRejectsViolations(t *testing.T) {
	descs := []Descriptor{
		{Code: InvalidRelayCommandMethodSignature, Family: FamilyCommand, Severity: SevWarning, Since: "1.0.0"},
	}
	tests := []struct {
		name     string
		manifest string
		want     string
	}{
		{
			name: "severity change without migration",
			manifest: `
[[release]]
version = "1.0.0"
rules = [{ id = "MVVMTK0007", family = "RelayCommandGenerator", severity = "error" }]
`,
			want: "without a migration",
		},
		{
			name: "identifier reused",
			manifest: `
[[release]]
version = "1.0.0"
rules = [{ id = "MVVMTK0007", family = "RelayCommandGenerator", severity = "warning" }]
[[release]]
version = "1.1.0"
rules = [{ id = "MVVMTK0007", family = "RelayCommandGenerator", severity = "warning" }]
`,
			want: "never reused",
		},
		{
			name: "descriptor removed",
			manifest: `
[[release]]
version = "1.0.0"
rules = [
  { id = "MVVMTK0007", family = "RelayCommandGenerator", severity = "warning" },
  { id = "MVVMTK0099", family = "RelayCommandGenerator", severity = "error" },
]
`,
			want: "MVVMTK0099: shipped in 1.0.0 but missing",
		},
		{
			name: "broken migration chain",
			manifest: `
[[release]]
version = "1.0.0"
rules = [{ id = "MVVMTK0007", family = "RelayCommandGenerator", severity = "error" }]
[[migration]]
id = "MVVMTK0007"
release = "1.1.0"
from = "info"
to = "warning"
`,
			want: "migration from \"info\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseManifest(tt.manifest)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			err = m.Verify(descs)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestParseManifestRejectsUnknownKeys(t *testing.T) {
	_, err := ParseManifest("[[release]]\nversion = \"1.0.0\"\ncolour = \"red\"\n")
	if err == nil || !strings.Contains(err.Error(), "unknown keys") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestEffectiveSeverityAppliesMigrations(t *testing.T) {
	m, err := LoadManifest()
	if err != nil {
		t.Fatal(err)
	}
	sev, since, ok := m.EffectiveSeverity("CS0246")
	if !ok || sev != "warning" || since != "1.0.0" {
		t.Fatalf("CS0246: got (%q, %q, %v)", sev, since, ok)
	}
}

func TestCodeIDRoundTrip(t *testing.T) {
	for _, d := range Descriptors() {
		code, ok := ParseID(d.ID())
		if !ok || code != d.Code {
			t.Fatalf("%s: parsed back to %v (ok=%v)", d.ID(), code, ok)
		}
	}
	if id := HostSemicolonExpected.ID(); id != "CS1002" {
		t.Fatalf("host id: %s", id)
	}
	if id := HostTypeNotFound.ID(); id != "CS0246" {
		t.Fatalf("host id: %s", id)
	}
}

func TestDescriptorMessageAndHelpLink(t *testing.T) {
	d, ok := LookupID("mvvmtk0009")
	if !ok {
		t.Fatal("MVVMTK0009 not registered")
	}
	got := d.Message("CanSave", "MyApp.MainViewModel")
	want := "The CanExecute name must refer to a valid member, but \"CanSave\" has no matches in type MyApp.MainViewModel"
	if got != want {
		t.Fatalf("message:\nwant %s\ngot  %s", want, got)
	}
	if link := d.HelpLink(); link != "https://aka.ms/mvvmtoolkit/errors/mvvmtk0009" {
		t.Fatalf("help link: %s", link)
	}
	host, _ := Lookup(HostSemicolonExpected)
	if host.HelpLink() != "" {
		t.Fatalf("host diagnostics have no help link")
	}
	if msg := (Descriptor{Format: "{0} and {3}"}).Message("a"); msg != "a and {3}" {
		t.Fatalf("missing arg placeholder: %s", msg)
	}
}

func TestDedupAndSort(t *testing.T) {
	sp := source.Span{File: 1, Start: 5, End: 9}
	b := NewBag(0)
	b.Add(New(AsyncVoidReturningRelayCommandMethod, sp, "T", "M"))
	b.Add(New(InvalidRelayCommandMethodSignature, sp, "T", "M"))
	b.Add(New(InvalidRelayCommandMethodSignature, sp, "T", "M"))
	b.Add(New(InvalidRelayCommandMethodSignature, source.Span{File: 0, Start: 1, End: 2}, "T", "M"))
	b.Dedup()
	b.Sort()
	if b.Len() != 3 {
		t.Fatalf("expected 3 diagnostics after dedup, got %d", b.Len())
	}
	items := b.Items()
	if items[0].Primary.File != 0 || items[1].Code != InvalidRelayCommandMethodSignature || items[2].Code != AsyncVoidReturningRelayCommandMethod {
		t.Fatalf("unexpected order: %+v", items)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("expected errors and warnings")
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{}) || b.Add(Diagnostic{}) {
		t.Fatal("limit not enforced")
	}
}
