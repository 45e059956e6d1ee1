package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestPlainHasNoColor(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	t.Cleanup(func() { Version, color.NoColor = orig, origNoColor })

	color.NoColor = false
	Version = "1.2.3-rc.1"
	if Plain() != "1.2.3-rc.1" {
		t.Fatalf("Plain() = %q", Plain())
	}
	if Colored() == Plain() {
		t.Fatal("Colored() should decorate the components when color is on")
	}

	color.NoColor = true
	if Colored() != "1.2.3-rc.1" {
		t.Fatalf("Colored() without color = %q", Colored())
	}
}

func TestColoredKeepsOddVersions(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if Colored() != "dev" {
		t.Fatalf("Colored() = %q", Colored())
	}
}

func TestDetails(t *testing.T) {
	commit, date := GitCommit, BuildDate
	t.Cleanup(func() { GitCommit, BuildDate = commit, date })

	GitCommit, BuildDate = "", ""
	if len(Details()) != 0 {
		t.Fatal("no metadata, no details")
	}
	GitCommit, BuildDate = "abc123", "2026-01-15"
	got := Details()
	if len(got) != 2 || got[0] != "commit abc123" || got[1] != "built 2026-01-15" {
		t.Fatalf("Details() = %v", got)
	}
}
