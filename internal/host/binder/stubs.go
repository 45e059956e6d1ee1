package binder

import (
	"embed"
	"fmt"
	"slices"

	"mvvmgen/internal/csharp/parser"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/source"
)

// Reference set names.
const (
	RefSystem = "system"
	RefMvvm   = "mvvm"
)

//go:embed stubs/*.cs
var stubFS embed.FS

// DefaultReferences returns every reference set.
func DefaultReferences() []string { return []string{RefSystem, RefMvvm} }

// KnownReference reports whether name is a reference set.
func KnownReference(name string) bool {
	return name == RefSystem || name == RefMvvm
}

// loadStubs adds the selected stub files to fs and parses them. The system
// set is always loaded since predefined type keywords bind against it.
func loadStubs(fs *source.FileSet, refs []string) ([]*syntax.CompilationUnit, error) {
	sets := []string{RefSystem}
	for _, r := range refs {
		if !KnownReference(r) {
			return nil, fmt.Errorf("unknown reference set %q", r)
		}
		if !slices.Contains(sets, r) {
			sets = append(sets, r)
		}
	}
	units := make([]*syntax.CompilationUnit, 0, len(sets))
	for _, name := range sets {
		content, err := stubFS.ReadFile("stubs/" + name + ".cs")
		if err != nil {
			return nil, fmt.Errorf("read reference set %s: %w", name, err)
		}
		id := fs.Add("<ref:"+name+">", content, source.FileVirtual)
		units = append(units, parser.ParseFile(fs.Get(id), parser.Options{}))
	}
	return units, nil
}
