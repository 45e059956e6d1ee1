package analyzers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvvmgen/internal/analyzers"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
	"mvvmgen/internal/host/binder"
	"mvvmgen/internal/source"
)

const vm = `using CommunityToolkit.Mvvm.ComponentModel;

namespace App;

public partial class Vm : ObservableObject
{
    [ObservableProperty] private string? _name;
    [ObservableProperty] private static int _count;

    public void Reset()
    {
        _name = null;
        Log(nameof(_name));
    }

    private void Log(string s) { }

    public void Rename(string _name)
    {
        this._name = _name;
    }
}
`

func analyze(t *testing.T, lang host.LanguageVersion) ([]diag.Diagnostic, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSetWithBase("/src")
	id := fs.AddVirtual("/src/vm.cs", []byte(vm))
	c, err := binder.Compile(context.Background(), fs, []source.FileID{id}, binder.Options{
		LangVersion: lang,
		References:  binder.DefaultReferences(),
	})
	require.NoError(t, err)
	var rep diag.SliceReporter
	require.NoError(t, analyzers.Run(context.Background(), c, &rep))
	return rep.Items, fs
}

func TestFieldReferences(t *testing.T) {
	items, fs := analyze(t, host.LangDefault)
	require.Len(t, items, 2)
	for _, d := range items {
		assert.Equal(t, diag.FieldReferenceForObservablePropertyField, d.Code)
		assert.Equal(t, diag.SevWarning, d.Severity)
		assert.Equal(t, "_name", fs.Text(d.Primary))
		assert.Equal(t, []string{"App.Vm._name", "Name"}, d.Args)
		prop, ok := d.Property(analyzers.PropPropertyName)
		assert.True(t, ok)
		assert.Equal(t, "Name", prop)
	}
	assert.Less(t, items[0].Primary.Start, items[1].Primary.Start)
}

func TestPreferPartialPropertyNeedsPreview(t *testing.T) {
	items, fs := analyze(t, host.LangPreview)
	var suggestions []diag.Diagnostic
	for _, d := range items {
		if d.Code == diag.UseObservablePropertyOnPartialProperty {
			suggestions = append(suggestions, d)
		}
	}
	require.Len(t, suggestions, 1, "static fields are skipped")
	d := suggestions[0]
	assert.Equal(t, diag.SevInfo, d.Severity)
	assert.Equal(t, "_name", fs.Text(d.Primary))
	field, _ := d.Property(analyzers.PropFieldName)
	assert.Equal(t, "_name", field)
}

func TestAllListsEveryAnalyzer(t *testing.T) {
	codes := map[diag.Code]bool{}
	for _, a := range analyzers.All() {
		codes[a.Code] = true
	}
	assert.True(t, codes[diag.FieldReferenceForObservablePropertyField])
	assert.True(t, codes[diag.UseObservablePropertyOnPartialProperty])
}
