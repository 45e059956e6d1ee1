package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvvmgen/internal/config"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/fix"
	"mvvmgen/internal/observ"
)

const viewModel = `using CommunityToolkit.Mvvm.ComponentModel;
using CommunityToolkit.Mvvm.Input;

namespace App;

public partial class Vm : ObservableObject
{
    [ObservableProperty]
    private string _title;

    [RelayCommand]
    private void Save()
    {
        _title = "saved";
    }
}
`

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func testOptions() Options {
	cfg := config.Default()
	cfg.Cache.Enabled = false
	return Options{Config: cfg, Jobs: 2, Timer: observ.NewTimer()}
}

func TestListSourcesSkipsBuildOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.cs"), "")
	writeFile(t, filepath.Join(root, "sub", "a.cs"), "")
	writeFile(t, filepath.Join(root, "Vm.g.cs"), "")
	writeFile(t, filepath.Join(root, "bin", "x.cs"), "")
	writeFile(t, filepath.Join(root, "obj", "y.cs"), "")
	writeFile(t, filepath.Join(root, "Generated", "z.cs"), "")
	writeFile(t, filepath.Join(root, "notes.txt"), "")

	got, err := ListSources(root, filepath.Join(root, "Generated"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "b.cs"),
		filepath.Join(root, "sub", "a.cs"),
	}, got)
}

func TestLoadAndGenerate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Vm.cs"), viewModel)
	opts := testOptions()
	ctx := context.Background()

	ws, err := Load(ctx, root, opts)
	require.NoError(t, err)
	require.Len(t, ws.Docs, 1)
	assert.Empty(t, ws.Diagnostics)

	res, err := Generate(ctx, ws, opts)
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "App.Vm.Save.g.cs", res.Sources[0].HintName)
	assert.Equal(t, "App.Vm.g.cs", res.Sources[1].HintName)
	assert.Contains(t, res.Sources[1].Text, `"mvvmgen"`)

	out := OutDir(opts.Config, ws.Root)
	paths, err := WriteSources(out, res.Sources)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	data, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	assert.Equal(t, res.Sources[1].Text, string(data))

	// Generated output is not read back as input.
	again, err := Load(ctx, root, opts)
	require.NoError(t, err)
	assert.Len(t, again.Docs, 1)

	stages := opts.Timer.Report().Stages
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "parse")
	assert.Contains(t, names, "bind")
	assert.Contains(t, names, "generate")
}

func TestDiagnoseMergesAndFilters(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Vm.cs"), viewModel)
	writeFile(t, filepath.Join(root, "Broken.cs"), "namespace App;\npublic class Broken {\n")
	opts := testOptions()
	ctx := context.Background()

	ws, err := Load(ctx, root, opts)
	require.NoError(t, err)
	require.NotEmpty(t, ws.Diagnostics, "parse errors are kept")

	all, err := Diagnose(ctx, ws, opts)
	require.NoError(t, err)
	var ids []string
	for _, d := range all {
		ids = append(ids, d.ID())
	}
	assert.Contains(t, ids, "MVVMTK0034")
	assert.True(t, strings.HasPrefix(ids[0], "CS"), "Broken.cs sorts first: %v", ids)

	opts.Config.Diagnostics.Disabled = []string{"MVVMTK0034"}
	all, err = Diagnose(ctx, ws, opts)
	require.NoError(t, err)
	for _, d := range all {
		assert.NotEqual(t, diag.FieldReferenceForObservablePropertyField, d.Code)
	}
}

func TestFixRewritesFieldReferences(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "Vm.cs")
	writeFile(t, path, viewModel)
	opts := testOptions()
	ctx := context.Background()

	ws, err := Load(ctx, root, opts)
	require.NoError(t, err)
	id, ok := ws.DocumentID(path)
	require.True(t, ok)

	res, err := Fix(ctx, ws, fix.Options{Mode: fix.ModeDocument, Document: id}, opts)
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	require.Len(t, res.FileChanges, 1)
	assert.Contains(t, string(res.FileChanges[0].Content), `Title = "saved";`)

	require.NoError(t, fix.WriteChanges(ws.Files, res.FileChanges))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `_title = "saved"`)

	// A reload finds nothing left to fix.
	ws, err = Load(ctx, root, opts)
	require.NoError(t, err)
	_, err = Fix(ctx, ws, fix.Options{Mode: fix.ModeSolution}, opts)
	assert.True(t, errors.Is(err, fix.ErrNoFixes))
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"), testOptions())
	assert.Error(t, err)
}
