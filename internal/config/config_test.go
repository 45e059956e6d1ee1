package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
	"mvvmgen/internal/naming"
	"mvvmgen/internal/source"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	path := writeConfig(t, root, `
[compilation]
lang_version = "preview"

[generate]
out_dir = "gen"
field_style = "camel"
jobs = 2

[diagnostics]
disabled = ["MVVMTK0034"]
warnings_as_errors = true

[diagnostics.severity]
MVVMTK0039 = "error"

[cache]
enabled = false
size = 16
`)
	nested := filepath.Join(root, "src", "App")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Discover(nested)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)

	lang, err := cfg.LangVersion()
	require.NoError(t, err)
	assert.Equal(t, host.LangPreview, lang)
	assert.Equal(t, naming.StyleCamel, cfg.FieldStyle())
	assert.Equal(t, filepath.Join(root, "gen"), cfg.OutDir())
	assert.Equal(t, 2, cfg.Generate.Jobs)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"system", "mvvm"}, cfg.Compilation.References, "unset keys keep defaults")
}

func TestDiscoverWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Discover(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Path)
	assert.Equal(t, "Generated", cfg.Generate.OutDir)
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadRejectsInvalidFiles(t *testing.T) {
	cases := []struct {
		name string
		body string
		key  string
	}{
		{"unknown key", "[generate]\nout = \"x\"\n", "generate.out"},
		{"bad lang", "[compilation]\nlang_version = \"12\"\n", "compilation.lang_version"},
		{"bad reference", "[compilation]\nreferences = [\"wpf\"]\n", "compilation.references"},
		{"bad style", "[generate]\nfield_style = \"hungarian\"\n", "generate.field_style"},
		{"negative jobs", "[generate]\njobs = -1\n", "generate.jobs"},
		{"unknown id", "[diagnostics]\ndisabled = [\"XX0001\"]\n", "diagnostics.disabled"},
		{"bad severity", "[diagnostics.severity]\nMVVMTK0034 = \"fatal\"\n", "diagnostics.severity.MVVMTK0034"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tc.body)
			_, err := Load(path)
			var cerr *Error
			require.True(t, errors.As(err, &cerr), "got %v", err)
			assert.Equal(t, path, cerr.Path)
			assert.Equal(t, tc.key, cerr.Key)
		})
	}
}

func TestLoadReportsSyntaxErrors(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[generate\n")
	_, err := Load(path)
	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Empty(t, cerr.Key)
}

func TestApplyRewritesDiagnostics(t *testing.T) {
	cfg := Default()
	cfg.Diagnostics.Disabled = []string{"mvvmtk0034"}
	cfg.Diagnostics.Severity = map[string]string{"MVVMTK0042": "warning"}
	cfg.Diagnostics.WarningsAsErrors = true

	sp := source.Span{}
	in := []diag.Diagnostic{
		diag.New(diag.FieldReferenceForObservablePropertyField, sp),
		diag.New(diag.UseObservablePropertyOnPartialProperty, sp),
		diag.New(diag.InvalidCanExecuteMemberName, sp),
	}
	out := cfg.Apply(in)
	require.Len(t, out, 2)
	assert.Equal(t, diag.UseObservablePropertyOnPartialProperty, out[0].Code)
	assert.Equal(t, diag.SevError, out[0].Severity, "override then promotion")
	assert.Equal(t, diag.SevError, out[1].Severity)
	assert.Equal(t, diag.SevWarning, in[0].Severity, "input is not modified")
}
