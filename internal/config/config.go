// Package config loads mvvmgen.toml. The file is found by walking up from the
// target directory; unknown keys are rejected.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/guard"
	"mvvmgen/internal/host"
	"mvvmgen/internal/host/binder"
	"mvvmgen/internal/incremental"
	"mvvmgen/internal/naming"
)

// FileName is the configuration file looked up by Find.
const FileName = "mvvmgen.toml"

// Config is the decoded configuration with defaults applied.
type Config struct {
	// Path is the file the values came from; empty when defaults are used.
	Path string `toml:"-"`

	Compilation Compilation `toml:"compilation"`
	Generate    Generate    `toml:"generate"`
	Diagnostics Diagnostics `toml:"diagnostics"`
	Cache       Cache       `toml:"cache"`
}

type Compilation struct {
	LangVersion string   `toml:"lang_version"`
	References  []string `toml:"references"`
}

type Generate struct {
	OutDir     string `toml:"out_dir"`
	FieldStyle string `toml:"field_style"`
	Jobs       int    `toml:"jobs"`
}

type Diagnostics struct {
	Disabled         []string          `toml:"disabled"`
	WarningsAsErrors bool              `toml:"warnings_as_errors"`
	Severity         map[string]string `toml:"severity"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
	Size    int    `toml:"size"`
}

// Error reports an invalid configuration file.
type Error struct {
	Path string
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Compilation: Compilation{LangVersion: string(host.LangDefault), References: binder.DefaultReferences()},
		Generate:    Generate{OutDir: "Generated", FieldStyle: naming.StyleUnderscore.String()},
		Cache:       Cache{Enabled: true, Size: incremental.DefaultSize},
	}
}

// Find walks up from startDir to locate mvvmgen.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest configuration above startDir, or the defaults.
func Discover(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		if err != nil {
			return nil, err
		}
		return Default(), nil
	}
	return Load(path)
}

// Load decodes path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	if _, err := guard.NotEmpty(path, "config path"); err != nil {
		return nil, err
	}
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &Error{Path: path, Key: undecoded[0].String(), Err: errors.New("unknown key")}
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		var cerr *Error
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and spellings.
func (c *Config) Validate() error {
	if _, err := c.LangVersion(); err != nil {
		return &Error{Path: c.Path, Key: "compilation.lang_version", Err: err}
	}
	for _, r := range c.Compilation.References {
		if !binder.KnownReference(r) {
			return &Error{Path: c.Path, Key: "compilation.references", Err: fmt.Errorf("unknown reference set %q", r)}
		}
	}
	if _, err := naming.ParseFieldStyle(c.Generate.FieldStyle); err != nil {
		return &Error{Path: c.Path, Key: "generate.field_style", Err: err}
	}
	if c.Generate.Jobs < 0 {
		return &Error{Path: c.Path, Key: "generate.jobs", Err: errors.New("must not be negative")}
	}
	if c.Cache.Size <= 0 {
		return &Error{Path: c.Path, Key: "cache.size", Err: errors.New("must be positive")}
	}
	for _, id := range c.Diagnostics.Disabled {
		if _, ok := diag.ParseID(strings.ToUpper(id)); !ok {
			return &Error{Path: c.Path, Key: "diagnostics.disabled", Err: fmt.Errorf("unknown diagnostic %q", id)}
		}
	}
	for id, sev := range c.Diagnostics.Severity {
		if _, ok := diag.ParseID(strings.ToUpper(id)); !ok {
			return &Error{Path: c.Path, Key: "diagnostics.severity", Err: fmt.Errorf("unknown diagnostic %q", id)}
		}
		if _, err := diag.ParseSeverity(sev); err != nil {
			return &Error{Path: c.Path, Key: "diagnostics.severity." + id, Err: err}
		}
	}
	return nil
}

// LangVersion returns the configured language version.
func (c *Config) LangVersion() (host.LanguageVersion, error) {
	v := host.LanguageVersion(strings.ToLower(strings.TrimSpace(c.Compilation.LangVersion)))
	switch v {
	case "":
		return host.LangDefault, nil
	case host.LangDefault, host.LangLatest, host.LangPreview:
		return v, nil
	}
	return "", fmt.Errorf("invalid language version %q (expected default|latest|preview)", c.Compilation.LangVersion)
}

// FieldStyle returns the configured backing field style.
func (c *Config) FieldStyle() naming.FieldStyle {
	style, err := naming.ParseFieldStyle(c.Generate.FieldStyle)
	if err != nil {
		return naming.StyleUnderscore
	}
	return style
}

// Dir returns the directory relative paths in the file resolve against.
func (c *Config) Dir() string {
	if c.Path == "" {
		return "."
	}
	return filepath.Dir(c.Path)
}

// OutDir returns the absolute output directory for generated files.
func (c *Config) OutDir() string {
	if filepath.IsAbs(c.Generate.OutDir) {
		return c.Generate.OutDir
	}
	return filepath.Join(c.Dir(), c.Generate.OutDir)
}

// CacheDir returns the on-disk memo directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir == "" {
		return incremental.DefaultDir("mvvmgen")
	}
	if filepath.IsAbs(c.Cache.Dir) {
		return c.Cache.Dir, nil
	}
	return filepath.Join(c.Dir(), c.Cache.Dir), nil
}

// Disabled reports whether diagnostics with id are suppressed.
func (c *Config) Disabled(id string) bool {
	return slices.ContainsFunc(c.Diagnostics.Disabled, func(s string) bool {
		return strings.EqualFold(s, id)
	})
}

// Apply rewrites diagnostics per the [diagnostics] section: disabled IDs are
// dropped, severities overridden, and warnings promoted when requested.
func (c *Config) Apply(diags []diag.Diagnostic) []diag.Diagnostic {
	overrides := make(map[string]diag.Severity, len(c.Diagnostics.Severity))
	for id, s := range c.Diagnostics.Severity {
		if sev, err := diag.ParseSeverity(s); err == nil {
			overrides[strings.ToUpper(id)] = sev
		}
	}
	out := diags[:0:0]
	for _, d := range diags {
		if c.Disabled(d.ID()) {
			continue
		}
		if sev, ok := overrides[d.ID()]; ok {
			d.Severity = sev
		}
		if c.Diagnostics.WarningsAsErrors && d.Severity == diag.SevWarning {
			d.Severity = diag.SevError
		}
		out = append(out, d)
	}
	return out
}
