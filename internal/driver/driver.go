// Package driver runs mvvmgen over a directory: it loads and parses the C#
// sources, binds them with the reference host, and drives the generator,
// the analyzers and the code fixes.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"mvvmgen/internal/analyzers"
	"mvvmgen/internal/config"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/emit"
	"mvvmgen/internal/fix"
	"mvvmgen/internal/generator"
	"mvvmgen/internal/host"
	"mvvmgen/internal/host/binder"
	"mvvmgen/internal/incremental"
	"mvvmgen/internal/logger"
	"mvvmgen/internal/observ"
	"mvvmgen/internal/source"
	"mvvmgen/internal/trace"
	"mvvmgen/internal/version"
)

// Options configure a driver run. Zero values fall back to the config.
type Options struct {
	Config      *config.Config
	Jobs        int
	LangVersion host.LanguageVersion
	NoCache     bool
	// Timer receives stage timings; may be nil.
	Timer *observ.Timer
	// Progress is forwarded to the generator.
	Progress func(done, total int)
}

func (o *Options) config() *config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return o.Config
}

func (o *Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return o.config().Generate.Jobs
}

func (o *Options) timer() *observ.Timer {
	if o.Timer == nil {
		o.Timer = observ.NewTimer()
	}
	return o.Timer
}

// Workspace is a loaded and bound set of documents.
type Workspace struct {
	Root  string
	Files *source.FileSet
	Docs  []source.FileID
	Comp  host.Compilation
	// Diagnostics holds parse and binding diagnostics.
	Diagnostics []diag.Diagnostic
}

// Load reads every source under root, parses the documents in parallel and
// binds them into one compilation.
func Load(ctx context.Context, root string, opts Options) (*Workspace, error) {
	cfg := opts.config()
	log := logger.FromContext(ctx)
	tm := opts.timer()

	ctx, span := trace.Start(ctx, trace.ScopeStage, "load")
	defer span.End("")

	base := root
	if info, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("load %s: %w", root, err)
	} else if !info.IsDir() {
		base = filepath.Dir(root)
	}
	paths, err := ListSources(root, OutDir(cfg, base))
	if err != nil {
		return nil, err
	}
	log.Debug("sources listed", "root", root, "files", len(paths))

	ws := &Workspace{Root: base, Files: source.NewFileSetWithBase(base)}
	for _, p := range paths {
		id, err := ws.Files.Load(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		ws.Docs = append(ws.Docs, id)
	}

	idx := tm.Begin("parse")
	parsed, err := parseAll(ctx, ws.Files, ws.Docs, opts.jobs())
	tm.End(idx, strconv.Itoa(len(ws.Docs))+" files")
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	lang := opts.LangVersion
	if lang == "" {
		if lang, err = cfg.LangVersion(); err != nil {
			return nil, err
		}
	}
	var hostDiags diag.SliceReporter
	var comp *binder.Compilation
	err = tm.Measure("bind", func() error {
		units := make([]*syntax.CompilationUnit, 0, len(parsed))
		for _, p := range parsed {
			units = append(units, p.unit)
			hostDiags.Items = append(hostDiags.Items, p.diags...)
		}
		var err error
		comp, err = binder.Bind(ctx, ws.Files, units, binder.Options{
			LangVersion: lang,
			References:  cfg.Compilation.References,
			Reporter:    &hostDiags,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("bind: %w", err)
	}
	ws.Comp = comp
	ws.Diagnostics = hostDiags.Items
	span.WithExtra("files", strconv.Itoa(len(ws.Docs)))
	return ws, nil
}

// OpenCache builds the memo store the config asks for; nil when disabled.
func OpenCache(cfg *config.Config, noCache bool) (*incremental.Store, error) {
	if noCache || !cfg.Cache.Enabled {
		return nil, nil
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	disk, err := incremental.OpenDisk(dir)
	if err != nil {
		return nil, err
	}
	return incremental.New(cfg.Cache.Size, disk)
}

// OutDir resolves the generated-code directory. Without a config file it is
// relative to base rather than the working directory.
func OutDir(cfg *config.Config, base string) string {
	if cfg.Path == "" && !filepath.IsAbs(cfg.Generate.OutDir) {
		return filepath.Join(base, cfg.Generate.OutDir)
	}
	return cfg.OutDir()
}

// EmitOptions stamps generated code with this tool's name and version.
func EmitOptions() emit.Options {
	return emit.Options{Tool: "mvvmgen", Version: version.Plain()}
}

// Generate runs the source generators over ws.
func Generate(ctx context.Context, ws *Workspace, opts Options) (*generator.Result, error) {
	cfg := opts.config()
	cache, err := OpenCache(cfg, opts.NoCache)
	if err != nil {
		logger.FromContext(ctx).Warn("cache disabled", "err", err)
		cache = nil
	}
	var res *generator.Result
	err = opts.timer().Measure("generate", func() error {
		var err error
		res, err = generator.Run(ctx, ws.Comp, generator.Options{
			Style:    cfg.FieldStyle(),
			Jobs:     opts.jobs(),
			Cache:    cache,
			Emit:     EmitOptions(),
			Progress: opts.Progress,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	if cache != nil {
		st := cache.Stats()
		opts.timer().Count("cache.hits", int64(st.Hits))
		opts.timer().Count("cache.misses", int64(st.Misses))
	}
	res.Diagnostics = cfg.Apply(res.Diagnostics)
	return res, nil
}

// Analyze runs the usage analyzers over ws.
func Analyze(ctx context.Context, ws *Workspace, opts Options) ([]diag.Diagnostic, error) {
	var out diag.SliceReporter
	err := opts.timer().Measure("analyze", func() error {
		return analyzers.Run(ctx, ws.Comp, &out)
	})
	if err != nil {
		return nil, err
	}
	return opts.config().Apply(out.Items), nil
}

// Diagnose returns host, generator and analyzer diagnostics in canonical
// order.
func Diagnose(ctx context.Context, ws *Workspace, opts Options) ([]diag.Diagnostic, error) {
	res, err := Generate(ctx, ws, opts)
	if err != nil {
		return nil, err
	}
	found, err := Analyze(ctx, ws, opts)
	if err != nil {
		return nil, err
	}
	all := make([]diag.Diagnostic, 0, len(ws.Diagnostics)+len(res.Diagnostics)+len(found))
	all = append(all, opts.config().Apply(ws.Diagnostics)...)
	all = append(all, res.Diagnostics...)
	all = append(all, found...)
	diag.SortDiagnostics(all)
	return all, nil
}

// Fix computes analyzer diagnostics and applies their code fixes. Nothing
// is written; see fix.WriteChanges.
func Fix(ctx context.Context, ws *Workspace, fixOpts fix.Options, opts Options) (*fix.Result, error) {
	found, err := Analyze(ctx, ws, opts)
	if err != nil {
		return nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeStage, "fix")
	defer span.End(fixOpts.Mode.String())

	var res *fix.Result
	err = opts.timer().Measure("fix", func() error {
		var err error
		res, err = fix.Apply(ctx, ws.Comp, found, fixOpts)
		return err
	})
	if err != nil && !errors.Is(err, fix.ErrNoFixes) {
		return nil, err
	}
	return res, err
}

// WriteSources writes each generated source under dir and returns the
// written paths.
func WriteSources(dir string, sources []emit.Source) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	paths := make([]string, 0, len(sources))
	for _, src := range sources {
		path := filepath.Join(dir, src.HintName)
		if err := os.WriteFile(path, []byte(src.Text), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// DocumentID resolves path to a loaded document.
func (ws *Workspace) DocumentID(path string) (source.FileID, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, false
	}
	for _, id := range ws.Docs {
		f := ws.Files.Get(id)
		if p, err := filepath.Abs(f.Path); err == nil && p == abs {
			return id, true
		}
	}
	return 0, false
}
