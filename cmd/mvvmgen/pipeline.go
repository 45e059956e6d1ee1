package main

import (
	"github.com/spf13/cobra"

	"mvvmgen/internal/config"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/diagfmt"
	"mvvmgen/internal/driver"
	"mvvmgen/internal/source"
)

// pipelineFlags are shared by the commands that load a workspace. Set flags
// override the config file.
type pipelineFlags struct {
	jobs        int
	noCache     bool
	langVersion string
	format      string
}

func (f *pipelineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVarP(&f.jobs, "jobs", "j", 0, "parallel workers (0 = GOMAXPROCS)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable the memo cache")
	fl.StringVar(&f.langVersion, "lang-version", "", "C# language version (default|latest|preview)")
	fl.StringVar(&f.format, "format", "pretty", "diagnostic format (pretty|short|json)")
}

func (f *pipelineFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("jobs") {
		cfg.Generate.Jobs = f.jobs
	}
	if f.noCache {
		cfg.Cache.Enabled = false
	}
	if f.langVersion != "" {
		cfg.Compilation.LangVersion = f.langVersion
		if _, err := cfg.LangVersion(); err != nil {
			return err
		}
	}
	_, err := diagfmt.ParseFormat(f.format)
	return err
}

// load resolves the config for target and loads the workspace.
func (a *app) load(cmd *cobra.Command, target string, flags *pipelineFlags) (*driver.Workspace, driver.Options, error) {
	cfg, err := a.loadConfig(target)
	if err != nil {
		return nil, driver.Options{}, err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return nil, driver.Options{}, err
	}
	opts := driver.Options{Config: cfg, Timer: a.timer}
	ws, err := driver.Load(cmd.Context(), target, opts)
	if err != nil {
		return nil, opts, err
	}
	return ws, opts, nil
}

// report prints ds and returns errDiagnostics when any is an error.
func (a *app) report(fs *source.FileSet, ds []diag.Diagnostic, format string) error {
	f, err := diagfmt.ParseFormat(format)
	if err != nil {
		return err
	}
	if f == diagfmt.FormatJSON || len(ds) > 0 {
		err := diagfmt.Write(a.stdout, ds, fs, diagfmt.Options{
			Format:    f,
			Color:     a.color,
			Context:   0,
			HelpLinks: true,
		})
		if err != nil {
			return err
		}
	}
	if f != diagfmt.FormatJSON && len(ds) > 0 {
		a.status("%s", diagfmt.Summary(ds))
	}
	if errs, _, _ := diagfmt.Counts(ds); errs > 0 {
		return errDiagnostics
	}
	return nil
}
