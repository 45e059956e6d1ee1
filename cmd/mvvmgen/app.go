package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mvvmgen/internal/config"
	"mvvmgen/internal/logger"
	"mvvmgen/internal/observ"
	"mvvmgen/internal/prof"
	"mvvmgen/internal/trace"
	"mvvmgen/internal/ui"
	"mvvmgen/internal/version"
)

// errDiagnostics is returned when error diagnostics were printed. main exits
// with status 1 without repeating them.
var errDiagnostics = errors.New("errors reported")

// app owns the root command and the state its persistent flags set up.
type app struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer

	colorMode  string
	quiet      bool
	timings    bool
	traceOut   string
	traceLevel string
	logLevel   string
	configPath string
	profiles   prof.Config

	color    bool
	profiler *prof.Session
	timer    *observ.Timer
	tracer   trace.Tracer
}

func newApp(stdout, stderr io.Writer) *app {
	a := &app{stdout: stdout, stderr: stderr, timer: observ.NewTimer(), tracer: trace.Nop}
	root := &cobra.Command{
		Use:           "mvvmgen",
		Short:         "MVVM source generators and analyzers for C#",
		Long:          "mvvmgen generates INotifyPropertyChanged properties, relay commands and messenger registrations for C# view models, and reports toolkit diagnostics.",
		Version:       version.Plain(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.timings {
				fmt.Fprint(a.stderr, a.timer.Summary())
			}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.colorMode, "color", "auto", "colorize output (auto|on|off)")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "suppress non-essential output")
	pf.BoolVar(&a.timings, "timings", false, "print stage timings")
	pf.StringVar(&a.traceOut, "trace", "", "write a trace to file (- for stderr, .ndjson for NDJSON)")
	pf.StringVar(&a.traceLevel, "trace-level", "off", "trace level (off|stage|detail)")
	pf.StringVar(&a.logLevel, "log-level", "warn", "log level (debug|info|warn|error)")
	pf.StringVar(&a.configPath, "config", "", "path to "+config.FileName+" (default: discovered)")
	pf.StringVar(&a.profiles.CPU, "cpuprofile", "", "write a CPU profile to file")
	pf.StringVar(&a.profiles.Mem, "memprofile", "", "write a heap profile to file on exit")
	pf.StringVar(&a.profiles.Trace, "runtime-trace", "", "write a Go runtime trace to file")
	for _, name := range []string{"cpuprofile", "memprofile", "runtime-trace"} {
		_ = pf.MarkHidden(name)
	}

	root.AddCommand(
		newGenerateCmd(a),
		newDiagCmd(a),
		newFixCmd(a),
		newRulesCmd(a),
		newCacheCmd(a),
		newVersionCmd(a),
	)
	a.root = root
	return a
}

func (a *app) setup(cmd *cobra.Command) error {
	useColor, err := resolveColor(a.colorMode, a.stdout)
	if err != nil {
		return err
	}
	a.color = useColor
	color.NoColor = !useColor

	log, err := logger.New(&logger.Config{Level: a.logLevel, Output: a.stderr, TimeFormat: "15:04:05"})
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)

	level, err := trace.ParseLevel(a.traceLevel)
	if err != nil {
		return fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff && a.traceOut != "" {
		level = trace.LevelStage
	}
	tracer, err := trace.New(trace.Config{Level: level, OutputPath: a.traceOut})
	if err != nil {
		return err
	}
	a.tracer = tracer
	ctx = trace.WithTracer(ctx, tracer)
	cmd.SetContext(ctx)

	a.profiler, err = prof.Start(a.profiles)
	return err
}

func (a *app) close() {
	if err := a.profiler.Stop(); err != nil {
		fmt.Fprintf(a.stderr, "profile: %v\n", err)
	}
	if err := a.tracer.Close(); err != nil {
		fmt.Fprintf(a.stderr, "trace: close error: %v\n", err)
	}
}

// status prints progress notes to stderr unless --quiet.
func (a *app) status(format string, args ...any) {
	if !a.quiet {
		fmt.Fprintf(a.stderr, format+"\n", args...)
	}
}

// loadConfig reads --config, or discovers the file from the target.
func (a *app) loadConfig(target string) (*config.Config, error) {
	if a.configPath != "" {
		return config.Load(a.configPath)
	}
	dir := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		dir = filepath.Dir(target)
	}
	return config.Discover(dir)
}

func targetArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return "."
}

func resolveColor(mode string, out io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	case "", "auto":
		return os.Getenv("NO_COLOR") == "" && ui.IsTerminal(out), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}
