package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/driver"
	"mvvmgen/internal/generator"
	"mvvmgen/internal/logger"
	"mvvmgen/internal/ui"
)

type generateFlags struct {
	pipelineFlags
	out    string
	dryRun bool
	ui     string
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate [path]",
		Short: "Generate sources for the view models under path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, targetArg(args), &f)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "list generated files without writing them")
	cmd.Flags().StringVar(&f.ui, "ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

var generateStages = []string{"load", "generate", "write"}

func (a *app) runGenerate(cmd *cobra.Command, target string, f *generateFlags) error {
	mode, err := readUIMode(f.ui)
	if err != nil {
		return err
	}
	cfg, err := a.loadConfig(target)
	if err != nil {
		return err
	}
	if err := f.apply(cmd, cfg); err != nil {
		return err
	}

	prog := a.startProgress(cmd.Context(), mode, "mvvmgen generate")
	defer prog.stop()

	opts := driver.Options{Config: cfg, Timer: a.timer, Progress: prog.siteDone}
	prog.send(ui.Event{Stage: "load", Status: ui.StatusWorking})
	ws, err := driver.Load(cmd.Context(), target, opts)
	if err != nil {
		prog.send(ui.Event{Stage: "load", Status: ui.StatusError})
		return err
	}
	prog.send(ui.Event{Stage: "load", Status: ui.StatusDone, Detail: strconv.Itoa(len(ws.Docs)) + " files"})

	prog.send(ui.Event{Stage: "generate", Status: ui.StatusWorking})
	res, err := driver.Generate(cmd.Context(), ws, opts)
	if err != nil {
		prog.send(ui.Event{Stage: "generate", Status: ui.StatusError})
		return err
	}
	prog.send(ui.Event{Stage: "generate", Status: ui.StatusDone, Detail: fmt.Sprintf("%d sources", len(res.Sources))})

	outDir := f.out
	if outDir == "" {
		outDir = driver.OutDir(cfg, ws.Root)
	}
	if f.dryRun {
		prog.send(ui.Event{Stage: "write", Status: ui.StatusDone, Detail: "dry run"})
	} else {
		prog.send(ui.Event{Stage: "write", Status: ui.StatusWorking})
		written, err := driver.WriteSources(outDir, res.Sources)
		if err != nil {
			prog.send(ui.Event{Stage: "write", Status: ui.StatusError})
			return err
		}
		prog.send(ui.Event{Stage: "write", Status: ui.StatusDone, Detail: strconv.Itoa(len(written)) + " files"})
	}
	prog.stop()

	logger.FromContext(cmd.Context()).Info("generated",
		"candidates", res.Candidates, "sources", len(res.Sources), "cache_hits", res.CacheHits)
	all := append(append([]diag.Diagnostic(nil), cfg.Apply(ws.Diagnostics)...), res.Diagnostics...)
	diag.SortDiagnostics(all)
	if err := a.report(ws.Files, all, f.format); err != nil {
		return err
	}
	a.summarizeGenerate(res, outDir, f.dryRun, strings.EqualFold(f.format, "json"))
	return nil
}

func (a *app) summarizeGenerate(res *generator.Result, outDir string, dryRun, jsonOut bool) {
	if jsonOut {
		return
	}
	if dryRun {
		var sb strings.Builder
		for _, src := range res.Sources {
			fmt.Fprintf(&sb, "%s (%d bytes)\n", filepath.Join(outDir, src.HintName), len(src.Text))
		}
		fmt.Fprint(a.stdout, sb.String())
		return
	}
	a.status("generated %d sources from %d candidates into %s", len(res.Sources), res.Candidates, outDir)
}

// progress forwards pipeline events to the Bubble Tea view when it runs.
type progress struct {
	events chan ui.Event
	done   chan struct{}
}

func (a *app) startProgress(ctx context.Context, mode uiMode, title string) *progress {
	if !shouldUseTUI(mode, a.stderr) || a.quiet {
		return &progress{}
	}
	p := &progress{events: make(chan ui.Event, 64), done: make(chan struct{})}
	go func() {
		defer close(p.done)
		if err := ui.Run(ctx, a.stderr, title, generateStages, p.events); err != nil {
			logger.FromContext(ctx).Warn("progress view failed", "err", err)
		}
		// Keep senders from blocking if the view quit early.
		for range p.events {
		}
	}()
	return p
}

func (p *progress) send(ev ui.Event) {
	if p.events != nil {
		p.events <- ev
	}
}

// siteDone is the generator progress callback. The generator may call it
// from several goroutines.
func (p *progress) siteDone(done, total int) {
	p.send(ui.Event{Stage: "generate", Status: ui.StatusWorking, Done: done, Total: total})
}

func (p *progress) stop() {
	if p.events == nil {
		return
	}
	close(p.events)
	<-p.done
	p.events = nil
}
