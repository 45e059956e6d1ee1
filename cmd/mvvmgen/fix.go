package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/driver"
	"mvvmgen/internal/fix"
	"mvvmgen/internal/source"
)

type fixFlags struct {
	pipelineFlags
	all      bool
	id       string
	document string
	dryRun   bool
}

func newFixCmd(a *app) *cobra.Command {
	var f fixFlags
	cmd := &cobra.Command{
		Use:   "fix [path]",
		Short: "Apply analyzer code fixes",
		Long: "Apply code fixes for analyzer diagnostics. Without --all or --document only the first " +
			"fixable diagnostic is repaired.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFix(cmd, targetArg(args), &f)
		},
	}
	f.register(cmd)
	fl := cmd.Flags()
	fl.BoolVar(&f.all, "all", false, "fix every occurrence in every document")
	fl.StringVar(&f.id, "id", "", "only apply fixes for this diagnostic ID (e.g. MVVMTK0034)")
	fl.StringVar(&f.document, "document", "", "fix every occurrence in one document")
	fl.BoolVar(&f.dryRun, "dry-run", false, "print a unified diff instead of writing")
	cmd.MarkFlagsMutuallyExclusive("all", "document")
	return cmd
}

func (a *app) runFix(cmd *cobra.Command, target string, f *fixFlags) error {
	ws, opts, err := a.load(cmd, target, &f.pipelineFlags)
	if err != nil {
		return err
	}
	fixOpts := fix.Options{Mode: fix.ModeSolution}
	var code diag.Code
	if f.id != "" {
		desc, ok := diag.LookupID(f.id)
		if !ok {
			return fmt.Errorf("unknown diagnostic id %q", f.id)
		}
		fixer, ok := fix.Lookup(desc.Code)
		if !ok {
			return fmt.Errorf("%s has no code fix", desc.ID())
		}
		code = desc.Code
		fixOpts.EquivalenceKey = fixer.EquivalenceKey()
	}

	switch {
	case f.document != "":
		id, ok := ws.DocumentID(f.document)
		if !ok {
			return fmt.Errorf("document %s is not part of %s", f.document, target)
		}
		fixOpts.Mode = fix.ModeDocument
		fixOpts.Document = id
	case !f.all:
		found, err := driver.Analyze(cmd.Context(), ws, opts)
		if err != nil {
			return err
		}
		site, ok := firstFixable(found, code)
		if !ok {
			fmt.Fprintln(a.stdout, "No applicable fixes found.")
			return nil
		}
		fixOpts.Mode = fix.ModeSite
		fixOpts.Site = site
	}

	res, err := driver.Fix(cmd.Context(), ws, fixOpts, opts)
	if errors.Is(err, fix.ErrNoFixes) {
		a.printSkipped(res)
		fmt.Fprintln(a.stdout, "No applicable fixes found.")
		return nil
	}
	if err != nil {
		return err
	}

	if f.dryRun {
		return a.printDiff(ws.Files, res.FileChanges)
	}
	if err := fix.WriteChanges(ws.Files, res.FileChanges); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Applied %d fix(es):\n", len(res.Applied))
	for _, item := range res.Applied {
		fmt.Fprintf(a.stdout, "  %s [%s] (%d edits)\n", item.Title, item.ID, item.Edits)
	}
	fmt.Fprintln(a.stdout, "Updated files:")
	for _, ch := range res.FileChanges {
		fmt.Fprintf(a.stdout, "  %s (%d edits)\n", ch.Path, ch.Edits)
	}
	a.printSkipped(res)
	return nil
}

// firstFixable returns the span of the first diagnostic a fixer handles.
func firstFixable(ds []diag.Diagnostic, only diag.Code) (source.Span, bool) {
	for i := range ds {
		if only != diag.UnknownCode && ds[i].Code != only {
			continue
		}
		if _, ok := fix.Lookup(ds[i].Code); ok {
			return ds[i].Primary, true
		}
	}
	return source.Span{}, false
}

func (a *app) printSkipped(res *fix.Result) {
	if res == nil || len(res.Skipped) == 0 {
		return
	}
	fmt.Fprintln(a.stdout, "Skipped fixes:")
	for _, s := range res.Skipped {
		fmt.Fprintf(a.stdout, "  %s [%s]: %s\n", s.Title, s.ID, s.Reason)
	}
}

func (a *app) printDiff(fs *source.FileSet, changes []fix.FileChange) error {
	for _, ch := range changes {
		path := fs.Get(ch.File).RelPath(fs.BaseDir())
		text, err := unifiedDiff(path, fs.Get(ch.File).Content, ch.Content)
		if err != nil {
			return err
		}
		fmt.Fprint(a.stdout, text)
	}
	return nil
}

func unifiedDiff(path string, before, after []byte) (string, error) {
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}
