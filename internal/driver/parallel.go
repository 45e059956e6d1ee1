package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"mvvmgen/internal/csharp/parser"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/source"
	"mvvmgen/internal/trace"
)

// skippedDirs are build output folders never scanned for sources.
var skippedDirs = []string{"bin", "obj", ".git", ".vs"}

// ListSources returns the sorted *.cs files under root. Generated files
// (*.g.cs) and the directories in exclude are skipped. A file root is
// returned as is.
func ListSources(root string, exclude ...string) ([]string, error) {
	skip := make([]string, 0, len(exclude))
	for _, dir := range exclude {
		if abs, err := filepath.Abs(dir); err == nil {
			skip = append(skip, abs)
		}
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			abs, _ := filepath.Abs(path)
			if slices.Contains(skippedDirs, d.Name()) || slices.Contains(skip, abs) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".cs") && !strings.HasSuffix(path, ".g.cs") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	slices.Sort(files)
	return files, nil
}

// parsedFile is the result of parsing one document.
type parsedFile struct {
	unit  *syntax.CompilationUnit
	diags []diag.Diagnostic
}

// parseAll parses the given files in parallel. Results are indexed like ids.
func parseAll(ctx context.Context, fileSet *source.FileSet, ids []source.FileID, jobs int) ([]parsedFile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	// Indices are unique per goroutine, so results needs no lock.
	results := make([]parsedFile, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(ids)))
	for i, id := range ids {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			file := fileSet.Get(id)
			span := trace.Begin(tracer, trace.ScopeDocument, file.Path, parent)
			var rep diag.SliceReporter
			unit := parser.ParseFile(file, parser.Options{Reporter: &rep})
			span.WithExtra("diagnostics", fmt.Sprint(len(rep.Items))).End("")
			results[i] = parsedFile{unit: unit, diags: rep.Items}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
