package generator

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/emit"
	"mvvmgen/internal/host"
	"mvvmgen/internal/incremental"
	"mvvmgen/internal/model"
	"mvvmgen/internal/naming"
	"mvvmgen/internal/trace"
)

// Memo stage names. Bumping a stage string invalidates its cached entries.
const (
	stageCommand    = "validate/command"
	stageProperty   = "validate/property"
	stageRecipient  = "validate/recipient"
	stageEmitCmd    = "emit/command"
	stageEmitProps  = "emit/properties"
	stageEmitRecipt = "emit/recipient"
)

// Options configure one pipeline run.
type Options struct {
	Style naming.FieldStyle
	// Jobs bounds parallel site evaluation; <= 0 means GOMAXPROCS.
	Jobs int
	// Cache memoizes validation and emission; nil disables memoization.
	Cache *incremental.Store
	Emit  emit.Options
	// Progress is called after each site is validated. It may be called
	// from several goroutines at once.
	Progress func(done, total int)
}

// Result is everything a run produced, in deterministic order.
type Result struct {
	Candidates  int
	Commands    []model.CommandModel
	Properties  []model.PropertyModel
	Recipients  []model.RecipientModel
	Sources     []emit.Source
	Diagnostics []diag.Diagnostic
	// CacheHits counts memoized stage results reused by this run.
	CacheHits int
}

// siteFacts holds the facts of one candidate; exactly one field is set.
type siteFacts struct {
	command   *CommandFacts
	property  *PropertyFacts
	recipient *RecipientFacts
}

// Run detects candidates in c, validates each site and emits sources.
func Run(ctx context.Context, c host.Compilation, opts Options) (*Result, error) {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	span := trace.Begin(tracer, trace.ScopeStage, "detect", parent)
	cands, err := Detect(ctx, c)
	span.WithExtra("candidates", fmt.Sprint(len(cands))).End("")
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	res := &Result{Candidates: len(cands)}

	span = trace.Begin(tracer, trace.ScopeStage, "facts", parent)
	facts := make([]siteFacts, len(cands))
	err = forEach(ctx, opts.Jobs, len(cands), func(_ context.Context, i int) error {
		facts[i] = gatherFacts(c, cands[i], opts.Style)
		return nil
	})
	span.End("")
	if err != nil {
		return nil, fmt.Errorf("facts: %w", err)
	}

	span = trace.Begin(tracer, trace.ScopeStage, "validate", parent)
	sites := make([]SiteResult, len(cands))
	hits := make([]bool, len(cands))
	var done atomic.Int64
	err = forEach(ctx, opts.Jobs, len(cands), func(ctx context.Context, i int) error {
		r, hit, err := validateSite(ctx, opts.Cache, facts[i])
		if err != nil {
			return err
		}
		sites[i], hits[i] = r, hit
		if opts.Progress != nil {
			opts.Progress(int(done.Add(1)), len(cands))
		}
		return nil
	})
	span.End("")
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	previewReported := false
	for i, s := range sites {
		if hits[i] {
			res.CacheHits++
		}
		res.Diagnostics = append(res.Diagnostics, s.Diagnostics...)
		if s.NeedsPreview && !previewReported {
			previewReported = true
			f := facts[i].property
			res.Diagnostics = append(res.Diagnostics,
				diag.New(diag.PartialPropertyRequiresPreview, f.Site.Span, f.LangVersion))
		}
		if s.Command != nil {
			res.Commands = append(res.Commands, *s.Command)
		}
		if s.Property != nil {
			res.Properties = append(res.Properties, *s.Property)
		}
		if s.Recipient != nil {
			res.Recipients = append(res.Recipients, *s.Recipient)
		}
	}

	span = trace.Begin(tracer, trace.ScopeStage, "emit", parent)
	sources, emitHits, err := emitAll(ctx, opts, res)
	span.WithExtra("sources", fmt.Sprint(len(sources))).End("")
	if err != nil {
		return nil, fmt.Errorf("emit: %w", err)
	}
	res.Sources = sources
	res.CacheHits += emitHits
	diag.SortDiagnostics(res.Diagnostics)
	return res, nil
}

func gatherFacts(c host.Compilation, cand Candidate, style naming.FieldStyle) siteFacts {
	switch cand.Kind {
	case KindRelayCommand:
		f := commandFacts(c, cand, style)
		return siteFacts{command: &f}
	case KindObservableField, KindObservableProperty:
		f := propertyFacts(c, cand)
		return siteFacts{property: &f}
	case KindRecipient:
		f := recipientFacts(c, cand)
		return siteFacts{recipient: &f}
	}
	return siteFacts{}
}

func validateSite(ctx context.Context, store *incremental.Store, f siteFacts) (SiteResult, bool, error) {
	switch {
	case f.command != nil:
		return incremental.Memo(store, stageCommand, f.command, func() (SiteResult, error) {
			return ValidateCommand(ctx, *f.command)
		})
	case f.property != nil:
		return incremental.Memo(store, stageProperty, f.property, func() (SiteResult, error) {
			return ValidateProperty(ctx, *f.property)
		})
	case f.recipient != nil:
		return incremental.Memo(store, stageRecipient, f.recipient, func() (SiteResult, error) {
			return ValidateRecipient(ctx, *f.recipient)
		})
	}
	return SiteResult{}, false, nil
}

// emitAll renders commands, then one file per type holding properties, then
// recipients, and returns the sources sorted by hint name.
func emitAll(ctx context.Context, opts Options, res *Result) ([]emit.Source, int, error) {
	groups := groupProperties(res.Properties)
	n := len(res.Commands) + len(groups) + len(res.Recipients)
	sources := make([]emit.Source, n)
	hits := make([]bool, n)
	cmdEnd, propEnd := len(res.Commands), len(res.Commands)+len(groups)
	in := emitInput{Emit: opts.Emit}

	err := forEach(ctx, opts.Jobs, n, func(_ context.Context, i int) error {
		var err error
		switch {
		case i < cmdEnd:
			m := res.Commands[i]
			in := in
			in.Command = &m
			sources[i], hits[i], err = incremental.Memo(opts.Cache, stageEmitCmd, in, func() (emit.Source, error) {
				return emit.Command(m, opts.Emit), nil
			})
		case i < propEnd:
			g := groups[i-cmdEnd]
			in := in
			in.Properties = g
			sources[i], hits[i], err = incremental.Memo(opts.Cache, stageEmitProps, in, func() (emit.Source, error) {
				return emit.Properties(g, opts.Emit)
			})
		default:
			m := res.Recipients[i-propEnd]
			in := in
			in.Recipient = &m
			sources[i], hits[i], err = incremental.Memo(opts.Cache, stageEmitRecipt, in, func() (emit.Source, error) {
				return emit.Recipient(m, opts.Emit), nil
			})
		}
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	count := 0
	for _, h := range hits {
		if h {
			count++
		}
	}
	slices.SortStableFunc(sources, func(a, b emit.Source) int {
		return strings.Compare(a.HintName, b.HintName)
	})
	return sources, count, nil
}

// emitInput keys an emission memo entry: the model plus the stamped identity.
type emitInput struct {
	Emit       emit.Options          `msgpack:"emit"`
	Command    *model.CommandModel   `msgpack:"command,omitempty"`
	Properties []model.PropertyModel `msgpack:"properties,omitempty"`
	Recipient  *model.RecipientModel `msgpack:"recipient,omitempty"`
}

// groupProperties groups models by containing type, keeping first-seen
// order of types and declaration order within a type.
func groupProperties(props []model.PropertyModel) [][]model.PropertyModel {
	index := make(map[string]int)
	var groups [][]model.PropertyModel
	for _, p := range props {
		key := p.Hierarchy.MetadataName
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], p)
	}
	return groups
}

// forEach runs fn for indices [0, n) on at most jobs goroutines. Each call
// owns its index, so callers write results into pre-sized slices.
func forEach(ctx context.Context, jobs, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return ctx.Err()
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, n))
	for i := range n {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}
