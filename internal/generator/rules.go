package generator

import (
	"context"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/model"
)

// SiteResult is the outcome of validating one site: a model, diagnostics,
// or both when only non-fatal rules failed.
type SiteResult struct {
	Command     *model.CommandModel   `msgpack:"command,omitempty"`
	Property    *model.PropertyModel  `msgpack:"property,omitempty"`
	Recipient   *model.RecipientModel `msgpack:"recipient,omitempty"`
	Diagnostics []diag.Diagnostic     `msgpack:"diagnostics,omitempty"`
	// NeedsPreview marks a partial-property site dropped because the
	// language version lacks partial properties. It is reported once per
	// compilation by the pipeline.
	NeedsPreview bool `msgpack:"needs_preview,omitempty"`
}

// rule inspects the state built so far and reports whether the site must
// stop after the current batch.
type rule[S any] func(s *S) (fatal bool)

// runBatches evaluates rule batches in order. Every rule of a batch runs so
// each conflict gets its own diagnostic; a fatal batch ends the site.
func runBatches[S any](ctx context.Context, s *S, batches [][]rule[S]) (ok bool, err error) {
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		fatal := false
		for _, r := range batch {
			if r(s) {
				fatal = true
			}
		}
		if fatal {
			return false, nil
		}
	}
	return true, nil
}

// report collects diagnostics for one site.
type report struct {
	diags []diag.Diagnostic
}

func (r *report) add(d diag.Diagnostic) { r.diags = append(r.diags, d) }
