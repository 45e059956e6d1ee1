// Package analyzers reports usage diagnostics over observable fields. Each
// diagnostic carries the properties its code fix needs, so fixers never
// repeat the analysis.
package analyzers

import (
	"context"
	"strings"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/generator"
	"mvvmgen/internal/host"
	"mvvmgen/internal/naming"
)

// Diagnostic property keys read by the code fixes.
const (
	PropFieldName    = "FieldName"
	PropPropertyName = "PropertyName"
)

// Analyzer inspects the observable fields of a compilation.
type Analyzer struct {
	Code diag.Code
	Name string
	run  func(c host.Compilation, f field, rep diag.Reporter)
}

// field is one [ObservableProperty] field with its derived property name.
type field struct {
	cand     generator.Candidate
	sym      *host.Symbol
	typeName string
	property string
}

var all = []Analyzer{
	{Code: diag.FieldReferenceForObservablePropertyField, Name: "field-reference", run: fieldReferences},
	{Code: diag.UseObservablePropertyOnPartialProperty, Name: "prefer-partial-property", run: preferPartialProperty},
}

// All returns the registered analyzers in code order.
func All() []Analyzer { return append([]Analyzer(nil), all...) }

// Run executes every analyzer over c and reports in canonical order.
func Run(ctx context.Context, c host.Compilation, rep diag.Reporter) error {
	cands, err := generator.Detect(ctx, c)
	if err != nil {
		return err
	}
	var fields []field
	for _, cand := range cands {
		if cand.Kind != generator.KindObservableField {
			continue
		}
		s := c.Symbol(cand.Symbol)
		fields = append(fields, field{
			cand:     cand,
			sym:      s,
			typeName: strings.TrimPrefix(c.FullyQualifiedName(cand.Type), "global::"),
			property: naming.PropertyName(s.Name),
		})
	}

	var out diag.SliceReporter
	for _, a := range all {
		for _, f := range fields {
			if err := ctx.Err(); err != nil {
				return err
			}
			a.run(c, f, &out)
		}
	}
	diag.SortDiagnostics(out.Items)
	for _, d := range out.Items {
		rep.Report(d)
	}
	return nil
}

// fieldReferences flags reads and writes of a backing field that bypass the
// generated property. nameof and the field's own initializer are exempt.
func fieldReferences(c host.Compilation, f field, rep diag.Reporter) {
	if f.property == f.sym.Name {
		return
	}
	for _, ref := range c.ReferencesTo(f.cand.Symbol) {
		if ref.InNameof || c.SameSymbol(ref.Container, f.cand.Symbol) {
			continue
		}
		diag.NewReportBuilder(rep, diag.FieldReferenceForObservablePropertyField, ref.Span,
			f.typeName+"."+f.sym.Name, f.property).
			WithProperty(PropFieldName, f.sym.Name).
			WithProperty(PropPropertyName, f.property).
			Emit()
	}
}

// preferPartialProperty suggests the partial property form once the
// language version supports it.
func preferPartialProperty(c host.Compilation, f field, rep diag.Reporter) {
	if !c.LanguageVersion().IsPreview() {
		return
	}
	mods := f.sym.Modifiers
	if mods.Has(syntax.ModStatic) || mods.Has(syntax.ModConst) || mods.Has(syntax.ModReadonly) {
		return
	}
	if f.property == f.sym.Name {
		return
	}
	diag.NewReportBuilder(rep, diag.UseObservablePropertyOnPartialProperty, f.cand.Span, f.typeName, f.sym.Name).
		WithProperty(PropFieldName, f.sym.Name).
		WithProperty(PropPropertyName, f.property).
		Emit()
}
