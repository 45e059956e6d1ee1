// Package diag defines the diagnostic model shared by every pipeline stage.
//
// # Registry
//
// Every diagnostic the generators, analyzers or the reference host can emit is
// described by a Descriptor in a flat, append-only registry (registry.go). A
// descriptor binds a numeric Code to a stable external identifier
// ("MVVMTK0007", "CS1002"), an owning rule family, a default severity, a title,
// a message format with {0}-style placeholders and a help link.
//
// The registry is versioned by release. shipped.toml records, per release, the
// identifiers that shipped and their severity; any later severity change must
// appear as a migration entry in the same manifest. Identifiers are never reused
// and never removed.
//
// # Data model
//
// Diagnostic is the central record: Severity, Code, formatted Message, the raw
// Args used to format it, a Primary span, optional Notes and string Properties.
// Properties carry data for code fixers (for example the generated property name
// a field reference should be rewritten to) so fixers never re-run validation.
//
// Validation never returns Go errors: diagnostics are values that flow next to
// generation models. Producers use a Reporter (BagReporter for collection,
// DedupReporter to drop repeats) and the ReportBuilder helpers.
//
// Keep the model deterministic: diagnostics are sorted by file, span, severity
// and code before they leave the driver, and they are msgpack-encoded inside
// memoized stage results.
package diag
