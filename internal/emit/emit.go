// Package emit renders generation models into C# source text. Every function
// is a pure function of its model and Options: equal inputs produce
// byte-identical text.
package emit

import (
	"fmt"
	"strings"

	"mvvmgen/internal/model"
)

// Options identify the generator in [GeneratedCode] annotations.
type Options struct {
	Tool    string `msgpack:"tool"`
	Version string `msgpack:"version"`
}

// Source is one generated file.
type Source struct {
	HintName string `msgpack:"hint_name"`
	Text     string `msgpack:"text"`
}

const (
	generatedCodeAttr = "global::System.CodeDom.Compiler.GeneratedCode"
	excludeCoverage   = "global::System.Diagnostics.CodeAnalysis.ExcludeFromCodeCoverage"
	indentUnit        = "    "
)

// Emitter accumulates the text of one generated file.
type Emitter struct {
	opts   Options
	buf    strings.Builder
	indent int
}

func newEmitter(opts Options) *Emitter {
	e := &Emitter{opts: opts}
	e.header()
	return e
}

// line writes one indented line; an empty format writes a blank line.
func (e *Emitter) line(format string, args ...any) {
	if format == "" {
		e.buf.WriteByte('\n')
		return
	}
	e.buf.WriteString(strings.Repeat(indentUnit, e.indent))
	if len(args) == 0 {
		e.buf.WriteString(format)
	} else {
		fmt.Fprintf(&e.buf, format, args...)
	}
	e.buf.WriteByte('\n')
}

func (e *Emitter) open() {
	e.line("{")
	e.indent++
}

func (e *Emitter) close() {
	e.indent--
	e.line("}")
}

func (e *Emitter) header() {
	e.line("// <auto-generated/>")
	e.line("#pragma warning disable")
	e.line("#nullable enable")
}

// generatedCode stamps the tool and version on the next member.
func (e *Emitter) generatedCode() {
	e.line("[%s(%q, %q)]", generatedCodeAttr, e.opts.Tool, e.opts.Version)
}

func (e *Emitter) excludeFromCoverage() {
	e.line("[%s]", excludeCoverage)
}

func (e *Emitter) attributes(attrs []model.AttributeInfo) {
	for _, a := range attrs {
		e.line("[%s]", a.String())
	}
}

// openHierarchy re-opens the namespace and every containing type. It
// returns the number of blocks closeBlocks must close.
func (e *Emitter) openHierarchy(h model.Hierarchy) int {
	opened := 0
	if h.Namespace != "" {
		e.line("namespace %s", h.Namespace)
		e.open()
		opened++
	}
	for i, t := range h.Types {
		if i == len(h.Types)-1 {
			e.line("/// <inheritdoc/>")
		}
		e.line("partial %s %s%s", t.Keyword, t.Name, typeParams(t.TypeParams))
		e.open()
		opened++
	}
	return opened
}

func (e *Emitter) closeBlocks(n int) {
	for range n {
		e.close()
	}
}

func (e *Emitter) text() string { return e.buf.String() }

func typeParams(tps []string) string {
	if len(tps) == 0 {
		return ""
	}
	return "<" + strings.Join(tps, ", ") + ">"
}

// CommandHint is {MetadataName}.{Method}.g.cs with ` and + made file-safe.
func CommandHint(m model.CommandModel) string {
	return m.Hierarchy.HintBase() + "." + m.MethodName + ".g.cs"
}

// PropertiesHint names the file holding every observable property of a type.
func PropertiesHint(h model.Hierarchy) string { return h.HintBase() + ".g.cs" }

// RecipientHint names the messenger registration file of a recipient type.
func RecipientHint(h model.Hierarchy) string { return h.HintBase() + ".Recipients.g.cs" }
