// Package testkit holds checks shared by parser tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/source"
)

// CheckSpanInvariants verifies that every span in unit points into sf:
// the file ID matches, Start <= End and End is within the content.
// Declarations must also be ordered by start within their parent.
func CheckSpanInvariants(unit *syntax.CompilationUnit, sf *source.File) error {
	if unit == nil || sf == nil {
		return fmt.Errorf("nil unit or file")
	}
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("content length overflow: %w", err)
	}
	c := checker{file: sf.ID, size: size}
	if unit.File != sf.ID {
		return fmt.Errorf("unit belongs to file %d, want %d", unit.File, sf.ID)
	}
	c.span("unit", unit.Span)
	for _, u := range unit.Usings {
		c.span("using", u.Span)
	}
	c.attrs(unit.Attributes)
	c.decls(unit.Members)
	return c.err
}

type checker struct {
	file source.FileID
	size uint32
	err  error
}

func (c *checker) span(what string, sp source.Span) {
	if c.err != nil || sp == (source.Span{}) {
		return
	}
	switch {
	case sp.File != c.file:
		c.err = fmt.Errorf("%s span %v points to file %d", what, sp, sp.File)
	case sp.Start > sp.End:
		c.err = fmt.Errorf("%s span %v is inverted", what, sp)
	case sp.End > c.size:
		c.err = fmt.Errorf("%s span %v ends past the file (%d bytes)", what, sp, c.size)
	}
}

func (c *checker) attrs(lists []*syntax.AttributeList) {
	for _, l := range lists {
		c.span("attribute list", l.Span)
		for _, a := range l.Attributes {
			c.span("attribute", a.Span)
		}
	}
}

func (c *checker) refs(refs []syntax.IdentRef) {
	for _, r := range refs {
		c.span("reference "+r.Name, r.Span)
	}
}

func (c *checker) decls(ds []syntax.Decl) {
	var prev uint32
	for i, d := range ds {
		sp := d.DeclSpan()
		c.span(fmt.Sprintf("%T", d), sp)
		if i > 0 && sp.Start < prev && c.err == nil {
			c.err = fmt.Errorf("%T at %v starts before its previous sibling", d, sp)
		}
		prev = sp.Start
		switch n := d.(type) {
		case *syntax.NamespaceDecl:
			c.span("namespace name", n.NameSpan)
			c.decls(n.Members)
		case *syntax.TypeDecl:
			c.attrs(n.Attributes)
			c.span("type name", n.Name.Span)
			for _, p := range n.PrimaryParams {
				c.span("parameter", p.Span)
			}
			c.decls(n.Members)
		case *syntax.FieldDecl:
			c.attrs(n.Attributes)
			for _, v := range n.Declarators {
				c.span("declarator", v.Span)
			}
			c.refs(n.Refs)
		case *syntax.PropertyDecl:
			c.attrs(n.Attributes)
			for _, a := range n.Accessors {
				c.span("accessor", a.Span)
			}
			c.refs(n.Refs)
		case *syntax.MethodDecl:
			c.attrs(n.Attributes)
			for _, p := range n.Params {
				c.span("parameter", p.Span)
			}
			c.refs(n.Refs)
		case *syntax.EventDecl:
			c.attrs(n.Attributes)
		}
	}
}
