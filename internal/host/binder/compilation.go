package binder

import (
	"sort"
	"strings"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/host"
	"mvvmgen/internal/source"
)

// Compilation is the reference host's immutable compilation.
type Compilation struct {
	files      *source.FileSet
	lang       host.LanguageVersion
	syms       []host.Symbol
	metaNames  []string
	byMetadata map[string]host.SymbolID
	namespaces map[string]bool
	attrs      map[host.SymbolID][]host.AttributeData
	refs       map[host.SymbolID][]host.Reference
	decls      [4][]host.SymbolID
	units      []*syntax.CompilationUnit
}

var _ host.Compilation = (*Compilation)(nil)

func (c *Compilation) finish() {
	for i := 1; i < len(c.syms); i++ {
		s := &c.syms[i]
		if !s.FromSource || len(s.Decls) == 0 {
			continue
		}
		var k host.DeclKind
		switch s.Kind {
		case host.KindField:
			if _, ok := s.Decls[0].Node.(*syntax.FieldDecl); !ok {
				continue
			}
			k = host.DeclField
		case host.KindProperty:
			k = host.DeclProperty
		case host.KindMethod:
			k = host.DeclMethod
		case host.KindType:
			k = host.DeclType
		default:
			continue
		}
		c.decls[k] = append(c.decls[k], s.ID)
	}
	for k := range c.decls {
		ids := c.decls[k]
		sort.SliceStable(ids, func(i, j int) bool {
			a, b := c.syms[ids[i]].Decls[0], c.syms[ids[j]].Decls[0]
			if a.File != b.File {
				return a.File < b.File
			}
			return a.Span.Start < b.Span.Start
		})
	}
	for id, refs := range c.refs {
		sort.SliceStable(refs, func(i, j int) bool {
			if refs[i].Span.File != refs[j].Span.File {
				return refs[i].Span.File < refs[j].Span.File
			}
			return refs[i].Span.Start < refs[j].Span.Start
		})
		c.refs[id] = refs
	}
}

func (c *Compilation) Files() *source.FileSet               { return c.files }
func (c *Compilation) LanguageVersion() host.LanguageVersion { return c.lang }

// Units returns the parsed user compilation units.
func (c *Compilation) Units() []*syntax.CompilationUnit { return c.units }

func (c *Compilation) DeclarationsOf(kind host.DeclKind) []host.SymbolID {
	if int(kind) >= len(c.decls) {
		return nil
	}
	return c.decls[kind]
}

func (c *Compilation) Symbol(id host.SymbolID) *host.Symbol {
	if !id.IsValid() || int(id) >= len(c.syms) {
		return nil
	}
	return &c.syms[id]
}

func (c *Compilation) Attributes(id host.SymbolID) []host.AttributeData { return c.attrs[id] }

func (c *Compilation) SameSymbol(a, b host.SymbolID) bool { return a.IsValid() && a == b }

func (c *Compilation) BaseChain(t host.SymbolID) []host.SymbolID {
	var out []host.SymbolID
	seen := map[host.SymbolID]bool{t: true}
	for cur := c.baseOf(t); cur.IsValid() && !seen[cur]; cur = c.baseOf(cur) {
		seen[cur] = true
		out = append(out, cur)
	}
	return out
}

func (c *Compilation) baseOf(t host.SymbolID) host.SymbolID {
	s := c.Symbol(t)
	if s == nil || s.Kind != host.KindType {
		return host.NoSymbol
	}
	return s.Base.Def
}

func (c *Compilation) AllInterfaces(t host.SymbolID) []host.TypeRef {
	var out []host.TypeRef
	var visit func(refs []host.TypeRef)
	visit = func(refs []host.TypeRef) {
		for _, r := range refs {
			if !r.HasDef() {
				continue
			}
			dup := false
			for _, o := range out {
				if o.Same(r) {
					dup = true
					break
				}
			}
			if dup {
				continue
			}
			out = append(out, r)
			visit(c.syms[r.Def].Interfaces)
		}
	}
	if s := c.Symbol(t); s != nil {
		visit(s.Interfaces)
	}
	for _, b := range c.BaseChain(t) {
		visit(c.syms[b].Interfaces)
	}
	return out
}

func (c *Compilation) InheritsFrom(t host.SymbolID, metadataName string) bool {
	if c.FullMetadataName(t) == metadataName {
		return true
	}
	for _, b := range c.BaseChain(t) {
		if c.metaNames[b] == metadataName {
			return true
		}
	}
	return false
}

func (c *Compilation) Implements(t host.SymbolID, metadataName string) bool {
	for _, i := range c.AllInterfaces(t) {
		if c.metaNames[i.Def] == metadataName {
			return true
		}
	}
	return false
}

func (c *Compilation) IsDerivedFrom(t host.TypeRef, base host.SymbolID) bool {
	if !t.HasDef() || !base.IsValid() {
		return false
	}
	if t.Def == base {
		return true
	}
	for _, b := range c.BaseChain(t.Def) {
		if b == base {
			return true
		}
	}
	for _, i := range c.AllInterfaces(t.Def) {
		if i.Def == base {
			return true
		}
	}
	return false
}

func (c *Compilation) FirstDeclaration(id host.SymbolID) (host.SyntaxRef, bool) {
	s := c.Symbol(id)
	if s == nil || len(s.Decls) == 0 {
		return host.SyntaxRef{}, false
	}
	return s.Decls[0], true
}

func (c *Compilation) WellKnownType(metadataName string) (host.SymbolID, bool) {
	id, ok := c.byMetadata[metadataName]
	return id, ok
}

func (c *Compilation) MembersNamed(t host.SymbolID, name string) []host.SymbolID {
	var out []host.SymbolID
	chain := append([]host.SymbolID{t}, c.BaseChain(t)...)
	for _, cur := range chain {
		s := c.Symbol(cur)
		if s == nil {
			continue
		}
		for _, m := range s.Members {
			if c.syms[m].Name == name {
				out = append(out, m)
			}
		}
	}
	return out
}

func (c *Compilation) ReferencesTo(member host.SymbolID) []host.Reference { return c.refs[member] }

func (c *Compilation) FullMetadataName(id host.SymbolID) string {
	if !id.IsValid() || int(id) >= len(c.metaNames) {
		return ""
	}
	return c.metaNames[id]
}

func (c *Compilation) FullyQualifiedName(id host.SymbolID) string {
	s := c.Symbol(id)
	if s == nil {
		return ""
	}
	if s.Kind == host.KindType {
		t := host.TypeRef{Def: id}
		for cur := id; cur.IsValid(); cur = c.syms[cur].Containing {
			var own []host.TypeRef
			for _, tp := range c.syms[cur].TypeParams {
				own = append(own, host.TypeRef{Def: tp})
			}
			t.Args = append(own, t.Args...)
		}
		return c.TypeDisplay(t, true)
	}
	if s.Containing.IsValid() {
		return c.FullyQualifiedName(s.Containing) + "." + s.Name
	}
	return s.Name
}

func (c *Compilation) TypeDisplay(t host.TypeRef, fullyQualified bool) string {
	var sb strings.Builder
	c.writeType(&sb, t, fullyQualified)
	return sb.String()
}

func (c *Compilation) writeType(sb *strings.Builder, t host.TypeRef, fq bool) {
	switch {
	case len(t.Tuple) > 0:
		sb.WriteByte('(')
		for i, e := range t.Tuple {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.writeType(sb, e, fq)
		}
		sb.WriteByte(')')
	case !t.HasDef():
		sb.WriteString(t.Written)
		return
	default:
		c.writeNamed(sb, t, fq)
	}
	if t.Nullable {
		sb.WriteByte('?')
	}
	for range t.Pointer {
		sb.WriteByte('*')
	}
	for _, rank := range t.ArrayRank {
		sb.WriteByte('[')
		sb.WriteString(strings.Repeat(",", max(rank-1, 0)))
		sb.WriteByte(']')
	}
}

func (c *Compilation) writeNamed(sb *strings.Builder, t host.TypeRef, fq bool) {
	s := &c.syms[t.Def]
	if s.Kind == host.KindTypeParameter {
		sb.WriteString(s.Name)
		return
	}
	if alias, ok := token.PredefinedAlias(c.metaNames[t.Def]); ok {
		sb.WriteString(alias)
		return
	}
	var chain []host.SymbolID
	for cur := t.Def; cur.IsValid(); cur = c.syms[cur].Containing {
		chain = append([]host.SymbolID{cur}, chain...)
	}
	if fq {
		sb.WriteString("global::")
		if ns := c.syms[chain[0]].Namespace; ns != "" {
			sb.WriteString(ns)
			sb.WriteByte('.')
		}
	}
	args := t.Args
	for i, id := range chain {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(c.syms[id].Name)
		n := min(len(c.syms[id].TypeParams), len(args))
		if n == 0 {
			continue
		}
		sb.WriteByte('<')
		for j, a := range args[:n] {
			if j > 0 {
				sb.WriteString(", ")
			}
			c.writeType(sb, a, fq)
		}
		sb.WriteByte('>')
		args = args[n:]
	}
}
