package binder

import (
	"strings"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/csharp/token"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
)

// resolveType binds a written type in sc. tps are method type parameters.
// Unresolved names report CS0246 and yield an error type.
func (b *binder) resolveType(sc *scope, tps []host.SymbolID, t *syntax.TypeRef) host.TypeRef {
	if t == nil {
		return host.TypeRef{}
	}
	var out host.TypeRef
	switch {
	case t.Keyword != token.Invalid:
		if name, ok := token.PredefinedTypeName(t.Keyword); ok {
			out.Def = b.c.byMetadata[name]
		}
	case len(t.Tuple) > 0:
		for _, e := range t.Tuple {
			out.Tuple = append(out.Tuple, b.resolveType(sc, tps, e))
		}
	default:
		var ok bool
		out, ok = b.resolveName(sc, tps, t)
		if !ok {
			b.report(sc, diag.HostTypeNotFound, t.Span, t.QualifiedName())
		}
	}
	out.Nullable = t.Nullable
	out.ArrayRank = t.ArrayRank
	out.Pointer = t.Pointer
	out.Written = t.Text
	return out
}

func (b *binder) resolveName(sc *scope, tps []host.SymbolID, t *syntax.TypeRef) (host.TypeRef, bool) {
	var out host.TypeRef
	if len(t.Segments) == 0 {
		return out, false
	}
	var (
		cur  host.SymbolID
		ns   string
		inNS bool
		i    int
	)
	if t.Global {
		inNS = true
	} else {
		first := t.Segments[0]
		if id := b.lookupSimple(sc, tps, first.Name, len(first.TypeArgs)); id.IsValid() {
			cur = id
		} else if name, ok := b.lookupNamespace(sc, first.Name); ok {
			ns, inNS = name, true
		} else {
			b.resolveArgs(sc, tps, t.Segments)
			return out, false
		}
		i = 1
	}
	for ; i < len(t.Segments); i++ {
		seg := t.Segments[i]
		meta := metadataName(seg.Name, len(seg.TypeArgs))
		switch {
		case cur.IsValid():
			cur = b.nestedType(cur, meta)
		case inNS:
			if id, ok := b.c.byMetadata[joinNS(ns, meta)]; ok {
				cur, inNS = id, false
			} else if full := joinNS(ns, seg.Name); b.c.namespaces[full] && len(seg.TypeArgs) == 0 {
				ns = full
			} else {
				inNS = false
			}
		}
		if !cur.IsValid() && !inNS {
			b.resolveArgs(sc, tps, t.Segments)
			return out, false
		}
	}
	if !cur.IsValid() {
		return out, false
	}
	out.Def = cur
	out.Args = b.resolveArgs(sc, tps, t.Segments)
	return out, true
}

func (b *binder) resolveArgs(sc *scope, tps []host.SymbolID, segs []syntax.NameSegment) []host.TypeRef {
	var args []host.TypeRef
	for _, s := range segs {
		for _, a := range s.TypeArgs {
			args = append(args, b.resolveType(sc, tps, a))
		}
	}
	return args
}

// lookupSimple finds a type named by a single identifier: type parameters,
// then nested types of enclosing types (and their bases), then the
// namespace chain, then aliases and using directives.
func (b *binder) lookupSimple(sc *scope, tps []host.SymbolID, name string, arity int) host.SymbolID {
	if arity == 0 {
		for _, tp := range tps {
			if b.sym(tp).Name == name {
				return tp
			}
		}
		for t := sc.outer; t.IsValid(); t = b.sym(t).Containing {
			for _, tp := range b.sym(t).TypeParams {
				if b.sym(tp).Name == name {
					return tp
				}
			}
		}
	}
	meta := metadataName(name, arity)
	for t := sc.outer; t.IsValid(); t = b.sym(t).Containing {
		if id := b.nestedType(t, meta); id.IsValid() {
			return id
		}
	}
	for ns := sc.ns; ; {
		if id, ok := b.c.byMetadata[joinNS(ns, meta)]; ok {
			return id
		}
		if ns == "" {
			break
		}
		if i := strings.LastIndexByte(ns, '.'); i >= 0 {
			ns = ns[:i]
		} else {
			ns = ""
		}
	}
	groups := append(sc.usings[:len(sc.usings):len(sc.usings)], b.global)
	if arity == 0 {
		for _, g := range groups {
			for _, u := range g {
				if u.Alias == name {
					return b.resolveAliasType(u)
				}
			}
		}
	}
	for _, g := range groups {
		for _, u := range g {
			if u.Alias != "" || u.Name == nil {
				continue
			}
			if u.Static {
				if owner, ok := b.c.byMetadata[b.qualifiedMeta(u.Name)]; ok {
					if id := b.nestedType(owner, meta); id.IsValid() {
						return id
					}
				}
				continue
			}
			if id, ok := b.c.byMetadata[joinNS(u.Name.QualifiedName(), meta)]; ok {
				return id
			}
		}
	}
	return host.NoSymbol
}

// qualifiedMeta renders a written name as a metadata key, treating every
// segment as a namespace or top-level type.
func (b *binder) qualifiedMeta(t *syntax.TypeRef) string {
	parts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		parts[i] = metadataName(s.Name, len(s.TypeArgs))
	}
	return strings.Join(parts, ".")
}

func (b *binder) resolveAliasType(u *syntax.UsingDirective) host.SymbolID {
	if u.Name == nil {
		return host.NoSymbol
	}
	return b.c.byMetadata[b.qualifiedMeta(u.Name)]
}

func (b *binder) lookupNamespace(sc *scope, name string) (string, bool) {
	for ns := sc.ns; ; {
		if full := joinNS(ns, name); b.c.namespaces[full] {
			return full, true
		}
		if ns == "" {
			break
		}
		if i := strings.LastIndexByte(ns, '.'); i >= 0 {
			ns = ns[:i]
		} else {
			ns = ""
		}
	}
	for _, g := range append(sc.usings[:len(sc.usings):len(sc.usings)], b.global) {
		for _, u := range g {
			if u.Alias == name && u.Name != nil && b.c.namespaces[u.Name.QualifiedName()] {
				return u.Name.QualifiedName(), true
			}
		}
	}
	return "", false
}

// nestedType finds a nested type by metadata name in t or its bases.
func (b *binder) nestedType(t host.SymbolID, meta string) host.SymbolID {
	seen := map[host.SymbolID]bool{}
	for cur := t; cur.IsValid() && !seen[cur]; cur = b.sym(cur).Base.Def {
		seen[cur] = true
		s := b.sym(cur)
		if s.Kind != host.KindType {
			return host.NoSymbol
		}
		for _, m := range s.Members {
			if ms := b.sym(m); ms.Kind == host.KindType && ms.MetadataName == meta {
				return m
			}
		}
	}
	return host.NoSymbol
}
