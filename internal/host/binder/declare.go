package binder

import (
	"strconv"
	"strings"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/host"
)

func joinNS(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}

func metadataName(name string, arity int) string {
	if arity == 0 {
		return name
	}
	return name + "`" + strconv.Itoa(arity)
}

func (b *binder) declareTypes(units []*syntax.CompilationUnit) {
	for _, u := range units {
		sc := &scope{usings: [][]*syntax.UsingDirective{u.Usings}, fromSource: !b.stubs[u]}
		b.declareIn(u, u.Members, sc)
	}
}

func (b *binder) declareIn(u *syntax.CompilationUnit, members []syntax.Decl, sc *scope) {
	for _, m := range members {
		switch d := m.(type) {
		case *syntax.NamespaceDecl:
			ns := joinNS(sc.ns, d.Name)
			b.addNamespace(ns)
			usings := make([][]*syntax.UsingDirective, 0, len(sc.usings)+1)
			usings = append(usings, d.Usings)
			usings = append(usings, sc.usings...)
			b.declareIn(u, d.Members, &scope{ns: ns, usings: usings, fromSource: sc.fromSource})
		case *syntax.TypeDecl:
			id := b.declareType(u, d, sc)
			inner := &scope{ns: sc.ns, usings: sc.usings, outer: id, fromSource: sc.fromSource}
			b.inner[d] = inner
			b.declareIn(u, d.Members, inner)
		}
	}
}

func (b *binder) addNamespace(ns string) {
	for ns != "" {
		b.c.namespaces[ns] = true
		i := strings.LastIndexByte(ns, '.')
		if i < 0 {
			break
		}
		ns = ns[:i]
	}
}

func declKeyword(k syntax.TypeKind) string {
	switch k {
	case syntax.KindRecordClass:
		return "record"
	case syntax.KindRecordStruct:
		return "record struct"
	}
	return k.String()
}

func typeKindOf(k syntax.TypeKind) host.TypeKind {
	switch k {
	case syntax.KindStruct, syntax.KindRecordStruct:
		return host.TypeStruct
	case syntax.KindInterface:
		return host.TypeInterface
	case syntax.KindEnum:
		return host.TypeEnum
	case syntax.KindDelegate:
		return host.TypeDelegate
	}
	return host.TypeClass
}

// declareType creates the symbol for td or merges td into an existing
// partial symbol with the same metadata name.
func (b *binder) declareType(u *syntax.CompilationUnit, td *syntax.TypeDecl, sc *scope) host.SymbolID {
	meta := metadataName(td.Name.Name, len(td.TypeParams))
	var key string
	if sc.outer.IsValid() {
		key = b.c.metaNames[sc.outer] + "+" + meta
	} else {
		key = joinNS(sc.ns, meta)
	}
	ref := host.SyntaxRef{File: u.File, Span: td.Span, Node: td, Unit: u}
	if id, ok := b.c.byMetadata[key]; ok {
		s := b.sym(id)
		s.Decls = append(s.Decls, ref)
		s.Modifiers |= td.Modifiers
		s.IsPartial = s.IsPartial || td.Modifiers.Has(syntax.ModPartial)
		s.Accessibility = accessibilityOf(s.Modifiers, s.Accessibility)
		return id
	}

	def := host.AccessInternal
	if sc.outer.IsValid() {
		def = host.AccessPrivate
		if b.sym(sc.outer).TypeKind == host.TypeInterface {
			def = host.AccessPublic
		}
	}
	kind := typeKindOf(td.Kind)
	id := b.newSymbol(host.Symbol{
		Kind:          host.KindType,
		Name:          td.Name.Name,
		MetadataName:  meta,
		Namespace:     sc.ns,
		Containing:    sc.outer,
		Accessibility: accessibilityOf(td.Modifiers, def),
		Modifiers:     td.Modifiers,
		FromSource:    sc.fromSource,
		TypeKind:      kind,
		IsRecord:      td.Kind == syntax.KindRecordClass || td.Kind == syntax.KindRecordStruct,
		IsRefLike:     kind == host.TypeStruct && td.Modifiers.Has(syntax.ModRef),
		IsPartial:     td.Modifiers.Has(syntax.ModPartial),
		DeclKeyword:   declKeyword(td.Kind),
		Decls:         []host.SyntaxRef{ref},
	})
	b.c.metaNames[id] = key
	b.c.byMetadata[key] = id
	for _, tp := range td.TypeParams {
		tpID := b.newSymbol(host.Symbol{
			Kind:       host.KindTypeParameter,
			Name:       tp.Name,
			Containing: id,
			FromSource: sc.fromSource,
		})
		s := b.sym(id)
		s.TypeParams = append(s.TypeParams, tpID)
	}
	if sc.outer.IsValid() {
		outer := b.sym(sc.outer)
		outer.Members = append(outer.Members, id)
	}
	return id
}

// bindHeaders resolves base lists and delegate signatures.
func (b *binder) bindHeaders([]*syntax.CompilationUnit) {
	n := len(b.c.syms)
	for i := 1; i < n; i++ {
		id := host.SymbolID(i) // #nosec G115 -- bounded by the arena size
		s := b.sym(id)
		if s.Kind != host.KindType {
			continue
		}
		for _, ref := range s.Decls {
			td := ref.Node.(*syntax.TypeDecl)
			sc := b.inner[td]
			for j, base := range td.Bases {
				t := b.resolveType(sc, nil, base)
				s = b.sym(id)
				isClassBase := j == 0 && s.TypeKind == host.TypeClass && !s.Base.HasDef() &&
					(t.IsError() || b.sym(t.Def).Kind == host.KindType && b.sym(t.Def).TypeKind == host.TypeClass)
				if isClassBase {
					s.Base = t
					continue
				}
				s.Interfaces = append(s.Interfaces, t)
			}
		}
		b.defaultBase(id)
	}
}

func (b *binder) defaultBase(id host.SymbolID) {
	s := b.sym(id)
	if s.Base.HasDef() || s.Base.Written != "" {
		return
	}
	var base string
	switch s.TypeKind {
	case host.TypeClass:
		base = "System.Object"
	case host.TypeStruct:
		base = "System.ValueType"
	case host.TypeEnum:
		base = "System.Enum"
	case host.TypeDelegate:
		base = "System.Delegate"
	default:
		return
	}
	if b.c.metaNames[id] == base {
		return
	}
	if def, ok := b.c.byMetadata[base]; ok {
		s.Base = host.TypeRef{Def: def}
	}
}
