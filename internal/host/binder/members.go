package binder

import (
	"slices"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/host"
)

// declareMembers creates member symbols for every type part, merging partial
// property and method parts.
func (b *binder) declareMembers([]*syntax.CompilationUnit) {
	n := len(b.c.syms)
	for i := 1; i < n; i++ {
		id := host.SymbolID(i) // #nosec G115 -- bounded by the arena size
		if b.sym(id).Kind != host.KindType {
			continue
		}
		decls := b.sym(id).Decls
		for _, ref := range decls {
			td := ref.Node.(*syntax.TypeDecl)
			sc := b.inner[td]
			if td.Kind == syntax.KindEnum {
				b.declareEnumMembers(id, td, ref, sc)
				continue
			}
			for _, m := range td.Members {
				b.declareMember(id, m, ref, sc)
			}
			if td.Kind == syntax.KindRecordClass || td.Kind == syntax.KindRecordStruct {
				for _, p := range td.PrimaryParams {
					pid := b.newSymbol(host.Symbol{
						Kind:          host.KindProperty,
						Name:          p.Name.Name,
						MetadataName:  p.Name.Name,
						Containing:    id,
						Accessibility: host.AccessPublic,
						FromSource:    sc.fromSource,
						HasGetter:     true,
						HasInit:       true,
					})
					b.primary[pid] = primaryParam{param: p, scope: sc}
					b.addMember(id, pid)
				}
			}
		}
	}
}

type primaryParam struct {
	param *syntax.Parameter
	scope *scope
}

func (b *binder) addMember(owner, member host.SymbolID) {
	s := b.sym(owner)
	s.Members = append(s.Members, member)
}

func (b *binder) memberDefault(owner host.SymbolID) host.Accessibility {
	if b.sym(owner).TypeKind == host.TypeInterface {
		return host.AccessPublic
	}
	return host.AccessPrivate
}

func (b *binder) declareMember(owner host.SymbolID, m syntax.Decl, part host.SyntaxRef, sc *scope) {
	def := b.memberDefault(owner)
	switch d := m.(type) {
	case *syntax.FieldDecl:
		for _, v := range d.Declarators {
			id := b.newSymbol(host.Symbol{
				Kind:          host.KindField,
				Name:          v.Name.Name,
				MetadataName:  v.Name.Name,
				Containing:    owner,
				Accessibility: accessibilityOf(d.Modifiers, def),
				Modifiers:     d.Modifiers,
				FromSource:    sc.fromSource,
				Decls:         []host.SyntaxRef{{File: part.File, Span: v.Span, Node: d, Declarator: v, Unit: part.Unit}},
			})
			b.parent[id] = sc
			b.addMember(owner, id)
		}
	case *syntax.PropertyDecl:
		name := d.Name.Name
		if d.IsIndexer {
			name = "this[]"
		}
		ref := host.SyntaxRef{File: part.File, Span: d.Span, Node: d, Unit: part.Unit}
		if d.Modifiers.Has(syntax.ModPartial) {
			if prev := b.findPartial(owner, host.KindProperty, name, nil); prev.IsValid() {
				b.mergePart(prev, ref, d.Modifiers)
				return
			}
		}
		id := b.newSymbol(host.Symbol{
			Kind:          host.KindProperty,
			Name:          name,
			MetadataName:  name,
			Containing:    owner,
			Accessibility: accessibilityOf(d.Modifiers, def),
			Modifiers:     d.Modifiers,
			FromSource:    sc.fromSource,
			IsIndexer:     d.IsIndexer,
			IsPartial:     d.Modifiers.Has(syntax.ModPartial),
			Decls:         []host.SyntaxRef{ref},
		})
		b.parent[id] = sc
		b.addMember(owner, id)
	case *syntax.MethodDecl:
		name := d.Name.Name
		if d.IsConstructor {
			name = ".ctor"
		}
		ref := host.SyntaxRef{File: part.File, Span: d.Span, Node: d, Unit: part.Unit}
		if d.Modifiers.Has(syntax.ModPartial) {
			if prev := b.findPartial(owner, host.KindMethod, name, d.Params); prev.IsValid() {
				b.mergePart(prev, ref, d.Modifiers)
				return
			}
		}
		id := b.newSymbol(host.Symbol{
			Kind:          host.KindMethod,
			Name:          name,
			MetadataName:  name,
			Containing:    owner,
			Accessibility: accessibilityOf(d.Modifiers, def),
			Modifiers:     d.Modifiers,
			FromSource:    sc.fromSource,
			IsCtor:        d.IsConstructor,
			IsPartial:     d.Modifiers.Has(syntax.ModPartial),
			Decls:         []host.SyntaxRef{ref},
		})
		b.parent[id] = sc
		b.addMember(owner, id)
	case *syntax.EventDecl:
		for _, name := range d.Names {
			id := b.newSymbol(host.Symbol{
				Kind:          host.KindEvent,
				Name:          name.Name,
				MetadataName:  name.Name,
				Containing:    owner,
				Accessibility: accessibilityOf(d.Modifiers, def),
				Modifiers:     d.Modifiers,
				FromSource:    sc.fromSource,
				Decls:         []host.SyntaxRef{{File: part.File, Span: name.Span, Node: d, Unit: part.Unit}},
			})
			b.parent[id] = sc
			b.addMember(owner, id)
		}
	}
}

// findPartial returns an existing partial member of owner that a new part
// with the given name and parameters completes.
func (b *binder) findPartial(owner host.SymbolID, kind host.SymbolKind, name string, params []*syntax.Parameter) host.SymbolID {
	for _, mid := range b.sym(owner).Members {
		m := b.sym(mid)
		if m.Kind != kind || m.Name != name || !m.IsPartial {
			continue
		}
		if kind == host.KindMethod {
			prev := m.Decls[0].Node.(*syntax.MethodDecl)
			if !sameParamShapes(prev.Params, params) {
				continue
			}
		}
		return mid
	}
	return host.NoSymbol
}

func sameParamShapes(a, b []*syntax.Parameter) bool {
	return slices.EqualFunc(a, b, func(x, y *syntax.Parameter) bool {
		return x.Modifiers == y.Modifiers && x.Type.Text == y.Type.Text
	})
}

func (b *binder) mergePart(id host.SymbolID, ref host.SyntaxRef, mods syntax.Modifiers) {
	s := b.sym(id)
	s.Decls = append(s.Decls, ref)
	s.Modifiers |= mods
	s.Accessibility = accessibilityOf(s.Modifiers, s.Accessibility)
}

func (b *binder) declareEnumMembers(owner host.SymbolID, td *syntax.TypeDecl, part host.SyntaxRef, sc *scope) {
	s := b.sym(owner)
	if s.EnumValues == nil {
		s.EnumValues = make(map[string]int64, len(td.EnumMembers))
	}
	next := int64(0)
	for _, em := range td.EnumMembers {
		v := next
		if em.Value != nil {
			if c, ok := b.evalEnum(owner, em.Value); ok {
				v = c
			}
		}
		b.sym(owner).EnumValues[em.Name.Name] = v
		next = v + 1
		id := b.newSymbol(host.Symbol{
			Kind:          host.KindField,
			Name:          em.Name.Name,
			MetadataName:  em.Name.Name,
			Containing:    owner,
			Accessibility: host.AccessPublic,
			Modifiers:     syntax.ModPublic | syntax.ModStatic | syntax.ModConst,
			FromSource:    sc.fromSource,
			Type:          host.TypeRef{Def: owner},
			Decls:         []host.SyntaxRef{{File: part.File, Span: em.Name.Span, Node: td, Unit: part.Unit}},
		})
		b.parent[id] = sc
		b.addMember(owner, id)
	}
}

// evalEnum evaluates an enum member initializer. Names refer to earlier
// members of the same enum.
func (b *binder) evalEnum(owner host.SymbolID, e syntax.Expr) (int64, bool) {
	switch x := e.(type) {
	case *syntax.LiteralExpr:
		if x.Kind == syntax.LitInt {
			return parseIntLiteral(x.Text)
		}
	case *syntax.NameExpr:
		v, ok := b.sym(owner).EnumValues[x.Parts[len(x.Parts)-1]]
		return v, ok
	case *syntax.UnaryExpr:
		v, ok := b.evalEnum(owner, x.Operand)
		if !ok {
			return 0, false
		}
		return unaryInt(x.Op, v)
	case *syntax.BinaryExpr:
		l, ok1 := b.evalEnum(owner, x.Left)
		r, ok2 := b.evalEnum(owner, x.Right)
		if !ok1 || !ok2 {
			return 0, false
		}
		return binaryInt(x.Op, l, r)
	}
	return 0, false
}

// bindMemberTypes resolves member types, parameters and accessor shapes.
func (b *binder) bindMemberTypes([]*syntax.CompilationUnit) {
	n := len(b.c.syms)
	for i := 1; i < n; i++ {
		id := host.SymbolID(i) // #nosec G115 -- bounded by the arena size
		s := b.sym(id)
		switch s.Kind {
		case host.KindType:
			if s.TypeKind != host.TypeDelegate {
				continue
			}
			td := s.Decls[0].Node.(*syntax.TypeDecl)
			sc := b.inner[td]
			ret := b.resolveType(sc, nil, td.ReturnType)
			params := b.declareParams(id, sc, nil, td.Params, s.Decls[0])
			s = b.sym(id)
			s.Type = ret
			s.Params = params
		case host.KindField:
			if s.Type.HasDef() {
				continue
			}
			fd, ok := s.Decls[0].Node.(*syntax.FieldDecl)
			if !ok {
				continue
			}
			t := b.resolveType(b.parent[id], nil, fd.Type)
			b.sym(id).Type = t
		case host.KindEvent:
			ed := s.Decls[0].Node.(*syntax.EventDecl)
			t := b.resolveType(b.parent[id], nil, ed.Type)
			b.sym(id).Type = t
		case host.KindProperty:
			b.bindProperty(id)
		case host.KindMethod:
			b.bindMethod(id)
		}
	}
}

func (b *binder) bindProperty(id host.SymbolID) {
	if pp, ok := b.primary[id]; ok {
		t := b.resolveType(pp.scope, nil, pp.param.Type)
		b.sym(id).Type = t
		return
	}
	s := b.sym(id)
	sc := b.parent[id]
	defIdx := 0
	for i, ref := range s.Decls {
		pd := ref.Node.(*syntax.PropertyDecl)
		if !propertyHasBodies(pd) {
			defIdx = i
			break
		}
	}
	pd := s.Decls[defIdx].Node.(*syntax.PropertyDecl)
	t := b.resolveType(sc, nil, pd.Type)
	params := b.declareParams(id, sc, nil, pd.Params, s.Decls[defIdx])
	s = b.sym(id)
	s.Type = t
	s.Params = params
	s.DefinitionPart = defIdx
	s.HasImplementation = len(s.Decls) > 1 || propertyHasBodies(pd)
	if pd.ExpressionBody {
		s.HasGetter = true
		return
	}
	s.HasGetter = pd.Accessor(syntax.AccessorGet) != nil
	s.HasSetter = pd.Accessor(syntax.AccessorSet) != nil
	s.HasInit = pd.Accessor(syntax.AccessorInit) != nil
}

func propertyHasBodies(pd *syntax.PropertyDecl) bool {
	if pd.ExpressionBody {
		return true
	}
	for _, a := range pd.Accessors {
		if a.HasBody {
			return true
		}
	}
	return false
}

func (b *binder) bindMethod(id host.SymbolID) {
	s := b.sym(id)
	sc := b.parent[id]
	defIdx := 0
	hasBody := false
	async := false
	for i, ref := range s.Decls {
		md := ref.Node.(*syntax.MethodDecl)
		if md.HasBody {
			hasBody = true
		} else if s.IsPartial {
			defIdx = i
		}
		async = async || md.Modifiers.Has(syntax.ModAsync)
	}
	md := s.Decls[defIdx].Node.(*syntax.MethodDecl)
	var tps []host.SymbolID
	for _, tp := range md.TypeParams {
		tps = append(tps, b.newSymbol(host.Symbol{
			Kind:       host.KindTypeParameter,
			Name:       tp.Name,
			Containing: id,
			FromSource: sc.fromSource,
		}))
	}
	var ret host.TypeRef
	if md.ReturnType != nil {
		ret = b.resolveType(sc, tps, md.ReturnType)
	}
	params := b.declareParams(id, sc, tps, md.Params, s.Decls[defIdx])
	s = b.sym(id)
	s.TypeParams = tps
	s.Type = ret
	s.Params = params
	s.IsAsync = async
	s.DefinitionPart = defIdx
	s.HasImplementation = hasBody
	if len(tps) > 0 {
		s.MetadataName = metadataName(s.Name, len(tps))
	}
}

func (b *binder) declareParams(owner host.SymbolID, sc *scope, tps []host.SymbolID, params []*syntax.Parameter, part host.SyntaxRef) []host.SymbolID {
	if len(params) == 0 {
		return nil
	}
	out := make([]host.SymbolID, 0, len(params))
	for _, p := range params {
		t := b.resolveType(sc, tps, p.Type)
		rk := host.RefNone
		switch {
		case p.Modifiers&syntax.ParamRef != 0:
			rk = host.RefRef
		case p.Modifiers&syntax.ParamOut != 0:
			rk = host.RefOut
		case p.Modifiers&syntax.ParamIn != 0:
			rk = host.RefIn
		}
		id := b.newSymbol(host.Symbol{
			Kind:       host.KindParameter,
			Name:       p.Name.Name,
			Containing: owner,
			FromSource: sc.fromSource,
			Type:       t,
			RefKind:    rk,
			IsParams:   p.Modifiers&syntax.ParamParams != 0,
			HasDefault: p.Default != nil,
			Decls:      []host.SyntaxRef{{File: part.File, Span: p.Span, Unit: part.Unit}},
		})
		b.paramSyntax[id] = p
		b.parent[id] = sc
		out = append(out, id)
	}
	return out
}
