package binder

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/host"
)

// indexReferences binds identifier occurrences in member bodies and
// initializers to fields and properties of the enclosing type chain.
// Parameters shadow members unless the reference is this-qualified.
func (b *binder) indexReferences([]*syntax.CompilationUnit) {
	for i := 1; i < len(b.c.syms); i++ {
		id := host.SymbolID(i) // #nosec G115 -- bounded by the arena size
		s := b.sym(id)
		if !s.FromSource || len(s.Decls) == 0 {
			continue
		}
		switch s.Kind {
		case host.KindField:
			fd, ok := s.Decls[0].Node.(*syntax.FieldDecl)
			if !ok || s.Decls[0].Declarator == nil || s.Decls[0].Declarator.Initializer == nil {
				continue
			}
			init := s.Decls[0].Declarator.Initializer.ExprSpan()
			for _, r := range fd.Refs {
				if init.Contains(r.Span) {
					b.bindRef(id, r, nil)
				}
			}
		case host.KindProperty:
			shadow := b.paramNames(s.Params)
			shadow["value"] = true
			for _, ref := range s.Decls {
				for _, r := range ref.Node.(*syntax.PropertyDecl).Refs {
					b.bindRef(id, r, shadow)
				}
			}
		case host.KindMethod:
			shadow := b.paramNames(s.Params)
			for _, ref := range s.Decls {
				for _, r := range ref.Node.(*syntax.MethodDecl).Refs {
					b.bindRef(id, r, shadow)
				}
			}
		}
	}
}

func (b *binder) paramNames(params []host.SymbolID) map[string]bool {
	out := make(map[string]bool, len(params)+1)
	for _, p := range params {
		out[b.sym(p).Name] = true
	}
	return out
}

func (b *binder) bindRef(container host.SymbolID, r syntax.IdentRef, shadow map[string]bool) {
	if r.Flags&syntax.RefMemberAccess != 0 {
		return
	}
	if shadow[r.Name] && r.Flags&syntax.RefThisQualified == 0 {
		return
	}
	owner := b.sym(container).Containing
	for _, m := range b.c.MembersNamed(owner, r.Name) {
		if k := b.sym(m).Kind; k != host.KindField && k != host.KindProperty {
			continue
		}
		b.c.refs[m] = append(b.c.refs[m], host.Reference{
			Span:         r.Span,
			Container:    container,
			InNameof:     r.Flags&syntax.RefInNameof != 0,
			AssignTarget: r.Flags&syntax.RefAssignTarget != 0,
		})
		return
	}
}
