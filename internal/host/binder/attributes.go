package binder

import (
	"strings"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
)

func (b *binder) bindAttributes([]*syntax.CompilationUnit) {
	n := len(b.c.syms)
	for i := 1; i < n; i++ {
		id := host.SymbolID(i) // #nosec G115 -- bounded by the arena size
		s := b.sym(id)
		var out []host.AttributeData
		switch s.Kind {
		case host.KindType:
			for part, ref := range s.Decls {
				td := ref.Node.(*syntax.TypeDecl)
				out = b.bindLists(out, b.inner[td], td.Attributes, part)
			}
		case host.KindField:
			if fd, ok := s.Decls[0].Node.(*syntax.FieldDecl); ok {
				out = b.bindLists(out, b.parent[id], fd.Attributes, 0)
			}
		case host.KindProperty:
			for part, ref := range s.Decls {
				out = b.bindLists(out, b.parent[id], ref.Node.(*syntax.PropertyDecl).Attributes, part)
			}
		case host.KindMethod:
			for part, ref := range s.Decls {
				out = b.bindLists(out, b.parent[id], ref.Node.(*syntax.MethodDecl).Attributes, part)
			}
		case host.KindParameter:
			if p, ok := b.paramSyntax[id]; ok {
				out = b.bindLists(out, b.parent[id], p.Attributes, 0)
			}
		}
		if len(out) > 0 {
			b.c.attrs[id] = out
		}
	}
}

func (b *binder) bindLists(out []host.AttributeData, sc *scope, lists []*syntax.AttributeList, part int) []host.AttributeData {
	for _, l := range lists {
		for _, a := range l.Attributes {
			out = append(out, b.bindAttribute(sc, l, a, part))
		}
	}
	return out
}

func (b *binder) bindAttribute(sc *scope, l *syntax.AttributeList, a *syntax.Attribute, part int) host.AttributeData {
	data := host.AttributeData{
		Name:       a.Name.Text,
		Target:     l.Target,
		Span:       a.Span,
		ListSpan:   l.Span,
		ListTarget: l.TargetSpan,
		Syntax:     a,
		List:       l,
		Part:       part,
	}
	data.Class = b.resolveAttributeClass(sc, a.Name)
	for _, arg := range a.Args {
		v := b.bindConst(sc, arg.Value)
		if arg.NameEquals == "" {
			data.Args = append(data.Args, v)
			continue
		}
		if data.Class.IsValid() && !b.hasSettable(data.Class, arg.NameEquals) {
			v = host.TypedConstant{Kind: host.ConstError, Text: v.Text}
		}
		data.NamedArgs = append(data.NamedArgs, host.NamedArgument{Name: arg.NameEquals, Value: v})
	}
	if data.Class.IsValid() {
		data.ArgsMismatch = !b.acceptsArgs(data.Class, len(data.Args))
	}
	return data
}

// resolveAttributeClass applies the attribute naming rule: `Foo` binds to
// FooAttribute when it exists, otherwise to Foo. The class must derive from
// System.Attribute.
func (b *binder) resolveAttributeClass(sc *scope, name *syntax.TypeRef) host.SymbolID {
	candidates := []*syntax.TypeRef{name}
	if last := name.SimpleName(); !strings.HasSuffix(last, "Attribute") && len(name.Segments) > 0 {
		suffixed := *name
		suffixed.Segments = append([]syntax.NameSegment(nil), name.Segments...)
		suffixed.Segments[len(suffixed.Segments)-1].Name = last + "Attribute"
		candidates = []*syntax.TypeRef{&suffixed, name}
	}
	for _, cand := range candidates {
		t, ok := b.resolveName(sc, nil, cand)
		if ok && b.c.InheritsFrom(t.Def, "System.Attribute") {
			return t.Def
		}
	}
	b.report(sc, diag.HostTypeNotFound, name.Span, name.QualifiedName())
	return host.NoSymbol
}

func (b *binder) hasSettable(class host.SymbolID, name string) bool {
	for _, m := range b.c.MembersNamed(class, name) {
		if k := b.sym(m).Kind; k == host.KindProperty || k == host.KindField {
			return true
		}
	}
	return false
}

// acceptsArgs reports whether some constructor of class takes n positional
// arguments. A class without declared constructors takes none.
func (b *binder) acceptsArgs(class host.SymbolID, n int) bool {
	declared := false
	for _, m := range b.sym(class).Members {
		ms := b.sym(m)
		if ms.Kind != host.KindMethod || !ms.IsCtor {
			continue
		}
		declared = true
		params := len(ms.Params)
		if params == n {
			return true
		}
		if params > 0 && b.sym(ms.Params[params-1]).IsParams && n >= params-1 {
			return true
		}
		required := 0
		for _, p := range ms.Params {
			if !b.sym(p).HasDefault {
				required++
			}
		}
		if n >= required && n <= params {
			return true
		}
	}
	return !declared && n == 0
}

// bindConst evaluates an attribute argument expression.
func (b *binder) bindConst(sc *scope, e syntax.Expr) host.TypedConstant {
	text := b.c.files.Text(e.ExprSpan())
	switch x := e.(type) {
	case *syntax.LiteralExpr:
		return b.literalConst(x, text)
	case *syntax.NameofExpr:
		return host.TypedConstant{Kind: host.ConstString, String: x.Name, Nameof: true, Text: text, Type: b.special("System.String")}
	case *syntax.TypeofExpr:
		return host.TypedConstant{Kind: host.ConstType, TypeValue: b.resolveType(sc, nil, x.Type), Text: text, Type: b.special("System.Type")}
	case *syntax.NameExpr:
		return b.nameConst(sc, x, text)
	case *syntax.UnaryExpr:
		v := b.bindConst(sc, x.Operand)
		switch {
		case x.Op == "!" && v.Kind == host.ConstBool:
			v.Bool = !v.Bool
		case v.Kind == host.ConstInt || v.Kind == host.ConstEnum:
			r, ok := unaryInt(x.Op, v.Int)
			if !ok {
				return host.TypedConstant{Text: text}
			}
			v.Int = r
		case v.Kind == host.ConstReal && x.Op == "-":
		default:
			return host.TypedConstant{Text: text}
		}
		v.Text = text
		return v
	case *syntax.BinaryExpr:
		l := b.bindConst(sc, x.Left)
		r := b.bindConst(sc, x.Right)
		if l.Kind == host.ConstString && r.Kind == host.ConstString && x.Op == "+" {
			return host.TypedConstant{Kind: host.ConstString, String: l.String + r.String, Text: text, Type: l.Type}
		}
		if !isIntegral(l) || !isIntegral(r) {
			return host.TypedConstant{Text: text}
		}
		v, ok := binaryInt(x.Op, l.Int, r.Int)
		if !ok {
			return host.TypedConstant{Text: text}
		}
		out := l
		if r.Kind == host.ConstEnum {
			out = r
		}
		out.Int = v
		out.Text = text
		return out
	case *syntax.ArrayExpr:
		out := host.TypedConstant{Kind: host.ConstArray, Text: text}
		if x.ElemType != nil {
			out.Type = b.resolveType(sc, nil, x.ElemType)
		}
		for _, el := range x.Elements {
			out.Elems = append(out.Elems, b.bindConst(sc, el))
		}
		if !out.Type.HasDef() && len(out.Elems) > 0 {
			out.Type = out.Elems[0].Type
		}
		return out
	}
	return host.TypedConstant{Kind: host.ConstError, Text: text}
}

func isIntegral(c host.TypedConstant) bool {
	return c.Kind == host.ConstInt || c.Kind == host.ConstEnum
}

func (b *binder) special(name string) host.TypeRef {
	return host.TypeRef{Def: b.c.byMetadata[name]}
}

func (b *binder) literalConst(x *syntax.LiteralExpr, text string) host.TypedConstant {
	switch x.Kind {
	case syntax.LitString:
		return host.TypedConstant{Kind: host.ConstString, String: x.Value, Text: text, Type: b.special("System.String")}
	case syntax.LitChar:
		return host.TypedConstant{Kind: host.ConstChar, String: x.Value, Text: text, Type: b.special("System.Char")}
	case syntax.LitInt:
		v, ok := parseIntLiteral(x.Text)
		if !ok {
			return host.TypedConstant{Text: text}
		}
		return host.TypedConstant{Kind: host.ConstInt, Int: v, Text: text, Type: b.special("System.Int32")}
	case syntax.LitReal:
		return host.TypedConstant{Kind: host.ConstReal, Text: text, Type: b.special("System.Double")}
	case syntax.LitTrue, syntax.LitFalse:
		return host.TypedConstant{Kind: host.ConstBool, Bool: x.Kind == syntax.LitTrue, Text: text, Type: b.special("System.Boolean")}
	}
	return host.TypedConstant{Kind: host.ConstNull, Text: text}
}

// nameConst binds Type.Member to an enum constant.
func (b *binder) nameConst(sc *scope, x *syntax.NameExpr, text string) host.TypedConstant {
	if len(x.Parts) < 2 {
		return host.TypedConstant{Text: text}
	}
	segs := make([]syntax.NameSegment, len(x.Parts)-1)
	for i, p := range x.Parts[:len(x.Parts)-1] {
		segs[i] = syntax.NameSegment{Name: p, Span: x.Span}
	}
	t, ok := b.resolveName(sc, nil, &syntax.TypeRef{Segments: segs, Text: text, Span: x.Span})
	if !ok {
		return host.TypedConstant{Text: text}
	}
	s := b.sym(t.Def)
	if s.Kind != host.KindType || s.TypeKind != host.TypeEnum {
		return host.TypedConstant{Text: text}
	}
	v, ok := s.EnumValues[x.Parts[len(x.Parts)-1]]
	if !ok {
		return host.TypedConstant{Text: text}
	}
	return host.TypedConstant{Kind: host.ConstEnum, Int: v, Type: t, Text: text}
}
