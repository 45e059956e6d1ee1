package generator

import (
	"strconv"
	"strings"

	"mvvmgen/internal/host"
	"mvvmgen/internal/model"
)

// hierarchyOf snapshots the containing-type chain of t.
func hierarchyOf(c host.Compilation, t host.SymbolID) model.Hierarchy {
	h := model.Hierarchy{MetadataName: c.FullMetadataName(t)}
	var chain []model.TypeInfo
	top := t
	for cur := t; cur.IsValid(); cur = c.Symbol(cur).Containing {
		s := c.Symbol(cur)
		if s.Kind != host.KindType {
			break
		}
		info := model.TypeInfo{Keyword: s.DeclKeyword, Name: s.Name}
		for _, tp := range s.TypeParams {
			info.TypeParams = append(info.TypeParams, c.Symbol(tp).Name)
		}
		chain = append([]model.TypeInfo{info}, chain...)
		top = cur
	}
	h.Namespace = c.Symbol(top).Namespace
	h.Types = chain
	return h
}

// displayName is the containing type as shown in messages.
func displayName(c host.Compilation, t host.SymbolID) string {
	return strings.TrimPrefix(c.FullyQualifiedName(t), "global::")
}

// typeDisplay renders a type fully qualified for generated code.
func typeDisplay(c host.Compilation, t host.TypeRef) string {
	return c.TypeDisplay(t, true)
}

// isType reports whether t names exactly the type with the metadata name.
func isType(c host.Compilation, t host.TypeRef, metadataName string) bool {
	return t.HasDef() && !t.Nullable && !t.IsArray() && !t.IsPointer() &&
		c.FullMetadataName(t.Def) == metadataName
}

// derivesFrom reports whether t is or derives from the type with the metadata name.
func derivesFrom(c host.Compilation, t host.TypeRef, metadataName string) bool {
	if !t.HasDef() || t.IsArray() || t.IsPointer() {
		return false
	}
	base, ok := c.WellKnownType(metadataName)
	if !ok {
		return false
	}
	return c.IsDerivedFrom(t, base)
}

// forwarded snapshots an attribute applied with an explicit target so it
// can be rendered onto a generated member.
func forwarded(c host.Compilation, a host.AttributeData, target string) ForwardedAttribute {
	fa := ForwardedAttribute{Target: target, Span: a.Span, Written: attributeSpelling(c, a)}
	if a.HasErrors() {
		return fa
	}
	info := model.AttributeInfo{Type: c.FullyQualifiedName(a.Class)}
	for _, arg := range a.Args {
		v, ok := renderConstant(c, arg)
		if !ok {
			return fa
		}
		info.Args = append(info.Args, v)
	}
	for _, n := range a.NamedArgs {
		v, ok := renderConstant(c, n.Value)
		if !ok {
			return fa
		}
		info.Named = append(info.Named, model.NamedArg{Name: n.Name, Value: v})
	}
	fa.Valid = true
	fa.Info = info
	return fa
}

func attributeSpelling(c host.Compilation, a host.AttributeData) string {
	if a.Syntax != nil && a.Syntax.Name != nil {
		return a.Syntax.Name.Text
	}
	if a.Name != "" {
		return a.Name
	}
	return c.Files().Text(a.Span)
}

// renderConstant spells a typed constant as a C# expression that does not
// depend on the usings of the generated file.
func renderConstant(c host.Compilation, v host.TypedConstant) (string, bool) {
	switch v.Kind {
	case host.ConstNull:
		return "null", true
	case host.ConstBool:
		return strconv.FormatBool(v.Bool), true
	case host.ConstInt:
		return strconv.FormatInt(v.Int, 10), true
	case host.ConstReal:
		return strings.TrimSpace(v.Text), true
	case host.ConstString:
		return quoteString(v.String), true
	case host.ConstChar:
		return quoteChar(v.String), true
	case host.ConstEnum:
		if !v.Type.HasDef() {
			return "", false
		}
		n := strconv.FormatInt(v.Int, 10)
		if v.Int < 0 {
			n = "(" + n + ")"
		}
		return "(" + typeDisplay(c, v.Type) + ")" + n, true
	case host.ConstType:
		if v.TypeValue.IsError() {
			return "", false
		}
		return "typeof(" + typeDisplay(c, v.TypeValue) + ")", true
	case host.ConstArray:
		if !v.Type.HasDef() && len(v.Type.Tuple) == 0 {
			return "", false
		}
		elems := make([]string, 0, len(v.Elems))
		for _, e := range v.Elems {
			s, ok := renderConstant(c, e)
			if !ok {
				return "", false
			}
			elems = append(elems, s)
		}
		if len(elems) == 0 {
			return "new " + typeDisplay(c, v.Type) + "[] { }", true
		}
		return "new " + typeDisplay(c, v.Type) + "[] { " + strings.Join(elems, ", ") + " }", true
	}
	return "", false
}

func quoteString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		writeEscaped(&sb, r, '"')
	}
	sb.WriteByte('"')
	return sb.String()
}

func quoteChar(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		writeEscaped(&sb, r, '\'')
	}
	sb.WriteByte('\'')
	return sb.String()
}

func writeEscaped(sb *strings.Builder, r rune, quote rune) {
	switch r {
	case '\\':
		sb.WriteString(`\\`)
	case '\n':
		sb.WriteString(`\n`)
	case '\r':
		sb.WriteString(`\r`)
	case '\t':
		sb.WriteString(`\t`)
	case 0:
		sb.WriteString(`\0`)
	case quote:
		sb.WriteByte('\\')
		sb.WriteRune(r)
	default:
		if r < 0x20 {
			sb.WriteString(`\u00`)
			sb.WriteString(strconv.FormatInt(int64(r)>>4&0xf, 16))
			sb.WriteString(strconv.FormatInt(int64(r)&0xf, 16))
			return
		}
		sb.WriteRune(r)
	}
}
