package generator

import (
	"slices"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/host"
	"mvvmgen/internal/model"
	"mvvmgen/internal/naming"
)

// propertyFacts snapshots everything the observable property rules read for
// one field or partial property.
func propertyFacts(c host.Compilation, cand Candidate) PropertyFacts {
	s := c.Symbol(cand.Symbol)
	lang := c.LanguageVersion()
	f := PropertyFacts{
		Site:        Site{TypeName: displayName(c, cand.Type), Member: s.Name, Span: cand.Span},
		Hierarchy:   hierarchyOf(c, cand.Type),
		Type:        typeDisplay(c, s.Type),
		LangPreview: lang.IsPreview(),
		LangVersion: string(lang),
	}
	generated := s.Name
	switch cand.Kind {
	case KindObservableField:
		f.Origin = model.OriginField
		f.IsStatic = s.Modifiers.Has(syntax.ModStatic)
		f.IsConst = s.Modifiers.Has(syntax.ModConst)
		f.IsReadonly = s.Modifiers.Has(syntax.ModReadonly)
		f.HasDefinition = true
		f.HasGetter = true
		f.SetterKind = "set"
		f.Modifiers = "public"
		f.IsRequired = s.Modifiers.Has(syntax.ModRequired)
		generated = naming.PropertyName(s.Name)
		f.Forwarded = fieldForwardedAttributes(c, cand.Symbol)
	case KindObservableProperty:
		f.Origin = model.OriginPartialProperty
		f.IsStatic = s.IsStatic()
		f.IsPartial = s.IsPartial
		f.IsIndexer = s.IsIndexer
		partialPropertyShape(s, &f)
	}

	t := cand.Type
	f.ContainingTypeOK = c.Implements(t, notifyPropertyChanged) ||
		chainHasAttribute(c, t, observableObjectAttr) || chainHasAttribute(c, t, inotifyPropertyAttr)
	f.SupportsChanging = c.Implements(t, notifyPropertyChanging) || chainHasAttribute(c, t, observableObjectAttr)

	for _, a := range c.Attributes(cand.Symbol) {
		if (a.Target != "" && a.Target != "property") || !a.Class.IsValid() {
			continue
		}
		switch c.FullMetadataName(a.Class) {
		case notifyChangedForAttr:
			for _, name := range attributeNames(a) {
				name.Valid = name.Valid && propertyTargetExists(c, t, name.Name, generated)
				f.NotifyFor = append(f.NotifyFor, name)
			}
		case notifyCanExecuteForAttr:
			for _, name := range attributeNames(a) {
				name.Valid = name.Valid && commandTargetExists(c, t, name.Name)
				f.NotifyCommands = append(f.NotifyCommands, name)
			}
		}
	}

	f.NotifyRecipients = hasAttribute(c, cand.Symbol, notifyRecipientsAttr) || hasAttribute(c, t, notifyRecipientsAttr)
	f.RecipientBaseOK = c.InheritsFrom(t, observableRecipientType) || chainHasAttribute(c, t, observableRecipientAttr)
	f.NotifyDataErrorInfo = hasAttribute(c, cand.Symbol, notifyDataErrorInfoAttr) || hasAttribute(c, t, notifyDataErrorInfoAttr)
	f.ValidatorBaseOK = c.InheritsFrom(t, observableValidatorType)
	return f
}

// partialPropertyShape records accessor and modifier data of the bodiless
// definition part.
func partialPropertyShape(s *host.Symbol, f *PropertyFacts) {
	for _, ref := range s.Decls {
		pd, ok := ref.Node.(*syntax.PropertyDecl)
		if !ok {
			continue
		}
		if hasAccessorBodies(pd) {
			f.Implemented = true
		} else {
			f.HasDefinition = true
		}
	}
	pd, ok := s.Decls[s.DefinitionPart].Node.(*syntax.PropertyDecl)
	if !ok {
		return
	}
	if get := pd.Accessor(syntax.AccessorGet); get != nil {
		f.HasGetter = true
		f.GetterModifiers = get.Modifiers.String()
	}
	for _, k := range []syntax.AccessorKind{syntax.AccessorSet, syntax.AccessorInit} {
		if acc := pd.Accessor(k); acc != nil {
			f.SetterKind = k.String()
			f.SetterModifiers = acc.Modifiers.String()
			break
		}
	}
	f.Modifiers = (pd.Modifiers &^ (syntax.ModPartial | syntax.ModRequired)).String()
	f.IsRequired = pd.Modifiers.Has(syntax.ModRequired)
}

func hasAccessorBodies(pd *syntax.PropertyDecl) bool {
	if pd.ExpressionBody {
		return true
	}
	return slices.ContainsFunc(pd.Accessors, func(a *syntax.Accessor) bool { return a.HasBody })
}

// fieldForwardedAttributes collects `property:` attributes and untargeted
// validation attributes of an observable field.
func fieldForwardedAttributes(c host.Compilation, field host.SymbolID) []ForwardedAttribute {
	var out []ForwardedAttribute
	for _, a := range c.Attributes(field) {
		switch {
		case a.Target == "property":
			out = append(out, forwarded(c, a, "property"))
		case a.Target == "" && a.Class.IsValid() && c.InheritsFrom(a.Class, validationAttributeType):
			out = append(out, forwarded(c, a, "property"))
		}
	}
	return out
}

// attributeNames flattens the string arguments of a notification attribute.
// Arguments that are not strings become invalid entries.
func attributeNames(a host.AttributeData) []TargetName {
	var out []TargetName
	var visit func(v host.TypedConstant)
	visit = func(v host.TypedConstant) {
		switch v.Kind {
		case host.ConstArray:
			for _, e := range v.Elems {
				visit(e)
			}
		case host.ConstString:
			out = append(out, TargetName{Name: v.String, Span: a.Span, Valid: v.String != ""})
		default:
			out = append(out, TargetName{Name: v.Text, Span: a.Span})
		}
	}
	for _, v := range a.Args {
		visit(v)
	}
	return out
}

// propertyTargetExists reports a property other than self, or a generated
// observable property, called name in t or its bases.
func propertyTargetExists(c host.Compilation, t host.SymbolID, name, self string) bool {
	if name == self {
		return false
	}
	for _, id := range c.MembersNamed(t, name) {
		if s := c.Symbol(id); s.Kind == host.KindProperty && !s.IsIndexer {
			return true
		}
	}
	_, ok := generatedPropertyField(c, t, name)
	return ok
}

// commandTargetExists reports an IRelayCommand property, or a generated
// command, called name in t or its bases.
func commandTargetExists(c host.Compilation, t host.SymbolID, name string) bool {
	for _, id := range c.MembersNamed(t, name) {
		if s := c.Symbol(id); s.Kind == host.KindProperty && derivesFrom(c, s.Type, relayCommandInterface) {
			return true
		}
	}
	return generatedCommandExists(c, t, name)
}

// chainHasAttribute reports the attribute on t or any base type.
func chainHasAttribute(c host.Compilation, t host.SymbolID, metadataName string) bool {
	for _, cur := range typeAndBases(c, t) {
		if hasAttribute(c, cur, metadataName) {
			return true
		}
	}
	return false
}

// recipientFacts lists the closed message types of IRecipient<T> in the
// interface closure of t, without duplicates.
func recipientFacts(c host.Compilation, cand Candidate) RecipientFacts {
	f := RecipientFacts{
		Hierarchy: hierarchyOf(c, cand.Type),
		TypeName:  c.FullyQualifiedName(cand.Type),
	}
	for _, i := range c.AllInterfaces(cand.Type) {
		if c.FullMetadataName(i.Def) != recipientInterface || len(i.Args) != 1 {
			continue
		}
		msg := typeDisplay(c, i.Args[0])
		if !slices.Contains(f.Messages, msg) {
			f.Messages = append(f.Messages, msg)
		}
	}
	return f
}
