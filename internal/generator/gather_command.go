package generator

import (
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/host"
	"mvvmgen/internal/naming"
)

// commandFacts snapshots everything the command rules read for one method.
func commandFacts(c host.Compilation, cand Candidate, style naming.FieldStyle) CommandFacts {
	m := c.Symbol(cand.Symbol)
	f := CommandFacts{
		Site:      Site{TypeName: displayName(c, cand.Type), Member: m.Name, Span: cand.Span},
		Hierarchy: hierarchyOf(c, cand.Type),
		Style:     style,
		Duplicate: hasDuplicateCommand(c, cand.Type, cand.Symbol),
		Return:    returnKind(c, m.Type),
		IsAsync:   m.IsAsync,
	}
	for _, p := range m.Params {
		f.Params = append(f.Params, paramFacts(c, c.Symbol(p)))
	}

	marker := cand.Marker
	f.AllowConcurrent = namedBool(&marker, "AllowConcurrentExecutions")
	f.FlowExceptions = namedBool(&marker, "FlowExceptionsToTaskScheduler")
	f.IncludeCancel = namedBool(&marker, "IncludeCancelCommand")
	if v, ok := marker.Named("CanExecute"); ok && v.Kind == host.ConstString && v.String != "" {
		f.CanExecute = v.String
		f.CanExecuteSpan = marker.Span
		f.Predicates = predicateMembers(c, cand.Type, v.String)
		if len(f.Predicates) == 0 {
			f.Companion, f.CompanionBool = observableCompanion(c, cand.Type, v.String)
		}
	}

	for _, a := range c.Attributes(cand.Symbol) {
		if a.Target == "field" || a.Target == "property" {
			f.Forwarded = append(f.Forwarded, forwarded(c, a, a.Target))
		}
	}
	return f
}

func namedBool(a *host.AttributeData, name string) bool {
	v, ok := a.Named(name)
	return ok && v.Kind == host.ConstBool && v.Bool
}

// hasDuplicateCommand reports another [RelayCommand] method with the same
// name in t or its base chain. Lookup only walks upward, so a base method is
// never blamed for a derived one.
func hasDuplicateCommand(c host.Compilation, t, method host.SymbolID) bool {
	name := c.Symbol(method).Name
	for _, id := range c.MembersNamed(t, name) {
		if c.SameSymbol(id, method) {
			continue
		}
		if c.Symbol(id).Kind == host.KindMethod && hasAttribute(c, id, relayCommandAttr) {
			return true
		}
	}
	return false
}

func returnKind(c host.Compilation, t host.TypeRef) ReturnKind {
	switch {
	case isType(c, t, voidType):
		return ReturnVoid
	case derivesFrom(c, t, taskType):
		return ReturnTask
	}
	return ReturnOther
}

func paramFacts(c host.Compilation, p *host.Symbol) ParamFacts {
	pf := ParamFacts{Type: typeDisplay(c, p.Type), Eligible: eligibleParam(c, p)}
	pf.CancellationToken = pf.Eligible && isType(c, p.Type, cancellationTokenType)
	return pf
}

// eligibleParam rejects by-ref, byref-like and pointer parameters.
func eligibleParam(c host.Compilation, p *host.Symbol) bool {
	if p.RefKind != host.RefNone || p.Type.IsPointer() {
		return false
	}
	if p.Type.HasDef() && !p.Type.IsArray() {
		if s := c.Symbol(p.Type.Def); s.Kind == host.KindType && s.IsRefLike {
			return false
		}
	}
	return true
}

// predicateMembers lists the members a CanExecute name can bind to. An
// override hides nothing new, so only the member it overrides is kept.
func predicateMembers(c host.Compilation, t host.SymbolID, name string) []PredicateMember {
	var out []PredicateMember
	for _, id := range c.MembersNamed(t, name) {
		s := c.Symbol(id)
		if s.Modifiers.Has(syntax.ModOverride) {
			continue
		}
		pm := PredicateMember{}
		switch s.Kind {
		case host.KindProperty:
			pm.Kind = MemberProperty
			pm.ReturnsBool = isType(c, s.Type, booleanType)
			pm.IsIndexer = s.IsIndexer
		case host.KindMethod:
			if s.IsCtor {
				continue
			}
			pm.Kind = MemberMethod
			pm.ReturnsBool = isType(c, s.Type, booleanType)
			for _, p := range s.Params {
				ps := c.Symbol(p)
				if eligibleParam(c, ps) {
					pm.Params = append(pm.Params, typeDisplay(c, ps.Type))
				} else {
					pm.Params = append(pm.Params, "")
				}
			}
		}
		out = append(out, pm)
	}
	return out
}

// observableCompanion looks for an [ObservableProperty] field in t or its
// bases whose generated property is called name.
func observableCompanion(c host.Compilation, t host.SymbolID, name string) (found, isBool bool) {
	id, ok := generatedPropertyField(c, t, name)
	if !ok {
		return false, false
	}
	return true, isType(c, c.Symbol(id).Type, booleanType)
}

func generatedPropertyField(c host.Compilation, t host.SymbolID, name string) (host.SymbolID, bool) {
	for _, cur := range typeAndBases(c, t) {
		for _, m := range c.Symbol(cur).Members {
			s := c.Symbol(m)
			if s.Kind != host.KindField || naming.PropertyName(s.Name) != name {
				continue
			}
			if hasAttribute(c, m, observablePropertyAttr) {
				return m, true
			}
		}
	}
	return host.NoSymbol, false
}

// generatedCommandExists reports a [RelayCommand] method in t or its bases
// whose generated command property is called name.
func generatedCommandExists(c host.Compilation, t host.SymbolID, name string) bool {
	for _, cur := range typeAndBases(c, t) {
		for _, m := range c.Symbol(cur).Members {
			s := c.Symbol(m)
			if s.Kind != host.KindMethod || s.IsCtor || !hasAttribute(c, m, relayCommandAttr) {
				continue
			}
			if naming.CommandStem(s.Name, returnKind(c, s.Type) == ReturnTask)+"Command" == name {
				return true
			}
		}
	}
	return false
}

func typeAndBases(c host.Compilation, t host.SymbolID) []host.SymbolID {
	return append([]host.SymbolID{t}, c.BaseChain(t)...)
}
