package generator

import (
	"context"
	"slices"

	"mvvmgen/internal/diag"
	"mvvmgen/internal/model"
	"mvvmgen/internal/naming"
)

type propertyState struct {
	report
	f            *PropertyFacts
	names        naming.Pair
	needsPreview bool
	dependents   []string
	commands     []string
	recipients   bool
	validate     bool
	attrs        []model.AttributeInfo
}

var propertyBatches = [][]rule[propertyState]{
	{checkLanguageSupport},
	{checkDeclaration},
	{checkContainingType},
	{checkNameCollision},
	{checkNotifyTargets, checkNotifyCommands, checkRecipients, checkDataErrorInfo, checkPropertyForwarding},
}

// ValidateProperty runs the observable property rules over facts.
func ValidateProperty(ctx context.Context, f PropertyFacts) (SiteResult, error) {
	s := &propertyState{f: &f}
	ok, err := runBatches(ctx, s, propertyBatches)
	if err != nil {
		return SiteResult{}, err
	}
	if !ok {
		return SiteResult{Diagnostics: s.diags, NeedsPreview: s.needsPreview}, nil
	}
	m := s.model()
	return SiteResult{Property: &m, Diagnostics: s.diags}, nil
}

// checkLanguageSupport suppresses partial-property sites when the language
// version has no partial properties. The diagnostic is raised once per
// compilation, not per site.
func checkLanguageSupport(s *propertyState) bool {
	if s.f.Origin == model.OriginPartialProperty && !s.f.LangPreview {
		s.needsPreview = true
		return true
	}
	return false
}

func checkDeclaration(s *propertyState) bool {
	reason := declarationProblem(s.f)
	if reason == "" {
		return false
	}
	s.add(diag.New(diag.InvalidObservablePropertyDeclaration, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member, reason))
	return true
}

func declarationProblem(f *PropertyFacts) string {
	if f.Origin == model.OriginField {
		switch {
		case f.IsConst:
			return "constant fields are not supported"
		case f.IsStatic:
			return "static fields are not supported"
		case f.IsReadonly:
			return "readonly fields are not supported"
		}
		return ""
	}
	switch {
	case !f.IsPartial:
		return "the property must be partial"
	case f.IsIndexer:
		return "indexers are not supported"
	case f.IsStatic:
		return "static properties are not supported"
	case f.Implemented:
		return "the property must not already have an implementation"
	case !f.HasDefinition || !f.HasGetter || f.SetterKind == "":
		return "the property must declare a get accessor and a set or init accessor"
	}
	return ""
}

func checkContainingType(s *propertyState) bool {
	if s.f.ContainingTypeOK {
		return false
	}
	s.add(diag.New(diag.InvalidContainingTypeForObservableProperty, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member))
	return true
}

func checkNameCollision(s *propertyState) bool {
	var err error
	if s.f.Origin == model.OriginPartialProperty {
		s.names, err = naming.PartialProperty(s.f.Site.Member)
	} else {
		s.names, err = naming.Observable(s.f.Site.Member)
	}
	if err != nil || (s.f.Origin == model.OriginField && s.names.Member == s.f.Site.Member) {
		s.add(diag.New(diag.ObservablePropertyNameCollision, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member))
		return true
	}
	return false
}

func checkNotifyTargets(s *propertyState) bool {
	for _, t := range s.f.NotifyFor {
		if !t.Valid {
			s.add(diag.New(diag.NotifyPropertyChangedForInvalidTarget, t.Span, t.Name, s.f.Site.TypeName))
			continue
		}
		if !slices.Contains(s.dependents, t.Name) {
			s.dependents = append(s.dependents, t.Name)
		}
	}
	return false
}

func checkNotifyCommands(s *propertyState) bool {
	for _, t := range s.f.NotifyCommands {
		if !t.Valid {
			s.add(diag.New(diag.NotifyCanExecuteChangedForInvalidTarget, t.Span, t.Name, s.f.Site.TypeName))
			continue
		}
		if !slices.Contains(s.commands, t.Name) {
			s.commands = append(s.commands, t.Name)
		}
	}
	return false
}

func checkRecipients(s *propertyState) bool {
	if !s.f.NotifyRecipients {
		return false
	}
	if !s.f.RecipientBaseOK {
		s.add(diag.New(diag.InvalidNotifyRecipientsContainingType, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member))
		return false
	}
	s.recipients = true
	return false
}

func checkDataErrorInfo(s *propertyState) bool {
	if !s.f.NotifyDataErrorInfo {
		return false
	}
	if !s.f.ValidatorBaseOK {
		s.add(diag.New(diag.InvalidNotifyDataErrorInfoContainingType, s.f.Site.Span, s.f.Site.TypeName, s.f.Site.Member))
		return false
	}
	s.validate = true
	return false
}

func checkPropertyForwarding(s *propertyState) bool {
	for _, fa := range s.f.Forwarded {
		if !fa.Valid {
			s.add(diag.New(diag.InvalidForwardedAttributeOnObservableField, fa.Span, s.f.Site.TypeName, s.f.Site.Member, fa.Written))
			continue
		}
		s.attrs = append(s.attrs, fa.Info)
	}
	return false
}

func (s *propertyState) model() model.PropertyModel {
	f := s.f
	return model.PropertyModel{
		Hierarchy:           f.Hierarchy,
		Origin:              f.Origin,
		Type:                f.Type,
		Names:               s.names,
		Modifiers:           f.Modifiers,
		GetterModifiers:     f.GetterModifiers,
		SetterModifiers:     f.SetterModifiers,
		SetterKeyword:       f.SetterKind,
		DependentProperties: s.dependents,
		DependentCommands:   s.commands,
		NotifyRecipients:    s.recipients,
		NotifyDataErrorInfo: s.validate,
		SupportsChanging:    f.SupportsChanging,
		Attributes:          s.attrs,
		IsRequired:          f.IsRequired,
	}
}

// ValidateRecipient builds the registration model. Recipients have no
// failure modes once detected.
func ValidateRecipient(ctx context.Context, f RecipientFacts) (SiteResult, error) {
	if err := ctx.Err(); err != nil {
		return SiteResult{}, err
	}
	if len(f.Messages) == 0 {
		return SiteResult{}, nil
	}
	return SiteResult{Recipient: &model.RecipientModel{
		Hierarchy: f.Hierarchy,
		TypeName:  f.TypeName,
		Messages:  f.Messages,
	}}, nil
}
