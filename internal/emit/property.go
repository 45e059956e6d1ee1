package emit

import (
	"errors"
	"slices"
	"strings"

	"mvvmgen/internal/model"
	"mvvmgen/internal/naming"
)

const (
	equalityComparer = "global::System.Collections.Generic.EqualityComparer"
	oldValue         = "__oldValue"
)

// Properties renders every observable property of one type into a single
// file. The group must share one hierarchy.
func Properties(group []model.PropertyModel, opts Options) (Source, error) {
	if len(group) == 0 {
		return Source{}, errors.New("emit: empty property group")
	}
	h := group[0].Hierarchy
	for _, m := range group[1:] {
		if m.Hierarchy.MetadataName != h.MetadataName {
			return Source{}, errors.New("emit: property group spans " + h.MetadataName + " and " + m.Hierarchy.MetadataName)
		}
	}
	e := newEmitter(opts)
	n := e.openHierarchy(h)
	for i, m := range group {
		if i > 0 {
			e.line("")
		}
		e.property(m)
	}
	for _, m := range group {
		e.line("")
		e.hooks(m)
	}
	e.closeBlocks(n)
	return Source{HintName: PropertiesHint(h), Text: e.text()}, nil
}

func (e *Emitter) property(m model.PropertyModel) {
	name, field := m.Names.Member, m.Names.Field
	if m.Origin == model.OriginField {
		e.line("/// <inheritdoc cref=\"%s\"/>", field)
	} else {
		e.line("/// <inheritdoc/>")
	}
	e.generatedCode()
	e.excludeFromCoverage()
	e.attributes(m.Attributes)
	e.line("%s %s", declarationModifiers(m), m.Type+" "+name)
	e.open()
	e.line("%sget => %s;", accessorPrefix(m.GetterModifiers), field)
	e.line("%s%s", accessorPrefix(m.SetterModifiers), m.SetterKeyword)
	e.open()
	e.line("if (!%s<%s>.Default.Equals(%s, value))", equalityComparer, m.Type, field)
	e.open()
	e.line("%s %s = %s;", m.Type, oldValue, field)
	e.line("%s(value);", naming.ChangingHook(name))
	e.line("%s(%s, value);", naming.ChangingHook(name), oldValue)
	if m.SupportsChanging {
		e.line("OnPropertyChanging(%q);", name)
	}
	e.line("%s = value;", field)
	e.line("%s(value);", naming.ChangedHook(name))
	e.line("%s(%s, value);", naming.ChangedHook(name), oldValue)
	e.line("OnPropertyChanged(%q);", name)
	if m.NotifyDataErrorInfo {
		e.line("ValidateProperty(value, %q);", name)
	}
	for _, dep := range m.DependentProperties {
		e.line("OnPropertyChanged(%q);", dep)
	}
	for _, cmd := range m.DependentCommands {
		e.line("%s.NotifyCanExecuteChanged();", cmd)
	}
	if m.NotifyRecipients {
		e.line("Broadcast(%s, value, %q);", oldValue, name)
	}
	e.close()
	e.close()
	e.close()
}

// hooks declares the four partial change hooks of one property.
func (e *Emitter) hooks(m model.PropertyModel) {
	name := m.Names.Member
	for i, h := range []struct {
		method, verb, when string
	}{
		{naming.ChangingHook(name), "is changing", "right before"},
		{naming.ChangedHook(name), "just changed", "right after"},
	} {
		if i > 0 {
			e.line("")
		}
		e.line("/// <summary>Executes the logic for when <see cref=\"%s\"/> %s.</summary>", name, h.verb)
		e.line("/// <param name=\"value\">The new property value being set.</param>")
		e.line("/// <remarks>This method is invoked %s the value of <see cref=\"%s\"/> is changed.</remarks>", h.when, name)
		e.generatedCode()
		e.line("partial void %s(%s value);", h.method, m.Type)
		e.line("")
		e.line("/// <summary>Executes the logic for when <see cref=\"%s\"/> %s.</summary>", name, h.verb)
		e.line("/// <param name=\"oldValue\">The previous property value that is being replaced.</param>")
		e.line("/// <param name=\"newValue\">The new property value being set.</param>")
		e.line("/// <remarks>This method is invoked %s the value of <see cref=\"%s\"/> is changed.</remarks>", h.when, name)
		e.generatedCode()
		e.line("partial void %s(%s oldValue, %s newValue);", h.method, m.Type, m.Type)
	}
}

// declarationModifiers orders the declared modifiers before required and
// partial.
func declarationModifiers(m model.PropertyModel) string {
	mods := strings.Fields(m.Modifiers)
	if len(mods) == 0 {
		mods = []string{"public"}
	}
	if m.IsRequired && !slices.Contains(mods, "required") {
		mods = append(mods, "required")
	}
	if m.Origin == model.OriginPartialProperty && !slices.Contains(mods, "partial") {
		mods = append(mods, "partial")
	}
	return strings.Join(mods, " ")
}

func accessorPrefix(mods string) string {
	if mods == "" {
		return ""
	}
	return mods + " "
}
