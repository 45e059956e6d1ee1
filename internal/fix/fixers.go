package fix

import (
	"context"
	"strings"

	"mvvmgen/internal/analyzers"
	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/diag"
	"mvvmgen/internal/host"
)

// Fixer computes the repair for one diagnostic code. Compute returns false
// when a prerequisite is missing; the site is then left untouched.
type Fixer interface {
	Code() diag.Code
	Title() string
	EquivalenceKey() string
	Compute(ctx context.Context, c host.Compilation, d *diag.Diagnostic) (Fix, bool)
}

var registry = []Fixer{
	usePartialProperty{},
	useGeneratedProperty{},
}

// Fixers returns every registered fixer.
func Fixers() []Fixer { return append([]Fixer(nil), registry...) }

// Lookup returns the fixer registered for code.
func Lookup(code diag.Code) (Fixer, bool) {
	for _, f := range registry {
		if f.Code() == code {
			return f, true
		}
	}
	return nil, false
}

// useGeneratedProperty swaps a backing field reference for the generated
// property.
type useGeneratedProperty struct{}

func (useGeneratedProperty) Code() diag.Code {
	return diag.FieldReferenceForObservablePropertyField
}
func (useGeneratedProperty) Title() string          { return "Reference the generated property" }
func (useGeneratedProperty) EquivalenceKey() string { return "UseGeneratedProperty" }

func (f useGeneratedProperty) Compute(_ context.Context, c host.Compilation, d *diag.Diagnostic) (Fix, bool) {
	field, ok := d.Property(analyzers.PropFieldName)
	if !ok {
		return Fix{}, false
	}
	prop, ok := d.Property(analyzers.PropPropertyName)
	if !ok || prop == "" || c.Files().Get(d.Primary.File) == nil {
		return Fix{}, false
	}
	return New(f.Title(), []TextEdit{Replace(d.Primary, prop, field)},
		WithCode(f.Code()), WithEquivalenceKey(f.EquivalenceKey())), true
}

// Attribute types that stay on the generated property without a target.
var propertyMarkers = map[string]bool{
	"CommunityToolkit.Mvvm.ComponentModel.ObservablePropertyAttribute":             true,
	"CommunityToolkit.Mvvm.ComponentModel.NotifyPropertyChangedForAttribute":       true,
	"CommunityToolkit.Mvvm.ComponentModel.NotifyCanExecuteChangedForAttribute":     true,
	"CommunityToolkit.Mvvm.ComponentModel.NotifyDataErrorInfoAttribute":            true,
	"CommunityToolkit.Mvvm.ComponentModel.NotifyPropertyChangedRecipientsAttribute": true,
}

const (
	observablePropertyAttr = "CommunityToolkit.Mvvm.ComponentModel.ObservablePropertyAttribute"
	validationAttribute    = "System.ComponentModel.DataAnnotations.ValidationAttribute"
)

// usePartialProperty turns an [ObservableProperty] field into a partial
// property and points the field's references at the property.
type usePartialProperty struct{}

func (usePartialProperty) Code() diag.Code {
	return diag.UseObservablePropertyOnPartialProperty
}
func (usePartialProperty) Title() string          { return "Use a partial property" }
func (usePartialProperty) EquivalenceKey() string { return "UsePartialProperty" }

func (f usePartialProperty) Compute(_ context.Context, c host.Compilation, d *diag.Diagnostic) (Fix, bool) {
	fieldName, ok := d.Property(analyzers.PropFieldName)
	if !ok {
		return Fix{}, false
	}
	propName, ok := d.Property(analyzers.PropPropertyName)
	if !ok || propName == "" {
		return Fix{}, false
	}
	if _, ok := c.WellKnownType(observablePropertyAttr); !ok {
		return Fix{}, false
	}
	id, decl, ok := findField(c, fieldName, d)
	if !ok {
		return Fix{}, false
	}
	if len(decl.Declarators) != 1 || decl.Declarators[0].Initializer != nil || decl.Type == nil {
		return Fix{}, false
	}
	file := c.Files().Get(decl.Span.File)
	if file == nil {
		return Fix{}, false
	}

	layout, ok := redistribute(c, id, decl)
	if !ok {
		return Fix{}, false
	}

	sep := " "
	if indent, ok := lineIndent(file.Content, decl.Span.Start); ok {
		sep = "\n" + indent
	}
	parts := make([]string, 0, len(layout.lists)+1)
	parts = append(parts, layout.lists...)
	parts = append(parts, propertyDeclaration(c, decl, propName, layout))

	edits := []TextEdit{Replace(decl.Span, strings.Join(parts, sep), c.Files().Text(decl.Span))}
	for _, ref := range c.ReferencesTo(id) {
		edits = append(edits, Replace(ref.Span, propName, fieldName))
	}
	return New(f.Title(), edits, WithCode(f.Code()), WithEquivalenceKey(f.EquivalenceKey())), true
}

// findField resolves the field a diagnostic was reported on by its
// identifier span.
func findField(c host.Compilation, name string, d *diag.Diagnostic) (host.SymbolID, *syntax.FieldDecl, bool) {
	for _, id := range c.DeclarationsOf(host.DeclField) {
		s := c.Symbol(id)
		if s == nil || s.Name != name || len(s.Decls) == 0 {
			continue
		}
		ref := s.Decls[0]
		if ref.Declarator == nil || ref.Declarator.Name.Span != d.Primary {
			continue
		}
		decl, ok := ref.Node.(*syntax.FieldDecl)
		if !ok {
			return host.NoSymbol, nil, false
		}
		return id, decl, true
	}
	return host.NoSymbol, nil, false
}

// attributeLayout is where each attribute of the field lands. lists keeps
// the source order of the declaration-level attributes, each already
// bracketed with its new target.
type attributeLayout struct {
	lists  []string
	getter []string
	setter []string
}

func redistribute(c host.Compilation, id host.SymbolID, decl *syntax.FieldDecl) (attributeLayout, bool) {
	resolved := make(map[*syntax.Attribute]host.AttributeData)
	for _, a := range c.Attributes(id) {
		if a.Syntax != nil {
			resolved[a.Syntax] = a
		}
	}
	var out attributeLayout
	for _, list := range decl.Attributes {
		for _, a := range list.Attributes {
			text := c.Files().Text(a.Span)
			switch list.Target {
			case "field":
				out.lists = append(out.lists, "[field: "+text+"]")
			case "property":
				out.lists = append(out.lists, "["+text+"]")
			case "get":
				out.getter = append(out.getter, text)
			case "set":
				out.setter = append(out.setter, text)
			case "":
				if data, ok := resolved[a]; ok && staysOnProperty(c, data) {
					out.lists = append(out.lists, "["+text+"]")
				} else {
					out.lists = append(out.lists, "[field: "+text+"]")
				}
			default:
				return attributeLayout{}, false
			}
		}
	}
	return out, true
}

func staysOnProperty(c host.Compilation, a host.AttributeData) bool {
	if a.Class == host.NoSymbol {
		return false
	}
	if propertyMarkers[c.FullMetadataName(a.Class)] {
		return true
	}
	return c.InheritsFrom(a.Class, validationAttribute)
}

func propertyDeclaration(c host.Compilation, decl *syntax.FieldDecl, name string, layout attributeLayout) string {
	var b strings.Builder
	b.WriteString("public ")
	if decl.Modifiers.Has(syntax.ModNew) {
		b.WriteString("new ")
	}
	if decl.Modifiers.Has(syntax.ModRequired) {
		b.WriteString("required ")
	}
	b.WriteString("partial ")
	b.WriteString(c.Files().Text(decl.Type.Span))
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(" { ")
	b.WriteString(accessor("get", layout.getter))
	b.WriteString(accessor("set", layout.setter))
	b.WriteString("}")
	return b.String()
}

func accessor(keyword string, attrs []string) string {
	if len(attrs) == 0 {
		return keyword + "; "
	}
	return "[" + strings.Join(attrs, ", ") + "] " + keyword + "; "
}

// lineIndent returns the whitespace between the start of the line holding
// offset and offset, or false when other text precedes offset on that line.
func lineIndent(content []byte, offset uint32) (string, bool) {
	start := int(offset)
	for start > 0 && content[start-1] != '\n' {
		start--
	}
	prefix := content[start:offset]
	for _, ch := range prefix {
		if ch != ' ' && ch != '\t' {
			return "", false
		}
	}
	return string(prefix), true
}
