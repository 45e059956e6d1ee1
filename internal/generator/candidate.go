package generator

import (
	"context"

	"mvvmgen/internal/csharp/syntax"
	"mvvmgen/internal/host"
	"mvvmgen/internal/source"
)

// Well-known metadata names.
const (
	observablePropertyAttr   = "CommunityToolkit.Mvvm.ComponentModel.ObservablePropertyAttribute"
	notifyChangedForAttr     = "CommunityToolkit.Mvvm.ComponentModel.NotifyPropertyChangedForAttribute"
	notifyCanExecuteForAttr  = "CommunityToolkit.Mvvm.ComponentModel.NotifyCanExecuteChangedForAttribute"
	notifyDataErrorInfoAttr  = "CommunityToolkit.Mvvm.ComponentModel.NotifyDataErrorInfoAttribute"
	notifyRecipientsAttr     = "CommunityToolkit.Mvvm.ComponentModel.NotifyPropertyChangedRecipientsAttribute"
	observableObjectAttr     = "CommunityToolkit.Mvvm.ComponentModel.ObservableObjectAttribute"
	inotifyPropertyAttr      = "CommunityToolkit.Mvvm.ComponentModel.INotifyPropertyChangedAttribute"
	observableRecipientAttr  = "CommunityToolkit.Mvvm.ComponentModel.ObservableRecipientAttribute"
	observableRecipientType  = "CommunityToolkit.Mvvm.ComponentModel.ObservableRecipient"
	observableValidatorType  = "CommunityToolkit.Mvvm.ComponentModel.ObservableValidator"
	relayCommandAttr         = "CommunityToolkit.Mvvm.Input.RelayCommandAttribute"
	relayCommandInterface    = "CommunityToolkit.Mvvm.Input.IRelayCommand"
	recipientInterface       = "CommunityToolkit.Mvvm.Messaging.IRecipient`1"
	notifyPropertyChanged    = "System.ComponentModel.INotifyPropertyChanged"
	notifyPropertyChanging   = "System.ComponentModel.INotifyPropertyChanging"
	validationAttributeType  = "System.ComponentModel.DataAnnotations.ValidationAttribute"
	taskType                 = "System.Threading.Tasks.Task"
	cancellationTokenType    = "System.Threading.CancellationToken"
	booleanType              = "System.Boolean"
	voidType                 = "System.Void"
	inputNamespace           = "global::CommunityToolkit.Mvvm.Input."
)

// Kind is the feature a candidate triggers.
type Kind uint8

const (
	KindObservableField Kind = iota + 1
	KindObservableProperty
	KindRelayCommand
	KindRecipient
)

func (k Kind) String() string {
	switch k {
	case KindObservableField:
		return "observable-field"
	case KindObservableProperty:
		return "observable-property"
	case KindRelayCommand:
		return "relay-command"
	case KindRecipient:
		return "recipient"
	}
	return "unknown"
}

// Candidate is a declaration carrying a recognized marker. Marker is the
// zero value for type-level triggers.
type Candidate struct {
	Kind   Kind
	Symbol host.SymbolID
	// Type is the containing type; for recipients it is Symbol itself.
	Type   host.SymbolID
	Marker host.AttributeData
	// Span is the identifier of the first syntactic declaration.
	Span source.Span
}

// Detect lists the candidates of a compilation in declaration order: fields,
// properties, methods, then recipient types.
func Detect(ctx context.Context, c host.Compilation) ([]Candidate, error) {
	var out []Candidate
	scan := []struct {
		decl   host.DeclKind
		kind   Kind
		marker string
	}{
		{host.DeclField, KindObservableField, observablePropertyAttr},
		{host.DeclProperty, KindObservableProperty, observablePropertyAttr},
		{host.DeclMethod, KindRelayCommand, relayCommandAttr},
	}
	for _, sc := range scan {
		for _, id := range c.DeclarationsOf(sc.decl) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			marker, ok := findAttribute(c, id, sc.marker)
			if !ok {
				continue
			}
			s := c.Symbol(id)
			if !inPartialClassChain(c, s.Containing) {
				continue
			}
			out = append(out, Candidate{
				Kind:   sc.kind,
				Symbol: id,
				Type:   s.Containing,
				Marker: marker,
				Span:   identifierSpan(s),
			})
		}
	}
	for _, id := range c.DeclarationsOf(host.DeclType) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isRecipient(c, id) {
			out = append(out, Candidate{Kind: KindRecipient, Symbol: id, Type: id, Span: identifierSpan(c.Symbol(id))})
		}
	}
	return out, nil
}

// findAttribute returns the first attribute whose class has the metadata name.
func findAttribute(c host.Compilation, id host.SymbolID, metadataName string) (host.AttributeData, bool) {
	for _, a := range c.Attributes(id) {
		if a.Class.IsValid() && c.FullMetadataName(a.Class) == metadataName {
			return a, true
		}
	}
	return host.AttributeData{}, false
}

func hasAttribute(c host.Compilation, id host.SymbolID, metadataName string) bool {
	_, ok := findAttribute(c, id, metadataName)
	return ok
}

// inPartialClassChain reports whether t and every enclosing type is a
// partial class or record class.
func inPartialClassChain(c host.Compilation, t host.SymbolID) bool {
	if !t.IsValid() {
		return false
	}
	for cur := t; cur.IsValid(); cur = c.Symbol(cur).Containing {
		s := c.Symbol(cur)
		if s.Kind != host.KindType {
			break
		}
		if s.TypeKind != host.TypeClass || !s.Modifiers.Has(syntax.ModPartial) {
			return false
		}
	}
	return true
}

// isRecipient reports a non-abstract, non-generic class implementing
// IRecipient<TMessage>.
func isRecipient(c host.Compilation, id host.SymbolID) bool {
	s := c.Symbol(id)
	if s.TypeKind != host.TypeClass || s.Modifiers.Has(syntax.ModAbstract) || s.Modifiers.Has(syntax.ModStatic) {
		return false
	}
	for cur := id; cur.IsValid(); cur = c.Symbol(cur).Containing {
		if len(c.Symbol(cur).TypeParams) > 0 {
			return false
		}
	}
	return c.Implements(id, recipientInterface)
}

// identifierSpan locates the name of the first declaration of s.
func identifierSpan(s *host.Symbol) source.Span {
	if len(s.Decls) == 0 {
		return source.Span{}
	}
	ref := s.Decls[0]
	if ref.Declarator != nil {
		return ref.Declarator.Name.Span
	}
	switch d := ref.Node.(type) {
	case *syntax.PropertyDecl:
		return d.Name.Span
	case *syntax.MethodDecl:
		return d.Name.Span
	case *syntax.TypeDecl:
		return d.Name.Span
	}
	return ref.Span
}
