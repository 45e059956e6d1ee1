// Package model holds the emission-ready descriptions produced by the
// generators. Models contain only strings, bools, integers and slices of
// them, so equal inputs encode to identical msgpack bytes.
package model

import (
	"strings"

	"mvvmgen/internal/naming"
)

// TypeInfo is one type of a containing-type chain.
type TypeInfo struct {
	// Keyword is the declaration keyword: "class" or "record".
	Keyword    string   `msgpack:"keyword"`
	Name       string   `msgpack:"name"`
	TypeParams []string `msgpack:"type_params,omitempty"`
}

// Hierarchy locates the type generated members are added to.
type Hierarchy struct {
	// MetadataName is the fully qualified metadata name (Outer+Inner`1).
	MetadataName string `msgpack:"metadata_name"`
	Namespace    string `msgpack:"namespace,omitempty"`
	// Types lists the containing types, outermost first.
	Types []TypeInfo `msgpack:"types"`
}

var hintReplacer = strings.NewReplacer("`", "_", "+", ".")

// HintBase is the metadata name made safe for a file name.
func (h Hierarchy) HintBase() string { return hintReplacer.Replace(h.MetadataName) }

// Innermost returns the type members are generated into.
func (h Hierarchy) Innermost() TypeInfo {
	if len(h.Types) == 0 {
		return TypeInfo{}
	}
	return h.Types[len(h.Types)-1]
}

// NamedArg is a rendered `Name = value` attribute argument.
type NamedArg struct {
	Name  string `msgpack:"name"`
	Value string `msgpack:"value"`
}

// AttributeInfo is a forwarded attribute with its arguments rendered as C#
// constant expressions.
type AttributeInfo struct {
	// Type is the fully qualified attribute class.
	Type  string     `msgpack:"type"`
	Args  []string   `msgpack:"args,omitempty"`
	Named []NamedArg `msgpack:"named,omitempty"`
}

// String renders the attribute without brackets.
func (a AttributeInfo) String() string {
	if len(a.Args) == 0 && len(a.Named) == 0 {
		return a.Type
	}
	parts := make([]string, 0, len(a.Args)+len(a.Named))
	parts = append(parts, a.Args...)
	for _, n := range a.Named {
		parts = append(parts, n.Name+" = "+n.Value)
	}
	return a.Type + "(" + strings.Join(parts, ", ") + ")"
}

// CanExecuteKind is how the predicate member is bound to the command.
type CanExecuteKind uint8

const (
	CanExecuteNone CanExecuteKind = iota
	// CanExecuteMethodGroup passes the method as is: CanSave.
	CanExecuteMethodGroup
	// CanExecuteInvocationWithDiscard wraps a parameterless method: _ => CanSave().
	CanExecuteInvocationWithDiscard
	// CanExecutePropertyAccess reads a property: () => CanSave.
	CanExecutePropertyAccess
	// CanExecutePropertyAccessWithDiscard reads a property: _ => CanSave.
	CanExecutePropertyAccessWithDiscard
)

func (k CanExecuteKind) String() string {
	switch k {
	case CanExecuteMethodGroup:
		return "MethodGroup"
	case CanExecuteInvocationWithDiscard:
		return "MethodInvocationLambdaWithDiscard"
	case CanExecutePropertyAccess:
		return "PropertyAccessLambda"
	case CanExecutePropertyAccessWithDiscard:
		return "PropertyAccessLambdaWithDiscard"
	}
	return "None"
}

// CanExecute is the bound predicate of a command.
type CanExecute struct {
	Member string         `msgpack:"member,omitempty"`
	Kind   CanExecuteKind `msgpack:"kind"`
}

// AsyncOptions mirrors the toolkit's [Flags] AsyncRelayCommandOptions enum.
type AsyncOptions uint8

const (
	OptionsNone                          AsyncOptions = 0
	OptionsAllowConcurrentExecutions     AsyncOptions = 1 << 0
	OptionsFlowExceptionsToTaskScheduler AsyncOptions = 1 << 1
)

// EncodeOptions maps the two attribute switches to the options value.
func EncodeOptions(allowConcurrent, flowExceptions bool) AsyncOptions {
	switch {
	case allowConcurrent && flowExceptions:
		return OptionsAllowConcurrentExecutions | OptionsFlowExceptionsToTaskScheduler
	case allowConcurrent:
		return OptionsAllowConcurrentExecutions
	case flowExceptions:
		return OptionsFlowExceptionsToTaskScheduler
	}
	return OptionsNone
}

// CommandModel describes one generated relay command.
type CommandModel struct {
	Hierarchy  Hierarchy   `msgpack:"hierarchy"`
	MethodName string      `msgpack:"method"`
	Names      naming.Pair `msgpack:"names"`
	// InterfaceType, ClassType and DelegateType are fully qualified.
	InterfaceType string `msgpack:"interface_type"`
	ClassType     string `msgpack:"class_type"`
	DelegateType  string `msgpack:"delegate_type"`
	// TypeArgument is the command parameter type, empty when there is none.
	TypeArgument         string          `msgpack:"type_argument,omitempty"`
	IsAsync              bool            `msgpack:"async"`
	SupportsCancellation bool            `msgpack:"cancellation"`
	CanExecute           CanExecute      `msgpack:"can_execute"`
	Options              AsyncOptions    `msgpack:"options"`
	IncludeCancelCommand bool            `msgpack:"cancel_command"`
	CancelNames          naming.Pair     `msgpack:"cancel_names"`
	FieldAttributes      []AttributeInfo `msgpack:"field_attributes,omitempty"`
	PropertyAttributes   []AttributeInfo `msgpack:"property_attributes,omitempty"`
}

// Origin is where an observable property comes from.
type Origin uint8

const (
	OriginField Origin = iota
	OriginPartialProperty
)

// PropertyModel describes one generated observable property.
type PropertyModel struct {
	Hierarchy Hierarchy `msgpack:"hierarchy"`
	Origin    Origin    `msgpack:"origin"`
	// Type is the fully qualified property type.
	Type  string      `msgpack:"type"`
	Names naming.Pair `msgpack:"names"`
	// Modifiers precede the type in the generated declaration.
	Modifiers       string `msgpack:"modifiers"`
	GetterModifiers string `msgpack:"getter_modifiers,omitempty"`
	SetterModifiers string `msgpack:"setter_modifiers,omitempty"`
	// SetterKeyword is "set" or "init".
	SetterKeyword       string          `msgpack:"setter_keyword"`
	DependentProperties []string        `msgpack:"dependent_properties,omitempty"`
	DependentCommands   []string        `msgpack:"dependent_commands,omitempty"`
	NotifyRecipients    bool            `msgpack:"notify_recipients"`
	NotifyDataErrorInfo bool            `msgpack:"notify_data_error_info"`
	SupportsChanging    bool            `msgpack:"supports_changing"`
	Attributes          []AttributeInfo `msgpack:"attributes,omitempty"`
	IsRequired          bool            `msgpack:"required"`
}

// RecipientModel lists the messages a recipient type is registered for.
type RecipientModel struct {
	Hierarchy Hierarchy `msgpack:"hierarchy"`
	// TypeName is the fully qualified recipient type.
	TypeName string   `msgpack:"type_name"`
	Messages []string `msgpack:"messages"`
}
