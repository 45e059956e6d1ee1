package generator

import (
	"mvvmgen/internal/model"
	"mvvmgen/internal/naming"
	"mvvmgen/internal/source"
)

// Facts are value-only snapshots of what a rule reads from the host. They
// hold no symbol handles and are hashed into the memoization key.

// Site names and locates the member a rule reports on.
type Site struct {
	// TypeName is the containing type as shown in messages.
	TypeName string      `msgpack:"type_name"`
	Member   string      `msgpack:"member"`
	Span     source.Span `msgpack:"span"`
}

// ForwardedAttribute is an attribute to copy onto a generated member.
type ForwardedAttribute struct {
	// Target is "field" or "property".
	Target  string              `msgpack:"target"`
	Written string              `msgpack:"written"`
	Span    source.Span         `msgpack:"span"`
	Valid   bool                `msgpack:"valid"`
	Info    model.AttributeInfo `msgpack:"info"`
}

// ReturnKind classifies the return type of a command method.
type ReturnKind uint8

const (
	ReturnOther ReturnKind = iota
	ReturnVoid
	// ReturnTask covers Task and every type derived from it.
	ReturnTask
)

// ParamFacts describe one command method parameter.
type ParamFacts struct {
	Type string `msgpack:"type"`
	// Eligible is false for by-ref, ref struct and pointer parameters.
	Eligible          bool `msgpack:"eligible"`
	CancellationToken bool `msgpack:"cancellation_token"`
}

// MemberKind classifies a CanExecute candidate member.
type MemberKind uint8

const (
	MemberOther MemberKind = iota
	MemberProperty
	MemberMethod
)

// PredicateMember is one member matching the CanExecute name.
type PredicateMember struct {
	Kind        MemberKind `msgpack:"kind"`
	ReturnsBool bool       `msgpack:"returns_bool"`
	IsIndexer   bool       `msgpack:"indexer"`
	// Params holds parameter types; ineligible parameters are "".
	Params []string `msgpack:"params,omitempty"`
}

// CommandFacts feed the relay command rules.
type CommandFacts struct {
	Site      Site              `msgpack:"site"`
	Hierarchy model.Hierarchy   `msgpack:"hierarchy"`
	Style     naming.FieldStyle `msgpack:"style"`
	// Duplicate is set when another [RelayCommand] method shares the name in
	// the type or any base type.
	Duplicate bool         `msgpack:"duplicate"`
	Return    ReturnKind   `msgpack:"return"`
	IsAsync   bool         `msgpack:"async"`
	Params    []ParamFacts `msgpack:"params,omitempty"`

	AllowConcurrent bool `msgpack:"allow_concurrent"`
	FlowExceptions  bool `msgpack:"flow_exceptions"`
	IncludeCancel   bool `msgpack:"include_cancel"`

	// CanExecute is the predicate name, empty when none was given.
	CanExecute     string            `msgpack:"can_execute,omitempty"`
	CanExecuteSpan source.Span       `msgpack:"can_execute_span"`
	Predicates     []PredicateMember `msgpack:"predicates,omitempty"`
	// Companion is set when CanExecute names a generated observable property;
	// CompanionBool records whether its type is bool.
	Companion     bool `msgpack:"companion"`
	CompanionBool bool `msgpack:"companion_bool"`

	Forwarded []ForwardedAttribute `msgpack:"forwarded,omitempty"`
}

// TargetName is one name listed by a notification attribute.
type TargetName struct {
	Name  string      `msgpack:"name"`
	Span  source.Span `msgpack:"span"`
	Valid bool        `msgpack:"valid"`
}

// PropertyFacts feed the observable property rules.
type PropertyFacts struct {
	Site      Site            `msgpack:"site"`
	Hierarchy model.Hierarchy `msgpack:"hierarchy"`
	Origin    model.Origin    `msgpack:"origin"`
	Type      string          `msgpack:"type"`

	// Declaration shape.
	IsStatic   bool `msgpack:"static"`
	IsConst    bool `msgpack:"const"`
	IsReadonly bool `msgpack:"readonly"`
	IsPartial  bool `msgpack:"partial"`
	IsIndexer  bool `msgpack:"indexer"`
	// HasDefinition reports a bodiless partial part carrying the accessors;
	// Implemented reports a part with accessor bodies.
	HasDefinition bool `msgpack:"definition"`
	Implemented   bool `msgpack:"implemented"`
	HasGetter     bool `msgpack:"getter"`
	// SetterKind is "set", "init" or "".
	SetterKind string `msgpack:"setter_kind,omitempty"`

	ContainingTypeOK bool   `msgpack:"containing_ok"`
	SupportsChanging bool   `msgpack:"supports_changing"`
	LangPreview      bool   `msgpack:"lang_preview"`
	LangVersion      string `msgpack:"lang_version"`

	NotifyFor      []TargetName `msgpack:"notify_for,omitempty"`
	NotifyCommands []TargetName `msgpack:"notify_commands,omitempty"`

	NotifyRecipients    bool `msgpack:"notify_recipients"`
	RecipientBaseOK     bool `msgpack:"recipient_base_ok"`
	NotifyDataErrorInfo bool `msgpack:"notify_data_error_info"`
	ValidatorBaseOK     bool `msgpack:"validator_base_ok"`

	Forwarded []ForwardedAttribute `msgpack:"forwarded,omitempty"`

	Modifiers       string `msgpack:"modifiers"`
	GetterModifiers string `msgpack:"getter_modifiers,omitempty"`
	SetterModifiers string `msgpack:"setter_modifiers,omitempty"`
	IsRequired      bool   `msgpack:"required"`
}

// RecipientFacts feed the messenger registration builder.
type RecipientFacts struct {
	Hierarchy model.Hierarchy `msgpack:"hierarchy"`
	TypeName  string          `msgpack:"type_name"`
	Messages  []string        `msgpack:"messages"`
}
