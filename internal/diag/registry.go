package diag

import (
	"slices"
	"strconv"
	"strings"
)

// Family groups descriptors by the component that owns them.
type Family string

const (
	FamilyCommand  Family = "RelayCommandGenerator"
	FamilyProperty Family = "ObservablePropertyGenerator"
	FamilyAnalyzer Family = "Usage"
	FamilyHost     Family = "Compiler"
)

const helpLinkFormat = "https://aka.ms/mvvmtoolkit/errors/"

// Descriptor is the immutable registry entry of one diagnostic.
type Descriptor struct {
	Code     Code
	Family   Family
	Severity Severity
	Title    string
	// Format uses {0}, {1}, ... placeholders filled from Diagnostic.Args.
	Format string
	// Since is the release the descriptor first shipped in.
	Since string
}

// ID returns the external identifier of the descriptor.
func (d Descriptor) ID() string { return d.Code.ID() }

// HelpLink returns the documentation URL; host diagnostics have none.
func (d Descriptor) HelpLink() string {
	if d.Code.IsHost() {
		return ""
	}
	return helpLinkFormat + strings.ToLower(d.ID())
}

// Message formats the descriptor message with args. Missing args leave the
// placeholder untouched.
func (d Descriptor) Message(args ...string) string {
	if len(args) == 0 || !strings.Contains(d.Format, "{") {
		return d.Format
	}
	var sb strings.Builder
	s := d.Format
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			sb.WriteString(s)
			break
		}
		closing := strings.IndexByte(s[open:], '}')
		if closing < 0 {
			sb.WriteString(s)
			break
		}
		closing += open
		idx, err := strconv.Atoi(s[open+1 : closing])
		sb.WriteString(s[:open])
		if err != nil || idx < 0 || idx >= len(args) {
			sb.WriteString(s[open : closing+1])
		} else {
			sb.WriteString(args[idx])
		}
		s = s[closing+1:]
	}
	return sb.String()
}

// registry is append-only: never remove or renumber an entry. Severity changes
// need a migration in shipped.toml.
var registry = []Descriptor{
	{
		Code: InvalidRelayCommandMethodSignature, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid RelayCommand method signature",
		Format: "The method {0}.{1} cannot be used to generate a command property, as its signature isn't compatible with any of the existing relay command types",
	},
	{
		Code: InvalidCanExecuteMemberName, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid CanExecute member name",
		Format: "The CanExecute name must refer to a valid member, but \"{0}\" has no matches in type {1}",
	},
	{
		Code: MultipleCanExecuteMemberNameMatches, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Multiple CanExecute member name matches",
		Format: "The CanExecute name must refer to a single member, but \"{0}\" has multiple matches in type {1}",
	},
	{
		Code: InvalidCanExecuteMember, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "No valid CanExecute member",
		Format: "The CanExecute name must refer to a compatible member, but no valid members were found for \"{0}\" in type {1}",
	},
	{
		Code: InvalidConcurrentExecutionsOption, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid concurrency control option usage",
		Format: "The method {0}.{1} cannot be annotated with the [RelayCommand] attribute specifying a concurrency control option, as it maps to a non-asynchronous command type",
	},
	{
		Code: ObservablePropertyNameCollision, Family: FamilyProperty, Severity: SevError, Since: "1.0.0",
		Title:  "Name collision for generated property",
		Format: "The field {0}.{1} cannot be used to generate an observable property, as its name would collide with the field name (instance fields should use the \"lowerCamel\", \"_lowerCamel\" or \"m_lowerCamel\" pattern)",
	},
	{
		Code: NotifyPropertyChangedForInvalidTarget, Family: FamilyProperty, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid target name for [NotifyPropertyChangedFor]",
		Format: "The target(s) of [NotifyPropertyChangedFor] must be a (different) accessible property, but \"{0}\" has no matches in type {1}",
	},
	{
		Code: NotifyCanExecuteChangedForInvalidTarget, Family: FamilyProperty, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid target name for [NotifyCanExecuteChangedFor]",
		Format: "The target(s) of [NotifyCanExecuteChangedFor] must be an accessible IRelayCommand property, but \"{0}\" has no matches in type {1}",
	},
	{
		Code: InvalidContainingTypeForObservableProperty, Family: FamilyProperty, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid containing type for [ObservableProperty] member",
		Format: "The member {0}.{1} cannot have the [ObservableProperty] attribute, as its containing type doesn't inherit from ObservableObject, nor does it use [ObservableObject] or [INotifyPropertyChanged]",
	},
	{
		Code: InvalidNotifyRecipientsContainingType, Family: FamilyProperty, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid containing type for [ObservableProperty] member using [NotifyPropertyChangedRecipients]",
		Format: "The member {0}.{1} cannot use [NotifyPropertyChangedRecipients], as its containing type doesn't inherit from ObservableRecipient",
	},
	{
		Code: InvalidNotifyDataErrorInfoContainingType, Family: FamilyProperty, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid containing type for [ObservableProperty] member using [NotifyDataErrorInfo]",
		Format: "The member {0}.{1} cannot use [NotifyDataErrorInfo], as its containing type doesn't inherit from ObservableValidator",
	},
	{
		Code: MultipleRelayCommandMethodOverloads, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Multiple overloads for [RelayCommand] methods",
		Format: "The method {0}.{1} cannot be annotated with [RelayCommand], as it shares its name with another [RelayCommand] method in the same type or in a base type",
	},
	{
		Code: InvalidIncludeCancelCommandOption, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid IncludeCancelCommand option usage",
		Format: "The method {0}.{1} cannot be annotated with the [RelayCommand] attribute specifying to include a cancel command, as it does not map to an asynchronous command type taking a cancellation token",
	},
	{
		Code: InvalidFlowExceptionsToTaskSchedulerOption, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid task scheduler exception flow option usage",
		Format: "The method {0}.{1} cannot be annotated with the [RelayCommand] attribute specifying a task scheduler exception flow option, as it maps to a non-asynchronous command type",
	},
	{
		Code: FieldReferenceForObservablePropertyField, Family: FamilyAnalyzer, Severity: SevWarning, Since: "1.0.0",
		Title:  "Direct field reference to [ObservableProperty] backing field",
		Format: "The field {0} is annotated with [ObservableProperty] and should not be directly referenced (use the generated property {1} instead)",
	},
	{
		Code: InvalidForwardedAttributeOnObservableField, Family: FamilyProperty, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid property targeted attribute type",
		Format: "The field {0}.{1} annotated with [ObservableProperty] is using attribute \"{2}\" which could not be resolved or forwarded to the generated property",
	},
	{
		Code: InvalidForwardedAttributeOnRelayCommandMethod, Family: FamilyCommand, Severity: SevError, Since: "1.0.0",
		Title:  "Invalid field or property targeted attribute type",
		Format: "The method {0}.{1} annotated with [RelayCommand] is using attribute \"{2}\" which could not be resolved or forwarded to the generated command member",
	},
	{
		Code: AsyncVoidReturningRelayCommandMethod, Family: FamilyCommand, Severity: SevWarning, Since: "1.0.0",
		Title:  "Async void returning method annotated with RelayCommand",
		Format: "The method {0}.{1} annotated with [RelayCommand] is async void (make sure to return a Task type instead)",
	},
	{
		Code: PartialPropertyRequiresPreview, Family: FamilyProperty, Severity: SevError, Since: "1.1.0",
		Title:  "C# language version is not 'preview'",
		Format: "Using [ObservableProperty] on partial properties requires the C# language version to be set to 'preview' (current: {0})",
	},
	{
		Code: UseObservablePropertyOnPartialProperty, Family: FamilyAnalyzer, Severity: SevInfo, Since: "1.1.0",
		Title:  "Prefer using [ObservableProperty] on partial properties",
		Format: "The field {0}.{1} using [ObservableProperty] can be converted to a partial property instead, which is recommended",
	},
	{
		Code: InvalidObservablePropertyDeclaration, Family: FamilyProperty, Severity: SevError, Since: "1.1.0",
		Title:  "Invalid [ObservableProperty] declaration",
		Format: "The member {0}.{1} cannot be annotated with [ObservableProperty]: {2}",
	},

	{Code: HostIdentifierExpected, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Identifier expected", Format: "Identifier expected"},
	{Code: HostSemicolonExpected, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Semicolon expected", Format: "; expected"},
	{Code: HostTokenExpected, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Syntax error", Format: "Syntax error, '{0}' expected"},
	{Code: HostDuplicateModifier, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Duplicate modifier", Format: "Duplicate '{0}' modifier"},
	{Code: HostNewlineInConstant, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Newline in constant", Format: "Newline in constant"},
	{Code: HostCloseParenExpected, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Close parenthesis expected", Format: ") expected"},
	{Code: HostUnterminatedComment, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "End-of-file found", Format: "End-of-file found, '*/' expected"},
	{Code: HostUnexpectedCharacter, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Unexpected character", Format: "Unexpected character '{0}'"},
	{Code: HostCloseBraceExpected, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Close brace expected", Format: "} expected"},
	{Code: HostOpenBraceExpected, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Open brace expected", Format: "{ expected"},
	{Code: HostInvalidMemberToken, Family: FamilyHost, Severity: SevError, Since: "1.0.0", Title: "Invalid token", Format: "Invalid token '{0}' in class, record, struct, or interface member declaration"},
	{Code: HostTypeNotFound, Family: FamilyHost, Severity: SevWarning, Since: "1.0.0", Title: "Type or namespace not found", Format: "The type or namespace name '{0}' could not be found (are you missing a using directive or a reference?)"},
}

var byCode = func() map[Code]int {
	m := make(map[Code]int, len(registry))
	for i, d := range registry {
		m[d.Code] = i
	}
	return m
}()

// Lookup returns the descriptor registered for code.
func Lookup(code Code) (Descriptor, bool) {
	i, ok := byCode[code]
	if !ok {
		return Descriptor{}, false
	}
	return registry[i], true
}

// LookupID resolves an external identifier such as "MVVMTK0034".
func LookupID(id string) (Descriptor, bool) {
	code, ok := ParseID(strings.ToUpper(strings.TrimSpace(id)))
	if !ok {
		return Descriptor{}, false
	}
	return Lookup(code)
}

// Descriptors returns all descriptors ordered by identifier.
func Descriptors() []Descriptor {
	out := slices.Clone(registry)
	slices.SortFunc(out, func(a, b Descriptor) int { return strings.Compare(a.ID(), b.ID()) })
	return out
}
