package diag

import (
	"fmt"
	"strconv"
	"strings"
)

// Code identifies a diagnostic descriptor. Toolkit rules use their numeric
// suffix (7 for MVVMTK0007); host compiler diagnostics live at hostCodeBase
// plus their CS number.
type Code uint16

const hostCodeBase Code = 10000

const (
	UnknownCode Code = 0

	// Command generator.
	InvalidRelayCommandMethodSignature            Code = 7
	InvalidCanExecuteMemberName                   Code = 9
	MultipleCanExecuteMemberNameMatches           Code = 10
	InvalidCanExecuteMember                       Code = 11
	InvalidConcurrentExecutionsOption             Code = 12
	MultipleRelayCommandMethodOverloads           Code = 23
	InvalidIncludeCancelCommandOption             Code = 25
	InvalidFlowExceptionsToTaskSchedulerOption    Code = 31
	InvalidForwardedAttributeOnRelayCommandMethod Code = 36
	AsyncVoidReturningRelayCommandMethod          Code = 39

	// Observable property generator.
	ObservablePropertyNameCollision            Code = 14
	NotifyPropertyChangedForInvalidTarget      Code = 15
	NotifyCanExecuteChangedForInvalidTarget    Code = 16
	InvalidContainingTypeForObservableProperty Code = 19
	InvalidNotifyRecipientsContainingType      Code = 20
	InvalidNotifyDataErrorInfoContainingType   Code = 21
	InvalidForwardedAttributeOnObservableField Code = 35
	InvalidObservablePropertyDeclaration       Code = 44

	// Host capability.
	PartialPropertyRequiresPreview Code = 41

	// Analyzers.
	FieldReferenceForObservablePropertyField Code = 34
	UseObservablePropertyOnPartialProperty   Code = 42

	// Reference host (C# front-end).
	HostUnexpectedCharacter Code = hostCodeBase + 1056
	HostIdentifierExpected  Code = hostCodeBase + 1001
	HostSemicolonExpected   Code = hostCodeBase + 1002
	HostTokenExpected       Code = hostCodeBase + 1003
	HostCloseParenExpected  Code = hostCodeBase + 1026
	HostUnterminatedComment Code = hostCodeBase + 1035
	HostNewlineInConstant   Code = hostCodeBase + 1010
	HostCloseBraceExpected  Code = hostCodeBase + 1513
	HostOpenBraceExpected   Code = hostCodeBase + 1514
	HostInvalidMemberToken  Code = hostCodeBase + 1519
	HostTypeNotFound        Code = hostCodeBase + 246
	HostDuplicateModifier   Code = hostCodeBase + 1004
)

// IsHost reports whether the code belongs to the host compiler namespace.
func (c Code) IsHost() bool { return c >= hostCodeBase }

// ID returns the stable external identifier ("MVVMTK0007", "CS1002").
func (c Code) ID() string {
	switch {
	case c == UnknownCode:
		return "MVVMTK0000"
	case c.IsHost():
		return fmt.Sprintf("CS%04d", uint16(c-hostCodeBase))
	default:
		return fmt.Sprintf("MVVMTK%04d", uint16(c))
	}
}

func (c Code) String() string { return c.ID() }

// Title returns the registered title of the code, or "" when unknown.
func (c Code) Title() string {
	if d, ok := Lookup(c); ok {
		return d.Title
	}
	return ""
}

// ParseID converts an external identifier back into a Code.
func ParseID(id string) (Code, bool) {
	if digits, ok := strings.CutPrefix(id, "MVVMTK"); ok {
		n, err := parseDigits(digits)
		return Code(n), err == nil && n != 0
	}
	if digits, ok := strings.CutPrefix(id, "CS"); ok {
		n, err := parseDigits(digits)
		if err != nil {
			return UnknownCode, false
		}
		return hostCodeBase + Code(n), true
	}
	return UnknownCode, false
}

func parseDigits(s string) (uint16, error) {
	if len(s) != 4 {
		return 0, fmt.Errorf("expected 4 digits, got %q", s)
	}
	n, err := strconv.ParseUint(s, 10, 16)
	return uint16(n), err
}
