// Package naming derives generated member names from annotated declarations.
package naming

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"mvvmgen/internal/guard"
)

// FieldStyle selects how backing field names are spelled.
type FieldStyle uint8

const (
	// StyleUnderscore prefixes fields with '_' (_saveCommand).
	StyleUnderscore FieldStyle = iota
	// StyleCamel uses the bare lower-first name (saveCommand).
	StyleCamel
)

func (s FieldStyle) String() string {
	if s == StyleCamel {
		return "camel"
	}
	return "underscore"
}

// ParseFieldStyle maps a config spelling to a FieldStyle.
func ParseFieldStyle(s string) (FieldStyle, error) {
	switch strings.ToLower(s) {
	case "", "underscore":
		return StyleUnderscore, nil
	case "camel":
		return StyleCamel, nil
	}
	return StyleUnderscore, &guard.ArgumentError{
		Kind:    guard.ArgumentInvalid,
		Name:    "field_style",
		Message: fmt.Sprintf("unknown field style %q (want underscore or camel)", s),
	}
}

// Pair is a generated member name with its backing field.
type Pair struct {
	Field  string `msgpack:"field"`
	Member string `msgpack:"member"`
}

// CommandStem strips a leading "On" (when followed by a non-lowercase
// character) and, for task-returning methods, a trailing "Async".
func CommandStem(method string, taskReturning bool) string {
	stem := method
	if rest, ok := strings.CutPrefix(stem, "On"); ok && rest != "" {
		if r, _ := utf8.DecodeRuneInString(rest); !unicode.IsLower(r) {
			stem = rest
		}
	}
	if taskReturning {
		if rest, ok := strings.CutSuffix(stem, "Async"); ok && rest != "" {
			stem = rest
		}
	}
	return stem
}

// Command derives the command property and field for a method.
func Command(method string, taskReturning bool, style FieldStyle) (Pair, error) {
	if _, err := guard.NotEmpty(method, "method"); err != nil {
		return Pair{}, err
	}
	member := CommandStem(method, taskReturning) + "Command"
	return Pair{Field: FieldName(member, style), Member: member}, nil
}

// CancelCommand derives the cancel companion command names for a method.
func CancelCommand(method string, taskReturning bool, style FieldStyle) (Pair, error) {
	if _, err := guard.NotEmpty(method, "method"); err != nil {
		return Pair{}, err
	}
	member := CommandStem(method, taskReturning) + "CancelCommand"
	return Pair{Field: FieldName(member, style), Member: member}, nil
}

// FieldName spells the backing field for a generated member.
func FieldName(member string, style FieldStyle) string {
	lower := LowerFirst(member)
	if style == StyleUnderscore {
		return "_" + lower
	}
	return lower
}

// LowerFirst lowers the leading uppercase run of name, keeping the last
// capital of a run that starts the next word (URLLoad -> urlLoad).
func LowerFirst(name string) string {
	runes := []rune(name)
	n := 0
	for n < len(runes) && unicode.IsUpper(runes[n]) {
		n++
	}
	switch {
	case n == 0:
		return name
	case n > 1 && n < len(runes) && unicode.IsLower(runes[n]):
		n--
	}
	for i := range n {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// PropertyName derives the generated property name of an observable field:
// a leading "m_" or run of '_' is removed and the first letter raised.
// A field that is nothing but prefix keeps its name.
func PropertyName(field string) string {
	stem := field
	if rest, ok := strings.CutPrefix(stem, "m_"); ok {
		stem = rest
	} else {
		stem = strings.TrimLeft(stem, "_")
	}
	if stem == "" {
		return field
	}
	r, size := utf8.DecodeRuneInString(stem)
	return string(unicode.ToUpper(r)) + stem[size:]
}

// Observable derives the property and field pair for an observable field.
func Observable(field string) (Pair, error) {
	if _, err := guard.NotEmpty(field, "field"); err != nil {
		return Pair{}, err
	}
	return Pair{Field: field, Member: PropertyName(field)}, nil
}

// PartialProperty is the pair for a partial property implementation, whose
// storage is the `field` keyword.
func PartialProperty(property string) (Pair, error) {
	if _, err := guard.NotEmpty(property, "property"); err != nil {
		return Pair{}, err
	}
	return Pair{Field: "field", Member: property}, nil
}

// ChangedHook and ChangingHook name the partial methods the property setter calls.
func ChangedHook(property string) string  { return "On" + property + "Changed" }
func ChangingHook(property string) string { return "On" + property + "Changing" }
