// Package guard validates arguments at public API boundaries. Every check
// returns the value it was given or an *ArgumentError; none has side effects.
package guard

import (
	"cmp"
	"fmt"
)

// ArgumentErrorKind enumerates argument failures.
type ArgumentErrorKind uint8

const (
	ArgumentNull ArgumentErrorKind = iota + 1
	ArgumentEmpty
	ArgumentOutOfRange
	ArgumentInvalid
)

func (k ArgumentErrorKind) String() string {
	switch k {
	case ArgumentNull:
		return "ArgumentNull"
	case ArgumentEmpty:
		return "ArgumentEmpty"
	case ArgumentOutOfRange:
		return "ArgumentOutOfRange"
	case ArgumentInvalid:
		return "ArgumentInvalid"
	}
	return fmt.Sprintf("ArgumentErrorKind(%d)", k)
}

// ArgumentError reports an invalid argument.
type ArgumentError struct {
	Kind    ArgumentErrorKind
	Name    string
	Message string
}

func (e *ArgumentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message == "" {
		return fmt.Sprintf("%s: %s", e.Name, e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// NotNil fails with ArgumentNull when value is nil.
func NotNil[T any](value *T, name string) (*T, error) {
	if value == nil {
		return nil, &ArgumentError{Kind: ArgumentNull, Name: name, Message: "must not be nil"}
	}
	return value, nil
}

// NotEmpty fails with ArgumentEmpty when value is "".
func NotEmpty(value, name string) (string, error) {
	if value == "" {
		return value, &ArgumentError{Kind: ArgumentEmpty, Name: name, Message: "must not be empty"}
	}
	return value, nil
}

// InRange fails with ArgumentOutOfRange unless lo <= value <= hi.
func InRange[T cmp.Ordered](value, lo, hi T, name string) (T, error) {
	if value < lo || value > hi {
		return value, &ArgumentError{
			Kind:    ArgumentOutOfRange,
			Name:    name,
			Message: fmt.Sprintf("%v is outside [%v, %v]", value, lo, hi),
		}
	}
	return value, nil
}

// IsTrue fails with ArgumentInvalid when cond is false.
func IsTrue(cond bool, name, message string) (bool, error) {
	if !cond {
		return cond, &ArgumentError{Kind: ArgumentInvalid, Name: name, Message: message}
	}
	return cond, nil
}
