package lib

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateKind is returned when an attribute kind is registered twice.
	ErrDuplicateKind = errors.New("libgen: duplicate attribute kind")

	// ErrUnknownKind is returned for attribute kinds that were never registered.
	ErrUnknownKind = errors.New("libgen: unknown attribute kind")

	// ErrInvalidValue is returned when a value does not fit its kind's shape.
	ErrInvalidValue = errors.New("libgen: invalid attribute value")

	// ErrInvalidName is returned for empty or malformed symbol names.
	ErrInvalidName = errors.New("libgen: invalid symbol name")

	// ErrDuplicateName is returned when a catalog already holds a symbol name.
	ErrDuplicateName = errors.New("libgen: duplicate symbol name")

	// ErrMissingAttribute is returned when generation preconditions fail.
	ErrMissingAttribute = errors.New("libgen: missing attribute")

	// ErrMalformedInput is returned when library text does not parse.
	ErrMalformedInput = errors.New("libgen: malformed input")

	ErrRegistrySealed = errors.New("libgen: registry is sealed")
	ErrNoRule         = errors.New("libgen: no package family rule")
	ErrOwned          = errors.New("libgen: component is owned by another catalog")
	ErrUnsupported    = errors.New("libgen: operation not supported by format")
	ErrNotFound       = errors.New("libgen: component not found")
)

// AttributeError describes a rejected attribute.
type AttributeError struct {
	Kind   Kind
	Value  string
	Reason string
	err    error
}

func (e *AttributeError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s: %s", e.err, e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s: %s=%q: %s", e.err, e.Kind, e.Value, e.Reason)
}

// Unwrap returns the sentinel this error classifies as.
func (e *AttributeError) Unwrap() error {
	return e.err
}

func invalidValue(kind Kind, value, reason string) *AttributeError {
	return &AttributeError{Kind: kind, Value: value, Reason: reason, err: ErrInvalidValue}
}

func unknownKind(kind Kind) *AttributeError {
	return &AttributeError{Kind: kind, Reason: "not registered", err: ErrUnknownKind}
}

// MissingAttributeError lists the kinds a component lacks for a purpose.
type MissingAttributeError struct {
	Symbol  string
	Purpose Purpose
	Kinds   []Kind
}

func (e *MissingAttributeError) Error() string {
	names := make([]string, len(e.Kinds))
	for i, k := range e.Kinds {
		names[i] = string(k)
	}
	return fmt.Sprintf("libgen: %s: missing attribute for %s: %s",
		e.Symbol, e.Purpose, strings.Join(names, ", "))
}

// Is reports whether the target is ErrMissingAttribute.
func (e *MissingAttributeError) Is(err error) bool {
	return err == ErrMissingAttribute
}

// IsMissingAttribute returns true if the error is a MissingAttributeError.
func IsMissingAttribute(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingAttributeError
	return errors.As(err, &e) || errors.Is(err, ErrMissingAttribute)
}

// ParseError reports where library text stopped conforming to the grammar.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("libgen: malformed input at %d:%d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("libgen: malformed input: %s", e.Msg)
}

// Is reports whether the target is ErrMalformedInput.
func (e *ParseError) Is(err error) bool {
	return err == ErrMalformedInput
}

// IsMalformedInput returns true if the error is a ParseError.
func IsMalformedInput(err error) bool {
	if err == nil {
		return false
	}
	var e *ParseError
	return errors.As(err, &e) || errors.Is(err, ErrMalformedInput)
}

// EntityError ties a failure to the symbol it happened on.
type EntityError struct {
	Symbol string
	Err    error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s: %s", e.Symbol, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}
