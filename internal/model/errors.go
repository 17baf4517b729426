package model

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching
var (
	ErrIncompleteData       = errors.New("incomplete document data")
	ErrUnsupportedKind      = errors.New("unsupported document kind")
	ErrUnsupportedExtension = errors.New("unsupported extension")
	ErrNumericFormat        = errors.New("invalid numeric format")
)

// IncompleteDataError reports a required business field that is absent
type IncompleteDataError struct {
	Field   string
	Message string
	Cause   error
}

func (e *IncompleteDataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("incomplete data: %s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("incomplete data: %s: %s", e.Field, e.Message)
}

func (e *IncompleteDataError) Is(target error) bool {
	return target == ErrIncompleteData
}

func (e *IncompleteDataError) Unwrap() error {
	return e.Cause
}

// NewIncompleteDataError creates a new incomplete data error
func NewIncompleteDataError(field, message string) *IncompleteDataError {
	return &IncompleteDataError{
		Field:   field,
		Message: message,
	}
}

// UnsupportedKindError reports an unrecognized document kind
type UnsupportedKindError struct {
	Value string
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported document kind: %q", e.Value)
}

func (e *UnsupportedKindError) Is(target error) bool {
	return target == ErrUnsupportedKind
}

// NewUnsupportedKindError creates a new unsupported kind error
func NewUnsupportedKindError(value string) *UnsupportedKindError {
	return &UnsupportedKindError{Value: value}
}

// UnsupportedExtensionError reports an unrecognized extension
type UnsupportedExtensionError struct {
	Value string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported extension: %q", e.Value)
}

func (e *UnsupportedExtensionError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// NewUnsupportedExtensionError creates a new unsupported extension error
func NewUnsupportedExtensionError(value string) *UnsupportedExtensionError {
	return &UnsupportedExtensionError{Value: value}
}

// NumericFormatError reports a monetary or quantity value that violates UBL lexical rules
type NumericFormatError struct {
	Field string
	Value string
	Rule  string
}

func (e *NumericFormatError) Error() string {
	return fmt.Sprintf("numeric format violation on %s: %s (rule=%s)", e.Field, e.Value, e.Rule)
}

func (e *NumericFormatError) Is(target error) bool {
	return target == ErrNumericFormat
}

// NewNumericFormatError creates a new numeric format error
func NewNumericFormatError(field, value, rule string) *NumericFormatError {
	return &NumericFormatError{
		Field: field,
		Value: value,
		Rule:  rule,
	}
}
