package fgd

import (
	"errors"
	"fmt"
)

// ErrUnknownEnumValue marks an integer that matches no declared enum code.
// It is never clamped to a valid code.
var ErrUnknownEnumValue = errors.New("unknown enum value")

// ErrDuplicateEnumCode marks a schema-authoring error: two enum names
// sharing one integer code.
var ErrDuplicateEnumCode = errors.New("duplicate enum code")

// FieldError describes one key whose text did not parse as the field's
// declared type. Decoding collects these per entity and continues, so a
// single malformed key never hides the rest of the map.
type FieldError struct {
	Field string
	Text  string
	Type  Type
	Err   error
}

func (e *FieldError) Error() string {
	if e.Type == TypeNone {
		return fmt.Sprintf("%q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %q: cannot decode %q as %s: %v", e.Field, e.Text, e.Type, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
