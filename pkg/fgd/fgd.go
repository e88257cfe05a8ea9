// Package fgd holds the scalar value types and text codecs shared by the
// schema engine and the tools built on it. Map entities travel as flat
// string key/value pairs; everything here converts between those raw
// strings and the typed values the compiler consumes.
package fgd

import (
	"fmt"
	"math"
	"strconv"
)

// Type tags a field's scalar type.
type Type int

// TypeNone marks a diagnostic that is not about decoding a field's text,
// such as a failed bundle attachment. No field is ever declared with it.
const TypeNone Type = -1

const (
	TypeFloat Type = iota
	TypeU32
	TypeString
	TypeIntBool
	TypeOverride
	TypeColor
	TypeAngles
	TypeEnum
)

// String returns the type name used in diagnostics and schema export.
func (t Type) String() string {
	switch t {
	case TypeFloat:
		return "float"
	case TypeU32:
		return "integer"
	case TypeString:
		return "string"
	case TypeIntBool:
		return "intbool"
	case TypeOverride:
		return "override"
	case TypeColor:
		return "color"
	case TypeAngles:
		return "angles"
	case TypeEnum:
		return "choices"
	case TypeNone:
		return "none"
	default:
		return "unknown"
	}
}

// KeyValue is one entry of the flat text map entities are persisted as.
type KeyValue struct {
	Key   string
	Value string
}

// Override is a tri-state boolean used for settings that may inherit from a
// broader scope. The textual form matches the compiler convention:
// 0 unset, positive force-on, negative force-off.
type Override int8

const (
	Unset      Override = 0
	ForceTrue  Override = 1
	ForceFalse Override = -1
)

// Resolve turns the override plus a fallback into a concrete boolean.
// Unset defers to the fallback; the forced states ignore it.
func (o Override) Resolve(fallback bool) bool {
	switch o {
	case ForceTrue:
		return true
	case ForceFalse:
		return false
	default:
		return fallback
	}
}

func (o Override) String() string {
	switch o {
	case ForceTrue:
		return "force-true"
	case ForceFalse:
		return "force-false"
	default:
		return "unset"
	}
}

// Srgb is an RGB color, stored normalized to [0,1] per component.
type Srgb struct {
	R, G, B float32
}

// White255 is the compiler's default light color ("255 255 255").
var White255 = Srgb{1, 1, 1}

// Angles is a yaw/pitch/roll direction in degrees, in textual order.
// Values are preserved verbatim; no range clamping happens at decode time.
type Angles struct {
	Yaw, Pitch, Roll float32
}

// EnumValue is one named code of a numeric-coded enumeration.
type EnumValue struct {
	Name string
	Code int
}

// EnumSpec is a closed set of named integer codes.
type EnumSpec struct {
	Name   string
	Values []EnumValue
}

// NameFor returns the declared name for a code.
func (e *EnumSpec) NameFor(code int) (string, bool) {
	for _, v := range e.Values {
		if v.Code == code {
			return v.Name, true
		}
	}
	return "", false
}

// Validate checks that codes are injective and names are present.
func (e *EnumSpec) Validate() error {
	seen := make(map[int]string, len(e.Values))
	for _, v := range e.Values {
		if v.Name == "" {
			return fmt.Errorf("enum %s: code %d has no name", e.Name, v.Code)
		}
		if prev, ok := seen[v.Code]; ok {
			return fmt.Errorf("enum %s: %w: code %d used by %q and %q",
				e.Name, ErrDuplicateEnumCode, v.Code, prev, v.Name)
		}
		seen[v.Code] = v.Name
	}
	return nil
}

// formatFloat renders a float32 in its shortest exact form, so integral
// values encode without a fractional part ("89", "-90", "0.5").
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', -1, 32)
}

// roundByte clamps and rounds a normalized component to the 0-255 display form.
func roundByte(f float32) int {
	v := int(math.Round(float64(f) * 255))
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
