package fgd

import (
	"fmt"
	"strconv"
	"strings"
)

// Decoder carries decode policy. The zero value is the permissive decoder:
// integer-boolean keys accept any integer, with nonzero meaning true, because
// the flat maps are hand-edited and the compiler tolerates stray values.
type Decoder struct {
	// StrictBool rejects integer-boolean text other than "0" and "1".
	// Useful for authoring-time validation of maps before a compile.
	StrictBool bool
}

// Decode converts raw key text into the typed value for t.
// enum is consulted only for TypeEnum.
func (d Decoder) Decode(t Type, enum *EnumSpec, text string) (any, error) {
	switch t {
	case TypeFloat:
		return decodeFloat(text)
	case TypeU32:
		return decodeU32(text)
	case TypeString:
		return text, nil
	case TypeIntBool:
		return d.decodeIntBool(text)
	case TypeOverride:
		return decodeOverride(text)
	case TypeColor:
		return decodeSrgb(text)
	case TypeAngles:
		return decodeAngles(text)
	case TypeEnum:
		return decodeEnum(enum, text)
	default:
		return nil, fmt.Errorf("unhandled type tag %d", t)
	}
}

// Encode renders a typed value in its canonical text form. Values produced
// by Decode and defaults declared in the schema always encode; a value of
// the wrong dynamic type renders as an empty string, which registry
// validation turns into a schema-authoring error before any entity decode.
func Encode(t Type, enum *EnumSpec, v any) string {
	switch t {
	case TypeFloat:
		if f, ok := v.(float32); ok {
			return formatFloat(f)
		}
	case TypeU32:
		if u, ok := v.(uint32); ok {
			return strconv.FormatUint(uint64(u), 10)
		}
	case TypeString:
		if s, ok := v.(string); ok {
			return s
		}
	case TypeIntBool:
		if b, ok := v.(bool); ok {
			if b {
				return "1"
			}
			return "0"
		}
	case TypeOverride:
		if o, ok := v.(Override); ok {
			switch o {
			case ForceTrue:
				return "1"
			case ForceFalse:
				return "-1"
			default:
				return "0"
			}
		}
	case TypeColor:
		if c, ok := v.(Srgb); ok {
			return fmt.Sprintf("%d %d %d", roundByte(c.R), roundByte(c.G), roundByte(c.B))
		}
	case TypeAngles:
		if a, ok := v.(Angles); ok {
			return formatFloat(a.Yaw) + " " + formatFloat(a.Pitch) + " " + formatFloat(a.Roll)
		}
	case TypeEnum:
		if code, ok := v.(int); ok {
			return strconv.Itoa(code)
		}
	}
	return ""
}

func decodeFloat(text string) (float32, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// decodeU32 accepts integer text that the engine may have serialized as a
// float ("32.00"), the same tolerance the map pipeline needs everywhere
// numbers pass through loosely-typed text.
func decodeU32(text string) (uint32, error) {
	text = strings.TrimSpace(text)
	if v, err := strconv.ParseUint(text, 10, 32); err == nil {
		return uint32(v), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > float64(^uint32(0)) || f != float64(uint64(f)) {
		return 0, fmt.Errorf("%q is not a valid uint32", text)
	}
	return uint32(f), nil
}

func parseIntTolerant(text string) (int64, error) {
	if v, err := strconv.ParseInt(text, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("%q is not a valid integer", text)
	}
	return int64(f), nil
}

func (d Decoder) decodeIntBool(text string) (bool, error) {
	text = strings.TrimSpace(text)
	if d.StrictBool {
		switch text {
		case "0":
			return false, nil
		case "1":
			return true, nil
		default:
			return false, fmt.Errorf("%q is not 0 or 1", text)
		}
	}
	v, err := parseIntTolerant(text)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

func decodeOverride(text string) (Override, error) {
	v, err := parseIntTolerant(strings.TrimSpace(text))
	if err != nil {
		return Unset, err
	}
	switch {
	case v > 0:
		return ForceTrue, nil
	case v < 0:
		return ForceFalse, nil
	default:
		return Unset, nil
	}
}

// decodeSrgb reads three whitespace-separated numbers. Components that all
// fit in [0,1] are taken as already normalized; otherwise they are read on
// the editor's 0-255 scale and divided down.
func decodeSrgb(text string) (Srgb, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return Srgb{}, fmt.Errorf("expected 3 components, got %d", len(parts))
	}
	var c [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return Srgb{}, err
		}
		c[i] = float32(f)
	}
	normalized := true
	for _, f := range c {
		if f < 0 || f > 1 {
			normalized = false
			break
		}
	}
	if !normalized {
		for i := range c {
			c[i] /= 255
		}
	}
	return Srgb{R: c[0], G: c[1], B: c[2]}, nil
}

func decodeAngles(text string) (Angles, error) {
	parts := strings.Fields(text)
	if len(parts) != 3 {
		return Angles{}, fmt.Errorf("expected 3 components, got %d", len(parts))
	}
	var a [3]float32
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return Angles{}, err
		}
		a[i] = float32(f)
	}
	return Angles{Yaw: a[0], Pitch: a[1], Roll: a[2]}, nil
}

func decodeEnum(enum *EnumSpec, text string) (int, error) {
	if enum == nil {
		return 0, fmt.Errorf("no enum spec declared")
	}
	v, err := parseIntTolerant(strings.TrimSpace(text))
	if err != nil {
		return 0, err
	}
	code := int(v)
	if _, ok := enum.NameFor(code); !ok {
		return 0, fmt.Errorf("%w: %d not in %s", ErrUnknownEnumValue, code, enum.Name)
	}
	return code, nil
}
