package routeconfig

import (
	"fmt"
	"regexp"
	"strconv"
)

// ParamType names the value type of a param segment.
type ParamType string

const (
	TypeString ParamType = "string"
	TypeInt    ParamType = "int"
	TypeUint   ParamType = "uint"
	TypeFloat  ParamType = "float"
	TypeBool   ParamType = "bool"
	TypeUUID   ParamType = "uuid"
)

// Value is a typed param value. A nil Value means unset.
//
// Parsed values are string (string, uuid), int64, uint64, float64 or bool.
type Value = any

// uuidRegex matches valid UUIDs.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// normalize maps the empty type to string.
func (t ParamType) normalize() ParamType {
	if t == "" {
		return TypeString
	}
	return t
}

// Valid reports whether t is a known type.
func (t ParamType) Valid() bool {
	switch t.normalize() {
	case TypeString, TypeInt, TypeUint, TypeFloat, TypeBool, TypeUUID:
		return true
	}
	return false
}

// String returns the normalized type name.
func (t ParamType) String() string {
	return string(t.normalize())
}

// Parse converts a path segment into a typed value.
func (t ParamType) Parse(segment string) (Value, error) {
	switch t.normalize() {
	case TypeString:
		return segment, nil
	case TypeInt:
		n, err := strconv.ParseInt(segment, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer: %s", segment)
		}
		return n, nil
	case TypeUint:
		n, err := strconv.ParseUint(segment, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unsigned integer: %s", segment)
		}
		return n, nil
	case TypeFloat:
		f, err := strconv.ParseFloat(segment, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid float: %s", segment)
		}
		return f, nil
	case TypeBool:
		b, err := strconv.ParseBool(segment)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean: %s", segment)
		}
		return b, nil
	case TypeUUID:
		if !uuidRegex.MatchString(segment) {
			return nil, fmt.Errorf("invalid UUID: %s", segment)
		}
		return segment, nil
	}
	return nil, fmt.Errorf("unknown param type %q", string(t))
}

// Format renders v as a path segment, accepting any Go integer, float,
// bool or string value compatible with t.
func (t ParamType) Format(v Value) (string, error) {
	if v == nil {
		return "", fmt.Errorf("param value is unset")
	}
	var seg string
	switch x := v.(type) {
	case string:
		seg = x
	case int:
		seg = strconv.FormatInt(int64(x), 10)
	case int8:
		seg = strconv.FormatInt(int64(x), 10)
	case int16:
		seg = strconv.FormatInt(int64(x), 10)
	case int32:
		seg = strconv.FormatInt(int64(x), 10)
	case int64:
		seg = strconv.FormatInt(x, 10)
	case uint:
		seg = strconv.FormatUint(uint64(x), 10)
	case uint8:
		seg = strconv.FormatUint(uint64(x), 10)
	case uint16:
		seg = strconv.FormatUint(uint64(x), 10)
	case uint32:
		seg = strconv.FormatUint(uint64(x), 10)
	case uint64:
		seg = strconv.FormatUint(x, 10)
	case float32:
		seg = strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		seg = strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		seg = strconv.FormatBool(x)
	case fmt.Stringer:
		seg = x.String()
	default:
		return "", fmt.Errorf("unsupported param value type %T", v)
	}
	// The rendered segment must parse back as t.
	if _, err := t.Parse(seg); err != nil {
		return "", err
	}
	return seg, nil
}
