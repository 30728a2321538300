package value

import (
	"errors"
	"strconv"
	"strings"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger(common.LogValue)

// forbidden in string values, otherwise a saved entry could not be read back
const stringReserved = ";\n"

// --------------------------------------------------------------------------
// Type name mapping
// --------------------------------------------------------------------------

// ParseType maps a canonical type name to its Type.
// The match is exact and case-sensitive.
func ParseType(name string) (Type, error) {
	if name == "" {
		return 0, common.NewError(common.RetCInvalidType, "empty type name")
	}
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}
	log.Debugf("%q is not a valid data type", name)
	return 0, common.NewError(common.RetCInvalidType, "data type %q is not a valid data type", name)
}

func invalidTypeTag(t Type) error {
	return common.NewError(common.RetCInvalidType, "data type tag %d is not a valid data type", int(t))
}

// --------------------------------------------------------------------------
// Value -> string
// --------------------------------------------------------------------------

// Format renders v in its canonical textual form.
func Format(v Value) (string, error) {
	if v == nil {
		return "", common.NewError(common.RetCInvalidArgument, "nil value")
	}
	if !v.Type().Valid() {
		return "", invalidTypeTag(v.Type())
	}
	return v.String(), nil
}

// --------------------------------------------------------------------------
// string -> Value
// --------------------------------------------------------------------------

// Parse converts s into a value of type t.
//
// int8, int16 and int32 are produced by parsing an int64 and casting it
// down. The cast truncates: "300" parsed as int8 yields 44 and no error.
func Parse(t Type, s string) (Value, error) {
	if s == "" {
		return nil, common.NewError(common.RetCInvalidArgument, "empty value for type %s", t)
	}

	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		i, err := ParseInt64(s)
		if err != nil {
			return nil, err
		}
		switch t {
		case TypeInt8:
			return Int8(int8(i)), nil
		case TypeInt16:
			return Int16(int16(i)), nil
		case TypeInt32:
			return Int32(int32(i)), nil
		default:
			return Int64(i), nil
		}
	case TypeFloat32:
		f, err := ParseFloat32(s)
		if err != nil {
			return nil, err
		}
		return Float32(f), nil
	case TypeFloat64:
		f, err := ParseFloat64(s)
		if err != nil {
			return nil, err
		}
		return Float64(f), nil
	case TypeBool:
		b, err := ParseBool(s)
		if err != nil {
			return nil, err
		}
		return Bool(b), nil
	case TypeString:
		if strings.ContainsAny(s, stringReserved) {
			return nil, common.NewError(common.RetCParseError, "string value %q contains a reserved character", s)
		}
		return String(s), nil
	default:
		return nil, invalidTypeTag(t)
	}
}

// ParseInt64 parses a base 10 integer. The whole input must be consumed.
func ParseInt64(s string) (int64, error) {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, numError(s, err)
	}
	return i, nil
}

// ParseFloat32 parses a single precision float. The whole input must be consumed.
func ParseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, numError(s, err)
	}
	return float32(f), nil
}

// ParseFloat64 parses a double precision float. The whole input must be consumed.
func ParseFloat64(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, numError(s, err)
	}
	return f, nil
}

// ParseBool accepts only the literals "true" and "false".
func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, common.NewError(common.RetCParseError, "invalid boolean value %q", s)
	}
}

// numError translates strconv failures into the fKV taxonomy
func numError(s string, err error) error {
	if errors.Is(err, strconv.ErrRange) {
		log.Debugf("%q value is out of range", s)
		return common.WrapError(common.RetCRangeError, err, "%q value is out of range", s)
	}
	log.Debugf("%q is not a number", s)
	return common.WrapError(common.RetCParseError, err, "%q is not a number", s)
}
