package value

import (
	"fmt"
	"strconv"
)

// --------------------------------------------------------------------------
// Type enumeration
// --------------------------------------------------------------------------

// Type is the closed set of value types an entry can hold.
type Type int

const (
	TypeInt8 Type = iota
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeBool
	TypeString
)

// canonical names, indexed by Type
var typeNames = [...]string{
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat32: "float",
	TypeFloat64: "double",
	TypeBool:    "bool",
	TypeString:  "string",
}

// Types returns all valid types in tag order
func Types() []Type {
	return []Type{TypeInt8, TypeInt16, TypeInt32, TypeInt64, TypeFloat32, TypeFloat64, TypeBool, TypeString}
}

// Valid reports whether t is one of the eight known tags
func (t Type) Valid() bool {
	return t >= TypeInt8 && t <= TypeString
}

// Name returns the canonical name of t.
// It fails with InvalidType for a corrupt tag.
func (t Type) Name() (string, error) {
	if !t.Valid() {
		return "", invalidTypeTag(t)
	}
	return typeNames[t], nil
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("unknown(%d)", int(t))
	}
	return typeNames[t]
}

// --------------------------------------------------------------------------
// Value variants
// --------------------------------------------------------------------------

// Value is a typed value. It is implemented by exactly the eight types
// below, so a type switch over them is exhaustive.
type Value interface {
	// Type returns the tag of the value
	Type() Type
	// String renders the value in its canonical textual form
	String() string

	value()
}

type (
	Int8    int8
	Int16   int16
	Int32   int32
	Int64   int64
	Float32 float32
	Float64 float64
	Bool    bool
	String  string
)

func (Int8) Type() Type    { return TypeInt8 }
func (Int16) Type() Type   { return TypeInt16 }
func (Int32) Type() Type   { return TypeInt32 }
func (Int64) Type() Type   { return TypeInt64 }
func (Float32) Type() Type { return TypeFloat32 }
func (Float64) Type() Type { return TypeFloat64 }
func (Bool) Type() Type    { return TypeBool }
func (String) Type() Type  { return TypeString }

func (v Int8) String() string  { return strconv.FormatInt(int64(v), 10) }
func (v Int16) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Int32) String() string { return strconv.FormatInt(int64(v), 10) }
func (v Int64) String() string { return strconv.FormatInt(int64(v), 10) }

// float renders with exactly 7 fractional digits (C's "%.7f" on the promoted double)
func (v Float32) String() string { return strconv.FormatFloat(float64(v), 'f', 7, 64) }

// double renders with exactly 15 fractional digits
func (v Float64) String() string { return strconv.FormatFloat(float64(v), 'f', 15, 64) }

func (v Bool) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (v String) String() string { return string(v) }

func (Int8) value()    {}
func (Int16) value()   {}
func (Int32) value()   {}
func (Int64) value()   {}
func (Float32) value() {}
func (Float64) value() {}
func (Bool) value()    {}
func (String) value()  {}
