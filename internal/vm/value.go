package vm

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind is the runtime tag of a Value.
type ValueKind uint8

const (
	VKInvalid ValueKind = iota // no value, produced by void calls
	VKNull
	VKInt
	VKFloat
	VKBool
	VKString
	VKObject
	VKFunc
)

func (k ValueKind) String() string {
	switch k {
	case VKInvalid:
		return "void"
	case VKNull:
		return "null"
	case VKInt:
		return "int"
	case VKFloat:
		return "float"
	case VKBool:
		return "boolean"
	case VKString:
		return "string"
	case VKObject:
		return "object"
	case VKFunc:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a runtime value. Objects and function values are references.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Obj   *Object
	Fn    *FunctionObject
}

func IntValue(n int64) Value            { return Value{Kind: VKInt, Int: n} }
func FloatValue(f float64) Value        { return Value{Kind: VKFloat, Float: f} }
func BoolValue(b bool) Value            { return Value{Kind: VKBool, Bool: b} }
func StringValue(s string) Value        { return Value{Kind: VKString, Str: s} }
func NullValue() Value                  { return Value{Kind: VKNull} }
func ObjectValue(o *Object) Value       { return Value{Kind: VKObject, Obj: o} }
func FuncValue(f *FunctionObject) Value { return Value{Kind: VKFunc, Fn: f} }

// IsNull reports whether v holds no reference.
func (v Value) IsNull() bool {
	return v.Kind == VKNull || v.Kind == VKInvalid
}

// String returns the printable form used by println and string concatenation.
func (v Value) String() string {
	switch v.Kind {
	case VKInt:
		return strconv.FormatInt(v.Int, 10)
	case VKFloat:
		return formatFloat(v.Float)
	case VKBool:
		return strconv.FormatBool(v.Bool)
	case VKString:
		return v.Str
	case VKObject:
		return "<" + v.Obj.Name + " object>"
	case VKFunc:
		return "<function " + v.Fn.Name + ">"
	default:
		return "null"
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsInf(f, 0) || math.IsNaN(f) || strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

// asFloat widens a numeric value.
func (v Value) asFloat() float64 {
	if v.Kind == VKInt {
		return float64(v.Int)
	}
	return v.Float
}
