package vm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueType uint8

const (
	TypeUndefined ValueType = iota
	TypeNull
	TypeString
	TypeFloatNumber
	TypeBoolean
	TypeFunction
	TypeObject
	TypeArray
)

// String returns a human-readable string representation of the ValueType
func (vt ValueType) String() string {
	switch vt {
	case TypeNull:
		return "null"
	case TypeUndefined:
		return "undefined"
	case TypeString:
		return "string"
	case TypeFloatNumber:
		return "number"
	case TypeBoolean:
		return "boolean"
	case TypeFunction:
		return "function"
	case TypeObject:
		return "object"
	case TypeArray:
		return "array"
	default:
		return fmt.Sprintf("<unknown type: %d>", vt)
	}
}

// Value is a script value. Objects, arrays and functions are references;
// everything else is held inline.
type Value struct {
	typ ValueType
	num float64
	str string
	obj *PlainObject // object, array or function
}

var (
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBoolean, num: 1}
	False     = Value{typ: TypeBoolean, num: 0}
	NaN       = Value{typ: TypeFloatNumber, num: math.NaN()}
)

func NumberValue(value float64) Value {
	return Value{typ: TypeFloatNumber, num: value}
}

func BooleanValue(value bool) Value {
	if value {
		return True
	}
	return False
}

func NewString(value string) Value {
	return Value{typ: TypeString, str: value}
}

// NewObjectValue wraps an object.
func NewObjectValue(obj *PlainObject) Value {
	switch {
	case obj.function != nil:
		return Value{typ: TypeFunction, obj: obj}
	case obj.array != nil:
		return Value{typ: TypeArray, obj: obj}
	}
	return Value{typ: TypeObject, obj: obj}
}

func (v Value) Type() ValueType   { return v.typ }
func (v Value) IsNumber() bool    { return v.typ == TypeFloatNumber }
func (v Value) IsString() bool    { return v.typ == TypeString }
func (v Value) IsBoolean() bool   { return v.typ == TypeBoolean }
func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool      { return v.typ == TypeNull }
func (v Value) IsCallable() bool  { return v.typ == TypeFunction }
func (v Value) IsArray() bool     { return v.typ == TypeArray }

// IsObject reports whether v is a reference: an object, array or function.
func (v Value) IsObject() bool {
	return v.typ == TypeObject || v.typ == TypeArray || v.typ == TypeFunction
}

// TypeName returns the result of the typeof operator.
func (v Value) TypeName() string {
	switch v.typ {
	case TypeFunction:
		return "function"
	case TypeNull, TypeObject, TypeArray:
		return "object"
	default:
		return v.typ.String()
	}
}

func (v Value) AsFloat() float64 {
	if v.typ != TypeFloatNumber {
		panic("value is not a number")
	}
	return v.num
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value is not a string")
	}
	return v.str
}

func (v Value) AsBoolean() bool {
	if v.typ != TypeBoolean {
		panic("value is not a boolean")
	}
	return v.num != 0
}

// AsObject returns the object behind an object, array or function value.
func (v Value) AsObject() *PlainObject {
	if !v.IsObject() {
		panic("value is not an object")
	}
	return v.obj
}

func (v Value) AsFunction() *Function {
	if v.typ != TypeFunction {
		panic("value is not a function")
	}
	return v.obj.function
}

// cleanExponentialFormat removes leading zeros from exponent to match JS format
// e.g., "1e-07" -> "1e-7", "1e+25" -> "1e+25"
func cleanExponentialFormat(s string) string {
	i := strings.IndexAny(s, "eE")
	if i < 0 || i+1 >= len(s) || (s[i+1] != '+' && s[i+1] != '-') {
		return s
	}
	j := i + 2
	for j < len(s)-1 && s[j] == '0' {
		j++
	}
	return s[:i+2] + s[j:]
}

// FormatNumber renders f the way Number.prototype.toString does.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		// Covers -0.
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return cleanExponentialFormat(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToString converts primitives the way String(v) does. Objects need the
// interpreter to run their toString; here they render generically.
func (v Value) ToString() string {
	switch v.typ {
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeString:
		return v.str
	case TypeFloatNumber:
		return FormatNumber(v.num)
	case TypeBoolean:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case TypeFunction:
		return fmt.Sprintf("function %s() { [code] }", v.obj.function.Name)
	case TypeArray:
		parts := make([]string, len(v.obj.array))
		for i, el := range v.obj.array {
			if !el.IsUndefined() && !el.IsNull() {
				parts[i] = el.ToString()
			}
		}
		return strings.Join(parts, ",")
	default:
		if v.obj.primitive != nil {
			return v.obj.primitive.ToString()
		}
		return "[object Object]"
	}
}

// ToFloat converts v the way Number(v) does.
func (v Value) ToFloat() float64 {
	switch v.typ {
	case TypeFloatNumber:
		return v.num
	case TypeNull:
		return 0
	case TypeBoolean:
		return v.num
	case TypeString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case TypeObject:
		if v.obj.primitive != nil {
			return v.obj.primitive.ToFloat()
		}
		if v.obj.timestamp != nil {
			return *v.obj.timestamp
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

func (v Value) IsFalsey() bool {
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeBoolean:
		return v.num == 0
	case TypeFloatNumber:
		return v.num == 0 || math.IsNaN(v.num)
	case TypeString:
		return v.str == ""
	default:
		return false
	}
}

func (v Value) IsTruthy() bool {
	return !v.IsFalsey()
}

// --- Equality ---

// StrictlyEquals compares two values using `===`. NaN !== NaN. +0 === -0.
func (v Value) StrictlyEquals(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeUndefined, TypeNull:
		return true
	case TypeFloatNumber, TypeBoolean:
		return v.num == other.num
	case TypeString:
		return v.str == other.str
	default:
		return v.obj == other.obj
	}
}

// LooselyEquals compares two values using `==`.
func (v Value) LooselyEquals(other Value) bool {
	if v.typ == other.typ {
		return v.StrictlyEquals(other)
	}
	nullish := func(x Value) bool { return x.typ == TypeUndefined || x.typ == TypeNull }
	if nullish(v) || nullish(other) {
		return nullish(v) && nullish(other)
	}
	if v.IsObject() && other.IsObject() {
		return false
	}
	if v.IsObject() || other.IsObject() {
		// Compare the object's primitive form.
		if v.IsObject() {
			return NewString(v.ToString()).LooselyEquals(other)
		}
		return v.LooselyEquals(NewString(other.ToString()))
	}
	return v.ToFloat() == other.ToFloat()
}
