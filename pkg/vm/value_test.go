package vm

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{42, "42"},
		{-1.5, "-1.5"},
		{1e21, "1e+21"},
		{123456789012345680000, "123456789012345680000"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.expected {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruthiness(t *testing.T) {
	falsey := []Value{Undefined, Null, False, NumberValue(0), NaN, NewString("")}
	for _, v := range falsey {
		if v.IsTruthy() {
			t.Errorf("%s should be falsey", v.ToString())
		}
	}
	truthy := []Value{True, NumberValue(-1), NewString("0"), NewObjectValue(NewObject(nil))}
	for _, v := range truthy {
		if v.IsFalsey() {
			t.Errorf("%s should be truthy", v.ToString())
		}
	}
}

func TestEquality(t *testing.T) {
	obj := NewObjectValue(NewObject(nil))
	tests := []struct {
		a, b          Value
		strict, loose bool
	}{
		{NumberValue(1), NumberValue(1), true, true},
		{NumberValue(1), NewString("1"), false, true},
		{Null, Undefined, false, true},
		{Null, NumberValue(0), false, false},
		{NaN, NaN, false, false},
		{True, NumberValue(1), false, true},
		{obj, obj, true, true},
		{obj, NewObjectValue(NewObject(nil)), false, false},
		{NewString("a"), NewString("a"), true, true},
	}
	for _, tt := range tests {
		if got := tt.a.StrictlyEquals(tt.b); got != tt.strict {
			t.Errorf("%s === %s = %v, want %v", tt.a.ToString(), tt.b.ToString(), got, tt.strict)
		}
		if got := tt.a.LooselyEquals(tt.b); got != tt.loose {
			t.Errorf("%s == %s = %v, want %v", tt.a.ToString(), tt.b.ToString(), got, tt.loose)
		}
	}
}

func TestTypeName(t *testing.T) {
	in := New(WithConsole(&Recorder{}))
	fn := NewObjectValue(in.Realm().NewNativeFunction("f", nil))
	tests := map[string]Value{
		"undefined": Undefined,
		"object":    Null,
		"number":    NumberValue(1),
		"string":    NewString(""),
		"boolean":   True,
		"function":  fn,
	}
	for expected, v := range tests {
		if got := v.TypeName(); got != expected {
			t.Errorf("TypeName(%s) = %q, want %q", v.ToString(), got, expected)
		}
	}
	if got := NewObjectValue(NewArrayObject(nil, nil)).TypeName(); got != "object" {
		t.Errorf("array TypeName = %q", got)
	}
}
