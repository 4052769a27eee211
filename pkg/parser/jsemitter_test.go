package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEmitStatements(t *testing.T) {
	input := `function greeter(person) {
    return "Hello, " + person;
}
var u = greeter('x')
if (u === "y") { console.log(1) } else if (!u) { console.log(2) } else { console.log(3) }
var o = { a: 1, "b-c": 2 };
var f = function () {};
`
	expected := `function greeter(person) {
    return "Hello, " + person;
}
var u = greeter("x");
if (u === "y") {
    console.log(1);
} else if (!u) {
    console.log(2);
} else {
    console.log(3);
}
var o = { a: 1, "b-c": 2 };
var f = function () { };
`
	got := NewJSEmitter().Emit(parse(t, input))
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("emitted script mismatch (-want +got):\n%s", diff)
	}
}

func TestEmitTemplateAsConcat(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"s = `Hello, ${p.first} ${p.last}`", `s = "Hello, ".concat(p.first, " ").concat(p.last);`},
		{"s = `${a} ${b} ${c}`", `s = "".concat(a, " ").concat(b, " ").concat(c);`},
		{"s = `I'm ${this.fullName}`", `s = "I'm ".concat(this.fullName);`},
		{"s = `plain`", `s = "plain";`},
		{"s = `${a}`", `s = "".concat(a);`},
	}

	for _, tt := range tests {
		got := NewJSEmitter().Emit(parse(t, tt.input))
		if got != tt.expected+"\n" {
			t.Errorf("%s: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestEmitParenthesizesSynthesizedTrees(t *testing.T) {
	a := &Identifier{Value: "a"}
	b := &Identifier{Value: "b"}
	c := &Identifier{Value: "c"}

	tests := []struct {
		expr     Expression
		expected string
	}{
		{&InfixExpression{Left: &InfixExpression{Left: a, Operator: "+", Right: b}, Operator: "*", Right: c}, "(a + b) * c;\n"},
		{&InfixExpression{Left: a, Operator: "-", Right: &InfixExpression{Left: b, Operator: "-", Right: c}}, "a - (b - c);\n"},
		{&InfixExpression{Left: &InfixExpression{Left: a, Operator: "-", Right: b}, Operator: "-", Right: c}, "a - b - c;\n"},
		{&PrefixExpression{Operator: "!", Right: &InfixExpression{Left: a, Operator: "&&", Right: b}}, "!(a && b);\n"},
		{&MemberExpression{Object: a, Property: &Identifier{Value: "full name"}}, "a[\"full name\"];\n"},
		{&MemberExpression{Object: a, Property: &Identifier{Value: "café"}}, "a.café;\n"},
	}

	for _, tt := range tests {
		program := &Program{Statements: []Statement{&ExpressionStatement{Expression: tt.expr}}}
		if got := NewJSEmitter().Emit(program); got != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, got)
		}
	}
}

func TestEmitClassWrapper(t *testing.T) {
	name := &Identifier{Value: "C"}
	iife := &CallExpression{
		Function: &FunctionLiteral{
			Body: &BlockStatement{Statements: []Statement{&ReturnStatement{ReturnValue: name}}},
		},
	}
	program := &Program{Statements: []Statement{
		&VarStatement{Name: name, Value: &GroupedExpression{Expression: iife, ClassWrapper: true}},
	}}

	expected := "var C = /** @class */ (function () {\r\n  return C;\r\n}());\r\n"
	got := NewJSEmitter(WithIndent(2), WithNewline("\r\n")).Emit(program)
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestEmitSkipsTypeOnlyStatements(t *testing.T) {
	program := parse(t, "interface P { a: string }\ntype N = number\nlet x: N = 1")
	if got := NewJSEmitter().Emit(program); got != "let x = 1;\n" {
		t.Errorf("got %q", got)
	}
}

func TestQuoteString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, `"plain"`},
		{"a\"b\\\n", `"a\"b\\\n"`},
		{"it's", `"it's"`},
		{"\u2028", `"\u2028"`},
		{"\x01", `"\u0001"`},
	}
	for _, tt := range tests {
		if got := QuoteString(tt.in); got != tt.want {
			t.Errorf("QuoteString(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestEmitKeepsComments(t *testing.T) {
	input := `/**
 * Header.
 */
// lead
var C = /** @class */ (function () {
    function C(a) {
        this.a = a; // own
        /* two
           lines */
    }
    return C;
}());
if (C) {
    // only a comment
}
// end
`
	got := NewJSEmitter().Emit(parse(t, input))
	if diff := cmp.Diff(input, got); diff != "" {
		t.Errorf("emitted script mismatch (-want +got):\n%s", diff)
	}
}
